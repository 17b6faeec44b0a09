package models

// WebhookPayload is the provider notification body. Only the discriminator
// and the entity id are read; authoritative state is re-fetched from the
// provider, never trusted from the payload.
type WebhookPayload struct {
	Type   string `json:"type"` // "subscription_preapproval", "payment"
	Action string `json:"action"`
	Data   struct {
		ID string `json:"id"`
	} `json:"data"`
}
