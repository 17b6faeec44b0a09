package mercadopago

// DTOs for the slice of the MercadoPago REST surface this service consumes.
// Only the fields reconciliation and checkout need are mapped.

// AutoRecurring describes the billing cadence of a preapproval.
type AutoRecurring struct {
	Frequency         int     `json:"frequency"`
	FrequencyType     string  `json:"frequency_type"` // "months" or "years"
	TransactionAmount float64 `json:"transaction_amount"`
	CurrencyID        string  `json:"currency_id"`
}

// Preapproval is the provider's recurring-billing subscription object.
type Preapproval struct {
	ID                string        `json:"id"`
	Status            string        `json:"status"` // pending, authorized, approved, paused, cancelled
	Reason            string        `json:"reason"` // display name of the plan
	ExternalReference string        `json:"external_reference"` // our user id
	PayerEmail        string        `json:"payer_email"`
	PreapprovalPlanID string        `json:"preapproval_plan_id"`
	InitPoint         string        `json:"init_point"` // checkout URL
	AutoRecurring     AutoRecurring `json:"auto_recurring"`
}

// Payment is a single charge, possibly tied to a preapproval.
type Payment struct {
	ID                int64   `json:"id"`
	Status            string  `json:"status"` // approved, rejected, cancelled, ...
	PreapprovalID     string  `json:"preapproval_id"`
	TransactionAmount float64 `json:"transaction_amount"`
	CurrencyID        string  `json:"currency_id"`
}

// PaymentSearchResult is the envelope of GET /v1/payments/search.
type PaymentSearchResult struct {
	Results []Payment `json:"results"`
	Paging  struct {
		Total int `json:"total"`
	} `json:"paging"`
}

// CreatePlanRequest creates a preapproval plan (a reusable subscription template).
type CreatePlanRequest struct {
	Reason        string        `json:"reason"`
	AutoRecurring AutoRecurring `json:"auto_recurring"`
	BackURL       string        `json:"back_url,omitempty"`
}

// CreatePreapprovalRequest subscribes a payer to recurring billing.
type CreatePreapprovalRequest struct {
	Reason            string        `json:"reason"`
	ExternalReference string        `json:"external_reference"`
	PayerEmail        string        `json:"payer_email"`
	PreapprovalPlanID string        `json:"preapproval_plan_id,omitempty"`
	AutoRecurring     AutoRecurring `json:"auto_recurring"`
	BackURL           string        `json:"back_url,omitempty"`
	Status            string        `json:"status,omitempty"`
}
