// Package reconcile holds the pure subscription-status transition logic.
// The webhook service feeds it provider events; everything here is free of
// I/O so the transition table can be tested exhaustively.
package reconcile

import (
	"agencia_backend/internal/models"
)

// Event is a normalized provider notification.
type Event int

const (
	// EventPreapprovalAuthorized: preapproval created or re-fetched with
	// status authorized/approved.
	EventPreapprovalAuthorized Event = iota
	// EventPreapprovalCancelled: preapproval status changed to cancelled.
	EventPreapprovalCancelled
	// EventPreapprovalPaused: preapproval status changed to paused.
	EventPreapprovalPaused
	// EventPaymentApproved: an approved charge tied to a preapproval.
	EventPaymentApproved
	// EventPaymentRejected: a rejected or cancelled charge.
	EventPaymentRejected
)

// Effect describes what the store must do beside updating the status field.
type Effect int

const (
	// EffectNone: only the status changes; every other plan field is untouched.
	EffectNone Effect = iota
	// EffectStartPeriod: (re)compute subscription_start=now and
	// subscription_end = now + frequency x period, upserting the full row.
	EffectStartPeriod
	// EffectExtendPeriod: push subscription_end forward by one
	// frequency x period window.
	EffectExtendPeriod
)

// Outcome is the result of applying an event to a plan.
type Outcome struct {
	Status models.PlanStatus
	Effect Effect
}

// Apply maps a provider event onto the next plan status. The current status
// only matters in that the provider is authoritative: any current value is
// overwritten by the event's target.
func Apply(current models.PlanStatus, ev Event) Outcome {
	switch ev {
	case EventPreapprovalAuthorized:
		return Outcome{Status: models.PlanStatusActive, Effect: EffectStartPeriod}
	case EventPaymentApproved:
		return Outcome{Status: models.PlanStatusActive, Effect: EffectExtendPeriod}
	case EventPaymentRejected:
		return Outcome{Status: models.PlanStatusPending, Effect: EffectNone}
	case EventPreapprovalCancelled:
		return Outcome{Status: models.PlanStatusCancelled, Effect: EffectNone}
	case EventPreapprovalPaused:
		return Outcome{Status: models.PlanStatusInactive, Effect: EffectNone}
	}
	// Unknown events keep the current state.
	return Outcome{Status: current, Effect: EffectNone}
}

// PreapprovalEvent normalizes a provider preapproval status string.
// The bool is false when the status maps to no transition.
func PreapprovalEvent(status string) (Event, bool) {
	switch status {
	case "authorized", "approved":
		return EventPreapprovalAuthorized, true
	case "cancelled":
		return EventPreapprovalCancelled, true
	case "paused":
		return EventPreapprovalPaused, true
	}
	return 0, false
}

// PaymentEvent normalizes a provider payment status string.
func PaymentEvent(status string) (Event, bool) {
	switch status {
	case "approved":
		return EventPaymentApproved, true
	case "rejected", "cancelled":
		return EventPaymentRejected, true
	}
	return 0, false
}
