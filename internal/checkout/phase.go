package checkout

import (
	pkgerrors "github.com/angelmondragon/storefront-bff/pkg/errors"
)

// Phase is the single current step of a checkout.
type Phase string

const (
	PhaseAddressSelection Phase = "address_selection"
	PhaseOrderReview      Phase = "order_review"
	PhaseCardEntry        Phase = "card_entry"
	PhaseOTPChallenge     Phase = "otp_challenge"
	PhaseDone             Phase = "done"
)

// Event drives Transition.
type Event string

const (
	EventAddressSelected  Event = "address_selected"
	EventCODPlaced        Event = "cod_placed"
	EventSessionCreated   Event = "payment_session_created"
	EventPaymentSucceeded Event = "payment_succeeded"
	EventOTPRequired      Event = "otp_required"
	EventOTPVerified      Event = "otp_verified"
	EventBack             Event = "back"
)

var transitions = map[Phase]map[Event]Phase{
	PhaseAddressSelection: {
		EventAddressSelected: PhaseOrderReview,
	},
	PhaseOrderReview: {
		EventAddressSelected: PhaseOrderReview,
		EventCODPlaced:       PhaseDone,
		EventSessionCreated:  PhaseCardEntry,
	},
	PhaseCardEntry: {
		EventPaymentSucceeded: PhaseDone,
		EventOTPRequired:      PhaseOTPChallenge,
	},
	PhaseOTPChallenge: {
		EventOTPVerified: PhaseDone,
		EventBack:        PhaseCardEntry,
	},
}

// Transition returns the phase reached from `from` on event. Anything not in
// the table is a CodeStateConflict; done accepts no events.
func Transition(from Phase, event Event) (Phase, error) {
	if next, ok := transitions[from][event]; ok {
		return next, nil
	}
	return from, pkgerrors.New(pkgerrors.CodeStateConflict, "checkout step not allowed").
		WithDetails(map[string]any{"phase": string(from), "event": string(event)})
}

func (p Phase) String() string {
	return string(p)
}

func (p Phase) IsValid() bool {
	switch p {
	case PhaseAddressSelection, PhaseOrderReview, PhaseCardEntry, PhaseOTPChallenge, PhaseDone:
		return true
	}
	return false
}

// Terminal reports whether no further transitions exist.
func (p Phase) Terminal() bool {
	return p == PhaseDone
}
