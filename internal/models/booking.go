package models

import "time"

// Status is the booking lifecycle tag, set by the item owner.
type Status string

const (
	StatusWaiting  Status = "WAITING"
	StatusApproved Status = "APPROVED"
	StatusRejected Status = "REJECTED"
)

// State classifies bookings for list queries relative to a single "now".
type State string

const (
	StateAll      State = "ALL"
	StatePast     State = "PAST"
	StateCurrent  State = "CURRENT"
	StateFuture   State = "FUTURE"
	StateWaiting  State = "WAITING"
	StateRejected State = "REJECTED"
)

// ParseState validates a state query parameter. Empty defaults to ALL.
func ParseState(raw string) (State, error) {
	if raw == "" {
		return StateAll, nil
	}
	switch State(raw) {
	case StateAll, StatePast, StateCurrent, StateFuture, StateWaiting, StateRejected:
		return State(raw), nil
	}
	return "", BadRequest("unknown booking state %q", raw)
}

// Booking is a half-open reservation [Start, End) of an item by a booker.
type Booking struct {
	ID       int64     `json:"id"`
	ItemID   int64     `json:"item_id"`
	BookerID int64     `json:"booker_id"`
	Start    time.Time `json:"start"`
	End      time.Time `json:"end"`
	Status   Status    `json:"status"`
}
