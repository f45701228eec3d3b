package booking

import (
	"net/http"
	"time"

	"github.com/gearshare/item-lending-backend/internal/pkg/apperror"
)

var (
	// ErrNotFound is also returned when the caller is not allowed to see the
	// booking, so that its existence is not revealed to unrelated users.
	ErrNotFound    = apperror.New(http.StatusNotFound, "Booking not found")
	ErrUnavailable = apperror.New(http.StatusBadRequest, "Item unavailable")
	// ErrOwnItem reports not-found instead of forbidden on purpose: a would-be
	// self-booker must not learn that the ownership check is what stopped them.
	ErrOwnItem = apperror.New(http.StatusNotFound, "The owner cannot book his item")
)

// IncorrectDateTimeError reports an invalid start/end pair, embedding both
// values for diagnosability.
func IncorrectDateTimeError(start, end time.Time) error {
	return apperror.Newf(http.StatusBadRequest, "Invalid booking date: start[%s] <<>> end[%s]",
		start.Format(time.RFC3339), end.Format(time.RFC3339))
}

// StatusAlreadySetError reports a redundant approve/reject transition.
func StatusAlreadySetError(current Status) error {
	return apperror.Newf(http.StatusBadRequest, "Status of booking is already %s", current)
}

// Status is the persisted lifecycle value of a booking.
type Status string

const (
	StatusWaiting  Status = "WAITING"
	StatusApproved Status = "APPROVED"
	StatusRejected Status = "REJECTED"
)

// State is a caller-supplied query filter classifying bookings relative to
// "now". It is not the booking's own status field: the WAITING and REJECTED
// values coincide with status names only by coincidence of naming.
type State string

const (
	StateAll      State = "ALL"
	StateCurrent  State = "CURRENT"
	StatePast     State = "PAST"
	StateFuture   State = "FUTURE"
	StateWaiting  State = "WAITING"
	StateRejected State = "REJECTED"
)

// ParseState validates a raw query-state value. An empty value defaults to ALL.
func ParseState(raw string) (State, error) {
	if raw == "" {
		return StateAll, nil
	}
	switch s := State(raw); s {
	case StateAll, StateCurrent, StatePast, StateFuture, StateWaiting, StateRejected:
		return s, nil
	default:
		return "", apperror.Newf(http.StatusBadRequest, "Unknown state: %s", raw)
	}
}

// Booking is a request by a booker to use an item for a time window, subject
// to owner approval. Status starts at WAITING and is written exactly once by
// the approve operation; bookings are never deleted here.
type Booking struct {
	ID        string
	ItemID    string
	BookerID  string
	Start     time.Time
	End       time.Time
	Status    Status
	CreatedAt time.Time
	UpdatedAt time.Time
}
