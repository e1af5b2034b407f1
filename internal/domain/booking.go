package domain

import (
	"strings"
	"time"
)

type BookingStatus string

const (
	BookingStatusWaiting  BookingStatus = "WAITING"
	BookingStatusApproved BookingStatus = "APPROVED"
	BookingStatusRejected BookingStatus = "REJECTED"
	BookingStatusCanceled BookingStatus = "CANCELED" // reserved, nothing transitions into it yet
)

// BookingState is a query-time filter for booking listings. It is distinct
// from BookingStatus: CURRENT/PAST/FUTURE are computed from the booking dates
// relative to "now", WAITING/REJECTED match the persisted status.
type BookingState string

const (
	BookingStateAll      BookingState = "ALL"
	BookingStateCurrent  BookingState = "CURRENT"
	BookingStatePast     BookingState = "PAST"
	BookingStateFuture   BookingState = "FUTURE"
	BookingStateWaiting  BookingState = "WAITING"
	BookingStateRejected BookingState = "REJECTED"
)

// ParseBookingState is lenient: unknown or empty text resolves to ALL.
func ParseBookingState(s string) BookingState {
	switch state := BookingState(strings.ToUpper(strings.TrimSpace(s))); state {
	case BookingStateCurrent, BookingStatePast, BookingStateFuture,
		BookingStateWaiting, BookingStateRejected, BookingStateAll:
		return state
	default:
		return BookingStateAll
	}
}

type Booking struct {
	ID       int64
	Start    time.Time
	End      time.Time
	ItemID   int64
	BookerID int64
	Status   BookingStatus
	// Resolved by the repository join on the read path; nil on the write path.
	Item   *Item
	Booker *User
}

// BookingInfo is the (booking, booker) pair attached to item views as the
// last/next booking. Recomputed per read, never persisted.
type BookingInfo struct {
	ID       int64 `json:"id"`
	BookerID int64 `json:"bookerId"`
}
