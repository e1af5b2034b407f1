package booking

import (
	"time"

	"github.com/zvrva/shareit/internal/domain"
)

// filterByState applies the query-time state filter to a list already scoped
// to one user axis (booker or owner) and ordered by start descending. The
// same now is used for every row. The filters are not a partition: a WAITING
// booking whose dates span now also matches CURRENT.
func filterByState(bookings []domain.Booking, state domain.BookingState, now time.Time) []domain.Booking {
	if state == domain.BookingStateAll {
		return bookings
	}

	filtered := make([]domain.Booking, 0, len(bookings))
	for _, b := range bookings {
		if matchesState(b, state, now) {
			filtered = append(filtered, b)
		}
	}
	return filtered
}

func matchesState(b domain.Booking, state domain.BookingState, now time.Time) bool {
	switch state {
	case domain.BookingStateCurrent:
		return !b.Start.After(now) && !b.End.Before(now)
	case domain.BookingStatePast:
		return b.End.Before(now)
	case domain.BookingStateFuture:
		return b.Start.After(now)
	case domain.BookingStateWaiting:
		return b.Status == domain.BookingStatusWaiting
	case domain.BookingStateRejected:
		return b.Status == domain.BookingStatusRejected
	default:
		return true
	}
}
