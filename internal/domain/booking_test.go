package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseBookingState(t *testing.T) {
	testCases := []struct {
		input string
		want  BookingState
	}{
		{input: "ALL", want: BookingStateAll},
		{input: "CURRENT", want: BookingStateCurrent},
		{input: "PAST", want: BookingStatePast},
		{input: "FUTURE", want: BookingStateFuture},
		{input: "WAITING", want: BookingStateWaiting},
		{input: "REJECTED", want: BookingStateRejected},
		{input: "waiting", want: BookingStateWaiting},
		{input: " rejected ", want: BookingStateRejected},
		// unknown text never errors, it falls back to ALL
		{input: "bogus", want: BookingStateAll},
		{input: "", want: BookingStateAll},
		{input: "CANCELED", want: BookingStateAll},
	}

	for _, tc := range testCases {
		t.Run(tc.input, func(t *testing.T) {
			assert.Equal(t, tc.want, ParseBookingState(tc.input))
		})
	}
}
