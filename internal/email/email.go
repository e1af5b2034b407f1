package email

import (
	"context"
	"fmt"

	"github.com/zvrva/shareit/internal/kafka"
)

type Sender struct{}

func NewSender() *Sender {
	return &Sender{}
}

func (s *Sender) Send(ctx context.Context, event kafka.BookingEvent) error {
	fmt.Printf("send email to %s about %s for booking %d (item %d, status %s)\n",
		event.BookerEmail, event.Type, event.BookingID, event.ItemID, event.Status)
	return nil
}
