package domain

import "time"

type User struct {
	ID    int64
	Name  string
	Email string
}

type ItemRequest struct {
	ID          int64
	Description string
	RequesterID int64
	Created     time.Time
	// Items offered in response to the request, resolved on read.
	Items []Item
}
