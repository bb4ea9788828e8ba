package models

import "time"

// Wire DTOs returned by the API. Field names follow the public contract of
// the service, not the storage layout.

type UserDTO struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

type CommentDTO struct {
	ID         int64     `json:"id"`
	Text       string    `json:"text"`
	AuthorName string    `json:"authorName"`
	Created    time.Time `json:"created"`
}

type ItemDTO struct {
	ID          int64        `json:"id"`
	Name        string       `json:"name"`
	Description string       `json:"description"`
	Available   bool         `json:"available"`
	RequestID   *int64       `json:"requestId,omitempty"`
	Comments    []CommentDTO `json:"comments"`
}

type BookingDTO struct {
	ID     int64     `json:"id"`
	ItemID int64     `json:"itemId"`
	Status Status    `json:"status"`
	Start  time.Time `json:"start"`
	End    time.Time `json:"end"`
	Item   ItemDTO   `json:"item"`
	Booker UserDTO   `json:"booker"`
}

// BookingRefDTO is the slim booking window attached to an owner's item list.
type BookingRefDTO struct {
	ID       int64     `json:"id"`
	BookerID int64     `json:"bookerId"`
	Start    time.Time `json:"start"`
	End      time.Time `json:"end"`
}

type ItemWithBookingsDTO struct {
	ID          int64          `json:"id"`
	Name        string         `json:"name"`
	Description string         `json:"description"`
	Available   bool           `json:"available"`
	LastBooking *BookingRefDTO `json:"lastBooking,omitempty"`
	NextBooking *BookingRefDTO `json:"nextBooking,omitempty"`
	Comments    []CommentDTO   `json:"comments"`
}

type ItemForRequestDTO struct {
	ID      int64  `json:"id"`
	Name    string `json:"name"`
	OwnerID int64  `json:"ownerId"`
}

type RequestDTO struct {
	ID          int64     `json:"id"`
	Description string    `json:"description"`
	Requester   UserDTO   `json:"requester"`
	Created     time.Time `json:"created"`
}

type RequestWithItemsDTO struct {
	ID          int64               `json:"id"`
	Description string              `json:"description"`
	Requester   UserDTO             `json:"requester"`
	Created     time.Time           `json:"created"`
	Items       []ItemForRequestDTO `json:"items"`
}
