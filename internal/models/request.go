package models

import "time"

// Request is a rental request ("I am looking for X"); items may reference
// the request they were created to fulfil.
type Request struct {
	ID          int64     `json:"id"`
	RequesterID int64     `json:"requester_id"`
	Description string    `json:"description"`
	Created     time.Time `json:"created"`
}
