package models

import "time"

// Request is a wish for an item that is not listed yet. Items created in
// response carry the request id, so requestors can see what showed up.
type Request struct {
	ID          int64     `json:"id" db:"id"`
	Description string    `json:"description" db:"description"`
	RequestorID int64     `json:"requestor_id" db:"requestor_id"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
}

// RequestDetails bundles a request with the items offered for it.
type RequestDetails struct {
	Request
	Items []Item `json:"items"`
}
