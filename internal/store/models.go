package store

import "time"

// Session is the per-owner accumulation of transcribed segments awaiting story
// generation. Segment order is server receive order; positions are assigned
// inside the append transaction.
type Session struct {
	OwnerID     string    `json:"ownerId"`
	Segments    []string  `json:"segments"`
	LastUpdated time.Time `json:"lastUpdated"`
}

// User is an account row consumed by the identity provider.
type User struct {
	ID           string
	Email        string
	PasswordHash string
	CreatedAt    time.Time
}
