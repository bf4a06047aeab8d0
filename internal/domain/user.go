package domain

import "time"

type User struct {
	ID           string
	Username     string
	Email        string
	PasswordHash string // argon2 encoded
	Profile      Profile
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Profile is the public face of a user: everything rendered on their
// vanity page.
type Profile struct {
	Title   string `json:"title"`
	Bio     string `json:"bio"`
	Picture string `json:"picture"` // base64-encoded image data
	Links   []Link `json:"links"`
}

// Link is a single entry in the profile's ordered link list. IDs are
// client-generated UUIDs so the UI can reconcile reorders offline.
type Link struct {
	ID    string `json:"id"`
	Title string `json:"title"`
	URL   string `json:"url"`
}
