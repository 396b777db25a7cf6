package domain

import "time"

// Post is a single entry in the append-only post log.
type Post struct {
	ID        string    `json:"id,omitempty"`
	Title     string    `json:"title"`
	Content   string    `json:"content"    validate:"required"`
	Username  string    `json:"username"   validate:"required"`
	CreatedAt time.Time `json:"created_at" validate:"required"`
}

// AuthoredBy reports whether the post was written by any of the given usernames.
func (p Post) AuthoredBy(authors map[string]struct{}) bool {
	_, ok := authors[p.Username]
	return ok
}
