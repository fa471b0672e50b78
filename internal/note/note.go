// Package note defines the domain types for Ansuz.
package note

import (
	"strings"
	"time"
)

// Note represents a single note record as persisted on disk.
type Note struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Content     string    `json:"content"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
	Attachments []string  `json:"attachments,omitempty"` // reserved, never populated
}

// Matches reports whether q is a case-insensitive substring of the
// note's title or content.
func (n Note) Matches(q string) bool {
	q = strings.ToLower(q)
	return strings.Contains(strings.ToLower(n.Title), q) ||
		strings.Contains(strings.ToLower(n.Content), q)
}
