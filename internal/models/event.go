package models

import "time"

// Event is an entry of the per-user activity log.
type Event struct {
	ID        string    `json:"id"`
	UserID    *string   `json:"userId,omitempty"` // Nullable for system-wide events
	Type      string    `json:"type"`             // e.g. "post.create", "profile.delete"
	Level     string    `json:"level"`            // e.g. "info", "warn"
	Message   string    `json:"message"`
	CreatedAt time.Time `json:"createdAt"`
}
