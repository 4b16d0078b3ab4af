package models

import "time"

// User represents an account in the system.
type User struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"` // Never expose this to the client
	Avatar       string    `json:"avatar"`
	CreatedAt    time.Time `json:"date"`
}

// OwnerID implements auth.Owned; an account is owned by itself.
func (u User) OwnerID() string { return u.ID }

// UserSummary is the part of a user embedded into other documents.
type UserSummary struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Avatar string `json:"avatar"`
}
