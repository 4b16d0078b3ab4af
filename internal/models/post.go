package models

import (
	"fmt"
	"time"
)

// Post is a status update. Likes and comments are embedded, newest first.
type Post struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user"`
	Text      string    `json:"text"`
	Name      string    `json:"name"`
	Avatar    string    `json:"avatar"`
	CreatedAt time.Time `json:"date"`

	// JSON string fields for DB storage
	LikesJSON    string `json:"-"`
	CommentsJSON string `json:"-"`

	Likes    []Like    `json:"likes"`
	Comments []Comment `json:"comments"`
}

// Like records that a user liked a post.
type Like struct {
	ID     string `json:"id"`
	UserID string `json:"user"`
}

// Comment is a reply attached to a post.
type Comment struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user"`
	Text      string    `json:"text"`
	Name      string    `json:"name"`
	Avatar    string    `json:"avatar"`
	CreatedAt time.Time `json:"date"`
}

// OwnerID implements auth.Owned.
func (p *Post) OwnerID() string { return p.UserID }

// OwnerID implements auth.Owned.
func (l Like) OwnerID() string { return l.UserID }

// OwnerID implements auth.Owned.
func (c Comment) OwnerID() string { return c.UserID }

// PrepareForSave marshals likes and comments into their JSON strings for DB storage.
func (p *Post) PrepareForSave() {
	p.LikesJSON = marshalList(p.Likes)
	p.CommentsJSON = marshalList(p.Comments)
}

// PrepareForAPI unmarshals likes and comments from their stored JSON strings.
func (p *Post) PrepareForAPI() error {
	if err := unmarshalField(p.LikesJSON, &p.Likes); err != nil {
		return fmt.Errorf("likes: %w", err)
	}
	if err := unmarshalField(p.CommentsJSON, &p.Comments); err != nil {
		return fmt.Errorf("comments: %w", err)
	}
	if p.Likes == nil {
		p.Likes = []Like{}
	}
	if p.Comments == nil {
		p.Comments = []Comment{}
	}
	return nil
}
