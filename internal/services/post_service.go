package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/isdelr/devconnector-be/internal/auth"
	"github.com/isdelr/devconnector-be/internal/common"
	"github.com/isdelr/devconnector-be/internal/models"
	"github.com/rs/zerolog/log"
)

var (
	ErrPostNotFound    = common.E(common.ErrNotFound, "Post not found")
	ErrEmptyText       = common.E(common.ErrValidation, "Text is required")
	ErrCommentNotFound = common.E(common.ErrNotFound, "Comment does not exist")
	ErrAlreadyLiked    = common.E(common.ErrConflict, "Post already liked")
	ErrNotLiked        = common.E(common.ErrConflict, "Post has not yet been liked")
)

// Feed actions published after successful post writes.
const (
	ActionPostCreated    = "post.created"
	ActionPostDeleted    = "post.deleted"
	ActionLikesUpdated   = "post.likes"
	ActionCommentAdded   = "comment.added"
	ActionCommentRemoved = "comment.removed"
)

// Publisher receives post activity, e.g. a live feed hub.
type Publisher interface {
	Publish(action string, payload any)
}

type nopPublisher struct{}

func (nopPublisher) Publish(string, any) {}

// PostServiceProvider defines the interface for post services.
type PostServiceProvider interface {
	Create(ctx context.Context, id auth.Identity, text string) (models.Post, error)
	List(ctx context.Context) ([]models.Post, error)
	Get(ctx context.Context, postID string) (models.Post, error)
	Delete(ctx context.Context, id auth.Identity, postID string) error
	Like(ctx context.Context, id auth.Identity, postID string) ([]models.Like, error)
	Unlike(ctx context.Context, id auth.Identity, postID string) ([]models.Like, error)
	AddComment(ctx context.Context, id auth.Identity, postID, text string) ([]models.Comment, error)
	DeleteComment(ctx context.Context, id auth.Identity, postID, commentID string) ([]models.Comment, error)
}

// PostService provides business logic for posts, likes and comments.
type PostService struct {
	db           *sql.DB
	userService  UserServiceProvider
	eventService EventServiceProvider
	publisher    Publisher
}

// NewPostService creates a new PostService. publisher may be nil.
func NewPostService(db *sql.DB, userService UserServiceProvider, eventService EventServiceProvider, publisher Publisher) *PostService {
	if publisher == nil {
		publisher = nopPublisher{}
	}
	return &PostService{
		db:           db,
		userService:  userService,
		eventService: eventService,
		publisher:    publisher,
	}
}

const postColumns = "id, user_id, text, name, avatar, likes_json, comments_json, created_at"

func scanPost(scanner interface{ Scan(...any) error }) (models.Post, error) {
	var p models.Post
	var name, avatar, likes, comments sql.NullString
	if err := scanner.Scan(&p.ID, &p.UserID, &p.Text, &name, &avatar, &likes, &comments, &p.CreatedAt); err != nil {
		return p, err
	}
	p.Name = name.String
	p.Avatar = avatar.String
	p.LikesJSON = likes.String
	p.CommentsJSON = comments.String
	if err := p.PrepareForAPI(); err != nil {
		return p, fmt.Errorf("decode post %s: %w", p.ID, err)
	}
	return p, nil
}

// Create stores a new post. Name and avatar are read from the user store at
// creation time.
func (s *PostService) Create(ctx context.Context, id auth.Identity, text string) (models.Post, error) {
	if strings.TrimSpace(text) == "" {
		return models.Post{}, ErrEmptyText
	}
	user, err := s.userService.GetUserByID(ctx, id.String())
	if err != nil {
		return models.Post{}, err
	}

	post := models.Post{
		ID:        uuid.New().String(),
		UserID:    id.String(),
		Text:      strings.TrimSpace(text),
		Name:      user.Name,
		Avatar:    user.Avatar,
		CreatedAt: time.Now().UTC(),
	}
	post.PrepareForSave()

	_, err = s.db.ExecContext(ctx, "INSERT INTO posts ("+postColumns+") VALUES (?, ?, ?, ?, ?, ?, ?, ?)",
		post.ID, post.UserID, post.Text, post.Name, post.Avatar, post.LikesJSON, post.CommentsJSON, post.CreatedAt)
	if err != nil {
		return models.Post{}, fmt.Errorf("insert post: %w", err)
	}
	post.PrepareForAPI()

	s.recordEvent(ctx, id, "post.create", fmt.Sprintf("Post %s created", post.ID))
	s.publisher.Publish(ActionPostCreated, post)
	return post, nil
}

// List returns all posts, newest first.
func (s *PostService) List(ctx context.Context) ([]models.Post, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT "+postColumns+" FROM posts ORDER BY created_at DESC, rowid DESC")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	posts := []models.Post{}
	for rows.Next() {
		p, err := scanPost(rows)
		if err != nil {
			return nil, err
		}
		posts = append(posts, p)
	}
	return posts, rows.Err()
}

// Get returns a single post.
func (s *PostService) Get(ctx context.Context, postID string) (models.Post, error) {
	p, err := scanPost(s.db.QueryRowContext(ctx, "SELECT "+postColumns+" FROM posts WHERE id = ?", postID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.Post{}, ErrPostNotFound
		}
		return models.Post{}, err
	}
	return p, nil
}

// Delete removes a post owned by the caller.
func (s *PostService) Delete(ctx context.Context, id auth.Identity, postID string) error {
	post, err := s.Get(ctx, postID)
	if err != nil {
		return err
	}
	if !auth.Owns(&post, id) {
		return common.E(common.ErrForbidden, "User not authorized")
	}

	if _, err := s.db.ExecContext(ctx, "DELETE FROM posts WHERE id = ?", post.ID); err != nil {
		return fmt.Errorf("delete post: %w", err)
	}

	s.recordEvent(ctx, id, "post.delete", fmt.Sprintf("Post %s deleted", post.ID))
	s.publisher.Publish(ActionPostDeleted, map[string]string{"id": post.ID})
	return nil
}

// Like adds the caller to the front of the post's likes.
func (s *PostService) Like(ctx context.Context, id auth.Identity, postID string) ([]models.Like, error) {
	post, err := s.Get(ctx, postID)
	if err != nil {
		return nil, err
	}
	if _, liked := findLike(post.Likes, id); liked {
		return nil, ErrAlreadyLiked
	}

	post.Likes = append([]models.Like{{ID: uuid.New().String(), UserID: id.String()}}, post.Likes...)
	if err := s.save(ctx, &post); err != nil {
		return nil, err
	}

	s.publisher.Publish(ActionLikesUpdated, map[string]any{"id": post.ID, "likes": post.Likes})
	return post.Likes, nil
}

// Unlike removes the caller's like from the post.
func (s *PostService) Unlike(ctx context.Context, id auth.Identity, postID string) ([]models.Like, error) {
	post, err := s.Get(ctx, postID)
	if err != nil {
		return nil, err
	}
	i, liked := findLike(post.Likes, id)
	if !liked {
		return nil, ErrNotLiked
	}

	post.Likes = append(post.Likes[:i:i], post.Likes[i+1:]...)
	if err := s.save(ctx, &post); err != nil {
		return nil, err
	}

	s.publisher.Publish(ActionLikesUpdated, map[string]any{"id": post.ID, "likes": post.Likes})
	return post.Likes, nil
}

// AddComment prepends a comment by the caller to the post.
func (s *PostService) AddComment(ctx context.Context, id auth.Identity, postID, text string) ([]models.Comment, error) {
	if strings.TrimSpace(text) == "" {
		return nil, ErrEmptyText
	}
	user, err := s.userService.GetUserByID(ctx, id.String())
	if err != nil {
		return nil, err
	}
	post, err := s.Get(ctx, postID)
	if err != nil {
		return nil, err
	}

	comment := models.Comment{
		ID:        uuid.New().String(),
		UserID:    id.String(),
		Text:      strings.TrimSpace(text),
		Name:      user.Name,
		Avatar:    user.Avatar,
		CreatedAt: time.Now().UTC(),
	}
	post.Comments = append([]models.Comment{comment}, post.Comments...)
	if err := s.save(ctx, &post); err != nil {
		return nil, err
	}

	s.publisher.Publish(ActionCommentAdded, map[string]any{"id": post.ID, "comments": post.Comments})
	return post.Comments, nil
}

// DeleteComment removes a comment written by the caller. The post's owner has
// no authority over other users' comments.
func (s *PostService) DeleteComment(ctx context.Context, id auth.Identity, postID, commentID string) ([]models.Comment, error) {
	post, err := s.Get(ctx, postID)
	if err != nil {
		return nil, err
	}

	idx := -1
	for i, c := range post.Comments {
		if c.ID == commentID {
			idx = i
			break
		}
	}
	if idx < 0 {
		return nil, ErrCommentNotFound
	}
	if !auth.Owns(post.Comments[idx], id) {
		return nil, common.E(common.ErrForbidden, "User not authorized")
	}

	post.Comments = append(post.Comments[:idx:idx], post.Comments[idx+1:]...)
	if err := s.save(ctx, &post); err != nil {
		return nil, err
	}

	s.recordEvent(ctx, id, "comment.delete", fmt.Sprintf("Comment %s removed from post %s", commentID, post.ID))
	s.publisher.Publish(ActionCommentRemoved, map[string]any{"id": post.ID, "comments": post.Comments})
	return post.Comments, nil
}

// save writes likes and comments back. Concurrent writers race and the last write wins.
func (s *PostService) save(ctx context.Context, post *models.Post) error {
	post.PrepareForSave()
	_, err := s.db.ExecContext(ctx, "UPDATE posts SET likes_json = ?, comments_json = ? WHERE id = ?",
		post.LikesJSON, post.CommentsJSON, post.ID)
	if err != nil {
		return fmt.Errorf("save post %s: %w", post.ID, err)
	}
	return nil
}

func (s *PostService) recordEvent(ctx context.Context, id auth.Identity, eventType, message string) {
	userID := id.String()
	if err := s.eventService.CreateEvent(ctx, eventType, "info", message, &userID); err != nil {
		log.Warn().Err(err).Str("user_id", userID).Str("event_type", eventType).Msg("Failed to record event")
	}
}

func findLike(likes []models.Like, id auth.Identity) (int, bool) {
	for i, l := range likes {
		if auth.Owns(l, id) {
			return i, true
		}
	}
	return -1, false
}
