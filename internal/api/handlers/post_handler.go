package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/isdelr/devconnector-be/internal/common"
	"github.com/isdelr/devconnector-be/internal/services"
)

// PostHandler handles HTTP requests for posts, likes and comments.
type PostHandler struct {
	service services.PostServiceProvider
}

// NewPostHandler creates a new PostHandler.
func NewPostHandler(service services.PostServiceProvider) *PostHandler {
	return &PostHandler{service: service}
}

type textPayload struct {
	Text string `json:"text" validate:"required,notblank" msg:"Text is required"`
}

// Create publishes a new post as the caller.
func (h *PostHandler) Create(w http.ResponseWriter, r *http.Request) {
	id, ok := identity(w, r)
	if !ok {
		return
	}
	var payload textPayload
	if !decodeAndValidate(w, r, &payload) {
		return
	}

	post, err := h.service.Create(r.Context(), id, payload.Text)
	if err != nil {
		respondError(w, r, err, "Failed to create post")
		return
	}
	common.RespondWithJSON(w, http.StatusCreated, post)
}

// GetAll returns every post, newest first.
func (h *PostHandler) GetAll(w http.ResponseWriter, r *http.Request) {
	posts, err := h.service.List(r.Context())
	if err != nil {
		respondError(w, r, err, "Failed to list posts")
		return
	}
	common.RespondWithJSON(w, http.StatusOK, posts)
}

// Get returns one post.
func (h *PostHandler) Get(w http.ResponseWriter, r *http.Request) {
	post, err := h.service.Get(r.Context(), chi.URLParam(r, "post_id"))
	if err != nil {
		respondError(w, r, err, "Failed to load post")
		return
	}
	common.RespondWithJSON(w, http.StatusOK, post)
}

// Delete removes a post owned by the caller.
func (h *PostHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := identity(w, r)
	if !ok {
		return
	}
	if err := h.service.Delete(r.Context(), id, chi.URLParam(r, "post_id")); err != nil {
		respondError(w, r, err, "Failed to delete post")
		return
	}
	common.RespondWithMessage(w, http.StatusOK, "Post removed")
}

// Like adds the caller's like and returns the post's likes.
func (h *PostHandler) Like(w http.ResponseWriter, r *http.Request) {
	id, ok := identity(w, r)
	if !ok {
		return
	}
	likes, err := h.service.Like(r.Context(), id, chi.URLParam(r, "post_id"))
	if err != nil {
		respondError(w, r, err, "Failed to like post")
		return
	}
	common.RespondWithJSON(w, http.StatusOK, likes)
}

// Unlike removes the caller's like and returns the post's likes.
func (h *PostHandler) Unlike(w http.ResponseWriter, r *http.Request) {
	id, ok := identity(w, r)
	if !ok {
		return
	}
	likes, err := h.service.Unlike(r.Context(), id, chi.URLParam(r, "post_id"))
	if err != nil {
		respondError(w, r, err, "Failed to unlike post")
		return
	}
	common.RespondWithJSON(w, http.StatusOK, likes)
}

// AddComment prepends a comment by the caller and returns the post's comments.
func (h *PostHandler) AddComment(w http.ResponseWriter, r *http.Request) {
	id, ok := identity(w, r)
	if !ok {
		return
	}
	var payload textPayload
	if !decodeAndValidate(w, r, &payload) {
		return
	}

	comments, err := h.service.AddComment(r.Context(), id, chi.URLParam(r, "post_id"), payload.Text)
	if err != nil {
		respondError(w, r, err, "Failed to add comment")
		return
	}
	common.RespondWithJSON(w, http.StatusCreated, comments)
}

// DeleteComment removes a comment written by the caller and returns the remaining comments.
func (h *PostHandler) DeleteComment(w http.ResponseWriter, r *http.Request) {
	id, ok := identity(w, r)
	if !ok {
		return
	}
	comments, err := h.service.DeleteComment(r.Context(), id, chi.URLParam(r, "post_id"), chi.URLParam(r, "comment_id"))
	if err != nil {
		respondError(w, r, err, "Failed to delete comment")
		return
	}
	common.RespondWithJSON(w, http.StatusOK, comments)
}
