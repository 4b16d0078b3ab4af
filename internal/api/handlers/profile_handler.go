package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/isdelr/devconnector-be/internal/common"
	"github.com/isdelr/devconnector-be/internal/models"
	"github.com/isdelr/devconnector-be/internal/services"
)

// ProfileHandler handles HTTP requests for profiles and their experience and education entries.
type ProfileHandler struct {
	service services.ProfileServiceProvider
	github  services.GitHubServiceProvider
}

// NewProfileHandler creates a new ProfileHandler.
func NewProfileHandler(service services.ProfileServiceProvider, github services.GitHubServiceProvider) *ProfileHandler {
	return &ProfileHandler{service: service, github: github}
}

// profilePayload mirrors services.ProfileInput with validation messages.
type profilePayload struct {
	Company        string `json:"company"`
	Website        string `json:"website"`
	Location       string `json:"location"`
	Bio            string `json:"bio"`
	Status         string `json:"status" validate:"required,notblank" msg:"Status is required"`
	GitHubUsername string `json:"githubusername"`
	Skills         string `json:"skills" validate:"required,notblank" msg:"Skills is required"`
	YouTube        string `json:"youtube"`
	Twitter        string `json:"twitter"`
	Facebook       string `json:"facebook"`
	LinkedIn       string `json:"linkedin"`
	Instagram      string `json:"instagram"`
}

type experiencePayload struct {
	Title       string `json:"title" validate:"required,notblank" msg:"Title is required"`
	Company     string `json:"company" validate:"required,notblank" msg:"Company is required"`
	Location    string `json:"location"`
	From        string `json:"from" validate:"required,notblank" msg:"From date is required"`
	To          string `json:"to"`
	Current     bool   `json:"current"`
	Description string `json:"description"`
}

type educationPayload struct {
	School       string `json:"school" validate:"required,notblank" msg:"School is required"`
	Degree       string `json:"degree" validate:"required,notblank" msg:"Degree is required"`
	FieldOfStudy string `json:"fieldofstudy" validate:"required,notblank" msg:"Field of study is required"`
	From         string `json:"from" validate:"required,notblank" msg:"From date is required"`
	To           string `json:"to"`
	Current      bool   `json:"current"`
	Description  string `json:"description"`
}

// GetMine returns the caller's profile.
func (h *ProfileHandler) GetMine(w http.ResponseWriter, r *http.Request) {
	id, ok := identity(w, r)
	if !ok {
		return
	}
	profile, err := h.service.GetMine(r.Context(), id)
	if err != nil {
		respondError(w, r, err, "Failed to load own profile")
		return
	}
	common.RespondWithJSON(w, http.StatusOK, profile)
}

// Upsert creates or updates the caller's profile.
func (h *ProfileHandler) Upsert(w http.ResponseWriter, r *http.Request) {
	id, ok := identity(w, r)
	if !ok {
		return
	}
	var payload profilePayload
	if !decodeAndValidate(w, r, &payload) {
		return
	}

	profile, err := h.service.Upsert(r.Context(), id, services.ProfileInput(payload))
	if err != nil {
		respondError(w, r, err, "Failed to save profile")
		return
	}
	common.RespondWithJSON(w, http.StatusOK, profile)
}

// GetAll returns every profile.
func (h *ProfileHandler) GetAll(w http.ResponseWriter, r *http.Request) {
	profiles, err := h.service.List(r.Context())
	if err != nil {
		respondError(w, r, err, "Failed to list profiles")
		return
	}
	common.RespondWithJSON(w, http.StatusOK, profiles)
}

// GetByUser returns the profile of the user in the path.
func (h *ProfileHandler) GetByUser(w http.ResponseWriter, r *http.Request) {
	profile, err := h.service.GetByUserID(r.Context(), chi.URLParam(r, "user_id"))
	if err != nil {
		respondError(w, r, err, "Failed to load profile")
		return
	}
	common.RespondWithJSON(w, http.StatusOK, profile)
}

// Delete removes the caller's posts, profile and account.
func (h *ProfileHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := identity(w, r)
	if !ok {
		return
	}
	if err := h.service.DeleteAccount(r.Context(), id); err != nil {
		respondError(w, r, err, "Failed to delete account")
		return
	}
	common.RespondWithMessage(w, http.StatusOK, "User deleted")
}

// AddExperience prepends an experience entry to the caller's profile.
func (h *ProfileHandler) AddExperience(w http.ResponseWriter, r *http.Request) {
	id, ok := identity(w, r)
	if !ok {
		return
	}
	var payload experiencePayload
	if !decodeAndValidate(w, r, &payload) {
		return
	}

	profile, err := h.service.AddExperience(r.Context(), id, models.Experience{
		Title:       payload.Title,
		Company:     payload.Company,
		Location:    payload.Location,
		From:        payload.From,
		To:          payload.To,
		Current:     payload.Current,
		Description: payload.Description,
	})
	if err != nil {
		respondError(w, r, err, "Failed to add experience")
		return
	}
	common.RespondWithJSON(w, http.StatusOK, profile)
}

// DeleteExperience removes an experience entry from the caller's profile.
func (h *ProfileHandler) DeleteExperience(w http.ResponseWriter, r *http.Request) {
	id, ok := identity(w, r)
	if !ok {
		return
	}
	profile, err := h.service.DeleteExperience(r.Context(), id, chi.URLParam(r, "exp_id"))
	if err != nil {
		respondError(w, r, err, "Failed to delete experience")
		return
	}
	common.RespondWithJSON(w, http.StatusOK, profile)
}

// AddEducation prepends an education entry to the caller's profile.
func (h *ProfileHandler) AddEducation(w http.ResponseWriter, r *http.Request) {
	id, ok := identity(w, r)
	if !ok {
		return
	}
	var payload educationPayload
	if !decodeAndValidate(w, r, &payload) {
		return
	}

	profile, err := h.service.AddEducation(r.Context(), id, models.Education{
		School:       payload.School,
		Degree:       payload.Degree,
		FieldOfStudy: payload.FieldOfStudy,
		From:         payload.From,
		To:           payload.To,
		Current:      payload.Current,
		Description:  payload.Description,
	})
	if err != nil {
		respondError(w, r, err, "Failed to add education")
		return
	}
	common.RespondWithJSON(w, http.StatusOK, profile)
}

// DeleteEducation removes an education entry from the caller's profile.
func (h *ProfileHandler) DeleteEducation(w http.ResponseWriter, r *http.Request) {
	id, ok := identity(w, r)
	if !ok {
		return
	}
	profile, err := h.service.DeleteEducation(r.Context(), id, chi.URLParam(r, "edu_id"))
	if err != nil {
		respondError(w, r, err, "Failed to delete education")
		return
	}
	common.RespondWithJSON(w, http.StatusOK, profile)
}

// GitHubRepos proxies the public repository listing of a code-hosting user.
func (h *ProfileHandler) GitHubRepos(w http.ResponseWriter, r *http.Request) {
	repos, err := h.github.GetRepos(r.Context(), chi.URLParam(r, "username"))
	if err != nil {
		respondError(w, r, err, "Failed to fetch repositories")
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write(repos)
}
