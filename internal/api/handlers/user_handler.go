package handlers

import (
	"net/http"

	"github.com/isdelr/devconnector-be/internal/auth"
	"github.com/isdelr/devconnector-be/internal/common"
	"github.com/isdelr/devconnector-be/internal/services"
	"github.com/rs/zerolog/log"
)

// UserHandler handles registration, login and the current-user lookup.
type UserHandler struct {
	service       services.UserServiceProvider
	authenticator *auth.Authenticator
}

// NewUserHandler creates a new UserHandler.
func NewUserHandler(service services.UserServiceProvider, authenticator *auth.Authenticator) *UserHandler {
	return &UserHandler{service: service, authenticator: authenticator}
}

// RegisterPayload defines the structure for registration requests.
type RegisterPayload struct {
	Name     string `json:"name" validate:"required,notblank" msg:"Name is required"`
	Email    string `json:"email" validate:"required,email" msg:"Please include a valid email"`
	Password string `json:"password" validate:"min=6" msg:"Please enter a password with 6 or more characters"`
}

// LoginPayload defines the structure for login requests.
type LoginPayload struct {
	Email    string `json:"email" validate:"required,email" msg:"Please include a valid email"`
	Password string `json:"password" validate:"required" msg:"Password is required"`
}

// TokenResponse carries a freshly issued credential.
type TokenResponse struct {
	Token string `json:"token"`
}

// Register handles new user registration and returns a credential for the new account.
func (h *UserHandler) Register(w http.ResponseWriter, r *http.Request) {
	var payload RegisterPayload
	if !decodeAndValidate(w, r, &payload) {
		return
	}

	user, err := h.service.Register(r.Context(), payload.Name, payload.Email, payload.Password)
	if err != nil {
		respondError(w, r, err, "Failed to register user")
		return
	}
	h.respondWithToken(w, user.ID, http.StatusOK)
}

// Login authenticates by email and password and returns a credential.
func (h *UserHandler) Login(w http.ResponseWriter, r *http.Request) {
	var payload LoginPayload
	if !decodeAndValidate(w, r, &payload) {
		return
	}

	user, err := h.service.Authenticate(r.Context(), payload.Email, payload.Password)
	if err != nil {
		log.Warn().Err(err).Str("email", payload.Email).Msg("Failed authentication attempt")
		common.RespondWithError(w, err)
		return
	}
	h.respondWithToken(w, user.ID, http.StatusOK)
}

// GetMe returns the authenticated user without the password hash.
func (h *UserHandler) GetMe(w http.ResponseWriter, r *http.Request) {
	id, ok := identity(w, r)
	if !ok {
		return
	}

	user, err := h.service.GetUserByID(r.Context(), id.String())
	if err != nil {
		respondError(w, r, err, "Failed to load current user")
		return
	}
	common.RespondWithJSON(w, http.StatusOK, user)
}

func (h *UserHandler) respondWithToken(w http.ResponseWriter, userID string, status int) {
	token, err := h.authenticator.Issue(auth.Identity(userID))
	if err != nil {
		log.Error().Err(err).Str("user_id", userID).Msg("Failed to issue token")
		common.RespondWithError(w, err)
		return
	}
	common.RespondWithJSON(w, status, TokenResponse{Token: token})
}
