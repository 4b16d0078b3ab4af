package api

import (
	"database/sql"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/isdelr/devconnector-be/internal/api/handlers"
	"github.com/isdelr/devconnector-be/internal/auth"
	"github.com/isdelr/devconnector-be/internal/services"
	"github.com/isdelr/devconnector-be/internal/websocket"
)

// Dependencies are the collaborators the HTTP surface is built from.
type Dependencies struct {
	DB             *sql.DB
	Authenticator  *auth.Authenticator
	Hub            *websocket.Hub
	Users          services.UserServiceProvider
	Profiles       services.ProfileServiceProvider
	Posts          services.PostServiceProvider
	Events         services.EventServiceProvider
	GitHub         services.GitHubServiceProvider
	AllowedOrigins []string
}

// NewRouter creates and configures a new Chi router.
func NewRouter(d Dependencies) *chi.Mux {
	r := chi.NewRouter()

	// Basic middleware stack
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   d.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type", auth.TokenHeader},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	userHandler := handlers.NewUserHandler(d.Users, d.Authenticator)
	profileHandler := handlers.NewProfileHandler(d.Profiles, d.GitHub)
	postHandler := handlers.NewPostHandler(d.Posts)
	eventHandler := handlers.NewEventHandler(d.Events)
	healthHandler := handlers.NewHealthHandler(d.DB)
	wsHandler := handlers.NewWebSocketHandler(d.Hub, d.Authenticator, d.AllowedOrigins)

	r.Get("/health", healthHandler.Check)

	r.Route("/api", func(r chi.Router) {
		protected := r.With(d.Authenticator.Middleware)

		r.Post("/users", userHandler.Register)
		r.Post("/auth", userHandler.Login)
		protected.Get("/auth", userHandler.GetMe)

		r.Get("/profile", profileHandler.GetAll)
		r.Get("/profile/user/{user_id}", profileHandler.GetByUser)
		r.Get("/profile/github/{username}", profileHandler.GitHubRepos)
		protected.Get("/profile/me", profileHandler.GetMine)
		protected.Post("/profile", profileHandler.Upsert)
		protected.Delete("/profile", profileHandler.Delete)
		protected.Put("/profile/experience", profileHandler.AddExperience)
		protected.Delete("/profile/experience/{exp_id}", profileHandler.DeleteExperience)
		protected.Put("/profile/education", profileHandler.AddEducation)
		protected.Delete("/profile/education/{edu_id}", profileHandler.DeleteEducation)

		protected.Post("/posts", postHandler.Create)
		protected.Get("/posts", postHandler.GetAll)
		protected.Get("/posts/{post_id}", postHandler.Get)
		protected.Delete("/posts/{post_id}", postHandler.Delete)
		protected.Put("/posts/like/{post_id}", postHandler.Like)
		protected.Put("/posts/unlike/{post_id}", postHandler.Unlike)
		protected.Post("/posts/comment/{post_id}", postHandler.AddComment)
		protected.Delete("/posts/comment/{post_id}/{comment_id}", postHandler.DeleteComment)

		protected.Get("/events", eventHandler.GetRecent)

		// The feed authenticates through a query parameter.
		r.Get("/feed/ws", wsHandler.Serve)
	})

	return r
}
