package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/S-Stepanov-1/contacts-api/internal/application/auth"
	"github.com/S-Stepanov-1/contacts-api/internal/application/contact"
	"github.com/S-Stepanov-1/contacts-api/internal/application/user"
	"github.com/S-Stepanov-1/contacts-api/internal/config"
	"github.com/S-Stepanov-1/contacts-api/internal/infrastructure/dynamo"
	s3infra "github.com/S-Stepanov-1/contacts-api/internal/infrastructure/s3"
	"github.com/S-Stepanov-1/contacts-api/internal/infrastructure/smtp"
	"github.com/S-Stepanov-1/contacts-api/internal/infrastructure/token"
	"github.com/S-Stepanov-1/contacts-api/internal/ratelimit"
	"github.com/S-Stepanov-1/contacts-api/internal/transport/http/handler"
	appmiddleware "github.com/S-Stepanov-1/contacts-api/internal/transport/http/middleware"
)

// Deps holds all infrastructure dependencies for the router.
type Deps struct {
	UserRepo    *dynamo.UserRepo
	ContactRepo *dynamo.ContactRepo
	Pinger      *dynamo.Pinger
	S3Store     *s3infra.Store
	Notifier    smtp.Notifier
	Tokens      *token.Provider
	Limiter     ratelimit.Limiter
}

// NewRouter builds and returns the application router.
func NewRouter(cfg *config.Config, deps *Deps) http.Handler {
	r := chi.NewRouter()
	r.Use(chimiddleware.Logger)
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.RequestID)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: false,
		MaxAge:           300,
	}))
	// Every route shares the same admission gate, keyed by client IP.
	if deps.Limiter != nil {
		r.Use(appmiddleware.RateLimit(deps.Limiter))
	}

	authSvc := auth.NewService(auth.ServiceDeps{
		UserRepo: deps.UserRepo,
		Tokens:   deps.Tokens,
		Notifier: deps.Notifier,
	})
	userSvc := user.NewService(deps.UserRepo, deps.S3Store)
	contactSvc := contact.NewService(deps.ContactRepo)

	healthH := handler.NewHealthHandler(deps.Pinger)
	authH := handler.NewAuthHandler(authSvc)
	userH := handler.NewUserHandler(userSvc, authSvc)
	contactH := handler.NewContactHandler(contactSvc)

	authMw := appmiddleware.Auth(deps.Tokens)

	r.Route("/api", func(r chi.Router) {
		// ── Public routes (no auth) ──────────────────────────────────────────
		r.Get("/healthchecker", healthH.Healthchecker)
		r.Post("/auth/signup", authH.Signup)
		r.Post("/auth/login", authH.Login)
		r.Post("/auth/refresh_token", authH.Refresh)
		r.Get("/auth/confirmed_email/{token}", authH.ConfirmedEmail)
		r.Post("/auth/request_email", authH.ResendConfirmation)
		r.Post("/users/forgot_password", userH.ForgotPassword)
		r.Post("/users/reset_password/{token}", userH.ResetPassword)

		// ── Authenticated routes ─────────────────────────────────────────────
		r.Group(func(r chi.Router) {
			r.Use(authMw)

			r.Post("/auth/logout", authH.Logout)

			r.Get("/users/me", userH.Me)
			r.Patch("/users/avatar", userH.UpdateAvatar)

			r.Get("/contacts", contactH.List)
			r.Post("/contacts", contactH.Create)
			r.Get("/contacts/upcoming_birthdays", contactH.UpcomingBirthdays)
			r.Get("/contacts/{id}", contactH.Get)
			r.Put("/contacts/{id}", contactH.Update)
			r.Patch("/contacts/{id}", contactH.Patch)
			r.Delete("/contacts/{id}", contactH.Delete)
		})
	})

	return r
}
