package http

import (
	"net/http"

	"github.com/email-otp-api/internal/application/verification"
	"github.com/email-otp-api/internal/config"
	"github.com/email-otp-api/internal/transport/http/handler"
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

// NewRouter builds and returns the application router.
func NewRouter(cfg *config.Config, deps *Deps) http.Handler {
	r := chi.NewRouter()
	r.Use(chimiddleware.Logger)
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.RequestID)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	otpSvc := verification.NewService(verification.ServiceDeps{
		Users:    deps.UserStore,
		Mailer:   deps.Mailer,
		Identity: deps.Identity,
		OTPTTL:   cfg.OTPTTL,
	})

	healthH := handler.NewHealthHandler()
	otpH := handler.NewOTPHandler(otpSvc)

	r.Route("/v1", func(r chi.Router) {
		r.Get("/health-check", healthH.Live)
		r.Post("/otp/issue", otpH.Issue)
		r.Post("/otp/verify", otpH.Verify)
	})

	return r
}
