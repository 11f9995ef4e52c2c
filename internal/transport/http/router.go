package http

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-phone-verify/internal/application/user"
	"github.com/go-phone-verify/internal/application/verification"
	"github.com/go-phone-verify/internal/config"
	"github.com/go-phone-verify/internal/transport/http/handler"
	appmiddleware "github.com/go-phone-verify/internal/transport/http/middleware"
	"golang.org/x/time/rate"
)

// NewRouter builds and returns the application router. ctx bounds background
// work owned by middleware.
func NewRouter(ctx context.Context, cfg *config.Config, deps *Deps) http.Handler {
	r := chi.NewRouter()
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.Logger)
	r.Use(chimiddleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	sensitiveRL := appmiddleware.NewRateLimiter(ctx, rate.Limit(cfg.RateLimitRPS), cfg.RateLimitBurst)

	vcfg := verification.Config{
		TTL:                     cfg.OTPTTL,
		DevelopmentMode:         cfg.IsDevelopment(),
		RevokeOnDeliveryFailure: cfg.RevokeOnDeliveryFailure(),
	}
	verificationSvc := verification.NewService(vcfg, verification.ServiceDeps{
		Store:    deps.VerificationRepo,
		Notifier: deps.Notifier,
		Throttle: deps.Throttle,
		Hasher:   deps.Hasher,
		Clock:    deps.Clock,
	})
	userSvc := user.NewService(user.ServiceDeps{UserRepo: deps.UserRepo})

	healthH := handler.NewHealthHandler(cfg.AppEnv, cfg.StoreDriver, cfg.IsDevelopment(), verificationSvc.DeliveryConfigured)
	verificationH := handler.NewVerificationHandler(verificationSvc, userSvc, cfg.IsDevelopment())
	userH := handler.NewUserHandler(userSvc, cfg.IsDevelopment())

	r.Get("/health", healthH.Health)

	r.Route("/verification", func(r chi.Router) {
		r.Get("/health", healthH.Verification)
		r.With(sensitiveRL.Limit).Post("/send", verificationH.Send)
		r.With(sensitiveRL.Limit).Post("/verify", verificationH.Verify)
		r.Post("/update-user", userH.Upsert)
		r.Post("/create-user", userH.Upsert)
	})

	return r
}
