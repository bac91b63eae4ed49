package server

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/waveshop/waves-backend/internal/auth"
	"github.com/waveshop/waves-backend/internal/config"
	"github.com/waveshop/waves-backend/internal/http/handlers"
	"github.com/waveshop/waves-backend/internal/middleware"
	"github.com/waveshop/waves-backend/internal/storage"
)

// Server wraps an http.Server with configured routes.
type Server struct {
	inner *http.Server
}

// New wires up middleware, routes, and returns a ready server. Protected
// routes run Authenticate strictly before RequireAdmin.
func New(cfg config.Config, users storage.UserStore, products storage.ProductStore, logger *zap.Logger) *Server {
	hasher := auth.NewPasswordHasher(cfg.BcryptCost)
	tokens := auth.NewTokenManager(cfg.JWTSecret, cfg.JWTIssuer, cfg.JWTTTL)
	sessions := auth.NewSessionManager(tokens, users)

	userHandler := handlers.NewUserHandler(users, hasher, sessions, logger)
	productHandler := handlers.NewProductHandler(products, logger)
	health := handlers.NewHealthHandler(time.Now())

	r := chi.NewRouter()
	r.Use(middleware.CORS(cfg.CORSOrigins))
	r.Use(middleware.Logging(logger))

	r.Get("/health", health.Handle)

	r.Route("/api", func(r chi.Router) {
		r.Route("/users", func(r chi.Router) {
			r.Post("/register", userHandler.Register)
			r.Post("/login", userHandler.Login)

			r.Group(func(r chi.Router) {
				r.Use(middleware.Authenticate(sessions))
				r.Get("/auth", userHandler.Auth)
				r.Get("/logout", userHandler.Logout)
			})
		})

		r.Route("/product", func(r chi.Router) {
			r.Get("/woods", productHandler.ListWoods)
			r.Get("/brands", productHandler.ListBrands)
			r.Get("/articles", productHandler.ListArticles)

			r.Group(func(r chi.Router) {
				r.Use(middleware.Authenticate(sessions))
				r.Use(middleware.RequireAdmin)
				r.Post("/wood", productHandler.CreateWood)
				r.Post("/brand", productHandler.CreateBrand)
				r.Post("/article", productHandler.CreateArticle)
			})
		})
	})

	httpServer := &http.Server{
		Addr:              cfg.HTTPAddress(),
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      10 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	return &Server{inner: httpServer}
}

// Handler exposes the configured route tree.
func (s *Server) Handler() http.Handler {
	return s.inner.Handler
}

// Start begins serving HTTP traffic.
func (s *Server) Start() error {
	return s.inner.ListenAndServe()
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.inner.Shutdown(ctx)
}
