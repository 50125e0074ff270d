package server

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/postboard/apiserver/config"
	"github.com/postboard/apiserver/internal/auth"
	"github.com/postboard/apiserver/internal/db"
	"github.com/postboard/apiserver/internal/events"
	"github.com/postboard/apiserver/internal/handlers"
	"github.com/postboard/apiserver/internal/services"
	"github.com/postboard/apiserver/internal/store"
)

// Server wraps the HTTP server and its long-lived resources.
type Server struct {
	httpServer *http.Server
	router     *chi.Mux
	db         *sql.DB
	events     *events.Publisher
}

// New constructs a Server with the full dependency graph wired up.
func New(ctx context.Context, cfg config.Config) (*Server, error) {
	if cfg.Auth.Secret == "" {
		return nil, errors.New("TOKEN_KEY is required")
	}

	dbConn, err := db.Open(ctx, cfg.Database)
	if err != nil {
		return nil, err
	}

	publisher, err := newPublisher(ctx, cfg)
	if err != nil {
		_ = dbConn.Close()
		return nil, err
	}

	userRepo := store.NewUserRepository(dbConn)
	postRepo := store.NewPostRepository(dbConn)

	hasher := auth.NewHasher(cfg.Auth.HashCost, cfg.Auth.MaxConcurrentHashes)
	codec := auth.NewTokenCodec(cfg.Auth.Secret, cfg.Auth.TokenTTL)
	resolver := auth.NewResolver(codec, userRepo)

	userService := services.NewUserService(userRepo, hasher, codec, publisher)
	postService := services.NewPostService(postRepo, publisher)

	router := chi.NewRouter()
	router.Use(
		middleware.RequestID,
		middleware.RealIP,
		middleware.Recoverer,
		middleware.Logger,
		middleware.Timeout(60*time.Second),
	)
	router.Get("/healthz", handlers.Healthz)
	router.Route("/api/v1", func(r chi.Router) {
		r.Route("/users", func(r chi.Router) {
			handlers.UserRouter(r, userService, resolver)
		})
		r.Route("/posts", func(r chi.Router) {
			handlers.PostRouter(r, postService, resolver)
		})
		r.Route("/admin", func(r chi.Router) {
			handlers.AdminRouter(r, userService, postService, resolver)
		})
	})

	port := cfg.ServerPort
	if port == 0 {
		port = 8080
	}

	httpServer := &http.Server{
		Addr:         fmt.Sprintf(":%d", port),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	return &Server{
		httpServer: httpServer,
		router:     router,
		db:         dbConn,
		events:     publisher,
	}, nil
}

func newPublisher(ctx context.Context, cfg config.Config) (*events.Publisher, error) {
	switch {
	case cfg.RabbitMQ.URL != "":
		backend, err := events.NewRabbitMQBackend(cfg.RabbitMQ)
		if err != nil {
			return nil, err
		}
		return events.NewPublisher(backend), nil
	case cfg.PubSub.ProjectID != "":
		backend, err := events.NewPubSubBackend(ctx, cfg.PubSub)
		if err != nil {
			return nil, err
		}
		return events.NewPublisher(backend), nil
	default:
		log.Println("events: no broker configured, lifecycle events disabled")
		return events.NewPublisher(nil), nil
	}
}

// Router exposes the chi router for route registration.
func (s *Server) Router() *chi.Mux {
	return s.router
}

// Start runs the HTTP server.
func (s *Server) Start() error {
	return s.httpServer.ListenAndServe()
}

// Shutdown attempts a graceful shutdown.
func (s *Server) Shutdown() error {
	if s.events != nil {
		_ = s.events.Close()
	}
	if s.db != nil {
		_ = s.db.Close()
	}
	return s.httpServer.Close()
}
