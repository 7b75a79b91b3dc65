package app

import (
	"context"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"golang.org/x/sync/errgroup"

	"github.com/Halcy0nic/Uplest/internal/api/handlers"
	appMiddleware "github.com/Halcy0nic/Uplest/internal/api/middlewares"
)

// Server wraps the HTTP server instance and its handlers.
type Server struct {
	httpServer *http.Server
}

// NewRouter wires all routes. The /api group requires a bearer token only
// when jwtSecret is non-empty.
func NewRouter(search handlers.Searcher, health handlers.Counter, jwtSecret string) http.Handler {
	searchHandler := handlers.NewSearchHandler(search)
	healthHandler := handlers.NewHealthHandler(health)

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"http://localhost:5173", "http://localhost:8888"},
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
	}))

	r.Get("/health", healthHandler.Health)

	r.Route("/api", func(api chi.Router) {
		if jwtSecret != "" {
			api.Use(appMiddleware.JWTMiddleware(jwtSecret))
		} else {
			log.Println("WARN: JWT_SECRET not set, /api is unauthenticated")
		}
		api.Post("/search", searchHandler.Search)
		api.Post("/ask", searchHandler.Ask)
	})

	return r
}

func (a *App) NewServer() *Server {
	return &Server{httpServer: &http.Server{
		Addr:              ":" + a.Config.Port,
		Handler:           NewRouter(a.SearchService(), a.DBClient, a.Config.JWTSecret),
		ReadHeaderTimeout: 10 * time.Second,
	}}
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		log.Printf("HTTP server listening on %s", s.httpServer.Addr)
		if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		log.Println("Shutting down HTTP server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return s.httpServer.Shutdown(shutdownCtx)
	})

	return g.Wait()
}
