package rest

import (
	"context"
	"errors"
	"find-a-house/internal/core/port"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

const shutdownTimeout = 10 * time.Second

// Server - HTTP API сервиса: здоровье, статистика, объявления, поток совпадений
type Server struct {
	httpServer *http.Server
	logger     port.LoggerPort
	// отмена базового контекста закрывает долгие SSE-запросы перед Shutdown
	cancelRequests context.CancelFunc
}

func NewRouter(handlers *ListingHandler, allowedOrigins []string, baseLogger port.LoggerPort) http.Handler {
	r := chi.NewRouter()

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   allowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type", "X-Trace-ID"},
		ExposedHeaders:   []string{"X-Trace-ID"},
		AllowCredentials: false,
		MaxAge:           300,
	}))
	r.Use(LoggerMiddleware(baseLogger))
	r.Use(middleware.Recoverer)

	r.Get("/health", handlers.Health)

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/stats", handlers.GetStats)

		r.Route("/listings", func(r chi.Router) {
			r.Get("/recent", handlers.GetRecentListings)
			r.Get("/uncontacted", handlers.GetUncontactedListings)
			r.Get("/{listingID}", handlers.GetListingByID)
			r.Post("/{listingID}/contacted", handlers.MarkContacted)
		})

		if handlers.stream != nil {
			r.Get("/matches/stream", handlers.SubscribeToMatches)
		}
	})

	return r
}

func NewServer(listenPort string, handler http.Handler, baseLogger port.LoggerPort) *Server {
	baseCtx, cancel := context.WithCancel(context.Background())
	return &Server{
		httpServer: &http.Server{
			Addr:              ":" + listenPort,
			Handler:           handler,
			ReadHeaderTimeout: 10 * time.Second,
			BaseContext:       func(net.Listener) context.Context { return baseCtx },
		},
		logger:         baseLogger.WithFields(port.Fields{"component": "rest_server"}),
		cancelRequests: cancel,
	}
}

// Start запускает HTTP-сервер и блокируется до отмены контекста
func (s *Server) Start(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("Starting REST API server", port.Fields{"address": s.httpServer.Addr})
		if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err, ok := <-errCh:
		if ok {
			s.logger.Error("Could not start server", err, nil)
			return fmt.Errorf("could not start server: %w", err)
		}
		return nil
	case <-ctx.Done():
		return nil
	}
}

// Close корректно останавливает сервер
func (s *Server) Close() error {
	s.logger.Info("Stopping REST API server...", nil)
	s.cancelRequests()
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return s.httpServer.Shutdown(ctx)
}
