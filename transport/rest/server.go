package rest

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

const shutdownTimeout = 5 * time.Second

// NewRouter - wires every REST route onto a chi router.
func NewRouter(logger *slog.Logger, games gameUseCase, players playerUseCase, allowedOrigin string) http.Handler {
	h := newHandlers(logger, games, players)

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger(h.logger))
	r.Use(middleware.Recoverer)
	r.Use(cors(allowedOrigin))

	r.Get("/ping", NewPingHandler().PingHandler)

	r.Route("/users", func(r chi.Router) {
		r.Post("/", h.register)
		r.Get("/", h.listPlayers)
		r.Get("/login", h.login)
		r.Get("/{id}/games", h.playerGames)
	})

	r.Route("/game", func(r chi.Router) {
		r.Get("/", h.listGames)
		r.Post("/start", h.startGame)
		r.Post("/move", h.makeMove)
		r.Get("/leaderboard", h.leaderboard)
		r.Get("/{id}", h.getGame)
	})

	return r
}

// Start - serves handler on port until ctx is canceled.
func Start(ctx context.Context, port string, handler http.Handler) error {
	srv := &http.Server{
		Addr:         ":" + port,
		Handler:      handler,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  30 * time.Second,
	}

	go func() {
		<-ctx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		_ = srv.Shutdown(shutdownCtx)
	}()

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("failed to start server: %w", err)
	}

	return nil
}
