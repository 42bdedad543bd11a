package rest

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/gridroom/tictactoe-backend/internal/entity"
	"github.com/gridroom/tictactoe-backend/internal/service"
)

type Server struct {
	logger *slog.Logger

	auth       service.AuthService
	users      service.UserService
	matchmaker service.MatchmakerService
	gameplay   service.GamePlayService
	messages   service.MessageService
	games      gameHistory

	startedAt time.Time
}

// gameHistory is the read side of the per-user game log.
type gameHistory interface {
	GetRecentByUser(ctx context.Context, userID string, limit int) ([]*entity.Game, error)
}

func New(
	logger *slog.Logger,
	auth service.AuthService,
	users service.UserService,
	matchmaker service.MatchmakerService,
	gameplay service.GamePlayService,
	messages service.MessageService,
	games gameHistory,
) *Server {
	return &Server{
		logger:     logger,
		auth:       auth,
		users:      users,
		matchmaker: matchmaker,
		gameplay:   gameplay,
		messages:   messages,
		games:      games,
		startedAt:  time.Now(),
	}
}

// Router builds the HTTP routing table.
func (that *Server) Router() *chi.Mux {
	router := chi.NewRouter()

	router.Use(chimw.RequestID)
	router.Use(chimw.RealIP)
	router.Use(that.requestLogger)
	router.Use(chimw.Recoverer)

	router.Handle("/metrics", promhttp.Handler())
	router.Get("/health", that.handleHealth)

	router.Route("/api", func(api chi.Router) {
		api.Post("/auth/login", that.handleLogin)
		api.Get("/rooms", that.handleListRooms)
		api.Get("/rooms/{id}", that.handleGetRoom)
		api.Get("/rooms/{id}/game", that.handleGetRoomGame)
		api.Get("/rooms/{id}/messages", that.handleListMessages)
		api.Get("/leaderboard", that.handleLeaderboard)

		api.Group(func(authed chi.Router) {
			authed.Use(that.requireAuth)

			authed.Get("/auth/user", that.handleCurrentUser)
			authed.Post("/rooms", that.handleCreateRoom)
			authed.Post("/rooms/{id}/join", that.handleJoinRoom)
			authed.Post("/rooms/{id}/leave", that.handleLeaveRoom)
			authed.Post("/quickmatch", that.handleQuickMatch)
			authed.Post("/games/{id}/move", that.handleMove)
			authed.Post("/rooms/{id}/messages", that.handlePostMessage)
			authed.Get("/user/games", that.handleUserGames)
		})
	})

	return router
}

// Start runs the HTTP server until ctx is canceled.
func (that *Server) Start(ctx context.Context, port string) error {
	srv := &http.Server{
		Addr:         ":" + port,
		Handler:      that.Router(),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  30 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("failed to start server: %w", err)
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("failed to shut down server: %w", err)
		}
		return nil
	}
}
