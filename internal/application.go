package application

import (
	"context"
	"fmt"
	"log/slog"
	"os/signal"
	"syscall"

	"github.com/rocketscienceinc/tictactoe-ai/internal/config"
	"github.com/rocketscienceinc/tictactoe-ai/internal/repository"
	"github.com/rocketscienceinc/tictactoe-ai/internal/repository/storage"
	"github.com/rocketscienceinc/tictactoe-ai/internal/service"
	"github.com/rocketscienceinc/tictactoe-ai/internal/usecase"
	"github.com/rocketscienceinc/tictactoe-ai/transport/rest"
	"github.com/rocketscienceinc/tictactoe-ai/transport/websocket"
)

// Repositories - storage backends behind the use cases.
type Repositories struct {
	Games   repository.GameRepository
	Players repository.PlayerRepository

	close func() error
}

func (that *Repositories) Close() error {
	return that.close()
}

// OpenRepositories - connects the storage selected by conf.Storage.Driver.
func OpenRepositories(ctx context.Context, conf *config.Config) (*Repositories, error) {
	switch conf.Storage.Driver {
	case config.DriverSQLite:
		db, err := storage.NewSQLiteStorage(conf.SQLite.Path)
		if err != nil {
			return nil, fmt.Errorf("could not open sqlite storage: %w", err)
		}

		if err = db.Init(ctx); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("could not init sqlite storage: %w", err)
		}

		return &Repositories{
			Games:   repository.NewSQLiteGameRepository(db.Connection),
			Players: repository.NewSQLitePlayerRepository(db.Connection),
			close:   db.Close,
		}, nil

	case config.DriverRedis:
		redisStorage, err := storage.NewRedisStorage(ctx, conf.Redis.GetRedisAddr(), conf.Redis.Password, conf.Redis.DB)
		if err != nil {
			return nil, fmt.Errorf("could not connect to redis storage: %w", err)
		}

		return &Repositories{
			Games:   repository.NewGameRepository(redisStorage.Connection),
			Players: repository.NewPlayerRepository(redisStorage.Connection),
			close:   redisStorage.Close,
		}, nil

	default:
		return nil, fmt.Errorf("%w: %q", config.ErrUnknownDriver, conf.Storage.Driver)
	}
}

// RunApp - runs the application.
func RunApp(logger *slog.Logger, conf *config.Config) error {
	log := logger.With("component", "app")

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	repos, err := OpenRepositories(ctx, conf)
	if err != nil {
		return err
	}

	defer func() {
		if err = repos.Close(); err != nil {
			log.Error("could not close storage", "error", err)
		}
	}()

	log.Info("storage connected", "driver", conf.Storage.Driver)

	bot := service.NewBotService(nil)
	gameManager := usecase.NewGameManager(logger, repos.Games, repos.Players, bot)
	playerUseCase := usecase.NewPlayerUseCase(repos.Players, conf.Leaderboard.Size)

	// run HTTP server
	httpErrCh := make(chan error, 1)
	go func() {
		log.Info("Starting HTTP server", "port", conf.HTTPPort)
		router := rest.NewRouter(logger, gameManager, playerUseCase, conf.CORS.AllowedOrigin)
		if httpErr := rest.Start(ctx, conf.HTTPPort, router); httpErr != nil {
			log.Error("HTTP server error", "error", httpErr)
			httpErrCh <- httpErr
		}
	}()

	// run Websocket server
	wsErrCh := make(chan error, 1)
	go func() {
		log.Info("Starting WebSocket server", "port", conf.SocketPort)
		wsServer := websocket.New(logger, gameManager, conf.CORS.AllowedOrigin)
		if wsErr := wsServer.Start(ctx, conf.SocketPort); wsErr != nil {
			log.Error("WebSocket server error", "error", wsErr)
			wsErrCh <- wsErr
		}
	}()

	select {
	case err = <-httpErrCh:
		return fmt.Errorf("HTTP server error: %w", err)
	case err = <-wsErrCh:
		return fmt.Errorf("WebSocket server error: %w", err)
	case <-ctx.Done():
		log.Info("Application context canceled, shutting down")
		return nil
	}
}
