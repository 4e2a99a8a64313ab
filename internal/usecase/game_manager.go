package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/rocketscienceinc/tictactoe-ai/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-ai/internal/entity"
	"github.com/rocketscienceinc/tictactoe-ai/internal/tictactoe"
)

type gameRepo interface {
	Create(ctx context.Context, game *entity.Game) error
	GetByID(ctx context.Context, id string) (*entity.Game, error)
	Update(ctx context.Context, game *entity.Game) error
	Finish(ctx context.Context, game *entity.Game) (*entity.Player, error)
	List(ctx context.Context) ([]*entity.Game, error)
	ListByPlayer(ctx context.Context, playerID string) ([]*entity.Game, error)
}

type playerFinder interface {
	GetByID(ctx context.Context, id string) (*entity.Player, error)
	GetByEmail(ctx context.Context, email string) (*entity.Player, error)
}

type bot interface {
	ChooseMove(board entity.Board) (int, bool)
}

type GameManager struct {
	logger     *slog.Logger
	gameRepo   gameRepo
	playerRepo playerFinder
	bot        bot

	locks *sessionLocks
	now   func() time.Time
	newID func() string
}

func NewGameManager(logger *slog.Logger, gameRepo gameRepo, playerRepo playerFinder, bot bot) *GameManager {
	return &GameManager{
		logger: logger.With("component", "game_manager"),

		gameRepo:   gameRepo,
		playerRepo: playerRepo,
		bot:        bot,

		locks: newSessionLocks(),
		now:   func() time.Time { return time.Now().UTC() },
		newID: uuid.NewString,
	}
}

// StartGame - opens a new empty game for the player registered under email.
func (that *GameManager) StartGame(ctx context.Context, email string) (*entity.Game, error) {
	player, err := that.playerRepo.GetByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("failed to get player by email: %w", err)
	}

	game := entity.NewGame(that.newID(), player.ID, that.now())
	if err = that.gameRepo.Create(ctx, game); err != nil {
		return nil, fmt.Errorf("failed to create game: %w", err)
	}

	that.logger.Debug("game started", "game_id", game.ID, "player_id", player.ID)

	return game, nil
}

// MakeMove - applies the human move at position and, while the game goes on, one bot reply.
// A terminal result is stored together with the player's counters, at most once per game.
func (that *GameManager) MakeMove(ctx context.Context, gameID string, position int) (*entity.Game, error) {
	log := that.logger.With("method", "MakeMove", "game_id", gameID)

	unlock := that.locks.Lock(gameID)
	defer unlock()

	game, err := that.gameRepo.GetByID(ctx, gameID)
	if err != nil {
		return nil, fmt.Errorf("failed to get game: %w", err)
	}

	next := game.Clone()
	if err = tictactoe.MakeTurn(next, entity.HumanMark, position); err != nil {
		return nil, err
	}

	if next.IsInProgress() {
		cell, ok := that.bot.ChooseMove(next.Board)
		if !ok {
			next.Outcome = entity.OutcomeDraw
		} else if err = tictactoe.MakeTurn(next, entity.BotMark, cell); err != nil {
			return nil, fmt.Errorf("failed to apply bot move %d: %w", cell, err)
		}
	}

	next.UpdatedAt = that.now()

	if next.IsInProgress() {
		if err = that.gameRepo.Update(ctx, next); err != nil {
			that.logConflict(log, err)
			return nil, fmt.Errorf("failed to save game: %w", err)
		}

		return next, nil
	}

	player, err := that.gameRepo.Finish(ctx, next)
	if err != nil {
		that.logConflict(log, err)
		return nil, fmt.Errorf("failed to finish game: %w", err)
	}

	log.Info("game finished",
		"outcome", next.Outcome,
		"player_id", player.ID,
		"wins", player.Wins,
		"losses", player.Losses,
		"draws", player.Draws,
	)

	return next, nil
}

func (that *GameManager) logConflict(log *slog.Logger, err error) {
	if errors.Is(err, apperror.ErrConflict) || errors.Is(err, apperror.ErrSessionAlreadyTerminal) {
		log.Warn("game changed concurrently", "error", err)
	}
}

func (that *GameManager) GetGame(ctx context.Context, gameID string) (*entity.Game, error) {
	game, err := that.gameRepo.GetByID(ctx, gameID)
	if err != nil {
		return nil, fmt.Errorf("failed to get game: %w", err)
	}

	return game, nil
}

func (that *GameManager) ListGames(ctx context.Context) ([]*entity.Game, error) {
	games, err := that.gameRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list games: %w", err)
	}

	return games, nil
}

// ListPlayerGames - games of a known player, ErrPlayerNotFound otherwise.
func (that *GameManager) ListPlayerGames(ctx context.Context, playerID string) ([]*entity.Game, error) {
	if _, err := that.playerRepo.GetByID(ctx, playerID); err != nil {
		return nil, fmt.Errorf("failed to get player: %w", err)
	}

	games, err := that.gameRepo.ListByPlayer(ctx, playerID)
	if err != nil {
		return nil, fmt.Errorf("failed to list player games: %w", err)
	}

	return games, nil
}
