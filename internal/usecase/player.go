package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/rocketscienceinc/tictactoe-ai/internal/entity"
)

type PlayerUseCase interface {
	Register(ctx context.Context, name, email string) (*entity.Player, error)
	Login(ctx context.Context, email string) (*entity.Player, error)
	List(ctx context.Context) ([]*entity.Player, error)
	Leaderboard(ctx context.Context) ([]*entity.Player, error)
}

type playerRepo interface {
	Create(ctx context.Context, player *entity.Player) error
	GetByEmail(ctx context.Context, email string) (*entity.Player, error)
	List(ctx context.Context) ([]*entity.Player, error)
	Leaderboard(ctx context.Context, limit int) ([]*entity.Player, error)
}

type playerUseCase struct {
	repo            playerRepo
	leaderboardSize int

	now   func() time.Time
	newID func() string
}

func NewPlayerUseCase(repo playerRepo, leaderboardSize int) PlayerUseCase {
	return &playerUseCase{
		repo:            repo,
		leaderboardSize: leaderboardSize,

		now:   func() time.Time { return time.Now().UTC() },
		newID: uuid.NewString,
	}
}

func (that *playerUseCase) Register(ctx context.Context, name, email string) (*entity.Player, error) {
	player, err := entity.NewPlayer(that.newID(), name, email, that.now())
	if err != nil {
		return nil, err
	}

	if err = that.repo.Create(ctx, player); err != nil {
		return nil, fmt.Errorf("failed to save player into storage: %w", err)
	}

	return player, nil
}

func (that *playerUseCase) Login(ctx context.Context, email string) (*entity.Player, error) {
	player, err := that.repo.GetByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("failed to find player: %w", err)
	}

	return player, nil
}

func (that *playerUseCase) List(ctx context.Context) ([]*entity.Player, error) {
	players, err := that.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list players: %w", err)
	}

	return players, nil
}

func (that *playerUseCase) Leaderboard(ctx context.Context) ([]*entity.Player, error) {
	players, err := that.repo.Leaderboard(ctx, that.leaderboardSize)
	if err != nil {
		return nil, fmt.Errorf("failed to read leaderboard: %w", err)
	}

	return players, nil
}
