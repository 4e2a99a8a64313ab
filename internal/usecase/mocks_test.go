package usecase

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/rocketscienceinc/tictactoe-ai/internal/entity"
)

type mockGameRepo struct {
	mock.Mock
}

func (m *mockGameRepo) Create(ctx context.Context, game *entity.Game) error {
	return m.Called(ctx, game).Error(0)
}

func (m *mockGameRepo) GetByID(ctx context.Context, id string) (*entity.Game, error) {
	args := m.Called(ctx, id)
	game, _ := args.Get(0).(*entity.Game)
	return game, args.Error(1)
}

func (m *mockGameRepo) Update(ctx context.Context, game *entity.Game) error {
	return m.Called(ctx, game).Error(0)
}

func (m *mockGameRepo) Finish(ctx context.Context, game *entity.Game) (*entity.Player, error) {
	args := m.Called(ctx, game)
	player, _ := args.Get(0).(*entity.Player)
	return player, args.Error(1)
}

func (m *mockGameRepo) List(ctx context.Context) ([]*entity.Game, error) {
	args := m.Called(ctx)
	games, _ := args.Get(0).([]*entity.Game)
	return games, args.Error(1)
}

func (m *mockGameRepo) ListByPlayer(ctx context.Context, playerID string) ([]*entity.Game, error) {
	args := m.Called(ctx, playerID)
	games, _ := args.Get(0).([]*entity.Game)
	return games, args.Error(1)
}

type mockPlayerRepo struct {
	mock.Mock
}

func (m *mockPlayerRepo) Create(ctx context.Context, player *entity.Player) error {
	return m.Called(ctx, player).Error(0)
}

func (m *mockPlayerRepo) GetByID(ctx context.Context, id string) (*entity.Player, error) {
	args := m.Called(ctx, id)
	player, _ := args.Get(0).(*entity.Player)
	return player, args.Error(1)
}

func (m *mockPlayerRepo) GetByEmail(ctx context.Context, email string) (*entity.Player, error) {
	args := m.Called(ctx, email)
	player, _ := args.Get(0).(*entity.Player)
	return player, args.Error(1)
}

func (m *mockPlayerRepo) List(ctx context.Context) ([]*entity.Player, error) {
	args := m.Called(ctx)
	players, _ := args.Get(0).([]*entity.Player)
	return players, args.Error(1)
}

func (m *mockPlayerRepo) Leaderboard(ctx context.Context, limit int) ([]*entity.Player, error) {
	args := m.Called(ctx, limit)
	players, _ := args.Get(0).([]*entity.Player)
	return players, args.Error(1)
}

type mockBot struct {
	mock.Mock
}

func (m *mockBot) ChooseMove(board entity.Board) (int, bool) {
	args := m.Called(board)
	return args.Int(0), args.Bool(1)
}
