package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/rocketscienceinc/tictactoe-ai/internal/entity"
	"github.com/rocketscienceinc/tictactoe-ai/testing/suite"
)

type repos struct {
	games   GameRepository
	players PlayerRepository
}

type backend struct {
	name string
	open func(t *testing.T) (context.Context, repos)
}

var backends = []backend{
	{
		name: "sqlite",
		open: func(t *testing.T) (context.Context, repos) {
			ctx, st := suite.NewSQLite(t)
			return ctx, repos{
				games:   NewSQLiteGameRepository(st.Storage),
				players: NewSQLitePlayerRepository(st.Storage),
			}
		},
	},
	{
		name: "redis",
		open: func(t *testing.T) (context.Context, repos) {
			ctx, st := suite.New(t)
			return ctx, repos{
				games:   NewGameRepository(st.Storage),
				players: NewPlayerRepository(st.Storage),
			}
		},
	},
}

// forEachBackend - runs the same test body against every storage driver.
func forEachBackend(t *testing.T, fn func(t *testing.T, ctx context.Context, r repos)) {
	t.Helper()

	for _, b := range backends {
		t.Run(b.name, func(t *testing.T) {
			ctx, r := b.open(t)
			fn(t, ctx, r)
		})
	}
}

var baseTime = time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

func newTestPlayer(t *testing.T, ctx context.Context, r repos, id, email string) *entity.Player {
	t.Helper()

	player, err := entity.NewPlayer(id, "Player "+id, email, baseTime)
	require.NoError(t, err)
	require.NoError(t, r.players.Create(ctx, player))

	return player
}

func newTestGame(t *testing.T, ctx context.Context, r repos, id, playerID string, at time.Time) *entity.Game {
	t.Helper()

	game := entity.NewGame(id, playerID, at)
	require.NoError(t, r.games.Create(ctx, game))

	return game
}

func mustBoard(t *testing.T, s string) entity.Board {
	t.Helper()

	board, err := entity.ParseBoard(s)
	require.NoError(t, err)

	return board
}
