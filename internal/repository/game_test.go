package repository

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rocketscienceinc/tictactoe-ai/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-ai/internal/entity"
)

func TestGameRepository_GetByID(t *testing.T) {
	forEachBackend(t, func(t *testing.T, ctx context.Context, r repos) {
		t.Run("GetByID_Success", func(t *testing.T) {
			// Given: a stored game
			player := newTestPlayer(t, ctx, r, "p1", "one@example.com")
			game := newTestGame(t, ctx, r, "g1", player.ID, baseTime)

			// When: GetByID is called with existing ID
			retrieved, err := r.games.GetByID(ctx, game.ID)

			// Then: the retrieved game should match the saved game
			require.NoError(t, err)
			assert.Equal(t, game.ID, retrieved.ID)
			assert.Equal(t, player.ID, retrieved.PlayerID)
			assert.Equal(t, entity.EmptyBoardString, retrieved.Board.String())
			assert.Equal(t, entity.OutcomeInProgress, retrieved.Outcome)
			assert.Equal(t, int64(0), retrieved.Version)
			assert.True(t, game.CreatedAt.Equal(retrieved.CreatedAt))
		})

		t.Run("GetByID_NotFound", func(t *testing.T) {
			// When: GetByID is called with non-existent ID
			retrieved, err := r.games.GetByID(ctx, "missing")

			// Then: ErrSessionNotFound should be returned
			require.ErrorIs(t, err, apperror.ErrSessionNotFound)
			assert.Nil(t, retrieved)
		})
	})
}

func TestGameRepository_Update(t *testing.T) {
	forEachBackend(t, func(t *testing.T, ctx context.Context, r repos) {
		player := newTestPlayer(t, ctx, r, "p1", "one@example.com")
		game := newTestGame(t, ctx, r, "g1", player.ID, baseTime)

		t.Run("Update_Success", func(t *testing.T) {
			// Given: a move applied to the loaded game
			game.Board = mustBoard(t, "X---O----")

			// When: Update is called with the current version
			err := r.games.Update(ctx, game)

			// Then: the board is stored and the version is bumped
			require.NoError(t, err)
			assert.Equal(t, int64(1), game.Version)

			stored, err := r.games.GetByID(ctx, game.ID)
			require.NoError(t, err)
			assert.Equal(t, "X---O----", stored.Board.String())
			assert.Equal(t, int64(1), stored.Version)
		})

		t.Run("Update_StaleVersion", func(t *testing.T) {
			// Given: a copy of the game from before the last write
			stale := game.Clone()
			stale.Version = 0
			stale.Board = mustBoard(t, "XX--O----")

			// When: Update is called with the old version
			err := r.games.Update(ctx, stale)

			// Then: a conflict is reported and nothing changes
			require.ErrorIs(t, err, apperror.ErrConflict)

			stored, err := r.games.GetByID(ctx, game.ID)
			require.NoError(t, err)
			assert.Equal(t, "X---O----", stored.Board.String())
		})

		t.Run("Update_TerminalRejected", func(t *testing.T) {
			// Given: a game carrying a terminal outcome
			finished := game.Clone()
			finished.Outcome = entity.OutcomeWin

			// When: Update is called
			err := r.games.Update(ctx, finished)

			// Then: the caller is told to use Finish
			require.ErrorIs(t, err, ErrTerminalUpdate)
		})

		t.Run("Update_NotFound", func(t *testing.T) {
			missing := entity.NewGame("missing", player.ID, baseTime)

			err := r.games.Update(ctx, missing)

			require.ErrorIs(t, err, apperror.ErrSessionNotFound)
		})
	})
}

func TestGameRepository_Finish(t *testing.T) {
	forEachBackend(t, func(t *testing.T, ctx context.Context, r repos) {
		player := newTestPlayer(t, ctx, r, "p1", "one@example.com")

		t.Run("Finish_RecordsOutcome", func(t *testing.T) {
			// Given: a game that has just been won
			game := newTestGame(t, ctx, r, "g-win", player.ID, baseTime)
			game.Board = mustBoard(t, "XXXOO----")
			game.Outcome = entity.OutcomeWin

			// When: Finish is called
			updated, err := r.games.Finish(ctx, game)

			// Then: the game is stored as terminal and the player gains one win
			require.NoError(t, err)
			assert.Equal(t, 1, updated.Wins)
			assert.Equal(t, 0, updated.Losses)
			assert.Equal(t, 0, updated.Draws)

			stored, err := r.games.GetByID(ctx, game.ID)
			require.NoError(t, err)
			assert.Equal(t, entity.OutcomeWin, stored.Outcome)
			assert.Equal(t, "XXXOO----", stored.Board.String())

			storedPlayer, err := r.players.GetByID(ctx, player.ID)
			require.NoError(t, err)
			assert.Equal(t, 1, storedPlayer.Wins)
		})

		t.Run("Finish_Twice", func(t *testing.T) {
			// Given: a game already finished as a draw
			game := newTestGame(t, ctx, r, "g-draw", player.ID, baseTime)
			game.Board = mustBoard(t, "XOXXOOOXX")
			game.Outcome = entity.OutcomeDraw

			_, err := r.games.Finish(ctx, game)
			require.NoError(t, err)

			// When: Finish is called again with the previous version
			replay := game.Clone()
			replay.Version--
			_, err = r.games.Finish(ctx, replay)

			// Then: the second commit is refused and the counter moved exactly once
			require.ErrorIs(t, err, apperror.ErrSessionAlreadyTerminal)

			storedPlayer, err := r.players.GetByID(ctx, player.ID)
			require.NoError(t, err)
			assert.Equal(t, 1, storedPlayer.Draws)
		})

		t.Run("Finish_NotTerminal", func(t *testing.T) {
			game := newTestGame(t, ctx, r, "g-open", player.ID, baseTime)

			_, err := r.games.Finish(ctx, game)

			require.ErrorIs(t, err, ErrNotTerminal)
		})

		t.Run("Finish_Concurrent", func(t *testing.T) {
			// Given: one loaded game and several writers racing to finish it
			game := newTestGame(t, ctx, r, "g-race", player.ID, baseTime)

			before, err := r.players.GetByID(ctx, player.ID)
			require.NoError(t, err)

			const writers = 8
			var (
				wg        sync.WaitGroup
				mu        sync.Mutex
				succeeded int
			)

			for range writers {
				wg.Add(1)
				go func() {
					defer wg.Done()

					attempt := game.Clone()
					attempt.Outcome = entity.OutcomeLoss
					if _, err := r.games.Finish(ctx, attempt); err == nil {
						mu.Lock()
						succeeded++
						mu.Unlock()
					}
				}()
			}
			wg.Wait()

			// Then: exactly one commit landed
			assert.Equal(t, 1, succeeded)

			after, err := r.players.GetByID(ctx, player.ID)
			require.NoError(t, err)
			assert.Equal(t, before.Losses+1, after.Losses)
		})
	})
}

func TestGameRepository_List(t *testing.T) {
	forEachBackend(t, func(t *testing.T, ctx context.Context, r repos) {
		one := newTestPlayer(t, ctx, r, "p1", "one@example.com")
		two := newTestPlayer(t, ctx, r, "p2", "two@example.com")

		newTestGame(t, ctx, r, "g2", one.ID, baseTime.Add(time.Minute))
		newTestGame(t, ctx, r, "g1", one.ID, baseTime)
		newTestGame(t, ctx, r, "g3", two.ID, baseTime.Add(2*time.Minute))

		t.Run("List_All", func(t *testing.T) {
			games, err := r.games.List(ctx)

			require.NoError(t, err)
			assert.Equal(t, []string{"g1", "g2", "g3"}, gameIDs(games))
		})

		t.Run("List_ByPlayer", func(t *testing.T) {
			games, err := r.games.ListByPlayer(ctx, one.ID)

			require.NoError(t, err)
			assert.Equal(t, []string{"g1", "g2"}, gameIDs(games))
		})

		t.Run("List_UnknownPlayer", func(t *testing.T) {
			games, err := r.games.ListByPlayer(ctx, "nobody")

			require.NoError(t, err)
			assert.Empty(t, games)
		})
	})
}

func gameIDs(games []*entity.Game) []string {
	ids := make([]string, len(games))
	for i, game := range games {
		ids[i] = game.ID
	}

	return ids
}
