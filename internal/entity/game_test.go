package entity

import (
	"testing"
	"time"

	"github.com/rocketscienceinc/tictactoe-ai/internal/apperror"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewGame(t *testing.T) {
	// Given: a fixed clock
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

	// When: a new game is created
	game := NewGame("123", "player-1", now)

	// Then: the game is empty and in progress
	expectedGame := &Game{
		ID:        "123",
		PlayerID:  "player-1",
		Board:     Board{},
		Outcome:   OutcomeInProgress,
		CreatedAt: now,
		UpdatedAt: now,
	}

	require.Equal(t, expectedGame, game)
	assert.Equal(t, EmptyBoardString, game.Board.String())
}

func TestGame_ConfirmInProgress(t *testing.T) {
	t.Run("Returns nil when game is in progress", func(t *testing.T) {
		game := &Game{Outcome: OutcomeInProgress}

		assert.NoError(t, game.ConfirmInProgress())
	})

	t.Run("Returns ErrSessionAlreadyTerminal for every terminal outcome", func(t *testing.T) {
		for _, outcome := range []Outcome{OutcomeWin, OutcomeLoss, OutcomeDraw} {
			game := &Game{Outcome: outcome}

			assert.ErrorIs(t, game.ConfirmInProgress(), apperror.ErrSessionAlreadyTerminal)
		}
	})

	t.Run("Returns error for unknown outcome", func(t *testing.T) {
		game := &Game{Outcome: "unknown"}

		err := game.ConfirmInProgress()

		require.ErrorIs(t, err, ErrUnknownOutcome)
	})
}

func TestParseOutcome(t *testing.T) {
	outcome, err := ParseOutcome("LOSS")
	require.NoError(t, err)
	assert.Equal(t, OutcomeLoss, outcome)

	_, err = ParseOutcome("lost")
	require.ErrorIs(t, err, ErrUnknownOutcome)
}
