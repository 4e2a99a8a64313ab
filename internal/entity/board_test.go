package entity

import (
	"encoding/json"
	"testing"

	"github.com/rocketscienceinc/tictactoe-ai/internal/apperror"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustParse(t *testing.T, s string) Board {
	t.Helper()

	board, err := ParseBoard(s)
	require.NoError(t, err)

	return board
}

func TestBoard_Place(t *testing.T) {
	t.Run("Places symbol on every empty cell and changes only that cell", func(t *testing.T) {
		for index := 0; index < BoardSize; index++ {
			// Given: an empty board
			var board Board

			// When: X is placed at index
			next, err := board.Place(index, X)

			// Then: only that index differs
			require.NoError(t, err)
			for i := range next {
				if i == index {
					assert.Equal(t, X, next[i])
					continue
				}
				assert.Equal(t, board[i], next[i])
			}
		}
	})

	t.Run("Does not mutate the receiver", func(t *testing.T) {
		// Given: a board with one mark
		board := mustParse(t, "X--------")

		// When: O is placed
		_, err := board.Place(4, O)
		require.NoError(t, err)

		// Then: the original board is unchanged
		assert.Equal(t, "X--------", board.String())
	})

	t.Run("Error on occupied cell", func(t *testing.T) {
		// Given: a board with X in the center
		board := mustParse(t, "----X----")

		// When: O tries the center
		next, err := board.Place(4, O)

		// Then: ErrCellOccupied, board unchanged
		require.ErrorIs(t, err, apperror.ErrCellOccupied)
		assert.Equal(t, board, next)
	})

	t.Run("Error on out of range index", func(t *testing.T) {
		board := mustParse(t, "X--------")

		for _, index := range []int{-1, 9, 20} {
			next, err := board.Place(index, O)

			require.ErrorIs(t, err, apperror.ErrOutOfRange)
			assert.Equal(t, board, next)
		}
	})

	t.Run("Error on empty symbol", func(t *testing.T) {
		var board Board

		_, err := board.Place(0, Empty)

		require.ErrorIs(t, err, apperror.ErrInvalidSymbol)
	})
}

func TestBoard_IsFull(t *testing.T) {
	assert.False(t, mustParse(t, "---------").IsFull())
	assert.False(t, mustParse(t, "XOXOXOXO-").IsFull())
	assert.True(t, mustParse(t, "XOXOXOXOX").IsFull())
}

func TestBoard_EmptyCells(t *testing.T) {
	// Given: a board with three empty cells
	board := mustParse(t, "X-O-XO-XO")

	// When: listing empty cells
	cells := board.EmptyCells()

	// Then: indices are ascending
	assert.Equal(t, []int{1, 3, 6}, cells)
	assert.Empty(t, mustParse(t, "XOXOXOXOX").EmptyCells())
}

func TestParseBoard(t *testing.T) {
	t.Run("Round trips the transport form", func(t *testing.T) {
		board := mustParse(t, "XO-----OX")

		assert.Equal(t, X, board[0])
		assert.Equal(t, O, board[1])
		assert.Equal(t, Empty, board[2])
		assert.Equal(t, "XO-----OX", board.String())
	})

	t.Run("Rejects wrong length", func(t *testing.T) {
		_, err := ParseBoard("XO")

		require.ErrorIs(t, err, apperror.ErrInvalidBoard)
	})

	t.Run("Rejects unknown symbols", func(t *testing.T) {
		_, err := ParseBoard("XO-----Ox")

		require.ErrorIs(t, err, apperror.ErrInvalidBoard)
	})
}

func TestBoard_JSON(t *testing.T) {
	// Given: a game with a board
	game := &Game{ID: "1", Board: mustParse(t, "X---O----"), Outcome: OutcomeInProgress}

	// When: it is encoded
	data, err := json.Marshal(game)
	require.NoError(t, err)

	// Then: the board uses the 9 character form
	assert.Contains(t, string(data), `"board":"X---O----"`)

	var decoded Game
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, game.Board, decoded.Board)
}
