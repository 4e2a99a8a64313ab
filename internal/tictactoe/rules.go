package tictactoe

import (
	"fmt"

	"github.com/rocketscienceinc/tictactoe-ai/internal/entity"
)

// WinCombos - rows, columns and diagonals of the board.
var WinCombos = [8][3]int{
	{0, 1, 2},
	{3, 4, 5},
	{6, 7, 8},
	{0, 3, 6},
	{1, 4, 7},
	{2, 5, 8},
	{0, 4, 8},
	{2, 4, 6},
}

// Winner - returns the symbol that completed a line, or entity.Empty.
// A reachable board has at most one winner, the caller keeps it that way.
func Winner(board entity.Board) entity.Cell {
	for _, combo := range WinCombos {
		a, b, c := board[combo[0]], board[combo[1]], board[combo[2]]
		if a != entity.Empty && a == b && b == c {
			return a
		}
	}

	return entity.Empty
}

// Classify - outcome of the board for the human player.
func Classify(board entity.Board) entity.Outcome {
	switch Winner(board) {
	case entity.HumanMark:
		return entity.OutcomeWin
	case entity.BotMark:
		return entity.OutcomeLoss
	}

	if board.IsFull() {
		return entity.OutcomeDraw
	}

	return entity.OutcomeInProgress
}

// MakeTurn - places symbol on the game board and re-evaluates the outcome.
// On error the game is left untouched.
func MakeTurn(game *entity.Game, symbol entity.Cell, cell int) error {
	if err := game.ConfirmInProgress(); err != nil {
		return err
	}

	board, err := game.Board.Place(cell, symbol)
	if err != nil {
		return fmt.Errorf("invalid turn: %w", err)
	}

	game.Board = board
	game.Outcome = Classify(board)

	return nil
}
