package entity

import (
	"encoding/json"
	"fmt"

	"github.com/rocketscienceinc/tictactoe-ai/internal/apperror"
)

type Cell uint8

const (
	Empty Cell = iota
	X
	O
)

const BoardSize = 9

// EmptyBoardString - transport form of a fresh board.
const EmptyBoardString = "---------"

func (that Cell) String() string {
	switch that {
	case X:
		return "X"
	case O:
		return "O"
	default:
		return "-"
	}
}

// Opponent - returns the other symbol, Empty stays Empty.
func (that Cell) Opponent() Cell {
	switch that {
	case X:
		return O
	case O:
		return X
	default:
		return Empty
	}
}

func cellFromRune(r rune) (Cell, bool) {
	switch r {
	case '-':
		return Empty, true
	case 'X':
		return X, true
	case 'O':
		return O, true
	default:
		return Empty, false
	}
}

// Board - 3x3 grid stored row-major, index 0 is top-left and 8 is bottom-right.
type Board [BoardSize]Cell

// Place - returns a copy of the board with the symbol set at index. The receiver is never changed.
func (that Board) Place(index int, symbol Cell) (Board, error) {
	if index < 0 || index >= BoardSize {
		return that, fmt.Errorf("%w: %d", apperror.ErrOutOfRange, index)
	}

	if symbol != X && symbol != O {
		return that, fmt.Errorf("%w: %d", apperror.ErrInvalidSymbol, symbol)
	}

	if that[index] != Empty {
		return that, fmt.Errorf("%w: %d", apperror.ErrCellOccupied, index)
	}

	next := that
	next[index] = symbol

	return next, nil
}

func (that Board) IsFull() bool {
	for _, cell := range that {
		if cell == Empty {
			return false
		}
	}

	return true
}

func (that Board) Cells() [BoardSize]Cell {
	return that
}

// EmptyCells - indices of empty cells in ascending order.
func (that Board) EmptyCells() []int {
	cells := make([]int, 0, BoardSize)
	for i, cell := range that {
		if cell == Empty {
			cells = append(cells, i)
		}
	}

	return cells
}

func (that Board) String() string {
	buf := make([]byte, BoardSize)
	for i, cell := range that {
		buf[i] = cell.String()[0]
	}

	return string(buf)
}

// ParseBoard - decodes the 9 character '-', 'X', 'O' form.
func ParseBoard(s string) (Board, error) {
	var board Board

	if len(s) != BoardSize {
		return board, fmt.Errorf("%w: expected %d cells, got %d", apperror.ErrInvalidBoard, BoardSize, len(s))
	}

	for i, r := range s {
		cell, ok := cellFromRune(r)
		if !ok {
			return Board{}, fmt.Errorf("%w: unexpected symbol %q at %d", apperror.ErrInvalidBoard, r, i)
		}
		board[i] = cell
	}

	return board, nil
}

func (that Board) MarshalJSON() ([]byte, error) {
	return json.Marshal(that.String())
}

func (that *Board) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("failed to unmarshal board: %w", err)
	}

	board, err := ParseBoard(s)
	if err != nil {
		return err
	}

	*that = board

	return nil
}
