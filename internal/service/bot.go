package service

import (
	"math/rand/v2"

	"github.com/rocketscienceinc/tictactoe-ai/internal/entity"
)

// Randomizer - source of uniform indices in [0, n).
type Randomizer interface {
	IntN(n int) int
}

type globalRand struct{}

func (globalRand) IntN(n int) int {
	return rand.IntN(n) //nolint: gosec // move choice is not security sensitive
}

type BotService interface {
	ChooseMove(board entity.Board) (int, bool)
}

type botService struct {
	rnd Randomizer
}

// NewBotService - rnd may be nil, then the shared math/rand/v2 source is used.
func NewBotService(rnd Randomizer) BotService {
	if rnd == nil {
		rnd = globalRand{}
	}

	return &botService{
		rnd: rnd,
	}
}

// ChooseMove - picks one of the empty cells uniformly, false when the board is full.
func (that *botService) ChooseMove(board entity.Board) (int, bool) {
	availableCells := board.EmptyCells()
	if len(availableCells) == 0 {
		return 0, false
	}

	return availableCells[that.rnd.IntN(len(availableCells))], true
}
