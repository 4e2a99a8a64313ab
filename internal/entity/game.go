package entity

import (
	"errors"
	"fmt"
	"time"

	"github.com/rocketscienceinc/tictactoe-ai/internal/apperror"
)

// Outcome - result of a game from the human player's side.
type Outcome string

const (
	OutcomeInProgress Outcome = "IN_PROGRESS"
	OutcomeWin        Outcome = "WIN"
	OutcomeLoss       Outcome = "LOSS"
	OutcomeDraw       Outcome = "DRAW"
)

const (
	// HumanMark - the player always plays X and moves first.
	HumanMark = X
	// BotMark - the AI responder always plays O.
	BotMark = O
)

var ErrUnknownOutcome = errors.New("unknown game outcome")

func (that Outcome) IsTerminal() bool {
	return that == OutcomeWin || that == OutcomeLoss || that == OutcomeDraw
}

func ParseOutcome(s string) (Outcome, error) {
	switch outcome := Outcome(s); outcome {
	case OutcomeInProgress, OutcomeWin, OutcomeLoss, OutcomeDraw:
		return outcome, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownOutcome, s)
	}
}

type Game struct {
	ID        string    `json:"id"`
	PlayerID  string    `json:"player_id"`
	Board     Board     `json:"board"`
	Outcome   Outcome   `json:"outcome"`
	Version   int64     `json:"version"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func NewGame(id, playerID string, now time.Time) *Game {
	return &Game{
		ID:        id,
		PlayerID:  playerID,
		Outcome:   OutcomeInProgress,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func (that *Game) IsFinished() bool {
	return that.Outcome.IsTerminal()
}

func (that *Game) IsInProgress() bool {
	return that.Outcome == OutcomeInProgress
}

// ConfirmInProgress - returns ErrSessionAlreadyTerminal unless the game still accepts moves.
func (that *Game) ConfirmInProgress() error {
	switch {
	case that.IsInProgress():
		return nil
	case that.IsFinished():
		return apperror.ErrSessionAlreadyTerminal
	default:
		return fmt.Errorf("%w: %q", ErrUnknownOutcome, that.Outcome)
	}
}

// Clone - deep copy, Board is a value so a struct copy is enough.
func (that *Game) Clone() *Game {
	cp := *that
	return &cp
}
