package entity

import (
	"fmt"
	"net/mail"
	"strings"
	"time"

	"github.com/rocketscienceinc/tictactoe-ai/internal/apperror"
)

// Player - account with aggregated results. Counters change only through Record.
type Player struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Wins      int       `json:"wins"`
	Losses    int       `json:"losses"`
	Draws     int       `json:"draws"`
	CreatedAt time.Time `json:"created_at"`
}

func NewPlayer(id, name, email string, now time.Time) (*Player, error) {
	name = strings.TrimSpace(name)
	email = NormalizeEmail(email)

	if name == "" {
		return nil, fmt.Errorf("%w: name is required", apperror.ErrInvalidPlayer)
	}

	if _, err := mail.ParseAddress(email); err != nil {
		return nil, fmt.Errorf("%w: bad email %q", apperror.ErrInvalidPlayer, email)
	}

	return &Player{
		ID:        id,
		Name:      name,
		Email:     email,
		CreatedAt: now,
	}, nil
}

func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Record - applies one terminal outcome to the counters.
func (that *Player) Record(outcome Outcome) error {
	switch outcome {
	case OutcomeWin:
		that.Wins++
	case OutcomeLoss:
		that.Losses++
	case OutcomeDraw:
		that.Draws++
	default:
		return fmt.Errorf("%w: cannot record %q", ErrUnknownOutcome, outcome)
	}

	return nil
}

func (that *Player) GamesPlayed() int {
	return that.Wins + that.Losses + that.Draws
}
