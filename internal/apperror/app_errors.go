package apperror

import "errors"

var (
	ErrOutOfRange             = errors.New("position is out of range")
	ErrCellOccupied           = errors.New("cell is already occupied")
	ErrInvalidSymbol          = errors.New("invalid symbol")
	ErrInvalidBoard           = errors.New("invalid board")
	ErrSessionAlreadyTerminal = errors.New("game is already finished")
	ErrSessionNotFound        = errors.New("game not found")
	ErrPlayerNotFound         = errors.New("player not found")
	ErrEmailAlreadyExists     = errors.New("player email already exists")
	ErrInvalidPlayer          = errors.New("invalid player")

	// ErrConflict - concurrent write on the same game, the request may be retried.
	ErrConflict = errors.New("concurrent update conflict")
)
