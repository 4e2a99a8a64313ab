package websocket

import (
	"context"
	"errors"
	"fmt"
	"net/url"

	"nhooyr.io/websocket"

	"github.com/rocketscienceinc/tictactoe-ai/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-ai/internal/entity"
)

var (
	errMalformed     = errors.New("malformed message")
	errUnknownAction = errors.New("unknown action")
	errMissingField  = errors.New("missing field")
)

func (that *Server) handleGameStart(ctx context.Context, payload *RequestPayload) (*entity.Game, error) {
	if payload.Email == "" {
		return nil, fmt.Errorf("%w: email", errMissingField)
	}

	game, err := that.uGame.StartGame(ctx, payload.Email)
	if err != nil {
		return nil, err
	}

	that.logger.Info("game started", "game_id", game.ID)

	return game, nil
}

func (that *Server) handleGameTurn(ctx context.Context, payload *RequestPayload) (*entity.Game, error) {
	if payload.GameID == "" {
		return nil, fmt.Errorf("%w: game_id", errMissingField)
	}

	if payload.Cell == nil {
		return nil, fmt.Errorf("%w: cell", errMissingField)
	}

	return that.uGame.MakeMove(ctx, payload.GameID, *payload.Cell)
}

func (that *Server) handleGameGet(ctx context.Context, payload *RequestPayload) (*entity.Game, error) {
	if payload.GameID == "" {
		return nil, fmt.Errorf("%w: game_id", errMissingField)
	}

	return that.uGame.GetGame(ctx, payload.GameID)
}

// sendError - replies with the error text. Unexpected failures are logged and masked.
func (that *Server) sendError(ctx context.Context, conn *websocket.Conn, action string, err error) error {
	payload := ResponsePayload{
		Error:     err.Error(),
		Retryable: errors.Is(err, apperror.ErrConflict),
	}

	if !isClientError(err) {
		that.logger.Error("failed to process message", "action", action, "error", err)
		payload.Error = "internal error"
	}

	if err = that.sendMessage(ctx, conn, action, payload); err != nil {
		return fmt.Errorf("failed to send error response: %w", err)
	}

	return nil
}

func isClientError(err error) bool {
	for _, target := range []error{
		errMalformed,
		errUnknownAction,
		errMissingField,
		apperror.ErrOutOfRange,
		apperror.ErrCellOccupied,
		apperror.ErrSessionAlreadyTerminal,
		apperror.ErrSessionNotFound,
		apperror.ErrPlayerNotFound,
		apperror.ErrConflict,
	} {
		if errors.Is(err, target) {
			return true
		}
	}

	return false
}

// originHost - nhooyr matches origins by host, the config holds a full URL.
func originHost(origin string) string {
	u, err := url.Parse(origin)
	if err != nil || u.Host == "" {
		return origin
	}

	return u.Host
}
