package export

import (
	"context"
	"errors"
	"fmt"

	"github.com/rocketscienceinc/tictactoe-ai/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-ai/internal/entity"
)

type gameLister interface {
	List(ctx context.Context) ([]*entity.Game, error)
}

type playerGetter interface {
	GetByID(ctx context.Context, id string) (*entity.Player, error)
}

// FinishedGames - collects every terminal game with its owner's email.
func FinishedGames(ctx context.Context, games gameLister, players playerGetter) ([]GameRecord, error) {
	all, err := games.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list games: %w", err)
	}

	owners := make(map[string]*entity.Player)
	records := make([]GameRecord, 0, len(all))

	for _, game := range all {
		if !game.IsFinished() {
			continue
		}

		owner, ok := owners[game.PlayerID]
		if !ok {
			owner, err = players.GetByID(ctx, game.PlayerID)
			if err != nil && !errors.Is(err, apperror.ErrPlayerNotFound) {
				return nil, fmt.Errorf("failed to get player %s: %w", game.PlayerID, err)
			}
			owners[game.PlayerID] = owner
		}

		records = append(records, NewGameRecord(game, owner))
	}

	return records, nil
}
