package repository

import (
	"cmp"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"slices"

	"github.com/redis/go-redis/v9"
	"github.com/rocketscienceinc/tictactoe-ai/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-ai/internal/entity"
)

var (
	ErrTerminalUpdate = errors.New("terminal outcome must be committed with Finish")
	ErrNotTerminal    = errors.New("game outcome is not terminal")
)

type GameRepository interface {
	Create(ctx context.Context, game *entity.Game) error
	GetByID(ctx context.Context, id string) (*entity.Game, error)
	// Update - saves an in-progress game if the stored version still matches.
	Update(ctx context.Context, game *entity.Game) error
	// Finish - stores the terminal game and records its outcome for the player in one transaction.
	Finish(ctx context.Context, game *entity.Game) (*entity.Player, error)
	List(ctx context.Context) ([]*entity.Game, error)
	ListByPlayer(ctx context.Context, playerID string) ([]*entity.Game, error)
}

const (
	gamesKey       = "games"
	playersKey     = "players"
	leaderboardKey = "leaderboard"
)

func gameKey(id string) string {
	return "game:" + id
}

func playerKey(id string) string {
	return "player:" + id
}

func playerGamesKey(id string) string {
	return "player:" + id + ":games"
}

func emailKey(email string) string {
	return "player:email:" + email
}

type getter interface {
	Get(ctx context.Context, key string) *redis.StringCmd
}

func getJSON(ctx context.Context, client getter, key string, v any) error {
	response, err := client.Get(ctx, key).Bytes()
	if err != nil {
		return err
	}

	if err = json.Unmarshal(response, v); err != nil {
		return fmt.Errorf("failed to unmarshal %s: %w", key, err)
	}

	return nil
}

// mapTxErr - an aborted EXEC means a watched key changed under us.
func mapTxErr(err error) error {
	if errors.Is(err, redis.TxFailedErr) {
		return apperror.ErrConflict
	}

	return err
}

type dbGame struct {
	client *redis.Client
}

func NewGameRepository(client *redis.Client) GameRepository {
	return &dbGame{
		client: client,
	}
}

func (that *dbGame) Create(ctx context.Context, game *entity.Game) error {
	gameJSON, err := json.Marshal(game)
	if err != nil {
		return fmt.Errorf("could not marshal game: %w", err)
	}

	key := gameKey(game.ID)

	err = that.client.Watch(ctx, func(tx *redis.Tx) error {
		exists, err := tx.Exists(ctx, key).Result()
		if err != nil {
			return fmt.Errorf("failed to check game: %w", err)
		}

		if exists > 0 {
			return fmt.Errorf("%w: game %s already exists", apperror.ErrConflict, game.ID)
		}

		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, key, gameJSON, 0)
			pipe.SAdd(ctx, gamesKey, game.ID)
			pipe.SAdd(ctx, playerGamesKey(game.PlayerID), game.ID)
			return nil
		})

		return err
	}, key)
	if err != nil {
		return fmt.Errorf("failed to create game: %w", mapTxErr(err))
	}

	return nil
}

func (that *dbGame) GetByID(ctx context.Context, id string) (*entity.Game, error) {
	var game entity.Game

	err := getJSON(ctx, that.client, gameKey(id), &game)
	if errors.Is(err, redis.Nil) {
		return nil, apperror.ErrSessionNotFound
	}

	if err != nil {
		return nil, fmt.Errorf("failed to get game by id: %w", err)
	}

	return &game, nil
}

// loadForCommit - reads the stored game inside a transaction and checks it can still change.
func loadForCommit(ctx context.Context, tx *redis.Tx, game *entity.Game) error {
	var stored entity.Game

	err := getJSON(ctx, tx, gameKey(game.ID), &stored)
	if errors.Is(err, redis.Nil) {
		return apperror.ErrSessionNotFound
	}

	if err != nil {
		return fmt.Errorf("failed to get game: %w", err)
	}

	if stored.IsFinished() {
		return apperror.ErrSessionAlreadyTerminal
	}

	if stored.Version != game.Version {
		return fmt.Errorf("%w: game %s version %d, have %d", apperror.ErrConflict, game.ID, stored.Version, game.Version)
	}

	return nil
}

func (that *dbGame) Update(ctx context.Context, game *entity.Game) error {
	if game.IsFinished() {
		return ErrTerminalUpdate
	}

	next := game.Clone()
	next.Version++

	gameJSON, err := json.Marshal(next)
	if err != nil {
		return fmt.Errorf("could not marshal game: %w", err)
	}

	key := gameKey(game.ID)

	err = that.client.Watch(ctx, func(tx *redis.Tx) error {
		if err := loadForCommit(ctx, tx, game); err != nil {
			return err
		}

		_, err := tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, key, gameJSON, 0)
			return nil
		})

		return err
	}, key)
	if err != nil {
		return fmt.Errorf("failed to update game: %w", mapTxErr(err))
	}

	game.Version = next.Version

	return nil
}

func (that *dbGame) Finish(ctx context.Context, game *entity.Game) (*entity.Player, error) {
	if !game.IsFinished() {
		return nil, ErrNotTerminal
	}

	next := game.Clone()
	next.Version++

	gameJSON, err := json.Marshal(next)
	if err != nil {
		return nil, fmt.Errorf("could not marshal game: %w", err)
	}

	gKey, pKey := gameKey(game.ID), playerKey(game.PlayerID)

	var player entity.Player

	err = that.client.Watch(ctx, func(tx *redis.Tx) error {
		if err := loadForCommit(ctx, tx, game); err != nil {
			return err
		}

		err := getJSON(ctx, tx, pKey, &player)
		if errors.Is(err, redis.Nil) {
			return apperror.ErrPlayerNotFound
		}
		if err != nil {
			return fmt.Errorf("failed to get player: %w", err)
		}

		if err = player.Record(game.Outcome); err != nil {
			return err
		}

		playerJSON, err := json.Marshal(&player)
		if err != nil {
			return fmt.Errorf("failed to marshal player: %w", err)
		}

		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, gKey, gameJSON, 0)
			pipe.Set(ctx, pKey, playerJSON, 0)
			pipe.ZAdd(ctx, leaderboardKey, redis.Z{Score: float64(player.Wins), Member: player.ID})
			return nil
		})

		return err
	}, gKey, pKey)
	if err != nil {
		return nil, fmt.Errorf("failed to finish game: %w", mapTxErr(err))
	}

	game.Version = next.Version

	return &player, nil
}

func (that *dbGame) List(ctx context.Context) ([]*entity.Game, error) {
	return that.listFromSet(ctx, gamesKey)
}

func (that *dbGame) ListByPlayer(ctx context.Context, playerID string) ([]*entity.Game, error) {
	return that.listFromSet(ctx, playerGamesKey(playerID))
}

func (that *dbGame) listFromSet(ctx context.Context, setKey string) ([]*entity.Game, error) {
	ids, err := that.client.SMembers(ctx, setKey).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to list game ids: %w", err)
	}

	games, err := mgetJSON[entity.Game](ctx, that.client, ids, gameKey)
	if err != nil {
		return nil, fmt.Errorf("failed to list games: %w", err)
	}

	slices.SortFunc(games, func(a, b *entity.Game) int {
		if c := a.CreatedAt.Compare(b.CreatedAt); c != 0 {
			return c
		}
		return cmp.Compare(a.ID, b.ID)
	})

	return games, nil
}

// mgetJSON - loads documents for ids in one round trip, missing keys are skipped.
func mgetJSON[T any](ctx context.Context, client *redis.Client, ids []string, key func(string) string) ([]*T, error) {
	if len(ids) == 0 {
		return []*T{}, nil
	}

	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = key(id)
	}

	values, err := client.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, err
	}

	items := make([]*T, 0, len(values))
	for i, value := range values {
		raw, ok := value.(string)
		if !ok {
			continue
		}

		var item T
		if err = json.Unmarshal([]byte(raw), &item); err != nil {
			return nil, fmt.Errorf("failed to unmarshal %s: %w", keys[i], err)
		}
		items = append(items, &item)
	}

	return items, nil
}
