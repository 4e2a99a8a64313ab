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

type PlayerRepository interface {
	Create(ctx context.Context, player *entity.Player) error
	GetByID(ctx context.Context, id string) (*entity.Player, error)
	GetByEmail(ctx context.Context, email string) (*entity.Player, error)
	List(ctx context.Context) ([]*entity.Player, error)
	// Leaderboard - players ordered by wins, ties by id descending.
	Leaderboard(ctx context.Context, limit int) ([]*entity.Player, error)
}

type dbPlayer struct {
	client *redis.Client
}

func NewPlayerRepository(client *redis.Client) PlayerRepository {
	return &dbPlayer{
		client: client,
	}
}

func (that *dbPlayer) Create(ctx context.Context, player *entity.Player) error {
	playerJSON, err := json.Marshal(player)
	if err != nil {
		return fmt.Errorf("failed to marshal player: %w", err)
	}

	eKey := emailKey(player.Email)

	err = that.client.Watch(ctx, func(tx *redis.Tx) error {
		exists, err := tx.Exists(ctx, eKey).Result()
		if err != nil {
			return fmt.Errorf("failed to check email: %w", err)
		}

		if exists > 0 {
			return fmt.Errorf("%w: %s", apperror.ErrEmailAlreadyExists, player.Email)
		}

		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, playerKey(player.ID), playerJSON, 0)
			pipe.Set(ctx, eKey, player.ID, 0)
			pipe.SAdd(ctx, playersKey, player.ID)
			pipe.ZAdd(ctx, leaderboardKey, redis.Z{Score: float64(player.Wins), Member: player.ID})
			return nil
		})

		return err
	}, eKey)
	if err != nil {
		return fmt.Errorf("failed to create player: %w", mapTxErr(err))
	}

	return nil
}

func (that *dbPlayer) GetByID(ctx context.Context, id string) (*entity.Player, error) {
	var player entity.Player

	err := getJSON(ctx, that.client, playerKey(id), &player)
	if errors.Is(err, redis.Nil) {
		return nil, apperror.ErrPlayerNotFound
	}

	if err != nil {
		return nil, fmt.Errorf("failed to get player by ID: %w", err)
	}

	return &player, nil
}

func (that *dbPlayer) GetByEmail(ctx context.Context, email string) (*entity.Player, error) {
	id, err := that.client.Get(ctx, emailKey(entity.NormalizeEmail(email))).Result()
	if errors.Is(err, redis.Nil) {
		return nil, apperror.ErrPlayerNotFound
	}

	if err != nil {
		return nil, fmt.Errorf("failed to get player by email: %w", err)
	}

	return that.GetByID(ctx, id)
}

func (that *dbPlayer) List(ctx context.Context) ([]*entity.Player, error) {
	ids, err := that.client.SMembers(ctx, playersKey).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to list player ids: %w", err)
	}

	players, err := mgetJSON[entity.Player](ctx, that.client, ids, playerKey)
	if err != nil {
		return nil, fmt.Errorf("failed to list players: %w", err)
	}

	slices.SortFunc(players, func(a, b *entity.Player) int {
		if c := a.CreatedAt.Compare(b.CreatedAt); c != 0 {
			return c
		}
		return cmp.Compare(a.ID, b.ID)
	})

	return players, nil
}

func (that *dbPlayer) Leaderboard(ctx context.Context, limit int) ([]*entity.Player, error) {
	if limit <= 0 {
		return []*entity.Player{}, nil
	}

	ids, err := that.client.ZRevRange(ctx, leaderboardKey, 0, int64(limit-1)).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to read leaderboard: %w", err)
	}

	players, err := mgetJSON[entity.Player](ctx, that.client, ids, playerKey)
	if err != nil {
		return nil, fmt.Errorf("failed to load leaderboard players: %w", err)
	}

	return players, nil
}
