package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/rocketscienceinc/tictactoe-ai/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-ai/internal/entity"
)

const playerColumns = `id, name, email, wins, losses, draws, created_at`

type sqlPlayer struct {
	conn *sql.DB
}

func NewSQLitePlayerRepository(conn *sql.DB) PlayerRepository {
	return &sqlPlayer{
		conn: conn,
	}
}

func scanPlayer(row rowScanner) (*entity.Player, error) {
	var (
		player    entity.Player
		createdAt int64
	)

	err := row.Scan(&player.ID, &player.Name, &player.Email, &player.Wins, &player.Losses, &player.Draws, &createdAt)
	if err != nil {
		return nil, err
	}

	player.CreatedAt = time.Unix(0, createdAt).UTC()

	return &player, nil
}

func getPlayer(ctx context.Context, q querier, where string, arg any) (*entity.Player, error) {
	query := `SELECT ` + playerColumns + ` FROM players WHERE ` + where

	player, err := scanPlayer(q.QueryRowContext(ctx, query, arg))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperror.ErrPlayerNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("can't find player: %w", err)
	}

	return player, nil
}

func (that *sqlPlayer) Create(ctx context.Context, player *entity.Player) error {
	tx, err := that.conn.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("can't begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	_, err = getPlayer(ctx, tx, `email = ?`, player.Email)
	switch {
	case err == nil:
		return fmt.Errorf("%w: %s", apperror.ErrEmailAlreadyExists, player.Email)
	case !errors.Is(err, apperror.ErrPlayerNotFound):
		return err
	}

	query := `INSERT INTO players (` + playerColumns + `) VALUES (?, ?, ?, ?, ?, ?, ?)`

	_, err = tx.ExecContext(ctx, query,
		player.ID, player.Name, player.Email, player.Wins, player.Losses, player.Draws, player.CreatedAt.UnixNano(),
	)
	if err != nil {
		return fmt.Errorf("can't save player: %w", err)
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("can't commit player: %w", err)
	}

	return nil
}

func (that *sqlPlayer) GetByID(ctx context.Context, id string) (*entity.Player, error) {
	return getPlayer(ctx, that.conn, `id = ?`, id)
}

func (that *sqlPlayer) GetByEmail(ctx context.Context, email string) (*entity.Player, error) {
	return getPlayer(ctx, that.conn, `email = ?`, entity.NormalizeEmail(email))
}

func (that *sqlPlayer) List(ctx context.Context) ([]*entity.Player, error) {
	query := `SELECT ` + playerColumns + ` FROM players ORDER BY created_at, id`

	return that.query(ctx, query)
}

func (that *sqlPlayer) Leaderboard(ctx context.Context, limit int) ([]*entity.Player, error) {
	if limit <= 0 {
		return []*entity.Player{}, nil
	}

	query := `SELECT ` + playerColumns + ` FROM players ORDER BY wins DESC, id DESC LIMIT ?`

	return that.query(ctx, query, limit)
}

func (that *sqlPlayer) query(ctx context.Context, query string, args ...any) ([]*entity.Player, error) {
	rows, err := that.conn.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("can't list players: %w", err)
	}
	defer rows.Close()

	players := make([]*entity.Player, 0)
	for rows.Next() {
		player, err := scanPlayer(rows)
		if err != nil {
			return nil, fmt.Errorf("can't scan player: %w", err)
		}
		players = append(players, player)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("can't list players: %w", err)
	}

	return players, nil
}
