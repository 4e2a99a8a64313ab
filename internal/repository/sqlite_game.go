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

const gameColumns = `id, player_id, board, outcome, version, created_at, updated_at`

type querier interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

type sqlGame struct {
	conn *sql.DB
}

func NewSQLiteGameRepository(conn *sql.DB) GameRepository {
	return &sqlGame{
		conn: conn,
	}
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanGame(row rowScanner) (*entity.Game, error) {
	var (
		game               entity.Game
		board, outcome     string
		createdAt, updated int64
	)

	if err := row.Scan(&game.ID, &game.PlayerID, &board, &outcome, &game.Version, &createdAt, &updated); err != nil {
		return nil, err
	}

	var err error
	if game.Board, err = entity.ParseBoard(board); err != nil {
		return nil, err
	}

	if game.Outcome, err = entity.ParseOutcome(outcome); err != nil {
		return nil, err
	}

	game.CreatedAt = time.Unix(0, createdAt).UTC()
	game.UpdatedAt = time.Unix(0, updated).UTC()

	return &game, nil
}

func (that *sqlGame) Create(ctx context.Context, game *entity.Game) error {
	query := `INSERT INTO games (` + gameColumns + `) VALUES (?, ?, ?, ?, ?, ?, ?)`

	_, err := that.conn.ExecContext(ctx, query,
		game.ID, game.PlayerID, game.Board.String(), string(game.Outcome), game.Version,
		game.CreatedAt.UnixNano(), game.UpdatedAt.UnixNano(),
	)
	if err != nil {
		return fmt.Errorf("can't save game: %w", err)
	}

	return nil
}

func (that *sqlGame) GetByID(ctx context.Context, id string) (*entity.Game, error) {
	return getGame(ctx, that.conn, id)
}

func getGame(ctx context.Context, q querier, id string) (*entity.Game, error) {
	query := `SELECT ` + gameColumns + ` FROM games WHERE id = ?`

	game, err := scanGame(q.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperror.ErrSessionNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("can't find game: %w", err)
	}

	return game, nil
}

// casUpdate - writes board and outcome only if the stored row is still in progress at the
// expected version, then explains a miss.
func casUpdate(ctx context.Context, tx *sql.Tx, game *entity.Game) error {
	query := `UPDATE games SET board = ?, outcome = ?, version = version + 1, updated_at = ?
		WHERE id = ? AND version = ? AND outcome = ?`

	res, err := tx.ExecContext(ctx, query,
		game.Board.String(), string(game.Outcome), game.UpdatedAt.UnixNano(),
		game.ID, game.Version, string(entity.OutcomeInProgress),
	)
	if err != nil {
		return fmt.Errorf("can't update game: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("can't update game: %w", err)
	}

	if affected == 1 {
		return nil
	}

	stored, err := getGame(ctx, tx, game.ID)
	if err != nil {
		return err
	}

	if stored.IsFinished() {
		return apperror.ErrSessionAlreadyTerminal
	}

	return fmt.Errorf("%w: game %s version %d, have %d", apperror.ErrConflict, game.ID, stored.Version, game.Version)
}

func (that *sqlGame) Update(ctx context.Context, game *entity.Game) error {
	if game.IsFinished() {
		return ErrTerminalUpdate
	}

	tx, err := that.conn.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("can't begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if err = casUpdate(ctx, tx, game); err != nil {
		return fmt.Errorf("failed to update game: %w", err)
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("can't commit game: %w", err)
	}

	game.Version++

	return nil
}

func (that *sqlGame) Finish(ctx context.Context, game *entity.Game) (*entity.Player, error) {
	if !game.IsFinished() {
		return nil, ErrNotTerminal
	}

	tx, err := that.conn.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("can't begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if err = casUpdate(ctx, tx, game); err != nil {
		return nil, fmt.Errorf("failed to finish game: %w", err)
	}

	player, err := getPlayer(ctx, tx, `id = ?`, game.PlayerID)
	if err != nil {
		return nil, fmt.Errorf("failed to finish game: %w", err)
	}

	if err = player.Record(game.Outcome); err != nil {
		return nil, err
	}

	query := `UPDATE players SET wins = ?, losses = ?, draws = ? WHERE id = ?`
	if _, err = tx.ExecContext(ctx, query, player.Wins, player.Losses, player.Draws, player.ID); err != nil {
		return nil, fmt.Errorf("can't update player: %w", err)
	}

	if err = tx.Commit(); err != nil {
		return nil, fmt.Errorf("can't commit game: %w", err)
	}

	game.Version++

	return player, nil
}

func (that *sqlGame) List(ctx context.Context) ([]*entity.Game, error) {
	query := `SELECT ` + gameColumns + ` FROM games ORDER BY created_at, id`

	return that.query(ctx, query)
}

func (that *sqlGame) ListByPlayer(ctx context.Context, playerID string) ([]*entity.Game, error) {
	query := `SELECT ` + gameColumns + ` FROM games WHERE player_id = ? ORDER BY created_at, id`

	return that.query(ctx, query, playerID)
}

func (that *sqlGame) query(ctx context.Context, query string, args ...any) ([]*entity.Game, error) {
	rows, err := that.conn.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("can't list games: %w", err)
	}
	defer rows.Close()

	games := make([]*entity.Game, 0)
	for rows.Next() {
		game, err := scanGame(rows)
		if err != nil {
			return nil, fmt.Errorf("can't scan game: %w", err)
		}
		games = append(games, game)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("can't list games: %w", err)
	}

	return games, nil
}
