// Package storage keeps finished and in-progress games in SQLite.
package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog/log"
	_ "modernc.org/sqlite"
)

var ErrNotFound = errors.New("game not found")

const schema = `
CREATE TABLE IF NOT EXISTS games (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	name TEXT NOT NULL,
	mode TEXT NOT NULL,
	difficulty TEXT,
	created_at INTEGER NOT NULL,
	updated_at INTEGER NOT NULL,
	status TEXT NOT NULL,
	winner TEXT,
	total_moves INTEGER DEFAULT 0,
	position_hash INTEGER DEFAULT 0
);
CREATE TABLE IF NOT EXISTS moves (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	game_id INTEGER NOT NULL,
	move_number INTEGER NOT NULL,
	player TEXT NOT NULL,
	position_x INTEGER NOT NULL,
	position_y INTEGER NOT NULL,
	timestamp INTEGER NOT NULL,
	FOREIGN KEY (game_id) REFERENCES games(id) ON DELETE CASCADE
);
CREATE INDEX IF NOT EXISTS idx_games_status ON games(status);
CREATE INDEX IF NOT EXISTS idx_moves_game_id ON moves(game_id);
`

// SavedGame is a row of the games table. Times are kept to the
// millisecond.
type SavedGame struct {
	ID           int64
	Name         string
	Mode         string
	Difficulty   string
	CreatedAt    time.Time
	UpdatedAt    time.Time
	Status       string
	Winner       string
	TotalMoves   int
	PositionHash uint64
}

// SavedMove is a row of the moves table. MoveNumber starts at 1.
type SavedMove struct {
	ID         int64
	GameID     int64
	MoveNumber int
	Player     string
	X          int
	Y          int
	Timestamp  time.Time
}

// Store wraps a single SQLite connection.
type Store struct {
	db *sql.DB
}

// Open opens (creating if needed) the database file at path.
func Open(path string) (*Store, error) {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("creating db directory: %w", err)
		}
	}
	return open(path)
}

// OpenInMemory returns a store that lives as long as it stays open.
func OpenInMemory() (*Store, error) {
	return open(":memory:")
}

func open(dsn string) (*Store, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}
	// A second connection to :memory: would be a different database, and
	// the foreign_keys pragma is per connection.
	db.SetMaxOpenConns(1)
	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enabling foreign keys: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating tables: %w", err)
	}
	log.Debug().Str("dsn", dsn).Msg("opened-game-store")
	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

func nullable(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

func insertGame(ctx context.Context, e execer, g *SavedGame) (int64, error) {
	res, err := e.ExecContext(ctx, `INSERT INTO games
		(name, mode, difficulty, created_at, updated_at, status, winner, total_moves, position_hash)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		g.Name, g.Mode, nullable(g.Difficulty), g.CreatedAt.UnixMilli(), g.UpdatedAt.UnixMilli(),
		g.Status, nullable(g.Winner), g.TotalMoves, int64(g.PositionHash))
	if err != nil {
		return 0, fmt.Errorf("inserting game: %w", err)
	}
	return res.LastInsertId()
}

func insertMove(ctx context.Context, e execer, m *SavedMove) (int64, error) {
	res, err := e.ExecContext(ctx, `INSERT INTO moves
		(game_id, move_number, player, position_x, position_y, timestamp)
		VALUES (?, ?, ?, ?, ?, ?)`,
		m.GameID, m.MoveNumber, m.Player, m.X, m.Y, m.Timestamp.UnixMilli())
	if err != nil {
		return 0, fmt.Errorf("inserting move %d: %w", m.MoveNumber, err)
	}
	return res.LastInsertId()
}

// SaveGame inserts g and sets its ID.
func (s *Store) SaveGame(ctx context.Context, g *SavedGame) (int64, error) {
	id, err := insertGame(ctx, s.db, g)
	if err != nil {
		return 0, err
	}
	g.ID = id
	return id, nil
}

// SaveMove inserts m and sets its ID. The game must exist.
func (s *Store) SaveMove(ctx context.Context, m *SavedMove) (int64, error) {
	id, err := insertMove(ctx, s.db, m)
	if err != nil {
		return 0, err
	}
	m.ID = id
	return id, nil
}

// SaveWithMoves writes a game and all of its moves in one transaction.
// Each move's GameID is filled in.
func (s *Store) SaveWithMoves(ctx context.Context, g *SavedGame, moves []SavedMove) (int64, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer tx.Rollback()

	id, err := insertGame(ctx, tx, g)
	if err != nil {
		return 0, err
	}
	for i := range moves {
		moves[i].GameID = id
		if moves[i].ID, err = insertMove(ctx, tx, &moves[i]); err != nil {
			return 0, err
		}
	}
	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("committing game: %w", err)
	}
	g.ID = id
	log.Info().Int64("game-id", id).Str("name", g.Name).Int("moves", len(moves)).Msg("game-saved")
	return id, nil
}

const gameColumns = `id, name, mode, difficulty, created_at, updated_at, status, winner, total_moves, position_hash`

type scanner interface {
	Scan(dest ...any) error
}

func scanGame(sc scanner) (*SavedGame, error) {
	var g SavedGame
	var difficulty, winner sql.NullString
	var created, updated, hash int64
	if err := sc.Scan(&g.ID, &g.Name, &g.Mode, &difficulty, &created, &updated,
		&g.Status, &winner, &g.TotalMoves, &hash); err != nil {
		return nil, err
	}
	g.Difficulty = difficulty.String
	g.Winner = winner.String
	g.CreatedAt = time.UnixMilli(created)
	g.UpdatedAt = time.UnixMilli(updated)
	g.PositionHash = uint64(hash)
	return &g, nil
}

// ListGames returns every game, most recently updated first.
func (s *Store) ListGames(ctx context.Context) ([]*SavedGame, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+gameColumns+` FROM games ORDER BY updated_at DESC, id DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var games []*SavedGame
	for rows.Next() {
		g, err := scanGame(rows)
		if err != nil {
			return nil, err
		}
		games = append(games, g)
	}
	return games, rows.Err()
}

func (s *Store) GetGame(ctx context.Context, id int64) (*SavedGame, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+gameColumns+` FROM games WHERE id = ?`, id)
	g, err := scanGame(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %d", ErrNotFound, id)
	}
	return g, err
}

// GetMoves returns the moves of a game in play order.
func (s *Store) GetMoves(ctx context.Context, gameID int64) ([]SavedMove, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id, game_id, move_number, player, position_x, position_y, timestamp
		FROM moves WHERE game_id = ? ORDER BY move_number ASC`, gameID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var moves []SavedMove
	for rows.Next() {
		var m SavedMove
		var ts int64
		if err := rows.Scan(&m.ID, &m.GameID, &m.MoveNumber, &m.Player, &m.X, &m.Y, &ts); err != nil {
			return nil, err
		}
		m.Timestamp = time.UnixMilli(ts)
		moves = append(moves, m)
	}
	return moves, rows.Err()
}

// DeleteGame removes a game and, through the cascade, its moves.
func (s *Store) DeleteGame(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM games WHERE id = ?`, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("%w: %d", ErrNotFound, id)
	}
	return nil
}
