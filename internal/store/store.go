// Package store persists the player roster and generated seasons in SQLite.
package store

import (
	"context"
	"database/sql"
	_ "embed"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/bf2799/pppl-league-app/internal/strategy"

	_ "modernc.org/sqlite"
)

//go:embed schema.sql
var schema string

const dateLayout = "2006-01-02"

var (
	ErrPlayerExists   = errors.New("player already exists")
	ErrUnknownPlayer  = errors.New("unknown player")
	ErrSeasonExists   = errors.New("season already exists")
	ErrSeasonNotFound = errors.New("season not found")
	ErrRoleExists     = errors.New("role already exists")
	ErrUnknownRole    = errors.New("unknown role")
)

// Store is a SQLite-backed league database.
type Store struct {
	db  *sql.DB
	log zerolog.Logger
}

// Open opens or creates the database at path and applies the schema.
// Creates the parent directory if it does not exist.
func Open(ctx context.Context, path string, log zerolog.Logger) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, errors.New("database path is required")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create store dir: %w", err)
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	// One connection keeps the foreign_keys pragma in effect for every query.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping sqlite: %w", err)
	}
	s := &Store{db: db, log: log.With().Str("component", "store").Logger()}
	if err := s.migrate(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	s.log.Debug().Str("path", path).Msg("database ready")
	return s, nil
}

func (s *Store) migrate(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, "PRAGMA foreign_keys = ON"); err != nil {
		return fmt.Errorf("enable foreign keys: %w", err)
	}
	if _, err := s.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("apply schema: %w", err)
	}
	return nil
}

func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// AddPlayer inserts a player and returns its id. Names are unique
// regardless of case.
func (s *Store) AddPlayer(ctx context.Context, name string) (int64, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return 0, errors.New("player name is required")
	}

	var existing int
	if err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM player WHERE name = ?`, name,
	).Scan(&existing); err != nil {
		return 0, fmt.Errorf("look up player: %w", err)
	}
	if existing > 0 {
		return 0, fmt.Errorf("%w: %s", ErrPlayerExists, name)
	}

	res, err := s.db.ExecContext(ctx, `INSERT INTO player(name) VALUES(?)`, name)
	if err != nil {
		return 0, fmt.Errorf("insert player: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("player id: %w", err)
	}
	s.log.Info().Str("player", name).Int64("id", id).Msg("player added")
	return id, nil
}

// PlayerNames returns the roster in the order players were added.
func (s *Store) PlayerNames(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT name FROM player ORDER BY player_id`)
	if err != nil {
		return nil, fmt.Errorf("list players: %w", err)
	}
	defer rows.Close()
	return scanNames(rows)
}

// PlayerImages holds the optional logo and headshot image files of a player.
type PlayerImages struct {
	Logo     []byte
	Headshot []byte
}

// SetPlayerImages stores images for an existing player. A nil image leaves
// the stored one in place.
func (s *Store) SetPlayerImages(ctx context.Context, name string, images PlayerImages) error {
	id, err := s.playerID(ctx, name)
	if err != nil {
		return err
	}
	if _, err := s.db.ExecContext(ctx,
		`UPDATE player SET logo = COALESCE(?, logo), headshot = COALESCE(?, headshot) WHERE player_id = ?`,
		blob(images.Logo), blob(images.Headshot), id,
	); err != nil {
		return fmt.Errorf("update player images: %w", err)
	}
	s.log.Debug().Str("player", name).Int("logo_bytes", len(images.Logo)).
		Int("headshot_bytes", len(images.Headshot)).Msg("player images saved")
	return nil
}

// PlayerImages returns the stored images of a player.
func (s *Store) PlayerImages(ctx context.Context, name string) (PlayerImages, error) {
	var images PlayerImages
	err := s.db.QueryRowContext(ctx,
		`SELECT logo, headshot FROM player WHERE name = ?`, strings.TrimSpace(name),
	).Scan(&images.Logo, &images.Headshot)
	if errors.Is(err, sql.ErrNoRows) {
		return PlayerImages{}, fmt.Errorf("%w: %s", ErrUnknownPlayer, name)
	}
	if err != nil {
		return PlayerImages{}, fmt.Errorf("look up player images: %w", err)
	}
	return images, nil
}

// blob maps an empty image to NULL.
func blob(b []byte) any {
	if len(b) == 0 {
		return nil
	}
	return b
}

func (s *Store) playerID(ctx context.Context, name string) (int64, error) {
	var id int64
	err := s.db.QueryRowContext(ctx,
		`SELECT player_id FROM player WHERE name = ?`, strings.TrimSpace(name),
	).Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, fmt.Errorf("%w: %s", ErrUnknownPlayer, name)
	}
	if err != nil {
		return 0, fmt.Errorf("look up player: %w", err)
	}
	return id, nil
}

// CreateSeason records a season and its games in one transaction. Game
// numbers are taken from the order of games, starting at 1.
func (s *Store) CreateSeason(ctx context.Context, start time.Time, end *time.Time, games []strategy.Game) (int64, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin season tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	startStr := start.Format(dateLayout)
	var existing int
	if err := tx.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM season WHERE start_date = ?`, startStr,
	).Scan(&existing); err != nil {
		return 0, fmt.Errorf("look up season: %w", err)
	}
	if existing > 0 {
		return 0, fmt.Errorf("%w: starting %s", ErrSeasonExists, startStr)
	}

	ids, err := playerIDs(ctx, tx)
	if err != nil {
		return 0, err
	}

	var endStr any
	if end != nil {
		endStr = end.Format(dateLayout)
	}
	res, err := tx.ExecContext(ctx,
		`INSERT INTO season(start_date, end_date, postseason_start_game) VALUES(?,?,?)`,
		startStr, endStr, len(games)+1,
	)
	if err != nil {
		return 0, fmt.Errorf("insert season: %w", err)
	}
	seasonID, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("season id: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO game(season_id, game_number, home_player_id, away_player_id) VALUES(?,?,?,?)`)
	if err != nil {
		return 0, fmt.Errorf("prepare game insert: %w", err)
	}
	defer stmt.Close()

	for i, g := range games {
		home, ok := ids[strings.ToLower(g.Home)]
		if !ok {
			return 0, fmt.Errorf("%w: %s", ErrUnknownPlayer, g.Home)
		}
		away, ok := ids[strings.ToLower(g.Away)]
		if !ok {
			return 0, fmt.Errorf("%w: %s", ErrUnknownPlayer, g.Away)
		}
		if _, err := stmt.ExecContext(ctx, seasonID, i+1, home, away); err != nil {
			return 0, fmt.Errorf("insert game %d: %w", i+1, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit season tx: %w", err)
	}
	s.log.Info().Str("start", startStr).Int64("season", seasonID).Int("games", len(games)).Msg("season saved")
	return seasonID, nil
}

// SeasonGames returns the games of the season starting on start, ordered by
// game number.
func (s *Store) SeasonGames(ctx context.Context, start time.Time) ([]strategy.Game, error) {
	startStr := start.Format(dateLayout)
	var seasonID int64
	err := s.db.QueryRowContext(ctx,
		`SELECT season_id FROM season WHERE start_date = ?`, startStr,
	).Scan(&seasonID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: starting %s", ErrSeasonNotFound, startStr)
	}
	if err != nil {
		return nil, fmt.Errorf("look up season: %w", err)
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT g.game_number, h.name, a.name
		FROM game g
		JOIN player h ON h.player_id = g.home_player_id
		JOIN player a ON a.player_id = g.away_player_id
		WHERE g.season_id = ?
		ORDER BY g.game_number`, seasonID)
	if err != nil {
		return nil, fmt.Errorf("list games: %w", err)
	}
	defer rows.Close()

	var games []strategy.Game
	for rows.Next() {
		var g strategy.Game
		if err := rows.Scan(&g.Number, &g.Home, &g.Away); err != nil {
			return nil, fmt.Errorf("scan game: %w", err)
		}
		g.Label = fmt.Sprintf("Game %d", g.Number)
		games = append(games, g)
	}
	return games, rows.Err()
}

func playerIDs(ctx context.Context, tx *sql.Tx) (map[string]int64, error) {
	rows, err := tx.QueryContext(ctx, `SELECT player_id, name FROM player`)
	if err != nil {
		return nil, fmt.Errorf("list players: %w", err)
	}
	defer rows.Close()

	ids := make(map[string]int64)
	for rows.Next() {
		var id int64
		var name string
		if err := rows.Scan(&id, &name); err != nil {
			return nil, fmt.Errorf("scan player: %w", err)
		}
		ids[strings.ToLower(name)] = id
	}
	return ids, rows.Err()
}
