package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
)

// AddRole inserts a role and returns its id. Role names are unique
// regardless of case.
func (s *Store) AddRole(ctx context.Context, name string) (int64, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return 0, errors.New("role name is required")
	}

	var existing int
	if err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM role WHERE name = ?`, name,
	).Scan(&existing); err != nil {
		return 0, fmt.Errorf("look up role: %w", err)
	}
	if existing > 0 {
		return 0, fmt.Errorf("%w: %s", ErrRoleExists, name)
	}

	res, err := s.db.ExecContext(ctx, `INSERT INTO role(name) VALUES(?)`, name)
	if err != nil {
		return 0, fmt.Errorf("insert role: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("role id: %w", err)
	}
	s.log.Info().Str("role", name).Int64("id", id).Msg("role added")
	return id, nil
}

// RoleNames returns every role, sorted by name.
func (s *Store) RoleNames(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT name FROM role ORDER BY name COLLATE NOCASE`)
	if err != nil {
		return nil, fmt.Errorf("list roles: %w", err)
	}
	defer rows.Close()
	return scanNames(rows)
}

// AssignRole gives player the named role. Assigning a role the player
// already has is a no-op.
func (s *Store) AssignRole(ctx context.Context, player, role string) error {
	playerID, err := s.playerID(ctx, player)
	if err != nil {
		return err
	}

	var roleID int64
	err = s.db.QueryRowContext(ctx,
		`SELECT role_id FROM role WHERE name = ?`, strings.TrimSpace(role),
	).Scan(&roleID)
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("%w: %s", ErrUnknownRole, role)
	}
	if err != nil {
		return fmt.Errorf("look up role: %w", err)
	}

	if _, err := s.db.ExecContext(ctx,
		`INSERT OR IGNORE INTO player_role(player_id, role_id) VALUES(?,?)`, playerID, roleID,
	); err != nil {
		return fmt.Errorf("assign role: %w", err)
	}
	s.log.Debug().Str("player", player).Str("role", role).Msg("role assigned")
	return nil
}

// PlayerRoles returns the roles of player, sorted by name.
func (s *Store) PlayerRoles(ctx context.Context, player string) ([]string, error) {
	playerID, err := s.playerID(ctx, player)
	if err != nil {
		return nil, err
	}
	rows, err := s.db.QueryContext(ctx, `
		SELECT r.name
		FROM player_role pr
		JOIN role r ON r.role_id = pr.role_id
		WHERE pr.player_id = ?
		ORDER BY r.name COLLATE NOCASE`, playerID)
	if err != nil {
		return nil, fmt.Errorf("list player roles: %w", err)
	}
	defer rows.Close()
	return scanNames(rows)
}

func scanNames(rows *sql.Rows) ([]string, error) {
	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("scan name: %w", err)
		}
		names = append(names, name)
	}
	return names, rows.Err()
}
