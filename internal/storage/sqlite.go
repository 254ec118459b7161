package storage

import (
	"context"
	"database/sql"
	"fmt"
	"path/filepath"
	"strings"

	_ "modernc.org/sqlite"

	"github.com/OCharnyshevich/paimon/pkg/gamedata"
)

const schema = `
CREATE TABLE IF NOT EXISTS characters (
	id          TEXT PRIMARY KEY,
	name        TEXT NOT NULL,
	description TEXT NOT NULL,
	rarity      TEXT NOT NULL,
	element     TEXT NOT NULL,
	weapon      TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS characters_name ON characters (name COLLATE NOCASE);
`

// DB is a SQLite copy of the character database.
type DB struct {
	sqlDB *sql.DB
}

// OpenDB opens or creates the SQLite database at path and ensures the schema.
func OpenDB(path string) (*DB, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("storage path is required")
	}
	dsn := filepath.Clean(path) + "?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)"
	sqlDB, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	if err := sqlDB.Ping(); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}
	if _, err := sqlDB.Exec(schema); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}
	return &DB{sqlDB: sqlDB}, nil
}

// Close closes the SQLite handle.
func (db *DB) Close() error {
	if db == nil || db.sqlDB == nil {
		return nil
	}
	return db.sqlDB.Close()
}

// ReplaceCharacters swaps the stored characters for chars in one transaction.
func (db *DB) ReplaceCharacters(ctx context.Context, chars []gamedata.Character) error {
	tx, err := db.sqlDB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM characters`); err != nil {
		return fmt.Errorf("clear characters: %w", err)
	}
	stmt, err := tx.PrepareContext(ctx, `INSERT INTO characters (id, name, description, rarity, element, weapon) VALUES (?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("prepare insert: %w", err)
	}
	defer stmt.Close()
	for _, c := range chars {
		if _, err := stmt.ExecContext(ctx, c.ID, c.Name, c.Description, c.Rarity, c.Element, c.Weapon); err != nil {
			return fmt.Errorf("insert character %s: %w", c.ID, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

// ListCharacters returns all stored characters ordered by numeric id.
func (db *DB) ListCharacters(ctx context.Context) ([]gamedata.Character, error) {
	rows, err := db.sqlDB.QueryContext(ctx, `SELECT id, name, description, rarity, element, weapon FROM characters ORDER BY CAST(id AS INTEGER), id`)
	if err != nil {
		return nil, fmt.Errorf("query characters: %w", err)
	}
	defer rows.Close()

	var out []gamedata.Character
	for rows.Next() {
		var c gamedata.Character
		if err := rows.Scan(&c.ID, &c.Name, &c.Description, &c.Rarity, &c.Element, &c.Weapon); err != nil {
			return nil, fmt.Errorf("scan character: %w", err)
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

// CharacterByName looks a character up by case-insensitive name.
func (db *DB) CharacterByName(ctx context.Context, name string) (gamedata.Character, bool, error) {
	var c gamedata.Character
	err := db.sqlDB.QueryRowContext(ctx,
		`SELECT id, name, description, rarity, element, weapon FROM characters WHERE name = ? COLLATE NOCASE LIMIT 1`, name,
	).Scan(&c.ID, &c.Name, &c.Description, &c.Rarity, &c.Element, &c.Weapon)
	if err == sql.ErrNoRows {
		return gamedata.Character{}, false, nil
	}
	if err != nil {
		return gamedata.Character{}, false, fmt.Errorf("query character %s: %w", name, err)
	}
	return c, true, nil
}
