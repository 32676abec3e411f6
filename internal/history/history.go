// Package history keeps a SQLite journal of the actions taken in rotbuf
// sessions. Only metadata is stored, never buffer content.
package history

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

type Action string

const (
	ActionEncrypt Action = "encrypt"
	ActionDecrypt Action = "decrypt"
	ActionClear   Action = "clear"
	ActionSave    Action = "save"
	ActionLoad    Action = "load"
)

// timeLayout is fixed-width so created_at sorts correctly as text.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

type Entry struct {
	ID        string
	Action    Action
	RotType   string
	Detail    string
	CreatedAt time.Time
}

type Journal interface {
	Record(ctx context.Context, action Action, rotType, detail string) (Entry, error)
	List(ctx context.Context, limit int) ([]Entry, error)
	Close() error
}

// Nop is the Journal used when no history file is configured.
type Nop struct{}

func (Nop) Record(_ context.Context, action Action, rotType, detail string) (Entry, error) {
	return Entry{Action: action, RotType: rotType, Detail: detail}, nil
}

func (Nop) List(context.Context, int) ([]Entry, error) { return nil, nil }

func (Nop) Close() error { return nil }

var _ Journal = (*Store)(nil)

type Store struct {
	db  *sql.DB
	now func() time.Time
}

func Open(ctx context.Context, path string) (*Store, error) {
	db, err := sql.Open("sqlite", fmt.Sprintf("file:%s?_busy_timeout=5000", path))
	if err != nil {
		return nil, fmt.Errorf("open history: %w", err)
	}
	if err := migrate(ctx, db); err != nil {
		db.Close()
		return nil, err
	}
	return &Store{db: db, now: time.Now}, nil
}

func (s *Store) Record(ctx context.Context, action Action, rotType, detail string) (Entry, error) {
	e := Entry{
		ID:        uuid.NewString(),
		Action:    action,
		RotType:   rotType,
		Detail:    detail,
		CreatedAt: s.now().UTC(),
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO history (id, action, rot_type, detail, created_at) VALUES (?, ?, ?, ?, ?)`,
		e.ID, string(e.Action), e.RotType, e.Detail, e.CreatedAt.Format(timeLayout))
	if err != nil {
		return Entry{}, fmt.Errorf("record %s: %w", action, err)
	}
	return e, nil
}

// List returns up to limit entries, newest first. limit <= 0 means all.
func (s *Store) List(ctx context.Context, limit int) ([]Entry, error) {
	query := `SELECT id, action, rot_type, detail, created_at FROM history ORDER BY created_at DESC, rowid DESC`
	args := []any{}
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list history: %w", err)
	}
	defer rows.Close()
	var out []Entry
	for rows.Next() {
		var e Entry
		var action, created string
		if err := rows.Scan(&e.ID, &action, &e.RotType, &e.Detail, &created); err != nil {
			return nil, fmt.Errorf("scan history: %w", err)
		}
		e.Action = Action(action)
		ts, err := time.Parse(timeLayout, created)
		if err != nil {
			return nil, fmt.Errorf("parse created_at %q: %w", created, err)
		}
		e.CreatedAt = ts
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate history: %w", err)
	}
	return out, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}
