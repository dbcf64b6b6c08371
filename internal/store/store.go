package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"antenna/internal/channel"
	"antenna/internal/config"
)

// Store manages catalog persistence backed by SQLite.
type Store struct {
	db   *sql.DB
	path string
}

// Refresh records the outcome of one catalog refresh.
type Refresh struct {
	StartedAt  time.Time
	FinishedAt time.Time
	Total      int
	Kept       int
	Err        string
}

// Open initializes or connects to the channel database and applies the schema.
func Open(cfg *config.Config) (*Store, error) {
	if err := cfg.EnsureDirectories(); err != nil {
		return nil, fmt.Errorf("ensure directories: %w", err)
	}

	dbPath := cfg.DatabasePath()
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA foreign_keys = ON",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, execErr := db.Exec(pragma); execErr != nil {
			_ = db.Close()
			return nil, fmt.Errorf("apply pragma %q: %w", pragma, execErr)
		}
	}

	store := &Store{db: db, path: dbPath}
	if err := store.initSchema(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}

	return store, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Path returns the database file location.
func (s *Store) Path() string {
	return s.path
}

// ReplaceChannels swaps the catalog for the provided set in one transaction.
func (s *Store) ReplaceChannels(ctx context.Context, channels []channel.Channel) error {
	for _, ch := range channels {
		if err := ch.Validate(); err != nil {
			return fmt.Errorf("replace channels: %w", err)
		}
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, "DELETE FROM channels"); err != nil {
		return fmt.Errorf("clear channels: %w", err)
	}

	now := time.Now().UTC().Format(time.RFC3339Nano)
	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO channels (id, name, clean_name, url, genre, category, logo, refreshed_at)
         VALUES (?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("prepare insert: %w", err)
	}
	defer stmt.Close()

	for _, ch := range channels {
		if _, err := stmt.ExecContext(ctx, ch.ID, ch.Name, ch.CleanName, ch.URL, ch.Genre, ch.Category, ch.Logo, now); err != nil {
			return fmt.Errorf("insert channel %q: %w", ch.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit channels: %w", err)
	}
	return nil
}

// ListOptions narrows List results.
type ListOptions struct {
	Genre    string
	Category string
	Search   string
}

// List returns stored channels ordered by clean name.
func (s *Store) List(ctx context.Context, opts ListOptions) ([]channel.Channel, error) {
	query := `SELECT id, name, clean_name, url, genre, category, logo FROM channels`
	var (
		conditions []string
		args       []any
	)
	if genre := strings.TrimSpace(opts.Genre); genre != "" {
		conditions = append(conditions, "genre = ? COLLATE NOCASE")
		args = append(args, genre)
	}
	if category := strings.TrimSpace(opts.Category); category != "" {
		conditions = append(conditions, "category = ? COLLATE NOCASE")
		args = append(args, category)
	}
	if search := strings.TrimSpace(opts.Search); search != "" {
		conditions = append(conditions, "clean_name LIKE ? COLLATE NOCASE")
		args = append(args, "%"+search+"%")
	}
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	query += " ORDER BY clean_name COLLATE NOCASE, id"

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list channels: %w", err)
	}
	defer rows.Close()

	var channels []channel.Channel
	for rows.Next() {
		var ch channel.Channel
		if err := rows.Scan(&ch.ID, &ch.Name, &ch.CleanName, &ch.URL, &ch.Genre, &ch.Category, &ch.Logo); err != nil {
			return nil, fmt.Errorf("scan channel: %w", err)
		}
		channels = append(channels, ch)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate channels: %w", err)
	}
	return channels, nil
}

// GetByID returns a single channel, or nil when absent.
func (s *Store) GetByID(ctx context.Context, id string) (*channel.Channel, error) {
	var ch channel.Channel
	err := s.db.QueryRowContext(ctx,
		`SELECT id, name, clean_name, url, genre, category, logo FROM channels WHERE id = ?`, id,
	).Scan(&ch.ID, &ch.Name, &ch.CleanName, &ch.URL, &ch.Genre, &ch.Category, &ch.Logo)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get channel %q: %w", id, err)
	}
	return &ch, nil
}

// Count returns the number of stored channels.
func (s *Store) Count(ctx context.Context) (int, error) {
	var count int
	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(1) FROM channels").Scan(&count); err != nil {
		return 0, fmt.Errorf("count channels: %w", err)
	}
	return count, nil
}

// UpsertIcons stores icon overrides keyed by lowercased channel name.
func (s *Store) UpsertIcons(ctx context.Context, icons channel.Icons) error {
	if len(icons) == 0 {
		return nil
	}
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO icons (name, url) VALUES (?, ?)
         ON CONFLICT(name) DO UPDATE SET url = excluded.url`)
	if err != nil {
		return fmt.Errorf("prepare icon upsert: %w", err)
	}
	defer stmt.Close()

	for name, url := range icons {
		if _, err := stmt.ExecContext(ctx, strings.ToLower(name), url); err != nil {
			return fmt.Errorf("upsert icon %q: %w", name, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit icons: %w", err)
	}
	return nil
}

// Icons returns all stored icon overrides.
func (s *Store) Icons(ctx context.Context) (channel.Icons, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT name, url FROM icons")
	if err != nil {
		return nil, fmt.Errorf("list icons: %w", err)
	}
	defer rows.Close()

	icons := channel.Icons{}
	for rows.Next() {
		var name, url string
		if err := rows.Scan(&name, &url); err != nil {
			return nil, fmt.Errorf("scan icon: %w", err)
		}
		icons[name] = url
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate icons: %w", err)
	}
	return icons, nil
}

// RecordRefresh appends a refresh bookkeeping row.
func (s *Store) RecordRefresh(ctx context.Context, refresh Refresh) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO refreshes (started_at, finished_at, total, kept, error)
         VALUES (?, ?, ?, ?, ?)`,
		refresh.StartedAt.UTC().Format(time.RFC3339Nano),
		refresh.FinishedAt.UTC().Format(time.RFC3339Nano),
		refresh.Total,
		refresh.Kept,
		nullableString(refresh.Err),
	)
	if err != nil {
		return fmt.Errorf("record refresh: %w", err)
	}
	return nil
}

// LastRefresh returns the most recent refresh record, or nil when none exists.
func (s *Store) LastRefresh(ctx context.Context) (*Refresh, error) {
	var (
		started  string
		finished string
		refresh  Refresh
		errText  sql.NullString
	)
	err := s.db.QueryRowContext(ctx,
		`SELECT started_at, finished_at, total, kept, error FROM refreshes ORDER BY id DESC LIMIT 1`,
	).Scan(&started, &finished, &refresh.Total, &refresh.Kept, &errText)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("last refresh: %w", err)
	}
	if refresh.StartedAt, err = time.Parse(time.RFC3339Nano, started); err != nil {
		return nil, fmt.Errorf("parse refresh started_at: %w", err)
	}
	if refresh.FinishedAt, err = time.Parse(time.RFC3339Nano, finished); err != nil {
		return nil, fmt.Errorf("parse refresh finished_at: %w", err)
	}
	if errText.Valid {
		refresh.Err = errText.String
	}
	return &refresh, nil
}

func nullableString(value string) any {
	if strings.TrimSpace(value) == "" {
		return nil
	}
	return value
}
