// Package history stores watch history in a local sqlite database.
package history

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"zender/internal/media"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// Store is the sqlite-backed watch history. One open connection is
// enough; sqlite serializes writers anyway.
type Store struct {
	db *sql.DB
}

// Open opens the history database at path, creating the file and its
// directory on first use and applying any pending migrations.
func Open(ctx context.Context, path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return nil, fmt.Errorf("creating history dir: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening history db: %w", err)
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	pingCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		db.Close()
		return nil, fmt.Errorf("opening history db: %w", err)
	}

	s := &Store{db: db}
	if err := s.migrate(ctx); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

// Close releases the database handle.
func (s *Store) Close() error {
	return s.db.Close()
}

// Save upserts an entry keyed by (site, video id), refreshing position
// and watch time on rewatch.
func (s *Store) Save(ctx context.Context, e media.HistoryEntry) error {
	watched := e.WatchedAt
	if watched.IsZero() {
		watched = time.Now()
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO watch_history(site, video_id, title, url, position, duration, watched_at)
		VALUES(?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(site, video_id) DO UPDATE SET
			title = excluded.title,
			url = excluded.url,
			position = excluded.position,
			duration = excluded.duration,
			watched_at = excluded.watched_at
	`, e.Site, e.ID, e.Title, e.URL, e.Position, e.Duration, watched.UTC().Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("saving history entry: %w", err)
	}
	return nil
}

// List returns all entries, most recently watched first.
func (s *Store) List(ctx context.Context) ([]media.HistoryEntry, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT site, video_id, title, url, position, duration, watched_at
		FROM watch_history
		ORDER BY watched_at DESC, video_id
	`)
	if err != nil {
		return nil, fmt.Errorf("listing history: %w", err)
	}
	defer rows.Close()

	var entries []media.HistoryEntry
	for rows.Next() {
		var e media.HistoryEntry
		var watched string
		if err := rows.Scan(&e.Site, &e.ID, &e.Title, &e.URL, &e.Position, &e.Duration, &watched); err != nil {
			return nil, fmt.Errorf("scanning history entry: %w", err)
		}
		if t, err := time.Parse(time.RFC3339, watched); err == nil {
			e.WatchedAt = t
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// Remove deletes a single entry.
func (s *Store) Remove(ctx context.Context, site, videoID string) error {
	_, err := s.db.ExecContext(ctx,
		`DELETE FROM watch_history WHERE site = ? AND video_id = ?`, site, videoID)
	if err != nil {
		return fmt.Errorf("removing history entry: %w", err)
	}
	return nil
}

// Clear empties the history.
func (s *Store) Clear(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM watch_history`); err != nil {
		return fmt.Errorf("clearing history: %w", err)
	}
	return nil
}

// FormatForDisplay renders entries for the interactive picker.
func FormatForDisplay(entries []media.HistoryEntry) []string {
	items := make([]string, 0, len(entries))
	for _, e := range entries {
		display := e.Title
		if e.Position > 0 && e.Duration > 0 {
			display += fmt.Sprintf(" [%.0f%%]", e.Position/e.Duration*100)
		}
		items = append(items, display)
	}
	return items
}

// migrate applies embedded migrations in version order, tracking what
// ran in a schema_migrations table.
func (s *Store) migrate(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx,
		`CREATE TABLE IF NOT EXISTS schema_migrations (version INTEGER PRIMARY KEY, applied_at TEXT NOT NULL)`); err != nil {
		return fmt.Errorf("preparing migrations: %w", err)
	}

	applied := map[int]bool{}
	rows, err := s.db.QueryContext(ctx, `SELECT version FROM schema_migrations`)
	if err != nil {
		return fmt.Errorf("reading applied migrations: %w", err)
	}
	for rows.Next() {
		var v int
		if err := rows.Scan(&v); err != nil {
			rows.Close()
			return err
		}
		applied[v] = true
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return err
	}

	entries, err := migrationsFS.ReadDir("migrations")
	if err != nil {
		return fmt.Errorf("reading migrations: %w", err)
	}

	versions := make([]int, 0, len(entries))
	byVersion := map[int]string{}
	for _, entry := range entries {
		name := entry.Name()
		if !strings.HasSuffix(name, ".sql") {
			continue
		}
		v, err := strconv.Atoi(strings.SplitN(name, "_", 2)[0])
		if err != nil {
			return fmt.Errorf("invalid migration name %q", name)
		}
		versions = append(versions, v)
		byVersion[v] = name
	}
	sort.Ints(versions)

	for _, v := range versions {
		if applied[v] {
			continue
		}
		raw, err := migrationsFS.ReadFile("migrations/" + byVersion[v])
		if err != nil {
			return err
		}
		up := upSection(string(raw))
		if strings.TrimSpace(up) == "" {
			continue
		}

		tx, err := s.db.BeginTx(ctx, nil)
		if err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx, up); err != nil {
			tx.Rollback()
			return fmt.Errorf("migration %s: %w", byVersion[v], err)
		}
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO schema_migrations(version, applied_at) VALUES(?, ?)`,
			v, time.Now().UTC().Format(time.RFC3339)); err != nil {
			tx.Rollback()
			return err
		}
		if err := tx.Commit(); err != nil {
			return err
		}
	}
	return nil
}

// upSection returns the statements between the Up and Down markers.
func upSection(sqlText string) string {
	var out []string
	inUp := false
	for _, line := range strings.Split(sqlText, "\n") {
		trim := strings.TrimSpace(line)
		switch {
		case strings.HasPrefix(trim, "-- +migrate Up"):
			inUp = true
		case strings.HasPrefix(trim, "-- +migrate Down"):
			inUp = false
		case inUp:
			out = append(out, line)
		}
	}
	return strings.Join(out, "\n")
}
