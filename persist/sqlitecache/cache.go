// Package sqlitecache is an optional local autosave cache for project
// snapshots, backed by modernc.org/sqlite. It sits alongside, not instead
// of, the JSON file adapter (persist.JSONFileAdapter): the JSON file is the
// project's real saved state, while this cache retains a rolling window of
// recent snapshots per project path for crash recovery, following the
// teacher's own sqlite store (server/internal/store/store.go): a single
// *sql.DB, an idempotent migrate step, context-scoped queries.
package sqlitecache

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"auroraengine/persist"

	_ "modernc.org/sqlite"
)

// ErrNoSnapshot is returned when a project path has no cached snapshot.
var ErrNoSnapshot = errors.New("no cached snapshot for project")

// retainPerProject bounds how many autosave rows are kept per project
// path; older rows are pruned on every SaveSnapshot.
const retainPerProject = 20

// Cache persists a rolling window of project snapshots in SQLite.
type Cache struct {
	db *sql.DB
}

// Open opens (or creates) the cache database at path and runs migrations.
func Open(path string) (*Cache, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create cache directory: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite cache: %w", err)
	}

	c := &Cache{db: db}
	if err := c.migrate(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}
	slog.Info("sqlite autosave cache opened", "path", path)
	return c, nil
}

// Close closes the underlying database connection.
func (c *Cache) Close() error {
	if c == nil || c.db == nil {
		return nil
	}
	return c.db.Close()
}

func (c *Cache) migrate(ctx context.Context) error {
	const schema = `
CREATE TABLE IF NOT EXISTS autosaves (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	project_path TEXT NOT NULL,
	saved_at_unix_ms INTEGER NOT NULL,
	payload TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_autosaves_project ON autosaves(project_path, saved_at_unix_ms);
`
	if _, err := c.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("run sqlite cache migrations: %w", err)
	}
	slog.Debug("sqlite cache migrations applied")
	return nil
}

// SaveSnapshot inserts a new autosave row for projectPath and prunes rows
// beyond retainPerProject, oldest first.
func (c *Cache) SaveSnapshot(ctx context.Context, projectPath string, p persist.Project) error {
	payload, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("encode snapshot: %w", err)
	}

	const insert = `INSERT INTO autosaves (project_path, saved_at_unix_ms, payload) VALUES (?, ?, ?)`
	if _, err := c.db.ExecContext(ctx, insert, projectPath, time.Now().UnixMilli(), string(payload)); err != nil {
		return fmt.Errorf("insert autosave: %w", err)
	}

	const prune = `
DELETE FROM autosaves
WHERE project_path = ? AND id NOT IN (
	SELECT id FROM autosaves WHERE project_path = ? ORDER BY saved_at_unix_ms DESC LIMIT ?
)`
	if _, err := c.db.ExecContext(ctx, prune, projectPath, projectPath, retainPerProject); err != nil {
		return fmt.Errorf("prune autosaves: %w", err)
	}
	slog.Debug("project snapshot cached", "project_path", projectPath, "bytes", len(payload))
	return nil
}

// LatestSnapshot returns the most recently cached snapshot for projectPath.
func (c *Cache) LatestSnapshot(ctx context.Context, projectPath string) (persist.Project, error) {
	const q = `SELECT payload FROM autosaves WHERE project_path = ? ORDER BY saved_at_unix_ms DESC LIMIT 1`
	var payload string
	err := c.db.QueryRowContext(ctx, q, projectPath).Scan(&payload)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return persist.Project{}, ErrNoSnapshot
		}
		return persist.Project{}, fmt.Errorf("query latest snapshot: %w", err)
	}

	var p persist.Project
	if err := json.Unmarshal([]byte(payload), &p); err != nil {
		return persist.Project{}, fmt.Errorf("decode cached snapshot: %w", err)
	}
	return p, nil
}

// SnapshotMeta describes one cached autosave without its full payload.
type SnapshotMeta struct {
	ID      int64
	SavedAt time.Time
}

// ListSnapshots returns up to limit autosave records for projectPath,
// newest first.
func (c *Cache) ListSnapshots(ctx context.Context, projectPath string, limit int) ([]SnapshotMeta, error) {
	if limit <= 0 {
		limit = retainPerProject
	}
	const q = `SELECT id, saved_at_unix_ms FROM autosaves WHERE project_path = ? ORDER BY saved_at_unix_ms DESC LIMIT ?`
	rows, err := c.db.QueryContext(ctx, q, projectPath, limit)
	if err != nil {
		return nil, fmt.Errorf("query snapshot list: %w", err)
	}
	defer rows.Close()

	var out []SnapshotMeta
	for rows.Next() {
		var id int64
		var savedAtMs int64
		if err := rows.Scan(&id, &savedAtMs); err != nil {
			return nil, fmt.Errorf("scan snapshot meta: %w", err)
		}
		out = append(out, SnapshotMeta{ID: id, SavedAt: time.UnixMilli(savedAtMs).UTC()})
	}
	return out, rows.Err()
}
