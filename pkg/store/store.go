// Package store owns the authoritative local task records: identity,
// ordering position, content, completion state, the per-record dirty
// flag, the remote-identity mapping, and the pending-deletion log.
//
// The database is embedded SQLite (ncruces/go-sqlite3, no cgo) opened in
// WAL mode. Access is single-flow by design: the UI and the sync engine
// share one logical thread, so the store needs no locking beyond what
// SQLite provides for crash safety.
package store

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/jaredevans/task-manager-curses/pkg/model"

	_ "github.com/ncruces/go-sqlite3/driver"
	_ "github.com/ncruces/go-sqlite3/embed"
)

// Store wraps the SQLite connection holding the task and deletion tables.
type Store struct {
	conn *sql.DB
	path string
}

// Open opens (creating if needed) the task database at path and applies
// the schema. The caller must Close when done.
func Open(path string) (*Store, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	conn, err := sql.Open("sqlite3", "file:"+path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if err := conn.Ping(); err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	// One logical writer; keep the pool tiny.
	conn.SetMaxOpenConns(4)
	conn.SetConnMaxLifetime(5 * time.Minute)

	s := &Store{conn: conn, path: path}

	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
	} {
		if _, err := s.conn.Exec(pragma); err != nil {
			_ = s.Close()
			return nil, fmt.Errorf("failed to apply %s: %w", pragma, err)
		}
	}

	if err := s.initSchema(context.Background()); err != nil {
		_ = s.Close()
		return nil, err
	}
	return s, nil
}

// Close checkpoints the WAL and closes the connection.
func (s *Store) Close() error {
	if s.conn == nil {
		return nil
	}
	_, _ = s.conn.Exec("PRAGMA wal_checkpoint(TRUNCATE)")
	if err := s.conn.Close(); err != nil {
		return fmt.Errorf("failed to close database: %w", err)
	}
	s.conn = nil
	return nil
}

// initSchema creates the tables and upgrades older databases by adding
// the sync columns. Idempotent.
func (s *Store) initSchema(ctx context.Context) error {
	schema := `
	CREATE TABLE IF NOT EXISTS tasks (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		title TEXT NOT NULL,
		pos INTEGER NOT NULL,
		due TEXT NOT NULL DEFAULT '',
		notes TEXT NOT NULL DEFAULT '',
		done INTEGER NOT NULL DEFAULT 0
	);

	CREATE TABLE IF NOT EXISTS deletions (
		google_id TEXT PRIMARY KEY
	);
	`
	if _, err := s.conn.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("failed to initialize schema: %w", err)
	}

	// Additive migrations for databases created before sync existed.
	// "duplicate column name" means the column is already there.
	for _, col := range []string{
		"google_id TEXT NOT NULL DEFAULT ''",
		"etag TEXT NOT NULL DEFAULT ''",
		"updated TEXT NOT NULL DEFAULT ''",
		"dirty INTEGER NOT NULL DEFAULT 0",
	} {
		if _, err := s.conn.ExecContext(ctx, "ALTER TABLE tasks ADD COLUMN "+col); err != nil {
			if !strings.Contains(err.Error(), "duplicate column") {
				return fmt.Errorf("failed to add column %s: %w", col, err)
			}
		}
	}

	if _, err := s.conn.ExecContext(ctx,
		"CREATE INDEX IF NOT EXISTS idx_tasks_google_id ON tasks(google_id)"); err != nil {
		return fmt.Errorf("failed to create google_id index: %w", err)
	}
	return nil
}

const taskColumns = "id, title, pos, due, notes, done, google_id, etag, updated, dirty"

// Add inserts a new task at the end of the local ordering, marked dirty.
func (s *Store) Add(ctx context.Context, title, due, notes string) (int64, error) {
	maxPos, err := s.MaxPos(ctx)
	if err != nil {
		return 0, err
	}
	res, err := s.conn.ExecContext(ctx, `
		INSERT INTO tasks (title, pos, due, notes, done, dirty)
		VALUES (?, ?, ?, ?, 0, 1)`,
		title, maxPos+1, due, notes)
	if err != nil {
		return 0, fmt.Errorf("failed to add task: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to read new task id: %w", err)
	}
	return id, nil
}

// Update replaces the content fields of a task and marks it dirty.
func (s *Store) Update(ctx context.Context, id int64, title, due, notes string) error {
	_, err := s.conn.ExecContext(ctx, `
		UPDATE tasks SET title = ?, due = ?, notes = ?, dirty = 1 WHERE id = ?`,
		title, due, notes, id)
	if err != nil {
		return fmt.Errorf("failed to update task %d: %w", id, err)
	}
	return nil
}

// SetDone sets the completion flag and marks the task dirty.
func (s *Store) SetDone(ctx context.Context, id int64, done bool) error {
	_, err := s.conn.ExecContext(ctx,
		"UPDATE tasks SET done = ?, dirty = 1 WHERE id = ?", boolToInt(done), id)
	if err != nil {
		return fmt.Errorf("failed to set done on task %d: %w", id, err)
	}
	return nil
}

// Delete removes a task. If the task is linked remotely its google_id is
// enqueued on the deletion log first, so the remote delete survives even
// though the local row is gone.
func (s *Store) Delete(ctx context.Context, id int64) error {
	var gid string
	err := s.conn.QueryRowContext(ctx,
		"SELECT google_id FROM tasks WHERE id = ?", id).Scan(&gid)
	if err != nil && err != sql.ErrNoRows {
		return fmt.Errorf("failed to look up task %d: %w", id, err)
	}
	if gid != "" {
		if _, err := s.conn.ExecContext(ctx,
			"INSERT OR IGNORE INTO deletions (google_id) VALUES (?)", gid); err != nil {
			return fmt.Errorf("failed to enqueue deletion of %s: %w", gid, err)
		}
	}
	if _, err := s.conn.ExecContext(ctx, "DELETE FROM tasks WHERE id = ?", id); err != nil {
		return fmt.Errorf("failed to delete task %d: %w", id, err)
	}
	return nil
}

// UpdateOrder rewrites positions 0..N-1 to match the given id order and
// marks every reordered task dirty.
func (s *Store) UpdateOrder(ctx context.Context, ids []int64) error {
	tx, err := s.conn.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	for pos, id := range ids {
		if _, err := tx.ExecContext(ctx,
			"UPDATE tasks SET pos = ?, dirty = 1 WHERE id = ?", pos, id); err != nil {
			return fmt.Errorf("failed to reposition task %d: %w", id, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit reorder: %w", err)
	}
	return nil
}

// List returns all tasks in local order. Sort is stable against position
// gaps or duplicates: pos ascending, ties broken by id.
func (s *Store) List(ctx context.Context) ([]model.Task, error) {
	return s.query(ctx, "SELECT "+taskColumns+" FROM tasks ORDER BY pos, id")
}

// ListByDue returns all tasks ordered by due date text, for the UI's
// date-ordered view. The local pos ordering is unaffected.
func (s *Store) ListByDue(ctx context.Context) ([]model.Task, error) {
	return s.query(ctx, "SELECT "+taskColumns+" FROM tasks ORDER BY due, id")
}

// Dirty returns tasks with unpushed local changes, in position order.
func (s *Store) Dirty(ctx context.Context) ([]model.Task, error) {
	return s.query(ctx, "SELECT "+taskColumns+" FROM tasks WHERE dirty = 1 ORDER BY pos, id")
}

// LinkedIDs returns the google_ids of all remotely linked tasks in local
// position order. This is the desired remote ordering.
func (s *Store) LinkedIDs(ctx context.Context) ([]string, error) {
	rows, err := s.conn.QueryContext(ctx,
		"SELECT google_id FROM tasks WHERE google_id != '' ORDER BY pos, id")
	if err != nil {
		return nil, fmt.Errorf("failed to query linked tasks: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var gid string
		if err := rows.Scan(&gid); err != nil {
			return nil, fmt.Errorf("failed to scan google_id: %w", err)
		}
		ids = append(ids, gid)
	}
	return ids, rows.Err()
}

// ByGoogleID returns the task mapped to a remote identity, or nil when
// no local row is linked to it.
func (s *Store) ByGoogleID(ctx context.Context, gid string) (*model.Task, error) {
	row := s.conn.QueryRowContext(ctx,
		"SELECT "+taskColumns+" FROM tasks WHERE google_id = ?", gid)
	t, err := scanTask(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to look up google_id %s: %w", gid, err)
	}
	return &t, nil
}

// MaxPos returns the largest position in use, or -1 for an empty table.
func (s *Store) MaxPos(ctx context.Context) (int, error) {
	var max int
	err := s.conn.QueryRowContext(ctx,
		"SELECT COALESCE(MAX(pos), -1) FROM tasks").Scan(&max)
	if err != nil {
		return 0, fmt.Errorf("failed to query max pos: %w", err)
	}
	return max, nil
}

// InsertRemote appends a clean task pulled from the remote side at the
// end of the local ordering.
func (s *Store) InsertRemote(ctx context.Context, t model.Task) error {
	maxPos, err := s.MaxPos(ctx)
	if err != nil {
		return err
	}
	_, err = s.conn.ExecContext(ctx, `
		INSERT INTO tasks (title, pos, due, notes, done, google_id, etag, updated, dirty)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, 0)`,
		t.Title, maxPos+1, t.Due, t.Notes, boolToInt(t.Done), t.GoogleID, t.Etag, t.Updated)
	if err != nil {
		return fmt.Errorf("failed to insert remote task %s: %w", t.GoogleID, err)
	}
	return nil
}

// ApplyPush records a successful push: remote identity, version token,
// updated timestamp, dirty cleared.
func (s *Store) ApplyPush(ctx context.Context, id int64, gid, etag, updated string) error {
	_, err := s.conn.ExecContext(ctx, `
		UPDATE tasks SET google_id = ?, etag = ?, updated = ?, dirty = 0 WHERE id = ?`,
		gid, etag, updated, id)
	if err != nil {
		return fmt.Errorf("failed to record push for task %d: %w", id, err)
	}
	return nil
}

// ApplyRemote overwrites the content fields of a task with the remote
// version. The merged row is clean by definition.
func (s *Store) ApplyRemote(ctx context.Context, id int64, title, due, notes string, done bool, etag, updated string) error {
	_, err := s.conn.ExecContext(ctx, `
		UPDATE tasks SET title = ?, due = ?, notes = ?, done = ?, etag = ?, updated = ?, dirty = 0
		WHERE id = ?`,
		title, due, notes, boolToInt(done), etag, updated, id)
	if err != nil {
		return fmt.Errorf("failed to apply remote state to task %d: %w", id, err)
	}
	return nil
}

// PendingDeletions returns the queued remote identities awaiting deletion.
func (s *Store) PendingDeletions(ctx context.Context) ([]string, error) {
	rows, err := s.conn.QueryContext(ctx, "SELECT google_id FROM deletions")
	if err != nil {
		return nil, fmt.Errorf("failed to query deletions: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var gid string
		if err := rows.Scan(&gid); err != nil {
			return nil, fmt.Errorf("failed to scan deletion: %w", err)
		}
		ids = append(ids, gid)
	}
	return ids, rows.Err()
}

// ClearDeletions empties the deletion log. Deletions are enqueue-once,
// dequeue-on-attempt: the queue is cleared whether or not the remote
// deletes succeeded.
func (s *Store) ClearDeletions(ctx context.Context) error {
	if _, err := s.conn.ExecContext(ctx, "DELETE FROM deletions"); err != nil {
		return fmt.Errorf("failed to clear deletions: %w", err)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTask(r rowScanner) (model.Task, error) {
	var t model.Task
	var done, dirty int
	err := r.Scan(&t.ID, &t.Title, &t.Pos, &t.Due, &t.Notes, &done,
		&t.GoogleID, &t.Etag, &t.Updated, &dirty)
	if err != nil {
		return model.Task{}, err
	}
	t.Done = done != 0
	t.Dirty = dirty != 0
	return t, nil
}

func (s *Store) query(ctx context.Context, q string, args ...any) ([]model.Task, error) {
	rows, err := s.conn.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query tasks: %w", err)
	}
	defer rows.Close()

	var tasks []model.Task
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan task: %w", err)
		}
		tasks = append(tasks, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating tasks: %w", err)
	}
	return tasks, nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
