package task

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	_ "modernc.org/sqlite"
)

// Store persists tasks in SQLite. Writes are serialized through a
// mutex; reads go straight to the pool.
type Store struct {
	db *sql.DB
	mu sync.Mutex
}

func NewStore(dbPath string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db dir: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	s := &Store{db: db}
	if err := s.configure(); err != nil {
		_ = db.Close()
		return nil, err
	}
	if err := s.initSchema(); err != nil {
		_ = db.Close()
		return nil, err
	}
	return s, nil
}

func (s *Store) configure() error {
	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA foreign_keys=ON",
	}
	for _, p := range pragmas {
		if _, err := s.db.Exec(p); err != nil {
			return fmt.Errorf("sqlite pragma %q: %w", p, err)
		}
	}
	return nil
}

func (s *Store) initSchema() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS tasks (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			owner_id INTEGER NOT NULL,
			text TEXT NOT NULL,
			status TEXT NOT NULL DEFAULT 'pending',
			created_on TEXT NOT NULL,
			priority TEXT NOT NULL DEFAULT '',
			due_at TEXT NOT NULL DEFAULT ''
		)`,
		`CREATE INDEX IF NOT EXISTS idx_tasks_owner_status ON tasks(owner_id, status)`,
		`CREATE INDEX IF NOT EXISTS idx_tasks_owner_status_created ON tasks(owner_id, status, created_on)`,
	}

	for _, stmt := range stmts {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("init schema: %w", err)
		}
	}
	return nil
}

func (s *Store) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Create inserts a new pending task and returns its id. Text validity
// is the caller's responsibility.
func (s *Store) Create(ownerID int64, text, createdOn string, priority Priority, dueAt string) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.Exec(`
		INSERT INTO tasks (owner_id, text, status, created_on, priority, due_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`, ownerID, strings.TrimSpace(text), string(StatusPending), createdOn, string(priority), dueAt)
	if err != nil {
		return 0, fmt.Errorf("create task: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("create task id: %w", err)
	}
	return id, nil
}

// List returns the owner's tasks with exactly the given status, in
// insertion order.
func (s *Store) List(ownerID int64, status Status) ([]Task, error) {
	rows, err := s.db.Query(`
		SELECT id, owner_id, text, status, created_on, priority, due_at
		FROM tasks
		WHERE owner_id = ? AND status = ?
		ORDER BY id ASC
	`, ownerID, string(status))
	if err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}
	defer rows.Close()
	return scanTasks(rows)
}

// ListGroupedByDate partitions the owner's tasks of the given status by
// creation date. Order within a group is insertion order; callers sort
// the date keys for display.
func (s *Store) ListGroupedByDate(ownerID int64, status Status) (map[string][]Task, error) {
	tasks, err := s.List(ownerID, status)
	if err != nil {
		return nil, err
	}
	grouped := make(map[string][]Task)
	for _, t := range tasks {
		grouped[t.CreatedOn] = append(grouped[t.CreatedOn], t)
	}
	return grouped, nil
}

// Get returns the task with the given id, sql.ErrNoRows if absent.
func (s *Store) Get(id int64) (Task, error) {
	row := s.db.QueryRow(`
		SELECT id, owner_id, text, status, created_on, priority, due_at
		FROM tasks WHERE id = ?
	`, id)
	var t Task
	var status, priority string
	if err := row.Scan(&t.ID, &t.OwnerID, &t.Text, &status, &t.CreatedOn, &priority, &t.DueAt); err != nil {
		return Task{}, err
	}
	t.Status = Status(status)
	t.Priority = Priority(priority)
	return t, nil
}

// Field updates overwrite exactly one column. An absent id is a silent
// no-op.

func (s *Store) UpdateStatus(id int64, status Status) error {
	return s.updateField("status", id, string(status))
}

func (s *Store) UpdateText(id int64, text string) error {
	return s.updateField("text", id, strings.TrimSpace(text))
}

func (s *Store) UpdatePriority(id int64, priority Priority) error {
	return s.updateField("priority", id, string(priority))
}

func (s *Store) UpdateDue(id int64, dueAt string) error {
	return s.updateField("due_at", id, dueAt)
}

func (s *Store) updateField(column string, id int64, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	// column is always one of the fixed names above, never user input
	_, err := s.db.Exec(`UPDATE tasks SET `+column+` = ? WHERE id = ?`, value, id)
	if err != nil {
		return fmt.Errorf("update task %s: %w", column, err)
	}
	return nil
}

// CountByStatus tallies tasks across all owners, for diagnostics.
func (s *Store) CountByStatus() (map[Status]int, error) {
	rows, err := s.db.Query(`SELECT status, COUNT(*) FROM tasks GROUP BY status`)
	if err != nil {
		return nil, fmt.Errorf("count tasks: %w", err)
	}
	defer rows.Close()

	counts := make(map[Status]int)
	for rows.Next() {
		var status string
		var n int
		if err := rows.Scan(&status, &n); err != nil {
			return nil, fmt.Errorf("scan count: %w", err)
		}
		counts[Status(status)] = n
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate counts: %w", err)
	}
	return counts, nil
}

// Maintain runs periodic SQLite housekeeping. Invoked from the cron
// service, safe to call at any time.
func (s *Store) Maintain() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, p := range []string{"PRAGMA wal_checkpoint(TRUNCATE)", "PRAGMA optimize"} {
		if _, err := s.db.Exec(p); err != nil {
			return fmt.Errorf("maintain %q: %w", p, err)
		}
	}
	return nil
}

func scanTasks(rows *sql.Rows) ([]Task, error) {
	result := make([]Task, 0)
	for rows.Next() {
		var t Task
		var status, priority string
		if err := rows.Scan(&t.ID, &t.OwnerID, &t.Text, &status, &t.CreatedOn, &priority, &t.DueAt); err != nil {
			return nil, fmt.Errorf("scan task: %w", err)
		}
		t.Status = Status(status)
		t.Priority = Priority(priority)
		result = append(result, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate tasks: %w", err)
	}
	return result, nil
}
