package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync/atomic"
	"time"

	"github.com/evanschultz/pomotask/internal/app"
	"github.com/evanschultz/pomotask/internal/domain"
	_ "modernc.org/sqlite"
)

// driverName defines a package constant value.
const driverName = "sqlite"

// memoryDBSeq keeps in-memory database names unique per process.
var memoryDBSeq atomic.Uint64

// Repository represents repository data used by this package.
type Repository struct {
	db *sql.DB
}

// OpenInMemory opens a private in-memory task store.
func OpenInMemory() (*Repository, error) {
	dsn := fmt.Sprintf("file:pomotask-%d?mode=memory&cache=shared", memoryDBSeq.Add(1))
	db, err := sql.Open(driverName, dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite memory: %w", err)
	}
	// The memory database lives only while a connection stays open.
	db.SetMaxOpenConns(1)
	repo := &Repository{db: db}
	if err := repo.migrate(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}
	return repo, nil
}

// Close closes the requested operation.
func (r *Repository) Close() error {
	return r.db.Close()
}

// migrate handles migrate.
func (r *Repository) migrate(ctx context.Context) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS tasks (
			id TEXT PRIMARY KEY,
			position INTEGER NOT NULL,
			title TEXT NOT NULL,
			description TEXT NOT NULL DEFAULT '',
			status TEXT NOT NULL DEFAULT 'todo',
			tags_json TEXT NOT NULL DEFAULT '[]',
			created_at TEXT NOT NULL,
			due_at TEXT,
			finished_at TEXT
		);`,
		`CREATE INDEX IF NOT EXISTS idx_tasks_position ON tasks(position);`,
	}
	for _, stmt := range stmts {
		if _, err := r.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("migrate sqlite: %w", err)
		}
	}
	return nil
}

// CreateTask appends a task after every stored task.
func (r *Repository) CreateTask(ctx context.Context, t domain.Task) error {
	tagsJSON, err := json.Marshal(t.TagNames())
	if err != nil {
		return fmt.Errorf("encode task tags: %w", err)
	}
	_, err = r.db.ExecContext(ctx, `
		INSERT INTO tasks(id, position, title, description, status, tags_json, created_at, due_at, finished_at)
		VALUES (?, (SELECT COALESCE(MAX(position), -1) + 1 FROM tasks), ?, ?, ?, ?, ?, ?, ?)
	`,
		t.ID,
		t.Title,
		t.Description,
		string(t.Status),
		string(tagsJSON),
		ts(t.CreatedAt),
		nullableTS(t.DueAt),
		nullableTS(t.FinishedAt),
	)
	if err != nil {
		return fmt.Errorf("insert task: %w", err)
	}
	return nil
}

// UpdateTask updates state for the requested operation.
func (r *Repository) UpdateTask(ctx context.Context, t domain.Task) error {
	tagsJSON, err := json.Marshal(t.TagNames())
	if err != nil {
		return fmt.Errorf("encode task tags: %w", err)
	}
	res, err := r.db.ExecContext(ctx, `
		UPDATE tasks
		SET title = ?, description = ?, status = ?, tags_json = ?, due_at = ?, finished_at = ?
		WHERE id = ?
	`,
		t.Title,
		t.Description,
		string(t.Status),
		string(tagsJSON),
		nullableTS(t.DueAt),
		nullableTS(t.FinishedAt),
		t.ID,
	)
	if err != nil {
		return err
	}
	return translateNoRows(res)
}

// GetTask returns task.
func (r *Repository) GetTask(ctx context.Context, id string) (domain.Task, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, title, description, status, tags_json, created_at, due_at, finished_at
		FROM tasks
		WHERE id = ?
	`, id)
	return scanTask(row)
}

// ListTasks lists tasks in insertion order.
func (r *Repository) ListTasks(ctx context.Context) ([]domain.Task, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, title, description, status, tags_json, created_at, due_at, finished_at
		FROM tasks
		ORDER BY position ASC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []domain.Task{}
	for rows.Next() {
		task, err := scanTask(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, task)
	}
	return out, rows.Err()
}

// scanner represents scanner data used by this package.
type scanner interface {
	Scan(dest ...any) error
}

// scanTask handles scan task.
func scanTask(s scanner) (domain.Task, error) {
	var (
		t           domain.Task
		statusRaw   string
		tagsRaw     string
		createdRaw  string
		dueRaw      sql.NullString
		finishedRaw sql.NullString
	)
	if err := s.Scan(&t.ID, &t.Title, &t.Description, &statusRaw, &tagsRaw, &createdRaw, &dueRaw, &finishedRaw); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Task{}, app.ErrNotFound
		}
		return domain.Task{}, err
	}
	status, err := domain.ParseTaskStatus(statusRaw)
	if err != nil {
		return domain.Task{}, fmt.Errorf("decode task status %q: %w", statusRaw, err)
	}
	t.Status = status
	if strings.TrimSpace(tagsRaw) == "" {
		tagsRaw = "[]"
	}
	var tagNames []string
	if err := json.Unmarshal([]byte(tagsRaw), &tagNames); err != nil {
		return domain.Task{}, fmt.Errorf("decode tags_json: %w", err)
	}
	t.Tags = domain.NormalizeTags(tagNames)
	t.CreatedAt = parseTS(createdRaw)
	t.DueAt = parseNullTS(dueRaw)
	t.FinishedAt = parseNullTS(finishedRaw)
	return t, nil
}

// translateNoRows handles translate no rows.
func translateNoRows(res sql.Result) error {
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return app.ErrNotFound
	}
	return nil
}

// ts handles ts.
func ts(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}

// nullableTS handles nullable ts.
func nullableTS(t *time.Time) any {
	if t == nil {
		return nil
	}
	return t.UTC().Format(time.RFC3339Nano)
}

// parseTS parses input into a normalized form.
func parseTS(v string) time.Time {
	ts, err := time.Parse(time.RFC3339Nano, v)
	if err != nil {
		return time.Time{}
	}
	return ts.UTC()
}

// parseNullTS parses input into a normalized form.
func parseNullTS(v sql.NullString) *time.Time {
	if !v.Valid || strings.TrimSpace(v.String) == "" {
		return nil
	}
	ts := parseTS(v.String)
	return &ts
}
