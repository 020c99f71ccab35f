// Package mockserver is a self-contained schedge backend for development
// and tests. It persists tasks in SQLite, computes slots with a naive
// first-fit scheduler, and pushes full-state snapshots over SSE.
package mockserver

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite" // Pure-Go SQLite driver (no CGO required)

	"github.com/schedge-app/schedge/internal/wire"
)

// DB wraps a SQLite connection with WAL mode and migrations. Tasks and
// slots are stored as wire-form JSON; the scheduler decodes on demand.
type DB struct {
	db *sql.DB
}

// OpenDB creates or opens the SQLite database at path. An empty path
// selects an in-memory database, used by tests.
func OpenDB(path string) (*DB, error) {
	dsn := ":memory:"
	if path != "" {
		if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
			return nil, fmt.Errorf("create data dir: %w", err)
		}
		dsn = path + "?_journal_mode=WAL&_busy_timeout=5000"
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping sqlite: %w", err)
	}

	// SQLite is single-writer
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	d := &DB{db: db}
	if err := d.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return d, nil
}

func (d *DB) Close() error {
	return d.db.Close()
}

// migrate runs idempotent schema migrations.
func (d *DB) migrate() error {
	migrations := []string{
		`CREATE TABLE IF NOT EXISTS tasks (
			user_id INTEGER NOT NULL,
			id      TEXT    NOT NULL,
			body    TEXT    NOT NULL,
			PRIMARY KEY (user_id, id)
		)`,
		`CREATE TABLE IF NOT EXISTS slots (
			user_id  INTEGER NOT NULL,
			position INTEGER NOT NULL,
			body     TEXT    NOT NULL,
			PRIMARY KEY (user_id, position)
		)`,
		`CREATE TABLE IF NOT EXISTS queue (
			user_id  INTEGER NOT NULL,
			position INTEGER NOT NULL,
			task_id  INTEGER NOT NULL,
			PRIMARY KEY (user_id, position)
		)`,
	}
	for _, m := range migrations {
		if _, err := d.db.Exec(m); err != nil {
			return fmt.Errorf("exec migration: %w", err)
		}
	}
	return nil
}

// Tasks returns every stored task for a user, sorted by id.
func (d *DB) Tasks(userID int64) ([]wire.Task, error) {
	rows, err := d.db.Query(`SELECT body FROM tasks WHERE user_id = ? ORDER BY id`, userID)
	if err != nil {
		return nil, fmt.Errorf("query tasks: %w", err)
	}
	defer rows.Close()

	tasks := []wire.Task{}
	for rows.Next() {
		var body string
		if err := rows.Scan(&body); err != nil {
			return nil, err
		}
		var t wire.Task
		if err := json.Unmarshal([]byte(body), &t); err != nil {
			return nil, fmt.Errorf("decode stored task: %w", err)
		}
		tasks = append(tasks, t)
	}
	return tasks, rows.Err()
}

// Task returns one stored task; sql.ErrNoRows when absent.
func (d *DB) Task(userID int64, id string) (wire.Task, error) {
	var body string
	err := d.db.QueryRow(
		`SELECT body FROM tasks WHERE user_id = ? AND id = ?`, userID, id,
	).Scan(&body)
	if err != nil {
		return wire.Task{}, err
	}
	var t wire.Task
	if err := json.Unmarshal([]byte(body), &t); err != nil {
		return wire.Task{}, fmt.Errorf("decode stored task: %w", err)
	}
	return t, nil
}

// PutTask inserts or overwrites a task.
func (d *DB) PutTask(userID int64, t wire.Task) error {
	body, err := json.Marshal(t)
	if err != nil {
		return err
	}
	_, err = d.db.Exec(
		`INSERT INTO tasks (user_id, id, body) VALUES (?, ?, ?)
		 ON CONFLICT (user_id, id) DO UPDATE SET body = excluded.body`,
		userID, t.ID, string(body),
	)
	return err
}

// DeleteTask removes a task; reports whether it existed.
func (d *DB) DeleteTask(userID int64, id string) (bool, error) {
	res, err := d.db.Exec(`DELETE FROM tasks WHERE user_id = ? AND id = ?`, userID, id)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	return n > 0, err
}

// Slots returns the stored scheduling result, in order.
func (d *DB) Slots(userID int64) ([]wire.Slot, error) {
	rows, err := d.db.Query(
		`SELECT body FROM slots WHERE user_id = ? ORDER BY position`, userID)
	if err != nil {
		return nil, fmt.Errorf("query slots: %w", err)
	}
	defer rows.Close()

	slots := []wire.Slot{}
	for rows.Next() {
		var body string
		if err := rows.Scan(&body); err != nil {
			return nil, err
		}
		var s wire.Slot
		if err := json.Unmarshal([]byte(body), &s); err != nil {
			return nil, fmt.Errorf("decode stored slot: %w", err)
		}
		slots = append(slots, s)
	}
	return slots, rows.Err()
}

// ReplaceSlots swaps a user's slots wholesale.
func (d *DB) ReplaceSlots(userID int64, slots []wire.Slot) error {
	tx, err := d.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`DELETE FROM slots WHERE user_id = ?`, userID); err != nil {
		return err
	}
	for i, s := range slots {
		body, err := json.Marshal(s)
		if err != nil {
			return err
		}
		if _, err := tx.Exec(
			`INSERT INTO slots (user_id, position, body) VALUES (?, ?, ?)`,
			userID, i, string(body),
		); err != nil {
			return err
		}
	}
	return tx.Commit()
}

// Queue returns the user's task ordering.
func (d *DB) Queue(userID int64) ([]int64, error) {
	rows, err := d.db.Query(
		`SELECT task_id FROM queue WHERE user_id = ? ORDER BY position`, userID)
	if err != nil {
		return nil, fmt.Errorf("query queue: %w", err)
	}
	defer rows.Close()

	queue := []int64{}
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		queue = append(queue, id)
	}
	return queue, rows.Err()
}

// ReplaceQueue swaps the user's task ordering wholesale.
func (d *DB) ReplaceQueue(userID int64, queue []int64) error {
	tx, err := d.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`DELETE FROM queue WHERE user_id = ?`, userID); err != nil {
		return err
	}
	for i, id := range queue {
		if _, err := tx.Exec(
			`INSERT INTO queue (user_id, position, task_id) VALUES (?, ?, ?)`,
			userID, i, id,
		); err != nil {
			return err
		}
	}
	return tx.Commit()
}

// State assembles the full wire snapshot for a user.
func (d *DB) State(userID int64) (wire.State, error) {
	tasks, err := d.Tasks(userID)
	if err != nil {
		return wire.State{}, err
	}
	slots, err := d.Slots(userID)
	if err != nil {
		return wire.State{}, err
	}
	return wire.State{UserID: userID, Tasks: tasks, Slots: slots}, nil
}
