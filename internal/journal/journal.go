// Package journal implements a persistent record of every operation that was
// dispatched to the daemon, together with its result. The journal is an
// observer of the dispatcher, it never influences the operations themselves:
// a journal that cannot be written only results in logged warnings.
package journal

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/desertwitch/diskman/internal/operation"
	"github.com/desertwitch/diskman/internal/schema"
	"github.com/google/uuid"
	_ "modernc.org/sqlite" // database driver
)

// DefaultRecent is the amount of entries returned by [Journal.Recent] for a
// limit of zero.
const DefaultRecent = 50

const writeTimeout = 5 * time.Second

// Entry is a journaled operation.
type Entry struct {
	ID     uuid.UUID
	Kind   schema.Kind
	Target schema.EntityRef
	Params string
	Issued time.Time

	// Completed is the zero time while the operation has not completed.
	Completed time.Time
	Created   schema.EntityRef
	NumErrors uint64

	// ErrKind and ErrMessage are set for failed operations. Validation
	// errors are never journaled, as they are not dispatched.
	ErrKind    string
	ErrMessage string
}

// Done reports if the operation has completed.
func (e *Entry) Done() bool {
	return !e.Completed.IsZero()
}

// Failed reports if the operation has completed with an error.
func (e *Entry) Failed() bool {
	return e.Done() && e.ErrMessage != ""
}

// Journal is the principal implementation of the operation journal.
type Journal struct {
	conn *sql.DB
	path string
	now  func() time.Time
}

// Open opens or creates the journal database at path.
func Open(path string) (*Journal, error) {
	if path == "" {
		return nil, fmt.Errorf("(journal) %w", ErrNoPath)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil { //nolint:mnd
		return nil, fmt.Errorf("(journal) failed to create directory: %w", err)
	}

	conn, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("(journal) failed to open database: %w", err)
	}

	// SQLite serializes writers anyway, one connection avoids busy errors.
	conn.SetMaxOpenConns(1)

	if _, err := conn.Exec("PRAGMA journal_mode = WAL; PRAGMA busy_timeout = 5000;"); err != nil {
		_ = conn.Close()

		return nil, fmt.Errorf("(journal) failed to configure database: %w", err)
	}

	j := &Journal{conn: conn, path: path, now: time.Now}

	if err := j.migrate(); err != nil {
		_ = conn.Close()

		return nil, fmt.Errorf("(journal) failed to migrate database: %w", err)
	}

	return j, nil
}

// Close closes the database.
func (j *Journal) Close() error {
	if err := j.conn.Close(); err != nil {
		return fmt.Errorf("(journal) %w", err)
	}

	return nil
}

// Path returns the path of the database.
func (j *Journal) Path() string {
	return j.path
}

// Dispatched implements [operation.Observer].
func (j *Journal) Dispatched(req *operation.Request) {
	ctx, cancel := context.WithTimeout(context.Background(), writeTimeout)
	defer cancel()

	var target schema.EntityRef
	if req.Target != nil {
		target = req.Target.Ref()
	}

	_, err := j.conn.ExecContext(ctx, `
		INSERT INTO operations (id, kind, target, params, issued)
		VALUES (?, ?, ?, ?, ?)
	`, req.ID.String(), req.Kind().String(), target.String(), fmt.Sprint(req.Params), req.Issued.UnixMilli())
	if err != nil {
		slog.Warn("Failed to journal dispatched operation.",
			"id", req.ID,
			"kind", req.Kind(),
			"err", err,
		)
	}
}

// Completed implements [operation.Observer].
func (j *Journal) Completed(req *operation.Request, res schema.Result) {
	ctx, cancel := context.WithTimeout(context.Background(), writeTimeout)
	defer cancel()

	var errKind, errMessage string
	if res.Failed() {
		errMessage = res.Err.Error()
		if opErr, ok := schema.AsOperationError(res.Err); ok {
			errKind, errMessage = opErr.Kind, opErr.Message
		}
	}

	_, err := j.conn.ExecContext(ctx, `
		UPDATE operations
		SET completed = ?, created = ?, num_errors = ?, err_kind = ?, err_message = ?
		WHERE id = ?
	`, j.now().UnixMilli(), res.Created.String(), int64(res.NumErrors), errKind, errMessage, req.ID.String()) //nolint:gosec
	if err != nil {
		slog.Warn("Failed to journal completed operation.",
			"id", req.ID,
			"kind", req.Kind(),
			"err", err,
		)
	}
}

// Recent returns the most recent entries, newest first.
func (j *Journal) Recent(ctx context.Context, limit int) ([]*Entry, error) {
	if limit <= 0 {
		limit = DefaultRecent
	}

	rows, err := j.conn.QueryContext(ctx, `
		SELECT id, kind, target, params, issued, completed, created, num_errors, err_kind, err_message
		FROM operations
		ORDER BY issued DESC, rowid DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("(journal-recent) failed to query: %w", err)
	}
	defer rows.Close()

	return scanEntries(rows)
}

// Pending returns the entries of operations that never completed, for
// example because the program exited while they were in flight.
func (j *Journal) Pending(ctx context.Context) ([]*Entry, error) {
	rows, err := j.conn.QueryContext(ctx, `
		SELECT id, kind, target, params, issued, completed, created, num_errors, err_kind, err_message
		FROM operations
		WHERE completed IS NULL
		ORDER BY issued ASC, rowid ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("(journal-pending) failed to query: %w", err)
	}
	defer rows.Close()

	return scanEntries(rows)
}

// Get returns the entry with the given id.
func (j *Journal) Get(ctx context.Context, id uuid.UUID) (*Entry, error) {
	rows, err := j.conn.QueryContext(ctx, `
		SELECT id, kind, target, params, issued, completed, created, num_errors, err_kind, err_message
		FROM operations
		WHERE id = ?
	`, id.String())
	if err != nil {
		return nil, fmt.Errorf("(journal-get) failed to query: %w", err)
	}
	defer rows.Close()

	entries, err := scanEntries(rows)
	if err != nil {
		return nil, err
	}

	if len(entries) == 0 {
		return nil, fmt.Errorf("(journal-get) %w: %s", ErrNotFound, id)
	}

	return entries[0], nil
}

// Prune deletes completed entries issued before the given time and returns
// the amount of deleted entries.
func (j *Journal) Prune(ctx context.Context, before time.Time) (int64, error) {
	res, err := j.conn.ExecContext(ctx, `
		DELETE FROM operations
		WHERE completed IS NOT NULL AND issued < ?
	`, before.UnixMilli())
	if err != nil {
		return 0, fmt.Errorf("(journal-prune) failed to delete: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("(journal-prune) %w", err)
	}

	return n, nil
}

func scanEntries(rows *sql.Rows) ([]*Entry, error) {
	var entries []*Entry

	for rows.Next() {
		var (
			e                         Entry
			id, kind, target, created string
			issued                    int64
			completed                 sql.NullInt64
			numErrors                 int64
			errKind, errMessage       sql.NullString
		)

		if err := rows.Scan(&id, &kind, &target, &e.Params, &issued, &completed,
			&created, &numErrors, &errKind, &errMessage); err != nil {
			return nil, fmt.Errorf("(journal-scan) %w", err)
		}

		parsed, err := uuid.Parse(id)
		if err != nil {
			return nil, fmt.Errorf("(journal-scan) %w: %w", ErrCorrupt, err)
		}
		e.ID = parsed

		if e.Kind, err = schema.ParseKind(kind); err != nil {
			return nil, fmt.Errorf("(journal-scan) %w: %w", ErrCorrupt, err)
		}

		e.Target = schema.EntityRef(target)
		e.Created = schema.EntityRef(created)
		e.Issued = time.UnixMilli(issued)
		if completed.Valid {
			e.Completed = time.UnixMilli(completed.Int64)
		}
		e.NumErrors = uint64(numErrors) //nolint:gosec
		e.ErrKind = errKind.String
		e.ErrMessage = errMessage.String

		entries = append(entries, &e)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("(journal-scan) %w", err)
	}

	return entries, nil
}
