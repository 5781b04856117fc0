package journal

import (
	"fmt"
)

// migrations are applied in order, each exactly once. Existing migrations
// must never be changed.
//
//nolint:gochecknoglobals
var migrations = []string{
	migrationV1,
}

func (j *Journal) migrate() error {
	if _, err := j.conn.Exec(`
		CREATE TABLE IF NOT EXISTS schema_version (
			version INTEGER PRIMARY KEY,
			applied INTEGER NOT NULL
		)
	`); err != nil {
		return fmt.Errorf("(journal-migrate) %w", err)
	}

	var version int
	if err := j.conn.QueryRow("SELECT COALESCE(MAX(version), 0) FROM schema_version").Scan(&version); err != nil {
		return fmt.Errorf("(journal-migrate) %w", err)
	}

	for i, migration := range migrations {
		v := i + 1
		if v <= version {
			continue
		}

		tx, err := j.conn.Begin()
		if err != nil {
			return fmt.Errorf("(journal-migrate) %w", err)
		}

		if _, err := tx.Exec(migration); err != nil {
			_ = tx.Rollback()

			return fmt.Errorf("(journal-migrate) v%d failed: %w", v, err)
		}

		if _, err := tx.Exec("INSERT INTO schema_version (version, applied) VALUES (?, ?)", v, j.now().UnixMilli()); err != nil {
			_ = tx.Rollback()

			return fmt.Errorf("(journal-migrate) v%d failed: %w", v, err)
		}

		if err := tx.Commit(); err != nil {
			return fmt.Errorf("(journal-migrate) v%d failed: %w", v, err)
		}
	}

	return nil
}

const migrationV1 = `
CREATE TABLE IF NOT EXISTS operations (
    id TEXT PRIMARY KEY,
    kind TEXT NOT NULL,
    target TEXT NOT NULL DEFAULT '',
    params TEXT NOT NULL DEFAULT '',
    issued INTEGER NOT NULL,
    completed INTEGER,
    created TEXT NOT NULL DEFAULT '',
    num_errors INTEGER NOT NULL DEFAULT 0,
    err_kind TEXT,
    err_message TEXT
);

CREATE INDEX IF NOT EXISTS idx_operations_issued ON operations(issued);
CREATE INDEX IF NOT EXISTS idx_operations_completed ON operations(completed);
`
