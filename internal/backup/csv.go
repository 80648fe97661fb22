// Package backup copies ledger tables to and from CSV files, and optionally
// ships those files to an S3-compatible bucket.
package backup

import (
	"context"
	"database/sql"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/saitej-a/Innobyte-services/internal/dbx"
	"github.com/saitej-a/Innobyte-services/internal/filex"
	"github.com/saitej-a/Innobyte-services/internal/logging"
)

type Service struct {
	db      *sql.DB
	dialect dbx.Dialect
	log     logging.Logger
}

func NewService(db *sql.DB, dialect dbx.Dialect, log logging.Logger) *Service {
	return &Service{db: db, dialect: dialect, log: log}
}

// FileName is the CSV file holding table inside a backup directory.
func FileName(table string) string {
	return table + ".csv"
}

// Export writes one CSV file per table into dir (created if missing) and
// returns the written paths. Each file has a header row.
func (s *Service) Export(ctx context.Context, dir string) ([]string, error) {
	dir, err := filex.EnsureDir(dir)
	if err != nil {
		return nil, err
	}

	var paths []string
	for _, name := range Tables {
		t, _ := lookupTable(name)
		path := filepath.Join(dir, FileName(name))

		n, err := s.exportTable(ctx, t, path)
		if err != nil {
			return nil, err
		}
		s.log.Info(ctx, "table exported", "table", name, "rows", n, "path", path)
		paths = append(paths, path)
	}
	return paths, nil
}

func (s *Service) exportTable(ctx context.Context, t table, path string) (int, error) {
	names := make([]string, len(t.columns))
	for i, c := range t.columns {
		names[i] = c.name
	}

	query := fmt.Sprintf(`SELECT %s FROM %s ORDER BY id`, strings.Join(names, ", "), t.name)
	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return 0, fmt.Errorf("failed to read %s: %w", t.name, err)
	}
	defer rows.Close()

	f, err := os.Create(path)
	if err != nil {
		return 0, fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(names); err != nil {
		return 0, fmt.Errorf("write header: %w", err)
	}

	count := 0
	for rows.Next() {
		dest := make([]any, len(t.columns))
		for i, c := range t.columns {
			dest[i] = c.dest()
		}
		if err := rows.Scan(dest...); err != nil {
			return 0, fmt.Errorf("failed to scan %s row: %w", t.name, err)
		}

		record := make([]string, len(t.columns))
		for i, c := range t.columns {
			record[i] = c.format(dest[i])
		}
		if err := w.Write(record); err != nil {
			return 0, fmt.Errorf("write %s: %w", path, err)
		}
		count++
	}
	if err := rows.Err(); err != nil {
		return 0, fmt.Errorf("failed to iterate %s rows: %w", t.name, err)
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return 0, fmt.Errorf("flush %s: %w", path, err)
	}
	return count, f.Close()
}

// Import appends the rows of dir/<table>.csv to table in one transaction.
// The header row names the columns; every name must belong to the table.
func (s *Service) Import(ctx context.Context, dir, tableName string) (int, error) {
	t, err := lookupTable(tableName)
	if err != nil {
		return 0, err
	}

	var count int
	err = dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		count, err = s.importTable(ctx, tx, dir, t)
		return err
	})
	if err != nil {
		return 0, err
	}

	s.log.Info(ctx, "table imported", "table", t.name, "rows", count)
	return count, nil
}

// Restore imports every table present in dir, parents first, in a single
// transaction. A failure in any file leaves the database unchanged.
func (s *Service) Restore(ctx context.Context, dir string) (map[string]int, error) {
	result := make(map[string]int)
	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		for _, name := range Tables {
			if _, err := os.Stat(filepath.Join(dir, FileName(name))); errors.Is(err, os.ErrNotExist) {
				continue
			}
			t, err := lookupTable(name)
			if err != nil {
				return err
			}
			n, err := s.importTable(ctx, tx, dir, t)
			if err != nil {
				return err
			}
			result[name] = n
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.Info(ctx, "backup restored", "dir", dir, "tables", len(result))
	return result, nil
}

func (s *Service) importTable(ctx context.Context, tx dbx.DBTX, dir string, t table) (int, error) {
	f, err := os.Open(filepath.Join(dir, FileName(t.name)))
	if err != nil {
		return 0, fmt.Errorf("open backup for %s: %w", t.name, err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	header, err := r.Read()
	if err != nil {
		return 0, fmt.Errorf("read header of %s: %w", t.name, err)
	}

	cols := make([]column, len(header))
	hasID := false
	for i, h := range header {
		c, ok := t.column(strings.TrimSpace(h))
		if !ok {
			return 0, fmt.Errorf("%s: unexpected column %q", t.name, h)
		}
		cols[i] = c
		hasID = hasID || c.name == "id"
	}

	query := insertQuery(s.dialect, t.name, cols)

	count := 0
	for {
		record, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return 0, fmt.Errorf("read %s row %d: %w", t.name, count+1, err)
		}

		args := make([]any, len(cols))
		for i, c := range cols {
			if args[i], err = c.parse(record[i]); err != nil {
				return 0, fmt.Errorf("%s row %d: %w", t.name, count+1, err)
			}
		}

		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return 0, fmt.Errorf("failed to insert %s row %d: %w", t.name, count+1, err)
		}
		count++
	}

	if hasID && s.dialect == dbx.DialectPostgres {
		if err := resetSequence(ctx, tx, t.name); err != nil {
			return 0, err
		}
	}
	return count, nil
}

// insertQuery only ever sees names taken from the static table definitions.
func insertQuery(d dbx.Dialect, tableName string, cols []column) string {
	names := make([]string, len(cols))
	marks := make([]string, len(cols))
	for i, c := range cols {
		names[i] = c.name
		marks[i] = "?"
	}
	return dbx.Rebind(d, fmt.Sprintf(`INSERT INTO %s (%s) VALUES (%s)`,
		tableName, strings.Join(names, ", "), strings.Join(marks, ", ")))
}

// resetSequence moves a BIGSERIAL past explicitly inserted ids.
func resetSequence(ctx context.Context, tx dbx.DBTX, tableName string) error {
	q := fmt.Sprintf(`SELECT setval(pg_get_serial_sequence('%s', 'id'), COALESCE((SELECT MAX(id) FROM %s), 1))`,
		tableName, tableName)
	if _, err := tx.ExecContext(ctx, q); err != nil {
		return fmt.Errorf("failed to reset %s id sequence: %w", tableName, err)
	}
	return nil
}
