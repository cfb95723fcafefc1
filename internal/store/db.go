// Package store reads and writes financial tables in SQLite databases.
package store

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
	"time"

	_ "modernc.org/sqlite" // register sqlite driver
)

// DB wraps a SQLite database holding input or export tables.
type DB struct {
	db *sql.DB
}

var identRe = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// Open opens or creates the database at the given path for writing.
func Open(dbPath string) (*DB, error) {
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return nil, fmt.Errorf("creating db dir: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(wal)&_pragma=synchronous(normal)")
	if err != nil {
		return nil, fmt.Errorf("opening db: %w", err)
	}
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("opening db: %w", err)
	}
	return &DB{db: db}, nil
}

// OpenReadOnly opens an existing database without creating it.
func OpenReadOnly(dbPath string) (*DB, error) {
	if _, err := os.Stat(dbPath); err != nil {
		return nil, err
	}
	db, err := sql.Open("sqlite", "file:"+dbPath+"?mode=ro")
	if err != nil {
		return nil, fmt.Errorf("opening db: %w", err)
	}
	return &DB{db: db}, nil
}

// Close closes the database.
func (d *DB) Close() error {
	return d.db.Close()
}

// QuoteIdent validates name as a plain SQL identifier and double-quotes it.
func QuoteIdent(name string) (string, error) {
	if !identRe.MatchString(name) {
		return "", fmt.Errorf("invalid table or column name %q", name)
	}
	return `"` + name + `"`, nil
}

// ReadTable returns the column names and every row of table as strings.
// NULL cells become "", reals use the shortest exact form.
func (d *DB) ReadTable(table string) ([]string, [][]string, error) {
	q, err := QuoteIdent(table)
	if err != nil {
		return nil, nil, err
	}

	rows, err := d.db.Query("SELECT * FROM " + q)
	if err != nil {
		return nil, nil, fmt.Errorf("querying %s: %w", table, err)
	}
	defer func() { _ = rows.Close() }()

	header, err := rows.Columns()
	if err != nil {
		return nil, nil, err
	}

	var out [][]string
	vals := make([]any, len(header))
	ptrs := make([]any, len(header))
	for i := range vals {
		ptrs[i] = &vals[i]
	}
	for rows.Next() {
		if err := rows.Scan(ptrs...); err != nil {
			return nil, nil, err
		}
		row := make([]string, len(header))
		for i, v := range vals {
			row[i] = cellString(v)
		}
		out = append(out, row)
	}
	return header, out, rows.Err()
}

func cellString(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case []byte:
		return string(x)
	case int64:
		return strconv.FormatInt(x, 10)
	case float64:
		return strconv.FormatFloat(x, 'g', -1, 64)
	case bool:
		if x {
			return "1"
		}
		return "0"
	case time.Time:
		return x.UTC().Format("2006-01-02")
	default:
		return fmt.Sprint(x)
	}
}

// Column is one column of a table written by WriteTable.
type Column struct {
	Name string
	Type string // TEXT, REAL or INTEGER
}

// WriteTable drops and recreates table with cols, then inserts rows in one
// transaction. Each row must have one value per column.
func (d *DB) WriteTable(table string, cols []Column, rows [][]any) error {
	qt, err := QuoteIdent(table)
	if err != nil {
		return err
	}
	if len(cols) == 0 {
		return fmt.Errorf("table %s: no columns", table)
	}

	defs := make([]string, len(cols))
	marks := make([]string, len(cols))
	for i, c := range cols {
		qc, err := QuoteIdent(c.Name)
		if err != nil {
			return err
		}
		typ := strings.ToUpper(c.Type)
		switch typ {
		case "TEXT", "REAL", "INTEGER":
		default:
			return fmt.Errorf("column %s: unsupported type %q", c.Name, c.Type)
		}
		defs[i] = qc + " " + typ
		marks[i] = "?"
	}

	tx, err := d.db.Begin()
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.Exec("DROP TABLE IF EXISTS " + qt); err != nil {
		return err
	}
	if _, err := tx.Exec("CREATE TABLE " + qt + " (" + strings.Join(defs, ", ") + ")"); err != nil {
		return fmt.Errorf("creating %s: %w", table, err)
	}

	stmt, err := tx.Prepare("INSERT INTO " + qt + " VALUES (" + strings.Join(marks, ", ") + ")")
	if err != nil {
		return err
	}
	defer func() { _ = stmt.Close() }()

	for i, row := range rows {
		if len(row) != len(cols) {
			return fmt.Errorf("table %s row %d: %d values for %d columns", table, i+1, len(row), len(cols))
		}
		if _, err := stmt.Exec(row...); err != nil {
			return fmt.Errorf("table %s row %d: %w", table, i+1, err)
		}
	}

	return tx.Commit()
}

// RowCount returns the number of rows in table.
func (d *DB) RowCount(table string) (int, error) {
	q, err := QuoteIdent(table)
	if err != nil {
		return 0, err
	}
	var count int
	err = d.db.QueryRow("SELECT COUNT(*) FROM " + q).Scan(&count)
	return count, err
}
