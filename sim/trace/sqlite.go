package trace

import (
	"database/sql"
	"errors"
	"fmt"
	"os"

	// Pure-Go SQLite driver, registered as "sqlite".
	_ "github.com/glebarez/go-sqlite"
	"github.com/rs/xid"
	"github.com/sirupsen/logrus"
	"github.com/tebeka/atexit"
)

const defaultBatchSize = 10000

// SQLiteWriter is a Recorder that buffers event records and writes them to a
// SQLite database in batches. Buffered records are flushed when the batch is
// full, on Close, and at process exit.
type SQLiteWriter struct {
	db        *sql.DB
	path      string
	batchSize int

	arrivals   []ArrivalRecord
	berths     []BerthRecord
	departures []DepartureRecord

	err    error // first flush error; later records are dropped
	closed bool
}

// NewSQLiteWriter creates the database at path and its tables. An empty path
// picks a unique file name in the working directory. Refuses to overwrite an
// existing file.
func NewSQLiteWriter(path string) (*SQLiteWriter, error) {
	if path == "" {
		path = "portsim_trace_" + xid.New().String() + ".sqlite3"
	}
	if _, err := os.Stat(path); err == nil {
		return nil, fmt.Errorf("trace database %s already exists", path)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening trace database: %w", err)
	}

	w := &SQLiteWriter{
		db:        db,
		path:      path,
		batchSize: defaultBatchSize,
	}
	if err := w.createTables(); err != nil {
		_ = db.Close()
		return nil, err
	}

	atexit.Register(func() { _ = w.Close() })

	logrus.Infof("Recording port events to %s", path)
	return w, nil
}

// Path returns the database file name.
func (w *SQLiteWriter) Path() string {
	return w.path
}

// Err returns the first error encountered while flushing, if any.
func (w *SQLiteWriter) Err() error {
	return w.err
}

func (w *SQLiteWriter) createTables() error {
	stmts := []string{
		`CREATE TABLE arrivals (
			ship TEXT NOT NULL,
			cargo TEXT NOT NULL,
			clock INTEGER NOT NULL,
			planned INTEGER NOT NULL,
			actual INTEGER NOT NULL
		)`,
		`CREATE TABLE berths (
			ship TEXT NOT NULL,
			cargo TEXT NOT NULL,
			crane INTEGER NOT NULL,
			clock INTEGER NOT NULL,
			finish INTEGER NOT NULL,
			wait INTEGER NOT NULL
		)`,
		`CREATE TABLE departures (
			ship TEXT NOT NULL,
			cargo TEXT NOT NULL,
			clock INTEGER NOT NULL,
			finish INTEGER NOT NULL,
			turnaround INTEGER NOT NULL
		)`,
	}
	for _, s := range stmts {
		if _, err := w.db.Exec(s); err != nil {
			return fmt.Errorf("creating trace tables: %w", err)
		}
	}
	return nil
}

// RecordArrival buffers an arrival record.
func (w *SQLiteWriter) RecordArrival(r ArrivalRecord) {
	w.arrivals = append(w.arrivals, r)
	w.maybeFlush()
}

// RecordBerth buffers a berth record.
func (w *SQLiteWriter) RecordBerth(r BerthRecord) {
	w.berths = append(w.berths, r)
	w.maybeFlush()
}

// RecordDeparture buffers a departure record.
func (w *SQLiteWriter) RecordDeparture(r DepartureRecord) {
	w.departures = append(w.departures, r)
	w.maybeFlush()
}

func (w *SQLiteWriter) buffered() int {
	return len(w.arrivals) + len(w.berths) + len(w.departures)
}

func (w *SQLiteWriter) maybeFlush() {
	if w.buffered() < w.batchSize {
		return
	}
	if err := w.Flush(); err != nil {
		logrus.Errorf("flushing trace database: %v", err)
	}
}

// Flush writes all buffered records in a single transaction.
func (w *SQLiteWriter) Flush() error {
	if w.closed {
		return errors.New("trace database is closed")
	}
	if w.err != nil {
		return w.err
	}
	if w.buffered() == 0 {
		return nil
	}

	if err := w.flushTx(); err != nil {
		w.err = err
		return err
	}

	w.arrivals = w.arrivals[:0]
	w.berths = w.berths[:0]
	w.departures = w.departures[:0]
	return nil
}

func (w *SQLiteWriter) flushTx() error {
	tx, err := w.db.Begin()
	if err != nil {
		return fmt.Errorf("beginning trace transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	for _, a := range w.arrivals {
		if _, err := tx.Exec(`INSERT INTO arrivals VALUES (?, ?, ?, ?, ?)`,
			a.Ship, a.Cargo, a.Clock, a.PlannedTime, a.ActualArrival); err != nil {
			return fmt.Errorf("inserting arrival of %s: %w", a.Ship, err)
		}
	}
	for _, b := range w.berths {
		if _, err := tx.Exec(`INSERT INTO berths VALUES (?, ?, ?, ?, ?, ?)`,
			b.Ship, b.Cargo, b.Crane, b.Clock, b.Finish, b.Wait); err != nil {
			return fmt.Errorf("inserting berth of %s: %w", b.Ship, err)
		}
	}
	for _, d := range w.departures {
		if _, err := tx.Exec(`INSERT INTO departures VALUES (?, ?, ?, ?, ?)`,
			d.Ship, d.Cargo, d.Clock, d.Finish, d.Turnaround); err != nil {
			return fmt.Errorf("inserting departure of %s: %w", d.Ship, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing trace transaction: %w", err)
	}
	return nil
}

// Close flushes pending records and closes the database. Safe to call twice.
func (w *SQLiteWriter) Close() error {
	if w.closed {
		return nil
	}
	flushErr := w.Flush()
	w.closed = true
	closeErr := w.db.Close()
	if flushErr != nil {
		return flushErr
	}
	return closeErr
}
