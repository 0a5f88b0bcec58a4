package repository

import (
	"context"
	"database/sql"
	"fmt"
	"reflect"
	"strings"
	"sync"

	"career-crafter/internal/database"

	"github.com/jackc/pgx/v5"
)

type fakeRow struct {
	vals []any
	err  error
}

func (r fakeRow) Scan(dest ...any) error {
	if r.err != nil {
		return r.err
	}
	if len(dest) != len(r.vals) {
		return fmt.Errorf("scan dest mismatch: want %d got %d", len(r.vals), len(dest))
	}
	for i := range dest {
		dv := reflect.ValueOf(dest[i]).Elem()
		if r.vals[i] == nil {
			dv.Set(reflect.Zero(dv.Type()))
			continue
		}
		sv := reflect.ValueOf(r.vals[i])
		if !sv.Type().AssignableTo(dv.Type()) {
			return fmt.Errorf("scan type mismatch at %d: %s into %s", i, sv.Type(), dv.Type())
		}
		dv.Set(sv)
	}
	return nil
}

type fakeRows struct {
	rows []fakeRow
	pos  int
}

func (r *fakeRows) Close()     {}
func (r *fakeRows) Err() error { return nil }
func (r *fakeRows) Next() bool {
	r.pos++
	return r.pos <= len(r.rows)
}
func (r *fakeRows) Scan(dest ...any) error { return r.rows[r.pos-1].Scan(dest...) }

type call struct {
	query string
	args  []any
}

// fakeDB answers queries by matching a lowercase prefix of the statement.
type fakeDB struct {
	mu sync.Mutex

	calls    []call
	execN    int64
	execErr  error
	row      fakeRow
	rows     []fakeRow
	queryErr error
}

func (db *fakeDB) Ping(ctx context.Context) error { return nil }
func (db *fakeDB) Close() error                   { return nil }
func (db *fakeDB) SQLDB() *sql.DB                 { return nil }

func (db *fakeDB) Begin(ctx context.Context) (database.Tx, error) {
	return nil, fmt.Errorf("not implemented")
}

func (db *fakeDB) record(query string, args []any) {
	db.mu.Lock()
	defer db.mu.Unlock()
	db.calls = append(db.calls, call{query: strings.Join(strings.Fields(strings.ToLower(query)), " "), args: args})
}

func (db *fakeDB) Exec(ctx context.Context, query string, args ...any) (int64, error) {
	db.record(query, args)
	return db.execN, db.execErr
}

func (db *fakeDB) Query(ctx context.Context, query string, args ...any) (database.Rows, error) {
	db.record(query, args)
	if db.queryErr != nil {
		return nil, db.queryErr
	}
	return &fakeRows{rows: db.rows}, nil
}

func (db *fakeDB) QueryRow(ctx context.Context, query string, args ...any) database.Row {
	db.record(query, args)
	return db.row
}

func (db *fakeDB) lastCall() call {
	db.mu.Lock()
	defer db.mu.Unlock()
	if len(db.calls) == 0 {
		return call{}
	}
	return db.calls[len(db.calls)-1]
}

var errNoRows = pgx.ErrNoRows
