package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var errNoDatabase = errors.New("no database behind this connection")

// fakeConn answers every statement with err, or errNoDatabase.
type fakeConn struct {
	err error
}

func (c *fakeConn) failure() error {
	if c.err != nil {
		return c.err
	}
	return errNoDatabase
}

func (c *fakeConn) PrepareContext(ctx context.Context, query string) (*sql.Stmt, error) {
	return nil, c.failure()
}

func (c *fakeConn) ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error) {
	return nil, c.failure()
}

func (c *fakeConn) QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error) {
	return nil, c.failure()
}

func (c *fakeConn) QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row {
	return nil
}

type fakePool struct {
	fakeConn
}

func (p *fakePool) BeginTx(ctx context.Context, opts *sql.TxOptions) (gorm.ConnPool, error) {
	return &fakeTx{fakeConn: p.fakeConn}, nil
}

type fakeTx struct {
	fakeConn
}

func (t *fakeTx) Commit() error   { return nil }
func (t *fakeTx) Rollback() error { return nil }

// sqlRecorder is a gorm logger that keeps every statement with its values inlined.
type sqlRecorder struct {
	mu         sync.Mutex
	statements []string
}

func (r *sqlRecorder) LogMode(logger.LogLevel) logger.Interface { return r }
func (r *sqlRecorder) Info(context.Context, string, ...interface{})  {}
func (r *sqlRecorder) Warn(context.Context, string, ...interface{})  {}
func (r *sqlRecorder) Error(context.Context, string, ...interface{}) {}

func (r *sqlRecorder) Trace(ctx context.Context, begin time.Time, fc func() (string, int64), err error) {
	stmt, _ := fc()
	r.mu.Lock()
	defer r.mu.Unlock()
	r.statements = append(r.statements, stmt)
}

// find returns the index of the first statement containing every fragment, or -1.
func (r *sqlRecorder) find(fragments ...string) int {
	r.mu.Lock()
	defer r.mu.Unlock()
next:
	for i, stmt := range r.statements {
		for _, f := range fragments {
			if !strings.Contains(stmt, f) {
				continue next
			}
		}
		return i
	}
	return -1
}

func (r *sqlRecorder) dump() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return strings.Join(r.statements, "\n")
}

// openDryRun returns a postgres-dialect gorm DB that builds SQL without running it.
func openDryRun(t *testing.T) (*gorm.DB, *sqlRecorder) {
	t.Helper()
	return open(t, true, nil)
}

// openFailing returns a gorm DB whose every statement fails with err.
func openFailing(t *testing.T, err error) *gorm.DB {
	t.Helper()
	db, _ := open(t, false, err)
	return db
}

func open(t *testing.T, dryRun bool, failWith error) (*gorm.DB, *sqlRecorder) {
	t.Helper()
	rec := &sqlRecorder{}
	db, err := gorm.Open(postgres.New(postgres.Config{Conn: &fakePool{fakeConn{err: failWith}}}), &gorm.Config{
		DryRun:                 dryRun,
		DisableAutomaticPing:   true,
		SkipDefaultTransaction: true,
		Logger:                 rec,
	})
	if err != nil {
		t.Fatalf("gorm.Open() error = %v", err)
	}
	return db, rec
}
