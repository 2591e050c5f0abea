// Package usql wraps database/sql so every statement the block store runs shows up in
// the gocore stats page, grouped by statement verb.
package usql

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/ordishs/gocore"
)

var stat = gocore.NewStat("SQL")

type DB struct {
	*sql.DB
}

type Tx struct {
	*sql.Tx
}

func Open(driverName, dataSourceName string) (*DB, error) {
	db, err := sql.Open(driverName, dataSourceName)
	if err != nil {
		return nil, err
	}

	return &DB{DB: db}, nil
}

// observe records the time since start under <group>/<VERB>/<query>.
func observe(group *gocore.Stat, query string, start time.Time) {
	verb := "OTHER"
	if fields := strings.Fields(query); len(fields) > 0 {
		verb = strings.ToUpper(fields[0])
	}

	group.NewStat(verb).NewStat(strings.Join(strings.Fields(query), " ")).AddTime(start)
}

func (db *DB) QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error) {
	defer observe(stat, query, gocore.CurrentTime())

	return db.DB.QueryContext(ctx, query, args...)
}

func (db *DB) QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row {
	defer observe(stat, query, gocore.CurrentTime())

	return db.DB.QueryRowContext(ctx, query, args...)
}

func (db *DB) Exec(query string, args ...interface{}) (sql.Result, error) {
	return db.ExecContext(context.Background(), query, args...)
}

func (db *DB) ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error) {
	defer observe(stat, query, gocore.CurrentTime())

	return db.DB.ExecContext(ctx, query, args...)
}

func (db *DB) BeginTx(ctx context.Context, opts *sql.TxOptions) (*Tx, error) {
	tx, err := db.DB.BeginTx(ctx, opts)
	if err != nil {
		return nil, err
	}

	return &Tx{Tx: tx}, nil
}

var txStat = stat.NewStat("tx")

func (tx *Tx) QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row {
	defer observe(txStat, query, gocore.CurrentTime())

	return tx.Tx.QueryRowContext(ctx, query, args...)
}

func (tx *Tx) ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error) {
	defer observe(txStat, query, gocore.CurrentTime())

	return tx.Tx.ExecContext(ctx, query, args...)
}
