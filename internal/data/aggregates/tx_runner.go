package aggregates

import (
	"database/sql"
	"errors"

	"gorm.io/gorm"

	"github.com/yungbote/brandstorm-backend/internal/pkg/dbctx"
)

var errNilDB = errors.New("transaction runner has nil db")

// TxRunner is the transaction boundary for writes that must land together,
// such as a vote row and its suggestion's counters.
type TxRunner interface {
	// InTx runs fn in a transaction. When dbc already carries a transaction
	// the work nests under it as a savepoint.
	InTx(dbc dbctx.Context, fn func(txc dbctx.Context) error) error
	// InReadTx runs fn in a read-only transaction so every statement in fn
	// sees the same committed state. An existing transaction on dbc is reused.
	InReadTx(dbc dbctx.Context, fn func(txc dbctx.Context) error) error
}

type gormTxRunner struct {
	db *gorm.DB
}

func NewGormTxRunner(db *gorm.DB) TxRunner {
	return &gormTxRunner{db: db}
}

func (r *gormTxRunner) InTx(dbc dbctx.Context, fn func(txc dbctx.Context) error) error {
	if fn == nil {
		return nil
	}
	if r == nil || r.db == nil {
		return errNilDB
	}
	return dbc.DB(r.db).Transaction(func(tx *gorm.DB) error {
		return fn(dbc.WithTx(tx))
	})
}

func (r *gormTxRunner) InReadTx(dbc dbctx.Context, fn func(txc dbctx.Context) error) error {
	if fn == nil {
		return nil
	}
	if dbc.Tx != nil {
		return fn(dbc)
	}
	if r == nil || r.db == nil {
		return errNilDB
	}
	db := dbc.DB(r.db)
	return db.Transaction(func(tx *gorm.DB) error {
		return fn(dbc.WithTx(tx))
	}, readTxOptions(db)...)
}

// readTxOptions asks Postgres for a repeatable-read snapshot. SQLite runs on a
// single connection, so its plain transaction is already a snapshot.
func readTxOptions(db *gorm.DB) []*sql.TxOptions {
	if db.Dialector == nil || db.Dialector.Name() != "postgres" {
		return nil
	}
	return []*sql.TxOptions{{Isolation: sql.LevelRepeatableRead, ReadOnly: true}}
}
