// Package repository wraps gorm queries, one repository per table. Methods
// that take a tx participate in the caller's transaction.
package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"
)

// ErrNotFound is gorm.ErrRecordNotFound, re-exported so services do not
// import gorm just to compare errors.
var ErrNotFound = gorm.ErrRecordNotFound

// ErrDuplicate is returned for unique constraint violations. The connection
// is opened with TranslateError so the postgres driver maps them.
var ErrDuplicate = gorm.ErrDuplicatedKey

// Transactor runs fn inside one database transaction.
type Transactor interface {
	Transaction(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type transactor struct {
	db *gorm.DB
}

func NewTransactor(db *gorm.DB) Transactor {
	return &transactor{db: db}
}

func (t *transactor) Transaction(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return t.db.WithContext(ctx).Transaction(fn)
}

func IsNotFound(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}

func IsDuplicate(err error) bool {
	return errors.Is(err, gorm.ErrDuplicatedKey)
}

// conn returns tx when the caller is inside a transaction, db otherwise.
func conn(db, tx *gorm.DB) *gorm.DB {
	if tx != nil {
		return tx
	}
	return db
}
