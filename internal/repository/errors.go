// Package repository implements the store ports on MySQL with plain
// database/sql. Driver errors that carry meaning for callers are translated
// into the domain errors of package model: duplicate keys become
// ErrDuplicate, rows still referenced by other tables become ErrConflict
// and missing rows become the entity's not found error.
package repository

import (
	"database/sql"
	"errors"

	"github.com/go-sql-driver/mysql"

	"github.com/fasthotel/hotel-api/internal/model"
)

// MySQL server error numbers.
const (
	errDupEntry        = 1062
	errRowIsReferenced = 1451
	errNoReferencedRow = 1452
)

func mysqlCode(err error) uint16 {
	var me *mysql.MySQLError
	if errors.As(err, &me) {
		return me.Number
	}
	return 0
}

// translate maps driver errors to domain errors. dup is returned for
// unique key violations, notFound for sql.ErrNoRows.
func translate(err, dup, notFound error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, sql.ErrNoRows) && notFound != nil {
		return notFound
	}
	switch mysqlCode(err) {
	case errDupEntry:
		if dup != nil {
			return dup
		}
		return model.ErrDuplicate
	case errRowIsReferenced:
		return model.ErrConflict
	case errNoReferencedRow:
		return model.ErrNotFound
	}
	return err
}

// requireAffected turns a statement that touched no row into notFound.
func requireAffected(res sql.Result, notFound error) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return notFound
	}
	return nil
}
