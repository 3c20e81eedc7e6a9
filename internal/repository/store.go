package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/fasthotel/hotel-api/internal/service/ports"
)

// DBTX is the subset of *sql.DB and *sql.Tx the repositories use, so the
// same code runs inside and outside a transaction.
type DBTX interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

type scanner interface {
	Scan(dest ...any) error
}

// Store hands out repositories bound either to the pool or to one open
// transaction.
type Store struct {
	db   *sql.DB
	q    DBTX
	inTx bool
}

// NewStore returns a Store running its queries on db.
func NewStore(db *sql.DB) *Store { return &Store{db: db, q: db} }

func (s *Store) Rooms() ports.RoomRepo               { return &RoomRepo{q: s.q, lock: s.inTx} }
func (s *Store) Reservations() ports.ReservationRepo { return &ReservationRepo{q: s.q, lock: s.inTx} }
func (s *Store) Charges() ports.ChargeRepo           { return &ChargeRepo{q: s.q} }
func (s *Store) Payments() ports.PaymentRepo         { return &PaymentRepo{q: s.q} }
func (s *Store) Services() ports.ServiceRepo         { return &ServiceRepo{q: s.q} }
func (s *Store) Guests() ports.GuestRepo             { return &GuestRepo{q: s.q} }

// WithinTx runs fn in a REPEATABLE READ transaction. The transaction is
// committed when fn returns nil and rolled back otherwise. Nested calls
// join the outer transaction.
func (s *Store) WithinTx(ctx context.Context, fn func(tx ports.Store) error) error {
	if s.inTx {
		return fn(s)
	}
	tx, err := s.db.BeginTx(ctx, &sql.TxOptions{Isolation: sql.LevelRepeatableRead})
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	if err := fn(&Store{db: s.db, q: tx, inTx: true}); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	committed = true
	return nil
}

// PingContext reports whether the database answers. It backs /readyz.
func (s *Store) PingContext(ctx context.Context) error { return s.db.PingContext(ctx) }
