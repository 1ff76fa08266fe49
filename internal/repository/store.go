package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"

	"github.com/emilythestrangee/stackit/backend/internal/voting"
)

// Postgres SQLSTATEs that mean "retry the transaction".
const (
	pgSerializationFailure = "40001"
	pgDeadlockDetected     = "40P01"
)

// Store is the GORM implementation of voting.Store plus the plain CRUD the
// HTTP layer needs.
type Store struct {
	db *gorm.DB
}

func New(db *gorm.DB) *Store {
	return &Store{db: db}
}

// InTx runs fn inside one database transaction.
func (s *Store) InTx(ctx context.Context, fn func(tx voting.Stores) error) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&Store{db: tx})
	})
	return classify(err)
}

func (s *Store) conn(ctx context.Context) *gorm.DB {
	return s.db.WithContext(ctx)
}

// classify turns storage races into voting.ErrConflict so callers may retry.
func classify(err error) error {
	if err == nil {
		return nil
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && (pgErr.Code == pgSerializationFailure || pgErr.Code == pgDeadlockDetected) {
		return fmt.Errorf("%w: %v", voting.ErrConflict, err)
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return fmt.Errorf("%w: %v", voting.ErrConflict, err)
	}
	return err
}

func notFound(err error, format string, args ...any) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf(format+": %w", append(args, voting.ErrNotFound)...)
	}
	return err
}

// page clamps offset/limit to sane bounds.
func page(offset, limit int) (int, int) {
	if offset < 0 {
		offset = 0
	}
	if limit <= 0 || limit > 100 {
		limit = 100
	}
	return offset, limit
}
