// Package store implements the costing and variance repositories on GORM.
//
// Every read is scoped to a tenant. Derived rows (cost lines, variance
// columns) are replaced inside a single transaction.
package store

import (
	"errors"

	"gorm.io/gorm"

	"franchiseops/internal/costing"
	"franchiseops/internal/variance"
)

var ErrIngredientNotFound = errors.New("master ingredient not found")

// Store is safe for concurrent use.
type Store struct {
	db *gorm.DB
}

var (
	_ costing.Repository        = (*Store)(nil)
	_ variance.PeriodRepository = (*Store)(nil)
)

func New(db *gorm.DB) *Store {
	return &Store{db: db}
}

// DB exposes the underlying handle.
func (s *Store) DB() *gorm.DB {
	return s.db
}

// notFound replaces gorm.ErrRecordNotFound with sentinel.
func notFound(err, sentinel error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return sentinel
	}
	return err
}
