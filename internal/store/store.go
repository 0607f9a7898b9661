// Package store persists users, projects, memberships, boards, tasks and
// comments. Raw gorm errors never leave this package: lookups that miss
// return ErrNotFound and uniqueness violations return ErrConflict.
package store

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
)

var (
	ErrNotFound = errors.New("not found")
	ErrConflict = errors.New("conflict")

	ErrUsernameTaken   = fmt.Errorf("%w: username already taken", ErrConflict)
	ErrEmailTaken      = fmt.Errorf("%w: email already registered", ErrConflict)
	ErrBoardTitleTaken = fmt.Errorf("%w: board title already exists in project", ErrConflict)
	ErrAlreadyMember   = fmt.Errorf("%w: user is already a project member", ErrConflict)
	ErrLastOwner       = fmt.Errorf("%w: project must keep at least one owner", ErrConflict)
)

type Store struct {
	db *gorm.DB
}

func New(db *gorm.DB) *Store {
	return &Store{db: db}
}

// Transaction runs fn against a store bound to a single database
// transaction. Nothing fn wrote persists unless it returns nil.
func (s *Store) Transaction(ctx context.Context, fn func(tx *Store) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(New(tx))
	})
}

// translate maps gorm errors onto the store's error kinds.
func translate(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return ErrNotFound
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return fmt.Errorf("%w: %v", ErrConflict, err)
	}
	return err
}
