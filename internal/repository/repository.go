package repository

import (
	"errors"

	"gorm.io/gorm"
)

// ErrNotFound is returned when a requested entity does not exist. It is
// distinct from empty-result semantics: listing members of an existing
// venture with no members returns an empty slice, not this error.
var ErrNotFound = errors.New("not found")

type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// WithTx returns a Repository bound to the given transaction handle, so a
// service can run several repository calls atomically inside
// db.Transaction(...).
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	return &Repository{db: tx}
}

func translate(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	return err
}
