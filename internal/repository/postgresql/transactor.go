package postgresql

import (
	"context"

	"github.com/cmlabs-hris/timeclock-backend-go/internal/pkg/database"
)

// Transactor adapts WithTransaction to the services' transaction boundary.
type Transactor struct {
	db *database.DB
}

func NewTransactor(db *database.DB) *Transactor {
	return &Transactor{db: db}
}

func (t *Transactor) WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return WithTransaction(ctx, t.db, fn)
}
