package mongodb

import "context"

// Transactor runs fn without a session. Multi-document transactions need a
// replica set, and every correction writes through single-document updates.
type Transactor struct{}

func NewTransactor() *Transactor {
	return &Transactor{}
}

func (Transactor) WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}
