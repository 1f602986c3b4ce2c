package timeentry

import (
	"context"
	"time"
)

// TimeEntryRepository defines data access for punches.
// Every read is scoped by companyID.
type TimeEntryRepository interface {
	Create(ctx context.Context, entry TimeEntry) (TimeEntry, error)

	GetByID(ctx context.Context, id string, companyID string) (TimeEntry, error)

	// ListByRange returns every entry with from <= timestamp <= to, ordered by
	// timestamp, created_at, id ascending (see SortChronological).
	// An empty employeeID returns entries for the whole company.
	ListByRange(ctx context.Context, companyID string, from, to time.Time, employeeID string) ([]TimeEntry, error)

	List(ctx context.Context, filter TimeEntryFilter, companyID string) ([]TimeEntry, int64, error)

	// GetLatestByEmployee returns the most recent punch, or ErrTimeEntryNotFound.
	GetLatestByEmployee(ctx context.Context, employeeID string, companyID string) (TimeEntry, error)

	UpdateTimestamp(ctx context.Context, id string, companyID string, timestamp time.Time) error

	// CompanyIDs lists companies that recorded at least one punch since the given instant.
	CompanyIDs(ctx context.Context, since time.Time) ([]string, error)
}

// Transactor scopes repository calls made through ctx to one transaction.
type Transactor interface {
	WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}
