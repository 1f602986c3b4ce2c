package postgresql

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/cmlabs-hris/timeclock-backend-go/internal/domain/timeentry"
	"github.com/cmlabs-hris/timeclock-backend-go/internal/pkg/database"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

const timeEntryColumns = `
	id, company_id, employee_id, employee_name, type, timestamp, method, snapshot_url,
	created_at, updated_at`

type timeEntryRepository struct {
	db *database.DB
}

func NewTimeEntryRepository(db *database.DB) timeentry.TimeEntryRepository {
	return &timeEntryRepository{db: db}
}

func scanTimeEntry(row pgx.Row) (timeentry.TimeEntry, error) {
	var entry timeentry.TimeEntry
	err := row.Scan(
		&entry.ID, &entry.CompanyID, &entry.EmployeeID, &entry.EmployeeName,
		&entry.Type, &entry.Timestamp, &entry.Method, &entry.SnapshotURL,
		&entry.CreatedAt, &entry.UpdatedAt,
	)
	return entry, err
}

func collectTimeEntries(rows pgx.Rows) ([]timeentry.TimeEntry, error) {
	defer rows.Close()

	entries := make([]timeentry.TimeEntry, 0)
	for rows.Next() {
		entry, err := scanTimeEntry(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan time entry: %w", err)
		}
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate time entries: %w", err)
	}
	return entries, nil
}

// Create implements timeentry.TimeEntryRepository.
func (r *timeEntryRepository) Create(ctx context.Context, newEntry timeentry.TimeEntry) (timeentry.TimeEntry, error) {
	q := GetQuerier(ctx, r.db)

	if newEntry.ID == "" {
		id, err := uuid.NewV7()
		if err != nil {
			return timeentry.TimeEntry{}, fmt.Errorf("failed to generate time entry id: %w", err)
		}
		newEntry.ID = id.String()
	}

	query := `
		INSERT INTO time_entries (
			id, company_id, employee_id, employee_name, type, timestamp, method, snapshot_url
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8
		) RETURNING created_at, updated_at
	`

	err := q.QueryRow(ctx, query,
		newEntry.ID,
		newEntry.CompanyID,
		newEntry.EmployeeID,
		newEntry.EmployeeName,
		newEntry.Type,
		newEntry.Timestamp,
		newEntry.Method,
		newEntry.SnapshotURL,
	).Scan(&newEntry.CreatedAt, &newEntry.UpdatedAt)
	if err != nil {
		return timeentry.TimeEntry{}, fmt.Errorf("failed to create time entry: %w", err)
	}

	return newEntry, nil
}

// GetByID implements timeentry.TimeEntryRepository.
func (r *timeEntryRepository) GetByID(ctx context.Context, id string, companyID string) (timeentry.TimeEntry, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + timeEntryColumns + `
		FROM time_entries
		WHERE id = $1 AND company_id = $2
	`

	entry, err := scanTimeEntry(q.QueryRow(ctx, query, id, companyID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return timeentry.TimeEntry{}, timeentry.ErrTimeEntryNotFound
		}
		return timeentry.TimeEntry{}, fmt.Errorf("failed to get time entry by ID: %w", err)
	}

	return entry, nil
}

// ListByRange implements timeentry.TimeEntryRepository.
func (r *timeEntryRepository) ListByRange(ctx context.Context, companyID string, from, to time.Time, employeeID string) ([]timeentry.TimeEntry, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + timeEntryColumns + `
		FROM time_entries
		WHERE company_id = $1
		  AND timestamp >= $2
		  AND timestamp <= $3`
	args := []interface{}{companyID, from, to}

	if employeeID != "" {
		query += ` AND employee_id = $4`
		args = append(args, employeeID)
	}
	query += ` ORDER BY timestamp ASC, created_at ASC, id ASC`

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query time entries by range: %w", err)
	}

	return collectTimeEntries(rows)
}

// List implements timeentry.TimeEntryRepository.
func (r *timeEntryRepository) List(ctx context.Context, filter timeentry.TimeEntryFilter, companyID string) ([]timeentry.TimeEntry, int64, error) {
	q := GetQuerier(ctx, r.db)

	baseWhere := "company_id = $1"
	args := []interface{}{companyID}
	argIdx := 2

	if filter.EmployeeID != nil && *filter.EmployeeID != "" {
		baseWhere += fmt.Sprintf(" AND employee_id = $%d", argIdx)
		args = append(args, *filter.EmployeeID)
		argIdx++
	}

	if filter.Type != nil && *filter.Type != "" {
		baseWhere += fmt.Sprintf(" AND type = $%d", argIdx)
		args = append(args, *filter.Type)
		argIdx++
	}

	if filter.Method != nil && *filter.Method != "" {
		baseWhere += fmt.Sprintf(" AND method = $%d", argIdx)
		args = append(args, *filter.Method)
		argIdx++
	}

	// Date range filters compare the UTC calendar day
	from, to, err := filter.DateBounds()
	if err != nil {
		return nil, 0, err
	}
	if from != nil {
		baseWhere += fmt.Sprintf(" AND timestamp >= $%d", argIdx)
		args = append(args, *from)
		argIdx++
	}
	if to != nil {
		baseWhere += fmt.Sprintf(" AND timestamp < $%d", argIdx)
		args = append(args, *to)
		argIdx++
	}

	countQuery := "SELECT COUNT(*) FROM time_entries WHERE " + baseWhere
	var total int64
	if err := q.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count time entries: %w", err)
	}

	sortOrder := "DESC"
	if strings.ToLower(filter.SortOrder) == "asc" {
		sortOrder = "ASC"
	}

	selectQuery := fmt.Sprintf(`
		SELECT %s
		FROM time_entries
		WHERE %s
		ORDER BY timestamp %s, id %s
		LIMIT $%d OFFSET $%d
	`, timeEntryColumns, baseWhere, sortOrder, sortOrder, argIdx, argIdx+1)

	limit := filter.Limit
	if limit == 0 {
		limit = 20
	}
	offset := (filter.Page - 1) * limit
	args = append(args, limit, offset)

	rows, err := q.Query(ctx, selectQuery, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to query time entries: %w", err)
	}

	entries, err := collectTimeEntries(rows)
	if err != nil {
		return nil, 0, err
	}

	return entries, total, nil
}

// GetLatestByEmployee implements timeentry.TimeEntryRepository.
func (r *timeEntryRepository) GetLatestByEmployee(ctx context.Context, employeeID string, companyID string) (timeentry.TimeEntry, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + timeEntryColumns + `
		FROM time_entries
		WHERE employee_id = $1 AND company_id = $2
		ORDER BY timestamp DESC, created_at DESC
		LIMIT 1
	`

	entry, err := scanTimeEntry(q.QueryRow(ctx, query, employeeID, companyID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return timeentry.TimeEntry{}, timeentry.ErrTimeEntryNotFound
		}
		return timeentry.TimeEntry{}, fmt.Errorf("failed to get latest time entry: %w", err)
	}

	return entry, nil
}

// UpdateTimestamp implements timeentry.TimeEntryRepository.
func (r *timeEntryRepository) UpdateTimestamp(ctx context.Context, id string, companyID string, timestamp time.Time) error {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE time_entries
		SET timestamp = $1, updated_at = NOW()
		WHERE id = $2 AND company_id = $3
	`

	tag, err := q.Exec(ctx, query, timestamp, id, companyID)
	if err != nil {
		return fmt.Errorf("failed to update time entry timestamp: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return timeentry.ErrTimeEntryNotFound
	}

	return nil
}

// CompanyIDs implements timeentry.TimeEntryRepository.
func (r *timeEntryRepository) CompanyIDs(ctx context.Context, since time.Time) ([]string, error) {
	q := GetQuerier(ctx, r.db)

	rows, err := q.Query(ctx, `SELECT DISTINCT company_id FROM time_entries WHERE timestamp >= $1`, since)
	if err != nil {
		return nil, fmt.Errorf("failed to query company ids: %w", err)
	}
	defer rows.Close()

	var companyIDs []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan company id: %w", err)
		}
		companyIDs = append(companyIDs, id)
	}

	return companyIDs, rows.Err()
}
