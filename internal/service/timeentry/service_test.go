package timeentry

import (
	"context"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/cmlabs-hris/timeclock-backend-go/internal/domain/employee"
	"github.com/cmlabs-hris/timeclock-backend-go/internal/domain/timeentry"
	"github.com/cmlabs-hris/timeclock-backend-go/internal/domain/user"
	"github.com/cmlabs-hris/timeclock-backend-go/internal/pkg/jwt"
	"github.com/cmlabs-hris/timeclock-backend-go/internal/pkg/sse"
	"github.com/cmlabs-hris/timeclock-backend-go/internal/pkg/validator"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

const testCompany = "company-1"

// memTimeEntryRepo is an in-memory timeentry.TimeEntryRepository
type memTimeEntryRepo struct {
	mu      sync.Mutex
	entries []timeentry.TimeEntry
}

func (r *memTimeEntryRepo) Create(_ context.Context, e timeentry.TimeEntry) (timeentry.TimeEntry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if e.ID == "" {
		e.ID = uuid.Must(uuid.NewV7()).String()
	}
	e.CreatedAt = time.Now()
	e.UpdatedAt = e.CreatedAt
	r.entries = append(r.entries, e)
	return e, nil
}

func (r *memTimeEntryRepo) GetByID(_ context.Context, id string, companyID string) (timeentry.TimeEntry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, e := range r.entries {
		if e.ID == id && e.CompanyID == companyID {
			return e, nil
		}
	}
	return timeentry.TimeEntry{}, timeentry.ErrTimeEntryNotFound
}

func (r *memTimeEntryRepo) ListByRange(_ context.Context, companyID string, from, to time.Time, employeeID string) ([]timeentry.TimeEntry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []timeentry.TimeEntry
	for _, e := range r.entries {
		if e.CompanyID != companyID || e.Timestamp.Before(from) || e.Timestamp.After(to) {
			continue
		}
		if employeeID != "" && e.EmployeeID != employeeID {
			continue
		}
		out = append(out, e)
	}
	return out, nil
}

func (r *memTimeEntryRepo) List(_ context.Context, filter timeentry.TimeEntryFilter, companyID string) ([]timeentry.TimeEntry, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var matched []timeentry.TimeEntry
	for _, e := range r.entries {
		if e.CompanyID != companyID {
			continue
		}
		if filter.EmployeeID != nil && e.EmployeeID != *filter.EmployeeID {
			continue
		}
		if filter.Type != nil && string(e.Type) != *filter.Type {
			continue
		}
		matched = append(matched, e)
	}
	sort.SliceStable(matched, func(i, j int) bool { return matched[i].Timestamp.After(matched[j].Timestamp) })

	start := (filter.Page - 1) * filter.Limit
	if start > len(matched) {
		start = len(matched)
	}
	end := min(start+filter.Limit, len(matched))
	return matched[start:end], int64(len(matched)), nil
}

func (r *memTimeEntryRepo) GetLatestByEmployee(_ context.Context, employeeID string, companyID string) (timeentry.TimeEntry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var latest *timeentry.TimeEntry
	for i, e := range r.entries {
		if e.EmployeeID != employeeID || e.CompanyID != companyID {
			continue
		}
		if latest == nil || !e.Timestamp.Before(latest.Timestamp) {
			latest = &r.entries[i]
		}
	}
	if latest == nil {
		return timeentry.TimeEntry{}, timeentry.ErrTimeEntryNotFound
	}
	return *latest, nil
}

func (r *memTimeEntryRepo) UpdateTimestamp(_ context.Context, id string, companyID string, ts time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i, e := range r.entries {
		if e.ID == id && e.CompanyID == companyID {
			r.entries[i].Timestamp = ts
			return nil
		}
	}
	return timeentry.ErrTimeEntryNotFound
}

func (r *memTimeEntryRepo) CompanyIDs(_ context.Context, _ time.Time) ([]string, error) {
	return []string{testCompany}, nil
}

type memEmployeeRepo struct {
	employees map[string]employee.Employee
}

func (r *memEmployeeRepo) GetByID(_ context.Context, id string, companyID string) (employee.Employee, error) {
	e, ok := r.employees[id]
	if !ok || e.CompanyID != companyID {
		return employee.Employee{}, employee.ErrEmployeeNotFound
	}
	return e, nil
}

func (r *memEmployeeRepo) UpdatePINHash(_ context.Context, id string, _ string, hash string) error {
	e := r.employees[id]
	e.PINHash = &hash
	r.employees[id] = e
	return nil
}

// pinChecker verifies PINs against the in-memory employee repo
type pinChecker struct {
	repo *memEmployeeRepo
}

func (p pinChecker) SetPIN(context.Context, employee.SetPINRequest) error { return nil }

func (p pinChecker) VerifyPIN(ctx context.Context, employeeID string, companyID string, pin string) (employee.Employee, error) {
	e, err := p.repo.GetByID(ctx, employeeID, companyID)
	if err != nil {
		return employee.Employee{}, err
	}
	if e.PINHash == nil {
		return employee.Employee{}, timeentry.ErrPINNotSet
	}
	if bcrypt.CompareHashAndPassword([]byte(*e.PINHash), []byte(pin)) != nil {
		return employee.Employee{}, timeentry.ErrInvalidPIN
	}
	return e, nil
}

type directTransactor struct{}

func (directTransactor) WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type fixture struct {
	svc     *TimeEntryServiceImpl
	entries *memTimeEntryRepo
	hub     *sse.Hub
	jwt     jwt.Service
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte("4821"), bcrypt.MinCost)
	require.NoError(t, err)
	pinHash := string(hash)

	employees := &memEmployeeRepo{employees: map[string]employee.Employee{
		"emp-1": {ID: "emp-1", CompanyID: testCompany, FullName: "Budi Santoso", EmploymentStatus: employee.EmploymentStatusActive, PINHash: &pinHash},
		"emp-2": {ID: "emp-2", CompanyID: testCompany, FullName: "Siti Aminah", EmploymentStatus: employee.EmploymentStatusInactive},
	}}
	entries := &memTimeEntryRepo{}
	hub := sse.NewHub()

	svc := NewTimeEntryService(entries, employees, pinChecker{repo: employees}, directTransactor{}, hub, time.UTC)
	return &fixture{svc: svc, entries: entries, hub: hub, jwt: jwt.NewJWTService("test-secret", "1h")}
}

func (f *fixture) ctx(t *testing.T, employeeID string, role user.Role) context.Context {
	t.Helper()
	ctx, err := f.jwt.NewContext(context.Background(), jwt.Claims{
		UserID:     "user-" + employeeID,
		CompanyID:  testCompany,
		EmployeeID: employeeID,
		Role:       role,
	})
	require.NoError(t, err)
	return ctx
}

func (f *fixture) seed(employeeID string, entryType timeentry.EntryType, ts time.Time) timeentry.TimeEntry {
	e, _ := f.entries.Create(context.Background(), timeentry.TimeEntry{
		CompanyID:    testCompany,
		EmployeeID:   employeeID,
		EmployeeName: "Budi Santoso",
		Type:         entryType,
		Timestamp:    ts,
		Method:       timeentry.MethodPIN,
	})
	return e
}

func strPtr(s string) *string { return &s }

func TestClockIn_WithPIN(t *testing.T) {
	f := newFixture(t)
	fixed := time.Date(2026, 10, 5, 8, 0, 0, 0, time.UTC)
	f.svc.now = func() time.Time { return fixed }

	events, cleanup := f.hub.Subscribe(testCompany)
	defer cleanup()

	resp, err := f.svc.ClockIn(f.ctx(t, "emp-1", user.RoleEmployee), timeentry.ClockRequest{Method: "pin", PIN: "4821"})
	require.NoError(t, err)

	assert.Equal(t, "CLOCK_IN", resp.Type)
	assert.Equal(t, "PIN", resp.Method)
	assert.Equal(t, "Budi Santoso", resp.EmployeeName)
	assert.Equal(t, "2026-10-05T08:00:00Z", resp.Timestamp)

	select {
	case ev := <-events:
		assert.Equal(t, sse.EventPunchRecorded, ev.Event)
	default:
		t.Fatal("expected punch event")
	}
}

func TestClockIn_WrongPIN(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.ClockIn(f.ctx(t, "emp-1", user.RoleEmployee), timeentry.ClockRequest{Method: "PIN", PIN: "0000"})
	assert.ErrorIs(t, err, timeentry.ErrInvalidPIN)
	assert.Empty(t, f.entries.entries)
}

func TestClockIn_FaceRequiresSnapshot(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.ClockIn(f.ctx(t, "emp-1", user.RoleEmployee), timeentry.ClockRequest{Method: "FACE"})
	var verrs validator.ValidationErrors
	require.ErrorAs(t, err, &verrs)
	assert.Equal(t, "snapshot_url", verrs[0].Field)
}

func TestClockIn_InactiveEmployee(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.ClockIn(f.ctx(t, "emp-2", user.RoleEmployee), timeentry.ClockRequest{Method: "RECOVERY"})
	assert.ErrorIs(t, err, employee.ErrEmployeeInactive)
}

func TestClockIn_RequiresEmployeeClaim(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.ClockIn(f.ctx(t, "", user.RoleOwner), timeentry.ClockRequest{Method: "RECOVERY"})
	assert.ErrorIs(t, err, user.ErrEmployeeIDRequired)
}

func TestDoubleClockInIsAccepted(t *testing.T) {
	f := newFixture(t)
	ctx := f.ctx(t, "emp-1", user.RoleEmployee)
	snapshot := "https://cdn.example.com/a.jpg"

	_, err := f.svc.ClockIn(ctx, timeentry.ClockRequest{Method: "FACE", SnapshotURL: &snapshot})
	require.NoError(t, err)
	_, err = f.svc.ClockIn(ctx, timeentry.ClockRequest{Method: "FACE", SnapshotURL: &snapshot})
	require.NoError(t, err)

	assert.Len(t, f.entries.entries, 2)
}

func TestGetClockStatus(t *testing.T) {
	f := newFixture(t)
	ctx := f.ctx(t, "emp-1", user.RoleEmployee)

	status, err := f.svc.GetClockStatus(ctx)
	require.NoError(t, err)
	assert.False(t, status.IsClockedIn)
	assert.True(t, status.CanClockIn)
	assert.Nil(t, status.LastPunch)

	f.seed("emp-1", timeentry.TypeClockIn, time.Date(2026, 10, 5, 8, 0, 0, 0, time.UTC))

	status, err = f.svc.GetClockStatus(ctx)
	require.NoError(t, err)
	assert.True(t, status.IsClockedIn)
	assert.True(t, status.CanClockOut)
	require.NotNil(t, status.LastPunch)
	assert.Equal(t, "Clocked in since 2026-10-05 08:00", status.Message)

	f.seed("emp-1", timeentry.TypeClockOut, time.Date(2026, 10, 5, 17, 0, 0, 0, time.UTC))

	status, err = f.svc.GetClockStatus(ctx)
	require.NoError(t, err)
	assert.False(t, status.IsClockedIn)
	assert.True(t, status.CanClockIn)
}

func TestListTimeEntries_EmployeeSeesOwnOnly(t *testing.T) {
	f := newFixture(t)
	base := time.Date(2026, 10, 5, 8, 0, 0, 0, time.UTC)
	f.seed("emp-1", timeentry.TypeClockIn, base)
	f.seed("emp-3", timeentry.TypeClockIn, base.Add(time.Minute))
	f.seed("emp-1", timeentry.TypeClockOut, base.Add(time.Hour))

	resp, err := f.svc.ListTimeEntries(f.ctx(t, "emp-1", user.RoleEmployee), timeentry.TimeEntryFilter{EmployeeID: strPtr("emp-3")})
	require.NoError(t, err)
	assert.Equal(t, int64(2), resp.TotalCount)
	assert.Equal(t, "1-2 of 2", resp.Showing)
	for _, e := range resp.TimeEntries {
		assert.Equal(t, "emp-1", e.EmployeeID)
	}

	resp, err = f.svc.ListTimeEntries(f.ctx(t, "mgr", user.RoleManager), timeentry.TimeEntryFilter{})
	require.NoError(t, err)
	assert.Equal(t, int64(3), resp.TotalCount)
	assert.Equal(t, 1, resp.TotalPages)
}

func TestListTimeEntries_Empty(t *testing.T) {
	f := newFixture(t)

	resp, err := f.svc.ListTimeEntries(f.ctx(t, "mgr", user.RoleManager), timeentry.TimeEntryFilter{})
	require.NoError(t, err)
	assert.Equal(t, "0 of 0", resp.Showing)
	assert.Empty(t, resp.TimeEntries)
}

func TestGetTimeEntry(t *testing.T) {
	f := newFixture(t)
	e := f.seed("emp-1", timeentry.TypeClockIn, time.Date(2026, 10, 5, 8, 0, 0, 0, time.UTC))

	got, err := f.svc.GetTimeEntry(f.ctx(t, "emp-1", user.RoleEmployee), e.ID)
	require.NoError(t, err)
	assert.Equal(t, e.ID, got.ID)

	_, err = f.svc.GetTimeEntry(f.ctx(t, "emp-9", user.RoleEmployee), e.ID)
	assert.ErrorIs(t, err, employee.ErrUnauthorized)

	_, err = f.svc.GetTimeEntry(f.ctx(t, "mgr", user.RoleManager), "not-a-uuid")
	assert.ErrorIs(t, err, timeentry.ErrTimeEntryNotFound)
}

func TestFixMissingPunch(t *testing.T) {
	f := newFixture(t)
	in := f.seed("emp-1", timeentry.TypeClockIn, time.Date(2026, 10, 5, 8, 0, 0, 0, time.UTC))
	ctx := f.ctx(t, "mgr", user.RoleManager)

	resp, err := f.svc.FixMissingPunch(ctx, timeentry.FixMissingPunchRequest{
		ClockInID:    in.ID,
		ClockOutTime: "2026-10-05T17:00:00+07:00",
	})
	require.NoError(t, err)
	assert.Equal(t, "CLOCK_OUT", resp.Type)
	assert.Equal(t, "ADMIN", resp.Method)
	assert.Equal(t, "emp-1", resp.EmployeeID)
	assert.Equal(t, "2026-10-05T10:00:00Z", resp.Timestamp)
	assert.Len(t, f.entries.entries, 2)
}

func TestFixMissingPunch_Rejections(t *testing.T) {
	f := newFixture(t)
	in := f.seed("emp-1", timeentry.TypeClockIn, time.Date(2026, 10, 5, 8, 0, 0, 0, time.UTC))
	out := f.seed("emp-1", timeentry.TypeClockOut, time.Date(2026, 10, 5, 17, 0, 0, 0, time.UTC))
	ctx := f.ctx(t, "mgr", user.RoleManager)

	_, err := f.svc.FixMissingPunch(ctx, timeentry.FixMissingPunchRequest{ClockInID: out.ID, ClockOutTime: "2026-10-05T18:00:00Z"})
	assert.ErrorIs(t, err, timeentry.ErrNotClockIn)

	_, err = f.svc.FixMissingPunch(ctx, timeentry.FixMissingPunchRequest{ClockInID: in.ID, ClockOutTime: "2026-10-05T07:59:00Z"})
	assert.ErrorIs(t, err, timeentry.ErrClockOutBeforeClockIn)

	_, err = f.svc.FixMissingPunch(ctx, timeentry.FixMissingPunchRequest{ClockInID: in.ID, ClockOutTime: "yesterday"})
	var verrs validator.ValidationErrors
	assert.ErrorAs(t, err, &verrs)
}

func TestEditShift(t *testing.T) {
	f := newFixture(t)
	in := f.seed("emp-1", timeentry.TypeClockIn, time.Date(2026, 10, 5, 8, 0, 0, 0, time.UTC))
	out := f.seed("emp-1", timeentry.TypeClockOut, time.Date(2026, 10, 5, 17, 0, 0, 0, time.UTC))
	ctx := f.ctx(t, "mgr", user.RoleManager)

	resp, err := f.svc.EditShift(ctx, timeentry.EditShiftRequest{
		ClockInID:    in.ID,
		ClockOutID:   &out.ID,
		ClockInTime:  strPtr("2026-10-05T07:30:00Z"),
		ClockOutTime: strPtr("2026-10-05T16:30:00Z"),
	})
	require.NoError(t, err)
	require.Len(t, resp, 2)
	assert.Equal(t, "2026-10-05T07:30:00Z", resp[0].Timestamp)
	assert.Equal(t, "2026-10-05T16:30:00Z", resp[1].Timestamp)

	stored, err := f.entries.GetByID(context.Background(), out.ID, testCompany)
	require.NoError(t, err)
	assert.True(t, stored.Timestamp.Equal(time.Date(2026, 10, 5, 16, 30, 0, 0, time.UTC)))
}

func TestEditShift_ClockInAfterClockOut(t *testing.T) {
	f := newFixture(t)
	in := f.seed("emp-1", timeentry.TypeClockIn, time.Date(2026, 10, 5, 8, 0, 0, 0, time.UTC))
	out := f.seed("emp-1", timeentry.TypeClockOut, time.Date(2026, 10, 5, 17, 0, 0, 0, time.UTC))
	ctx := f.ctx(t, "mgr", user.RoleManager)

	_, err := f.svc.EditShift(ctx, timeentry.EditShiftRequest{
		ClockInID:   in.ID,
		ClockOutID:  &out.ID,
		ClockInTime: strPtr("2026-10-05T18:00:00Z"),
	})
	assert.ErrorIs(t, err, timeentry.ErrClockOutBeforeClockIn)

	stored, _ := f.entries.GetByID(context.Background(), in.ID, testCompany)
	assert.True(t, stored.Timestamp.Equal(time.Date(2026, 10, 5, 8, 0, 0, 0, time.UTC)))
}

func TestEditShift_Mismatch(t *testing.T) {
	f := newFixture(t)
	in := f.seed("emp-1", timeentry.TypeClockIn, time.Date(2026, 10, 5, 8, 0, 0, 0, time.UTC))
	other := f.seed("emp-3", timeentry.TypeClockOut, time.Date(2026, 10, 5, 17, 0, 0, 0, time.UTC))
	ctx := f.ctx(t, "mgr", user.RoleManager)

	_, err := f.svc.EditShift(ctx, timeentry.EditShiftRequest{
		ClockInID:    in.ID,
		ClockOutID:   &other.ID,
		ClockOutTime: strPtr("2026-10-05T16:00:00Z"),
	})
	assert.ErrorIs(t, err, timeentry.ErrEntryEmployeeMismatch)

	_, err = f.svc.EditShift(ctx, timeentry.EditShiftRequest{
		ClockInID:    in.ID,
		ClockOutID:   &in.ID,
		ClockOutTime: strPtr("2026-10-05T16:00:00Z"),
	})
	assert.ErrorIs(t, err, timeentry.ErrNotClockOut)
}
