package mongodb

import (
	"testing"
	"time"

	"github.com/cmlabs-hris/timeclock-backend-go/internal/domain/timeentry"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
)

func strPtr(s string) *string { return &s }

func TestBuildListFilter(t *testing.T) {
	filter := timeentry.TimeEntryFilter{
		EmployeeID: strPtr("emp-1"),
		Type:       strPtr("CLOCK_IN"),
		StartDate:  strPtr("2026-10-01"),
		EndDate:    strPtr("2026-10-15"),
	}

	query, err := buildListFilter(filter, "company-1")
	require.NoError(t, err)

	assert.Equal(t, "company-1", query["company_id"])
	assert.Equal(t, "emp-1", query["employee_id"])
	assert.Equal(t, "CLOCK_IN", query["type"])
	assert.NotContains(t, query, "method")

	ts, ok := query["timestamp"].(bson.M)
	require.True(t, ok)
	assert.Equal(t, time.Date(2026, 10, 1, 0, 0, 0, 0, time.UTC), ts["$gte"])
	assert.Equal(t, time.Date(2026, 10, 16, 0, 0, 0, 0, time.UTC), ts["$lt"])
}

func TestBuildListFilter_NoDates(t *testing.T) {
	query, err := buildListFilter(timeentry.TimeEntryFilter{}, "company-1")
	require.NoError(t, err)
	assert.Equal(t, bson.M{"company_id": "company-1"}, query)
}

func TestBuildListFilter_InvalidDate(t *testing.T) {
	_, err := buildListFilter(timeentry.TimeEntryFilter{StartDate: strPtr("01/10/2026")}, "company-1")
	assert.Error(t, err)
}

func TestChronologicalSort(t *testing.T) {
	keys := make([]string, 0, len(chronologicalSort))
	for _, e := range chronologicalSort {
		keys = append(keys, e.Key)
		assert.Equal(t, 1, e.Value)
	}
	assert.Equal(t, []string{"timestamp", "created_at", "_id"}, keys)
}

func TestTimeEntryDocument_RoundTrip(t *testing.T) {
	wib := time.FixedZone("WIB", 7*3600)
	entry := timeentry.TimeEntry{
		ID:           "entry-1",
		CompanyID:    "company-1",
		EmployeeID:   "emp-1",
		EmployeeName: "Budi",
		Type:         timeentry.TypeClockOut,
		Timestamp:    time.Date(2026, 10, 5, 17, 0, 0, 0, wib),
		Method:       timeentry.MethodAdmin,
	}

	doc := toTimeEntryDocument(entry)
	assert.Equal(t, time.UTC, doc.Timestamp.Location())

	got := doc.toEntity()
	assert.True(t, got.Timestamp.Equal(entry.Timestamp))
	assert.Equal(t, entry.Type, got.Type)
	assert.Equal(t, entry.Method, got.Method)
	assert.Nil(t, got.SnapshotURL)
}
