package response

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/cmlabs-hris/timeclock-backend-go/internal/domain/auth"
	"github.com/cmlabs-hris/timeclock-backend-go/internal/domain/timeentry"
	"github.com/cmlabs-hris/timeclock-backend-go/internal/domain/timesheet"
	"github.com/cmlabs-hris/timeclock-backend-go/internal/domain/user"
	"github.com/cmlabs-hris/timeclock-backend-go/internal/pkg/validator"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHandleError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		code int
		kind string
	}{
		{"validation", validator.ValidationErrors{{Field: "pin", Message: "required"}}, http.StatusUnprocessableEntity, "VALIDATION_ERROR"},
		{"expired token", auth.ErrTokenExpired, http.StatusUnauthorized, "UNAUTHORIZED"},
		{"wrapped permission", fmt.Errorf("%w: required 'timesheet:view_all'", user.ErrInsufficientPermissions), http.StatusForbidden, "FORBIDDEN"},
		{"employee account", user.ErrEmployeeIDRequired, http.StatusForbidden, "FORBIDDEN"},
		{"entry missing", timeentry.ErrTimeEntryNotFound, http.StatusNotFound, "NOT_FOUND"},
		{"unresolved period", timesheet.ErrPeriodUnresolved, http.StatusBadRequest, "BAD_REQUEST"},
		{"unknown", errors.New("boom"), http.StatusInternalServerError, "INTERNAL_SERVER_ERROR"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			HandleError(rec, tt.err)

			assert.Equal(t, tt.code, rec.Code)
			var body Response
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.False(t, body.Success)
			require.NotNil(t, body.Error)
			assert.Equal(t, tt.kind, body.Error.Code)
		})
	}
}

func TestSuccessWithMeta_WritesZeroTotals(t *testing.T) {
	rec := httptest.NewRecorder()
	SuccessWithMeta(rec, []string{}, &Meta{Page: 1, Limit: 20, Showing: "0 of 0"})

	assert.Equal(t, http.StatusOK, rec.Code)
	var raw map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &raw))

	var meta map[string]interface{}
	require.NoError(t, json.Unmarshal(raw["meta"], &meta))
	assert.Equal(t, float64(0), meta["total_items"])
	assert.Equal(t, float64(0), meta["total_pages"])
	assert.Equal(t, "0 of 0", meta["showing"])
}
