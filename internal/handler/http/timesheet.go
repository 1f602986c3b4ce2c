package http

import (
	"net/http"
	"time"

	"github.com/cmlabs-hris/timeclock-backend-go/internal/domain/timesheet"
	"github.com/cmlabs-hris/timeclock-backend-go/internal/handler/http/response"
	"github.com/cmlabs-hris/timeclock-backend-go/internal/pkg/validator"
	"github.com/go-chi/chi/v5"
)

type TimesheetHandler interface {
	Get(w http.ResponseWriter, r *http.Request)
	GetEmployee(w http.ResponseWriter, r *http.Request)
	GetCurrentPeriod(w http.ResponseWriter, r *http.Request)
	GetDashboard(w http.ResponseWriter, r *http.Request)
}

type timesheetHandlerImpl struct {
	timesheetService timesheet.TimesheetService
}

func NewTimesheetHandler(timesheetService timesheet.TimesheetService) TimesheetHandler {
	return &timesheetHandlerImpl{
		timesheetService: timesheetService,
	}
}

func timesheetRequestFromQuery(r *http.Request) timesheet.TimesheetRequest {
	query := r.URL.Query()
	req := timesheet.TimesheetRequest{}

	if date := query.Get("date"); date != "" {
		req.Date = &date
	}
	if startDate := query.Get("start_date"); startDate != "" {
		req.StartDate = &startDate
	}
	if endDate := query.Get("end_date"); endDate != "" {
		req.EndDate = &endDate
	}

	return req
}

// Get implements TimesheetHandler.
func (h *timesheetHandlerImpl) Get(w http.ResponseWriter, r *http.Request) {
	result, err := h.timesheetService.GetTimesheet(r.Context(), timesheetRequestFromQuery(r))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// GetEmployee implements TimesheetHandler.
func (h *timesheetHandlerImpl) GetEmployee(w http.ResponseWriter, r *http.Request) {
	employeeID := chi.URLParam(r, "employeeID")

	result, err := h.timesheetService.GetEmployeeTimesheet(r.Context(), employeeID, timesheetRequestFromQuery(r))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// GetCurrentPeriod implements TimesheetHandler.
func (h *timesheetHandlerImpl) GetCurrentPeriod(w http.ResponseWriter, r *http.Request) {
	var ref time.Time
	if date := r.URL.Query().Get("date"); date != "" {
		parsed, valid := validator.IsValidDate(date)
		if !valid {
			response.ValidationError(w, map[string]string{"date": "date must be in YYYY-MM-DD format"})
			return
		}
		// noon UTC stays on the same calendar day in every UTC-12..+11 zone
		ref = parsed.Add(12 * time.Hour)
	}

	result, err := h.timesheetService.GetCurrentPeriod(r.Context(), ref)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// GetDashboard implements TimesheetHandler.
func (h *timesheetHandlerImpl) GetDashboard(w http.ResponseWriter, r *http.Request) {
	result, err := h.timesheetService.GetDashboard(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}
