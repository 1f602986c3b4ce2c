package http

import (
	"log/slog"

	"github.com/cmlabs-hris/timeclock-backend-go/internal/domain/user"
	"github.com/cmlabs-hris/timeclock-backend-go/internal/handler/http/middleware"
	"github.com/cmlabs-hris/timeclock-backend-go/internal/pkg/jwt"
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httplog/v3"
	"github.com/go-chi/jwtauth/v5"
)

type RouterConfig struct {
	AllowedOrigins []string
	Logger         *slog.Logger
	LogLevel       slog.Level
}

func NewRouter(
	cfg RouterConfig,
	JWTService jwt.Service,
	timeEntryHandler TimeEntryHandler,
	timesheetHandler TimesheetHandler,
	employeeHandler EmployeeHandler,
	eventHandler EventHandler,
) *chi.Mux {
	r := chi.NewRouter()

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowCredentials: true,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Link"},
		MaxAge:           300,
	}))

	r.Use(httplog.RequestLogger(logger, &httplog.Options{
		Level:  cfg.LogLevel,
		Schema: httplog.SchemaECS,
	}))

	r.Use(chiMiddleware.CleanPath)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Heartbeat("/"))

	r.Route("/api/v1", func(r chi.Router) {

		// EventSource authenticates with a query token
		r.Get("/events/stream", eventHandler.Stream)

		// Requires authentication
		r.Group(func(r chi.Router) {
			r.Use(jwtauth.Verifier(JWTService.JWTAuth()))
			r.Use(middleware.AuthRequired)
			r.Use(chiMiddleware.AllowContentType("application/json"))

			r.Get("/events/token", eventHandler.Token)

			r.Route("/clock", func(r chi.Router) {
				r.Use(middleware.RequireEmployee)
				r.Use(middleware.RequirePermission(user.PermissionClockPunch))
				r.Post("/in", timeEntryHandler.ClockIn)
				r.Post("/out", timeEntryHandler.ClockOut)
				r.Get("/status", timeEntryHandler.GetClockStatus)
			})

			r.Route("/time-entries", func(r chi.Router) {
				r.Get("/", timeEntryHandler.List)
				r.Get("/{id}", timeEntryHandler.Get)

				// Admin corrections
				r.Group(func(r chi.Router) {
					r.Use(middleware.RequirePermission(user.PermissionTimeEntryCorrect))
					r.Post("/fix-missing-punch", timeEntryHandler.FixMissingPunch)
					r.Put("/shift", timeEntryHandler.EditShift)
				})
			})

			r.Route("/timesheets", func(r chi.Router) {
				r.Get("/period", timesheetHandler.GetCurrentPeriod)
				r.Get("/employees/{employeeID}", timesheetHandler.GetEmployee)

				r.With(middleware.RequirePermission(user.PermissionTimesheetViewAll)).
					Get("/", timesheetHandler.Get)
			})

			r.With(middleware.RequirePermission(user.PermissionDashboardView)).
				Get("/dashboard", timesheetHandler.GetDashboard)

			r.With(middleware.RequirePermission(user.PermissionEmployeeManagePIN)).
				Put("/employees/{id}/pin", employeeHandler.SetPIN)
		})
	})
	return r
}
