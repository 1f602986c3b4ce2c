package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/cmlabs-hris/timeclock-backend-go/internal/config"
	"github.com/cmlabs-hris/timeclock-backend-go/internal/domain/employee"
	"github.com/cmlabs-hris/timeclock-backend-go/internal/domain/timeentry"
	appHTTP "github.com/cmlabs-hris/timeclock-backend-go/internal/handler/http"
	"github.com/cmlabs-hris/timeclock-backend-go/internal/pkg/cron"
	"github.com/cmlabs-hris/timeclock-backend-go/internal/pkg/database"
	"github.com/cmlabs-hris/timeclock-backend-go/internal/pkg/jwt"
	"github.com/cmlabs-hris/timeclock-backend-go/internal/pkg/period"
	"github.com/cmlabs-hris/timeclock-backend-go/internal/pkg/sse"
	"github.com/cmlabs-hris/timeclock-backend-go/internal/repository/mongodb"
	"github.com/cmlabs-hris/timeclock-backend-go/internal/repository/postgresql"
	employeeService "github.com/cmlabs-hris/timeclock-backend-go/internal/service/employee"
	timeEntryService "github.com/cmlabs-hris/timeclock-backend-go/internal/service/timeentry"
	timesheetService "github.com/cmlabs-hris/timeclock-backend-go/internal/service/timesheet"
	"github.com/go-chi/httplog/v3"
)

type stores struct {
	timeEntryRepo timeentry.TimeEntryRepository
	employeeRepo  employee.EmployeeRepository
	transactor    timeentry.Transactor
	close         func(ctx context.Context)
}

func openStores(ctx context.Context, cfg *config.Config) (stores, error) {
	switch cfg.Storage.Driver {
	case config.StorageDriverMongo:
		db, err := database.NewMongoDB(ctx, cfg.Mongo.URI, cfg.Mongo.Database)
		if err != nil {
			return stores{}, err
		}
		if err := mongodb.EnsureTimeEntryIndexes(ctx, db); err != nil {
			_ = db.Close(ctx)
			return stores{}, err
		}
		return stores{
			timeEntryRepo: mongodb.NewTimeEntryRepository(db),
			employeeRepo:  mongodb.NewEmployeeRepository(db),
			transactor:    mongodb.NewTransactor(),
			close: func(ctx context.Context) {
				if err := db.Close(ctx); err != nil {
					slog.Error("Failed to disconnect MongoDB", "error", err)
				}
			},
		}, nil
	default:
		db, err := database.NewPostgreSQLDB(ctx, cfg.DatabaseURL())
		if err != nil {
			return stores{}, err
		}
		return stores{
			timeEntryRepo: postgresql.NewTimeEntryRepository(db),
			employeeRepo:  postgresql.NewEmployeeRepository(db),
			transactor:    postgresql.NewTransactor(db),
			close:         func(context.Context) { db.Close() },
		}, nil
	}
}

func newLogger(cfg *config.Config) (*slog.Logger, slog.Level) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(cfg.App.LogLevel)); err != nil {
		level = slog.LevelInfo
	}

	logFormat := httplog.SchemaECS.Concise(cfg.App.Env != "development")
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level:       level,
		ReplaceAttr: logFormat.ReplaceAttr,
	})).With(
		slog.String("app", "timeclock"),
		slog.String("version", "v1.0.0"),
		slog.String("env", cfg.App.Env),
	)
	return logger, level
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Println("Error loading config:", err)
		os.Exit(1)
	}

	logger, level := newLogger(cfg)
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	st, err := openStores(ctx, cfg)
	if err != nil {
		slog.Error("Error connecting to storage", "driver", cfg.Storage.Driver, "error", err)
		os.Exit(1)
	}

	policy, err := period.FromConfig(cfg.Payroll.PeriodRule, cfg.Payroll.PeriodAnchor)
	if err != nil {
		slog.Error("Invalid pay period rule", "error", err)
		os.Exit(1)
	}

	JWTService := jwt.NewJWTService(cfg.JWT.Secret, cfg.JWT.AccessExpiration)
	hub := sse.NewHub()

	employeeSvc := employeeService.NewEmployeeService(st.employeeRepo)
	timeEntrySvc := timeEntryService.NewTimeEntryService(
		st.timeEntryRepo,
		st.employeeRepo,
		employeeSvc,
		st.transactor,
		hub,
		cfg.App.Location,
	)
	timesheetSvc := timesheetService.NewTimesheetService(
		st.timeEntryRepo,
		policy,
		cfg.App.Location,
		cfg.Payroll.HourlyRate,
	)

	scheduler := cron.NewScheduler()
	cron.NewMissingPunchJobs(timesheetSvc, st.timeEntryRepo, hub, cfg.Cron.DigestInterval).RegisterJobs(scheduler)
	scheduler.Start(ctx)

	router := appHTTP.NewRouter(
		appHTTP.RouterConfig{
			AllowedOrigins: cfg.App.AllowedOrigins,
			Logger:         logger,
			LogLevel:       level,
		},
		JWTService,
		appHTTP.NewTimeEntryHandler(timeEntrySvc),
		appHTTP.NewTimesheetHandler(timesheetSvc),
		appHTTP.NewEmployeeHandler(employeeSvc),
		appHTTP.NewEventHandler(hub, JWTService),
	)

	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.App.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		slog.Info("Server running", "addr", server.Addr, "storage", cfg.Storage.Driver, "timezone", cfg.App.Timezone)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("Server error", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	slog.Info("Shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		slog.Error("Server shutdown failed", "error", err)
	}
	scheduler.Stop()
	st.close(shutdownCtx)
}
