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

	"github.com/cmlabs-hris/hris-attendance-go/internal/config"
	appHTTP "github.com/cmlabs-hris/hris-attendance-go/internal/handler/http"
	"github.com/cmlabs-hris/hris-attendance-go/internal/pkg/cron"
	"github.com/cmlabs-hris/hris-attendance-go/internal/pkg/database"
	"github.com/cmlabs-hris/hris-attendance-go/internal/pkg/idempotency"
	"github.com/cmlabs-hris/hris-attendance-go/internal/pkg/jwt"
	"github.com/cmlabs-hris/hris-attendance-go/internal/repository/postgresql"
	attendanceService "github.com/cmlabs-hris/hris-attendance-go/internal/service/attendance"
	holidayService "github.com/cmlabs-hris/hris-attendance-go/internal/service/holiday"
	reportService "github.com/cmlabs-hris/hris-attendance-go/internal/service/report"
	"github.com/go-chi/httplog/v3"
	"github.com/redis/go-redis/v9"
)

func main() {
	if err := run(); err != nil {
		slog.Error("Server stopped", "error", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	logFormat := httplog.SchemaECS.Concise(!cfg.IsProduction())
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level:       cfg.SlogLevel(),
		ReplaceAttr: logFormat.ReplaceAttr,
	})).With(
		slog.String("app", "hris-attendance"),
		slog.String("env", cfg.App.Env),
	)
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := database.NewPostgreSQLDB(ctx, cfg.DatabaseURL(), database.PoolOptions{
		MaxConns: cfg.Database.MaxConns,
		MinConns: cfg.Database.MinConns,
	})
	if err != nil {
		return fmt.Errorf("connect to database: %w", err)
	}
	defer db.Close()

	var idempotencyStore *idempotency.Store
	if cfg.Redis.Addr != "" {
		rdb := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		defer rdb.Close()
		if err := rdb.Ping(ctx).Err(); err != nil {
			return fmt.Errorf("connect to redis: %w", err)
		}
		idempotencyStore = idempotency.NewStore(rdb)
	} else {
		slog.Warn("REDIS_ADDR not set, Idempotency-Key headers are ignored")
	}

	attendanceRepo := postgresql.NewAttendanceRepository(db)
	userRepo := postgresql.NewUserRepository(db)
	teamRepo := postgresql.NewTeamRepository(db)
	holidayRepo := postgresql.NewHolidayRepository(db)
	transactor := postgresql.NewTransactor(db)

	JWTService := jwt.NewJWTService(cfg.JWT.Secret, cfg.JWT.AccessExpiration, cfg.JWT.AcceptableSkew)

	opts := attendanceService.Options{
		StoreTimeout:          cfg.Database.StoreTimeout,
		HalfDayHours:          cfg.Attendance.HalfDayHours,
		StatusRefreshInterval: cfg.Attendance.StatusRefreshInterval,
	}
	clockSvc := attendanceService.NewClockService(attendanceRepo, userRepo, holidayRepo, opts)
	approvalSvc := attendanceService.NewApprovalService(attendanceRepo, userRepo, clockSvc.Status(), opts)
	calendarSvc := attendanceService.NewCalendarService(attendanceRepo, userRepo, holidayRepo, opts)
	reportSvc := reportService.NewReportService(attendanceRepo, userRepo, teamRepo, holidayRepo, reportService.Options{
		StoreTimeout:  cfg.Database.StoreTimeout,
		CycleStartDay: cfg.Report.CycleStartDay,
	})
	holidaySvc := holidayService.NewHolidayService(holidayRepo, transactor, cfg.Database.StoreTimeout, nil)

	// The sweep runs in the worker; the API only needs the cutoff rule.
	attendanceJobs := cron.NewAttendanceJobs(approvalSvc, cfg.Attendance.AutoApproveAfterDays, cfg.Attendance.AutoApproveInterval, 0)

	router := appHTTP.NewRouter(JWTService.JWTAuth(), appHTTP.Handlers{
		Attendance: appHTTP.NewAttendanceHandler(clockSvc, approvalSvc, calendarSvc, reportSvc, attendanceJobs.Cutoff),
		Report:     appHTTP.NewReportHandler(reportSvc),
		Holiday:    appHTTP.NewHolidayHandler(holidaySvc),
	}, appHTTP.RouterConfig{
		Logger:             logger,
		AllowedOrigins:     cfg.App.CORSAllowedOrigins,
		ClockRatePerMinute: cfg.App.ClockRatePerMinute,
		Idempotency:        idempotencyStore,
	})

	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.App.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("Server running", "addr", server.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	slog.Info("Shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}
