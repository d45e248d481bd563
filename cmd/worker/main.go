package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/cmlabs-hris/hris-attendance-go/internal/config"
	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/auth"
	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/user"
	"github.com/cmlabs-hris/hris-attendance-go/internal/fixtures"
	"github.com/cmlabs-hris/hris-attendance-go/internal/pkg/cron"
	"github.com/cmlabs-hris/hris-attendance-go/internal/pkg/database"
	"github.com/cmlabs-hris/hris-attendance-go/internal/repository/postgresql"
	attendanceService "github.com/cmlabs-hris/hris-attendance-go/internal/service/attendance"
	holidayService "github.com/cmlabs-hris/hris-attendance-go/internal/service/holiday"
)

func main() {
	once := flag.Bool("once", false, "run every job once and exit")
	seedYear := flag.Int("seed-holidays", 0, "create the default company-wide holidays of this year and exit")
	flag.Parse()

	if err := run(*once, *seedYear); err != nil {
		slog.Error("Worker stopped", "error", err)
		os.Exit(1)
	}
}

func run(once bool, seedYear int) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: cfg.SlogLevel(),
	})).With(
		slog.String("app", "hris-attendance-worker"),
		slog.String("env", cfg.App.Env),
	))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := database.NewPostgreSQLDB(ctx, cfg.DatabaseURL(), database.PoolOptions{MaxConns: 4, MinConns: 1})
	if err != nil {
		return fmt.Errorf("connect to database: %w", err)
	}
	defer db.Close()

	if seedYear > 0 {
		holidaySvc := holidayService.NewHolidayService(postgresql.NewHolidayRepository(db), postgresql.NewTransactor(db), cfg.Database.StoreTimeout, nil)
		system := auth.Principal{UserID: "system", Role: user.RoleAdmin}
		n, err := fixtures.SeedHolidays(ctx, holidaySvc, system, seedYear)
		if err != nil {
			return err
		}
		slog.Info("Default holidays seeded", "year", seedYear, "created", n)
		return nil
	}

	attendanceRepo := postgresql.NewAttendanceRepository(db)
	userRepo := postgresql.NewUserRepository(db)

	// The worker has no status cache of its own to invalidate.
	approvalSvc := attendanceService.NewApprovalService(attendanceRepo, userRepo, nil, attendanceService.Options{
		StoreTimeout: cfg.Database.StoreTimeout,
	})

	scheduler := cron.NewScheduler(ctx)
	jobs := cron.NewAttendanceJobs(approvalSvc, cfg.Attendance.AutoApproveAfterDays, cfg.Attendance.AutoApproveInterval, time.Minute)
	if err := jobs.RegisterJobs(scheduler); err != nil {
		return err
	}

	if once {
		return scheduler.RunOnce(ctx)
	}

	scheduler.Start()
	<-ctx.Done()
	scheduler.Stop()
	return nil
}
