package http

import (
	"log/slog"
	"time"

	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/user"
	"github.com/cmlabs-hris/hris-attendance-go/internal/handler/http/middleware"
	"github.com/cmlabs-hris/hris-attendance-go/internal/pkg/idempotency"
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httplog/v3"
	"github.com/go-chi/jwtauth/v5"
)

type RouterConfig struct {
	Logger             *slog.Logger
	AllowedOrigins     []string
	ClockRatePerMinute int
	RequestTimeout     time.Duration
	// Idempotency may be nil, which disables Idempotency-Key handling.
	Idempotency *idempotency.Store
}

type Handlers struct {
	Attendance AttendanceHandler
	Report     ReportHandler
	Holiday    HolidayHandler
}

func NewRouter(tokenAuth *jwtauth.JWTAuth, handlers Handlers, cfg RouterConfig) *chi.Mux {
	r := chi.NewRouter()

	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	if cfg.RequestTimeout <= 0 {
		cfg.RequestTimeout = 30 * time.Second
	}
	if cfg.ClockRatePerMinute <= 0 {
		cfg.ClockRatePerMinute = 10
	}

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowCredentials: true,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", middleware.IdempotencyKeyHeader},
		ExposedHeaders:   []string{"Content-Disposition", "Idempotent-Replayed"},
		MaxAge:           300,
	}))

	r.Use(httplog.RequestLogger(cfg.Logger, &httplog.Options{
		Level:  slog.LevelInfo,
		Schema: httplog.SchemaECS,
	}))

	r.Use(chiMiddleware.CleanPath)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Heartbeat("/health"))
	r.Use(chiMiddleware.Timeout(cfg.RequestTimeout))

	clockLimiter := middleware.NewUserRateLimiter(cfg.ClockRatePerMinute)
	idempotent := middleware.Idempotency(cfg.Idempotency)

	r.Route("/api/v1", func(r chi.Router) {
		// Requires authentication
		r.Group(func(r chi.Router) {
			r.Use(jwtauth.Verifier(tokenAuth))
			r.Use(middleware.AuthRequired)

			r.Route("/attendance", func(r chi.Router) {
				r.Group(func(r chi.Router) {
					r.Use(middleware.RequirePermission(user.PermissionAttendanceClock))
					r.Use(clockLimiter.Limit)
					r.Post("/clock-in", handlers.Attendance.ClockIn)
					r.With(idempotent).Post("/clock-out", handlers.Attendance.ClockOut)
				})

				r.Get("/current-status", handlers.Attendance.CurrentStatus)
				r.Get("/monthly", handlers.Attendance.Monthly)
				r.Get("/history", handlers.Attendance.History)

				r.With(middleware.RequirePermission(user.PermissionAttendanceViewTeam)).Get("/team", handlers.Attendance.Team)
				r.With(middleware.RequirePermission(user.PermissionAttendanceViewAll)).Get("/all", handlers.Attendance.All)

				r.With(middleware.RequirePermission(user.PermissionAttendanceApprove), idempotent).
					Put("/approve", handlers.Attendance.Approve)
				r.With(middleware.RequirePermission(user.PermissionAttendanceSweep)).
					Post("/auto-approve", handlers.Attendance.AutoApprove)

				r.Route("/reports", func(r chi.Router) {
					r.Use(middleware.RequirePermission(user.PermissionReportsView))
					r.Get("/", handlers.Report.Reports)
					r.Get("/export", handlers.Report.Export)
				})
			})

			r.Route("/holidays", func(r chi.Router) {
				r.Use(middleware.RequirePermission(user.PermissionHolidayView))
				r.Get("/", handlers.Holiday.List)
				r.Get("/{id}", handlers.Holiday.Get)

				// Admin only
				r.Group(func(r chi.Router) {
					r.Use(middleware.RequirePermission(user.PermissionHolidayManage))
					r.Post("/", handlers.Holiday.Create)
					r.Put("/{id}", handlers.Holiday.Update)
					r.Delete("/{id}", handlers.Holiday.Delete)
				})
			})
		})
	})
	return r
}
