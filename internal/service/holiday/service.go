package holiday

import (
	"context"
	"log/slog"
	"slices"
	"strings"
	"time"

	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/auth"
	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/holiday"
	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/user"
	"github.com/cmlabs-hris/hris-attendance-go/internal/pkg/apperror"
	"github.com/cmlabs-hris/hris-attendance-go/internal/pkg/database"
	"github.com/cmlabs-hris/hris-attendance-go/internal/pkg/dateutil"
	"github.com/google/uuid"
)

const defaultStoreTimeout = 5 * time.Second

type HolidayServiceImpl struct {
	holiday.HolidayRepository
	transactor   database.Transactor
	storeTimeout time.Duration
	now          func() time.Time
}

// NewHolidayService builds the holiday service. A nil transactor runs writes
// without a transaction, which is enough for a single process.
func NewHolidayService(holidayRepo holiday.HolidayRepository, transactor database.Transactor, storeTimeout time.Duration, now func() time.Time) holiday.HolidayService {
	if storeTimeout <= 0 {
		storeTimeout = defaultStoreTimeout
	}
	if now == nil {
		now = time.Now
	}
	return &HolidayServiceImpl{
		HolidayRepository: holidayRepo,
		transactor:        transactor,
		storeTimeout:      storeTimeout,
		now:               now,
	}
}

// List implements holiday.HolidayService. Without dates it lists the current
// year; with one date it lists the rest (or start) of that date's year.
func (s *HolidayServiceImpl) List(ctx context.Context, filter holiday.HolidayFilter) ([]holiday.HolidayResponse, error) {
	if err := filter.Validate(); err != nil {
		return nil, err
	}

	start, end := s.listRange(filter)
	if end.Before(start) {
		return []holiday.HolidayResponse{}, nil
	}

	ctx, cancel := context.WithTimeout(ctx, s.storeTimeout)
	defer cancel()

	holidays, err := s.HolidayRepository.ListBetween(ctx, start, end)
	if err != nil {
		return nil, apperror.Store("list holidays", err)
	}

	resp := make([]holiday.HolidayResponse, 0, len(holidays))
	for _, h := range holidays {
		if filter.DepartmentID != nil && *filter.DepartmentID != "" && !h.AppliesTo(*filter.DepartmentID) {
			continue
		}
		resp = append(resp, holiday.ToResponse(h))
	}
	return resp, nil
}

func (s *HolidayServiceImpl) listRange(filter holiday.HolidayFilter) (time.Time, time.Time) {
	var start, end time.Time
	if filter.StartDate != nil && *filter.StartDate != "" {
		start, _ = dateutil.Parse(*filter.StartDate)
	}
	if filter.EndDate != nil && *filter.EndDate != "" {
		end, _ = dateutil.Parse(*filter.EndDate)
	}

	switch {
	case start.IsZero() && end.IsZero():
		year := s.now().UTC().Year()
		start, end = dateutil.Day(year, time.January, 1), dateutil.Day(year, time.December, 31)
	case start.IsZero():
		start = dateutil.Day(end.Year(), time.January, 1)
	case end.IsZero():
		end = dateutil.Day(start.Year(), time.December, 31)
	}
	return start, end
}

// Get implements holiday.HolidayService.
func (s *HolidayServiceImpl) Get(ctx context.Context, id string) (holiday.HolidayResponse, error) {
	ctx, cancel := context.WithTimeout(ctx, s.storeTimeout)
	defer cancel()

	h, err := s.HolidayRepository.GetByID(ctx, id)
	if err != nil {
		return holiday.HolidayResponse{}, apperror.Store("get holiday", err)
	}
	return holiday.ToResponse(h), nil
}

// Create implements holiday.HolidayService.
func (s *HolidayServiceImpl) Create(ctx context.Context, principal auth.Principal, req holiday.CreateHolidayRequest) (holiday.HolidayResponse, error) {
	if !principal.Can(user.PermissionHolidayManage) {
		return holiday.HolidayResponse{}, user.ErrAdminPrivilegeRequired
	}
	if err := req.Validate(); err != nil {
		return holiday.HolidayResponse{}, err
	}

	date, _ := dateutil.Parse(req.Date)
	h := holiday.Holiday{
		ID:                    uuid.Must(uuid.NewV7()).String(),
		Name:                  strings.TrimSpace(req.Name),
		Date:                  date,
		IsCompanyWide:         req.IsCompanyWide,
		ApplicableDepartments: departments(req.IsCompanyWide, req.ApplicableDepartments),
		Description:           req.Description,
	}

	ctx, cancel := context.WithTimeout(ctx, s.storeTimeout)
	defer cancel()

	var created holiday.Holiday
	err := s.withinTransaction(ctx, func(ctx context.Context) error {
		if err := s.checkOverlap(ctx, h); err != nil {
			return err
		}
		var err error
		created, err = s.HolidayRepository.Create(ctx, h)
		return err
	})
	if err != nil {
		return holiday.HolidayResponse{}, apperror.Store("create holiday", err)
	}

	slog.Info("Holiday created", "holiday_id", created.ID, "date", dateutil.Format(created.Date), "created_by", principal.UserID)
	return holiday.ToResponse(created), nil
}

// Update implements holiday.HolidayService.
func (s *HolidayServiceImpl) Update(ctx context.Context, principal auth.Principal, req holiday.UpdateHolidayRequest) (holiday.HolidayResponse, error) {
	if !principal.Can(user.PermissionHolidayManage) {
		return holiday.HolidayResponse{}, user.ErrAdminPrivilegeRequired
	}
	if err := req.Validate(); err != nil {
		return holiday.HolidayResponse{}, err
	}

	ctx, cancel := context.WithTimeout(ctx, s.storeTimeout)
	defer cancel()

	existing, err := s.HolidayRepository.GetByID(ctx, req.ID)
	if err != nil {
		return holiday.HolidayResponse{}, apperror.Store("get holiday", err)
	}

	date, _ := dateutil.Parse(req.Date)
	existing.Name = strings.TrimSpace(req.Name)
	existing.Date = date
	existing.IsCompanyWide = req.IsCompanyWide
	existing.ApplicableDepartments = departments(req.IsCompanyWide, req.ApplicableDepartments)
	existing.Description = req.Description

	var updated holiday.Holiday
	err = s.withinTransaction(ctx, func(ctx context.Context) error {
		if err := s.checkOverlap(ctx, existing); err != nil {
			return err
		}
		var err error
		updated, err = s.HolidayRepository.Update(ctx, existing)
		return err
	})
	if err != nil {
		return holiday.HolidayResponse{}, apperror.Store("update holiday", err)
	}
	return holiday.ToResponse(updated), nil
}

// Delete implements holiday.HolidayService.
func (s *HolidayServiceImpl) Delete(ctx context.Context, principal auth.Principal, id string) error {
	if !principal.Can(user.PermissionHolidayManage) {
		return user.ErrAdminPrivilegeRequired
	}

	ctx, cancel := context.WithTimeout(ctx, s.storeTimeout)
	defer cancel()

	if err := s.HolidayRepository.Delete(ctx, id); err != nil {
		return apperror.Store("delete holiday", err)
	}

	slog.Info("Holiday deleted", "holiday_id", id, "deleted_by", principal.UserID)
	return nil
}

func (s *HolidayServiceImpl) withinTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	if s.transactor == nil {
		return fn(ctx)
	}
	return s.transactor.WithinTransaction(ctx, fn)
}

// checkOverlap rejects h when another entry on the same date targets an
// intersecting set of departments. Writers of the same date are serialized
// so two overlapping entries cannot both pass the check.
func (s *HolidayServiceImpl) checkOverlap(ctx context.Context, h holiday.Holiday) error {
	if err := s.HolidayRepository.LockDate(ctx, h.Date); err != nil {
		return apperror.Store("lock holiday date", err)
	}
	sameDay, err := s.HolidayRepository.ListByDate(ctx, h.Date)
	if err != nil {
		return apperror.Store("list holidays by date", err)
	}
	for _, other := range sameDay {
		if other.ID != h.ID && h.Overlaps(other) {
			return holiday.ErrHolidayOverlap
		}
	}
	return nil
}

func departments(companyWide bool, ids []string) []string {
	if companyWide {
		return []string{}
	}
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		id = strings.ToLower(id)
		if !slices.Contains(out, id) {
			out = append(out, id)
		}
	}
	return out
}
