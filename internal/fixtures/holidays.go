package fixtures

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/auth"
	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/holiday"
	"github.com/cmlabs-hris/hris-attendance-go/internal/pkg/apperror"
)

func strPtr(s string) *string { return &s }

type fixedHoliday struct {
	month, day  int
	name        string
	description string
}

// Fixed-date observances. Moving holidays (Eid, Nyepi, Vesak) are entered by
// an admin every year.
var fixedHolidays = []fixedHoliday{
	{1, 1, "New Year's Day", "Tahun Baru Masehi"},
	{5, 1, "Labour Day", "Hari Buruh Internasional"},
	{6, 1, "Pancasila Day", "Hari Lahir Pancasila"},
	{8, 17, "Independence Day", "Hari Kemerdekaan Republik Indonesia"},
	{12, 25, "Christmas Day", "Hari Raya Natal"},
}

// DefaultHolidays returns the company-wide fixed-date holidays of year.
func DefaultHolidays(year int) []holiday.CreateHolidayRequest {
	out := make([]holiday.CreateHolidayRequest, 0, len(fixedHolidays))
	for _, h := range fixedHolidays {
		out = append(out, holiday.CreateHolidayRequest{
			Name:          h.name,
			Date:          fmt.Sprintf("%04d-%02d-%02d", year, h.month, h.day),
			IsCompanyWide: true,
			Description:   strPtr(h.description),
		})
	}
	return out
}

// SeedHolidays creates the default holidays of year through the holiday
// service. Dates that already carry a holiday are skipped, so seeding twice
// is harmless. It returns the number of holidays created.
func SeedHolidays(ctx context.Context, service holiday.HolidayService, admin auth.Principal, year int) (int, error) {
	created := 0
	for _, req := range DefaultHolidays(year) {
		_, err := service.Create(ctx, admin, req)
		switch {
		case err == nil:
			created++
		case errors.Is(err, apperror.ErrConflict):
			slog.Debug("Holiday already present, skipping", "date", req.Date, "name", req.Name)
		default:
			return created, fmt.Errorf("seed %s (%s): %w", req.Name, req.Date, err)
		}
	}
	return created, nil
}
