package holiday

import (
	"context"

	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/auth"
)

// HolidayService manages department-scoped non-working days.
type HolidayService interface {
	List(ctx context.Context, filter HolidayFilter) ([]HolidayResponse, error)
	Get(ctx context.Context, id string) (HolidayResponse, error)
	Create(ctx context.Context, principal auth.Principal, req CreateHolidayRequest) (HolidayResponse, error)
	Update(ctx context.Context, principal auth.Principal, req UpdateHolidayRequest) (HolidayResponse, error)
	Delete(ctx context.Context, principal auth.Principal, id string) error
}
