package holiday

import (
	"context"
	"time"
)

type HolidayRepository interface {
	Create(ctx context.Context, h Holiday) (Holiday, error)
	GetByID(ctx context.Context, id string) (Holiday, error)
	Update(ctx context.Context, h Holiday) (Holiday, error)
	Delete(ctx context.Context, id string) error

	// ListBetween returns holidays dated within [start, end], ordered by date.
	ListBetween(ctx context.Context, start, end time.Time) ([]Holiday, error)

	// ListByDate returns every entry on date, used for overlap checks.
	ListByDate(ctx context.Context, date time.Time) ([]Holiday, error)

	// LockDate serializes writers of one date until the surrounding
	// transaction ends. Outside a transaction it is a no-op.
	LockDate(ctx context.Context, date time.Time) error
}
