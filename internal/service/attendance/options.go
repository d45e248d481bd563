package attendance

import (
	"context"
	"time"
)

const (
	DefaultStoreTimeout          = 5 * time.Second
	DefaultHalfDayHours          = 4.0
	DefaultStatusRefreshInterval = 30 * time.Second
)

// Options tunes the attendance services. Zero values fall back to the defaults.
type Options struct {
	StoreTimeout          time.Duration
	HalfDayHours          float64
	StatusRefreshInterval time.Duration

	// Now is the clock used for clock-in, clock-out and approvals.
	Now func() time.Time
}

func (o Options) withDefaults() Options {
	if o.StoreTimeout <= 0 {
		o.StoreTimeout = DefaultStoreTimeout
	}
	if o.HalfDayHours <= 0 {
		o.HalfDayHours = DefaultHalfDayHours
	}
	if o.StatusRefreshInterval <= 0 {
		o.StatusRefreshInterval = DefaultStatusRefreshInterval
	}
	if o.Now == nil {
		o.Now = time.Now
	}
	return o
}

// storeContext bounds a round of record store calls. Once it expires the
// caller reports the operation as failed but possibly applied.
func (o Options) storeContext(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, o.StoreTimeout)
}
