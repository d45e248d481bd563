package middleware

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/cmlabs-hris/hris-attendance-go/internal/handler/http/response"
	"github.com/cmlabs-hris/hris-attendance-go/internal/pkg/idempotency"
)

const IdempotencyKeyHeader = "Idempotency-Key"

// Idempotency replays the stored response of a request retried with the same
// Idempotency-Key. Only 2xx responses are stored; failures release the key so
// the client may retry. A nil store turns the middleware into a pass-through.
func Idempotency(store *idempotency.Store) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if store == nil {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			idempKey := r.Header.Get(IdempotencyKeyHeader)
			principal, ok := PrincipalFrom(r.Context())
			if idempKey == "" || !ok {
				next.ServeHTTP(w, r)
				return
			}

			key := idempotency.Key(r.URL.Path, principal.UserID, idempKey)
			cached, err := store.Begin(r.Context(), key)
			switch {
			case errors.Is(err, idempotency.ErrInProgress):
				response.Conflict(w, err.Error())
				return
			case err != nil:
				// Redis trouble must not block clocking; fall back to a plain call.
				slog.Warn("Idempotency store unavailable", "error", err)
				next.ServeHTTP(w, r)
				return
			case cached != nil:
				w.Header().Set("Content-Type", cached.ContentType)
				w.Header().Set("Idempotent-Replayed", "true")
				w.WriteHeader(cached.Status)
				_, _ = w.Write(cached.Body)
				return
			}

			rec := &recorder{ResponseWriter: w, status: http.StatusOK}
			next.ServeHTTP(rec, r)

			// The request context may already be cancelled.
			ctx, cancel := context.WithTimeout(context.WithoutCancel(r.Context()), 2*time.Second)
			defer cancel()

			if rec.status >= 200 && rec.status < 300 {
				err = store.Complete(ctx, key, idempotency.Response{
					Status:      rec.status,
					ContentType: rec.Header().Get("Content-Type"),
					Body:        rec.body.Bytes(),
				})
			} else {
				err = store.Release(ctx, key)
			}
			if err != nil {
				slog.Warn("Failed to finish idempotent request", "key", key, "error", err)
			}
		})
	}
}

type recorder struct {
	http.ResponseWriter
	status int
	body   bytes.Buffer
}

func (r *recorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

func (r *recorder) Write(b []byte) (int, error) {
	r.body.Write(b)
	return r.ResponseWriter.Write(b)
}
