package obs

import (
	"context"
	"time"
)

type ctxKey string

const RequestIDKey ctxKey = "req_id"

// WithRequestID returns a copy of ctx carrying the request id used by Time.
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, RequestIDKey, id)
}

func RequestID(ctx context.Context) string {
	id, _ := ctx.Value(RequestIDKey).(string)
	return id
}

// Time logs the duration of an operation. Use as
//
//	defer obs.Time(ctx, "op.name")(&err)
func Time(ctx context.Context, name string) func(errp *error) {
	start := time.Now()
	reqID := RequestID(ctx)

	return func(errp *error) {
		dur := time.Since(start)

		if errp != nil && *errp != nil {
			L().Warn("op_failed", "req_id", reqID, "op", name, "dur_ms", dur.Milliseconds(), "err", *errp)
			return
		}
		L().Debug("op_done", "req_id", reqID, "op", name, "dur_ms", dur.Milliseconds())
	}
}
