// Package correlation carries the identifiers that tie log lines, spans and
// ledger reads back to a single request, import or customer.
package correlation

import (
	"context"
	"strings"

	"github.com/oklog/ulid/v2"
	"go.uber.org/zap"
)

type key uint8

const (
	correlationKey key = iota
	requestKey
	customerKey
)

// ExtractCorrelationID returns the import/batch correlation id, if any.
func ExtractCorrelationID(ctx context.Context) string {
	return value(ctx, correlationKey)
}

// ContextWithCorrelationID stores id on ctx. Empty ids leave ctx untouched.
func ContextWithCorrelationID(ctx context.Context, id string) context.Context {
	return with(ctx, correlationKey, id)
}

// EnsureCorrelationID reuses the id already on ctx or mints a new ULID.
func EnsureCorrelationID(ctx context.Context) (context.Context, string) {
	if cid := ExtractCorrelationID(ctx); cid != "" {
		return ctx, cid
	}
	cid := ulid.Make().String()
	return ContextWithCorrelationID(ctx, cid), cid
}

func WithRequestID(ctx context.Context, id string) context.Context {
	return with(ctx, requestKey, id)
}

func RequestID(ctx context.Context) string {
	return value(ctx, requestKey)
}

// WithCustomer tags ctx with the customer reference (id or name) being
// reconciled.
func WithCustomer(ctx context.Context, ref string) context.Context {
	return with(ctx, customerKey, ref)
}

func Customer(ctx context.Context) string {
	return value(ctx, customerKey)
}

// Fields returns the identifiers present on ctx as log fields. request_id is
// always emitted so request logs stay greppable.
func Fields(ctx context.Context) []zap.Field {
	fields := []zap.Field{zap.String("request_id", RequestID(ctx))}
	if customer := Customer(ctx); customer != "" {
		fields = append(fields, zap.String("customer", customer))
	}
	if cid := ExtractCorrelationID(ctx); cid != "" {
		fields = append(fields, zap.String("correlation_id", cid))
	}
	return fields
}

func with(ctx context.Context, k key, v string) context.Context {
	v = strings.TrimSpace(v)
	if ctx == nil || v == "" {
		return ctx
	}
	return context.WithValue(ctx, k, v)
}

func value(ctx context.Context, k key) string {
	if ctx == nil {
		return ""
	}
	v, _ := ctx.Value(k).(string)
	return v
}
