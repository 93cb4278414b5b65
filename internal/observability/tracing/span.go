package tracing

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const instrumentation = "github.com/smallbiznis/billboards"

// Span attribute keys shared by the services. Customer names are never put
// on spans; only ids and lookup modes are.
const (
	AttrLookup     = attribute.Key("billboards.customer.lookup")
	AttrContracts  = attribute.Key("billboards.contracts")
	AttrEntries    = attribute.Key("billboards.ledger_entries")
	AttrImportKind = attribute.Key("billboards.import.kind")
	AttrImportID   = attribute.Key("billboards.import.id")
	AttrRows       = attribute.Key("billboards.import.rows")
)

// Start opens an internal span named "billboards.<name>".
func Start(ctx context.Context, name string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	return otel.Tracer(instrumentation).Start(ctx, "billboards."+name,
		trace.WithSpanKind(trace.SpanKindInternal),
		trace.WithAttributes(attrs...),
	)
}

// End records err, if any, and closes span. Only the error type is recorded
// so customer data in messages stays out of the trace backend.
func End(span trace.Span, err error) {
	if err != nil {
		span.RecordError(typeOnly(err))
		span.SetStatus(codes.Error, "failed")
	}
	span.End()
}

func typeOnly(err error) error {
	return fmt.Errorf("%T", err)
}
