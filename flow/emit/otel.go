package emit

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// OTelEmitter implements Emitter by recording each event as an
// OpenTelemetry span.
//
// Each span carries:
//   - Name: event.Msg (e.g. "node status", "run completed")
//   - Attributes: run_id, workflow_id, node_id, status, plus Meta fields
//   - Status: Error when the event reports a failure
//
// Spans are ended immediately; an event represents a point in time, not
// a duration. When the event Meta carries "duration_ms", it is attached
// as an attribute rather than stretching the span.
//
// Usage:
//
//	tracer := otel.Tracer("flowdag")
//	emitter := emit.NewOTelEmitter(tracer)
type OTelEmitter struct {
	tracer trace.Tracer
}

// NewOTelEmitter creates an OTelEmitter over the given tracer.
func NewOTelEmitter(tracer trace.Tracer) *OTelEmitter {
	return &OTelEmitter{tracer: tracer}
}

// Emit records the event as a span.
func (o *OTelEmitter) Emit(event Event) {
	_, span := o.tracer.Start(context.Background(), event.Msg)
	defer span.End()

	span.SetAttributes(
		attribute.String("flowdag.run_id", event.RunID),
		attribute.String("flowdag.workflow_id", event.WorkflowID),
		attribute.String("flowdag.node_id", event.NodeID),
		attribute.String("flowdag.status", event.Status),
	)
	for key, value := range event.Meta {
		span.SetAttributes(metaAttribute("flowdag.meta."+key, value))
	}

	if event.Error != "" {
		span.SetStatus(codes.Error, event.Error)
		span.RecordError(fmt.Errorf("%s", event.Error))
	}
}

// Flush forces export of pending spans. Call before shutdown so the
// batch span processor delivers buffered spans to the backend.
func (o *OTelEmitter) Flush(ctx context.Context) error {
	type flusher interface {
		ForceFlush(context.Context) error
	}
	if f, ok := otel.GetTracerProvider().(flusher); ok {
		return f.ForceFlush(ctx)
	}
	return nil
}

// metaAttribute converts a Meta value to a span attribute, falling back
// to a string rendering for uncommon types.
func metaAttribute(key string, value any) attribute.KeyValue {
	switch v := value.(type) {
	case string:
		return attribute.String(key, v)
	case int:
		return attribute.Int(key, v)
	case int64:
		return attribute.Int64(key, v)
	case float64:
		return attribute.Float64(key, v)
	case bool:
		return attribute.Bool(key, v)
	case time.Duration:
		return attribute.Int64(key, v.Milliseconds())
	default:
		return attribute.String(key, fmt.Sprintf("%v", v))
	}
}
