package telemetry

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"userapp/internal/core/port"
)

// OTELProbe implements the telemetry port on top of OpenTelemetry.
type OTELProbe struct {
	logger *slog.Logger
}

func NewOTELProbe(logger *slog.Logger) port.Telemetry {
	return &OTELProbe{logger: logger}
}

// otelSpan adapts a trace.Span to the generic port.Span.
type otelSpan struct {
	span trace.Span
}

func (s *otelSpan) End() {
	s.span.End()
}

func (s *otelSpan) SetAttributes(attrs map[string]interface{}) {
	s.span.SetAttributes(toOtelAttributes(attrs)...)
}

func (s *otelSpan) SetStatus(code string, message string) {
	switch code {
	case "error":
		s.span.SetStatus(codes.Error, message)
	case "ok":
		s.span.SetStatus(codes.Ok, message)
	default:
		s.span.SetStatus(codes.Unset, message)
	}
}

func (s *otelSpan) RecordError(err error) {
	s.span.RecordError(err)
}

func (p *OTELProbe) StartRepositorySpan(ctx context.Context, operation string, entity string, attrs map[string]interface{}) (context.Context, port.Span) {
	tracer := otel.Tracer("userapp")

	ctx, span := tracer.Start(ctx, fmt.Sprintf("repository.%s.%s", entity, operation),
		trace.WithAttributes(toOtelAttributes(attrs)...),
	)

	return ctx, &otelSpan{span: span}
}

func (p *OTELProbe) RecordRepositoryOperation(ctx context.Context, operation string, entity string, duration time.Duration, err error) {
	span := trace.SpanFromContext(ctx)

	span.SetAttributes(
		attribute.String("repository.operation", operation),
		attribute.String("repository.entity", entity),
		attribute.Int64("repository.duration_ns", duration.Nanoseconds()),
	)

	if err != nil {
		span.RecordError(err)
	}
}

func (p *OTELProbe) RecordRepositoryQuery(ctx context.Context, operation string, entity string, query string, args []interface{}) {
	span := trace.SpanFromContext(ctx)

	span.AddEvent("db.query", trace.WithAttributes(
		attribute.String("db.statement", query),
		attribute.Int("db.args_count", len(args)),
	))
}

func (p *OTELProbe) RecordBusinessEvent(ctx context.Context, event string, entity string, entityID int, metadata map[string]interface{}) {
	span := trace.SpanFromContext(ctx)

	attrs := []attribute.KeyValue{
		attribute.String("event.name", event),
		attribute.String("event.entity", entity),
		attribute.Int("event.entity_id", entityID),
	}
	attrs = append(attrs, toOtelAttributes(metadata)...)

	span.AddEvent(fmt.Sprintf("%s.%s", entity, event), trace.WithAttributes(attrs...))

	if p.logger != nil {
		p.logger.Info("business event", "event", event, "entity", entity, "entity_id", entityID)
	}
}

func toOtelAttributes(attrs map[string]interface{}) []attribute.KeyValue {
	var otelAttrs []attribute.KeyValue

	for key, value := range attrs {
		switch v := value.(type) {
		case string:
			otelAttrs = append(otelAttrs, attribute.String(key, v))
		case int:
			otelAttrs = append(otelAttrs, attribute.Int(key, v))
		case int64:
			otelAttrs = append(otelAttrs, attribute.Int64(key, v))
		case float64:
			otelAttrs = append(otelAttrs, attribute.Float64(key, v))
		case bool:
			otelAttrs = append(otelAttrs, attribute.Bool(key, v))
		default:
			otelAttrs = append(otelAttrs, attribute.String(key, fmt.Sprintf("%v", v)))
		}
	}

	return otelAttrs
}
