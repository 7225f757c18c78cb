package metrics

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

const scope = "github.com/mpapenbr/trackroll"

var (
	meter  = otel.Meter(scope)
	tracer = otel.Tracer(scope)

	rolls         metric.Int64Counter
	noMatches     metric.Int64Counter
	ticks         metric.Int64Counter
	outcomes      metric.Int64Counter
	droppedIntent metric.Int64Counter
)

//nolint:gochecknoinits // instruments are created once
func init() {
	// errors are only returned for invalid instrument names
	rolls, _ = meter.Int64Counter("trackroll.rolls",
		metric.WithDescription("Number of started rolls"),
		metric.WithUnit("{roll}"))
	noMatches, _ = meter.Int64Counter("trackroll.rolls.no_matches",
		metric.WithDescription("Number of roll attempts with an empty pool"),
		metric.WithUnit("{roll}"))
	ticks, _ = meter.Int64Counter("trackroll.ticks",
		metric.WithDescription("Number of reveal ticks"),
		metric.WithUnit("{tick}"))
	outcomes, _ = meter.Int64Counter("trackroll.outcomes",
		metric.WithDescription("Committed outcomes by season and weather"),
		metric.WithUnit("{outcome}"))
	droppedIntent, _ = meter.Int64Counter("trackroll.intents.dropped",
		metric.WithDescription("Intents dropped because the queue was full"),
		metric.WithUnit("{intent}"))
}

func RollStarted(ctx context.Context, poolSize int) {
	rolls.Add(ctx, 1, metric.WithAttributes(attribute.Int("pool", poolSize)))
}

func RollNoMatches(ctx context.Context) {
	noMatches.Add(ctx, 1)
}

func Tick(ctx context.Context) {
	ticks.Add(ctx, 1)
}

func Outcome(ctx context.Context, season, weather string) {
	outcomes.Add(ctx, 1, metric.WithAttributes(
		attribute.String("season", season),
		attribute.String("weather", weather)))
}

func IntentDropped(ctx context.Context, kind string) {
	droppedIntent.Add(ctx, 1, metric.WithAttributes(attribute.String("kind", kind)))
}

// StartSpan starts a span using the module tracer.
//
//nolint:whitespace // can't make both editor and linter happy
func StartSpan(
	ctx context.Context,
	name string,
	attrs ...attribute.KeyValue,
) (context.Context, trace.Span) {
	return tracer.Start(ctx, name, trace.WithAttributes(attrs...))
}
