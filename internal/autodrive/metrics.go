package autodrive

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const instrumentationName = "github.com/OCAP2/autodrive/internal/autodrive"

type metrics struct {
	plans  metric.Int64Counter
	nodes  metric.Int64Histogram
	aborts metric.Int64Counter
}

// newMetrics registers the planner instruments on the global meter
// (no-op if not configured).
func newMetrics() (*metrics, error) {
	m := otel.Meter(instrumentationName)
	plans, err := m.Int64Counter("autodrive.plans",
		metric.WithDescription("Planning attempts by target speed and outcome"))
	if err != nil {
		return nil, fmt.Errorf("create plans counter: %w", err)
	}
	nodes, err := m.Int64Histogram("autodrive.plan.nodes",
		metric.WithDescription("Nodes expanded per planning attempt"))
	if err != nil {
		return nil, fmt.Errorf("create plan nodes histogram: %w", err)
	}
	aborts, err := m.Int64Counter("autodrive.aborts",
		metric.WithDescription("Aborted autodrive activities by failure"))
	if err != nil {
		return nil, fmt.Errorf("create aborts counter: %w", err)
	}
	return &metrics{plans: plans, nodes: nodes, aborts: aborts}, nil
}

func (m *metrics) recordPlan(speed, nodes int, success bool) {
	ctx := context.Background()
	m.plans.Add(ctx, 1, metric.WithAttributes(
		attribute.Int("speed", speed),
		attribute.Bool("success", success),
	))
	m.nodes.Record(ctx, int64(nodes))
}

func (m *metrics) recordAbort(f Failure) {
	m.aborts.Add(context.Background(), 1, metric.WithAttributes(attribute.String("failure", f.String())))
}
