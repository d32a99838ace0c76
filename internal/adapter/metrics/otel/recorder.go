// Package otelmetrics records farm and inventory activity through the
// OpenTelemetry metrics API. Use [NewPrometheusProvider] to expose the
// instruments on a scrape endpoint.
package otelmetrics

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const meterName = "homestead"

type Recorder struct {
	actions metric.Int64Counter
	changes metric.Int64Counter
}

func NewRecorder(mp metric.MeterProvider) (*Recorder, error) {
	m := mp.Meter(meterName)
	r := &Recorder{}
	var err error
	if r.actions, err = m.Int64Counter("homestead.farm.actions",
		metric.WithDescription("Farm interactions by action and outcome."),
		metric.WithUnit("{action}"),
	); err != nil {
		return nil, err
	}
	if r.changes, err = m.Int64Counter("homestead.inventory.changes",
		metric.WithDescription("Inventory mutations that emitted a change signal."),
		metric.WithUnit("{change}"),
	); err != nil {
		return nil, err
	}
	return r, nil
}

func (r *Recorder) RecordAction(action string, ok bool) {
	status := "ok"
	if !ok {
		status = "failed"
	}
	r.actions.Add(context.Background(), 1, metric.WithAttributes(
		attribute.String("action", action),
		attribute.String("status", status),
	))
}

func (r *Recorder) RecordInventoryChange() {
	r.changes.Add(context.Background(), 1)
}
