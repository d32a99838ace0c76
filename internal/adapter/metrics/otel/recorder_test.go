package otelmetrics

import (
	"context"
	"testing"

	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
)

func newTestRecorder(t *testing.T) (*Recorder, *sdkmetric.ManualReader) {
	t.Helper()
	reader := sdkmetric.NewManualReader()
	mp := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	t.Cleanup(func() { _ = mp.Shutdown(context.Background()) })

	r, err := NewRecorder(mp)
	if err != nil {
		t.Fatalf("NewRecorder: %v", err)
	}
	return r, reader
}

func findSum(t *testing.T, reader *sdkmetric.ManualReader, name string) metricdata.Sum[int64] {
	t.Helper()
	var rm metricdata.ResourceMetrics
	if err := reader.Collect(context.Background(), &rm); err != nil {
		t.Fatalf("Collect: %v", err)
	}
	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			if m.Name != name {
				continue
			}
			sum, ok := m.Data.(metricdata.Sum[int64])
			if !ok {
				t.Fatalf("%s is not an int64 sum", name)
			}
			return sum
		}
	}
	t.Fatalf("metric %s not found", name)
	return metricdata.Sum[int64]{}
}

func TestRecordAction_SplitsByActionAndStatus(t *testing.T) {
	r, reader := newTestRecorder(t)
	r.RecordAction("till", true)
	r.RecordAction("till", true)
	r.RecordAction("till", false)

	sum := findSum(t, reader, "homestead.farm.actions")
	counts := map[string]int64{}
	for _, dp := range sum.DataPoints {
		action, _ := dp.Attributes.Value("action")
		status, _ := dp.Attributes.Value("status")
		counts[action.AsString()+"/"+status.AsString()] = dp.Value
	}
	if counts["till/ok"] != 2 || counts["till/failed"] != 1 {
		t.Fatalf("unexpected counts: %v", counts)
	}
}

func TestRecordInventoryChange(t *testing.T) {
	r, reader := newTestRecorder(t)
	r.RecordInventoryChange()
	r.RecordInventoryChange()

	sum := findSum(t, reader, "homestead.inventory.changes")
	if len(sum.DataPoints) != 1 || sum.DataPoints[0].Value != 2 {
		t.Fatalf("unexpected data points: %+v", sum.DataPoints)
	}
}

func TestNewPrometheusProvider(t *testing.T) {
	mp, handler, shutdown, err := NewPrometheusProvider()
	if err != nil {
		t.Fatalf("NewPrometheusProvider: %v", err)
	}
	t.Cleanup(func() { _ = shutdown(context.Background()) })
	if mp == nil || handler == nil {
		t.Fatalf("expected provider and handler")
	}
	if _, err := NewRecorder(mp); err != nil {
		t.Fatalf("NewRecorder: %v", err)
	}
}
