package core

import (
	"bytes"
	"context"
	"expvar"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"menagerie/pkg/domain"
)

type metricsCall struct {
	op      string
	success bool
}

type captureMetricsRecorder struct {
	calls []metricsCall
}

func (c *captureMetricsRecorder) Observe(_ context.Context, op string, success bool, _ time.Duration) {
	c.calls = append(c.calls, metricsCall{op: op, success: success})
}

func (c *captureMetricsRecorder) has(op string, success bool) bool {
	for _, call := range c.calls {
		if call.op == op && call.success == success {
			return true
		}
	}
	return false
}

type captureTracer struct {
	ended map[string][]error
}

func (c *captureTracer) Start(ctx context.Context, op string) (context.Context, TraceSpan) {
	return ctx, captureSpan{tracer: c, op: op}
}

type captureSpan struct {
	tracer *captureTracer
	op     string
}

func (s captureSpan) End(err error) {
	if s.tracer.ended == nil {
		s.tracer.ended = make(map[string][]error)
	}
	s.tracer.ended[s.op] = append(s.tracer.ended[s.op], err)
}

func TestStoreReportsOperations(t *testing.T) {
	metrics := &captureMetricsRecorder{}
	tracer := &captureTracer{}
	store, backend := openSeeded(t, WithMetricsRecorder(metrics), WithTracer(tracer), WithLogger(nil))
	ctx := context.Background()

	_, _ = store.List(ctx, domain.Filter{})
	_, _ = store.Get(ctx, "missing")
	_, _ = store.Append(ctx, fido())
	backend.failSave = true
	_, _ = store.Append(ctx, fido())

	for _, tc := range []struct {
		op      string
		success bool
	}{
		{OpLoad, true},
		{OpList, true},
		{OpGet, false},
		{OpAppend, true},
		{OpAppend, false},
	} {
		if !metrics.has(tc.op, tc.success) {
			t.Fatalf("expected metrics call %s success=%v, got %+v", tc.op, tc.success, metrics.calls)
		}
	}
	if spans := tracer.ended[OpAppend]; len(spans) != 2 || spans[0] != nil || spans[1] == nil {
		t.Fatalf("unexpected append spans %v", spans)
	}
}

func TestExpvarMetricsRecorderExports(t *testing.T) {
	recorder := NewExpvarMetricsRecorder("")
	if recorder.Name() == "" {
		t.Fatalf("expected recorder to have export name")
	}
	recorder.Observe(context.Background(), "test_op", true, 10*time.Millisecond)
	recorder.Observe(context.Background(), "test_op", false, 5*time.Millisecond)
	recorder.Observe(context.Background(), "", true, time.Millisecond)

	snapshot := recorder.Snapshot()
	if snapshot.DurationsMS["test_op"] <= 0 {
		t.Fatalf("expected positive duration, snapshot=%+v", snapshot)
	}
	if snapshot.Results["test_op"][statusSuccess] != 1 || snapshot.Results["test_op"][statusError] != 1 {
		t.Fatalf("unexpected results snapshot=%+v", snapshot)
	}
	if len(snapshot.Results) != 1 {
		t.Fatalf("empty operation must be ignored, snapshot=%+v", snapshot)
	}
	v := expvar.Get(recorder.Name())
	if v == nil || !strings.Contains(v.String(), "test_op") {
		t.Fatalf("expected expvar export containing operation")
	}
}

func TestJSONTraceTracerExports(t *testing.T) {
	var buf bytes.Buffer
	tracer := NewJSONTracer(&buf)
	_, span := tracer.Start(context.Background(), "trace_op")
	span.End(nil)
	_, span = tracer.Start(context.Background(), "trace_op")
	span.End(domain.ErrPersist)

	entries := tracer.Entries()
	if len(entries) != 2 {
		t.Fatalf("expected two span entries, got %d", len(entries))
	}
	if entries[0].Status != statusSuccess || entries[1].Status != statusError || entries[1].Error != domain.ErrPersist.Error() {
		t.Fatalf("unexpected span entries: %+v", entries)
	}
	if !strings.Contains(buf.String(), `"operation":"trace_op"`) {
		t.Fatalf("expected JSON output to contain operation: %q", buf.String())
	}

	silent := NewJSONTracer(nil)
	_, span = silent.Start(context.Background(), "quiet")
	span.End(nil)
	if len(silent.Entries()) != 1 {
		t.Fatalf("expected nil-writer tracer to retain entries")
	}
}

func TestPrometheusMetricsRecorder(t *testing.T) {
	reg := prometheus.NewRegistry()
	rec := NewPrometheusMetricsRecorder(reg)
	rec.Observe(context.Background(), OpAppend, true, 2*time.Millisecond)
	rec.Observe(context.Background(), OpAppend, false, time.Millisecond)
	rec.Observe(context.Background(), "", true, time.Millisecond)

	families, err := reg.Gather()
	if err != nil {
		t.Fatalf("Gather: %v", err)
	}
	var counted float64
	for _, mf := range families {
		if mf.GetName() != "menagerie_store_operations_total" {
			continue
		}
		for _, m := range mf.GetMetric() {
			counted += m.GetCounter().GetValue()
		}
	}
	if counted != 2 {
		t.Fatalf("expected 2 counted operations, got %v", counted)
	}
}

func TestMultiMetricsRecorderFansOut(t *testing.T) {
	a, b := &captureMetricsRecorder{}, &captureMetricsRecorder{}
	MultiMetricsRecorder{a, nil, b}.Observe(context.Background(), OpList, true, 0)
	if !a.has(OpList, true) || !b.has(OpList, true) {
		t.Fatalf("expected both recorders to observe")
	}
}
