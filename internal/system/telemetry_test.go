package system

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"go.uber.org/zap"

	"github.com/hullsim/powergrid/internal/core/event"
	"github.com/hullsim/powergrid/internal/electrical"
	"github.com/hullsim/powergrid/internal/observability"
	"github.com/hullsim/powergrid/internal/persist"
)

type fakeWriter struct {
	batches [][]persist.EventRecord
	cutoffs []time.Time
	err     error
}

func (w *fakeWriter) WriteEvents(_ context.Context, events []persist.EventRecord) error {
	if w.err != nil {
		return w.err
	}
	w.batches = append(w.batches, append([]persist.EventRecord(nil), events...))
	return nil
}

func (w *fakeWriter) DeleteBefore(_ context.Context, cutoff time.Time) (int64, error) {
	w.cutoffs = append(w.cutoffs, cutoff)
	return 0, nil
}

func newCollector(t *testing.T) *observability.ElectricalCollector {
	t.Helper()
	c, err := observability.NewElectricalCollector(prometheus.NewRegistry())
	if err != nil {
		t.Fatalf("NewElectricalCollector: %v", err)
	}
	return c
}

func deliver(bus *event.Bus) {
	bus.SwapBuffers()
	bus.DispatchAll()
}

func TestTelemetryFlushesEveryNSteps(t *testing.T) {
	bus := event.NewBus()
	clock := NewClock(1, nil)
	clock.Advance()
	w := &fakeWriter{}
	metrics := newCollector(t)
	s := NewTelemetrySystem(bus, clock, w, metrics, zap.NewNop(), TelemetryOptions{ShipID: 3, FlushEvery: 2, BufferSize: 16})

	event.Emit(bus, event.SwitchToggled{ID: electrical.ElementID{Ship: 3, Element: 5}, State: electrical.On})
	event.Emit(bus, event.LightFlicker{Duration: electrical.FlickerLong, IsUnderwater: true, Count: 1})
	deliver(bus)

	s.Update(0)
	if len(w.batches) != 0 {
		t.Fatalf("batches after one step = %d, want 0", len(w.batches))
	}
	s.Update(0)
	if len(w.batches) != 1 || len(w.batches[0]) != 2 {
		t.Fatalf("batches = %v, want one batch of two", w.batches)
	}

	rec := w.batches[0][0]
	if rec.Kind != "switch_toggled" || rec.State != "on" || rec.ShipID != 3 || rec.Generation != 1 || rec.SimTime != 1 {
		t.Fatalf("record = %+v", rec)
	}
	if rec.Element == nil || *rec.Element != 5 {
		t.Fatalf("record element = %v, want 5", rec.Element)
	}
	if flicker := w.batches[0][1]; flicker.Element != nil || flicker.Kind != "light_flicker" {
		t.Fatalf("flicker record = %+v", flicker)
	}
	if s.Pending() != 0 {
		t.Fatalf("Pending() = %d, want 0", s.Pending())
	}
	if got := testutil.ToFloat64(metrics.Notifications.WithLabelValues("switch_toggled")); got != 1 {
		t.Fatalf("switch_toggled notifications = %v, want 1", got)
	}
}

func TestTelemetryKeepsNewestWhileWriterFails(t *testing.T) {
	bus := event.NewBus()
	w := &fakeWriter{err: errors.New("db down")}
	metrics := newCollector(t)
	s := NewTelemetrySystem(bus, NewClock(1, nil), w, metrics, zap.NewNop(), TelemetryOptions{FlushEvery: 100, BufferSize: 2})

	for i := range 3 {
		event.Emit(bus, event.SwitchEnabled{ID: electrical.ElementID{Element: electrical.ElementIndex(i)}, Enabled: true})
	}
	deliver(bus)

	if s.Pending() != 2 {
		t.Fatalf("Pending() = %d, want 2", s.Pending())
	}

	s.Update(0) // buffer full, flush despite FlushEvery
	if got := testutil.ToFloat64(metrics.TelemetryFlushErrors); got != 1 {
		t.Fatalf("flush errors = %v, want 1", got)
	}

	w.err = nil
	s.Flush()
	if len(w.batches) != 1 {
		t.Fatalf("batches = %d, want 1", len(w.batches))
	}
	if got := *w.batches[0][0].Element; got != 1 {
		t.Fatalf("oldest kept element = %d, want 1", got)
	}
}

func TestTelemetryPrunesOncePerInterval(t *testing.T) {
	bus := event.NewBus()
	w := &fakeWriter{}
	s := NewTelemetrySystem(bus, NewClock(1, nil), w, nil, zap.NewNop(), TelemetryOptions{FlushEvery: 1, Retention: time.Hour})
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	s.now = func() time.Time { return now }

	s.Update(0)
	s.Update(0)
	now = now.Add(pruneInterval)
	s.Update(0)

	if len(w.cutoffs) != 2 {
		t.Fatalf("prunes = %d, want 2", len(w.cutoffs))
	}
	if want := now.Add(-time.Hour); !w.cutoffs[1].Equal(want) {
		t.Fatalf("cutoff = %v, want %v", w.cutoffs[1], want)
	}
}

func TestTelemetryWithoutWriterOnlyCounts(t *testing.T) {
	bus := event.NewBus()
	metrics := newCollector(t)
	s := NewTelemetrySystem(bus, NewClock(1, nil), nil, metrics, zap.NewNop(), TelemetryOptions{})

	event.Emit(bus, event.ScenarioAction{Action: "flood", Target: "lamp"})
	deliver(bus)
	s.Update(0)
	s.Flush()

	if s.Pending() != 0 {
		t.Fatalf("Pending() = %d, want 0", s.Pending())
	}
	if got := testutil.ToFloat64(metrics.Notifications.WithLabelValues("scenario")); got != 1 {
		t.Fatalf("scenario notifications = %v, want 1", got)
	}
}
