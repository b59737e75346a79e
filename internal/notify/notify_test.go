package notify

import (
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/hullsim/powergrid/internal/core/event"
	"github.com/hullsim/powergrid/internal/electrical"
)

var _ electrical.EventHandler = (*BusHandler)(nil)

func TestBusHandlerEmitsTypedEvents(t *testing.T) {
	bus := event.NewBus()
	h := NewBusHandler(bus)

	var toggled []event.SwitchToggled
	var flickers []event.LightFlicker
	event.Subscribe(bus, func(e event.SwitchToggled) { toggled = append(toggled, e) })
	event.Subscribe(bus, func(e event.LightFlicker) { flickers = append(flickers, e) })

	id := electrical.ElementID{Ship: 1, Element: 4}
	h.OnSwitchToggled(id, electrical.On)
	h.OnLightFlicker(electrical.FlickerLong, true, 1)

	bus.SwapBuffers()
	bus.DispatchAll()

	if len(toggled) != 1 || toggled[0].ID != id || toggled[0].State != electrical.On {
		t.Fatalf("toggled = %+v", toggled)
	}
	if len(flickers) != 1 || flickers[0].Duration != electrical.FlickerLong || !flickers[0].IsUnderwater {
		t.Fatalf("flickers = %+v", flickers)
	}
}

func TestSubscribeLogger(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	bus := event.NewBus()
	SubscribeLogger(bus, zap.New(core))
	h := NewBusHandler(bus)

	h.OnPowerProbeToggled(electrical.ElementID{Ship: 1, Element: 2}, electrical.Off)
	h.OnSwitchEnabled(electrical.ElementID{Ship: 1, Element: 3}, false)
	bus.SwapBuffers()
	bus.DispatchAll()

	if got := logs.Len(); got != 2 {
		t.Fatalf("log entries = %d, want 2", got)
	}
	if got := logs.All()[0].Message; got != "power probe toggled" {
		t.Fatalf("first message = %q", got)
	}
}
