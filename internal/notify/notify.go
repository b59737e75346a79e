// Package notify bridges engine notifications onto the event bus.
package notify

import (
	"go.uber.org/zap"

	"github.com/hullsim/powergrid/internal/core/event"
	"github.com/hullsim/powergrid/internal/electrical"
)

// BusHandler implements electrical.EventHandler by emitting typed events.
// Consumers see them on the next step's dispatch.
type BusHandler struct {
	bus *event.Bus
}

func NewBusHandler(bus *event.Bus) *BusHandler {
	return &BusHandler{bus: bus}
}

func (h *BusHandler) OnElectricalElementAnnouncementsBegin() {
	event.Emit(h.bus, event.AnnouncementsBegin{})
}

func (h *BusHandler) OnElectricalElementAnnouncementsEnd() {
	event.Emit(h.bus, event.AnnouncementsEnd{})
}

func (h *BusHandler) OnPowerProbeCreated(id electrical.ElementID, instance electrical.InstanceInfo, probe electrical.PowerProbeType, state electrical.ElectricalState) {
	event.Emit(h.bus, event.PowerProbeCreated{ID: id, Instance: instance, Probe: probe, State: state})
}

func (h *BusHandler) OnSwitchCreated(id electrical.ElementID, instance electrical.InstanceInfo, sw electrical.SwitchType, state electrical.ElectricalState) {
	event.Emit(h.bus, event.SwitchCreated{ID: id, Instance: instance, Switch: sw, State: state})
}

func (h *BusHandler) OnPowerProbeToggled(id electrical.ElementID, state electrical.ElectricalState) {
	event.Emit(h.bus, event.PowerProbeToggled{ID: id, State: state})
}

func (h *BusHandler) OnSwitchToggled(id electrical.ElementID, state electrical.ElectricalState) {
	event.Emit(h.bus, event.SwitchToggled{ID: id, State: state})
}

func (h *BusHandler) OnSwitchEnabled(id electrical.ElementID, enabled bool) {
	event.Emit(h.bus, event.SwitchEnabled{ID: id, Enabled: enabled})
}

func (h *BusHandler) OnLightFlicker(duration electrical.FlickerDuration, isUnderwater bool, count int) {
	event.Emit(h.bus, event.LightFlicker{Duration: duration, IsUnderwater: isUnderwater, Count: count})
}

// SubscribeLogger logs every electrical notification at debug level.
func SubscribeLogger(bus *event.Bus, log *zap.Logger) {
	event.Subscribe(bus, func(e event.PowerProbeCreated) {
		log.Debug("power probe created",
			zap.Stringer("element", e.ID),
			zap.String("label", e.Instance.Label),
			zap.Stringer("probe", e.Probe),
			zap.Stringer("state", e.State))
	})
	event.Subscribe(bus, func(e event.SwitchCreated) {
		log.Debug("switch created",
			zap.Stringer("element", e.ID),
			zap.String("label", e.Instance.Label),
			zap.Stringer("type", e.Switch),
			zap.Stringer("state", e.State))
	})
	event.Subscribe(bus, func(e event.PowerProbeToggled) {
		log.Debug("power probe toggled", zap.Stringer("element", e.ID), zap.Stringer("state", e.State))
	})
	event.Subscribe(bus, func(e event.SwitchToggled) {
		log.Debug("switch toggled", zap.Stringer("element", e.ID), zap.Stringer("state", e.State))
	})
	event.Subscribe(bus, func(e event.SwitchEnabled) {
		log.Debug("switch enabled", zap.Stringer("element", e.ID), zap.Bool("enabled", e.Enabled))
	})
	event.Subscribe(bus, func(e event.LightFlicker) {
		log.Debug("light flicker",
			zap.Stringer("duration", e.Duration),
			zap.Bool("underwater", e.IsUnderwater),
			zap.Int("count", e.Count))
	})
}
