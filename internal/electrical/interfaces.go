package electrical

import (
	"image/color"
	"time"
)

// Points is the read side of the physical particle store plus the few
// side effects the engine applies to it.
type Points interface {
	Water(p PointIndex) float64
	Temperature(p PointIndex) float64
	IsUnderwater(p PointIndex) bool
	AddHeat(p PointIndex, heat float64)
	StartHighlight(p PointIndex, c color.RGBA, now time.Time)
	CreateSmoke(p PointIndex, temperature float64, simulationTime float64)
}

// Random supplies the draws behind wet failures, flicker choice and smoke
// interarrival times.
type Random interface {
	// Uniform returns a draw in [0, 1).
	Uniform() float64
	// Choose returns a draw in [0, n).
	Choose(n int) int
	// Exponential returns an interarrival time for the given rate.
	Exponential(rate float64) float64
}

// EventHandler receives fire-and-forget notifications for UI, audio and
// telemetry consumers.
type EventHandler interface {
	OnElectricalElementAnnouncementsBegin()
	OnElectricalElementAnnouncementsEnd()
	OnPowerProbeCreated(id ElementID, instance InstanceInfo, probe PowerProbeType, state ElectricalState)
	OnSwitchCreated(id ElementID, instance InstanceInfo, sw SwitchType, state ElectricalState)
	OnPowerProbeToggled(id ElementID, state ElectricalState)
	OnSwitchToggled(id ElementID, state ElectricalState)
	OnSwitchEnabled(id ElementID, enabled bool)
	OnLightFlicker(duration FlickerDuration, isUnderwater bool, count int)
}

// NopEventHandler drops every notification.
type NopEventHandler struct{}

func (NopEventHandler) OnElectricalElementAnnouncementsBegin() {}
func (NopEventHandler) OnElectricalElementAnnouncementsEnd()   {}
func (NopEventHandler) OnPowerProbeCreated(ElementID, InstanceInfo, PowerProbeType, ElectricalState) {
}
func (NopEventHandler) OnSwitchCreated(ElementID, InstanceInfo, SwitchType, ElectricalState) {}
func (NopEventHandler) OnPowerProbeToggled(ElementID, ElectricalState)                        {}
func (NopEventHandler) OnSwitchToggled(ElementID, ElectricalState)                            {}
func (NopEventHandler) OnSwitchEnabled(ElementID, bool)                                       {}
func (NopEventHandler) OnLightFlicker(FlickerDuration, bool, int)                             {}

// DestroyHandler is told when an element is destroyed or restored, after
// the engine has updated its own graph.
type DestroyHandler interface {
	HandleElectricalElementDestroy(i ElementIndex)
	HandleElectricalElementRestore(i ElementIndex)
}

// SourceInput is what a source precondition sees each step.
type SourceInput struct {
	Element            ElementIndex
	Type               ElementType
	IsProducingCurrent bool
	Water              float64
	WetThreshold       float64
	Temperature        float64
	Temperatures       OperatingTemperatures
}

// SourcePrecondition decides whether a source produces current this step.
type SourcePrecondition interface {
	ShouldProduceCurrent(in SourceInput) bool
}

// SourcePreconditionFunc adapts a function to SourcePrecondition.
type SourcePreconditionFunc func(in SourceInput) bool

func (f SourcePreconditionFunc) ShouldProduceCurrent(in SourceInput) bool { return f(in) }

// GeneratorPrecondition stops a running generator when it gets wet or leaves
// its operating range, and restarts it only once dry and back in range.
var GeneratorPrecondition = SourcePreconditionFunc(func(in SourceInput) bool {
	if in.Water > in.WetThreshold {
		return false
	}
	if in.IsProducingCurrent {
		return in.Temperatures.IsInRange(in.Temperature)
	}
	return in.Temperatures.IsBackInRange(in.Temperature)
})
