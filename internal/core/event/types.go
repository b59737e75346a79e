package event

import "github.com/hullsim/powergrid/internal/electrical"

// Electrical notifications, published by notify.BusHandler.

type AnnouncementsBegin struct{}

type AnnouncementsEnd struct{}

type PowerProbeCreated struct {
	ID       electrical.ElementID
	Instance electrical.InstanceInfo
	Probe    electrical.PowerProbeType
	State    electrical.ElectricalState
}

type SwitchCreated struct {
	ID       electrical.ElementID
	Instance electrical.InstanceInfo
	Switch   electrical.SwitchType
	State    electrical.ElectricalState
}

type PowerProbeToggled struct {
	ID    electrical.ElementID
	State electrical.ElectricalState
}

type SwitchToggled struct {
	ID    electrical.ElementID
	State electrical.ElectricalState
}

type SwitchEnabled struct {
	ID      electrical.ElementID
	Enabled bool
}

type LightFlicker struct {
	Duration     electrical.FlickerDuration
	IsUnderwater bool
	Count        int
}

// Scenario events, emitted by the scenario system when it applies a
// scripted action.

type ScenarioAction struct {
	At     float64
	Action string
	Target string
}
