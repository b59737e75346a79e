package electrical

import (
	"fmt"
	"image/color"
	"math"
	"strings"
)

// ElementIndex is the dense, stable identity of an electrical element.
type ElementIndex uint32

// NoneElementIndex marks the absence of an element.
const NoneElementIndex ElementIndex = math.MaxUint32

// PointIndex identifies the physical particle an element is attached to.
type PointIndex uint32

// ShipID identifies the ship owning an element set.
type ShipID uint32

// ElementID is the ship-qualified id published with notifications.
type ElementID struct {
	Ship    ShipID
	Element ElementIndex
}

func (id ElementID) String() string { return fmt.Sprintf("%d:%d", id.Ship, id.Element) }

// InstanceIndex numbers instanced elements (panel switches, probes).
type InstanceIndex uint32

// NoneInstanceIndex marks a non-instanced element.
const NoneInstanceIndex InstanceIndex = math.MaxUint32

// InstanceInfo carries the instancing metadata announced to UI consumers.
type InstanceInfo struct {
	Index InstanceIndex
	Label string
}

// NotInstanced is the InstanceInfo of elements without an instance.
var NotInstanced = InstanceInfo{Index: NoneInstanceIndex}

// ElementType is fixed at creation.
type ElementType uint8

const (
	Cable ElementType = iota
	Generator
	InteractivePushSwitch
	InteractiveToggleSwitch
	Lamp
	OtherSink
	PowerMonitor
	SmokeEmitter
	WaterSensingSwitch
)

var elementTypeNames = [...]string{
	Cable:                   "Cable",
	Generator:               "Generator",
	InteractivePushSwitch:   "InteractivePushSwitch",
	InteractiveToggleSwitch: "InteractiveToggleSwitch",
	Lamp:                    "Lamp",
	OtherSink:               "OtherSink",
	PowerMonitor:            "PowerMonitor",
	SmokeEmitter:            "SmokeEmitter",
	WaterSensingSwitch:      "WaterSensingSwitch",
}

func (t ElementType) String() string {
	if int(t) < len(elementTypeNames) {
		return elementTypeNames[t]
	}
	return fmt.Sprintf("ElementType(%d)", t)
}

// ParseElementType maps a material-file name to its ElementType,
// ignoring case.
func ParseElementType(s string) (ElementType, error) {
	for i, name := range elementTypeNames {
		if strings.EqualFold(name, s) {
			return ElementType(i), nil
		}
	}
	return 0, fmt.Errorf("unknown electrical element type %q", s)
}

// IsSource reports whether elements of this type inject current.
func (t ElementType) IsSource() bool { return t == Generator }

// IsSink reports whether elements of this type consume current.
func (t ElementType) IsSink() bool {
	switch t {
	case Lamp, OtherSink, PowerMonitor, SmokeEmitter:
		return true
	}
	return false
}

// IsSwitch reports whether elements of this type toggle conductivity.
func (t ElementType) IsSwitch() bool {
	switch t {
	case InteractivePushSwitch, InteractiveToggleSwitch, WaterSensingSwitch:
		return true
	}
	return false
}

// ElectricalState is the on/off state published for switches and probes.
type ElectricalState uint8

const (
	Off ElectricalState = iota
	On
)

// StateOf converts a boolean into an ElectricalState.
func StateOf(on bool) ElectricalState {
	if on {
		return On
	}
	return Off
}

func (s ElectricalState) Bool() bool { return s == On }

func (s ElectricalState) String() string {
	if s == On {
		return "on"
	}
	return "off"
}

// PowerProbeType distinguishes the element behind a power probe.
type PowerProbeType uint8

const (
	ProbeGenerator PowerProbeType = iota
	ProbePowerMonitor
)

func (p PowerProbeType) String() string {
	if p == ProbeGenerator {
		return "generator"
	}
	return "power_monitor"
}

// SwitchType distinguishes user-operated from automatic switches.
type SwitchType uint8

const (
	SwitchInteractivePush SwitchType = iota
	SwitchInteractiveToggle
	SwitchAutomatic
)

func (s SwitchType) String() string {
	switch s {
	case SwitchInteractivePush:
		return "push"
	case SwitchInteractiveToggle:
		return "toggle"
	default:
		return "automatic"
	}
}

// FlickerDuration tags light-flicker notifications.
type FlickerDuration uint8

const (
	FlickerShort FlickerDuration = iota
	FlickerLong
)

func (d FlickerDuration) String() string {
	if d == FlickerLong {
		return "long"
	}
	return "short"
}

// Highlight colors for power transitions.
var (
	PowerOnHighlight  = color.RGBA{R: 0x02, G: 0x5e, B: 0x1e, A: 0xff}
	PowerOffHighlight = color.RGBA{R: 0xb5, G: 0x00, B: 0x00, A: 0xff}
)

func highlightFor(on bool) color.RGBA {
	if on {
		return PowerOnHighlight
	}
	return PowerOffHighlight
}

// Material is the nominal description shared by all elements built from it.
type Material struct {
	Name                    string
	Type                    ElementType
	ConductsElectricity     bool
	IsSelfPowered           bool
	WetFailureRate          float64 // lamp failures per minute
	HeatGenerated           float64 // kJ/s
	MinOperatingTemperature float64 // K
	MaxOperatingTemperature float64 // K
	ParticleEmissionRate    float64 // particles per second
}
