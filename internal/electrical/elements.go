package electrical

import (
	"fmt"
	"slices"
	"time"

	"github.com/hullsim/powergrid/internal/core/seq"
)

type element struct {
	point        PointIndex
	material     *Material
	temperatures OperatingTemperatures
	instance     InstanceInfo

	conducts   bool
	neighbors  []ElementIndex
	conducting []ElementIndex
	// severed holds the neighbors cut by Destroy, relinked by Restore.
	severed []ElementIndex

	visit   seq.Number
	state   ElementState
	light   float64
	deleted bool
}

// Elements is the electrical network of one ship: the conductivity graph,
// the propagation engine and the per-type state machines.
//
// Elements is owned by the simulation goroutine and is not safe for
// concurrent use.
type Elements struct {
	ship    ShipID
	points  Points
	events  EventHandler
	random  Random
	params  Parameters
	destroy DestroyHandler

	elements []element

	sources      []ElementIndex
	sinks        []ElementIndex
	autoToggling []ElementIndex

	preconditions map[ElementType]SourcePrecondition

	generation          seq.Number
	wallClock           time.Time
	switchToggledInStep bool

	visitQueue []ElementIndex
}

// NewElements creates an empty network. A nil handler drops notifications.
func NewElements(ship ShipID, points Points, events EventHandler, random Random, params Parameters) *Elements {
	if events == nil {
		events = NopEventHandler{}
	}
	return &Elements{
		ship:   ship,
		points: points,
		events: events,
		random: random,
		params: params,
		preconditions: map[ElementType]SourcePrecondition{
			Generator: GeneratorPrecondition,
		},
		visitQueue: make([]ElementIndex, 0, 64),
	}
}

// SetDestroyHandler installs the callback told about destroy/restore.
func (e *Elements) SetDestroyHandler(h DestroyHandler) { e.destroy = h }

// SetSourcePrecondition replaces the precondition evaluated for sources of
// the given type.
func (e *Elements) SetSourcePrecondition(t ElementType, p SourcePrecondition) {
	e.preconditions[t] = p
}

// Parameters returns the tuning in effect.
func (e *Elements) Parameters() Parameters { return e.params }

// Add creates an element attached to a point. Connections are added
// afterwards with AddConnection.
func (e *Elements) Add(point PointIndex, material *Material, instance InstanceInfo) ElementIndex {
	idx := ElementIndex(len(e.elements))
	el := element{
		point:    point,
		material: material,
		temperatures: OperatingTemperatures{
			Min:        material.MinOperatingTemperature,
			Max:        material.MaxOperatingTemperature,
			Hysteresis: e.params.TemperatureHysteresis,
		},
		instance: instance,
		conducts: material.ConductsElectricity,
	}

	switch material.Type {
	case Cable:
		el.state = &CableState{}
	case Generator:
		el.state = &GeneratorState{IsProducingCurrent: true}
		e.sources = append(e.sources, idx)
	case Lamp:
		el.state = newLampState(material.IsSelfPowered, material.WetFailureRate, e.params.WetFailureCheckInterval)
		e.sinks = append(e.sinks, idx)
	case OtherSink:
		el.state = &OtherSinkState{}
		e.sinks = append(e.sinks, idx)
	case PowerMonitor:
		el.state = &PowerMonitorState{}
		e.sinks = append(e.sinks, idx)
	case SmokeEmitter:
		el.state = &SmokeEmitterState{EmissionRate: material.ParticleEmissionRate}
		e.sinks = append(e.sinks, idx)
	case WaterSensingSwitch:
		el.state = &SwitchState{}
		e.autoToggling = append(e.autoToggling, idx)
	default:
		el.state = &SwitchState{}
	}

	e.elements = append(e.elements, el)
	return idx
}

// AnnounceInstancedElements publishes the probes and switches a UI needs to
// build its panel.
func (e *Elements) AnnounceInstancedElements() {
	e.events.OnElectricalElementAnnouncementsBegin()

	for i := range e.elements {
		el := &e.elements[i]
		id := e.id(ElementIndex(i))
		switch el.material.Type {
		case Generator:
			if el.instance.Index != NoneInstanceIndex {
				st := el.state.(*GeneratorState)
				e.events.OnPowerProbeCreated(id, el.instance, ProbeGenerator, StateOf(st.IsProducingCurrent))
			}
		case PowerMonitor:
			st := el.state.(*PowerMonitorState)
			e.events.OnPowerProbeCreated(id, el.instance, ProbePowerMonitor, StateOf(st.IsPowered))
		case InteractivePushSwitch:
			e.events.OnSwitchCreated(id, el.instance, SwitchInteractivePush, StateOf(el.conducts))
		case InteractiveToggleSwitch:
			e.events.OnSwitchCreated(id, el.instance, SwitchInteractiveToggle, StateOf(el.conducts))
		case WaterSensingSwitch:
			e.events.OnSwitchCreated(id, el.instance, SwitchAutomatic, StateOf(el.conducts))
		}
	}

	e.events.OnElectricalElementAnnouncementsEnd()
}

// Destroy soft-deletes an element together with its host particle: its light
// goes out, every edge is severed and switches are reported disabled.
func (e *Elements) Destroy(i ElementIndex) {
	el := &e.elements[i]
	if el.deleted {
		panic(fmt.Sprintf("electrical: destroying deleted element %d", i))
	}

	el.light = 0

	if el.material.Type.IsSwitch() {
		e.events.OnSwitchEnabled(e.id(i), false)
	}

	for _, other := range slices.Clone(el.neighbors) {
		e.RemoveConnection(i, other)
		el.severed = append(el.severed, other)
	}

	if e.destroy != nil {
		e.destroy.HandleElectricalElementDestroy(i)
	}

	el.deleted = true
}

// Restore brings a destroyed element back and relinks the neighbors it lost.
// Neighbors still deleted are relinked when they are restored themselves.
func (e *Elements) Restore(i ElementIndex) {
	el := &e.elements[i]
	if !el.deleted {
		panic(fmt.Sprintf("electrical: restoring live element %d", i))
	}

	el.deleted = false

	if lamp, ok := el.state.(*LampState); ok {
		lamp.Reset()
	}

	severed := el.severed
	el.severed = nil
	for _, other := range severed {
		if e.elements[other].deleted {
			if !slices.Contains(e.elements[other].severed, i) {
				e.elements[other].severed = append(e.elements[other].severed, i)
			}
			continue
		}
		e.AddConnection(i, other)
	}

	if e.destroy != nil {
		e.destroy.HandleElectricalElementRestore(i)
	}

	if el.material.Type.IsSwitch() {
		e.events.OnSwitchEnabled(e.id(i), true)
	}
}

// Step is the input of one simulation step.
type Step struct {
	Generation     seq.Number
	WallClock      time.Time
	SimulationTime float64
}

// Update runs one step: automatic toggles, propagation, then the sink state
// machines.
func (e *Elements) Update(step Step) {
	e.wallClock = step.WallClock
	e.UpdateAutomaticConductivityToggles()
	e.Propagate(step.Generation)
	e.UpdateSinks(step.WallClock, step.SimulationTime, step.Generation)
}

func (e *Elements) id(i ElementIndex) ElementID {
	return ElementID{Ship: e.ship, Element: i}
}

func (e *Elements) addHeat(el *element) {
	e.points.AddHeat(el.point,
		el.material.HeatGenerated*e.params.HeatProducedAdjustment*e.params.StepDuration)
}

func (e *Elements) highlight(el *element, on bool) {
	if e.params.ShowNotifications {
		e.points.StartHighlight(el.point, highlightFor(on), e.wallClock)
	}
}

// Len returns the number of elements, deleted ones included.
func (e *Elements) Len() int { return len(e.elements) }

func (e *Elements) Type(i ElementIndex) ElementType   { return e.elements[i].material.Type }
func (e *Elements) Point(i ElementIndex) PointIndex   { return e.elements[i].point }
func (e *Elements) Material(i ElementIndex) *Material { return e.elements[i].material }
func (e *Elements) IsDeleted(i ElementIndex) bool     { return e.elements[i].deleted }
func (e *Elements) VisitStamp(i ElementIndex) seq.Number {
	return e.elements[i].visit
}
func (e *Elements) State(i ElementIndex) ElementState    { return e.elements[i].state }
func (e *Elements) AvailableLight(i ElementIndex) float64 { return e.elements[i].light }
func (e *Elements) Instance(i ElementIndex) InstanceInfo  { return e.elements[i].instance }

func (e *Elements) ConductsElectricity(i ElementIndex) bool { return e.elements[i].conducts }

func (e *Elements) MaterialConductsElectricity(i ElementIndex) bool {
	return e.elements[i].material.ConductsElectricity
}

// Neighbors returns a copy of the element's topological neighbors.
func (e *Elements) Neighbors(i ElementIndex) []ElementIndex {
	return slices.Clone(e.elements[i].neighbors)
}

// ConductingNeighbors returns a copy of the neighbors currently conducting
// with this element.
func (e *Elements) ConductingNeighbors(i ElementIndex) []ElementIndex {
	return slices.Clone(e.elements[i].conducting)
}

// Generation returns the generation of the last propagation.
func (e *Elements) Generation() seq.Number { return e.generation }

// HasSwitchBeenToggledInStep reports whether a toggle happened since the
// last UpdateSinks.
func (e *Elements) HasSwitchBeenToggledInStep() bool { return e.switchToggledInStep }

// IsPowered reports whether the last propagation reached the element.
func (e *Elements) IsPowered(i ElementIndex) bool {
	el := &e.elements[i]
	return !el.deleted && !e.generation.IsNone() && el.visit == e.generation
}

// IsOperating reports whether the element is doing its job: a generator
// producing, a lamp giving light, a sink powered, an emitter emitting. Cables
// and switches operate while powered.
func (e *Elements) IsOperating(i ElementIndex) bool {
	el := &e.elements[i]
	if el.deleted {
		return false
	}
	switch st := el.state.(type) {
	case *GeneratorState:
		return st.IsProducingCurrent
	case *LampState:
		return el.light > 0
	case *OtherSinkState:
		return st.IsPowered
	case *PowerMonitorState:
		return st.IsPowered
	case *SmokeEmitterState:
		return st.IsOperating
	default:
		return e.IsPowered(i)
	}
}

// Counts summarizes the network for metrics.
type Counts struct {
	Elements  int
	Deleted   int
	Powered   int
	LitLamps  int
	Operating int
}

func (e *Elements) Counts() Counts {
	var c Counts
	c.Elements = len(e.elements)
	for i := range e.elements {
		idx := ElementIndex(i)
		if e.elements[i].deleted {
			c.Deleted++
			continue
		}
		if e.IsPowered(idx) {
			c.Powered++
		}
		if e.elements[i].material.Type == Lamp && e.elements[i].light > 0 {
			c.LitLamps++
		}
		if e.IsOperating(idx) {
			c.Operating++
		}
	}
	return c
}
