package electrical

import (
	"image/color"
	"time"

	"github.com/hullsim/powergrid/internal/core/seq"
)

const roomTemperature = 298.15

type highlightCall struct {
	point PointIndex
	color color.RGBA
}

type smokeCall struct {
	point       PointIndex
	temperature float64
	time        float64
}

type fakePoints struct {
	water       map[PointIndex]float64
	temperature map[PointIndex]float64
	underwater  map[PointIndex]bool
	heat        map[PointIndex]float64
	heatCalls   int
	highlights  []highlightCall
	smoke       []smokeCall
}

func newFakePoints() *fakePoints {
	return &fakePoints{
		water:       map[PointIndex]float64{},
		temperature: map[PointIndex]float64{},
		underwater:  map[PointIndex]bool{},
		heat:        map[PointIndex]float64{},
	}
}

func (f *fakePoints) Water(p PointIndex) float64 { return f.water[p] }

func (f *fakePoints) Temperature(p PointIndex) float64 {
	if t, ok := f.temperature[p]; ok {
		return t
	}
	return roomTemperature
}

func (f *fakePoints) IsUnderwater(p PointIndex) bool { return f.underwater[p] }

func (f *fakePoints) AddHeat(p PointIndex, heat float64) {
	f.heat[p] += heat
	f.heatCalls++
}

func (f *fakePoints) StartHighlight(p PointIndex, c color.RGBA, _ time.Time) {
	f.highlights = append(f.highlights, highlightCall{point: p, color: c})
}

func (f *fakePoints) CreateSmoke(p PointIndex, temperature float64, simulationTime float64) {
	f.smoke = append(f.smoke, smokeCall{point: p, temperature: temperature, time: simulationTime})
}

type fakeRandom struct {
	uniform     float64
	choice      int
	exponential float64
	rates       []float64
}

func (f *fakeRandom) Uniform() float64 { return f.uniform }
func (f *fakeRandom) Choose(n int) int { return f.choice % n }
func (f *fakeRandom) Exponential(rate float64) float64 {
	f.rates = append(f.rates, rate)
	return f.exponential
}

type recordingHandler struct {
	NopEventHandler
	log           []string
	probeToggles  []ElectricalState
	switchToggles []ElectricalState
	enabled       []bool
	flickers      []FlickerDuration
	probes        []PowerProbeType
	switches      []SwitchType
}

func (r *recordingHandler) OnElectricalElementAnnouncementsBegin() {
	r.log = append(r.log, "begin")
}

func (r *recordingHandler) OnElectricalElementAnnouncementsEnd() {
	r.log = append(r.log, "end")
}

func (r *recordingHandler) OnPowerProbeCreated(_ ElementID, _ InstanceInfo, probe PowerProbeType, _ ElectricalState) {
	r.log = append(r.log, "probe")
	r.probes = append(r.probes, probe)
}

func (r *recordingHandler) OnSwitchCreated(_ ElementID, _ InstanceInfo, sw SwitchType, _ ElectricalState) {
	r.log = append(r.log, "switch")
	r.switches = append(r.switches, sw)
}

func (r *recordingHandler) OnPowerProbeToggled(_ ElementID, s ElectricalState) {
	r.probeToggles = append(r.probeToggles, s)
}

func (r *recordingHandler) OnSwitchToggled(_ ElementID, s ElectricalState) {
	r.switchToggles = append(r.switchToggles, s)
}

func (r *recordingHandler) OnSwitchEnabled(_ ElementID, enabled bool) {
	r.enabled = append(r.enabled, enabled)
}

func (r *recordingHandler) OnLightFlicker(d FlickerDuration, _ bool, _ int) {
	r.flickers = append(r.flickers, d)
}

func material(t ElementType) *Material {
	m := &Material{
		Name:                    t.String(),
		Type:                    t,
		ConductsElectricity:     true,
		HeatGenerated:           1,
		MinOperatingTemperature: 233.15,
		MaxOperatingTemperature: 373.15,
	}
	switch t {
	case InteractivePushSwitch, InteractiveToggleSwitch:
		m.ConductsElectricity = false
	case Lamp:
		m.WetFailureRate = 60
	case SmokeEmitter:
		m.ParticleEmissionRate = 2
	}
	return m
}

type harness struct {
	t0      time.Time
	points  *fakePoints
	random  *fakeRandom
	events  *recordingHandler
	el      *Elements
	gen     seq.Counter
	elapsed time.Duration
}

func newHarness() *harness {
	h := &harness{
		t0:     time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		points: newFakePoints(),
		random: &fakeRandom{exponential: 0.5},
		events: &recordingHandler{},
	}
	h.el = NewElements(1, h.points, h.events, h.random, DefaultParameters())
	return h
}

// add places each element on its own point.
func (h *harness) add(t ElementType) ElementIndex {
	return h.el.Add(PointIndex(h.el.Len()), material(t), NotInstanced)
}

func (h *harness) chain(ids ...ElementIndex) {
	for i := 1; i < len(ids); i++ {
		h.el.AddConnection(ids[i-1], ids[i])
	}
}

// step runs one Update and advances the wall clock by d afterwards.
func (h *harness) step(d time.Duration) {
	h.el.Update(Step{
		Generation:     h.gen.Advance(),
		WallClock:      h.t0.Add(h.elapsed),
		SimulationTime: h.elapsed.Seconds(),
	})
	h.elapsed += d
}
