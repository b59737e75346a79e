package electrical

import (
	"math"
	"time"

	"github.com/hullsim/powergrid/internal/core/seq"
)

// smokeBuoyancyMargin keeps emitted smoke hotter than the surrounding air.
const smokeBuoyancyMargin = 200.0

// UpdateSinks runs the state machine of every live sink against the stamps
// of generation g, then clears the switch-toggled flag.
func (e *Elements) UpdateSinks(now time.Time, simulationTime float64, g seq.Number) {
	e.wallClock = now

	for _, i := range e.sinks {
		el := &e.elements[i]
		if el.deleted {
			continue
		}

		powered := el.visit == g
		var producingHeat bool

		switch st := el.state.(type) {
		case *LampState:
			e.runLamp(i, st, now, g)
			producingHeat = el.light > 0

		case *OtherSinkState:
			t := e.points.Temperature(el.point)
			if st.IsPowered {
				if !powered || !el.temperatures.IsInRange(t) {
					st.IsPowered = false
				}
			} else if powered && el.temperatures.IsBackInRange(t) {
				st.IsPowered = true
			}
			producingHeat = st.IsPowered

		case *PowerMonitorState:
			if st.IsPowered != powered {
				st.IsPowered = powered
				e.events.OnPowerProbeToggled(e.id(i), StateOf(powered))
				e.highlight(el, powered)
			}
			producingHeat = st.IsPowered

		case *SmokeEmitterState:
			e.runSmokeEmitter(el, st, powered, simulationTime)
			producingHeat = st.IsOperating

		default:
			panic("electrical: sink with non-sink state")
		}

		if producingHeat {
			e.addHeat(el)
		}
	}

	e.switchToggledInStep = false
}

func (e *Elements) runSmokeEmitter(el *element, st *SmokeEmitterState, powered bool, simulationTime float64) {
	underwater := e.points.IsUnderwater(el.point)
	if st.IsOperating {
		if !powered || underwater {
			st.IsOperating = false
		}
	} else if powered && !underwater {
		st.IsOperating = true
		st.Scheduled = false
	}

	if !st.IsOperating {
		return
	}

	// Higher density means more smoke, so density scales the rate up.
	rate := st.EmissionRate * e.params.SmokeEmissionDensity
	if rate <= 0 {
		return
	}

	if !st.Scheduled {
		st.NextEmission = simulationTime + e.random.Exponential(rate)
		st.Scheduled = true
	}

	if simulationTime >= st.NextEmission {
		temperature := math.Max(e.points.Temperature(el.point), e.params.AirTemperature+smokeBuoyancyMargin)
		e.points.CreateSmoke(el.point, temperature, simulationTime)
		st.Scheduled = false
	}
}
