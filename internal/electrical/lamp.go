package electrical

import (
	"time"

	"github.com/hullsim/powergrid/internal/core/seq"
)

func (e *Elements) runLamp(i ElementIndex, lamp *LampState, now time.Time, g seq.Number) {
	el := &e.elements[i]
	p := el.point
	hasCurrent := el.visit == g || lamp.IsSelfPowered

	switch lamp.Phase {
	case LampInitial:
		if hasCurrent && el.temperatures.IsInRange(e.points.Temperature(p)) {
			el.light = 1
			lamp.Phase = LampLightOn
			lamp.NextWetFailureCheck = now.Add(e.params.WetFailureCheckInterval)
		} else {
			el.light = 0
			lamp.Phase = LampLightOff
		}

	case LampLightOn:
		if (el.visit != g && !lamp.IsSelfPowered) ||
			(e.isLampWet(p) && e.checkWetFailure(lamp, now)) ||
			!el.temperatures.IsInRange(e.points.Temperature(p)) {
			el.light = 0

			if e.switchToggledInStep {
				// A deliberate cut goes dark at once.
				lamp.Phase = LampLightOff
				return
			}

			lamp.FlickerCounter = 0
			lamp.NextStateTransition = now.Add(e.params.FlickerStartInterval)
			if e.random.Choose(2) == 0 {
				lamp.Phase = LampFlickerA
			} else {
				lamp.Phase = LampFlickerB
			}
		}

	case LampFlickerA:
		// on, off, on, dark
		if e.canRelight(el, lamp, g) {
			el.light = 1
			lamp.Phase = LampLightOn
			return
		}
		if !now.After(lamp.NextStateTransition) {
			return
		}
		lamp.FlickerCounter++
		switch lamp.FlickerCounter {
		case 1, 3:
			el.light = 1
			e.events.OnLightFlicker(FlickerShort, e.points.IsUnderwater(p), 1)
			lamp.NextStateTransition = now.Add(e.params.FlickerAInterval)
		case 2:
			el.light = 0
			lamp.NextStateTransition = now.Add(e.params.FlickerAInterval)
		default:
			el.light = 0
			lamp.Phase = LampLightOff
		}

	case LampFlickerB:
		// on, off, long on, off, on, dark
		if e.canRelight(el, lamp, g) {
			el.light = 1
			lamp.Phase = LampLightOn
			return
		}
		if !now.After(lamp.NextStateTransition) {
			return
		}
		lamp.FlickerCounter++
		switch lamp.FlickerCounter {
		case 1, 5:
			el.light = 1
			e.events.OnLightFlicker(FlickerShort, e.points.IsUnderwater(p), 1)
			lamp.NextStateTransition = now.Add(e.params.FlickerBInterval)
		case 2, 4:
			el.light = 0
			lamp.NextStateTransition = now.Add(e.params.FlickerBInterval)
		case 3:
			el.light = 1
			e.events.OnLightFlicker(FlickerLong, e.points.IsUnderwater(p), 1)
			lamp.NextStateTransition = now.Add(2 * e.params.FlickerBInterval)
		default:
			el.light = 0
			lamp.Phase = LampLightOff
		}

	case LampLightOff:
		if e.canRelight(el, lamp, g) {
			el.light = 1
			e.events.OnLightFlicker(FlickerShort, e.points.IsUnderwater(p), 1)
			lamp.Phase = LampLightOn
		}
	}
}

func (e *Elements) canRelight(el *element, lamp *LampState, g seq.Number) bool {
	return (el.visit == g || lamp.IsSelfPowered) &&
		!e.isLampWet(el.point) &&
		el.temperatures.IsBackInRange(e.points.Temperature(el.point))
}

func (e *Elements) isLampWet(p PointIndex) bool {
	return e.points.Water(p) > e.params.LampWetFailureWaterThreshold
}

// checkWetFailure samples the failure probability at most once per check
// interval.
func (e *Elements) checkWetFailure(lamp *LampState, now time.Time) bool {
	if now.Before(lamp.NextWetFailureCheck) {
		return false
	}
	failed := e.random.Uniform() < lamp.WetFailureRateCDF
	lamp.NextWetFailureCheck = now.Add(e.params.WetFailureCheckInterval)
	return failed
}
