package electrical

import "time"

// Parameters tune the engine. Zero values are not meaningful; start from
// DefaultParameters.
type Parameters struct {
	// StepDuration is the simulated time covered by one step, in seconds.
	StepDuration float64
	// HeatProducedAdjustment scales HeatGenerated of every working element.
	HeatProducedAdjustment float64
	// ShowNotifications enables point highlights on power transitions.
	ShowNotifications bool
	// SmokeEmissionDensity scales smoke emitter rates.
	SmokeEmissionDensity float64
	// AirTemperature is the ambient temperature in K.
	AirTemperature float64

	GeneratorWetThreshold        float64
	LampWetFailureWaterThreshold float64
	WaterSwitchLowWatermark      float64
	WaterSwitchHighWatermark     float64

	// TemperatureHysteresis shrinks the operating range an element must be
	// back inside of before it recovers.
	TemperatureHysteresis float64

	WetFailureCheckInterval time.Duration
	FlickerStartInterval    time.Duration
	FlickerAInterval        time.Duration
	FlickerBInterval        time.Duration
}

// DefaultParameters returns the stock tuning.
func DefaultParameters() Parameters {
	return Parameters{
		StepDuration:                 1.0 / 64.0,
		HeatProducedAdjustment:       1.0,
		ShowNotifications:            true,
		SmokeEmissionDensity:         1.0,
		AirTemperature:               298.15,
		GeneratorWetThreshold:        0.3,
		LampWetFailureWaterThreshold: 0.1,
		WaterSwitchLowWatermark:      0.15,
		WaterSwitchHighWatermark:     0.45,
		TemperatureHysteresis:        10.0,
		WetFailureCheckInterval:      time.Second,
		FlickerStartInterval:         100 * time.Millisecond,
		FlickerAInterval:             150 * time.Millisecond,
		FlickerBInterval:             100 * time.Millisecond,
	}
}

// OperatingTemperatures is the range an element works in, with a recovery
// margin applied once it has left the range.
type OperatingTemperatures struct {
	Min        float64
	Max        float64
	Hysteresis float64
}

func (o OperatingTemperatures) IsInRange(t float64) bool {
	return t >= o.Min && t <= o.Max
}

func (o OperatingTemperatures) IsBackInRange(t float64) bool {
	return t >= o.Min+o.Hysteresis && t <= o.Max-o.Hysteresis
}
