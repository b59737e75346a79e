package electrical

// UpdateAutomaticConductivityToggles flips water-sensing switches away from
// their material default once flooded above the high watermark, and back
// once drained below the low watermark.
func (e *Elements) UpdateAutomaticConductivityToggles() {
	for _, i := range e.autoToggling {
		el := &e.elements[i]
		if el.deleted {
			continue
		}

		water := e.points.Water(el.point)
		def := el.material.ConductsElectricity
		if el.conducts == def {
			if water >= e.params.WaterSwitchHighWatermark {
				e.SetConductivity(i, StateOf(!def))
			}
		} else if water <= e.params.WaterSwitchLowWatermark {
			e.SetConductivity(i, StateOf(def))
		}
	}
}
