package electrical

import "github.com/hullsim/powergrid/internal/core/seq"

// Propagate floods current from every producing source over the conducting
// adjacency, stamping each reached element with g exactly once. A source that
// is not producing stays unstamped unless another source's current reaches it.
func (e *Elements) Propagate(g seq.Number) {
	e.generation = g

	for _, src := range e.sources {
		el := &e.elements[src]
		if el.deleted || el.visit == g {
			continue
		}

		st, ok := el.state.(SourceState)
		if !ok {
			continue
		}

		precondition := e.preconditions[el.material.Type]
		if precondition == nil {
			precondition = GeneratorPrecondition
		}
		producing := precondition.ShouldProduceCurrent(SourceInput{
			Element:            src,
			Type:               el.material.Type,
			IsProducingCurrent: st.Producing(),
			Water:              e.points.Water(el.point),
			WetThreshold:       e.params.GeneratorWetThreshold,
			Temperature:        e.points.Temperature(el.point),
			Temperatures:       el.temperatures,
		})

		if producing != st.Producing() {
			st.SetProducing(producing)
			if el.instance.Index != NoneInstanceIndex {
				e.events.OnPowerProbeToggled(e.id(src), StateOf(producing))
				e.highlight(el, producing)
			}
		}

		if !producing {
			continue
		}

		el.visit = g
		e.flood(src, g)
		e.addHeat(el)
	}
}

func (e *Elements) flood(src ElementIndex, g seq.Number) {
	queue := append(e.visitQueue[:0], src)
	for head := 0; head < len(queue); head++ {
		for _, n := range e.elements[queue[head]].conducting {
			other := &e.elements[n]
			if other.visit == g {
				continue
			}
			other.visit = g
			queue = append(queue, n)
		}
	}
	e.visitQueue = queue[:0]
}
