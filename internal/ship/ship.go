// Package ship assembles a ship's points and electrical network from its
// layout.
package ship

import (
	"fmt"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/hullsim/powergrid/internal/data"
	"github.com/hullsim/powergrid/internal/electrical"
	"github.com/hullsim/powergrid/internal/points"
)

// Ship binds layout ids to the built elements.
type Ship struct {
	Name     string
	Points   *points.Store
	Elements *electrical.Elements
	ids      map[string]electrical.ElementIndex
}

// Build adds every layout element to the point store and the network, then
// wires the connections.
func Build(layout *data.ShipLayout, materials *data.MaterialTable, store *points.Store, elements *electrical.Elements) (*Ship, error) {
	s := &Ship{
		Name:     layout.Name,
		Points:   store,
		Elements: elements,
		ids:      make(map[string]electrical.ElementIndex, len(layout.Elements)),
	}

	for _, e := range layout.Elements {
		m := materials.Get(e.Material)
		if m == nil {
			return nil, fmt.Errorf("element %q: unknown material %q", e.ID, e.Material)
		}
		instance := electrical.NotInstanced
		if e.Instance != nil {
			instance = electrical.InstanceInfo{Index: electrical.InstanceIndex(*e.Instance), Label: e.Label}
		}
		p := store.Add(r2.Vec{X: e.X, Y: e.Y})
		s.ids[e.ID] = elements.Add(p, m, instance)
	}

	for _, c := range layout.Connections {
		a, err := s.Lookup(c[0])
		if err != nil {
			return nil, err
		}
		b, err := s.Lookup(c[1])
		if err != nil {
			return nil, err
		}
		elements.AddConnection(a, b)
	}

	return s, nil
}

// Lookup returns the element built for a layout id.
func (s *Ship) Lookup(id string) (electrical.ElementIndex, error) {
	i, ok := s.ids[id]
	if !ok {
		return electrical.NoneElementIndex, fmt.Errorf("ship %q: unknown element %q", s.Name, id)
	}
	return i, nil
}
