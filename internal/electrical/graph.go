package electrical

import (
	"errors"
	"fmt"
	"slices"
)

// AddConnection links two elements. Both must be live and distinct. The
// link is conducting when both ends conduct. Adding an existing link is a
// no-op.
func (e *Elements) AddConnection(a, b ElementIndex) {
	if a == b {
		panic(fmt.Sprintf("electrical: self connection on %d", a))
	}
	ea, eb := &e.elements[a], &e.elements[b]
	if ea.deleted || eb.deleted {
		panic(fmt.Sprintf("electrical: connecting deleted element %d-%d", a, b))
	}
	if slices.Contains(ea.neighbors, b) {
		return
	}

	ea.neighbors = append(ea.neighbors, b)
	eb.neighbors = append(eb.neighbors, a)

	if ea.conducts && eb.conducts {
		ea.conducting = append(ea.conducting, b)
		eb.conducting = append(eb.conducting, a)
	}
}

// RemoveConnection unlinks two elements. A link severed by Destroy is
// forgotten so Restore does not bring it back. Removing a missing link is a
// no-op.
func (e *Elements) RemoveConnection(a, b ElementIndex) {
	ea, eb := &e.elements[a], &e.elements[b]
	if !removeFirst(&ea.neighbors, b) {
		removeFirst(&ea.severed, b)
		removeFirst(&eb.severed, a)
		return
	}
	if !removeFirst(&eb.neighbors, a) {
		panic(fmt.Sprintf("electrical: asymmetric neighbors %d-%d", a, b))
	}

	ra := removeFirst(&ea.conducting, b)
	rb := removeFirst(&eb.conducting, a)
	if ra != rb {
		panic(fmt.Sprintf("electrical: asymmetric conducting neighbors %d-%d", a, b))
	}
}

// SetConductivity switches an element's conductivity and keeps the
// conducting adjacency of it and its neighbors in step. Setting the current
// state is a no-op.
func (e *Elements) SetConductivity(i ElementIndex, s ElectricalState) {
	el := &e.elements[i]
	on := s.Bool()
	if el.conducts == on {
		return
	}

	if on {
		for _, n := range el.neighbors {
			other := &e.elements[n]
			if !other.conducts {
				continue
			}
			if slices.Contains(el.conducting, n) || slices.Contains(other.conducting, i) {
				panic(fmt.Sprintf("electrical: %d-%d already conducting", i, n))
			}
			el.conducting = append(el.conducting, n)
			other.conducting = append(other.conducting, i)
		}
	} else {
		for _, n := range el.conducting {
			if !removeFirst(&e.elements[n].conducting, i) {
				panic(fmt.Sprintf("electrical: %d missing from conducting neighbors of %d", i, n))
			}
		}
		el.conducting = el.conducting[:0]
	}

	el.conducts = on

	e.events.OnSwitchToggled(e.id(i), s)
	e.highlight(el, on)

	e.switchToggledInStep = true
}

// Toggle flips an interactive switch.
func (e *Elements) Toggle(i ElementIndex) {
	e.SetConductivity(i, StateOf(!e.elements[i].conducts))
}

// CheckInvariants verifies adjacency symmetry and that every conducting
// neighbor is a neighbor with both ends conducting.
func (e *Elements) CheckInvariants() error {
	var errs []error
	for i := range e.elements {
		a := ElementIndex(i)
		el := &e.elements[i]
		for _, n := range el.neighbors {
			if !slices.Contains(e.elements[n].neighbors, a) {
				errs = append(errs, fmt.Errorf("neighbor %d-%d not symmetric", a, n))
			}
		}
		for _, n := range el.conducting {
			if !slices.Contains(el.neighbors, n) {
				errs = append(errs, fmt.Errorf("conducting %d-%d not a neighbor", a, n))
			}
			if !slices.Contains(e.elements[n].conducting, a) {
				errs = append(errs, fmt.Errorf("conducting %d-%d not symmetric", a, n))
			}
		}
		for _, n := range el.neighbors {
			want := el.conducts && e.elements[n].conducts
			if got := slices.Contains(el.conducting, n); got != want {
				errs = append(errs, fmt.Errorf("conducting %d-%d = %v, want %v", a, n, got, want))
			}
		}
	}
	return errors.Join(errs...)
}

// removeFirst deletes the first occurrence of v keeping order.
func removeFirst(s *[]ElementIndex, v ElementIndex) bool {
	i := slices.Index(*s, v)
	if i < 0 {
		return false
	}
	*s = slices.Delete(*s, i, i+1)
	return true
}
