package data

import (
	"fmt"
	"os"
	"sort"

	"gopkg.in/yaml.v3"
)

// ElementEntry places one electrical element on its own hull point.
type ElementEntry struct {
	ID       string  `yaml:"id"`
	Material string  `yaml:"material"`
	X        float64 `yaml:"x"`
	Y        float64 `yaml:"y"`
	Instance *uint32 `yaml:"instance"` // panel slot, absent when not instanced
	Label    string  `yaml:"label"`
}

// ActionEntry is one timed scenario action. Value is the water fraction for
// flood, the temperature for heat; Other is the second end for connect and
// disconnect.
type ActionEntry struct {
	At     float64 `yaml:"at"` // simulated seconds
	Action string  `yaml:"action"`
	Target string  `yaml:"target"`
	Other  string  `yaml:"other"`
	Value  float64 `yaml:"value"`
}

// ShipLayout is the electrical layout of a ship plus its demo scenario.
type ShipLayout struct {
	Name        string         `yaml:"name"`
	Elements    []ElementEntry `yaml:"elements"`
	Connections [][2]string    `yaml:"connections"`
	Scenario    []ActionEntry  `yaml:"scenario"`
}

var scenarioActions = map[string]bool{
	"flood":      true,
	"drain":      true,
	"heat":       true,
	"toggle":     true,
	"destroy":    true,
	"restore":    true,
	"connect":    true,
	"disconnect": true,
}

// LoadShipLayout loads a ship yaml. Scenario actions come back sorted by
// time, stable for actions sharing a timestamp.
func LoadShipLayout(path string) (*ShipLayout, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read ship layout: %w", err)
	}
	return parseShipLayout(raw)
}

func parseShipLayout(raw []byte) (*ShipLayout, error) {
	var l ShipLayout
	if err := yaml.Unmarshal(raw, &l); err != nil {
		return nil, fmt.Errorf("parse ship layout: %w", err)
	}

	ids := make(map[string]bool, len(l.Elements))
	for _, e := range l.Elements {
		if e.ID == "" {
			return nil, fmt.Errorf("ship %q: element without id", l.Name)
		}
		if ids[e.ID] {
			return nil, fmt.Errorf("ship %q: duplicate element %q", l.Name, e.ID)
		}
		ids[e.ID] = true
	}
	for _, c := range l.Connections {
		if !ids[c[0]] || !ids[c[1]] {
			return nil, fmt.Errorf("ship %q: connection %s-%s references unknown element", l.Name, c[0], c[1])
		}
		if c[0] == c[1] {
			return nil, fmt.Errorf("ship %q: element %q connected to itself", l.Name, c[0])
		}
	}
	for _, a := range l.Scenario {
		if !scenarioActions[a.Action] {
			return nil, fmt.Errorf("ship %q: unknown scenario action %q", l.Name, a.Action)
		}
		if !ids[a.Target] {
			return nil, fmt.Errorf("ship %q: %s at %v targets unknown element %q", l.Name, a.Action, a.At, a.Target)
		}
		if (a.Action == "connect" || a.Action == "disconnect") && !ids[a.Other] {
			return nil, fmt.Errorf("ship %q: %s at %v needs a known other end, got %q", l.Name, a.Action, a.At, a.Other)
		}
	}

	sort.SliceStable(l.Scenario, func(i, j int) bool { return l.Scenario[i].At < l.Scenario[j].At })
	return &l, nil
}

// Count returns the number of elements in the layout.
func (l *ShipLayout) Count() int {
	return len(l.Elements)
}
