package data

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/hullsim/powergrid/internal/electrical"
)

// MaterialEntry is one row of electrical_materials.yaml.
type MaterialEntry struct {
	Name                    string  `yaml:"name"`
	Type                    string  `yaml:"type"`
	ConductsElectricity     bool    `yaml:"conducts_electricity"`
	IsSelfPowered           bool    `yaml:"is_self_powered"`
	WetFailureRate          float64 `yaml:"wet_failure_rate"` // failures per minute
	HeatGenerated           float64 `yaml:"heat_generated"`   // J per simulated second
	MinOperatingTemperature float64 `yaml:"min_operating_temperature"`
	MaxOperatingTemperature float64 `yaml:"max_operating_temperature"`
	ParticleEmissionRate    float64 `yaml:"particle_emission_rate"` // particles per second
}

type materialFile struct {
	Materials []MaterialEntry `yaml:"materials"`
}

// MaterialTable provides lookup of electrical materials by name.
type MaterialTable struct {
	materials map[string]*electrical.Material
}

// LoadMaterialTable loads electrical_materials.yaml.
func LoadMaterialTable(path string) (*MaterialTable, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read electrical materials: %w", err)
	}
	return parseMaterialTable(raw)
}

func parseMaterialTable(raw []byte) (*MaterialTable, error) {
	var f materialFile
	if err := yaml.Unmarshal(raw, &f); err != nil {
		return nil, fmt.Errorf("parse electrical materials: %w", err)
	}
	t := &MaterialTable{
		materials: make(map[string]*electrical.Material, len(f.Materials)),
	}
	for i := range f.Materials {
		e := &f.Materials[i]
		typ, err := electrical.ParseElementType(e.Type)
		if err != nil {
			return nil, fmt.Errorf("material %q: %w", e.Name, err)
		}
		if _, dup := t.materials[e.Name]; dup {
			return nil, fmt.Errorf("material %q defined twice", e.Name)
		}
		if e.MinOperatingTemperature >= e.MaxOperatingTemperature {
			return nil, fmt.Errorf("material %q: operating range %v..%v is empty",
				e.Name, e.MinOperatingTemperature, e.MaxOperatingTemperature)
		}
		t.materials[e.Name] = &electrical.Material{
			Name:                    e.Name,
			Type:                    typ,
			ConductsElectricity:     e.ConductsElectricity,
			IsSelfPowered:           e.IsSelfPowered,
			WetFailureRate:          e.WetFailureRate,
			HeatGenerated:           e.HeatGenerated,
			MinOperatingTemperature: e.MinOperatingTemperature,
			MaxOperatingTemperature: e.MaxOperatingTemperature,
			ParticleEmissionRate:    e.ParticleEmissionRate,
		}
	}
	return t, nil
}

// Get returns the material by name, or nil if none.
func (t *MaterialTable) Get(name string) *electrical.Material {
	return t.materials[name]
}

// Count returns the total number of materials loaded.
func (t *MaterialTable) Count() int {
	return len(t.materials)
}
