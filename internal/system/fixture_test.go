package system

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/hullsim/powergrid/internal/core/event"
	"github.com/hullsim/powergrid/internal/data"
	"github.com/hullsim/powergrid/internal/electrical"
	"github.com/hullsim/powergrid/internal/ephemeral"
	"github.com/hullsim/powergrid/internal/notify"
	"github.com/hullsim/powergrid/internal/points"
	"github.com/hullsim/powergrid/internal/rng"
	"github.com/hullsim/powergrid/internal/ship"
)

const testMaterials = `
materials:
  - {name: Generator, type: Generator, conducts_electricity: true, min_operating_temperature: 233, max_operating_temperature: 400}
  - {name: Toggle, type: InteractiveToggleSwitch, conducts_electricity: true, min_operating_temperature: 0, max_operating_temperature: 1000}
  - {name: Lamp, type: Lamp, conducts_electricity: true, min_operating_temperature: 233, max_operating_temperature: 373}
`

const testShip = `
name: Tug
elements:
  - {id: gen, material: Generator, x: 0, y: 2, instance: 0, label: Main}
  - {id: sw, material: Toggle, x: 1, y: 2, instance: 1, label: Deck}
  - {id: lamp, material: Lamp, x: 2, y: 2}
connections:
  - [gen, sw]
  - [sw, lamp]
`

type fixture struct {
	clock    *Clock
	bus      *event.Bus
	store    *points.Store
	elements *electrical.Elements
	ship     *ship.Ship
	layout   *data.ShipLayout
	logs     *observer.ObservedLogs
	log      *zap.Logger
}

// newFixture builds the test ship with the given scenario yaml appended and
// a clock advancing one simulated second per step.
func newFixture(t *testing.T, scenario string) *fixture {
	t.Helper()
	dir := t.TempDir()

	matPath := filepath.Join(dir, "materials.yaml")
	if err := os.WriteFile(matPath, []byte(testMaterials), 0o644); err != nil {
		t.Fatal(err)
	}
	materials, err := data.LoadMaterialTable(matPath)
	if err != nil {
		t.Fatalf("LoadMaterialTable() error = %v", err)
	}

	shipPath := filepath.Join(dir, "ship.yaml")
	if err := os.WriteFile(shipPath, []byte(testShip+scenario), 0o644); err != nil {
		t.Fatal(err)
	}
	layout, err := data.LoadShipLayout(shipPath)
	if err != nil {
		t.Fatalf("LoadShipLayout() error = %v", err)
	}

	core, logs := observer.New(zapcore.DebugLevel)
	f := &fixture{
		clock:  NewClock(1, nil),
		bus:    event.NewBus(),
		layout: layout,
		logs:   logs,
		log:    zap.New(core),
	}
	f.store = points.New(points.Config{
		InitialTemperature: 298.15,
		HeatCapacity:       1e6,
		SmokeLifetime:      time.Second,
		SparkleLifetime:    time.Second,
		DebrisLifetime:     2 * time.Second,
		HighlightDuration:  time.Second,
	}, ephemeral.NewPool(16))
	random := rng.New(7)
	f.elements = electrical.NewElements(1, f.store, notify.NewBusHandler(f.bus), random, electrical.DefaultParameters())
	f.elements.SetDestroyHandler(NewDestroyEffects(f.clock, f.store, f.elements, random))

	f.ship, err = ship.Build(layout, materials, f.store, f.elements)
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	return f
}

func (f *fixture) lookup(t *testing.T, id string) electrical.ElementIndex {
	t.Helper()
	i, err := f.ship.Lookup(id)
	if err != nil {
		t.Fatal(err)
	}
	return i
}
