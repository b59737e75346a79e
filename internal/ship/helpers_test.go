package ship

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/hullsim/powergrid/internal/data"
)

func writeAndLoadMaterials(t *testing.T, dir string) *data.MaterialTable {
	t.Helper()
	path := filepath.Join(dir, "materials.yaml")
	body := `
materials:
  - {name: Generator, type: Generator, conducts_electricity: true, min_operating_temperature: 233, max_operating_temperature: 400}
  - {name: Lamp, type: Lamp, conducts_electricity: true, min_operating_temperature: 233, max_operating_temperature: 373}
`
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	tbl, err := data.LoadMaterialTable(path)
	if err != nil {
		t.Fatalf("LoadMaterialTable() error = %v", err)
	}
	return tbl
}

func writeAndLoadShip(t *testing.T, dir string) *data.ShipLayout {
	t.Helper()
	path := filepath.Join(dir, "ship.yaml")
	body := `
name: Tug
elements:
  - {id: gen, material: Generator, x: 0, y: 2, instance: 0, label: Main}
  - {id: lamp, material: Lamp, x: 1, y: 2}
connections:
  - [gen, lamp]
`
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	l, err := data.LoadShipLayout(path)
	if err != nil {
		t.Fatalf("LoadShipLayout() error = %v", err)
	}
	return l
}
