package scripting

import (
	"os"
	"path/filepath"
	"testing"

	"go.uber.org/zap"

	"github.com/hullsim/powergrid/internal/electrical"
)

var _ electrical.SourcePrecondition = (*Engine)(nil)

func newEngine(t *testing.T, script string) *Engine {
	t.Helper()
	dir := t.TempDir()
	if script != "" {
		sub := filepath.Join(dir, "electrical")
		if err := os.MkdirAll(sub, 0o755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(filepath.Join(sub, "generator.lua"), []byte(script), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	e, err := NewEngine(dir, zap.NewNop())
	if err != nil {
		t.Fatalf("NewEngine() error = %v", err)
	}
	t.Cleanup(e.Close)
	return e
}

func input(water, temperature float64, producing bool) electrical.SourceInput {
	return electrical.SourceInput{
		Type:               electrical.Generator,
		IsProducingCurrent: producing,
		Water:              water,
		WetThreshold:       0.3,
		Temperature:        temperature,
		Temperatures:       electrical.OperatingTemperatures{Min: 233, Max: 373, Hysteresis: 10},
	}
}

func TestScriptDecides(t *testing.T) {
	e := newEngine(t, `
function source_should_produce(ctx)
  return ctx.water <= 0.8 and ctx.temperature < ctx.operating.max
end
`)
	if !e.HasSourcePrecondition() {
		t.Fatal("HasSourcePrecondition() = false")
	}
	// Wetter than the built-in threshold but allowed by the script.
	if !e.ShouldProduceCurrent(input(0.5, 300, true)) {
		t.Fatal("script result ignored")
	}
	if e.ShouldProduceCurrent(input(0.9, 300, true)) {
		t.Fatal("script result ignored for flooded source")
	}
}

func TestMissingFunctionFallsBack(t *testing.T) {
	e := newEngine(t, "")
	if e.HasSourcePrecondition() {
		t.Fatal("HasSourcePrecondition() = true without scripts")
	}
	if e.ShouldProduceCurrent(input(0.5, 300, true)) {
		t.Fatal("fallback must stop a wet generator")
	}
	if !e.ShouldProduceCurrent(input(0, 300, true)) {
		t.Fatal("fallback must keep a dry generator running")
	}
}

func TestScriptErrorFallsBack(t *testing.T) {
	e := newEngine(t, `
function source_should_produce(ctx)
  error("boom")
end
`)
	if !e.ShouldProduceCurrent(input(0, 300, true)) {
		t.Fatal("error must fall back to the built-in precondition")
	}
}

func TestNonBooleanFallsBack(t *testing.T) {
	e := newEngine(t, `
function source_should_produce(ctx)
  return 1
end
`)
	if e.ShouldProduceCurrent(input(0.9, 300, true)) {
		t.Fatal("non-boolean must fall back to the built-in precondition")
	}
}

func TestBadScriptFailsLoad(t *testing.T) {
	dir := t.TempDir()
	sub := filepath.Join(dir, "electrical")
	if err := os.MkdirAll(sub, 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(sub, "bad.lua"), []byte("function ("), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := NewEngine(dir, zap.NewNop()); err == nil {
		t.Fatal("NewEngine() error = nil for a broken script")
	}
}

func TestShippedGeneratorScriptMatchesBuiltin(t *testing.T) {
	e, err := NewEngine(filepath.Join("..", "..", "scripts"), zap.NewNop())
	if err != nil {
		t.Fatalf("NewEngine() error = %v", err)
	}
	defer e.Close()
	if !e.HasSourcePrecondition() {
		t.Fatal("HasSourcePrecondition() = false")
	}
	cases := []electrical.SourceInput{
		input(0, 300, true),
		input(0.5, 300, true),
		input(0, 370, true),
		input(0, 370, false),
		input(0, 240, false),
		input(0, 250, false),
	}
	for _, in := range cases {
		want := electrical.GeneratorPrecondition.ShouldProduceCurrent(in)
		if got := e.ShouldProduceCurrent(in); got != want {
			t.Fatalf("ShouldProduceCurrent(%+v) = %v, want %v", in, got, want)
		}
	}
}
