package scripting

import (
	"fmt"
	"os"
	"path/filepath"

	lua "github.com/yuin/gopher-lua"
	"go.uber.org/zap"

	"github.com/hullsim/powergrid/internal/electrical"
)

// sourceFunc is the Lua global deciding whether a source produces current.
const sourceFunc = "source_should_produce"

// Engine wraps a single gopher-lua VM for electrical behavior overrides.
// Single-goroutine access only (simulation loop).
type Engine struct {
	vm       *lua.LState
	log      *zap.Logger
	fallback electrical.SourcePrecondition
}

// NewEngine creates a Lua engine and loads all scripts from the electrical
// subdirectory of scriptsDir.
func NewEngine(scriptsDir string, log *zap.Logger) (*Engine, error) {
	vm := lua.NewState(lua.Options{
		SkipOpenLibs: false,
	})

	// Set API version global
	vm.SetGlobal("API_VERSION", lua.LNumber(1))

	e := &Engine{vm: vm, log: log, fallback: electrical.GeneratorPrecondition}

	if err := e.loadDir(filepath.Join(scriptsDir, "electrical")); err != nil {
		vm.Close()
		return nil, fmt.Errorf("load electrical scripts: %w", err)
	}

	return e, nil
}

// loadDir loads all .lua files in a directory.
func (e *Engine) loadDir(dir string) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil // skip missing dirs
		}
		return err
	}
	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != ".lua" {
			continue
		}
		path := filepath.Join(dir, entry.Name())
		if err := e.vm.DoFile(path); err != nil {
			return fmt.Errorf("load %s: %w", path, err)
		}
		e.log.Debug("loaded lua script", zap.String("file", path))
	}
	return nil
}

// HasSourcePrecondition reports whether the scripts define the source
// precondition function.
func (e *Engine) HasSourcePrecondition() bool {
	return e.vm.GetGlobal(sourceFunc) != lua.LNil
}

// ShouldProduceCurrent calls the Lua source_should_produce function with a
// context table. Missing functions, errors and non-boolean results fall back
// to the built-in generator precondition.
func (e *Engine) ShouldProduceCurrent(in electrical.SourceInput) bool {
	fn := e.vm.GetGlobal(sourceFunc)
	if fn == lua.LNil {
		return e.fallback.ShouldProduceCurrent(in)
	}

	t := e.vm.NewTable()
	t.RawSetString("element", lua.LNumber(in.Element))
	t.RawSetString("type", lua.LString(in.Type.String()))
	t.RawSetString("producing", lua.LBool(in.IsProducingCurrent))
	t.RawSetString("water", lua.LNumber(in.Water))
	t.RawSetString("wet_threshold", lua.LNumber(in.WetThreshold))
	t.RawSetString("temperature", lua.LNumber(in.Temperature))

	rng := e.vm.NewTable()
	rng.RawSetString("min", lua.LNumber(in.Temperatures.Min))
	rng.RawSetString("max", lua.LNumber(in.Temperatures.Max))
	rng.RawSetString("hysteresis", lua.LNumber(in.Temperatures.Hysteresis))
	t.RawSetString("operating", rng)

	if err := e.vm.CallByParam(lua.P{
		Fn:      fn,
		NRet:    1,
		Protect: true,
	}, t); err != nil {
		e.log.Error("lua source_should_produce error", zap.Uint32("element", uint32(in.Element)), zap.Error(err))
		return e.fallback.ShouldProduceCurrent(in)
	}

	result := e.vm.Get(-1)
	e.vm.Pop(1)

	b, ok := result.(lua.LBool)
	if !ok {
		e.log.Error("lua source_should_produce returned non-boolean", zap.String("type", result.Type().String()))
		return e.fallback.ShouldProduceCurrent(in)
	}
	return bool(b)
}

// Close shuts down the Lua VM.
func (e *Engine) Close() {
	e.vm.Close()
}
