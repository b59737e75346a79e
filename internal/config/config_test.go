package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "powergrid.toml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoadAppliesDefaults(t *testing.T) {
	cfg, err := Load(writeConfig(t, "[logging]\nlevel = \"debug\"\n"))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Logging.Level != "debug" {
		t.Fatalf("Logging.Level = %q, want debug", cfg.Logging.Level)
	}
	if cfg.Logging.Format != "console" {
		t.Fatalf("Logging.Format = %q, want console", cfg.Logging.Format)
	}
	p := cfg.ElectricalParameters()
	if p.WaterSwitchHighWatermark != 0.45 || p.GeneratorWetThreshold != 0.3 {
		t.Fatalf("ElectricalParameters() = %+v", p)
	}
	if cfg.Simulation.StartTime == 0 {
		t.Fatal("StartTime not set")
	}
}

func TestLoadOverrides(t *testing.T) {
	cfg, err := Load(writeConfig(t, `
[simulation]
tick_rate = "50ms"
seed = 9

[electrical]
flicker_a_interval = "200ms"
show_notifications = false

[ephemeral]
pool_size = 16
`))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Simulation.TickRate != 50*time.Millisecond {
		t.Fatalf("TickRate = %s, want 50ms", cfg.Simulation.TickRate)
	}
	if cfg.Simulation.Seed != 9 {
		t.Fatalf("Seed = %d, want 9", cfg.Simulation.Seed)
	}
	p := cfg.ElectricalParameters()
	if p.FlickerAInterval != 200*time.Millisecond || p.ShowNotifications {
		t.Fatalf("ElectricalParameters() = %+v", p)
	}
	if cfg.Ephemeral.PoolSize != 16 {
		t.Fatalf("PoolSize = %d, want 16", cfg.Ephemeral.PoolSize)
	}
}

func TestLoadRejectsInvertedWatermarks(t *testing.T) {
	_, err := Load(writeConfig(t, `
[electrical]
water_switch_low_watermark = 0.5
water_switch_high_watermark = 0.4
`))
	if err == nil || !strings.Contains(err.Error(), "watermarks") {
		t.Fatalf("Load() error = %v, want watermark error", err)
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing.toml")); err == nil {
		t.Fatal("Load() error = nil, want error")
	}
}

func TestShippedConfigLoads(t *testing.T) {
	cfg, err := Load(filepath.Join("..", "..", "config", "powergrid.toml"))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Simulation.TickRate != 15625*time.Microsecond {
		t.Fatalf("TickRate = %s, want 15.625ms", cfg.Simulation.TickRate)
	}
	if cfg.Telemetry.Retention != 168*time.Hour {
		t.Fatalf("Retention = %s, want 168h", cfg.Telemetry.Retention)
	}
	if cfg.Simulation.InvariantCheckEvery != 640 {
		t.Fatalf("InvariantCheckEvery = %d, want 640", cfg.Simulation.InvariantCheckEvery)
	}
}
