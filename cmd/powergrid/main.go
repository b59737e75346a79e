package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/hullsim/powergrid/internal/config"
	"github.com/hullsim/powergrid/internal/core/event"
	coresys "github.com/hullsim/powergrid/internal/core/system"
	"github.com/hullsim/powergrid/internal/data"
	"github.com/hullsim/powergrid/internal/electrical"
	"github.com/hullsim/powergrid/internal/ephemeral"
	"github.com/hullsim/powergrid/internal/notify"
	"github.com/hullsim/powergrid/internal/observability"
	"github.com/hullsim/powergrid/internal/persist"
	"github.com/hullsim/powergrid/internal/points"
	"github.com/hullsim/powergrid/internal/rng"
	"github.com/hullsim/powergrid/internal/scripting"
	"github.com/hullsim/powergrid/internal/ship"
	"github.com/hullsim/powergrid/internal/system"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "fatal: %v\n", err)
		os.Exit(1)
	}
}

// ── Startup display helpers ────────────────────────────────────────

func printBanner(shipName string, shipID uint32) {
	fmt.Println()
	fmt.Println("\033[36;1m  ┌───────────────────────────────────────────┐\033[0m")
	fmt.Println("\033[36;1m  │\033[0m             powergrid  v0.1.0             \033[36;1m│\033[0m")
	fmt.Println("\033[36;1m  │\033[0m       ship electrical network sim         \033[36;1m│\033[0m")
	fmt.Println("\033[36;1m  └───────────────────────────────────────────┘\033[0m")
	fmt.Println()
	fmt.Printf("  \033[1mship:\033[0m %s \033[90m(id: %d)\033[0m\n\n", shipName, shipID)
}

func printSection(title string) {
	lineLen := max(46-len(title)-1, 3)
	fmt.Printf("  \033[33m── %s %s\033[0m\n", title, strings.Repeat("─", lineLen))
}

func printStat(label string, count int) {
	numStr := fmt.Sprintf("%d", count)
	dotsLen := max(42-len(label)-len(numStr), 3)
	fmt.Printf("  %s \033[90m%s\033[0m \033[32m%s\033[0m\n", label, strings.Repeat("·", dotsLen), numStr)
}

func printOK(msg string) {
	fmt.Printf("  \033[32m✓\033[0m %s\n", msg)
}

func printReady(msg string) {
	fmt.Printf("  \033[32m▶\033[0m %s\n", msg)
}

// ── Simulation ────────────────────────────────────────────────────

func run() error {
	// 1. Load config
	cfgPath := "config/powergrid.toml"
	if p := os.Getenv("POWERGRID_CONFIG"); p != "" {
		cfgPath = p
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	// 2. Init logger
	log, err := newLogger(cfg.Logging)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer log.Sync()

	// 3. Load data
	materials, err := data.LoadMaterialTable(cfg.Data.MaterialsPath)
	if err != nil {
		return fmt.Errorf("materials: %w", err)
	}
	layout, err := data.LoadShipLayout(cfg.Data.ShipPath)
	if err != nil {
		return fmt.Errorf("ship: %w", err)
	}

	printBanner(layout.Name, cfg.Simulation.ShipID)

	printSection("data")
	printStat("electrical materials", materials.Count())
	printStat("elements", layout.Count())
	printStat("connections", len(layout.Connections))
	printStat("scenario actions", len(layout.Scenario))
	fmt.Println()

	// 4. Build the ship
	bus := event.NewBus()
	random := rng.New(cfg.Simulation.Seed)
	clock := system.NewClock(cfg.Simulation.StepDuration, time.Now)
	store := points.New(points.Config{
		SeaLevel:           cfg.World.SeaLevel,
		InitialTemperature: cfg.World.AirTemperature,
		HeatCapacity:       cfg.World.HeatCapacity,
		SmokeLifetime:      cfg.Ephemeral.SmokeLifetime,
		SparkleLifetime:    cfg.Ephemeral.SparkleLifetime,
		DebrisLifetime:     cfg.Ephemeral.DebrisLifetime,
		HighlightDuration:  cfg.World.HighlightTime,
	}, ephemeral.NewPool(cfg.Ephemeral.PoolSize))

	elements := electrical.NewElements(
		electrical.ShipID(cfg.Simulation.ShipID), store,
		notify.NewBusHandler(bus), random, cfg.ElectricalParameters())
	elements.SetDestroyHandler(system.NewDestroyEffects(clock, store, elements, random))

	hull, err := ship.Build(layout, materials, store, elements)
	if err != nil {
		return fmt.Errorf("build ship: %w", err)
	}

	// 5. Optional Lua source precondition
	if cfg.Scripting.Enabled {
		printSection("scripting")
		engine, err := scripting.NewEngine(cfg.Scripting.ScriptDir, log)
		if err != nil {
			return fmt.Errorf("scripting: %w", err)
		}
		defer engine.Close()
		if engine.HasSourcePrecondition() {
			elements.SetSourcePrecondition(electrical.Generator, engine)
			printOK("generator precondition from lua")
		} else {
			printOK("no lua precondition, using built-in")
		}
		fmt.Println()
	}

	// 6. Optional telemetry database
	var writer system.EventWriter
	if cfg.Database.Enabled {
		printSection("database")
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		db, err := persist.NewDB(ctx, cfg.Database, log)
		if err != nil {
			return fmt.Errorf("database: %w", err)
		}
		defer db.Close()
		printOK("PostgreSQL connected")

		version, err := persist.RunMigrations(ctx, db.Pool, log)
		if err != nil {
			return fmt.Errorf("migrations: %w", err)
		}
		printOK(fmt.Sprintf("migrations applied (schema v%d)", version))
		fmt.Println()

		writer = persist.NewEventRepo(db)
	}

	// 7. Metrics
	metrics, err := observability.NewElectricalCollector(nil)
	if err != nil {
		return fmt.Errorf("metrics: %w", err)
	}
	var metricsServer *http.Server
	if cfg.Metrics.Enabled {
		mux := http.NewServeMux()
		mux.Handle("/metrics", metrics.Handler())
		metricsServer = &http.Server{Addr: cfg.Metrics.BindAddress, Handler: mux}
		go func() {
			if err := metricsServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				log.Error("metrics server stopped", zap.Error(err))
			}
		}()
	}

	// 8. Create systems and register with runner
	notify.SubscribeLogger(bus, log)
	telemetry := system.NewTelemetrySystem(bus, clock, writer, metrics, log, system.TelemetryOptions{
		ShipID:     cfg.Simulation.ShipID,
		FlushEvery: cfg.Telemetry.FlushEvery,
		BufferSize: cfg.Telemetry.BufferSize,
		Retention:  cfg.Telemetry.Retention,
	})
	scenario := system.NewScenarioSystem(clock, hull, layout.Scenario, bus, log)

	runner := coresys.NewRunner()
	runner.Register(scenario)
	runner.Register(system.NewEventDispatchSystem(bus))
	electricalSystem := system.NewElectricalSystem(clock, elements, metrics, log)
	electricalSystem.CheckInvariantsEvery(cfg.Simulation.InvariantCheckEvery)
	runner.Register(electricalSystem)
	runner.Register(system.NewEphemeralSystem(clock, store, metrics))
	runner.Register(telemetry)
	runner.Observe(func(p coresys.Phase, d time.Duration) { metrics.ObservePhase(p, d) })

	elements.AnnounceInstancedElements()

	// 9. Start simulation loop
	shutdownCh := make(chan os.Signal, 1)
	signal.Notify(shutdownCh, syscall.SIGINT, syscall.SIGTERM)

	ticker := time.NewTicker(cfg.Simulation.TickRate)
	defer ticker.Stop()

	var deadline <-chan time.Time
	if cfg.Simulation.Duration > 0 {
		deadline = time.After(cfg.Simulation.Duration)
	}

	printSection("ready")
	if metricsServer != nil {
		printReady(fmt.Sprintf("metrics on http://%s/metrics", cfg.Metrics.BindAddress))
	}
	printReady(fmt.Sprintf("simulation loop started (tick: %s, step: %gs)", cfg.Simulation.TickRate, cfg.Simulation.StepDuration))
	fmt.Println()

	stop := func(reason string) error {
		log.Info("stopping simulation", zap.String("reason", reason))
		// Deliver the last step's notifications, then flush them.
		runner.TickPhase(coresys.PhaseDispatch, cfg.Simulation.TickRate)
		telemetry.Flush()

		if metricsServer != nil {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = metricsServer.Shutdown(ctx)
		}

		c := elements.Counts()
		log.Info("simulation stopped",
			zap.Stringer("generation", clock.Generation()),
			zap.Float64("sim_time", clock.SimulationTime()),
			zap.Int("powered", c.Powered),
			zap.Int("lit_lamps", c.LitLamps),
			zap.Int("deleted", c.Deleted),
			zap.Bool("scenario_done", scenario.Done()))
		return nil
	}

	for {
		select {
		case <-ticker.C:
			runner.Tick(cfg.Simulation.TickRate)
		case <-deadline:
			return stop("duration elapsed")
		case sig := <-shutdownCh:
			return stop(sig.String())
		}
	}
}

func newLogger(cfg config.LoggingConfig) (*zap.Logger, error) {
	var level zapcore.Level
	if err := level.UnmarshalText([]byte(cfg.Level)); err != nil {
		level = zapcore.InfoLevel
	}

	var zapCfg zap.Config
	if cfg.Format == "json" {
		zapCfg = zap.NewProductionConfig()
	} else {
		zapCfg = zap.NewDevelopmentConfig()
		zapCfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
		zapCfg.EncoderConfig.EncodeTime = zapcore.TimeEncoderOfLayout("15:04:05")
		zapCfg.EncoderConfig.ConsoleSeparator = "  "
		zapCfg.DisableCaller = true
		zapCfg.DisableStacktrace = true
	}
	zapCfg.Level = zap.NewAtomicLevelAt(level)

	return zapCfg.Build()
}
