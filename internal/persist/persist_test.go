package persist

import (
	"context"
	"io/fs"
	"os"
	"strings"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/hullsim/powergrid/internal/config"
)

func TestMigrationsEmbedded(t *testing.T) {
	entries, err := fs.ReadDir(migrations, "migrations")
	if err != nil {
		t.Fatalf("ReadDir() error = %v", err)
	}
	if len(entries) == 0 {
		t.Fatal("no migrations embedded")
	}
	raw, err := fs.ReadFile(migrations, "migrations/"+entries[0].Name())
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(raw), "-- +goose Up") || !strings.Contains(string(raw), "-- +goose Down") {
		t.Fatalf("%s lacks goose annotations", entries[0].Name())
	}
}

// Runs against a live Postgres when POWERGRID_TEST_DSN is set.
func TestEventRepoRoundTrip(t *testing.T) {
	dsn := os.Getenv("POWERGRID_TEST_DSN")
	if dsn == "" {
		t.Skip("POWERGRID_TEST_DSN not set")
	}
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	db, err := NewDB(ctx, config.DatabaseConfig{DSN: dsn, MaxOpenConns: 2, MaxIdleConns: 1, ConnMaxLifetime: time.Minute}, zap.NewNop())
	if err != nil {
		t.Fatalf("NewDB() error = %v", err)
	}
	defer db.Close()
	if _, err := RunMigrations(ctx, db.Pool, zap.NewNop()); err != nil {
		t.Fatalf("RunMigrations() error = %v", err)
	}

	const ship = 4242
	repo := NewEventRepo(db)
	if _, err := db.Pool.Exec(ctx, `DELETE FROM electrical_events WHERE ship_id = $1`, ship); err != nil {
		t.Fatal(err)
	}

	elem := uint32(3)
	err = repo.WriteEvents(ctx, []EventRecord{
		{ShipID: ship, Element: &elem, Kind: "switch_toggled", State: "on", Generation: 1, SimTime: 0.1},
		{ShipID: ship, Kind: "light_flicker", Detail: "short", Generation: 2, SimTime: 0.2},
		{ShipID: ship, Element: &elem, Kind: "switch_toggled", State: "off", Generation: 3, SimTime: 0.3},
	})
	if err != nil {
		t.Fatalf("WriteEvents() error = %v", err)
	}

	counts, err := repo.CountByKind(ctx, ship)
	if err != nil {
		t.Fatalf("CountByKind() error = %v", err)
	}
	if counts["switch_toggled"] != 2 || counts["light_flicker"] != 1 {
		t.Fatalf("CountByKind() = %v", counts)
	}

	if _, err := repo.DeleteBefore(ctx, time.Now().Add(time.Hour)); err != nil {
		t.Fatalf("DeleteBefore() error = %v", err)
	}
	counts, err = repo.CountByKind(ctx, ship)
	if err != nil {
		t.Fatal(err)
	}
	if len(counts) != 0 {
		t.Fatalf("CountByKind() after prune = %v, want empty", counts)
	}
}
