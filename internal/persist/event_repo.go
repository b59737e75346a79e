package persist

import (
	"context"
	"fmt"
	"time"
)

// EventRecord is one persisted electrical notification.
type EventRecord struct {
	ShipID     uint32
	Element    *uint32 // nil for ship-wide events such as light flicker
	Kind       string  // "probe_toggled", "switch_toggled", "switch_enabled", "light_flicker", ...
	State      string
	Detail     string
	Generation uint32
	SimTime    float64
}

type EventRepo struct {
	db *DB
}

func NewEventRepo(db *DB) *EventRepo {
	return &EventRepo{db: db}
}

// WriteEvents atomically writes a batch of events in a single transaction.
func (r *EventRepo) WriteEvents(ctx context.Context, events []EventRecord) error {
	if len(events) == 0 {
		return nil
	}
	tx, err := r.db.Pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("events begin: %w", err)
	}
	defer tx.Rollback(ctx)

	for _, e := range events {
		var element *int32
		if e.Element != nil {
			v := int32(*e.Element)
			element = &v
		}
		if _, err := tx.Exec(ctx,
			`INSERT INTO electrical_events (ship_id, element, kind, state, detail, generation, sim_time)
			 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
			int32(e.ShipID), element, e.Kind, e.State, e.Detail, int64(e.Generation), e.SimTime,
		); err != nil {
			return fmt.Errorf("events insert: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("events commit: %w", err)
	}
	return nil
}

// DeleteBefore drops events recorded before the cutoff and returns how many
// rows went.
func (r *EventRepo) DeleteBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	tag, err := r.db.Pool.Exec(ctx,
		`DELETE FROM electrical_events WHERE recorded_at < $1`, cutoff,
	)
	if err != nil {
		return 0, fmt.Errorf("events prune: %w", err)
	}
	return tag.RowsAffected(), nil
}

// CountByKind returns the number of stored events per kind for a ship.
func (r *EventRepo) CountByKind(ctx context.Context, shipID uint32) (map[string]int64, error) {
	rows, err := r.db.Pool.Query(ctx,
		`SELECT kind, COUNT(*) FROM electrical_events WHERE ship_id = $1 GROUP BY kind`,
		int32(shipID),
	)
	if err != nil {
		return nil, fmt.Errorf("events count: %w", err)
	}
	defer rows.Close()

	counts := make(map[string]int64)
	for rows.Next() {
		var kind string
		var n int64
		if err := rows.Scan(&kind, &n); err != nil {
			return nil, fmt.Errorf("events count scan: %w", err)
		}
		counts[kind] = n
	}
	return counts, rows.Err()
}
