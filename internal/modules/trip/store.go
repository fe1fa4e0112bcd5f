// README: Postgres-backed trip source (pgx); bulk import and full scan.
package trip

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"rideinsight/internal/types"
)

var tripColumns = []string{
	"trip_id", "booking_user_id", "pickup_address", "dropoff_address",
	"pickup_lat", "pickup_lng", "dropoff_lat", "dropoff_lng", "trip_at", "passengers",
}

// Store reads and writes the trips table.
type Store struct {
	db *pgxpool.Pool
}

// NewStore returns a Store backed by the given connection pool.
func NewStore(db *pgxpool.Pool) *Store {
	return &Store{db: db}
}

// ListAll scans every trip and returns them derived, in trip_at order.
func (s *Store) ListAll(ctx context.Context) ([]Trip, error) {
	rows, err := s.db.Query(ctx, `
		SELECT trip_id, booking_user_id, pickup_address, dropoff_address,
		       pickup_lat, pickup_lng, dropoff_lat, dropoff_lng, trip_at, passengers
		FROM trips
		ORDER BY trip_at, trip_id
	`)
	if err != nil {
		return nil, fmt.Errorf("query trips: %w", err)
	}
	defer rows.Close()

	var trips []Trip
	for rows.Next() {
		var (
			t  Trip
			id string
		)
		if err := rows.Scan(&id, &t.BookingUserID, &t.PickupAddress, &t.DropoffAddress,
			&t.Pickup.Lat, &t.Pickup.Lng, &t.Dropoff.Lat, &t.Dropoff.Lng, &t.At, &t.Passengers); err != nil {
			return nil, fmt.Errorf("scan trip: %w", err)
		}
		t.ID = types.ID(id)
		trips = append(trips, Derive(t))
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(trips) == 0 {
		return nil, ErrNoData
	}
	return trips, nil
}

// Import bulk-copies trips into the table and returns the row count.
func (s *Store) Import(ctx context.Context, trips []Trip) (int64, error) {
	n, err := s.db.CopyFrom(ctx, pgx.Identifier{"trips"}, tripColumns,
		pgx.CopyFromSlice(len(trips), func(i int) ([]any, error) {
			t := trips[i]
			return []any{
				string(t.ID), t.BookingUserID, t.PickupAddress, t.DropoffAddress,
				t.Pickup.Lat, t.Pickup.Lng, t.Dropoff.Lat, t.Dropoff.Lng, t.At, t.Passengers,
			}, nil
		}))
	if err != nil {
		return 0, fmt.Errorf("copy trips: %w", err)
	}
	return n, nil
}
