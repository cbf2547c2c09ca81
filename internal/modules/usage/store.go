// README: Trip-usage store backed by PostgreSQL.
package usage

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"commutebill/internal/types"
)

type PGStore struct {
	db *pgxpool.Pool
}

func NewPGStore(db *pgxpool.Pool) *PGStore {
	return &PGStore{db: db}
}

const tripColumns = `
	trip_id, employee_id, client_id, vendor_id,
	start_time, distance_km::text, duration_minutes, total_cost::text`

// Record inserts a trip fact. Re-deliveries from the tracking service are
// absorbed by the primary key (ON CONFLICT DO NOTHING).
func (s *PGStore) Record(ctx context.Context, r *TripUsageRecord) error {
	var cost *string
	if r.TotalCost != nil {
		v := r.TotalCost.String()
		cost = &v
	}
	_, err := s.db.Exec(ctx, `
		INSERT INTO trip_usage (
			trip_id, employee_id, client_id, vendor_id,
			start_time, distance_km, duration_minutes, total_cost
		) VALUES ($1, $2, $3, $4, $5, $6::numeric, $7, $8::numeric)
		ON CONFLICT (trip_id) DO NOTHING`,
		string(r.TripID), string(r.EmployeeID), string(r.ClientID), string(r.VendorID),
		r.StartTime, r.DistanceKm.String(), r.DurationMinutes, cost,
	)
	return err
}

// ListForPair returns every trip for (client, vendor) inside the period.
func (s *PGStore) ListForPair(ctx context.Context, clientID, vendorID types.ID, period types.Period) ([]TripUsageRecord, error) {
	rows, err := s.db.Query(ctx, `
		SELECT `+tripColumns+`
		FROM trip_usage
		WHERE client_id = $1 AND vendor_id = $2
		  AND start_time >= $3 AND start_time < $4
		ORDER BY start_time`,
		string(clientID), string(vendorID), period.Start, period.End,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectRecords(rows)
}

// ListForClient returns every trip billed to the client inside the period,
// across all vendors.
func (s *PGStore) ListForClient(ctx context.Context, clientID types.ID, period types.Period) ([]TripUsageRecord, error) {
	rows, err := s.db.Query(ctx, `
		SELECT `+tripColumns+`
		FROM trip_usage
		WHERE client_id = $1 AND start_time >= $2 AND start_time < $3
		ORDER BY start_time`,
		string(clientID), period.Start, period.End,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectRecords(rows)
}

// ListForVendor returns every trip served by the vendor inside the period,
// across all clients.
func (s *PGStore) ListForVendor(ctx context.Context, vendorID types.ID, period types.Period) ([]TripUsageRecord, error) {
	rows, err := s.db.Query(ctx, `
		SELECT `+tripColumns+`
		FROM trip_usage
		WHERE vendor_id = $1 AND start_time >= $2 AND start_time < $3
		ORDER BY start_time`,
		string(vendorID), period.Start, period.End,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectRecords(rows)
}

// ListForEmployee returns the employee's trips inside the period, in start
// order, for the per-trip incentive breakdown.
func (s *PGStore) ListForEmployee(ctx context.Context, employeeID types.ID, period types.Period) ([]TripUsageRecord, error) {
	rows, err := s.db.Query(ctx, `
		SELECT `+tripColumns+`
		FROM trip_usage
		WHERE employee_id = $1 AND start_time >= $2 AND start_time < $3
		ORDER BY start_time`,
		string(employeeID), period.Start, period.End,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectRecords(rows)
}

func collectRecords(rows pgx.Rows) ([]TripUsageRecord, error) {
	var out []TripUsageRecord
	for rows.Next() {
		var r TripUsageRecord
		var km string
		var cost *string
		if err := rows.Scan(
			&r.TripID, &r.EmployeeID, &r.ClientID, &r.VendorID,
			&r.StartTime, &km, &r.DurationMinutes, &cost,
		); err != nil {
			return nil, err
		}
		var err error
		if r.DistanceKm, err = decimal.NewFromString(km); err != nil {
			return nil, err
		}
		if cost != nil {
			c, err := decimal.NewFromString(*cost)
			if err != nil {
				return nil, err
			}
			r.TotalCost = &c
		}
		out = append(out, r)
	}
	return out, rows.Err()
}
