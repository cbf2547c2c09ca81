// README: Catalog store backed by PostgreSQL.
package catalog

import (
	"context"
	"errors"
	"time"

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

const modelColumns = `
	id, client_id, vendor_id, model_type,
	rate_per_trip::text, rate_per_km::text,
	package_monthly_rate::text, package_trips_included, package_kms_included::text,
	extra_trip_rate::text, extra_km_rate::text, extra_hour_rate::text, overtime_rate::text,
	standard_trip_km::text, standard_trip_hours::text,
	effective_from, effective_until`

// CreateModel inserts inside a transaction holding a per-pair advisory lock,
// so concurrent creates for the same (client, vendor) serialize and the
// overlap check cannot race.
func (s *PGStore) CreateModel(ctx context.Context, m *BillingModel) error {
	tx, err := s.db.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx,
		`SELECT pg_advisory_xact_lock(hashtext($1))`,
		pairKey(m.ClientID, m.VendorID),
	); err != nil {
		return err
	}

	var conflict bool
	err = tx.QueryRow(ctx, `
		SELECT EXISTS (
			SELECT 1 FROM billing_models
			WHERE client_id = $1 AND vendor_id = $2
			  AND effective_from < COALESCE($4, 'infinity'::timestamptz)
			  AND COALESCE(effective_until, 'infinity'::timestamptz) > $3
		)`,
		string(m.ClientID), string(m.VendorID), m.EffectiveFrom, m.EffectiveUntil,
	).Scan(&conflict)
	if err != nil {
		return err
	}
	if conflict {
		return ErrOverlap
	}

	var ratePerTrip, ratePerKm *string
	if m.Trip != nil {
		ratePerTrip = decStr(m.Trip.RatePerTrip)
		ratePerKm = decStr(m.Trip.RatePerKm)
	}
	var monthlyRate, kmsIncluded *string
	var tripsIncluded *int64
	if m.Package != nil {
		monthlyRate = decStr(m.Package.MonthlyRate)
		kmsIncluded = decStr(m.Package.KmsIncluded)
		tripsIncluded = &m.Package.TripsIncluded
	}

	if _, err := tx.Exec(ctx, `
		INSERT INTO billing_models (
			id, client_id, vendor_id, model_type,
			rate_per_trip, rate_per_km,
			package_monthly_rate, package_trips_included, package_kms_included,
			extra_trip_rate, extra_km_rate, extra_hour_rate, overtime_rate,
			standard_trip_km, standard_trip_hours,
			effective_from, effective_until
		) VALUES (
			$1, $2, $3, $4,
			$5::numeric, $6::numeric,
			$7::numeric, $8, $9::numeric,
			$10::numeric, $11::numeric, $12::numeric, $13::numeric,
			$14::numeric, $15::numeric,
			$16, $17
		)`,
		string(m.ID), string(m.ClientID), string(m.VendorID), string(m.Type),
		ratePerTrip, ratePerKm,
		monthlyRate, tripsIncluded, kmsIncluded,
		m.Overage.ExtraTripRate.String(), m.Overage.ExtraKmRate.String(),
		m.Overage.ExtraHourRate.String(), m.Overage.OvertimeRate.String(),
		m.Standard.TripKm.String(), m.Standard.TripHours.String(),
		m.EffectiveFrom, m.EffectiveUntil,
	); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

func (s *PGStore) ResolveModel(ctx context.Context, clientID, vendorID types.ID, at time.Time) (*BillingModel, error) {
	row := s.db.QueryRow(ctx, `
		SELECT `+modelColumns+`
		FROM billing_models
		WHERE client_id = $1 AND vendor_id = $2
		  AND effective_from <= $3
		  AND COALESCE(effective_until, 'infinity'::timestamptz) > $3`,
		string(clientID), string(vendorID), at,
	)
	m, err := scanModel(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	return m, err
}

func (s *PGStore) ListEffectiveByClient(ctx context.Context, clientID types.ID, at time.Time) ([]BillingModel, error) {
	rows, err := s.db.Query(ctx, `
		SELECT `+modelColumns+`
		FROM billing_models
		WHERE client_id = $1
		  AND effective_from <= $2
		  AND COALESCE(effective_until, 'infinity'::timestamptz) > $2
		ORDER BY vendor_id`,
		string(clientID), at,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectModels(rows)
}

func (s *PGStore) ListEffectiveByVendor(ctx context.Context, vendorID types.ID, at time.Time) ([]BillingModel, error) {
	rows, err := s.db.Query(ctx, `
		SELECT `+modelColumns+`
		FROM billing_models
		WHERE vendor_id = $1
		  AND effective_from <= $2
		  AND COALESCE(effective_until, 'infinity'::timestamptz) > $2
		ORDER BY client_id`,
		string(vendorID), at,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectModels(rows)
}

func (s *PGStore) ListEffective(ctx context.Context, at time.Time) ([]BillingModel, error) {
	rows, err := s.db.Query(ctx, `
		SELECT `+modelColumns+`
		FROM billing_models
		WHERE effective_from <= $1
		  AND COALESCE(effective_until, 'infinity'::timestamptz) > $1
		ORDER BY client_id, vendor_id`,
		at,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectModels(rows)
}

func (s *PGStore) CloseModel(ctx context.Context, id types.ID, asOf time.Time) error {
	tag, err := s.db.Exec(ctx, `
		UPDATE billing_models
		SET effective_until = LEAST(COALESCE(effective_until, 'infinity'::timestamptz), $2)
		WHERE id = $1`,
		string(id), asOf,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *PGStore) CreateAssignment(ctx context.Context, a *PackageAssignment) error {
	tx, err := s.db.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx,
		`SELECT pg_advisory_xact_lock(hashtext($1))`,
		pairKey(a.EmployeeID, a.VendorID),
	); err != nil {
		return err
	}

	var conflict bool
	err = tx.QueryRow(ctx, `
		SELECT EXISTS (
			SELECT 1 FROM package_assignments
			WHERE employee_id = $1 AND vendor_id = $2
			  AND valid_from < COALESCE($4, 'infinity'::timestamptz)
			  AND COALESCE(valid_until, 'infinity'::timestamptz) > $3
		)`,
		string(a.EmployeeID), string(a.VendorID), a.ValidFrom, a.ValidUntil,
	).Scan(&conflict)
	if err != nil {
		return err
	}
	if conflict {
		return ErrOverlap
	}

	if _, err := tx.Exec(ctx, `
		INSERT INTO package_assignments (
			id, employee_id, client_id, vendor_id, package_id, valid_from, valid_until
		) VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		string(a.ID), string(a.EmployeeID), string(a.ClientID), string(a.VendorID),
		string(a.PackageID), a.ValidFrom, a.ValidUntil,
	); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

func (s *PGStore) ResolveAssignment(ctx context.Context, employeeID, vendorID types.ID, at time.Time) (*PackageAssignment, error) {
	row := s.db.QueryRow(ctx, `
		SELECT id, employee_id, client_id, vendor_id, package_id, valid_from, valid_until
		FROM package_assignments
		WHERE employee_id = $1 AND vendor_id = $2
		  AND valid_from <= $3
		  AND COALESCE(valid_until, 'infinity'::timestamptz) > $3`,
		string(employeeID), string(vendorID), at,
	)

	var a PackageAssignment
	var until *time.Time
	err := row.Scan(&a.ID, &a.EmployeeID, &a.ClientID, &a.VendorID, &a.PackageID, &a.ValidFrom, &until)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	a.ValidUntil = until
	return &a, nil
}

func collectModels(rows pgx.Rows) ([]BillingModel, error) {
	var out []BillingModel
	for rows.Next() {
		m, err := scanModel(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *m)
	}
	return out, rows.Err()
}

func scanModel(row pgx.Row) (*BillingModel, error) {
	var m BillingModel
	var ratePerTrip, ratePerKm *string
	var monthlyRate, kmsIncluded *string
	var tripsIncluded *int64
	var extraTrip, extraKm, extraHour, overtime, stdKm, stdHours string
	var until *time.Time

	err := row.Scan(
		&m.ID, &m.ClientID, &m.VendorID, &m.Type,
		&ratePerTrip, &ratePerKm,
		&monthlyRate, &tripsIncluded, &kmsIncluded,
		&extraTrip, &extraKm, &extraHour, &overtime,
		&stdKm, &stdHours,
		&m.EffectiveFrom, &until,
	)
	if err != nil {
		return nil, err
	}
	m.EffectiveUntil = until

	if ratePerTrip != nil && ratePerKm != nil {
		trip := &TripPricing{}
		if trip.RatePerTrip, err = decimal.NewFromString(*ratePerTrip); err != nil {
			return nil, err
		}
		if trip.RatePerKm, err = decimal.NewFromString(*ratePerKm); err != nil {
			return nil, err
		}
		m.Trip = trip
	}
	if monthlyRate != nil && tripsIncluded != nil && kmsIncluded != nil {
		pkg := &PackagePricing{TripsIncluded: *tripsIncluded}
		if pkg.MonthlyRate, err = decimal.NewFromString(*monthlyRate); err != nil {
			return nil, err
		}
		if pkg.KmsIncluded, err = decimal.NewFromString(*kmsIncluded); err != nil {
			return nil, err
		}
		m.Package = pkg
	}
	for dst, src := range map[*decimal.Decimal]string{
		&m.Overage.ExtraTripRate: extraTrip,
		&m.Overage.ExtraKmRate:   extraKm,
		&m.Overage.ExtraHourRate: extraHour,
		&m.Overage.OvertimeRate:  overtime,
		&m.Standard.TripKm:       stdKm,
		&m.Standard.TripHours:    stdHours,
	} {
		if *dst, err = decimal.NewFromString(src); err != nil {
			return nil, err
		}
	}
	return &m, nil
}

func decStr(d decimal.Decimal) *string {
	s := d.String()
	return &s
}
