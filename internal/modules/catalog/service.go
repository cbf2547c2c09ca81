// README: Catalog service; validates configs and delegates persistence.
package catalog

import (
	"context"
	"time"

	"commutebill/internal/types"
)

// Store is the persistence capability the service needs. Both
// implementations (Postgres, memory) serialize writes per (client, vendor)
// so the no-overlap invariant holds under concurrent creates.
type Store interface {
	CreateModel(ctx context.Context, m *BillingModel) error
	ResolveModel(ctx context.Context, clientID, vendorID types.ID, at time.Time) (*BillingModel, error)
	ListEffectiveByClient(ctx context.Context, clientID types.ID, at time.Time) ([]BillingModel, error)
	ListEffectiveByVendor(ctx context.Context, vendorID types.ID, at time.Time) ([]BillingModel, error)
	ListEffective(ctx context.Context, at time.Time) ([]BillingModel, error)
	CloseModel(ctx context.Context, id types.ID, asOf time.Time) error

	CreateAssignment(ctx context.Context, a *PackageAssignment) error
	ResolveAssignment(ctx context.Context, employeeID, vendorID types.ID, at time.Time) (*PackageAssignment, error)
}

type Service struct {
	store Store
}

func NewService(store Store) *Service {
	return &Service{store: store}
}

// Create validates the configuration and persists it. The store rejects the
// insert with ErrOverlap when another model for the same (client, vendor)
// pair covers any instant of the new range.
func (s *Service) Create(ctx context.Context, m *BillingModel) (*BillingModel, error) {
	if err := m.Validate(); err != nil {
		return nil, err
	}
	if m.ID == "" {
		m.ID = types.NewID()
	}
	if err := s.store.CreateModel(ctx, m); err != nil {
		return nil, err
	}
	return m, nil
}

// Resolve returns the single model effective for the pair at the given
// instant, or ErrNotFound.
func (s *Service) Resolve(ctx context.Context, clientID, vendorID types.ID, at time.Time) (*BillingModel, error) {
	return s.store.ResolveModel(ctx, clientID, vendorID, at)
}

// EffectiveByClient lists every vendor model in force for the client at the
// given instant.
func (s *Service) EffectiveByClient(ctx context.Context, clientID types.ID, at time.Time) ([]BillingModel, error) {
	return s.store.ListEffectiveByClient(ctx, clientID, at)
}

// EffectiveByVendor lists every client model in force for the vendor at the
// given instant.
func (s *Service) EffectiveByVendor(ctx context.Context, vendorID types.ID, at time.Time) ([]BillingModel, error) {
	return s.store.ListEffectiveByVendor(ctx, vendorID, at)
}

// Effective lists every model in force anywhere on the platform at the
// given instant.
func (s *Service) Effective(ctx context.Context, at time.Time) ([]BillingModel, error) {
	return s.store.ListEffective(ctx, at)
}

// Deactivate closes an open-ended model as of the given instant. Already
// computed charges are never revisited; closing only stops future resolves.
func (s *Service) Deactivate(ctx context.Context, id types.ID, asOf time.Time) error {
	return s.store.CloseModel(ctx, id, asOf)
}

// Assign links an employee to a package model. At most one assignment per
// (employee, vendor) may be valid at any instant; assignments to different
// vendors may coexist.
func (s *Service) Assign(ctx context.Context, a *PackageAssignment) (*PackageAssignment, error) {
	if err := a.Validate(); err != nil {
		return nil, err
	}
	if a.ID == "" {
		a.ID = types.NewID()
	}
	if err := s.store.CreateAssignment(ctx, a); err != nil {
		return nil, err
	}
	return a, nil
}

// AssignmentFor resolves the assignment valid for (employee, vendor) at the
// given instant, or ErrNotFound.
func (s *Service) AssignmentFor(ctx context.Context, employeeID, vendorID types.ID, at time.Time) (*PackageAssignment, error) {
	return s.store.ResolveAssignment(ctx, employeeID, vendorID, at)
}
