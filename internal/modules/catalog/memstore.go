// README: In-memory catalog store; backs tests and DB-less demo runs.
package catalog

import (
	"context"
	"sync"
	"time"

	"commutebill/internal/types"
)

// MemStore keeps models and assignments in maps keyed by scope pair. A
// single mutex serializes writes, which trivially gives the
// single-writer-per-key discipline the overlap invariant needs. Reads copy
// values out, so callers never observe a half-written model.
type MemStore struct {
	mu          sync.RWMutex
	models      map[string][]BillingModel    // clientID|vendorID
	byID        map[types.ID]*modelRef       // id -> location in models
	assignments map[string][]PackageAssignment // employeeID|vendorID
}

type modelRef struct {
	key string
	idx int
}

func NewMemStore() *MemStore {
	return &MemStore{
		models:      make(map[string][]BillingModel),
		byID:        make(map[types.ID]*modelRef),
		assignments: make(map[string][]PackageAssignment),
	}
}

func pairKey(a, b types.ID) string { return string(a) + "|" + string(b) }

func (s *MemStore) CreateModel(_ context.Context, m *BillingModel) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := pairKey(m.ClientID, m.VendorID)
	for _, existing := range s.models[key] {
		if overlaps(m.EffectiveFrom, m.EffectiveUntil, existing.EffectiveFrom, existing.EffectiveUntil) {
			return ErrOverlap
		}
	}
	s.models[key] = append(s.models[key], *m)
	s.byID[m.ID] = &modelRef{key: key, idx: len(s.models[key]) - 1}
	return nil
}

func (s *MemStore) ResolveModel(_ context.Context, clientID, vendorID types.ID, at time.Time) (*BillingModel, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for i := range s.models[pairKey(clientID, vendorID)] {
		m := s.models[pairKey(clientID, vendorID)][i]
		if m.EffectiveAt(at) {
			return &m, nil
		}
	}
	return nil, ErrNotFound
}

func (s *MemStore) ListEffectiveByClient(_ context.Context, clientID types.ID, at time.Time) ([]BillingModel, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []BillingModel
	for _, models := range s.models {
		for _, m := range models {
			if m.ClientID == clientID && m.EffectiveAt(at) {
				out = append(out, m)
			}
		}
	}
	return out, nil
}

func (s *MemStore) ListEffectiveByVendor(_ context.Context, vendorID types.ID, at time.Time) ([]BillingModel, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []BillingModel
	for _, models := range s.models {
		for _, m := range models {
			if m.VendorID == vendorID && m.EffectiveAt(at) {
				out = append(out, m)
			}
		}
	}
	return out, nil
}

func (s *MemStore) ListEffective(_ context.Context, at time.Time) ([]BillingModel, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []BillingModel
	for _, models := range s.models {
		for _, m := range models {
			if m.EffectiveAt(at) {
				out = append(out, m)
			}
		}
	}
	return out, nil
}

func (s *MemStore) CloseModel(_ context.Context, id types.ID, asOf time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	ref, ok := s.byID[id]
	if !ok {
		return ErrNotFound
	}
	m := &s.models[ref.key][ref.idx]
	if m.EffectiveUntil == nil || asOf.Before(*m.EffectiveUntil) {
		until := asOf
		m.EffectiveUntil = &until
	}
	return nil
}

func (s *MemStore) CreateAssignment(_ context.Context, a *PackageAssignment) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := pairKey(a.EmployeeID, a.VendorID)
	for _, existing := range s.assignments[key] {
		if overlaps(a.ValidFrom, a.ValidUntil, existing.ValidFrom, existing.ValidUntil) {
			return ErrOverlap
		}
	}
	s.assignments[key] = append(s.assignments[key], *a)
	return nil
}

func (s *MemStore) ResolveAssignment(_ context.Context, employeeID, vendorID types.ID, at time.Time) (*PackageAssignment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, a := range s.assignments[pairKey(employeeID, vendorID)] {
		if a.ValidAt(at) {
			out := a
			return &out, nil
		}
	}
	return nil, ErrNotFound
}
