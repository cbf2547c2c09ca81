// README: In-memory trip-usage store; backs tests and DB-less demo runs.
package usage

import (
	"context"
	"sync"

	"commutebill/internal/types"
)

type MemStore struct {
	mu      sync.RWMutex
	records []TripUsageRecord
	seen    map[types.ID]bool
}

func NewMemStore() *MemStore {
	return &MemStore{seen: make(map[types.ID]bool)}
}

func (s *MemStore) Record(_ context.Context, r *TripUsageRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.seen[r.TripID] {
		return nil
	}
	s.seen[r.TripID] = true
	s.records = append(s.records, *r)
	return nil
}

func (s *MemStore) ListForPair(_ context.Context, clientID, vendorID types.ID, period types.Period) ([]TripUsageRecord, error) {
	return s.filter(func(r TripUsageRecord) bool {
		return r.ClientID == clientID && r.VendorID == vendorID && period.Contains(r.StartTime)
	}), nil
}

func (s *MemStore) ListForClient(_ context.Context, clientID types.ID, period types.Period) ([]TripUsageRecord, error) {
	return s.filter(func(r TripUsageRecord) bool {
		return r.ClientID == clientID && period.Contains(r.StartTime)
	}), nil
}

func (s *MemStore) ListForVendor(_ context.Context, vendorID types.ID, period types.Period) ([]TripUsageRecord, error) {
	return s.filter(func(r TripUsageRecord) bool {
		return r.VendorID == vendorID && period.Contains(r.StartTime)
	}), nil
}

func (s *MemStore) ListForEmployee(_ context.Context, employeeID types.ID, period types.Period) ([]TripUsageRecord, error) {
	return s.filter(func(r TripUsageRecord) bool {
		return r.EmployeeID == employeeID && period.Contains(r.StartTime)
	}), nil
}

func (s *MemStore) filter(keep func(TripUsageRecord) bool) []TripUsageRecord {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []TripUsageRecord
	for _, r := range s.records {
		if keep(r) {
			out = append(out, r)
		}
	}
	return out
}
