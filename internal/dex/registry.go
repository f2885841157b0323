package dex

import "github.com/kapu/pokedex-kakao-bot-go/internal/domain"

// Registry is an insertion-ordered collection of caught creatures, unique
// by id. It is plain in-memory state; snapshot persistence is owned by the
// collection service.
type Registry struct {
	records []domain.CaughtRecord
	byID    map[int]struct{}
}

func NewRegistry() *Registry {
	return &Registry{
		byID: make(map[int]struct{}),
	}
}

// RegistryFromRecords rehydrates a registry from a stored snapshot.
// Duplicate ids are dropped keeping the first occurrence, so a snapshot
// written by an older build can never violate the uniqueness invariant.
func RegistryFromRecords(records []domain.CaughtRecord) *Registry {
	r := NewRegistry()
	for _, rec := range records {
		r.Register(rec)
	}
	return r
}

// Register appends the record unless its id is already present.
// Returns true when the record was inserted.
func (r *Registry) Register(rec domain.CaughtRecord) bool {
	if _, exists := r.byID[rec.ID]; exists {
		return false
	}
	r.byID[rec.ID] = struct{}{}
	r.records = append(r.records, rec)
	return true
}

func (r *Registry) Contains(id int) bool {
	_, exists := r.byID[id]
	return exists
}

func (r *Registry) Len() int {
	return len(r.records)
}

// Records returns the caught list in insertion order. The slice is a copy;
// callers cannot mutate registry state through it.
func (r *Registry) Records() []domain.CaughtRecord {
	out := make([]domain.CaughtRecord, len(r.records))
	copy(out, r.records)
	return out
}
