package patient

import (
	"fmt"
	"sync"

	"github.com/kumohax/platform/pkg/common/models"
)

// Store is the in-memory patient record store. It lives for the process
// lifetime; records are never deleted. Writes replace whole records so
// readers never observe partial mutation, and batch writes happen under a
// single lock so concurrent uploads cannot interleave partial row sets.
type Store struct {
	mu      sync.RWMutex
	byID    map[string]int
	rows    []models.EnrichedPatient
	counter int
}

func NewStore() *Store {
	return &Store{
		byID:    make(map[string]int),
		counter: 1000,
	}
}

// Upsert stores a patient row. A duplicate id deterministically overwrites
// the existing record in place; store size is unchanged in that case.
func (s *Store) Upsert(row models.EnrichedPatient) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.upsertLocked(row)
}

// UpsertBatch stores a set of rows atomically with respect to readers.
func (s *Store) UpsertBatch(rows []models.EnrichedPatient) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, row := range rows {
		s.upsertLocked(row)
	}
}

func (s *Store) upsertLocked(row models.EnrichedPatient) bool {
	if idx, ok := s.byID[row.ID]; ok {
		s.rows[idx] = row
		return true
	}
	s.byID[row.ID] = len(s.rows)
	s.rows = append(s.rows, row)
	return false
}

func (s *Store) Get(id string) (models.EnrichedPatient, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	idx, ok := s.byID[id]
	if !ok {
		return models.EnrichedPatient{}, false
	}
	return s.rows[idx], true
}

// List returns a copy of every stored row in insertion order.
func (s *Store) List() []models.EnrichedPatient {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.EnrichedPatient, len(s.rows))
	copy(out, s.rows)
	return out
}

// Profiles returns the bare patient profiles in insertion order.
func (s *Store) Profiles() []models.PatientProfile {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.PatientProfile, len(s.rows))
	for i, row := range s.rows {
		out[i] = row.PatientProfile
	}
	return out
}

func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.rows)
}

// NextPatientID mints a sequential P-NNNN identifier that is not already in
// use, for patients created without an id.
func (s *Store) NextPatientID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	for {
		id := fmt.Sprintf("P-%03d", s.counter)
		s.counter++
		if _, taken := s.byID[id]; !taken {
			return id
		}
	}
}

// Has reports whether an id is present without copying the record.
func (s *Store) Has(id string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.byID[id]
	return ok
}
