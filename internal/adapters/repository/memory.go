package repository

import (
	"bytes"
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/ZeusWPI/ZNS/internal/core/domain"
)

// MemoryRepository is an in-memory ports.Repository, used by tests and the
// standalone/dev server mode where no Postgres instance is wired up. It
// keeps all records in one slice in insertion order; GetSuffix sorts
// its result by descending name, matching PostgresRepository's ORDER BY.
type MemoryRepository struct {
	mu      sync.RWMutex
	records []domain.RR
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{}
}

func (m *MemoryRepository) Get(ctx context.Context, name domain.Name, qtype *domain.RRType, class domain.Class) ([]domain.RR, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var out []domain.RR
	for _, rr := range m.records {
		if !rr.Name.Equal(name) || rr.Class != class {
			continue
		}
		if qtype != nil && rr.Type != *qtype {
			continue
		}
		out = append(out, rr)
	}
	return out, nil
}

// GetSuffix returns every record whose name has suffix, sorted by
// descending name — AXFR's consumer relies on this ordering.
func (m *MemoryRepository) GetSuffix(ctx context.Context, suffix domain.Name, class domain.Class) ([]domain.RR, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var out []domain.RR
	for _, rr := range m.records {
		if rr.Class != class || !rr.Name.HasSuffix(suffix) {
			continue
		}
		out = append(out, rr)
	}
	sort.SliceStable(out, func(i, j int) bool {
		return strings.Compare(out[i].Name.String(), out[j].Name.String()) > 0
	})
	return out, nil
}

func (m *MemoryRepository) Insert(ctx context.Context, rr domain.RR) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, e := range m.records {
		if e.Name.Equal(rr.Name) && e.Type == rr.Type && e.Class == rr.Class && bytes.Equal(e.RData, rr.RData) {
			return domain.NewError(domain.ErrRepository, "memory: duplicate insert", nil)
		}
	}
	m.records = append(m.records, rr)
	return nil
}

func (m *MemoryRepository) Delete(ctx context.Context, name domain.Name, qtype *domain.RRType, class domain.Class, rdata []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	kept := m.records[:0]
	for _, rr := range m.records {
		match := rr.Name.Equal(name) && rr.Class == class
		if match && qtype != nil {
			match = rr.Type == *qtype
		}
		if match && rdata != nil {
			match = bytes.Equal(rr.RData, rdata)
		}
		if match {
			continue
		}
		kept = append(kept, rr)
	}
	m.records = kept
	return nil
}

func (m *MemoryRepository) Ping(ctx context.Context) error {
	return nil
}
