// Package ports defines the interfaces the core services depend on but do
// not implement: the record store and the external user-key lookup. The
// core never imports database/sql or net/http directly.
package ports

import (
	"context"

	"github.com/ZeusWPI/ZNS/internal/core/domain"
)

// Repository is the abstract record store (C3): an RR lookup/mutation
// surface keyed on (name, type, class, rdata) tuples, with no notion of
// tenants, zones-as-rows, or IDs — the zone is a single configured suffix
// the caller already knows.
type Repository interface {
	// Get returns every RR at exactly name, optionally filtered to one
	// type. A nil qtype means "any type at this name".
	Get(ctx context.Context, name domain.Name, qtype *domain.RRType, class domain.Class) ([]domain.RR, error)

	// GetSuffix returns every RR whose owner name lies within suffix
	// (suffix itself included), for AXFR. Results
	// are sorted by descending name, as AXFR requires.
	GetSuffix(ctx context.Context, suffix domain.Name, class domain.Class) ([]domain.RR, error)

	// Insert adds one RR, failing if an RR with identical (name, type,
	// class, rdata) is already stored. Implementations enforce nothing
	// else — validation (CNAME exclusivity, illegal types, rdata size) is
	// the Update Executor's job, not the repository's.
	Insert(ctx context.Context, rr domain.RR) error

	// Delete removes RRs matching name and class, optionally narrowed by
	// qtype and/or exact rdata. A nil qtype matches any type; a nil rdata
	// matches any rdata.
	Delete(ctx context.Context, name domain.Name, qtype *domain.RRType, class domain.Class, rdata []byte) error

	// Ping verifies connectivity to the backing store.
	Ping(ctx context.Context) error
}

// KeyService is the external user-key HTTP collaborator (C5): given a
// principal name, it returns the set of OpenSSH public-key lines
// authorized to sign updates on that principal's behalf. A nil/empty
// result with no error means the principal has no registered keys.
type KeyService interface {
	SSHKeys(ctx context.Context, principal string) ([]string, error)
}
