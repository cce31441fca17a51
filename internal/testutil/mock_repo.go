// Package testutil provides testify-based mocks for the core ports, used
// where a test needs to script exactly what the repository or key service
// returns rather than drive a real in-memory store.
package testutil

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/ZeusWPI/ZNS/internal/core/domain"
)

// MockRepository is a testify mock implementing ports.Repository.
type MockRepository struct {
	mock.Mock
}

func (m *MockRepository) Get(ctx context.Context, name domain.Name, qtype *domain.RRType, class domain.Class) ([]domain.RR, error) {
	args := m.Called(ctx, name, qtype, class)
	rrs, _ := args.Get(0).([]domain.RR)
	return rrs, args.Error(1)
}

func (m *MockRepository) GetSuffix(ctx context.Context, suffix domain.Name, class domain.Class) ([]domain.RR, error) {
	args := m.Called(ctx, suffix, class)
	rrs, _ := args.Get(0).([]domain.RR)
	return rrs, args.Error(1)
}

func (m *MockRepository) Insert(ctx context.Context, rr domain.RR) error {
	args := m.Called(ctx, rr)
	return args.Error(0)
}

func (m *MockRepository) Delete(ctx context.Context, name domain.Name, qtype *domain.RRType, class domain.Class, rdata []byte) error {
	args := m.Called(ctx, name, qtype, class, rdata)
	return args.Error(0)
}

func (m *MockRepository) Ping(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

// MockKeyService is a testify mock implementing ports.KeyService.
type MockKeyService struct {
	mock.Mock
}

func (m *MockKeyService) SSHKeys(ctx context.Context, principal string) ([]string, error) {
	args := m.Called(ctx, principal)
	keys, _ := args.Get(0).([]string)
	return keys, args.Error(1)
}
