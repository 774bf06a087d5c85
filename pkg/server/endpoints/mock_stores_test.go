package endpoints

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/doodlesbykumbi/localauth/pkg/authority"
)

// MockLookupStore implements store.LookupStore for testing using testify/mock
type MockLookupStore struct {
	mock.Mock
}

func (m *MockLookupStore) EntriesByTerm(ctx context.Context, term, query string, scope authority.Scope) ([]authority.Hit, error) {
	args := m.Called(term, query, scope)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]authority.Hit), args.Error(1)
}

// MockHealthStore implements store.HealthStore for testing using testify/mock
type MockHealthStore struct {
	mock.Mock
}

func (m *MockHealthStore) CheckConnectivity(ctx context.Context) error {
	args := m.Called()
	return args.Error(0)
}
