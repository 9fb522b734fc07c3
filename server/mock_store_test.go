package server

import (
	"context"
	"sync"

	"github.com/Daskott/contacts/server/models"
)

// mockStore is a ContactStore whose behaviour is set per test. Calls are counted.
type mockStore struct {
	mu    sync.Mutex
	calls map[string]int

	ListFunc       func(ctx context.Context) ([]*models.Contact, error)
	FindByIDFunc   func(ctx context.Context, id string) (*models.Contact, error)
	InsertFunc     func(ctx context.Context, contact *models.Contact) (string, error)
	UpdateByIDFunc func(ctx context.Context, id string, patch *models.ContactPatch) (*models.Contact, error)
	DeleteByIDFunc func(ctx context.Context, id string) (bool, error)
}

func newMockStore() *mockStore {
	return &mockStore{calls: map[string]int{}}
}

func (m *mockStore) record(name string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls[name]++
}

func (m *mockStore) Calls(name string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls[name]
}

func (m *mockStore) TotalCalls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	total := 0
	for _, n := range m.calls {
		total += n
	}
	return total
}

func (m *mockStore) List(ctx context.Context) ([]*models.Contact, error) {
	m.record("List")
	if m.ListFunc == nil {
		return []*models.Contact{}, nil
	}
	return m.ListFunc(ctx)
}

func (m *mockStore) FindByID(ctx context.Context, id string) (*models.Contact, error) {
	m.record("FindByID")
	if m.FindByIDFunc == nil {
		return nil, models.ErrNotFound
	}
	return m.FindByIDFunc(ctx, id)
}

func (m *mockStore) Insert(ctx context.Context, contact *models.Contact) (string, error) {
	m.record("Insert")
	if m.InsertFunc == nil {
		return models.NewID(), nil
	}
	return m.InsertFunc(ctx, contact)
}

func (m *mockStore) UpdateByID(ctx context.Context, id string, patch *models.ContactPatch) (*models.Contact, error) {
	m.record("UpdateByID")
	if m.UpdateByIDFunc == nil {
		return nil, models.ErrNotFound
	}
	return m.UpdateByIDFunc(ctx, id, patch)
}

func (m *mockStore) DeleteByID(ctx context.Context, id string) (bool, error) {
	m.record("DeleteByID")
	if m.DeleteByIDFunc == nil {
		return false, nil
	}
	return m.DeleteByIDFunc(ctx, id)
}
