package service

import (
	"context"

	"github.com/phrazzld/workspace-api/internal/domain"
	"github.com/stretchr/testify/mock"
)

// MockRecordStore mocks the store.RecordStore interface
type MockRecordStore struct {
	mock.Mock
}

func (m *MockRecordStore) GetByID(ctx context.Context, id int64) (*domain.Record, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Record), args.Error(1)
}

func (m *MockRecordStore) SearchIDsByName(
	ctx context.Context,
	query string,
	limit int,
) ([]int64, error) {
	args := m.Called(ctx, query, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]int64), args.Error(1)
}

// MockRecordLookup mocks the RecordLookup interface
type MockRecordLookup struct {
	mock.Mock
}

func (m *MockRecordLookup) LookupRecord(ctx context.Context, id int64) (*domain.Record, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Record), args.Error(1)
}

// MockNotifier mocks the Notifier interface
type MockNotifier struct {
	mock.Mock
}

func (m *MockNotifier) Notify(ctx context.Context, message string) {
	m.Called(ctx, message)
}
