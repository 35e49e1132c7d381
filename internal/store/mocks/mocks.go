package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/0xkamalei/timetrace/internal/domain/activity"
	"github.com/0xkamalei/timetrace/internal/domain/project"
	"github.com/0xkamalei/timetrace/internal/domain/timeentry"
	"github.com/0xkamalei/timetrace/internal/store"
)

// ActivityStore is a mock for store.ActivityStore.
type ActivityStore struct {
	mock.Mock
}

func (m *ActivityStore) All(ctx context.Context) ([]activity.Record, error) {
	args := m.Called(ctx)
	if recs, ok := args.Get(0).([]activity.Record); ok {
		return recs, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *ActivityStore) ByIDs(ctx context.Context, ids []string) ([]activity.Record, error) {
	args := m.Called(ctx, ids)
	if recs, ok := args.Get(0).([]activity.Record); ok {
		return recs, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *ActivityStore) Query(ctx context.Context, q store.ActivityQuery) ([]activity.Record, error) {
	args := m.Called(ctx, q)
	if recs, ok := args.Get(0).([]activity.Record); ok {
		return recs, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *ActivityStore) Create(ctx context.Context, rec *activity.Record) error {
	args := m.Called(ctx, rec)
	return args.Error(0)
}

func (m *ActivityStore) Update(ctx context.Context, rec *activity.Record) error {
	args := m.Called(ctx, rec)
	return args.Error(0)
}

func (m *ActivityStore) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// TimeEntryStore is a mock for store.TimeEntryStore.
type TimeEntryStore struct {
	mock.Mock
}

func (m *TimeEntryStore) All(ctx context.Context) ([]timeentry.Record, error) {
	args := m.Called(ctx)
	if recs, ok := args.Get(0).([]timeentry.Record); ok {
		return recs, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *TimeEntryStore) ByIDs(ctx context.Context, ids []string) ([]timeentry.Record, error) {
	args := m.Called(ctx, ids)
	if recs, ok := args.Get(0).([]timeentry.Record); ok {
		return recs, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *TimeEntryStore) Query(ctx context.Context, q store.TimeEntryQuery) ([]timeentry.Record, error) {
	args := m.Called(ctx, q)
	if recs, ok := args.Get(0).([]timeentry.Record); ok {
		return recs, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *TimeEntryStore) Create(ctx context.Context, rec *timeentry.Record) error {
	args := m.Called(ctx, rec)
	return args.Error(0)
}

func (m *TimeEntryStore) Update(ctx context.Context, rec *timeentry.Record) error {
	args := m.Called(ctx, rec)
	return args.Error(0)
}

func (m *TimeEntryStore) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// ProjectStore is a mock for store.ProjectStore.
type ProjectStore struct {
	mock.Mock
}

func (m *ProjectStore) All(ctx context.Context) ([]project.Record, error) {
	args := m.Called(ctx)
	if recs, ok := args.Get(0).([]project.Record); ok {
		return recs, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *ProjectStore) ByIDs(ctx context.Context, ids []string) ([]project.Record, error) {
	args := m.Called(ctx, ids)
	if recs, ok := args.Get(0).([]project.Record); ok {
		return recs, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *ProjectStore) Query(ctx context.Context, q store.ProjectQuery) ([]project.Record, error) {
	args := m.Called(ctx, q)
	if recs, ok := args.Get(0).([]project.Record); ok {
		return recs, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *ProjectStore) Create(ctx context.Context, rec *project.Record) error {
	args := m.Called(ctx, rec)
	return args.Error(0)
}

func (m *ProjectStore) Update(ctx context.Context, rec *project.Record) error {
	args := m.Called(ctx, rec)
	return args.Error(0)
}

func (m *ProjectStore) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}
