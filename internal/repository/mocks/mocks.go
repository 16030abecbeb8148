package mocks

import (
	"context"

	"github.com/rpggio/timebank/internal/domain/activity"
	"github.com/rpggio/timebank/internal/domain/journal"
	"github.com/rpggio/timebank/internal/domain/regime"
	"github.com/rpggio/timebank/internal/domain/stamp"
	"github.com/rpggio/timebank/internal/domain/user"
	"github.com/stretchr/testify/mock"
)

// ActivityRepository is a mock for activity.Repository.
type ActivityRepository struct {
	mock.Mock
}

func (m *ActivityRepository) Create(ctx context.Context, userID string, act *activity.Activity) error {
	args := m.Called(ctx, userID, act)
	return args.Error(0)
}

func (m *ActivityRepository) Get(ctx context.Context, userID, id string) (*activity.Activity, error) {
	args := m.Called(ctx, userID, id)
	if act, ok := args.Get(0).(*activity.Activity); ok {
		return act, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *ActivityRepository) List(ctx context.Context, userID string) ([]activity.Activity, error) {
	args := m.Called(ctx, userID)
	if list, ok := args.Get(0).([]activity.Activity); ok {
		return list, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *ActivityRepository) Update(ctx context.Context, userID string, act *activity.Activity) error {
	args := m.Called(ctx, userID, act)
	return args.Error(0)
}

func (m *ActivityRepository) Delete(ctx context.Context, userID, id string) error {
	args := m.Called(ctx, userID, id)
	return args.Error(0)
}

// StampRepository is a mock for stamp.Repository.
type StampRepository struct {
	mock.Mock
}

func (m *StampRepository) Create(ctx context.Context, userID string, st *stamp.Stamp) error {
	args := m.Called(ctx, userID, st)
	return args.Error(0)
}

func (m *StampRepository) Get(ctx context.Context, userID, id string) (*stamp.Stamp, error) {
	args := m.Called(ctx, userID, id)
	if st, ok := args.Get(0).(*stamp.Stamp); ok {
		return st, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *StampRepository) Update(ctx context.Context, userID string, st *stamp.Stamp) error {
	args := m.Called(ctx, userID, st)
	return args.Error(0)
}

func (m *StampRepository) Delete(ctx context.Context, userID, id string) error {
	args := m.Called(ctx, userID, id)
	return args.Error(0)
}

func (m *StampRepository) List(ctx context.Context, userID string, opts stamp.ListOptions) ([]stamp.Stamp, error) {
	args := m.Called(ctx, userID, opts)
	if list, ok := args.Get(0).([]stamp.Stamp); ok {
		return list, args.Error(1)
	}
	return nil, args.Error(1)
}

// RegimeRepository is a mock for regime.Repository.
type RegimeRepository struct {
	mock.Mock
}

func (m *RegimeRepository) Create(ctx context.Context, userID string, r *regime.Regime) error {
	args := m.Called(ctx, userID, r)
	return args.Error(0)
}

func (m *RegimeRepository) Get(ctx context.Context, userID, id string) (*regime.Regime, error) {
	args := m.Called(ctx, userID, id)
	if r, ok := args.Get(0).(*regime.Regime); ok {
		return r, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *RegimeRepository) List(ctx context.Context, userID string) ([]regime.Regime, error) {
	args := m.Called(ctx, userID)
	if list, ok := args.Get(0).([]regime.Regime); ok {
		return list, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *RegimeRepository) Update(ctx context.Context, userID string, r *regime.Regime) error {
	args := m.Called(ctx, userID, r)
	return args.Error(0)
}

func (m *RegimeRepository) Delete(ctx context.Context, userID, id string) error {
	args := m.Called(ctx, userID, id)
	return args.Error(0)
}

// UserRepository is a mock for user.Repository.
type UserRepository struct {
	mock.Mock
}

func (m *UserRepository) Create(ctx context.Context, u *user.User) error {
	args := m.Called(ctx, u)
	return args.Error(0)
}

func (m *UserRepository) Get(ctx context.Context, id string) (*user.User, error) {
	args := m.Called(ctx, id)
	if u, ok := args.Get(0).(*user.User); ok {
		return u, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *UserRepository) GetByUsername(ctx context.Context, username string) (*user.User, error) {
	args := m.Called(ctx, username)
	if u, ok := args.Get(0).(*user.User); ok {
		return u, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *UserRepository) Update(ctx context.Context, u *user.User) error {
	args := m.Called(ctx, u)
	return args.Error(0)
}

func (m *UserRepository) List(ctx context.Context) ([]user.User, error) {
	args := m.Called(ctx)
	if list, ok := args.Get(0).([]user.User); ok {
		return list, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *UserRepository) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// JournalRepository is a mock for journal.Repository.
type JournalRepository struct {
	mock.Mock
}

func (m *JournalRepository) Log(ctx context.Context, userID string, entry *journal.Entry) error {
	args := m.Called(ctx, userID, entry)
	return args.Error(0)
}

func (m *JournalRepository) List(ctx context.Context, userID string, opts journal.ListOptions) ([]journal.Entry, error) {
	args := m.Called(ctx, userID, opts)
	if list, ok := args.Get(0).([]journal.Entry); ok {
		return list, args.Error(1)
	}
	return nil, args.Error(1)
}
