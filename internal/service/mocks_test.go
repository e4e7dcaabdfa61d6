package service

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"dayzone/internal/model"
	"dayzone/internal/repository"
)

// MockUserRepository is a mock implementation of UserRepository.
type MockUserRepository struct {
	mock.Mock
}

var _ repository.UserRepository = (*MockUserRepository)(nil)

func (m *MockUserRepository) Create(ctx context.Context, user *model.User) error {
	args := m.Called(ctx, user)
	if args.Error(0) == nil && user.ID == 0 {
		user.ID = 1
	}
	return args.Error(0)
}

func (m *MockUserRepository) FindByID(ctx context.Context, id uint) (*model.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *MockUserRepository) FindByUsername(ctx context.Context, username string) (*model.User, error) {
	args := m.Called(ctx, username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *MockUserRepository) List(ctx context.Context) ([]model.User, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.User), args.Error(1)
}

func (m *MockUserRepository) Update(ctx context.Context, user *model.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) Delete(ctx context.Context, id uint) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// MockTokenStore is a mock implementation of TokenStoreInterface.
type MockTokenStore struct {
	mock.Mock
}

func (m *MockTokenStore) Revoke(ctx context.Context, tokenID string, ttl time.Duration) error {
	args := m.Called(ctx, tokenID, ttl)
	return args.Error(0)
}

func (m *MockTokenStore) IsRevoked(ctx context.Context, tokenID string) (bool, error) {
	args := m.Called(ctx, tokenID)
	return args.Bool(0), args.Error(1)
}

// MockStalkerRepository is a mock implementation of StalkerRepository.
type MockStalkerRepository struct {
	mock.Mock
}

var _ repository.StalkerRepository = (*MockStalkerRepository)(nil)

func (m *MockStalkerRepository) List(ctx context.Context, filter repository.StalkerFilter) ([]model.Stalker, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Stalker), args.Error(1)
}

func (m *MockStalkerRepository) FindByID(ctx context.Context, id uint) (*model.Stalker, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Stalker), args.Error(1)
}

func (m *MockStalkerRepository) FindDuplicate(ctx context.Context, callsign, faceID string, excludeID uint) (*model.Stalker, error) {
	args := m.Called(ctx, callsign, faceID, excludeID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Stalker), args.Error(1)
}

func (m *MockStalkerRepository) Create(ctx context.Context, stalker *model.Stalker) error {
	args := m.Called(ctx, stalker)
	return args.Error(0)
}

func (m *MockStalkerRepository) Update(ctx context.Context, stalker *model.Stalker) error {
	args := m.Called(ctx, stalker)
	return args.Error(0)
}

func (m *MockStalkerRepository) Delete(ctx context.Context, id uint) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockStalkerRepository) CountByPhotoRef(ctx context.Context, ref string) (int64, error) {
	args := m.Called(ctx, ref)
	return args.Get(0).(int64), args.Error(1)
}

// MockPhotoReleaser is a mock implementation of PhotoReleaser.
type MockPhotoReleaser struct {
	mock.Mock
}

func (m *MockPhotoReleaser) Release(ctx context.Context, kind, ref string) error {
	args := m.Called(ctx, kind, ref)
	return args.Error(0)
}
