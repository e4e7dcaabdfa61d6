package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"dayzone/internal/auth"
	apperrors "dayzone/internal/errors"
	"dayzone/internal/model"
)

func TestUserService_DeleteUser(t *testing.T) {
	tests := []struct {
		name          string
		caller        auth.Principal
		targetID      uint
		setupMock     func(*MockUserRepository)
		expectedError error
	}{
		{
			name:     "admin deletes another user",
			caller:   admin,
			targetID: 2,
			setupMock: func(m *MockUserRepository) {
				m.On("Delete", mock.Anything, uint(2)).Return(nil)
			},
		},
		{
			name:          "admin cannot delete self",
			caller:        admin,
			targetID:      admin.UserID,
			setupMock:     func(m *MockUserRepository) {},
			expectedError: apperrors.ErrForbidden,
		},
		{
			name:          "non admin cannot delete",
			caller:        dutyMan,
			targetID:      3,
			setupMock:     func(m *MockUserRepository) {},
			expectedError: apperrors.ErrForbidden,
		},
		{
			name:          "non admin cannot delete self either",
			caller:        dutyMan,
			targetID:      dutyMan.UserID,
			setupMock:     func(m *MockUserRepository) {},
			expectedError: apperrors.ErrForbidden,
		},
		{
			name:     "missing user",
			caller:   admin,
			targetID: 99,
			setupMock: func(m *MockUserRepository) {
				m.On("Delete", mock.Anything, uint(99)).Return(apperrors.NotFound("user not found"))
			},
			expectedError: apperrors.ErrNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(MockUserRepository)
			tt.setupMock(repo)
			svc := NewUserService(repo)

			err := svc.DeleteUser(context.Background(), tt.caller, tt.targetID)

			if tt.expectedError != nil {
				assert.True(t, errors.Is(err, tt.expectedError), "got %v", err)
			} else {
				assert.NoError(t, err)
			}
			repo.AssertExpectations(t)
		})
	}
}

func TestUserService_UpdateUser(t *testing.T) {
	t.Run("admin changes role", func(t *testing.T) {
		repo := new(MockUserRepository)
		repo.On("FindByID", mock.Anything, uint(2)).Return(&model.User{ID: 2, Username: "degtyarev", Role: model.RoleDuty}, nil)
		repo.On("Update", mock.Anything, mock.AnythingOfType("*model.User")).Return(nil)

		svc := NewUserService(repo)
		got, err := svc.UpdateUser(context.Background(), admin, 2, UpdateUserInput{Role: strPtr("freedom")})

		require.NoError(t, err)
		assert.Equal(t, model.RoleFreedom, got.Role)
		assert.Equal(t, "degtyarev", got.Username)
	})

	t.Run("unknown role", func(t *testing.T) {
		repo := new(MockUserRepository)
		repo.On("FindByID", mock.Anything, uint(2)).Return(&model.User{ID: 2, Username: "degtyarev", Role: model.RoleDuty}, nil)

		svc := NewUserService(repo)
		_, err := svc.UpdateUser(context.Background(), admin, 2, UpdateUserInput{Role: strPtr("Ecologist")})

		assert.True(t, errors.Is(err, apperrors.ErrValidation))
		repo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
	})

	t.Run("username taken", func(t *testing.T) {
		repo := new(MockUserRepository)
		repo.On("FindByID", mock.Anything, uint(2)).Return(&model.User{ID: 2, Username: "degtyarev", Role: model.RoleDuty}, nil)
		repo.On("FindByUsername", mock.Anything, "strelok").Return(&model.User{ID: 3, Username: "strelok"}, nil)

		svc := NewUserService(repo)
		_, err := svc.UpdateUser(context.Background(), admin, 2, UpdateUserInput{Username: strPtr("strelok")})

		assert.True(t, errors.Is(err, apperrors.ErrConflict))
	})

	t.Run("non admin", func(t *testing.T) {
		repo := new(MockUserRepository)
		svc := NewUserService(repo)
		_, err := svc.UpdateUser(context.Background(), dutyMan, 2, UpdateUserInput{Role: strPtr("Admin")})

		assert.True(t, errors.Is(err, apperrors.ErrForbidden))
		repo.AssertNotCalled(t, "FindByID", mock.Anything, mock.Anything)
	})
}

func TestUserService_ListUsers(t *testing.T) {
	repo := new(MockUserRepository)
	repo.On("List", mock.Anything).Return([]model.User{{ID: 1}, {ID: 2}}, nil)
	svc := NewUserService(repo)

	users, err := svc.ListUsers(context.Background(), admin)
	require.NoError(t, err)
	assert.Len(t, users, 2)

	_, err = svc.ListUsers(context.Background(), freeMan)
	assert.True(t, errors.Is(err, apperrors.ErrForbidden))
	repo.AssertNumberOfCalls(t, "List", 1)
}
