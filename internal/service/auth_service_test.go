package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"dayzone/internal/auth"
	"dayzone/internal/cache"
	apperrors "dayzone/internal/errors"
	"dayzone/internal/model"
)

func TestAuthService_Register(t *testing.T) {
	tests := []struct {
		name          string
		username      string
		password      string
		setupMock     func(*MockUserRepository)
		expectedError error
	}{
		{
			name:     "successful registration",
			username: "strelok",
			password: "password123",
			setupMock: func(m *MockUserRepository) {
				m.On("FindByUsername", mock.Anything, "strelok").Return(nil, apperrors.NotFound("user not found"))
				m.On("Create", mock.Anything, mock.AnythingOfType("*model.User")).Return(nil)
			},
			expectedError: nil,
		},
		{
			name:     "user already exists",
			username: "existing",
			password: "password123",
			setupMock: func(m *MockUserRepository) {
				m.On("FindByUsername", mock.Anything, "existing").Return(&model.User{ID: 5, Username: "existing"}, nil)
			},
			expectedError: apperrors.ErrConflict,
		},
		{
			name:     "lost race on unique index",
			username: "racer",
			password: "password123",
			setupMock: func(m *MockUserRepository) {
				m.On("FindByUsername", mock.Anything, "racer").Return(nil, apperrors.NotFound("user not found"))
				m.On("Create", mock.Anything, mock.AnythingOfType("*model.User")).Return(apperrors.Conflict("username already taken"))
			},
			expectedError: apperrors.ErrConflict,
		},
		{
			name:          "username too short",
			username:      "ab",
			password:      "password123",
			setupMock:     func(m *MockUserRepository) {},
			expectedError: apperrors.ErrValidation,
		},
		{
			name:          "password too short",
			username:      "strelok",
			password:      "12345",
			setupMock:     func(m *MockUserRepository) {},
			expectedError: apperrors.ErrValidation,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockRepo := new(MockUserRepository)
			tt.setupMock(mockRepo)

			jwtService := auth.NewJWTService("test-secret", time.Hour)
			svc := NewAuthService(mockRepo, jwtService, new(MockTokenStore), bcrypt.MinCost)
			session, err := svc.Register(context.Background(), tt.username, tt.password)

			if tt.expectedError != nil {
				assert.Error(t, err)
				assert.True(t, errors.Is(err, tt.expectedError))
				assert.Nil(t, session)
			} else {
				require.NoError(t, err)
				require.NotNil(t, session)
				assert.NotEmpty(t, session.Token)
				assert.Equal(t, tt.username, session.User.Username)
				assert.Equal(t, model.RoleNeutral, session.User.Role)
				assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(session.User.PasswordHash), []byte(tt.password)))
			}

			mockRepo.AssertExpectations(t)
		})
	}
}

func TestAuthService_Login(t *testing.T) {
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.MinCost)
	require.NoError(t, err)

	tests := []struct {
		name          string
		username      string
		password      string
		setupMock     func(*MockUserRepository)
		expectedError error
	}{
		{
			name:     "successful login",
			username: "strelok",
			password: "password123",
			setupMock: func(m *MockUserRepository) {
				m.On("FindByUsername", mock.Anything, "strelok").Return(&model.User{
					ID:           3,
					Username:     "strelok",
					PasswordHash: string(hashedPassword),
					Role:         model.RoleLoner,
				}, nil)
			},
			expectedError: nil,
		},
		{
			name:     "invalid credentials - user not found",
			username: "ghost",
			password: "password123",
			setupMock: func(m *MockUserRepository) {
				m.On("FindByUsername", mock.Anything, "ghost").Return(nil, apperrors.NotFound("user not found"))
			},
			expectedError: ErrInvalidCredentials,
		},
		{
			name:     "invalid credentials - wrong password",
			username: "strelok",
			password: "wrong-password",
			setupMock: func(m *MockUserRepository) {
				m.On("FindByUsername", mock.Anything, "strelok").Return(&model.User{
					ID:           3,
					Username:     "strelok",
					PasswordHash: string(hashedPassword),
				}, nil)
			},
			expectedError: ErrInvalidCredentials,
		},
		{
			name:     "store failure is not reported as bad credentials",
			username: "strelok",
			password: "password123",
			setupMock: func(m *MockUserRepository) {
				m.On("FindByUsername", mock.Anything, "strelok").Return(nil, apperrors.Store("find user", errors.New("connection reset")))
			},
			expectedError: apperrors.ErrStore,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockRepo := new(MockUserRepository)
			tt.setupMock(mockRepo)

			jwtService := auth.NewJWTService("test-secret", time.Hour)
			svc := NewAuthService(mockRepo, jwtService, new(MockTokenStore), bcrypt.MinCost)

			session, err := svc.Login(context.Background(), tt.username, tt.password)

			if tt.expectedError != nil {
				assert.Error(t, err)
				assert.True(t, errors.Is(err, tt.expectedError))
				assert.Nil(t, session)
			} else {
				require.NoError(t, err)
				assert.NotEmpty(t, session.Token)
				assert.Equal(t, tt.username, session.User.Username)

				claims, err := jwtService.Verify(session.Token)
				require.NoError(t, err)
				assert.Equal(t, uint(3), claims.UserID)
			}

			mockRepo.AssertExpectations(t)
		})
	}
}

func authReason(t *testing.T, err error) apperrors.AuthReason {
	t.Helper()
	var authErr *apperrors.AuthError
	require.True(t, errors.As(err, &authErr), "expected AuthError, got %v", err)
	return authErr.Reason
}

func TestAuthService_Authenticate(t *testing.T) {
	jwtService := auth.NewJWTService("test-secret", time.Hour)
	token, _, err := jwtService.Issue(9, "sidorovich")
	require.NoError(t, err)
	claims, err := jwtService.Verify(token)
	require.NoError(t, err)

	t.Run("fresh role comes from the store", func(t *testing.T) {
		mockRepo := new(MockUserRepository)
		mockStore := new(MockTokenStore)
		mockStore.On("IsRevoked", mock.Anything, claims.ID).Return(false, nil)
		mockRepo.On("FindByID", mock.Anything, uint(9)).Return(&model.User{ID: 9, Username: "sidorovich", Role: model.RoleAdmin}, nil)

		svc := NewAuthService(mockRepo, jwtService, mockStore, bcrypt.MinCost)
		principal, err := svc.Authenticate(context.Background(), token)

		require.NoError(t, err)
		assert.Equal(t, uint(9), principal.UserID)
		assert.Equal(t, model.RoleAdmin, principal.Role)
		assert.Equal(t, claims.ID, principal.TokenID)
		mockRepo.AssertExpectations(t)
	})

	t.Run("deleted user", func(t *testing.T) {
		mockRepo := new(MockUserRepository)
		mockStore := new(MockTokenStore)
		mockStore.On("IsRevoked", mock.Anything, claims.ID).Return(false, nil)
		mockRepo.On("FindByID", mock.Anything, uint(9)).Return(nil, apperrors.NotFound("user not found"))

		svc := NewAuthService(mockRepo, jwtService, mockStore, bcrypt.MinCost)
		_, err := svc.Authenticate(context.Background(), token)

		assert.True(t, errors.Is(err, apperrors.ErrUnauthorized))
		assert.Equal(t, apperrors.ReasonUserNotFound, authReason(t, err))
	})

	t.Run("revoked token", func(t *testing.T) {
		mockRepo := new(MockUserRepository)
		mockStore := new(MockTokenStore)
		mockStore.On("IsRevoked", mock.Anything, claims.ID).Return(true, nil)

		svc := NewAuthService(mockRepo, jwtService, mockStore, bcrypt.MinCost)
		_, err := svc.Authenticate(context.Background(), token)

		assert.Equal(t, apperrors.ReasonRevoked, authReason(t, err))
		mockRepo.AssertNotCalled(t, "FindByID", mock.Anything, mock.Anything)
	})

	t.Run("missing token", func(t *testing.T) {
		svc := NewAuthService(new(MockUserRepository), jwtService, new(MockTokenStore), bcrypt.MinCost)
		_, err := svc.Authenticate(context.Background(), "")
		assert.Equal(t, apperrors.ReasonMissing, authReason(t, err))
	})

	t.Run("foreign signature", func(t *testing.T) {
		foreign, _, err := auth.NewJWTService("other-secret", time.Hour).Issue(9, "sidorovich")
		require.NoError(t, err)

		mockRepo := new(MockUserRepository)
		svc := NewAuthService(mockRepo, jwtService, new(MockTokenStore), bcrypt.MinCost)
		_, err = svc.Authenticate(context.Background(), foreign)

		assert.Equal(t, apperrors.ReasonSignatureMismatch, authReason(t, err))
		mockRepo.AssertNotCalled(t, "FindByID", mock.Anything, mock.Anything)
	})
}

func TestAuthService_LogoutRevokesToken(t *testing.T) {
	jwtService := auth.NewJWTService("test-secret", time.Hour)
	tokenStore := auth.NewTokenStore(cache.NewMemory())
	mockRepo := new(MockUserRepository)
	mockRepo.On("FindByID", mock.Anything, uint(4)).Return(&model.User{ID: 4, Username: "nimble", Role: model.RoleLoner}, nil)

	svc := NewAuthService(mockRepo, jwtService, tokenStore, bcrypt.MinCost)
	token, _, err := jwtService.Issue(4, "nimble")
	require.NoError(t, err)

	principal, err := svc.Authenticate(context.Background(), token)
	require.NoError(t, err)

	require.NoError(t, svc.Logout(context.Background(), principal))

	_, err = svc.Authenticate(context.Background(), token)
	assert.Equal(t, apperrors.ReasonRevoked, authReason(t, err))

	other, _, err := jwtService.Issue(4, "nimble")
	require.NoError(t, err)
	_, err = svc.Authenticate(context.Background(), other)
	assert.NoError(t, err)
}
