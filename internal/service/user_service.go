package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"dayzone/internal/auth"
	apperrors "dayzone/internal/errors"
	"dayzone/internal/model"
	"dayzone/internal/policy"
	"dayzone/internal/repository"
)

// UpdateUserInput holds optional changes to a user account.
type UpdateUserInput struct {
	Username *string
	Role     *string
}

// UserService exposes user administration. Every operation is Admin only.
type UserService interface {
	ListUsers(ctx context.Context, caller auth.Principal) ([]model.User, error)
	GetUser(ctx context.Context, caller auth.Principal, id uint) (*model.User, error)
	UpdateUser(ctx context.Context, caller auth.Principal, id uint, input UpdateUserInput) (*model.User, error)
	// DeleteUser removes the account together with its ledger entries.
	DeleteUser(ctx context.Context, caller auth.Principal, id uint) error
}

type userService struct {
	repo repository.UserRepository
}

// NewUserService builds a UserService.
func NewUserService(repo repository.UserRepository) UserService {
	return &userService{repo: repo}
}

func (s *userService) ListUsers(ctx context.Context, caller auth.Principal) ([]model.User, error) {
	if !policy.CanMutateUser(caller.Role) {
		return nil, apperrors.Forbidden("admin role required")
	}
	return s.repo.List(ctx)
}

func (s *userService) GetUser(ctx context.Context, caller auth.Principal, id uint) (*model.User, error) {
	if !policy.CanMutateUser(caller.Role) {
		return nil, apperrors.Forbidden("admin role required")
	}
	return s.repo.FindByID(ctx, id)
}

func (s *userService) UpdateUser(ctx context.Context, caller auth.Principal, id uint, input UpdateUserInput) (*model.User, error) {
	if !policy.CanMutateUser(caller.Role) {
		return nil, apperrors.Forbidden("admin role required")
	}

	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	verr := &apperrors.ValidationError{}
	if input.Username != nil {
		username := strings.TrimSpace(*input.Username)
		if n := len([]rune(username)); n < minUsernameLength || n > maxUsernameLength {
			verr.Add("username", fmt.Sprintf("must be between %d and %d characters", minUsernameLength, maxUsernameLength))
		}
		user.Username = username
	}
	if input.Role != nil {
		role, ok := model.ParseRole(*input.Role)
		if !ok {
			verr.Add("role", "unknown role")
		}
		user.Role = role
	}
	if err := verr.Err(); err != nil {
		return nil, err
	}

	if input.Username != nil {
		existing, err := s.repo.FindByUsername(ctx, user.Username)
		if err != nil && !errors.Is(err, apperrors.ErrNotFound) {
			return nil, err
		}
		if existing != nil && existing.ID != user.ID {
			return nil, ErrUserAlreadyExists
		}
	}

	if err := s.repo.Update(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

func (s *userService) DeleteUser(ctx context.Context, caller auth.Principal, id uint) error {
	if !policy.CanMutateUser(caller.Role) {
		return apperrors.Forbidden("admin role required")
	}
	if !policy.CanDeleteUser(caller.Role, caller.UserID, id) {
		return apperrors.Forbidden("you cannot delete your own account")
	}
	return s.repo.Delete(ctx, id)
}
