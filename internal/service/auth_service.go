package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"

	"dayzone/internal/auth"
	apperrors "dayzone/internal/errors"
	"dayzone/internal/model"
	"dayzone/internal/repository"
)

// DefaultBcryptCost is used when the configured cost is out of range.
const DefaultBcryptCost = 10

const (
	minUsernameLength = 3
	maxUsernameLength = 50
	minPasswordLength = 6
)

var (
	// ErrInvalidCredentials is returned when username or password is incorrect.
	ErrInvalidCredentials = apperrors.Unauthorized(apperrors.ReasonInvalidCredentials)
	// ErrUserAlreadyExists is returned when trying to register an existing username.
	ErrUserAlreadyExists = apperrors.Conflict("user with this username already exists")
)

// Session is an issued access token.
type Session struct {
	Token     string      `json:"token"`
	ExpiresAt time.Time   `json:"expires_at"`
	User      *model.User `json:"user"`
}

// AuthService handles authentication operations.
type AuthService interface {
	Register(ctx context.Context, username, password string) (*Session, error)
	Login(ctx context.Context, username, password string) (*Session, error)
	// Authenticate verifies the token, rejects revoked tokens and re-loads the
	// user so that deleted users and role changes take effect immediately.
	Authenticate(ctx context.Context, token string) (auth.Principal, error)
	Logout(ctx context.Context, caller auth.Principal) error
}

type authService struct {
	userRepo   repository.UserRepository
	jwtService *auth.JWTService
	tokenStore auth.TokenStoreInterface
	bcryptCost int
}

// NewAuthService creates a new authentication service.
func NewAuthService(userRepo repository.UserRepository, jwtService *auth.JWTService, tokenStore auth.TokenStoreInterface, bcryptCost int) AuthService {
	if bcryptCost < bcrypt.MinCost || bcryptCost > bcrypt.MaxCost {
		bcryptCost = DefaultBcryptCost
	}
	return &authService{
		userRepo:   userRepo,
		jwtService: jwtService,
		tokenStore: tokenStore,
		bcryptCost: bcryptCost,
	}
}

// Register creates a Neutral user with a hashed password and signs them in.
func (s *authService) Register(ctx context.Context, username, password string) (*Session, error) {
	username = strings.TrimSpace(username)

	verr := &apperrors.ValidationError{}
	if n := len([]rune(username)); n < minUsernameLength || n > maxUsernameLength {
		verr.Add("username", fmt.Sprintf("must be between %d and %d characters", minUsernameLength, maxUsernameLength))
	}
	if len(password) < minPasswordLength {
		verr.Add("password", fmt.Sprintf("must be at least %d characters", minPasswordLength))
	}
	if err := verr.Err(); err != nil {
		return nil, err
	}

	existing, err := s.userRepo.FindByUsername(ctx, username)
	if err == nil && existing != nil {
		return nil, ErrUserAlreadyExists
	}
	if err != nil && !errors.Is(err, apperrors.ErrNotFound) {
		return nil, fmt.Errorf("check user existence: %w", err)
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), s.bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := &model.User{
		Username:     username,
		PasswordHash: string(hashedPassword),
		Role:         model.RoleNeutral,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		if errors.Is(err, apperrors.ErrConflict) {
			return nil, ErrUserAlreadyExists
		}
		return nil, fmt.Errorf("create user: %w", err)
	}

	return s.issue(user)
}

// Login checks credentials and returns a fresh access token.
func (s *authService) Login(ctx context.Context, username, password string) (*Session, error) {
	user, err := s.userRepo.FindByUsername(ctx, strings.TrimSpace(username))
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("find user: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	return s.issue(user)
}

func (s *authService) issue(user *model.User) (*Session, error) {
	token, expiresAt, err := s.jwtService.Issue(user.ID, user.Username)
	if err != nil {
		return nil, fmt.Errorf("generate access token: %w", err)
	}
	return &Session{Token: token, ExpiresAt: expiresAt, User: user}, nil
}

func (s *authService) Authenticate(ctx context.Context, token string) (auth.Principal, error) {
	if token == "" {
		return auth.Principal{}, apperrors.Unauthorized(apperrors.ReasonMissing)
	}

	claims, err := s.jwtService.Verify(token)
	if err != nil {
		return auth.Principal{}, err
	}

	revoked, err := s.tokenStore.IsRevoked(ctx, claims.ID)
	if err != nil {
		return auth.Principal{}, fmt.Errorf("check token revocation: %w", err)
	}
	if revoked {
		return auth.Principal{}, apperrors.Unauthorized(apperrors.ReasonRevoked)
	}

	user, err := s.userRepo.FindByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return auth.Principal{}, apperrors.Unauthorized(apperrors.ReasonUserNotFound)
		}
		return auth.Principal{}, fmt.Errorf("load user: %w", err)
	}

	return auth.NewPrincipal(claims, user), nil
}

// Logout revokes the caller's current token until it would have expired.
func (s *authService) Logout(ctx context.Context, caller auth.Principal) error {
	ttl := time.Until(caller.ExpiresAt)
	if err := s.tokenStore.Revoke(ctx, caller.TokenID, ttl); err != nil {
		return fmt.Errorf("revoke token: %w", err)
	}
	return nil
}
