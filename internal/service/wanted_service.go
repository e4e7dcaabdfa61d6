package service

import (
	"context"
	"strings"

	"github.com/shopspring/decimal"

	"dayzone/internal/auth"
	apperrors "dayzone/internal/errors"
	"dayzone/internal/model"
	"dayzone/internal/policy"
	"dayzone/internal/repository"
)

// WantedInput carries the writable fields of a wanted record. Reward is a
// decimal string.
type WantedInput struct {
	Callsign string
	FullName string
	FaceID   string
	Role     string
	Reward   string
	LastSeen string
	Reason   string
	PhotoRef *string
}

// WantedService handles the wanted list. Reads are open to every
// authenticated user; changes are Admin only.
type WantedService interface {
	List(ctx context.Context, query SearchQuery) ([]model.Wanted, error)
	Get(ctx context.Context, id uint) (*model.Wanted, error)
	Create(ctx context.Context, caller auth.Principal, input WantedInput) (*model.Wanted, error)
	Update(ctx context.Context, caller auth.Principal, id uint, input WantedInput) (*model.Wanted, error)
	Delete(ctx context.Context, caller auth.Principal, id uint) error
}

type wantedService struct {
	repo     repository.WantedRepository
	releaser PhotoReleaser
}

// NewWantedService creates a new wanted service. releaser may be nil.
func NewWantedService(repo repository.WantedRepository, releaser PhotoReleaser) WantedService {
	return &wantedService{repo: repo, releaser: releaser}
}

func (s *wantedService) List(ctx context.Context, query SearchQuery) ([]model.Wanted, error) {
	return s.repo.List(ctx, repository.WantedFilter{
		SearchBy: query.SearchBy,
		Search:   strings.TrimSpace(query.Search),
	})
}

func (s *wantedService) Get(ctx context.Context, id uint) (*model.Wanted, error) {
	return s.repo.FindByID(ctx, id)
}

func (s *wantedService) Create(ctx context.Context, caller auth.Principal, input WantedInput) (*model.Wanted, error) {
	if !policy.CanMutateWanted(caller.Role) {
		return nil, apperrors.Forbidden("only Admin can manage the wanted list")
	}
	record := &model.Wanted{}
	if err := applyWantedInput(record, input); err != nil {
		return nil, err
	}
	if err := s.checkUnique(ctx, record.FaceID, 0); err != nil {
		return nil, err
	}
	if err := s.repo.Create(ctx, record); err != nil {
		return nil, err
	}
	return record, nil
}

func (s *wantedService) Update(ctx context.Context, caller auth.Principal, id uint, input WantedInput) (*model.Wanted, error) {
	if !policy.CanMutateWanted(caller.Role) {
		return nil, apperrors.Forbidden("only Admin can manage the wanted list")
	}
	record, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	previousPhoto := record.PhotoRef
	if err := applyWantedInput(record, input); err != nil {
		return nil, err
	}
	if err := s.checkUnique(ctx, record.FaceID, record.ID); err != nil {
		return nil, err
	}
	if err := s.repo.Update(ctx, record); err != nil {
		return nil, err
	}
	if previousPhoto != record.PhotoRef {
		releaseUnused(ctx, s.releaser, "wanted", previousPhoto, s.repo.CountByPhotoRef)
	}
	return record, nil
}

func (s *wantedService) Delete(ctx context.Context, caller auth.Principal, id uint) error {
	if !policy.CanMutateWanted(caller.Role) {
		return apperrors.Forbidden("only Admin can manage the wanted list")
	}
	record, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	releaseUnused(ctx, s.releaser, "wanted", record.PhotoRef, s.repo.CountByPhotoRef)
	return nil
}

func (s *wantedService) checkUnique(ctx context.Context, faceID string, excludeID uint) error {
	dup, err := s.repo.FindByFaceID(ctx, faceID, excludeID)
	if err != nil {
		return err
	}
	if dup != nil {
		return apperrors.Conflict("wanted record with this face ID already exists")
	}
	return nil
}

// applyWantedInput validates input and copies it onto record.
func applyWantedInput(record *model.Wanted, in WantedInput) error {
	verr := &apperrors.ValidationError{}
	required := []struct {
		field string
		value *string
	}{
		{"callsign", &in.Callsign},
		{"full_name", &in.FullName},
		{"face_id", &in.FaceID},
		{"reward", &in.Reward},
		{"last_seen", &in.LastSeen},
		{"reason", &in.Reason},
	}
	for _, r := range required {
		*r.value = strings.TrimSpace(*r.value)
		if *r.value == "" {
			verr.Add(r.field, "is required")
		}
	}

	var reward decimal.Decimal
	if in.Reward != "" {
		parsed, err := decimal.NewFromString(in.Reward)
		switch {
		case err != nil:
			verr.Add("reward", "must be a number")
		case parsed.IsNegative():
			verr.Add("reward", "must not be negative")
		case parsed.Round(2).GreaterThanOrEqual(moneyLimit):
			verr.Add("reward", "must be less than "+moneyLimit.String())
		default:
			reward = parsed.Round(2)
		}
	}

	role := record.Role
	if role == "" {
		role = model.RoleNeutral
	}
	if r := strings.TrimSpace(in.Role); r != "" {
		parsed, ok := model.ParseRole(r)
		if !ok {
			verr.Add("role", "unknown role")
		}
		role = parsed
	}

	if err := verr.Err(); err != nil {
		return err
	}

	record.Callsign = in.Callsign
	record.FullName = in.FullName
	record.FaceID = in.FaceID
	record.Role = role
	record.Reward = reward
	record.LastSeen = in.LastSeen
	record.Reason = in.Reason
	if in.PhotoRef != nil {
		record.PhotoRef = strings.TrimSpace(*in.PhotoRef)
	}
	return nil
}
