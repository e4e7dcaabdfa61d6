package service

import (
	"context"
	"errors"
	"log"
	"strings"

	"dayzone/internal/auth"
	apperrors "dayzone/internal/errors"
	"dayzone/internal/model"
	"dayzone/internal/policy"
	"dayzone/internal/repository"
)

// PhotoReleaser is told about photo references that no record points to any more.
// Callers check the remaining references first since refs are client supplied
// and may be shared between records.
type PhotoReleaser interface {
	Release(ctx context.Context, kind, ref string) error
}

// StalkerInput carries the writable fields of an operative record. A nil
// PhotoRef leaves the stored photo unchanged; an empty one clears it.
type StalkerInput struct {
	Callsign string
	FullName string
	FaceID   string
	Role     string
	Note     string
	PhotoRef *string
}

// SearchQuery is a case-insensitive substring search on one field.
type SearchQuery struct {
	SearchBy string
	Search   string
}

// StalkerService handles operative records.
type StalkerService interface {
	List(ctx context.Context, caller auth.Principal, query SearchQuery) ([]model.Stalker, error)
	ListByRole(ctx context.Context, caller auth.Principal, role string, query SearchQuery) ([]model.Stalker, error)
	Get(ctx context.Context, caller auth.Principal, id uint) (*model.Stalker, error)
	Create(ctx context.Context, caller auth.Principal, input StalkerInput) (*model.Stalker, error)
	Update(ctx context.Context, caller auth.Principal, id uint, input StalkerInput) (*model.Stalker, error)
	Delete(ctx context.Context, caller auth.Principal, id uint) error
	Roles() []model.RoleInfo
}

type stalkerService struct {
	repo     repository.StalkerRepository
	releaser PhotoReleaser
}

// NewStalkerService creates a new stalker service. releaser may be nil.
func NewStalkerService(repo repository.StalkerRepository, releaser PhotoReleaser) StalkerService {
	return &stalkerService{repo: repo, releaser: releaser}
}

// List returns the caller's faction. Admin sees every faction.
func (s *stalkerService) List(ctx context.Context, caller auth.Principal, query SearchQuery) ([]model.Stalker, error) {
	filter := repository.StalkerFilter{SearchBy: query.SearchBy, Search: strings.TrimSpace(query.Search)}
	if !caller.Role.IsAdmin() {
		if !caller.Role.Valid() {
			return nil, apperrors.Forbidden("access denied")
		}
		filter.Role = caller.Role
	}
	return s.repo.List(ctx, filter)
}

func (s *stalkerService) ListByRole(ctx context.Context, caller auth.Principal, role string, query SearchQuery) ([]model.Stalker, error) {
	target, ok := model.ParseRole(role)
	if !ok {
		return nil, apperrors.Validation("role", "unknown role")
	}
	if !policy.CanViewOperatives(caller.Role, target) {
		return nil, apperrors.Forbidden("access to this faction is denied")
	}
	return s.repo.List(ctx, repository.StalkerFilter{
		Role:     target,
		SearchBy: query.SearchBy,
		Search:   strings.TrimSpace(query.Search),
	})
}

func (s *stalkerService) Get(ctx context.Context, caller auth.Principal, id uint) (*model.Stalker, error) {
	stalker, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !policy.CanViewOperatives(caller.Role, stalker.Role) {
		return nil, apperrors.Forbidden("access to this stalker is denied")
	}
	return stalker, nil
}

func (s *stalkerService) Create(ctx context.Context, caller auth.Principal, input StalkerInput) (*model.Stalker, error) {
	input = trimStalkerInput(input)
	if err := validateStalkerInput(input); err != nil {
		return nil, err
	}

	role := caller.Role
	if input.Role != "" {
		parsed, ok := model.ParseRole(input.Role)
		if !ok {
			return nil, apperrors.Validation("role", "unknown role")
		}
		role = parsed
	}
	if !policy.CanMutateOperative(caller.Role, role) {
		return nil, apperrors.Forbidden("you can only add stalkers of your own faction")
	}

	if err := s.checkUnique(ctx, input.Callsign, input.FaceID, 0); err != nil {
		return nil, err
	}

	stalker := &model.Stalker{
		Callsign: input.Callsign,
		FullName: input.FullName,
		FaceID:   input.FaceID,
		Role:     role,
		Note:     input.Note,
	}
	if input.PhotoRef != nil {
		stalker.PhotoRef = *input.PhotoRef
	}
	if err := s.repo.Create(ctx, stalker); err != nil {
		return nil, err
	}
	return stalker, nil
}

func (s *stalkerService) Update(ctx context.Context, caller auth.Principal, id uint, input StalkerInput) (*model.Stalker, error) {
	input = trimStalkerInput(input)
	if err := validateStalkerInput(input); err != nil {
		return nil, err
	}

	stalker, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !policy.CanMutateOperative(caller.Role, stalker.Role) {
		return nil, apperrors.Forbidden("access to this stalker is denied")
	}

	role := stalker.Role
	if input.Role != "" {
		parsed, ok := model.ParseRole(input.Role)
		if !ok {
			return nil, apperrors.Validation("role", "unknown role")
		}
		if parsed != stalker.Role && !caller.Role.IsAdmin() {
			return nil, apperrors.Forbidden("only Admin can move a stalker to another faction")
		}
		role = parsed
	}

	if err := s.checkUnique(ctx, input.Callsign, input.FaceID, stalker.ID); err != nil {
		return nil, err
	}

	previousPhoto := stalker.PhotoRef
	stalker.Callsign = input.Callsign
	stalker.FullName = input.FullName
	stalker.FaceID = input.FaceID
	stalker.Role = role
	stalker.Note = input.Note
	if input.PhotoRef != nil {
		stalker.PhotoRef = *input.PhotoRef
	}

	if err := s.repo.Update(ctx, stalker); err != nil {
		return nil, err
	}
	if previousPhoto != stalker.PhotoRef {
		releaseUnused(ctx, s.releaser, "stalker", previousPhoto, s.repo.CountByPhotoRef)
	}
	return stalker, nil
}

// Delete removes the record first and only then releases its photo.
func (s *stalkerService) Delete(ctx context.Context, caller auth.Principal, id uint) error {
	stalker, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if !policy.CanMutateOperative(caller.Role, stalker.Role) {
		return apperrors.Forbidden("access to this stalker is denied")
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	releaseUnused(ctx, s.releaser, "stalker", stalker.PhotoRef, s.repo.CountByPhotoRef)
	return nil
}

func (s *stalkerService) Roles() []model.RoleInfo {
	return model.Factions()
}

func (s *stalkerService) checkUnique(ctx context.Context, callsign, faceID string, excludeID uint) error {
	dup, err := s.repo.FindDuplicate(ctx, callsign, faceID, excludeID)
	if err != nil {
		return err
	}
	if dup == nil {
		return nil
	}
	if dup.Callsign == callsign {
		return apperrors.Conflict("stalker with this callsign already exists")
	}
	return apperrors.Conflict("stalker with this face ID already exists")
}

func trimStalkerInput(in StalkerInput) StalkerInput {
	in.Callsign = strings.TrimSpace(in.Callsign)
	in.FullName = strings.TrimSpace(in.FullName)
	in.FaceID = strings.TrimSpace(in.FaceID)
	in.Role = strings.TrimSpace(in.Role)
	in.Note = strings.TrimSpace(in.Note)
	return in
}

func validateStalkerInput(in StalkerInput) error {
	verr := &apperrors.ValidationError{}
	if in.Callsign == "" {
		verr.Add("callsign", "is required")
	}
	if in.FullName == "" {
		verr.Add("full_name", "is required")
	}
	if in.FaceID == "" {
		verr.Add("face_id", "is required")
	}
	return verr.Err()
}

// releaseUnused notifies the releaser once no record of the kind references
// ref. Failures are logged and do not fail the request since the record change
// is already committed. A failed reference count keeps the photo.
func releaseUnused(ctx context.Context, releaser PhotoReleaser, kind, ref string, count func(context.Context, string) (int64, error)) {
	if releaser == nil || ref == "" {
		return
	}
	n, err := count(ctx, ref)
	if err != nil {
		log.Printf("photo release %s %q skipped: %v", kind, ref, err)
		return
	}
	if n > 0 {
		return
	}
	if err := releaser.Release(ctx, kind, ref); err != nil && !errors.Is(err, context.Canceled) {
		log.Printf("photo release %s %q failed: %v", kind, ref, err)
	}
}
