package repository

import (
	"context"

	"gorm.io/gorm"

	apperrors "dayzone/internal/errors"
	"dayzone/internal/model"
)

// StalkerFilter narrows a stalker listing. An empty Role lists every faction.
type StalkerFilter struct {
	Role     model.Role
	SearchBy string
	Search   string
}

// StalkerRepository defines operative persistence operations.
type StalkerRepository interface {
	List(ctx context.Context, filter StalkerFilter) ([]model.Stalker, error)
	FindByID(ctx context.Context, id uint) (*model.Stalker, error)
	// FindDuplicate returns a record other than excludeID sharing callsign or
	// faceID, or nil when there is none.
	FindDuplicate(ctx context.Context, callsign, faceID string, excludeID uint) (*model.Stalker, error)
	Create(ctx context.Context, stalker *model.Stalker) error
	Update(ctx context.Context, stalker *model.Stalker) error
	Delete(ctx context.Context, id uint) error
	// CountByPhotoRef counts records still pointing at the photo reference.
	CountByPhotoRef(ctx context.Context, ref string) (int64, error)
}

type stalkerRepository struct {
	db *gorm.DB
}

// NewStalkerRepository creates a new stalker repository.
func NewStalkerRepository(db *gorm.DB) StalkerRepository {
	return &stalkerRepository{db: db}
}

func (r *stalkerRepository) List(ctx context.Context, filter StalkerFilter) ([]model.Stalker, error) {
	q := r.db.WithContext(ctx).Model(&model.Stalker{})
	if filter.Role != "" {
		q = q.Where("role = ?", filter.Role)
	}
	q = applySearch(q, filter.SearchBy, filter.Search)

	stalkers := []model.Stalker{}
	if err := q.Order("created_at DESC, id DESC").Find(&stalkers).Error; err != nil {
		return nil, apperrors.Store("list stalkers", err)
	}
	return stalkers, nil
}

func (r *stalkerRepository) FindByID(ctx context.Context, id uint) (*model.Stalker, error) {
	var stalker model.Stalker
	if err := r.db.WithContext(ctx).First(&stalker, id).Error; err != nil {
		return nil, translate("find stalker", err, "stalker not found", "")
	}
	return &stalker, nil
}

func (r *stalkerRepository) FindDuplicate(ctx context.Context, callsign, faceID string, excludeID uint) (*model.Stalker, error) {
	q := r.db.WithContext(ctx).Where("(callsign = ? OR face_id = ?)", callsign, faceID)
	if excludeID != 0 {
		q = q.Where("id <> ?", excludeID)
	}
	var found []model.Stalker
	if err := q.Limit(1).Find(&found).Error; err != nil {
		return nil, apperrors.Store("check stalker uniqueness", err)
	}
	if len(found) == 0 {
		return nil, nil
	}
	return &found[0], nil
}

func (r *stalkerRepository) Create(ctx context.Context, stalker *model.Stalker) error {
	err := r.db.WithContext(ctx).Create(stalker).Error
	return translate("create stalker", err, "", "stalker with this callsign or face ID already exists")
}

func (r *stalkerRepository) Update(ctx context.Context, stalker *model.Stalker) error {
	err := r.db.WithContext(ctx).Save(stalker).Error
	return translate("update stalker", err, "stalker not found", "stalker with this callsign or face ID already exists")
}

func (r *stalkerRepository) Delete(ctx context.Context, id uint) error {
	res := r.db.WithContext(ctx).Delete(&model.Stalker{}, id)
	if res.Error != nil {
		return apperrors.Store("delete stalker", res.Error)
	}
	if res.RowsAffected == 0 {
		return apperrors.NotFound("stalker not found")
	}
	return nil
}

func (r *stalkerRepository) CountByPhotoRef(ctx context.Context, ref string) (int64, error) {
	var n int64
	if err := r.db.WithContext(ctx).Model(&model.Stalker{}).Where("photo_ref = ?", ref).Count(&n).Error; err != nil {
		return 0, apperrors.Store("count stalker photo refs", err)
	}
	return n, nil
}
