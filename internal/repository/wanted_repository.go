package repository

import (
	"context"

	"gorm.io/gorm"

	apperrors "dayzone/internal/errors"
	"dayzone/internal/model"
)

// WantedFilter narrows a wanted listing.
type WantedFilter struct {
	SearchBy string
	Search   string
}

// WantedRepository defines wanted list persistence operations.
type WantedRepository interface {
	List(ctx context.Context, filter WantedFilter) ([]model.Wanted, error)
	FindByID(ctx context.Context, id uint) (*model.Wanted, error)
	// FindByFaceID returns the record other than excludeID with faceID, or nil.
	FindByFaceID(ctx context.Context, faceID string, excludeID uint) (*model.Wanted, error)
	Create(ctx context.Context, wanted *model.Wanted) error
	Update(ctx context.Context, wanted *model.Wanted) error
	Delete(ctx context.Context, id uint) error
	// CountByPhotoRef counts records still pointing at the photo reference.
	CountByPhotoRef(ctx context.Context, ref string) (int64, error)
}

type wantedRepository struct {
	db *gorm.DB
}

// NewWantedRepository creates a new wanted repository.
func NewWantedRepository(db *gorm.DB) WantedRepository {
	return &wantedRepository{db: db}
}

func (r *wantedRepository) List(ctx context.Context, filter WantedFilter) ([]model.Wanted, error) {
	q := applySearch(r.db.WithContext(ctx).Model(&model.Wanted{}), filter.SearchBy, filter.Search)

	records := []model.Wanted{}
	if err := q.Order("created_at DESC, id DESC").Find(&records).Error; err != nil {
		return nil, apperrors.Store("list wanted", err)
	}
	return records, nil
}

func (r *wantedRepository) FindByID(ctx context.Context, id uint) (*model.Wanted, error) {
	var record model.Wanted
	if err := r.db.WithContext(ctx).First(&record, id).Error; err != nil {
		return nil, translate("find wanted", err, "wanted record not found", "")
	}
	return &record, nil
}

func (r *wantedRepository) FindByFaceID(ctx context.Context, faceID string, excludeID uint) (*model.Wanted, error) {
	q := r.db.WithContext(ctx).Where("face_id = ?", faceID)
	if excludeID != 0 {
		q = q.Where("id <> ?", excludeID)
	}
	var found []model.Wanted
	if err := q.Limit(1).Find(&found).Error; err != nil {
		return nil, apperrors.Store("check wanted uniqueness", err)
	}
	if len(found) == 0 {
		return nil, nil
	}
	return &found[0], nil
}

func (r *wantedRepository) Create(ctx context.Context, wanted *model.Wanted) error {
	err := r.db.WithContext(ctx).Create(wanted).Error
	return translate("create wanted", err, "", "wanted record with this face ID already exists")
}

func (r *wantedRepository) Update(ctx context.Context, wanted *model.Wanted) error {
	err := r.db.WithContext(ctx).Save(wanted).Error
	return translate("update wanted", err, "wanted record not found", "wanted record with this face ID already exists")
}

func (r *wantedRepository) Delete(ctx context.Context, id uint) error {
	res := r.db.WithContext(ctx).Delete(&model.Wanted{}, id)
	if res.Error != nil {
		return apperrors.Store("delete wanted", res.Error)
	}
	if res.RowsAffected == 0 {
		return apperrors.NotFound("wanted record not found")
	}
	return nil
}

func (r *wantedRepository) CountByPhotoRef(ctx context.Context, ref string) (int64, error) {
	var n int64
	if err := r.db.WithContext(ctx).Model(&model.Wanted{}).Where("photo_ref = ?", ref).Count(&n).Error; err != nil {
		return 0, apperrors.Store("count wanted photo refs", err)
	}
	return n, nil
}
