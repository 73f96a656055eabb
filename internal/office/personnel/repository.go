package personnel

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"stockverse/internal/office/model"
)

type Repository interface {
	Create(ctx context.Context, m model.PersonalRecord) (model.PersonalRecord, error)
	Read(ctx context.Context, business string, id uuid.UUID) (model.PersonalRecord, error)
	List(ctx context.Context, business string) ([]model.PersonalRecord, error)
	Update(ctx context.Context, m model.PersonalRecord) (model.PersonalRecord, error)
	Delete(ctx context.Context, business string, id uuid.UUID) error
}

type repositoryImpl struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repositoryImpl{db: db}
}

func (r *repositoryImpl) Create(ctx context.Context, m model.PersonalRecord) (model.PersonalRecord, error) {
	if err := r.db.WithContext(ctx).Create(&m).Error; err != nil {
		return model.PersonalRecord{}, err
	}
	return m, nil
}

func (r *repositoryImpl) Read(ctx context.Context, business string, id uuid.UUID) (model.PersonalRecord, error) {
	var m model.PersonalRecord
	err := r.db.WithContext(ctx).Where("uuid = ? AND business = ?", id, business).First(&m).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return model.PersonalRecord{}, ErrNotFound
	}
	return m, err
}

func (r *repositoryImpl) List(ctx context.Context, business string) ([]model.PersonalRecord, error) {
	var records []model.PersonalRecord
	err := r.db.WithContext(ctx).Where("business = ?", business).Order("legal_name ASC").Find(&records).Error
	return records, err
}

func (r *repositoryImpl) Update(ctx context.Context, m model.PersonalRecord) (model.PersonalRecord, error) {
	result := r.db.WithContext(ctx).
		Model(&model.PersonalRecord{}).
		Where("uuid = ? AND business = ?", m.UUID, m.Business).
		Select("LegalName", "Department", "BirthDate", "StartDate", "UpdateAt").
		Updates(m)
	if result.Error != nil {
		return model.PersonalRecord{}, result.Error
	}
	if result.RowsAffected == 0 {
		return model.PersonalRecord{}, ErrNotFound
	}
	return r.Read(ctx, m.Business, m.UUID)
}

func (r *repositoryImpl) Delete(ctx context.Context, business string, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Where("uuid = ? AND business = ?", id, business).Delete(&model.PersonalRecord{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
