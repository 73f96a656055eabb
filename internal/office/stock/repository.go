package stock

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"stockverse/internal/office/model"
)

type Repository interface {
	Create(ctx context.Context, m model.Stock) (model.Stock, error)
	Read(ctx context.Context, business string, id uuid.UUID) (model.Stock, error)
	List(ctx context.Context, business string) ([]model.Stock, error)
	Update(ctx context.Context, m model.Stock) (model.Stock, error)
	Delete(ctx context.Context, business string, id uuid.UUID) error
}

type repositoryImpl struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repositoryImpl{db: db}
}

func (r *repositoryImpl) Create(ctx context.Context, m model.Stock) (model.Stock, error) {
	if err := r.db.WithContext(ctx).Create(&m).Error; err != nil {
		return model.Stock{}, err
	}
	return m, nil
}

func (r *repositoryImpl) Read(ctx context.Context, business string, id uuid.UUID) (model.Stock, error) {
	var m model.Stock
	err := r.db.WithContext(ctx).Where("uuid = ? AND business = ?", id, business).First(&m).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return model.Stock{}, ErrNotFound
	}
	return m, err
}

func (r *repositoryImpl) List(ctx context.Context, business string) ([]model.Stock, error) {
	var items []model.Stock
	err := r.db.WithContext(ctx).Where("business = ?", business).Order("name ASC").Find(&items).Error
	return items, err
}

func (r *repositoryImpl) Update(ctx context.Context, m model.Stock) (model.Stock, error) {
	result := r.db.WithContext(ctx).
		Model(&model.Stock{}).
		Where("uuid = ? AND business = ?", m.UUID, m.Business).
		Select("Name", "SKU", "Quantity", "UnitPrice", "Location", "UpdateAt").
		Updates(m)
	if result.Error != nil {
		return model.Stock{}, result.Error
	}
	if result.RowsAffected == 0 {
		return model.Stock{}, ErrNotFound
	}
	return r.Read(ctx, m.Business, m.UUID)
}

func (r *repositoryImpl) Delete(ctx context.Context, business string, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Where("uuid = ? AND business = ?", id, business).Delete(&model.Stock{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
