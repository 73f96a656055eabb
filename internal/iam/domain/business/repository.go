package business

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"stockverse/internal/iam/domain/model"
)

type Repository interface {
	Read(ctx context.Context, business string) (model.Business, error)
	Update(ctx context.Context, m model.Business) (model.Business, error)
}

type implRepository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &implRepository{db: db}
}

func (r *implRepository) Read(ctx context.Context, business string) (model.Business, error) {
	if business == "" {
		return model.Business{}, ErrInvalidInput
	}
	var m model.Business
	err := r.db.WithContext(ctx).Where("business = ?", business).First(&m).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return model.Business{}, ErrNotFound
		}
		return model.Business{}, fmt.Errorf("erro ao ler empresa: %w", err)
	}
	return m, nil
}

func (r *implRepository) Update(ctx context.Context, m model.Business) (model.Business, error) {
	if m.Business == "" {
		return model.Business{}, ErrInvalidInput
	}

	m.UpdateAt = time.Now().UTC()
	result := r.db.WithContext(ctx).
		Model(&model.Business{}).
		Where("business = ?", m.Business).
		Select("DisplayName", "Address", "Phone", "WebhookURLs", "UpdateAt").
		Updates(m)
	if result.Error != nil {
		return model.Business{}, fmt.Errorf("falha ao atualizar empresa: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return model.Business{}, ErrNotFound
	}

	return r.Read(ctx, m.Business)
}
