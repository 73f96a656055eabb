package notebook

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"stockverse/internal/office/model"
)

type Repository interface {
	Create(ctx context.Context, m model.WorkspaceNote) (model.WorkspaceNote, error)
	Read(ctx context.Context, business string, id uuid.UUID) (model.WorkspaceNote, error)
	List(ctx context.Context, business string) ([]model.WorkspaceNote, error)
	Update(ctx context.Context, m model.WorkspaceNote) (model.WorkspaceNote, error)
	Delete(ctx context.Context, business string, id uuid.UUID) error
}

type repositoryImpl struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repositoryImpl{db: db}
}

func (r *repositoryImpl) Create(ctx context.Context, m model.WorkspaceNote) (model.WorkspaceNote, error) {
	if err := r.db.WithContext(ctx).Create(&m).Error; err != nil {
		return model.WorkspaceNote{}, err
	}
	return m, nil
}

func (r *repositoryImpl) Read(ctx context.Context, business string, id uuid.UUID) (model.WorkspaceNote, error) {
	var m model.WorkspaceNote
	err := r.db.WithContext(ctx).Where("uuid = ? AND business = ?", id, business).First(&m).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return model.WorkspaceNote{}, ErrNotFound
	}
	return m, err
}

// List: fixadas primeiro, depois as editadas mais recentemente.
func (r *repositoryImpl) List(ctx context.Context, business string) ([]model.WorkspaceNote, error) {
	var notes []model.WorkspaceNote
	err := r.db.WithContext(ctx).
		Where("business = ?", business).
		Order("pinned DESC, update_at DESC").
		Find(&notes).Error
	return notes, err
}

func (r *repositoryImpl) Update(ctx context.Context, m model.WorkspaceNote) (model.WorkspaceNote, error) {
	result := r.db.WithContext(ctx).
		Model(&model.WorkspaceNote{}).
		Where("uuid = ? AND business = ?", m.UUID, m.Business).
		Select("Title", "Body", "Pinned", "UpdateAt").
		Updates(m)
	if result.Error != nil {
		return model.WorkspaceNote{}, result.Error
	}
	if result.RowsAffected == 0 {
		return model.WorkspaceNote{}, ErrNotFound
	}
	return r.Read(ctx, m.Business, m.UUID)
}

func (r *repositoryImpl) Delete(ctx context.Context, business string, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Where("uuid = ? AND business = ?", id, business).Delete(&model.WorkspaceNote{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
