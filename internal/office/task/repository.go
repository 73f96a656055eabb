package task

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"stockverse/internal/office/model"
)

type Repository interface {
	Create(ctx context.Context, m model.Task) (model.Task, error)
	Read(ctx context.Context, business string, id uuid.UUID) (model.Task, error)
	// List filtra por dono quando owner não é vazio.
	List(ctx context.Context, business, owner string) ([]model.Task, error)
	Update(ctx context.Context, m model.Task) (model.Task, error)
	Delete(ctx context.Context, business string, id uuid.UUID) error

	AddComment(ctx context.Context, m model.TaskComment) (model.TaskComment, error)
	ListComments(ctx context.Context, business string, taskID uuid.UUID) ([]model.TaskComment, error)
}

type repositoryImpl struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repositoryImpl{db: db}
}

func (r *repositoryImpl) Create(ctx context.Context, m model.Task) (model.Task, error) {
	if err := r.db.WithContext(ctx).Create(&m).Error; err != nil {
		return model.Task{}, err
	}
	return m, nil
}

func (r *repositoryImpl) Read(ctx context.Context, business string, id uuid.UUID) (model.Task, error) {
	var m model.Task
	err := r.db.WithContext(ctx).Where("uuid = ? AND business = ?", id, business).First(&m).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return model.Task{}, ErrNotFound
	}
	return m, err
}

func (r *repositoryImpl) List(ctx context.Context, business, owner string) ([]model.Task, error) {
	query := r.db.WithContext(ctx).Where("business = ?", business)
	if owner != "" {
		query = query.Where("owner_email = ?", owner)
	}
	var tasks []model.Task
	err := query.Order("deadline ASC NULLS LAST, create_at DESC").Find(&tasks).Error
	return tasks, err
}

func (r *repositoryImpl) Update(ctx context.Context, m model.Task) (model.Task, error) {
	result := r.db.WithContext(ctx).
		Model(&model.Task{}).
		Where("uuid = ? AND business = ?", m.UUID, m.Business).
		Select("Title", "Description", "Status", "Priority", "Deadline", "UpdateAt").
		Updates(m)
	if result.Error != nil {
		return model.Task{}, result.Error
	}
	if result.RowsAffected == 0 {
		return model.Task{}, ErrNotFound
	}
	return r.Read(ctx, m.Business, m.UUID)
}

func (r *repositoryImpl) Delete(ctx context.Context, business string, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Where("uuid = ? AND business = ?", id, business).Delete(&model.Task{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *repositoryImpl) AddComment(ctx context.Context, m model.TaskComment) (model.TaskComment, error) {
	if err := r.db.WithContext(ctx).Create(&m).Error; err != nil {
		return model.TaskComment{}, err
	}
	return m, nil
}

func (r *repositoryImpl) ListComments(ctx context.Context, business string, taskID uuid.UUID) ([]model.TaskComment, error) {
	var comments []model.TaskComment
	err := r.db.WithContext(ctx).
		Where("business = ? AND task_uuid = ?", business, taskID).
		Order("create_at ASC").
		Find(&comments).Error
	return comments, err
}
