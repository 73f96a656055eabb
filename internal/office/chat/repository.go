package chat

import (
	"context"
	"time"

	"gorm.io/gorm"

	"stockverse/internal/office/model"
)

type Repository interface {
	Create(ctx context.Context, m model.ChatMessage) (model.ChatMessage, error)
	// ListSince devolve, em ordem cronológica, as mensagens posteriores a since.
	ListSince(ctx context.Context, business string, since time.Time, limit int) ([]model.ChatMessage, error)
}

type repositoryImpl struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repositoryImpl{db: db}
}

func (r *repositoryImpl) Create(ctx context.Context, m model.ChatMessage) (model.ChatMessage, error) {
	if err := r.db.WithContext(ctx).Create(&m).Error; err != nil {
		return model.ChatMessage{}, err
	}
	return m, nil
}

func (r *repositoryImpl) ListSince(ctx context.Context, business string, since time.Time, limit int) ([]model.ChatMessage, error) {
	var messages []model.ChatMessage
	err := r.db.WithContext(ctx).
		Where("business = ? AND create_at > ?", business, since).
		Order("create_at ASC").
		Limit(limit).
		Find(&messages).Error
	return messages, err
}
