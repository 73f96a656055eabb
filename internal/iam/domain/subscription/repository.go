package subscription

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"stockverse/internal/iam/domain/model"
)

type Repository interface {
	GetOwner(ctx context.Context, business string) (model.User, error)
	Save(ctx context.Context, business string, owner uuid.UUID, sub model.Subscription) error
}

type repositoryImpl struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repositoryImpl{db: db}
}

func (r *repositoryImpl) GetOwner(ctx context.Context, business string) (model.User, error) {
	var owner model.User
	err := r.db.WithContext(ctx).
		Where("business = ? AND role = ?", business, model.RoleAdmin).
		Order("create_at ASC").
		First(&owner).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return model.User{}, ErrOwnerNotFound
	}
	return owner, err
}

func (r *repositoryImpl) Save(ctx context.Context, business string, owner uuid.UUID, sub model.Subscription) error {
	result := r.db.WithContext(ctx).
		Model(&model.User{}).
		Where("uuid = ? AND business = ? AND role = ?", owner, business, model.RoleAdmin).
		Updates(map[string]interface{}{
			"subscription": datatypes.NewJSONType(sub),
			"update_at":    time.Now().UTC(),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrOwnerNotFound
	}
	return nil
}
