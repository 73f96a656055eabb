package middleware

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
	GetLogin(ctx context.Context, token string) (*Login, error)
	GetOwner(ctx context.Context, business string) (*model.User, error)
}

type repositoryImpl struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repositoryImpl{db: db}
}

type loginQueryResult struct {
	TokenID          uint                                    `gorm:"column:token_id"`
	Token            string                                  `gorm:"column:token"`
	Expiry           time.Time                               `gorm:"column:expire_date"`
	UserUUID         uuid.UUID                               `gorm:"column:user_uuid"`
	UserBusiness     string                                  `gorm:"column:business"`
	UserName         string                                  `gorm:"column:user_name"`
	UserEmail        string                                  `gorm:"column:user_email"`
	UserPhone        string                                  `gorm:"column:phone"`
	UserRole         model.UserRole                          `gorm:"column:role"`
	UserSubscription *datatypes.JSONType[model.Subscription] `gorm:"column:subscription"`
	UserLive         bool                                    `gorm:"column:live"`
	UserCreateAt     time.Time                               `gorm:"column:create_at"`
	UserUpdateAt     time.Time                               `gorm:"column:update_at"`
}

const loginQuery = `
SELECT
        at.id AS token_id,
        at.token,
        at.expire_date,
        at.user_uuid,
        u.business,
        u.name AS user_name,
        u.email AS user_email,
        u.phone,
        u.role,
        u.subscription,
        u.live,
        u.create_at,
        u.update_at
FROM users_acess_tokens AS at
INNER JOIN users AS u ON u.uuid = at.user_uuid
WHERE at.token = ?
LIMIT 1`

func (r *repositoryImpl) GetLogin(ctx context.Context, token string) (*Login, error) {
	if token == "" {
		return nil, errors.New("token cannot be empty")
	}

	var result loginQueryResult
	query := r.db.WithContext(ctx).Raw(loginQuery, token).Scan(&result)
	if query.Error != nil {
		return nil, query.Error
	}
	if query.RowsAffected == 0 {
		return nil, gorm.ErrRecordNotFound
	}

	return &Login{
		User: model.User{
			UUID:         result.UserUUID,
			Business:     result.UserBusiness,
			Name:         result.UserName,
			Email:        result.UserEmail,
			Phone:        result.UserPhone,
			Role:         result.UserRole,
			Subscription: result.UserSubscription,
			Live:         result.UserLive,
			CreateAt:     result.UserCreateAt,
			UpdateAt:     result.UserUpdateAt,
		},
		AcessToken: model.AcessToken{
			ID:       result.TokenID,
			UserUUID: result.UserUUID,
			Token:    result.Token,
			Expiry:   result.Expiry,
		},
	}, nil
}

// GetOwner busca o Admin da empresa; nil quando não existe.
func (r *repositoryImpl) GetOwner(ctx context.Context, business string) (*model.User, error) {
	var owner model.User
	err := r.db.WithContext(ctx).
		Where("business = ? AND role = ?", business, model.RoleAdmin).
		Order("create_at ASC").
		First(&owner).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &owner, nil
}
