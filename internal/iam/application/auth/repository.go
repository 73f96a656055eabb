package auth

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"

	"stockverse/internal/iam/domain/model"
)

type Repository interface {
	Register(ctx context.Context, business model.Business, admin model.User) (model.User, error)
	CreateAcessToken(ctx context.Context, m model.AcessToken) error
	RevokeAcessToken(ctx context.Context, token string) error
	RevokeAllUserTokens(ctx context.Context, userID uuid.UUID) error
}

type repositoryImpl struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repositoryImpl{db: db}
}

func mapUniqueViolation(err error) error {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) || pgErr.Code != "23505" {
		return err
	}
	switch pgErr.ConstraintName {
	case "business_profiles_business_key", "users_one_admin_per_business":
		return ErrBusinessExists
	case "users_email_key":
		return ErrEmailExists
	case "users_acess_tokens_token_key":
		return ErrTokenDuplicated
	default:
		return err
	}
}

// Register cria o perfil da empresa e o Admin na mesma transação.
func (r *repositoryImpl) Register(ctx context.Context, business model.Business, admin model.User) (model.User, error) {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var exists int64
		if err := tx.Model(&model.Business{}).Where("business = ?", business.Business).Count(&exists).Error; err != nil {
			return err
		}
		if exists > 0 {
			return ErrBusinessExists
		}
		if err := tx.Create(&business).Error; err != nil {
			return err
		}
		return tx.Create(&admin).Error
	})
	if err != nil {
		return model.User{}, mapUniqueViolation(err)
	}
	return admin, nil
}

func (r *repositoryImpl) CreateAcessToken(ctx context.Context, m model.AcessToken) error {
	if err := r.db.WithContext(ctx).Create(&m).Error; err != nil {
		return mapUniqueViolation(err)
	}
	return nil
}

func (r *repositoryImpl) RevokeAcessToken(ctx context.Context, token string) error {
	result := r.db.WithContext(ctx).
		Model(&model.AcessToken{}).
		Where("token = ?", token).
		Update("expire_date", time.Now().UTC())
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrTokenNotFound
	}
	return nil
}

func (r *repositoryImpl) RevokeAllUserTokens(ctx context.Context, userID uuid.UUID) error {
	now := time.Now().UTC()
	return r.db.WithContext(ctx).
		Model(&model.AcessToken{}).
		Where("user_uuid = ? AND expire_date > ?", userID, now).
		Update("expire_date", now).Error
}
