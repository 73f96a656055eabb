package user

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"

	"stockverse/internal/iam/domain/model"
)

const uniqueViolation = "23505"

type Repository interface {
	Create(ctx context.Context, user User) (User, error)
	Read(ctx context.Context, business string, id uuid.UUID) (User, error)
	FindByEmail(ctx context.Context, email string) (User, error)
	List(ctx context.Context, business string) ([]User, error)
	Count(ctx context.Context, business string) (int64, error)
	Update(ctx context.Context, business string, id uuid.UUID, fields map[string]interface{}) (User, error)
	Delete(ctx context.Context, business string, id uuid.UUID) error
}

type repositoryImpl struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repositoryImpl{db: db}
}

// MapCreateError traduz violações de unicidade do Postgres.
func MapCreateError(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
		if pgErr.ConstraintName == "users_email_key" {
			return ErrEmailDuplicated
		}
		return fmt.Errorf("violação de unicidade (%s): %w", pgErr.ConstraintName, err)
	}
	return err
}

func (r *repositoryImpl) Create(ctx context.Context, user User) (User, error) {
	if err := r.db.WithContext(ctx).Create(&user).Error; err != nil {
		return User{}, MapCreateError(err)
	}
	return user, nil
}

func (r *repositoryImpl) Read(ctx context.Context, business string, id uuid.UUID) (User, error) {
	if business == "" || id == uuid.Nil {
		return User{}, ErrInvalidInput
	}
	var u User
	err := r.db.WithContext(ctx).Where("uuid = ? AND business = ?", id, business).First(&u).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return User{}, ErrNotFound
		}
		return User{}, err
	}
	return u, nil
}

func (r *repositoryImpl) FindByEmail(ctx context.Context, email string) (User, error) {
	email = model.NormalizeEmail(email)
	if email == "" {
		return User{}, ErrInvalidInput
	}
	var u User
	err := r.db.WithContext(ctx).Where("email = ?", email).First(&u).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return User{}, ErrNotFound
		}
		return User{}, err
	}
	return u, nil
}

func (r *repositoryImpl) List(ctx context.Context, business string) ([]User, error) {
	var users []User
	err := r.db.WithContext(ctx).
		Where("business = ?", business).
		Order("create_at ASC").
		Find(&users).Error
	return users, err
}

func (r *repositoryImpl) Count(ctx context.Context, business string) (int64, error) {
	var total int64
	err := r.db.WithContext(ctx).Model(&User{}).Where("business = ?", business).Count(&total).Error
	return total, err
}

func (r *repositoryImpl) Update(ctx context.Context, business string, id uuid.UUID, fields map[string]interface{}) (User, error) {
	if len(fields) == 0 {
		return User{}, ErrNothingToUpdate
	}

	query := r.db.WithContext(ctx).
		Model(&User{}).
		Where("uuid = ? AND business = ?", id, business).
		Updates(fields)
	if query.Error != nil {
		return User{}, MapCreateError(query.Error)
	}
	if query.RowsAffected == 0 {
		return User{}, ErrNotFound
	}
	return r.Read(ctx, business, id)
}

func (r *repositoryImpl) Delete(ctx context.Context, business string, id uuid.UUID) error {
	query := r.db.WithContext(ctx).Where("uuid = ? AND business = ?", id, business).Delete(&User{})
	if query.Error != nil {
		return query.Error
	}
	if query.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
