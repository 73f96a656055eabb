package auditoria_log

import (
	"context"
	"time"

	"gorm.io/gorm"
)

type Repository interface {
	Save(ctx context.Context, entry AuditLog) error
	// Purge apaga as linhas gravadas antes de before e devolve quantas saíram.
	Purge(ctx context.Context, before time.Time) (int64, error)
}

type repositoryImpl struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repositoryImpl{db: db}
}

func (r *repositoryImpl) Save(ctx context.Context, entry AuditLog) error {
	return r.db.WithContext(ctx).Create(&entry).Error
}

func (r *repositoryImpl) Purge(ctx context.Context, before time.Time) (int64, error) {
	result := r.db.WithContext(ctx).Where("created_at < ?", before).Delete(&AuditLog{})
	return result.RowsAffected, result.Error
}
