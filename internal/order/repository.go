package order

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type Repository interface {
	Create(ctx context.Context, o Order) (Order, error)
	Read(ctx context.Context, business string, id uuid.UUID) (Order, error)
	// List filtra pelo criador quando createdBy não é vazio.
	List(ctx context.Context, business, createdBy string) ([]Order, error)
	// Transition grava next somente se o pedido ainda estiver no status e na
	// versão observados e devolve a linha gravada.
	Transition(ctx context.Context, next Order, observed Status, version int) (Order, error)
}

type repositoryImpl struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repositoryImpl{db: db}
}

func (r *repositoryImpl) Create(ctx context.Context, o Order) (Order, error) {
	if err := r.db.WithContext(ctx).Create(&o).Error; err != nil {
		return Order{}, err
	}
	return o, nil
}

func (r *repositoryImpl) Read(ctx context.Context, business string, id uuid.UUID) (Order, error) {
	var o Order
	err := r.db.WithContext(ctx).Where("uuid = ? AND business = ?", id, business).First(&o).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return Order{}, ErrNotFound
	}
	return o, err
}

func (r *repositoryImpl) List(ctx context.Context, business, createdBy string) ([]Order, error) {
	query := r.db.WithContext(ctx).
		Omit("attachments", "proofs").
		Where("business = ?", business)
	if createdBy != "" {
		query = query.Where("created_by = ?", createdBy)
	}
	var orders []Order
	err := query.Order("create_at DESC").Find(&orders).Error
	return orders, err
}

func (r *repositoryImpl) Transition(ctx context.Context, next Order, observed Status, version int) (Order, error) {
	var out []Order
	result := r.db.WithContext(ctx).
		Model(&out).
		Clauses(clause.Returning{}).
		Where("uuid = ? AND business = ? AND status = ? AND version = ?", next.UUID, next.Business, observed, version).
		Updates(map[string]interface{}{
			"proofs":                  next.Proofs,
			"status":                  next.Status,
			"client_decision":         next.ClientDecision,
			"payment_status":          next.PaymentStatus,
			"quote_amount":            next.QuoteAmount,
			"currency":                next.Currency,
			"payment_link":            next.PaymentLink,
			"admin_note":              next.AdminNote,
			"client_note":             next.ClientNote,
			"proofs_ready_at":         next.ProofsReadyAt,
			"confirmed_at":            next.ConfirmedAt,
			"rejected_at":             next.RejectedAt,
			"admin_confirmed_at":      next.AdminConfirmedAt,
			"paid_at":                 next.PaidAt,
			"cancelled_at":            next.CancelledAt,
			"pending_paypal_order_id": next.PendingPayPalOrderID,
			"paypal_capture_id":       next.PayPalCaptureID,
			"update_at":               next.UpdateAt,
			"version":                 gorm.Expr("version + 1"),
		})
	if result.Error != nil {
		return Order{}, result.Error
	}
	if result.RowsAffected == 0 || len(out) == 0 {
		return Order{}, ErrConflict
	}
	return out[0], nil
}
