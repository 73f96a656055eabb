package order

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

type Status string

const (
	StatusSubmitted       Status = "submitted"
	StatusProofsReady     Status = "proofs_ready"
	StatusClientConfirmed Status = "client_confirmed"
	StatusClientRejected  Status = "client_rejected"
	StatusAdminConfirmed  Status = "admin_confirmed"
	StatusPaid            Status = "paid"
	StatusCancelled       Status = "cancelled"
)

type Decision string

const (
	DecisionPending  Decision = "pending"
	DecisionApproved Decision = "approved"
	DecisionRejected Decision = "rejected"
)

type PaymentStatus string

const (
	PaymentBlocked PaymentStatus = "blocked"
	PaymentReady   PaymentStatus = "ready"
	PaymentPaid    PaymentStatus = "paid"
)

type ColorMode string

const (
	ColorMono  ColorMode = "mono"
	ColorColor ColorMode = "color"
)

// FilePayload é um arquivo embutido no pedido (anexo ou prova).
type FilePayload struct {
	ID         uuid.UUID `json:"id"`
	Name       string    `json:"name"`
	MimeType   string    `json:"mimeType"`
	Size       int       `json:"size"`
	Data       string    `json:"data"`
	UploadedBy string    `json:"uploadedBy"`
	UploadedAt time.Time `json:"uploadedAt"`
}

// Order só muda pelas ações do ciclo de vida; Version protege a escrita
// condicional.
type Order struct {
	UUID                 uuid.UUID                        `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	OrderNumber          string                           `gorm:"column:order_number;type:varchar(40);not null;unique"`
	Business             string                           `gorm:"type:varchar(120);not null;index"`
	CreatedBy            string                           `gorm:"column:created_by;type:varchar(255);not null"`
	Title                string                           `gorm:"type:varchar(120);not null"`
	Usage                string                           `gorm:"type:text;not null;default:''"`
	Description          string                           `gorm:"type:varchar(600);not null"`
	Details              string                           `gorm:"type:text;not null;default:''"`
	ColorMode            ColorMode                        `gorm:"column:color_mode;type:varchar(10);not null"`
	Colors               datatypes.JSONSlice[string]      `gorm:"type:jsonb;not null"`
	Attachments          datatypes.JSONSlice[FilePayload] `gorm:"type:jsonb;not null"`
	Proofs               datatypes.JSONSlice[FilePayload] `gorm:"type:jsonb;not null"`
	Status               Status                           `gorm:"type:varchar(30);not null;default:'submitted'"`
	ClientDecision       Decision                         `gorm:"column:client_decision;type:varchar(20);not null;default:'pending'"`
	PaymentStatus        PaymentStatus                    `gorm:"column:payment_status;type:varchar(20);not null;default:'blocked'"`
	QuoteAmount          decimal.NullDecimal              `gorm:"column:quote_amount;type:numeric(14,2)"`
	Currency             string                           `gorm:"type:varchar(3);not null;default:'USD'"`
	PaymentLink          string                           `gorm:"column:payment_link;type:text;not null;default:''"`
	AdminNote            string                           `gorm:"column:admin_note;type:text;not null;default:''"`
	ClientNote           string                           `gorm:"column:client_note;type:text;not null;default:''"`
	ProofsReadyAt        *time.Time                       `gorm:"column:proofs_ready_at"`
	ConfirmedAt          *time.Time                       `gorm:"column:confirmed_at"`
	RejectedAt           *time.Time                       `gorm:"column:rejected_at"`
	AdminConfirmedAt     *time.Time                       `gorm:"column:admin_confirmed_at"`
	PaidAt               *time.Time                       `gorm:"column:paid_at"`
	CancelledAt          *time.Time                       `gorm:"column:cancelled_at"`
	PendingPayPalOrderID string                           `gorm:"column:pending_paypal_order_id;type:varchar(64);not null;default:''"`
	PayPalCaptureID      string                           `gorm:"column:paypal_capture_id;type:varchar(64);not null;default:''"`
	Version              int                              `gorm:"not null;default:1"`
	CreateAt             time.Time                        `gorm:"column:create_at;not null;autoCreateTime"`
	UpdateAt             time.Time                        `gorm:"column:update_at;not null;autoUpdateTime"`
}

func (Order) TableName() string {
	return "orders"
}

// Quote devolve o orçamento ou zero.
func (o Order) Quote() decimal.Decimal {
	if !o.QuoteAmount.Valid {
		return decimal.Zero
	}
	return o.QuoteAmount.Decimal
}

// Terminal: pago ou cancelado.
func (o Order) Terminal() bool {
	return o.Status == StatusPaid || o.Status == StatusCancelled
}
