package order

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type FileRequestDto struct {
	Name     string `json:"name" binding:"max=255"`
	MimeType string `json:"mimeType"`
	Data     string `json:"data" binding:"required"`
}

type CreateOrderRequestDto struct {
	Title       string           `json:"title" binding:"required"`
	Usage       string           `json:"usage" binding:"max=500"`
	Description string           `json:"description"`
	Details     string           `json:"details" binding:"max=5000"`
	ColorMode   ColorMode        `json:"colorMode" binding:"required,oneof=mono color"`
	Colors      []string         `json:"colors"`
	Attachments []FileRequestDto `json:"attachments" binding:"dive"`
	Note        string           `json:"note"`
}

type ProofsRequestDto struct {
	Proofs []FileRequestDto `json:"proofs" binding:"required,min=1,dive"`
	Note   string           `json:"note"`
}

type DecisionRequestDto struct {
	Decision Decision `json:"decision" binding:"required,oneof=approved rejected"`
	Note     string   `json:"note"`
}

type ConfirmRequestDto struct {
	QuoteAmount *decimal.Decimal `json:"quoteAmount"`
	Currency    string           `json:"currency"`
	PaymentLink *string          `json:"paymentLink" binding:"omitempty,max=2000"`
	Note        string           `json:"note"`
}

type CaptureRequestDto struct {
	PayPalOrderID string `json:"paypalOrderId" binding:"required"`
}

type NoteRequestDto struct {
	Note string `json:"note"`
}

// FileResponseDto omite o conteúdo quando o pedido é listado.
type FileResponseDto struct {
	ID         uuid.UUID `json:"id"`
	Name       string    `json:"name"`
	MimeType   string    `json:"mimeType"`
	Size       int       `json:"size"`
	Data       string    `json:"data,omitempty"`
	UploadedBy string    `json:"uploadedBy"`
	UploadedAt time.Time `json:"uploadedAt"`
}

type OrderResponseDto struct {
	UUID             uuid.UUID         `json:"uuid"`
	OrderNumber      string            `json:"orderNumber"`
	CreatedBy        string            `json:"createdBy"`
	Title            string            `json:"title"`
	Usage            string            `json:"usage"`
	Description      string            `json:"description"`
	Details          string            `json:"details"`
	ColorMode        ColorMode         `json:"colorMode"`
	Colors           []string          `json:"colors"`
	Attachments      []FileResponseDto `json:"attachments"`
	Proofs           []FileResponseDto `json:"proofs"`
	Status           Status            `json:"status"`
	ClientDecision   Decision          `json:"clientDecision"`
	PaymentStatus    PaymentStatus     `json:"paymentStatus"`
	QuoteAmount      *decimal.Decimal  `json:"quoteAmount,omitempty"`
	Currency         string            `json:"currency"`
	PaymentLink      string            `json:"paymentLink,omitempty"`
	AdminNote        string            `json:"adminNote,omitempty"`
	ClientNote       string            `json:"clientNote,omitempty"`
	ProofsReadyAt    *time.Time        `json:"proofsReadyAt,omitempty"`
	ConfirmedAt      *time.Time        `json:"confirmedAt,omitempty"`
	RejectedAt       *time.Time        `json:"rejectedAt,omitempty"`
	AdminConfirmedAt *time.Time        `json:"adminConfirmedAt,omitempty"`
	PaidAt           *time.Time        `json:"paidAt,omitempty"`
	CancelledAt      *time.Time        `json:"cancelledAt,omitempty"`
	PendingPayment   bool              `json:"pendingPayment"`
	CreateAt         time.Time         `json:"create_at"`
	UpdateAt         time.Time         `json:"update_at"`
}

type PaymentResponseDto struct {
	Order         OrderResponseDto `json:"order"`
	PayPalOrderID string           `json:"paypalOrderId"`
	ApproveURL    string           `json:"approveUrl,omitempty"`
}

func toFileInputs(in []FileRequestDto) []FileInput {
	out := make([]FileInput, 0, len(in))
	for _, f := range in {
		out = append(out, FileInput(f))
	}
	return out
}

func toFiles(in []FilePayload, withData bool) []FileResponseDto {
	out := make([]FileResponseDto, 0, len(in))
	for _, f := range in {
		dto := FileResponseDto{
			ID:         f.ID,
			Name:       f.Name,
			MimeType:   f.MimeType,
			Size:       f.Size,
			UploadedBy: f.UploadedBy,
			UploadedAt: f.UploadedAt,
		}
		if withData {
			dto.Data = f.Data
		}
		out = append(out, dto)
	}
	return out
}

// ToResponse converte o pedido; withData inclui o base64 dos arquivos.
func ToResponse(o Order, withData bool) OrderResponseDto {
	var quote *decimal.Decimal
	if o.QuoteAmount.Valid {
		q := o.QuoteAmount.Decimal
		quote = &q
	}
	return OrderResponseDto{
		UUID:             o.UUID,
		OrderNumber:      o.OrderNumber,
		CreatedBy:        o.CreatedBy,
		Title:            o.Title,
		Usage:            o.Usage,
		Description:      o.Description,
		Details:          o.Details,
		ColorMode:        o.ColorMode,
		Colors:           []string(o.Colors),
		Attachments:      toFiles(o.Attachments, withData),
		Proofs:           toFiles(o.Proofs, withData),
		Status:           o.Status,
		ClientDecision:   o.ClientDecision,
		PaymentStatus:    o.PaymentStatus,
		QuoteAmount:      quote,
		Currency:         o.Currency,
		PaymentLink:      o.PaymentLink,
		AdminNote:        o.AdminNote,
		ClientNote:       o.ClientNote,
		ProofsReadyAt:    o.ProofsReadyAt,
		ConfirmedAt:      o.ConfirmedAt,
		RejectedAt:       o.RejectedAt,
		AdminConfirmedAt: o.AdminConfirmedAt,
		PaidAt:           o.PaidAt,
		CancelledAt:      o.CancelledAt,
		PendingPayment:   o.PendingPayPalOrderID != "",
		CreateAt:         o.CreateAt,
		UpdateAt:         o.UpdateAt,
	}
}
