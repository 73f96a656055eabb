package stock

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"stockverse/internal/office/model"
)

type CreateStockRequestDto struct {
	Name      string          `json:"name" binding:"required,min=1,max=255"`
	SKU       string          `json:"sku" binding:"max=120"`
	Quantity  int             `json:"quantity" binding:"gte=0"`
	UnitPrice decimal.Decimal `json:"unitPrice"`
	Location  string          `json:"location" binding:"max=255"`
}

type UpdateStockRequestDto struct {
	Name      *string          `json:"name" binding:"omitempty,min=1,max=255"`
	SKU       *string          `json:"sku" binding:"omitempty,max=120"`
	Quantity  *int             `json:"quantity" binding:"omitempty,gte=0"`
	UnitPrice *decimal.Decimal `json:"unitPrice"`
	Location  *string          `json:"location" binding:"omitempty,max=255"`
}

type ListStockRequestDto struct {
	Query string `form:"q"`
}

type StockResponseDto struct {
	UUID       uuid.UUID       `json:"uuid"`
	OwnerEmail string          `json:"ownerEmail"`
	Name       string          `json:"name"`
	SKU        string          `json:"sku"`
	Quantity   int             `json:"quantity"`
	UnitPrice  decimal.Decimal `json:"unitPrice"`
	TotalValue decimal.Decimal `json:"totalValue"`
	Location   string          `json:"location"`
	CreateAt   time.Time       `json:"create_at"`
	UpdateAt   time.Time       `json:"update_at"`
}

func ToResponse(s model.Stock) StockResponseDto {
	return StockResponseDto{
		UUID:       s.UUID,
		OwnerEmail: s.OwnerEmail,
		Name:       s.Name,
		SKU:        s.SKU,
		Quantity:   s.Quantity,
		UnitPrice:  s.UnitPrice,
		TotalValue: s.UnitPrice.Mul(decimal.NewFromInt(int64(s.Quantity))),
		Location:   s.Location,
		CreateAt:   s.CreateAt,
		UpdateAt:   s.UpdateAt,
	}
}
