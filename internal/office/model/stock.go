package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type Stock struct {
	UUID       uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Business   string          `gorm:"type:varchar(120);not null;index"`
	OwnerEmail string          `gorm:"column:owner_email;type:varchar(255);not null"`
	Name       string          `gorm:"type:varchar(255);not null"`
	SKU        string          `gorm:"column:sku;type:varchar(120);not null;default:''"`
	Quantity   int             `gorm:"not null;default:0"`
	UnitPrice  decimal.Decimal `gorm:"column:unit_price;type:numeric(14,2);not null;default:0"`
	Location   string          `gorm:"type:varchar(255);not null;default:''"`
	CreateAt   time.Time       `gorm:"column:create_at;not null;autoCreateTime"`
	UpdateAt   time.Time       `gorm:"column:update_at;not null;autoUpdateTime"`
}

func (Stock) TableName() string {
	return "stocks"
}
