package model

import (
	"time"

	"github.com/google/uuid"
)

// AcessToken é o registro de um JWT emitido. Revogar é adiantar expire_date.
type AcessToken struct {
	ID       uint      `gorm:"primaryKey"`
	UserUUID uuid.UUID `gorm:"type:uuid;index;not null"`
	Token    string    `gorm:"type:varchar(1024);not null;unique"`
	Expiry   time.Time `gorm:"not null;column:expire_date"`
	CreateAt time.Time `gorm:"column:create_at;not null;autoCreateTime"`
}

func (AcessToken) TableName() string {
	return "users_acess_tokens"
}
