package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// Business é o perfil da empresa (tenant). A chave Business é a mesma
// gravada em todas as tabelas do domínio.
type Business struct {
	UUID        uuid.UUID                   `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Business    string                      `gorm:"type:varchar(120);not null;unique"`
	DisplayName string                      `gorm:"type:varchar(255);not null"`
	Address     string                      `gorm:"type:text;not null;default:''"`
	Phone       string                      `gorm:"type:varchar(50);not null;default:''"`
	WebhookURLs datatypes.JSONSlice[string] `gorm:"column:webhook_urls;type:jsonb"`
	CreateAt    time.Time                   `gorm:"column:create_at;not null;autoCreateTime"`
	UpdateAt    time.Time                   `gorm:"column:update_at;not null;autoUpdateTime"`
}

func (Business) TableName() string {
	return "business_profiles"
}
