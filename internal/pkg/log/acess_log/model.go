package acess_log

import (
	"time"

	"github.com/google/uuid"
)

// AccessLog é uma linha por requisição em /api. Business e UserUUID ficam
// vazios nas rotas públicas.
type AccessLog struct {
	ID         uint       `gorm:"primaryKey"`
	Business   string     `gorm:"size:120;index"`
	UserUUID   *uuid.UUID `gorm:"type:uuid"`
	Identifier string     `gorm:"type:text"`
	RequestID  string     `gorm:"column:request_id;size:100;not null"`

	Method       string  `gorm:"size:10;not null"`
	Path         string  `gorm:"type:text;not null"`
	Host         string  `gorm:"type:text;not null"`
	StatusCode   int     `gorm:"not null"`
	IP           string  `gorm:"type:inet;not null"`
	UserAgent    string  `gorm:"type:text"`
	Referer      string  `gorm:"type:text"`
	ContentType  string  `gorm:"type:text"`
	UserLanguage string  `gorm:"type:text"`
	LatencyMs    float64 `gorm:"not null"`

	RequestTime time.Time `gorm:"not null"`
	CreatedAt   time.Time `gorm:"autoCreateTime;index"`
}

func (AccessLog) TableName() string {
	return "access_log"
}
