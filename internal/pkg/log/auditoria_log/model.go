package auditoria_log

import (
	"time"

	"github.com/google/uuid"
)

// AuditLog registra uma ação de escrita: domínio (order, automation, task...),
// ação e a entrada/saída serializadas e truncadas.
type AuditLog struct {
	ID         uint       `gorm:"primaryKey"`
	Business   string     `gorm:"size:120;index"`
	UserUUID   *uuid.UUID `gorm:"type:uuid"`
	Identifier string     `gorm:"type:text"`
	RequestID  string     `gorm:"column:request_id;size:100;not null"`

	Domain     string `gorm:"size:100;not null"`
	Action     string `gorm:"size:100;not null"`
	Function   string `gorm:"size:150;not null"`
	Success    bool   `gorm:"not null"`
	InputData  string `gorm:"type:text"`
	OutputData string `gorm:"type:text"`

	CreatedAt time.Time `gorm:"autoCreateTime;index"`
}

func (AuditLog) TableName() string {
	return "audit_log"
}
