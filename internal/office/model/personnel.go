package model

import (
	"time"

	"github.com/google/uuid"
)

// PersonalRecord é a ficha de um colaborador da empresa.
type PersonalRecord struct {
	UUID       uuid.UUID  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Business   string     `gorm:"type:varchar(120);not null;index"`
	OwnerEmail string     `gorm:"column:owner_email;type:varchar(255);not null"`
	LegalName  string     `gorm:"column:legal_name;type:varchar(255);not null"`
	Department string     `gorm:"type:varchar(120);not null;default:''"`
	BirthDate  *time.Time `gorm:"column:birth_date;type:date"`
	StartDate  *time.Time `gorm:"column:start_date;type:date"`
	CreateAt   time.Time  `gorm:"column:create_at;not null;autoCreateTime"`
	UpdateAt   time.Time  `gorm:"column:update_at;not null;autoUpdateTime"`
}

func (PersonalRecord) TableName() string {
	return "personal_records"
}
