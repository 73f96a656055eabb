package model

import (
	"time"

	"github.com/google/uuid"
)

type ChatMessage struct {
	UUID        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Business    string    `gorm:"type:varchar(120);not null"`
	AuthorEmail string    `gorm:"column:author_email;type:varchar(255);not null"`
	AuthorName  string    `gorm:"column:author_name;type:varchar(255);not null;default:''"`
	Body        string    `gorm:"type:text;not null"`
	CreateAt    time.Time `gorm:"column:create_at;not null;autoCreateTime"`
}

func (ChatMessage) TableName() string {
	return "chat_messages"
}

type WorkspaceNote struct {
	UUID     uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Business string    `gorm:"type:varchar(120);not null;index"`
	Author   string    `gorm:"type:varchar(255);not null"`
	Title    string    `gorm:"type:varchar(255);not null"`
	Body     string    `gorm:"type:text;not null;default:''"`
	Pinned   bool      `gorm:"not null;default:false"`
	CreateAt time.Time `gorm:"column:create_at;not null;autoCreateTime"`
	UpdateAt time.Time `gorm:"column:update_at;not null;autoUpdateTime"`
}

func (WorkspaceNote) TableName() string {
	return "workspace_notes"
}
