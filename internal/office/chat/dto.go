package chat

import (
	"time"

	"github.com/google/uuid"

	"stockverse/internal/office/model"
)

type PostMessageRequestDto struct {
	Body string `json:"body" binding:"required"`
}

type ListMessagesRequestDto struct {
	Since *time.Time `form:"since" time_format:"2006-01-02T15:04:05Z07:00"`
	Limit int        `form:"limit" binding:"omitempty,min=1,max=500"`
}

type MessageResponseDto struct {
	UUID        uuid.UUID `json:"uuid"`
	AuthorEmail string    `json:"authorEmail"`
	AuthorName  string    `json:"authorName"`
	Body        string    `json:"body"`
	CreateAt    time.Time `json:"create_at"`
}

func ToResponse(m model.ChatMessage) MessageResponseDto {
	return MessageResponseDto{
		UUID:        m.UUID,
		AuthorEmail: m.AuthorEmail,
		AuthorName:  m.AuthorName,
		Body:        m.Body,
		CreateAt:    m.CreateAt,
	}
}
