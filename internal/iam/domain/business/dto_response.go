package business

import (
	"time"

	"github.com/google/uuid"

	"stockverse/internal/iam/domain/model"
)

type BusinessResponseDto struct {
	UUID        uuid.UUID `json:"uuid"`
	Business    string    `json:"business"`
	DisplayName string    `json:"displayName"`
	Address     string    `json:"address"`
	Phone       string    `json:"phone"`
	WebhookURLs []string  `json:"webhookUrls"`
	CreateAt    time.Time `json:"create_at"`
	UpdateAt    time.Time `json:"update_at"`
}

func ToResponse(b model.Business) BusinessResponseDto {
	urls := []string(b.WebhookURLs)
	if urls == nil {
		urls = []string{}
	}
	return BusinessResponseDto{
		UUID:        b.UUID,
		Business:    b.Business,
		DisplayName: b.DisplayName,
		Address:     b.Address,
		Phone:       b.Phone,
		WebhookURLs: urls,
		CreateAt:    b.CreateAt,
		UpdateAt:    b.UpdateAt,
	}
}
