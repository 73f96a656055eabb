package personnel

import (
	"time"

	"github.com/google/uuid"

	"stockverse/internal/office/model"
)

// Datas no formato YYYY-MM-DD.
type CreateRecordRequestDto struct {
	OwnerEmail string `json:"ownerEmail" binding:"omitempty,email"`
	LegalName  string `json:"legalName" binding:"required,min=1,max=255"`
	Department string `json:"department" binding:"max=120"`
	BirthDate  string `json:"birthDate" binding:"omitempty,datetime=2006-01-02"`
	StartDate  string `json:"startDate" binding:"omitempty,datetime=2006-01-02"`
}

type UpdateRecordRequestDto struct {
	LegalName  *string `json:"legalName" binding:"omitempty,min=1,max=255"`
	Department *string `json:"department" binding:"omitempty,max=120"`
	BirthDate  *string `json:"birthDate"`
	StartDate  *string `json:"startDate"`
}

type RecordResponseDto struct {
	UUID       uuid.UUID `json:"uuid"`
	OwnerEmail string    `json:"ownerEmail"`
	LegalName  string    `json:"legalName"`
	Department string    `json:"department"`
	BirthDate  string    `json:"birthDate,omitempty"`
	StartDate  string    `json:"startDate,omitempty"`
	CreateAt   time.Time `json:"create_at"`
	UpdateAt   time.Time `json:"update_at"`
}

func ToResponse(r model.PersonalRecord) RecordResponseDto {
	return RecordResponseDto{
		UUID:       r.UUID,
		OwnerEmail: r.OwnerEmail,
		LegalName:  r.LegalName,
		Department: r.Department,
		BirthDate:  formatDate(r.BirthDate),
		StartDate:  formatDate(r.StartDate),
		CreateAt:   r.CreateAt,
		UpdateAt:   r.UpdateAt,
	}
}

func formatDate(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format(dateLayout)
}
