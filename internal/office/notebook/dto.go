package notebook

import (
	"time"

	"github.com/google/uuid"

	"stockverse/internal/office/model"
)

type CreateNoteRequestDto struct {
	Title  string `json:"title" binding:"required,min=1,max=255"`
	Body   string `json:"body" binding:"max=20000"`
	Pinned bool   `json:"pinned"`
}

type UpdateNoteRequestDto struct {
	Title  *string `json:"title" binding:"omitempty,min=1,max=255"`
	Body   *string `json:"body" binding:"omitempty,max=20000"`
	Pinned *bool   `json:"pinned"`
}

type NoteResponseDto struct {
	UUID     uuid.UUID `json:"uuid"`
	Author   string    `json:"author"`
	Title    string    `json:"title"`
	Body     string    `json:"body"`
	Pinned   bool      `json:"pinned"`
	CreateAt time.Time `json:"create_at"`
	UpdateAt time.Time `json:"update_at"`
}

func ToResponse(n model.WorkspaceNote) NoteResponseDto {
	return NoteResponseDto{
		UUID:     n.UUID,
		Author:   n.Author,
		Title:    n.Title,
		Body:     n.Body,
		Pinned:   n.Pinned,
		CreateAt: n.CreateAt,
		UpdateAt: n.UpdateAt,
	}
}
