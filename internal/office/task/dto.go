package task

import (
	"time"

	"github.com/google/uuid"

	"stockverse/internal/office/model"
)

type CreateTaskRequestDto struct {
	Title       string             `json:"title" binding:"required,min=1,max=255"`
	Description string             `json:"description" binding:"max=5000"`
	Status      model.TaskStatus   `json:"status"`
	Priority    model.TaskPriority `json:"priority"`
	Deadline    *time.Time         `json:"deadline"`
	OwnerEmail  string             `json:"ownerEmail" binding:"omitempty,email"`
}

type UpdateTaskRequestDto struct {
	Title         *string             `json:"title" binding:"omitempty,min=1,max=255"`
	Description   *string             `json:"description" binding:"omitempty,max=5000"`
	Status        *model.TaskStatus   `json:"status"`
	Priority      *model.TaskPriority `json:"priority"`
	Deadline      *time.Time          `json:"deadline"`
	ClearDeadline bool                `json:"clearDeadline"`
}

type CommentRequestDto struct {
	Body string `json:"body" binding:"required,min=1,max=2000"`
}

type TaskResponseDto struct {
	UUID           uuid.UUID          `json:"uuid"`
	OwnerEmail     string             `json:"ownerEmail"`
	Title          string             `json:"title"`
	Description    string             `json:"description"`
	Status         model.TaskStatus   `json:"status"`
	Priority       model.TaskPriority `json:"priority"`
	Deadline       *time.Time         `json:"deadline,omitempty"`
	CreatedBy      string             `json:"createdBy"`
	AutomationUUID *uuid.UUID         `json:"automationId,omitempty"`
	CreateAt       time.Time          `json:"create_at"`
	UpdateAt       time.Time          `json:"update_at"`
}

type CommentResponseDto struct {
	UUID     uuid.UUID `json:"uuid"`
	TaskUUID uuid.UUID `json:"taskId"`
	Author   string    `json:"author"`
	Body     string    `json:"body"`
	CreateAt time.Time `json:"create_at"`
}

func ToResponse(t model.Task) TaskResponseDto {
	return TaskResponseDto{
		UUID:           t.UUID,
		OwnerEmail:     t.OwnerEmail,
		Title:          t.Title,
		Description:    t.Description,
		Status:         t.Status,
		Priority:       t.Priority,
		Deadline:       t.Deadline,
		CreatedBy:      t.CreatedBy,
		AutomationUUID: t.AutomationUUID,
		CreateAt:       t.CreateAt,
		UpdateAt:       t.UpdateAt,
	}
}

func commentResponse(c model.TaskComment) CommentResponseDto {
	return CommentResponseDto{UUID: c.UUID, TaskUUID: c.TaskUUID, Author: c.Author, Body: c.Body, CreateAt: c.CreateAt}
}
