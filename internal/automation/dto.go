package automation

import (
	"time"

	"github.com/google/uuid"

	iam "stockverse/internal/iam/domain/model"
)

type CreateAutomationRequestDto struct {
	Name            string         `json:"name" binding:"required,min=1,max=255"`
	Description     string         `json:"description" binding:"max=2000"`
	Trigger         Trigger        `json:"trigger"`
	Action          Action         `json:"action"`
	VisibilityRoles []iam.UserRole `json:"visibilityRoles"`
	Active          *bool          `json:"active"`
}

type UpdateAutomationRequestDto struct {
	Name            *string         `json:"name" binding:"omitempty,min=1,max=255"`
	Description     *string         `json:"description" binding:"omitempty,max=2000"`
	Trigger         *Trigger        `json:"trigger"`
	Action          *Action         `json:"action"`
	VisibilityRoles *[]iam.UserRole `json:"visibilityRoles"`
	Active          *bool           `json:"active"`
}

type AutomationResponseDto struct {
	UUID            uuid.UUID      `json:"uuid"`
	OwnerEmail      string         `json:"ownerEmail"`
	Name            string         `json:"name"`
	Description     string         `json:"description"`
	Trigger         Trigger        `json:"trigger"`
	Action          Action         `json:"action"`
	VisibilityRoles []iam.UserRole `json:"visibilityRoles"`
	Active          bool           `json:"active"`
	LastRunAt       *time.Time     `json:"lastRunAt,omitempty"`
	LastRunStatus   string         `json:"lastRunStatus,omitempty"`
	CreateAt        time.Time      `json:"create_at"`
	UpdateAt        time.Time      `json:"update_at"`
}

type RunItemDto struct {
	AutomationUUID uuid.UUID `json:"automationId"`
	Name           string    `json:"name"`
	Message        string    `json:"message"`
}

type RunResponseDto struct {
	Triggered int          `json:"triggered"`
	Results   []RunItemDto `json:"results"`
	Metrics   Snapshot     `json:"metrics"`
}

type AlertResponseDto struct {
	UUID           uuid.UUID      `json:"uuid"`
	AutomationUUID uuid.UUID      `json:"automationId"`
	Message        string         `json:"message"`
	Roles          []iam.UserRole `json:"roles"`
	Action         Action         `json:"action"`
	Recipients     []string       `json:"recipients"`
	Metadata       AlertMetadata  `json:"metadata"`
	Read           bool           `json:"read"`
	CreateAt       time.Time      `json:"create_at"`
}

func ToResponse(a Automation) AutomationResponseDto {
	return AutomationResponseDto{
		UUID:            a.UUID,
		OwnerEmail:      a.OwnerEmail,
		Name:            a.Name,
		Description:     a.Description,
		Trigger:         a.Trigger.Data(),
		Action:          a.Action.Data(),
		VisibilityRoles: a.Roles(),
		Active:          a.Active,
		LastRunAt:       a.LastRunAt,
		LastRunStatus:   a.LastRunStatus,
		CreateAt:        a.CreateAt,
		UpdateAt:        a.UpdateAt,
	}
}

func toRunResponse(r RunResult) RunResponseDto {
	items := make([]RunItemDto, 0, len(r.Results))
	for _, it := range r.Results {
		items = append(items, RunItemDto{AutomationUUID: it.AutomationUUID, Name: it.Name, Message: it.Message})
	}
	return RunResponseDto{Triggered: r.Triggered, Results: items, Metrics: r.Metrics}
}

func toAlertResponse(v AlertView) AlertResponseDto {
	return AlertResponseDto{
		UUID:           v.UUID,
		AutomationUUID: v.AutomationUUID,
		Message:        v.Message,
		Roles:          []iam.UserRole(v.Roles),
		Action:         v.Action.Data(),
		Recipients:     []string(v.Recipients),
		Metadata:       v.Metadata.Data(),
		Read:           v.Read,
		CreateAt:       v.CreateAt,
	}
}
