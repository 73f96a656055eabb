package automation

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"

	iam "stockverse/internal/iam/domain/model"
)

type TriggerType string

const (
	TriggerKPI  TriggerType = "kpi"
	TriggerDate TriggerType = "date"
)

type Comparator string

const (
	Above  Comparator = "above"
	Below  Comparator = "below"
	Equals Comparator = "equals"
)

type DateField string

const (
	FieldStartDate DateField = "startDate"
	FieldBirthDate DateField = "birthDate"
)

type KPITrigger struct {
	MetricID   string     `json:"metricId"`
	Comparator Comparator `json:"comparator"`
	Threshold  float64    `json:"threshold"`
}

type DateTrigger struct {
	Field      DateField `json:"dateField"`
	OffsetDays int       `json:"offsetDays"`
}

// Trigger é a união etiquetada por Type; só a variante correspondente é
// preenchida.
type Trigger struct {
	Type TriggerType  `json:"type"`
	KPI  *KPITrigger  `json:"kpi,omitempty"`
	Date *DateTrigger `json:"date,omitempty"`
}

type ActionType string

const (
	ActionAlert ActionType = "alert"
	ActionTask  ActionType = "task"
	ActionEmail ActionType = "email"
)

type TaskAction struct {
	Title       string `json:"title,omitempty"`
	Description string `json:"description,omitempty"`
	Priority    string `json:"priority,omitempty"`
	DueInDays   *int   `json:"dueInDays,omitempty"`
}

type EmailAction struct {
	Subject string `json:"subject,omitempty"`
	Body    string `json:"body,omitempty"`
}

// Action é a união etiquetada do efeito. Email pode vir preenchido mesmo
// quando Type não é email; nesse caso o e-mail também é enviado.
type Action struct {
	Type    ActionType   `json:"type"`
	Message string       `json:"message,omitempty"`
	Task    *TaskAction  `json:"task,omitempty"`
	Email   *EmailAction `json:"email,omitempty"`
}

const (
	RunStatusTriggered = "triggered"
	RunStatusIdle      = "idle"
)

type Automation struct {
	UUID            uuid.UUID                         `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Business        string                            `gorm:"type:varchar(120);not null;index"`
	OwnerEmail      string                            `gorm:"column:owner_email;type:varchar(255);not null"`
	Name            string                            `gorm:"type:varchar(255);not null"`
	Description     string                            `gorm:"type:text;not null;default:''"`
	Trigger         datatypes.JSONType[Trigger]       `gorm:"type:jsonb;not null"`
	Action          datatypes.JSONType[Action]        `gorm:"type:jsonb;not null"`
	VisibilityRoles datatypes.JSONSlice[iam.UserRole] `gorm:"column:visibility_roles;type:jsonb;not null"`
	Active          bool                              `gorm:"not null;default:true"`
	LastRunAt       *time.Time                        `gorm:"column:last_run_at"`
	LastRunStatus   string                            `gorm:"column:last_run_status;type:varchar(30);not null;default:''"`
	CreateAt        time.Time                         `gorm:"column:create_at;not null;autoCreateTime"`
	UpdateAt        time.Time                         `gorm:"column:update_at;not null;autoUpdateTime"`
}

func (Automation) TableName() string {
	return "automations"
}

// Roles devolve os papéis de visibilidade; vazio equivale a só Admin.
func (a Automation) Roles() []iam.UserRole {
	if len(a.VisibilityRoles) == 0 {
		return []iam.UserRole{iam.RoleAdmin}
	}
	return []iam.UserRole(a.VisibilityRoles)
}

// AlertMetadata guarda o snapshot usado na avaliação.
type AlertMetadata struct {
	Metrics Snapshot `json:"metrics"`
	Matches int      `json:"matches,omitempty"`
}

// Alert é imutável após criado, exceto ReadBy, que só cresce.
type Alert struct {
	UUID           uuid.UUID                         `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	AutomationUUID uuid.UUID                         `gorm:"column:automation_uuid;type:uuid;not null"`
	Business       string                            `gorm:"type:varchar(120);not null"`
	Message        string                            `gorm:"type:text;not null"`
	Roles          datatypes.JSONSlice[iam.UserRole] `gorm:"type:jsonb;not null"`
	Action         datatypes.JSONType[Action]        `gorm:"type:jsonb"`
	ReadBy         datatypes.JSONSlice[string]       `gorm:"column:read_by;type:jsonb;not null"`
	Recipients     datatypes.JSONSlice[string]       `gorm:"type:jsonb;not null"`
	Metadata       datatypes.JSONType[AlertMetadata] `gorm:"type:jsonb"`
	CreateAt       time.Time                         `gorm:"column:create_at;not null;autoCreateTime"`
}

func (Alert) TableName() string {
	return "automation_alerts"
}

// ReadByEmail diz se o e-mail já marcou o alerta como lido.
func (a Alert) ReadByEmail(email string) bool {
	for _, e := range a.ReadBy {
		if e == email {
			return true
		}
	}
	return false
}

// VisibleTo: papel do chamador nos papéis do alerta ou e-mail entre os
// destinatários.
func (a Alert) VisibleTo(role iam.UserRole, email string) bool {
	for _, r := range a.Roles {
		if r == role {
			return true
		}
	}
	for _, e := range a.Recipients {
		if e == email {
			return true
		}
	}
	return false
}
