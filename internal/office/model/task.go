package model

import (
	"time"

	"github.com/google/uuid"
)

type TaskStatus string

const (
	TaskTodo       TaskStatus = "Todo"
	TaskInProgress TaskStatus = "In Progress"
	TaskDone       TaskStatus = "Done"
)

type TaskPriority string

const (
	PriorityLow    TaskPriority = "Low"
	PriorityMedium TaskPriority = "Medium"
	PriorityHigh   TaskPriority = "High"
)

func IsValidTaskStatus(s TaskStatus) bool {
	return s == TaskTodo || s == TaskInProgress || s == TaskDone
}

func IsValidTaskPriority(p TaskPriority) bool {
	return p == PriorityLow || p == PriorityMedium || p == PriorityHigh
}

type Task struct {
	UUID           uuid.UUID    `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Business       string       `gorm:"type:varchar(120);not null;index"`
	OwnerEmail     string       `gorm:"column:owner_email;type:varchar(255);not null"`
	Title          string       `gorm:"type:varchar(255);not null"`
	Description    string       `gorm:"type:text;not null;default:''"`
	Status         TaskStatus   `gorm:"type:varchar(20);not null;default:'Todo'"`
	Priority       TaskPriority `gorm:"type:varchar(20);not null;default:'Medium'"`
	Deadline       *time.Time   `gorm:"type:timestamptz"`
	CreatedBy      string       `gorm:"column:created_by;type:varchar(255);not null;default:''"`
	AutomationUUID *uuid.UUID   `gorm:"column:automation_uuid;type:uuid"`
	CreateAt       time.Time    `gorm:"column:create_at;not null;autoCreateTime"`
	UpdateAt       time.Time    `gorm:"column:update_at;not null;autoUpdateTime"`
}

func (Task) TableName() string {
	return "tasks"
}

// Completed: status Done.
func (t Task) Completed() bool {
	return t.Status == TaskDone
}

// Overdue: prazo no passado e tarefa não concluída.
func (t Task) Overdue(now time.Time) bool {
	return t.Deadline != nil && t.Deadline.Before(now) && !t.Completed()
}

type TaskComment struct {
	UUID     uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Business string    `gorm:"type:varchar(120);not null"`
	TaskUUID uuid.UUID `gorm:"column:task_uuid;type:uuid;not null;index"`
	Author   string    `gorm:"type:varchar(255);not null"`
	Body     string    `gorm:"type:text;not null"`
	CreateAt time.Time `gorm:"column:create_at;not null;autoCreateTime"`
}

func (TaskComment) TableName() string {
	return "task_comments"
}
