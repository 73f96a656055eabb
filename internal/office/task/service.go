package task

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"stockverse/internal/iam/access"
	"stockverse/internal/office/model"
	"stockverse/internal/pkg/calendar"
)

type CreateInput struct {
	Title       string
	Description string
	Status      model.TaskStatus
	Priority    model.TaskPriority
	Deadline    *time.Time
	OwnerEmail  string
}

type UpdateInput struct {
	Title         *string
	Description   *string
	Status        *model.TaskStatus
	Priority      *model.TaskPriority
	Deadline      *time.Time
	ClearDeadline bool
}

type Service interface {
	Create(ctx context.Context, a access.Access, in CreateInput) (model.Task, error)
	// List: Admin/Manager veem todas as tarefas da empresa, os demais só as suas.
	List(ctx context.Context, a access.Access) ([]model.Task, error)
	Update(ctx context.Context, a access.Access, id uuid.UUID, in UpdateInput) (model.Task, error)
	Delete(ctx context.Context, a access.Access, id uuid.UUID) error

	AddComment(ctx context.Context, a access.Access, taskID uuid.UUID, body string) (model.TaskComment, error)
	ListComments(ctx context.Context, a access.Access, taskID uuid.UUID) ([]model.TaskComment, error)

	// Calendar exporta as tarefas visíveis com prazo em iCalendar.
	Calendar(ctx context.Context, a access.Access) (string, error)
}

type serviceImpl struct {
	repository Repository
	now        func() time.Time
}

func NewService(repository Repository) Service {
	return &serviceImpl{repository: repository, now: time.Now}
}

func (s *serviceImpl) Create(ctx context.Context, a access.Access, in CreateInput) (model.Task, error) {
	title := strings.TrimSpace(in.Title)
	if title == "" {
		return model.Task{}, ErrInvalidInput
	}
	status := in.Status
	if status == "" {
		status = model.TaskTodo
	}
	if !model.IsValidTaskStatus(status) {
		return model.Task{}, ErrInvalidStatus
	}
	priority := in.Priority
	if priority == "" {
		priority = model.PriorityMedium
	}
	if !model.IsValidTaskPriority(priority) {
		return model.Task{}, ErrInvalidPriority
	}

	owner := a.Email
	if o := strings.ToLower(strings.TrimSpace(in.OwnerEmail)); o != "" && !a.Is(o) {
		if !a.CanManage() {
			return model.Task{}, ErrReadOnly
		}
		owner = o
	}

	now := s.now().UTC()
	return s.repository.Create(ctx, model.Task{
		Business:    a.Business,
		OwnerEmail:  owner,
		Title:       title,
		Description: strings.TrimSpace(in.Description),
		Status:      status,
		Priority:    priority,
		Deadline:    utc(in.Deadline),
		CreatedBy:   a.Email,
		CreateAt:    now,
		UpdateAt:    now,
	})
}

func (s *serviceImpl) List(ctx context.Context, a access.Access) ([]model.Task, error) {
	owner := a.Email
	if a.CanManage() {
		owner = ""
	}
	return s.repository.List(ctx, a.Business, owner)
}

// load lê a tarefa e confere se o chamador pode vê-la.
func (s *serviceImpl) load(ctx context.Context, a access.Access, id uuid.UUID) (model.Task, error) {
	t, err := s.repository.Read(ctx, a.Business, id)
	if err != nil {
		return model.Task{}, err
	}
	if !a.CanManage() && !a.Is(t.OwnerEmail) {
		return model.Task{}, ErrForbidden
	}
	return t, nil
}

func (s *serviceImpl) Update(ctx context.Context, a access.Access, id uuid.UUID, in UpdateInput) (model.Task, error) {
	current, err := s.load(ctx, a, id)
	if err != nil {
		return model.Task{}, err
	}
	if in.Title != nil {
		title := strings.TrimSpace(*in.Title)
		if title == "" {
			return model.Task{}, ErrInvalidInput
		}
		current.Title = title
	}
	if in.Description != nil {
		current.Description = strings.TrimSpace(*in.Description)
	}
	if in.Status != nil {
		if !model.IsValidTaskStatus(*in.Status) {
			return model.Task{}, ErrInvalidStatus
		}
		current.Status = *in.Status
	}
	if in.Priority != nil {
		if !model.IsValidTaskPriority(*in.Priority) {
			return model.Task{}, ErrInvalidPriority
		}
		current.Priority = *in.Priority
	}
	switch {
	case in.ClearDeadline:
		current.Deadline = nil
	case in.Deadline != nil:
		current.Deadline = utc(in.Deadline)
	}
	current.UpdateAt = s.now().UTC()
	return s.repository.Update(ctx, current)
}

func (s *serviceImpl) Delete(ctx context.Context, a access.Access, id uuid.UUID) error {
	if _, err := s.load(ctx, a, id); err != nil {
		return err
	}
	return s.repository.Delete(ctx, a.Business, id)
}

func (s *serviceImpl) AddComment(ctx context.Context, a access.Access, taskID uuid.UUID, body string) (model.TaskComment, error) {
	body = strings.TrimSpace(body)
	if body == "" {
		return model.TaskComment{}, ErrInvalidInput
	}
	if _, err := s.load(ctx, a, taskID); err != nil {
		return model.TaskComment{}, err
	}
	return s.repository.AddComment(ctx, model.TaskComment{
		Business: a.Business,
		TaskUUID: taskID,
		Author:   a.Email,
		Body:     body,
		CreateAt: s.now().UTC(),
	})
}

func (s *serviceImpl) ListComments(ctx context.Context, a access.Access, taskID uuid.UUID) ([]model.TaskComment, error) {
	if _, err := s.load(ctx, a, taskID); err != nil {
		return nil, err
	}
	return s.repository.ListComments(ctx, a.Business, taskID)
}

func (s *serviceImpl) Calendar(ctx context.Context, a access.Access) (string, error) {
	tasks, err := s.List(ctx, a)
	if err != nil {
		return "", err
	}
	events := make([]calendar.Event, 0, len(tasks))
	for _, t := range tasks {
		if t.Deadline == nil {
			continue
		}
		events = append(events, calendar.Event{
			UID:         t.UUID.String() + "@stockverse",
			Summary:     fmt.Sprintf("[%s] %s", t.Status, t.Title),
			Description: t.Description,
			Date:        t.Deadline.UTC(),
		})
	}
	return calendar.Render(a.Business+" tasks", events, s.now()), nil
}

func utc(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	v := t.UTC()
	return &v
}
