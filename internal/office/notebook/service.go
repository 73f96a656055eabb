package notebook

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"stockverse/internal/iam/access"
	"stockverse/internal/office/model"
)

type CreateInput struct {
	Title  string
	Body   string
	Pinned bool
}

type UpdateInput struct {
	Title  *string
	Body   *string
	Pinned *bool
}

type Service interface {
	Create(ctx context.Context, a access.Access, in CreateInput) (model.WorkspaceNote, error)
	List(ctx context.Context, a access.Access) ([]model.WorkspaceNote, error)
	Update(ctx context.Context, a access.Access, id uuid.UUID, in UpdateInput) (model.WorkspaceNote, error)
	Delete(ctx context.Context, a access.Access, id uuid.UUID) error
}

type serviceImpl struct {
	repository Repository
	now        func() time.Time
}

func NewService(repository Repository) Service {
	return &serviceImpl{repository: repository, now: time.Now}
}

func (s *serviceImpl) Create(ctx context.Context, a access.Access, in CreateInput) (model.WorkspaceNote, error) {
	title := strings.TrimSpace(in.Title)
	if title == "" {
		return model.WorkspaceNote{}, ErrInvalidInput
	}
	now := s.now().UTC()
	return s.repository.Create(ctx, model.WorkspaceNote{
		Business: a.Business,
		Author:   a.Email,
		Title:    title,
		Body:     in.Body,
		Pinned:   in.Pinned,
		CreateAt: now,
		UpdateAt: now,
	})
}

func (s *serviceImpl) List(ctx context.Context, a access.Access) ([]model.WorkspaceNote, error) {
	return s.repository.List(ctx, a.Business)
}

// editable: autor ou Admin.
func (s *serviceImpl) editable(ctx context.Context, a access.Access, id uuid.UUID) (model.WorkspaceNote, error) {
	note, err := s.repository.Read(ctx, a.Business, id)
	if err != nil {
		return model.WorkspaceNote{}, err
	}
	if !a.IsAdmin() && !a.Is(note.Author) {
		return model.WorkspaceNote{}, ErrForbidden
	}
	return note, nil
}

func (s *serviceImpl) Update(ctx context.Context, a access.Access, id uuid.UUID, in UpdateInput) (model.WorkspaceNote, error) {
	note, err := s.editable(ctx, a, id)
	if err != nil {
		return model.WorkspaceNote{}, err
	}
	if in.Title != nil {
		title := strings.TrimSpace(*in.Title)
		if title == "" {
			return model.WorkspaceNote{}, ErrInvalidInput
		}
		note.Title = title
	}
	if in.Body != nil {
		note.Body = *in.Body
	}
	if in.Pinned != nil {
		note.Pinned = *in.Pinned
	}
	note.UpdateAt = s.now().UTC()
	return s.repository.Update(ctx, note)
}

func (s *serviceImpl) Delete(ctx context.Context, a access.Access, id uuid.UUID) error {
	if _, err := s.editable(ctx, a, id); err != nil {
		return err
	}
	return s.repository.Delete(ctx, a.Business, id)
}
