package personnel

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"stockverse/internal/iam/access"
	"stockverse/internal/office/model"
)

const dateLayout = "2006-01-02"

type CreateInput struct {
	OwnerEmail string
	LegalName  string
	Department string
	BirthDate  string
	StartDate  string
}

// UpdateInput: data vazia limpa o campo.
type UpdateInput struct {
	LegalName  *string
	Department *string
	BirthDate  *string
	StartDate  *string
}

type Service interface {
	Create(ctx context.Context, a access.Access, in CreateInput) (model.PersonalRecord, error)
	List(ctx context.Context, a access.Access) ([]model.PersonalRecord, error)
	Update(ctx context.Context, a access.Access, id uuid.UUID, in UpdateInput) (model.PersonalRecord, error)
	Delete(ctx context.Context, a access.Access, id uuid.UUID) error
}

type serviceImpl struct {
	repository Repository
	now        func() time.Time
}

func NewService(repository Repository) Service {
	return &serviceImpl{repository: repository, now: time.Now}
}

func (s *serviceImpl) Create(ctx context.Context, a access.Access, in CreateInput) (model.PersonalRecord, error) {
	if !a.CanManage() {
		return model.PersonalRecord{}, ErrForbidden
	}
	name := strings.TrimSpace(in.LegalName)
	if name == "" {
		return model.PersonalRecord{}, ErrInvalidInput
	}
	birth, err := parseDate(in.BirthDate)
	if err != nil {
		return model.PersonalRecord{}, err
	}
	start, err := parseDate(in.StartDate)
	if err != nil {
		return model.PersonalRecord{}, err
	}
	owner := strings.ToLower(strings.TrimSpace(in.OwnerEmail))
	if owner == "" {
		owner = a.Email
	}

	now := s.now().UTC()
	return s.repository.Create(ctx, model.PersonalRecord{
		Business:   a.Business,
		OwnerEmail: owner,
		LegalName:  name,
		Department: strings.TrimSpace(in.Department),
		BirthDate:  birth,
		StartDate:  start,
		CreateAt:   now,
		UpdateAt:   now,
	})
}

func (s *serviceImpl) List(ctx context.Context, a access.Access) ([]model.PersonalRecord, error) {
	if !a.CanManage() {
		return nil, ErrForbidden
	}
	return s.repository.List(ctx, a.Business)
}

func (s *serviceImpl) Update(ctx context.Context, a access.Access, id uuid.UUID, in UpdateInput) (model.PersonalRecord, error) {
	if !a.CanManage() {
		return model.PersonalRecord{}, ErrForbidden
	}
	current, err := s.repository.Read(ctx, a.Business, id)
	if err != nil {
		return model.PersonalRecord{}, err
	}
	if in.LegalName != nil {
		name := strings.TrimSpace(*in.LegalName)
		if name == "" {
			return model.PersonalRecord{}, ErrInvalidInput
		}
		current.LegalName = name
	}
	if in.Department != nil {
		current.Department = strings.TrimSpace(*in.Department)
	}
	if in.BirthDate != nil {
		if current.BirthDate, err = parseDate(*in.BirthDate); err != nil {
			return model.PersonalRecord{}, err
		}
	}
	if in.StartDate != nil {
		if current.StartDate, err = parseDate(*in.StartDate); err != nil {
			return model.PersonalRecord{}, err
		}
	}
	current.UpdateAt = s.now().UTC()
	return s.repository.Update(ctx, current)
}

func (s *serviceImpl) Delete(ctx context.Context, a access.Access, id uuid.UUID) error {
	if !a.CanManage() {
		return ErrForbidden
	}
	return s.repository.Delete(ctx, a.Business, id)
}

func parseDate(v string) (*time.Time, error) {
	v = strings.TrimSpace(v)
	if v == "" {
		return nil, nil
	}
	t, err := time.ParseInLocation(dateLayout, v, time.UTC)
	if err != nil {
		return nil, ErrInvalidInput
	}
	return &t, nil
}
