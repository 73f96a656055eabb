package chat

import (
	"context"
	"strings"
	"time"
	"unicode/utf8"

	"stockverse/internal/iam/access"
	"stockverse/internal/office/model"
)

const (
	maxBodyRunes = 2000
	defaultLimit = 100
	maxLimit     = 500
	// janela usada quando o cliente não informa since
	defaultWindow = 24 * time.Hour
)

type Service interface {
	Post(ctx context.Context, a access.Access, body string) (model.ChatMessage, error)
	List(ctx context.Context, a access.Access, since *time.Time, limit int) ([]model.ChatMessage, error)
}

type serviceImpl struct {
	repository Repository
	now        func() time.Time
}

func NewService(repository Repository) Service {
	return &serviceImpl{repository: repository, now: time.Now}
}

func (s *serviceImpl) Post(ctx context.Context, a access.Access, body string) (model.ChatMessage, error) {
	body = strings.TrimSpace(body)
	if body == "" || utf8.RuneCountInString(body) > maxBodyRunes {
		return model.ChatMessage{}, ErrInvalidInput
	}
	return s.repository.Create(ctx, model.ChatMessage{
		Business:    a.Business,
		AuthorEmail: a.Email,
		AuthorName:  a.Name,
		Body:        body,
		CreateAt:    s.now().UTC(),
	})
}

func (s *serviceImpl) List(ctx context.Context, a access.Access, since *time.Time, limit int) ([]model.ChatMessage, error) {
	from := s.now().UTC().Add(-defaultWindow)
	if since != nil {
		from = since.UTC()
	}
	if limit <= 0 {
		limit = defaultLimit
	}
	if limit > maxLimit {
		limit = maxLimit
	}
	return s.repository.ListSince(ctx, a.Business, from, limit)
}
