package business

import (
	"context"
	"errors"
	"net/url"
	"strings"

	"stockverse/internal/iam/access"
	"stockverse/internal/iam/domain/model"
)

const maxWebhooks = 5

type UpdateInput struct {
	DisplayName *string
	Address     *string
	Phone       *string
	WebhookURLs *[]string
}

type Service interface {
	Get(ctx context.Context, a access.Access) (model.Business, error)
	Update(ctx context.Context, a access.Access, in UpdateInput) (model.Business, error)
	// WebhookURLs devolve os endpoints de chat-ops da empresa; falhas
	// resultam em lista vazia.
	WebhookURLs(ctx context.Context, business string) []string
}

type implService struct {
	repository Repository
}

func NewService(repository Repository) Service {
	return &implService{repository: repository}
}

func (s *implService) Get(ctx context.Context, a access.Access) (model.Business, error) {
	return s.repository.Read(ctx, a.Business)
}

func (s *implService) Update(ctx context.Context, a access.Access, in UpdateInput) (model.Business, error) {
	if !a.IsAdmin() {
		return model.Business{}, ErrForbidden
	}

	current, err := s.repository.Read(ctx, a.Business)
	if err != nil {
		return model.Business{}, err
	}

	if in.DisplayName != nil {
		name := strings.TrimSpace(*in.DisplayName)
		if name == "" {
			return model.Business{}, ErrInvalidInput
		}
		current.DisplayName = name
	}
	if in.Address != nil {
		current.Address = strings.TrimSpace(*in.Address)
	}
	if in.Phone != nil {
		current.Phone = strings.TrimSpace(*in.Phone)
	}
	if in.WebhookURLs != nil {
		urls, err := normalizeWebhooks(*in.WebhookURLs)
		if err != nil {
			return model.Business{}, err
		}
		current.WebhookURLs = urls
	}

	return s.repository.Update(ctx, current)
}

func (s *implService) WebhookURLs(ctx context.Context, business string) []string {
	b, err := s.repository.Read(ctx, business)
	if err != nil {
		return nil
	}
	return []string(b.WebhookURLs)
}

func normalizeWebhooks(in []string) ([]string, error) {
	out := make([]string, 0, len(in))
	seen := make(map[string]struct{}, len(in))
	for _, raw := range in {
		raw = strings.TrimSpace(raw)
		if raw == "" {
			continue
		}
		u, err := url.Parse(raw)
		if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
			return nil, errors.Join(ErrInvalidWebhook, errors.New(raw))
		}
		if _, ok := seen[raw]; ok {
			continue
		}
		seen[raw] = struct{}{}
		out = append(out, raw)
	}
	if len(out) > maxWebhooks {
		return nil, ErrTooManyWebhooks
	}
	return out, nil
}
