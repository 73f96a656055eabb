package stock

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/lithammer/fuzzysearch/fuzzy"
	"github.com/shopspring/decimal"

	"stockverse/internal/iam/access"
	"stockverse/internal/office/model"
)

type CreateInput struct {
	Name      string
	SKU       string
	Quantity  int
	UnitPrice decimal.Decimal
	Location  string
}

type UpdateInput struct {
	Name      *string
	SKU       *string
	Quantity  *int
	UnitPrice *decimal.Decimal
	Location  *string
}

type Service interface {
	Create(ctx context.Context, a access.Access, in CreateInput) (model.Stock, error)
	List(ctx context.Context, a access.Access, query string) ([]model.Stock, error)
	Update(ctx context.Context, a access.Access, id uuid.UUID, in UpdateInput) (model.Stock, error)
	Delete(ctx context.Context, a access.Access, id uuid.UUID) error
}

type serviceImpl struct {
	repository Repository
	now        func() time.Time
}

func NewService(repository Repository) Service {
	return &serviceImpl{repository: repository, now: time.Now}
}

func (s *serviceImpl) Create(ctx context.Context, a access.Access, in CreateInput) (model.Stock, error) {
	if !a.CanWrite() {
		return model.Stock{}, ErrReadOnly
	}
	name := strings.TrimSpace(in.Name)
	if name == "" || in.Quantity < 0 || in.UnitPrice.IsNegative() {
		return model.Stock{}, ErrInvalidInput
	}
	now := s.now().UTC()
	return s.repository.Create(ctx, model.Stock{
		Business:   a.Business,
		OwnerEmail: a.Email,
		Name:       name,
		SKU:        strings.ToUpper(strings.TrimSpace(in.SKU)),
		Quantity:   in.Quantity,
		UnitPrice:  in.UnitPrice.Round(2),
		Location:   strings.TrimSpace(in.Location),
		CreateAt:   now,
		UpdateAt:   now,
	})
}

// List devolve o estoque da empresa. Com query, filtra nome e SKU por busca
// aproximada e ordena pela distância.
func (s *serviceImpl) List(ctx context.Context, a access.Access, query string) ([]model.Stock, error) {
	items, err := s.repository.List(ctx, a.Business)
	if err != nil {
		return nil, err
	}
	query = strings.TrimSpace(query)
	if query == "" {
		return items, nil
	}
	return rank(items, query), nil
}

func rank(items []model.Stock, query string) []model.Stock {
	type hit struct {
		item model.Stock
		dist int
	}
	hits := make([]hit, 0, len(items))
	for _, it := range items {
		best := -1
		for _, field := range []string{it.Name, it.SKU} {
			if field == "" {
				continue
			}
			d := fuzzy.RankMatchNormalizedFold(query, field)
			if d >= 0 && (best < 0 || d < best) {
				best = d
			}
		}
		if best >= 0 {
			hits = append(hits, hit{item: it, dist: best})
		}
	}
	sort.SliceStable(hits, func(i, j int) bool { return hits[i].dist < hits[j].dist })

	out := make([]model.Stock, len(hits))
	for i, h := range hits {
		out[i] = h.item
	}
	return out
}

func (s *serviceImpl) Update(ctx context.Context, a access.Access, id uuid.UUID, in UpdateInput) (model.Stock, error) {
	if !a.CanWrite() {
		return model.Stock{}, ErrReadOnly
	}
	current, err := s.repository.Read(ctx, a.Business, id)
	if err != nil {
		return model.Stock{}, err
	}
	if in.Name != nil {
		name := strings.TrimSpace(*in.Name)
		if name == "" {
			return model.Stock{}, ErrInvalidInput
		}
		current.Name = name
	}
	if in.SKU != nil {
		current.SKU = strings.ToUpper(strings.TrimSpace(*in.SKU))
	}
	if in.Quantity != nil {
		if *in.Quantity < 0 {
			return model.Stock{}, ErrInvalidInput
		}
		current.Quantity = *in.Quantity
	}
	if in.UnitPrice != nil {
		if in.UnitPrice.IsNegative() {
			return model.Stock{}, ErrInvalidInput
		}
		current.UnitPrice = in.UnitPrice.Round(2)
	}
	if in.Location != nil {
		current.Location = strings.TrimSpace(*in.Location)
	}
	current.UpdateAt = s.now().UTC()
	return s.repository.Update(ctx, current)
}

func (s *serviceImpl) Delete(ctx context.Context, a access.Access, id uuid.UUID) error {
	if !a.CanWrite() {
		return ErrReadOnly
	}
	return s.repository.Delete(ctx, a.Business, id)
}
