package user

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"stockverse/internal/iam/access"
	"stockverse/internal/iam/domain/model"
	"stockverse/internal/infra/lock"
	"stockverse/internal/pkg/util"
)

type CreateInput struct {
	Name     string
	Email    string
	Password string
	Phone    string
	Role     model.UserRole
}

type UpdateInput struct {
	Name     *string
	Phone    *string
	Password *string
	Role     *model.UserRole
}

type Service interface {
	Add(ctx context.Context, a access.Access, in CreateInput) (User, error)
	List(ctx context.Context, a access.Access) ([]User, error)
	Read(ctx context.Context, a access.Access, id uuid.UUID) (User, error)
	Update(ctx context.Context, a access.Access, id uuid.UUID, in UpdateInput) (User, error)
	Delete(ctx context.Context, a access.Access, id uuid.UUID) error
	SeatLimit(ctx context.Context, a access.Access) (int, error)

	FindByEmail(ctx context.Context, email string) (User, error)
	SetPassword(ctx context.Context, business string, id uuid.UUID, password string) error
}

type serviceImpl struct {
	repository Repository
	passwords  util.Password
	locker     lock.Locker
	now        func() time.Time
}

func NewService(repository Repository, passwords util.Password, locker lock.Locker) Service {
	return &serviceImpl{
		repository: repository,
		passwords:  passwords,
		locker:     locker,
		now:        time.Now,
	}
}

func seatKey(business string) string {
	return "seats:" + business
}

// Add cria uma conta Manager ou Guest na empresa do Admin. A contagem de
// assentos e a inserção rodam sob o lock da empresa.
func (s *serviceImpl) Add(ctx context.Context, a access.Access, in CreateInput) (User, error) {
	if !a.IsAdmin() {
		return User{}, ErrForbidden
	}
	if in.Role != model.RoleManager && in.Role != model.RoleGuest {
		return User{}, ErrInvalidRole
	}
	in.Name = strings.TrimSpace(in.Name)
	in.Email = model.NormalizeEmail(in.Email)
	if in.Name == "" || in.Email == "" || in.Password == "" {
		return User{}, ErrInvalidInput
	}

	hash, err := s.passwords.Hash(in.Password)
	if err != nil {
		return User{}, err
	}

	unlock, err := s.locker.Lock(ctx, seatKey(a.Business))
	if err != nil {
		return User{}, err
	}
	defer unlock()

	limit, err := s.SeatLimit(ctx, a)
	if err != nil {
		return User{}, err
	}
	if limit != model.Unlimited {
		total, err := s.repository.Count(ctx, a.Business)
		if err != nil {
			return User{}, err
		}
		if total >= int64(limit) {
			return User{}, fmt.Errorf("%w (%d)", ErrSeatLimit, limit)
		}
	}

	now := s.now().UTC()
	return s.repository.Create(ctx, User{
		Business: a.Business,
		Name:     in.Name,
		Email:    in.Email,
		Password: hash,
		Phone:    strings.TrimSpace(in.Phone),
		Role:     in.Role,
		Live:     true,
		CreateAt: now,
		UpdateAt: now,
	})
}

// SeatLimit lê a assinatura do Admin da empresa.
func (s *serviceImpl) SeatLimit(ctx context.Context, a access.Access) (int, error) {
	users, err := s.repository.List(ctx, a.Business)
	if err != nil {
		return 0, err
	}
	for _, u := range users {
		if u.Role == model.RoleAdmin {
			return model.SeatLimit(u.SubscriptionData(), s.now()), nil
		}
	}
	return model.SeatLimit(model.Subscription{}, s.now()), nil
}

func (s *serviceImpl) List(ctx context.Context, a access.Access) ([]User, error) {
	return s.repository.List(ctx, a.Business)
}

func (s *serviceImpl) Read(ctx context.Context, a access.Access, id uuid.UUID) (User, error) {
	return s.repository.Read(ctx, a.Business, id)
}

// Update: o próprio usuário altera nome, telefone e senha; o Admin altera
// nome, telefone e papel dos demais membros.
func (s *serviceImpl) Update(ctx context.Context, a access.Access, id uuid.UUID, in UpdateInput) (User, error) {
	self := a.UserUUID == id
	if !self && !a.IsAdmin() {
		return User{}, ErrForbidden
	}

	fields := make(map[string]interface{})
	if in.Name != nil {
		name := strings.TrimSpace(*in.Name)
		if name == "" {
			return User{}, ErrInvalidInput
		}
		fields["name"] = name
	}
	if in.Phone != nil {
		fields["phone"] = strings.TrimSpace(*in.Phone)
	}
	if in.Password != nil {
		if !self {
			return User{}, ErrForbidden
		}
		hash, err := s.passwords.Hash(*in.Password)
		if err != nil {
			return User{}, err
		}
		fields["password_hash"] = hash
	}
	if in.Role != nil {
		if self {
			return User{}, ErrForbidden
		}
		if *in.Role != model.RoleManager && *in.Role != model.RoleGuest {
			return User{}, ErrInvalidRole
		}
		target, err := s.repository.Read(ctx, a.Business, id)
		if err != nil {
			return User{}, err
		}
		if target.Role == model.RoleAdmin {
			return User{}, ErrForbidden
		}
		fields["role"] = *in.Role
	}
	if len(fields) == 0 {
		return User{}, ErrNothingToUpdate
	}
	fields["update_at"] = s.now().UTC()

	return s.repository.Update(ctx, a.Business, id, fields)
}

func (s *serviceImpl) Delete(ctx context.Context, a access.Access, id uuid.UUID) error {
	if !a.IsAdmin() {
		return ErrForbidden
	}
	if a.UserUUID == id {
		return ErrSelfDelete
	}
	return s.repository.Delete(ctx, a.Business, id)
}

func (s *serviceImpl) FindByEmail(ctx context.Context, email string) (User, error) {
	return s.repository.FindByEmail(ctx, email)
}

func (s *serviceImpl) SetPassword(ctx context.Context, business string, id uuid.UUID, password string) error {
	if password == "" {
		return ErrInvalidInput
	}
	hash, err := s.passwords.Hash(password)
	if err != nil {
		return err
	}
	_, err = s.repository.Update(ctx, business, id, map[string]interface{}{
		"password_hash": hash,
		"update_at":     s.now().UTC(),
	})
	return err
}
