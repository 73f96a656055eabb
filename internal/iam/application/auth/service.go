package auth

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"stockverse/internal/iam/application/auth/cache"
	"stockverse/internal/iam/domain/model"
	"stockverse/internal/iam/domain/user"
	"stockverse/internal/iam/middleware"
	"stockverse/internal/pkg/logger"
	"stockverse/internal/pkg/mailer"
	"stockverse/internal/pkg/util"
)

const otpLength = 6

var businessKeyPattern = regexp.MustCompile(`^[a-z0-9][a-z0-9-]{1,59}$`)

// TokenIssuer emite o JWT de acesso.
type TokenIssuer interface {
	GenerateAccessToken(userID uuid.UUID, business string) (string, time.Time, error)
}

// UserDirectory é o que o auth usa do domínio de usuários.
type UserDirectory interface {
	FindByEmail(ctx context.Context, email string) (user.User, error)
	SetPassword(ctx context.Context, business string, id uuid.UUID, password string) error
}

type RegisterInput struct {
	Name     string
	Email    string
	Password string
	Business string
}

type Service interface {
	Register(ctx context.Context, in RegisterInput) (model.User, error)
	Login(ctx context.Context, email, pwd string) (middleware.Login, error)
	RevokeAcessToken(ctx context.Context, token string) error
	CreateOTPCode(ctx context.Context, email string) error
	ValidateOTPCode(email, code string) bool
	ChangeUserPwd(ctx context.Context, otpCode, email, pwd string) error
}

type implService struct {
	repository Repository
	users      UserDirectory
	passwords  util.Password
	tokens     TokenIssuer
	otp        *cache.OTPStore
	mail       mailer.Service
	now        func() time.Time
}

func NewService(repository Repository, users UserDirectory, passwords util.Password, tokens TokenIssuer, otp *cache.OTPStore, mail mailer.Service) Service {
	if mail == nil {
		mail = mailer.Disabled()
	}
	return &implService{
		repository: repository,
		users:      users,
		passwords:  passwords,
		tokens:     tokens,
		otp:        otp,
		mail:       mail,
		now:        time.Now,
	}
}

// BusinessKey converte o nome informado na chave de tenant.
func BusinessKey(name string) (string, error) {
	var b strings.Builder
	dash := false
	for _, r := range strings.ToLower(strings.TrimSpace(name)) {
		switch {
		case (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9'):
			b.WriteRune(r)
			dash = false
		case r == ' ' || r == '-' || r == '_' || r == '.':
			if !dash && b.Len() > 0 {
				b.WriteByte('-')
				dash = true
			}
		}
	}
	key := strings.TrimRight(b.String(), "-")
	if !businessKeyPattern.MatchString(key) {
		return "", ErrInvalidBusiness
	}
	return key, nil
}

// Register abre uma empresa nova; o primeiro usuário é o Admin.
func (s *implService) Register(ctx context.Context, in RegisterInput) (model.User, error) {
	key, err := BusinessKey(in.Business)
	if err != nil {
		return model.User{}, err
	}
	email := model.NormalizeEmail(in.Email)
	if _, err := s.users.FindByEmail(ctx, email); err == nil {
		return model.User{}, ErrEmailExists
	} else if !errors.Is(err, user.ErrNotFound) {
		return model.User{}, err
	}

	hash, err := s.passwords.Hash(in.Password)
	if err != nil {
		return model.User{}, err
	}

	now := s.now().UTC()
	return s.repository.Register(ctx,
		model.Business{
			Business:    key,
			DisplayName: strings.TrimSpace(in.Business),
			CreateAt:    now,
			UpdateAt:    now,
		},
		model.User{
			Business: key,
			Name:     strings.TrimSpace(in.Name),
			Email:    email,
			Password: hash,
			Role:     model.RoleAdmin,
			Live:     true,
			CreateAt: now,
			UpdateAt: now,
		},
	)
}

func (s *implService) Login(ctx context.Context, email, pwd string) (middleware.Login, error) {
	rUser, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, user.ErrNotFound) || errors.Is(err, user.ErrInvalidInput) {
			return middleware.Login{}, ErrPwdWrong
		}
		return middleware.Login{}, err
	}
	if err := s.passwords.Compare(rUser.Password, pwd); err != nil {
		return middleware.Login{}, ErrPwdWrong
	}
	if !rUser.Live {
		return middleware.Login{}, ErrUserDisabled
	}

	token, expTime, err := s.tokens.GenerateAccessToken(rUser.UUID, rUser.Business)
	if err != nil {
		return middleware.Login{}, err
	}

	// sessão única por usuário
	if err := s.repository.RevokeAllUserTokens(ctx, rUser.UUID); err != nil {
		logger.FromContext(ctx).Warn("[AUTH] falha ao revogar tokens anteriores", zap.Error(err))
	}

	acessToken := model.AcessToken{UserUUID: rUser.UUID, Token: token, Expiry: expTime, CreateAt: s.now().UTC()}
	if err := s.repository.CreateAcessToken(ctx, acessToken); err != nil {
		return middleware.Login{}, err
	}

	return middleware.Login{User: rUser, AcessToken: acessToken}, nil
}

func (s *implService) RevokeAcessToken(ctx context.Context, token string) error {
	return s.repository.RevokeAcessToken(ctx, token)
}

func (s *implService) CreateOTPCode(ctx context.Context, email string) error {
	rUser, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		return err
	}
	if _, found := s.otp.Get(rUser.Email); found {
		return OTPCodeExist
	}

	otpCode, err := GenerateOTP(otpLength)
	if err != nil {
		return err
	}
	if !s.otp.Save(rUser.Email, otpCode) {
		return OTPCodeExist
	}

	err = s.mail.Send(ctx, mailer.Message{
		To:      []string{rUser.Email},
		Subject: "OTP Code",
		Text:    fmt.Sprintf("Seu código OTP é: %s", otpCode),
		HTML:    fmt.Sprintf("<h1>Seu código OTP é: %s</h1>", otpCode),
	})
	if err != nil {
		// sem email o código não serve; libera novo pedido
		s.otp.Delete(rUser.Email)
		return err
	}
	return nil
}

func (s *implService) ValidateOTPCode(email, code string) bool {
	stored, found := s.otp.Get(email)
	return found && code != "" && subtle.ConstantTimeCompare([]byte(stored), []byte(code)) == 1
}

func (s *implService) ChangeUserPwd(ctx context.Context, otpCode, email, pwd string) error {
	if !s.ValidateOTPCode(email, otpCode) {
		return OTPCodeWrong
	}
	s.otp.Delete(email)

	rUser, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		return err
	}
	if err := s.users.SetPassword(ctx, rUser.Business, rUser.UUID, pwd); err != nil {
		return err
	}
	// troca de senha derruba as sessões abertas
	return s.repository.RevokeAllUserTokens(ctx, rUser.UUID)
}
