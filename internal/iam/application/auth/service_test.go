package auth

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stockverse/internal/iam/application/auth/cache"
	"stockverse/internal/iam/domain/model"
	"stockverse/internal/iam/domain/user"
	"stockverse/internal/pkg/mailer"
	"stockverse/internal/pkg/util"
)

type fakeRepo struct {
	businesses map[string]model.Business
	tokens     []model.AcessToken
	revokedAll []uuid.UUID
}

func (f *fakeRepo) Register(_ context.Context, b model.Business, admin model.User) (model.User, error) {
	if _, ok := f.businesses[b.Business]; ok {
		return model.User{}, ErrBusinessExists
	}
	f.businesses[b.Business] = b
	admin.UUID = uuid.New()
	return admin, nil
}

func (f *fakeRepo) CreateAcessToken(_ context.Context, m model.AcessToken) error {
	f.tokens = append(f.tokens, m)
	return nil
}

func (f *fakeRepo) RevokeAcessToken(_ context.Context, token string) error {
	for i := range f.tokens {
		if f.tokens[i].Token == token {
			f.tokens[i].Expiry = time.Now()
			return nil
		}
	}
	return ErrTokenNotFound
}

func (f *fakeRepo) RevokeAllUserTokens(_ context.Context, id uuid.UUID) error {
	f.revokedAll = append(f.revokedAll, id)
	return nil
}

type fakeUsers struct {
	byEmail map[string]user.User
	pwdSet  map[uuid.UUID]string
}

func (f *fakeUsers) FindByEmail(_ context.Context, email string) (user.User, error) {
	u, ok := f.byEmail[model.NormalizeEmail(email)]
	if !ok {
		return user.User{}, user.ErrNotFound
	}
	return u, nil
}

func (f *fakeUsers) SetPassword(_ context.Context, _ string, id uuid.UUID, password string) error {
	f.pwdSet[id] = password
	return nil
}

type fakeTokens struct{ n int }

func (f *fakeTokens) GenerateAccessToken(uuid.UUID, string) (string, time.Time, error) {
	f.n++
	return "token-" + string(rune('a'+f.n)), time.Now().Add(time.Hour), nil
}

type captureMailer struct {
	sent []mailer.Message
	err  error
}

func (m *captureMailer) Send(_ context.Context, msg mailer.Message) error {
	if m.err != nil {
		return m.err
	}
	m.sent = append(m.sent, msg)
	return nil
}

type fixture struct {
	svc   Service
	repo  *fakeRepo
	users *fakeUsers
	mail  *captureMailer
	alice user.User
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	pwd := util.NewFastPassword()
	hash, err := pwd.Hash("correct-horse")
	require.NoError(t, err)

	alice := user.User{UUID: uuid.New(), Business: "acme", Email: "alice@acme.io", Password: hash, Role: model.RoleAdmin, Live: true}
	f := &fixture{
		repo:  &fakeRepo{businesses: map[string]model.Business{"acme": {Business: "acme"}}},
		users: &fakeUsers{byEmail: map[string]user.User{alice.Email: alice}, pwdSet: map[uuid.UUID]string{}},
		mail:  &captureMailer{},
		alice: alice,
	}
	f.svc = NewService(f.repo, f.users, pwd, &fakeTokens{}, cache.NewOTPStore(), f.mail)
	return f
}

func TestBusinessKey(t *testing.T) {
	cases := map[string]string{
		"Acme Corp":       "acme-corp",
		"  Joe's  Bakery": "joes-bakery",
		"north_wind.io":   "north-wind-io",
	}
	for in, want := range cases {
		got, err := BusinessKey(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got)
	}
	for _, bad := range []string{"", "!", "a"} {
		_, err := BusinessKey(bad)
		assert.ErrorIs(t, err, ErrInvalidBusiness, bad)
	}
}

func TestRegister(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	u, err := f.svc.Register(ctx, RegisterInput{Name: "Bob", Email: "Bob@Globex.io", Password: "s3cret-pass", Business: "Globex Inc"})
	require.NoError(t, err)
	assert.Equal(t, model.RoleAdmin, u.Role)
	assert.Equal(t, "globex-inc", u.Business)
	assert.Equal(t, "bob@globex.io", u.Email)
	assert.Equal(t, "Globex Inc", f.repo.businesses["globex-inc"].DisplayName)

	_, err = f.svc.Register(ctx, RegisterInput{Name: "Eve", Email: "eve@x.io", Password: "s3cret-pass", Business: "ACME"})
	assert.ErrorIs(t, err, ErrBusinessExists)

	_, err = f.svc.Register(ctx, RegisterInput{Name: "Al", Email: "ALICE@acme.io", Password: "s3cret-pass", Business: "Other"})
	assert.ErrorIs(t, err, ErrEmailExists)
}

func TestLogin(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.svc.Login(ctx, "alice@acme.io", "wrong")
	assert.ErrorIs(t, err, ErrPwdWrong)
	_, err = f.svc.Login(ctx, "nobody@acme.io", "correct-horse")
	assert.ErrorIs(t, err, ErrPwdWrong)

	login, err := f.svc.Login(ctx, "alice@acme.io", "correct-horse")
	require.NoError(t, err)
	assert.Equal(t, f.alice.UUID, login.AcessToken.UserUUID)
	assert.Equal(t, []uuid.UUID{f.alice.UUID}, f.repo.revokedAll)
	require.Len(t, f.repo.tokens, 1)
	assert.Equal(t, login.AcessToken.Token, f.repo.tokens[0].Token)

	require.NoError(t, f.svc.RevokeAcessToken(ctx, login.AcessToken.Token))
	assert.ErrorIs(t, f.svc.RevokeAcessToken(ctx, "unknown"), ErrTokenNotFound)
}

func TestLoginDisabledUser(t *testing.T) {
	f := newFixture(t)
	disabled := f.alice
	disabled.Live = false
	f.users.byEmail[disabled.Email] = disabled

	_, err := f.svc.Login(context.Background(), "alice@acme.io", "correct-horse")
	assert.ErrorIs(t, err, ErrUserDisabled)
	assert.Empty(t, f.repo.tokens)
}

var otpPattern = regexp.MustCompile(`\d{6}`)

func TestOTPPasswordReset(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	require.NoError(t, f.svc.CreateOTPCode(ctx, "alice@acme.io"))
	require.Len(t, f.mail.sent, 1)
	assert.Equal(t, []string{"alice@acme.io"}, f.mail.sent[0].To)
	code := otpPattern.FindString(f.mail.sent[0].Text)
	require.NotEmpty(t, code)

	assert.ErrorIs(t, f.svc.CreateOTPCode(ctx, "alice@acme.io"), OTPCodeExist)

	assert.ErrorIs(t, f.svc.ChangeUserPwd(ctx, "000000x", "alice@acme.io", "new-pass-123"), OTPCodeWrong)
	require.NoError(t, f.svc.ChangeUserPwd(ctx, code, "alice@acme.io", "new-pass-123"))
	assert.Equal(t, "new-pass-123", f.users.pwdSet[f.alice.UUID])
	assert.Contains(t, f.repo.revokedAll, f.alice.UUID)

	// código é de uso único
	assert.ErrorIs(t, f.svc.ChangeUserPwd(ctx, code, "alice@acme.io", "again-pass-123"), OTPCodeWrong)
}

func TestOTPMailFailureAllowsRetry(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	f.mail.err = errors.New("smtp down")
	assert.Error(t, f.svc.CreateOTPCode(ctx, "alice@acme.io"))

	f.mail.err = nil
	assert.NoError(t, f.svc.CreateOTPCode(ctx, "alice@acme.io"))
}

func TestOTPUnknownUser(t *testing.T) {
	f := newFixture(t)
	assert.ErrorIs(t, f.svc.CreateOTPCode(context.Background(), "ghost@acme.io"), user.ErrNotFound)
	assert.Empty(t, f.mail.sent)
}

func TestGenerateOTP(t *testing.T) {
	code, err := GenerateOTP(6)
	require.NoError(t, err)
	assert.Regexp(t, `^\d{6}$`, code)

	_, err = GenerateOTP(0)
	assert.Error(t, err)
}
