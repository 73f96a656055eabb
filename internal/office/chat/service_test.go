package chat

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stockverse/internal/iam/access"
	iam "stockverse/internal/iam/domain/model"
	"stockverse/internal/office/model"
)

type memRepo struct {
	messages  []model.ChatMessage
	lastSince time.Time
	lastLimit int
}

func (m *memRepo) Create(_ context.Context, msg model.ChatMessage) (model.ChatMessage, error) {
	msg.UUID = uuid.New()
	m.messages = append(m.messages, msg)
	return msg, nil
}

func (m *memRepo) ListSince(_ context.Context, business string, since time.Time, limit int) ([]model.ChatMessage, error) {
	m.lastSince, m.lastLimit = since, limit
	var out []model.ChatMessage
	for _, msg := range m.messages {
		if msg.Business == business && msg.CreateAt.After(since) && len(out) < limit {
			out = append(out, msg)
		}
	}
	return out, nil
}

var member = access.Access{Business: "acme", Email: "ana@acme.io", Name: "Ana", Role: iam.RoleGuest}

func fixedNow() time.Time { return time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC) }

func TestPostValidatesBody(t *testing.T) {
	svc := NewService(&memRepo{})
	ctx := context.Background()

	_, err := svc.Post(ctx, member, "   ")
	assert.ErrorIs(t, err, ErrInvalidInput)
	_, err = svc.Post(ctx, member, strings.Repeat("é", maxBodyRunes+1))
	assert.ErrorIs(t, err, ErrInvalidInput)

	msg, err := svc.Post(ctx, member, strings.Repeat("é", maxBodyRunes))
	require.NoError(t, err)
	assert.Equal(t, "Ana", msg.AuthorName)
	assert.Equal(t, "acme", msg.Business)
}

func TestListSince(t *testing.T) {
	repo := &memRepo{}
	svc := NewService(repo).(*serviceImpl)
	svc.now = fixedNow
	ctx := context.Background()

	_, err := svc.Post(ctx, member, "first")
	require.NoError(t, err)
	svc.now = func() time.Time { return fixedNow().Add(time.Minute) }
	_, err = svc.Post(ctx, member, "second")
	require.NoError(t, err)

	since := fixedNow()
	list, err := svc.List(ctx, member, &since, 0)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "second", list[0].Body)
	assert.Equal(t, defaultLimit, repo.lastLimit)

	_, err = svc.List(ctx, member, nil, 10_000)
	require.NoError(t, err)
	assert.Equal(t, maxLimit, repo.lastLimit)
	assert.Equal(t, fixedNow().Add(time.Minute).Add(-defaultWindow), repo.lastSince)
}
