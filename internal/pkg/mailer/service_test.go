package mailer

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeMailer struct {
	sent []Message
	err  error
}

func (f *fakeMailer) Send(_ context.Context, msg Message) error {
	f.sent = append(f.sent, msg)
	return f.err
}

func TestNotifyNeverFails(t *testing.T) {
	ok := &fakeMailer{}
	assert.True(t, Notify(context.Background(), ok, Message{To: []string{"a@b.c"}, Subject: "hi"}, zap.NewNop()))
	require.Len(t, ok.sent, 1)

	broken := &fakeMailer{err: errors.New("smtp down")}
	assert.False(t, Notify(context.Background(), broken, Message{To: []string{"a@b.c"}}, zap.NewNop()))
	assert.False(t, Notify(context.Background(), nil, Message{}, zap.NewNop()))
}

func TestNewWithoutProviderIsDisabled(t *testing.T) {
	svc, err := New(context.Background(), Config{})
	require.NoError(t, err)
	assert.ErrorIs(t, svc.Send(context.Background(), Message{}), ErrMailerNotInitialized)

	_, err = New(context.Background(), Config{Provider: "pigeon"})
	assert.Error(t, err)

	_, err = New(context.Background(), Config{Provider: "smtp"})
	assert.Error(t, err)
}

func TestSMTPBuildMessage(t *testing.T) {
	svc, err := newSMTP(SMTPConfig{Host: "smtp.local", Port: "25", Username: "u", Password: "p", Address: "no-reply@acme.io"})
	require.NoError(t, err)
	m := svc.(*smtpMailer)

	raw := string(m.buildMessage([]string{"a@acme.io", "b@acme.io"}, Message{
		Subject: "Proofs\r\nBcc: evil@x.io",
		Text:    "plain",
		HTML:    "<p>html</p>",
	}))
	assert.Contains(t, raw, "To: a@acme.io, b@acme.io\r\n")
	assert.Contains(t, raw, "Subject: Proofs  Bcc: evil@x.io\r\n")
	assert.Contains(t, raw, "Content-Type: text/html")
	assert.Contains(t, raw, "<p>html</p>")

	assert.ErrorIs(t, m.Send(context.Background(), Message{To: []string{" ", ""}}), ErrNoRecipients)
}

func TestRenderTemplate(t *testing.T) {
	out, err := RenderTemplate(`<b>{{.Code}}</b>`, map[string]string{"Code": "<123>"})
	require.NoError(t, err)
	assert.Equal(t, "<b>&lt;123&gt;</b>", out)
}
