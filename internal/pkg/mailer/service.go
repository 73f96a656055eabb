package mailer

import (
	"bytes"
	"context"
	"errors"
	"html/template"
	"strings"

	"go.uber.org/zap"
)

var (
	ErrMailerNotInitialized = errors.New("mailer not initialized")
	ErrNoRecipients         = errors.New("no recipients")
)

// Message é um e-mail transacional. HTML é opcional.
type Message struct {
	To      []string
	Subject string
	Text    string
	HTML    string
}

type Service interface {
	Send(ctx context.Context, msg Message) error
}

// Config seleciona o provedor ("smtp" ou "ses") e suas credenciais.
type Config struct {
	Provider string
	From     string
	SMTP     SMTPConfig
	SES      SESConfig
}

// New cria o provedor configurado. Sem provedor, devolve um mailer desativado
// que sempre falha com ErrMailerNotInitialized.
func New(ctx context.Context, cfg Config) (Service, error) {
	switch strings.ToLower(cfg.Provider) {
	case "smtp":
		return newSMTP(cfg.SMTP)
	case "ses":
		return newSES(ctx, cfg.SES, cfg.From)
	case "":
		return Disabled(), nil
	default:
		return Disabled(), errors.New("unknown mail provider: " + cfg.Provider)
	}
}

type disabled struct{}

// Disabled devolve um Service que não envia nada.
func Disabled() Service { return disabled{} }

func (disabled) Send(context.Context, Message) error { return ErrMailerNotInitialized }

// Notify envia a mensagem e nunca propaga erro: falhas são registradas e o
// retorno indica apenas se o envio deu certo.
func Notify(ctx context.Context, s Service, msg Message, log *zap.Logger) bool {
	if s == nil {
		return false
	}
	if err := s.Send(ctx, msg); err != nil {
		log.Warn("[MAILER] falha ao enviar e-mail",
			zap.Strings("to", msg.To),
			zap.String("subject", msg.Subject),
			zap.Error(err),
		)
		return false
	}
	return true
}

// RenderTemplate executa um template HTML para o corpo do e-mail.
func RenderTemplate(tpl string, data interface{}) (string, error) {
	t, err := template.New("email").Parse(tpl)
	if err != nil {
		return "", err
	}
	var buf bytes.Buffer
	if err := t.Execute(&buf, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}

func cleanRecipients(to []string) []string {
	out := make([]string, 0, len(to))
	for _, addr := range to {
		addr = strings.TrimSpace(addr)
		if addr != "" {
			out = append(out, addr)
		}
	}
	return out
}

func sanitizeHeader(v string) string {
	return strings.NewReplacer("\r", " ", "\n", " ").Replace(v)
}
