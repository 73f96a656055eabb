package mailer

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"net/smtp"
	"strings"
)

type SMTPConfig struct {
	Host       string
	Port       string
	Username   string
	Password   string
	Encryption string // ex: "tls"
	Address    string // From:
}

type smtpMailer struct {
	cfg SMTPConfig
}

// --- Auth LOGIN customizada para Office 365 ---
type loginAuth struct {
	username, password string
}

func LoginAuth(username, password string) smtp.Auth {
	return &loginAuth{username, password}
}

func (a *loginAuth) Start(server *smtp.ServerInfo) (string, []byte, error) {
	return "LOGIN", []byte{}, nil
}

func (a *loginAuth) Next(fromServer []byte, more bool) ([]byte, error) {
	if more {
		switch string(fromServer) {
		case "Username:":
			return []byte(a.username), nil
		case "Password:":
			return []byte(a.password), nil
		default:
			return nil, errors.New("unknown from server")
		}
	}
	return nil, nil
}

func newSMTP(cfg SMTPConfig) (Service, error) {
	if cfg.Host == "" ||
		cfg.Port == "" ||
		cfg.Username == "" ||
		cfg.Password == "" ||
		cfg.Address == "" {
		return Disabled(), errors.New("missing required SMTP configuration")
	}
	return &smtpMailer{cfg: cfg}, nil
}

func (m *smtpMailer) buildMessage(to []string, msg Message) []byte {
	contentType := "text/plain"
	body := msg.Text
	if msg.HTML != "" {
		contentType = "text/html"
		body = msg.HTML
	}
	return []byte(
		"From: " + m.cfg.Address + "\r\n" +
			"To: " + strings.Join(to, ", ") + "\r\n" +
			"Subject: " + sanitizeHeader(msg.Subject) + "\r\n" +
			"MIME-version: 1.0;\r\n" +
			"Content-Type: " + contentType + "; charset=\"UTF-8\";\r\n\r\n" +
			body,
	)
}

func (m *smtpMailer) Send(ctx context.Context, msg Message) error {
	to := cleanRecipients(msg.To)
	if len(to) == 0 {
		return ErrNoRecipients
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	raw := m.buildMessage(to, msg)
	addr := fmt.Sprintf("%s:%s", m.cfg.Host, m.cfg.Port)

	// Office365 (porta 587) exige STARTTLS + LOGIN
	if m.cfg.Encryption == "tls" {
		if err := m.sendWithStartTLS(addr, to, raw); err != nil {
			return fmt.Errorf("erro ao enviar email via %s: %w", addr, err)
		}
		return nil
	}

	auth := smtp.PlainAuth("", m.cfg.Username, m.cfg.Password, m.cfg.Host)
	if err := smtp.SendMail(addr, auth, m.cfg.Address, to, raw); err != nil {
		return fmt.Errorf("erro ao enviar email via %s: %w", addr, err)
	}
	return nil
}

func (m *smtpMailer) sendWithStartTLS(addr string, to []string, msg []byte) error {
	c, err := smtp.Dial(addr)
	if err != nil {
		return fmt.Errorf("smtp dial error: %w", err)
	}
	defer c.Close()

	if err = c.Hello("localhost"); err != nil {
		return fmt.Errorf("smtp hello error: %w", err)
	}
	if err = c.StartTLS(&tls.Config{ServerName: m.cfg.Host}); err != nil {
		return fmt.Errorf("smtp starttls error: %w", err)
	}
	if err = c.Auth(LoginAuth(m.cfg.Username, m.cfg.Password)); err != nil {
		return fmt.Errorf("smtp auth error: %w", err)
	}
	if err = c.Mail(m.cfg.Address); err != nil {
		return fmt.Errorf("smtp mail error: %w", err)
	}
	for _, rcpt := range to {
		if err = c.Rcpt(rcpt); err != nil {
			return fmt.Errorf("smtp rcpt error (%s): %w", rcpt, err)
		}
	}

	wc, err := c.Data()
	if err != nil {
		return fmt.Errorf("smtp data error: %w", err)
	}
	if _, err = wc.Write(msg); err != nil {
		_ = wc.Close()
		return fmt.Errorf("smtp write error: %w", err)
	}
	if err = wc.Close(); err != nil {
		return fmt.Errorf("smtp close data error: %w", err)
	}

	// O e-mail já foi aceito; erro no QUIT não importa
	_ = c.Quit()
	return nil
}
