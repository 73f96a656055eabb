// Package webhook publica mensagens de texto em endpoints de chat-ops
// (Slack, Discord, Google Chat e afins aceitam {"text": "..."}).
package webhook

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"
)

const defaultTimeout = 5 * time.Second

type payload struct {
	Text string `json:"text"`
}

type Notifier struct {
	client *http.Client
	urls   []string
	log    *zap.Logger
}

// New cria o notificador. urls são os endpoints globais, somados aos de cada
// empresa em Notify.
func New(urls []string, log *zap.Logger) *Notifier {
	if log == nil {
		log = zap.NewNop()
	}
	return &Notifier{
		client: &http.Client{Timeout: defaultTimeout},
		urls:   urls,
		log:    log,
	}
}

// Send faz um único POST e devolve o erro.
func (n *Notifier) Send(ctx context.Context, url, text string) error {
	body, err := json.Marshal(payload{Text: text})
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := n.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return fmt.Errorf("webhook %s respondeu %d", url, resp.StatusCode)
	}
	return nil
}

// Notify dispara a mensagem para os endpoints globais e extras em segundo
// plano. Falhas são apenas registradas.
func (n *Notifier) Notify(ctx context.Context, text string, extra ...string) {
	if n == nil || strings.TrimSpace(text) == "" {
		return
	}
	targets := n.targets(extra)
	if len(targets) == 0 {
		return
	}

	detached := context.WithoutCancel(ctx)
	for _, url := range targets {
		go func(url string) {
			ctx, cancel := context.WithTimeout(detached, defaultTimeout)
			defer cancel()
			if err := n.Send(ctx, url, text); err != nil {
				n.log.Warn("[WEBHOOK] falha ao notificar", zap.String("url", url), zap.Error(err))
			}
		}(url)
	}
}

func (n *Notifier) targets(extra []string) []string {
	seen := make(map[string]struct{}, len(n.urls)+len(extra))
	out := make([]string, 0, len(n.urls)+len(extra))
	for _, u := range append(append([]string{}, n.urls...), extra...) {
		u = strings.TrimSpace(u)
		if u == "" {
			continue
		}
		if _, ok := seen[u]; ok {
			continue
		}
		seen[u] = struct{}{}
		out = append(out, u)
	}
	return out
}
