// Package lock serializa operações por chave (ex.: criação de contas de uma
// mesma empresa). Usa Redis quando disponível e um mutex local caso contrário.
package lock

import (
	"context"
	"errors"
	"time"
)

var ErrLockTimeout = errors.New("lock wait timed out")

// Unlock libera o lock adquirido. Chamar mais de uma vez não tem efeito.
type Unlock func()

type Locker interface {
	// Lock bloqueia até obter a chave, até ctx expirar ou até wait passar.
	Lock(ctx context.Context, key string) (Unlock, error)
}

const (
	defaultTTL   = 10 * time.Second
	defaultWait  = 5 * time.Second
	retryBackoff = 25 * time.Millisecond
)
