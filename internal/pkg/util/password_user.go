package util

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/argon2"
)

// Configurações do Argon2
const (
	saltLength  = 16        // 128-bit salt
	memory      = 64 * 1024 // 64 MB memory usage
	iterations  = 3
	parallelism = 2
	keyLength   = 32 // 256-bit derived key
)

var (
	ErrInvalidHashFormat = errors.New("invalid hash format")
	ErrPasswordMismatch  = errors.New("invalid password")
)

// Password define o contrato para hash e comparação de senhas.
type Password interface {
	Hash(password string) (string, error)
	Compare(encodedHash, password string) error
}

type argon2Password struct {
	memory     uint32
	iterations uint32
}

// NewPassword devolve o hasher Argon2id com os parâmetros de produção.
func NewPassword() Password {
	return &argon2Password{memory: memory, iterations: iterations}
}

// NewFastPassword usa parâmetros reduzidos; serve para testes.
func NewFastPassword() Password {
	return &argon2Password{memory: 8 * 1024, iterations: 1}
}

// Hash gera um hash Argon2id no formato PHC a partir da senha.
func (p *argon2Password) Hash(password string) (string, error) {
	salt := make([]byte, saltLength)
	if _, err := rand.Read(salt); err != nil {
		return "", fmt.Errorf("failed to generate salt: %w", err)
	}

	hash := argon2.IDKey([]byte(password), salt, p.iterations, p.memory, parallelism, keyLength)

	return fmt.Sprintf("$argon2id$v=%d$m=%d,t=%d,p=%d$%s$%s",
		argon2.Version, p.memory, p.iterations, parallelism,
		base64.RawStdEncoding.EncodeToString(salt),
		base64.RawStdEncoding.EncodeToString(hash)), nil
}

// Compare verifica se a senha corresponde ao hash Argon2id fornecido. Os
// parâmetros vêm do próprio hash, então hashes antigos continuam válidos.
func (p *argon2Password) Compare(encodedHash, password string) error {
	parts := strings.Split(encodedHash, "$")
	if len(parts) != 6 || parts[1] != "argon2id" {
		return ErrInvalidHashFormat
	}

	var mem, iter uint32
	var par uint8
	if _, err := fmt.Sscanf(parts[3], "m=%d,t=%d,p=%d", &mem, &iter, &par); err != nil {
		return fmt.Errorf("failed to parse hash parameters: %w", err)
	}

	salt, err := base64.RawStdEncoding.DecodeString(parts[4])
	if err != nil {
		return fmt.Errorf("failed to decode salt: %w", err)
	}
	expected, err := base64.RawStdEncoding.DecodeString(parts[5])
	if err != nil {
		return fmt.Errorf("failed to decode hash: %w", err)
	}

	computed := argon2.IDKey([]byte(password), salt, iter, mem, par, uint32(len(expected)))
	if subtle.ConstantTimeCompare(expected, computed) != 1 {
		return ErrPasswordMismatch
	}
	return nil
}
