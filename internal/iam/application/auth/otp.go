package auth

import (
	"crypto/rand"
	"errors"
	"math/big"
)

// GenerateOTP devolve um código numérico de length dígitos.
func GenerateOTP(length int) (string, error) {
	if length <= 0 {
		return "", errors.New("otp length must be positive")
	}
	digits := make([]byte, length)
	max := big.NewInt(10)
	for i := range digits {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", err
		}
		digits[i] = byte('0' + n.Int64())
	}
	return string(digits), nil
}
