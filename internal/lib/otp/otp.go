// Package otp реализует генерацию одноразовых кодов входа и их безопасное
// хеширование.
//
// GenerateCode создает случайный цифровой код заданной длины.
// GetHash создает bcrypt-хеш кода для хранения, CompareHash проверяет
// введённый код против сохранённого хеша.
package otp

import (
	"crypto/rand"
	"fmt"
	"math/big"

	"golang.org/x/crypto/bcrypt"
)

// GenerateCode возвращает случайный код из length десятичных цифр.
// Используется криптографический источник случайности.
func GenerateCode(length int) (string, error) {
	const op = "otp.GenerateCode"
	digits := make([]byte, length)
	for i := range digits {
		n, err := rand.Int(rand.Reader, big.NewInt(10))
		if err != nil {
			return "", fmt.Errorf("%s: %w", op, err)
		}
		digits[i] = byte('0' + n.Int64())
	}
	return string(digits), nil
}

// GetHash принимает одноразовый код и возвращает его bcrypt-хэш.
//
// В хранилище кодов попадает только хэш, сам код уходит в письмо.
func GetHash(code string) (string, error) {
	const op = "otp.GetHash"
	hashed, err := bcrypt.GenerateFromPassword([]byte(code), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	return string(hashed), nil
}

// CompareHash сравнивает bcrypt-хэш с введённым кодом.
//
// Возвращает nil, если код соответствует хэшу, иначе — ошибку.
func CompareHash(originalHash, externalCode string) error {
	const op = "otp.CompareHash"
	if err := bcrypt.CompareHashAndPassword([]byte(originalHash), []byte(externalCode)); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}
