package util

import (
	"golang.org/x/crypto/bcrypt"
)

const bcryptCost = 12

// HashPassword aplica bcrypt a una clave en texto plano antes de
// persistirla en cuentas_identidad.
func HashPassword(clave string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(clave), bcryptCost)
	if err != nil {
		return "", err
	}
	return string(bytes), nil
}

// VerifyPassword compara una clave en texto plano contra su hash.
func VerifyPassword(claveHasheada, clave string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(claveHasheada), []byte(clave))
	return err == nil
}
