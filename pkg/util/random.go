package util

import (
	"crypto/rand"
	"math/big"
)

const tempPasswordChars = "abcdefghijkmnpqrstuvwxyzABCDEFGHJKLMNPQRSTUVWXYZ23456789"

// GenerateTempPassword genera una contraseña temporal legible para la
// emisión inicial de credenciales (el operador la comunica al proveedor).
// Usa crypto/rand: estas claves dan acceso real aunque sean temporales.
func GenerateTempPassword(length int) string {
	if length < 6 {
		length = 6
	}

	max := big.NewInt(int64(len(tempPasswordChars)))
	b := make([]byte, length)
	for i := range b {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			// rand.Reader no falla en la práctica; si llegara a hacerlo no
			// hay clave segura que entregar.
			panic(err)
		}
		b[i] = tempPasswordChars[n.Int64()]
	}
	return string(b)
}
