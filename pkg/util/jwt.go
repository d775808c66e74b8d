package util

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var (
	ErrInvalidToken = errors.New("invalid token")
	ErrExpiredToken = errors.New("token has expired")
)

// Claims son los claims de los tokens emitidos por la plataforma.
// UID es el id de la cuenta en el proveedor de identidad; EmpresaID sólo
// viene presente para el rol proveedor y AgenteID para el rol agente.
type Claims struct {
	UID       string `json:"uid"`
	Email     string `json:"email"`
	Rol       string `json:"rol"`
	EmpresaID *uint  `json:"empresa_id,omitempty"`
	AgenteID  *uint  `json:"agente_id,omitempty"`
	jwt.RegisteredClaims
}

type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

// GenerateTokenPair generates an access/refresh token pair for an account
func GenerateTokenPair(
	uid, email, rol string,
	empresaID, agenteID *uint,
	secret string,
	accessExpiry, refreshExpiry time.Duration,
) (*TokenPair, error) {
	accessToken, err := generateToken(uid, email, rol, empresaID, agenteID, secret, accessExpiry)
	if err != nil {
		return nil, err
	}

	refreshToken, err := generateToken(uid, email, rol, empresaID, agenteID, secret, refreshExpiry)
	if err != nil {
		return nil, err
	}

	return &TokenPair{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
	}, nil
}

func generateToken(
	uid, email, rol string,
	empresaID, agenteID *uint,
	secret string,
	expiry time.Duration,
) (string, error) {
	now := time.Now()
	claims := Claims{
		UID:       uid,
		Email:     email,
		Rol:       rol,
		EmpresaID: empresaID,
		AgenteID:  agenteID,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   uid,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(expiry)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

// ValidateToken validates a token and returns its claims
func ValidateToken(tokenString, secret string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return []byte(secret), nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrExpiredToken
		}
		return nil, ErrInvalidToken
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, ErrInvalidToken
	}

	return claims, nil
}
