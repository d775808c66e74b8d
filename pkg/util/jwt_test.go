package util

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret-key-for-jwt-testing"

func uintPtr(v uint) *uint { return &v }

func TestGenerateTokenPair(t *testing.T) {
	tests := []struct {
		name      string
		uid       string
		email     string
		rol       string
		empresaID *uint
		agenteID  *uint
	}{
		{
			name:  "Admin token",
			uid:   "uid-admin-1",
			email: "admin@av10dejulio.cl",
			rol:   "admin",
		},
		{
			name:     "Agente token carries agente id",
			uid:      "uid-agente-1",
			email:    "agente@av10dejulio.cl",
			rol:      "agente",
			agenteID: uintPtr(7),
		},
		{
			name:      "Proveedor token carries empresa id",
			uid:       "uid-prov-1",
			email:     "contacto@taller.cl",
			rol:       "proveedor",
			empresaID: uintPtr(42),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tokens, err := GenerateTokenPair(
				tt.uid, tt.email, tt.rol,
				tt.empresaID, tt.agenteID,
				testSecret,
				15*time.Minute, 7*24*time.Hour,
			)
			require.NoError(t, err)
			require.NotNil(t, tokens)
			assert.NotEmpty(t, tokens.AccessToken)
			assert.NotEmpty(t, tokens.RefreshToken)
			assert.NotEqual(t, tokens.AccessToken, tokens.RefreshToken)

			claims, err := ValidateToken(tokens.AccessToken, testSecret)
			require.NoError(t, err)
			assert.Equal(t, tt.uid, claims.UID)
			assert.Equal(t, tt.email, claims.Email)
			assert.Equal(t, tt.rol, claims.Rol)
			assert.Equal(t, tt.empresaID, claims.EmpresaID)
			assert.Equal(t, tt.agenteID, claims.AgenteID)
		})
	}
}

func TestValidateToken_InvalidSecret(t *testing.T) {
	tokens, err := GenerateTokenPair(
		"uid-1", "a@b.cl", "admin", nil, nil,
		testSecret, 15*time.Minute, time.Hour,
	)
	require.NoError(t, err)

	_, err = ValidateToken(tokens.AccessToken, "otro-secreto")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestValidateToken_Expired(t *testing.T) {
	tokens, err := GenerateTokenPair(
		"uid-1", "a@b.cl", "admin", nil, nil,
		testSecret, -1*time.Minute, time.Hour,
	)
	require.NoError(t, err)

	_, err = ValidateToken(tokens.AccessToken, testSecret)
	assert.ErrorIs(t, err, ErrExpiredToken)
}

func TestValidateToken_Garbage(t *testing.T) {
	_, err := ValidateToken("no-es-un-token", testSecret)
	assert.ErrorIs(t, err, ErrInvalidToken)
}
