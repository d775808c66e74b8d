package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rlepezi/av10dejulio-sub005/internal/app/model"
	"github.com/rlepezi/av10dejulio-sub005/pkg/util"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testJWTSecret = "secreto-de-prueba-middleware"

func setupMiddlewareTest() (*gin.Engine, *AuthMiddleware) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	mw := NewAuthMiddleware(testJWTSecret)
	return router, mw
}

func tokenDePrueba(t *testing.T, uid string, rol model.Rol, agenteID *uint) string {
	tokens, err := util.GenerateTokenPair(
		uid,
		"prueba@example.com",
		string(rol),
		nil,
		agenteID,
		testJWTSecret,
		15*time.Minute,
		7*24*time.Hour,
	)
	require.NoError(t, err)
	return tokens.AccessToken
}

func TestAuthenticate_TokenValido(t *testing.T) {
	router, mw := setupMiddlewareTest()

	agenteID := uint(7)
	token := tokenDePrueba(t, "uid-1", model.RolAgente, &agenteID)

	router.GET("/test", mw.Authenticate(), func(c *gin.Context) {
		uid, _ := GetUID(c)
		rol, _ := GetRol(c)
		id, ok := GetAgenteID(c)

		c.JSON(http.StatusOK, gin.H{
			"uid":       uid,
			"rol":       rol,
			"agente_id": id,
			"tiene_id":  ok,
		})
	})

	req := httptest.NewRequest("GET", "/test", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "uid-1")
	assert.Contains(t, w.Body.String(), "agente")
}

func TestAuthenticate_SinToken(t *testing.T) {
	router, mw := setupMiddlewareTest()

	router.GET("/test", mw.Authenticate(), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	req := httptest.NewRequest("GET", "/test", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthenticate_FormatoInvalido(t *testing.T) {
	router, mw := setupMiddlewareTest()

	router.GET("/test", mw.Authenticate(), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	req := httptest.NewRequest("GET", "/test", nil)
	req.Header.Set("Authorization", "Token abc123")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthenticate_TokenBasura(t *testing.T) {
	router, mw := setupMiddlewareTest()

	router.GET("/test", mw.Authenticate(), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	req := httptest.NewRequest("GET", "/test", nil)
	req.Header.Set("Authorization", "Bearer no-es-un-jwt")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRequireRol(t *testing.T) {
	router, mw := setupMiddlewareTest()

	router.GET("/admin", mw.Authenticate(), mw.RequireRol(model.RolAdmin), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	// Un agente no pasa el control de admin.
	tokenAgente := tokenDePrueba(t, "uid-agente", model.RolAgente, nil)
	req := httptest.NewRequest("GET", "/admin", nil)
	req.Header.Set("Authorization", "Bearer "+tokenAgente)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusForbidden, w.Code)

	// Un admin sí.
	tokenAdmin := tokenDePrueba(t, "uid-admin", model.RolAdmin, nil)
	req = httptest.NewRequest("GET", "/admin", nil)
	req.Header.Set("Authorization", "Bearer "+tokenAdmin)
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRequireRol_MultiplesRoles(t *testing.T) {
	router, mw := setupMiddlewareTest()

	router.GET("/panel", mw.Authenticate(), mw.RequireRol(model.RolAdmin, model.RolAgente), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	tokenAgente := tokenDePrueba(t, "uid-agente", model.RolAgente, nil)
	req := httptest.NewRequest("GET", "/panel", nil)
	req.Header.Set("Authorization", "Bearer "+tokenAgente)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)

	tokenProveedor := tokenDePrueba(t, "uid-prov", model.RolProveedor, nil)
	req = httptest.NewRequest("GET", "/panel", nil)
	req.Header.Set("Authorization", "Bearer "+tokenProveedor)
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusForbidden, w.Code)
}
