package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/rlepezi/av10dejulio-sub005/internal/app/model"
	"github.com/rlepezi/av10dejulio-sub005/internal/errors"
	"github.com/rlepezi/av10dejulio-sub005/pkg/util"
)

// Claves del contexto con la información del usuario autenticado.
const (
	UIDKey       = "uid"
	EmailKey     = "user_email"
	RolKey       = "user_rol"
	EmpresaIDKey = "empresa_id"
	AgenteIDKey  = "agente_id"
)

type AuthMiddleware struct {
	jwtSecret string
}

func NewAuthMiddleware(jwtSecret string) *AuthMiddleware {
	return &AuthMiddleware{
		jwtSecret: jwtSecret,
	}
}

// Authenticate exige un token JWT válido.
func (m *AuthMiddleware) Authenticate() gin.HandlerFunc {
	return func(c *gin.Context) {
		log := GetLoggerFromContext(c)

		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			log.Warn("Request sin encabezado de autorización", map[string]interface{}{
				"path": c.Request.URL.Path,
			})
			errors.Unauthorized(c, "Debe iniciar sesión")
			c.Abort()
			return
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			log.Warn("Formato de autorización inválido", map[string]interface{}{
				"path": c.Request.URL.Path,
			})
			errors.RespondWithError(c, http.StatusUnauthorized, errors.AuthTokenInvalid, "El formato de autenticación no es válido")
			c.Abort()
			return
		}

		claims, err := util.ValidateToken(parts[1], m.jwtSecret)
		if err != nil {
			log.Warn("Validación de token fallida", map[string]interface{}{
				"path":  c.Request.URL.Path,
				"error": err.Error(),
			})

			if err == util.ErrExpiredToken {
				errors.RespondWithError(c, http.StatusUnauthorized, errors.AuthTokenExpired, "La sesión expiró, inicie sesión nuevamente")
			} else {
				errors.RespondWithError(c, http.StatusUnauthorized, errors.AuthTokenInvalid, "Token de autenticación inválido")
			}
			c.Abort()
			return
		}

		c.Set(UIDKey, claims.UID)
		c.Set(EmailKey, claims.Email)
		c.Set(RolKey, model.Rol(claims.Rol))
		if claims.EmpresaID != nil {
			c.Set(EmpresaIDKey, *claims.EmpresaID)
		}
		if claims.AgenteID != nil {
			c.Set(AgenteIDKey, *claims.AgenteID)
		}

		log.Debug("Usuario autenticado", map[string]interface{}{
			"uid": claims.UID,
			"rol": claims.Rol,
		})

		c.Next()
	}
}

// RequireRol verifica que el usuario tenga alguno de los roles indicados.
func (m *AuthMiddleware) RequireRol(roles ...model.Rol) gin.HandlerFunc {
	return func(c *gin.Context) {
		log := GetLoggerFromContext(c)

		valor, exists := c.Get(RolKey)
		if !exists {
			errors.RespondWithError(c, http.StatusForbidden, errors.AuthzRoleNotFound, "No se pudo resolver el rol del usuario")
			c.Abort()
			return
		}

		rol := valor.(model.Rol)
		for _, r := range roles {
			if rol == r {
				c.Next()
				return
			}
		}

		log.Warn("Acceso denegado por rol", map[string]interface{}{
			"path":    c.Request.URL.Path,
			"rol":     rol,
			"permite": roles,
		})
		errors.Forbidden(c, "No tiene permiso para esta operación")
		c.Abort()
	}
}

// GetUID obtiene el uid autenticado del contexto.
func GetUID(c *gin.Context) (string, bool) {
	valor, exists := c.Get(UIDKey)
	if !exists {
		return "", false
	}
	uid, ok := valor.(string)
	return uid, ok
}

// GetRol obtiene el rol autenticado del contexto.
func GetRol(c *gin.Context) (model.Rol, bool) {
	valor, exists := c.Get(RolKey)
	if !exists {
		return "", false
	}
	rol, ok := valor.(model.Rol)
	return rol, ok
}

// GetAgenteID obtiene el id del agente autenticado, si lo hay.
func GetAgenteID(c *gin.Context) (uint, bool) {
	valor, exists := c.Get(AgenteIDKey)
	if !exists {
		return 0, false
	}
	id, ok := valor.(uint)
	return id, ok
}

// GetEmpresaID obtiene el id de la empresa del proveedor autenticado.
func GetEmpresaID(c *gin.Context) (uint, bool) {
	valor, exists := c.Get(EmpresaIDKey)
	if !exists {
		return 0, false
	}
	id, ok := valor.(uint)
	return id, ok
}
