package errors

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// ErrorResponse es la estructura estándar de respuesta de error.
type ErrorResponse struct {
	Error   string `json:"error"`   // código estable (ver codes.go)
	Message string `json:"message"` // mensaje para el usuario
}

// RespondWithError responde un error con código y mensaje.
func RespondWithError(c *gin.Context, statusCode int, errorCode string, message string) {
	c.JSON(statusCode, ErrorResponse{
		Error:   errorCode,
		Message: message,
	})
}

// Atajos para las respuestas más frecuentes

func Unauthorized(c *gin.Context, message string) {
	if message == "" {
		message = "Debe iniciar sesión"
	}
	RespondWithError(c, http.StatusUnauthorized, AuthUnauthorized, message)
}

func Forbidden(c *gin.Context, message string) {
	if message == "" {
		message = "Acceso denegado"
	}
	RespondWithError(c, http.StatusForbidden, AuthzForbidden, message)
}

func BadRequest(c *gin.Context, errorCode string, message string) {
	RespondWithError(c, http.StatusBadRequest, errorCode, message)
}

func NotFound(c *gin.Context, errorCode string, message string) {
	RespondWithError(c, http.StatusNotFound, errorCode, message)
}

func Conflict(c *gin.Context, errorCode string, message string) {
	RespondWithError(c, http.StatusConflict, errorCode, message)
}

func InternalError(c *gin.Context, message string) {
	if message == "" {
		message = "Ocurrió un error en el servidor. Intente nuevamente más tarde"
	}
	RespondWithError(c, http.StatusInternalServerError, InternoServidor, message)
}

func BadGateway(c *gin.Context, errorCode string, message string) {
	RespondWithError(c, http.StatusBadGateway, errorCode, message)
}
