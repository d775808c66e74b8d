package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rlepezi/av10dejulio-sub005/internal/app/service"
	apperrors "github.com/rlepezi/av10dejulio-sub005/internal/errors"
	"github.com/rlepezi/av10dejulio-sub005/internal/middleware"
)

type AuthController struct {
	authService service.AuthService
}

func NewAuthController(authService service.AuthService) *AuthController {
	return &AuthController{authService: authService}
}

type LoginRequest struct {
	Email string `json:"email" binding:"required,email"`
	Clave string `json:"clave" binding:"required"`
}

type RefreshRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}

type CambiarClaveRequest struct {
	ClaveActual       string `json:"clave_actual" binding:"required"`
	ClaveNueva        string `json:"clave_nueva" binding:"required"`
	ClaveConfirmacion string `json:"clave_confirmacion" binding:"required"`
}

// Login autentica con email y clave y entrega el par de tokens.
func (ctrl *AuthController) Login(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Warn("Login con entrada inválida", map[string]interface{}{
			"error": err.Error(),
		})
		apperrors.BadRequest(c, apperrors.ValidacionEntradaInvalida, "Correo y clave son obligatorios")
		return
	}

	sesion, err := ctrl.authService.Login(req.Email, req.Clave)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, sesion)
}

// Refresh renueva el par de tokens a partir del refresh token.
func (ctrl *AuthController) Refresh(c *gin.Context) {
	var req RefreshRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.BadRequest(c, apperrors.ValidacionEntradaInvalida, "El refresh token es obligatorio")
		return
	}

	tokens, err := ctrl.authService.RefreshToken(req.RefreshToken)
	if err != nil {
		apperrors.RespondWithError(c, http.StatusUnauthorized, apperrors.AuthTokenInvalid, "El token de renovación no es válido")
		return
	}

	c.JSON(http.StatusOK, gin.H{"tokens": tokens})
}

// CambiarClave actualiza la clave del usuario autenticado.
func (ctrl *AuthController) CambiarClave(c *gin.Context) {
	uid, ok := middleware.GetUID(c)
	if !ok {
		apperrors.Unauthorized(c, "Debe iniciar sesión")
		return
	}

	var req CambiarClaveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.BadRequest(c, apperrors.ValidacionEntradaInvalida, "Faltan campos obligatorios")
		return
	}

	if err := ctrl.authService.CambiarClave(uid, req.ClaveActual, req.ClaveNueva, req.ClaveConfirmacion); err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Clave actualizada"})
}

// Me devuelve la identidad del token vigente.
func (ctrl *AuthController) Me(c *gin.Context) {
	uid, _ := middleware.GetUID(c)
	rol, _ := middleware.GetRol(c)

	respuesta := gin.H{"uid": uid, "rol": rol}
	if empresaID, ok := middleware.GetEmpresaID(c); ok {
		respuesta["empresa_id"] = empresaID
	}
	if agenteID, ok := middleware.GetAgenteID(c); ok {
		respuesta["agente_id"] = agenteID
	}

	c.JSON(http.StatusOK, respuesta)
}
