package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rlepezi/av10dejulio-sub005/internal/app/service"
	apperrors "github.com/rlepezi/av10dejulio-sub005/internal/errors"
	"github.com/rlepezi/av10dejulio-sub005/internal/middleware"
)

// SolicitudController expone la revisión de solicitudes en el panel admin.
type SolicitudController struct {
	solicitudService service.SolicitudService
}

func NewSolicitudController(solicitudService service.SolicitudService) *SolicitudController {
	return &SolicitudController{solicitudService: solicitudService}
}

type DescartarRequest struct {
	Motivo string `json:"motivo" binding:"required"`
}

func (ctrl *SolicitudController) List(c *gin.Context) {
	solicitudes, err := ctrl.solicitudService.List(c.Query("estado"))
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"solicitudes": solicitudes,
		"count":       len(solicitudes),
	})
}

func (ctrl *SolicitudController) Get(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	solicitud, err := ctrl.solicitudService.GetByID(id)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"solicitud": solicitud})
}

// Promover convierte la solicitud en una empresa pendiente de validación.
func (ctrl *SolicitudController) Promover(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	empresa, err := ctrl.solicitudService.Promover(id)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	log.Info("Solicitud promovida desde el panel", map[string]interface{}{
		"solicitud_id": id,
		"empresa_id":   empresa.ID,
	})

	c.JSON(http.StatusCreated, gin.H{"empresa": empresa})
}

func (ctrl *SolicitudController) Descartar(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req DescartarRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.BadRequest(c, apperrors.ValidacionEntradaInvalida, "Debe indicar el motivo del descarte")
		return
	}

	if err := ctrl.solicitudService.Descartar(id, req.Motivo); err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Solicitud descartada"})
}
