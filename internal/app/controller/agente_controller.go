package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rlepezi/av10dejulio-sub005/internal/app/model"
	"github.com/rlepezi/av10dejulio-sub005/internal/app/service"
	apperrors "github.com/rlepezi/av10dejulio-sub005/internal/errors"
	"github.com/rlepezi/av10dejulio-sub005/internal/middleware"
)

// AgenteController cubre dos superficies: la administración de agentes por
// el admin y el panel de terreno del propio agente.
type AgenteController struct {
	agenteService    service.AgenteService
	empresaService   service.EmpresaService
	solicitudService service.SolicitudService
	lifecycleService service.LifecycleService
}

func NewAgenteController(
	agenteService service.AgenteService,
	empresaService service.EmpresaService,
	solicitudService service.SolicitudService,
	lifecycleService service.LifecycleService,
) *AgenteController {
	return &AgenteController{
		agenteService:    agenteService,
		empresaService:   empresaService,
		solicitudService: solicitudService,
		lifecycleService: lifecycleService,
	}
}

type SetActivoRequest struct {
	Activo *bool `json:"activo" binding:"required"`
}

// ==================== Administración (admin) ====================

func (ctrl *AgenteController) Crear(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	var input service.AgenteInput
	if err := c.ShouldBindJSON(&input); err != nil {
		apperrors.BadRequest(c, apperrors.ValidacionEntradaInvalida, "Nombre y correo son obligatorios")
		return
	}

	creado, err := ctrl.agenteService.Crear(input)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	log.Info("Agente creado desde el panel", map[string]interface{}{
		"agente_id": creado.Agente.ID,
	})

	c.JSON(http.StatusCreated, creado)
}

func (ctrl *AgenteController) List(c *gin.Context) {
	soloActivos := c.DefaultQuery("activos", "false") == "true"

	agentes, err := ctrl.agenteService.List(soloActivos)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"agentes": agentes,
		"count":   len(agentes),
	})
}

func (ctrl *AgenteController) Get(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	agente, err := ctrl.agenteService.GetByID(id)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"agente": agente})
}

func (ctrl *AgenteController) Actualizar(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var input service.AgenteInput
	if err := c.ShouldBindJSON(&input); err != nil {
		apperrors.BadRequest(c, apperrors.ValidacionEntradaInvalida, "Los datos del agente no son válidos")
		return
	}

	agente, err := ctrl.agenteService.Actualizar(id, input)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"agente": agente})
}

func (ctrl *AgenteController) SetActivo(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req SetActivoRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Activo == nil {
		apperrors.BadRequest(c, apperrors.ValidacionEntradaInvalida, "Debe indicar el estado activo")
		return
	}

	agente, err := ctrl.agenteService.SetActivo(id, *req.Activo)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"agente": agente})
}

// ==================== Panel de terreno (agente) ====================

// MisEmpresas lista las empresas asignadas al agente autenticado.
func (ctrl *AgenteController) MisEmpresas(c *gin.Context) {
	agenteID, ok := middleware.GetAgenteID(c)
	if !ok {
		apperrors.Forbidden(c, "La sesión no corresponde a un agente")
		return
	}

	empresas, err := ctrl.empresaService.ListByAgente(agenteID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"empresas": empresas,
		"count":    len(empresas),
	})
}

// MisSolicitudes lista las solicitudes levantadas por el agente.
func (ctrl *AgenteController) MisSolicitudes(c *gin.Context) {
	agenteID, ok := middleware.GetAgenteID(c)
	if !ok {
		apperrors.Forbidden(c, "La sesión no corresponde a un agente")
		return
	}

	solicitudes, err := ctrl.solicitudService.ListByAgente(agenteID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"solicitudes": solicitudes,
		"count":       len(solicitudes),
	})
}

// CrearSolicitud registra una captación en terreno.
func (ctrl *AgenteController) CrearSolicitud(c *gin.Context) {
	agenteID, ok := middleware.GetAgenteID(c)
	if !ok {
		apperrors.Forbidden(c, "La sesión no corresponde a un agente")
		return
	}

	var input service.SolicitudInput
	if err := c.ShouldBindJSON(&input); err != nil {
		apperrors.BadRequest(c, apperrors.ValidacionEntradaInvalida, "El nombre de la empresa es obligatorio")
		return
	}

	solicitud, err := ctrl.solicitudService.Crear(agenteID, input)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"solicitud": solicitud})
}

// Transicion permite al agente mover sus empresas asignadas.
func (ctrl *AgenteController) Transicion(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req TransicionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.BadRequest(c, apperrors.ValidacionEntradaInvalida, "Debe indicar el estado de destino")
		return
	}

	actor := actorDesdeContexto(c)
	empresa, err := ctrl.lifecycleService.RequestTransition(c.Request.Context(), actor, id, model.Estado(req.Destino), req.Visita)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"empresa": empresa})
}
