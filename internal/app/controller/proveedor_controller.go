package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rlepezi/av10dejulio-sub005/internal/app/service"
	apperrors "github.com/rlepezi/av10dejulio-sub005/internal/errors"
	"github.com/rlepezi/av10dejulio-sub005/internal/middleware"
)

// ProveedorController es el panel de autogestión de la empresa: el
// proveedor sólo ve y edita la empresa de su credencial.
type ProveedorController struct {
	empresaService service.EmpresaService
}

func NewProveedorController(empresaService service.EmpresaService) *ProveedorController {
	return &ProveedorController{empresaService: empresaService}
}

func (ctrl *ProveedorController) empresaDelToken(c *gin.Context) (uint, bool) {
	empresaID, ok := middleware.GetEmpresaID(c)
	if !ok {
		apperrors.Forbidden(c, "La sesión no tiene una empresa asociada")
		return 0, false
	}
	return empresaID, true
}

// MiEmpresa entrega la ficha completa de la empresa del proveedor.
func (ctrl *ProveedorController) MiEmpresa(c *gin.Context) {
	empresaID, ok := ctrl.empresaDelToken(c)
	if !ok {
		return
	}

	empresa, err := ctrl.empresaService.GetByID(empresaID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"empresa":          empresa,
		"horario_atencion": empresa.HorarioAtencion(),
	})
}

// ActualizarMiEmpresa edita el perfil con control de revisión.
func (ctrl *ProveedorController) ActualizarMiEmpresa(c *gin.Context) {
	empresaID, ok := ctrl.empresaDelToken(c)
	if !ok {
		return
	}

	var req ActualizarEmpresaRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.BadRequest(c, apperrors.ValidacionEntradaInvalida, "Los datos de la empresa no son válidos")
		return
	}

	empresa, err := ctrl.empresaService.Actualizar(c.Request.Context(), empresaID, req.Revision, req.Datos)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"empresa": empresa})
}

// MiCompletitud muestra el puntaje de completitud y los campos faltantes.
func (ctrl *ProveedorController) MiCompletitud(c *gin.Context) {
	empresaID, ok := ctrl.empresaDelToken(c)
	if !ok {
		return
	}

	resultado, err := ctrl.empresaService.Completitud(empresaID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"completitud": resultado})
}

// MiHorarioPreset aplica un preset de horario a la empresa propia.
func (ctrl *ProveedorController) MiHorarioPreset(c *gin.Context) {
	empresaID, ok := ctrl.empresaDelToken(c)
	if !ok {
		return
	}

	var req PresetHorarioRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.BadRequest(c, apperrors.ValidacionEntradaInvalida, "Debe indicar el preset y la revisión")
		return
	}

	empresa, err := ctrl.empresaService.AplicarPresetHorario(c.Request.Context(), empresaID, req.Revision, req.Preset)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"empresa":          empresa,
		"horario_atencion": empresa.HorarioAtencion(),
	})
}
