package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rlepezi/av10dejulio-sub005/internal/app/model"
	"github.com/rlepezi/av10dejulio-sub005/internal/app/repository"
	"github.com/rlepezi/av10dejulio-sub005/internal/app/service"
	apperrors "github.com/rlepezi/av10dejulio-sub005/internal/errors"
	"github.com/rlepezi/av10dejulio-sub005/internal/middleware"
	"github.com/rlepezi/av10dejulio-sub005/pkg/horario"
)

// PublicoController sirve el directorio público de empresas activas.
type PublicoController struct {
	empresaService service.EmpresaService
}

func NewPublicoController(empresaService service.EmpresaService) *PublicoController {
	return &PublicoController{empresaService: empresaService}
}

// ListEmpresas lista empresas activas con perfil público.
func (ctrl *PublicoController) ListEmpresas(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	filter := repository.PublicFilter{
		Comuna:      c.Query("comuna"),
		TipoEmpresa: c.Query("tipo"),
		Categoria:   c.Query("categoria"),
		Busqueda:    c.Query("q"),
	}

	empresas, err := ctrl.empresaService.ListPublicas(c.Request.Context(), filter)
	if err != nil {
		log.Error("No se pudo listar el directorio público", err, nil)
		apperrors.InternalError(c, "No se pudo obtener el directorio")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"empresas": empresas,
		"count":    len(empresas),
	})
}

// GetEmpresa entrega la ficha pública de una empresa activa.
func (ctrl *PublicoController) GetEmpresa(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	empresa, err := ctrl.empresaService.GetByID(id)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	// Fuera del directorio no hay ficha pública.
	if empresa.Estado != model.EstadoActiva || !empresa.PerfilPublico {
		apperrors.NotFound(c, apperrors.EmpresaNoEncontrada, "Empresa no encontrada")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"empresa":          empresa,
		"horario_atencion": empresa.HorarioAtencion(),
	})
}

// PresetsHorario lista los presets de horario disponibles con su texto.
func (ctrl *PublicoController) PresetsHorario(c *gin.Context) {
	presets := make([]gin.H, 0, len(horario.Etiquetas()))
	for _, etiqueta := range horario.Etiquetas() {
		h, _ := horario.Preset(etiqueta)
		presets = append(presets, gin.H{
			"etiqueta": etiqueta,
			"horario":  h,
			"texto":    horario.Serialize(h),
		})
	}

	c.JSON(http.StatusOK, gin.H{"presets": presets})
}
