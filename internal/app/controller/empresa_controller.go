package controller

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rlepezi/av10dejulio-sub005/internal/app/model"
	"github.com/rlepezi/av10dejulio-sub005/internal/app/repository"
	"github.com/rlepezi/av10dejulio-sub005/internal/app/service"
	apperrors "github.com/rlepezi/av10dejulio-sub005/internal/errors"
	"github.com/rlepezi/av10dejulio-sub005/internal/middleware"
)

// EmpresaController expone la administración de empresas: catastro,
// ciclo de vida, credenciales y exportación.
type EmpresaController struct {
	empresaService    service.EmpresaService
	lifecycleService  service.LifecycleService
	credencialService service.CredencialService
	exportService     service.ExportService
}

func NewEmpresaController(
	empresaService service.EmpresaService,
	lifecycleService service.LifecycleService,
	credencialService service.CredencialService,
	exportService service.ExportService,
) *EmpresaController {
	return &EmpresaController{
		empresaService:    empresaService,
		lifecycleService:  lifecycleService,
		credencialService: credencialService,
		exportService:     exportService,
	}
}

type TransicionRequest struct {
	Destino string                   `json:"destino" binding:"required"`
	Visita  *service.ResultadoVisita `json:"visita"`
}

type AsignarAgenteRequest struct {
	AgenteID uint `json:"agente_id" binding:"required"`
}

type CredencialesRequest struct {
	Email             string `json:"email" binding:"required,email"`
	Clave             string `json:"clave" binding:"required"`
	ClaveConfirmacion string `json:"clave_confirmacion" binding:"required"`
}

type PresetHorarioRequest struct {
	Preset   string `json:"preset" binding:"required"`
	Revision uint   `json:"revision" binding:"required"`
}

type ActualizarEmpresaRequest struct {
	Revision uint                 `json:"revision" binding:"required"`
	Datos    service.EmpresaInput `json:"datos" binding:"required"`
}

func (ctrl *EmpresaController) Crear(c *gin.Context) {
	var input service.EmpresaInput
	if err := c.ShouldBindJSON(&input); err != nil {
		apperrors.BadRequest(c, apperrors.ValidacionEntradaInvalida, "Los datos de la empresa no son válidos")
		return
	}

	empresa, err := ctrl.empresaService.Crear(input)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"empresa": empresa})
}

func (ctrl *EmpresaController) List(c *gin.Context) {
	filter := repository.EmpresaFilter{
		Estado:      c.Query("estado"),
		Comuna:      c.Query("comuna"),
		TipoEmpresa: c.Query("tipo"),
		Busqueda:    c.Query("q"),
	}

	if page, err := strconv.Atoi(c.DefaultQuery("page", "1")); err == nil {
		filter.Page = page
	}
	if pageSize, err := strconv.Atoi(c.DefaultQuery("page_size", "20")); err == nil {
		filter.PageSize = pageSize
	}
	if agenteStr := c.Query("agente_id"); agenteStr != "" {
		if agenteID, err := strconv.ParseUint(agenteStr, 10, 32); err == nil {
			id := uint(agenteID)
			filter.AgenteID = &id
		}
	}

	empresas, total, err := ctrl.empresaService.ListAdmin(filter)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"empresas":  empresas,
		"total":     total,
		"page":      filter.Page,
		"page_size": filter.PageSize,
	})
}

func (ctrl *EmpresaController) Get(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	empresa, err := ctrl.empresaService.GetByID(id)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"empresa":          empresa,
		"horario_atencion": empresa.HorarioAtencion(),
	})
}

func (ctrl *EmpresaController) Actualizar(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req ActualizarEmpresaRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.BadRequest(c, apperrors.ValidacionEntradaInvalida, "Los datos de la empresa no son válidos")
		return
	}

	empresa, err := ctrl.empresaService.Actualizar(c.Request.Context(), id, req.Revision, req.Datos)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"empresa": empresa})
}

// Transicion mueve la empresa por el ciclo de vida.
func (ctrl *EmpresaController) Transicion(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

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

	log.Info("Transición aplicada desde el panel", map[string]interface{}{
		"empresa_id": id,
		"estado":     empresa.Estado,
	})

	c.JSON(http.StatusOK, gin.H{"empresa": empresa})
}

// Transiciones lista los destinos posibles desde el estado actual.
func (ctrl *EmpresaController) Transiciones(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	estado, destinos, err := ctrl.lifecycleService.TransicionesDisponibles(id)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"estado":   estado,
		"destinos": destinos,
	})
}

// Publicar activa la empresa y habilita su perfil público.
func (ctrl *EmpresaController) Publicar(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	empresa, err := ctrl.lifecycleService.PublicarConPerfil(c.Request.Context(), actorDesdeContexto(c), id)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"empresa": empresa})
}

func (ctrl *EmpresaController) AsignarAgente(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req AsignarAgenteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.BadRequest(c, apperrors.ValidacionEntradaInvalida, "Debe indicar el agente")
		return
	}

	empresa, err := ctrl.empresaService.AsignarAgente(c.Request.Context(), id, req.AgenteID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"empresa": empresa})
}

// EmitirCredenciales crea la cuenta de acceso de la empresa.
func (ctrl *EmpresaController) EmitirCredenciales(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req CredencialesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.BadRequest(c, apperrors.ValidacionEntradaInvalida, "Correo y clave son obligatorios")
		return
	}

	emitida, err := ctrl.credencialService.IssueCredentials(c.Request.Context(), id, req.Email, req.Clave, req.ClaveConfirmacion)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"credencial": emitida})
}

func (ctrl *EmpresaController) Completitud(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	resultado, err := ctrl.empresaService.Completitud(id)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"completitud": resultado})
}

func (ctrl *EmpresaController) Visitas(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	visitas, err := ctrl.empresaService.Visitas(id)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"visitas": visitas,
		"count":   len(visitas),
	})
}

func (ctrl *EmpresaController) AplicarPresetHorario(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req PresetHorarioRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.BadRequest(c, apperrors.ValidacionEntradaInvalida, "Debe indicar el preset y la revisión")
		return
	}

	empresa, err := ctrl.empresaService.AplicarPresetHorario(c.Request.Context(), id, req.Revision, req.Preset)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"empresa":          empresa,
		"horario_atencion": empresa.HorarioAtencion(),
	})
}

// Exportar descarga el catastro filtrado como planilla XLSX.
func (ctrl *EmpresaController) Exportar(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	filter := repository.EmpresaFilter{
		Estado: c.Query("estado"),
		Comuna: c.Query("comuna"),
	}

	buf, err := ctrl.exportService.ExportarEmpresas(filter)
	if err != nil {
		log.Error("Exportación fallida", err, nil)
		apperrors.InternalError(c, "No se pudo generar la exportación")
		return
	}

	nombre := fmt.Sprintf("empresas_%s.xlsx", time.Now().Format("20060102"))
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", nombre))
	c.Data(http.StatusOK, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", buf.Bytes())
}

func (ctrl *EmpresaController) Resumen(c *gin.Context) {
	resumen, err := ctrl.empresaService.ResumenPorEstado()
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"por_estado": resumen})
}

// Reconciliar corre la reconciliación de cuentas bajo demanda.
func (ctrl *EmpresaController) Reconciliar(c *gin.Context) {
	reporte, err := ctrl.credencialService.ReconcileOrphanAccounts(c.Request.Context())
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"reporte": reporte})
}
