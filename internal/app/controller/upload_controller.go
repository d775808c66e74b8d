package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"
	apperrors "github.com/rlepezi/av10dejulio-sub005/internal/errors"
	"github.com/rlepezi/av10dejulio-sub005/internal/middleware"
	"github.com/rlepezi/av10dejulio-sub005/internal/storage"
)

// UploadController entrega URLs prefirmadas para subir imágenes de la
// empresa (logo y galería).
type UploadController struct {
	storage *storage.S3Storage
}

func NewUploadController(s3 *storage.S3Storage) *UploadController {
	return &UploadController{storage: s3}
}

type PresignRequest struct {
	Filename    string `json:"filename" binding:"required"`
	ContentType string `json:"content_type" binding:"required"`
	Carpeta     string `json:"carpeta" binding:"required"`
	Tamano      int64  `json:"tamano"`
}

// PresignEmpresa genera la URL de subida para una empresa del panel admin.
func (ctrl *UploadController) PresignEmpresa(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	ctrl.presign(c, id)
}

// PresignMiEmpresa genera la URL de subida para la empresa del proveedor.
func (ctrl *UploadController) PresignMiEmpresa(c *gin.Context) {
	empresaID, ok := middleware.GetEmpresaID(c)
	if !ok {
		apperrors.Forbidden(c, "La sesión no tiene una empresa asociada")
		return
	}
	ctrl.presign(c, empresaID)
}

func (ctrl *UploadController) presign(c *gin.Context, empresaID uint) {
	log := middleware.GetLoggerFromContext(c)

	var req PresignRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.BadRequest(c, apperrors.ValidacionEntradaInvalida, "Nombre de archivo, tipo y carpeta son obligatorios")
		return
	}

	if req.Tamano > 0 {
		if err := ctrl.storage.ValidarTamano(req.Tamano); err != nil {
			apperrors.BadRequest(c, apperrors.ValidacionEntradaInvalida, err.Error())
			return
		}
	}

	respuesta, err := ctrl.storage.GenerarURLSubida(empresaID, req.Filename, req.ContentType, req.Carpeta)
	if err != nil {
		log.Warn("No se pudo generar la URL de subida", map[string]interface{}{
			"empresa_id": empresaID,
			"error":      err.Error(),
		})
		apperrors.BadRequest(c, apperrors.ValidacionEntradaInvalida, err.Error())
		return
	}

	c.JSON(http.StatusOK, respuesta)
}
