package controller

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/rlepezi/av10dejulio-sub005/internal/app/model"
	"github.com/rlepezi/av10dejulio-sub005/internal/app/service"
	apperrors "github.com/rlepezi/av10dejulio-sub005/internal/errors"
	"github.com/rlepezi/av10dejulio-sub005/internal/identity"
	"github.com/rlepezi/av10dejulio-sub005/internal/middleware"
)

// parseIDParam lee un parámetro de ruta numérico.
func parseIDParam(c *gin.Context, nombre string) (uint, bool) {
	valor := c.Param(nombre)
	id, err := strconv.ParseUint(valor, 10, 32)
	if err != nil {
		apperrors.BadRequest(c, apperrors.ValidacionIDInvalido, "El identificador no es válido")
		return 0, false
	}
	return uint(id), true
}

// actorDesdeContexto arma el actor de dominio a partir del token ya
// validado por el middleware.
func actorDesdeContexto(c *gin.Context) service.Actor {
	uid, _ := middleware.GetUID(c)
	rol, _ := middleware.GetRol(c)

	actor := service.Actor{UID: uid, Rol: rol}
	if agenteID, ok := middleware.GetAgenteID(c); ok {
		actor.AgenteID = &agenteID
	}
	return actor
}

// respondServiceError traduce los errores del dominio a respuestas HTTP
// con código estable. Lo que no reconoce cae al parser genérico.
func respondServiceError(c *gin.Context, err error) {
	var transicion *service.TransicionRechazadaError
	var autorizacion *service.AutorizacionRechazadaError
	var dependencia *service.DependenciaExternaError
	var parcial *service.AplicacionParcialWarning
	var estadoDesconocido *model.ErrEstadoDesconocido

	switch {
	case errors.As(err, &estadoDesconocido):
		apperrors.BadRequest(c, apperrors.ValidacionEstadoInvalido, estadoDesconocido.Error())

	case errors.As(err, &transicion):
		apperrors.Conflict(c, apperrors.EmpresaTransicionInvalida, transicion.Error())

	case errors.As(err, &autorizacion):
		apperrors.RespondWithError(c, http.StatusForbidden, apperrors.AuthzAccessDenied, autorizacion.Error())

	case errors.As(err, &dependencia):
		apperrors.BadGateway(c, apperrors.InternoDependenciaExterna, "Un servicio externo no respondió. Intente nuevamente")

	case errors.As(err, &parcial):
		// Aplicación parcial: se informa como éxito degradado, no como
		// falla opaca. El cliente recibe el paso pendiente.
		c.JSON(http.StatusOK, gin.H{
			"warning":         apperrors.CredencialAplicacionParcial,
			"message":         "Las credenciales se crearon pero la operación quedó incompleta",
			"uid":             parcial.UID,
			"email":           parcial.Email,
			"paso_incompleto": parcial.PasoIncompleto,
		})

	case errors.Is(err, identity.ErrEmailEnUso):
		apperrors.Conflict(c, apperrors.CredencialEmailEnUso, err.Error())

	case errors.Is(err, identity.ErrCredencialesInvalidas):
		apperrors.RespondWithError(c, http.StatusUnauthorized, apperrors.AuthInvalidCredentials, "Correo o clave incorrectos")

	case errors.Is(err, service.ErrEmpresaNoEncontrada):
		apperrors.NotFound(c, apperrors.EmpresaNoEncontrada, "Empresa no encontrada")

	case errors.Is(err, service.ErrAgenteNoEncontrado):
		apperrors.NotFound(c, apperrors.AgenteNoEncontrado, "Agente no encontrado")

	case errors.Is(err, service.ErrAgenteInactivo):
		apperrors.Conflict(c, apperrors.EmpresaAgenteInactivo, "El agente está inactivo")

	case errors.Is(err, service.ErrSolicitudNoEncontrada):
		apperrors.NotFound(c, apperrors.SolicitudNoEncontrada, "Solicitud no encontrada")

	case errors.Is(err, service.ErrSolicitudYaPromovida):
		apperrors.Conflict(c, apperrors.SolicitudYaPromovida, "La solicitud ya fue resuelta")

	case errors.Is(err, service.ErrRevisionConflicto):
		apperrors.Conflict(c, apperrors.EmpresaRevisionObsoleta, "La empresa cambió mientras editaba. Recargue e intente de nuevo")

	case errors.Is(err, service.ErrHorarioInvalido):
		apperrors.BadRequest(c, apperrors.ValidacionHorarioInvalido, err.Error())

	case errors.Is(err, service.ErrVisitaRequerida):
		apperrors.BadRequest(c, apperrors.ValidacionEntradaInvalida, err.Error())

	case errors.Is(err, service.ErrClaveCorta):
		apperrors.BadRequest(c, apperrors.ValidacionClaveCorta, "La clave debe tener al menos 6 caracteres")

	case errors.Is(err, service.ErrClaveNoCoincide):
		apperrors.BadRequest(c, apperrors.ValidacionClaveNoCoincide, "La clave y su confirmación no coinciden")

	case errors.Is(err, service.ErrCredencialNoExiste):
		apperrors.RespondWithError(c, http.StatusUnauthorized, apperrors.AuthUnauthorized, "La cuenta no tiene acceso asignado")

	default:
		info := apperrors.ParseError(err, c.Request.URL.Path)
		status := http.StatusInternalServerError
		if info.Code == apperrors.RecursoNoEncontrado {
			status = http.StatusNotFound
		}
		apperrors.RespondWithError(c, status, info.Code, info.Message)
	}
}
