package errors

import (
	"errors"
	"strings"

	"gorm.io/gorm"
)

// ErrorInfo es el resultado de traducir un error de infraestructura a un
// código estable con mensaje para el usuario.
type ErrorInfo struct {
	Code    string
	Message string
}

// ParseError traduce errores de GORM/Postgres a códigos de la plataforma.
// No expone detalles internos pero sí lo suficiente para que el usuario
// pueda corregir la operación.
func ParseError(err error, context string) ErrorInfo {
	if err == nil {
		return ErrorInfo{Code: InternoServidor, Message: "Ocurrió un error en el servidor"}
	}

	errStr := err.Error()
	errStrLower := strings.ToLower(errStr)

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrorInfo{
			Code:    RecursoNoEncontrado,
			Message: mensajeNoEncontrado(context),
		}
	}

	// Violaciones de unicidad (23505)
	if strings.Contains(errStrLower, "duplicate key") || strings.Contains(errStrLower, "unique constraint") {
		return parseDuplicado(errStrLower)
	}

	// Violaciones de clave foránea (23503)
	if strings.Contains(errStrLower, "foreign key constraint") {
		return ErrorInfo{
			Code:    RecursoConflicto,
			Message: "La operación referencia datos que no existen o que aún están en uso",
		}
	}

	// Errores de red hacia dependencias externas
	if strings.Contains(errStrLower, "connection refused") ||
		strings.Contains(errStrLower, "no such host") ||
		strings.Contains(errStrLower, "timeout") {
		return ErrorInfo{
			Code:    InternoDependenciaExterna,
			Message: "No fue posible contactar un servicio externo. Intente nuevamente más tarde",
		}
	}

	return ErrorInfo{
		Code:    InternoServidor,
		Message: "Ocurrió un error en el servidor. Intente nuevamente más tarde",
	}
}

func parseDuplicado(errLower string) ErrorInfo {
	if strings.Contains(errLower, "rut") {
		return ErrorInfo{
			Code:    RecursoYaExiste,
			Message: "Ya existe una empresa registrada con ese RUT",
		}
	}
	if strings.Contains(errLower, "empresa_id") {
		return ErrorInfo{
			Code:    RecursoConflicto,
			Message: "La empresa ya tiene un vínculo de credenciales vigente",
		}
	}
	if strings.Contains(errLower, "email") {
		return ErrorInfo{
			Code:    AuthEmailAlreadyExists,
			Message: "El correo ya está en uso",
		}
	}
	return ErrorInfo{
		Code:    RecursoYaExiste,
		Message: "Ya existe un registro con esos datos",
	}
}

func mensajeNoEncontrado(context string) string {
	contextLower := strings.ToLower(context)

	switch {
	case strings.Contains(contextLower, "empresa"):
		return "Empresa no encontrada"
	case strings.Contains(contextLower, "agente"):
		return "Agente no encontrado"
	case strings.Contains(contextLower, "solicitud"):
		return "Solicitud no encontrada"
	case strings.Contains(contextLower, "visita"):
		return "Visita no encontrada"
	case strings.Contains(contextLower, "credencial"), strings.Contains(contextLower, "cuenta"):
		return "Credencial no encontrada"
	}
	return "No se encontró el registro solicitado"
}
