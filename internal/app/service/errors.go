package service

import (
	"errors"
	"fmt"

	"github.com/rlepezi/av10dejulio-sub005/internal/app/model"
)

var (
	ErrEmpresaNoEncontrada   = errors.New("empresa no encontrada")
	ErrAgenteNoEncontrado    = errors.New("agente no encontrado")
	ErrAgenteInactivo        = errors.New("el agente está inactivo")
	ErrSolicitudNoEncontrada = errors.New("solicitud no encontrada")
	ErrSolicitudYaPromovida  = errors.New("la solicitud ya fue promovida")
	ErrRevisionConflicto     = errors.New("la empresa fue modificada por otra operación; recargue e intente de nuevo")
	ErrHorarioInvalido       = errors.New("el horario entregado no es válido")
	ErrVisitaRequerida       = errors.New("la transición a validada requiere el resultado de la visita")
	ErrClaveCorta            = errors.New("la clave debe tener al menos 6 caracteres")
	ErrClaveNoCoincide       = errors.New("la clave y su confirmación no coinciden")
	ErrCredencialNoExiste    = errors.New("no existe una credencial para ese usuario")
)

// TransicionRechazadaError indica una arista fuera de la tabla de
// transiciones. Nombra origen y destino para que el mensaje sea accionable.
type TransicionRechazadaError struct {
	De model.Estado
	A  model.Estado
}

func (e *TransicionRechazadaError) Error() string {
	return fmt.Sprintf("transición no permitida: %s -> %s", e.De, e.A)
}

// AutorizacionRechazadaError indica que el actor no puede ejecutar la
// operación. Se evalúa antes que la legalidad de la transición: un agente
// sin permiso recibe este error aunque la arista exista.
type AutorizacionRechazadaError struct {
	Motivo string
}

func (e *AutorizacionRechazadaError) Error() string {
	return e.Motivo
}

// DependenciaExternaError envuelve una falla del proveedor de identidad u
// otro servicio externo antes de haber escrito nada.
type DependenciaExternaError struct {
	Servicio string
	Err      error
}

func (e *DependenciaExternaError) Error() string {
	return fmt.Sprintf("falla del servicio externo %s: %v", e.Servicio, e.Err)
}

func (e *DependenciaExternaError) Unwrap() error {
	return e.Err
}

// AplicacionParcialWarning indica que la emisión de credenciales quedó a
// medias: la cuenta ya existe en el proveedor de identidad pero algún paso
// local falló. No es un error fatal; el llamador debe mostrarlo y la
// reconciliación puede completar el resto.
type AplicacionParcialWarning struct {
	UID            string
	Email          string
	PasoIncompleto string
	Err            error
}

func (e *AplicacionParcialWarning) Error() string {
	return fmt.Sprintf("credenciales emitidas parcialmente (paso pendiente: %s): %v", e.PasoIncompleto, e.Err)
}

func (e *AplicacionParcialWarning) Unwrap() error {
	return e.Err
}
