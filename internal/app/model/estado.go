package model

import (
	"fmt"
)

// Estado es el estado de ciclo de vida de una Empresa. Es un enum cerrado:
// todo valor que llegue del almacén o de una petición se valida con
// ParseEstado y los desconocidos se rechazan, nunca se asume un default.
type Estado string

const (
	EstadoCatalogada          Estado = "catalogada"
	EstadoPendienteValidacion Estado = "pendiente_validacion"
	EstadoEnVisita            Estado = "en_visita"
	EstadoValidada            Estado = "validada"
	EstadoActiva              Estado = "activa"
	EstadoSuspendida          Estado = "suspendida"
	EstadoInactiva            Estado = "inactiva"
	EstadoRechazada           Estado = "rechazada"
)

// Estados lista todos los miembros del enum.
var Estados = []Estado{
	EstadoCatalogada,
	EstadoPendienteValidacion,
	EstadoEnVisita,
	EstadoValidada,
	EstadoActiva,
	EstadoSuspendida,
	EstadoInactiva,
	EstadoRechazada,
}

// ErrEstadoDesconocido se reporta al validar un estado fuera del enum.
type ErrEstadoDesconocido struct {
	Valor string
}

func (e *ErrEstadoDesconocido) Error() string {
	return fmt.Sprintf("estado desconocido: %q", e.Valor)
}

// ParseEstado valida un string contra el enum cerrado.
func ParseEstado(valor string) (Estado, error) {
	for _, e := range Estados {
		if string(e) == valor {
			return e, nil
		}
	}
	return "", &ErrEstadoDesconocido{Valor: valor}
}

// transiciones es la tabla de adyacencia explícita del ciclo de vida.
// Fuera de esta tabla sólo son legales las auto-transiciones (no-op).
var transiciones = map[Estado][]Estado{
	EstadoCatalogada:          {EstadoPendienteValidacion},
	EstadoPendienteValidacion: {EstadoEnVisita, EstadoRechazada, EstadoSuspendida, EstadoInactiva},
	EstadoEnVisita:            {EstadoValidada, EstadoRechazada, EstadoSuspendida, EstadoInactiva},
	EstadoValidada:            {EstadoActiva, EstadoRechazada, EstadoSuspendida, EstadoInactiva},
	EstadoActiva:              {EstadoRechazada, EstadoSuspendida, EstadoInactiva},
	EstadoSuspendida:          {},
	EstadoInactiva:            {},
	EstadoRechazada:           {},
}

// PuedeTransicionar informa si la arista (desde, hacia) está permitida.
// Las auto-transiciones siempre lo están.
func PuedeTransicionar(desde, hacia Estado) bool {
	if desde == hacia {
		return true
	}
	for _, destino := range transiciones[desde] {
		if destino == hacia {
			return true
		}
	}
	return false
}

// TransicionesDesde devuelve los destinos legales desde un estado,
// sin incluir la auto-transición.
func TransicionesDesde(desde Estado) []Estado {
	destinos := transiciones[desde]
	out := make([]Estado, len(destinos))
	copy(out, destinos)
	return out
}
