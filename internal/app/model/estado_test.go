package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// aristas legales, sin contar auto-transiciones
var aristasPermitidas = map[[2]Estado]bool{
	{EstadoCatalogada, EstadoPendienteValidacion}: true,
	{EstadoPendienteValidacion, EstadoEnVisita}:   true,
	{EstadoEnVisita, EstadoValidada}:              true,
	{EstadoValidada, EstadoActiva}:                true,

	{EstadoPendienteValidacion, EstadoRechazada}:  true,
	{EstadoPendienteValidacion, EstadoSuspendida}: true,
	{EstadoPendienteValidacion, EstadoInactiva}:   true,
	{EstadoEnVisita, EstadoRechazada}:             true,
	{EstadoEnVisita, EstadoSuspendida}:            true,
	{EstadoEnVisita, EstadoInactiva}:              true,
	{EstadoValidada, EstadoRechazada}:             true,
	{EstadoValidada, EstadoSuspendida}:            true,
	{EstadoValidada, EstadoInactiva}:              true,
	{EstadoActiva, EstadoRechazada}:               true,
	{EstadoActiva, EstadoSuspendida}:              true,
	{EstadoActiva, EstadoInactiva}:                true,
}

// Recorre el producto cartesiano completo de estados: toda arista fuera de
// la tabla debe rechazarse y toda auto-transición aceptarse.
func TestPuedeTransicionar_Exhaustivo(t *testing.T) {
	for _, desde := range Estados {
		for _, hacia := range Estados {
			got := PuedeTransicionar(desde, hacia)
			want := desde == hacia || aristasPermitidas[[2]Estado{desde, hacia}]
			assert.Equal(t, want, got, "(%s → %s)", desde, hacia)
		}
	}
}

func TestPuedeTransicionar_SaltoDirectoRechazado(t *testing.T) {
	// catalogada no puede saltar directo a activa: debe recorrer el camino
	assert.False(t, PuedeTransicionar(EstadoCatalogada, EstadoActiva))
	assert.False(t, PuedeTransicionar(EstadoCatalogada, EstadoValidada))
	assert.False(t, PuedeTransicionar(EstadoRechazada, EstadoPendienteValidacion))
}

func TestParseEstado(t *testing.T) {
	for _, e := range Estados {
		got, err := ParseEstado(string(e))
		assert.NoError(t, err)
		assert.Equal(t, e, got)
	}

	_, err := ParseEstado("publicada")
	var desconocido *ErrEstadoDesconocido
	assert.ErrorAs(t, err, &desconocido)
	assert.Equal(t, "publicada", desconocido.Valor)

	_, err = ParseEstado("")
	assert.Error(t, err)
}

func TestTransicionesDesde(t *testing.T) {
	assert.Equal(t, []Estado{EstadoPendienteValidacion}, TransicionesDesde(EstadoCatalogada))
	assert.Empty(t, TransicionesDesde(EstadoRechazada))
}
