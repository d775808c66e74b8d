package service

import (
	"testing"

	"github.com/rlepezi/av10dejulio-sub005/internal/app/model"
	"github.com/rlepezi/av10dejulio-sub005/pkg/horario"
	"github.com/stretchr/testify/assert"
)

func horarioComercial() horario.Horario {
	h, _ := horario.Preset(horario.PresetComercial)
	return h
}

func empresaCompleta() *model.Empresa {
	return &model.Empresa{
		Nombre:     "Taller Los Andes",
		Direccion:  "Av. 10 de Julio 1234",
		Telefono:   "+56 9 1234 5678",
		Email:      "contacto@losandes.cl",
		Web:        "https://losandes.cl",
		Horario:    horarioComercial(),
		Servicios:  model.StringArray{"frenos", "alineación"},
		Marcas:     model.StringArray{"Toyota", "Hyundai"},
		Categorias: model.StringArray{"auto", "camioneta"},
		LogoURL:    "https://cdn.example.com/logo.png",
		Galeria:    model.StringArray{"g1.jpg", "g2.jpg"},
		Representante: model.Representante{
			Nombre: "María Pérez",
			Email:  "maria@losandes.cl",
		},
	}
}

func TestCalcularCompletitud_PerfilCompleto(t *testing.T) {
	resultado := CalcularCompletitud(empresaCompleta())

	assert.Equal(t, 100, resultado.Puntaje)
	assert.Equal(t, NivelExcelente, resultado.Nivel)
	assert.Empty(t, resultado.Faltantes)
}

func TestCalcularCompletitud_PerfilVacio(t *testing.T) {
	resultado := CalcularCompletitud(&model.Empresa{})

	// Sin web declarada el chequeo de web se da por cumplido: la web es
	// opcional.
	assert.Equal(t, 11, resultado.Puntaje)
	assert.Equal(t, NivelDeficiente, resultado.Nivel)
	assert.Len(t, resultado.Faltantes, 8)
	assert.NotContains(t, resultado.Faltantes, "web")
}

func TestCalcularCompletitud_WebMalformada(t *testing.T) {
	empresa := empresaCompleta()
	empresa.Web = "no es una url"

	resultado := CalcularCompletitud(empresa)

	assert.Contains(t, resultado.Faltantes, "web")
	assert.Equal(t, 89, resultado.Puntaje)
}

func TestCalcularCompletitud_UmbralesDeConteo(t *testing.T) {
	// Un solo elemento no basta para galería, servicios, marcas ni
	// categorías.
	empresa := empresaCompleta()
	empresa.Galeria = model.StringArray{"g1.jpg"}
	empresa.Servicios = model.StringArray{"frenos"}
	empresa.Marcas = model.StringArray{"Toyota"}
	empresa.Categorias = model.StringArray{"auto"}

	resultado := CalcularCompletitud(empresa)

	assert.ElementsMatch(t, []string{"galeria", "servicios", "marcas", "categorias"}, resultado.Faltantes)
	assert.Equal(t, 56, resultado.Puntaje)
}

func TestCalcularCompletitud_Niveles(t *testing.T) {
	// Cada caso vacía campos de un perfil completo y verifica el nivel
	// resultante.
	tests := []struct {
		name            string
		vaciar          func(e *model.Empresa)
		puntajeEsperado int
		nivelEsperado   string
	}{
		{
			name:            "un chequeo faltante sigue excelente",
			vaciar:          func(e *model.Empresa) { e.LogoURL = "" },
			puntajeEsperado: 89,
			nivelEsperado:   NivelExcelente,
		},
		{
			name: "tres chequeos faltantes baja a bueno",
			vaciar: func(e *model.Empresa) {
				e.LogoURL = ""
				e.Galeria = nil
				e.Servicios = nil
			},
			puntajeEsperado: 67,
			nivelEsperado:   NivelBueno,
		},
		{
			name: "cinco chequeos faltantes baja a regular",
			vaciar: func(e *model.Empresa) {
				e.LogoURL = ""
				e.Galeria = nil
				e.Servicios = nil
				e.Horario = nil
				e.Representante = model.Representante{}
			},
			puntajeEsperado: 44,
			nivelEsperado:   NivelRegular,
		},
		{
			name: "seis chequeos faltantes cae a deficiente",
			vaciar: func(e *model.Empresa) {
				e.LogoURL = ""
				e.Galeria = nil
				e.Servicios = nil
				e.Horario = nil
				e.Representante = model.Representante{}
				e.Telefono = ""
			},
			puntajeEsperado: 33,
			nivelEsperado:   NivelDeficiente,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			empresa := empresaCompleta()
			tt.vaciar(empresa)

			resultado := CalcularCompletitud(empresa)

			assert.Equal(t, tt.puntajeEsperado, resultado.Puntaje)
			assert.Equal(t, tt.nivelEsperado, resultado.Nivel)
		})
	}
}

// Completar un chequeo nunca puede bajar el puntaje.
func TestCalcularCompletitud_Monotonia(t *testing.T) {
	empresa := &model.Empresa{}
	anterior := CalcularCompletitud(empresa).Puntaje

	pasos := []func(e *model.Empresa){
		func(e *model.Empresa) { e.LogoURL = "logo.png" },
		func(e *model.Empresa) { e.Galeria = model.StringArray{"g1.jpg", "g2.jpg"} },
		func(e *model.Empresa) { e.Servicios = model.StringArray{"frenos", "alineación"} },
		func(e *model.Empresa) { e.Marcas = model.StringArray{"Toyota", "Hyundai"} },
		func(e *model.Empresa) { e.Categorias = model.StringArray{"auto", "camioneta"} },
		func(e *model.Empresa) { e.Horario = horarioComercial() },
		func(e *model.Empresa) {
			e.Nombre = "Taller"
			e.Telefono = "+56 2 2222 2222"
			e.Email = "a@b.cl"
			e.Direccion = "Calle 1"
		},
		func(e *model.Empresa) {
			e.Representante = model.Representante{Nombre: "N", Email: "n@n.cl"}
		},
	}

	for _, paso := range pasos {
		paso(empresa)
		actual := CalcularCompletitud(empresa).Puntaje
		assert.GreaterOrEqual(t, actual, anterior)
		anterior = actual
	}
	assert.Equal(t, 100, anterior)
}

// Un campo de contacto vacío hace fallar el chequeo completo de contacto.
func TestCalcularCompletitud_ContactoParcial(t *testing.T) {
	empresa := empresaCompleta()
	empresa.Direccion = ""

	resultado := CalcularCompletitud(empresa)

	assert.Contains(t, resultado.Faltantes, "contacto")
	assert.Equal(t, 89, resultado.Puntaje)
}

// El horario sólo cuenta si al menos un día está abierto.
func TestCalcularCompletitud_HorarioTodoCerrado(t *testing.T) {
	empresa := empresaCompleta()
	cerrado, ok := horario.Preset(horario.PresetCerrado)
	assert.True(t, ok)
	empresa.Horario = cerrado

	resultado := CalcularCompletitud(empresa)

	assert.Contains(t, resultado.Faltantes, "horario")
	assert.Equal(t, 89, resultado.Puntaje)
}
