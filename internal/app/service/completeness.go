package service

import (
	"math"
	"net/url"

	"github.com/rlepezi/av10dejulio-sub005/internal/app/model"
)

// Niveles de completitud del perfil.
const (
	NivelExcelente  = "excelente"
	NivelBueno      = "bueno"
	NivelRegular    = "regular"
	NivelDeficiente = "deficiente"
)

// Completitud es el puntaje de completitud del perfil de una empresa y el
// detalle de qué campos faltan.
type Completitud struct {
	Puntaje   int      `json:"puntaje"`
	Nivel     string   `json:"nivel"`
	Faltantes []string `json:"faltantes"`
}

// chequeosPerfil son las verificaciones del perfil, todas con el mismo
// peso. El puntaje es la proporción de chequeos cumplidos sobre 100.
var chequeosPerfil = []struct {
	Campo  string
	Cumple func(e *model.Empresa) bool
}{
	{"logo", func(e *model.Empresa) bool { return e.LogoURL != "" }},
	// La web es opcional: sólo penaliza una URL presente pero malformada.
	{"web", func(e *model.Empresa) bool { return e.Web == "" || esURLValida(e.Web) }},
	{"galeria", func(e *model.Empresa) bool { return len(e.Galeria) >= 2 }},
	{"servicios", func(e *model.Empresa) bool { return len(e.Servicios) >= 2 }},
	{"marcas", func(e *model.Empresa) bool { return len(e.Marcas) >= 2 }},
	{"categorias", func(e *model.Empresa) bool { return len(e.Categorias) >= 2 }},
	{"horario", func(e *model.Empresa) bool { return e.Horario != nil && e.Horario.AlgunoAbierto() }},
	{"contacto", func(e *model.Empresa) bool {
		return e.Nombre != "" && e.Telefono != "" && e.Email != "" && e.Direccion != ""
	}},
	{"representante", func(e *model.Empresa) bool {
		return e.Representante.Nombre != "" && e.Representante.Email != ""
	}},
}

func esURLValida(raw string) bool {
	u, err := url.Parse(raw)
	return err == nil && (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}

// CalcularCompletitud evalúa los chequeos del perfil y clasifica el
// puntaje en un nivel.
func CalcularCompletitud(empresa *model.Empresa) Completitud {
	cumplidos := 0
	faltantes := []string{}

	for _, chequeo := range chequeosPerfil {
		if chequeo.Cumple(empresa) {
			cumplidos++
		} else {
			faltantes = append(faltantes, chequeo.Campo)
		}
	}

	puntaje := int(math.Round(float64(cumplidos) * 100.0 / float64(len(chequeosPerfil))))

	return Completitud{
		Puntaje:   puntaje,
		Nivel:     nivelParaPuntaje(puntaje),
		Faltantes: faltantes,
	}
}

func nivelParaPuntaje(puntaje int) string {
	switch {
	case puntaje >= 80:
		return NivelExcelente
	case puntaje >= 60:
		return NivelBueno
	case puntaje >= 40:
		return NivelRegular
	default:
		return NivelDeficiente
	}
}
