package horario

// Presets de aplicación rápida: siembran una estructura completa antes de
// la edición manual día a día.
const (
	PresetComercial = "comercial"
	PresetTaller    = "taller"
	Preset24H       = "24h"
	PresetCerrado   = "cerrado"
)

// Preset devuelve el horario canónico asociado a la etiqueta. El segundo
// valor es false si la etiqueta no existe.
func Preset(etiqueta string) (Horario, bool) {
	switch etiqueta {
	case PresetComercial:
		h := Nuevo()
		for _, d := range DiasSemana[:5] {
			h[d] = Dia{Abierto: true, Apertura: "09:00", Cierre: "18:30", TurnoContinuo: true}
		}
		h["sabado"] = Dia{Abierto: true, Apertura: "09:00", Cierre: "14:00", TurnoContinuo: true}
		return h, true

	case PresetTaller:
		h := Nuevo()
		for _, d := range DiasSemana[:5] {
			h[d] = Dia{
				Abierto:        true,
				Apertura:       "08:30",
				Cierre:         "18:00",
				DescansoInicio: "13:00",
				DescansoFin:    "14:30",
			}
		}
		h["sabado"] = Dia{Abierto: true, Apertura: "09:00", Cierre: "13:00", TurnoContinuo: true}
		return h, true

	case Preset24H:
		h := Nuevo()
		for _, d := range DiasSemana {
			h[d] = Dia{Abierto: true, Apertura: "00:00", Cierre: "23:59", TurnoContinuo: true}
		}
		return h, true

	case PresetCerrado:
		return Nuevo(), true
	}

	return nil, false
}

// Etiquetas lista los presets disponibles.
func Etiquetas() []string {
	return []string{PresetComercial, PresetTaller, Preset24H, PresetCerrado}
}
