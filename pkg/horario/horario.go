// Package horario implementa la forma canónica del horario semanal de una
// empresa y la conversión bidireccional con el texto de visualización
// ("Lunes a Viernes: 08:00 - 18:00 | Sábado: 08:00 - 13:00").
//
// Sólo la forma estructurada se persiste; el texto se deriva en lectura.
// La dirección texto→estructura es una normalización con pérdida: los
// tokens que no calzan dejan el día cerrado en silencio, nunca fallan.
package horario

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strings"
)

// Dia es la entrada canónica de un día de la semana.
type Dia struct {
	Abierto        bool   `json:"abierto"`
	Apertura       string `json:"apertura,omitempty"` // "HH:MM"
	Cierre         string `json:"cierre,omitempty"`   // "HH:MM"
	TurnoContinuo  bool   `json:"turno_continuo"`
	DescansoInicio string `json:"descanso_inicio,omitempty"`
	DescansoFin    string `json:"descanso_fin,omitempty"`
}

// Horario mapea cada uno de los siete días canónicos a su entrada.
type Horario map[string]Dia

// DiasSemana fija el orden canónico de las claves.
var DiasSemana = []string{
	"lunes", "martes", "miercoles", "jueves", "viernes", "sabado", "domingo",
}

var nombresDia = map[string]string{
	"lunes":     "Lunes",
	"martes":    "Martes",
	"miercoles": "Miércoles",
	"jueves":    "Jueves",
	"viernes":   "Viernes",
	"sabado":    "Sábado",
	"domingo":   "Domingo",
}

// abreviaturas de 3 letras ya normalizadas (sin acentos, minúsculas)
var abreviaturas = map[string]string{
	"lun": "lunes",
	"mar": "martes",
	"mie": "miercoles",
	"jue": "jueves",
	"vie": "viernes",
	"sab": "sabado",
	"dom": "domingo",
}

var (
	ErrHoraInvalida  = errors.New("hora inválida, se espera HH:MM")
	ErrRangoInvalido = errors.New("rango horario inválido")
)

// Sólo horas con cero inicial: es lo que Serialize emite, así todo horario
// válido sobrevive el viaje estructura → texto → estructura sin cambios.
var reHora = regexp.MustCompile(`^([01]\d|2[0-3]):[0-5]\d$`)
var reRango = regexp.MustCompile(`(\d{1,2}:\d{2})\s*-\s*(\d{1,2}:\d{2})`)

// Nuevo devuelve un horario canónico con los siete días cerrados.
func Nuevo() Horario {
	h := make(Horario, len(DiasSemana))
	for _, d := range DiasSemana {
		h[d] = Dia{Abierto: false}
	}
	return h
}

// Value implementa driver.Valuer para persistir el horario como JSON.
func (h Horario) Value() (driver.Value, error) {
	if h == nil {
		return nil, nil
	}
	return json.Marshal(h)
}

// Scan implementa sql.Scanner.
func (h *Horario) Scan(value interface{}) error {
	if value == nil {
		*h = nil
		return nil
	}

	var bytes []byte
	switch v := value.(type) {
	case []byte:
		bytes = v
	case string:
		bytes = []byte(v)
	default:
		return errors.New("failed to scan Horario")
	}

	return json.Unmarshal(bytes, h)
}

// Validar verifica los invariantes de la forma canónica: exactamente las
// siete claves; en cada día abierto apertura ≤ cierre y el descanso, si
// existe, queda estrictamente dentro de [apertura, cierre].
func (h Horario) Validar() error {
	if len(h) != len(DiasSemana) {
		return fmt.Errorf("%w: se esperan exactamente %d días, hay %d", ErrRangoInvalido, len(DiasSemana), len(h))
	}
	for _, nombre := range DiasSemana {
		dia, ok := h[nombre]
		if !ok {
			return fmt.Errorf("%w: falta el día %s", ErrRangoInvalido, nombre)
		}
		if !dia.Abierto {
			continue
		}
		if !reHora.MatchString(dia.Apertura) {
			return fmt.Errorf("%w: %s apertura %q", ErrHoraInvalida, nombre, dia.Apertura)
		}
		if !reHora.MatchString(dia.Cierre) {
			return fmt.Errorf("%w: %s cierre %q", ErrHoraInvalida, nombre, dia.Cierre)
		}
		apertura := normalizarHora(dia.Apertura)
		cierre := normalizarHora(dia.Cierre)
		if apertura > cierre {
			return fmt.Errorf("%w: %s abre %s después de cerrar %s", ErrRangoInvalido, nombre, dia.Apertura, dia.Cierre)
		}
		if dia.DescansoInicio != "" || dia.DescansoFin != "" {
			if !reHora.MatchString(dia.DescansoInicio) || !reHora.MatchString(dia.DescansoFin) {
				return fmt.Errorf("%w: %s descanso", ErrHoraInvalida, nombre)
			}
			ini := normalizarHora(dia.DescansoInicio)
			fin := normalizarHora(dia.DescansoFin)
			if ini > fin || ini <= apertura || fin >= cierre {
				return fmt.Errorf("%w: %s el descanso debe quedar dentro de la jornada", ErrRangoInvalido, nombre)
			}
		}
	}
	return nil
}

// AlgunoAbierto informa si al menos un día de la semana está abierto.
func (h Horario) AlgunoAbierto() bool {
	for _, dia := range h {
		if dia.Abierto {
			return true
		}
	}
	return false
}

// Serialize agrupa días consecutivos con idéntico intervalo en una sola
// cláusula y omite los días cerrados. Si no hay ninguno abierto devuelve
// "Cerrado todos los días".
func Serialize(h Horario) string {
	type tramo struct {
		desde, hasta int
		dia          Dia
	}

	var tramos []tramo
	for i, nombre := range DiasSemana {
		dia := h[nombre]
		if !dia.Abierto {
			continue
		}
		if len(tramos) > 0 {
			ultimo := &tramos[len(tramos)-1]
			if ultimo.hasta == i-1 && mismoIntervalo(ultimo.dia, dia) {
				ultimo.hasta = i
				continue
			}
		}
		tramos = append(tramos, tramo{desde: i, hasta: i, dia: dia})
	}

	if len(tramos) == 0 {
		return "Cerrado todos los días"
	}

	clausulas := make([]string, 0, len(tramos))
	for _, t := range tramos {
		var dias string
		if t.desde == t.hasta {
			dias = nombresDia[DiasSemana[t.desde]]
		} else {
			dias = fmt.Sprintf("%s a %s", nombresDia[DiasSemana[t.desde]], nombresDia[DiasSemana[t.hasta]])
		}
		clausula := fmt.Sprintf("%s: %s - %s", dias, t.dia.Apertura, t.dia.Cierre)
		if t.dia.DescansoInicio != "" {
			clausula += fmt.Sprintf(" (descanso %s - %s)", t.dia.DescansoInicio, t.dia.DescansoFin)
		}
		clausulas = append(clausulas, clausula)
	}

	return strings.Join(clausulas, " | ")
}

// Parse normaliza texto libre a la forma canónica. Acepta separadores ","
// y "|", abreviaturas de 3 letras (lun/mar/mié/jue/vie/sáb/dom), nombres
// completos, rangos de días ("Lun-Vie", "Lunes a Viernes") y rangos
// "HH:MM-HH:MM". Todo día no mencionado queda cerrado.
func Parse(texto string) Horario {
	h := Nuevo()

	for _, token := range strings.FieldsFunc(texto, func(r rune) bool { return r == ',' || r == '|' }) {
		token = strings.TrimSpace(token)
		if token == "" {
			continue
		}

		rangos := reRango.FindAllStringSubmatchIndex(token, -1)
		if len(rangos) == 0 {
			continue
		}

		normalizado := normalizar(token)

		// El primer rango es la jornada; un segundo rango precedido por la
		// palabra "descanso" es el intervalo de descanso.
		m := reRango.FindAllStringSubmatch(token, -1)
		apertura := normalizarHora(m[0][1])
		cierre := normalizarHora(m[0][2])

		descansoInicio, descansoFin := "", ""
		if idx := strings.Index(normalizado, "descanso"); idx >= 0 && len(m) > 1 {
			for i, r := range rangos[1:] {
				if r[0] > idx {
					descansoInicio = normalizarHora(m[i+1][1])
					descansoFin = normalizarHora(m[i+1][2])
					break
				}
			}
		}

		dias := diasDelToken(normalizado[:posEnNormalizado(token, normalizado, rangos[0][0])])
		for _, nombre := range dias {
			h[nombre] = Dia{
				Abierto:        true,
				Apertura:       apertura,
				Cierre:         cierre,
				TurnoContinuo:  descansoInicio == "",
				DescansoInicio: descansoInicio,
				DescansoFin:    descansoFin,
			}
		}
	}

	return h
}

// mismoIntervalo compara sólo los campos que definen la jornada.
func mismoIntervalo(a, b Dia) bool {
	return a.Apertura == b.Apertura &&
		a.Cierre == b.Cierre &&
		a.DescansoInicio == b.DescansoInicio &&
		a.DescansoFin == b.DescansoFin
}

// diasDelToken extrae los días mencionados en la parte del token previa a
// la hora. Un separador "-" o " a " entre dos días se interpreta como rango.
func diasDelToken(parte string) []string {
	type hallazgo struct {
		pos int
		dia string
	}

	var hallazgos []hallazgo
	for i := 0; i+3 <= len(parte); i++ {
		if dia, ok := abreviaturas[parte[i:i+3]]; ok {
			// evita capturar "mar" dentro de otra palabra
			if i > 0 && esLetra(parte[i-1]) {
				continue
			}
			hallazgos = append(hallazgos, hallazgo{pos: i, dia: dia})
			// salta el resto de la palabra
			for i+3 < len(parte) && esLetra(parte[i+3]) {
				i++
			}
			i += 2
		}
	}

	if len(hallazgos) == 0 {
		return nil
	}

	if len(hallazgos) >= 2 {
		entre := parte[hallazgos[0].pos:hallazgos[len(hallazgos)-1].pos]
		if strings.Contains(entre, "-") || strings.Contains(entre, " a ") {
			desde := indiceDia(hallazgos[0].dia)
			hasta := indiceDia(hallazgos[len(hallazgos)-1].dia)
			if desde <= hasta {
				rango := make([]string, 0, hasta-desde+1)
				for i := desde; i <= hasta; i++ {
					rango = append(rango, DiasSemana[i])
				}
				return rango
			}
		}
	}

	dias := make([]string, 0, len(hallazgos))
	for _, hz := range hallazgos {
		dias = append(dias, hz.dia)
	}
	return dias
}

func indiceDia(nombre string) int {
	for i, d := range DiasSemana {
		if d == nombre {
			return i
		}
	}
	return -1
}

func esLetra(b byte) bool {
	return (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z')
}

// normalizar baja a minúsculas y elimina acentos para calzar abreviaturas
// como "mié" y "sáb" sin depender de la ortografía del texto de entrada.
func normalizar(s string) string {
	s = strings.ToLower(s)
	reemplazos := strings.NewReplacer(
		"á", "a", "é", "e", "í", "i", "ó", "o", "ú", "u", "ü", "u", "ñ", "n",
	)
	return reemplazos.Replace(s)
}

// posEnNormalizado traduce una posición de byte del token original a la
// cadena normalizada (los reemplazos de acentos acortan la cadena).
func posEnNormalizado(original, normalizado string, pos int) int {
	if pos > len(original) {
		pos = len(original)
	}
	prefijo := normalizar(original[:pos])
	if len(prefijo) > len(normalizado) {
		return len(normalizado)
	}
	return len(prefijo)
}

func normalizarHora(hhmm string) string {
	partes := strings.SplitN(hhmm, ":", 2)
	if len(partes) != 2 {
		return hhmm
	}
	if len(partes[0]) == 1 {
		return "0" + hhmm
	}
	return hhmm
}
