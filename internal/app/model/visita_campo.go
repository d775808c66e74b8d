package model

import (
	"time"
)

// ChecklistVisita son las verificaciones booleanas de una visita de
// validación en terreno.
type ChecklistVisita struct {
	Existe            bool `gorm:"column:chk_existe" json:"existe"`
	DireccionCoincide bool `gorm:"column:chk_direccion_coincide" json:"direccion_coincide"`
	RubroCoincide     bool `gorm:"column:chk_rubro_coincide" json:"rubro_coincide"`
	ContactoValido    bool `gorm:"column:chk_contacto_valido" json:"contacto_valido"`
}

// VisitaCampo es el registro de auditoría de una pasada de validación.
// Sólo se agrega, nunca se edita ni se borra.
type VisitaCampo struct {
	ID uint `gorm:"primarykey" json:"id"`

	EmpresaID uint `gorm:"not null;index" json:"empresa_id"`

	AgenteID uint `gorm:"not null;index" json:"agente_id"`
	// Nombre copiado al momento de la visita; el historial no debe cambiar
	// si el agente se renombra o desactiva después.
	AgenteNombre string `json:"agente_nombre"`

	Fecha         time.Time       `gorm:"not null" json:"fecha"`
	Checklist     ChecklistVisita `gorm:"embedded" json:"checklist"`
	Observaciones string          `gorm:"type:text" json:"observaciones"`

	CreatedAt time.Time `json:"created_at"`
}

func (VisitaCampo) TableName() string {
	return "visitas_campo"
}
