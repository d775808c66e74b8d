package model

import (
	"time"
)

// Estados de una solicitud de empresa levantada en terreno.
const (
	SolicitudPendiente  = "pendiente"
	SolicitudPromovida  = "promovida"
	SolicitudDescartada = "descartada"
)

// SolicitudEmpresa es el registro de captación que un agente crea en
// terreno antes de que exista la Empresa. Al aceptarse se promueve a
// Empresa y no vuelve a mutarse.
type SolicitudEmpresa struct {
	ID uint `gorm:"primarykey" json:"id"`

	Nombre      string `gorm:"not null" json:"nombre"`
	TipoEmpresa string `gorm:"type:varchar(50)" json:"tipo_empresa"`
	Direccion   string `gorm:"type:text" json:"direccion"`
	Comuna      string `json:"comuna"`
	Telefono    string `gorm:"type:varchar(30)" json:"telefono"`
	Email       string `json:"email"`
	Observacion string `gorm:"type:text" json:"observacion"`

	AgenteID uint `gorm:"not null;index" json:"agente_id"`
	// Nombre del agente copiado al crear: las listas de solicitudes se
	// leen sin join contra agentes.
	AgenteNombre string `json:"agente_nombre"`

	Estado string `gorm:"type:varchar(20);default:'pendiente';index" json:"estado"`

	// EmpresaID se fija al promover; después de eso el registro es sólo
	// de lectura.
	EmpresaID *uint `gorm:"index" json:"empresa_id,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (SolicitudEmpresa) TableName() string {
	return "solicitudes_empresa"
}
