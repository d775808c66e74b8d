package model

import (
	"time"
)

// Rol es el rol de una credencial de acceso.
type Rol string

const (
	RolAdmin     Rol = "admin"
	RolAgente    Rol = "agente"
	RolProveedor Rol = "proveedor"
)

// PermisosAgente son las capacidades de un agente de terreno. Activar una
// empresa exige el permiso aun cuando la transición sea legal.
//
// Sin tags default: con ellos gorm omite los false en el INSERT y el
// default de la columna los pisa. Lo que se asigna es lo que se guarda.
type PermisosAgente struct {
	ActivarEmpresas  bool `gorm:"column:perm_activar_empresas" json:"activar_empresas"`
	EditarEmpresas   bool `gorm:"column:perm_editar_empresas" json:"editar_empresas"`
	CrearSolicitudes bool `gorm:"column:perm_crear_solicitudes" json:"crear_solicitudes"`
}

// Agente es un agente de terreno que visita y valida empresas en persona.
type Agente struct {
	ID           uint           `gorm:"primarykey" json:"id"`
	UID          string         `gorm:"uniqueIndex;not null" json:"uid"` // cuenta en el proveedor de identidad
	Nombre       string         `gorm:"not null" json:"nombre"`
	Email        string         `gorm:"uniqueIndex;not null" json:"email"`
	Telefono     string         `gorm:"type:varchar(30)" json:"telefono"`
	ZonaAsignada string         `gorm:"index" json:"zona_asignada"`
	Activo       bool           `gorm:"index" json:"activo"`
	Permisos     PermisosAgente `gorm:"embedded" json:"permisos"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Agente) TableName() string {
	return "agentes"
}
