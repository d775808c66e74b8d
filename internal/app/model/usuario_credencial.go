package model

import (
	"time"
)

// UsuarioCredencial liga una cuenta del proveedor de identidad a un rol y,
// para el rol proveedor, a exactamente una empresa. Es la tabla que
// consulta el login para resolver qué puede hacer un uid.
type UsuarioCredencial struct {
	UID   string `gorm:"primarykey" json:"uid"`
	Email string `gorm:"not null;index" json:"email"`
	Rol   Rol    `gorm:"type:varchar(20);not null" json:"rol"`

	// EmpresaID sólo viene presente para el rol proveedor; el índice único
	// garantiza que una empresa no tenga más de un vínculo vigente.
	EmpresaID *uint `gorm:"uniqueIndex;default:null" json:"empresa_id,omitempty"`

	FechaAsignacion time.Time `json:"fecha_asignacion"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

func (UsuarioCredencial) TableName() string {
	return "usuarios_credencial"
}
