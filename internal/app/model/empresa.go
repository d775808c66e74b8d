package model

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"time"

	"github.com/rlepezi/av10dejulio-sub005/pkg/horario"
)

// StringArray persiste []string como JSON (servicios, marcas, categorías,
// galería).
type StringArray []string

// Value implementa driver.Valuer
func (s StringArray) Value() (driver.Value, error) {
	if s == nil {
		return nil, nil
	}
	return json.Marshal(s)
}

// Scan implementa sql.Scanner
func (s *StringArray) Scan(value interface{}) error {
	if value == nil {
		*s = nil
		return nil
	}

	switch v := value.(type) {
	case []byte:
		return json.Unmarshal(v, s)
	case string:
		return json.Unmarshal([]byte(v), s)
	default:
		return errors.New("failed to scan StringArray")
	}
}

// Representante es el contacto responsable declarado por la empresa.
type Representante struct {
	Nombre    string `gorm:"column:rep_nombre" json:"nombre"`
	Apellidos string `gorm:"column:rep_apellidos" json:"apellidos"`
	Email     string `gorm:"column:rep_email" json:"email"`
	Telefono  string `gorm:"column:rep_telefono" json:"telefono"`
	Cargo     string `gorm:"column:rep_cargo" json:"cargo"`
	Cedula    string `gorm:"column:rep_cedula" json:"cedula"`
}

// ValidacionAgente es la foto de la última visita de validación, copiada
// sobre la empresa para lecturas sin join (el historial completo vive en
// visitas_campo).
type ValidacionAgente struct {
	AgenteID      *uint      `gorm:"column:val_agente_id" json:"agente_id,omitempty"`
	AgenteNombre  string     `gorm:"column:val_agente_nombre" json:"agente_nombre,omitempty"`
	Fecha         *time.Time `gorm:"column:val_fecha" json:"fecha,omitempty"`
	Observaciones string     `gorm:"column:val_observaciones;type:text" json:"observaciones,omitempty"`
}

// UsuarioEmpresa es el vínculo de login vigente de la empresa, escrito por
// la emisión de credenciales.
type UsuarioEmpresa struct {
	Email           string     `gorm:"column:ue_email" json:"email,omitempty"`
	UID             string     `gorm:"column:ue_uid" json:"uid,omitempty"`
	FechaAsignacion *time.Time `gorm:"column:ue_fecha_asignacion" json:"fecha_asignacion,omitempty"`
}

type Empresa struct {
	ID          uint   `gorm:"primarykey" json:"id"`
	Nombre      string `gorm:"not null;index" json:"nombre"`
	Rut         string `gorm:"uniqueIndex;default:null" json:"rut,omitempty"`
	TipoEmpresa string `gorm:"type:varchar(50)" json:"tipo_empresa"` // taller, vulcanización, repuestos, ...
	Direccion   string `gorm:"type:text" json:"direccion"`
	Comuna      string `gorm:"index" json:"comuna"`
	Telefono    string `gorm:"type:varchar(30)" json:"telefono"`
	Email       string `json:"email"`
	Web         string `json:"web"`
	Descripcion string `gorm:"type:text" json:"descripcion"`

	// Estado del ciclo de vida; sólo lo escribe el LifecycleService.
	Estado Estado `gorm:"type:varchar(30);not null;index" json:"estado"`

	Servicios  StringArray `gorm:"type:text" json:"servicios"`
	Marcas     StringArray `gorm:"type:text" json:"marcas"`
	Categorias StringArray `gorm:"type:text" json:"categorias"` // categorías de vehículo

	// Horario canónico estructurado; el texto de visualización se deriva
	// en lectura con horario.Serialize y no se persiste.
	Horario horario.Horario `gorm:"type:text" json:"horario,omitempty"`

	LogoURL string      `json:"logo_url"`
	Galeria StringArray `gorm:"type:text" json:"galeria"`

	Representante Representante `gorm:"embedded" json:"representante"`

	AgenteAsignadoID *uint   `gorm:"index" json:"agente_asignado_id,omitempty"`
	AgenteAsignado   *Agente `gorm:"foreignKey:AgenteAsignadoID" json:"agente_asignado,omitempty"`

	ValidacionAgente ValidacionAgente `gorm:"embedded" json:"validacion_agente"`

	PerfilPublico         bool           `gorm:"default:false" json:"perfil_publico"`
	CredencialesGeneradas bool           `gorm:"default:false" json:"credenciales_generadas"`
	UsuarioEmpresa        UsuarioEmpresa `gorm:"embedded" json:"usuario_empresa"`
	UIDAuth               string         `gorm:"column:uid_auth;index" json:"uid_auth,omitempty"`

	NotasAdmin string `gorm:"type:text" json:"notas_admin,omitempty"`

	// Revision es el contador de concurrencia optimista: toda escritura lo
	// verifica e incrementa; una escritura contra una revisión obsoleta se
	// rechaza.
	Revision uint `gorm:"not null;default:1" json:"revision"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Empresa) TableName() string {
	return "empresas"
}

// HorarioAtencion deriva el texto de visualización del horario canónico.
func (e *Empresa) HorarioAtencion() string {
	if e.Horario == nil {
		return ""
	}
	return horario.Serialize(e.Horario)
}
