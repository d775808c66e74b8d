// Package identity administra las cuentas de acceso de la plataforma.
// Se modela como un proveedor externo: el resto del sistema sólo conoce
// la interfaz Provider y los UID opacos que entrega.
package identity

import (
	"errors"
	"strings"
	"time"

	"github.com/rlepezi/av10dejulio-sub005/pkg/logger"
	"github.com/rlepezi/av10dejulio-sub005/pkg/util"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

var (
	// ErrEmailEnUso indica que ya existe una cuenta con ese correo.
	ErrEmailEnUso = errors.New("el correo ya está registrado en el proveedor de identidad")
	// ErrCredencialesInvalidas indica correo o clave incorrectos.
	ErrCredencialesInvalidas = errors.New("correo o clave incorrectos")
)

// Cuenta es el registro de autenticación. Vive en su propia tabla para
// remarcar que las cuentas sobreviven a las empresas que las usan: una
// cuenta huérfana nunca se elimina automáticamente.
type Cuenta struct {
	UID       string    `gorm:"primaryKey;size:64" json:"uid"`
	Email     string    `gorm:"uniqueIndex;size:255;not null" json:"email"`
	ClaveHash string    `gorm:"size:255;not null" json:"-"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Cuenta) TableName() string {
	return "cuentas_identidad"
}

// Provider define las operaciones del proveedor de identidad.
type Provider interface {
	// CreateAccount registra una cuenta nueva y devuelve su UID.
	// Devuelve ErrEmailEnUso si el correo ya existe.
	CreateAccount(email, clave string) (string, error)
	// Authenticate valida correo y clave.
	Authenticate(email, clave string) (*Cuenta, error)
	// FindByUID busca una cuenta por su identificador.
	FindByUID(uid string) (*Cuenta, error)
	// ListAccounts devuelve todas las cuentas registradas. Se usa en la
	// reconciliación de cuentas huérfanas.
	ListAccounts() ([]Cuenta, error)
	// UpdatePassword reemplaza la clave de una cuenta existente.
	UpdatePassword(uid, claveNueva string) error
}

type gormProvider struct {
	db *gorm.DB
}

// NewProvider construye un Provider respaldado por la base de datos.
func NewProvider(db *gorm.DB) Provider {
	return &gormProvider{db: db}
}

func (p *gormProvider) CreateAccount(email, clave string) (string, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	logger.Info("Creando cuenta de identidad", map[string]interface{}{
		"email": email,
	})

	var existente Cuenta
	err := p.db.Where("email = ?", email).First(&existente).Error
	if err == nil {
		logger.Warn("Intento de crear cuenta con correo ya registrado", map[string]interface{}{
			"email": email,
		})
		return "", ErrEmailEnUso
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return "", err
	}

	hash, err := util.HashPassword(clave)
	if err != nil {
		logger.Error("No se pudo calcular el hash de la clave", err)
		return "", err
	}

	cuenta := Cuenta{
		UID:       uuid.NewString(),
		Email:     email,
		ClaveHash: hash,
	}
	if err := p.db.Create(&cuenta).Error; err != nil {
		logger.Error("No se pudo crear la cuenta de identidad", err, map[string]interface{}{
			"email": email,
		})
		return "", err
	}

	logger.Info("Cuenta de identidad creada", map[string]interface{}{
		"email": email,
		"uid":   cuenta.UID,
	})
	return cuenta.UID, nil
}

func (p *gormProvider) Authenticate(email, clave string) (*Cuenta, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	var cuenta Cuenta
	if err := p.db.Where("email = ?", email).First(&cuenta).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCredencialesInvalidas
		}
		return nil, err
	}

	if !util.VerifyPassword(cuenta.ClaveHash, clave) {
		logger.Warn("Autenticación fallida", map[string]interface{}{
			"email": email,
		})
		return nil, ErrCredencialesInvalidas
	}

	return &cuenta, nil
}

func (p *gormProvider) FindByUID(uid string) (*Cuenta, error) {
	var cuenta Cuenta
	if err := p.db.Where("uid = ?", uid).First(&cuenta).Error; err != nil {
		return nil, err
	}
	return &cuenta, nil
}

func (p *gormProvider) ListAccounts() ([]Cuenta, error) {
	var cuentas []Cuenta
	if err := p.db.Find(&cuentas).Error; err != nil {
		return nil, err
	}
	return cuentas, nil
}

func (p *gormProvider) UpdatePassword(uid, claveNueva string) error {
	hash, err := util.HashPassword(claveNueva)
	if err != nil {
		return err
	}
	return p.db.Model(&Cuenta{}).Where("uid = ?", uid).Update("clave_hash", hash).Error
}
