package service

import (
	"errors"
	"time"

	"github.com/rlepezi/av10dejulio-sub005/internal/app/model"
	"github.com/rlepezi/av10dejulio-sub005/internal/app/repository"
	"github.com/rlepezi/av10dejulio-sub005/internal/identity"
	"github.com/rlepezi/av10dejulio-sub005/pkg/logger"
	"github.com/rlepezi/av10dejulio-sub005/pkg/util"
	"gorm.io/gorm"
)

// AgenteInput son los datos para crear o actualizar un agente de terreno.
type AgenteInput struct {
	Nombre       string               `json:"nombre" binding:"required"`
	Email        string               `json:"email" binding:"required,email"`
	Telefono     string               `json:"telefono"`
	ZonaAsignada string               `json:"zona_asignada"`
	Permisos     model.PermisosAgente `json:"permisos"`
	Clave        string               `json:"clave"`
}

// AgenteCreado devuelve el agente y, si la clave fue generada, la clave
// temporal que el admin debe entregar por un canal seguro.
type AgenteCreado struct {
	Agente        *model.Agente `json:"agente"`
	ClaveTemporal string        `json:"clave_temporal,omitempty"`
}

// AgenteService administra los agentes de terreno. Crear un agente implica
// también su cuenta de identidad y su credencial con rol agente.
type AgenteService interface {
	Crear(input AgenteInput) (*AgenteCreado, error)
	Actualizar(agenteID uint, input AgenteInput) (*model.Agente, error)
	SetActivo(agenteID uint, activo bool) (*model.Agente, error)
	GetByID(agenteID uint) (*model.Agente, error)
	GetByUID(uid string) (*model.Agente, error)
	List(soloActivos bool) ([]model.Agente, error)
}

type agenteService struct {
	proveedor      identity.Provider
	agenteRepo     repository.AgenteRepository
	credencialRepo repository.CredencialRepository
}

func NewAgenteService(
	proveedor identity.Provider,
	agenteRepo repository.AgenteRepository,
	credencialRepo repository.CredencialRepository,
) AgenteService {
	return &agenteService{
		proveedor:      proveedor,
		agenteRepo:     agenteRepo,
		credencialRepo: credencialRepo,
	}
}

func (s *agenteService) Crear(input AgenteInput) (*AgenteCreado, error) {
	logger.Info("Creando agente de terreno", map[string]interface{}{
		"nombre": input.Nombre,
		"email":  input.Email,
		"zona":   input.ZonaAsignada,
	})

	clave := input.Clave
	claveGenerada := ""
	if clave == "" {
		clave = util.GenerateTempPassword(10)
		claveGenerada = clave
	}
	if len(clave) < 6 {
		return nil, ErrClaveCorta
	}

	uid, err := s.proveedor.CreateAccount(input.Email, clave)
	if err != nil {
		if errors.Is(err, identity.ErrEmailEnUso) {
			return nil, err
		}
		return nil, &DependenciaExternaError{Servicio: "identidad", Err: err}
	}

	credencial := model.UsuarioCredencial{
		UID:             uid,
		Email:           input.Email,
		Rol:             model.RolAgente,
		FechaAsignacion: time.Now(),
	}
	if err := s.credencialRepo.Create(&credencial); err != nil {
		return nil, &AplicacionParcialWarning{
			UID:            uid,
			Email:          input.Email,
			PasoIncompleto: "credencial_agente",
			Err:            err,
		}
	}

	agente := &model.Agente{
		UID:          uid,
		Nombre:       input.Nombre,
		Email:        input.Email,
		Telefono:     input.Telefono,
		ZonaAsignada: input.ZonaAsignada,
		Activo:       true,
		Permisos:     input.Permisos,
	}
	if err := s.agenteRepo.Create(agente); err != nil {
		return nil, &AplicacionParcialWarning{
			UID:            uid,
			Email:          input.Email,
			PasoIncompleto: "registro_agente",
			Err:            err,
		}
	}

	logger.Info("Agente creado", map[string]interface{}{
		"agente_id": agente.ID,
		"uid":       uid,
	})

	return &AgenteCreado{Agente: agente, ClaveTemporal: claveGenerada}, nil
}

func (s *agenteService) Actualizar(agenteID uint, input AgenteInput) (*model.Agente, error) {
	agente, err := s.agenteRepo.FindByID(nil, agenteID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAgenteNoEncontrado
		}
		return nil, err
	}

	agente.Nombre = input.Nombre
	agente.Telefono = input.Telefono
	agente.ZonaAsignada = input.ZonaAsignada
	agente.Permisos = input.Permisos

	if err := s.agenteRepo.Update(agente); err != nil {
		return nil, err
	}

	logger.Info("Agente actualizado", map[string]interface{}{
		"agente_id": agenteID,
	})
	return agente, nil
}

func (s *agenteService) SetActivo(agenteID uint, activo bool) (*model.Agente, error) {
	agente, err := s.agenteRepo.FindByID(nil, agenteID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAgenteNoEncontrado
		}
		return nil, err
	}

	agente.Activo = activo
	if err := s.agenteRepo.Update(agente); err != nil {
		return nil, err
	}

	logger.Info("Estado de agente cambiado", map[string]interface{}{
		"agente_id": agenteID,
		"activo":    activo,
	})
	return agente, nil
}

func (s *agenteService) GetByID(agenteID uint) (*model.Agente, error) {
	agente, err := s.agenteRepo.FindByID(nil, agenteID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAgenteNoEncontrado
		}
		return nil, err
	}
	return agente, nil
}

func (s *agenteService) GetByUID(uid string) (*model.Agente, error) {
	agente, err := s.agenteRepo.FindByUID(uid)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAgenteNoEncontrado
		}
		return nil, err
	}
	return agente, nil
}

func (s *agenteService) List(soloActivos bool) ([]model.Agente, error) {
	return s.agenteRepo.FindAll(soloActivos)
}
