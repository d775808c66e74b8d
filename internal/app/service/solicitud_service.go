package service

import (
	"errors"

	"github.com/rlepezi/av10dejulio-sub005/internal/app/model"
	"github.com/rlepezi/av10dejulio-sub005/internal/app/repository"
	"github.com/rlepezi/av10dejulio-sub005/pkg/logger"
	"gorm.io/gorm"
)

// SolicitudInput son los datos de captación que el agente levanta en
// terreno.
type SolicitudInput struct {
	Nombre      string `json:"nombre" binding:"required"`
	TipoEmpresa string `json:"tipo_empresa"`
	Direccion   string `json:"direccion"`
	Comuna      string `json:"comuna"`
	Telefono    string `json:"telefono"`
	Email       string `json:"email"`
	Observacion string `json:"observacion"`
}

// SolicitudService maneja las solicitudes de empresa levantadas por los
// agentes antes de que exista la Empresa.
type SolicitudService interface {
	// Crear registra una solicitud a nombre del agente. Exige el permiso
	// de creación de solicitudes y que el agente esté activo.
	Crear(agenteID uint, input SolicitudInput) (*model.SolicitudEmpresa, error)
	// Promover convierte la solicitud en una Empresa en estado
	// pendiente_validacion, con el agente captador ya asignado. Una
	// solicitud se promueve una sola vez.
	Promover(solicitudID uint) (*model.Empresa, error)
	Descartar(solicitudID uint, motivo string) error
	GetByID(solicitudID uint) (*model.SolicitudEmpresa, error)
	List(estado string) ([]model.SolicitudEmpresa, error)
	ListByAgente(agenteID uint) ([]model.SolicitudEmpresa, error)
}

type solicitudService struct {
	db            *gorm.DB
	solicitudRepo repository.SolicitudRepository
	empresaRepo   repository.EmpresaRepository
	agenteRepo    repository.AgenteRepository
}

func NewSolicitudService(
	db *gorm.DB,
	solicitudRepo repository.SolicitudRepository,
	empresaRepo repository.EmpresaRepository,
	agenteRepo repository.AgenteRepository,
) SolicitudService {
	return &solicitudService{
		db:            db,
		solicitudRepo: solicitudRepo,
		empresaRepo:   empresaRepo,
		agenteRepo:    agenteRepo,
	}
}

func (s *solicitudService) Crear(agenteID uint, input SolicitudInput) (*model.SolicitudEmpresa, error) {
	logger.Info("Creando solicitud de empresa", map[string]interface{}{
		"agente_id": agenteID,
		"nombre":    input.Nombre,
	})

	agente, err := s.agenteRepo.FindByID(nil, agenteID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAgenteNoEncontrado
		}
		return nil, err
	}
	if !agente.Activo {
		return nil, ErrAgenteInactivo
	}
	if !agente.Permisos.CrearSolicitudes {
		return nil, &AutorizacionRechazadaError{Motivo: "el agente no tiene permiso para crear solicitudes"}
	}

	solicitud := &model.SolicitudEmpresa{
		Nombre:       input.Nombre,
		TipoEmpresa:  input.TipoEmpresa,
		Direccion:    input.Direccion,
		Comuna:       input.Comuna,
		Telefono:     input.Telefono,
		Email:        input.Email,
		Observacion:  input.Observacion,
		AgenteID:     agente.ID,
		AgenteNombre: agente.Nombre,
		Estado:       model.SolicitudPendiente,
	}
	if err := s.solicitudRepo.Create(solicitud); err != nil {
		return nil, err
	}

	logger.Info("Solicitud creada", map[string]interface{}{
		"solicitud_id": solicitud.ID,
		"agente_id":    agenteID,
	})
	return solicitud, nil
}

func (s *solicitudService) Promover(solicitudID uint) (*model.Empresa, error) {
	logger.Info("Promoviendo solicitud a empresa", map[string]interface{}{
		"solicitud_id": solicitudID,
	})

	solicitud, err := s.solicitudRepo.FindByID(solicitudID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSolicitudNoEncontrada
		}
		return nil, err
	}
	if solicitud.Estado != model.SolicitudPendiente {
		logger.Warn("Intento de promover una solicitud no pendiente", map[string]interface{}{
			"solicitud_id": solicitudID,
			"estado":       solicitud.Estado,
		})
		return nil, ErrSolicitudYaPromovida
	}

	// La empresa nace con el agente captador ya asignado: él hará la
	// visita de validación.
	empresa := &model.Empresa{
		Nombre:           solicitud.Nombre,
		TipoEmpresa:      solicitud.TipoEmpresa,
		Direccion:        solicitud.Direccion,
		Comuna:           solicitud.Comuna,
		Telefono:         solicitud.Telefono,
		Email:            solicitud.Email,
		Estado:           model.EstadoPendienteValidacion,
		AgenteAsignadoID: &solicitud.AgenteID,
		Revision:         1,
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(empresa).Error; err != nil {
			return err
		}
		return s.solicitudRepo.MarcarPromovida(tx, solicitud.ID, empresa.ID)
	})
	if err != nil {
		logger.Error("No se pudo promover la solicitud", err, map[string]interface{}{
			"solicitud_id": solicitudID,
		})
		return nil, err
	}

	logger.Info("Solicitud promovida", map[string]interface{}{
		"solicitud_id": solicitudID,
		"empresa_id":   empresa.ID,
	})
	return empresa, nil
}

func (s *solicitudService) Descartar(solicitudID uint, motivo string) error {
	solicitud, err := s.solicitudRepo.FindByID(solicitudID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrSolicitudNoEncontrada
		}
		return err
	}
	if solicitud.Estado != model.SolicitudPendiente {
		return ErrSolicitudYaPromovida
	}

	if err := s.solicitudRepo.MarcarDescartada(solicitudID, motivo); err != nil {
		return err
	}

	logger.Info("Solicitud descartada", map[string]interface{}{
		"solicitud_id": solicitudID,
	})
	return nil
}

func (s *solicitudService) GetByID(solicitudID uint) (*model.SolicitudEmpresa, error) {
	solicitud, err := s.solicitudRepo.FindByID(solicitudID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSolicitudNoEncontrada
		}
		return nil, err
	}
	return solicitud, nil
}

func (s *solicitudService) List(estado string) ([]model.SolicitudEmpresa, error) {
	return s.solicitudRepo.FindAll(estado)
}

func (s *solicitudService) ListByAgente(agenteID uint) ([]model.SolicitudEmpresa, error) {
	return s.solicitudRepo.FindByAgente(agenteID)
}
