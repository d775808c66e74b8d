package service

import (
	"context"
	"errors"
	"time"

	"github.com/rlepezi/av10dejulio-sub005/internal/app/model"
	"github.com/rlepezi/av10dejulio-sub005/internal/app/repository"
	"github.com/rlepezi/av10dejulio-sub005/pkg/cache"
	"github.com/rlepezi/av10dejulio-sub005/pkg/logger"
	"gorm.io/gorm"
)

// Actor identifica a quien pide una operación sobre el ciclo de vida.
type Actor struct {
	UID      string
	Rol      model.Rol
	AgenteID *uint
}

// ResultadoVisita es el resultado de la visita de terreno que acompaña la
// transición a validada.
type ResultadoVisita struct {
	Checklist     model.ChecklistVisita `json:"checklist"`
	Observaciones string                `json:"observaciones"`
}

// LifecycleService gobierna el estado de las empresas. Es el único lugar
// del sistema que escribe la columna estado.
type LifecycleService interface {
	// RequestTransition mueve la empresa a destino. Primero autoriza al
	// actor, luego valida la arista contra la tabla de transiciones y
	// recién entonces escribe. Una transición de un estado a sí mismo es
	// legal y no escribe nada.
	RequestTransition(ctx context.Context, actor Actor, empresaID uint, destino model.Estado, visita *ResultadoVisita) (*model.Empresa, error)
	// PublicarConPerfil activa la empresa y marca el perfil público en la
	// misma transacción. Si la transición falla el perfil no cambia.
	PublicarConPerfil(ctx context.Context, actor Actor, empresaID uint) (*model.Empresa, error)
	// TransicionesDisponibles lista a qué estados puede moverse la
	// empresa, sin considerar permisos del actor.
	TransicionesDisponibles(empresaID uint) (model.Estado, []model.Estado, error)
}

type lifecycleService struct {
	db          *gorm.DB
	empresaRepo repository.EmpresaRepository
	agenteRepo  repository.AgenteRepository
	visitaRepo  repository.VisitaRepository
}

func NewLifecycleService(
	db *gorm.DB,
	empresaRepo repository.EmpresaRepository,
	agenteRepo repository.AgenteRepository,
	visitaRepo repository.VisitaRepository,
) LifecycleService {
	return &lifecycleService{
		db:          db,
		empresaRepo: empresaRepo,
		agenteRepo:  agenteRepo,
		visitaRepo:  visitaRepo,
	}
}

func (s *lifecycleService) RequestTransition(ctx context.Context, actor Actor, empresaID uint, destino model.Estado, visita *ResultadoVisita) (*model.Empresa, error) {
	logger.Info("Solicitando transición de estado", map[string]interface{}{
		"empresa_id": empresaID,
		"destino":    destino,
		"actor_uid":  actor.UID,
		"actor_rol":  actor.Rol,
	})

	if _, err := model.ParseEstado(string(destino)); err != nil {
		return nil, err
	}

	empresa, err := s.empresaRepo.FindByID(empresaID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrEmpresaNoEncontrada
		}
		return nil, err
	}

	// La autorización se evalúa antes que la legalidad de la arista: un
	// actor sin permiso recibe el rechazo de autorización aunque la
	// transición tampoco exista.
	if err := s.autorizar(actor, empresa, destino); err != nil {
		logger.Warn("Transición rechazada por autorización", map[string]interface{}{
			"empresa_id": empresaID,
			"destino":    destino,
			"actor_uid":  actor.UID,
			"motivo":     err.Error(),
		})
		return nil, err
	}

	origen := empresa.Estado

	if origen == destino {
		// Transición a sí mismo: legal, sin escritura ni visita.
		logger.Debug("Transición a sí mismo, sin cambios", map[string]interface{}{
			"empresa_id": empresaID,
			"estado":     origen,
		})
		return empresa, nil
	}

	if !model.PuedeTransicionar(origen, destino) {
		logger.Warn("Transición fuera de la tabla", map[string]interface{}{
			"empresa_id": empresaID,
			"de":         origen,
			"a":          destino,
		})
		return nil, &TransicionRechazadaError{De: origen, A: destino}
	}

	if destino == model.EstadoValidada {
		if visita == nil {
			return nil, ErrVisitaRequerida
		}
		if empresa.AgenteAsignadoID == nil {
			return nil, &AutorizacionRechazadaError{Motivo: "la empresa no tiene agente asignado para registrar la visita"}
		}
	}

	if err := s.aplicar(empresa, destino, actor, visita); err != nil {
		return nil, err
	}

	// Entrar o salir de activa cambia el directorio público.
	if origen == model.EstadoActiva || destino == model.EstadoActiva {
		cache.InvalidarListado(ctx)
	}

	logger.Info("Transición de estado aplicada", map[string]interface{}{
		"empresa_id": empresaID,
		"de":         origen,
		"a":          destino,
		"revision":   empresa.Revision,
	})
	return empresa, nil
}

// aplicar ejecuta la escritura de la transición en una transacción: cambio
// de estado con chequeo de revisión y, para validada, la visita de campo y
// la foto de validación sobre la empresa.
func (s *lifecycleService) aplicar(empresa *model.Empresa, destino model.Estado, actor Actor, visita *ResultadoVisita) error {
	revisionActual := empresa.Revision

	return s.db.Transaction(func(tx *gorm.DB) error {
		empresa.Estado = destino

		if destino == model.EstadoValidada {
			agente, err := s.agenteRepo.FindByID(tx, *empresa.AgenteAsignadoID)
			if err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return ErrAgenteNoEncontrado
				}
				return err
			}

			ahora := time.Now()
			registro := model.VisitaCampo{
				EmpresaID:     empresa.ID,
				AgenteID:      agente.ID,
				AgenteNombre:  agente.Nombre,
				Fecha:         ahora,
				Checklist:     visita.Checklist,
				Observaciones: visita.Observaciones,
			}
			if err := s.visitaRepo.Create(tx, &registro); err != nil {
				return err
			}

			empresa.ValidacionAgente = model.ValidacionAgente{
				AgenteID:      &agente.ID,
				AgenteNombre:  agente.Nombre,
				Fecha:         &ahora,
				Observaciones: visita.Observaciones,
			}
		}

		ok, err := s.empresaRepo.UpdateConRevision(tx, empresa, revisionActual)
		if err != nil {
			return err
		}
		if !ok {
			return ErrRevisionConflicto
		}
		return nil
	})
}

// autorizar decide si el actor puede pedir la transición. Los admin pueden
// siempre; los agentes sólo sobre sus empresas asignadas y con el permiso
// de activación cuando el destino es activa; los proveedores nunca.
func (s *lifecycleService) autorizar(actor Actor, empresa *model.Empresa, destino model.Estado) error {
	switch actor.Rol {
	case model.RolAdmin:
		return nil

	case model.RolAgente:
		if actor.AgenteID == nil {
			return &AutorizacionRechazadaError{Motivo: "el actor no tiene un agente asociado"}
		}

		agente, err := s.agenteRepo.FindByID(nil, *actor.AgenteID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrAgenteNoEncontrado
			}
			return err
		}
		if !agente.Activo {
			return ErrAgenteInactivo
		}
		if empresa.AgenteAsignadoID == nil || *empresa.AgenteAsignadoID != agente.ID {
			return &AutorizacionRechazadaError{Motivo: "la empresa no está asignada a este agente"}
		}
		if destino == model.EstadoActiva && !agente.Permisos.ActivarEmpresas {
			return &AutorizacionRechazadaError{Motivo: "el agente no tiene permiso para activar empresas"}
		}
		return nil

	default:
		return &AutorizacionRechazadaError{Motivo: "el rol no puede operar el ciclo de vida de empresas"}
	}
}

func (s *lifecycleService) PublicarConPerfil(ctx context.Context, actor Actor, empresaID uint) (*model.Empresa, error) {
	logger.Info("Publicando empresa con perfil", map[string]interface{}{
		"empresa_id": empresaID,
		"actor_uid":  actor.UID,
	})

	empresa, err := s.empresaRepo.FindByID(empresaID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrEmpresaNoEncontrada
		}
		return nil, err
	}

	if err := s.autorizar(actor, empresa, model.EstadoActiva); err != nil {
		return nil, err
	}

	if empresa.Estado != model.EstadoActiva {
		if !model.PuedeTransicionar(empresa.Estado, model.EstadoActiva) {
			return nil, &TransicionRechazadaError{De: empresa.Estado, A: model.EstadoActiva}
		}
	}

	revisionActual := empresa.Revision
	err = s.db.Transaction(func(tx *gorm.DB) error {
		empresa.Estado = model.EstadoActiva
		empresa.PerfilPublico = true

		ok, err := s.empresaRepo.UpdateConRevision(tx, empresa, revisionActual)
		if err != nil {
			return err
		}
		if !ok {
			return ErrRevisionConflicto
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	cache.InvalidarListado(ctx)

	logger.Info("Empresa publicada", map[string]interface{}{
		"empresa_id": empresaID,
	})
	return empresa, nil
}

func (s *lifecycleService) TransicionesDisponibles(empresaID uint) (model.Estado, []model.Estado, error) {
	empresa, err := s.empresaRepo.FindByID(empresaID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", nil, ErrEmpresaNoEncontrada
		}
		return "", nil, err
	}
	return empresa.Estado, model.TransicionesDesde(empresa.Estado), nil
}
