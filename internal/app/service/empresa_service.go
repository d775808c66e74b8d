package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/rlepezi/av10dejulio-sub005/internal/app/model"
	"github.com/rlepezi/av10dejulio-sub005/internal/app/repository"
	"github.com/rlepezi/av10dejulio-sub005/pkg/cache"
	"github.com/rlepezi/av10dejulio-sub005/pkg/horario"
	"github.com/rlepezi/av10dejulio-sub005/pkg/logger"
	"gorm.io/gorm"
)

// EmpresaInput son los campos editables del perfil de una empresa. El
// estado no está aquí: sólo lo mueve el LifecycleService.
type EmpresaInput struct {
	Nombre        string              `json:"nombre" binding:"required"`
	Rut           string              `json:"rut"`
	TipoEmpresa   string              `json:"tipo_empresa"`
	Direccion     string              `json:"direccion"`
	Comuna        string              `json:"comuna"`
	Telefono      string              `json:"telefono"`
	Email         string              `json:"email"`
	Web           string              `json:"web"`
	Descripcion   string              `json:"descripcion"`
	Servicios     []string            `json:"servicios"`
	Marcas        []string            `json:"marcas"`
	Categorias    []string            `json:"categorias"`
	Horario       horario.Horario     `json:"horario"`
	LogoURL       string              `json:"logo_url"`
	Galeria       []string            `json:"galeria"`
	Representante model.Representante `json:"representante"`
	NotasAdmin    string              `json:"notas_admin"`
}

// EmpresaPublica es la vista del directorio público. El horario viaja como
// texto derivado del horario canónico.
type EmpresaPublica struct {
	ID              uint     `json:"id"`
	Nombre          string   `json:"nombre"`
	TipoEmpresa     string   `json:"tipo_empresa"`
	Direccion       string   `json:"direccion"`
	Comuna          string   `json:"comuna"`
	Telefono        string   `json:"telefono"`
	Email           string   `json:"email"`
	Web             string   `json:"web"`
	Descripcion     string   `json:"descripcion"`
	Servicios       []string `json:"servicios"`
	Marcas          []string `json:"marcas"`
	Categorias      []string `json:"categorias"`
	HorarioAtencion string   `json:"horario_atencion"`
	LogoURL         string   `json:"logo_url"`
	Galeria         []string `json:"galeria"`
}

type EmpresaService interface {
	Crear(input EmpresaInput) (*model.Empresa, error)
	// Actualizar aplica los campos editables verificando la revisión que
	// el cliente leyó. Un conflicto devuelve ErrRevisionConflicto.
	Actualizar(ctx context.Context, empresaID uint, revision uint, input EmpresaInput) (*model.Empresa, error)
	GetByID(empresaID uint) (*model.Empresa, error)
	ListAdmin(filter repository.EmpresaFilter) ([]model.Empresa, int64, error)
	ListPublicas(ctx context.Context, filter repository.PublicFilter) ([]EmpresaPublica, error)
	ListByAgente(agenteID uint) ([]model.Empresa, error)
	AsignarAgente(ctx context.Context, empresaID, agenteID uint) (*model.Empresa, error)
	AplicarPresetHorario(ctx context.Context, empresaID uint, revision uint, etiqueta string) (*model.Empresa, error)
	Completitud(empresaID uint) (*Completitud, error)
	Visitas(empresaID uint) ([]model.VisitaCampo, error)
	ResumenPorEstado() (map[model.Estado]int64, error)
}

type empresaService struct {
	empresaRepo repository.EmpresaRepository
	agenteRepo  repository.AgenteRepository
	visitaRepo  repository.VisitaRepository
}

func NewEmpresaService(
	empresaRepo repository.EmpresaRepository,
	agenteRepo repository.AgenteRepository,
	visitaRepo repository.VisitaRepository,
) EmpresaService {
	return &empresaService{
		empresaRepo: empresaRepo,
		agenteRepo:  agenteRepo,
		visitaRepo:  visitaRepo,
	}
}

func (s *empresaService) Crear(input EmpresaInput) (*model.Empresa, error) {
	logger.Info("Creando empresa", map[string]interface{}{
		"nombre": input.Nombre,
		"comuna": input.Comuna,
	})

	if input.Horario != nil {
		if err := input.Horario.Validar(); err != nil {
			logger.Warn("Horario inválido al crear empresa", map[string]interface{}{
				"nombre": input.Nombre,
				"error":  err.Error(),
			})
			return nil, fmt.Errorf("%w: %v", ErrHorarioInvalido, err)
		}
	}

	empresa := &model.Empresa{
		Estado:   model.EstadoCatalogada,
		Revision: 1,
	}
	aplicarInput(empresa, input)

	if err := s.empresaRepo.Create(empresa); err != nil {
		return nil, err
	}

	logger.Info("Empresa creada", map[string]interface{}{
		"empresa_id": empresa.ID,
		"estado":     empresa.Estado,
	})
	return empresa, nil
}

func (s *empresaService) Actualizar(ctx context.Context, empresaID uint, revision uint, input EmpresaInput) (*model.Empresa, error) {
	logger.Info("Actualizando empresa", map[string]interface{}{
		"empresa_id": empresaID,
		"revision":   revision,
	})

	if input.Horario != nil {
		if err := input.Horario.Validar(); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrHorarioInvalido, err)
		}
	}

	empresa, err := s.empresaRepo.FindByID(empresaID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrEmpresaNoEncontrada
		}
		return nil, err
	}

	aplicarInput(empresa, input)

	ok, err := s.empresaRepo.UpdateConRevision(nil, empresa, revision)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrRevisionConflicto
	}

	// Una empresa activa en el directorio cambió su perfil visible.
	if empresa.Estado == model.EstadoActiva {
		cache.InvalidarListado(ctx)
	}

	return empresa, nil
}

func (s *empresaService) GetByID(empresaID uint) (*model.Empresa, error) {
	empresa, err := s.empresaRepo.FindByID(empresaID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrEmpresaNoEncontrada
		}
		return nil, err
	}
	return empresa, nil
}

func (s *empresaService) ListAdmin(filter repository.EmpresaFilter) ([]model.Empresa, int64, error) {
	return s.empresaRepo.FindAll(filter)
}

func (s *empresaService) ListPublicas(ctx context.Context, filter repository.PublicFilter) ([]EmpresaPublica, error) {
	clave := claveListado(filter)

	var cacheadas []EmpresaPublica
	if cache.GetListado(ctx, clave, &cacheadas) {
		logger.Debug("Listado público servido desde caché", map[string]interface{}{
			"clave": clave,
			"count": len(cacheadas),
		})
		return cacheadas, nil
	}

	empresas, err := s.empresaRepo.FindPublicas(filter)
	if err != nil {
		return nil, err
	}

	publicas := make([]EmpresaPublica, 0, len(empresas))
	for i := range empresas {
		publicas = append(publicas, aVistaPublica(&empresas[i]))
	}

	cache.SetListado(ctx, clave, publicas)

	logger.Info("Listado público generado", map[string]interface{}{
		"count":  len(publicas),
		"comuna": filter.Comuna,
	})
	return publicas, nil
}

func (s *empresaService) ListByAgente(agenteID uint) ([]model.Empresa, error) {
	return s.empresaRepo.FindByAgente(agenteID)
}

func (s *empresaService) AsignarAgente(ctx context.Context, empresaID, agenteID uint) (*model.Empresa, error) {
	logger.Info("Asignando agente a empresa", map[string]interface{}{
		"empresa_id": empresaID,
		"agente_id":  agenteID,
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

	empresa, err := s.empresaRepo.FindByID(empresaID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrEmpresaNoEncontrada
		}
		return nil, err
	}

	empresa.AgenteAsignadoID = &agente.ID
	empresa.AgenteAsignado = agente

	ok, err := s.empresaRepo.UpdateConRevision(nil, empresa, empresa.Revision)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrRevisionConflicto
	}

	logger.Info("Agente asignado", map[string]interface{}{
		"empresa_id": empresaID,
		"agente_id":  agenteID,
	})
	return empresa, nil
}

func (s *empresaService) AplicarPresetHorario(ctx context.Context, empresaID uint, revision uint, etiqueta string) (*model.Empresa, error) {
	preset, ok := horario.Preset(etiqueta)
	if !ok {
		return nil, fmt.Errorf("%w: preset desconocido %q", ErrHorarioInvalido, etiqueta)
	}

	empresa, err := s.empresaRepo.FindByID(empresaID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrEmpresaNoEncontrada
		}
		return nil, err
	}

	empresa.Horario = preset

	okUpd, err := s.empresaRepo.UpdateConRevision(nil, empresa, revision)
	if err != nil {
		return nil, err
	}
	if !okUpd {
		return nil, ErrRevisionConflicto
	}

	if empresa.Estado == model.EstadoActiva {
		cache.InvalidarListado(ctx)
	}

	logger.Info("Preset de horario aplicado", map[string]interface{}{
		"empresa_id": empresaID,
		"preset":     etiqueta,
	})
	return empresa, nil
}

func (s *empresaService) Completitud(empresaID uint) (*Completitud, error) {
	empresa, err := s.empresaRepo.FindByID(empresaID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrEmpresaNoEncontrada
		}
		return nil, err
	}

	resultado := CalcularCompletitud(empresa)
	return &resultado, nil
}

func (s *empresaService) Visitas(empresaID uint) ([]model.VisitaCampo, error) {
	if _, err := s.empresaRepo.FindByID(empresaID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrEmpresaNoEncontrada
		}
		return nil, err
	}
	return s.visitaRepo.FindByEmpresa(empresaID)
}

func (s *empresaService) ResumenPorEstado() (map[model.Estado]int64, error) {
	return s.empresaRepo.CountByEstado()
}

func aplicarInput(empresa *model.Empresa, input EmpresaInput) {
	empresa.Nombre = input.Nombre
	empresa.Rut = input.Rut
	empresa.TipoEmpresa = input.TipoEmpresa
	empresa.Direccion = input.Direccion
	empresa.Comuna = input.Comuna
	empresa.Telefono = input.Telefono
	empresa.Email = input.Email
	empresa.Web = input.Web
	empresa.Descripcion = input.Descripcion
	empresa.Servicios = input.Servicios
	empresa.Marcas = input.Marcas
	empresa.Categorias = input.Categorias
	empresa.LogoURL = input.LogoURL
	empresa.Galeria = input.Galeria
	empresa.Representante = input.Representante
	empresa.NotasAdmin = input.NotasAdmin

	if input.Horario != nil {
		empresa.Horario = input.Horario
	}
}

func aVistaPublica(empresa *model.Empresa) EmpresaPublica {
	return EmpresaPublica{
		ID:              empresa.ID,
		Nombre:          empresa.Nombre,
		TipoEmpresa:     empresa.TipoEmpresa,
		Direccion:       empresa.Direccion,
		Comuna:          empresa.Comuna,
		Telefono:        empresa.Telefono,
		Email:           empresa.Email,
		Web:             empresa.Web,
		Descripcion:     empresa.Descripcion,
		Servicios:       empresa.Servicios,
		Marcas:          empresa.Marcas,
		Categorias:      empresa.Categorias,
		HorarioAtencion: empresa.HorarioAtencion(),
		LogoURL:         empresa.LogoURL,
		Galeria:         empresa.Galeria,
	}
}

func claveListado(filter repository.PublicFilter) string {
	return fmt.Sprintf("c=%s|t=%s|cat=%s|q=%s",
		filter.Comuna, filter.TipoEmpresa, filter.Categoria, filter.Busqueda)
}
