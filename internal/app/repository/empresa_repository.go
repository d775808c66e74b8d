package repository

import (
	"github.com/rlepezi/av10dejulio-sub005/internal/app/model"
	"github.com/rlepezi/av10dejulio-sub005/pkg/logger"
	"gorm.io/gorm"
)

// EmpresaFilter filtra el listado administrado de empresas.
type EmpresaFilter struct {
	Estado      string
	Comuna      string
	TipoEmpresa string
	AgenteID    *uint
	Busqueda    string
	Page        int
	PageSize    int
}

// PublicFilter filtra el directorio público. Sólo ve empresas activas con
// perfil público.
type PublicFilter struct {
	Comuna      string
	TipoEmpresa string
	Categoria   string
	Busqueda    string
}

type EmpresaRepository interface {
	Create(empresa *model.Empresa) error
	BulkCreate(empresas []model.Empresa, batchSize int) error
	FindByID(id uint) (*model.Empresa, error)
	FindAll(filter EmpresaFilter) ([]model.Empresa, int64, error)
	FindPublicas(filter PublicFilter) ([]model.Empresa, error)
	FindByAgente(agenteID uint) ([]model.Empresa, error)
	FindByEstado(estado model.Estado) ([]model.Empresa, error)
	// UpdateConRevision persiste la empresa sólo si la fila aún está en la
	// revisión esperada, e incrementa el contador en la misma escritura.
	// Devuelve false (sin error) cuando la revisión ya cambió.
	UpdateConRevision(tx *gorm.DB, empresa *model.Empresa, revisionEsperada uint) (bool, error)
	CountByEstado() (map[model.Estado]int64, error)
}

type empresaRepository struct {
	db *gorm.DB
}

func NewEmpresaRepository(db *gorm.DB) EmpresaRepository {
	return &empresaRepository{db: db}
}

func (r *empresaRepository) Create(empresa *model.Empresa) error {
	logger.Debug("Creando empresa", map[string]interface{}{
		"nombre": empresa.Nombre,
		"comuna": empresa.Comuna,
		"estado": empresa.Estado,
	})

	if err := r.db.Create(empresa).Error; err != nil {
		logger.Error("No se pudo crear la empresa", err, map[string]interface{}{
			"nombre": empresa.Nombre,
		})
		return err
	}

	logger.Debug("Empresa creada", map[string]interface{}{
		"empresa_id": empresa.ID,
		"nombre":     empresa.Nombre,
	})
	return nil
}

// BulkCreate inserta empresas en lotes; lo usa la importación masiva del
// catastro.
func (r *empresaRepository) BulkCreate(empresas []model.Empresa, batchSize int) error {
	logger.Info("Importación masiva de empresas", map[string]interface{}{
		"total":      len(empresas),
		"batch_size": batchSize,
	})

	if err := r.db.CreateInBatches(empresas, batchSize).Error; err != nil {
		logger.Error("Falló la importación masiva", err)
		return err
	}
	return nil
}

func (r *empresaRepository) FindByID(id uint) (*model.Empresa, error) {
	var empresa model.Empresa
	if err := r.db.Preload("AgenteAsignado").First(&empresa, id).Error; err != nil {
		return nil, err
	}
	return &empresa, nil
}

func (r *empresaRepository) FindAll(filter EmpresaFilter) ([]model.Empresa, int64, error) {
	logger.Debug("Buscando empresas", map[string]interface{}{
		"estado":   filter.Estado,
		"comuna":   filter.Comuna,
		"busqueda": filter.Busqueda,
		"page":     filter.Page,
	})

	query := r.db.Model(&model.Empresa{})

	if filter.Estado != "" {
		query = query.Where("estado = ?", filter.Estado)
	}
	if filter.Comuna != "" {
		query = query.Where("comuna = ?", filter.Comuna)
	}
	if filter.TipoEmpresa != "" {
		query = query.Where("tipo_empresa = ?", filter.TipoEmpresa)
	}
	if filter.AgenteID != nil {
		query = query.Where("agente_asignado_id = ?", *filter.AgenteID)
	}
	if filter.Busqueda != "" {
		patron := "%" + filter.Busqueda + "%"
		query = query.Where("nombre LIKE ? OR direccion LIKE ?", patron, patron)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if filter.Page > 0 && filter.PageSize > 0 {
		query = query.Offset((filter.Page - 1) * filter.PageSize).Limit(filter.PageSize)
	}

	var empresas []model.Empresa
	if err := query.Order("created_at DESC").Find(&empresas).Error; err != nil {
		return nil, 0, err
	}
	return empresas, total, nil
}

func (r *empresaRepository) FindPublicas(filter PublicFilter) ([]model.Empresa, error) {
	query := r.db.Model(&model.Empresa{}).
		Where("estado = ?", model.EstadoActiva).
		Where("perfil_publico = ?", true)

	if filter.Comuna != "" {
		query = query.Where("comuna = ?", filter.Comuna)
	}
	if filter.TipoEmpresa != "" {
		query = query.Where("tipo_empresa = ?", filter.TipoEmpresa)
	}
	if filter.Categoria != "" {
		query = query.Where("categorias LIKE ?", "%\""+filter.Categoria+"\"%")
	}
	if filter.Busqueda != "" {
		patron := "%" + filter.Busqueda + "%"
		query = query.Where("nombre LIKE ? OR descripcion LIKE ?", patron, patron)
	}

	var empresas []model.Empresa
	if err := query.Order("nombre ASC").Find(&empresas).Error; err != nil {
		return nil, err
	}
	return empresas, nil
}

func (r *empresaRepository) FindByAgente(agenteID uint) ([]model.Empresa, error) {
	var empresas []model.Empresa
	err := r.db.Where("agente_asignado_id = ?", agenteID).
		Order("updated_at DESC").
		Find(&empresas).Error
	if err != nil {
		return nil, err
	}
	return empresas, nil
}

func (r *empresaRepository) FindByEstado(estado model.Estado) ([]model.Empresa, error) {
	var empresas []model.Empresa
	if err := r.db.Where("estado = ?", estado).Find(&empresas).Error; err != nil {
		return nil, err
	}
	return empresas, nil
}

func (r *empresaRepository) UpdateConRevision(tx *gorm.DB, empresa *model.Empresa, revisionEsperada uint) (bool, error) {
	if tx == nil {
		tx = r.db
	}

	empresa.Revision = revisionEsperada + 1
	result := tx.Model(&model.Empresa{}).
		Where("id = ? AND revision = ?", empresa.ID, revisionEsperada).
		Select("*").
		Omit("id", "created_at").
		Updates(empresa)
	if result.Error != nil {
		logger.Error("No se pudo actualizar la empresa", result.Error, map[string]interface{}{
			"empresa_id": empresa.ID,
			"revision":   revisionEsperada,
		})
		return false, result.Error
	}
	if result.RowsAffected == 0 {
		logger.Warn("Actualización rechazada por revisión obsoleta", map[string]interface{}{
			"empresa_id":         empresa.ID,
			"revision_esperada":  revisionEsperada,
		})
		return false, nil
	}
	return true, nil
}

func (r *empresaRepository) CountByEstado() (map[model.Estado]int64, error) {
	type fila struct {
		Estado model.Estado
		Total  int64
	}
	var filas []fila
	err := r.db.Model(&model.Empresa{}).
		Select("estado, COUNT(*) as total").
		Group("estado").
		Scan(&filas).Error
	if err != nil {
		return nil, err
	}

	conteo := make(map[model.Estado]int64, len(filas))
	for _, f := range filas {
		conteo[f.Estado] = f.Total
	}
	return conteo, nil
}
