package repository

import (
	"github.com/rlepezi/av10dejulio-sub005/internal/app/model"
	"github.com/rlepezi/av10dejulio-sub005/pkg/logger"
	"gorm.io/gorm"
)

// VisitaRepository maneja el historial de visitas de campo. No expone
// Update ni Delete: las visitas son registros de auditoría.
type VisitaRepository interface {
	Create(tx *gorm.DB, visita *model.VisitaCampo) error
	FindByEmpresa(empresaID uint) ([]model.VisitaCampo, error)
	FindByAgente(agenteID uint) ([]model.VisitaCampo, error)
}

type visitaRepository struct {
	db *gorm.DB
}

func NewVisitaRepository(db *gorm.DB) VisitaRepository {
	return &visitaRepository{db: db}
}

func (r *visitaRepository) Create(tx *gorm.DB, visita *model.VisitaCampo) error {
	if tx == nil {
		tx = r.db
	}

	if err := tx.Create(visita).Error; err != nil {
		logger.Error("No se pudo registrar la visita de campo", err, map[string]interface{}{
			"empresa_id": visita.EmpresaID,
			"agente_id":  visita.AgenteID,
		})
		return err
	}

	logger.Debug("Visita de campo registrada", map[string]interface{}{
		"visita_id":  visita.ID,
		"empresa_id": visita.EmpresaID,
	})
	return nil
}

func (r *visitaRepository) FindByEmpresa(empresaID uint) ([]model.VisitaCampo, error) {
	var visitas []model.VisitaCampo
	err := r.db.Where("empresa_id = ?", empresaID).
		Order("fecha DESC").
		Find(&visitas).Error
	if err != nil {
		return nil, err
	}
	return visitas, nil
}

func (r *visitaRepository) FindByAgente(agenteID uint) ([]model.VisitaCampo, error) {
	var visitas []model.VisitaCampo
	err := r.db.Where("agente_id = ?", agenteID).
		Order("fecha DESC").
		Find(&visitas).Error
	if err != nil {
		return nil, err
	}
	return visitas, nil
}
