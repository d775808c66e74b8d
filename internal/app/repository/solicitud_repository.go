package repository

import (
	"github.com/rlepezi/av10dejulio-sub005/internal/app/model"
	"github.com/rlepezi/av10dejulio-sub005/pkg/logger"
	"gorm.io/gorm"
)

type SolicitudRepository interface {
	Create(solicitud *model.SolicitudEmpresa) error
	FindByID(id uint) (*model.SolicitudEmpresa, error)
	FindAll(estado string) ([]model.SolicitudEmpresa, error)
	FindByAgente(agenteID uint) ([]model.SolicitudEmpresa, error)
	// MarcarPromovida cambia el estado y liga la empresa creada, dentro de
	// la transacción de la promoción.
	MarcarPromovida(tx *gorm.DB, solicitudID, empresaID uint) error
	MarcarDescartada(solicitudID uint, motivo string) error
}

type solicitudRepository struct {
	db *gorm.DB
}

func NewSolicitudRepository(db *gorm.DB) SolicitudRepository {
	return &solicitudRepository{db: db}
}

func (r *solicitudRepository) Create(solicitud *model.SolicitudEmpresa) error {
	logger.Debug("Creando solicitud de empresa", map[string]interface{}{
		"nombre":    solicitud.Nombre,
		"agente_id": solicitud.AgenteID,
	})

	if err := r.db.Create(solicitud).Error; err != nil {
		logger.Error("No se pudo crear la solicitud", err, map[string]interface{}{
			"nombre": solicitud.Nombre,
		})
		return err
	}
	return nil
}

func (r *solicitudRepository) FindByID(id uint) (*model.SolicitudEmpresa, error) {
	var solicitud model.SolicitudEmpresa
	if err := r.db.First(&solicitud, id).Error; err != nil {
		return nil, err
	}
	return &solicitud, nil
}

func (r *solicitudRepository) FindAll(estado string) ([]model.SolicitudEmpresa, error) {
	query := r.db.Model(&model.SolicitudEmpresa{})
	if estado != "" {
		query = query.Where("estado = ?", estado)
	}

	var solicitudes []model.SolicitudEmpresa
	if err := query.Order("created_at DESC").Find(&solicitudes).Error; err != nil {
		return nil, err
	}
	return solicitudes, nil
}

func (r *solicitudRepository) FindByAgente(agenteID uint) ([]model.SolicitudEmpresa, error) {
	var solicitudes []model.SolicitudEmpresa
	err := r.db.Where("agente_id = ?", agenteID).
		Order("created_at DESC").
		Find(&solicitudes).Error
	if err != nil {
		return nil, err
	}
	return solicitudes, nil
}

func (r *solicitudRepository) MarcarPromovida(tx *gorm.DB, solicitudID, empresaID uint) error {
	if tx == nil {
		tx = r.db
	}
	return tx.Model(&model.SolicitudEmpresa{}).
		Where("id = ?", solicitudID).
		Updates(map[string]interface{}{
			"estado":     model.SolicitudPromovida,
			"empresa_id": empresaID,
		}).Error
}

func (r *solicitudRepository) MarcarDescartada(solicitudID uint, motivo string) error {
	return r.db.Model(&model.SolicitudEmpresa{}).
		Where("id = ?", solicitudID).
		Updates(map[string]interface{}{
			"estado":      model.SolicitudDescartada,
			"observacion": motivo,
		}).Error
}
