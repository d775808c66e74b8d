package repository

import (
	"github.com/rlepezi/av10dejulio-sub005/internal/app/model"
	"github.com/rlepezi/av10dejulio-sub005/pkg/logger"
	"gorm.io/gorm"
)

type AgenteRepository interface {
	Create(agente *model.Agente) error
	Update(agente *model.Agente) error
	// FindByID lee dentro de la transacción cuando tx no es nil, para que
	// las lecturas que acompañan una escritura transaccional vean el mismo
	// snapshot.
	FindByID(tx *gorm.DB, id uint) (*model.Agente, error)
	FindByUID(uid string) (*model.Agente, error)
	FindAll(soloActivos bool) ([]model.Agente, error)
}

type agenteRepository struct {
	db *gorm.DB
}

func NewAgenteRepository(db *gorm.DB) AgenteRepository {
	return &agenteRepository{db: db}
}

func (r *agenteRepository) Create(agente *model.Agente) error {
	logger.Debug("Creando agente", map[string]interface{}{
		"nombre": agente.Nombre,
		"email":  agente.Email,
		"zona":   agente.ZonaAsignada,
	})

	if err := r.db.Create(agente).Error; err != nil {
		logger.Error("No se pudo crear el agente", err, map[string]interface{}{
			"email": agente.Email,
		})
		return err
	}
	return nil
}

func (r *agenteRepository) Update(agente *model.Agente) error {
	if err := r.db.Save(agente).Error; err != nil {
		logger.Error("No se pudo actualizar el agente", err, map[string]interface{}{
			"agente_id": agente.ID,
		})
		return err
	}
	return nil
}

func (r *agenteRepository) FindByID(tx *gorm.DB, id uint) (*model.Agente, error) {
	if tx == nil {
		tx = r.db
	}

	var agente model.Agente
	if err := tx.First(&agente, id).Error; err != nil {
		return nil, err
	}
	return &agente, nil
}

func (r *agenteRepository) FindByUID(uid string) (*model.Agente, error) {
	var agente model.Agente
	if err := r.db.Where("uid = ?", uid).First(&agente).Error; err != nil {
		return nil, err
	}
	return &agente, nil
}

func (r *agenteRepository) FindAll(soloActivos bool) ([]model.Agente, error) {
	query := r.db.Model(&model.Agente{})
	if soloActivos {
		query = query.Where("activo = ?", true)
	}

	var agentes []model.Agente
	if err := query.Order("nombre ASC").Find(&agentes).Error; err != nil {
		return nil, err
	}
	return agentes, nil
}
