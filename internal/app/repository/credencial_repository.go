package repository

import (
	"errors"

	"github.com/rlepezi/av10dejulio-sub005/internal/app/model"
	"github.com/rlepezi/av10dejulio-sub005/pkg/logger"
	"gorm.io/gorm"
)

type CredencialRepository interface {
	Create(credencial *model.UsuarioCredencial) error
	FindByUID(uid string) (*model.UsuarioCredencial, error)
	FindByEmpresa(empresaID uint) (*model.UsuarioCredencial, error)
	FindAll() ([]model.UsuarioCredencial, error)
	// ReplaceForEmpresa elimina el vínculo vigente de la empresa (si hay)
	// y crea el nuevo, en una sola transacción. La cuenta anterior queda
	// huérfana en el proveedor de identidad; nunca se elimina desde aquí.
	ReplaceForEmpresa(tx *gorm.DB, empresaID uint, credencial *model.UsuarioCredencial) error
	ExistsUID(uid string) (bool, error)
}

type credencialRepository struct {
	db *gorm.DB
}

func NewCredencialRepository(db *gorm.DB) CredencialRepository {
	return &credencialRepository{db: db}
}

func (r *credencialRepository) Create(credencial *model.UsuarioCredencial) error {
	logger.Debug("Creando credencial de usuario", map[string]interface{}{
		"uid": credencial.UID,
		"rol": credencial.Rol,
	})

	if err := r.db.Create(credencial).Error; err != nil {
		logger.Error("No se pudo crear la credencial", err, map[string]interface{}{
			"uid": credencial.UID,
		})
		return err
	}
	return nil
}

func (r *credencialRepository) FindByUID(uid string) (*model.UsuarioCredencial, error) {
	var credencial model.UsuarioCredencial
	if err := r.db.Where("uid = ?", uid).First(&credencial).Error; err != nil {
		return nil, err
	}
	return &credencial, nil
}

func (r *credencialRepository) FindByEmpresa(empresaID uint) (*model.UsuarioCredencial, error) {
	var credencial model.UsuarioCredencial
	if err := r.db.Where("empresa_id = ?", empresaID).First(&credencial).Error; err != nil {
		return nil, err
	}
	return &credencial, nil
}

func (r *credencialRepository) FindAll() ([]model.UsuarioCredencial, error) {
	var credenciales []model.UsuarioCredencial
	if err := r.db.Find(&credenciales).Error; err != nil {
		return nil, err
	}
	return credenciales, nil
}

func (r *credencialRepository) ReplaceForEmpresa(tx *gorm.DB, empresaID uint, credencial *model.UsuarioCredencial) error {
	reemplazar := func(tx *gorm.DB) error {
		err := tx.Where("empresa_id = ?", empresaID).Delete(&model.UsuarioCredencial{}).Error
		if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}
		return tx.Create(credencial).Error
	}

	// Sin transacción externa, el borrado y la creación se envuelven en una
	// propia: la empresa nunca queda sin vínculo por una falla a medias.
	if tx == nil {
		return r.db.Transaction(reemplazar)
	}
	return reemplazar(tx)
}

func (r *credencialRepository) ExistsUID(uid string) (bool, error) {
	var count int64
	err := r.db.Model(&model.UsuarioCredencial{}).Where("uid = ?", uid).Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}
