package db

import (
	"os"
	"time"

	"github.com/rlepezi/av10dejulio-sub005/internal/app/model"
	"github.com/rlepezi/av10dejulio-sub005/internal/identity"
	"github.com/rlepezi/av10dejulio-sub005/pkg/logger"
	"github.com/rlepezi/av10dejulio-sub005/pkg/util"

	"github.com/google/uuid"
)

// Migrate ejecuta las migraciones automáticas y siembra los datos mínimos.
func Migrate() error {
	logger.Info("Ejecutando migraciones de base de datos...")

	models := []interface{}{
		&identity.Cuenta{},
		&model.Agente{},
		&model.Empresa{},
		&model.SolicitudEmpresa{},
		&model.VisitaCampo{},
		&model.UsuarioCredencial{},
	}

	if err := DB.AutoMigrate(models...); err != nil {
		logger.Error("Fallaron las migraciones", err)
		return err
	}

	if err := seedAdminInicial(); err != nil {
		logger.Error("Falló la siembra del administrador inicial", err)
		return err
	}

	logger.Info("Migraciones completadas", map[string]interface{}{
		"models_count": len(models),
	})
	return nil
}

// seedAdminInicial garantiza que exista al menos una cuenta administradora.
// Sin ella nadie puede operar el panel ni crear agentes.
func seedAdminInicial() error {
	var count int64
	if err := DB.Model(&model.UsuarioCredencial{}).Where("rol = ?", model.RolAdmin).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	email := os.Getenv("ADMIN_EMAIL")
	if email == "" {
		email = "admin@av10dejulio.cl"
	}
	clave := os.Getenv("ADMIN_PASSWORD")
	if clave == "" {
		clave = util.GenerateTempPassword(12)
		logger.Warn("ADMIN_PASSWORD no definido, se generó una clave temporal", map[string]interface{}{
			"email":          email,
			"clave_temporal": clave,
		})
	}

	hash, err := util.HashPassword(clave)
	if err != nil {
		return err
	}

	uid := uuid.NewString()
	cuenta := identity.Cuenta{
		UID:       uid,
		Email:     email,
		ClaveHash: hash,
	}
	if err := DB.Create(&cuenta).Error; err != nil {
		return err
	}

	credencial := model.UsuarioCredencial{
		UID:             uid,
		Email:           email,
		Rol:             model.RolAdmin,
		FechaAsignacion: time.Now(),
	}
	if err := DB.Create(&credencial).Error; err != nil {
		return err
	}

	logger.Info("Cuenta administradora inicial creada", map[string]interface{}{
		"email": email,
		"uid":   uid,
	})
	return nil
}
