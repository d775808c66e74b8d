package db

import (
	"fmt"
	"log"

	"github.com/rlepezi/av10dejulio-sub005/internal/app/model"
	"github.com/rlepezi/av10dejulio-sub005/internal/identity"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// SetupTestDB crea una base SQLite en memoria para las pruebas.
func SetupTestDB() (*gorm.DB, error) {
	testDB, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("no se pudo abrir la base de pruebas: %w", err)
	}

	err = testDB.AutoMigrate(
		&identity.Cuenta{},
		&model.Agente{},
		&model.Empresa{},
		&model.SolicitudEmpresa{},
		&model.VisitaCampo{},
		&model.UsuarioCredencial{},
	)
	if err != nil {
		return nil, fmt.Errorf("no se pudo migrar la base de pruebas: %w", err)
	}

	return testDB, nil
}

// CleanupTestDB cierra la base de pruebas.
func CleanupTestDB(testDB *gorm.DB) {
	sqlDB, err := testDB.DB()
	if err != nil {
		log.Printf("no se pudo obtener la conexión de pruebas: %v", err)
		return
	}
	sqlDB.Close()
}
