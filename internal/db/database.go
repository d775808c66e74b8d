package db

import (
	"fmt"

	"github.com/rlepezi/av10dejulio-sub005/config"
	appLogger "github.com/rlepezi/av10dejulio-sub005/pkg/logger"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var DB *gorm.DB

// Initialize abre la conexión a Postgres y configura el pool.
func Initialize(cfg *config.DatabaseConfig) error {
	dsn := cfg.DSN()

	appLogger.Info("Conectando a la base de datos", map[string]interface{}{
		"host":     cfg.Host,
		"port":     cfg.Port,
		"database": cfg.DBName,
		"user":     cfg.User,
	})

	var err error
	DB, err = gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent), // el logging pasa por pkg/logger
	})
	if err != nil {
		return fmt.Errorf("no se pudo conectar a la base de datos: %w", err)
	}

	sqlDB, err := DB.DB()
	if err != nil {
		return fmt.Errorf("no se pudo obtener la conexión subyacente: %w", err)
	}

	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetMaxOpenConns(100)

	appLogger.Info("Conexión a la base de datos establecida", map[string]interface{}{
		"max_idle_conns": 10,
		"max_open_conns": 100,
	})
	return nil
}

// Close cierra la conexión a la base de datos.
func Close() error {
	sqlDB, err := DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// GetDB entrega la instancia de GORM.
func GetDB() *gorm.DB {
	return DB
}
