package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/rlepezi/av10dejulio-sub005/config"
	"github.com/rlepezi/av10dejulio-sub005/internal/app/controller"
	"github.com/rlepezi/av10dejulio-sub005/internal/app/repository"
	"github.com/rlepezi/av10dejulio-sub005/internal/app/service"
	"github.com/rlepezi/av10dejulio-sub005/internal/db"
	"github.com/rlepezi/av10dejulio-sub005/internal/identity"
	"github.com/rlepezi/av10dejulio-sub005/internal/middleware"
	"github.com/rlepezi/av10dejulio-sub005/internal/router"
	"github.com/rlepezi/av10dejulio-sub005/internal/scheduler"
	"github.com/rlepezi/av10dejulio-sub005/internal/storage"
	"github.com/rlepezi/av10dejulio-sub005/pkg/cache"
	"github.com/rlepezi/av10dejulio-sub005/pkg/logger"
)

func main() {
	// Cargar configuración
	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("No se pudo cargar la configuración", err)
	}

	// Inicializar logger
	logLevel := "info"
	if cfg.Server.Environment == "development" {
		logLevel = "debug"
	}
	logger.Initialize(logger.Config{
		Level:       logLevel,
		Format:      "console", // Usar "json" en producción
		EnableColor: true,
	})

	logger.Info("Iniciando AV10 de Julio Backend", map[string]interface{}{
		"environment": cfg.Server.Environment,
		"port":        cfg.Server.Port,
		"log_level":   logLevel,
	})

	// Inicializar base de datos
	if err := db.Initialize(&cfg.Database); err != nil {
		logger.Fatal("No se pudo inicializar la base de datos", err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			logger.Error("No se pudo cerrar la conexión a la base de datos", err)
		}
	}()

	// Ejecutar migraciones (incluye siembra del admin inicial)
	if err := db.Migrate(); err != nil {
		logger.Fatal("Fallaron las migraciones", err)
	}

	// El caché es opcional: sin Redis el listado público se sirve
	// directamente desde la base de datos.
	if err := cache.Init(&cfg.Redis); err != nil {
		logger.Warn("Redis no disponible, listado público sin caché", map[string]interface{}{
			"error": err.Error(),
		})
	} else {
		defer cache.Close()
	}

	// Proveedor de identidad
	proveedor := identity.NewProvider(db.GetDB())

	// Repositorios
	empresaRepo := repository.NewEmpresaRepository(db.GetDB())
	agenteRepo := repository.NewAgenteRepository(db.GetDB())
	solicitudRepo := repository.NewSolicitudRepository(db.GetDB())
	visitaRepo := repository.NewVisitaRepository(db.GetDB())
	credencialRepo := repository.NewCredencialRepository(db.GetDB())

	// Servicios
	authService := service.NewAuthService(proveedor, credencialRepo, agenteRepo, &cfg.JWT)
	empresaService := service.NewEmpresaService(empresaRepo, agenteRepo, visitaRepo)
	lifecycleService := service.NewLifecycleService(db.GetDB(), empresaRepo, agenteRepo, visitaRepo)
	solicitudService := service.NewSolicitudService(db.GetDB(), solicitudRepo, empresaRepo, agenteRepo)
	credencialService := service.NewCredencialService(db.GetDB(), proveedor, empresaRepo, credencialRepo)
	agenteService := service.NewAgenteService(proveedor, agenteRepo, credencialRepo)
	exportService := service.NewExportService(empresaRepo, agenteRepo)

	// Reconciliación nocturna de cuentas huérfanas
	reconciliationScheduler := scheduler.NewReconciliationScheduler(credencialService)
	if err := reconciliationScheduler.Start(); err != nil {
		logger.Fatal("No se pudo iniciar el scheduler de reconciliación", err)
	}
	defer reconciliationScheduler.Stop()

	// Almacenamiento S3 para logos y galería
	s3Storage := storage.NewS3Storage(
		cfg.S3.Region,
		cfg.S3.Bucket,
		cfg.S3.AccessKeyID,
		cfg.S3.SecretAccessKey,
		cfg.S3.BaseURL,
	)

	// Controladores
	authController := controller.NewAuthController(authService)
	publicoController := controller.NewPublicoController(empresaService)
	empresaController := controller.NewEmpresaController(empresaService, lifecycleService, credencialService, exportService)
	agenteController := controller.NewAgenteController(agenteService, empresaService, solicitudService, lifecycleService)
	solicitudController := controller.NewSolicitudController(solicitudService)
	proveedorController := controller.NewProveedorController(empresaService)
	uploadController := controller.NewUploadController(s3Storage)

	// Middleware
	authMiddleware := middleware.NewAuthMiddleware(cfg.JWT.Secret)

	// Router
	r := router.NewRouter(
		authController,
		publicoController,
		empresaController,
		agenteController,
		solicitudController,
		proveedorController,
		uploadController,
		authMiddleware,
		cfg,
	)
	engine := r.Setup()

	// Levantar el servidor en una goroutine
	go func() {
		addr := fmt.Sprintf(":%s", cfg.Server.Port)
		logger.Info("Servidor iniciado", map[string]interface{}{
			"address": addr,
			"pid":     os.Getpid(),
		})
		if err := engine.Run(addr); err != nil {
			logger.Fatal("No se pudo iniciar el servidor", err)
		}
	}()

	// Esperar señal de interrupción para apagar ordenadamente
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Apagando el servidor...")
	logger.Info("Servidor detenido")
}
