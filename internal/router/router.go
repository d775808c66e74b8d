package router

import (
	"github.com/gin-gonic/gin"
	"github.com/rlepezi/av10dejulio-sub005/config"
	"github.com/rlepezi/av10dejulio-sub005/internal/app/controller"
	"github.com/rlepezi/av10dejulio-sub005/internal/app/model"
	"github.com/rlepezi/av10dejulio-sub005/internal/middleware"
)

type Router struct {
	authController      *controller.AuthController
	publicoController   *controller.PublicoController
	empresaController   *controller.EmpresaController
	agenteController    *controller.AgenteController
	solicitudController *controller.SolicitudController
	proveedorController *controller.ProveedorController
	uploadController    *controller.UploadController
	authMiddleware      *middleware.AuthMiddleware
	config              *config.Config
}

func NewRouter(
	authController *controller.AuthController,
	publicoController *controller.PublicoController,
	empresaController *controller.EmpresaController,
	agenteController *controller.AgenteController,
	solicitudController *controller.SolicitudController,
	proveedorController *controller.ProveedorController,
	uploadController *controller.UploadController,
	authMiddleware *middleware.AuthMiddleware,
	cfg *config.Config,
) *Router {
	return &Router{
		authController:      authController,
		publicoController:   publicoController,
		empresaController:   empresaController,
		agenteController:    agenteController,
		solicitudController: solicitudController,
		proveedorController: proveedorController,
		uploadController:    uploadController,
		authMiddleware:      authMiddleware,
		config:              cfg,
	}
}

func (r *Router) Setup() *gin.Engine {
	gin.SetMode(r.config.Server.GinMode)

	router := gin.New()

	router.Use(gin.Recovery())
	router.Use(middleware.LoggingMiddleware())
	router.Use(corsMiddleware(r.config.CORS.AllowedOrigins))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "healthy",
			"message": "AV10 de Julio API en servicio",
		})
	})

	v1 := router.Group("/api/v1")
	{
		auth := v1.Group("/auth")
		{
			auth.POST("/login", r.authController.Login)
			auth.POST("/refresh", r.authController.Refresh)
			auth.GET("/me", r.authMiddleware.Authenticate(), r.authController.Me)
			auth.POST("/cambiar-clave", r.authMiddleware.Authenticate(), r.authController.CambiarClave)
		}

		// Directorio público, sin autenticación.
		empresas := v1.Group("/empresas")
		{
			empresas.GET("", r.publicoController.ListEmpresas)
			empresas.GET("/:id", r.publicoController.GetEmpresa)
		}
		v1.GET("/horarios/presets", r.publicoController.PresetsHorario)

		// Panel de administración.
		admin := v1.Group("/admin",
			r.authMiddleware.Authenticate(),
			r.authMiddleware.RequireRol(model.RolAdmin),
		)
		{
			admin.GET("/resumen", r.empresaController.Resumen)
			admin.POST("/reconciliacion", r.empresaController.Reconciliar)

			adminEmpresas := admin.Group("/empresas")
			{
				adminEmpresas.POST("", r.empresaController.Crear)
				adminEmpresas.GET("", r.empresaController.List)
				adminEmpresas.GET("/export", r.empresaController.Exportar)
				adminEmpresas.GET("/:id", r.empresaController.Get)
				adminEmpresas.PUT("/:id", r.empresaController.Actualizar)
				adminEmpresas.POST("/:id/transicion", r.empresaController.Transicion)
				adminEmpresas.GET("/:id/transiciones", r.empresaController.Transiciones)
				adminEmpresas.POST("/:id/publicar", r.empresaController.Publicar)
				adminEmpresas.POST("/:id/agente", r.empresaController.AsignarAgente)
				adminEmpresas.POST("/:id/credenciales", r.empresaController.EmitirCredenciales)
				adminEmpresas.GET("/:id/completitud", r.empresaController.Completitud)
				adminEmpresas.GET("/:id/visitas", r.empresaController.Visitas)
				adminEmpresas.PUT("/:id/horario/preset", r.empresaController.AplicarPresetHorario)
				adminEmpresas.POST("/:id/uploads", r.uploadController.PresignEmpresa)
			}

			adminAgentes := admin.Group("/agentes")
			{
				adminAgentes.POST("", r.agenteController.Crear)
				adminAgentes.GET("", r.agenteController.List)
				adminAgentes.GET("/:id", r.agenteController.Get)
				adminAgentes.PUT("/:id", r.agenteController.Actualizar)
				adminAgentes.PUT("/:id/activo", r.agenteController.SetActivo)
			}

			adminSolicitudes := admin.Group("/solicitudes")
			{
				adminSolicitudes.GET("", r.solicitudController.List)
				adminSolicitudes.GET("/:id", r.solicitudController.Get)
				adminSolicitudes.POST("/:id/promover", r.solicitudController.Promover)
				adminSolicitudes.POST("/:id/descartar", r.solicitudController.Descartar)
			}
		}

		// Panel de terreno del agente.
		agente := v1.Group("/agente",
			r.authMiddleware.Authenticate(),
			r.authMiddleware.RequireRol(model.RolAgente),
		)
		{
			agente.GET("/empresas", r.agenteController.MisEmpresas)
			agente.POST("/empresas/:id/transicion", r.agenteController.Transicion)
			agente.GET("/solicitudes", r.agenteController.MisSolicitudes)
			agente.POST("/solicitudes", r.agenteController.CrearSolicitud)
		}

		// Autogestión del proveedor.
		proveedor := v1.Group("/proveedor",
			r.authMiddleware.Authenticate(),
			r.authMiddleware.RequireRol(model.RolProveedor),
		)
		{
			proveedor.GET("/empresa", r.proveedorController.MiEmpresa)
			proveedor.PUT("/empresa", r.proveedorController.ActualizarMiEmpresa)
			proveedor.GET("/empresa/completitud", r.proveedorController.MiCompletitud)
			proveedor.PUT("/empresa/horario/preset", r.proveedorController.MiHorarioPreset)
			proveedor.POST("/empresa/uploads", r.uploadController.PresignMiEmpresa)
		}
	}

	return router
}

func corsMiddleware(allowedOrigins []string) gin.HandlerFunc {
	return func(c *gin.Context) {
		origin := c.GetHeader("Origin")

		allowed := false
		for _, allowedOrigin := range allowedOrigins {
			if origin == allowedOrigin || allowedOrigin == "*" {
				allowed = true
				break
			}
		}

		if allowed {
			c.Writer.Header().Set("Access-Control-Allow-Origin", origin)
		}

		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, Authorization, accept, origin, Cache-Control, X-Requested-With")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET, PUT, DELETE, PATCH")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	}
}
