package errors

// Códigos de error estables que el frontend mapea a mensajes.
// Formato: CATEGORIA_DETALLE

const (
	// ==================== Autenticación (AUTH_) ====================
	AuthUnauthorized       = "AUTH_UNAUTHORIZED"        // login requerido
	AuthInvalidCredentials = "AUTH_INVALID_CREDENTIALS" // email/clave incorrectos
	AuthTokenExpired       = "AUTH_TOKEN_EXPIRED"       // token expirado
	AuthTokenInvalid       = "AUTH_TOKEN_INVALID"       // token inválido
	AuthEmailAlreadyExists = "AUTH_EMAIL_EXISTS"        // email ya registrado

	// ==================== Autorización (AUTHZ_) ====================
	AuthzForbidden    = "AUTHZ_FORBIDDEN"      // sin acceso
	AuthzAccessDenied = "AUTHZ_ACCESS_DENIED"  // sin permiso para la operación
	AuthzRoleNotFound = "AUTHZ_ROLE_NOT_FOUND" // rol no resuelto
	AuthzAdminOnly    = "AUTHZ_ADMIN_ONLY"     // sólo administradores
	AuthzNotAssigned  = "AUTHZ_NOT_ASSIGNED"   // el agente no tiene asignada la empresa

	// ==================== Validación (VALIDACION_) ====================
	ValidacionEntradaInvalida = "VALIDACION_ENTRADA_INVALIDA"
	ValidacionIDInvalido      = "VALIDACION_ID_INVALIDO"
	ValidacionEstadoInvalido  = "VALIDACION_ESTADO_INVALIDO" // valor fuera del enum de estados
	ValidacionHorarioInvalido = "VALIDACION_HORARIO_INVALIDO"
	ValidacionClaveCorta      = "VALIDACION_CLAVE_CORTA"
	ValidacionClaveNoCoincide = "VALIDACION_CLAVE_NO_COINCIDE"

	// ==================== Recursos (RECURSO_) ====================
	RecursoNoEncontrado = "RECURSO_NO_ENCONTRADO"
	RecursoYaExiste     = "RECURSO_YA_EXISTE"
	RecursoConflicto    = "RECURSO_CONFLICTO"

	// ==================== Empresas (EMPRESA_) ====================
	EmpresaNoEncontrada       = "EMPRESA_NO_ENCONTRADA"
	EmpresaTransicionInvalida = "EMPRESA_TRANSICION_INVALIDA" // arista fuera de la tabla
	EmpresaRevisionObsoleta   = "EMPRESA_REVISION_OBSOLETA"   // conflicto de edición concurrente
	EmpresaAgenteInactivo     = "EMPRESA_AGENTE_INACTIVO"

	// ==================== Agentes (AGENTE_) ====================
	AgenteNoEncontrado = "AGENTE_NO_ENCONTRADO"

	// ==================== Solicitudes (SOLICITUD_) ====================
	SolicitudNoEncontrada = "SOLICITUD_NO_ENCONTRADA"
	SolicitudYaPromovida  = "SOLICITUD_YA_PROMOVIDA"

	// ==================== Credenciales (CREDENCIAL_) ====================
	CredencialEmailEnUso         = "CREDENCIAL_EMAIL_EN_USO"
	CredencialAplicacionParcial  = "CREDENCIAL_APLICACION_PARCIAL" // cuenta creada pero vínculo incompleto
	CredencialDependenciaExterna = "CREDENCIAL_DEPENDENCIA_EXTERNA"

	// ==================== Interno (INTERNO_) ====================
	InternoServidor           = "INTERNO_SERVIDOR"
	InternoDependenciaExterna = "INTERNO_DEPENDENCIA_EXTERNA"
)
