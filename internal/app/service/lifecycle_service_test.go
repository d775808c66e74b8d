package service

import (
	"context"
	"errors"
	"testing"

	"github.com/rlepezi/av10dejulio-sub005/internal/app/model"
	"github.com/rlepezi/av10dejulio-sub005/internal/app/repository"
	"github.com/rlepezi/av10dejulio-sub005/internal/db"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func setupLifecycleTest(t *testing.T) (LifecycleService, *gorm.DB, *model.Agente, *model.Empresa) {
	testDB, err := db.SetupTestDB()
	require.NoError(t, err)
	t.Cleanup(func() {
		db.CleanupTestDB(testDB)
	})

	empresaRepo := repository.NewEmpresaRepository(testDB)
	agenteRepo := repository.NewAgenteRepository(testDB)
	visitaRepo := repository.NewVisitaRepository(testDB)
	svc := NewLifecycleService(testDB, empresaRepo, agenteRepo, visitaRepo)

	agente := &model.Agente{
		UID:    "uid-agente-1",
		Nombre: "Pedro Soto",
		Email:  "pedro@example.com",
		Activo: true,
		Permisos: model.PermisosAgente{
			EditarEmpresas:   true,
			CrearSolicitudes: true,
		},
	}
	testDB.Create(agente)

	empresa := &model.Empresa{
		Nombre:           "Vulcanización El Rayo",
		Comuna:           "Santiago",
		Estado:           model.EstadoPendienteValidacion,
		AgenteAsignadoID: &agente.ID,
		Revision:         1,
	}
	testDB.Create(empresa)

	return svc, testDB, agente, empresa
}

func actorAdmin() Actor {
	return Actor{UID: "uid-admin", Rol: model.RolAdmin}
}

func actorAgente(a *model.Agente) Actor {
	return Actor{UID: a.UID, Rol: model.RolAgente, AgenteID: &a.ID}
}

func visitaOK() *ResultadoVisita {
	return &ResultadoVisita{
		Checklist: model.ChecklistVisita{
			Existe:            true,
			DireccionCoincide: true,
			RubroCoincide:     true,
			ContactoValido:    true,
		},
		Observaciones: "Local verificado en terreno",
	}
}

func TestRequestTransition_FlujoCompleto(t *testing.T) {
	svc, testDB, agente, empresa := setupLifecycleTest(t)
	ctx := context.Background()
	actor := actorAgente(agente)

	paso1, err := svc.RequestTransition(ctx, actor, empresa.ID, model.EstadoEnVisita, nil)
	require.NoError(t, err)
	assert.Equal(t, model.EstadoEnVisita, paso1.Estado)
	assert.Equal(t, uint(2), paso1.Revision)

	paso2, err := svc.RequestTransition(ctx, actor, empresa.ID, model.EstadoValidada, visitaOK())
	require.NoError(t, err)
	assert.Equal(t, model.EstadoValidada, paso2.Estado)

	// La visita quedó registrada en la misma operación.
	var visitas []model.VisitaCampo
	testDB.Where("empresa_id = ?", empresa.ID).Find(&visitas)
	require.Len(t, visitas, 1)
	assert.Equal(t, agente.ID, visitas[0].AgenteID)
	assert.Equal(t, agente.Nombre, visitas[0].AgenteNombre)
	assert.True(t, visitas[0].Checklist.Existe)

	// Y la foto de validación quedó sobre la empresa.
	assert.NotNil(t, paso2.ValidacionAgente.AgenteID)
	assert.Equal(t, agente.ID, *paso2.ValidacionAgente.AgenteID)
}

func TestRequestTransition_TransicionInvalida(t *testing.T) {
	svc, _, _, empresa := setupLifecycleTest(t)

	_, err := svc.RequestTransition(context.Background(), actorAdmin(), empresa.ID, model.EstadoActiva, nil)
	require.Error(t, err)

	var rechazo *TransicionRechazadaError
	require.ErrorAs(t, err, &rechazo)
	assert.Equal(t, model.EstadoPendienteValidacion, rechazo.De)
	assert.Equal(t, model.EstadoActiva, rechazo.A)
}

func TestRequestTransition_EstadoDesconocido(t *testing.T) {
	svc, _, _, empresa := setupLifecycleTest(t)

	_, err := svc.RequestTransition(context.Background(), actorAdmin(), empresa.ID, model.Estado("publicada"), nil)
	require.Error(t, err)

	var desconocido *model.ErrEstadoDesconocido
	assert.ErrorAs(t, err, &desconocido)
}

func TestRequestTransition_MismoEstadoNoEscribe(t *testing.T) {
	svc, testDB, _, empresa := setupLifecycleTest(t)

	resultado, err := svc.RequestTransition(context.Background(), actorAdmin(), empresa.ID, model.EstadoPendienteValidacion, nil)
	require.NoError(t, err)
	assert.Equal(t, model.EstadoPendienteValidacion, resultado.Estado)

	// Sin escritura: la revisión no avanza.
	var recargada model.Empresa
	testDB.First(&recargada, empresa.ID)
	assert.Equal(t, uint(1), recargada.Revision)
}

func TestRequestTransition_AgenteNoAsignado(t *testing.T) {
	svc, testDB, _, empresa := setupLifecycleTest(t)

	otro := &model.Agente{
		UID:    "uid-agente-2",
		Nombre: "Otra Agente",
		Email:  "otra@example.com",
		Activo: true,
	}
	testDB.Create(otro)

	_, err := svc.RequestTransition(context.Background(), actorAgente(otro), empresa.ID, model.EstadoEnVisita, nil)
	require.Error(t, err)

	var rechazo *AutorizacionRechazadaError
	assert.ErrorAs(t, err, &rechazo)
}

// La autorización se evalúa antes que la arista: un agente ajeno que pide
// una transición imposible recibe el rechazo de autorización.
func TestRequestTransition_AutorizacionAntesQueGuardia(t *testing.T) {
	svc, testDB, _, empresa := setupLifecycleTest(t)

	otro := &model.Agente{
		UID:    "uid-agente-3",
		Nombre: "Agente Ajeno",
		Email:  "ajeno@example.com",
		Activo: true,
	}
	testDB.Create(otro)

	// pendiente_validacion -> activa tampoco es una arista válida.
	_, err := svc.RequestTransition(context.Background(), actorAgente(otro), empresa.ID, model.EstadoActiva, nil)
	require.Error(t, err)

	var rechazoAuth *AutorizacionRechazadaError
	assert.ErrorAs(t, err, &rechazoAuth)

	var rechazoTrans *TransicionRechazadaError
	assert.False(t, errors.As(err, &rechazoTrans))
}

func TestRequestTransition_ActivarSinPermiso(t *testing.T) {
	svc, testDB, agente, empresa := setupLifecycleTest(t)
	ctx := context.Background()
	actor := actorAgente(agente)

	_, err := svc.RequestTransition(ctx, actor, empresa.ID, model.EstadoEnVisita, nil)
	require.NoError(t, err)
	_, err = svc.RequestTransition(ctx, actor, empresa.ID, model.EstadoValidada, visitaOK())
	require.NoError(t, err)

	// El agente no tiene el permiso de activación.
	_, err = svc.RequestTransition(ctx, actor, empresa.ID, model.EstadoActiva, nil)
	require.Error(t, err)

	var rechazo *AutorizacionRechazadaError
	require.ErrorAs(t, err, &rechazo)

	// Con el permiso concedido la misma transición pasa.
	agente.Permisos.ActivarEmpresas = true
	testDB.Save(agente)

	activada, err := svc.RequestTransition(ctx, actor, empresa.ID, model.EstadoActiva, nil)
	require.NoError(t, err)
	assert.Equal(t, model.EstadoActiva, activada.Estado)
}

func TestRequestTransition_AgenteInactivo(t *testing.T) {
	svc, testDB, agente, empresa := setupLifecycleTest(t)

	agente.Activo = false
	testDB.Save(agente)

	_, err := svc.RequestTransition(context.Background(), actorAgente(agente), empresa.ID, model.EstadoEnVisita, nil)
	assert.ErrorIs(t, err, ErrAgenteInactivo)
}

func TestRequestTransition_ProveedorNoPuede(t *testing.T) {
	svc, _, _, empresa := setupLifecycleTest(t)

	actor := Actor{UID: "uid-prov", Rol: model.RolProveedor}
	_, err := svc.RequestTransition(context.Background(), actor, empresa.ID, model.EstadoEnVisita, nil)

	var rechazo *AutorizacionRechazadaError
	assert.ErrorAs(t, err, &rechazo)
}

func TestRequestTransition_ValidadaSinVisita(t *testing.T) {
	svc, _, agente, empresa := setupLifecycleTest(t)
	ctx := context.Background()
	actor := actorAgente(agente)

	_, err := svc.RequestTransition(ctx, actor, empresa.ID, model.EstadoEnVisita, nil)
	require.NoError(t, err)

	// Falta el resultado de la visita: es un problema de entrada, no de
	// autorización.
	_, err = svc.RequestTransition(ctx, actor, empresa.ID, model.EstadoValidada, nil)
	assert.ErrorIs(t, err, ErrVisitaRequerida)
}

// Una escritura contra una revisión que ya avanzó se rechaza sin tocar la
// fila.
func TestUpdateConRevision_Obsoleta(t *testing.T) {
	_, testDB, _, empresa := setupLifecycleTest(t)

	empresaRepo := repository.NewEmpresaRepository(testDB)
	leida, err := empresaRepo.FindByID(empresa.ID)
	require.NoError(t, err)

	// Otra operación movió la revisión después de nuestra lectura.
	testDB.Model(&model.Empresa{}).Where("id = ?", empresa.ID).Update("revision", leida.Revision+1)

	leida.Nombre = "Nombre Pisado"
	ok, err := empresaRepo.UpdateConRevision(nil, leida, empresa.Revision)
	require.NoError(t, err)
	assert.False(t, ok)

	var recargada model.Empresa
	testDB.First(&recargada, empresa.ID)
	assert.Equal(t, "Vulcanización El Rayo", recargada.Nombre)
}

func TestRequestTransition_EmpresaNoExiste(t *testing.T) {
	svc, _, _, _ := setupLifecycleTest(t)

	_, err := svc.RequestTransition(context.Background(), actorAdmin(), 9999, model.EstadoEnVisita, nil)
	assert.ErrorIs(t, err, ErrEmpresaNoEncontrada)
}

func TestPublicarConPerfil(t *testing.T) {
	svc, testDB, agente, empresa := setupLifecycleTest(t)
	ctx := context.Background()
	actor := actorAgente(agente)

	_, err := svc.RequestTransition(ctx, actor, empresa.ID, model.EstadoEnVisita, nil)
	require.NoError(t, err)
	_, err = svc.RequestTransition(ctx, actor, empresa.ID, model.EstadoValidada, visitaOK())
	require.NoError(t, err)

	publicada, err := svc.PublicarConPerfil(ctx, actorAdmin(), empresa.ID)
	require.NoError(t, err)
	assert.Equal(t, model.EstadoActiva, publicada.Estado)
	assert.True(t, publicada.PerfilPublico)

	var recargada model.Empresa
	testDB.First(&recargada, empresa.ID)
	assert.True(t, recargada.PerfilPublico)
}

// Si la transición a activa no es legal, el perfil no cambia.
func TestPublicarConPerfil_TransicionIlegal(t *testing.T) {
	svc, testDB, _, empresa := setupLifecycleTest(t)

	_, err := svc.PublicarConPerfil(context.Background(), actorAdmin(), empresa.ID)
	require.Error(t, err)

	var rechazo *TransicionRechazadaError
	assert.ErrorAs(t, err, &rechazo)

	var recargada model.Empresa
	testDB.First(&recargada, empresa.ID)
	assert.False(t, recargada.PerfilPublico)
	assert.Equal(t, model.EstadoPendienteValidacion, recargada.Estado)
}

// Un agente sin permiso de activación no puede publicar: la autorización
// rechaza antes de escribir y el perfil queda intacto.
func TestPublicarConPerfil_AgenteSinPermisoNoTocaPerfil(t *testing.T) {
	svc, testDB, agente, empresa := setupLifecycleTest(t)
	ctx := context.Background()
	actor := actorAgente(agente)

	_, err := svc.RequestTransition(ctx, actor, empresa.ID, model.EstadoEnVisita, nil)
	require.NoError(t, err)
	_, err = svc.RequestTransition(ctx, actor, empresa.ID, model.EstadoValidada, visitaOK())
	require.NoError(t, err)

	// El agente del setup no tiene activar_empresas.
	_, err = svc.PublicarConPerfil(ctx, actor, empresa.ID)
	require.Error(t, err)

	var rechazo *AutorizacionRechazadaError
	assert.ErrorAs(t, err, &rechazo)

	var recargada model.Empresa
	testDB.First(&recargada, empresa.ID)
	assert.False(t, recargada.PerfilPublico)
	assert.Equal(t, model.EstadoValidada, recargada.Estado)
}

func TestTransicionesDisponibles(t *testing.T) {
	svc, _, _, empresa := setupLifecycleTest(t)

	estado, destinos, err := svc.TransicionesDisponibles(empresa.ID)
	require.NoError(t, err)
	assert.Equal(t, model.EstadoPendienteValidacion, estado)
	assert.Contains(t, destinos, model.EstadoEnVisita)
	assert.Contains(t, destinos, model.EstadoRechazada)
	assert.NotContains(t, destinos, model.EstadoActiva)
}
