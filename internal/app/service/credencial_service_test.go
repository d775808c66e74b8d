package service

import (
	"context"
	"testing"

	"github.com/rlepezi/av10dejulio-sub005/internal/app/model"
	"github.com/rlepezi/av10dejulio-sub005/internal/app/repository"
	"github.com/rlepezi/av10dejulio-sub005/internal/db"
	"github.com/rlepezi/av10dejulio-sub005/internal/identity"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func setupCredencialTest(t *testing.T) (CredencialService, *gorm.DB, identity.Provider, *model.Empresa) {
	testDB, err := db.SetupTestDB()
	require.NoError(t, err)
	t.Cleanup(func() {
		db.CleanupTestDB(testDB)
	})

	proveedor := identity.NewProvider(testDB)
	empresaRepo := repository.NewEmpresaRepository(testDB)
	credencialRepo := repository.NewCredencialRepository(testDB)
	svc := NewCredencialService(testDB, proveedor, empresaRepo, credencialRepo)

	empresa := &model.Empresa{
		Nombre:   "Repuestos La Rueda",
		Comuna:   "Ñuñoa",
		Estado:   model.EstadoValidada,
		Revision: 1,
	}
	testDB.Create(empresa)

	return svc, testDB, proveedor, empresa
}

func TestIssueCredentials_Exito(t *testing.T) {
	svc, testDB, _, empresa := setupCredencialTest(t)

	emitida, err := svc.IssueCredentials(context.Background(), empresa.ID, "rueda@example.com", "secreta1", "secreta1")
	require.NoError(t, err)
	assert.NotEmpty(t, emitida.UID)
	assert.Equal(t, empresa.ID, emitida.EmpresaID)

	// La cuenta existe en el proveedor de identidad.
	var cuenta identity.Cuenta
	require.NoError(t, testDB.Where("email = ?", "rueda@example.com").First(&cuenta).Error)
	assert.Equal(t, emitida.UID, cuenta.UID)

	// El vínculo local apunta a la empresa con rol proveedor.
	var credencial model.UsuarioCredencial
	require.NoError(t, testDB.Where("uid = ?", emitida.UID).First(&credencial).Error)
	assert.Equal(t, model.RolProveedor, credencial.Rol)
	require.NotNil(t, credencial.EmpresaID)
	assert.Equal(t, empresa.ID, *credencial.EmpresaID)

	// Y la empresa quedó marcada.
	var recargada model.Empresa
	testDB.First(&recargada, empresa.ID)
	assert.True(t, recargada.CredencialesGeneradas)
	assert.Equal(t, emitida.UID, recargada.UIDAuth)
	assert.Equal(t, "rueda@example.com", recargada.UsuarioEmpresa.Email)
}

// La validación de entrada corre completa antes de tocar el proveedor de
// identidad: una clave mala no deja cuentas creadas.
func TestIssueCredentials_ValidacionAntesDeCrearCuenta(t *testing.T) {
	svc, testDB, _, empresa := setupCredencialTest(t)
	ctx := context.Background()

	_, err := svc.IssueCredentials(ctx, empresa.ID, "rueda@example.com", "abc", "abc")
	assert.ErrorIs(t, err, ErrClaveCorta)

	_, err = svc.IssueCredentials(ctx, empresa.ID, "rueda@example.com", "secreta1", "secreta2")
	assert.ErrorIs(t, err, ErrClaveNoCoincide)

	var count int64
	testDB.Model(&identity.Cuenta{}).Count(&count)
	assert.Zero(t, count)
}

func TestIssueCredentials_EmailEnUso(t *testing.T) {
	svc, _, proveedor, empresa := setupCredencialTest(t)

	_, err := proveedor.CreateAccount("rueda@example.com", "yaexiste1")
	require.NoError(t, err)

	_, err = svc.IssueCredentials(context.Background(), empresa.ID, "rueda@example.com", "secreta1", "secreta1")
	assert.ErrorIs(t, err, identity.ErrEmailEnUso)
}

func TestIssueCredentials_EmpresaNoExiste(t *testing.T) {
	svc, _, _, _ := setupCredencialTest(t)

	_, err := svc.IssueCredentials(context.Background(), 9999, "x@example.com", "secreta1", "secreta1")
	assert.ErrorIs(t, err, ErrEmpresaNoEncontrada)
}

// Reemitir credenciales reemplaza el vínculo local pero la cuenta anterior
// permanece en el proveedor de identidad como huérfana.
func TestIssueCredentials_ReemisionDejaCuentaHuerfana(t *testing.T) {
	svc, testDB, _, empresa := setupCredencialTest(t)
	ctx := context.Background()

	primera, err := svc.IssueCredentials(ctx, empresa.ID, "v1@example.com", "secreta1", "secreta1")
	require.NoError(t, err)

	segunda, err := svc.IssueCredentials(ctx, empresa.ID, "v2@example.com", "secreta2", "secreta2")
	require.NoError(t, err)
	assert.NotEqual(t, primera.UID, segunda.UID)

	// Un solo vínculo vigente, el nuevo.
	var credenciales []model.UsuarioCredencial
	testDB.Where("empresa_id = ?", empresa.ID).Find(&credenciales)
	require.Len(t, credenciales, 1)
	assert.Equal(t, segunda.UID, credenciales[0].UID)

	// La cuenta anterior sigue existiendo: nunca se elimina de forma
	// automática.
	var cuentas int64
	testDB.Model(&identity.Cuenta{}).Count(&cuentas)
	assert.Equal(t, int64(2), cuentas)
}

// empresaRepoRevisionObsoleta simula una empresa cuya revisión cambió entre
// la lectura y la escritura: UpdateConRevision nunca aplica.
type empresaRepoRevisionObsoleta struct {
	repository.EmpresaRepository
}

func (r *empresaRepoRevisionObsoleta) UpdateConRevision(tx *gorm.DB, empresa *model.Empresa, revisionEsperada uint) (bool, error) {
	return false, nil
}

// Si la empresa no se puede actualizar después de crear la cuenta y el
// vínculo, la emisión termina en advertencia de aplicación parcial y la
// cuenta queda persistida para la reconciliación.
func TestIssueCredentials_ActualizacionEmpresaParcial(t *testing.T) {
	testDB, err := db.SetupTestDB()
	require.NoError(t, err)
	t.Cleanup(func() {
		db.CleanupTestDB(testDB)
	})

	proveedor := identity.NewProvider(testDB)
	credencialRepo := repository.NewCredencialRepository(testDB)
	empresaRepo := &empresaRepoRevisionObsoleta{repository.NewEmpresaRepository(testDB)}
	svc := NewCredencialService(testDB, proveedor, empresaRepo, credencialRepo)

	empresa := &model.Empresa{
		Nombre:   "Lubricentro El Pique",
		Comuna:   "Macul",
		Estado:   model.EstadoValidada,
		Revision: 1,
	}
	testDB.Create(empresa)

	_, err = svc.IssueCredentials(context.Background(), empresa.ID, "pique@example.com", "secreta1", "secreta1")

	var parcial *AplicacionParcialWarning
	require.ErrorAs(t, err, &parcial)
	assert.Equal(t, "actualizacion_empresa", parcial.PasoIncompleto)
	assert.Equal(t, "pique@example.com", parcial.Email)

	// La cuenta y el vínculo de los pasos completados siguen ahí.
	var cuenta identity.Cuenta
	require.NoError(t, testDB.Where("uid = ?", parcial.UID).First(&cuenta).Error)

	var credencial model.UsuarioCredencial
	require.NoError(t, testDB.Where("uid = ?", parcial.UID).First(&credencial).Error)

	// La empresa no registró el vínculo: es el caso que repara la
	// reconciliación.
	var recargada model.Empresa
	testDB.First(&recargada, empresa.ID)
	assert.False(t, recargada.CredencialesGeneradas)
}

func TestReconcileOrphanAccounts(t *testing.T) {
	svc, testDB, proveedor, empresa := setupCredencialTest(t)
	ctx := context.Background()

	// Cuenta huérfana: existe en identidad, sin credencial local.
	_, err := proveedor.CreateAccount("huerfana@example.com", "secreta1")
	require.NoError(t, err)

	// Emisión a medias: cuenta y credencial existen pero la empresa nunca
	// registró el vínculo.
	uid, err := proveedor.CreateAccount("amedias@example.com", "secreta1")
	require.NoError(t, err)
	require.NoError(t, testDB.Create(&model.UsuarioCredencial{
		UID:       uid,
		Email:     "amedias@example.com",
		Rol:       model.RolProveedor,
		EmpresaID: &empresa.ID,
	}).Error)

	reporte, err := svc.ReconcileOrphanAccounts(ctx)
	require.NoError(t, err)

	assert.Equal(t, 2, reporte.CuentasRevisadas)
	assert.Equal(t, []string{"huerfana@example.com"}, reporte.Huerfanas)
	assert.Equal(t, []uint{empresa.ID}, reporte.EmpresasReparadas)

	var recargada model.Empresa
	testDB.First(&recargada, empresa.ID)
	assert.True(t, recargada.CredencialesGeneradas)
	assert.Equal(t, uid, recargada.UIDAuth)

	// La cuenta huérfana sólo se reporta, no se borra.
	var cuentas int64
	testDB.Model(&identity.Cuenta{}).Count(&cuentas)
	assert.Equal(t, int64(2), cuentas)
}
