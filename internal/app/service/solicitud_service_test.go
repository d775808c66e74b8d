package service

import (
	"testing"

	"github.com/rlepezi/av10dejulio-sub005/internal/app/model"
	"github.com/rlepezi/av10dejulio-sub005/internal/app/repository"
	"github.com/rlepezi/av10dejulio-sub005/internal/db"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func setupSolicitudTest(t *testing.T) (SolicitudService, *gorm.DB, *model.Agente) {
	testDB, err := db.SetupTestDB()
	require.NoError(t, err)
	t.Cleanup(func() {
		db.CleanupTestDB(testDB)
	})

	solicitudRepo := repository.NewSolicitudRepository(testDB)
	empresaRepo := repository.NewEmpresaRepository(testDB)
	agenteRepo := repository.NewAgenteRepository(testDB)
	svc := NewSolicitudService(testDB, solicitudRepo, empresaRepo, agenteRepo)

	agente := &model.Agente{
		UID:    "uid-agente-sol",
		Nombre: "Carla Muñoz",
		Email:  "carla@example.com",
		Activo: true,
		Permisos: model.PermisosAgente{
			CrearSolicitudes: true,
		},
	}
	testDB.Create(agente)

	return svc, testDB, agente
}

func TestSolicitudCrear(t *testing.T) {
	svc, _, agente := setupSolicitudTest(t)

	solicitud, err := svc.Crear(agente.ID, SolicitudInput{
		Nombre:      "Lubricentro Sur",
		TipoEmpresa: "lubricentro",
		Comuna:      "La Cisterna",
	})
	require.NoError(t, err)
	assert.NotZero(t, solicitud.ID)
	assert.Equal(t, model.SolicitudPendiente, solicitud.Estado)
	assert.Equal(t, agente.ID, solicitud.AgenteID)
	assert.Equal(t, "Carla Muñoz", solicitud.AgenteNombre)
}

func TestSolicitudCrear_SinPermiso(t *testing.T) {
	svc, testDB, agente := setupSolicitudTest(t)

	agente.Permisos.CrearSolicitudes = false
	testDB.Save(agente)

	_, err := svc.Crear(agente.ID, SolicitudInput{Nombre: "Taller X"})
	require.Error(t, err)

	var rechazo *AutorizacionRechazadaError
	assert.ErrorAs(t, err, &rechazo)
}

func TestSolicitudCrear_AgenteInactivo(t *testing.T) {
	svc, testDB, agente := setupSolicitudTest(t)

	agente.Activo = false
	testDB.Save(agente)

	_, err := svc.Crear(agente.ID, SolicitudInput{Nombre: "Taller X"})
	assert.ErrorIs(t, err, ErrAgenteInactivo)
}

func TestSolicitudPromover(t *testing.T) {
	svc, testDB, agente := setupSolicitudTest(t)

	solicitud, err := svc.Crear(agente.ID, SolicitudInput{
		Nombre:      "Lubricentro Sur",
		TipoEmpresa: "lubricentro",
		Direccion:   "Gran Avenida 5500",
		Comuna:      "La Cisterna",
		Telefono:    "+56 2 2555 5555",
	})
	require.NoError(t, err)

	empresa, err := svc.Promover(solicitud.ID)
	require.NoError(t, err)
	assert.Equal(t, model.EstadoPendienteValidacion, empresa.Estado)
	assert.Equal(t, "Lubricentro Sur", empresa.Nombre)

	// El agente captador queda asignado a la empresa nueva.
	require.NotNil(t, empresa.AgenteAsignadoID)
	assert.Equal(t, agente.ID, *empresa.AgenteAsignadoID)

	// La solicitud quedó ligada y cerrada.
	var recargada model.SolicitudEmpresa
	testDB.First(&recargada, solicitud.ID)
	assert.Equal(t, model.SolicitudPromovida, recargada.Estado)
	require.NotNil(t, recargada.EmpresaID)
	assert.Equal(t, empresa.ID, *recargada.EmpresaID)
}

func TestSolicitudPromover_SoloUnaVez(t *testing.T) {
	svc, testDB, agente := setupSolicitudTest(t)

	solicitud, err := svc.Crear(agente.ID, SolicitudInput{Nombre: "Taller Único"})
	require.NoError(t, err)

	_, err = svc.Promover(solicitud.ID)
	require.NoError(t, err)

	_, err = svc.Promover(solicitud.ID)
	assert.ErrorIs(t, err, ErrSolicitudYaPromovida)

	// No se creó una segunda empresa.
	var empresas int64
	testDB.Model(&model.Empresa{}).Count(&empresas)
	assert.Equal(t, int64(1), empresas)
}

func TestSolicitudDescartar(t *testing.T) {
	svc, testDB, agente := setupSolicitudTest(t)

	solicitud, err := svc.Crear(agente.ID, SolicitudInput{Nombre: "Local Fantasma"})
	require.NoError(t, err)

	require.NoError(t, svc.Descartar(solicitud.ID, "El local no existe en la dirección indicada"))

	var recargada model.SolicitudEmpresa
	testDB.First(&recargada, solicitud.ID)
	assert.Equal(t, model.SolicitudDescartada, recargada.Estado)
	assert.Equal(t, "El local no existe en la dirección indicada", recargada.Observacion)

	// Una solicitud descartada tampoco se puede promover.
	_, err = svc.Promover(solicitud.ID)
	assert.ErrorIs(t, err, ErrSolicitudYaPromovida)
}
