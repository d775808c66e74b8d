package service

import (
	"context"
	"testing"

	"github.com/rlepezi/av10dejulio-sub005/internal/app/model"
	"github.com/rlepezi/av10dejulio-sub005/internal/app/repository"
	"github.com/rlepezi/av10dejulio-sub005/internal/db"
	"github.com/rlepezi/av10dejulio-sub005/pkg/horario"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func setupEmpresaTest(t *testing.T) (EmpresaService, *gorm.DB) {
	testDB, err := db.SetupTestDB()
	require.NoError(t, err)
	t.Cleanup(func() {
		db.CleanupTestDB(testDB)
	})

	empresaRepo := repository.NewEmpresaRepository(testDB)
	agenteRepo := repository.NewAgenteRepository(testDB)
	visitaRepo := repository.NewVisitaRepository(testDB)
	svc := NewEmpresaService(empresaRepo, agenteRepo, visitaRepo)

	return svc, testDB
}

func TestEmpresaCrear(t *testing.T) {
	svc, _ := setupEmpresaTest(t)

	empresa, err := svc.Crear(EmpresaInput{
		Nombre:      "Taller Norte",
		TipoEmpresa: "taller",
		Comuna:      "Recoleta",
	})
	require.NoError(t, err)
	assert.NotZero(t, empresa.ID)
	assert.Equal(t, model.EstadoCatalogada, empresa.Estado)
	assert.Equal(t, uint(1), empresa.Revision)
}

func TestEmpresaCrear_HorarioInvalido(t *testing.T) {
	svc, _ := setupEmpresaTest(t)

	malo := horario.Horario{
		"lunes": {Abierto: true, Apertura: "18:00", Cierre: "08:00"},
	}

	_, err := svc.Crear(EmpresaInput{Nombre: "Taller Malo", Horario: malo})
	assert.ErrorIs(t, err, ErrHorarioInvalido)
}

func TestEmpresaActualizar_ConRevision(t *testing.T) {
	svc, _ := setupEmpresaTest(t)
	ctx := context.Background()

	empresa, err := svc.Crear(EmpresaInput{Nombre: "Taller Norte"})
	require.NoError(t, err)

	actualizada, err := svc.Actualizar(ctx, empresa.ID, empresa.Revision, EmpresaInput{
		Nombre:      "Taller Norte",
		Descripcion: "Mecánica general y electricidad",
	})
	require.NoError(t, err)
	assert.Equal(t, uint(2), actualizada.Revision)

	// Reusar la revisión ya consumida falla.
	_, err = svc.Actualizar(ctx, empresa.ID, empresa.Revision, EmpresaInput{
		Nombre: "Taller Norte Pisado",
	})
	assert.ErrorIs(t, err, ErrRevisionConflicto)
}

func TestEmpresaAsignarAgente(t *testing.T) {
	svc, testDB := setupEmpresaTest(t)
	ctx := context.Background()

	empresa, err := svc.Crear(EmpresaInput{Nombre: "Taller Norte"})
	require.NoError(t, err)

	agente := &model.Agente{
		UID:    "uid-asig",
		Nombre: "Luis Rojas",
		Email:  "luis@example.com",
		Activo: true,
	}
	testDB.Create(agente)

	asignada, err := svc.AsignarAgente(ctx, empresa.ID, agente.ID)
	require.NoError(t, err)
	require.NotNil(t, asignada.AgenteAsignadoID)
	assert.Equal(t, agente.ID, *asignada.AgenteAsignadoID)
}

// Un agente inactivo no puede recibir empresas nuevas.
func TestEmpresaAsignarAgente_Inactivo(t *testing.T) {
	svc, testDB := setupEmpresaTest(t)

	empresa, err := svc.Crear(EmpresaInput{Nombre: "Taller Norte"})
	require.NoError(t, err)

	agente := &model.Agente{
		UID:    "uid-inactivo",
		Nombre: "Ex Agente",
		Email:  "ex@example.com",
		Activo: false,
	}
	testDB.Create(agente)

	_, err = svc.AsignarAgente(context.Background(), empresa.ID, agente.ID)
	assert.ErrorIs(t, err, ErrAgenteInactivo)
}

func TestEmpresaAplicarPresetHorario(t *testing.T) {
	svc, _ := setupEmpresaTest(t)
	ctx := context.Background()

	empresa, err := svc.Crear(EmpresaInput{Nombre: "Taller Norte"})
	require.NoError(t, err)

	conHorario, err := svc.AplicarPresetHorario(ctx, empresa.ID, empresa.Revision, horario.PresetTaller)
	require.NoError(t, err)
	assert.True(t, conHorario.Horario.AlgunoAbierto())
	assert.NotEmpty(t, conHorario.HorarioAtencion())

	_, err = svc.AplicarPresetHorario(ctx, empresa.ID, conHorario.Revision, "nocturno")
	assert.ErrorIs(t, err, ErrHorarioInvalido)
}

func TestEmpresaListPublicas(t *testing.T) {
	svc, testDB := setupEmpresaTest(t)
	ctx := context.Background()

	comercial, _ := horario.Preset(horario.PresetComercial)
	activa := &model.Empresa{
		Nombre:        "Visible SpA",
		Comuna:        "Santiago",
		Estado:        model.EstadoActiva,
		PerfilPublico: true,
		Horario:       comercial,
		Revision:      1,
	}
	testDB.Create(activa)

	// Activa pero sin perfil público: no aparece.
	oculta := &model.Empresa{
		Nombre:   "Oculta SpA",
		Comuna:   "Santiago",
		Estado:   model.EstadoActiva,
		Revision: 1,
	}
	testDB.Create(oculta)

	// Validada: tampoco aparece.
	pendiente := &model.Empresa{
		Nombre:        "Pendiente SpA",
		Comuna:        "Santiago",
		Estado:        model.EstadoValidada,
		PerfilPublico: true,
		Revision:      1,
	}
	testDB.Create(pendiente)

	publicas, err := svc.ListPublicas(ctx, repository.PublicFilter{Comuna: "Santiago"})
	require.NoError(t, err)
	require.Len(t, publicas, 1)
	assert.Equal(t, "Visible SpA", publicas[0].Nombre)

	// El horario viaja como texto derivado del horario canónico.
	assert.Contains(t, publicas[0].HorarioAtencion, "Lunes a Viernes")
}

func TestEmpresaCompletitud(t *testing.T) {
	svc, _ := setupEmpresaTest(t)

	empresa, err := svc.Crear(EmpresaInput{Nombre: "Taller Norte"})
	require.NoError(t, err)

	resultado, err := svc.Completitud(empresa.ID)
	require.NoError(t, err)
	assert.Equal(t, NivelDeficiente, resultado.Nivel)
	assert.Contains(t, resultado.Faltantes, "logo")
	assert.Contains(t, resultado.Faltantes, "galeria")

	_, err = svc.Completitud(9999)
	assert.ErrorIs(t, err, ErrEmpresaNoEncontrada)
}

func TestEmpresaResumenPorEstado(t *testing.T) {
	svc, testDB := setupEmpresaTest(t)

	for _, estado := range []model.Estado{model.EstadoCatalogada, model.EstadoCatalogada, model.EstadoActiva} {
		testDB.Create(&model.Empresa{Nombre: "E", Estado: estado, Revision: 1})
	}

	resumen, err := svc.ResumenPorEstado()
	require.NoError(t, err)
	assert.Equal(t, int64(2), resumen[model.EstadoCatalogada])
	assert.Equal(t, int64(1), resumen[model.EstadoActiva])
}
