package service

import (
	"bytes"
	"fmt"

	"github.com/rlepezi/av10dejulio-sub005/internal/app/repository"
	"github.com/rlepezi/av10dejulio-sub005/pkg/logger"
	"github.com/xuri/excelize/v2"
)

// ExportService genera la planilla XLSX del catastro de empresas para el
// panel de administración.
type ExportService interface {
	ExportarEmpresas(filter repository.EmpresaFilter) (*bytes.Buffer, error)
}

type exportService struct {
	empresaRepo repository.EmpresaRepository
	agenteRepo  repository.AgenteRepository
}

func NewExportService(
	empresaRepo repository.EmpresaRepository,
	agenteRepo repository.AgenteRepository,
) ExportService {
	return &exportService{
		empresaRepo: empresaRepo,
		agenteRepo:  agenteRepo,
	}
}

var columnasExport = []string{
	"ID", "Nombre", "RUT", "Tipo", "Comuna", "Dirección", "Teléfono",
	"Estado", "Completitud", "Nivel", "Agente asignado", "Horario",
}

func (s *exportService) ExportarEmpresas(filter repository.EmpresaFilter) (*bytes.Buffer, error) {
	logger.Info("Exportando catastro de empresas a XLSX", map[string]interface{}{
		"estado": filter.Estado,
		"comuna": filter.Comuna,
	})

	// Sin paginación: la exportación lleva el catastro completo del filtro.
	filter.Page = 0
	filter.PageSize = 0

	empresas, _, err := s.empresaRepo.FindAll(filter)
	if err != nil {
		return nil, err
	}

	nombresAgentes, err := s.nombresAgentes()
	if err != nil {
		return nil, err
	}

	f := excelize.NewFile()
	defer f.Close()

	const hoja = "Empresas"
	f.SetSheetName(f.GetSheetName(0), hoja)

	for i, titulo := range columnasExport {
		celda, _ := excelize.CoordinatesToCellName(i+1, 1)
		if err := f.SetCellValue(hoja, celda, titulo); err != nil {
			return nil, fmt.Errorf("no se pudo escribir el encabezado: %w", err)
		}
	}

	for idx := range empresas {
		empresa := &empresas[idx]
		completitud := CalcularCompletitud(empresa)

		agenteNombre := ""
		if empresa.AgenteAsignadoID != nil {
			agenteNombre = nombresAgentes[*empresa.AgenteAsignadoID]
		}

		valores := []interface{}{
			empresa.ID,
			empresa.Nombre,
			empresa.Rut,
			empresa.TipoEmpresa,
			empresa.Comuna,
			empresa.Direccion,
			empresa.Telefono,
			string(empresa.Estado),
			completitud.Puntaje,
			completitud.Nivel,
			agenteNombre,
			empresa.HorarioAtencion(),
		}

		fila := idx + 2
		for col, valor := range valores {
			celda, _ := excelize.CoordinatesToCellName(col+1, fila)
			if err := f.SetCellValue(hoja, celda, valor); err != nil {
				return nil, fmt.Errorf("no se pudo escribir la fila %d: %w", fila, err)
			}
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("no se pudo serializar la planilla: %w", err)
	}

	logger.Info("Exportación generada", map[string]interface{}{
		"empresas": len(empresas),
		"bytes":    buf.Len(),
	})
	return buf, nil
}

func (s *exportService) nombresAgentes() (map[uint]string, error) {
	agentes, err := s.agenteRepo.FindAll(false)
	if err != nil {
		return nil, err
	}

	nombres := make(map[uint]string, len(agentes))
	for _, a := range agentes {
		nombres[a.ID] = a.Nombre
	}
	return nombres, nil
}
