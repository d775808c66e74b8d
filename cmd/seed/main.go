package main

import (
	"fmt"
	"log"
	"os"
	"regexp"
	"strings"

	"github.com/rlepezi/av10dejulio-sub005/config"
	"github.com/rlepezi/av10dejulio-sub005/internal/app/model"
	"github.com/rlepezi/av10dejulio-sub005/internal/app/repository"
	"github.com/rlepezi/av10dejulio-sub005/internal/db"
	"github.com/xuri/excelize/v2"
)

// Importa el catastro inicial de empresas desde una planilla XLSX.
// Columnas esperadas (con encabezado en la primera fila):
//
//	Nombre | RUT | Tipo | Dirección | Comuna | Teléfono | Email | Web
//
// Todas las filas entran en estado CATALOGADA; la validación en terreno
// ocurre después, empresa por empresa.
func main() {
	if len(os.Args) < 2 {
		log.Fatal("Usage: go run cmd/seed/main.go <xlsx_file_path>")
	}

	filePath := os.Args[1]

	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load config:", err)
	}

	if err := db.Initialize(&cfg.Database); err != nil {
		log.Fatal("Failed to connect to database:", err)
	}
	defer db.Close()

	empresaRepo := repository.NewEmpresaRepository(db.GetDB())

	fmt.Printf("Reading XLSX file: %s\n", filePath)
	empresas, err := readEmpresasFromXLSX(filePath)
	if err != nil {
		log.Fatal("Failed to read XLSX:", err)
	}

	fmt.Printf("Total empresas to import: %d\n", len(empresas))

	fmt.Print("Do you want to proceed with the import? (yes/no): ")
	var confirm string
	fmt.Scanln(&confirm)
	if confirm != "yes" && confirm != "y" {
		fmt.Println("Import cancelled.")
		return
	}

	batchSize := 500
	fmt.Printf("Starting bulk import with batch size: %d\n", batchSize)
	if err := empresaRepo.BulkCreate(empresas, batchSize); err != nil {
		log.Fatal("Failed to bulk create empresas:", err)
	}

	fmt.Println("Import completed successfully!")
	fmt.Printf("Total empresas imported: %d\n", len(empresas))
}

func readEmpresasFromXLSX(filePath string) ([]model.Empresa, error) {
	f, err := excelize.OpenFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open XLSX file: %w", err)
	}
	defer f.Close()

	sheetName := f.GetSheetName(0)
	if sheetName == "" {
		return nil, fmt.Errorf("no sheets found in XLSX file")
	}

	fmt.Printf("Reading sheet: %s\n", sheetName)

	rows, err := f.GetRows(sheetName)
	if err != nil {
		return nil, fmt.Errorf("failed to read rows: %w", err)
	}

	if len(rows) == 0 {
		return nil, fmt.Errorf("no data found in XLSX file")
	}

	var empresas []model.Empresa
	vistas := make(map[string]bool) // deduplicación por nombre+comuna+dirección
	rutsVistos := make(map[string]bool)
	skippedCount := 0

	for i, row := range rows {
		if i == 0 {
			fmt.Printf("Headers: %v\n", row)
			continue
		}

		if len(row) < 5 {
			skippedCount++
			continue
		}

		nombre := strings.TrimSpace(celda(row, 0))
		rut := normalizarRut(celda(row, 1))
		tipo := strings.ToLower(strings.TrimSpace(celda(row, 2)))
		direccion := strings.TrimSpace(celda(row, 3))
		comuna := strings.TrimSpace(celda(row, 4))
		telefono := strings.TrimSpace(celda(row, 5))
		email := strings.ToLower(strings.TrimSpace(celda(row, 6)))
		web := strings.TrimSpace(celda(row, 7))

		if nombre == "" || comuna == "" || direccion == "" {
			skippedCount++
			continue
		}

		if !esNombreValido(nombre) {
			skippedCount++
			continue
		}

		// El RUT es único en la tabla; filas con RUT repetido romperían el
		// lote completo.
		if rut != "" {
			if rutsVistos[rut] {
				skippedCount++
				continue
			}
			rutsVistos[rut] = true
		}

		key := fmt.Sprintf("%s|%s|%s", nombre, comuna, direccion)
		if vistas[key] {
			skippedCount++
			continue
		}
		vistas[key] = true

		empresas = append(empresas, model.Empresa{
			Nombre:      nombre,
			Rut:         rut,
			TipoEmpresa: tipo,
			Direccion:   direccion,
			Comuna:      comuna,
			Telefono:    telefono,
			Email:       email,
			Web:         web,
			Estado:      model.EstadoCatalogada,
			Revision:    1,
		})

		if len(empresas)%1000 == 0 {
			fmt.Printf("Processed %d empresas...\n", len(empresas))
		}
	}

	fmt.Printf("\nSummary:\n")
	fmt.Printf("  Total rows: %d\n", len(rows)-1)
	fmt.Printf("  Valid empresas: %d\n", len(empresas))
	fmt.Printf("  Skipped rows: %d\n", skippedCount)

	return empresas, nil
}

func celda(row []string, idx int) string {
	if idx >= len(row) {
		return ""
	}
	return row[idx]
}

// normalizarRut deja el RUT como cuerpo-dígito verificador sin puntos,
// p. ej. "76.123.456-7" → "76123456-7".
func normalizarRut(raw string) string {
	rut := strings.ToUpper(strings.TrimSpace(raw))
	rut = strings.ReplaceAll(rut, ".", "")
	if rut == "" {
		return ""
	}

	reg := regexp.MustCompile(`^(\d{1,8})-?([\dK])$`)
	m := reg.FindStringSubmatch(rut)
	if m == nil {
		return ""
	}
	return m[1] + "-" + m[2]
}

// esNombreValido descarta filas basura del catastro original.
func esNombreValido(nombre string) bool {
	if len([]rune(nombre)) < 3 {
		return false
	}

	numOnlyReg := regexp.MustCompile(`^[0-9]+$`)
	if numOnlyReg.MatchString(nombre) {
		return false
	}

	specialOnlyReg := regexp.MustCompile(`^[\p{P}\p{S}\s]+$`)
	return !specialOnlyReg.MatchString(nombre)
}
