// seed genera el script SQL del directorio (bodegas, tiendas y productos) a partir de un CSV.
//
// Uso: go run ./cmd/seed [ruta/directorio.csv] [salida.sql]
// Por defecto lee directorio.csv del directorio actual y escribe
// internal/infrastructure/postgres/migrations/0100_seed_directory.sql.
package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/jhoicas/warehouse-ops/internal/infrastructure/seed"
)

func main() {
	csvPath := "directorio.csv"
	if len(os.Args) > 1 {
		csvPath = os.Args[1]
	}
	outPath := filepath.Join(findModuleRoot(), "internal", "infrastructure", "postgres", "migrations", "0100_seed_directory.sql")
	if len(os.Args) > 2 {
		outPath = os.Args[2]
	}

	f, err := os.Open(csvPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Abrir CSV: %v\n", err)
		os.Exit(1)
	}
	defer f.Close()

	dir, err := seed.Parse(f)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Leer directorio: %v\n", err)
		os.Exit(1)
	}

	out, err := os.Create(outPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Crear archivo: %v\n", err)
		os.Exit(1)
	}
	defer out.Close()

	if err := dir.WriteSQL(out); err != nil {
		fmt.Fprintf(os.Stderr, "Escribir SQL: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Generado %s: %d bodegas, %d tiendas, %d productos\n",
		outPath, len(dir.Warehouses), len(dir.Stores), len(dir.Products))
}

func findModuleRoot() string {
	dir, _ := os.Getwd()
	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return dir
		}
		dir = parent
	}
}
