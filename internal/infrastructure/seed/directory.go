// Package seed carga el directorio de solo lectura (productos, bodegas, tiendas) desde un CSV.
//
// Formato, separado por punto y coma, con cabecera opcional:
//
//	tipo;codigo;nombre;direccion;ciudad;categoria
//	bodega;BOD-01;Bodega Central;Calle 10 # 4-20;;
//	tienda;T-001;Tienda Norte;Av. 68 # 80-12;Bogotá;
//	producto;RTR-ABC;Router ABC;;;redes
//
// Los archivos exportados desde Excel suelen venir en Windows-1252; se convierten a UTF-8.
package seed

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"

	"github.com/jhoicas/warehouse-ops/internal/domain/entity"
)

const (
	kindProduct   = "producto"
	kindWarehouse = "bodega"
	kindStore     = "tienda"
)

// Directory es el contenido de un archivo de semilla.
type Directory struct {
	Products   []entity.Product
	Warehouses []entity.Warehouse
	Stores     []entity.Store
}

// Seeder recibe las entradas del directorio (memory.Store lo implementa).
type Seeder interface {
	SeedProduct(entity.Product)
	SeedWarehouse(entity.Warehouse)
	SeedStore(entity.Store)
}

// StableID deriva un UUID determinístico del tipo y el código, de modo que regenerar la semilla no duplica filas.
func StableID(kind, code string) string {
	return uuid.NewSHA1(uuid.NameSpaceURL, []byte("warehouse-ops:"+kind+":"+strings.ToUpper(code))).String()
}

// Parse lee el CSV del directorio.
func Parse(r io.Reader) (*Directory, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("seed: leer archivo: %w", err)
	}
	raw = bytes.TrimPrefix(raw, []byte("\ufeff"))
	if !utf8.Valid(raw) {
		raw, _, err = transform.Bytes(charmap.Windows1252.NewDecoder(), raw)
		if err != nil {
			return nil, fmt.Errorf("seed: convertir a UTF-8: %w", err)
		}
	}

	cr := csv.NewReader(bytes.NewReader(raw))
	cr.Comma = ';'
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	now := time.Now().UTC()
	dir := &Directory{}
	seen := map[string]int{}
	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("seed: %w", err)
		}
		line, _ := cr.FieldPos(0)
		for len(rec) < 6 {
			rec = append(rec, "")
		}
		kind := strings.ToLower(strings.TrimSpace(rec[0]))
		if kind == "" || strings.HasPrefix(kind, "#") || kind == "tipo" {
			continue
		}
		code, name := strings.TrimSpace(rec[1]), strings.TrimSpace(rec[2])
		if code == "" || name == "" {
			return nil, fmt.Errorf("seed: línea %d: código y nombre son obligatorios", line)
		}
		key := kind + ":" + strings.ToUpper(code)
		if prev, dup := seen[key]; dup {
			return nil, fmt.Errorf("seed: línea %d: %s %q repetido (línea %d)", line, kind, code, prev)
		}
		seen[key] = line

		id := StableID(kind, code)
		switch kind {
		case kindProduct:
			dir.Products = append(dir.Products, entity.Product{
				ID: id, SKU: code, Name: name, Category: strings.TrimSpace(rec[5]),
				CreatedAt: now, UpdatedAt: now,
			})
		case kindWarehouse:
			dir.Warehouses = append(dir.Warehouses, entity.Warehouse{
				ID: id, Name: name, Address: strings.TrimSpace(rec[3]),
				CreatedAt: now, UpdatedAt: now,
			})
		case kindStore:
			dir.Stores = append(dir.Stores, entity.Store{
				ID: id, Code: code, Name: name,
				Address: strings.TrimSpace(rec[3]), City: strings.TrimSpace(rec[4]),
				CreatedAt: now, UpdatedAt: now,
			})
		default:
			return nil, fmt.Errorf("seed: línea %d: tipo %q desconocido", line, kind)
		}
	}
	return dir, nil
}

// Load vuelca el directorio en el seeder.
func (d *Directory) Load(s Seeder) {
	for _, w := range d.Warehouses {
		s.SeedWarehouse(w)
	}
	for _, st := range d.Stores {
		s.SeedStore(st)
	}
	for _, p := range d.Products {
		s.SeedProduct(p)
	}
}

// WriteSQL genera INSERT idempotentes para PostgreSQL.
func (d *Directory) WriteSQL(w io.Writer) error {
	var b strings.Builder
	b.WriteString("-- Directorio generado por cmd/seed\n\n")

	for _, wh := range d.Warehouses {
		fmt.Fprintf(&b, "INSERT INTO warehouses (id, name, address) VALUES ('%s', '%s', '%s')\n",
			wh.ID, escapeSQL(wh.Name), escapeSQL(wh.Address))
		b.WriteString("ON CONFLICT (id) DO UPDATE SET name = EXCLUDED.name, address = EXCLUDED.address, updated_at = now();\n")
	}
	for _, st := range d.Stores {
		fmt.Fprintf(&b, "INSERT INTO stores (id, code, name, address, city) VALUES ('%s', '%s', '%s', '%s', '%s')\n",
			st.ID, escapeSQL(st.Code), escapeSQL(st.Name), escapeSQL(st.Address), escapeSQL(st.City))
		b.WriteString("ON CONFLICT (code) DO UPDATE SET name = EXCLUDED.name, address = EXCLUDED.address, city = EXCLUDED.city, updated_at = now();\n")
	}
	for _, p := range d.Products {
		fmt.Fprintf(&b, "INSERT INTO products (id, sku, name, category) VALUES ('%s', '%s', '%s', '%s')\n",
			p.ID, escapeSQL(p.SKU), escapeSQL(p.Name), escapeSQL(p.Category))
		b.WriteString("ON CONFLICT (sku) DO UPDATE SET name = EXCLUDED.name, category = EXCLUDED.category, updated_at = now();\n")
	}

	_, err := io.WriteString(w, b.String())
	return err
}

func escapeSQL(s string) string {
	return strings.ReplaceAll(s, "'", "''")
}
