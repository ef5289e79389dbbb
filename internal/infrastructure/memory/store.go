// Package memory implementa los puertos de persistencia en memoria.
// Todas las transacciones se serializan detrás de un mutex y un error restaura la foto previa.
package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/jhoicas/warehouse-ops/internal/application/inventory"
	"github.com/jhoicas/warehouse-ops/internal/application/receiving"
	"github.com/jhoicas/warehouse-ops/internal/application/shipping"
	"github.com/jhoicas/warehouse-ops/internal/domain/entity"
	"github.com/jhoicas/warehouse-ops/internal/domain/repository"
)

var (
	_ inventory.TxRunner = (*Store)(nil)
	_ receiving.TxRunner = (*Store)(nil)
	_ shipping.TxRunner  = (*Store)(nil)
)

type state struct {
	products   map[string]entity.Product
	warehouses map[string]entity.Warehouse
	stores     map[string]entity.Store
	stock      map[string]entity.StockItem
	movements  []entity.InventoryMovement
	assets     map[string]entity.Asset
	history    []entity.AssetHistory
	sessions   map[string]entity.ReceivingSession
	items      map[string]entity.ReceivingItem
	scans      map[string]entity.Scan
	shipments  map[string]entity.Shipment
	shipItems  map[string]entity.ShipmentItem
	deliveries map[string]entity.Delivery
	seq        int64
}

func newState() *state {
	return &state{
		products:   map[string]entity.Product{},
		warehouses: map[string]entity.Warehouse{},
		stores:     map[string]entity.Store{},
		stock:      map[string]entity.StockItem{},
		assets:     map[string]entity.Asset{},
		sessions:   map[string]entity.ReceivingSession{},
		items:      map[string]entity.ReceivingItem{},
		scans:      map[string]entity.Scan{},
		shipments:  map[string]entity.Shipment{},
		shipItems:  map[string]entity.ShipmentItem{},
		deliveries: map[string]entity.Delivery{},
	}
}

func copyMap[K comparable, V any](m map[K]V) map[K]V {
	out := make(map[K]V, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

// clone copia los contenedores; los valores guardados nunca se mutan en sitio.
func (s *state) clone() *state {
	return &state{
		products:   copyMap(s.products),
		warehouses: copyMap(s.warehouses),
		stores:     copyMap(s.stores),
		stock:      copyMap(s.stock),
		movements:  append([]entity.InventoryMovement(nil), s.movements...),
		assets:     copyMap(s.assets),
		history:    append([]entity.AssetHistory(nil), s.history...),
		sessions:   copyMap(s.sessions),
		items:      copyMap(s.items),
		scans:      copyMap(s.scans),
		shipments:  copyMap(s.shipments),
		shipItems:  copyMap(s.shipItems),
		deliveries: copyMap(s.deliveries),
		seq:        s.seq,
	}
}

func (s *state) nextSeq() int64 {
	s.seq++
	return s.seq
}

// Store es la base de datos en memoria y su TxRunner.
type Store struct {
	mu sync.Mutex
	st *state
}

// NewStore crea un almacén vacío.
func NewStore() *Store {
	return &Store{st: newState()}
}

// access decide si una operación toma el mutex (fuera de tx) o ya corre dentro de una.
type access struct {
	s  *Store
	tx bool
}

func (a access) with(fn func(st *state) error) error {
	if !a.tx {
		a.s.mu.Lock()
		defer a.s.mu.Unlock()
	}
	return fn(a.s.st)
}

func (s *Store) run(ctx context.Context, fn func(a access) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	snapshot := s.st.clone()
	if err := fn(access{s: s, tx: true}); err != nil {
		s.st = snapshot
		return err
	}
	if err := ctx.Err(); err != nil {
		s.st = snapshot
		return err
	}
	return nil
}

// RunLedger implementa inventory.TxRunner.
func (s *Store) RunLedger(ctx context.Context, fn func(
	stockRepo repository.StockRepository,
	movRepo repository.InventoryMovementRepository,
	assetRepo repository.AssetRepository,
) error) error {
	return s.run(ctx, func(a access) error {
		return fn(&StockRepo{a}, &MovementRepo{a}, &AssetRepo{a})
	})
}

// RunReceiving implementa receiving.TxRunner.
func (s *Store) RunReceiving(ctx context.Context, fn func(
	sessionRepo repository.ReceivingRepository,
	stockRepo repository.StockRepository,
	movRepo repository.InventoryMovementRepository,
) error) error {
	return s.run(ctx, func(a access) error {
		return fn(&ReceivingRepo{a}, &StockRepo{a}, &MovementRepo{a})
	})
}

// RunShipping implementa shipping.TxRunner.
func (s *Store) RunShipping(ctx context.Context, fn func(
	shipmentRepo repository.ShipmentRepository,
	deliveryRepo repository.DeliveryRepository,
	assetRepo repository.AssetRepository,
) error) error {
	return s.run(ctx, func(a access) error {
		return fn(&ShipmentRepo{a}, &DeliveryRepo{a}, &AssetRepo{a})
	})
}

// Repositorios fuera de transacción.
func (s *Store) Products() *ProductRepo     { return &ProductRepo{access{s: s}} }
func (s *Store) Warehouses() *WarehouseRepo { return &WarehouseRepo{access{s: s}} }
func (s *Store) Stores() *StoreRepo         { return &StoreRepo{access{s: s}} }
func (s *Store) Stock() *StockRepo          { return &StockRepo{access{s: s}} }
func (s *Store) Movements() *MovementRepo   { return &MovementRepo{access{s: s}} }
func (s *Store) Assets() *AssetRepo         { return &AssetRepo{access{s: s}} }
func (s *Store) Receiving() *ReceivingRepo  { return &ReceivingRepo{access{s: s}} }
func (s *Store) Shipments() *ShipmentRepo   { return &ShipmentRepo{access{s: s}} }
func (s *Store) Deliveries() *DeliveryRepo  { return &DeliveryRepo{access{s: s}} }

// SeedProduct, SeedWarehouse y SeedStore cargan el directorio de solo lectura.
func (s *Store) SeedProduct(p entity.Product) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.st.products[p.ID] = p
}

func (s *Store) SeedWarehouse(w entity.Warehouse) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.st.warehouses[w.ID] = w
}

func (s *Store) SeedStore(st entity.Store) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.st.stores[st.ID] = st
}

// page aplica offset/limit; limit <= 0 devuelve todo desde offset.
func page[T any](list []T, limit, offset int) []T {
	if offset < 0 {
		offset = 0
	}
	if offset >= len(list) {
		return []T{}
	}
	list = list[offset:]
	if limit > 0 && limit < len(list) {
		list = list[:limit]
	}
	return list
}

func sortedValues[T any](m map[string]T, less func(a, b T) bool) []T {
	out := make([]T, 0, len(m))
	for _, v := range m {
		out = append(out, v)
	}
	sort.Slice(out, func(i, j int) bool { return less(out[i], out[j]) })
	return out
}
