package memory

import (
	"context"
	"sort"

	"github.com/jhoicas/warehouse-ops/internal/domain"
	"github.com/jhoicas/warehouse-ops/internal/domain/entity"
	"github.com/jhoicas/warehouse-ops/internal/domain/repository"
)

var (
	_ repository.ShipmentRepository = (*ShipmentRepo)(nil)
	_ repository.DeliveryRepository = (*DeliveryRepo)(nil)
)

// ShipmentRepo envíos y líneas en memoria.
type ShipmentRepo struct{ a access }

func (r *ShipmentRepo) Create(_ context.Context, shipment *entity.Shipment) error {
	return r.a.with(func(st *state) error {
		if _, ok := st.shipments[shipment.ID]; ok {
			return domain.ErrDuplicate
		}
		s := *shipment
		s.Items = nil
		st.shipments[s.ID] = s
		return nil
	})
}

func (r *ShipmentRepo) GetByID(_ context.Context, id string) (*entity.Shipment, error) {
	var out *entity.Shipment
	_ = r.a.with(func(st *state) error {
		s, ok := st.shipments[id]
		if !ok {
			return nil
		}
		s.Items = nil
		for _, it := range st.shipItems {
			if it.ShipmentID == id {
				it := it
				s.Items = append(s.Items, &it)
			}
		}
		sort.Slice(s.Items, func(i, j int) bool {
			if s.Items[i].CreatedAt.Equal(s.Items[j].CreatedAt) {
				return s.Items[i].ID < s.Items[j].ID
			}
			return s.Items[i].CreatedAt.Before(s.Items[j].CreatedAt)
		})
		out = &s
		return nil
	})
	return out, nil
}

func (r *ShipmentRepo) GetForUpdate(ctx context.Context, id string) (*entity.Shipment, error) {
	return r.GetByID(ctx, id)
}

func (r *ShipmentRepo) Update(_ context.Context, shipment *entity.Shipment) error {
	return r.a.with(func(st *state) error {
		if _, ok := st.shipments[shipment.ID]; !ok {
			return domain.ErrNotFound
		}
		s := *shipment
		s.Items = nil
		st.shipments[s.ID] = s
		return nil
	})
}

func (r *ShipmentRepo) AddItem(_ context.Context, item *entity.ShipmentItem) error {
	return r.a.with(func(st *state) error {
		if _, ok := st.shipments[item.ShipmentID]; !ok {
			return domain.ErrNotFound
		}
		for _, other := range st.shipItems {
			if other.ShipmentID == item.ShipmentID && other.AssetID == item.AssetID {
				return domain.ErrDuplicate
			}
		}
		st.shipItems[item.ID] = *item
		return nil
	})
}

func (r *ShipmentRepo) GetItem(_ context.Context, id string) (*entity.ShipmentItem, error) {
	var out *entity.ShipmentItem
	_ = r.a.with(func(st *state) error {
		if it, ok := st.shipItems[id]; ok {
			out = &it
		}
		return nil
	})
	return out, nil
}

func (r *ShipmentRepo) UpdateItem(_ context.Context, item *entity.ShipmentItem) error {
	return r.a.with(func(st *state) error {
		if _, ok := st.shipItems[item.ID]; !ok {
			return domain.ErrNotFound
		}
		st.shipItems[item.ID] = *item
		return nil
	})
}

func (r *ShipmentRepo) DeleteItem(_ context.Context, id string) error {
	return r.a.with(func(st *state) error {
		if _, ok := st.shipItems[id]; !ok {
			return domain.ErrNotFound
		}
		delete(st.shipItems, id)
		return nil
	})
}

// DeliveryRepo entregas en memoria.
type DeliveryRepo struct{ a access }

func (r *DeliveryRepo) Create(_ context.Context, d *entity.Delivery) error {
	return r.a.with(func(st *state) error {
		for _, other := range st.deliveries {
			if other.ShipmentID == d.ShipmentID {
				return domain.ErrDuplicate
			}
		}
		st.deliveries[d.ID] = *d
		return nil
	})
}

func (r *DeliveryRepo) GetByID(_ context.Context, id string) (*entity.Delivery, error) {
	var out *entity.Delivery
	_ = r.a.with(func(st *state) error {
		if d, ok := st.deliveries[id]; ok {
			out = &d
		}
		return nil
	})
	return out, nil
}

func (r *DeliveryRepo) GetByShipment(_ context.Context, shipmentID string) (*entity.Delivery, error) {
	var out *entity.Delivery
	_ = r.a.with(func(st *state) error {
		for _, d := range st.deliveries {
			if d.ShipmentID == shipmentID {
				d := d
				out = &d
				return nil
			}
		}
		return nil
	})
	return out, nil
}

func (r *DeliveryRepo) GetForUpdate(ctx context.Context, id string) (*entity.Delivery, error) {
	return r.GetByID(ctx, id)
}

func (r *DeliveryRepo) Update(_ context.Context, d *entity.Delivery) error {
	return r.a.with(func(st *state) error {
		if _, ok := st.deliveries[d.ID]; !ok {
			return domain.ErrNotFound
		}
		st.deliveries[d.ID] = *d
		return nil
	})
}
