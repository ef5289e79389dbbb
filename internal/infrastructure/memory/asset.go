package memory

import (
	"context"
	"sort"
	"time"

	"github.com/jhoicas/warehouse-ops/internal/domain"
	"github.com/jhoicas/warehouse-ops/internal/domain/entity"
	"github.com/jhoicas/warehouse-ops/internal/domain/repository"
)

var _ repository.AssetRepository = (*AssetRepo)(nil)

// AssetRepo registro de activos y bitácora en memoria.
type AssetRepo struct{ a access }

func (r *AssetRepo) Create(_ context.Context, asset *entity.Asset) error {
	return r.a.with(func(st *state) error {
		if _, ok := st.assets[asset.ID]; ok {
			return domain.ErrDuplicate
		}
		for _, other := range st.assets {
			if other.SerialNumber == asset.SerialNumber {
				return domain.ErrDuplicate
			}
		}
		st.assets[asset.ID] = *asset
		return nil
	})
}

func (r *AssetRepo) GetByID(_ context.Context, id string) (*entity.Asset, error) {
	var out *entity.Asset
	_ = r.a.with(func(st *state) error {
		if a, ok := st.assets[id]; ok {
			out = &a
		}
		return nil
	})
	return out, nil
}

func (r *AssetRepo) GetBySerial(_ context.Context, serial string) (*entity.Asset, error) {
	var out *entity.Asset
	_ = r.a.with(func(st *state) error {
		for _, a := range st.assets {
			if a.SerialNumber == serial {
				a := a
				out = &a
				return nil
			}
		}
		return nil
	})
	return out, nil
}

func (r *AssetRepo) GetForUpdate(ctx context.Context, id string) (*entity.Asset, error) {
	return r.GetByID(ctx, id)
}

func (r *AssetRepo) Update(_ context.Context, asset *entity.Asset) error {
	return r.a.with(func(st *state) error {
		if _, ok := st.assets[asset.ID]; !ok {
			return domain.ErrNotFound
		}
		st.assets[asset.ID] = *asset
		return nil
	})
}

func (r *AssetRepo) TransitionByShipment(_ context.Context, shipmentID string, from, to entity.ProcessStatus, loc repository.Location) ([]*entity.Asset, error) {
	var out []*entity.Asset
	_ = r.a.with(func(st *state) error {
		lines := make([]entity.ShipmentItem, 0)
		for _, it := range st.shipItems {
			if it.ShipmentID == shipmentID {
				lines = append(lines, it)
			}
		}
		sort.Slice(lines, func(i, j int) bool {
			if lines[i].CreatedAt.Equal(lines[j].CreatedAt) {
				return lines[i].ID < lines[j].ID
			}
			return lines[i].CreatedAt.Before(lines[j].CreatedAt)
		})
		now := time.Now()
		for _, it := range lines {
			a, ok := st.assets[it.AssetID]
			if !ok || a.ProcessStatus != from {
				continue
			}
			a.ProcessStatus = to
			a.WarehouseID = loc.WarehouseID
			a.StoreID = loc.StoreID
			a.UpdatedAt = now
			st.assets[a.ID] = a
			a2 := a
			out = append(out, &a2)
		}
		return nil
	})
	return out, nil
}

func (r *AssetRepo) CountAvailableByProduct(_ context.Context, productID string) (int, error) {
	n := 0
	_ = r.a.with(func(st *state) error {
		for _, a := range st.assets {
			if a.ProductID == productID && a.ProcessStatus == entity.ProcessAvailable && a.StoreID == nil {
				n++
			}
		}
		return nil
	})
	return n, nil
}

func (r *AssetRepo) AppendHistory(_ context.Context, h *entity.AssetHistory) error {
	return r.a.with(func(st *state) error {
		st.history = append(st.history, *h)
		return nil
	})
}

func (r *AssetRepo) ListHistory(_ context.Context, assetID string) ([]*entity.AssetHistory, error) {
	out := []*entity.AssetHistory{}
	_ = r.a.with(func(st *state) error {
		for _, h := range st.history {
			if h.AssetID == assetID {
				h := h
				out = append(out, &h)
			}
		}
		return nil
	})
	return out, nil
}
