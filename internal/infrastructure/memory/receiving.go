package memory

import (
	"context"
	"sort"
	"time"

	"github.com/jhoicas/warehouse-ops/internal/domain"
	"github.com/jhoicas/warehouse-ops/internal/domain/entity"
	"github.com/jhoicas/warehouse-ops/internal/domain/repository"
)

var _ repository.ReceivingRepository = (*ReceivingRepo)(nil)

// ReceivingRepo sesiones, líneas y escaneos en memoria.
type ReceivingRepo struct{ a access }

func (r *ReceivingRepo) CreateSession(_ context.Context, session *entity.ReceivingSession) error {
	return r.a.with(func(st *state) error {
		if _, ok := st.sessions[session.ID]; ok {
			return domain.ErrDuplicate
		}
		s := *session
		s.Items = nil
		st.sessions[s.ID] = s
		return nil
	})
}

func (r *ReceivingRepo) GetSession(_ context.Context, id string) (*entity.ReceivingSession, error) {
	var out *entity.ReceivingSession
	_ = r.a.with(func(st *state) error {
		out = loadSession(st, id)
		return nil
	})
	return out, nil
}

func (r *ReceivingRepo) GetSessionForUpdate(ctx context.Context, id string) (*entity.ReceivingSession, error) {
	return r.GetSession(ctx, id)
}

func (r *ReceivingRepo) UpdateSessionStatus(_ context.Context, id, status string, completedAt *time.Time) error {
	return r.a.with(func(st *state) error {
		s, ok := st.sessions[id]
		if !ok {
			return domain.ErrNotFound
		}
		s.Status = status
		s.CompletedAt = completedAt
		s.UpdatedAt = time.Now()
		st.sessions[id] = s
		return nil
	})
}

func (r *ReceivingRepo) DeleteSession(_ context.Context, id string) error {
	return r.a.with(func(st *state) error {
		if _, ok := st.sessions[id]; !ok {
			return domain.ErrNotFound
		}
		for itemID, it := range st.items {
			if it.SessionID != id {
				continue
			}
			for scanID, sc := range st.scans {
				if sc.ItemID == itemID {
					delete(st.scans, scanID)
				}
			}
			delete(st.items, itemID)
		}
		delete(st.sessions, id)
		return nil
	})
}

func (r *ReceivingRepo) AddItem(_ context.Context, item *entity.ReceivingItem) error {
	return r.a.with(func(st *state) error {
		if _, ok := st.sessions[item.SessionID]; !ok {
			return domain.ErrNotFound
		}
		it := *item
		it.Scans = nil
		st.items[it.ID] = it
		return nil
	})
}

func (r *ReceivingRepo) GetItem(_ context.Context, id string) (*entity.ReceivingItem, error) {
	var out *entity.ReceivingItem
	_ = r.a.with(func(st *state) error {
		out = loadItem(st, id)
		return nil
	})
	return out, nil
}

func (r *ReceivingRepo) GetItemForUpdate(ctx context.Context, id string) (*entity.ReceivingItem, error) {
	return r.GetItem(ctx, id)
}

func (r *ReceivingRepo) UpdateItemProduct(_ context.Context, itemID, productID string) error {
	return r.a.with(func(st *state) error {
		it, ok := st.items[itemID]
		if !ok {
			return domain.ErrNotFound
		}
		pid := productID
		it.ProductID = &pid
		st.items[itemID] = it
		return nil
	})
}

func (r *ReceivingRepo) AppendScan(_ context.Context, scan *entity.Scan) error {
	return r.a.with(func(st *state) error {
		if _, ok := st.items[scan.ItemID]; !ok {
			return domain.ErrNotFound
		}
		scan.Seq = st.nextSeq()
		st.scans[scan.ID] = *scan
		return nil
	})
}

func (r *ReceivingRepo) GetScan(_ context.Context, id string) (*entity.Scan, error) {
	var out *entity.Scan
	_ = r.a.with(func(st *state) error {
		if sc, ok := st.scans[id]; ok {
			out = &sc
		}
		return nil
	})
	return out, nil
}

func (r *ReceivingRepo) DeleteScan(_ context.Context, id string) error {
	return r.a.with(func(st *state) error {
		if _, ok := st.scans[id]; !ok {
			return domain.ErrNotFound
		}
		delete(st.scans, id)
		return nil
	})
}

func loadSession(st *state, id string) *entity.ReceivingSession {
	s, ok := st.sessions[id]
	if !ok {
		return nil
	}
	s.Items = nil
	for itemID, it := range st.items {
		if it.SessionID == id {
			s.Items = append(s.Items, loadItem(st, itemID))
		}
	}
	sort.Slice(s.Items, func(i, j int) bool { return s.Items[i].Position < s.Items[j].Position })
	return &s
}

func loadItem(st *state, id string) *entity.ReceivingItem {
	it, ok := st.items[id]
	if !ok {
		return nil
	}
	it.Scans = nil
	for _, sc := range st.scans {
		if sc.ItemID == id {
			sc := sc
			it.Scans = append(it.Scans, &sc)
		}
	}
	sort.Slice(it.Scans, func(i, j int) bool { return it.Scans[i].Seq < it.Scans[j].Seq })
	return &it
}
