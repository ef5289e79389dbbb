package receiving

import (
	"github.com/jhoicas/warehouse-ops/internal/application/dto"
	"github.com/jhoicas/warehouse-ops/internal/domain/entity"
	domrcv "github.com/jhoicas/warehouse-ops/internal/domain/receiving"
)

func toScanResponse(s *entity.Scan) dto.ScanResponse {
	return dto.ScanResponse{
		ID:         s.ID,
		ItemID:     s.ItemID,
		Quantity:   s.Quantity,
		IsManual:   s.IsManual,
		Code:       s.Code,
		OperatorID: s.OperatorID,
		CreatedAt:  s.CreatedAt,
	}
}

func toSessionResponse(s *entity.ReceivingSession) dto.SessionResponse {
	out := dto.SessionResponse{
		ID:            s.ID,
		WarehouseID:   s.WarehouseID,
		Status:        s.Status,
		InvoiceNumber: s.InvoiceNumber,
		Supplier:      s.Supplier,
		CreatedBy:     s.CreatedBy,
		Items:         make([]dto.ReceivingItemResponse, 0, len(s.Items)),
		CompletedAt:   s.CompletedAt,
		CreatedAt:     s.CreatedAt,
		UpdatedAt:     s.UpdatedAt,
	}
	for _, it := range s.Items {
		out.Items = append(out.Items, toItemResponse(it))
	}
	return out
}

func toItemResponse(it *entity.ReceivingItem) dto.ReceivingItemResponse {
	scans := make([]dto.ScanResponse, 0, len(it.Scans))
	for _, sc := range it.Scans {
		scans = append(scans, toScanResponse(sc))
	}
	return dto.ReceivingItemResponse{
		ID:               it.ID,
		Position:         it.Position,
		Name:             it.Name,
		SKU:              it.SKU,
		ProductID:        it.ProductID,
		ExpectedQuantity: it.ExpectedQuantity,
		ScannedQuantity:  it.ScannedQuantity(),
		UnitCost:         it.UnitCost,
		Scans:            scans,
	}
}

func toWarnings(list []domrcv.Warning) []dto.WarningDTO {
	out := make([]dto.WarningDTO, 0, len(list))
	for _, w := range list {
		out = append(out, dto.WarningDTO{Type: w.Type, ItemID: w.ItemID, Message: w.Message})
	}
	return out
}

func toProgressResponse(s *entity.ReceivingSession, p domrcv.Progress) dto.ProgressResponse {
	items := make([]dto.ItemProgressDTO, 0, len(p.Items))
	for _, it := range p.Items {
		items = append(items, dto.ItemProgressDTO{
			ItemID:   it.ItemID,
			Name:     it.Name,
			SKU:      it.SKU,
			Expected: it.Expected,
			Scanned:  it.Scanned,
			Mapped:   it.Mapped,
		})
	}
	return dto.ProgressResponse{
		SessionID:     s.ID,
		Status:        s.Status,
		TotalExpected: p.TotalExpected,
		TotalScanned:  p.TotalScanned,
		Percent:       p.Percent,
		Items:         items,
		Warnings:      toWarnings(p.Warnings),
	}
}

func toModeResponse(cfg domrcv.ModeConfig) dto.ScanModeResponse {
	out := dto.ScanModeResponse{
		Mode:       "single",
		Multiplier: cfg.Active.Quantity(),
		Pending:    cfg.Pending,
	}
	if cfg.Active.Box {
		out.Mode = "box"
	}
	if cfg.Pending {
		out.Suggestions = cfg.Suggestions
	}
	return out
}
