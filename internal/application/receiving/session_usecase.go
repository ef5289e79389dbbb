package receiving

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/warehouse-ops/internal/application/dto"
	"github.com/jhoicas/warehouse-ops/internal/application/ports"
	"github.com/jhoicas/warehouse-ops/internal/domain"
	"github.com/jhoicas/warehouse-ops/internal/domain/entity"
	domrcv "github.com/jhoicas/warehouse-ops/internal/domain/receiving"
	"github.com/jhoicas/warehouse-ops/internal/domain/repository"
	"github.com/jhoicas/warehouse-ops/pkg/logger"
)

// SessionUseCase convierte escaneos en cantidades recibidas y las confirma en el libro de stock.
type SessionUseCase struct {
	txRunner      TxRunner
	sessionRepo   repository.ReceivingRepository
	productRepo   repository.ProductRepository
	warehouseRepo repository.WarehouseRepository
	modes         *ModeStore
	parser        ports.InvoiceParser
	reports       ports.ReceivingReportGenerator
	notifier      ports.Notifier
	log           *logger.Logger
}

// SessionDeps dependencias del caso de uso; Parser y Reports son opcionales.
type SessionDeps struct {
	TxRunner      TxRunner
	SessionRepo   repository.ReceivingRepository
	ProductRepo   repository.ProductRepository
	WarehouseRepo repository.WarehouseRepository
	Modes         *ModeStore
	Parser        ports.InvoiceParser
	Reports       ports.ReceivingReportGenerator
	Notifier      ports.Notifier
	Log           *logger.Logger
}

// NewSessionUseCase construye el caso de uso.
func NewSessionUseCase(deps SessionDeps) *SessionUseCase {
	uc := &SessionUseCase{
		txRunner:      deps.TxRunner,
		sessionRepo:   deps.SessionRepo,
		productRepo:   deps.ProductRepo,
		warehouseRepo: deps.WarehouseRepo,
		modes:         deps.Modes,
		parser:        deps.Parser,
		reports:       deps.Reports,
		notifier:      deps.Notifier,
		log:           deps.Log,
	}
	if uc.modes == nil {
		uc.modes = NewModeStore(nil)
	}
	if uc.notifier == nil {
		uc.notifier = ports.NopNotifier{}
	}
	if uc.log == nil {
		uc.log = logger.Nop()
	}
	return uc
}

// Open crea una sesión DRAFT con sus líneas esperadas (puede no tener ninguna).
func (uc *SessionUseCase) Open(ctx context.Context, userID string, in dto.OpenSessionRequest) (*dto.SessionResponse, error) {
	if in.WarehouseID == "" {
		return nil, domain.ErrInvalidInput
	}
	wh, err := uc.warehouseRepo.GetByID(ctx, in.WarehouseID)
	if err != nil {
		return nil, err
	}
	if wh == nil {
		return nil, fmt.Errorf("%w: bodega", domain.ErrNotFound)
	}

	now := time.Now()
	session := &entity.ReceivingSession{
		ID:            uuid.New().String(),
		WarehouseID:   in.WarehouseID,
		Status:        entity.ReceivingStatusDraft,
		InvoiceNumber: strings.TrimSpace(in.InvoiceNumber),
		Supplier:      strings.TrimSpace(in.Supplier),
		CreatedBy:     userID,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	for i, req := range in.Items {
		item, err := uc.buildItem(ctx, session.ID, i+1, req, now)
		if err != nil {
			return nil, fmt.Errorf("línea %d: %w", i+1, err)
		}
		session.Items = append(session.Items, item)
	}

	err = uc.txRunner.RunReceiving(ctx, func(
		sessionRepo repository.ReceivingRepository,
		_ repository.StockRepository,
		_ repository.InventoryMovementRepository,
	) error {
		if err := sessionRepo.CreateSession(ctx, session); err != nil {
			return err
		}
		for _, it := range session.Items {
			if err := sessionRepo.AddItem(ctx, it); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	out := toSessionResponse(session)
	return &out, nil
}

// OpenFromInvoice interpreta la factura XLSX del proveedor y abre la sesión con sus líneas.
func (uc *SessionUseCase) OpenFromInvoice(ctx context.Context, userID, warehouseID string, r io.Reader) (*dto.SessionResponse, error) {
	if uc.parser == nil {
		return nil, fmt.Errorf("%w: importación de facturas no configurada", domain.ErrInvalidInput)
	}
	doc, err := uc.parser.Parse(r)
	if err != nil {
		return nil, err
	}
	req := dto.OpenSessionRequest{
		WarehouseID:   warehouseID,
		InvoiceNumber: doc.InvoiceNumber,
		Supplier:      doc.Supplier,
	}
	for _, l := range doc.Lines {
		cost := l.UnitCost
		req.Items = append(req.Items, dto.ReceivingItemRequest{
			Name:             l.Name,
			SKU:              l.SKU,
			ExpectedQuantity: l.Quantity,
			UnitCost:         &cost,
		})
	}
	return uc.Open(ctx, userID, req)
}

// Get obtiene la sesión con líneas y escaneos.
func (uc *SessionUseCase) Get(ctx context.Context, id string) (*dto.SessionResponse, error) {
	s, err := uc.loadSession(ctx, id)
	if err != nil {
		return nil, err
	}
	out := toSessionResponse(s)
	return &out, nil
}

// AddItem agrega una línea esperada al final de la sesión.
func (uc *SessionUseCase) AddItem(ctx context.Context, sessionID string, in dto.ReceivingItemRequest) (*dto.ReceivingItemResponse, error) {
	var item *entity.ReceivingItem
	err := uc.txRunner.RunReceiving(ctx, func(
		sessionRepo repository.ReceivingRepository,
		_ repository.StockRepository,
		_ repository.InventoryMovementRepository,
	) error {
		s, err := sessionRepo.GetSessionForUpdate(ctx, sessionID)
		if err != nil {
			return err
		}
		if s == nil {
			return domain.ErrNotFound
		}
		if err := domrcv.EnsureOpen(s); err != nil {
			return err
		}
		position := 1
		for _, it := range s.Items {
			if it.Position >= position {
				position = it.Position + 1
			}
		}
		item, err = uc.buildItem(ctx, s.ID, position, in, time.Now())
		if err != nil {
			return err
		}
		return sessionRepo.AddItem(ctx, item)
	})
	if err != nil {
		return nil, err
	}
	out := toItemResponse(item)
	return &out, nil
}

// MapItem asocia la línea a un producto del catálogo mientras la sesión siga abierta.
func (uc *SessionUseCase) MapItem(ctx context.Context, itemID string, in dto.MapItemRequest) (*dto.ReceivingItemResponse, error) {
	p, err := uc.productRepo.GetByID(ctx, in.ProductID)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, fmt.Errorf("%w: producto", domain.ErrNotFound)
	}
	var item *entity.ReceivingItem
	err = uc.txRunner.RunReceiving(ctx, func(
		sessionRepo repository.ReceivingRepository,
		_ repository.StockRepository,
		_ repository.InventoryMovementRepository,
	) error {
		var err error
		item, err = lockItem(ctx, sessionRepo, itemID)
		if err != nil {
			return err
		}
		if err := sessionRepo.UpdateItemProduct(ctx, item.ID, p.ID); err != nil {
			return err
		}
		item.ProductID = &p.ID
		return nil
	})
	if err != nil {
		return nil, err
	}
	out := toItemResponse(item)
	return &out, nil
}

// Scan busca la línea por SKU o nombre y agrega un escaneo con la cantidad del modo activo del operador.
// Sin coincidencia devuelve ErrScanNoMatch y no cambia nada.
func (uc *SessionUseCase) Scan(ctx context.Context, operatorID, sessionID string, in dto.ScanRequest) (*dto.ScanResultResponse, error) {
	code := strings.TrimSpace(in.Code)
	if code == "" {
		return nil, domain.ErrInvalidInput
	}
	mode := uc.modes.Get(sessionID, operatorID).Active

	scan := &entity.Scan{
		ID:         uuid.New().String(),
		Quantity:   mode.Quantity(),
		Code:       mode.TagCode(code),
		OperatorID: operatorID,
		CreatedAt:  time.Now(),
	}
	session, err := uc.appendScan(ctx, sessionID, scan, func(s *entity.ReceivingSession) (*entity.ReceivingItem, error) {
		item := domrcv.MatchItem(s.Items, code)
		if item == nil {
			return nil, fmt.Errorf("%w: %q", domain.ErrScanNoMatch, code)
		}
		return item, nil
	})
	if err != nil {
		return nil, err
	}

	uc.publish(ctx, ports.Event{
		Type:     ports.EventReceivingScanned,
		Entity:   "receiving_session",
		EntityID: sessionID,
		Message:  fmt.Sprintf("escaneo %s +%d", scan.Code, scan.Quantity),
	})
	return &dto.ScanResultResponse{
		Scan:     toScanResponse(scan),
		Progress: toProgressResponse(session, domrcv.Summarize(session)),
	}, nil
}

// ManualEntry agrega una cantidad con signo a la línea indicada. Cero se rechaza sin crear escaneo.
func (uc *SessionUseCase) ManualEntry(ctx context.Context, operatorID, sessionID string, in dto.ManualEntryRequest) (*dto.ScanResultResponse, error) {
	if in.Quantity == 0 {
		return nil, domain.ErrZeroQuantity
	}
	scan := &entity.Scan{
		ID:         uuid.New().String(),
		Quantity:   in.Quantity,
		IsManual:   true,
		OperatorID: operatorID,
		CreatedAt:  time.Now(),
	}
	session, err := uc.appendScan(ctx, sessionID, scan, func(s *entity.ReceivingSession) (*entity.ReceivingItem, error) {
		for _, it := range s.Items {
			if it.ID == in.ItemID {
				return it, nil
			}
		}
		return nil, fmt.Errorf("%w: línea %s", domain.ErrNotFound, in.ItemID)
	})
	if err != nil {
		return nil, err
	}
	return &dto.ScanResultResponse{
		Scan:     toScanResponse(scan),
		Progress: toProgressResponse(session, domrcv.Summarize(session)),
	}, nil
}

// appendScan bloquea la sesión, resuelve y bloquea la línea, agrega el escaneo y pasa la sesión a IN_PROGRESS si estaba en DRAFT.
// Devuelve la sesión recargada dentro de la misma transacción.
func (uc *SessionUseCase) appendScan(
	ctx context.Context,
	sessionID string,
	scan *entity.Scan,
	resolve func(*entity.ReceivingSession) (*entity.ReceivingItem, error),
) (*entity.ReceivingSession, error) {
	var session *entity.ReceivingSession
	err := uc.txRunner.RunReceiving(ctx, func(
		sessionRepo repository.ReceivingRepository,
		_ repository.StockRepository,
		_ repository.InventoryMovementRepository,
	) error {
		s, err := sessionRepo.GetSessionForUpdate(ctx, sessionID)
		if err != nil {
			return err
		}
		if s == nil {
			return domain.ErrNotFound
		}
		if err := domrcv.EnsureOpen(s); err != nil {
			return err
		}
		item, err := resolve(s)
		if err != nil {
			return err
		}
		if _, err := sessionRepo.GetItemForUpdate(ctx, item.ID); err != nil {
			return err
		}
		scan.ItemID = item.ID
		if err := sessionRepo.AppendScan(ctx, scan); err != nil {
			return err
		}
		if s.Status == entity.ReceivingStatusDraft {
			if err := sessionRepo.UpdateSessionStatus(ctx, s.ID, entity.ReceivingStatusInProgress, nil); err != nil {
				return err
			}
		}
		session, err = sessionRepo.GetSession(ctx, sessionID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return session, nil
}

// lockItem bloquea primero la sesión y después la línea, el mismo orden que appendScan y Commit.
// Una escritura concurrente con Commit espera su fin y ve la sesión COMPLETED.
func lockItem(ctx context.Context, sessionRepo repository.ReceivingRepository, itemID string) (*entity.ReceivingItem, error) {
	item, err := sessionRepo.GetItem(ctx, itemID)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, domain.ErrNotFound
	}
	s, err := sessionRepo.GetSessionForUpdate(ctx, item.SessionID)
	if err != nil {
		return nil, err
	}
	if s == nil {
		return nil, domain.ErrNotFound
	}
	if err := domrcv.EnsureOpen(s); err != nil {
		return nil, err
	}
	item, err = sessionRepo.GetItemForUpdate(ctx, itemID)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, domain.ErrNotFound
	}
	return item, nil
}

// DeleteScan elimina un escaneo mientras la sesión no esté completada y devuelve el progreso recalculado.
func (uc *SessionUseCase) DeleteScan(ctx context.Context, scanID string) (*dto.ProgressResponse, error) {
	var session *entity.ReceivingSession
	err := uc.txRunner.RunReceiving(ctx, func(
		sessionRepo repository.ReceivingRepository,
		_ repository.StockRepository,
		_ repository.InventoryMovementRepository,
	) error {
		scan, err := sessionRepo.GetScan(ctx, scanID)
		if err != nil {
			return err
		}
		if scan == nil {
			return domain.ErrNotFound
		}
		item, err := lockItem(ctx, sessionRepo, scan.ItemID)
		if err != nil {
			return err
		}
		if err := sessionRepo.DeleteScan(ctx, scanID); err != nil {
			return err
		}
		session, err = sessionRepo.GetSession(ctx, item.SessionID)
		return err
	})
	if err != nil {
		return nil, err
	}
	out := toProgressResponse(session, domrcv.Summarize(session))
	return &out, nil
}

// Progress devuelve totales, porcentaje acotado y advertencias de la sesión.
func (uc *SessionUseCase) Progress(ctx context.Context, sessionID string) (*dto.ProgressResponse, error) {
	s, err := uc.loadSession(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	out := toProgressResponse(s, domrcv.Summarize(s))
	return &out, nil
}

// Mode devuelve la configuración de escaneo del operador en la sesión.
func (uc *SessionUseCase) Mode(ctx context.Context, operatorID, sessionID string) (*dto.ScanModeResponse, error) {
	if _, err := uc.loadSession(ctx, sessionID); err != nil {
		return nil, err
	}
	out := toModeResponse(uc.modes.Get(sessionID, operatorID))
	return &out, nil
}

// RequestBox abre el diálogo de modo caja con los multiplicadores sugeridos.
func (uc *SessionUseCase) RequestBox(ctx context.Context, operatorID, sessionID string) (*dto.ScanModeResponse, error) {
	return uc.updateMode(ctx, operatorID, sessionID, func(cfg *domrcv.ModeConfig) error {
		cfg.RequestBox(uc.modes.Suggestions())
		return nil
	})
}

// ConfirmBox activa el modo caja con el multiplicador elegido (>= 1).
func (uc *SessionUseCase) ConfirmBox(ctx context.Context, operatorID, sessionID string, in dto.ConfirmBoxRequest) (*dto.ScanModeResponse, error) {
	return uc.updateMode(ctx, operatorID, sessionID, func(cfg *domrcv.ModeConfig) error {
		return cfg.ConfirmBox(in.Multiplier)
	})
}

// CancelBox cierra el diálogo sin cambiar el modo activo.
func (uc *SessionUseCase) CancelBox(ctx context.Context, operatorID, sessionID string) (*dto.ScanModeResponse, error) {
	return uc.updateMode(ctx, operatorID, sessionID, func(cfg *domrcv.ModeConfig) error {
		cfg.CancelBox()
		return nil
	})
}

// DisableBox vuelve al modo unitario.
func (uc *SessionUseCase) DisableBox(ctx context.Context, operatorID, sessionID string) (*dto.ScanModeResponse, error) {
	return uc.updateMode(ctx, operatorID, sessionID, func(cfg *domrcv.ModeConfig) error {
		cfg.DisableBox()
		return nil
	})
}

func (uc *SessionUseCase) updateMode(ctx context.Context, operatorID, sessionID string, fn func(*domrcv.ModeConfig) error) (*dto.ScanModeResponse, error) {
	s, err := uc.loadSession(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if err := domrcv.EnsureOpen(s); err != nil {
		return nil, err
	}
	cfg, err := uc.modes.Update(sessionID, operatorID, fn)
	if err != nil {
		return nil, err
	}
	out := toModeResponse(cfg)
	return &out, nil
}

// Commit aplica en una sola transacción el total escaneado de cada línea asociada a un producto
// sobre el libro de stock de la bodega de la sesión y la marca COMPLETED.
// Cualquier fallo revierte todo y la sesión conserva su estado.
func (uc *SessionUseCase) Commit(ctx context.Context, userID, sessionID string) (*dto.CommitResponse, error) {
	var (
		session  *entity.ReceivingSession
		applied  []dto.CommitLineDTO
		warnings []dto.WarningDTO
	)
	err := uc.txRunner.RunReceiving(ctx, func(
		sessionRepo repository.ReceivingRepository,
		stockRepo repository.StockRepository,
		movRepo repository.InventoryMovementRepository,
	) error {
		applied, warnings = nil, nil
		s, err := sessionRepo.GetSessionForUpdate(ctx, sessionID)
		if err != nil {
			return err
		}
		if s == nil {
			return domain.ErrNotFound
		}
		if err := domrcv.CanCommit(s); err != nil {
			return err
		}
		warnings = toWarnings(domrcv.Summarize(s).Warnings)

		for _, it := range s.Items {
			if err := ctx.Err(); err != nil {
				return err
			}
			qty := it.ScannedQuantity()
			if qty == 0 || it.ProductID == nil {
				continue
			}
			stock, err := stockRepo.Increment(ctx, *it.ProductID, s.WarehouseID, qty, nil)
			if err != nil {
				return fmt.Errorf("línea %s: %w", label(it), err)
			}
			mov := &entity.InventoryMovement{
				ID:          uuid.New().String(),
				StockItemID: stock.ID,
				ProductID:   stock.ProductID,
				WarehouseID: stock.WarehouseID,
				Type:        entity.MovementTypeReceipt,
				Quantity:    qty,
				UnitCost:    it.UnitCost,
				Reference:   s.ID,
				Reason:      receiptReason(s),
				CreatedAt:   time.Now(),
				CreatedBy:   userID,
			}
			if err := movRepo.Create(ctx, mov); err != nil {
				return err
			}
			applied = append(applied, dto.CommitLineDTO{
				ItemID:        it.ID,
				ProductID:     stock.ProductID,
				StockItemID:   stock.ID,
				Quantity:      qty,
				NegativeStock: stock.Quantity < 0,
			})
		}

		completedAt := time.Now()
		if err := sessionRepo.UpdateSessionStatus(ctx, s.ID, entity.ReceivingStatusCompleted, &completedAt); err != nil {
			return err
		}
		s.Status = entity.ReceivingStatusCompleted
		s.CompletedAt = &completedAt
		s.UpdatedAt = completedAt
		session = s
		return nil
	})
	if err != nil {
		return nil, err
	}

	uc.modes.Forget(sessionID)
	for _, w := range warnings {
		uc.log.Warn().Str("session_id", sessionID).Str("type", w.Type).Str("item_id", w.ItemID).Msg(w.Message)
	}
	total := 0
	for _, a := range applied {
		total += a.Quantity
	}
	uc.publish(ctx, ports.Event{
		Type:       ports.EventReceivingCommit,
		Entity:     "receiving_session",
		EntityID:   sessionID,
		Message:    fmt.Sprintf("recepción confirmada: %d unidades en %d líneas", total, len(applied)),
		Attributes: map[string]string{"warehouse_id": session.WarehouseID, "units": strconv.Itoa(total)},
	})
	if applied == nil {
		applied = []dto.CommitLineDTO{}
	}
	return &dto.CommitResponse{Session: toSessionResponse(session), Applied: applied, Warnings: warnings}, nil
}

// Delete elimina la sesión con sus líneas y escaneos mientras no esté completada.
func (uc *SessionUseCase) Delete(ctx context.Context, sessionID string) error {
	err := uc.txRunner.RunReceiving(ctx, func(
		sessionRepo repository.ReceivingRepository,
		_ repository.StockRepository,
		_ repository.InventoryMovementRepository,
	) error {
		s, err := sessionRepo.GetSessionForUpdate(ctx, sessionID)
		if err != nil {
			return err
		}
		if s == nil {
			return domain.ErrNotFound
		}
		if err := domrcv.EnsureOpen(s); err != nil {
			return err
		}
		return sessionRepo.DeleteSession(ctx, sessionID)
	})
	if err != nil {
		return err
	}
	uc.modes.Forget(sessionID)
	return nil
}

// Report genera el PDF de la sesión con su progreso.
func (uc *SessionUseCase) Report(ctx context.Context, sessionID string) ([]byte, error) {
	if uc.reports == nil {
		return nil, fmt.Errorf("generador de reportes no configurado")
	}
	s, err := uc.loadSession(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	wh, err := uc.warehouseRepo.GetByID(ctx, s.WarehouseID)
	if err != nil {
		return nil, err
	}
	if wh == nil {
		wh = &entity.Warehouse{ID: s.WarehouseID}
	}
	return uc.reports.GenerateReceivingReport(s, wh, domrcv.Summarize(s))
}

func (uc *SessionUseCase) loadSession(ctx context.Context, id string) (*entity.ReceivingSession, error) {
	s, err := uc.sessionRepo.GetSession(ctx, id)
	if err != nil {
		return nil, err
	}
	if s == nil {
		return nil, domain.ErrNotFound
	}
	return s, nil
}

// buildItem valida la línea y resuelve el producto por ID o SKU.
func (uc *SessionUseCase) buildItem(ctx context.Context, sessionID string, position int, in dto.ReceivingItemRequest, now time.Time) (*entity.ReceivingItem, error) {
	name := strings.TrimSpace(in.Name)
	sku := strings.TrimSpace(in.SKU)
	if name == "" && sku == "" {
		return nil, fmt.Errorf("%w: la línea requiere nombre o SKU", domain.ErrInvalidInput)
	}
	if in.ExpectedQuantity < 0 {
		return nil, fmt.Errorf("%w: cantidad esperada negativa", domain.ErrInvalidInput)
	}
	var productID *string
	if in.ProductID != nil && *in.ProductID != "" {
		p, err := uc.productRepo.GetByID(ctx, *in.ProductID)
		if err != nil {
			return nil, err
		}
		if p == nil {
			return nil, fmt.Errorf("%w: producto %s", domain.ErrNotFound, *in.ProductID)
		}
		productID = &p.ID
	} else if sku != "" {
		p, err := uc.productRepo.GetBySKU(ctx, sku)
		if err != nil {
			return nil, err
		}
		if p != nil {
			productID = &p.ID
			if name == "" {
				name = p.Name
			}
		}
	}
	if in.NewProduct && productID == nil {
		return nil, domain.ErrUnmappedNewProduct
	}
	cost := decimal.Zero
	if in.UnitCost != nil {
		if in.UnitCost.IsNegative() {
			return nil, fmt.Errorf("%w: costo unitario negativo", domain.ErrInvalidInput)
		}
		cost = *in.UnitCost
	}
	return &entity.ReceivingItem{
		ID:               uuid.New().String(),
		SessionID:        sessionID,
		Position:         position,
		Name:             name,
		SKU:              sku,
		ProductID:        productID,
		ExpectedQuantity: in.ExpectedQuantity,
		UnitCost:         cost,
		CreatedAt:        now,
	}, nil
}

func (uc *SessionUseCase) publish(ctx context.Context, events ...ports.Event) {
	ports.Publish(ctx, uc.notifier, events, func(e ports.Event, err error) {
		uc.log.Warn().Err(err).Str("event", e.Type).Msg("no se pudo publicar el evento")
	})
}

func label(it *entity.ReceivingItem) string {
	if it.SKU != "" {
		return it.SKU
	}
	return it.Name
}

func receiptReason(s *entity.ReceivingSession) string {
	if s.InvoiceNumber == "" {
		return "recepción"
	}
	return "factura " + s.InvoiceNumber
}
