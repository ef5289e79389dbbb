package http_test

import (
	"bytes"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/jhoicas/warehouse-ops/internal/application/dto"
	"github.com/jhoicas/warehouse-ops/internal/application/inventory"
	"github.com/jhoicas/warehouse-ops/internal/application/receiving"
	"github.com/jhoicas/warehouse-ops/internal/application/shipping"
	"github.com/jhoicas/warehouse-ops/internal/application/usecase"
	"github.com/jhoicas/warehouse-ops/internal/domain/entity"
	"github.com/jhoicas/warehouse-ops/internal/infrastructure/excel"
	"github.com/jhoicas/warehouse-ops/internal/infrastructure/memory"
	"github.com/jhoicas/warehouse-ops/internal/infrastructure/pdf"
	apphttp "github.com/jhoicas/warehouse-ops/internal/interfaces/http"
	"github.com/jhoicas/warehouse-ops/pkg/metrics"
)

// newAPI arma la aplicación completa sobre el almacén en memoria.
func newAPI(t *testing.T) *fiber.App {
	t.Helper()
	s := memory.NewStore()
	now := time.Now()
	s.SeedWarehouse(entity.Warehouse{ID: "wh-1", Name: "Bodega Central", CreatedAt: now})
	s.SeedStore(entity.Store{ID: "st-1", Code: "T-001", Name: "Tienda Norte", CreatedAt: now})
	s.SeedProduct(entity.Product{ID: "p-abc", SKU: "ABC", Name: "Router ABC"})

	app := fiber.New()
	apphttp.Router(app, apphttp.RouterDeps{
		WarehouseUC: usecase.NewWarehouseUseCase(s.Warehouses(), s.Stores()),
		ProductUC:   usecase.NewProductUseCase(s.Products()),
		StockUC:     inventory.NewStockLedgerUseCase(s, s.Stock(), s.Assets(), s.Products(), s.Warehouses(), s.Stores(), nil, nil),
		AssetUC:     inventory.NewAssetUseCase(s, s.Assets(), s.Products(), s.Warehouses(), nil, nil),
		ReceivingUC: receiving.NewSessionUseCase(receiving.SessionDeps{
			TxRunner:      s,
			SessionRepo:   s.Receiving(),
			ProductRepo:   s.Products(),
			WarehouseRepo: s.Warehouses(),
			Modes:         receiving.NewModeStore(nil),
			Parser:        excel.NewInvoiceParser(),
			Reports:       pdf.NewMarotoPDFGenerator(),
		}),
		ShipmentUC: shipping.NewShipmentUseCase(s, s.Shipments(), s.Warehouses(), s.Stores(), nil, nil),
		DeliveryUC: shipping.NewDeliveryUseCase(s, s.Deliveries(), nil, nil),
		JWTSecret:  testJWTSecret,
		Metrics:    metrics.New("test"),
	})
	return app
}

// call envía un request JSON con el rol indicado y decodifica la respuesta en out (si no es nil).
func call(t *testing.T, app *fiber.App, role, method, path string, body interface{}, out interface{}) int {
	t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if role != "" {
		req.Header.Set("Authorization", tokenForRole(t, role))
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	if out != nil {
		require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
	}
	return resp.StatusCode
}

func TestAPI_HealthSinToken(t *testing.T) {
	app := newAPI(t)
	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/health", nil), -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	assert.Equal(t, http.StatusUnauthorized, call(t, app, "", http.MethodGet, "/api/warehouses", nil, nil))
}

func TestAPI_RecepcionCompleta(t *testing.T) {
	app := newAPI(t)
	const role = "bodeguero"

	var session dto.SessionResponse
	status := call(t, app, role, http.MethodPost, "/api/receiving/sessions", dto.OpenSessionRequest{
		WarehouseID:   "wh-1",
		InvoiceNumber: "F-1",
		Items:         []dto.ReceivingItemRequest{{Name: "Router ABC", SKU: "ABC", ExpectedQuantity: 50}},
	}, &session)
	require.Equal(t, http.StatusCreated, status)
	require.Len(t, session.Items, 1)
	base := "/api/receiving/sessions/" + session.ID

	var scan dto.ScanResultResponse
	require.Equal(t, http.StatusCreated, call(t, app, role, http.MethodPost, base+"/scans", dto.ScanRequest{Code: "abc"}, &scan))
	assert.Equal(t, 1, scan.Progress.TotalScanned)

	var mode dto.ScanModeResponse
	require.Equal(t, http.StatusOK, call(t, app, role, http.MethodPost, base+"/mode/box", nil, &mode))
	assert.True(t, mode.Pending)
	var errResp dto.ErrorResponse
	assert.Equal(t, http.StatusBadRequest, call(t, app, role, http.MethodPost, base+"/mode/box/confirm", dto.ConfirmBoxRequest{Multiplier: 0}, &errResp))
	assert.Equal(t, "VALIDATION", errResp.Code)
	require.Equal(t, http.StatusOK, call(t, app, role, http.MethodPost, base+"/mode/box/confirm", dto.ConfirmBoxRequest{Multiplier: 10}, &mode))
	assert.Equal(t, "box", mode.Mode)

	require.Equal(t, http.StatusCreated, call(t, app, role, http.MethodPost, base+"/scans", dto.ScanRequest{Code: "ABC"}, &scan))
	assert.Equal(t, 10, scan.Scan.Quantity)
	assert.Equal(t, 11, scan.Progress.TotalScanned)

	require.Equal(t, http.StatusCreated, call(t, app, role, http.MethodPost, base+"/manual",
		dto.ManualEntryRequest{ItemID: session.Items[0].ID, Quantity: -2}, &scan))
	assert.Equal(t, 9, scan.Progress.TotalScanned)

	assert.Equal(t, http.StatusNotFound, call(t, app, role, http.MethodPost, base+"/scans", dto.ScanRequest{Code: "XYZ"}, &errResp))
	assert.Equal(t, "SCAN_NO_MATCH", errResp.Code)

	var commit dto.CommitResponse
	require.Equal(t, http.StatusOK, call(t, app, role, http.MethodPost, base+"/commit", nil, &commit))
	assert.Equal(t, entity.ReceivingStatusCompleted, commit.Session.Status)

	assert.Equal(t, http.StatusConflict, call(t, app, role, http.MethodPost, base+"/commit", nil, &errResp))
	assert.Equal(t, "SESSION_COMPLETED", errResp.Code)

	var list dto.StockListResponse
	require.Equal(t, http.StatusOK, call(t, app, role, http.MethodGet, "/api/stock?warehouse_id=wh-1", nil, &list))
	require.Len(t, list.Items, 1)
	assert.Equal(t, 9, list.Items[0].Quantity)

	req := httptest.NewRequest(http.MethodGet, base+"/report", nil)
	req.Header.Set("Authorization", tokenForRole(t, role))
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/pdf", resp.Header.Get("Content-Type"))
}

func TestAPI_CommitSinEscaneos(t *testing.T) {
	app := newAPI(t)
	var session dto.SessionResponse
	require.Equal(t, http.StatusCreated, call(t, app, "admin", http.MethodPost, "/api/receiving/sessions",
		dto.OpenSessionRequest{WarehouseID: "wh-1"}, &session))

	var errResp dto.ErrorResponse
	assert.Equal(t, http.StatusConflict, call(t, app, "admin", http.MethodPost,
		"/api/receiving/sessions/"+session.ID+"/commit", nil, &errResp))
	assert.Equal(t, "NOTHING_SCANNED", errResp.Code)
}

func TestAPI_ImportarFacturaXLSX(t *testing.T) {
	app := newAPI(t)

	f := excelize.NewFile()
	sheet := f.GetSheetName(0)
	require.NoError(t, f.SetSheetRow(sheet, "A1", &[]interface{}{"Factura", "F-77"}))
	require.NoError(t, f.SetSheetRow(sheet, "A2", &[]interface{}{"SKU", "Nombre", "Cantidad"}))
	require.NoError(t, f.SetSheetRow(sheet, "A3", &[]interface{}{"ABC", "Router ABC", 12}))
	xlsx, err := f.WriteToBuffer()
	require.NoError(t, err)
	require.NoError(t, f.Close())

	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	part, err := w.CreateFormFile("file", "factura.xlsx")
	require.NoError(t, err)
	_, err = part.Write(xlsx.Bytes())
	require.NoError(t, err)
	require.NoError(t, w.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/receiving/sessions/import?warehouse_id=wh-1", &body)
	req.Header.Set("Content-Type", w.FormDataContentType())
	req.Header.Set("Authorization", tokenForRole(t, "bodeguero"))
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var session dto.SessionResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&session))
	assert.Equal(t, "F-77", session.InvoiceNumber)
	require.Len(t, session.Items, 1)
	assert.Equal(t, 12, session.Items[0].ExpectedQuantity)
	require.NotNil(t, session.Items[0].ProductID)
	assert.Equal(t, "p-abc", *session.Items[0].ProductID)
}

func TestAPI_StockRolesYValidacion(t *testing.T) {
	app := newAPI(t)

	var stock dto.StockResponse
	require.Equal(t, http.StatusCreated, call(t, app, "bodeguero", http.MethodPost, "/api/stock",
		dto.CreateStockRequest{ProductID: "p-abc", WarehouseID: "wh-1", Quantity: 5}, &stock))

	var errResp dto.ErrorResponse
	assert.Equal(t, http.StatusBadRequest, call(t, app, "bodeguero", http.MethodPost,
		"/api/stock/"+stock.ID+"/adjust", dto.AdjustStockRequest{Delta: 0}, &errResp))
	assert.Equal(t, "VALIDATION", errResp.Code)

	var adj dto.AdjustStockResponse
	require.Equal(t, http.StatusOK, call(t, app, "bodeguero", http.MethodPost,
		"/api/stock/"+stock.ID+"/adjust", dto.AdjustStockRequest{Delta: -7, Reason: "conteo"}, &adj))
	assert.True(t, adj.NegativeStock)
	assert.Equal(t, -2, adj.Stock.Quantity)

	assert.Equal(t, http.StatusForbidden, call(t, app, "bodeguero", http.MethodDelete, "/api/stock/"+stock.ID, nil, nil))
	assert.Equal(t, http.StatusNoContent, call(t, app, "admin", http.MethodDelete, "/api/stock/"+stock.ID, nil, nil))
	assert.Equal(t, http.StatusNotFound, call(t, app, "admin", http.MethodGet, "/api/stock/"+stock.ID, nil, &errResp))
	assert.Equal(t, "NOT_FOUND", errResp.Code)
}

func TestAPI_EnvioHastaInstalacion(t *testing.T) {
	app := newAPI(t)
	const role = "bodeguero"

	var asset dto.AssetResponse
	require.Equal(t, http.StatusCreated, call(t, app, role, http.MethodPost, "/api/assets",
		dto.RegisterAssetRequest{SerialNumber: "SN-100", ProductID: "p-abc"}, &asset))

	var shipment dto.ShipmentResponse
	require.Equal(t, http.StatusCreated, call(t, app, role, http.MethodPost, "/api/shipments",
		dto.CreateShipmentRequest{WarehouseID: "wh-1", StoreID: "st-1"}, &shipment))

	var item dto.ShipmentItemResponse
	require.Equal(t, http.StatusCreated, call(t, app, role, http.MethodPost, "/api/shipments/"+shipment.ID+"/items",
		dto.AddShipmentItemRequest{AssetID: asset.ID}, &item))

	var other dto.ShipmentResponse
	require.Equal(t, http.StatusCreated, call(t, app, role, http.MethodPost, "/api/shipments",
		dto.CreateShipmentRequest{WarehouseID: "wh-1", StoreID: "st-1"}, &other))
	var errResp dto.ErrorResponse
	assert.Equal(t, http.StatusConflict, call(t, app, role, http.MethodPost, "/api/shipments/"+other.ID+"/items",
		dto.AddShipmentItemRequest{AssetID: asset.ID}, &errResp))
	assert.Equal(t, "ASSET_NOT_AVAILABLE", errResp.Code)

	require.Equal(t, http.StatusOK, call(t, app, role, http.MethodPost, "/api/shipments/items/"+item.ID+"/pick", nil, &item))
	assert.True(t, item.Picked)

	var shipped dto.ShipmentStatusResponse
	require.Equal(t, http.StatusOK, call(t, app, role, http.MethodPut, "/api/shipments/"+shipment.ID+"/status",
		dto.UpdateStatusRequest{Status: "SHIPPED"}, &shipped))
	require.NotNil(t, shipped.Delivery)
	assert.Equal(t, 1, shipped.Assets)

	var delivery dto.DeliveryResponse
	require.Equal(t, http.StatusOK, call(t, app, role, http.MethodGet, "/api/shipments/"+shipment.ID+"/delivery", nil, &delivery))
	assert.Equal(t, shipped.Delivery.ID, delivery.ID)

	assert.Equal(t, http.StatusConflict, call(t, app, role, http.MethodPut, "/api/deliveries/"+delivery.ID+"/status",
		dto.UpdateStatusRequest{Status: "DELIVERED"}, &errResp))
	assert.Equal(t, "INVALID_TRANSITION", errResp.Code)

	require.Equal(t, http.StatusOK, call(t, app, role, http.MethodPut, "/api/deliveries/"+delivery.ID+"/courier",
		dto.AssignCourierRequest{CourierName: "Mensajería Ya", TrackingNumber: "TRK-1"}, &delivery))
	for _, st := range []string{"PICKED_UP", "IN_TRANSIT", "DELIVERED"} {
		require.Equal(t, http.StatusOK, call(t, app, role, http.MethodPut, "/api/deliveries/"+delivery.ID+"/status",
			dto.UpdateStatusRequest{Status: st}, &delivery), st)
	}

	require.Equal(t, http.StatusOK, call(t, app, role, http.MethodGet, "/api/assets/"+asset.ID, nil, &asset))
	assert.Equal(t, string(entity.ProcessInstalled), asset.ProcessStatus)
	require.NotNil(t, asset.StoreID)
	assert.Equal(t, "st-1", *asset.StoreID)

	// Desinstalar exige confirmación y rol de campo.
	assert.Equal(t, http.StatusForbidden, call(t, app, "vendedor", http.MethodPost, "/api/assets/"+asset.ID+"/uninstall",
		dto.UninstallAssetRequest{Confirm: true}, nil))
	assert.Equal(t, http.StatusBadRequest, call(t, app, role, http.MethodPost, "/api/assets/"+asset.ID+"/uninstall",
		dto.UninstallAssetRequest{}, &errResp))
	require.Equal(t, http.StatusOK, call(t, app, role, http.MethodPost, "/api/assets/"+asset.ID+"/uninstall",
		dto.UninstallAssetRequest{Confirm: true}, &asset))
	assert.Equal(t, string(entity.ProcessAvailable), asset.ProcessStatus)
}

func TestAPI_MetricasPorRuta(t *testing.T) {
	app := newAPI(t)
	call(t, app, "admin", http.MethodGet, "/api/warehouses/wh-1", nil, nil)

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/metrics", nil), -1)
	require.NoError(t, err)
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), `path="/api/warehouses/:id"`)
}
