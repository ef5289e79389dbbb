package receiving_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/warehouse-ops/internal/domain"
	"github.com/jhoicas/warehouse-ops/internal/domain/entity"
	"github.com/jhoicas/warehouse-ops/internal/domain/receiving"
)

func strPtr(s string) *string { return &s }

func sessionWith(items ...*entity.ReceivingItem) *entity.ReceivingSession {
	return &entity.ReceivingSession{ID: "s1", Status: entity.ReceivingStatusDraft, Items: items}
}

// ──────────────────────────────────────────────────────────────────────────────
// Coincidencia de códigos
// ──────────────────────────────────────────────────────────────────────────────

func TestMatchItem_SinDistinguirMayusculas(t *testing.T) {
	items := []*entity.ReceivingItem{
		{ID: "i1", Position: 1, Name: "Router", SKU: "ABC"},
		{ID: "i2", Position: 2, Name: "Switch", SKU: "XYZ"},
	}

	got := receiving.MatchItem(items, "abc")
	require.NotNil(t, got)
	assert.Equal(t, "i1", got.ID)

	got = receiving.MatchItem(items, "  switch ")
	require.NotNil(t, got)
	assert.Equal(t, "i2", got.ID, "el nombre también es clave de coincidencia")
}

func TestMatchItem_PrimeraLineaGana(t *testing.T) {
	items := []*entity.ReceivingItem{
		{ID: "i1", Position: 1, Name: "Cable", SKU: "DUP"},
		{ID: "i2", Position: 2, Name: "Otro", SKU: "dup"},
	}
	got := receiving.MatchItem(items, "DUP")
	require.NotNil(t, got)
	assert.Equal(t, "i1", got.ID)
}

func TestMatchItem_PlegadoUnicode(t *testing.T) {
	items := []*entity.ReceivingItem{{ID: "i1", Name: "Straße"}}
	assert.NotNil(t, receiving.MatchItem(items, "STRASSE"))
}

func TestMatchItem_SinCoincidencia(t *testing.T) {
	items := []*entity.ReceivingItem{{ID: "i1", Name: "Router", SKU: "ABC"}}
	assert.Nil(t, receiving.MatchItem(items, "AB"), "la coincidencia es exacta, no por prefijo")
	assert.Nil(t, receiving.MatchItem(items, ""))
}

// ──────────────────────────────────────────────────────────────────────────────
// Modo de escaneo
// ──────────────────────────────────────────────────────────────────────────────

func TestScanMode_Cantidades(t *testing.T) {
	assert.Equal(t, 1, receiving.SingleMode().Quantity())
	assert.Equal(t, "ABC", receiving.SingleMode().TagCode("ABC"))

	box, err := receiving.NewBoxMode(10)
	require.NoError(t, err)
	assert.Equal(t, 10, box.Quantity())
	assert.Equal(t, "BOX10:ABC", box.TagCode("ABC"))
}

func TestNewBoxMode_MultiplicadorInvalido(t *testing.T) {
	for _, n := range []int{0, -3} {
		_, err := receiving.NewBoxMode(n)
		assert.ErrorIs(t, err, domain.ErrInvalidMultiplier, "n=%d", n)
	}
}

func TestModeConfig_Dialogo(t *testing.T) {
	var cfg receiving.ModeConfig

	cfg.RequestBox(nil)
	assert.True(t, cfg.Pending)
	assert.Equal(t, []int{6, 10, 12, 20}, cfg.Suggestions)
	assert.Equal(t, 1, cfg.Active.Quantity(), "abrir el diálogo no cambia el modo activo")

	assert.ErrorIs(t, cfg.ConfirmBox(0), domain.ErrInvalidMultiplier)
	assert.True(t, cfg.Pending, "un multiplicador inválido deja el diálogo abierto")

	require.NoError(t, cfg.ConfirmBox(12))
	assert.False(t, cfg.Pending)
	assert.Equal(t, 12, cfg.Active.Quantity())

	// Cancelar restaura el modo previo (caja 12).
	cfg.RequestBox([]int{4})
	cfg.CancelBox()
	assert.False(t, cfg.Pending)
	assert.Equal(t, 12, cfg.Active.Quantity())

	cfg.DisableBox()
	assert.False(t, cfg.Active.Box)
	assert.Equal(t, 1, cfg.Active.Quantity())
}

func TestModeConfig_ConfirmarSinDialogo(t *testing.T) {
	var cfg receiving.ModeConfig
	assert.ErrorIs(t, cfg.ConfirmBox(6), domain.ErrConflict)
}

// ──────────────────────────────────────────────────────────────────────────────
// Progreso y advertencias
// ──────────────────────────────────────────────────────────────────────────────

func TestSummarize_SinEscaneos(t *testing.T) {
	s := sessionWith(&entity.ReceivingItem{ID: "i1", ExpectedQuantity: 50, ProductID: strPtr("p1")})

	p := receiving.Summarize(s)
	assert.Equal(t, 50, p.TotalExpected)
	assert.Equal(t, 0, p.TotalScanned)
	assert.Equal(t, 0.0, p.Percent)
	require.Len(t, p.Warnings, 1)
	assert.Equal(t, receiving.WarningNoProgress, p.Warnings[0].Type)
}

func TestSummarize_SobreRecepcionAcotaPorcentaje(t *testing.T) {
	item := &entity.ReceivingItem{
		ID: "i1", SKU: "ABC", ExpectedQuantity: 5, ProductID: strPtr("p1"),
		Scans: []*entity.Scan{{Quantity: 4}, {Quantity: 3}},
	}
	p := receiving.Summarize(sessionWith(item))

	assert.Equal(t, 7, p.TotalScanned)
	assert.Equal(t, 100.0, p.Percent)
	require.Len(t, p.Warnings, 1)
	assert.Equal(t, receiving.WarningOverReceipt, p.Warnings[0].Type)
	assert.Equal(t, "i1", p.Warnings[0].ItemID)
}

func TestSummarize_LineaSinProducto(t *testing.T) {
	item := &entity.ReceivingItem{ID: "i1", Name: "Nuevo", ExpectedQuantity: 2, Scans: []*entity.Scan{{Quantity: 1}}}
	p := receiving.Summarize(sessionWith(item))

	assert.InDelta(t, 50.0, p.Percent, 0.001)
	assert.False(t, p.Items[0].Mapped)
	require.Len(t, p.Warnings, 1)
	assert.Equal(t, receiving.WarningUnmappedItem, p.Warnings[0].Type)
}

func TestCanCommit(t *testing.T) {
	empty := sessionWith(&entity.ReceivingItem{ID: "i1", ExpectedQuantity: 3})
	assert.ErrorIs(t, receiving.CanCommit(empty), domain.ErrNothingScanned)

	ok := sessionWith(&entity.ReceivingItem{ID: "i1", Scans: []*entity.Scan{{Quantity: 1}}})
	assert.NoError(t, receiving.CanCommit(ok))

	ok.Status = entity.ReceivingStatusCompleted
	assert.ErrorIs(t, receiving.CanCommit(ok), domain.ErrSessionCompleted)
	assert.ErrorIs(t, receiving.EnsureOpen(ok), domain.ErrSessionCompleted)
}
