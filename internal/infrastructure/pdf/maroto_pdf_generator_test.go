package pdf

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/warehouse-ops/internal/domain/entity"
	"github.com/jhoicas/warehouse-ops/internal/domain/receiving"
)

func TestFormatQty(t *testing.T) {
	cases := map[int]string{
		0:       "0",
		950:     "950",
		25000:   "25.000",
		1000000: "1.000.000",
		-1200:   "-1.200",
	}
	for in, want := range cases {
		assert.Equal(t, want, formatQty(in))
	}
}

func TestGenerateReceivingReport(t *testing.T) {
	productID := "p-1"
	session := &entity.ReceivingSession{
		ID:            "s-1",
		WarehouseID:   "wh-1",
		Status:        entity.ReceivingStatusInProgress,
		InvoiceNumber: "F-100",
		Supplier:      "Proveedor SA",
		Items: []*entity.ReceivingItem{
			{ID: "i-1", Name: "Router", SKU: "RT-1", ProductID: &productID, ExpectedQuantity: 5,
				Scans: []*entity.Scan{{Quantity: 6}}},
			{ID: "i-2", Name: "Cable", ExpectedQuantity: 2},
		},
	}
	progress := receiving.Summarize(session)
	require.NotEmpty(t, progress.Warnings)

	doc, err := NewMarotoPDFGenerator().GenerateReceivingReport(session, &entity.Warehouse{ID: "wh-1", Name: "Bodega Central"}, progress)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(doc, []byte("%PDF")))
}

func TestGenerateReceivingReport_SinSesion(t *testing.T) {
	_, err := NewMarotoPDFGenerator().GenerateReceivingReport(nil, nil, receiving.Progress{})
	assert.Error(t, err)
}
