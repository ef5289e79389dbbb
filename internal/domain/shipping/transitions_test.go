package shipping_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/warehouse-ops/internal/domain"
	"github.com/jhoicas/warehouse-ops/internal/domain/entity"
	"github.com/jhoicas/warehouse-ops/internal/domain/shipping"
)

func TestCanShipmentTransition(t *testing.T) {
	cases := []struct {
		from, to string
		ok       bool
	}{
		{entity.ShipmentStatusDraft, entity.ShipmentStatusPicking, true},
		{entity.ShipmentStatusDraft, entity.ShipmentStatusShipped, true},
		{entity.ShipmentStatusPicking, entity.ShipmentStatusPacked, true},
		{entity.ShipmentStatusPacked, entity.ShipmentStatusCancelled, true},
		{entity.ShipmentStatusShipped, entity.ShipmentStatusDelivered, true},
		{entity.ShipmentStatusPacked, entity.ShipmentStatusPicking, false},
		{entity.ShipmentStatusShipped, entity.ShipmentStatusCancelled, false},
		{entity.ShipmentStatusDelivered, entity.ShipmentStatusShipped, false},
		{entity.ShipmentStatusCancelled, entity.ShipmentStatusDraft, false},
		{entity.ShipmentStatusDraft, entity.ShipmentStatusDelivered, false},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.ok, shipping.CanShipmentTransition(tc.from, tc.to), "%s -> %s", tc.from, tc.to)
	}
}

func TestParseShipmentStatus_Alias(t *testing.T) {
	st, err := shipping.ParseShipmentStatus("pending")
	require.NoError(t, err)
	assert.Equal(t, entity.ShipmentStatusDraft, st)

	st, err = shipping.ParseShipmentStatus("READY")
	require.NoError(t, err)
	assert.Equal(t, entity.ShipmentStatusPacked, st)

	_, err = shipping.ParseShipmentStatus("LOST")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestCanDeliveryTransition(t *testing.T) {
	cases := []struct {
		from, to string
		ok       bool
	}{
		{entity.DeliveryStatusCreated, entity.DeliveryStatusCourierAssigned, true},
		{entity.DeliveryStatusCourierAssigned, entity.DeliveryStatusPickedUp, true},
		{entity.DeliveryStatusPickedUp, entity.DeliveryStatusInTransit, true},
		{entity.DeliveryStatusInTransit, entity.DeliveryStatusDelivered, true},
		{entity.DeliveryStatusCreated, entity.DeliveryStatusDelivered, false},
		{entity.DeliveryStatusInTransit, entity.DeliveryStatusPickedUp, false},
		{entity.DeliveryStatusPickedUp, entity.DeliveryStatusProblem, true},
		{entity.DeliveryStatusCreated, entity.DeliveryStatusCancelled, true},
		{entity.DeliveryStatusProblem, entity.DeliveryStatusInTransit, true},
		{entity.DeliveryStatusProblem, entity.DeliveryStatusDelivered, true},
		{entity.DeliveryStatusProblem, entity.DeliveryStatusCreated, false},
		{entity.DeliveryStatusDelivered, entity.DeliveryStatusProblem, false},
		{entity.DeliveryStatusCancelled, entity.DeliveryStatusCreated, false},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.ok, shipping.CanDeliveryTransition(tc.from, tc.to), "%s -> %s", tc.from, tc.to)
	}
}

func TestShipmentEditable(t *testing.T) {
	assert.True(t, shipping.ShipmentEditable(entity.ShipmentStatusDraft))
	assert.True(t, shipping.ShipmentEditable(entity.ShipmentStatusPicking))
	assert.False(t, shipping.ShipmentEditable(entity.ShipmentStatusPacked))
	assert.True(t, shipping.ShipmentBeforeShipped(entity.ShipmentStatusPacked))
	assert.False(t, shipping.ShipmentBeforeShipped(entity.ShipmentStatusShipped))
}
