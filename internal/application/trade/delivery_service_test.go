package trade

import (
	"errors"
	"testing"

	"github.com/erp/backoffice/internal/domain/shared"
	"github.com/erp/backoffice/internal/domain/trade"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDeliveryService_Lifecycle(t *testing.T) {
	f := newFixture(t)
	p := f.product(t, "10", 5)
	sale := f.createSale(t, false, line{p, 1})

	first, err := f.deliveries.CreateDelivery(f.ctx, f.actor, sale.ID, CreateDeliveryRequest{
		Method:  string(trade.DeliveryMethodClientAddress),
		Address: "12 High St",
	})
	require.NoError(t, err)
	assert.Equal(t, string(trade.SaleStatusPending), first.Status)
	assert.Equal(t, f.clientID, first.ClientID)
	assert.Equal(t, "12 High St", first.Address)

	_, err = f.deliveries.CreateDelivery(f.ctx, f.actor, sale.ID, CreateDeliveryRequest{
		Method: string(trade.DeliveryMethodStore),
	})
	assert.True(t, errors.Is(err, shared.ErrInvalidState), "one open delivery per sale")

	done, err := f.deliveries.CompleteDelivery(f.ctx, f.actor, first.ID)
	require.NoError(t, err)
	assert.Equal(t, string(trade.SaleStatusCompleted), done.Status)
	assert.NotNil(t, done.DeliveredAt)

	_, err = f.deliveries.CancelDelivery(f.ctx, f.actor, first.ID)
	assert.True(t, errors.Is(err, shared.ErrAlreadyFinalized))

	second, err := f.deliveries.CreateDelivery(f.ctx, f.actor, sale.ID, CreateDeliveryRequest{
		Method: string(trade.DeliveryMethodStore),
	})
	require.NoError(t, err)
	cancelled, err := f.deliveries.CancelDelivery(f.ctx, f.actor, second.ID)
	require.NoError(t, err)
	assert.Equal(t, string(trade.SaleStatusCancelled), cancelled.Status)

	listed, err := f.deliveries.ListDeliveriesBySale(f.ctx, sale.ID)
	require.NoError(t, err)
	require.Len(t, listed, 2)
	assert.ElementsMatch(t, []uuid.UUID{first.ID, second.ID}, []uuid.UUID{listed[0].ID, listed[1].ID})

	assert.Contains(t, f.events.types(), trade.EventTypeDeliveryCompleted)
	assert.Contains(t, f.events.types(), trade.EventTypeDeliveryCancelled)
}

func TestDeliveryService_CancelledSale(t *testing.T) {
	f := newFixture(t)
	p := f.product(t, "10", 5)
	sale := f.createSale(t, false, line{p, 1})

	open, err := f.deliveries.CreateDelivery(f.ctx, f.actor, sale.ID, CreateDeliveryRequest{
		Method: string(trade.DeliveryMethodStore),
	})
	require.NoError(t, err)

	_, err = f.sales.CancelSale(f.ctx, f.actor, sale.ID)
	require.NoError(t, err)

	got, err := f.deliveries.GetDelivery(f.ctx, open.ID)
	require.NoError(t, err)
	assert.Equal(t, string(trade.SaleStatusCancelled), got.Status, "open deliveries go with the sale")

	_, err = f.deliveries.CompleteDelivery(f.ctx, f.actor, open.ID)
	assert.True(t, errors.Is(err, shared.ErrAlreadyFinalized))

	_, err = f.deliveries.CreateDelivery(f.ctx, f.actor, sale.ID, CreateDeliveryRequest{
		Method: string(trade.DeliveryMethodStore),
	})
	assert.True(t, errors.Is(err, shared.ErrAlreadyFinalized))

	err = f.sales.DeleteSale(f.ctx, f.actor, sale.ID)
	assert.True(t, errors.Is(err, shared.ErrInvalidState), "the delivery still references the sale")
}

func TestDeliveryService_NotFound(t *testing.T) {
	f := newFixture(t)

	_, err := f.deliveries.CreateDelivery(f.ctx, f.actor, uuid.New(), CreateDeliveryRequest{
		Method: string(trade.DeliveryMethodStore),
	})
	assert.True(t, shared.IsNotFound(err))

	_, err = f.deliveries.GetDelivery(f.ctx, uuid.New())
	assert.True(t, shared.IsNotFound(err))

	_, err = f.deliveries.ListDeliveriesBySale(f.ctx, uuid.New())
	assert.True(t, shared.IsNotFound(err))
}
