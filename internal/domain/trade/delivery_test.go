package trade

import (
	"errors"
	"testing"

	"github.com/erp/backoffice/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewDelivery(t *testing.T) {
	f := newFixture()
	widget := f.product("W", "10", 5)
	s := f.sale(t, false, LineInput{ProductID: widget, Quantity: 1})

	t.Run("store delivery drops the address", func(t *testing.T) {
		d, err := NewDelivery(s, DeliveryMethodStore, "12 High St", "", f.actor)
		require.NoError(t, err)
		assert.Equal(t, SaleStatusPending, d.Status)
		assert.Empty(t, d.Address)
		assert.Equal(t, s.ClientID, d.ClientID)
		assert.Equal(t, s.SaleNumber, d.SaleNumber)
		require.Len(t, d.GetDomainEvents(), 1)
		assert.Equal(t, EventTypeDeliveryScheduled, d.GetDomainEvents()[0].EventType())
	})

	t.Run("client address delivery needs an address", func(t *testing.T) {
		_, err := NewDelivery(s, DeliveryMethodClientAddress, "", "", f.actor)
		assert.True(t, errors.Is(err, shared.ErrInvalidInput))

		d, err := NewDelivery(s, DeliveryMethodClientAddress, "12 High St", "", f.actor)
		require.NoError(t, err)
		assert.Equal(t, "12 High St", d.Address)
	})

	t.Run("unknown method", func(t *testing.T) {
		_, err := NewDelivery(s, DeliveryMethod("drone"), "", "", f.actor)
		assert.True(t, errors.Is(err, shared.ErrInvalidInput))
	})

	t.Run("cancelled sale", func(t *testing.T) {
		cancelled := f.sale(t, false, LineInput{ProductID: widget, Quantity: 1})
		require.NoError(t, cancelled.Cancel(0, 0, f.actor))

		_, err := NewDelivery(cancelled, DeliveryMethodStore, "", "", f.actor)
		assert.True(t, errors.Is(err, shared.ErrAlreadyFinalized))
	})
}

func TestDelivery_Lifecycle(t *testing.T) {
	f := newFixture()
	widget := f.product("W", "10", 5)

	t.Run("complete then nothing more", func(t *testing.T) {
		s := f.sale(t, false, LineInput{ProductID: widget, Quantity: 1})
		d, err := NewDelivery(s, DeliveryMethodStore, "", "", f.actor)
		require.NoError(t, err)

		require.NoError(t, d.Complete(s, f.actor))
		assert.Equal(t, SaleStatusCompleted, d.Status)
		require.NotNil(t, d.DeliveredAt)
		require.NotNil(t, d.CompletedBy)

		assert.True(t, errors.Is(d.Complete(s, f.actor), shared.ErrAlreadyFinalized))
		assert.True(t, errors.Is(d.Cancel(f.actor, ""), shared.ErrAlreadyFinalized))
	})

	t.Run("cancel", func(t *testing.T) {
		s := f.sale(t, false, LineInput{ProductID: widget, Quantity: 1})
		d, err := NewDelivery(s, DeliveryMethodStore, "", "", f.actor)
		require.NoError(t, err)

		require.NoError(t, d.Cancel(f.actor, "client moved"))
		assert.Equal(t, SaleStatusCancelled, d.Status)
		assert.Nil(t, d.DeliveredAt)
		assert.Equal(t, "client moved", d.Logs[len(d.Logs)-1].Note)
	})

	t.Run("never completes on a cancelled sale", func(t *testing.T) {
		s := f.sale(t, false, LineInput{ProductID: widget, Quantity: 1})
		d, err := NewDelivery(s, DeliveryMethodStore, "", "", f.actor)
		require.NoError(t, err)
		require.NoError(t, s.Cancel(0, 0, f.actor))

		assert.True(t, errors.Is(d.Complete(s, f.actor), shared.ErrAlreadyFinalized))
		assert.True(t, d.IsPending())
	})
}
