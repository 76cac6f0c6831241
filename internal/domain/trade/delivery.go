package trade

import (
	"time"

	"github.com/erp/backoffice/internal/domain/shared"
	"github.com/google/uuid"
)

// DeliveryMethod says where the goods of a delivery are handed over
type DeliveryMethod string

const (
	DeliveryMethodStore         DeliveryMethod = "store"
	DeliveryMethodClientAddress DeliveryMethod = "client_address"
)

// IsValid checks if the method is a valid DeliveryMethod
func (m DeliveryMethod) IsValid() bool {
	return m == DeliveryMethodStore || m == DeliveryMethodClientAddress
}

// Delivery hands the goods of a sale over to its client, either at the store
// or at an address. It moves pending → completed or pending → cancelled and
// never proceeds once its sale is cancelled.
type Delivery struct {
	shared.BaseAggregateRoot
	SaleID      uuid.UUID
	SaleNumber  string
	ClientID    uuid.UUID
	Method      DeliveryMethod
	Address     string
	Status      SaleStatus
	Remarks     string
	DeliveredAt *time.Time
	CreatedBy   uuid.UUID
	CompletedBy *uuid.UUID
	CanceledBy  *uuid.UUID
	CanceledAt  *time.Time
	Logs        shared.ActivityLog
}

// NewDelivery schedules a pending delivery for a sale. The address is kept
// only for client address deliveries, where it is required.
func NewDelivery(sale *Sale, method DeliveryMethod, address, remarks string, actor uuid.UUID) (*Delivery, error) {
	if sale.IsCancelled() {
		return nil, shared.AlreadyFinalized("sale", string(sale.Status))
	}
	if !method.IsValid() {
		return nil, shared.NewDomainError(shared.CodeInvalidInput, "Delivery method must be store or client_address").
			WithDetail("method", string(method))
	}
	switch method {
	case DeliveryMethodClientAddress:
		if address == "" {
			return nil, shared.NewDomainError(shared.CodeInvalidInput, "An address is required for delivery to the client")
		}
	case DeliveryMethodStore:
		address = ""
	}

	d := &Delivery{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		SaleID:            sale.ID,
		SaleNumber:        sale.SaleNumber,
		ClientID:          sale.ClientID,
		Method:            method,
		Address:           address,
		Status:            SaleStatusPending,
		Remarks:           remarks,
		CreatedBy:         actor,
		Logs:              shared.ActivityLog{}.Append("created", actor, string(method)),
	}
	d.AddDomainEvent(NewDeliveryEvent(EventTypeDeliveryScheduled, d, actor))
	return d, nil
}

// IsPending reports whether the delivery is still open
func (d *Delivery) IsPending() bool { return d.Status == SaleStatusPending }

// Complete records the hand-over of a pending delivery
func (d *Delivery) Complete(sale *Sale, actor uuid.UUID) error {
	if err := d.ensurePending(); err != nil {
		return err
	}
	if sale.IsCancelled() {
		return shared.AlreadyFinalized("sale", string(sale.Status))
	}
	now := time.Now()
	d.Status = SaleStatusCompleted
	d.DeliveredAt = &now
	d.CompletedBy = &actor
	d.Logs = d.Logs.Append("completed", actor, "")
	d.Touch()
	d.AddDomainEvent(NewDeliveryEvent(EventTypeDeliveryCompleted, d, actor))
	return nil
}

// Cancel cancels a pending delivery
func (d *Delivery) Cancel(actor uuid.UUID, note string) error {
	if err := d.ensurePending(); err != nil {
		return err
	}
	now := time.Now()
	d.Status = SaleStatusCancelled
	d.CanceledBy = &actor
	d.CanceledAt = &now
	d.Logs = d.Logs.Append("cancelled", actor, note)
	d.Touch()
	d.AddDomainEvent(NewDeliveryEvent(EventTypeDeliveryCancelled, d, actor))
	return nil
}

func (d *Delivery) ensurePending() error {
	if !d.IsPending() {
		return shared.AlreadyFinalized("delivery", string(d.Status))
	}
	return nil
}
