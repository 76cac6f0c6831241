package trade

import (
	"context"

	"github.com/erp/backoffice/internal/application/txscope"
	"github.com/erp/backoffice/internal/domain/partner"
	"github.com/erp/backoffice/internal/domain/shared"
	"github.com/erp/backoffice/internal/domain/trade"
	"github.com/erp/backoffice/internal/infrastructure/telemetry"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// PaymentService records money received against cash sales
type PaymentService struct {
	serviceBase
}

// NewPaymentService creates a new PaymentService
func NewPaymentService(scope txscope.Scope, logger *zap.Logger) *PaymentService {
	return &PaymentService{serviceBase: newServiceBase(scope, logger)}
}

// AddPayment records a payment. The payment that covers the remaining amount
// completes the sale and takes its stock, so an InsufficientStock at that
// point rejects the payment as a whole.
func (s *PaymentService) AddPayment(ctx context.Context, actor uuid.UUID, req AddPaymentRequest) (*PaymentResponse, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "payment", "add")
	defer span.End()
	telemetry.SetAttributes(span,
		"sale_id", req.SaleID.String(),
		"amount", req.Amount.String(),
		"payment_type", req.PaymentType,
	)

	var (
		payment *trade.Payment
		sale    *trade.Sale
	)
	err := s.execute(ctx, func(repos txscope.Repositories, events *txscope.EventCollector) error {
		var err error
		sale, err = lockSale(ctx, repos, req.SaleID)
		if err != nil {
			return err
		}
		paid, err := paidAmount(ctx, repos, sale.ID)
		if err != nil {
			return err
		}

		payment, _, err = trade.NewPayment(sale, trade.PaymentInput{
			ClientID:    req.ClientID,
			CurrencyID:  req.CurrencyID,
			Amount:      req.Amount,
			PaymentType: trade.PaymentType(req.PaymentType),
			Remarks:     req.Remarks,
		}, paid, actor)
		if err != nil {
			return err
		}

		if payment.PaymentType == trade.PaymentTypeBalance {
			if err := s.drawBalance(ctx, repos, payment, actor); err != nil {
				return err
			}
		}

		if err := settleSale(ctx, repos, sale, paid.Add(payment.Amount), actor, events); err != nil {
			return err
		}

		if err := repos.Payments().Save(ctx, payment); err != nil {
			return err
		}
		if err := repos.Sales().SaveWithLock(ctx, sale); err != nil {
			return err
		}
		events.Collect(payment, sale)
		return nil
	})
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}

	s.logger.Info("payment recorded",
		zap.String("payment_id", payment.ID.String()),
		zap.String("sale_id", sale.ID.String()),
		zap.String("amount", payment.Amount.StringFixed(2)),
		zap.String("status", string(payment.Status)),
		zap.String("sale_status", string(sale.Status)),
	)
	resp := ToPaymentResponse(payment)
	resp.SaleStatus = string(sale.Status)
	return &resp, nil
}

// drawBalance debits a balance payment from the client's balance in the sale currency
func (s *PaymentService) drawBalance(ctx context.Context, repos txscope.Repositories, payment *trade.Payment, actor uuid.UUID) error {
	balance, err := repos.Balances().FindForUpdate(ctx, payment.ClientID, payment.CurrencyID)
	if err != nil {
		if shared.IsNotFound(err) {
			return shared.ErrInsufficientBalance.
				WithDetail("currency", payment.CurrencyCode).
				WithDetail("available", "0.00")
		}
		return err
	}
	record, err := partner.NewBalancePayment(balance, partner.BalanceKindSalePayment, payment.Amount,
		partner.SourcePayment, &payment.ID, payment.Remarks, actor)
	if err != nil {
		return err
	}
	if err := record.Apply(balance); err != nil {
		return err
	}
	if err := repos.Balances().SaveWithLock(ctx, balance); err != nil {
		return err
	}
	return repos.BalancePayments().Save(ctx, record)
}

// CancelPayment cancels a payment and recomputes the sale status. Stock is
// never moved here; a balance payment is credited back.
func (s *PaymentService) CancelPayment(ctx context.Context, actor, id uuid.UUID) (*PaymentResponse, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "payment", "cancel")
	defer span.End()
	telemetry.SetAttributes(span, "payment_id", id.String())

	var (
		payment *trade.Payment
		sale    *trade.Sale
	)
	err := s.execute(ctx, func(repos txscope.Repositories, events *txscope.EventCollector) error {
		var err error
		sale, payment, err = s.lockPayment(ctx, repos, id)
		if err != nil {
			return err
		}
		if err := payment.Cancel(actor); err != nil {
			return err
		}
		if payment.PaymentType == trade.PaymentTypeBalance {
			if err := s.refundBalance(ctx, repos, payment, actor); err != nil {
				return err
			}
		}
		if err := repos.Payments().SaveWithLock(ctx, payment); err != nil {
			return err
		}

		paid, err := paidAmount(ctx, repos, sale.ID)
		if err != nil {
			return err
		}
		sale.RecomputeStatus(paid, actor)
		if err := repos.Sales().SaveWithLock(ctx, sale); err != nil {
			return err
		}
		events.Collect(payment, sale)
		return nil
	})
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}

	s.logger.Info("payment cancelled",
		zap.String("payment_id", payment.ID.String()),
		zap.String("sale_id", sale.ID.String()),
		zap.String("sale_status", string(sale.Status)),
	)
	resp := ToPaymentResponse(payment)
	resp.SaleStatus = string(sale.Status)
	return &resp, nil
}

// refundBalance reverses the balance records a payment created
func (s *PaymentService) refundBalance(ctx context.Context, repos txscope.Repositories, payment *trade.Payment, actor uuid.UUID) error {
	records, err := repos.BalancePayments().FindBySource(ctx, partner.SourcePayment, payment.ID)
	if err != nil {
		return err
	}
	for i := range records {
		record := &records[i]
		if record.Status == partner.EntryStatusCancelled {
			continue
		}
		balance, err := repos.Balances().FindForUpdate(ctx, record.ClientID, record.CurrencyID)
		if err != nil {
			return err
		}
		if err := record.Cancel(balance, actor); err != nil {
			return err
		}
		if err := repos.Balances().SaveWithLock(ctx, balance); err != nil {
			return err
		}
		if err := repos.BalancePayments().SaveWithLock(ctx, record); err != nil {
			return err
		}
	}
	return nil
}

// DeletePayment removes a cancelled payment
func (s *PaymentService) DeletePayment(ctx context.Context, actor, id uuid.UUID) error {
	ctx, span := telemetry.StartServiceSpan(ctx, "payment", "delete")
	defer span.End()

	err := s.execute(ctx, func(repos txscope.Repositories, _ *txscope.EventCollector) error {
		_, payment, err := s.lockPayment(ctx, repos, id)
		if err != nil {
			return err
		}
		if err := payment.EnsureDeletable(); err != nil {
			return err
		}
		return repos.Payments().Delete(ctx, payment.ID)
	})
	if err != nil {
		telemetry.RecordError(span, err)
		return err
	}
	s.logger.Info("payment deleted", zap.String("payment_id", id.String()), zap.String("actor", actor.String()))
	return nil
}

// lockPayment locks the payment's sale first, then rereads the payment under that lock
func (s *PaymentService) lockPayment(ctx context.Context, repos txscope.Repositories, id uuid.UUID) (*trade.Sale, *trade.Payment, error) {
	unlocked, err := repos.Payments().FindByID(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	sale, err := lockSale(ctx, repos, unlocked.SaleID)
	if err != nil {
		return nil, nil, err
	}
	payment, err := repos.Payments().FindByIDForUpdate(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	return sale, payment, nil
}

// GetPayment returns a payment by id
func (s *PaymentService) GetPayment(ctx context.Context, id uuid.UUID) (*PaymentResponse, error) {
	var resp PaymentResponse
	err := s.read(ctx, func(repos txscope.Repositories) error {
		p, err := repos.Payments().FindByID(ctx, id)
		if err != nil {
			return err
		}
		resp = ToPaymentResponse(p)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &resp, nil
}

// ListPaymentsBySale returns every payment of a sale, cancelled ones included
func (s *PaymentService) ListPaymentsBySale(ctx context.Context, saleID uuid.UUID) ([]PaymentResponse, error) {
	var out []PaymentResponse
	err := s.read(ctx, func(repos txscope.Repositories) error {
		if _, err := repos.Sales().FindByID(ctx, saleID); err != nil {
			return err
		}
		payments, err := repos.Payments().ListBySale(ctx, saleID)
		if err != nil {
			return err
		}
		out = make([]PaymentResponse, len(payments))
		for i := range payments {
			out[i] = ToPaymentResponse(&payments[i])
		}
		return nil
	})
	return out, err
}
