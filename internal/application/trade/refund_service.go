package trade

import (
	"context"

	"github.com/erp/backoffice/internal/application/txscope"
	"github.com/erp/backoffice/internal/domain/shared"
	"github.com/erp/backoffice/internal/domain/trade"
	"github.com/erp/backoffice/internal/infrastructure/telemetry"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// RefundService pays refunds out. Refunds themselves are opened by returns.
type RefundService struct {
	serviceBase
}

// NewRefundService creates a new RefundService
func NewRefundService(scope txscope.Scope, logger *zap.Logger) *RefundService {
	return &RefundService{serviceBase: newServiceBase(scope, logger)}
}

// AddRefundPayment hands part of the outstanding refund back to the client
func (s *RefundService) AddRefundPayment(ctx context.Context, actor, refundID uuid.UUID, req AddRefundPaymentRequest) (*RefundPaymentResponse, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "refund", "add_payment")
	defer span.End()
	telemetry.SetAttributes(span, "refund_id", refundID.String(), "amount", req.Amount.String())

	var (
		refund  *trade.Refund
		payment *trade.RefundPayment
	)
	err := s.execute(ctx, func(repos txscope.Repositories, events *txscope.EventCollector) error {
		var err error
		refund, err = s.lockRefund(ctx, repos, refundID)
		if err != nil {
			return err
		}
		payment, err = refund.AddPayment(req.Amount, req.Remarks, actor)
		if err != nil {
			return err
		}
		if err := repos.Refunds().SaveWithLock(ctx, refund); err != nil {
			return err
		}
		if err := repos.RefundPayments().Save(ctx, payment); err != nil {
			return err
		}
		if err := s.syncReturns(ctx, repos, refund, actor, events); err != nil {
			return err
		}
		events.Collect(refund)
		return nil
	})
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}

	s.logger.Info("refund paid",
		zap.String("refund_id", refund.ID.String()),
		zap.String("amount", payment.Amount.StringFixed(2)),
		zap.String("outstanding", refund.TotalRefundAmount.StringFixed(2)),
		zap.String("status", string(refund.Status)),
	)
	resp := ToRefundPaymentResponse(payment)
	return &resp, nil
}

// CancelRefundPayment puts a refund payment's amount back outstanding
func (s *RefundService) CancelRefundPayment(ctx context.Context, actor, id uuid.UUID) (*RefundPaymentResponse, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "refund", "cancel_payment")
	defer span.End()
	telemetry.SetAttributes(span, "refund_payment_id", id.String())

	var payment *trade.RefundPayment
	err := s.execute(ctx, func(repos txscope.Repositories, events *txscope.EventCollector) error {
		var err error
		payment, err = repos.RefundPayments().FindByID(ctx, id)
		if err != nil {
			return err
		}
		refund, err := s.lockRefund(ctx, repos, payment.RefundID)
		if err != nil {
			return err
		}
		if payment, err = repos.RefundPayments().FindByID(ctx, id); err != nil {
			return err
		}
		if err := refund.RevertPayment(payment, actor); err != nil {
			return err
		}
		if err := repos.RefundPayments().SaveWithLock(ctx, payment); err != nil {
			return err
		}
		if err := repos.Refunds().SaveWithLock(ctx, refund); err != nil {
			return err
		}
		if err := s.syncReturns(ctx, repos, refund, actor, events); err != nil {
			return err
		}
		events.Collect(refund)
		return nil
	})
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}

	s.logger.Info("refund payment cancelled", zap.String("refund_payment_id", payment.ID.String()))
	resp := ToRefundPaymentResponse(payment)
	return &resp, nil
}

// DeleteRefundPayment removes a cancelled refund payment
func (s *RefundService) DeleteRefundPayment(ctx context.Context, actor, id uuid.UUID) error {
	ctx, span := telemetry.StartServiceSpan(ctx, "refund", "delete_payment")
	defer span.End()

	err := s.execute(ctx, func(repos txscope.Repositories, _ *txscope.EventCollector) error {
		payment, err := repos.RefundPayments().FindByID(ctx, id)
		if err != nil {
			return err
		}
		if _, err := s.lockRefund(ctx, repos, payment.RefundID); err != nil {
			return err
		}
		if err := payment.EnsureDeletable(); err != nil {
			return err
		}
		return repos.RefundPayments().Delete(ctx, payment.ID)
	})
	if err != nil {
		telemetry.RecordError(span, err)
		return err
	}
	s.logger.Info("refund payment deleted", zap.String("refund_payment_id", id.String()), zap.String("actor", actor.String()))
	return nil
}

// UpdateRefundRemarks replaces the remarks of a refund
func (s *RefundService) UpdateRefundRemarks(ctx context.Context, actor, id uuid.UUID, req UpdateRefundRequest) (*RefundResponse, error) {
	var refund *trade.Refund
	err := s.execute(ctx, func(repos txscope.Repositories, _ *txscope.EventCollector) error {
		var err error
		refund, err = s.lockRefund(ctx, repos, id)
		if err != nil {
			return err
		}
		if err := refund.UpdateRemarks(req.Remarks, actor); err != nil {
			return err
		}
		return repos.Refunds().SaveWithLock(ctx, refund)
	})
	if err != nil {
		return nil, err
	}
	resp := ToRefundResponse(refund)
	return &resp, nil
}

// CancelRefund abandons a refund with no live refund payments. Its returns keep
// their recorded eligibility.
func (s *RefundService) CancelRefund(ctx context.Context, actor, id uuid.UUID) (*RefundResponse, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "refund", "cancel")
	defer span.End()
	telemetry.SetAttributes(span, "refund_id", id.String())

	var refund *trade.Refund
	err := s.execute(ctx, func(repos txscope.Repositories, events *txscope.EventCollector) error {
		var err error
		refund, err = s.lockRefund(ctx, repos, id)
		if err != nil {
			return err
		}
		active, err := repos.RefundPayments().CountActiveByRefund(ctx, refund.ID)
		if err != nil {
			return err
		}
		if err := refund.Cancel(active, actor); err != nil {
			return err
		}
		if err := repos.Refunds().SaveWithLock(ctx, refund); err != nil {
			return err
		}
		events.Collect(refund)
		return nil
	})
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}

	s.logger.Info("refund cancelled", zap.String("refund_id", refund.ID.String()))
	resp := ToRefundResponse(refund)
	return &resp, nil
}

// lockRefund locks the refund's sale first, then rereads the refund under that lock
func (s *RefundService) lockRefund(ctx context.Context, repos txscope.Repositories, id uuid.UUID) (*trade.Refund, error) {
	unlocked, err := repos.Refunds().FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if _, err := lockSale(ctx, repos, unlocked.SaleID); err != nil {
		return nil, err
	}
	return repos.Refunds().FindByIDForUpdate(ctx, id)
}

// syncReturns makes the refund's live returns follow its progress
func (s *RefundService) syncReturns(ctx context.Context, repos txscope.Repositories, refund *trade.Refund, actor uuid.UUID, events *txscope.EventCollector) error {
	returns, err := repos.Returns().ListByRefund(ctx, refund.ID)
	if err != nil {
		return err
	}
	for i := range returns {
		r := &returns[i]
		if !r.FollowRefund(refund.Status, actor) {
			continue
		}
		if err := repos.Returns().SaveWithLock(ctx, r); err != nil {
			return err
		}
		events.Collect(r)
	}
	return nil
}

// GetRefund returns a refund by id
func (s *RefundService) GetRefund(ctx context.Context, id uuid.UUID) (*RefundResponse, error) {
	var resp RefundResponse
	err := s.read(ctx, func(repos txscope.Repositories) error {
		r, err := repos.Refunds().FindByID(ctx, id)
		if err != nil {
			return err
		}
		resp = ToRefundResponse(r)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &resp, nil
}

// GetRefundBySale returns the sale's active refund, or its newest one when none is active
func (s *RefundService) GetRefundBySale(ctx context.Context, saleID uuid.UUID) (*RefundResponse, error) {
	var resp RefundResponse
	err := s.read(ctx, func(repos txscope.Repositories) error {
		refunds, err := repos.Refunds().ListBySale(ctx, saleID)
		if err != nil {
			return err
		}
		if len(refunds) == 0 {
			return shared.NotFound("refund for sale", saleID)
		}
		chosen := &refunds[len(refunds)-1]
		for i := range refunds {
			if refunds[i].IsActive() {
				chosen = &refunds[i]
				break
			}
		}
		resp = ToRefundResponse(chosen)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &resp, nil
}

// ListRefundPayments returns every payment of a refund
func (s *RefundService) ListRefundPayments(ctx context.Context, refundID uuid.UUID) ([]RefundPaymentResponse, error) {
	var out []RefundPaymentResponse
	err := s.read(ctx, func(repos txscope.Repositories) error {
		if _, err := repos.Refunds().FindByID(ctx, refundID); err != nil {
			return err
		}
		payments, err := repos.RefundPayments().ListByRefund(ctx, refundID)
		if err != nil {
			return err
		}
		out = make([]RefundPaymentResponse, len(payments))
		for i := range payments {
			out[i] = ToRefundPaymentResponse(&payments[i])
		}
		return nil
	})
	return out, err
}
