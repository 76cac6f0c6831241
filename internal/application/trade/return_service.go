package trade

import (
	"context"

	"github.com/erp/backoffice/internal/application/txscope"
	"github.com/erp/backoffice/internal/domain/catalog"
	"github.com/erp/backoffice/internal/domain/partner"
	"github.com/erp/backoffice/internal/domain/shared"
	"github.com/erp/backoffice/internal/domain/trade"
	"github.com/erp/backoffice/internal/infrastructure/telemetry"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// ReturnService takes goods back against sales and keeps the sale, stock,
// credit line and refund consistent with every return
type ReturnService struct {
	serviceBase
}

// NewReturnService creates a new ReturnService
func NewReturnService(scope txscope.Scope, logger *zap.Logger) *ReturnService {
	return &ReturnService{serviceBase: newServiceBase(scope, logger)}
}

// CreateReturn records a return. Stock comes back only if the sale had taken
// it, a credit sale gets the returned amount released from its credit, and
// what was actually paid becomes refund-eligible.
func (s *ReturnService) CreateReturn(ctx context.Context, actor uuid.UUID, req CreateReturnRequest) (*ReturnResponse, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "return", "create")
	defer span.End()
	telemetry.SetAttributes(span, "sale_id", req.SaleID.String(), "line_count", len(req.Lines))

	var ret *trade.SaleReturn
	err := s.execute(ctx, func(repos txscope.Repositories, events *txscope.EventCollector) error {
		sale, err := lockSale(ctx, repos, req.SaleID)
		if err != nil {
			return err
		}
		if err := sale.EnsureReturnable(req.ClientID); err != nil {
			return err
		}
		paid, err := paidAmount(ctx, repos, sale.ID)
		if err != nil {
			return err
		}

		lines, err := sale.ApplyReturn(toReturnItems(req.Lines), actor)
		if err != nil {
			return err
		}
		ret, err = trade.NewSaleReturn(newDocumentNumber(returnNumberPrefix), sale, lines, req.Remarks, actor)
		if err != nil {
			return err
		}

		effects := trade.ReturnEffects{StockRestocked: sale.StockDeducted}
		if effects.StockRestocked {
			plan := newStockPlan(catalog.ReasonReturn, sourceReturn, ret.ID).add(ret.Quantities(), 1)
			if err := plan.lockAndApply(ctx, repos, actor, events); err != nil {
				return err
			}
		}
		if sale.CreditSale {
			effects.CreditReleased, err = s.releaseCredit(ctx, repos, sale, ret, actor)
			if err != nil {
				return err
			}
		}
		if effects.RefundEligible, err = s.eligibleAmount(ctx, repos, sale, ret, paid); err != nil {
			return err
		}
		ret.RecordEffects(effects)

		if err := s.adjustRefund(ctx, repos, sale, ret, decimal.Zero, actor, events); err != nil {
			return err
		}
		if err := settleSale(ctx, repos, sale, paid, actor, events); err != nil {
			return err
		}

		if err := repos.Returns().Save(ctx, ret); err != nil {
			return err
		}
		if err := repos.Sales().SaveWithLock(ctx, sale); err != nil {
			return err
		}
		events.Collect(ret, sale)
		return nil
	})
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}

	s.logger.Info("sale return created",
		zap.String("return_id", ret.ID.String()),
		zap.String("sale_id", ret.SaleID.String()),
		zap.String("amount", ret.TotalRefundAmount.StringFixed(2)),
		zap.String("refund_eligible", ret.RefundEligible.StringFixed(2)),
	)
	resp := ToReturnResponse(ret)
	return &resp, nil
}

// EditReturn recomputes a pending return from scratch: its old lines go back
// onto the sale, the new lines are applied with the same rules, and stock,
// credit and refund move by the difference
func (s *ReturnService) EditReturn(ctx context.Context, actor, id uuid.UUID, req EditReturnRequest) (*ReturnResponse, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "return", "edit")
	defer span.End()
	telemetry.SetAttributes(span, "return_id", id.String())

	var ret *trade.SaleReturn
	err := s.execute(ctx, func(repos txscope.Repositories, events *txscope.EventCollector) error {
		var (
			sale *trade.Sale
			err  error
		)
		sale, ret, err = s.lockReturn(ctx, repos, id)
		if err != nil {
			return err
		}
		if err := ret.EnsurePending(); err != nil {
			return err
		}
		paid, err := paidAmount(ctx, repos, sale.ID)
		if err != nil {
			return err
		}

		previous := ret.ReturnEffects
		previousQty := ret.Quantities()

		sale.RestoreReturn(ret.Lines, actor)
		lines, err := sale.ApplyReturn(toReturnItems(req.Lines), actor)
		if err != nil {
			return err
		}
		if err := ret.Replace(lines, req.Remarks, actor); err != nil {
			return err
		}

		// A sale holding stock holds the restored units too, whether or not
		// they were restocked by the return or left out when the sale settled.
		effects := trade.ReturnEffects{StockRestocked: sale.StockDeducted}
		plan := newStockPlan(catalog.ReasonReturnEdit, sourceReturn, ret.ID)
		if effects.StockRestocked {
			plan.add(previousQty, -1).add(ret.Quantities(), 1)
		}
		if err := plan.lockAndApply(ctx, repos, actor, events); err != nil {
			return err
		}

		if sale.CreditSale {
			if err := s.reverseCredit(ctx, repos, ret, actor); err != nil {
				return err
			}
			effects.CreditReleased, err = s.releaseCredit(ctx, repos, sale, ret, actor)
			if err != nil {
				return err
			}
		}
		if effects.RefundEligible, err = s.eligibleAmount(ctx, repos, sale, ret, paid); err != nil {
			return err
		}
		ret.RecordEffects(effects)

		if err := s.adjustRefund(ctx, repos, sale, ret, previous.RefundEligible, actor, events); err != nil {
			return err
		}
		if err := settleSale(ctx, repos, sale, paid, actor, events); err != nil {
			return err
		}

		if err := repos.Returns().SaveWithLock(ctx, ret); err != nil {
			return err
		}
		if err := repos.Sales().SaveWithLock(ctx, sale); err != nil {
			return err
		}
		events.Collect(ret, sale)
		return nil
	})
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}

	s.logger.Info("sale return edited",
		zap.String("return_id", ret.ID.String()),
		zap.String("amount", ret.TotalRefundAmount.StringFixed(2)),
	)
	resp := ToReturnResponse(ret)
	return &resp, nil
}

// CancelReturn cancels a pending return and reverses every effect it had.
// When the sale holds stock the units going back onto it are taken again.
func (s *ReturnService) CancelReturn(ctx context.Context, actor, id uuid.UUID) (*ReturnResponse, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "return", "cancel")
	defer span.End()
	telemetry.SetAttributes(span, "return_id", id.String())

	var ret *trade.SaleReturn
	err := s.execute(ctx, func(repos txscope.Repositories, events *txscope.EventCollector) error {
		var (
			sale *trade.Sale
			err  error
		)
		sale, ret, err = s.lockReturn(ctx, repos, id)
		if err != nil {
			return err
		}
		if err := ret.Cancel(actor); err != nil {
			return err
		}
		paid, err := paidAmount(ctx, repos, sale.ID)
		if err != nil {
			return err
		}

		sale.RestoreReturn(ret.Lines, actor)
		if sale.StockDeducted {
			plan := newStockPlan(catalog.ReasonReturnCancel, sourceReturn, ret.ID).add(ret.Quantities(), -1)
			if err := plan.lockAndApply(ctx, repos, actor, events); err != nil {
				return err
			}
		}
		if sale.CreditSale {
			if err := s.reverseCredit(ctx, repos, ret, actor); err != nil {
				return err
			}
		}
		if ret.RefundID != nil && ret.RefundEligible.IsPositive() {
			refund, err := repos.Refunds().FindByIDForUpdate(ctx, *ret.RefundID)
			if err != nil {
				return err
			}
			if refund.IsActive() {
				refund.Decrease(ret.RefundEligible, actor)
				if err := repos.Refunds().SaveWithLock(ctx, refund); err != nil {
					return err
				}
				events.Collect(refund)
			}
		}
		if err := settleSale(ctx, repos, sale, paid, actor, events); err != nil {
			return err
		}

		if err := repos.Returns().SaveWithLock(ctx, ret); err != nil {
			return err
		}
		if err := repos.Sales().SaveWithLock(ctx, sale); err != nil {
			return err
		}
		events.Collect(ret, sale)
		return nil
	})
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}

	s.logger.Info("sale return cancelled", zap.String("return_id", ret.ID.String()))
	resp := ToReturnResponse(ret)
	return &resp, nil
}

// lockReturn locks the return's sale first, then rereads the return under that lock
func (s *ReturnService) lockReturn(ctx context.Context, repos txscope.Repositories, id uuid.UUID) (*trade.Sale, *trade.SaleReturn, error) {
	unlocked, err := repos.Returns().FindByID(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	sale, err := lockSale(ctx, repos, unlocked.SaleID)
	if err != nil {
		return nil, nil, err
	}
	ret, err := repos.Returns().FindByIDForUpdate(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	return sale, ret, nil
}

// eligibleAmount is what of the return can be refunded given what was paid and
// what the sale's other live returns were already granted
func (s *ReturnService) eligibleAmount(ctx context.Context, repos txscope.Repositories, sale *trade.Sale, ret *trade.SaleReturn, paid decimal.Decimal) (decimal.Decimal, error) {
	granted, err := repos.Returns().SumEligibleBySale(ctx, sale.ID, ret.ID)
	if err != nil {
		return decimal.Zero, err
	}
	return trade.RefundEligible(ret.TotalRefundAmount, paid, granted), nil
}

// adjustRefund moves the sale's active refund by the change in the return's
// eligible amount, opening a refund when there is none. When the linked
// refund has been closed the whole eligible amount moves to the active one.
func (s *ReturnService) adjustRefund(ctx context.Context, repos txscope.Repositories, sale *trade.Sale, ret *trade.SaleReturn, previous decimal.Decimal, actor uuid.UUID, events *txscope.EventCollector) error {
	amount := shared.Round2(ret.RefundEligible.Sub(previous))
	if amount.IsZero() {
		return nil
	}

	var refund *trade.Refund
	if ret.RefundID != nil {
		linked, err := repos.Refunds().FindByIDForUpdate(ctx, *ret.RefundID)
		if err != nil {
			return err
		}
		if linked.IsActive() {
			refund = linked
		} else {
			amount = ret.RefundEligible
		}
	}

	if amount.IsNegative() {
		if refund == nil {
			return nil
		}
		refund.Decrease(amount.Neg(), actor)
		events.Collect(refund)
		return repos.Refunds().SaveWithLock(ctx, refund)
	}
	if !amount.IsPositive() {
		return nil
	}

	if refund == nil {
		active, err := repos.Refunds().FindActiveBySaleForUpdate(ctx, sale.ID)
		switch {
		case err == nil:
			refund = active
		case shared.IsNotFound(err):
			created, err := trade.NewRefund(sale, amount, actor)
			if err != nil {
				return err
			}
			ret.LinkRefund(created.ID)
			events.Collect(created)
			return repos.Refunds().Save(ctx, created)
		default:
			return err
		}
	}

	if err := refund.Increase(amount, actor); err != nil {
		return err
	}
	ret.LinkRefund(refund.ID)
	events.Collect(refund)
	return repos.Refunds().SaveWithLock(ctx, refund)
}

// releaseCredit gives the returned amount back to a credit sale's credit line
// and returns how much was actually released
func (s *ReturnService) releaseCredit(ctx context.Context, repos txscope.Repositories, sale *trade.Sale, ret *trade.SaleReturn, actor uuid.UUID) (decimal.Decimal, error) {
	line, err := repos.CreditLines().FindForUpdate(ctx, sale.ClientID, sale.CurrencyID)
	if err != nil {
		return decimal.Zero, err
	}
	released := line.Release(ret.TotalRefundAmount)
	if !released.IsPositive() {
		return decimal.Zero, nil
	}
	record, err := partner.NewCreditPayment(line, partner.CreditKindRelease, released,
		partner.SourceReturn, &ret.ID, ret.ReturnNumber, actor)
	if err != nil {
		return decimal.Zero, err
	}
	if err := repos.CreditLines().SaveWithLock(ctx, line); err != nil {
		return decimal.Zero, err
	}
	if err := repos.CreditPayments().Save(ctx, record); err != nil {
		return decimal.Zero, err
	}
	return released, nil
}

// reverseCredit cancels the credit releases a return made, using the credit again
func (s *ReturnService) reverseCredit(ctx context.Context, repos txscope.Repositories, ret *trade.SaleReturn, actor uuid.UUID) error {
	records, err := repos.CreditPayments().FindBySource(ctx, partner.SourceReturn, ret.ID)
	if err != nil {
		return err
	}
	for i := range records {
		record := &records[i]
		if record.Status == partner.EntryStatusCancelled {
			continue
		}
		line, err := repos.CreditLines().FindForUpdate(ctx, record.ClientID, record.CurrencyID)
		if err != nil {
			return err
		}
		if err := record.Cancel(line, actor); err != nil {
			return err
		}
		if err := repos.CreditLines().SaveWithLock(ctx, line); err != nil {
			return err
		}
		if err := repos.CreditPayments().SaveWithLock(ctx, record); err != nil {
			return err
		}
	}
	return nil
}

// GetReturn returns a return by id
func (s *ReturnService) GetReturn(ctx context.Context, id uuid.UUID) (*ReturnResponse, error) {
	var resp ReturnResponse
	err := s.read(ctx, func(repos txscope.Repositories) error {
		r, err := repos.Returns().FindByID(ctx, id)
		if err != nil {
			return err
		}
		resp = ToReturnResponse(r)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &resp, nil
}

// ListReturnsBySale returns every return of a sale
func (s *ReturnService) ListReturnsBySale(ctx context.Context, saleID uuid.UUID) ([]ReturnResponse, error) {
	var out []ReturnResponse
	err := s.read(ctx, func(repos txscope.Repositories) error {
		if _, err := repos.Sales().FindByID(ctx, saleID); err != nil {
			return err
		}
		returns, err := repos.Returns().ListBySale(ctx, saleID)
		if err != nil {
			return err
		}
		out = make([]ReturnResponse, len(returns))
		for i := range returns {
			out[i] = ToReturnResponse(&returns[i])
		}
		return nil
	})
	return out, err
}
