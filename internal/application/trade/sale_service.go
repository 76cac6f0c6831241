package trade

import (
	"context"

	appcurrency "github.com/erp/backoffice/internal/application/currency"
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

// SaleService handles sale lifecycle use cases
type SaleService struct {
	serviceBase
	rates *appcurrency.RateResolver
}

// NewSaleService creates a new SaleService
func NewSaleService(scope txscope.Scope, rates *appcurrency.RateResolver, logger *zap.Logger) *SaleService {
	return &SaleService{serviceBase: newServiceBase(scope, logger), rates: rates}
}

// CreateSale prices and records a sale. Stock must cover every line. A credit
// sale is charged to the client's credit line and takes its stock at once; a
// cash sale stays pending and takes stock when fully paid.
func (s *SaleService) CreateSale(ctx context.Context, actor uuid.UUID, req CreateSaleRequest) (*SaleResponse, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "sale", "create")
	defer span.End()
	telemetry.SetAttributes(span,
		"client_id", req.ClientID.String(),
		"currency_id", req.CurrencyID.String(),
		"line_count", len(req.Lines),
		"credit_sale", req.CreditSale,
	)

	var sale *trade.Sale
	err := s.execute(ctx, func(repos txscope.Repositories, events *txscope.EventCollector) error {
		client, err := loadClient(ctx, repos, req.ClientID)
		if err != nil {
			return err
		}
		rate, err := s.rates.Resolve(ctx, repos.Currencies(), req.CurrencyID)
		if err != nil {
			return err
		}
		products, err := lockProducts(ctx, repos, lineProductIDs(req.Lines))
		if err != nil {
			return err
		}
		snapshots := productSnapshots(products)

		discount := trade.ResolveDefaultDiscount(req.DiscountPercentage, client.DiscountPercentage)
		lines, err := trade.PriceLines(toLineInputs(req.Lines), snapshots, trade.PricingContext{
			ExchangeRate:    rate.Rate,
			DefaultDiscount: discount,
		})
		if err != nil {
			return err
		}
		if err := trade.CheckAvailability(trade.Quantities(lines), snapshots); err != nil {
			return err
		}

		sale, err = trade.NewSale(trade.NewSaleParams{
			SaleNumber:         newDocumentNumber(saleNumberPrefix),
			ClientID:           client.ID,
			Rate:               rate,
			Lines:              lines,
			CreditSale:         req.CreditSale,
			DiscountPercentage: discount,
			Remarks:            req.Remarks,
		}, actor)
		if err != nil {
			return err
		}

		if sale.CreditSale {
			if err := s.chargeCredit(ctx, repos, sale, actor); err != nil {
				return err
			}
			plan := newStockPlan(catalog.ReasonSale, sourceSale, sale.ID).add(trade.Quantities(sale.Lines), -1)
			if err := plan.apply(ctx, repos, products, actor, events); err != nil {
				return err
			}
			sale.MarkStockDeducted()
		}

		if err := repos.Sales().Save(ctx, sale); err != nil {
			return err
		}
		events.Collect(sale)
		return nil
	})
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}

	s.logger.Info("sale created",
		zap.String("sale_id", sale.ID.String()),
		zap.String("sale_number", sale.SaleNumber),
		zap.String("total", sale.TotalAmount.StringFixed(2)),
		zap.String("currency", sale.CurrencyCode),
		zap.Bool("credit_sale", sale.CreditSale),
	)
	resp := ToSaleResponse(sale, decimal.Zero)
	return &resp, nil
}

// chargeCredit debits the sale total from the client's credit line
func (s *SaleService) chargeCredit(ctx context.Context, repos txscope.Repositories, sale *trade.Sale, actor uuid.UUID) error {
	line, err := repos.CreditLines().FindForUpdate(ctx, sale.ClientID, sale.CurrencyID)
	if err != nil {
		if shared.IsNotFound(err) {
			return shared.CreditLimitExceeded(sale.CurrencyCode, decimal.Zero, sale.TotalAmount)
		}
		return err
	}
	if err := line.Charge(sale.TotalAmount); err != nil {
		return err
	}
	record, err := partner.NewCreditPayment(line, partner.CreditKindCharge, sale.TotalAmount,
		partner.SourceSale, &sale.ID, sale.SaleNumber, actor)
	if err != nil {
		return err
	}
	if err := repos.CreditLines().SaveWithLock(ctx, line); err != nil {
		return err
	}
	return repos.CreditPayments().Save(ctx, record)
}

// EditSale changes the lines, client or remarks of a pending sale. When the
// sale already holds stock the per-product difference is moved; otherwise
// the new lines are only checked against available stock. A sale whose new
// total equals what has been paid is completed.
func (s *SaleService) EditSale(ctx context.Context, actor, id uuid.UUID, req EditSaleRequest) (*SaleResponse, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "sale", "edit")
	defer span.End()
	telemetry.SetAttributes(span, "sale_id", id.String())

	var (
		sale *trade.Sale
		paid decimal.Decimal
	)
	err := s.execute(ctx, func(repos txscope.Repositories, events *txscope.EventCollector) error {
		var err error
		sale, err = lockSale(ctx, repos, id)
		if err != nil {
			return err
		}
		if !sale.IsPending() {
			return shared.InvalidState("sale", string(trade.SaleStatusPending), string(sale.Status))
		}
		paid, err = paidAmount(ctx, repos, sale.ID)
		if err != nil {
			return err
		}
		if req.ClientID != nil && *req.ClientID != sale.ClientID {
			if _, err := loadClient(ctx, repos, *req.ClientID); err != nil {
				return err
			}
		}

		edit := trade.SaleEdit{ClientID: req.ClientID, Remarks: req.Remarks}
		var products map[uuid.UUID]*catalog.Product
		if req.Lines != nil {
			ids := lineProductIDs(req.Lines)
			if sale.StockDeducted {
				ids = append(ids, saleProductIDs(sale.Lines)...)
			}
			products, err = lockProducts(ctx, repos, ids)
			if err != nil {
				return err
			}
			edit.Lines, err = trade.PriceLines(toLineInputs(req.Lines), productSnapshots(products), trade.PricingContext{
				ExchangeRate:    sale.ExchangeRate,
				DefaultDiscount: sale.DiscountPercentage,
			})
			if err != nil {
				return err
			}
		}

		previous, err := sale.Edit(edit, paid, actor)
		if err != nil {
			return err
		}

		if edit.Lines != nil {
			if sale.StockDeducted {
				plan := newStockPlan(catalog.ReasonSaleEdit, sourceSale, sale.ID).
					add(trade.StockDelta(previous, sale.Lines), -1)
				if err := plan.apply(ctx, repos, products, actor, events); err != nil {
					return err
				}
			} else if err := trade.CheckAvailability(trade.Quantities(sale.Lines), productSnapshots(products)); err != nil {
				return err
			}
		}
		// An edit down to the amount already paid settles the sale
		if err := settleSale(ctx, repos, sale, paid, actor, events); err != nil {
			return err
		}

		if err := repos.Sales().SaveWithLock(ctx, sale); err != nil {
			return err
		}
		events.Collect(sale)
		return nil
	})
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}

	s.logger.Info("sale edited",
		zap.String("sale_id", sale.ID.String()),
		zap.String("total", sale.TotalAmount.StringFixed(2)),
	)
	resp := ToSaleResponse(sale, paid)
	return &resp, nil
}

// CancelSale cancels a sale, giving back its stock and, for a credit sale,
// the credit it used. Open deliveries are cancelled with it.
func (s *SaleService) CancelSale(ctx context.Context, actor, id uuid.UUID) (*SaleResponse, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "sale", "cancel")
	defer span.End()
	telemetry.SetAttributes(span, "sale_id", id.String())

	var sale *trade.Sale
	err := s.execute(ctx, func(repos txscope.Repositories, events *txscope.EventCollector) error {
		var err error
		sale, err = lockSale(ctx, repos, id)
		if err != nil {
			return err
		}
		activePayments, err := repos.Payments().CountActiveBySale(ctx, sale.ID)
		if err != nil {
			return err
		}
		pendingReturns, err := repos.Returns().CountPendingBySale(ctx, sale.ID)
		if err != nil {
			return err
		}

		held := sale.StockDeducted
		remaining := trade.Quantities(sale.Lines)
		if err := sale.Cancel(activePayments, pendingReturns, actor); err != nil {
			return err
		}

		if err := s.cancelDeliveries(ctx, repos, sale, actor, events); err != nil {
			return err
		}
		if held {
			plan := newStockPlan(catalog.ReasonSaleCancel, sourceSale, sale.ID).add(remaining, 1)
			if err := plan.lockAndApply(ctx, repos, actor, events); err != nil {
				return err
			}
		}
		if sale.CreditSale {
			if err := s.releaseCredit(ctx, repos, sale, actor); err != nil {
				return err
			}
		}

		if err := repos.Sales().SaveWithLock(ctx, sale); err != nil {
			return err
		}
		events.Collect(sale)
		return nil
	})
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}

	s.logger.Info("sale cancelled", zap.String("sale_id", sale.ID.String()))
	resp := ToSaleResponse(sale, decimal.Zero)
	return &resp, nil
}

// cancelDeliveries cancels the open deliveries of a cancelled sale
func (s *SaleService) cancelDeliveries(ctx context.Context, repos txscope.Repositories, sale *trade.Sale, actor uuid.UUID, events *txscope.EventCollector) error {
	deliveries, err := repos.Deliveries().ListBySale(ctx, sale.ID)
	if err != nil {
		return err
	}
	for i := range deliveries {
		d := &deliveries[i]
		if !d.IsPending() {
			continue
		}
		if err := d.Cancel(actor, "sale cancelled"); err != nil {
			return err
		}
		if err := repos.Deliveries().SaveWithLock(ctx, d); err != nil {
			return err
		}
		events.Collect(d)
	}
	return nil
}

// releaseCredit gives the sale's current total back to the credit line
func (s *SaleService) releaseCredit(ctx context.Context, repos txscope.Repositories, sale *trade.Sale, actor uuid.UUID) error {
	if !sale.TotalAmount.IsPositive() {
		return nil
	}
	line, err := repos.CreditLines().FindForUpdate(ctx, sale.ClientID, sale.CurrencyID)
	if err != nil {
		return err
	}
	released := line.Release(sale.TotalAmount)
	if !released.IsPositive() {
		return nil
	}
	record, err := partner.NewCreditPayment(line, partner.CreditKindRelease, released,
		partner.SourceSale, &sale.ID, sale.SaleNumber, actor)
	if err != nil {
		return err
	}
	if err := repos.CreditLines().SaveWithLock(ctx, line); err != nil {
		return err
	}
	return repos.CreditPayments().Save(ctx, record)
}

// DeleteSale removes a cancelled sale that nothing references
func (s *SaleService) DeleteSale(ctx context.Context, actor, id uuid.UUID) error {
	ctx, span := telemetry.StartServiceSpan(ctx, "sale", "delete")
	defer span.End()

	err := s.execute(ctx, func(repos txscope.Repositories, _ *txscope.EventCollector) error {
		sale, err := lockSale(ctx, repos, id)
		if err != nil {
			return err
		}
		var dependents int64
		for _, count := range []func(context.Context, uuid.UUID) (int64, error){
			repos.Payments().CountBySale,
			repos.Returns().CountBySale,
			repos.Refunds().CountBySale,
			repos.Deliveries().CountBySale,
		} {
			n, err := count(ctx, sale.ID)
			if err != nil {
				return err
			}
			dependents += n
		}
		if err := sale.EnsureDeletable(dependents); err != nil {
			return err
		}
		return repos.Sales().Delete(ctx, sale.ID)
	})
	if err != nil {
		telemetry.RecordError(span, err)
		return err
	}
	s.logger.Info("sale deleted", zap.String("sale_id", id.String()), zap.String("actor", actor.String()))
	return nil
}

// GetSale returns a sale with what has been paid on it
func (s *SaleService) GetSale(ctx context.Context, id uuid.UUID) (*SaleResponse, error) {
	var resp SaleResponse
	err := s.read(ctx, func(repos txscope.Repositories) error {
		sale, err := repos.Sales().FindByID(ctx, id)
		if err != nil {
			return err
		}
		paid, err := paidAmount(ctx, repos, sale.ID)
		if err != nil {
			return err
		}
		resp = ToSaleResponse(sale, paid)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &resp, nil
}

// ListSales returns a page of sales
func (s *SaleService) ListSales(ctx context.Context, filter SaleListFilter) (*shared.Paginated[SaleResponse], error) {
	f := shared.DefaultFilter()
	if filter.Page > 0 {
		f.Page = filter.Page
	}
	if filter.PageSize > 0 {
		f.PageSize = filter.PageSize
	}
	if filter.OrderBy != "" {
		f.OrderBy = filter.OrderBy
	}
	if filter.OrderDir != "" {
		f.OrderDir = filter.OrderDir
	}
	if filter.ClientID != nil {
		f.Filters["client_id"] = *filter.ClientID
	}
	if filter.Status != "" {
		f.Filters["status"] = filter.Status
	}

	var page shared.Paginated[SaleResponse]
	err := s.read(ctx, func(repos txscope.Repositories) error {
		sales, total, err := repos.Sales().FindAll(ctx, f)
		if err != nil {
			return err
		}
		items := make([]SaleResponse, len(sales))
		for i := range sales {
			paid, err := paidAmount(ctx, repos, sales[i].ID)
			if err != nil {
				return err
			}
			items[i] = ToSaleResponse(&sales[i], paid)
		}
		page = shared.NewPaginated(items, total, f.Page, f.Limit())
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &page, nil
}
