// Package partner holds the client account use cases: clients, balances,
// credit lines and the manual movements on them.
package partner

import (
	"context"

	"github.com/erp/backoffice/internal/application/txscope"
	"github.com/erp/backoffice/internal/domain/partner"
	"github.com/erp/backoffice/internal/domain/shared"
	"github.com/erp/backoffice/internal/infrastructure/telemetry"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// AccountService manages clients and their money accounts
type AccountService struct {
	scope  txscope.Scope
	logger *zap.Logger
}

// NewAccountService creates a new AccountService
func NewAccountService(scope txscope.Scope, logger *zap.Logger) *AccountService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AccountService{scope: scope, logger: logger}
}

// CreateClient creates a client
func (s *AccountService) CreateClient(ctx context.Context, actor uuid.UUID, req CreateClientRequest) (*ClientResponse, error) {
	client, err := partner.NewClient(req.Code, req.Name, req.DiscountPercentage)
	if err != nil {
		return nil, err
	}
	if err := client.SetContact(req.Email, req.Phone); err != nil {
		return nil, err
	}

	err = s.scope.Execute(ctx, func(repos txscope.Repositories) error {
		exists, err := repos.Clients().ExistsByCode(ctx, client.Code)
		if err != nil {
			return err
		}
		if exists {
			return shared.NewDomainError("ALREADY_EXISTS", "Client with this code already exists").
				WithDetail("code", client.Code)
		}
		return repos.Clients().Save(ctx, client)
	})
	if err != nil {
		return nil, shared.AsStorageError(err)
	}

	s.logger.Info("client created",
		zap.String("client_id", client.ID.String()),
		zap.String("code", client.Code),
		zap.String("actor", actor.String()),
	)
	resp := ToClientResponse(client)
	return &resp, nil
}

// GetAccount returns a client with every balance and credit line
func (s *AccountService) GetAccount(ctx context.Context, clientID uuid.UUID) (*AccountResponse, error) {
	var resp AccountResponse
	err := s.scope.Execute(ctx, func(repos txscope.Repositories) error {
		client, err := repos.Clients().FindByID(ctx, clientID)
		if err != nil {
			return err
		}
		balances, err := repos.Balances().ListByClient(ctx, clientID)
		if err != nil {
			return err
		}
		credits, err := repos.CreditLines().ListByClient(ctx, clientID)
		if err != nil {
			return err
		}

		resp.Client = ToClientResponse(client)
		resp.Balances = make([]BalanceResponse, len(balances))
		for i, b := range balances {
			resp.Balances[i] = BalanceResponse{CurrencyID: b.CurrencyID, CurrencyCode: b.CurrencyCode, Amount: b.Amount}
		}
		resp.CreditLines = make([]CreditLineResponse, len(credits))
		for i := range credits {
			resp.CreditLines[i] = ToCreditLineResponse(&credits[i])
		}
		return nil
	})
	if err != nil {
		return nil, shared.AsStorageError(err)
	}
	return &resp, nil
}

// SetCreditLimit sets the client's credit limit in a currency, opening the
// credit line when needed. The limit may not drop below the credit in use.
func (s *AccountService) SetCreditLimit(ctx context.Context, actor, clientID uuid.UUID, req SetCreditLimitRequest) (*CreditLineResponse, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "account", "set_credit_limit")
	defer span.End()
	telemetry.SetAttributes(span, "client_id", clientID.String(), "limit", req.Limit.String())

	var line *partner.CreditLine
	err := s.scope.Execute(ctx, func(repos txscope.Repositories) error {
		if _, err := repos.Clients().FindByID(ctx, clientID); err != nil {
			return err
		}
		var err error
		line, err = repos.CreditLines().FindForUpdate(ctx, clientID, req.CurrencyID)
		switch {
		case err == nil:
			if err := line.SetLimit(req.Limit); err != nil {
				return err
			}
			return repos.CreditLines().SaveWithLock(ctx, line)
		case shared.IsNotFound(err):
			cur, err := repos.Currencies().FindByID(ctx, req.CurrencyID)
			if err != nil {
				return err
			}
			line, err = partner.NewCreditLine(clientID, cur.ID, cur.Code, req.Limit)
			if err != nil {
				return err
			}
			return repos.CreditLines().Save(ctx, line)
		default:
			return err
		}
	})
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, shared.AsStorageError(err)
	}

	s.logger.Info("credit limit set",
		zap.String("client_id", clientID.String()),
		zap.String("currency", line.CurrencyCode),
		zap.String("limit", line.CreditLimit.StringFixed(2)),
		zap.String("actor", actor.String()),
	)
	resp := ToCreditLineResponse(line)
	return &resp, nil
}

// DepositBalance puts money on the client's balance in a currency
func (s *AccountService) DepositBalance(ctx context.Context, actor, clientID uuid.UUID, req DepositRequest) (*LedgerEntryResponse, error) {
	return s.moveBalance(ctx, actor, clientID, req.CurrencyID, partner.BalanceKindDeposit, req.Amount, req.Remarks)
}

// AddBalancePayment draws money from the client's balance
func (s *AccountService) AddBalancePayment(ctx context.Context, actor uuid.UUID, req LedgerPaymentRequest) (*LedgerEntryResponse, error) {
	return s.moveBalance(ctx, actor, req.ClientID, req.CurrencyID, partner.BalanceKindWithdrawal, req.Amount, req.Remarks)
}

func (s *AccountService) moveBalance(ctx context.Context, actor, clientID, currencyID uuid.UUID, kind partner.BalanceKind, amount decimal.Decimal, remarks string) (*LedgerEntryResponse, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "account", "balance_"+string(kind))
	defer span.End()
	telemetry.SetAttributes(span, "client_id", clientID.String(), "amount", amount.String())

	var record *partner.BalancePayment
	err := s.scope.Execute(ctx, func(repos txscope.Repositories) error {
		if _, err := repos.Clients().FindByID(ctx, clientID); err != nil {
			return err
		}
		balance, created, err := s.lockBalance(ctx, repos, clientID, currencyID)
		if err != nil {
			return err
		}
		record, err = partner.NewBalancePayment(balance, kind, amount, partner.SourceManual, nil, remarks, actor)
		if err != nil {
			return err
		}
		if err := record.Apply(balance); err != nil {
			return err
		}
		if created {
			err = repos.Balances().Save(ctx, balance)
		} else {
			err = repos.Balances().SaveWithLock(ctx, balance)
		}
		if err != nil {
			return err
		}
		return repos.BalancePayments().Save(ctx, record)
	})
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, shared.AsStorageError(err)
	}

	s.logger.Info("balance moved",
		zap.String("client_id", clientID.String()),
		zap.String("kind", string(kind)),
		zap.String("amount", record.Amount.StringFixed(2)),
	)
	resp := ToBalancePaymentResponse(record)
	return &resp, nil
}

// lockBalance returns the locked balance, or a new empty one when the client
// has never held money in that currency
func (s *AccountService) lockBalance(ctx context.Context, repos txscope.Repositories, clientID, currencyID uuid.UUID) (*partner.ClientBalance, bool, error) {
	balance, err := repos.Balances().FindForUpdate(ctx, clientID, currencyID)
	if err == nil {
		return balance, false, nil
	}
	if !shared.IsNotFound(err) {
		return nil, false, err
	}
	cur, err := repos.Currencies().FindByID(ctx, currencyID)
	if err != nil {
		return nil, false, err
	}
	return partner.NewClientBalance(clientID, cur.ID, cur.Code), true, nil
}

// CancelBalancePayment cancels a manual balance record and reverses it.
// Records created by sale payments are reversed by cancelling the payment.
func (s *AccountService) CancelBalancePayment(ctx context.Context, actor, id uuid.UUID) (*LedgerEntryResponse, error) {
	var record *partner.BalancePayment
	err := s.scope.Execute(ctx, func(repos txscope.Repositories) error {
		unlocked, err := repos.BalancePayments().FindByID(ctx, id)
		if err != nil {
			return err
		}
		if !unlocked.IsManual() {
			return shared.InvalidState("balance payment", partner.SourceManual, unlocked.SourceType).
				WithDetail("reason", "cancel the source document instead")
		}
		balance, err := repos.Balances().FindForUpdate(ctx, unlocked.ClientID, unlocked.CurrencyID)
		if err != nil {
			return err
		}
		if record, err = repos.BalancePayments().FindByID(ctx, id); err != nil {
			return err
		}
		if err := record.Cancel(balance, actor); err != nil {
			return err
		}
		if err := repos.Balances().SaveWithLock(ctx, balance); err != nil {
			return err
		}
		return repos.BalancePayments().SaveWithLock(ctx, record)
	})
	if err != nil {
		return nil, shared.AsStorageError(err)
	}
	s.logger.Info("balance payment cancelled", zap.String("id", id.String()))
	resp := ToBalancePaymentResponse(record)
	return &resp, nil
}

// DeleteBalancePayment removes a cancelled balance record
func (s *AccountService) DeleteBalancePayment(ctx context.Context, actor, id uuid.UUID) error {
	err := s.scope.Execute(ctx, func(repos txscope.Repositories) error {
		record, err := repos.BalancePayments().FindByID(ctx, id)
		if err != nil {
			return err
		}
		if err := record.EnsureDeletable(); err != nil {
			return err
		}
		return repos.BalancePayments().Delete(ctx, id)
	})
	if err != nil {
		return shared.AsStorageError(err)
	}
	s.logger.Info("balance payment deleted", zap.String("id", id.String()), zap.String("actor", actor.String()))
	return nil
}

// AddCreditPayment repays used credit. The amount may not exceed the credit in use.
func (s *AccountService) AddCreditPayment(ctx context.Context, actor uuid.UUID, req LedgerPaymentRequest) (*LedgerEntryResponse, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "account", "credit_repayment")
	defer span.End()
	telemetry.SetAttributes(span, "client_id", req.ClientID.String(), "amount", req.Amount.String())

	var record *partner.CreditPayment
	err := s.scope.Execute(ctx, func(repos txscope.Repositories) error {
		line, err := repos.CreditLines().FindForUpdate(ctx, req.ClientID, req.CurrencyID)
		if err != nil {
			return err
		}
		record, err = partner.NewCreditPayment(line, partner.CreditKindRepayment, req.Amount, partner.SourceManual, nil, req.Remarks, actor)
		if err != nil {
			return err
		}
		if err := line.Repay(record.Amount); err != nil {
			return err
		}
		if err := repos.CreditLines().SaveWithLock(ctx, line); err != nil {
			return err
		}
		return repos.CreditPayments().Save(ctx, record)
	})
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, shared.AsStorageError(err)
	}

	s.logger.Info("credit repaid",
		zap.String("client_id", req.ClientID.String()),
		zap.String("amount", record.Amount.StringFixed(2)),
	)
	resp := ToCreditPaymentResponse(record)
	return &resp, nil
}

// CancelCreditPayment cancels a manual repayment, using the credit again
// within the limit
func (s *AccountService) CancelCreditPayment(ctx context.Context, actor, id uuid.UUID) (*LedgerEntryResponse, error) {
	var record *partner.CreditPayment
	err := s.scope.Execute(ctx, func(repos txscope.Repositories) error {
		unlocked, err := repos.CreditPayments().FindByID(ctx, id)
		if err != nil {
			return err
		}
		if !unlocked.IsManual() {
			return shared.InvalidState("credit payment", partner.SourceManual, unlocked.SourceType).
				WithDetail("reason", "cancel the source document instead")
		}
		line, err := repos.CreditLines().FindForUpdate(ctx, unlocked.ClientID, unlocked.CurrencyID)
		if err != nil {
			return err
		}
		if record, err = repos.CreditPayments().FindByID(ctx, id); err != nil {
			return err
		}
		if err := record.Cancel(line, actor); err != nil {
			return err
		}
		if err := repos.CreditLines().SaveWithLock(ctx, line); err != nil {
			return err
		}
		return repos.CreditPayments().SaveWithLock(ctx, record)
	})
	if err != nil {
		return nil, shared.AsStorageError(err)
	}
	s.logger.Info("credit payment cancelled", zap.String("id", id.String()))
	resp := ToCreditPaymentResponse(record)
	return &resp, nil
}

// DeleteCreditPayment removes a cancelled credit record
func (s *AccountService) DeleteCreditPayment(ctx context.Context, actor, id uuid.UUID) error {
	err := s.scope.Execute(ctx, func(repos txscope.Repositories) error {
		record, err := repos.CreditPayments().FindByID(ctx, id)
		if err != nil {
			return err
		}
		if err := record.EnsureDeletable(); err != nil {
			return err
		}
		return repos.CreditPayments().Delete(ctx, id)
	})
	if err != nil {
		return shared.AsStorageError(err)
	}
	s.logger.Info("credit payment deleted", zap.String("id", id.String()), zap.String("actor", actor.String()))
	return nil
}

// ListLedger returns every balance and credit record of a client
func (s *AccountService) ListLedger(ctx context.Context, clientID uuid.UUID) ([]LedgerEntryResponse, error) {
	var out []LedgerEntryResponse
	err := s.scope.Execute(ctx, func(repos txscope.Repositories) error {
		if _, err := repos.Clients().FindByID(ctx, clientID); err != nil {
			return err
		}
		balances, err := repos.BalancePayments().ListByClient(ctx, clientID)
		if err != nil {
			return err
		}
		credits, err := repos.CreditPayments().ListByClient(ctx, clientID)
		if err != nil {
			return err
		}
		out = make([]LedgerEntryResponse, 0, len(balances)+len(credits))
		for i := range balances {
			out = append(out, ToBalancePaymentResponse(&balances[i]))
		}
		for i := range credits {
			out = append(out, ToCreditPaymentResponse(&credits[i]))
		}
		return nil
	})
	if err != nil {
		return nil, shared.AsStorageError(err)
	}
	return out, nil
}
