// Package trade holds the sale, payment, return, refund and purchase order use cases.
// Every mutating operation runs inside one transaction scope; events are
// published only after it commits.
package trade

import (
	"context"
	"strings"

	"github.com/erp/backoffice/internal/application/txscope"
	"github.com/erp/backoffice/internal/domain/shared"
	"github.com/oklog/ulid/v2"
	"go.uber.org/zap"
)

// Document number prefixes
const (
	saleNumberPrefix          = "SAL"
	returnNumberPrefix        = "RET"
	purchaseOrderNumberPrefix = "PO"
)

// newDocumentNumber returns a sortable, unique document number such as SAL-01J9Z...
func newDocumentNumber(prefix string) string {
	return prefix + "-" + strings.ToUpper(ulid.Make().String())
}

// serviceBase carries what every trade service needs
type serviceBase struct {
	scope          txscope.Scope
	eventPublisher shared.EventPublisher
	logger         *zap.Logger
}

func newServiceBase(scope txscope.Scope, logger *zap.Logger) serviceBase {
	if logger == nil {
		logger = zap.NewNop()
	}
	return serviceBase{scope: scope, logger: logger}
}

// SetEventPublisher sets the publisher committed events are sent to
func (b *serviceBase) SetEventPublisher(publisher shared.EventPublisher) {
	b.eventPublisher = publisher
}

// execute runs fn in a transaction and publishes what it collected once committed
func (b *serviceBase) execute(ctx context.Context, fn func(repos txscope.Repositories, events *txscope.EventCollector) error) error {
	var events txscope.EventCollector
	err := b.scope.Execute(ctx, func(repos txscope.Repositories) error {
		events.Reset()
		return fn(repos, &events)
	})
	if err != nil {
		return shared.AsStorageError(err)
	}
	if err := events.Publish(ctx, b.eventPublisher); err != nil {
		b.logger.Error("failed to publish trade events", zap.Error(err))
	}
	return nil
}

// read runs a read-only query in a transaction
func (b *serviceBase) read(ctx context.Context, fn func(repos txscope.Repositories) error) error {
	return shared.AsStorageError(b.scope.Execute(ctx, fn))
}
