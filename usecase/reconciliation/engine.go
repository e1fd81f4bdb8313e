package reconciliation

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/labstack/gommon/log"

	"github.com/radhian/pix-reconciliation/entity"
	"github.com/radhian/pix-reconciliation/utils"
)

// Engine turns filtered statement entries into matched payments.
type Engine struct {
	ledger LedgerGateway
}

func NewEngine(ledger LedgerGateway) *Engine {
	return &Engine{ledger: ledger}
}

// Reconcile walks entries in order and records at most one payment per entry,
// for the first customer in customers that matches it and has no payment on
// the same day yet. window is updated as payments are recorded.
//
// An append failure stops the walk; payments appended before it are kept.
func (e *Engine) Reconcile(
	ctx context.Context,
	entries []entity.StatementEntry,
	customers []entity.Customer,
	window *entity.ReconciliationWindow,
	today time.Time,
) (entity.RunSummary, error) {
	summary := entity.RunSummary{EntriesSeen: len(entries)}

	for _, entry := range entries {
		if window.HashUsed(entry.ExternalHash) {
			log.Debugf("[Engine] Hash %s already recorded, skipping", entry.ExternalHash)
			continue
		}
		amount := entry.Amount.Decimal.Round(2)
		paidOn := utils.ResolveDate(entry.OccurredOn, today)

		for _, customer := range customers {
			if window.HasPair(customer.ID, paidOn) {
				continue
			}
			if !CustomerMatches(customer, amount, entry.Description) {
				continue
			}

			payment := entity.MatchedPayment{
				CustomerID:    customer.ID,
				Amount:        amount,
				PaidOn:        paidOn,
				InvoiceStatus: entity.InvoiceStatusPending,
				ExternalHash:  entry.ExternalHash,
			}
			err := e.ledger.Append(ctx, payment)
			if errors.Is(err, entity.ErrDuplicatePayment) {
				log.Warnf("[Engine] Payment for customer %s already in ledger: %v", customer.ID, err)
				window.Record(customer.ID, paidOn, entry.ExternalHash)
				break
			}
			if err != nil {
				return summary, fmt.Errorf("append payment for customer %s: %w", customer.ID, err)
			}

			window.Record(customer.ID, paidOn, entry.ExternalHash)
			summary.MatchesCreated++
			log.Infof("[Engine] Matched %s to customer %s on %s", amount.StringFixed(2), customer.ID, paidOn.Format("2006-01-02"))
			break
		}
	}

	return summary, nil
}
