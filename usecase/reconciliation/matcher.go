package reconciliation

import (
	"strings"

	"github.com/shopspring/decimal"

	"github.com/radhian/pix-reconciliation/entity"
	"github.com/radhian/pix-reconciliation/utils"
)

// CustomerMatches reports whether a PIX credit of amount with the given
// description pays customer's subscription: the amounts must be equal to the
// cent and the customer's normalized name must occur in the description.
func CustomerMatches(customer entity.Customer, amount decimal.Decimal, description string) bool {
	if !amount.Round(2).Equal(customer.ExpectedAmount.Round(2)) {
		return false
	}
	name := utils.NormalizeName(customer.Name)
	if name == "" {
		return false
	}
	return strings.Contains(utils.NormalizeName(description), name)
}

// FilterPixCredits keeps PIX credits with a positive amount, in source order.
func FilterPixCredits(entries []entity.StatementEntry) []entity.StatementEntry {
	credits := make([]entity.StatementEntry, 0, len(entries))
	for _, e := range entries {
		if !e.IsPixCredit || !e.Amount.Valid || !e.Amount.Decimal.IsPositive() {
			continue
		}
		credits = append(credits, e)
	}
	return credits
}
