package billing

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"

	"github.com/radhian/pix-reconciliation/consts"
	"github.com/radhian/pix-reconciliation/entity"
)

var accountingHeader = []string{"Date", "Customer", "Amount", "Document"}

// ExportAccounting writes every matched payment, newest first, as CSV for the
// accountant. Payments of unknown customers keep empty name and document.
func (u *billingUsecase) ExportAccounting(ctx context.Context, w io.Writer) error {
	payments, err := u.payments.ListPayments(ctx, entity.PaymentFilter{NewestFirst: true})
	if err != nil {
		return err
	}

	type customerInfo struct{ name, document string }
	byID := make(map[string]customerInfo)
	if len(payments) > 0 {
		customers, err := u.customers.ListCustomers(ctx)
		if err != nil {
			return err
		}
		for _, c := range customers {
			byID[c.ID] = customerInfo{name: c.Name, document: c.Document}
		}
	}

	writer := csv.NewWriter(w)
	if err := writer.Write(accountingHeader); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}
	for _, p := range payments {
		info := byID[p.CustomerID]
		record := []string{p.PaidOn.Format(consts.DateLayout), info.name, p.Amount.StringFixed(2), info.document}
		if err := writer.Write(record); err != nil {
			return fmt.Errorf("write csv row: %w", err)
		}
	}
	writer.Flush()
	return writer.Error()
}
