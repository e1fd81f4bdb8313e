package postgrest

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/gommon/log"
	"github.com/shopspring/decimal"

	"github.com/radhian/pix-reconciliation/consts"
	"github.com/radhian/pix-reconciliation/entity"
)

// invoice statuses as stored in the transacoes table
var invoiceStatusColumn = map[entity.InvoiceStatus]string{
	entity.InvoiceStatusPending: "pendente",
	entity.InvoiceStatusIssued:  "emitida",
}

type paymentRow struct {
	ID            flexID          `json:"id,omitempty"`
	CustomerID    flexID          `json:"cliente_id"`
	Amount        decimal.Decimal `json:"valor"`
	PaidOn        string          `json:"data_pagamento"`
	InvoiceStatus string          `json:"status_nota_fiscal,omitempty"`
	ExternalHash  *string         `json:"hash_bancario"`
}

type newPaymentRow struct {
	CustomerID    string          `json:"cliente_id"`
	Amount        decimal.Decimal `json:"valor"`
	PaidOn        string          `json:"data_pagamento"`
	InvoiceStatus string          `json:"status_nota_fiscal"`
	ExternalHash  *string         `json:"hash_bancario"`
}

func (s *Store) LoadRecent(ctx context.Context, windowStart, windowEnd time.Time) (*entity.ReconciliationWindow, error) {
	var rows []paymentRow
	err := s.selectRows(ctx, tablePayments, query{
		{"select", "cliente_id,data_pagamento,hash_bancario"},
		{"data_pagamento", "gte." + windowStart.Format(consts.DateLayout)},
		{"data_pagamento", "lte." + windowEnd.Format(consts.DateLayout)},
	}, &rows)
	if err != nil {
		return nil, err
	}

	window := entity.NewReconciliationWindow(windowStart, windowEnd)
	for _, row := range rows {
		window.ExistingPairs[entity.PaymentKey{CustomerID: string(row.CustomerID), PaidOn: dateColumn(row.PaidOn)}] = struct{}{}
		if row.ExternalHash != nil && *row.ExternalHash != "" {
			window.UsedHashes[*row.ExternalHash] = struct{}{}
		}
	}
	return window, nil
}

func (s *Store) Append(ctx context.Context, payment entity.MatchedPayment) error {
	row := newPaymentRow{
		CustomerID:    payment.CustomerID,
		Amount:        payment.Amount.Round(2),
		PaidOn:        payment.PaidOn.Format(consts.DateLayout),
		InvoiceStatus: invoiceStatusColumn[payment.InvoiceStatus],
	}
	if row.InvoiceStatus == "" {
		row.InvoiceStatus = invoiceStatusColumn[entity.InvoiceStatusPending]
	}
	if payment.ExternalHash != "" {
		hash := payment.ExternalHash
		row.ExternalHash = &hash
	}

	status, body, err := s.insertRow(ctx, tablePayments, row)
	if err != nil {
		return fmt.Errorf("%w: insert payment: %v", entity.ErrUpstream, err)
	}
	switch {
	case status == http.StatusConflict:
		log.Warnf("[PostgREST] Payment with hash %s rejected as duplicate", payment.ExternalHash)
		return fmt.Errorf("%w: hash %s", entity.ErrDuplicatePayment, payment.ExternalHash)
	case status < 200 || status >= 300:
		return fmt.Errorf("%w: insert payment returned status %d: %s", entity.ErrUpstream, status, body)
	}
	return nil
}

func (s *Store) ListPayments(ctx context.Context, filter entity.PaymentFilter) ([]entity.MatchedPayment, error) {
	q := query{{"select", "id,cliente_id,valor,data_pagamento,status_nota_fiscal,hash_bancario"}}
	if !filter.From.IsZero() {
		q = append(q, [2]string{"data_pagamento", "gte." + filter.From.Format(consts.DateLayout)})
	}
	if !filter.To.IsZero() {
		q = append(q, [2]string{"data_pagamento", "lte." + filter.To.Format(consts.DateLayout)})
	}
	if filter.InvoiceStatus != "" {
		q = append(q, [2]string{"status_nota_fiscal", "eq." + invoiceStatusColumn[filter.InvoiceStatus]})
	}
	if filter.NewestFirst {
		q = append(q, [2]string{"order", "data_pagamento.desc"})
	} else {
		q = append(q, [2]string{"order", "data_pagamento.asc"})
	}

	var rows []paymentRow
	if err := s.selectRows(ctx, tablePayments, q, &rows); err != nil {
		return nil, err
	}

	payments := make([]entity.MatchedPayment, 0, len(rows))
	for _, row := range rows {
		paidOn, _ := time.Parse(consts.DateLayout, dateColumn(row.PaidOn))
		payment := entity.MatchedPayment{
			ID:            string(row.ID),
			CustomerID:    string(row.CustomerID),
			Amount:        row.Amount,
			PaidOn:        paidOn,
			InvoiceStatus: invoiceStatusFromColumn(row.InvoiceStatus),
		}
		if row.ExternalHash != nil {
			payment.ExternalHash = *row.ExternalHash
		}
		payments = append(payments, payment)
	}
	return payments, nil
}

func invoiceStatusFromColumn(v string) entity.InvoiceStatus {
	for status, column := range invoiceStatusColumn {
		if column == v {
			return status
		}
	}
	return entity.InvoiceStatus(v)
}

// dateColumn keeps the date part of a date or timestamp column.
func dateColumn(v string) string {
	if len(v) > 10 {
		return v[:10]
	}
	return v
}
