package dao

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/radhian/pix-reconciliation/consts"
	"github.com/radhian/pix-reconciliation/entity"
	"github.com/radhian/pix-reconciliation/infra/db/model"
)

const pqUniqueViolation = "23505"

func (d *dao) LoadRecent(ctx context.Context, windowStart, windowEnd time.Time) (*entity.ReconciliationWindow, error) {
	var rows []model.MatchedPayment
	if err := d.db.
		Select("customer_id, paid_on, external_hash").
		Where("paid_on >= ? AND paid_on <= ?", windowStart.Format(consts.DateLayout), windowEnd.Format(consts.DateLayout)).
		Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("%w: failed to load recent payments: %v", entity.ErrUpstream, err)
	}

	window := entity.NewReconciliationWindow(windowStart, windowEnd)
	for _, row := range rows {
		window.ExistingPairs[entity.PaymentKey{CustomerID: row.CustomerID, PaidOn: row.PaidOn}] = struct{}{}
		if row.ExternalHash != nil && *row.ExternalHash != "" {
			window.UsedHashes[*row.ExternalHash] = struct{}{}
		}
	}
	return window, nil
}

func (d *dao) Append(ctx context.Context, payment entity.MatchedPayment) error {
	row := model.MatchedPayment{
		ID:            payment.ID,
		CustomerID:    payment.CustomerID,
		Amount:        payment.Amount.Round(2),
		PaidOn:        payment.PaidOn.Format(consts.DateLayout),
		InvoiceStatus: string(payment.InvoiceStatus),
		CreateTime:    d.now().Unix(),
		CreateBy:      consts.OperatorSystem,
	}
	if row.ID == "" {
		row.ID = uuid.NewString()
	}
	if payment.ExternalHash != "" {
		hash := payment.ExternalHash
		row.ExternalHash = &hash
	}

	if err := d.db.Create(&row).Error; err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: hash %s", entity.ErrDuplicatePayment, payment.ExternalHash)
		}
		return fmt.Errorf("%w: failed to save matched payment: %v", entity.ErrUpstream, err)
	}
	return nil
}

func (d *dao) ListPayments(ctx context.Context, filter entity.PaymentFilter) ([]entity.MatchedPayment, error) {
	query := d.db.Model(&model.MatchedPayment{})
	if !filter.From.IsZero() {
		query = query.Where("paid_on >= ?", filter.From.Format(consts.DateLayout))
	}
	if !filter.To.IsZero() {
		query = query.Where("paid_on <= ?", filter.To.Format(consts.DateLayout))
	}
	if filter.InvoiceStatus != "" {
		query = query.Where("invoice_status = ?", string(filter.InvoiceStatus))
	}
	if filter.NewestFirst {
		query = query.Order("paid_on DESC")
	} else {
		query = query.Order("paid_on ASC")
	}

	var rows []model.MatchedPayment
	if err := query.Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("%w: failed to list payments: %v", entity.ErrUpstream, err)
	}

	payments := make([]entity.MatchedPayment, 0, len(rows))
	for _, row := range rows {
		payments = append(payments, toPaymentEntity(row))
	}
	return payments, nil
}

func toPaymentEntity(row model.MatchedPayment) entity.MatchedPayment {
	paidOn, _ := time.Parse(consts.DateLayout, row.PaidOn)
	payment := entity.MatchedPayment{
		ID:            row.ID,
		CustomerID:    row.CustomerID,
		Amount:        row.Amount,
		PaidOn:        paidOn,
		InvoiceStatus: entity.InvoiceStatus(row.InvoiceStatus),
	}
	if row.ExternalHash != nil {
		payment.ExternalHash = *row.ExternalHash
	}
	return payment
}

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code == pqUniqueViolation
	}
	// sqlite reports constraint failures only through the message
	return strings.Contains(err.Error(), "UNIQUE constraint failed")
}
