package billing

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/radhian/pix-reconciliation/consts"
	"github.com/radhian/pix-reconciliation/entity"
	"github.com/radhian/pix-reconciliation/utils"
)

// PaymentStatusOf classifies a customer for the month of today. paidThisMonth
// holds the ids of customers with a payment since the first of the month.
// Due days past 28 are clamped so every month has the due date.
func PaymentStatusOf(customer entity.Customer, paidThisMonth map[string]struct{}, today time.Time) entity.PaymentStatus {
	if _, ok := paidThisMonth[customer.ID]; ok {
		return entity.PaymentStatusPaid
	}
	dueDay := customer.DueDay
	if dueDay < 1 {
		dueDay = consts.DefaultDueDay
	}
	if dueDay > consts.MaxDueDay {
		dueDay = consts.MaxDueDay
	}
	if today.Day() > dueDay {
		return entity.PaymentStatusOverdue
	}
	return entity.PaymentStatusPending
}

func (u *billingUsecase) ListCustomerStatuses(ctx context.Context) ([]entity.CustomerStatus, error) {
	today := utils.DateOnly(u.now())
	monthPayments, err := u.paymentsThisMonth(ctx, today)
	if err != nil {
		return nil, err
	}
	customers, err := u.customers.ListCustomers(ctx)
	if err != nil {
		return nil, err
	}

	paid := paidCustomers(monthPayments)
	statuses := make([]entity.CustomerStatus, 0, len(customers))
	for _, c := range customers {
		statuses = append(statuses, customerStatus(c, paid, today))
	}
	return statuses, nil
}

func customerStatus(c entity.Customer, paidThisMonth map[string]struct{}, today time.Time) entity.CustomerStatus {
	return entity.CustomerStatus{
		ID:             c.ID,
		Name:           c.Name,
		Document:       c.Document,
		ExpectedAmount: c.ExpectedAmount,
		DueDay:         c.DueDay,
		Active:         c.Active,
		PaymentStatus:  PaymentStatusOf(c, paidThisMonth, today),
	}
}

func (u *billingUsecase) GetDashboard(ctx context.Context) (entity.Dashboard, error) {
	today := utils.DateOnly(u.now())
	monthPayments, err := u.paymentsThisMonth(ctx, today)
	if err != nil {
		return entity.Dashboard{}, err
	}
	pendingInvoices, err := u.payments.ListPayments(ctx, entity.PaymentFilter{InvoiceStatus: entity.InvoiceStatusPending})
	if err != nil {
		return entity.Dashboard{}, err
	}
	active, err := u.customers.ListActive(ctx)
	if err != nil {
		return entity.Dashboard{}, err
	}

	total := decimal.Zero
	for _, p := range monthPayments {
		total = total.Add(p.Amount)
	}

	paid := paidCustomers(monthPayments)
	overdue := 0
	for _, c := range active {
		if PaymentStatusOf(c, paid, today) == entity.PaymentStatusOverdue {
			overdue++
		}
	}

	return entity.Dashboard{
		TotalReceived:    total.Round(2),
		InvoicesToIssue:  len(pendingInvoices),
		OverdueCustomers: overdue,
	}, nil
}

func (u *billingUsecase) paymentsThisMonth(ctx context.Context, today time.Time) ([]entity.MatchedPayment, error) {
	monthStart := time.Date(today.Year(), today.Month(), 1, 0, 0, 0, 0, time.UTC)
	return u.payments.ListPayments(ctx, entity.PaymentFilter{From: monthStart, To: today})
}

func paidCustomers(payments []entity.MatchedPayment) map[string]struct{} {
	paid := make(map[string]struct{}, len(payments))
	for _, p := range payments {
		paid[p.CustomerID] = struct{}{}
	}
	return paid
}
