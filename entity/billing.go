package entity

import "github.com/shopspring/decimal"

type PaymentStatus string

const (
	PaymentStatusPaid    PaymentStatus = "paid"
	PaymentStatusPending PaymentStatus = "pending"
	PaymentStatusOverdue PaymentStatus = "overdue"
)

// CustomerStatus is a customer with its payment status for the current month.
type CustomerStatus struct {
	ID             string          `json:"id"`
	Name           string          `json:"name"`
	Document       string          `json:"document,omitempty"`
	ExpectedAmount decimal.Decimal `json:"expected_amount"`
	DueDay         int             `json:"due_day"`
	Active         bool            `json:"active"`
	PaymentStatus  PaymentStatus   `json:"payment_status"`
}

type Dashboard struct {
	TotalReceived    decimal.Decimal `json:"total_received"`
	InvoicesToIssue  int             `json:"invoices_to_issue"`
	OverdueCustomers int             `json:"overdue_customers"`
}

// CustomerCreate is the body of a customer registration.
type CustomerCreate struct {
	Name           string           `json:"name" validate:"required,max=200"`
	Document       string           `json:"document" validate:"max=20"`
	ExpectedAmount *decimal.Decimal `json:"expected_amount" validate:"required"`
	DueDay         *int             `json:"due_day" validate:"required"`
	Active         *bool            `json:"active"`
}

// CustomerUpdate is a partial update: nil fields are left unchanged.
type CustomerUpdate struct {
	Name           *string          `json:"name" validate:"omitempty,min=1,max=200"`
	Document       *string          `json:"document" validate:"omitempty,max=20"`
	ExpectedAmount *decimal.Decimal `json:"expected_amount"`
	DueDay         *int             `json:"due_day"`
	Active         *bool            `json:"active"`
}

func (u CustomerUpdate) IsEmpty() bool {
	return u.Name == nil && u.Document == nil && u.ExpectedAmount == nil && u.DueDay == nil && u.Active == nil
}
