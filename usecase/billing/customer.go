package billing

import (
	"context"
	"fmt"

	"github.com/radhian/pix-reconciliation/consts"
	"github.com/radhian/pix-reconciliation/entity"
	"github.com/radhian/pix-reconciliation/utils"
)

// ClampDueDay keeps a due day inside 1..28 so it exists in every month.
func ClampDueDay(day int) int {
	if day < 1 {
		return 1
	}
	if day > consts.MaxDueDay {
		return consts.MaxDueDay
	}
	return day
}

func (u *billingUsecase) GetCustomer(ctx context.Context, id string) (entity.CustomerStatus, error) {
	c, err := u.customers.GetCustomer(ctx, id)
	if err != nil {
		return entity.CustomerStatus{}, err
	}
	return u.withPaymentStatus(ctx, c)
}

// CreateCustomer registers a customer. Active defaults to true.
func (u *billingUsecase) CreateCustomer(ctx context.Context, in entity.CustomerCreate) (entity.CustomerStatus, error) {
	if in.ExpectedAmount == nil || in.DueDay == nil {
		return entity.CustomerStatus{}, fmt.Errorf("expected amount and due day are required")
	}
	c := entity.Customer{
		Name:           in.Name,
		Document:       in.Document,
		ExpectedAmount: in.ExpectedAmount.Round(2),
		DueDay:         ClampDueDay(*in.DueDay),
		Active:         true,
	}
	if in.Active != nil {
		c.Active = *in.Active
	}

	created, err := u.customers.CreateCustomer(ctx, c)
	if err != nil {
		return entity.CustomerStatus{}, err
	}
	// a new customer has no payments yet
	return customerStatus(created, nil, utils.DateOnly(u.now())), nil
}

// UpdateCustomer applies the non-nil fields of update. An empty update
// returns the customer unchanged.
func (u *billingUsecase) UpdateCustomer(ctx context.Context, id string, update entity.CustomerUpdate) (entity.CustomerStatus, error) {
	if update.IsEmpty() {
		return u.GetCustomer(ctx, id)
	}
	if update.DueDay != nil {
		day := ClampDueDay(*update.DueDay)
		update.DueDay = &day
	}
	if update.ExpectedAmount != nil {
		amount := update.ExpectedAmount.Round(2)
		update.ExpectedAmount = &amount
	}

	c, err := u.customers.UpdateCustomer(ctx, id, update)
	if err != nil {
		return entity.CustomerStatus{}, err
	}
	return u.withPaymentStatus(ctx, c)
}

// DeleteCustomer removes a customer. Deleting an unknown id is not an error.
// Matched payments of the customer are kept for the accounting export.
func (u *billingUsecase) DeleteCustomer(ctx context.Context, id string) error {
	return u.customers.DeleteCustomer(ctx, id)
}

func (u *billingUsecase) withPaymentStatus(ctx context.Context, c entity.Customer) (entity.CustomerStatus, error) {
	today := utils.DateOnly(u.now())
	monthPayments, err := u.paymentsThisMonth(ctx, today)
	if err != nil {
		return entity.CustomerStatus{}, err
	}
	return customerStatus(c, paidCustomers(monthPayments), today), nil
}
