package postgrest

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/shopspring/decimal"

	"github.com/radhian/pix-reconciliation/consts"
	"github.com/radhian/pix-reconciliation/entity"
)

const customerColumns = "id,nome,documento_cpf_cnpj,valor_mensalidade,dia_vencimento,status_ativo"

type customerRow struct {
	ID             flexID              `json:"id"`
	Name           string              `json:"nome"`
	Document       *string             `json:"documento_cpf_cnpj"`
	ExpectedAmount decimal.NullDecimal `json:"valor_mensalidade"`
	DueDay         *int                `json:"dia_vencimento"`
	Active         *bool               `json:"status_ativo"`
}

func (r customerRow) toEntity() entity.Customer {
	c := entity.Customer{
		ID:             string(r.ID),
		Name:           r.Name,
		ExpectedAmount: r.ExpectedAmount.Decimal,
		DueDay:         consts.DefaultDueDay,
		Active:         true,
	}
	if r.Document != nil {
		c.Document = *r.Document
	}
	if r.DueDay != nil && *r.DueDay > 0 {
		c.DueDay = *r.DueDay
	}
	if r.Active != nil {
		c.Active = *r.Active
	}
	return c
}

// ListActive returns active customers in the order the table yields them.
func (s *Store) ListActive(ctx context.Context) ([]entity.Customer, error) {
	return s.listCustomers(ctx, query{
		{"select", customerColumns},
		{"status_ativo", "eq.true"},
	})
}

// ListCustomers returns every customer ordered by name.
func (s *Store) ListCustomers(ctx context.Context) ([]entity.Customer, error) {
	return s.listCustomers(ctx, query{
		{"select", customerColumns},
		{"order", "nome.asc"},
	})
}

func (s *Store) listCustomers(ctx context.Context, q query) ([]entity.Customer, error) {
	var rows []customerRow
	if err := s.selectRows(ctx, tableCustomers, q, &rows); err != nil {
		return nil, err
	}
	customers := make([]entity.Customer, 0, len(rows))
	for _, row := range rows {
		customers = append(customers, row.toEntity())
	}
	return customers, nil
}

type newCustomerRow struct {
	Name           string          `json:"nome"`
	Document       *string         `json:"documento_cpf_cnpj"`
	ExpectedAmount decimal.Decimal `json:"valor_mensalidade"`
	DueDay         int             `json:"dia_vencimento"`
	Active         bool            `json:"status_ativo"`
}

func (s *Store) GetCustomer(ctx context.Context, id string) (entity.Customer, error) {
	customers, err := s.listCustomers(ctx, query{
		{"select", customerColumns},
		{"id", "eq." + id},
	})
	if err != nil {
		return entity.Customer{}, err
	}
	if len(customers) == 0 {
		return entity.Customer{}, fmt.Errorf("customer %s: %w", id, entity.ErrNotFound)
	}
	return customers[0], nil
}

func (s *Store) CreateCustomer(ctx context.Context, customer entity.Customer) (entity.Customer, error) {
	row := newCustomerRow{
		Name:           customer.Name,
		ExpectedAmount: customer.ExpectedAmount,
		DueDay:         customer.DueDay,
		Active:         customer.Active,
	}
	if customer.Document != "" {
		row.Document = &customer.Document
	}

	status, body, err := s.insertRow(ctx, tableCustomers, row)
	if err != nil {
		return entity.Customer{}, fmt.Errorf("%w: insert customer: %v", entity.ErrUpstream, err)
	}
	if status < 200 || status >= 300 {
		return entity.Customer{}, fmt.Errorf("%w: insert customer returned status %d: %s", entity.ErrUpstream, status, body)
	}
	return firstCustomer(body, "insert customer")
}

func (s *Store) UpdateCustomer(ctx context.Context, id string, update entity.CustomerUpdate) (entity.Customer, error) {
	fields := map[string]interface{}{}
	if update.Name != nil {
		fields["nome"] = *update.Name
	}
	if update.Document != nil {
		fields["documento_cpf_cnpj"] = *update.Document
	}
	if update.ExpectedAmount != nil {
		fields["valor_mensalidade"] = *update.ExpectedAmount
	}
	if update.DueDay != nil {
		fields["dia_vencimento"] = *update.DueDay
	}
	if update.Active != nil {
		fields["status_ativo"] = *update.Active
	}
	if len(fields) == 0 {
		return s.GetCustomer(ctx, id)
	}

	body, err := s.writeRows(ctx, http.MethodPatch, tableCustomers, query{
		{"id", "eq." + id},
		{"select", customerColumns},
	}, fields)
	if err != nil {
		return entity.Customer{}, err
	}
	c, err := firstCustomer(body, "update customer")
	if errors.Is(err, entity.ErrNotFound) {
		return entity.Customer{}, fmt.Errorf("customer %s: %w", id, entity.ErrNotFound)
	}
	return c, err
}

func (s *Store) DeleteCustomer(ctx context.Context, id string) error {
	_, err := s.writeRows(ctx, http.MethodDelete, tableCustomers, query{{"id", "eq." + id}}, nil)
	return err
}

// firstCustomer decodes a return=representation body; an empty list means
// no row matched.
func firstCustomer(body []byte, op string) (entity.Customer, error) {
	var rows []customerRow
	if err := json.Unmarshal(body, &rows); err != nil {
		return entity.Customer{}, fmt.Errorf("%w: decode %s: %v", entity.ErrUpstream, op, err)
	}
	if len(rows) == 0 {
		return entity.Customer{}, fmt.Errorf("%s: %w", op, entity.ErrNotFound)
	}
	return rows[0].toEntity(), nil
}
