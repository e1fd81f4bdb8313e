package dao

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jinzhu/gorm"

	"github.com/radhian/pix-reconciliation/entity"
	"github.com/radhian/pix-reconciliation/infra/db/model"
)

// ListActive returns active customers in a stable order; the engine's
// tie-break between equally matching customers depends on it.
func (d *dao) ListActive(ctx context.Context) ([]entity.Customer, error) {
	var rows []model.Customer
	if err := d.db.
		Where("active = ?", true).
		Order("create_time ASC").
		Order("id ASC").
		Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("%w: failed to list active customers: %v", entity.ErrUpstream, err)
	}
	return toCustomerEntities(rows), nil
}

func (d *dao) ListCustomers(ctx context.Context) ([]entity.Customer, error) {
	var rows []model.Customer
	if err := d.db.Order("name ASC").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("%w: failed to list customers: %v", entity.ErrUpstream, err)
	}
	return toCustomerEntities(rows), nil
}

func (d *dao) GetCustomer(ctx context.Context, id string) (entity.Customer, error) {
	var row model.Customer
	if err := d.db.Where("id = ?", id).First(&row).Error; err != nil {
		if gorm.IsRecordNotFoundError(err) {
			return entity.Customer{}, fmt.Errorf("customer %s: %w", id, entity.ErrNotFound)
		}
		return entity.Customer{}, fmt.Errorf("%w: failed to get customer %s: %v", entity.ErrUpstream, id, err)
	}
	return toCustomerEntity(row), nil
}

func (d *dao) CreateCustomer(ctx context.Context, customer entity.Customer) (entity.Customer, error) {
	now := d.now().Unix()
	row := model.Customer{
		ID:             uuid.NewString(),
		Name:           customer.Name,
		Document:       customer.Document,
		ExpectedAmount: customer.ExpectedAmount,
		DueDay:         customer.DueDay,
		Active:         customer.Active,
		CreateTime:     now,
		UpdateTime:     now,
	}
	if err := d.db.Create(&row).Error; err != nil {
		return entity.Customer{}, fmt.Errorf("%w: failed to create customer: %v", entity.ErrUpstream, err)
	}
	return toCustomerEntity(row), nil
}

func (d *dao) UpdateCustomer(ctx context.Context, id string, update entity.CustomerUpdate) (entity.Customer, error) {
	fields := map[string]interface{}{"update_time": d.now().Unix()}
	if update.Name != nil {
		fields["name"] = *update.Name
	}
	if update.Document != nil {
		fields["document"] = *update.Document
	}
	if update.ExpectedAmount != nil {
		fields["expected_amount"] = *update.ExpectedAmount
	}
	if update.DueDay != nil {
		fields["due_day"] = *update.DueDay
	}
	if update.Active != nil {
		fields["active"] = *update.Active
	}

	res := d.db.Model(&model.Customer{}).Where("id = ?", id).Updates(fields)
	if res.Error != nil {
		return entity.Customer{}, fmt.Errorf("%w: failed to update customer %s: %v", entity.ErrUpstream, id, res.Error)
	}
	if res.RowsAffected == 0 {
		return entity.Customer{}, fmt.Errorf("customer %s: %w", id, entity.ErrNotFound)
	}
	return d.GetCustomer(ctx, id)
}

func (d *dao) DeleteCustomer(ctx context.Context, id string) error {
	if err := d.db.Where("id = ?", id).Delete(&model.Customer{}).Error; err != nil {
		return fmt.Errorf("%w: failed to delete customer %s: %v", entity.ErrUpstream, id, err)
	}
	return nil
}

func toCustomerEntities(rows []model.Customer) []entity.Customer {
	customers := make([]entity.Customer, 0, len(rows))
	for _, row := range rows {
		customers = append(customers, toCustomerEntity(row))
	}
	return customers
}

func toCustomerEntity(row model.Customer) entity.Customer {
	return entity.Customer{
		ID:             row.ID,
		Name:           row.Name,
		Document:       row.Document,
		ExpectedAmount: row.ExpectedAmount,
		DueDay:         row.DueDay,
		Active:         row.Active,
	}
}
