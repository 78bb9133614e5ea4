package persistence

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/andrescamacho/mediator-go/internal/domain/order"
)

// GormOrderRepository implements order.Repository using GORM
type GormOrderRepository struct {
	db *gorm.DB
}

// NewGormOrderRepository creates a new GORM order repository
func NewGormOrderRepository(db *gorm.DB) *GormOrderRepository {
	return &GormOrderRepository{db: db}
}

// FindByID retrieves an order by ID
func (r *GormOrderRepository) FindByID(ctx context.Context, id int) (*order.Order, error) {
	var model OrderModel
	result := r.db.WithContext(ctx).Where("id = ?", id).First(&model)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: %d", order.ErrNotFound, id)
		}
		return nil, fmt.Errorf("failed to find order: %w", result.Error)
	}

	return modelToOrder(&model), nil
}

// Add inserts an order. Orders without an ID get the next one after the
// current maximum, starting at order.FirstID.
func (r *GormOrderRepository) Add(ctx context.Context, o *order.Order) error {
	model := orderToModel(o)

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if model.ID == 0 {
			var maxID int
			if err := tx.Model(&OrderModel{}).
				Select("COALESCE(MAX(id), ?)", order.FirstID-1).
				Scan(&maxID).Error; err != nil {
				return err
			}
			model.ID = maxID + 1
		}
		return tx.Create(&model).Error
	})
	if err != nil {
		return fmt.Errorf("failed to add order: %w", err)
	}

	o.ID = model.ID
	return nil
}

// Delete removes an order by ID
func (r *GormOrderRepository) Delete(ctx context.Context, id int) error {
	result := r.db.WithContext(ctx).Where("id = ?", id).Delete(&OrderModel{})
	if result.Error != nil {
		return fmt.Errorf("failed to delete order: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("%w: %d", order.ErrNotFound, id)
	}
	return nil
}

func orderToModel(o *order.Order) OrderModel {
	return OrderModel{
		ID:          o.ID,
		ProductName: o.ProductName,
		Price:       o.Price,
		OrderDate:   o.OrderDate,
	}
}

func modelToOrder(model *OrderModel) *order.Order {
	return &order.Order{
		ID:          model.ID,
		ProductName: model.ProductName,
		Price:       model.Price,
		OrderDate:   model.OrderDate.UTC(),
	}
}

var _ order.Repository = (*GormOrderRepository)(nil)
