package persistence

import (
	"time"
)

// UserModel represents the users table
type UserModel struct {
	ID        int       `gorm:"column:id;primaryKey;autoIncrement"`
	Name      string    `gorm:"column:name;not null"`
	Email     string    `gorm:"column:email;uniqueIndex;not null"`
	CreatedAt time.Time `gorm:"column:created_at;not null"`
}

func (UserModel) TableName() string {
	return "users"
}

// OrderModel represents the orders table. IDs are assigned by the
// repository so that they start at order.FirstID on every backend.
type OrderModel struct {
	ID          int       `gorm:"column:id;primaryKey;autoIncrement:false"`
	ProductName string    `gorm:"column:product_name;not null"`
	Price       float64   `gorm:"column:price;not null"`
	OrderDate   time.Time `gorm:"column:order_date;not null;index"`
}

func (OrderModel) TableName() string {
	return "orders"
}
