package helpers

import (
	"testing"

	"gorm.io/gorm"

	"github.com/andrescamacho/mediator-go/internal/adapters/persistence"
)

// TestRepositories holds real repositories backed by one test database
type TestRepositories struct {
	DB        *gorm.DB
	UserRepo  *persistence.GormUserRepository
	OrderRepo *persistence.GormOrderRepository
}

// NewTestRepositories creates repositories over a fresh in-memory database
func NewTestRepositories(t testing.TB) *TestRepositories {
	db := NewTestDB(t)
	return &TestRepositories{
		DB:        db,
		UserRepo:  persistence.NewGormUserRepository(db),
		OrderRepo: persistence.NewGormOrderRepository(db),
	}
}
