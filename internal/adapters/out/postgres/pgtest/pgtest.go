// Package pgtest starts a throwaway PostgreSQL container with the service
// schema for integration suites.
package pgtest

import (
	"context"
	"fmt"
	"time"

	postgres_adapter "fulfillment/internal/adapters/out/postgres"
	"fulfillment/internal/adapters/out/postgres/sourceorderrepo"

	"github.com/google/uuid"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	gorm_postgres "gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// Tables lists every table created by Start, in truncation order.
const Tables = "fulfillment_status_history, shipping_packages, fulfillment_items, fulfillment_orders, " +
	"package_counters, shipping_rates, order_lines, orders"

// Start runs the container, migrates the schema and creates the sales order
// tables the service only reads in production.
func Start(ctx context.Context) (*postgres.PostgresContainer, *gorm.DB, error) {
	container, err := postgres.Run(ctx,
		"postgres:15-alpine",
		postgres.WithDatabase("testdb"),
		postgres.WithUsername("testuser"),
		postgres.WithPassword("testpass"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second),
		),
	)
	if err != nil {
		return nil, nil, err
	}

	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		return container, nil, err
	}

	db, err := gorm.Open(gorm_postgres.Open(dsn), &gorm.Config{TranslateError: true})
	if err != nil {
		return container, nil, err
	}

	if err = postgres_adapter.Migrate(db); err != nil {
		return container, nil, err
	}
	if err = db.AutoMigrate(&sourceorderrepo.SalesOrderDTO{}, &sourceorderrepo.SalesOrderLineDTO{}); err != nil {
		return container, nil, err
	}

	return container, db, nil
}

// Truncate empties every table between tests.
func Truncate(db *gorm.DB) error {
	return db.Exec("TRUNCATE TABLE " + Tables + " CASCADE").Error
}

// SeedSalesOrder inserts a sales order with one line per quantity and
// returns its id.
func SeedSalesOrder(ctx context.Context, db *gorm.DB, status string, quantities ...int) (uuid.UUID, error) {
	order := sourceorderrepo.SalesOrderDTO{ID: uuid.New(), Status: status}
	for i, q := range quantities {
		order.Lines = append(order.Lines, sourceorderrepo.SalesOrderLineDTO{
			ID:         uuid.New(),
			OrderID:    order.ID,
			LineNumber: i + 1,
			ProductRef: fmt.Sprintf("SKU-%03d", i+1),
			Quantity:   q,
			UnitPrice:  float64(100 * (i + 1)),
		})
	}
	if err := db.WithContext(ctx).Create(&order).Error; err != nil {
		return uuid.Nil, err
	}
	return order.ID, nil
}
