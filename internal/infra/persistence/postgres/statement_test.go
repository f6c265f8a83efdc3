package postgres

import (
	"context"
	"regexp"
	"slices"
	"strings"
	"testing"
	"time"

	"storefront/internal/domain/entity"
	"storefront/internal/domain/repository"
	"storefront/internal/infra/persistence/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	pgdriver "gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

type capturedStatement struct {
	sql  string
	vars []any
	dest any
}

// newDryRunDB builds statements with the postgres dialect without a server and
// records every query, insert and update it would have sent.
func newDryRunDB(t *testing.T) (*gorm.DB, *[]capturedStatement) {
	t.Helper()

	db, err := gorm.Open(pgdriver.New(pgdriver.Config{
		DSN: "host=localhost port=5432 user=storefront dbname=storefront sslmode=disable",
	}), &gorm.Config{
		DryRun:               true,
		DisableAutomaticPing: true,
		Logger:               gormlogger.Discard,
	})
	require.NoError(t, err)

	var captured []capturedStatement
	capture := func(tx *gorm.DB) {
		captured = append(captured, capturedStatement{
			sql:  tx.Statement.SQL.String(),
			vars: slices.Clone(tx.Statement.Vars),
			dest: tx.Statement.Dest,
		})
	}
	require.NoError(t, db.Callback().Query().After("gorm:query").Register("storefront:capture", capture))
	require.NoError(t, db.Callback().Create().After("gorm:create").Register("storefront:capture", capture))
	require.NoError(t, db.Callback().Update().After("gorm:update").Register("storefront:capture", capture))

	return db, &captured
}

func TestProductRepository_LockByIDs_LocksInAscendingOrder(t *testing.T) {
	db, captured := newDryRunDB(t)

	a := uuid.MustParse("00000000-0000-7000-8000-000000000001")
	b := uuid.MustParse("00000000-0000-7000-8000-000000000002")
	c := uuid.MustParse("00000000-0000-7000-8000-000000000003")

	_, err := NewProductRepository(db).LockByIDs(context.Background(), []uuid.UUID{c, a, c, b})
	require.NoError(t, err)

	require.Len(t, *captured, 1)
	stmt := (*captured)[0]
	assert.Contains(t, stmt.sql, `FROM "products"`)
	assert.Contains(t, stmt.sql, "id IN ($1,$2,$3)")
	assert.True(t, strings.HasSuffix(stmt.sql, "ORDER BY id ASC FOR UPDATE"), stmt.sql)
	assert.Equal(t, []any{a, b, c}, stmt.vars)
}

func TestProductRepository_LockByIDs_EmptyIsNoQuery(t *testing.T) {
	db, captured := newDryRunDB(t)

	locked, err := NewProductRepository(db).LockByIDs(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, locked)
	assert.Empty(t, *captured)
}

func TestProductRepository_DecrementStock_GuardsRemainingStock(t *testing.T) {
	db, captured := newDryRunDB(t)
	id := uuid.New()

	// Nothing is executed, so no row matches the guard.
	err := NewProductRepository(db).DecrementStock(context.Background(), id, 3)
	require.ErrorIs(t, err, repository.ErrInsufficientStock)

	require.Len(t, *captured, 1)
	stmt := (*captured)[0]
	assert.Contains(t, stmt.sql, `UPDATE "products" SET "stock"=stock - $1`)
	assert.Regexp(t, regexp.MustCompile(`WHERE \(?id = \$3 AND stock >= \$4\)?`), stmt.sql)
	require.Len(t, stmt.vars, 4)
	assert.Equal(t, 3, stmt.vars[0])
	assert.Equal(t, id, stmt.vars[2])
	assert.Equal(t, 3, stmt.vars[3])
}

func TestProductRepository_IncrementStock_MissingRow(t *testing.T) {
	db, captured := newDryRunDB(t)

	err := NewProductRepository(db).IncrementStock(context.Background(), uuid.New(), 2)
	require.ErrorIs(t, err, repository.ErrProductNotFound)

	require.Len(t, *captured, 1)
	assert.Contains(t, (*captured)[0].sql, `"stock"=stock + $1`)
	assert.NotContains(t, (*captured)[0].sql, "stock >=")
}

func placedOrder() *entity.Order {
	item := &entity.OrderItem{
		ProductID: uuid.New(),
		Quantity:  2,
		Price:     decimal.RequireFromString("12.50"),
		Subtotal:  decimal.RequireFromString("25.00"),
	}

	return &entity.Order{
		UserID:          uuid.New(),
		Status:          entity.OrderStatusPending,
		PaymentStatus:   entity.PaymentStatusPending,
		PaymentMethod:   entity.PaymentMethodCreditCard,
		TotalAmount:     item.Subtotal,
		ShippingAddress: "1 Main St",
		Items:           []*entity.OrderItem{item},
	}
}

func TestOrderRepository_Create_InsertsOrderDate(t *testing.T) {
	placedAt := time.Date(2026, 3, 1, 9, 30, 0, 0, time.UTC)

	tests := []struct {
		name      string
		orderDate time.Time
	}{
		{name: "given date is kept", orderDate: placedAt},
		{name: "zero date is stamped"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, captured := newDryRunDB(t)
			order := placedOrder()
			order.OrderDate = tt.orderDate

			before := time.Now().UTC()
			require.NoError(t, NewOrderRepository(db).Create(context.Background(), order))

			require.Len(t, *captured, 2)
			assert.Contains(t, (*captured)[0].sql, `INSERT INTO "orders"`)
			assert.Contains(t, (*captured)[0].sql, `"order_date"`)
			assert.Contains(t, (*captured)[1].sql, `INSERT INTO "order_items"`)

			inserted, ok := (*captured)[0].dest.(*model.OrderModel)
			require.True(t, ok)
			require.False(t, inserted.OrderDate.IsZero())
			assert.Contains(t, (*captured)[0].vars, inserted.OrderDate)
			assert.Equal(t, inserted.OrderDate, order.OrderDate)

			if tt.orderDate.IsZero() {
				assert.WithinDuration(t, before, inserted.OrderDate, time.Minute)
				assert.Equal(t, time.UTC, inserted.OrderDate.Location())
			} else {
				assert.Equal(t, placedAt, inserted.OrderDate)
			}
		})
	}
}

func TestOrderRepository_FindByIDForUpdate_LocksScopedRow(t *testing.T) {
	id, owner := uuid.New(), uuid.New()

	t.Run("owner scope", func(t *testing.T) {
		db, captured := newDryRunDB(t)

		_, err := NewOrderRepository(db).FindByIDForUpdate(context.Background(), id, &owner)
		require.NoError(t, err)

		require.Len(t, *captured, 2)
		lock := (*captured)[0]
		assert.Contains(t, lock.sql, `FROM "orders"`)
		assert.Contains(t, lock.sql, "WHERE id = $1 AND user_id = $2")
		assert.True(t, strings.HasSuffix(lock.sql, "FOR UPDATE"), lock.sql)
		assert.Equal(t, id, lock.vars[0])
		assert.Equal(t, owner, lock.vars[1])

		items := (*captured)[1]
		assert.Contains(t, items.sql, `FROM "order_items"`)
		assert.Contains(t, items.sql, "ORDER BY id ASC")
		assert.NotContains(t, items.sql, "FOR UPDATE")
	})

	t.Run("admin", func(t *testing.T) {
		db, captured := newDryRunDB(t)

		_, err := NewOrderRepository(db).FindByIDForUpdate(context.Background(), id, nil)
		require.NoError(t, err)

		require.NotEmpty(t, *captured)
		assert.NotContains(t, (*captured)[0].sql, "user_id")
		assert.True(t, strings.HasSuffix((*captured)[0].sql, "FOR UPDATE"))
	})
}

func TestOrderRepository_UpdatePaymentStatus_MissingRow(t *testing.T) {
	db, _ := newDryRunDB(t)

	err := NewOrderRepository(db).UpdatePaymentStatus(context.Background(), uuid.New(), entity.PaymentStatusCompleted)
	require.ErrorIs(t, err, repository.ErrOrderNotFound)
}
