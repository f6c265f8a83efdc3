package memory

import (
	"cmp"
	"context"
	"slices"
	"strings"

	"storefront/internal/domain/entity"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type reportRepository struct {
	sess *session
}

// productTally accumulates the sold lines of one product.
type productTally struct {
	lines    int64
	quantity int64
	revenue  decimal.Decimal
	orders   map[uuid.UUID]struct{}
}

func (t *productTally) add(orderID uuid.UUID, item *entity.OrderItem) {
	t.lines++
	t.quantity += int64(item.Quantity)
	t.revenue = t.revenue.Add(item.Subtotal)
	t.orders[orderID] = struct{}{}
}

func newTally() *productTally {
	return &productTally{revenue: decimal.Zero, orders: map[uuid.UUID]struct{}{}}
}

// tallySales folds every counted order line within the range per product.
func tallySales(st *state, dateRange entity.DateRange) map[uuid.UUID]*productTally {
	tallies := map[uuid.UUID]*productTally{}
	for _, o := range st.orders {
		if !o.Status.CountsAsSale() {
			continue
		}
		if !dateRange.From.IsZero() && o.OrderDate.Before(dateRange.From) {
			continue
		}
		if !dateRange.To.IsZero() && o.OrderDate.After(dateRange.To) {
			continue
		}
		for _, item := range o.Items {
			t, ok := tallies[item.ProductID]
			if !ok {
				t = newTally()
				tallies[item.ProductID] = t
			}
			t.add(o.ID, item)
		}
	}

	return tallies
}

func (r *reportRepository) SalesByCategory(_ context.Context, dateRange entity.DateRange) ([]*entity.CategorySales, error) {
	var rows []*entity.CategorySales
	err := r.sess.read(func(st *state) error {
		byCategory := map[uuid.UUID]*entity.CategorySales{}
		for productID, t := range tallySales(st, dateRange) {
			p, ok := st.products[productID]
			if !ok {
				continue
			}
			c, ok := st.categories[p.CategoryID]
			if !ok {
				continue
			}
			row, ok := byCategory[c.ID]
			if !ok {
				row = &entity.CategorySales{CategoryID: c.ID, CategoryName: c.Name, TotalRevenue: decimal.Zero}
				byCategory[c.ID] = row
			}
			row.TotalItemsSold += t.lines
			row.TotalQuantity += t.quantity
			row.TotalRevenue = row.TotalRevenue.Add(t.revenue)
		}

		rows = make([]*entity.CategorySales, 0, len(byCategory))
		for _, row := range byCategory {
			rows = append(rows, row)
		}
		slices.SortFunc(rows, func(a, b *entity.CategorySales) int {
			if c := b.TotalRevenue.Cmp(a.TotalRevenue); c != 0 {
				return c
			}

			return strings.Compare(a.CategoryName, b.CategoryName)
		})

		return nil
	})

	return rows, err
}

func (r *reportRepository) TopSellingProducts(_ context.Context, dateRange entity.DateRange, limit int) ([]*entity.ProductSales, error) {
	var rows []*entity.ProductSales
	err := r.sess.read(func(st *state) error {
		tallies := tallySales(st, dateRange)
		rows = make([]*entity.ProductSales, 0, len(tallies))
		for productID, t := range tallies {
			if row := productSalesRow(st, productID, t); row != nil {
				rows = append(rows, row)
			}
		}
		slices.SortFunc(rows, func(a, b *entity.ProductSales) int {
			if c := cmp.Compare(b.TotalQuantitySold, a.TotalQuantitySold); c != 0 {
				return c
			}

			return strings.Compare(a.ProductName, b.ProductName)
		})
		rows = rows[:max(0, min(limit, len(rows)))]

		return nil
	})

	return rows, err
}

func (r *reportRepository) WorstSellingProducts(_ context.Context, dateRange entity.DateRange, limit int) ([]*entity.ProductSales, error) {
	var rows []*entity.ProductSales
	err := r.sess.read(func(st *state) error {
		tallies := tallySales(st, dateRange)
		rows = make([]*entity.ProductSales, 0, len(st.products))
		for productID, p := range st.products {
			if !p.IsActive {
				continue
			}
			t, ok := tallies[productID]
			if !ok {
				t = newTally()
			}
			if row := productSalesRow(st, productID, t); row != nil {
				rows = append(rows, row)
			}
		}
		slices.SortFunc(rows, func(a, b *entity.ProductSales) int {
			if c := cmp.Compare(a.TotalQuantitySold, b.TotalQuantitySold); c != 0 {
				return c
			}

			return strings.Compare(a.ProductName, b.ProductName)
		})
		rows = rows[:max(0, min(limit, len(rows)))]

		return nil
	})

	return rows, err
}

func productSalesRow(st *state, productID uuid.UUID, t *productTally) *entity.ProductSales {
	p, ok := st.products[productID]
	if !ok {
		return nil
	}
	c, ok := st.categories[p.CategoryID]
	if !ok {
		return nil
	}

	return &entity.ProductSales{
		ProductID:         p.ID,
		ProductName:       p.Name,
		Price:             p.Price,
		Stock:             p.Stock,
		CategoryName:      c.Name,
		TotalQuantitySold: t.quantity,
		TotalRevenue:      t.revenue,
		TotalOrders:       int64(len(t.orders)),
	}
}
