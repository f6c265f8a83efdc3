package memory

import (
	"bytes"
	"cmp"
	"context"
	"slices"
	"strings"

	"storefront/internal/domain/entity"
	domainerrors "storefront/internal/domain/errors"
	"storefront/internal/domain/repository"

	"github.com/google/uuid"
)

type categoryRepository struct {
	sess *session
}

func (r *categoryRepository) FindByID(_ context.Context, id uuid.UUID) (*entity.Category, error) {
	var found *entity.Category
	err := r.sess.read(func(st *state) error {
		c, ok := st.categories[id]
		if !ok {
			return repository.ErrCategoryNotFound
		}
		found = cloneCategory(c)

		return nil
	})

	return found, err
}

func (r *categoryRepository) List(_ context.Context, filter entity.CategoryFilter) ([]*entity.Category, int64, error) {
	var (
		page  []*entity.Category
		total int64
	)
	err := r.sess.read(func(st *state) error {
		search := strings.ToLower(strings.TrimSpace(filter.Search))
		counts := make(map[uuid.UUID]int64, len(st.categories))
		for _, p := range st.products {
			counts[p.CategoryID]++
		}

		matched := make([]*entity.Category, 0, len(st.categories))
		for _, c := range st.categories {
			if !filter.IncludeInactive && !c.IsActive {
				continue
			}
			if search != "" && !strings.Contains(strings.ToLower(c.Name), search) &&
				!strings.Contains(strings.ToLower(c.Description), search) {
				continue
			}
			cp := cloneCategory(c)
			cp.ProductCount = counts[c.ID]
			matched = append(matched, cp)
		}
		slices.SortFunc(matched, func(a, b *entity.Category) int {
			return strings.Compare(a.Name, b.Name)
		})

		total = int64(len(matched))
		page = paginate(matched, filter.Page)

		return nil
	})

	return page, total, err
}

func (r *categoryRepository) ListActive(_ context.Context) ([]*entity.Category, error) {
	var categories []*entity.Category
	err := r.sess.read(func(st *state) error {
		categories = make([]*entity.Category, 0, len(st.categories))
		for _, c := range st.categories {
			if c.IsActive {
				categories = append(categories, cloneCategory(c))
			}
		}
		slices.SortFunc(categories, func(a, b *entity.Category) int {
			return strings.Compare(a.Name, b.Name)
		})

		return nil
	})

	return categories, err
}

func (r *categoryRepository) Create(_ context.Context, category *entity.Category) error {
	return r.sess.write("categories.create", func(st *state) error {
		if nameTaken(st, category.Name, uuid.Nil) {
			return repository.ErrDuplicateCategory
		}

		now := r.sess.store.timestamp()
		if category.ID == uuid.Nil {
			category.ID = uuid.New()
		}
		category.CreatedAt = now
		category.UpdatedAt = now
		stored := cloneCategory(category)
		stored.ProductCount = 0
		st.categories[category.ID] = stored

		return nil
	})
}

func (r *categoryRepository) Update(_ context.Context, category *entity.Category) error {
	return r.sess.write("categories.update", func(st *state) error {
		existing, ok := st.categories[category.ID]
		if !ok {
			return repository.ErrCategoryNotFound
		}
		if nameTaken(st, category.Name, category.ID) {
			return repository.ErrDuplicateCategory
		}

		existing.Name = category.Name
		existing.Description = category.Description
		existing.IsActive = category.IsActive
		existing.UpdatedAt = r.sess.store.timestamp()
		category.UpdatedAt = existing.UpdatedAt

		return nil
	})
}

func (r *categoryRepository) Delete(_ context.Context, id uuid.UUID) error {
	return r.sess.write("categories.delete", func(st *state) error {
		if _, ok := st.categories[id]; !ok {
			return repository.ErrCategoryNotFound
		}
		for _, p := range st.products {
			if p.CategoryID == id {
				return repository.ErrCategoryInUse
			}
		}
		delete(st.categories, id)

		return nil
	})
}

func nameTaken(st *state, name string, except uuid.UUID) bool {
	for id, c := range st.categories {
		if id != except && c.Name == name {
			return true
		}
	}

	return false
}

type productRepository struct {
	sess *session
}

func (r *productRepository) FindByID(_ context.Context, id uuid.UUID) (*entity.Product, error) {
	var found *entity.Product
	err := r.sess.read(func(st *state) error {
		p, ok := st.products[id]
		if !ok {
			return repository.ErrProductNotFound
		}
		found = withCategory(st, p)

		return nil
	})

	return found, err
}

// LockByIDs returns the products present in the store. The transaction already
// holds the store exclusively, so no per-row lock is needed.
func (r *productRepository) LockByIDs(_ context.Context, ids []uuid.UUID) (map[uuid.UUID]*entity.Product, error) {
	found := make(map[uuid.UUID]*entity.Product, len(ids))
	err := r.sess.read(func(st *state) error {
		for _, id := range ids {
			if p, ok := st.products[id]; ok {
				found[id] = withCategory(st, p)
			}
		}

		return nil
	})

	return found, err
}

func (r *productRepository) DecrementStock(_ context.Context, id uuid.UUID, quantity int) error {
	return r.sess.write("products.decrement_stock", func(st *state) error {
		p, ok := st.products[id]
		if !ok || p.Stock < quantity {
			return repository.ErrInsufficientStock
		}
		p.Stock -= quantity
		p.UpdatedAt = r.sess.store.timestamp()

		return nil
	})
}

func (r *productRepository) IncrementStock(_ context.Context, id uuid.UUID, quantity int) error {
	return r.sess.write("products.increment_stock", func(st *state) error {
		p, ok := st.products[id]
		if !ok {
			return repository.ErrProductNotFound
		}
		p.Stock += quantity
		p.UpdatedAt = r.sess.store.timestamp()

		return nil
	})
}

func (r *productRepository) List(_ context.Context, filter entity.ProductFilter) ([]*entity.Product, int64, error) {
	var (
		page  []*entity.Product
		total int64
	)
	err := r.sess.read(func(st *state) error {
		search := strings.ToLower(strings.TrimSpace(filter.Search))
		matched := make([]*entity.Product, 0, len(st.products))
		for _, p := range st.products {
			if !productMatches(p, filter, search) {
				continue
			}
			matched = append(matched, withCategory(st, p))
		}
		slices.SortFunc(matched, productComparator(filter.SortBy, filter.SortDesc))

		total = int64(len(matched))
		page = paginate(matched, filter.Page)

		return nil
	})

	return page, total, err
}

func productMatches(p *entity.Product, filter entity.ProductFilter, search string) bool {
	if !filter.IncludeInactive && !p.IsActive {
		return false
	}
	if filter.CategoryID != nil && p.CategoryID != *filter.CategoryID {
		return false
	}
	if filter.MinPrice != nil && p.Price.LessThan(*filter.MinPrice) {
		return false
	}
	if filter.MaxPrice != nil && p.Price.GreaterThan(*filter.MaxPrice) {
		return false
	}
	if search != "" &&
		!strings.Contains(strings.ToLower(p.Name), search) &&
		!strings.Contains(strings.ToLower(p.Description), search) &&
		!strings.Contains(strings.ToLower(p.Brand), search) {
		return false
	}

	return true
}

// productComparator mirrors the ORDER BY of the SQL listing, id breaking ties.
func productComparator(sortBy string, desc bool) func(a, b *entity.Product) int {
	return func(a, b *entity.Product) int {
		var c int
		switch sortBy {
		case entity.ProductSortPrice:
			c = a.Price.Cmp(b.Price)
		case entity.ProductSortName:
			c = strings.Compare(a.Name, b.Name)
		case entity.ProductSortStock:
			c = cmp.Compare(a.Stock, b.Stock)
		default:
			c = a.CreatedAt.Compare(b.CreatedAt)
		}
		if desc {
			c = -c
		}
		if c == 0 {
			c = bytes.Compare(a.ID[:], b.ID[:])
		}

		return c
	}
}

func (r *productRepository) Create(_ context.Context, product *entity.Product) error {
	return r.sess.write("products.create", func(st *state) error {
		if err := validateProduct(st, product); err != nil {
			return err
		}

		now := r.sess.store.timestamp()
		if product.ID == uuid.Nil {
			product.ID = uuid.New()
		}
		product.CreatedAt = now
		product.UpdatedAt = now
		stored := cloneProduct(product)
		stored.Category = nil
		st.products[product.ID] = stored

		return nil
	})
}

func (r *productRepository) Update(_ context.Context, product *entity.Product) error {
	return r.sess.write("products.update", func(st *state) error {
		existing, ok := st.products[product.ID]
		if !ok {
			return repository.ErrProductNotFound
		}
		if err := validateProduct(st, product); err != nil {
			return err
		}

		updated := cloneProduct(product)
		updated.Category = nil
		updated.CreatedAt = existing.CreatedAt
		updated.UpdatedAt = r.sess.store.timestamp()
		st.products[product.ID] = updated
		product.UpdatedAt = updated.UpdatedAt

		return nil
	})
}

func (r *productRepository) Deactivate(_ context.Context, id uuid.UUID) error {
	return r.sess.write("products.deactivate", func(st *state) error {
		p, ok := st.products[id]
		if !ok {
			return repository.ErrProductNotFound
		}
		p.IsActive = false
		p.UpdatedAt = r.sess.store.timestamp()

		return nil
	})
}

// validateProduct enforces the foreign key and check constraints of the products table.
func validateProduct(st *state, product *entity.Product) error {
	if _, ok := st.categories[product.CategoryID]; !ok {
		return repository.ErrCategoryNotFound
	}
	if product.Price.IsNegative() || product.Stock < 0 {
		return domainerrors.NewValidationError("price and stock must not be negative")
	}

	return nil
}

func withCategory(st *state, p *entity.Product) *entity.Product {
	cp := cloneProduct(p)
	if c, ok := st.categories[p.CategoryID]; ok {
		cp.Category = &entity.CategorySummary{ID: c.ID, Name: c.Name}
	}

	return cp
}
