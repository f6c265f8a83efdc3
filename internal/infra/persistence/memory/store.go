// Package memory is an in-process implementation of the repository contracts.
// Transactions are serialized and run against a private copy of the data that
// replaces the shared copy only on commit, so a failed transaction leaves no trace.
package memory

import (
	"context"
	"maps"
	"slices"
	"sync"
	"time"

	"storefront/internal/domain/entity"
	"storefront/internal/domain/repository"

	"github.com/google/uuid"
)

// Store holds every table of the storefront in memory.
type Store struct {
	mu    sync.Mutex
	data  *state
	now   func() time.Time
	fault func(op string) error
}

// NewStore creates an empty store.
func NewStore() *Store {
	return &Store{
		data: newState(),
		now:  time.Now,
	}
}

// SetClock replaces the time source used for timestamps.
func (s *Store) SetClock(now func() time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.now = now
}

// SetFaultInjector installs a hook consulted before every write. A non-nil
// return is reported as the write's error. Passing nil removes the hook.
func (s *Store) SetFaultInjector(fault func(op string) error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.fault = fault
}

type state struct {
	users         map[uuid.UUID]*entity.User
	categories    map[uuid.UUID]*entity.Category
	products      map[uuid.UUID]*entity.Product
	orders        map[uuid.UUID]*entity.Order
	refreshTokens map[uuid.UUID]*entity.RefreshToken
	devices       map[uuid.UUID]*entity.UserDevice
}

func newState() *state {
	return &state{
		users:         map[uuid.UUID]*entity.User{},
		categories:    map[uuid.UUID]*entity.Category{},
		products:      map[uuid.UUID]*entity.Product{},
		orders:        map[uuid.UUID]*entity.Order{},
		refreshTokens: map[uuid.UUID]*entity.RefreshToken{},
		devices:       map[uuid.UUID]*entity.UserDevice{},
	}
}

func (st *state) clone() *state {
	return &state{
		users:         cloneMap(st.users, cloneUser),
		categories:    cloneMap(st.categories, cloneCategory),
		products:      cloneMap(st.products, cloneProduct),
		orders:        cloneMap(st.orders, cloneOrder),
		refreshTokens: cloneMap(st.refreshTokens, cloneRefreshToken),
		devices:       cloneMap(st.devices, cloneDevice),
	}
}

func cloneMap[T any](src map[uuid.UUID]*T, cloneFn func(*T) *T) map[uuid.UUID]*T {
	dst := make(map[uuid.UUID]*T, len(src))
	for id, v := range src {
		dst[id] = cloneFn(v)
	}

	return dst
}

// session is the view a repository operates on. Repositories bound to a
// transaction share the transaction's state and must not take the store lock.
type session struct {
	store *Store
	tx    *state
}

func (sess *session) read(fn func(st *state) error) error {
	if sess.tx != nil {
		return fn(sess.tx)
	}

	sess.store.mu.Lock()
	defer sess.store.mu.Unlock()

	return fn(sess.store.data)
}

// write runs fn against a copy of the state outside transactions, so a failing
// single operation behaves like a rolled back statement.
func (sess *session) write(op string, fn func(st *state) error) error {
	if sess.tx != nil {
		if err := sess.store.injectFault(op); err != nil {
			return err
		}

		return fn(sess.tx)
	}

	sess.store.mu.Lock()
	defer sess.store.mu.Unlock()

	if err := sess.store.injectFault(op); err != nil {
		return err
	}
	working := sess.store.data.clone()
	if err := fn(working); err != nil {
		return err
	}
	sess.store.data = working

	return nil
}

func (s *Store) injectFault(op string) error {
	if s.fault == nil {
		return nil
	}

	return s.fault(op)
}

func (s *Store) timestamp() time.Time {
	return s.now().UTC()
}

// --- Transaction manager ---

type transactionManager struct {
	store *Store
}

// NewTransactionManager returns a TransactionManager backed by the store.
func NewTransactionManager(store *Store) repository.TransactionManager {
	return &transactionManager{store: store}
}

// Execute runs fn with exclusive access to a private copy of the data.
func (tm *transactionManager) Execute(ctx context.Context, fn func(repository.RepositoryFactory) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	tm.store.mu.Lock()
	defer tm.store.mu.Unlock()

	working := tm.store.data.clone()
	factory := &repositoryFactory{sess: &session{store: tm.store, tx: working}}

	if err := fn(factory); err != nil {
		return err
	}
	tm.store.data = working

	return nil
}

type repositoryFactory struct {
	sess *session
}

func (f *repositoryFactory) NewUserRepository() repository.UserRepository {
	return &userRepository{sess: f.sess}
}

func (f *repositoryFactory) NewCategoryRepository() repository.CategoryRepository {
	return &categoryRepository{sess: f.sess}
}

func (f *repositoryFactory) NewProductRepository() repository.ProductRepository {
	return &productRepository{sess: f.sess}
}

func (f *repositoryFactory) NewOrderRepository() repository.OrderRepository {
	return &orderRepository{sess: f.sess}
}

func (f *repositoryFactory) NewRefreshTokenRepository() repository.RefreshTokenRepository {
	return &refreshTokenRepository{sess: f.sess}
}

// --- Non-transactional repositories ---

// Users returns a UserRepository operating outside transactions.
func (s *Store) Users() repository.UserRepository {
	return &userRepository{sess: &session{store: s}}
}

// Categories returns a CategoryRepository operating outside transactions.
func (s *Store) Categories() repository.CategoryRepository {
	return &categoryRepository{sess: &session{store: s}}
}

// Products returns a ProductRepository operating outside transactions.
func (s *Store) Products() repository.ProductRepository {
	return &productRepository{sess: &session{store: s}}
}

// Orders returns an OrderRepository operating outside transactions.
func (s *Store) Orders() repository.OrderRepository {
	return &orderRepository{sess: &session{store: s}}
}

// Reports returns a ReportRepository over the committed data.
func (s *Store) Reports() repository.ReportRepository {
	return &reportRepository{sess: &session{store: s}}
}

// RefreshTokens returns a RefreshTokenRepository operating outside transactions.
func (s *Store) RefreshTokens() repository.RefreshTokenRepository {
	return &refreshTokenRepository{sess: &session{store: s}}
}

// Devices returns a DeviceRepository operating outside transactions.
func (s *Store) Devices() repository.DeviceRepository {
	return &deviceRepository{sess: &session{store: s}}
}

// --- Clone helpers ---

func cloneUser(u *entity.User) *entity.User {
	c := *u

	return &c
}

func cloneCategory(c *entity.Category) *entity.Category {
	cp := *c

	return &cp
}

func cloneProduct(p *entity.Product) *entity.Product {
	c := *p
	c.Images = slices.Clone(p.Images)
	c.Specifications = maps.Clone(p.Specifications)
	if p.Category != nil {
		summary := *p.Category
		c.Category = &summary
	}

	return &c
}

func cloneOrder(o *entity.Order) *entity.Order {
	c := *o
	if o.DeliveryDate != nil {
		d := *o.DeliveryDate
		c.DeliveryDate = &d
	}
	if o.User != nil {
		u := *o.User
		c.User = &u
	}
	c.Items = make([]*entity.OrderItem, 0, len(o.Items))
	for _, item := range o.Items {
		ic := *item
		if item.Product != nil {
			summary := *item.Product
			summary.Images = slices.Clone(item.Product.Images)
			ic.Product = &summary
		}
		c.Items = append(c.Items, &ic)
	}

	return &c
}

func cloneRefreshToken(t *entity.RefreshToken) *entity.RefreshToken {
	c := *t

	return &c
}

func cloneDevice(d *entity.UserDevice) *entity.UserDevice {
	c := *d

	return &c
}

// paginate slices items for the page; the page must already be normalized.
func paginate[T any](items []T, page entity.Page) []T {
	if page.Limit <= 0 {
		return items
	}
	start := page.Offset()
	if start >= len(items) {
		return []T{}
	}
	end := min(start+page.Limit, len(items))

	return items[start:end]
}
