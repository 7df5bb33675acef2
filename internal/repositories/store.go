package repositories

import (
	"context"

	"gorm.io/gorm"
)

// Store groups the repositories behind a single unit of work.
type Store interface {
	Categories() CategoryRepository
	Products() ProductRepository
	Carts() CartRepository
	Orders() OrderRepository
	Users() UserRepository
	// WithTx runs fn inside one database transaction. fn must only use the
	// Store it receives; the transaction commits when fn returns nil.
	WithTx(ctx context.Context, fn func(Store) error) error
}

// GORMStore is the GORM implementation of Store.
type GORMStore struct {
	db         *gorm.DB
	categories *GORMCategoryRepository
	products   *GORMProductRepository
	carts      *GORMCartRepository
	orders     *GORMOrderRepository
	users      *GORMUserRepository
}

// NewGORMStore creates a Store backed by db.
func NewGORMStore(db *gorm.DB) *GORMStore {
	return &GORMStore{
		db:         db,
		categories: NewGORMCategoryRepository(db),
		products:   NewGORMProductRepository(db),
		carts:      NewGORMCartRepository(db),
		orders:     NewGORMOrderRepository(db),
		users:      NewGORMUserRepository(db),
	}
}

func (s *GORMStore) Categories() CategoryRepository { return s.categories }
func (s *GORMStore) Products() ProductRepository    { return s.products }
func (s *GORMStore) Carts() CartRepository          { return s.carts }
func (s *GORMStore) Orders() OrderRepository        { return s.orders }
func (s *GORMStore) Users() UserRepository          { return s.users }

// WithTx implements Store.
func (s *GORMStore) WithTx(ctx context.Context, fn func(Store) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(NewGORMStore(tx))
	})
}
