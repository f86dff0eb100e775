package services

import (
	"context"
	"errors"
	"hash/fnv"
	"sync"

	"puravida/internal/cart"
	"puravida/internal/domain"
)

var (
	ErrProductNotFound = errors.New("product not found")
	ErrOutOfStock      = errors.New("product is out of stock")
)

// ProductFinder resolves a product by slug. *cms.Client satisfies it.
type ProductFinder interface {
	Product(slug string) (*domain.Product, error)
}

// CartService gives each visitor (by session id) their own cart.Store.
// Mutations for one visitor are serialised so concurrent requests cannot
// overwrite each other's stored snapshot.
type CartService struct {
	Storage  cart.Storage
	Products ProductFinder

	locks [lockStripes]sync.Mutex
}

// lockStripes bounds the lock table; visitors hashing to one stripe share it.
const lockStripes = 256

func NewCartService(storage cart.Storage, products ProductFinder) *CartService {
	return &CartService{Storage: storage, Products: products}
}

func cartKey(sid string) string { return "cart:" + sid }

func (s *CartService) lock(sid string) func() {
	h := fnv.New32a()
	_, _ = h.Write([]byte(sid))
	mu := &s.locks[h.Sum32()%lockStripes]
	mu.Lock()
	return mu.Unlock
}

// Open loads the visitor's cart.
func (s *CartService) Open(ctx context.Context, sid string) *cart.Store {
	return cart.Open(ctx, s.Storage, cartKey(sid))
}

// Add resolves the product and adds qty units of it.
func (s *CartService) Add(ctx context.Context, sid, slug string, qty int) (*domain.Product, error) {
	p, err := s.Products.Product(slug)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, ErrProductNotFound
	}
	if !p.InStock() {
		return p, ErrOutOfStock
	}
	defer s.lock(sid)()
	s.Open(ctx, sid).Add(ctx, *p, qty)
	return p, nil
}

// Update sets a line's quantity; 0 removes it.
func (s *CartService) Update(ctx context.Context, sid, productID string, qty int) {
	defer s.lock(sid)()
	s.Open(ctx, sid).SetQuantity(ctx, productID, qty)
}

func (s *CartService) Remove(ctx context.Context, sid, productID string) {
	defer s.lock(sid)()
	s.Open(ctx, sid).Remove(ctx, productID)
}

func (s *CartService) Clear(ctx context.Context, sid string) {
	defer s.lock(sid)()
	s.Open(ctx, sid).Clear(ctx)
}

// Subtract takes the given lines' quantities out of the cart, dropping lines
// that reach zero. Units added after the lines were read stay in the cart.
func (s *CartService) Subtract(ctx context.Context, sid string, lines []domain.CartLine) {
	defer s.lock(sid)()
	st := s.Open(ctx, sid)
	for _, l := range lines {
		if have := st.QuantityOf(l.ProductID); have > 0 {
			st.SetQuantity(ctx, l.ProductID, have-l.Quantity)
		}
	}
}

func (s *CartService) View(ctx context.Context, sid string) domain.CartSummary {
	return s.Open(ctx, sid).Summary()
}

func (s *CartService) Count(ctx context.Context, sid string) int {
	return s.Open(ctx, sid).Count()
}

// QuantityOf reports how many units of productID the visitor's cart holds.
func (s *CartService) QuantityOf(ctx context.Context, sid, productID string) int {
	st := s.Open(ctx, sid)
	if !st.Contains(productID) {
		return 0
	}
	return st.QuantityOf(productID)
}
