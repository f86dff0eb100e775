package cart

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"time"

	"puravida/internal/domain"
	applog "puravida/internal/log"
)

// Store is one visitor's cart. Lines are kept in insertion order with at
// most one line per product id. Every mutation writes the whole line list
// back to storage; a failed write is logged and the in-memory state stays
// authoritative.
type Store struct {
	mu      sync.Mutex
	storage Storage
	key     string
	lines   []domain.CartLine

	now func() time.Time
}

// Open loads the cart stored under key. Missing or unreadable data yields
// an empty cart.
func Open(ctx context.Context, storage Storage, key string) *Store {
	s := &Store{storage: storage, key: key, now: time.Now}
	s.lines = s.load(ctx)
	return s
}

func (s *Store) load(ctx context.Context) []domain.CartLine {
	b, err := s.storage.Load(ctx, s.key)
	if errors.Is(err, ErrNoData) {
		return nil
	}
	if err != nil {
		applog.Error(nil, "cart.load", err, map[string]any{"key": s.key})
		return nil
	}
	var stored []domain.CartLine
	if err := json.Unmarshal(b, &stored); err != nil {
		applog.Error(nil, "cart.load.decode", err, map[string]any{"key": s.key, "bytes": len(b)})
		return nil
	}
	return normalize(stored)
}

// normalize merges duplicate product lines and drops lines without a
// product id or with a non-positive quantity.
func normalize(in []domain.CartLine) []domain.CartLine {
	out := make([]domain.CartLine, 0, len(in))
	idx := map[string]int{}
	for _, l := range in {
		if l.ProductID == "" || l.Quantity < 1 {
			continue
		}
		if i, ok := idx[l.ProductID]; ok {
			out[i].Quantity += l.Quantity
			continue
		}
		idx[l.ProductID] = len(out)
		out = append(out, l)
	}
	return out
}

func (s *Store) persist(ctx context.Context) {
	var err error
	if len(s.lines) == 0 {
		err = s.storage.Delete(ctx, s.key)
	} else {
		var b []byte
		if b, err = json.Marshal(s.lines); err == nil {
			err = s.storage.Save(ctx, s.key, b)
		}
	}
	if err != nil {
		applog.Error(nil, "cart.save", err, map[string]any{"key": s.key, "lines": len(s.lines)})
	}
}

func (s *Store) indexOf(productID string) int {
	for i, l := range s.lines {
		if l.ProductID == productID {
			return i
		}
	}
	return -1
}

// Add puts qty units of p in the cart. An existing line accumulates;
// qty below 1 counts as 1.
func (s *Store) Add(ctx context.Context, p domain.Product, qty int) {
	if qty < 1 {
		qty = 1
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if i := s.indexOf(p.ID); i >= 0 {
		s.lines[i].Quantity += qty
	} else {
		s.lines = append(s.lines, domain.CartLine{
			ProductID: p.ID,
			Product:   p,
			Quantity:  qty,
			AddedAt:   s.now().UTC(),
		})
	}
	s.persist(ctx)
}

// Remove deletes the product's line. Absent products are ignored.
func (s *Store) Remove(ctx context.Context, productID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.indexOf(productID)
	if i < 0 {
		return
	}
	s.lines = append(s.lines[:i], s.lines[i+1:]...)
	s.persist(ctx)
}

// SetQuantity replaces the line's quantity; qty <= 0 removes the line.
func (s *Store) SetQuantity(ctx context.Context, productID string, qty int) {
	if qty <= 0 {
		s.Remove(ctx, productID)
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.indexOf(productID)
	if i < 0 {
		return
	}
	s.lines[i].Quantity = qty
	s.persist(ctx)
}

func (s *Store) Clear(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lines = nil
	s.persist(ctx)
}

// Lines returns a copy of the current lines.
func (s *Store) Lines() []domain.CartLine {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]domain.CartLine(nil), s.lines...)
}

func (s *Store) Summary() domain.CartSummary {
	return domain.Summarize(s.Lines())
}

// Count is the total number of units, used for the header badge.
func (s *Store) Count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, l := range s.lines {
		n += l.Quantity
	}
	return n
}

func (s *Store) Contains(productID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.indexOf(productID) >= 0
}

func (s *Store) QuantityOf(productID string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	if i := s.indexOf(productID); i >= 0 {
		return s.lines[i].Quantity
	}
	return 0
}
