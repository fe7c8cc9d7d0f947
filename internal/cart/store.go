package cart

import (
	"context"
	"encoding/json"
	"errors"

	"bdstore-be/internal/logger"
	"bdstore-be/internal/product"

	"go.uber.org/zap"
)

// Store holds the cart lines of one shopper session. All mutations are
// plain in-memory operations mirrored to the persistence port; a
// mirroring failure is logged and never surfaced, losing the mirror
// must not break the cart the shopper is looking at.
//
// A Store is not safe for concurrent use. Handlers load one Store per
// request and all mutations within it are sequential.
type Store struct {
	lines   []Line
	storage Storage
	key     string
}

// NewStore loads the persisted cart for the given key. Corrupt
// persisted data is discarded and the store starts empty.
func NewStore(ctx context.Context, storage Storage, key string) *Store {
	s := &Store{storage: storage, key: key}

	data, err := storage.Get(ctx, key)
	if errors.Is(err, ErrCartNotFound) {
		return s
	}
	if err != nil {
		logger.FromCtx(ctx).Warn("failed to load cart, starting empty",
			zap.String("cart_key", key),
			zap.Error(err),
		)
		return s
	}

	if err := json.Unmarshal(data, &s.lines); err != nil {
		logger.FromCtx(ctx).Warn("discarding corrupt cart data",
			zap.String("cart_key", key),
			zap.Error(err),
		)
		s.lines = nil
		_ = storage.Remove(ctx, key)
	}

	return s
}

// Lines returns the cart lines in display order.
func (s *Store) Lines() []Line {
	return s.lines
}

// Add inserts a line or, when a line with the same identity already
// exists, merges into it. The resulting quantity saturates silently at
// the stock snapshot, the shopper is never shown an error for asking
// too much. A merge refreshes the line's snapshot and prices from the
// incoming line, those were read from the catalog more recently.
func (s *Store) Add(ctx context.Context, line Line) {
	if line.Quantity <= 0 {
		return
	}

	key := line.Key()
	for i := range s.lines {
		if s.lines[i].Key() == key {
			merged := line
			merged.Quantity = clamp(s.lines[i].Quantity+line.Quantity, line.Stock)
			if merged.Quantity <= 0 {
				s.lines = append(s.lines[:i], s.lines[i+1:]...)
			} else {
				s.lines[i] = merged
			}
			s.persist(ctx)
			return
		}
	}

	line.Quantity = clamp(line.Quantity, line.Stock)
	if line.Quantity > 0 {
		s.lines = append(s.lines, line)
	}
	s.persist(ctx)
}

// Remove deletes the line with exactly the given identity; no-op when
// absent.
func (s *Store) Remove(ctx context.Context, productID string, selection product.VariantSelection) {
	key := Key{ProductID: productID, Signature: selection.Signature()}

	for i := range s.lines {
		if s.lines[i].Key() == key {
			s.lines = append(s.lines[:i], s.lines[i+1:]...)
			s.persist(ctx)
			return
		}
	}
}

// UpdateQuantity sets the line quantity, clamped to the stock snapshot.
// A non-positive quantity behaves as Remove.
func (s *Store) UpdateQuantity(ctx context.Context, productID string, selection product.VariantSelection, quantity int) {
	if quantity <= 0 {
		s.Remove(ctx, productID, selection)
		return
	}

	key := Key{ProductID: productID, Signature: selection.Signature()}
	for i := range s.lines {
		if s.lines[i].Key() == key {
			s.lines[i].Quantity = clamp(quantity, s.lines[i].Stock)
			s.persist(ctx)
			return
		}
	}
}

// Clear empties the cart. Idempotent.
func (s *Store) Clear(ctx context.Context) {
	s.lines = nil
	s.persist(ctx)
}

func (s *Store) TotalItems() int {
	total := 0
	for _, l := range s.lines {
		total += l.Quantity
	}
	return total
}

func (s *Store) TotalPrice() float64 {
	total := 0.0
	for _, l := range s.lines {
		total += l.FinalPrice * float64(l.Quantity)
	}
	return total
}

// TotalSavings is the summed discount over the cart, used by the order
// summary view.
func (s *Store) TotalSavings() float64 {
	total := 0.0
	for _, l := range s.lines {
		total += (l.Price - l.FinalPrice) * float64(l.Quantity)
	}
	return total
}

func (s *Store) persist(ctx context.Context) {
	if len(s.lines) == 0 {
		if err := s.storage.Remove(ctx, s.key); err != nil {
			logger.FromCtx(ctx).Warn("failed to remove persisted cart",
				zap.String("cart_key", s.key),
				zap.Error(err),
			)
		}
		return
	}

	data, err := json.Marshal(s.lines)
	if err != nil {
		logger.FromCtx(ctx).Error("failed to marshal cart", zap.Error(err))
		return
	}

	if err := s.storage.Set(ctx, s.key, data); err != nil {
		logger.FromCtx(ctx).Warn("failed to persist cart",
			zap.String("cart_key", s.key),
			zap.Error(err),
		)
	}
}

func clamp(quantity, stock int) int {
	if quantity > stock {
		return stock
	}
	return quantity
}
