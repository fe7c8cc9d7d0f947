package checkout

import (
	"context"
	"errors"

	"bdstore-be/internal/cart"
	"bdstore-be/internal/logger"
	"bdstore-be/internal/metrics"
	"bdstore-be/internal/order"
	"bdstore-be/internal/product"
	"bdstore-be/internal/utils"

	"go.uber.org/zap"
)

// Service turns a validated cart into a persisted order. The pipeline
// is strictly sequential: N live stock reads, then the order write,
// then the per-line stock decrements and item writes. Once started it
// is never rolled back, whatever has committed stays committed (see
// PlaceOrder).
type Service interface {
	PlaceOrder(ctx context.Context, crt *cart.Store, shipping order.ShippingInfo) (*order.Order, error)
}

type service struct {
	products product.Repository
	orders   order.Repository
	metrics  *metrics.CheckoutMetrics
}

func NewService(products product.Repository, orders order.Repository, m *metrics.CheckoutMetrics) Service {
	if m == nil {
		m = &metrics.CheckoutMetrics{}
	}
	return &service{
		products: products,
		orders:   orders,
		metrics:  m,
	}
}

// PlaceOrder validates live stock for every cart line, then writes the
// order header, decrements stock per line with an atomic conditional
// update, writes the order items and clears the cart.
//
// The upfront stock check aborts with a product-named error before
// anything is written. The snapshot it reads can still go stale before
// the write, which is why the per-line decrement re-checks atomically:
// a decrement that affects zero rows fails the placement instead of
// overselling.
//
// The writes are not one transaction. When the items write fails after
// the header write succeeded, the order stays behind in pending status
// with no items; that partial state is logged loudly and accepted, the
// shopper gets a retryable error and support cleans up from the log
// trail.
func (s *service) PlaceOrder(ctx context.Context, crt *cart.Store, shipping order.ShippingInfo) (*order.Order, error) {
	userID, ok := utils.GetUserIDFromContext(ctx)
	if !ok {
		return nil, ErrUnauthorized
	}

	lines := crt.Lines()
	if len(lines) == 0 {
		return nil, ErrCartEmpty
	}

	log := logger.FromCtx(ctx).With(
		zap.String("layer", "service"),
		zap.String("method", "PlaceOrder"),
		zap.String("user_id", userID),
		zap.Int("line_count", len(lines)),
	)
	timer := metrics.StartTimer()

	// 1. Last-moment authoritative stock check, before any write.
	if err := s.validateStock(ctx, lines); err != nil {
		s.metrics.StockRejections.Inc()
		log.Warn("checkout aborted on stock validation", zap.Error(err))
		return nil, err
	}

	// 2. Order header. Total is frozen here from the cart's final
	// prices; later catalog price changes never touch it.
	o := &order.Order{
		UserID:   userID,
		Code:     utils.GenerateOrderCode(),
		Total:    crt.TotalPrice(),
		Status:   order.StatusPending,
		Shipping: shipping,
	}

	if err := s.orders.CreateOrder(ctx, o); err != nil {
		s.metrics.PersistFailures.Inc()
		log.Error("failed to create order", zap.Error(err))
		return nil, &PersistenceError{Op: "create order", Err: err}
	}

	log = log.With(
		zap.String("order_id", o.ID),
		zap.String("order_code", o.Code),
	)

	// 3. Claim the inventory, one atomic conditional decrement per
	// line. Losing the race here means another checkout got the last
	// units between our read and this write.
	for _, l := range lines {
		claimed, err := s.products.DecrementStock(ctx, l.ProductID, l.Quantity)
		if err != nil {
			s.metrics.PersistFailures.Inc()
			log.Error("stock decrement failed, order left without items",
				zap.String("product_id", l.ProductID),
				zap.Error(err),
			)
			return nil, &PersistenceError{Op: "decrement stock", Err: err}
		}
		if !claimed {
			s.metrics.StockRejections.Inc()
			log.Warn("stock claimed by a concurrent checkout, order left without items",
				zap.String("product_id", l.ProductID),
			)
			return nil, s.stockError(ctx, l)
		}
	}

	// 4. Order items, one row per line, selection verbatim.
	items := make([]order.Item, 0, len(lines))
	for _, l := range lines {
		items = append(items, order.Item{
			OrderID:   o.ID,
			ProductID: l.ProductID,
			Quantity:  l.Quantity,
			Price:     l.FinalPrice,
			Variants:  l.SelectedVariants,
		})
	}

	if err := s.orders.CreateOrderItems(ctx, o.ID, items); err != nil {
		s.metrics.PersistFailures.Inc()
		log.Error("failed to create order items, order left without items",
			zap.Error(err),
		)
		return nil, &PersistenceError{Op: "create order items", Err: err}
	}
	o.Items = items

	// 5. Placement succeeded, the cart is spent.
	crt.Clear(ctx)

	s.metrics.OrdersPlaced.Inc()
	log.Info("order placed",
		zap.Float64("total", o.Total),
		zap.Duration("duration", timer.Duration()),
	)

	return o, nil
}

// validateStock re-reads live inventory for every line, sequentially.
// The first offending line aborts the whole checkout.
func (s *service) validateStock(ctx context.Context, lines []cart.Line) error {
	for _, l := range lines {
		info, err := s.products.GetStockByID(ctx, l.ProductID)
		if errors.Is(err, product.ErrProductNotFound) {
			// Deleted since it was added to the cart: nothing available.
			return &InsufficientStockError{
				ProductID: l.ProductID,
				Name:      l.Name,
				Requested: l.Quantity,
				Available: 0,
			}
		}
		if err != nil {
			return &PersistenceError{Op: "read stock", Err: err}
		}

		if info.Stock < l.Quantity {
			return &InsufficientStockError{
				ProductID: l.ProductID,
				Name:      info.Name,
				Requested: l.Quantity,
				Available: info.Stock,
			}
		}
	}
	return nil
}

// stockError builds the insufficient-stock error for a line that lost
// the decrement race, re-reading the current count for the message.
func (s *service) stockError(ctx context.Context, l cart.Line) error {
	available := 0
	if info, err := s.products.GetStockByID(ctx, l.ProductID); err == nil {
		available = info.Stock
	}
	return &InsufficientStockError{
		ProductID: l.ProductID,
		Name:      l.Name,
		Requested: l.Quantity,
		Available: available,
	}
}
