package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"bdstore-be/internal/cart"
	"bdstore-be/internal/order"
	"bdstore-be/internal/product"
	"bdstore-be/internal/utils"

	"github.com/stretchr/testify/mock"
)

// MockProductRepository is a mock implementation of product.Repository
type MockProductRepository struct {
	mock.Mock
}

func (m *MockProductRepository) GetAllInStock(ctx context.Context) ([]product.Product, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]product.Product), args.Error(1)
}

func (m *MockProductRepository) GetByID(ctx context.Context, id string) (*product.Product, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*product.Product), args.Error(1)
}

func (m *MockProductRepository) GetStockByID(ctx context.Context, id string) (*product.StockInfo, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*product.StockInfo), args.Error(1)
}

func (m *MockProductRepository) DecrementStock(ctx context.Context, id string, qty int) (bool, error) {
	args := m.Called(ctx, id, qty)
	return args.Bool(0), args.Error(1)
}

// MockCheckoutService is a mock implementation of checkout.Service
type MockCheckoutService struct {
	mock.Mock
}

func (m *MockCheckoutService) PlaceOrder(ctx context.Context, crt *cart.Store, shipping order.ShippingInfo) (*order.Order, error) {
	args := m.Called(ctx, crt, shipping)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*order.Order), args.Error(1)
}

// MockOrderService is a mock implementation of order.Service
type MockOrderService struct {
	mock.Mock
}

func (m *MockOrderService) GetOrderDetail(ctx context.Context, orderID string) (*order.Order, error) {
	args := m.Called(ctx, orderID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*order.Order), args.Error(1)
}

func (m *MockOrderService) GetOrders(ctx context.Context, status *order.Status, limit, page int32) ([]*order.Order, error) {
	args := m.Called(ctx, status, limit, page)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*order.Order), args.Error(1)
}

func (m *MockOrderService) UpdateOrderStatus(ctx context.Context, orderID string, next order.Status, trackingCode, carrier *string) error {
	args := m.Called(ctx, orderID, next, trackingCode, carrier)
	return args.Error(0)
}

// asUser attaches an authenticated shopper to the request context.
func asUser(req *http.Request, id, role string) *http.Request {
	ctx := utils.SetUserContext(req.Context(), id, id+"@example.com", role)
	return req.WithContext(ctx)
}

func doRequest(h http.HandlerFunc, req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	h(w, req)
	return w
}

func seedCart(t *testing.T, storage cart.Storage, key string, lines ...cart.Line) {
	t.Helper()
	store := cart.NewStore(context.Background(), storage, key)
	for _, l := range lines {
		store.Add(context.Background(), l)
	}
}
