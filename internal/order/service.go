package order

import (
	"context"
	"fmt"

	"bdstore-be/internal/logger"
	"bdstore-be/internal/utils"

	"go.uber.org/zap"
)

type Service interface {
	// GetOrderDetail returns an order with its items. Non-admin callers
	// only ever see their own orders.
	GetOrderDetail(ctx context.Context, orderID string) (*Order, error)

	// GetOrders lists orders for the admin console, newest first.
	GetOrders(ctx context.Context, status *Status, limit, page int32) ([]*Order, error)

	// UpdateOrderStatus performs one admin-driven lifecycle transition.
	// Tracking details may be attached when shipping.
	UpdateOrderStatus(ctx context.Context, orderID string, next Status, trackingCode, carrier *string) error
}

type service struct {
	repo Repository
}

func NewService(repo Repository) Service {
	return &service{repo: repo}
}

func (s *service) GetOrderDetail(ctx context.Context, orderID string) (*Order, error) {
	o, err := s.repo.GetOrderByID(ctx, orderID)
	if err != nil {
		return nil, err
	}

	userID, _ := utils.GetUserIDFromContext(ctx)
	if !utils.IsAdminFromContext(ctx) && o.UserID != userID {
		return nil, ErrUnauthorized
	}

	return o, nil
}

func (s *service) GetOrders(ctx context.Context, status *Status, limit, page int32) ([]*Order, error) {
	if !utils.IsAdminFromContext(ctx) {
		return nil, ErrUnauthorized
	}

	if status != nil && !status.IsValid() {
		return nil, fmt.Errorf("%w: %s", ErrInvalidStatus, *status)
	}

	return s.repo.GetOrders(ctx, status, limit, page)
}

func (s *service) UpdateOrderStatus(ctx context.Context, orderID string, next Status, trackingCode, carrier *string) error {
	if !utils.IsAdminFromContext(ctx) {
		return ErrUnauthorized
	}

	if !next.IsValid() {
		return fmt.Errorf("%w: %s", ErrInvalidStatus, next)
	}

	o, err := s.repo.GetOrderByID(ctx, orderID)
	if err != nil {
		return err
	}

	if !o.Status.CanTransitionTo(next) {
		return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, o.Status, next)
	}

	// Tracking details only make sense when the order leaves the
	// warehouse.
	if next != StatusShipped {
		trackingCode = nil
		carrier = nil
	}

	if err := s.repo.UpdateOrderStatus(ctx, orderID, o.Status, next, trackingCode, carrier); err != nil {
		return err
	}

	logger.FromCtx(ctx).Info("order status updated",
		zap.String("order_id", orderID),
		zap.String("from", string(o.Status)),
		zap.String("to", string(next)),
	)

	return nil
}
