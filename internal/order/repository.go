package order

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"bdstore-be/internal/logger"

	"go.uber.org/zap"
)

type Repository interface {
	// CreateOrder inserts the order header row and fills in the
	// generated id and timestamps.
	CreateOrder(ctx context.Context, o *Order) error

	// CreateOrderItems inserts one row per cart line for an already
	// persisted order. This is a separate write from CreateOrder: when
	// it fails, the order header stays behind in pending status with no
	// items. That partial state is accepted and surfaced to operators
	// through logs rather than rolled back, see the checkout service.
	CreateOrderItems(ctx context.Context, orderID string, items []Item) error

	GetOrderByID(ctx context.Context, orderID string) (*Order, error)
	GetOrders(ctx context.Context, status *Status, limit, page int32) ([]*Order, error)

	// UpdateOrderStatus moves an order from exactly `from` to `to`,
	// optionally attaching tracking details. Returns
	// ErrInvalidTransition when the order was not in `from` anymore.
	UpdateOrderStatus(ctx context.Context, orderID string, from, to Status, trackingCode, carrier *string) error
}

type repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) Repository {
	return &repository{db: db}
}

func (r *repository) CreateOrder(ctx context.Context, o *Order) error {
	query := `
		INSERT INTO orders (
			user_id, order_code, total, status,
			shipping_name, shipping_email, shipping_phone,
			shipping_address, shipping_city, shipping_postal_code, shipping_country
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11)
		RETURNING id, created_at, updated_at
	`

	err := r.db.QueryRowContext(ctx, query,
		o.UserID,
		o.Code,
		o.Total,
		o.Status,
		o.Shipping.FullName,
		o.Shipping.Email,
		o.Shipping.Phone,
		o.Shipping.Address,
		o.Shipping.City,
		o.Shipping.PostalCode,
		o.Shipping.Country,
	).Scan(&o.ID, &o.CreatedAt, &o.UpdatedAt)

	if err != nil {
		logger.FromCtx(ctx).Error("failed to insert order",
			zap.String("order_code", o.Code),
			zap.Error(err),
		)
		return fmt.Errorf("insert order: %w", err)
	}

	return nil
}

func (r *repository) CreateOrderItems(ctx context.Context, orderID string, items []Item) error {
	query := `
		INSERT INTO order_items (order_id, product_id, quantity, price, variants)
		VALUES ($1,$2,$3,$4,$5)
	`

	for i, item := range items {
		_, err := r.db.ExecContext(ctx, query,
			orderID,
			item.ProductID,
			item.Quantity,
			item.Price,
			item.Variants,
		)
		if err != nil {
			logger.FromCtx(ctx).Error("failed to insert order item",
				zap.String("order_id", orderID),
				zap.Int("item_index", i),
				zap.String("product_id", item.ProductID),
				zap.Error(err),
			)
			return fmt.Errorf("insert order item %d: %w", i, err)
		}
	}

	return nil
}

func (r *repository) GetOrderByID(ctx context.Context, orderID string) (*Order, error) {
	var o Order
	err := r.db.QueryRowContext(ctx, `
		SELECT
			id, user_id, order_code, total, status,
			shipping_name, shipping_email, shipping_phone,
			shipping_address, shipping_city, shipping_postal_code, shipping_country,
			tracking_code, carrier, created_at, updated_at
		FROM orders
		WHERE id = $1
	`, orderID).Scan(
		&o.ID,
		&o.UserID,
		&o.Code,
		&o.Total,
		&o.Status,
		&o.Shipping.FullName,
		&o.Shipping.Email,
		&o.Shipping.Phone,
		&o.Shipping.Address,
		&o.Shipping.City,
		&o.Shipping.PostalCode,
		&o.Shipping.Country,
		&o.TrackingCode,
		&o.Carrier,
		&o.CreatedAt,
		&o.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrOrderNotFound
	}
	if err != nil {
		return nil, err
	}

	// Products are joined loosely: an item must still render when its
	// product has since been deleted from the catalog.
	rows, err := r.db.QueryContext(ctx, `
		SELECT
			oi.id, oi.product_id, oi.quantity, oi.price, oi.variants,
			COALESCE(p.name, ''), COALESCE(p.image_url, '')
		FROM order_items oi
		LEFT JOIN products p ON p.id = oi.product_id
		WHERE oi.order_id = $1
	`, orderID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		item := Item{OrderID: o.ID}
		if err := rows.Scan(
			&item.ID,
			&item.ProductID,
			&item.Quantity,
			&item.Price,
			&item.Variants,
			&item.ProductName,
			&item.ProductImageURL,
		); err != nil {
			return nil, err
		}
		o.Items = append(o.Items, item)
	}

	return &o, rows.Err()
}

func (r *repository) GetOrders(ctx context.Context, status *Status, limit, page int32) ([]*Order, error) {
	if limit <= 0 {
		limit = 20
	}
	if limit > 100 {
		limit = 100
	}
	if page <= 0 {
		page = 1
	}
	offset := (page - 1) * limit

	query := `
		SELECT id, user_id, order_code, total, status, created_at, updated_at
		FROM orders
		WHERE 1=1
	`
	args := []any{}
	argIndex := 1

	if status != nil && *status != "" {
		query += fmt.Sprintf(" AND status = $%d", argIndex)
		args = append(args, *status)
		argIndex++
	}

	query += fmt.Sprintf(" ORDER BY created_at DESC LIMIT $%d OFFSET $%d", argIndex, argIndex+1)
	args = append(args, limit, offset)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		logger.FromCtx(ctx).Error("failed to query orders", zap.Error(err))
		return nil, err
	}
	defer rows.Close()

	var orders []*Order
	for rows.Next() {
		var o Order
		if err := rows.Scan(
			&o.ID,
			&o.UserID,
			&o.Code,
			&o.Total,
			&o.Status,
			&o.CreatedAt,
			&o.UpdatedAt,
		); err != nil {
			return nil, err
		}
		orders = append(orders, &o)
	}

	return orders, rows.Err()
}

func (r *repository) UpdateOrderStatus(ctx context.Context, orderID string, from, to Status, trackingCode, carrier *string) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE orders
		SET status = $1,
		    tracking_code = COALESCE($2, tracking_code),
		    carrier = COALESCE($3, carrier),
		    updated_at = NOW()
		WHERE id = $4 AND status = $5
	`, to, trackingCode, carrier, orderID, from)
	if err != nil {
		return err
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		// Either the order is gone or it moved on concurrently.
		return ErrInvalidTransition
	}

	return nil
}
