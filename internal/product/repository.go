package product

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"

	"bdstore-be/internal/logger"

	"go.uber.org/zap"
)

var ErrProductNotFound = errors.New("product not found")

type Repository interface {
	GetAllInStock(ctx context.Context) ([]Product, error)
	GetByID(ctx context.Context, id string) (*Product, error)

	// GetStockByID reads the live stock counter for one product.
	// Returns ErrProductNotFound when the id no longer resolves.
	GetStockByID(ctx context.Context, id string) (*StockInfo, error)

	// DecrementStock performs a single atomic conditional decrement.
	// It reports false, without error, when the product has less stock
	// than requested (zero rows affected), so a caller can treat that
	// as the insufficient-stock case.
	DecrementStock(ctx context.Context, id string, qty int) (bool, error)
}

type repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) Repository {
	return &repository{db: db}
}

const productColumns = `
	id, name, description, image_url, images,
	price, discount, final_price, stock, variants
`

func (r *repository) GetAllInStock(ctx context.Context) ([]Product, error) {
	query := `
		SELECT ` + productColumns + `
		FROM products
		WHERE stock > 0
		ORDER BY created_at DESC
	`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		logger.FromCtx(ctx).Error("failed to query products", zap.Error(err))
		return nil, err
	}
	defer rows.Close()

	var products []Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		products = append(products, *p)
	}

	return products, rows.Err()
}

func (r *repository) GetByID(ctx context.Context, id string) (*Product, error) {
	query := `
		SELECT ` + productColumns + `
		FROM products
		WHERE id = $1
	`

	row := r.db.QueryRowContext(ctx, query, id)
	p, err := scanProduct(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrProductNotFound
	}
	if err != nil {
		return nil, err
	}

	return p, nil
}

func (r *repository) GetStockByID(ctx context.Context, id string) (*StockInfo, error) {
	query := `SELECT id, name, stock FROM products WHERE id = $1`

	var info StockInfo
	err := r.db.QueryRowContext(ctx, query, id).
		Scan(&info.ProductID, &info.Name, &info.Stock)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrProductNotFound
	}
	if err != nil {
		return nil, err
	}

	return &info, nil
}

func (r *repository) DecrementStock(ctx context.Context, id string, qty int) (bool, error) {
	// Conditional decrement: succeeds only when enough stock remains,
	// which closes the window between the upfront stock check and the
	// order write.
	res, err := r.db.ExecContext(ctx, `
		UPDATE products
		SET stock = stock - $1
		WHERE id = $2 AND stock >= $1
	`, qty, id)
	if err != nil {
		return false, err
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return false, err
	}

	return affected > 0, nil
}

// scanner covers both *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanProduct(s scanner) (*Product, error) {
	var (
		p        Product
		images   []byte
		variants []byte
	)

	err := s.Scan(
		&p.ID,
		&p.Name,
		&p.Description,
		&p.ImageURL,
		&images,
		&p.Price,
		&p.Discount,
		&p.FinalPrice,
		&p.Stock,
		&variants,
	)
	if err != nil {
		return nil, err
	}

	if len(images) > 0 {
		if err := json.Unmarshal(images, &p.Images); err != nil {
			return nil, err
		}
	}
	if len(variants) > 0 {
		if err := json.Unmarshal(variants, &p.Variants); err != nil {
			return nil, err
		}
	}

	return &p, nil
}
