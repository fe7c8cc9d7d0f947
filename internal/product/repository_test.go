package product

import (
	"context"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func productRows() *sqlmock.Rows {
	return sqlmock.NewRows([]string{
		"id", "name", "description", "image_url", "images",
		"price", "discount", "final_price", "stock", "variants",
	})
}

func TestRepository_GetAllInStock(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewRepository(db)

	t.Run("Success", func(t *testing.T) {
		rows := productRows().
			AddRow("p1", "Camisola", nil, "img1.jpg", []byte(`["img1.jpg","img2.jpg"]`),
				29.90, 10.0, 26.91, 5, []byte(`[{"name":"Cor","options":["Preto","Branco"]}]`)).
			AddRow("p2", "Calças", nil, "img3.jpg", nil,
				49.90, 0.0, 49.90, 12, nil)

		mock.ExpectQuery("SELECT(.|\n)+FROM products(.|\n)+stock > 0").
			WillReturnRows(rows)

		products, err := repo.GetAllInStock(context.Background())
		assert.NoError(t, err)
		require.Len(t, products, 2)
		assert.Equal(t, "Camisola", products[0].Name)
		assert.Equal(t, []string{"img1.jpg", "img2.jpg"}, products[0].Images)
		require.Len(t, products[0].Variants, 1)
		assert.Equal(t, "Cor", products[0].Variants[0].Name)
		assert.Nil(t, products[1].Variants)
	})

	t.Run("Error", func(t *testing.T) {
		mock.ExpectQuery("SELECT(.|\n)+FROM products").
			WillReturnError(errors.New("db error"))

		_, err := repo.GetAllInStock(context.Background())
		assert.Error(t, err)
	})
}

func TestRepository_GetByID(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewRepository(db)

	t.Run("Success", func(t *testing.T) {
		rows := productRows().
			AddRow("p1", "Camisola", nil, "img1.jpg", nil, 29.90, 0.0, 29.90, 5, nil)

		mock.ExpectQuery("SELECT(.|\n)+FROM products(.|\n)+WHERE id").
			WithArgs("p1").
			WillReturnRows(rows)

		p, err := repo.GetByID(context.Background(), "p1")
		assert.NoError(t, err)
		require.NotNil(t, p)
		assert.Equal(t, "p1", p.ID)
		assert.Equal(t, 5, p.Stock)
	})

	t.Run("NotFound", func(t *testing.T) {
		mock.ExpectQuery("SELECT(.|\n)+FROM products(.|\n)+WHERE id").
			WithArgs("missing").
			WillReturnRows(productRows())

		_, err := repo.GetByID(context.Background(), "missing")
		assert.ErrorIs(t, err, ErrProductNotFound)
	})
}

func TestRepository_GetStockByID(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewRepository(db)

	t.Run("Success", func(t *testing.T) {
		rows := sqlmock.NewRows([]string{"id", "name", "stock"}).
			AddRow("p1", "Camisola", 3)

		mock.ExpectQuery("SELECT id, name, stock FROM products").
			WithArgs("p1").
			WillReturnRows(rows)

		info, err := repo.GetStockByID(context.Background(), "p1")
		assert.NoError(t, err)
		assert.Equal(t, 3, info.Stock)
		assert.Equal(t, "Camisola", info.Name)
	})

	t.Run("Deleted product", func(t *testing.T) {
		mock.ExpectQuery("SELECT id, name, stock FROM products").
			WithArgs("gone").
			WillReturnRows(sqlmock.NewRows([]string{"id", "name", "stock"}))

		_, err := repo.GetStockByID(context.Background(), "gone")
		assert.ErrorIs(t, err, ErrProductNotFound)
	})
}

func TestRepository_DecrementStock(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewRepository(db)

	t.Run("Enough stock", func(t *testing.T) {
		mock.ExpectExec("UPDATE products").
			WithArgs(2, "p1").
			WillReturnResult(sqlmock.NewResult(0, 1))

		ok, err := repo.DecrementStock(context.Background(), "p1", 2)
		assert.NoError(t, err)
		assert.True(t, ok)
	})

	t.Run("Insufficient stock affects zero rows", func(t *testing.T) {
		mock.ExpectExec("UPDATE products").
			WithArgs(99, "p1").
			WillReturnResult(sqlmock.NewResult(0, 0))

		ok, err := repo.DecrementStock(context.Background(), "p1", 99)
		assert.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("Error", func(t *testing.T) {
		mock.ExpectExec("UPDATE products").
			WillReturnError(errors.New("db error"))

		_, err := repo.DecrementStock(context.Background(), "p1", 1)
		assert.Error(t, err)
	})
}
