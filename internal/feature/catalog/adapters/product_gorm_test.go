package adapters

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"shop_backend/internal/feature/catalog/domain/entity"
	"shop_backend/internal/feature/catalog/usecase"
)

// setupTestDB prepares an in-memory SQLite database for testing.
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err, "failed to initialize test database")

	// Create products table
	err = db.AutoMigrate(&entity.Product{})
	require.NoError(t, err, "failed to migrate table")

	return db
}

func newBoard(name, price string) *entity.Product {
	return &entity.Product{
		Category:    "Boards",
		ProductName: name,
		Brand:       "TSU",
		Size:        "M",
		Price:       price,
	}
}

func TestProductGorm_Create(t *testing.T) {
	db := setupTestDB(t)
	repo := NewProductRepository(db)

	p := newBoard("Classic Skimboard", "189.90")

	err := repo.Create(context.Background(), p)

	assert.NoError(t, err, "failed to create product")
	assert.NotZero(t, p.ID, "ID is not set")
	assert.False(t, p.CreatedAt.IsZero(), "CreatedAt is not set")
	assert.False(t, p.UpdatedAt.IsZero(), "UpdatedAt is not set")
}

func TestProductGorm_FindByID(t *testing.T) {
	t.Run("find product by id successfully", func(t *testing.T) {
		db := setupTestDB(t)
		repo := NewProductRepository(db)

		expected := newBoard("Classic Skimboard", "189.90")
		require.NoError(t, repo.Create(context.Background(), expected))

		found, err := repo.FindByID(context.Background(), expected.ID)

		assert.NoError(t, err, "failed to find product")
		assert.Equal(t, "Classic Skimboard", found.ProductName)
		assert.Equal(t, "Boards", found.Category)
	})

	t.Run("id not found error", func(t *testing.T) {
		db := setupTestDB(t)
		repo := NewProductRepository(db)

		found, err := repo.FindByID(context.Background(), 999999)

		assert.Nil(t, found, "product should be nil")
		assert.ErrorIs(t, err, usecase.ErrProductNotFound, "should return ErrProductNotFound")
	})
}

func TestProductGorm_UpdateColumns(t *testing.T) {
	t.Run("round trip updates only the supplied columns", func(t *testing.T) {
		db := setupTestDB(t)
		repo := NewProductRepository(db)

		p := newBoard("Classic Skimboard", "189.90")
		p.Colour = "Blue"
		require.NoError(t, repo.Create(context.Background(), p))

		err := repo.UpdateColumns(context.Background(), p.ID, map[string]any{
			"quantity":   5,
			"updated_at": time.Now(),
		})
		require.NoError(t, err, "failed to update product")

		found, err := repo.FindByID(context.Background(), p.ID)
		require.NoError(t, err)
		assert.Equal(t, 5, found.Quantity, "quantity was not updated")
		assert.Equal(t, "Classic Skimboard", found.ProductName, "untouched column changed")
		assert.Equal(t, "Blue", found.Colour, "untouched column changed")
	})

	t.Run("missing row returns ErrProductNotFound", func(t *testing.T) {
		db := setupTestDB(t)
		repo := NewProductRepository(db)

		err := repo.UpdateColumns(context.Background(), 999999, map[string]any{
			"quantity":   5,
			"updated_at": time.Now(),
		})

		assert.ErrorIs(t, err, usecase.ErrProductNotFound, "should return ErrProductNotFound")
	})
}

func TestProductGorm_List(t *testing.T) {
	seed := func(t *testing.T, repo *productGorm) {
		t.Helper()
		boards := newBoard("Classic Skimboard", "189.90")
		tee := &entity.Product{
			Category: "Apparel", ProductName: "Logo Tee", Brand: "TSU", Size: "L", Price: "39.90",
		}
		shorts := &entity.Product{
			Category: "Apparel", ProductName: "Board Shorts", Brand: "TSU", Size: "M", Price: "49.90",
		}
		for _, p := range []*entity.Product{boards, tee, shorts} {
			require.NoError(t, repo.Create(context.Background(), p))
		}
	}

	t.Run("filters by category", func(t *testing.T) {
		db := setupTestDB(t)
		repo := NewProductRepository(db)
		seed(t, repo)

		rows, err := repo.List(context.Background(), usecase.ListQuery{Category: "Apparel", OrderBy: "id"})

		require.NoError(t, err)
		require.Len(t, rows, 2)
		for _, p := range rows {
			assert.Equal(t, "Apparel", p.Category)
		}
	})

	t.Run("orders by price descending", func(t *testing.T) {
		db := setupTestDB(t)
		repo := NewProductRepository(db)
		seed(t, repo)

		rows, err := repo.List(context.Background(), usecase.ListQuery{OrderBy: "price", Desc: true})

		require.NoError(t, err)
		require.Len(t, rows, 3)
		assert.Equal(t, "Classic Skimboard", rows[0].ProductName, "highest price should come first")
	})

	t.Run("applies limit and offset", func(t *testing.T) {
		db := setupTestDB(t)
		repo := NewProductRepository(db)
		seed(t, repo)

		rows, err := repo.List(context.Background(), usecase.ListQuery{OrderBy: "id", Limit: 1, Offset: 1})

		require.NoError(t, err)
		require.Len(t, rows, 1)
		assert.Equal(t, "Logo Tee", rows[0].ProductName)
	})
}
