// Package adapters provides the repository implementations for the catalog feature.
package adapters

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"shop_backend/internal/feature/catalog/domain/entity"
	"shop_backend/internal/feature/catalog/usecase"
)

type productGorm struct {
	db *gorm.DB
}

var _ usecase.ProductRepository = (*productGorm)(nil)

// NewProductRepository creates a GORM-backed ProductRepository.
func NewProductRepository(db *gorm.DB) *productGorm {
	return &productGorm{db: db}
}

func (r *productGorm) Create(ctx context.Context, p *entity.Product) error {
	return r.db.WithContext(ctx).Create(p).Error
}

func (r *productGorm) FindByID(ctx context.Context, id uint) (*entity.Product, error) {
	var p entity.Product
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&p).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, usecase.ErrProductNotFound
		}
		return nil, err
	}
	return &p, nil
}

// UpdateColumns issues a single UPDATE over exactly the given columns.
// The statement is implicitly transactional: on driver error nothing of it
// remains visible. ErrProductNotFound when no row matched the id.
func (r *productGorm) UpdateColumns(ctx context.Context, id uint, cols map[string]any) error {
	res := r.db.WithContext(ctx).Model(&entity.Product{}).Where("id = ?", id).Updates(cols)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return usecase.ErrProductNotFound
	}
	return nil
}

// List runs the filtered/ordered/paginated read. The order column was
// validated upstream against the allow-list, so it can be interpolated here.
func (r *productGorm) List(ctx context.Context, q usecase.ListQuery) ([]entity.Product, error) {
	var rows []entity.Product
	tx := r.db.WithContext(ctx).Model(&entity.Product{})
	if q.Category != "" {
		tx = tx.Where("category = ?", q.Category)
	}
	order := q.OrderBy
	if q.Desc {
		order += " DESC"
	}
	tx = tx.Order(order)
	if q.Limit > 0 {
		tx = tx.Limit(q.Limit)
	}
	if q.Offset > 0 {
		tx = tx.Offset(q.Offset)
	}
	if err := tx.Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}
