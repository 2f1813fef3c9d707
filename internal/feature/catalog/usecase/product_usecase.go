package usecase

import (
	"context"
	"time"

	"shop_backend/internal/feature/catalog/domain/entity"
)

// orderableColumns is the closed set of columns a list query may sort by.
// Anything else never reaches the ORDER BY clause.
var orderableColumns = map[string]struct{}{
	"id":           {},
	"product_name": {},
	"price":        {},
	"updated_at":   {},
	"created_at":   {},
}

// ProductRepository abstracts the persistence layer for catalogue items.
// Following Go convention: interfaces are defined by the consumer (usecase), not the provider (adapters).
type ProductRepository interface {
	// Create persists a new product and fills in its generated ID.
	Create(ctx context.Context, p *entity.Product) error

	// FindByID returns the product with the given ID, or ErrProductNotFound.
	FindByID(ctx context.Context, id uint) (*entity.Product, error)

	// UpdateColumns issues an UPDATE touching exactly the given columns.
	// Returns ErrProductNotFound when no row matches.
	UpdateColumns(ctx context.Context, id uint, cols map[string]any) error

	// List returns products matching the query. The query's order column has
	// already been validated against the ordering allow-list.
	List(ctx context.Context, q ListQuery) ([]entity.Product, error)
}

// ListQuery describes a filtered, ordered, paginated catalogue read.
type ListQuery struct {
	// Category filters by category when non-empty.
	Category string
	// OrderBy must be one of the orderable columns; empty means "id".
	OrderBy string
	// Desc reverses the sort order.
	Desc bool
	// Limit and Offset page through the result; Limit<=0 means no limit.
	Limit  int
	Offset int
}

// CreateInput carries the fields accepted at product registration.
// Required-string checks (category/product_name/brand/size) happen at the
// request boundary; quantity and price arrive pre-parsed.
type CreateInput struct {
	Category       string
	ProductName    string
	Brand          string
	Size           string
	Colour         string
	TractionColour string
	Shape          string
	Quantity       int
	Description    string
	Price          string
	Image          string
}

// UpdateInput is the closed set of fields a partial update may touch.
// Nil fields are excluded from the generated SET clause.
type UpdateInput struct {
	Category       *string
	ProductName    *string
	Brand          *string
	Size           *string
	Colour         *string
	TractionColour *string
	Shape          *string
	Quantity       *int
	Description    *string
	Price          *string
	Image          *string
}

// ProductUsecase provides business logic for catalogue operations.
type ProductUsecase struct {
	repo       ProductRepository
	categories map[string]struct{}
}

// NewProductUsecase creates a ProductUsecase over the given repository and
// configured category set.
func NewProductUsecase(repo ProductRepository, categories []string) *ProductUsecase {
	set := make(map[string]struct{}, len(categories))
	for _, c := range categories {
		set[c] = struct{}{}
	}
	return &ProductUsecase{repo: repo, categories: set}
}

// ValidCategory reports whether c is in the configured category set.
// Handlers use it to vet the category before writing an uploaded image into
// its directory.
func (u *ProductUsecase) ValidCategory(c string) bool {
	_, ok := u.categories[c]
	return ok
}

// Create registers a new catalogue item and returns its generated ID.
// Quantity defaults to 0 and price to "0.00" when not supplied.
func (u *ProductUsecase) Create(ctx context.Context, in CreateInput) (uint, error) {
	if !u.ValidCategory(in.Category) {
		return 0, ErrInvalidCategory
	}
	if in.Quantity < 0 {
		return 0, ErrInvalidQuantity
	}
	price := in.Price
	if price == "" {
		price = "0.00"
	}
	price, err := NormalizePrice(price)
	if err != nil {
		return 0, err
	}

	p := &entity.Product{
		Category:       in.Category,
		ProductName:    in.ProductName,
		Brand:          in.Brand,
		Size:           in.Size,
		Colour:         in.Colour,
		TractionColour: in.TractionColour,
		Shape:          in.Shape,
		Quantity:       in.Quantity,
		Description:    in.Description,
		Price:          price,
		Image:          in.Image,
	}
	if err := u.repo.Create(ctx, p); err != nil {
		return 0, err
	}
	return p.ID, nil
}

// GetByID returns the product with the given ID, with its price rendered as a
// 2-decimal string.
func (u *ProductUsecase) GetByID(ctx context.Context, id uint) (*entity.Product, error) {
	p, err := u.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	stringifyPrice(p)
	return p, nil
}

// Update applies a partial update and returns the post-update row.
// An empty update set returns the current row unchanged rather than failing
// (idempotent no-op read); otherwise updated_at is always refreshed.
func (u *ProductUsecase) Update(ctx context.Context, id uint, in UpdateInput) (*entity.Product, error) {
	cols := map[string]any{}
	if in.Category != nil {
		if !u.ValidCategory(*in.Category) {
			return nil, ErrInvalidCategory
		}
		cols["category"] = *in.Category
	}
	if in.ProductName != nil {
		cols["product_name"] = *in.ProductName
	}
	if in.Brand != nil {
		cols["brand"] = *in.Brand
	}
	if in.Size != nil {
		cols["size"] = *in.Size
	}
	if in.Colour != nil {
		cols["colour"] = *in.Colour
	}
	if in.TractionColour != nil {
		cols["traction_colour"] = *in.TractionColour
	}
	if in.Shape != nil {
		cols["shape"] = *in.Shape
	}
	if in.Quantity != nil {
		if *in.Quantity < 0 {
			return nil, ErrInvalidQuantity
		}
		cols["quantity"] = *in.Quantity
	}
	if in.Description != nil {
		cols["description"] = *in.Description
	}
	if in.Price != nil {
		price, err := NormalizePrice(*in.Price)
		if err != nil {
			return nil, err
		}
		cols["price"] = price
	}
	if in.Image != nil {
		cols["image"] = *in.Image
	}

	if len(cols) == 0 {
		return u.GetByID(ctx, id)
	}

	cols["updated_at"] = time.Now()

	if err := u.repo.UpdateColumns(ctx, id, cols); err != nil {
		return nil, err
	}
	return u.GetByID(ctx, id)
}

// List returns catalogue items for the shop page. The order column is checked
// against the closed allow-list before it gets anywhere near the query.
func (u *ProductUsecase) List(ctx context.Context, q ListQuery) ([]entity.Product, error) {
	if q.OrderBy == "" {
		q.OrderBy = "id"
	}
	if _, ok := orderableColumns[q.OrderBy]; !ok {
		return nil, ErrInvalidOrderBy
	}
	if q.Category != "" && !u.ValidCategory(q.Category) {
		return nil, ErrInvalidCategory
	}

	products, err := u.repo.List(ctx, q)
	if err != nil {
		return nil, err
	}
	for i := range products {
		stringifyPrice(&products[i])
	}
	return products, nil
}

// stringifyPrice re-normalizes the stored price for transport. SQLite in
// particular hands decimals back without trailing zeros.
func stringifyPrice(p *entity.Product) {
	if normalized, err := NormalizePrice(p.Price); err == nil {
		p.Price = normalized
	}
}
