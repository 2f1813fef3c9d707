// Package entity defines the domain entities for the catalog feature.
package entity

import "time"

// Product represents a single catalogue item (one colour/size variant).
// Price travels as a 2-decimal string ("189.90"), never as a float.
type Product struct {
	ID uint `gorm:"primaryKey" json:"id"`

	// Category must be one of the configured category set at write time.
	Category string `gorm:"size:50;not null;index" json:"category"`

	ProductName string `gorm:"size:255;not null" json:"product_name"`
	Brand       string `gorm:"size:100;not null" json:"brand"`
	Size        string `gorm:"size:50;not null" json:"size"`

	// Colour, TractionColour and Shape are optional board/apparel variant attributes.
	Colour         string `gorm:"size:50" json:"colour"`
	TractionColour string `gorm:"size:50" json:"traction_colour"`
	Shape          string `gorm:"size:50" json:"shape"`

	// Quantity is the stock on hand. Never negative.
	Quantity int `gorm:"not null;default:0" json:"quantity"`

	Description string `gorm:"type:text" json:"description"`

	// Price is a fixed-point decimal with 2 fractional digits, stored as
	// decimal(10,2) and normalized before every write.
	Price string `gorm:"type:decimal(10,2);not null;default:0.00" json:"price"`

	// Image is a relative path, either an uploaded-file path under /assets/
	// or a client-supplied URL/path.
	Image string `gorm:"size:255" json:"image"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName maps the entity to the products table.
func (Product) TableName() string {
	return "products"
}
