// Package api defines the request and response types of the HTTP surface.
package api

// ErrorResponse is the uniform error payload.
type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

// MessageResponse is a bare confirmation payload.
type MessageResponse struct {
	Message string `json:"message"`
}

// RegisterRequest は/registerのリクエストボディを表す構造体です。
// Ginのbindingタグで入力チェック（必須・メール形式・パスワード長）を行います。
type RegisterRequest struct {
	FirstName   string `json:"first_name" binding:"required"`
	LastName    string `json:"last_name" binding:"required"`
	Email       string `json:"email" binding:"required,email"`
	Password    string `json:"password" binding:"required,min=8"`
	PhoneNumber string `json:"phone_number"`
	Address     string `json:"address"`
	City        string `json:"city"`
	PostalCode  string `json:"postal_code"`
}

// LoginRequest は/loginのリクエストボディを表す構造体です。
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// UpdateUserRequest は PUT /user/:id のリクエストボディを表す構造体です。
// ポインタ型のフィールドだけが更新対象になります（閉じた許可リスト）。
type UpdateUserRequest struct {
	FirstName   *string `json:"first_name"`
	LastName    *string `json:"last_name"`
	Email       *string `json:"email" binding:"omitempty,email"`
	Password    *string `json:"password" binding:"omitempty,min=8"`
	PhoneNumber *string `json:"phone_number"`
	Address     *string `json:"address"`
	City        *string `json:"city"`
	PostalCode  *string `json:"postal_code"`
}

// CreateProductRequest は POST /products のリクエストボディを表す構造体です。
// JSONとmultipart/form-dataの両方で受け付けます（formタグ）。
type CreateProductRequest struct {
	Category       string `json:"category" form:"category" binding:"required"`
	ProductName    string `json:"product_name" form:"product_name" binding:"required"`
	Brand          string `json:"brand" form:"brand" binding:"required"`
	Size           string `json:"size" form:"size" binding:"required"`
	Colour         string `json:"colour" form:"colour"`
	TractionColour string `json:"traction_colour" form:"traction_colour"`
	Shape          string `json:"shape" form:"shape"`
	Quantity       int    `json:"quantity" form:"quantity"`
	Description    string `json:"description" form:"description"`
	Price          string `json:"price" form:"price"`
	Image          string `json:"image" form:"image"`
}

// UpdateProductRequest は PUT /products/:id のリクエストボディを表す構造体です。
// ポインタ型のフィールドだけが更新対象になります（閉じた許可リスト）。
type UpdateProductRequest struct {
	Category       *string `json:"category" form:"category"`
	ProductName    *string `json:"product_name" form:"product_name"`
	Brand          *string `json:"brand" form:"brand"`
	Size           *string `json:"size" form:"size"`
	Colour         *string `json:"colour" form:"colour"`
	TractionColour *string `json:"traction_colour" form:"traction_colour"`
	Shape          *string `json:"shape" form:"shape"`
	Quantity       *int    `json:"quantity" form:"quantity"`
	Description    *string `json:"description" form:"description"`
	Price          *string `json:"price" form:"price"`
	Image          *string `json:"image" form:"image"`
}

// ListProductsQuery は GET /products のクエリパラメータを表す構造体です。
type ListProductsQuery struct {
	Category string `form:"category"`
	OrderBy  string `form:"order_by"`
	Order    string `form:"order"` // asc (default) or desc
	Limit    int    `form:"limit"`
	Offset   int    `form:"offset"`
}
