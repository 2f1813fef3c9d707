// Package handler はcatalogフィーチャーのHTTPハンドラーを提供します。
package handler

import (
	"context"
	"errors"
	"log/slog"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"shop_backend/internal/api"
	"shop_backend/internal/feature/assets"
	"shop_backend/internal/feature/catalog/domain/entity"
	"shop_backend/internal/feature/catalog/usecase"
)

// ProductUsecase は商品カタログ操作のユースケースを定義します。
// Goの慣例に従い、インターフェースはプロバイダー（usecase）ではなくコンシューマー（handler）が定義します。
type ProductUsecase interface {
	Create(ctx context.Context, in usecase.CreateInput) (uint, error)
	GetByID(ctx context.Context, id uint) (*entity.Product, error)
	Update(ctx context.Context, id uint, in usecase.UpdateInput) (*entity.Product, error)
	List(ctx context.Context, q usecase.ListQuery) ([]entity.Product, error)
	ValidCategory(category string) bool
}

// ImageUploader は添付画像をアセットストアに保存します。
type ImageUploader interface {
	// Save は拡張子を検証し、カテゴリ配下に保存して /assets/... パスを返します。
	Save(category string, fh *multipart.FileHeader) (string, error)
}

// ProductHandler は商品カタログのHTTPリクエストを処理します。
type ProductHandler struct {
	products ProductUsecase
	uploads  ImageUploader
}

// NewProductHandler はProductHandlerの新しいインスタンスを生成します。
func NewProductHandler(products ProductUsecase, uploads ImageUploader) *ProductHandler {
	return &ProductHandler{products: products, uploads: uploads}
}

// saveAttachedImage は multipart リクエストに添付された画像ファイルを保存します。
// 画像が添付されていない場合は ("", false, nil) を返します。
// アセットストアはサービス呼び出しの前に実行されます。
func (h *ProductHandler) saveAttachedImage(c *gin.Context, category string) (string, bool, error) {
	if !strings.HasPrefix(c.ContentType(), "multipart/form-data") {
		return "", false, nil
	}
	fh, err := c.FormFile("image")
	if err != nil {
		// 画像なしのフォーム送信は有効
		return "", false, nil
	}
	path, err := h.uploads.Save(category, fh)
	if err != nil {
		return "", false, err
	}
	return path, true, nil
}

// Create は POST /products を処理します。
// JSONとmultipart/form-data（画像添付可）の両方を受け付けます。
// - バリデーションエラー時は400、カテゴリ不正等は422、拡張子不正は415を返却
// - 成功時は201でproduct_idを返却
func (h *ProductHandler) Create(c *gin.Context) {
	var req api.CreateProductRequest
	if err := c.ShouldBind(&req); err != nil {
		slog.Warn("product create validation failed", "error", err, "remote_addr", c.ClientIP())
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "invalid request", Details: err.Error()})
		return
	}

	// 画像はカテゴリ検証後・サービス呼び出し前に保存する
	if !h.products.ValidCategory(req.Category) {
		c.JSON(http.StatusUnprocessableEntity, api.ErrorResponse{Error: "invalid product category"})
		return
	}
	if path, ok, err := h.saveAttachedImage(c, req.Category); err != nil {
		h.writeError(c, err)
		return
	} else if ok {
		req.Image = path
	}

	id, err := h.products.Create(c.Request.Context(), usecase.CreateInput{
		Category:       req.Category,
		ProductName:    req.ProductName,
		Brand:          req.Brand,
		Size:           req.Size,
		Colour:         req.Colour,
		TractionColour: req.TractionColour,
		Shape:          req.Shape,
		Quantity:       req.Quantity,
		Description:    req.Description,
		Price:          req.Price,
		Image:          req.Image,
	})
	if err != nil {
		slog.Warn("product create failed", "error", err, "remote_addr", c.ClientIP())
		h.writeError(c, err)
		return
	}
	slog.Info("product created", "product_id", id, "category", req.Category)
	c.JSON(http.StatusCreated, gin.H{"message": "product created", "product_id": id})
}

// Get は GET /products/:id を処理します。
func (h *ProductHandler) Get(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "invalid product id"})
		return
	}
	product, err := h.products.GetByID(c.Request.Context(), uint(id))
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, product)
}

// Update は PUT /products/:id を処理します。
// 供給されたフィールドだけを更新し、更新後の商品を返します。
// フィールドが一つも供給されない場合は現在の行をそのまま返します。
func (h *ProductHandler) Update(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "invalid product id"})
		return
	}
	var req api.UpdateProductRequest
	if err := c.ShouldBind(&req); err != nil {
		slog.Warn("product update validation failed", "error", err, "remote_addr", c.ClientIP())
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "invalid request", Details: err.Error()})
		return
	}

	// 画像差し替え: 保存先はカテゴリ配下のみ。カテゴリが解決・検証できない限り
	// ファイルは一切書き込まない
	if strings.HasPrefix(c.ContentType(), "multipart/form-data") {
		if _, err := c.FormFile("image"); err == nil {
			category := ""
			if req.Category != nil {
				category = *req.Category
			} else if current, err := h.products.GetByID(c.Request.Context(), uint(id)); err == nil {
				category = current.Category
			}
			if !h.products.ValidCategory(category) {
				c.JSON(http.StatusUnprocessableEntity, api.ErrorResponse{Error: "invalid product category"})
				return
			}
			if path, ok, err := h.saveAttachedImage(c, category); err != nil {
				h.writeError(c, err)
				return
			} else if ok {
				req.Image = &path
			}
		}
	}

	product, err := h.products.Update(c.Request.Context(), uint(id), usecase.UpdateInput{
		Category:       req.Category,
		ProductName:    req.ProductName,
		Brand:          req.Brand,
		Size:           req.Size,
		Colour:         req.Colour,
		TractionColour: req.TractionColour,
		Shape:          req.Shape,
		Quantity:       req.Quantity,
		Description:    req.Description,
		Price:          req.Price,
		Image:          req.Image,
	})
	if err != nil {
		slog.Warn("product update failed", "error", err, "product_id", id)
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "product updated", "product": product})
}

// List は GET /products を処理します。
//
// エンドポイント例:
// GET /products?category=Boards&order_by=price&order=desc&limit=20&offset=0
func (h *ProductHandler) List(c *gin.Context) {
	var q api.ListProductsQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "invalid request", Details: err.Error()})
		return
	}
	products, err := h.products.List(c.Request.Context(), usecase.ListQuery{
		Category: q.Category,
		OrderBy:  q.OrderBy,
		Desc:     strings.EqualFold(q.Order, "desc"),
		Limit:    q.Limit,
		Offset:   q.Offset,
	})
	if err != nil {
		// 許可リスト外のorder_byや未知カテゴリも含め、一覧の失敗は400
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: err.Error()})
		return
	}
	c.JSON(http.StatusOK, products)
}

// writeError はエラー分類をHTTPステータスコードに対応付けます。
// Validation→422、拡張子不正→415、NotFound→404、それ以外のストア層エラーは
// 診断の便宜のためメッセージ付きの400になります。
func (h *ProductHandler) writeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, assets.ErrUnsupportedMediaType):
		c.JSON(http.StatusUnsupportedMediaType, api.ErrorResponse{Error: err.Error()})
	case errors.Is(err, usecase.ErrInvalidCategory),
		errors.Is(err, usecase.ErrInvalidPrice),
		errors.Is(err, usecase.ErrInvalidQuantity):
		c.JSON(http.StatusUnprocessableEntity, api.ErrorResponse{Error: err.Error()})
	case errors.Is(err, usecase.ErrProductNotFound):
		c.JSON(http.StatusNotFound, api.ErrorResponse{Error: "product not found"})
	default:
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: err.Error()})
	}
}
