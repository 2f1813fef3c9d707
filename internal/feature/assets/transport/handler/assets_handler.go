// Package handler はassetsフィーチャーのHTTPハンドラーを提供します。
package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"shop_backend/internal/api"
)

// AssetResolver は/assets/配下のリクエストパスをルート内のファイルに解決します。
// Goの慣例に従い、インターフェースはプロバイダー（assets）ではなくコンシューマー（handler）が定義します。
type AssetResolver interface {
	// Resolve はルートの外に出るパスやファイルが存在しないパスを拒否します。
	Resolve(rel string) (string, error)
}

// AssetsHandler は保存済み画像の静的読み取りエンドポイントを処理します。
type AssetsHandler struct {
	store AssetResolver
}

// NewAssetsHandler はAssetsHandlerの新しいインスタンスを生成します。
func NewAssetsHandler(store AssetResolver) *AssetsHandler {
	return &AssetsHandler{store: store}
}

// Serve は GET /assets/*filepath を処理します。
// パストラバーサルや存在しないファイルはすべて404になります。
func (h *AssetsHandler) Serve(c *gin.Context) {
	abs, err := h.store.Resolve(c.Param("filepath"))
	if err != nil {
		c.JSON(http.StatusNotFound, api.ErrorResponse{Error: "asset not found"})
		return
	}
	c.File(abs)
}
