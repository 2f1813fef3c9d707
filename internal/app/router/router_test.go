package router

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	assetshandler "shop_backend/internal/feature/assets/transport/handler"
	cataloghandler "shop_backend/internal/feature/catalog/transport/handler"
	usershandler "shop_backend/internal/feature/users/transport/handler"
)

func newEngine() *gin.Engine {
	gin.SetMode(gin.TestMode)
	return NewRouter("test-secret",
		usershandler.NewUserHandler(nil),
		cataloghandler.NewProductHandler(nil, nil),
		assetshandler.NewAssetsHandler(nil),
	)
}

// TestNewRouter_CORSOnRegisteredRoutes は登録済みルートのレスポンスにCORSヘッダーが付与されることを検証します。
// ミドルウェアはルート登録より前に適用されていなければならない。
func TestNewRouter_CORSOnRegisteredRoutes(t *testing.T) {
	r := newEngine()

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	req.Header.Set("Origin", "http://storefront.example")
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, w.Code)
	}
	if got := w.Header().Get("Access-Control-Allow-Origin"); got != "*" {
		t.Errorf("expected Access-Control-Allow-Origin %q, got %q", "*", got)
	}
}

// TestNewRouter_CORSPreflight はプリフライトOPTIONSリクエストが204とCORSヘッダーで応答されることを検証します。
func TestNewRouter_CORSPreflight(t *testing.T) {
	r := newEngine()

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodOptions, "/products", nil)
	req.Header.Set("Origin", "http://storefront.example")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusNoContent {
		t.Fatalf("expected status %d, got %d", http.StatusNoContent, w.Code)
	}
	if got := w.Header().Get("Access-Control-Allow-Origin"); got != "*" {
		t.Errorf("expected Access-Control-Allow-Origin %q, got %q", "*", got)
	}
	if got := w.Header().Get("Access-Control-Allow-Methods"); got == "" {
		t.Error("expected Access-Control-Allow-Methods to be set on preflight")
	}
}

// TestNewRouter_AuthGateOnUserUpdate はトークン無しのPUT /user/:idが401で拒否されることを検証します。
func TestNewRouter_AuthGateOnUserUpdate(t *testing.T) {
	r := newEngine()

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPut, "/user/1", nil)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Errorf("expected status %d, got %d", http.StatusUnauthorized, w.Code)
	}
}
