package handler

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
)

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	m.Run()
}

// TestHealth はメソッドごとのステータスコードとキャッシュ抑止ヘッダーを検証します。
func TestHealth(t *testing.T) {
	r := gin.New()
	r.Any("/healthz", Health)

	tests := []struct {
		method     string
		wantStatus int
		wantBody   string
		wantAllow  string
	}{
		{method: http.MethodGet, wantStatus: http.StatusOK, wantBody: `"status":"ok"`},
		{method: http.MethodHead, wantStatus: http.StatusOK, wantBody: ""},
		{method: http.MethodOptions, wantStatus: http.StatusNoContent, wantAllow: "GET, HEAD, OPTIONS"},
		{method: http.MethodPost, wantStatus: http.StatusOK, wantBody: `"status":"ok"`},
	}

	for _, tt := range tests {
		t.Run(tt.method, func(t *testing.T) {
			w := httptest.NewRecorder()
			req := httptest.NewRequest(tt.method, "/healthz", nil)
			r.ServeHTTP(w, req)

			if w.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d", w.Code, tt.wantStatus)
			}
			if got := w.Header().Get("Cache-Control"); got != "no-store" {
				t.Errorf("Cache-Control = %q, want %q", got, "no-store")
			}
			if tt.wantAllow != "" {
				if got := w.Header().Get("Allow"); got != tt.wantAllow {
					t.Errorf("Allow = %q, want %q", got, tt.wantAllow)
				}
			}
			if tt.wantBody != "" && !strings.Contains(w.Body.String(), tt.wantBody) {
				t.Errorf("body = %q, want it to contain %q", w.Body.String(), tt.wantBody)
			}
			if tt.method == http.MethodHead && w.Body.Len() != 0 {
				t.Errorf("HEAD body should be empty, got %q", w.Body.String())
			}
		})
	}
}
