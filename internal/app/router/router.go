package router

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	assetshandler "shop_backend/internal/feature/assets/transport/handler"
	cataloghandler "shop_backend/internal/feature/catalog/transport/handler"
	usershandler "shop_backend/internal/feature/users/transport/handler"
	"shop_backend/internal/platform/http/handler"
	jwtmw "shop_backend/internal/platform/jwt"
	"shop_backend/internal/shared/ratelimiter"
)

func NewRouter(jwtSecret string, users *usershandler.UserHandler, products *cataloghandler.ProductHandler,
	assets *assetshandler.AssetsHandler) *gin.Engine {
	r := gin.Default()

	// CORSはルート登録より前に適用する（ストアフロントは別オリジンから叩く）
	r.Use(cors.Default())

	// 総当たり対策: 認証系エンドポイントはIPごとにリクエスト数を制限
	authLimiter := ratelimiter.NewLimiter(10, time.Minute)

	// 認証不要
	// 導通確認用
	r.GET("/healthz", handler.Health)
	// 新規ユーザー登録
	r.POST("/register", authLimiter.Middleware(), users.Register)
	// ログイン（JWT 発行）
	r.POST("/login", authLimiter.Middleware(), users.Login)
	// ユーザープロフィール取得
	r.GET("/user/:id", users.Get)

	// 商品カタログ（ストアフロントとバックオフィスの両方が利用）
	r.POST("/products", products.Create)
	r.GET("/products", products.List)
	r.GET("/products/:id", products.Get)
	r.PUT("/products/:id", products.Update)

	// アップロード済み画像の静的読み取り（ルート外へのパスはすべて404）
	r.GET("/assets/*filepath", assets.Serve)

	// 認証必須のルート
	// r.Group("/") でルートグループを作成
	auth := r.Group("/")
	// jwtmw.AuthRequired ミドルウェアを適用
	// → リクエストヘッダーに JWT が必要になる
	auth.Use(jwtmw.AuthRequired(jwtSecret))
	{
		// プロフィール更新は本人のトークンが必要（所有者チェックはハンドラー側）
		auth.PUT("/user/:id", users.Update)
	}

	return r
}
