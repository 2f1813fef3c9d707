package main

import (
	"log"
	"os"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	redisv9 "github.com/redis/go-redis/v9"

	"shop_backend/internal/app/router"
	"shop_backend/internal/feature/assets"
	assetshandler "shop_backend/internal/feature/assets/transport/handler"
	catalogadapters "shop_backend/internal/feature/catalog/adapters"
	cataloghandler "shop_backend/internal/feature/catalog/transport/handler"
	catalogusecase "shop_backend/internal/feature/catalog/usecase"
	usersadapters "shop_backend/internal/feature/users/adapters"
	usershandler "shop_backend/internal/feature/users/transport/handler"
	usersusecase "shop_backend/internal/feature/users/usecase"
	"shop_backend/internal/platform/cache"
	"shop_backend/internal/platform/db"
	jwtmw "shop_backend/internal/platform/jwt"
	infraredis "shop_backend/internal/platform/redis"
)

func main() {
	// .envを読み込む
	if err := godotenv.Load(".env"); err != nil {
		log.Println("[INFO] .env not found; using system environment variables")
	}

	if os.Getenv("APP_CONFIG") == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	// db
	gormDB := db.OpenDB()

	// Redis
	var rdb *redisv9.Client
	if tmp, err := infraredis.NewRedisClient(); err != nil {
		log.Println("[WARN] Redis unavailable. Running without cache.")
		rdb = nil
	} else {
		rdb = tmp
		defer func() {
			if err := rdb.Close(); err != nil {
				log.Println("[ERROR] Failed to close Redis client:", err)
			}
		}()
	}

	// Repository
	userRepo := usersadapters.NewUserRepository(gormDB)
	productRepo := catalogadapters.NewProductRepository(gormDB)

	// 商品読み取りはRedisキャッシュでラップ（書き込み時に無効化）
	cachedProductRepo := cache.NewCachingProductRepository(rdb, 5*time.Minute, productRepo, "products")

	// アセットストア
	store := assets.NewStore(assets.LoadConfig())

	// JWTシークレット（開発中の注意喚起）
	secret := os.Getenv(jwtmw.EnvKeyJWTSecret)
	if secret == "" {
		log.Println("[WARN] JWT_SECRET is not set. Set a strong secret in production.")
	}

	// トークンジェネレーター
	tokenGen := jwtmw.NewGenerator(secret, 24*time.Hour)

	// Usecase
	userUC := usersusecase.NewUserUsecase(userRepo, tokenGen)
	productUC := catalogusecase.NewProductUsecase(cachedProductRepo, catalogusecase.LoadCategories())

	// Handler
	userH := usershandler.NewUserHandler(userUC)
	productH := cataloghandler.NewProductHandler(productUC, store)
	assetsH := assetshandler.NewAssetsHandler(store)

	// ルータ生成（CORSとミドルウェアはNewRouter内で適用）
	router := router.NewRouter(secret, userH, productH, assetsH)

	if err := router.Run(":8080"); err != nil {
		log.Fatal(err)
	}
}
