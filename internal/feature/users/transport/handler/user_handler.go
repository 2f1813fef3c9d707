// Package handler はusersフィーチャーのHTTPハンドラーを提供します。
package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"shop_backend/internal/api"
	"shop_backend/internal/feature/users/domain/entity"
	"shop_backend/internal/feature/users/usecase"
	jwtmw "shop_backend/internal/platform/jwt"
)

// UserUsecase はユーザーアカウント操作のユースケースを定義します。
// Goの慣例に従い、インターフェースはプロバイダー（usecase）ではなくコンシューマー（handler）が定義します。
type UserUsecase interface {
	// Register は新規ユーザーを登録し、生成されたIDを返します。
	Register(ctx context.Context, in usecase.RegisterInput) (uint, error)
	// GetByID はIDでユーザーを取得します。
	GetByID(ctx context.Context, id uint) (*entity.User, error)
	// Login はユーザーを認証し、成功時にアクセストークンとユーザーを返します。
	Login(ctx context.Context, email, password string) (string, *entity.User, error)
	// Update は部分更新を適用し、更新後の行を返します。
	Update(ctx context.Context, id uint, in usecase.UpdateInput) (*entity.User, error)
}

// UserHandler はユーザーアカウント操作のHTTPリクエストを処理します。
type UserHandler struct {
	users UserUsecase
}

// NewUserHandler はUserHandlerの新しいインスタンスを生成します。
// 依存性注入用のコンストラクタで、外部からUserUsecaseを注入します。
func NewUserHandler(users UserUsecase) *UserHandler {
	return &UserHandler{users: users}
}

// Register はユーザー登録APIエンドポイントを処理します。
// - リクエストJSONをRegisterRequestにバインド
// - バリデーションエラー時は400を返却
// - メール重複時は409を返却
// - 成功時は201でuser_idを返却
func (h *UserHandler) Register(c *gin.Context) {
	var req api.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		slog.Warn("register validation failed", "error", err, "remote_addr", c.ClientIP())
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "invalid request", Details: err.Error()})
		return
	}
	id, err := h.users.Register(c.Request.Context(), usecase.RegisterInput{
		FirstName:   req.FirstName,
		LastName:    req.LastName,
		Email:       req.Email,
		Password:    req.Password,
		PhoneNumber: req.PhoneNumber,
		Address:     req.Address,
		City:        req.City,
		PostalCode:  req.PostalCode,
	})
	if err != nil {
		slog.Warn("register failed", "error", err, "email", req.Email, "remote_addr", c.ClientIP())
		if errors.Is(err, usecase.ErrEmailAlreadyExists) {
			c.JSON(http.StatusConflict, api.ErrorResponse{Error: "email already exists"})
			return
		}
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: err.Error()})
		return
	}
	slog.Info("user registered", "user_id", id, "remote_addr", c.ClientIP())
	c.JSON(http.StatusCreated, gin.H{"message": "user created", "user_id": id})
}

// Login はユーザーログインAPIエンドポイントを処理します。
// - バリデーションエラー時は400を返却
// - 認証失敗時は401を返却（メール未登録とパスワード不一致を区別しない）
// - 認証成功時はアクセストークン付きで200を返却
func (h *UserHandler) Login(c *gin.Context) {
	var req api.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		slog.Warn("login validation failed", "error", err, "remote_addr", c.ClientIP())
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "invalid request", Details: err.Error()})
		return
	}
	token, user, err := h.users.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		// ユーザー列挙攻撃を防止するため、実際のエラーを公開しない
		slog.Warn("login failed", "email", req.Email, "remote_addr", c.ClientIP())
		c.JSON(http.StatusUnauthorized, api.ErrorResponse{Error: "invalid email or password"})
		return
	}
	slog.Info("user login successful", "email", req.Email, "remote_addr", c.ClientIP())
	c.JSON(http.StatusOK, gin.H{"token": token, "user": user})
}

// Get は GET /user/:id を処理します。
// パスワードハッシュはエンティティのシリアライズから常に除外されます。
func (h *UserHandler) Get(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "invalid user id"})
		return
	}
	user, err := h.users.GetByID(c.Request.Context(), uint(id))
	if err != nil {
		if errors.Is(err, usecase.ErrUserNotFound) {
			c.JSON(http.StatusNotFound, api.ErrorResponse{Error: "user not found"})
			return
		}
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: err.Error()})
		return
	}
	c.JSON(http.StatusOK, user)
}

// Update は PUT /user/:id を処理します。
// 供給されたフィールドだけを更新し、更新後のユーザーを返します。
// トークンのsubjectと:idが一致しない場合は403を返します。
func (h *UserHandler) Update(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "invalid user id"})
		return
	}
	if claim, ok := c.Get(jwtmw.ContextUserID); !ok || claim != uint(id) {
		slog.Warn("user update forbidden", "user_id", id, "remote_addr", c.ClientIP())
		c.JSON(http.StatusForbidden, api.ErrorResponse{Error: "forbidden"})
		return
	}
	var req api.UpdateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		slog.Warn("user update validation failed", "error", err, "remote_addr", c.ClientIP())
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "invalid request", Details: err.Error()})
		return
	}
	user, err := h.users.Update(c.Request.Context(), uint(id), usecase.UpdateInput{
		FirstName:   req.FirstName,
		LastName:    req.LastName,
		Email:       req.Email,
		Password:    req.Password,
		PhoneNumber: req.PhoneNumber,
		Address:     req.Address,
		City:        req.City,
		PostalCode:  req.PostalCode,
	})
	if err != nil {
		slog.Warn("user update failed", "error", err, "user_id", id, "remote_addr", c.ClientIP())
		switch {
		case errors.Is(err, usecase.ErrUserNotFound):
			c.JSON(http.StatusNotFound, api.ErrorResponse{Error: "user not found"})
		case errors.Is(err, usecase.ErrEmailAlreadyExists):
			c.JSON(http.StatusConflict, api.ErrorResponse{Error: "email already exists"})
		default:
			c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: err.Error()})
		}
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "user updated", "user": user})
}
