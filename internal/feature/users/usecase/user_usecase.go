// Package usecase はusersフィーチャーのビジネスロジックを実装します。
package usecase

import (
	"context"
	"fmt"
	"time"

	"shop_backend/internal/feature/users/domain/entity"

	"golang.org/x/crypto/bcrypt"
)

const (
	// minPasswordLength はパスワードの最低文字数を定義します。
	minPasswordLength = 8
)

// UserRepository はユーザーエンティティの永続化層を抽象化します。
// Goの慣例に従い、インターフェースはプロバイダー（adapters）ではなくコンシューマー（usecase）が定義します。
type UserRepository interface {
	// Create は新しいユーザーをストレージに永続化します。
	// 同じメールアドレスのユーザーが既に存在する場合、ErrEmailAlreadyExistsを返します。
	Create(ctx context.Context, user *entity.User) error

	// FindByEmail は指定されたメールアドレスに一致するユーザーを取得します。
	FindByEmail(ctx context.Context, email string) (*entity.User, error)

	// FindByID は指定されたIDに一致するユーザーを取得します。
	FindByID(ctx context.Context, id uint) (*entity.User, error)

	// UpdateColumns は指定された列だけを更新するUPDATEを発行します。
	// 対象行が存在しない場合、ErrUserNotFoundを返します。
	UpdateColumns(ctx context.Context, id uint, cols map[string]any) error
}

// TokenGenerator はログイン成功時のアクセストークン生成を抽象化します。
type TokenGenerator interface {
	// GenerateToken は指定されたユーザーの署名済みトークンを生成します。
	GenerateToken(userID uint, email string) (string, error)
}

// RegisterInput は新規登録で受け付けるフィールドの集合です。
// 必須チェック（first_name/last_name/email/password）は呼び出し側で行います。
type RegisterInput struct {
	FirstName   string
	LastName    string
	Email       string
	Password    string
	PhoneNumber string
	Address     string
	City        string
	PostalCode  string
}

// UpdateInput は部分更新で変更可能なフィールドの閉じた集合です。
// nilのフィールドは更新対象から除外されます。ここに無い列（id, is_admin,
// created_at等）は型の境界で弾かれるため、動的なSET句に混入することはありません。
type UpdateInput struct {
	FirstName   *string
	LastName    *string
	Email       *string
	Password    *string
	PhoneNumber *string
	Address     *string
	City        *string
	PostalCode  *string
}

// userUsecase はユーザーアカウントのビジネスロジックを実装します。
type userUsecase struct {
	users  UserRepository
	tokens TokenGenerator
}

// NewUserUsecase はuserUsecaseの新しいインスタンスを生成します。
func NewUserUsecase(users UserRepository, tokens TokenGenerator) *userUsecase {
	return &userUsecase{
		users:  users,
		tokens: tokens,
	}
}

// validatePassword はパスワードがセキュリティ要件を満たしているかチェックします。
func validatePassword(password string) error {
	if len(password) < minPasswordLength {
		return fmt.Errorf("password must be at least %d characters long", minPasswordLength)
	}
	return nil
}

// Register はハッシュ化されたパスワードで新規ユーザーを登録し、生成されたIDを返します。
func (u *userUsecase) Register(ctx context.Context, in RegisterInput) (uint, error) {
	// パスワード強度を検証
	if err := validatePassword(in.Password); err != nil {
		return 0, err
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return 0, fmt.Errorf("failed to hash password: %w", err)
	}
	user := &entity.User{
		FirstName:   in.FirstName,
		LastName:    in.LastName,
		Email:       in.Email,
		Password:    string(hashed),
		PhoneNumber: in.PhoneNumber,
		Address:     in.Address,
		City:        in.City,
		PostalCode:  in.PostalCode,
	}
	if err := u.users.Create(ctx, user); err != nil {
		return 0, err
	}
	return user.ID, nil
}

// GetByID はIDでユーザーを取得します。
func (u *userUsecase) GetByID(ctx context.Context, id uint) (*entity.User, error) {
	return u.users.FindByID(ctx, id)
}

// Login はユーザーを認証し、成功時にアクセストークンとユーザーを返します。
// タイミング攻撃を防止するため、ユーザーが存在しない場合でもbcrypt比較を実行します。
func (u *userUsecase) Login(ctx context.Context, email, password string) (string, *entity.User, error) {
	// メールアドレスでユーザーを検索
	user, err := u.users.FindByEmail(ctx, email)

	// ユーザーが存在しない場合のタイミング攻撃緩和用ダミーハッシュ
	// bcrypt.CompareHashAndPasswordが常に呼ばれることを保証する
	passwordHash := "$2a$10$N9qo8uLOickgx2ZMRZoMyeIjZAgcfl7p92ldGxad68LJZdL17lhWy" // ダミーハッシュ
	if err == nil {
		passwordHash = user.Password
	}

	// タイミング攻撃防止のため、常にパスワードを検証
	// 第1引数はハッシュ化パスワード、第2引数は平文パスワード
	compareErr := bcrypt.CompareHashAndPassword([]byte(passwordHash), []byte(password))

	// ユーザー未検出またはパスワード不一致の場合、汎用エラーを返す
	if err != nil || compareErr != nil {
		return "", nil, ErrInvalidCredentials
	}

	token, tokenErr := u.tokens.GenerateToken(user.ID, user.Email)
	if tokenErr != nil {
		return "", nil, fmt.Errorf("failed to generate token: %w", tokenErr)
	}

	return token, user, nil
}

// Update は指定されたフィールドだけを更新し、更新後の行を返します。
// 更新対象が空の場合は現在の行をそのまま返します（冪等な読み取り）。
// modified_atは更新のたびに必ず刷新されます。
func (u *userUsecase) Update(ctx context.Context, id uint, in UpdateInput) (*entity.User, error) {
	cols := map[string]any{}
	if in.FirstName != nil {
		cols["first_name"] = *in.FirstName
	}
	if in.LastName != nil {
		cols["last_name"] = *in.LastName
	}
	if in.Email != nil {
		cols["email"] = *in.Email
	}
	if in.Password != nil {
		if err := validatePassword(*in.Password); err != nil {
			return nil, err
		}
		hashed, err := bcrypt.GenerateFromPassword([]byte(*in.Password), bcrypt.DefaultCost)
		if err != nil {
			return nil, fmt.Errorf("failed to hash password: %w", err)
		}
		cols["password"] = string(hashed)
	}
	if in.PhoneNumber != nil {
		cols["phone_number"] = *in.PhoneNumber
	}
	if in.Address != nil {
		cols["address"] = *in.Address
	}
	if in.City != nil {
		cols["city"] = *in.City
	}
	if in.PostalCode != nil {
		cols["postal_code"] = *in.PostalCode
	}

	// 更新対象が無い場合は何も書き込まず現在の行を返す
	if len(cols) == 0 {
		return u.users.FindByID(ctx, id)
	}

	cols["modified_at"] = time.Now()

	if err := u.users.UpdateColumns(ctx, id, cols); err != nil {
		return nil, err
	}
	return u.users.FindByID(ctx, id)
}
