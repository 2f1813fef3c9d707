package cache

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/go-redis/redismock/v9"

	"shop_backend/internal/feature/catalog/domain/entity"
	"shop_backend/internal/feature/catalog/usecase"
)

// mockProductRepository はテスト用のProductRepositoryモック実装です。
type mockProductRepository struct {
	createFn        func(ctx context.Context, p *entity.Product) error
	findByIDFn      func(ctx context.Context, id uint) (*entity.Product, error)
	updateColumnsFn func(ctx context.Context, id uint, cols map[string]any) error
	listFn          func(ctx context.Context, q usecase.ListQuery) ([]entity.Product, error)
}

// Create はモックのCreate関数を呼び出します。
func (m *mockProductRepository) Create(ctx context.Context, p *entity.Product) error {
	if m.createFn != nil {
		return m.createFn(ctx, p)
	}
	return nil
}

// FindByID はモックのFindByID関数を呼び出します。
func (m *mockProductRepository) FindByID(ctx context.Context, id uint) (*entity.Product, error) {
	if m.findByIDFn != nil {
		return m.findByIDFn(ctx, id)
	}
	return nil, nil
}

// UpdateColumns はモックのUpdateColumns関数を呼び出します。
func (m *mockProductRepository) UpdateColumns(ctx context.Context, id uint, cols map[string]any) error {
	if m.updateColumnsFn != nil {
		return m.updateColumnsFn(ctx, id, cols)
	}
	return nil
}

// List はモックのList関数を呼び出します。
func (m *mockProductRepository) List(ctx context.Context, q usecase.ListQuery) ([]entity.Product, error) {
	if m.listFn != nil {
		return m.listFn(ctx, q)
	}
	return nil, nil
}

// TestNewCachingProductRepository_Defaults はデフォルト値（TTLとnamespace）が正しく設定されることを検証します。
func TestNewCachingProductRepository_Defaults(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name              string
		ttl               time.Duration
		namespace         string
		expectedTTL       time.Duration
		expectedNamespace string
	}{
		{
			name:              "default values when zero/empty",
			ttl:               0,
			namespace:         "",
			expectedTTL:       5 * time.Minute,
			expectedNamespace: "products",
		},
		{
			name:              "negative ttl uses default",
			ttl:               -1 * time.Minute,
			namespace:         "",
			expectedTTL:       5 * time.Minute,
			expectedNamespace: "products",
		},
		{
			name:              "custom values preserved",
			ttl:               10 * time.Minute,
			namespace:         "custom",
			expectedTTL:       10 * time.Minute,
			expectedNamespace: "custom",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			repo := NewCachingProductRepository(nil, tt.ttl, &mockProductRepository{}, tt.namespace)

			if repo.ttl != tt.expectedTTL {
				t.Errorf("expected TTL %v, got %v", tt.expectedTTL, repo.ttl)
			}
			if repo.namespace != tt.expectedNamespace {
				t.Errorf("expected namespace %q, got %q", tt.expectedNamespace, repo.namespace)
			}
		})
	}
}

// TestCachingProductRepository_FindByID_NilRedis はRedisがnilの場合にキャッシュをバイパスして内部リポジトリを直接呼び出すことを検証します。
func TestCachingProductRepository_FindByID_NilRedis(t *testing.T) {
	t.Parallel()

	expected := &entity.Product{ID: 1, ProductName: "Classic Skimboard", Price: "189.90"}

	inner := &mockProductRepository{
		findByIDFn: func(ctx context.Context, id uint) (*entity.Product, error) {
			return expected, nil
		},
	}

	// Redis is nil - should bypass cache and call inner directly
	repo := NewCachingProductRepository(nil, 5*time.Minute, inner, "products")

	p, err := repo.FindByID(context.Background(), 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.ProductName != expected.ProductName {
		t.Errorf("expected product %q, got %q", expected.ProductName, p.ProductName)
	}
}

// TestCachingProductRepository_FindByID_CacheHit はキャッシュヒット時にRedisからデータを返し、内部リポジトリを呼ばないことを検証します。
func TestCachingProductRepository_FindByID_CacheHit(t *testing.T) {
	t.Parallel()

	rdb, mock := redismock.NewClientMock()
	defer func() { _ = rdb.Close() }()

	cached := entity.Product{ID: 1, ProductName: "Classic Skimboard", Price: "189.90"}
	cachedJSON, _ := json.Marshal(cached)

	mock.ExpectGet("products:id:1").SetVal(string(cachedJSON))

	innerCalled := false
	inner := &mockProductRepository{
		findByIDFn: func(ctx context.Context, id uint) (*entity.Product, error) {
			innerCalled = true
			return nil, nil
		},
	}

	repo := NewCachingProductRepository(rdb, 5*time.Minute, inner, "products")
	p, err := repo.FindByID(context.Background(), 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if innerCalled {
		t.Error("inner repository should not be called on cache hit")
	}
	if p.ProductName != cached.ProductName {
		t.Errorf("expected product %q, got %q", cached.ProductName, p.ProductName)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unfulfilled mock expectations: %v", err)
	}
}

// TestCachingProductRepository_FindByID_CacheMiss はキャッシュミス時にDBからデータを取得し、キャッシュに保存することを検証します。
func TestCachingProductRepository_FindByID_CacheMiss(t *testing.T) {
	t.Parallel()

	rdb, mock := redismock.NewClientMock()
	defer func() { _ = rdb.Close() }()

	expected := &entity.Product{ID: 1, ProductName: "Classic Skimboard", Price: "189.90"}
	expectedJSON, _ := json.Marshal(expected)

	// Cache miss
	mock.ExpectGet("products:id:1").RedisNil()
	// Set cache after fetching from inner
	mock.ExpectSet("products:id:1", expectedJSON, 5*time.Minute).SetVal("OK")

	inner := &mockProductRepository{
		findByIDFn: func(ctx context.Context, id uint) (*entity.Product, error) {
			return expected, nil
		},
	}

	repo := NewCachingProductRepository(rdb, 5*time.Minute, inner, "products")
	p, err := repo.FindByID(context.Background(), 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.ID != expected.ID {
		t.Errorf("expected product ID %d, got %d", expected.ID, p.ID)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unfulfilled mock expectations: %v", err)
	}
}

// TestCachingProductRepository_FindByID_CorruptedCache は破損したキャッシュを検出・削除し、DBにフォールバックすることを検証します。
func TestCachingProductRepository_FindByID_CorruptedCache(t *testing.T) {
	t.Parallel()

	rdb, mock := redismock.NewClientMock()
	defer func() { _ = rdb.Close() }()

	expected := &entity.Product{ID: 1, ProductName: "Classic Skimboard"}
	expectedJSON, _ := json.Marshal(expected)

	// Return invalid JSON from cache
	mock.ExpectGet("products:id:1").SetVal("invalid json")
	// Delete corrupted cache
	mock.ExpectDel("products:id:1").SetVal(1)
	// Set new cache after fetching from inner
	mock.ExpectSet("products:id:1", expectedJSON, 5*time.Minute).SetVal("OK")

	inner := &mockProductRepository{
		findByIDFn: func(ctx context.Context, id uint) (*entity.Product, error) {
			return expected, nil
		},
	}

	repo := NewCachingProductRepository(rdb, 5*time.Minute, inner, "products")
	p, err := repo.FindByID(context.Background(), 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.ID != expected.ID {
		t.Errorf("expected product ID %d, got %d", expected.ID, p.ID)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unfulfilled mock expectations: %v", err)
	}
}

// TestCachingProductRepository_FindByID_InnerError は内部リポジトリがエラーを返した場合にそのエラーが伝播されることを検証します。
func TestCachingProductRepository_FindByID_InnerError(t *testing.T) {
	t.Parallel()

	rdb, mock := redismock.NewClientMock()
	defer func() { _ = rdb.Close() }()

	expectedErr := errors.New("database error")

	mock.ExpectGet("products:id:1").RedisNil()

	inner := &mockProductRepository{
		findByIDFn: func(ctx context.Context, id uint) (*entity.Product, error) {
			return nil, expectedErr
		},
	}

	repo := NewCachingProductRepository(rdb, 5*time.Minute, inner, "products")
	_, err := repo.FindByID(context.Background(), 1)

	if err == nil {
		t.Fatal("expected error, got nil")
	}
	if !errors.Is(err, expectedErr) {
		t.Errorf("expected error %v, got %v", expectedErr, err)
	}
}

// TestCachingProductRepository_List_CacheMiss は一覧のキャッシュミス時にDBから取得し、クエリごとのキーで保存することを検証します。
func TestCachingProductRepository_List_CacheMiss(t *testing.T) {
	t.Parallel()

	rdb, mock := redismock.NewClientMock()
	defer func() { _ = rdb.Close() }()

	expected := []entity.Product{
		{ID: 2, Category: "Boards", ProductName: "Pro Skimboard", Price: "249.00"},
		{ID: 1, Category: "Boards", ProductName: "Classic Skimboard", Price: "189.90"},
	}
	expectedJSON, _ := json.Marshal(expected)

	mock.ExpectGet("products:list:Boards:price:true:20:0").RedisNil()
	mock.ExpectSet("products:list:Boards:price:true:20:0", expectedJSON, 5*time.Minute).SetVal("OK")

	inner := &mockProductRepository{
		listFn: func(ctx context.Context, q usecase.ListQuery) ([]entity.Product, error) {
			return expected, nil
		},
	}

	repo := NewCachingProductRepository(rdb, 5*time.Minute, inner, "products")
	rows, err := repo.List(context.Background(), usecase.ListQuery{
		Category: "Boards", OrderBy: "price", Desc: true, Limit: 20,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(rows) != 2 {
		t.Errorf("expected 2 products, got %d", len(rows))
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unfulfilled mock expectations: %v", err)
	}
}

// TestCachingProductRepository_Create_CacheInvalidation はCreate後に一覧キャッシュが無効化されることを検証します。
func TestCachingProductRepository_Create_CacheInvalidation(t *testing.T) {
	t.Parallel()

	rdb, mock := redismock.NewClientMock()
	defer func() { _ = rdb.Close() }()

	inner := &mockProductRepository{
		createFn: func(ctx context.Context, p *entity.Product) error {
			p.ID = 3
			return nil
		},
	}

	// Expect list cache invalidation via SCAN and DEL
	mock.ExpectScan(0, "products:list:*", 200).SetVal([]string{"products:list:Boards:id:false:0:0"}, 0)
	mock.ExpectDel("products:list:Boards:id:false:0:0").SetVal(1)

	repo := NewCachingProductRepository(rdb, 5*time.Minute, inner, "products")
	p := &entity.Product{Category: "Boards", ProductName: "Pro Skimboard"}
	if err := repo.Create(context.Background(), p); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.ID != 3 {
		t.Errorf("expected generated ID 3, got %d", p.ID)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unfulfilled mock expectations: %v", err)
	}
}

// TestCachingProductRepository_UpdateColumns_CacheInvalidation はUpdateColumns後にID別キーと一覧キャッシュの両方が無効化されることを検証します。
func TestCachingProductRepository_UpdateColumns_CacheInvalidation(t *testing.T) {
	t.Parallel()

	rdb, mock := redismock.NewClientMock()
	defer func() { _ = rdb.Close() }()

	inner := &mockProductRepository{
		updateColumnsFn: func(ctx context.Context, id uint, cols map[string]any) error {
			return nil
		},
	}

	mock.ExpectDel("products:id:1").SetVal(1)
	mock.ExpectScan(0, "products:list:*", 200).SetVal([]string{}, 0)

	repo := NewCachingProductRepository(rdb, 5*time.Minute, inner, "products")
	err := repo.UpdateColumns(context.Background(), 1, map[string]any{"quantity": 5})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unfulfilled mock expectations: %v", err)
	}
}

// TestCachingProductRepository_UpdateColumns_InnerError は内部リポジトリのエラー時にキャッシュが無効化されないことを検証します。
func TestCachingProductRepository_UpdateColumns_InnerError(t *testing.T) {
	t.Parallel()

	rdb, mock := redismock.NewClientMock()
	defer func() { _ = rdb.Close() }()

	expectedErr := errors.New("update error")
	inner := &mockProductRepository{
		updateColumnsFn: func(ctx context.Context, id uint, cols map[string]any) error {
			return expectedErr
		},
	}

	// No Redis expectations: the cache must stay untouched on failure
	repo := NewCachingProductRepository(rdb, 5*time.Minute, inner, "products")
	err := repo.UpdateColumns(context.Background(), 1, map[string]any{"quantity": 5})

	if !errors.Is(err, expectedErr) {
		t.Errorf("expected error %v, got %v", expectedErr, err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unfulfilled mock expectations: %v", err)
	}
}

// TestSafe はsafe関数がRedisキーで問題となる文字を正しくエスケープすることを検証します。
func TestSafe(t *testing.T) {
	t.Parallel()

	tests := []struct {
		input    string
		expected string
	}{
		{"Boards", "Boards"},
		{"Body Boards", "Body_Boards"},
		{"key:value", "key_value"},
		{"a b:c", "a_b_c"},
		{"", ""},
		{"  ", "__"},
		{"::", "__"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			t.Parallel()

			result := safe(tt.input)
			if result != tt.expected {
				t.Errorf("safe(%q) = %q, expected %q", tt.input, result, tt.expected)
			}
		})
	}
}
