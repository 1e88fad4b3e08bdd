package cache

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/go-redis/redismock/v9"

	"arb_backend/internal/feature/history/domain/entity"
)

// mockSpreadRepository はテスト用のSpreadRepositoryモック実装です。
type mockSpreadRepository struct {
	findByDateRouteFn func(ctx context.Context, date time.Time, route string) (entity.DailySpreadRecord, error)
	saveFn            func(ctx context.Context, rec entity.DailySpreadRecord) error
	findRangeFn       func(ctx context.Context, from, to time.Time) ([]entity.DailySpreadRecord, error)
}

// FindByDateRoute はモックのFindByDateRoute関数を呼び出します。
func (m *mockSpreadRepository) FindByDateRoute(ctx context.Context, date time.Time, route string) (entity.DailySpreadRecord, error) {
	if m.findByDateRouteFn != nil {
		return m.findByDateRouteFn(ctx, date, route)
	}
	return entity.DailySpreadRecord{}, nil
}

// Save はモックのSave関数を呼び出します。
func (m *mockSpreadRepository) Save(ctx context.Context, rec entity.DailySpreadRecord) error {
	if m.saveFn != nil {
		return m.saveFn(ctx, rec)
	}
	return nil
}

// FindRange はモックのFindRange関数を呼び出します。
func (m *mockSpreadRepository) FindRange(ctx context.Context, from, to time.Time) ([]entity.DailySpreadRecord, error) {
	if m.findRangeFn != nil {
		return m.findRangeFn(ctx, from, to)
	}
	return nil, nil
}

var (
	testFrom = time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	testTo   = time.Date(2026, 3, 7, 0, 0, 0, 0, time.UTC)
)

const testRangeKey = "spreads:range:2026-03-01:2026-03-07"

func testRecords() []entity.DailySpreadRecord {
	return []entity.DailySpreadRecord{
		{
			Date:          testFrom,
			Route:         "Binance → VALR",
			BuyExchange:   "Binance",
			SellExchange:  "VALR",
			HighestSpread: 2.0,
			LowestSpread:  1.0,
			AverageSpread: 1.5,
			DataPoints:    5,
		},
	}
}

// TestNewCachingSpreadRepository_Defaults はデフォルト値（TTLとnamespace）が正しく設定されることを検証します。
func TestNewCachingSpreadRepository_Defaults(t *testing.T) {
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
			expectedTTL:       time.Minute,
			expectedNamespace: "spreads",
		},
		{
			name:              "negative ttl uses default",
			ttl:               -1 * time.Minute,
			namespace:         "",
			expectedTTL:       time.Minute,
			expectedNamespace: "spreads",
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

			repo := NewCachingSpreadRepository(nil, tt.ttl, &mockSpreadRepository{}, tt.namespace)

			if repo.ttl != tt.expectedTTL {
				t.Errorf("expected TTL %v, got %v", tt.expectedTTL, repo.ttl)
			}
			if repo.namespace != tt.expectedNamespace {
				t.Errorf("expected namespace %q, got %q", tt.expectedNamespace, repo.namespace)
			}
		})
	}
}

// TestCachingSpreadRepository_FindRange_NilRedis はRedisがnilの場合にキャッシュをバイパスして内部リポジトリを直接呼び出すことを検証します。
func TestCachingSpreadRepository_FindRange_NilRedis(t *testing.T) {
	t.Parallel()

	inner := &mockSpreadRepository{
		findRangeFn: func(ctx context.Context, from, to time.Time) ([]entity.DailySpreadRecord, error) {
			return testRecords(), nil
		},
	}

	repo := NewCachingSpreadRepository(nil, time.Minute, inner, "spreads")

	recs, err := repo.FindRange(context.Background(), testFrom, testTo)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(recs) != 1 {
		t.Errorf("expected 1 record, got %d", len(recs))
	}
}

// TestCachingSpreadRepository_FindRange_CacheHit はキャッシュヒット時にRedisからデータを返し、内部リポジトリを呼ばないことを検証します。
func TestCachingSpreadRepository_FindRange_CacheHit(t *testing.T) {
	t.Parallel()

	rdb, mock := redismock.NewClientMock()
	defer func() { _ = rdb.Close() }()

	cachedJSON, _ := json.Marshal(testRecords())
	mock.ExpectGet(testRangeKey).SetVal(string(cachedJSON))

	innerCalled := false
	inner := &mockSpreadRepository{
		findRangeFn: func(ctx context.Context, from, to time.Time) ([]entity.DailySpreadRecord, error) {
			innerCalled = true
			return nil, nil
		},
	}

	repo := NewCachingSpreadRepository(rdb, time.Minute, inner, "spreads")
	recs, err := repo.FindRange(context.Background(), testFrom, testTo)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if innerCalled {
		t.Error("inner repository should not be called on cache hit")
	}
	if len(recs) != 1 {
		t.Errorf("expected 1 record, got %d", len(recs))
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unfulfilled mock expectations: %v", err)
	}
}

// TestCachingSpreadRepository_FindRange_CacheMiss はキャッシュミス時にDBからデータを取得し、キャッシュに保存することを検証します。
func TestCachingSpreadRepository_FindRange_CacheMiss(t *testing.T) {
	t.Parallel()

	rdb, mock := redismock.NewClientMock()
	defer func() { _ = rdb.Close() }()

	expectedJSON, _ := json.Marshal(testRecords())

	mock.ExpectGet(testRangeKey).RedisNil()
	mock.ExpectSet(testRangeKey, expectedJSON, time.Minute).SetVal("OK")

	inner := &mockSpreadRepository{
		findRangeFn: func(ctx context.Context, from, to time.Time) ([]entity.DailySpreadRecord, error) {
			return testRecords(), nil
		},
	}

	repo := NewCachingSpreadRepository(rdb, time.Minute, inner, "spreads")
	recs, err := repo.FindRange(context.Background(), testFrom, testTo)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(recs) != 1 {
		t.Errorf("expected 1 record, got %d", len(recs))
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unfulfilled mock expectations: %v", err)
	}
}

// TestCachingSpreadRepository_FindRange_InnerError は内部リポジトリがエラーを返した場合にそのエラーが伝播されることを検証します。
func TestCachingSpreadRepository_FindRange_InnerError(t *testing.T) {
	t.Parallel()

	rdb, mock := redismock.NewClientMock()
	defer func() { _ = rdb.Close() }()

	expectedErr := errors.New("database error")

	mock.ExpectGet(testRangeKey).RedisNil()

	inner := &mockSpreadRepository{
		findRangeFn: func(ctx context.Context, from, to time.Time) ([]entity.DailySpreadRecord, error) {
			return nil, expectedErr
		},
	}

	repo := NewCachingSpreadRepository(rdb, time.Minute, inner, "spreads")
	_, err := repo.FindRange(context.Background(), testFrom, testTo)

	if err == nil {
		t.Fatal("expected error, got nil")
	}
	if !errors.Is(err, expectedErr) {
		t.Errorf("expected error %v, got %v", expectedErr, err)
	}
}

// TestCachingSpreadRepository_FindRange_CorruptedCache は破損したキャッシュを検出・削除し、DBにフォールバックすることを検証します。
func TestCachingSpreadRepository_FindRange_CorruptedCache(t *testing.T) {
	t.Parallel()

	rdb, mock := redismock.NewClientMock()
	defer func() { _ = rdb.Close() }()

	expectedJSON, _ := json.Marshal(testRecords())

	mock.ExpectGet(testRangeKey).SetVal("invalid json")
	mock.ExpectDel(testRangeKey).SetVal(1)
	mock.ExpectSet(testRangeKey, expectedJSON, time.Minute).SetVal("OK")

	inner := &mockSpreadRepository{
		findRangeFn: func(ctx context.Context, from, to time.Time) ([]entity.DailySpreadRecord, error) {
			return testRecords(), nil
		},
	}

	repo := NewCachingSpreadRepository(rdb, time.Minute, inner, "spreads")
	recs, err := repo.FindRange(context.Background(), testFrom, testTo)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(recs) != 1 {
		t.Errorf("expected 1 record, got %d", len(recs))
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unfulfilled mock expectations: %v", err)
	}
}

// TestCachingSpreadRepository_Save_InvalidatesRangeCache はSave成功後に範囲キャッシュが無効化されることを検証します。
func TestCachingSpreadRepository_Save_InvalidatesRangeCache(t *testing.T) {
	t.Parallel()

	rdb, mock := redismock.NewClientMock()
	defer func() { _ = rdb.Close() }()

	mock.ExpectScan(0, "spreads:range:*", 200).SetVal([]string{testRangeKey}, 0)
	mock.ExpectDel(testRangeKey).SetVal(1)

	saved := false
	inner := &mockSpreadRepository{
		saveFn: func(ctx context.Context, rec entity.DailySpreadRecord) error {
			saved = true
			return nil
		},
	}

	repo := NewCachingSpreadRepository(rdb, time.Minute, inner, "spreads")
	err := repo.Save(context.Background(), testRecords()[0])
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !saved {
		t.Error("inner repository Save should be called")
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unfulfilled mock expectations: %v", err)
	}
}

// TestCachingSpreadRepository_Save_InnerError は内部Saveの失敗時にキャッシュ無効化を行わずエラーを返すことを検証します。
func TestCachingSpreadRepository_Save_InnerError(t *testing.T) {
	t.Parallel()

	rdb, mock := redismock.NewClientMock()
	defer func() { _ = rdb.Close() }()

	expectedErr := errors.New("constraint violation")
	inner := &mockSpreadRepository{
		saveFn: func(ctx context.Context, rec entity.DailySpreadRecord) error {
			return expectedErr
		},
	}

	repo := NewCachingSpreadRepository(rdb, time.Minute, inner, "spreads")
	err := repo.Save(context.Background(), testRecords()[0])
	if !errors.Is(err, expectedErr) {
		t.Errorf("expected error %v, got %v", expectedErr, err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unfulfilled mock expectations: %v", err)
	}
}

// TestCachingSpreadRepository_FindByDateRoute_Passthrough はFindByDateRouteが常に内部リポジトリへ素通しされることを検証します。
func TestCachingSpreadRepository_FindByDateRoute_Passthrough(t *testing.T) {
	t.Parallel()

	rdb, mock := redismock.NewClientMock()
	defer func() { _ = rdb.Close() }()

	expected := testRecords()[0]
	inner := &mockSpreadRepository{
		findByDateRouteFn: func(ctx context.Context, date time.Time, route string) (entity.DailySpreadRecord, error) {
			return expected, nil
		},
	}

	repo := NewCachingSpreadRepository(rdb, time.Minute, inner, "spreads")
	rec, err := repo.FindByDateRoute(context.Background(), testFrom, "Binance → VALR")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Route != expected.Route {
		t.Errorf("expected route %q, got %q", expected.Route, rec.Route)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unfulfilled mock expectations: %v", err)
	}
}
