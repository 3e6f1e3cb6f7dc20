package repository_test

import (
	"context"
	"path/filepath"
	"sync"
	"testing"

	"app/internal/domain/model"
	infra "app/internal/infra/repository"
	repo "app/internal/repository"
	"app/internal/usecase"

	"github.com/glebarez/sqlite"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// インメモリSQLiteでDB込みの動きを確認する
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(
		&model.User{},
		&model.Category{},
		&model.Rarity{},
		&model.Tag{},
		&model.Item{},
		&model.ItemTag{},
		&model.CartItem{},
		&model.Order{},
		&model.OrderItem{},
		&model.InventoryAdjustment{},
		&model.AuditLog{},
	))

	return db
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func seedItem(t *testing.T, db *gorm.DB, name string, slug string, price string, stock int64) model.Item {
	t.Helper()

	category := model.Category{Title: "cat-" + slug, Slug: "cat-" + slug}
	require.NoError(t, db.Create(&category).Error)

	item := model.Item{
		CategoryID: category.ID,
		Name:       name,
		Slug:       slug,
		Price:      dec(price),
		StockQty:   stock,
	}
	require.NoError(t, db.Create(&item).Error)
	return item
}

func stockOf(t *testing.T, db *gorm.DB, itemID int64) int64 {
	t.Helper()

	var it model.Item
	require.NoError(t, db.First(&it, itemID).Error)
	return it.StockQty
}

// =====================
// 条件付き在庫減算
// =====================

func TestDecreaseStockIfEnough(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	inv := infra.NewInventoryGormRepository(db)

	item := seedItem(t, db, "Charizard", "charizard", "350.00", 3)

	ok, err := inv.DecreaseStockIfEnough(ctx, item.ID, 2)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, int64(1), stockOf(t, db, item.ID))

	// 残り1で2個は引けない。在庫は変わらない
	ok, err = inv.DecreaseStockIfEnough(ctx, item.ID, 2)
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Equal(t, int64(1), stockOf(t, db, item.ID))

	// ちょうど残り全部は引ける
	ok, err = inv.DecreaseStockIfEnough(ctx, item.ID, 1)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, int64(0), stockOf(t, db, item.ID))
}

// 最後の1個を同時に取り合ったとき、勝つのはちょうど1人
func TestDecreaseStockIfEnough_ConcurrentLastUnit(t *testing.T) {
	// 同時書き込みを起こすためファイルDBを使う（:memory:は接続ごとに別DBになる）
	dsn := filepath.Join(t.TempDir(), "race.db") + "?_pragma=busy_timeout(5000)"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&model.Category{}, &model.Item{}))

	ctx := context.Background()
	inv := infra.NewInventoryGormRepository(db)

	item := seedItem(t, db, "Charizard", "charizard", "350.00", 1)

	type attempt struct {
		ok  bool
		err error
	}

	results := make(chan attempt, 2)
	var wg sync.WaitGroup
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			ok, err := inv.DecreaseStockIfEnough(ctx, item.ID, 1)
			results <- attempt{ok: ok, err: err}
		}()
	}
	wg.Wait()
	close(results)

	wins := 0
	for a := range results {
		require.NoError(t, a.err)
		if a.ok {
			wins++
		}
	}
	assert.Equal(t, 1, wins)
	assert.Equal(t, int64(0), stockOf(t, db, item.ID))
}

// =====================
// チェックアウト一式
// =====================

func TestPlaceOrder_EndToEnd(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	pikachu := seedItem(t, db, "Pikachu", "pikachu", "10.50", 20)
	eevee := seedItem(t, db, "Eevee", "eevee", "4.50", 5)

	cart := infra.NewCartGormRepository(db)
	require.NoError(t, cart.Upsert(ctx, 1, pikachu.ID, 2))
	require.NoError(t, cart.Upsert(ctx, 1, eevee.ID, 1))

	uc := usecase.NewOrderUsecase(infra.NewTxManagerGorm(db))

	out, err := uc.PlaceOrder(ctx, 1)
	require.NoError(t, err)

	// 2×10.50 + 1×4.50 = 25.50
	assert.True(t, out.TotalPrice.Equal(dec("25.50")), "total = %s", out.TotalPrice)
	assert.Equal(t, "pending", out.Status)
	assert.NotEmpty(t, out.PublicID)

	// 在庫が減っている
	assert.Equal(t, int64(18), stockOf(t, db, pikachu.ID))
	assert.Equal(t, int64(4), stockOf(t, db, eevee.ID))

	// カートが空になっている
	lines, err := cart.ListByUserID(ctx, 1)
	require.NoError(t, err)
	assert.Empty(t, lines)

	// 明細に確定時単価が残っている
	orderItems := infra.NewOrderItemGormRepository(db)
	items, err := orderItems.ListByOrderID(ctx, out.ID)
	require.NoError(t, err)
	require.Len(t, items, 2)
}

func TestPlaceOrder_InsufficientStockRollsBackEverything(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	pikachu := seedItem(t, db, "Pikachu", "pikachu", "10.50", 20)
	charizard := seedItem(t, db, "Charizard", "charizard", "350.00", 1)

	cart := infra.NewCartGormRepository(db)
	require.NoError(t, cart.Upsert(ctx, 1, pikachu.ID, 2))
	require.NoError(t, cart.Upsert(ctx, 1, charizard.ID, 3))

	uc := usecase.NewOrderUsecase(infra.NewTxManagerGorm(db))

	_, err := uc.PlaceOrder(ctx, 1)
	he, ok := usecase.AsHTTPError(err)
	require.True(t, ok)
	assert.Equal(t, usecase.CodeInsufficientStock, he.Code)

	// 注文は1件も作られていない
	var orderCount int64
	require.NoError(t, db.Model(&model.Order{}).Count(&orderCount).Error)
	assert.Equal(t, int64(0), orderCount)

	// 在庫もカートもそのまま
	assert.Equal(t, int64(20), stockOf(t, db, pikachu.ID))
	assert.Equal(t, int64(1), stockOf(t, db, charizard.ID))

	lines, err := cart.ListByUserID(ctx, 1)
	require.NoError(t, err)
	assert.Len(t, lines, 2)
}

func TestPlaceOrder_EmptyCart(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	uc := usecase.NewOrderUsecase(infra.NewTxManagerGorm(db))

	_, err := uc.PlaceOrder(ctx, 1)
	he, ok := usecase.AsHTTPError(err)
	require.True(t, ok)
	assert.Equal(t, usecase.CodeCartEmpty, he.Code)
}

func TestAdminCancelOrder_RestocksInventory(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	pikachu := seedItem(t, db, "Pikachu", "pikachu", "10.50", 20)

	cart := infra.NewCartGormRepository(db)
	require.NoError(t, cart.Upsert(ctx, 1, pikachu.ID, 2))

	tx := infra.NewTxManagerGorm(db)
	orderUC := usecase.NewOrderUsecase(tx)

	out, err := orderUC.PlaceOrder(ctx, 1)
	require.NoError(t, err)
	require.Equal(t, int64(18), stockOf(t, db, pikachu.ID))

	adminUC := usecase.NewAdminOrderUsecase(tx, infra.NewAuditLogGormRepository(db))

	cancelled, err := adminUC.UpdateStatus(ctx, 9, out.ID, usecase.UpdateOrderStatusInput{Status: "cancelled"})
	require.NoError(t, err)
	assert.Equal(t, "cancelled", cancelled.Status)

	// 在庫が戻っている
	assert.Equal(t, int64(20), stockOf(t, db, pikachu.ID))

	// 監査ログが残っている
	var logCount int64
	require.NoError(t, db.Model(&model.AuditLog{}).Count(&logCount).Error)
	assert.Equal(t, int64(1), logCount)

	// 終端からは動かせない
	_, err = adminUC.UpdateStatus(ctx, 9, out.ID, usecase.UpdateOrderStatusInput{Status: "pending"})
	he, ok := usecase.AsHTTPError(err)
	require.True(t, ok)
	assert.Equal(t, 409, he.Status)
}

// =====================
// カートUpsert
// =====================

func TestCartUpsert_AccumulatesSameItem(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	item := seedItem(t, db, "Pikachu", "pikachu", "10.50", 20)
	cart := infra.NewCartGormRepository(db)

	require.NoError(t, cart.Upsert(ctx, 1, item.ID, 2))
	require.NoError(t, cart.Upsert(ctx, 1, item.ID, 3))

	lines, err := cart.ListByUserID(ctx, 1)
	require.NoError(t, err)
	require.Len(t, lines, 1)
	assert.Equal(t, int64(5), lines[0].Quantity)

	// 別ユーザーのカートには影響しない
	other, err := cart.ListByUserID(ctx, 2)
	require.NoError(t, err)
	assert.Empty(t, other)
}

// =====================
// 一意制約の変換
// =====================

func TestItemCreate_DuplicateSlug(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	seedItem(t, db, "Charizard", "charizard", "350.00", 3)

	items := infra.NewItemGormRepository(db)

	var category model.Category
	require.NoError(t, db.First(&category).Error)

	_, err := items.Create(ctx, model.Item{
		CategoryID: category.ID,
		Name:       "Another Charizard",
		Slug:       "charizard",
		Price:      dec("1.00"),
	})
	assert.ErrorIs(t, err, repo.ErrDuplicate)
}
