package usecase_test

import (
	"app/internal/domain/model"
	repo "app/internal/repository"
	"app/internal/usecase"
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

// =====================
// TxManager / TxRepos mocks
// =====================

// OrderTxManagerMock は WithinTx の中で渡す repos を固定して unit テストを回す
type OrderTxManagerMock struct {
	mock.Mock
	Repos repo.TxRepos
}

func (m *OrderTxManagerMock) WithinTx(ctx context.Context, fn func(r repo.TxRepos) error) error {
	// 呼ばれた事実だけ記録（ctxの具体値は問わない）
	m.Called(ctx)
	return fn(m.Repos)
}

type OrderTxReposMock struct {
	orders     repo.OrderRepository
	orderItems repo.OrderItemRepository
	cart       repo.CartRepository
	items      repo.ItemRepository
	inventory  repo.InventoryRepository
}

func (r *OrderTxReposMock) Orders() repo.OrderRepository         { return r.orders }
func (r *OrderTxReposMock) OrderItems() repo.OrderItemRepository { return r.orderItems }
func (r *OrderTxReposMock) Cart() repo.CartRepository            { return r.cart }
func (r *OrderTxReposMock) Items() repo.ItemRepository           { return r.items }
func (r *OrderTxReposMock) Inventory() repo.InventoryRepository  { return r.inventory }

// =====================
// Repository mocks（衝突回避の命名）
// =====================

type OrderRepoMock struct{ mock.Mock }

func (m *OrderRepoMock) FindByID(ctx context.Context, orderID int64) (model.Order, error) {
	args := m.Called(ctx, orderID)
	o, _ := args.Get(0).(model.Order)
	return o, args.Error(1)
}

func (m *OrderRepoMock) ListByUserID(ctx context.Context, userID int64, page int, limit int) ([]model.Order, int64, error) {
	args := m.Called(ctx, userID, page, limit)
	os, _ := args.Get(0).([]model.Order)
	return os, args.Get(1).(int64), args.Error(2)
}

func (m *OrderRepoMock) Create(ctx context.Context, order model.Order) (int64, error) {
	args := m.Called(ctx, order)
	return args.Get(0).(int64), args.Error(1)
}

func (m *OrderRepoMock) UpdateStatus(ctx context.Context, orderID int64, status model.OrderStatus) error {
	args := m.Called(ctx, orderID, status)
	return args.Error(0)
}

func (m *OrderRepoMock) ListAdmin(ctx context.Context, f repo.AdminOrderListFilter) ([]model.Order, int64, error) {
	panic("not used in OrderUsecase tests")
}

func (m *OrderRepoMock) Count(ctx context.Context) (int64, error) {
	panic("not used in OrderUsecase tests")
}

func (m *OrderRepoMock) CountByStatus(ctx context.Context, status model.OrderStatus) (int64, error) {
	panic("not used in OrderUsecase tests")
}

func (m *OrderRepoMock) SumTotalByStatus(ctx context.Context, status model.OrderStatus) (decimal.Decimal, error) {
	panic("not used in OrderUsecase tests")
}

func (m *OrderRepoMock) ListRecent(ctx context.Context, limit int) ([]model.Order, error) {
	panic("not used in OrderUsecase tests")
}

type OrderItemRepoMock struct{ mock.Mock }

func (m *OrderItemRepoMock) CreateBulk(ctx context.Context, orderID int64, items []model.OrderItem) error {
	args := m.Called(ctx, orderID, items)
	return args.Error(0)
}

func (m *OrderItemRepoMock) ListByOrderID(ctx context.Context, orderID int64) ([]model.OrderItem, error) {
	args := m.Called(ctx, orderID)
	items, _ := args.Get(0).([]model.OrderItem)
	return items, args.Error(1)
}

type OrderCartRepoMock struct{ mock.Mock }

func (m *OrderCartRepoMock) ListByUserID(ctx context.Context, userID int64) ([]model.CartItem, error) {
	args := m.Called(ctx, userID)
	lines, _ := args.Get(0).([]model.CartItem)
	return lines, args.Error(1)
}

func (m *OrderCartRepoMock) FindByID(ctx context.Context, cartItemID int64) (model.CartItem, error) {
	panic("not used in OrderUsecase tests")
}

func (m *OrderCartRepoMock) FindByUserAndItem(ctx context.Context, userID int64, itemID int64) (model.CartItem, error) {
	panic("not used in OrderUsecase tests")
}

func (m *OrderCartRepoMock) Upsert(ctx context.Context, userID int64, itemID int64, addQty int64) error {
	panic("not used in OrderUsecase tests")
}

func (m *OrderCartRepoMock) UpdateQuantity(ctx context.Context, cartItemID int64, qty int64) error {
	panic("not used in OrderUsecase tests")
}

func (m *OrderCartRepoMock) DeleteByID(ctx context.Context, cartItemID int64) error {
	panic("not used in OrderUsecase tests")
}

func (m *OrderCartRepoMock) DeleteByUserID(ctx context.Context, userID int64) error {
	args := m.Called(ctx, userID)
	return args.Error(0)
}

type OrderItemCatalogRepoMock struct{ mock.Mock }

func (m *OrderItemCatalogRepoMock) FindByIDs(ctx context.Context, ids []int64) ([]model.Item, error) {
	args := m.Called(ctx, ids)
	items, _ := args.Get(0).([]model.Item)
	return items, args.Error(1)
}

func (m *OrderItemCatalogRepoMock) List(ctx context.Context, q repo.ItemListQuery) ([]model.Item, int64, error) {
	panic("not used in OrderUsecase tests")
}

func (m *OrderItemCatalogRepoMock) FindByID(ctx context.Context, id int64) (model.Item, error) {
	panic("not used in OrderUsecase tests")
}

func (m *OrderItemCatalogRepoMock) FindBySlug(ctx context.Context, slug string) (model.Item, error) {
	panic("not used in OrderUsecase tests")
}

func (m *OrderItemCatalogRepoMock) Create(ctx context.Context, item model.Item) (model.Item, error) {
	panic("not used in OrderUsecase tests")
}

func (m *OrderItemCatalogRepoMock) UpdateFields(ctx context.Context, id int64, fields map[string]interface{}) error {
	panic("not used in OrderUsecase tests")
}

func (m *OrderItemCatalogRepoMock) Delete(ctx context.Context, id int64) error {
	panic("not used in OrderUsecase tests")
}

func (m *OrderItemCatalogRepoMock) CountByCategory(ctx context.Context, categoryID int64) (int64, error) {
	panic("not used in OrderUsecase tests")
}

func (m *OrderItemCatalogRepoMock) ReplaceTags(ctx context.Context, itemID int64, tagIDs []int64) error {
	panic("not used in OrderUsecase tests")
}

func (m *OrderItemCatalogRepoMock) ListTagIDs(ctx context.Context, itemID int64) ([]int64, error) {
	panic("not used in OrderUsecase tests")
}

func (m *OrderItemCatalogRepoMock) Count(ctx context.Context) (int64, error) {
	panic("not used in OrderUsecase tests")
}

func (m *OrderItemCatalogRepoMock) CountOutOfStock(ctx context.Context) (int64, error) {
	panic("not used in OrderUsecase tests")
}

func (m *OrderItemCatalogRepoMock) CountLowStock(ctx context.Context, threshold int64) (int64, error) {
	panic("not used in OrderUsecase tests")
}

type OrderInventoryRepoMock struct{ mock.Mock }

func (m *OrderInventoryRepoMock) SetStock(ctx context.Context, itemID int64, newStock int64) error {
	panic("not used in OrderUsecase tests")
}

func (m *OrderInventoryRepoMock) DecreaseStockIfEnough(ctx context.Context, itemID int64, qty int64) (bool, error) {
	args := m.Called(ctx, itemID, qty)
	return args.Bool(0), args.Error(1)
}

func (m *OrderInventoryRepoMock) IncreaseStock(ctx context.Context, itemID int64, qty int64) error {
	args := m.Called(ctx, itemID, qty)
	return args.Error(0)
}

func (m *OrderInventoryRepoMock) CreateAdjustment(ctx context.Context, adjustment model.InventoryAdjustment) error {
	panic("not used in OrderUsecase tests")
}

// =====================
// helpers
// =====================

type orderTestDeps struct {
	tx        *OrderTxManagerMock
	orders    *OrderRepoMock
	items     *OrderItemRepoMock
	cart      *OrderCartRepoMock
	catalog   *OrderItemCatalogRepoMock
	inventory *OrderInventoryRepoMock
	uc        *usecase.OrderUsecase
}

func newOrderTestDeps() *orderTestDeps {
	d := &orderTestDeps{
		orders:    &OrderRepoMock{},
		items:     &OrderItemRepoMock{},
		cart:      &OrderCartRepoMock{},
		catalog:   &OrderItemCatalogRepoMock{},
		inventory: &OrderInventoryRepoMock{},
	}
	d.tx = &OrderTxManagerMock{
		Repos: &OrderTxReposMock{
			orders:     d.orders,
			orderItems: d.items,
			cart:       d.cart,
			items:      d.catalog,
			inventory:  d.inventory,
		},
	}
	d.uc = usecase.NewOrderUsecase(d.tx)
	return d
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

// =====================
// PlaceOrder
// =====================

func TestPlaceOrder_EmptyCart(t *testing.T) {
	d := newOrderTestDeps()
	ctx := context.Background()

	d.tx.On("WithinTx", mock.Anything).Return(nil)
	d.cart.On("ListByUserID", mock.Anything, int64(1)).Return([]model.CartItem{}, nil)

	_, err := d.uc.PlaceOrder(ctx, 1)

	he, ok := usecase.AsHTTPError(err)
	assert.True(t, ok)
	assert.Equal(t, http.StatusBadRequest, he.Status)
	assert.Equal(t, usecase.CodeCartEmpty, he.Code)

	// 何も書かれていない
	d.orders.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestPlaceOrder_ItemRemovedFromCatalog(t *testing.T) {
	d := newOrderTestDeps()
	ctx := context.Background()

	d.tx.On("WithinTx", mock.Anything).Return(nil)
	d.cart.On("ListByUserID", mock.Anything, int64(1)).Return([]model.CartItem{
		{ID: 10, UserID: 1, ItemID: 100, Quantity: 1},
	}, nil)

	// 商品が削除済みでcatalogが空を返す
	d.catalog.On("FindByIDs", mock.Anything, []int64{100}).Return([]model.Item{}, nil)

	_, err := d.uc.PlaceOrder(ctx, 1)

	he, ok := usecase.AsHTTPError(err)
	assert.True(t, ok)
	assert.Equal(t, http.StatusBadRequest, he.Status)
	assert.Equal(t, usecase.CodeItemNotFound, he.Code)

	d.orders.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestPlaceOrder_InsufficientStock(t *testing.T) {
	d := newOrderTestDeps()
	ctx := context.Background()

	d.tx.On("WithinTx", mock.Anything).Return(nil)
	d.cart.On("ListByUserID", mock.Anything, int64(1)).Return([]model.CartItem{
		{ID: 10, UserID: 1, ItemID: 100, Quantity: 5},
	}, nil)
	d.catalog.On("FindByIDs", mock.Anything, []int64{100}).Return([]model.Item{
		{ID: 100, Name: "Charizard", Price: dec("350.00"), StockQty: 3},
	}, nil)

	_, err := d.uc.PlaceOrder(ctx, 1)

	he, ok := usecase.AsHTTPError(err)
	assert.True(t, ok)
	assert.Equal(t, http.StatusBadRequest, he.Status)
	assert.Equal(t, usecase.CodeInsufficientStock, he.Code)

	// 在庫検証で止まるので注文も在庫減算もない
	d.orders.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	d.inventory.AssertNotCalled(t, "DecreaseStockIfEnough", mock.Anything, mock.Anything, mock.Anything)
}

func TestPlaceOrder_StockRaceLost(t *testing.T) {
	d := newOrderTestDeps()
	ctx := context.Background()

	d.tx.On("WithinTx", mock.Anything).Return(nil)
	d.cart.On("ListByUserID", mock.Anything, int64(1)).Return([]model.CartItem{
		{ID: 10, UserID: 1, ItemID: 100, Quantity: 2},
	}, nil)
	d.catalog.On("FindByIDs", mock.Anything, []int64{100}).Return([]model.Item{
		{ID: 100, Name: "Charizard", Price: dec("350.00"), StockQty: 2},
	}, nil)

	d.orders.On("Create", mock.Anything, mock.Anything).Return(int64(55), nil)
	d.items.On("CreateBulk", mock.Anything, int64(55), mock.Anything).Return(nil)

	// 検証時点では在庫があったが、減算時に別の注文に取られた
	d.inventory.On("DecreaseStockIfEnough", mock.Anything, int64(100), int64(2)).Return(false, nil)

	_, err := d.uc.PlaceOrder(ctx, 1)

	he, ok := usecase.AsHTTPError(err)
	assert.True(t, ok)
	assert.Equal(t, http.StatusBadRequest, he.Status)
	assert.Equal(t, usecase.CodeStockRaceLost, he.Code)

	// 失敗したのでカートは消えない
	d.cart.AssertNotCalled(t, "DeleteByUserID", mock.Anything, mock.Anything)
}

func TestPlaceOrder_Success(t *testing.T) {
	d := newOrderTestDeps()
	ctx := context.Background()

	d.tx.On("WithinTx", mock.Anything).Return(nil)
	d.cart.On("ListByUserID", mock.Anything, int64(1)).Return([]model.CartItem{
		{ID: 10, UserID: 1, ItemID: 100, Quantity: 2},
		{ID: 11, UserID: 1, ItemID: 200, Quantity: 1},
	}, nil)
	d.catalog.On("FindByIDs", mock.Anything, []int64{100, 200}).Return([]model.Item{
		{ID: 100, Name: "Pikachu", Price: dec("10.50"), StockQty: 20},
		{ID: 200, Name: "Eevee", Price: dec("4.50"), StockQty: 5},
	}, nil)

	var createdOrder model.Order
	d.orders.On("Create", mock.Anything, mock.MatchedBy(func(o model.Order) bool {
		createdOrder = o
		return true
	})).Return(int64(55), nil)

	var createdItems []model.OrderItem
	d.items.On("CreateBulk", mock.Anything, int64(55), mock.MatchedBy(func(items []model.OrderItem) bool {
		createdItems = items
		return true
	})).Return(nil)

	d.inventory.On("DecreaseStockIfEnough", mock.Anything, int64(100), int64(2)).Return(true, nil)
	d.inventory.On("DecreaseStockIfEnough", mock.Anything, int64(200), int64(1)).Return(true, nil)
	d.cart.On("DeleteByUserID", mock.Anything, int64(1)).Return(nil)

	out, err := d.uc.PlaceOrder(ctx, 1)
	assert.NoError(t, err)

	// 2×10.50 + 1×4.50 = 25.50
	assert.True(t, out.TotalPrice.Equal(dec("25.50")), "total = %s", out.TotalPrice)
	assert.Equal(t, string(model.OrderStatusPending), out.Status)
	assert.Equal(t, int64(55), out.ID)
	assert.NotEmpty(t, out.PublicID)

	// 作成された注文の中身
	assert.True(t, createdOrder.TotalPrice.Equal(dec("25.50")))
	assert.Equal(t, model.OrderStatusPending, createdOrder.Status)

	// 明細に確定時単価がスナップショットされている
	assert.Len(t, createdItems, 2)
	assert.True(t, createdItems[0].PriceAtTime.Equal(dec("10.50")))
	assert.True(t, createdItems[1].PriceAtTime.Equal(dec("4.50")))

	d.cart.AssertCalled(t, "DeleteByUserID", mock.Anything, int64(1))
}

func TestPlaceOrder_StorageFailureOnCreate(t *testing.T) {
	d := newOrderTestDeps()
	ctx := context.Background()

	d.tx.On("WithinTx", mock.Anything).Return(nil)
	d.cart.On("ListByUserID", mock.Anything, int64(1)).Return([]model.CartItem{
		{ID: 10, UserID: 1, ItemID: 100, Quantity: 1},
	}, nil)
	d.catalog.On("FindByIDs", mock.Anything, []int64{100}).Return([]model.Item{
		{ID: 100, Name: "Pikachu", Price: dec("10.50"), StockQty: 20},
	}, nil)
	d.orders.On("Create", mock.Anything, mock.Anything).Return(int64(0), errors.New("down"))

	_, err := d.uc.PlaceOrder(ctx, 1)

	he, ok := usecase.AsHTTPError(err)
	assert.True(t, ok)
	assert.Equal(t, http.StatusInternalServerError, he.Status)
	assert.Empty(t, he.Code)
}

// =====================
// GetMyOrderDetail
// =====================

func TestGetMyOrderDetail_OtherUsersOrderIsNotFound(t *testing.T) {
	d := newOrderTestDeps()
	ctx := context.Background()

	d.tx.On("WithinTx", mock.Anything).Return(nil)
	d.orders.On("FindByID", mock.Anything, int64(55)).Return(model.Order{
		ID: 55, UserID: 2, Status: model.OrderStatusPending,
	}, nil)

	_, err := d.uc.GetMyOrderDetail(ctx, 1, 55)

	he, ok := usecase.AsHTTPError(err)
	assert.True(t, ok)
	assert.Equal(t, http.StatusNotFound, he.Status)
}

func TestListMyOrders_ClampsPageAndLimit(t *testing.T) {
	d := newOrderTestDeps()
	ctx := context.Background()

	d.tx.On("WithinTx", mock.Anything).Return(nil)
	d.orders.On("ListByUserID", mock.Anything, int64(1), 1, 100).Return([]model.Order{}, int64(0), nil)

	out, err := d.uc.ListMyOrders(ctx, 1, -3, 999)
	assert.NoError(t, err)
	assert.Equal(t, 1, out.Meta.Page)
	assert.Equal(t, 100, out.Meta.Limit)
}
