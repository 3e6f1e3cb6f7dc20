package usecase_test

import (
	"app/internal/domain/model"
	repo "app/internal/repository"
	"app/internal/usecase"
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type AdminAuditRepoMock struct{ mock.Mock }

func (m *AdminAuditRepoMock) Create(ctx context.Context, log model.AuditLog) error {
	args := m.Called(ctx, log)
	return args.Error(0)
}

func (m *AdminAuditRepoMock) List(ctx context.Context, filter repo.AuditLogFilter) ([]model.AuditLog, error) {
	panic("not used in AdminOrderUsecase tests")
}

type adminOrderTestDeps struct {
	tx        *OrderTxManagerMock
	orders    *OrderRepoMock
	items     *OrderItemRepoMock
	inventory *OrderInventoryRepoMock
	audit     *AdminAuditRepoMock
	uc        *usecase.AdminOrderUsecase
}

func newAdminOrderTestDeps() *adminOrderTestDeps {
	d := &adminOrderTestDeps{
		orders:    &OrderRepoMock{},
		items:     &OrderItemRepoMock{},
		inventory: &OrderInventoryRepoMock{},
		audit:     &AdminAuditRepoMock{},
	}
	d.tx = &OrderTxManagerMock{
		Repos: &OrderTxReposMock{
			orders:     d.orders,
			orderItems: d.items,
			inventory:  d.inventory,
		},
	}
	d.uc = usecase.NewAdminOrderUsecase(d.tx, d.audit)
	return d
}

func TestAdminUpdateStatus_CompleteFromPending(t *testing.T) {
	d := newAdminOrderTestDeps()
	ctx := context.Background()

	d.tx.On("WithinTx", mock.Anything).Return(nil)
	d.orders.On("FindByID", mock.Anything, int64(55)).Return(model.Order{
		ID: 55, UserID: 1, Status: model.OrderStatusPending, TotalPrice: dec("25.50"),
	}, nil)
	d.orders.On("UpdateStatus", mock.Anything, int64(55), model.OrderStatusCompleted).Return(nil)
	d.items.On("ListByOrderID", mock.Anything, int64(55)).Return([]model.OrderItem{
		{ItemID: 100, Quantity: 2, PriceAtTime: dec("10.50")},
	}, nil)
	d.audit.On("Create", mock.Anything, mock.Anything).Return(nil)

	out, err := d.uc.UpdateStatus(ctx, 9, 55, usecase.UpdateOrderStatusInput{Status: "completed"})
	assert.NoError(t, err)
	assert.Equal(t, "completed", out.Status)

	// 完了では在庫は動かない
	d.inventory.AssertNotCalled(t, "IncreaseStock", mock.Anything, mock.Anything, mock.Anything)

	// 監査ログが残る
	d.audit.AssertCalled(t, "Create", mock.Anything, mock.MatchedBy(func(l model.AuditLog) bool {
		return l.Action == model.AuditActionUpdateOrderStatus &&
			l.ResourceType == model.AuditResourceOrder &&
			l.ResourceID == 55 &&
			l.ActorUserID == 9
	}))
}

func TestAdminUpdateStatus_CancelRestocks(t *testing.T) {
	d := newAdminOrderTestDeps()
	ctx := context.Background()

	d.tx.On("WithinTx", mock.Anything).Return(nil)
	d.orders.On("FindByID", mock.Anything, int64(55)).Return(model.Order{
		ID: 55, UserID: 1, Status: model.OrderStatusPending,
	}, nil)
	d.orders.On("UpdateStatus", mock.Anything, int64(55), model.OrderStatusCancelled).Return(nil)
	d.items.On("ListByOrderID", mock.Anything, int64(55)).Return([]model.OrderItem{
		{ItemID: 100, Quantity: 2, PriceAtTime: dec("10.50")},
		{ItemID: 200, Quantity: 1, PriceAtTime: dec("4.50")},
	}, nil)
	d.inventory.On("IncreaseStock", mock.Anything, int64(100), int64(2)).Return(nil)
	d.inventory.On("IncreaseStock", mock.Anything, int64(200), int64(1)).Return(nil)
	d.audit.On("Create", mock.Anything, mock.Anything).Return(nil)

	out, err := d.uc.UpdateStatus(ctx, 9, 55, usecase.UpdateOrderStatusInput{Status: "cancelled"})
	assert.NoError(t, err)
	assert.Equal(t, "cancelled", out.Status)

	// 明細の数量ぶん在庫が戻る
	d.inventory.AssertCalled(t, "IncreaseStock", mock.Anything, int64(100), int64(2))
	d.inventory.AssertCalled(t, "IncreaseStock", mock.Anything, int64(200), int64(1))
}

func TestAdminUpdateStatus_AuditFailureFailsCancel(t *testing.T) {
	d := newAdminOrderTestDeps()
	ctx := context.Background()

	d.tx.On("WithinTx", mock.Anything).Return(nil)
	d.orders.On("FindByID", mock.Anything, int64(55)).Return(model.Order{
		ID: 55, UserID: 1, Status: model.OrderStatusPending,
	}, nil)
	d.orders.On("UpdateStatus", mock.Anything, int64(55), model.OrderStatusCancelled).Return(nil)
	d.items.On("ListByOrderID", mock.Anything, int64(55)).Return([]model.OrderItem{
		{ItemID: 100, Quantity: 2, PriceAtTime: dec("10.50")},
	}, nil)
	d.inventory.On("IncreaseStock", mock.Anything, int64(100), int64(2)).Return(nil)
	d.audit.On("Create", mock.Anything, mock.Anything).Return(errors.New("audit insert failed"))

	// 監査ログが書けなければキャンセルはTxごと失敗させる
	_, err := d.uc.UpdateStatus(ctx, 9, 55, usecase.UpdateOrderStatusInput{Status: "cancelled"})

	he, ok := usecase.AsHTTPError(err)
	assert.True(t, ok)
	assert.Equal(t, http.StatusInternalServerError, he.Status)
}

func TestAdminUpdateStatus_FinalStatusIsLocked(t *testing.T) {
	d := newAdminOrderTestDeps()
	ctx := context.Background()

	d.tx.On("WithinTx", mock.Anything).Return(nil)
	d.orders.On("FindByID", mock.Anything, int64(55)).Return(model.Order{
		ID: 55, UserID: 1, Status: model.OrderStatusCancelled,
	}, nil)

	_, err := d.uc.UpdateStatus(ctx, 9, 55, usecase.UpdateOrderStatusInput{Status: "pending"})

	he, ok := usecase.AsHTTPError(err)
	assert.True(t, ok)
	assert.Equal(t, http.StatusConflict, he.Status)

	d.orders.AssertNotCalled(t, "UpdateStatus", mock.Anything, mock.Anything, mock.Anything)
	d.audit.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestAdminUpdateStatus_SameStatusIsNoop(t *testing.T) {
	d := newAdminOrderTestDeps()
	ctx := context.Background()

	d.tx.On("WithinTx", mock.Anything).Return(nil)
	d.orders.On("FindByID", mock.Anything, int64(55)).Return(model.Order{
		ID: 55, UserID: 1, Status: model.OrderStatusPending,
	}, nil)
	d.items.On("ListByOrderID", mock.Anything, int64(55)).Return([]model.OrderItem{}, nil)

	out, err := d.uc.UpdateStatus(ctx, 9, 55, usecase.UpdateOrderStatusInput{Status: "pending"})
	assert.NoError(t, err)
	assert.Equal(t, "pending", out.Status)

	d.orders.AssertNotCalled(t, "UpdateStatus", mock.Anything, mock.Anything, mock.Anything)
	d.audit.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestAdminUpdateStatus_InvalidStatus(t *testing.T) {
	d := newAdminOrderTestDeps()
	ctx := context.Background()

	_, err := d.uc.UpdateStatus(ctx, 9, 55, usecase.UpdateOrderStatusInput{Status: "SHIPPED"})

	he, ok := usecase.AsHTTPError(err)
	assert.True(t, ok)
	assert.Equal(t, http.StatusBadRequest, he.Status)
}
