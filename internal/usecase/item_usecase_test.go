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

type InvItemRepoMock struct{ mock.Mock }

func (m *InvItemRepoMock) FindByID(ctx context.Context, id int64) (model.Item, error) {
	args := m.Called(ctx, id)
	item, _ := args.Get(0).(model.Item)
	return item, args.Error(1)
}

func (m *InvItemRepoMock) ListTagIDs(ctx context.Context, itemID int64) ([]int64, error) {
	args := m.Called(ctx, itemID)
	ids, _ := args.Get(0).([]int64)
	return ids, args.Error(1)
}

func (m *InvItemRepoMock) List(ctx context.Context, q repo.ItemListQuery) ([]model.Item, int64, error) {
	panic("not used in inventory tests")
}

func (m *InvItemRepoMock) FindBySlug(ctx context.Context, slug string) (model.Item, error) {
	panic("not used in inventory tests")
}

func (m *InvItemRepoMock) FindByIDs(ctx context.Context, ids []int64) ([]model.Item, error) {
	panic("not used in inventory tests")
}

func (m *InvItemRepoMock) Create(ctx context.Context, item model.Item) (model.Item, error) {
	panic("not used in inventory tests")
}

func (m *InvItemRepoMock) UpdateFields(ctx context.Context, id int64, fields map[string]interface{}) error {
	panic("not used in inventory tests")
}

func (m *InvItemRepoMock) Delete(ctx context.Context, id int64) error {
	panic("not used in inventory tests")
}

func (m *InvItemRepoMock) CountByCategory(ctx context.Context, categoryID int64) (int64, error) {
	panic("not used in inventory tests")
}

func (m *InvItemRepoMock) ReplaceTags(ctx context.Context, itemID int64, tagIDs []int64) error {
	panic("not used in inventory tests")
}

func (m *InvItemRepoMock) Count(ctx context.Context) (int64, error) {
	panic("not used in inventory tests")
}

func (m *InvItemRepoMock) CountOutOfStock(ctx context.Context) (int64, error) {
	panic("not used in inventory tests")
}

func (m *InvItemRepoMock) CountLowStock(ctx context.Context, threshold int64) (int64, error) {
	panic("not used in inventory tests")
}

type InvInventoryRepoMock struct{ mock.Mock }

func (m *InvInventoryRepoMock) SetStock(ctx context.Context, itemID int64, newStock int64) error {
	args := m.Called(ctx, itemID, newStock)
	return args.Error(0)
}

func (m *InvInventoryRepoMock) CreateAdjustment(ctx context.Context, adjustment model.InventoryAdjustment) error {
	args := m.Called(ctx, adjustment)
	return args.Error(0)
}

func (m *InvInventoryRepoMock) DecreaseStockIfEnough(ctx context.Context, itemID int64, qty int64) (bool, error) {
	panic("not used in inventory tests")
}

func (m *InvInventoryRepoMock) IncreaseStock(ctx context.Context, itemID int64, qty int64) error {
	panic("not used in inventory tests")
}

type inventoryTestDeps struct {
	items *InvItemRepoMock
	inv   *InvInventoryRepoMock
	audit *AdminAuditRepoMock
	uc    *usecase.ItemUsecase
}

func newInventoryTestDeps() *inventoryTestDeps {
	d := &inventoryTestDeps{
		items: &InvItemRepoMock{},
		inv:   &InvInventoryRepoMock{},
		audit: &AdminAuditRepoMock{},
	}
	d.uc = usecase.NewItemUsecase(d.items, nil, nil, nil, d.inv, d.audit, nil)
	return d
}

func TestAdminUpdateInventory_WritesAdjustmentAndAudit(t *testing.T) {
	d := newInventoryTestDeps()
	ctx := context.Background()

	d.items.On("FindByID", mock.Anything, int64(100)).Return(model.Item{
		ID: 100, Name: "Charizard", StockQty: 5,
	}, nil)
	d.items.On("ListTagIDs", mock.Anything, int64(100)).Return([]int64{}, nil)
	d.inv.On("SetStock", mock.Anything, int64(100), int64(12)).Return(nil)
	d.inv.On("CreateAdjustment", mock.Anything, mock.Anything).Return(nil)
	d.audit.On("Create", mock.Anything, mock.Anything).Return(nil)

	_, err := d.uc.AdminUpdateInventory(ctx, 9, 100, usecase.UpdateInventoryInput{
		StockQty: 12, Reason: "restock",
	})
	assert.NoError(t, err)

	// 調整履歴は差分で残る
	d.inv.AssertCalled(t, "CreateAdjustment", mock.Anything, mock.MatchedBy(func(a model.InventoryAdjustment) bool {
		return a.ItemID == 100 && a.AdminUserID == 9 && a.Delta == 7 && a.Reason == "restock"
	}))

	// 監査ログはUPDATE_STOCKで残る
	d.audit.AssertCalled(t, "Create", mock.Anything, mock.MatchedBy(func(l model.AuditLog) bool {
		return l.Action == model.AuditActionUpdateStock &&
			l.ResourceType == model.AuditResourceItem &&
			l.ResourceID == 100 &&
			l.ActorUserID == 9
	}))
}

func TestAdminUpdateInventory_AuditFailureFailsUpdate(t *testing.T) {
	d := newInventoryTestDeps()
	ctx := context.Background()

	d.items.On("FindByID", mock.Anything, int64(100)).Return(model.Item{
		ID: 100, Name: "Charizard", StockQty: 5,
	}, nil)
	d.inv.On("SetStock", mock.Anything, int64(100), int64(12)).Return(nil)
	d.inv.On("CreateAdjustment", mock.Anything, mock.Anything).Return(nil)
	d.audit.On("Create", mock.Anything, mock.Anything).Return(errors.New("audit insert failed"))

	// 監査ログが書けないときは成功扱いにしない
	_, err := d.uc.AdminUpdateInventory(ctx, 9, 100, usecase.UpdateInventoryInput{
		StockQty: 12, Reason: "restock",
	})

	he, ok := usecase.AsHTTPError(err)
	assert.True(t, ok)
	assert.Equal(t, http.StatusInternalServerError, he.Status)
}
