package usecase

import (
	"context"
	"net/http"

	"app/internal/domain/model"
	repo "app/internal/repository"

	"github.com/shopspring/decimal"
)

// 「残りわずか」とみなす在庫数の閾値
const lowStockThreshold = 10

// DashboardUsecase は管理画面トップの集計です
type DashboardUsecase struct {
	itemRepo     repo.ItemRepository
	categoryRepo repo.CategoryRepository
	orderRepo    repo.OrderRepository
}

func NewDashboardUsecase(itemRepo repo.ItemRepository, categoryRepo repo.CategoryRepository, orderRepo repo.OrderRepository) *DashboardUsecase {
	return &DashboardUsecase{
		itemRepo:     itemRepo,
		categoryRepo: categoryRepo,
		orderRepo:    orderRepo,
	}
}

type DashboardStats struct {
	ItemCount     int64 `json:"item_count"`
	CategoryCount int64 `json:"category_count"`
	OrderCount    int64 `json:"order_count"`

	PendingOrderCount   int64 `json:"pending_order_count"`
	CompletedOrderCount int64 `json:"completed_order_count"`

	OutOfStockCount int64 `json:"out_of_stock_count"`
	LowStockCount   int64 `json:"low_stock_count"`

	//completedの合計金額
	Revenue decimal.Decimal `json:"revenue"`

	RecentOrders []OrderOutput `json:"recent_orders"`
}

func (u *DashboardUsecase) GetStats(ctx context.Context) (DashboardStats, error) {
	var s DashboardStats
	var err error

	if s.ItemCount, err = u.itemRepo.Count(ctx); err != nil {
		return DashboardStats{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	if s.CategoryCount, err = u.categoryRepo.Count(ctx); err != nil {
		return DashboardStats{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	if s.OrderCount, err = u.orderRepo.Count(ctx); err != nil {
		return DashboardStats{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	if s.PendingOrderCount, err = u.orderRepo.CountByStatus(ctx, model.OrderStatusPending); err != nil {
		return DashboardStats{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	if s.CompletedOrderCount, err = u.orderRepo.CountByStatus(ctx, model.OrderStatusCompleted); err != nil {
		return DashboardStats{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	if s.OutOfStockCount, err = u.itemRepo.CountOutOfStock(ctx); err != nil {
		return DashboardStats{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	if s.LowStockCount, err = u.itemRepo.CountLowStock(ctx, lowStockThreshold); err != nil {
		return DashboardStats{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	//売上はcompletedだけを合計
	if s.Revenue, err = u.orderRepo.SumTotalByStatus(ctx, model.OrderStatusCompleted); err != nil {
		return DashboardStats{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	recent, err := u.orderRepo.ListRecent(ctx, 5)
	if err != nil {
		return DashboardStats{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	s.RecentOrders = make([]OrderOutput, 0, len(recent))
	for _, o := range recent {
		s.RecentOrders = append(s.RecentOrders, toOrderOutput(o, nil))
	}

	return s, nil
}
