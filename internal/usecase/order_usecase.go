package usecase

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"app/internal/domain/model"
	repo "app/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// OrderUsecase は注文確定（チェックアウト）と注文照会の業務ロジックです。
// 価格と在庫は必ずDBの現在値を読み直す。クライアントの値は信用しない
type OrderUsecase struct {
	tx repo.TransactionManager
}

func NewOrderUsecase(tx repo.TransactionManager) *OrderUsecase {
	return &OrderUsecase{tx: tx}
}

type OrderItemOutput struct {
	ItemID      int64           `json:"item_id"`
	Quantity    int64           `json:"quantity"`
	PriceAtTime decimal.Decimal `json:"price_at_time"`
}

type OrderOutput struct {
	ID         int64             `json:"id"`
	PublicID   string            `json:"public_id"`
	UserID     int64             `json:"user_id"`
	Status     string            `json:"status"`
	TotalPrice decimal.Decimal   `json:"total_price"`
	CreatedAt  time.Time         `json:"created_at"`
	Items      []OrderItemOutput `json:"items"`
}

type OrderListOutput struct {
	Data []OrderOutput  `json:"data"`
	Meta PaginationMeta `json:"meta"`
}

// PlaceOrder はカートを注文に変換する。
// 検証→合計→注文作成→明細作成→条件付き在庫減算→カート全削除を
// 1トランザクションで行い、どこかで失敗したら全てロールバックする
func (u *OrderUsecase) PlaceOrder(ctx context.Context, userID int64) (OrderOutput, error) {
	if userID <= 0 {
		return OrderOutput{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}

	var out OrderOutput

	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		//カート明細取得
		lines, err := r.Cart().ListByUserID(ctx, userID)
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}
		if len(lines) == 0 {
			return NewHTTPErrorCode(http.StatusBadRequest, CodeCartEmpty, "cart is empty")
		}

		//参照しているカードを一括で読む
		ids := make([]int64, 0, len(lines))
		for _, ln := range lines {
			ids = append(ids, ln.ItemID)
		}

		items, err := r.Items().FindByIDs(ctx, ids)
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		byID := make(map[int64]model.Item, len(items))
		for _, it := range items {
			byID[it.ID] = it
		}

		//全明細を先に検証する。1行でもダメなら何も書かない
		for _, ln := range lines {
			it, ok := byID[ln.ItemID]
			if !ok {
				return NewHTTPErrorCode(http.StatusBadRequest, CodeItemNotFound,
					fmt.Sprintf("item %d not found", ln.ItemID))
			}
			if it.StockQty < ln.Quantity {
				return NewHTTPErrorCode(http.StatusBadRequest, CodeInsufficientStock,
					"insufficient stock for item: "+it.Name)
			}
		}

		//合計は固定小数で計算して2桁に丸める（floatは使わない）
		total := decimal.Zero
		for _, ln := range lines {
			it := byID[ln.ItemID]
			total = total.Add(it.Price.Mul(decimal.NewFromInt(ln.Quantity)))
		}
		total = total.Round(2)

		// 注文作成
		now := time.Now()
		order := model.Order{
			PublicID:   uuid.NewString(),
			UserID:     userID,
			TotalPrice: total,
			Status:     model.OrderStatusPending,
			CreatedAt:  now,
			UpdatedAt:  now,
		}

		orderID, err := r.Orders().Create(ctx, order)
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		//明細作成。price_at_timeに現在単価をスナップショット
		orderItems := make([]model.OrderItem, 0, len(lines))
		for _, ln := range lines {
			it := byID[ln.ItemID]
			orderItems = append(orderItems, model.OrderItem{
				ItemID:      ln.ItemID,
				Quantity:    ln.Quantity,
				PriceAtTime: it.Price,
				CreatedAt:   now,
			})
		}

		if err := r.OrderItems().CreateBulk(ctx, orderID, orderItems); err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		//在庫減算。足りるときだけ減る条件付きUPDATE。
		//検証と確定の間に他の注文が在庫を使っていたら0行になるので、
		//全体を失敗させてロールバックする
		for _, ln := range lines {
			ok, err := r.Inventory().DecreaseStockIfEnough(ctx, ln.ItemID, ln.Quantity)
			if err != nil {
				return NewHTTPError(http.StatusInternalServerError, "db error")
			}
			if !ok {
				it := byID[ln.ItemID]
				return NewHTTPErrorCode(http.StatusBadRequest, CodeStockRaceLost,
					"stock was taken by another order: "+it.Name)
			}
		}

		//カートを空にする
		if err := r.Cart().DeleteByUserID(ctx, userID); err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		order.ID = orderID
		out = toOrderOutput(order, orderItems)
		return nil
	})

	if err != nil {
		return OrderOutput{}, err
	}
	return out, nil
}

func (u *OrderUsecase) ListMyOrders(ctx context.Context, userID int64, page int, limit int) (OrderListOutput, error) {
	if userID <= 0 {
		return OrderListOutput{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}

	page, limit = ClampPageLimit(page, limit)

	var out OrderListOutput

	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		orders, total, err := r.Orders().ListByUserID(ctx, userID, page, limit)
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		outs := make([]OrderOutput, 0, len(orders))
		for _, o := range orders {
			items, err := r.OrderItems().ListByOrderID(ctx, o.ID)
			if err != nil {
				return NewHTTPError(http.StatusInternalServerError, "db error")
			}
			outs = append(outs, toOrderOutput(o, items))
		}

		out = OrderListOutput{
			Data: outs,
			Meta: NewPaginationMeta(page, limit, total),
		}
		return nil
	})

	if err != nil {
		return OrderListOutput{}, err
	}
	return out, nil
}

func (u *OrderUsecase) GetMyOrderDetail(ctx context.Context, userID int64, orderID int64) (OrderOutput, error) {
	if userID <= 0 {
		return OrderOutput{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if orderID <= 0 {
		return OrderOutput{}, NewHTTPError(http.StatusBadRequest, "invalid id")
	}

	var out OrderOutput

	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		o, err := r.Orders().FindByID(ctx, orderID)
		if err == repo.ErrNotFound {
			return NewHTTPError(http.StatusNotFound, "not found")
		}
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}
		if o.UserID != userID {
			//他人の注文は「存在しない扱い」にする
			return NewHTTPError(http.StatusNotFound, "not found")
		}

		items, err := r.OrderItems().ListByOrderID(ctx, orderID)
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		out = toOrderOutput(o, items)
		return nil
	})

	if err != nil {
		return OrderOutput{}, err
	}
	return out, nil
}

func toOrderOutput(o model.Order, items []model.OrderItem) OrderOutput {
	outItems := make([]OrderItemOutput, 0, len(items))
	for _, it := range items {
		outItems = append(outItems, OrderItemOutput{
			ItemID:      it.ItemID,
			Quantity:    it.Quantity,
			PriceAtTime: it.PriceAtTime,
		})
	}

	return OrderOutput{
		ID:         o.ID,
		PublicID:   o.PublicID,
		UserID:     o.UserID,
		Status:     string(o.Status),
		TotalPrice: o.TotalPrice,
		CreatedAt:  o.CreatedAt,
		Items:      outItems,
	}
}
