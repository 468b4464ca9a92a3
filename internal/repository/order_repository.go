package repository

import (
	"app/internal/domain/model"
	"context"
)

// 一覧の絞り込み。Statusがnilなら条件なし（「statusなし」を探す意味ではない）
type OrderListFilter struct {
	Status *model.OrderStatus
}

type OrderRepository interface {
	Create(ctx context.Context, order *model.Order) (int64, error)
	FindByID(ctx context.Context, orderID int64) (model.Order, error)
	//restaurant付きで1件取得（可視性チェック用）
	FindByIDWithRestaurant(ctx context.Context, orderID int64) (model.Order, error)

	ListByCustomer(ctx context.Context, customerID int64, f OrderListFilter) ([]model.Order, error)
	ListByDriver(ctx context.Context, driverID int64, f OrderListFilter) ([]model.Order, error)
	//オーナーの全店舗の注文を横断して返す
	ListByRestaurantOwner(ctx context.Context, ownerID int64, f OrderListFilter) ([]model.Order, error)

	UpdateStatus(ctx context.Context, orderID int64, status model.OrderStatus) error

	//driverが未割り当ての場合だけ割り当てる。割り当てられたらtrue
	AssignDriverIfVacant(ctx context.Context, orderID int64, driverID int64) (bool, error)
}
