package usecase

import (
	"context"
	"errors"
	"net/http"

	"app/internal/domain/model"
	"app/internal/events"
	repo "app/internal/repository"
)

// OrderUsecase は注文のライフサイクル全体の業務ロジックです。
// 役割（Client/Owner/Delivery）ごとの認可チェックもここで行います。
type OrderUsecase struct {
	tx          repo.TransactionManager
	orders      repo.OrderRepository
	restaurants repo.RestaurantRepository
	pub         events.Publisher
}

func NewOrderUsecase(
	tx repo.TransactionManager,
	orders repo.OrderRepository,
	restaurants repo.RestaurantRepository,
	pub events.Publisher,
) *OrderUsecase {
	return &OrderUsecase{
		tx:          tx,
		orders:      orders,
		restaurants: restaurants,
		pub:         pub,
	}
}

type CreateOrderItemInput struct {
	DishID  int64
	Options []model.OrderItemOption
}

type CreateOrderInput struct {
	RestaurantID int64
	Items        []CreateOrderItemInput
}

type CreateOrderOutput struct {
	OrderID int64 `json:"order_id"`
}

// CreateOrder は注文を作成する。明細と注文の書き込みは1トランザクション
func (u *OrderUsecase) CreateOrder(ctx context.Context, customer *model.User, in CreateOrderInput) (CreateOrderOutput, error) {
	var out CreateOrderOutput

	restaurant, err := u.restaurants.FindByID(ctx, in.RestaurantID)
	if errors.Is(err, repo.ErrNotFound) {
		return out, NewHTTPError(http.StatusNotFound, "Restaurant not found")
	}
	if err != nil {
		return out, NewHTTPError(http.StatusInternalServerError, "Could not create order")
	}

	var created model.Order

	err = u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		var total float64
		orderItems := make([]model.OrderItem, 0, len(in.Items))

		for _, item := range in.Items {
			dish, err := r.Dishes().FindByID(ctx, item.DishID)
			if errors.Is(err, repo.ErrNotFound) {
				//最初の欠けた料理で打ち切る
				return NewHTTPError(http.StatusNotFound, "Dish not found")
			}
			if err != nil {
				return err
			}

			//別店舗の料理が1つでも混ざっていたら注文全体を拒否する
			if dish.RestaurantID != restaurant.ID {
				return NewHTTPError(http.StatusBadRequest, "Dish is not belong this restaurant")
			}

			//合計は基本価格のみ。オプションのextraは加算しない
			total += dish.Price

			dishID := dish.ID
			orderItems = append(orderItems, model.OrderItem{
				DishID:  &dishID,
				Options: item.Options,
			})
		}

		customerID := customer.ID
		restaurantID := restaurant.ID
		created = model.Order{
			CustomerID:   &customerID,
			RestaurantID: &restaurantID,
			Total:        total,
			Status:       model.OrderStatusPending,
		}

		orderID, err := r.Orders().Create(ctx, &created)
		if err != nil {
			return err
		}

		if err := r.OrderItems().CreateBulk(ctx, orderID, orderItems); err != nil {
			return err
		}
		created.Items = orderItems
		return nil
	})

	if err != nil {
		if _, ok := AsHTTPError(err); ok {
			return out, err
		}
		return out, NewHTTPError(http.StatusInternalServerError, "Could not create order")
	}

	//コミット後に通知。publishの失敗で注文は巻き戻さない
	_ = u.pub.Publish(ctx, events.TopicPendingOrders, events.PendingOrderPayload{
		Order:   created,
		OwnerID: restaurant.OwnerID,
	})

	out.OrderID = created.ID
	return out, nil
}

type GetOrdersInput struct {
	Status *model.OrderStatus
}

type GetOrdersOutput struct {
	Orders []model.Order `json:"orders"`
}

// GetOrders は役割ごとに見える注文一覧を返す
func (u *OrderUsecase) GetOrders(ctx context.Context, user *model.User, in GetOrdersInput) (GetOrdersOutput, error) {
	var out GetOrdersOutput

	f := repo.OrderListFilter{Status: in.Status}

	var (
		orders []model.Order
		err    error
	)

	switch user.Role {
	case model.RoleClient:
		orders, err = u.orders.ListByCustomer(ctx, user.ID, f)
	case model.RoleDelivery:
		orders, err = u.orders.ListByDriver(ctx, user.ID, f)
	case model.RoleOwner:
		//オーナーは自分の全店舗の注文を横断して見る
		orders, err = u.orders.ListByRestaurantOwner(ctx, user.ID, f)
	default:
		return out, NewHTTPError(http.StatusForbidden, "You cannot do that")
	}

	if err != nil {
		return out, NewHTTPError(http.StatusInternalServerError, "Could not get orders")
	}

	out.Orders = orders
	return out, nil
}

// canSeeOrder はユーザーが注文の当事者かを返す。純粋な判定で副作用なし。
// Clientは自分の注文、Deliveryは自分の配達、Ownerは自分の店舗の注文だけ見える
func canSeeOrder(user *model.User, order model.Order) bool {
	switch user.Role {
	case model.RoleClient:
		return order.CustomerID != nil && *order.CustomerID == user.ID
	case model.RoleDelivery:
		return order.DriverID != nil && *order.DriverID == user.ID
	case model.RoleOwner:
		return order.Restaurant != nil && order.Restaurant.OwnerID == user.ID
	}
	return false
}

type GetOrderOutput struct {
	Order model.Order `json:"order"`
}

func (u *OrderUsecase) GetOrder(ctx context.Context, user *model.User, orderID int64) (GetOrderOutput, error) {
	var out GetOrderOutput

	order, err := u.orders.FindByIDWithRestaurant(ctx, orderID)
	if errors.Is(err, repo.ErrNotFound) {
		return out, NewHTTPError(http.StatusNotFound, "Order not found")
	}
	if err != nil {
		return out, NewHTTPError(http.StatusInternalServerError, "Could not get order")
	}

	if !canSeeOrder(user, order) {
		return out, NewHTTPError(http.StatusForbidden, "You cannot see that")
	}

	out.Order = order
	return out, nil
}

type EditOrderInput struct {
	ID     int64
	Status model.OrderStatus
}

// 役割ごとに遷移できるステータス。
// Ownerは調理系（Cooking/Cooked）、Deliveryは配達系（PickedUp/Delivered）だけ
func canSetStatus(role model.UserRole, status model.OrderStatus) bool {
	switch role {
	case model.RoleOwner:
		return status == model.OrderStatusCooking || status == model.OrderStatusCooked
	case model.RoleDelivery:
		return status == model.OrderStatusPickedUp || status == model.OrderStatusDelivered
	case model.RoleClient:
		//Clientはステータスを変更できない
		return false
	}
	return false
}

// EditOrder は注文のステータスを遷移させる。
// 可視性チェック（You cannot see that）→遷移チェック（You cannot do that）の2段階
func (u *OrderUsecase) EditOrder(ctx context.Context, user *model.User, in EditOrderInput) error {
	order, err := u.orders.FindByIDWithRestaurant(ctx, in.ID)
	if errors.Is(err, repo.ErrNotFound) {
		return NewHTTPError(http.StatusNotFound, "Order not found")
	}
	if err != nil {
		return NewHTTPError(http.StatusInternalServerError, "Could not edit order")
	}

	if !canSeeOrder(user, order) {
		return NewHTTPError(http.StatusForbidden, "You cannot see that")
	}

	if !canSetStatus(user.Role, in.Status) {
		return NewHTTPError(http.StatusForbidden, "You cannot do that")
	}

	if err := u.orders.UpdateStatus(ctx, in.ID, in.Status); err != nil {
		return NewHTTPError(http.StatusInternalServerError, "Could not edit order")
	}

	updated := order
	updated.Status = in.Status

	//Cookedだけは2本配信する：一般の更新と、ドライバー向けのピックアップ待ちフィード
	if in.Status == model.OrderStatusCooked {
		_ = u.pub.Publish(ctx, events.TopicCookedOrders, events.CookedOrderPayload{
			CookedOrders: updated,
		})
	}
	_ = u.pub.Publish(ctx, events.TopicOrderUpdates, events.OrderUpdatesPayload{
		Order: updated,
	})

	return nil
}

// TakeOrder はドライバーが未割り当ての注文をクレームする。
// 条件付きUPDATEなので同時に2人がクレームしても片方だけ成功する
func (u *OrderUsecase) TakeOrder(ctx context.Context, driver *model.User, orderID int64) error {
	order, err := u.orders.FindByID(ctx, orderID)
	if errors.Is(err, repo.ErrNotFound) {
		return NewHTTPError(http.StatusNotFound, "Order not found")
	}
	if err != nil {
		return NewHTTPError(http.StatusInternalServerError, "Could not take order")
	}

	if order.DriverID != nil {
		return NewHTTPError(http.StatusConflict, "This order already has a driver")
	}

	ok, err := u.orders.AssignDriverIfVacant(ctx, orderID, driver.ID)
	if err != nil {
		return NewHTTPError(http.StatusInternalServerError, "Could not take order")
	}
	if !ok {
		//チェック後に他のドライバーが先に取った
		return NewHTTPError(http.StatusConflict, "This order already has a driver")
	}

	driverID := driver.ID
	order.DriverID = &driverID
	order.Driver = driver

	_ = u.pub.Publish(ctx, events.TopicOrderUpdates, events.OrderUpdatesPayload{
		Order: order,
	})

	return nil
}
