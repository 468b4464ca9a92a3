package usecase_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"app/internal/domain/model"
	"app/internal/events"
	repo "app/internal/repository"
	"app/internal/usecase"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

// =====================
// TxManager / TxRepos mocks
// =====================

// TxManagerMock は WithinTx の中で渡す repos を固定して unit テストを回す
type TxManagerMock struct {
	mock.Mock
	Repos repo.TxRepos
}

func (m *TxManagerMock) WithinTx(ctx context.Context, fn func(r repo.TxRepos) error) error {
	// 呼ばれた事実だけ記録（ctxの具体値は問わない）
	m.Called(ctx)
	return fn(m.Repos)
}

type TxReposMock struct {
	orders      repo.OrderRepository
	orderItems  repo.OrderItemRepository
	dishes      repo.DishRepository
	restaurants repo.RestaurantRepository
}

func (r *TxReposMock) Orders() repo.OrderRepository           { return r.orders }
func (r *TxReposMock) OrderItems() repo.OrderItemRepository   { return r.orderItems }
func (r *TxReposMock) Dishes() repo.DishRepository            { return r.dishes }
func (r *TxReposMock) Restaurants() repo.RestaurantRepository { return r.restaurants }

// =====================
// Repository mocks
// =====================

type OrderRepoMock struct{ mock.Mock }

func (m *OrderRepoMock) Create(ctx context.Context, order *model.Order) (int64, error) {
	args := m.Called(ctx, order)
	return args.Get(0).(int64), args.Error(1)
}

func (m *OrderRepoMock) FindByID(ctx context.Context, orderID int64) (model.Order, error) {
	args := m.Called(ctx, orderID)
	o, _ := args.Get(0).(model.Order)
	return o, args.Error(1)
}

func (m *OrderRepoMock) FindByIDWithRestaurant(ctx context.Context, orderID int64) (model.Order, error) {
	args := m.Called(ctx, orderID)
	o, _ := args.Get(0).(model.Order)
	return o, args.Error(1)
}

func (m *OrderRepoMock) ListByCustomer(ctx context.Context, customerID int64, f repo.OrderListFilter) ([]model.Order, error) {
	args := m.Called(ctx, customerID, f)
	orders, _ := args.Get(0).([]model.Order)
	return orders, args.Error(1)
}

func (m *OrderRepoMock) ListByDriver(ctx context.Context, driverID int64, f repo.OrderListFilter) ([]model.Order, error) {
	args := m.Called(ctx, driverID, f)
	orders, _ := args.Get(0).([]model.Order)
	return orders, args.Error(1)
}

func (m *OrderRepoMock) ListByRestaurantOwner(ctx context.Context, ownerID int64, f repo.OrderListFilter) ([]model.Order, error) {
	args := m.Called(ctx, ownerID, f)
	orders, _ := args.Get(0).([]model.Order)
	return orders, args.Error(1)
}

func (m *OrderRepoMock) UpdateStatus(ctx context.Context, orderID int64, status model.OrderStatus) error {
	args := m.Called(ctx, orderID, status)
	return args.Error(0)
}

func (m *OrderRepoMock) AssignDriverIfVacant(ctx context.Context, orderID int64, driverID int64) (bool, error) {
	args := m.Called(ctx, orderID, driverID)
	return args.Bool(0), args.Error(1)
}

type OrderItemRepoMock struct{ mock.Mock }

func (m *OrderItemRepoMock) CreateBulk(ctx context.Context, orderID int64, items []model.OrderItem) error {
	args := m.Called(ctx, orderID, items)
	return args.Error(0)
}

func (m *OrderItemRepoMock) ListByOrderID(ctx context.Context, orderID int64) ([]model.OrderItem, error) {
	panic("not used in OrderUsecase tests")
}

type DishRepoMock struct{ mock.Mock }

func (m *DishRepoMock) Create(ctx context.Context, d *model.Dish) error {
	args := m.Called(ctx, d)
	return args.Error(0)
}

func (m *DishRepoMock) FindByID(ctx context.Context, dishID int64) (model.Dish, error) {
	args := m.Called(ctx, dishID)
	d, _ := args.Get(0).(model.Dish)
	return d, args.Error(1)
}

func (m *DishRepoMock) FindByIDWithRestaurant(ctx context.Context, dishID int64) (model.Dish, error) {
	args := m.Called(ctx, dishID)
	d, _ := args.Get(0).(model.Dish)
	return d, args.Error(1)
}

func (m *DishRepoMock) Update(ctx context.Context, d *model.Dish) error {
	args := m.Called(ctx, d)
	return args.Error(0)
}

func (m *DishRepoMock) Delete(ctx context.Context, dishID int64) error {
	args := m.Called(ctx, dishID)
	return args.Error(0)
}

type RestaurantRepoMock struct{ mock.Mock }

func (m *RestaurantRepoMock) Create(ctx context.Context, r *model.Restaurant) error {
	args := m.Called(ctx, r)
	return args.Error(0)
}

func (m *RestaurantRepoMock) Update(ctx context.Context, r *model.Restaurant) error {
	args := m.Called(ctx, r)
	return args.Error(0)
}

func (m *RestaurantRepoMock) Delete(ctx context.Context, restaurantID int64) error {
	args := m.Called(ctx, restaurantID)
	return args.Error(0)
}

func (m *RestaurantRepoMock) FindByID(ctx context.Context, restaurantID int64) (model.Restaurant, error) {
	args := m.Called(ctx, restaurantID)
	r, _ := args.Get(0).(model.Restaurant)
	return r, args.Error(1)
}

func (m *RestaurantRepoMock) FindByIDWithMenu(ctx context.Context, restaurantID int64) (model.Restaurant, error) {
	args := m.Called(ctx, restaurantID)
	r, _ := args.Get(0).(model.Restaurant)
	return r, args.Error(1)
}

func (m *RestaurantRepoMock) ListByOwner(ctx context.Context, ownerID int64) ([]model.Restaurant, error) {
	args := m.Called(ctx, ownerID)
	rs, _ := args.Get(0).([]model.Restaurant)
	return rs, args.Error(1)
}

func (m *RestaurantRepoMock) ListByCategory(ctx context.Context, categoryID int64, q repo.RestaurantListQuery) ([]model.Restaurant, int64, error) {
	args := m.Called(ctx, categoryID, q)
	rs, _ := args.Get(0).([]model.Restaurant)
	return rs, args.Get(1).(int64), args.Error(2)
}

func (m *RestaurantRepoMock) SearchByName(ctx context.Context, query string, q repo.RestaurantListQuery) ([]model.Restaurant, int64, error) {
	args := m.Called(ctx, query, q)
	rs, _ := args.Get(0).([]model.Restaurant)
	return rs, args.Get(1).(int64), args.Error(2)
}

func (m *RestaurantRepoMock) FindNearby(ctx context.Context, q repo.NearbyQuery) ([]model.Restaurant, int64, error) {
	args := m.Called(ctx, q)
	rs, _ := args.Get(0).([]model.Restaurant)
	return rs, args.Get(1).(int64), args.Error(2)
}

func (m *RestaurantRepoMock) ListPromotedExpired(ctx context.Context, now time.Time) ([]model.Restaurant, error) {
	args := m.Called(ctx, now)
	rs, _ := args.Get(0).([]model.Restaurant)
	return rs, args.Error(1)
}

// =====================
// Publisher mock
// =====================

type PublisherMock struct{ mock.Mock }

func (m *PublisherMock) Publish(ctx context.Context, topic events.Topic, payload interface{}) error {
	args := m.Called(ctx, topic, payload)
	return args.Error(0)
}

// =====================
// helpers
// =====================

func i64(v int64) *int64 { return &v }

func clientUser(id int64) *model.User {
	return &model.User{ID: id, Role: model.RoleClient}
}

func ownerUser(id int64) *model.User {
	return &model.User{ID: id, Role: model.RoleOwner}
}

func deliveryUser(id int64) *model.User {
	return &model.User{ID: id, Role: model.RoleDelivery}
}

func newOrderUsecase(t *testing.T) (*usecase.OrderUsecase, *TxManagerMock, *OrderRepoMock, *OrderItemRepoMock, *DishRepoMock, *RestaurantRepoMock, *PublisherMock) {
	t.Helper()

	orderRepo := new(OrderRepoMock)
	itemRepo := new(OrderItemRepoMock)
	dishRepo := new(DishRepoMock)
	restaurantRepo := new(RestaurantRepoMock)
	pub := new(PublisherMock)

	tx := &TxManagerMock{Repos: &TxReposMock{
		orders:      orderRepo,
		orderItems:  itemRepo,
		dishes:      dishRepo,
		restaurants: restaurantRepo,
	}}

	uc := usecase.NewOrderUsecase(tx, orderRepo, restaurantRepo, pub)
	return uc, tx, orderRepo, itemRepo, dishRepo, restaurantRepo, pub
}

func assertHTTPError(t *testing.T, err error, status int, message string) {
	t.Helper()
	he, ok := usecase.AsHTTPError(err)
	if assert.True(t, ok, "expected HTTPError, got %v", err) {
		assert.Equal(t, status, he.Status)
		assert.Equal(t, message, he.Message)
	}
}

// =====================
// CreateOrder
// =====================

func TestCreateOrder_Success(t *testing.T) {
	uc, tx, orderRepo, itemRepo, dishRepo, restaurantRepo, pub := newOrderUsecase(t)
	ctx := context.Background()

	restaurant := model.Restaurant{ID: 10, OwnerID: 5}
	restaurantRepo.On("FindByID", mock.Anything, int64(10)).Return(restaurant, nil)

	tx.On("WithinTx", mock.Anything).Return(nil)
	dishRepo.On("FindByID", mock.Anything, int64(1)).Return(model.Dish{ID: 1, RestaurantID: 10, Price: 700}, nil)
	dishRepo.On("FindByID", mock.Anything, int64(2)).Return(model.Dish{ID: 2, RestaurantID: 10, Price: 300}, nil)

	orderRepo.On("Create", mock.Anything, mock.MatchedBy(func(o *model.Order) bool {
		//合計は基本価格の合算、初期ステータスはPending
		return o.Total == 1000 &&
			o.Status == model.OrderStatusPending &&
			o.CustomerID != nil && *o.CustomerID == 77 &&
			o.RestaurantID != nil && *o.RestaurantID == 10 &&
			o.DriverID == nil
	})).Run(func(args mock.Arguments) {
		args.Get(1).(*model.Order).ID = 99
	}).Return(int64(99), nil)

	itemRepo.On("CreateBulk", mock.Anything, int64(99), mock.MatchedBy(func(items []model.OrderItem) bool {
		return len(items) == 2
	})).Return(nil)

	pub.On("Publish", mock.Anything, events.TopicPendingOrders, mock.MatchedBy(func(p interface{}) bool {
		payload, ok := p.(events.PendingOrderPayload)
		return ok && payload.OwnerID == 5 && payload.Order.ID == 99
	})).Return(nil)

	out, err := uc.CreateOrder(ctx, clientUser(77), usecase.CreateOrderInput{
		RestaurantID: 10,
		Items: []usecase.CreateOrderItemInput{
			{DishID: 1, Options: []model.OrderItemOption{{Name: "Spice Level", Choice: strPtr("Hot")}}},
			{DishID: 2},
		},
	})

	assert.NoError(t, err)
	assert.Equal(t, int64(99), out.OrderID)
	pub.AssertNumberOfCalls(t, "Publish", 1)
}

func strPtr(s string) *string { return &s }

func TestCreateOrder_RestaurantNotFound(t *testing.T) {
	uc, _, _, _, _, restaurantRepo, pub := newOrderUsecase(t)

	restaurantRepo.On("FindByID", mock.Anything, int64(10)).Return(model.Restaurant{}, repo.ErrNotFound)

	_, err := uc.CreateOrder(context.Background(), clientUser(1), usecase.CreateOrderInput{
		RestaurantID: 10,
		Items:        []usecase.CreateOrderItemInput{{DishID: 1}},
	})

	assertHTTPError(t, err, 404, "Restaurant not found")
	pub.AssertNotCalled(t, "Publish")
}

func TestCreateOrder_DishNotFound(t *testing.T) {
	uc, tx, orderRepo, _, dishRepo, restaurantRepo, pub := newOrderUsecase(t)

	restaurantRepo.On("FindByID", mock.Anything, int64(10)).Return(model.Restaurant{ID: 10}, nil)
	tx.On("WithinTx", mock.Anything).Return(nil)
	dishRepo.On("FindByID", mock.Anything, int64(1)).Return(model.Dish{ID: 1, RestaurantID: 10, Price: 500}, nil)
	//2皿目が存在しない
	dishRepo.On("FindByID", mock.Anything, int64(2)).Return(model.Dish{}, repo.ErrNotFound)

	_, err := uc.CreateOrder(context.Background(), clientUser(1), usecase.CreateOrderInput{
		RestaurantID: 10,
		Items:        []usecase.CreateOrderItemInput{{DishID: 1}, {DishID: 2}},
	})

	assertHTTPError(t, err, 404, "Dish not found")
	orderRepo.AssertNotCalled(t, "Create")
	pub.AssertNotCalled(t, "Publish")
}

func TestCreateOrder_DishFromAnotherRestaurant(t *testing.T) {
	uc, tx, orderRepo, _, dishRepo, restaurantRepo, pub := newOrderUsecase(t)

	restaurantRepo.On("FindByID", mock.Anything, int64(10)).Return(model.Restaurant{ID: 10}, nil)
	tx.On("WithinTx", mock.Anything).Return(nil)
	//別店舗の料理
	dishRepo.On("FindByID", mock.Anything, int64(1)).Return(model.Dish{ID: 1, RestaurantID: 11, Price: 500}, nil)

	_, err := uc.CreateOrder(context.Background(), clientUser(1), usecase.CreateOrderInput{
		RestaurantID: 10,
		Items:        []usecase.CreateOrderItemInput{{DishID: 1}},
	})

	assertHTTPError(t, err, 400, "Dish is not belong this restaurant")
	orderRepo.AssertNotCalled(t, "Create")
	pub.AssertNotCalled(t, "Publish")
}

func TestCreateOrder_RepositoryFailure(t *testing.T) {
	uc, tx, orderRepo, _, dishRepo, restaurantRepo, pub := newOrderUsecase(t)

	restaurantRepo.On("FindByID", mock.Anything, int64(10)).Return(model.Restaurant{ID: 10}, nil)
	tx.On("WithinTx", mock.Anything).Return(nil)
	dishRepo.On("FindByID", mock.Anything, int64(1)).Return(model.Dish{ID: 1, RestaurantID: 10, Price: 500}, nil)
	orderRepo.On("Create", mock.Anything, mock.Anything).Return(int64(0), errors.New("db down"))

	_, err := uc.CreateOrder(context.Background(), clientUser(1), usecase.CreateOrderInput{
		RestaurantID: 10,
		Items:        []usecase.CreateOrderItemInput{{DishID: 1}},
	})

	//内部の生エラーは漏らさない
	assertHTTPError(t, err, 500, "Could not create order")
	pub.AssertNotCalled(t, "Publish")
}

// =====================
// GetOrders
// =====================

func TestGetOrders_DispatchesByRole(t *testing.T) {
	uc, _, orderRepo, _, _, _, _ := newOrderUsecase(t)
	ctx := context.Background()

	noFilter := repo.OrderListFilter{}
	orderRepo.On("ListByCustomer", mock.Anything, int64(1), noFilter).Return([]model.Order{{ID: 1}}, nil)
	orderRepo.On("ListByDriver", mock.Anything, int64(2), noFilter).Return([]model.Order{{ID: 2}}, nil)
	orderRepo.On("ListByRestaurantOwner", mock.Anything, int64(3), noFilter).Return([]model.Order{{ID: 3}, {ID: 4}}, nil)

	out, err := uc.GetOrders(ctx, clientUser(1), usecase.GetOrdersInput{})
	assert.NoError(t, err)
	assert.Len(t, out.Orders, 1)

	out, err = uc.GetOrders(ctx, deliveryUser(2), usecase.GetOrdersInput{})
	assert.NoError(t, err)
	assert.Len(t, out.Orders, 1)

	out, err = uc.GetOrders(ctx, ownerUser(3), usecase.GetOrdersInput{})
	assert.NoError(t, err)
	assert.Len(t, out.Orders, 2)
}

func TestGetOrders_StatusFilterIsPassedThrough(t *testing.T) {
	uc, _, orderRepo, _, _, _, _ := newOrderUsecase(t)

	status := model.OrderStatusCooked
	orderRepo.On("ListByDriver", mock.Anything, int64(2), repo.OrderListFilter{Status: &status}).
		Return([]model.Order{}, nil)

	_, err := uc.GetOrders(context.Background(), deliveryUser(2), usecase.GetOrdersInput{Status: &status})
	assert.NoError(t, err)
	orderRepo.AssertExpectations(t)
}

func TestGetOrders_UnknownRole(t *testing.T) {
	uc, _, _, _, _, _, _ := newOrderUsecase(t)

	user := &model.User{ID: 1, Role: model.UserRole("Admin")}
	_, err := uc.GetOrders(context.Background(), user, usecase.GetOrdersInput{})

	assertHTTPError(t, err, 403, "You cannot do that")
}

func TestGetOrders_RepositoryFailure(t *testing.T) {
	uc, _, orderRepo, _, _, _, _ := newOrderUsecase(t)

	orderRepo.On("ListByCustomer", mock.Anything, int64(1), mock.Anything).
		Return(nil, errors.New("db down"))

	_, err := uc.GetOrders(context.Background(), clientUser(1), usecase.GetOrdersInput{})
	assertHTTPError(t, err, 500, "Could not get orders")
}

// =====================
// GetOrder（可視性）
// =====================

func visibleOrder() model.Order {
	return model.Order{
		ID:           50,
		CustomerID:   i64(1),
		DriverID:     i64(2),
		RestaurantID: i64(10),
		Restaurant:   &model.Restaurant{ID: 10, OwnerID: 3},
		Status:       model.OrderStatusPending,
	}
}

func TestGetOrder_VisibilityMatrix(t *testing.T) {
	cases := []struct {
		name    string
		user    *model.User
		canSee  bool
	}{
		{"customer of the order", clientUser(1), true},
		{"another client", clientUser(9), false},
		{"assigned driver", deliveryUser(2), true},
		{"another driver", deliveryUser(9), false},
		{"owner of the restaurant", ownerUser(3), true},
		{"another owner", ownerUser(9), false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			uc, _, orderRepo, _, _, _, _ := newOrderUsecase(t)
			orderRepo.On("FindByIDWithRestaurant", mock.Anything, int64(50)).Return(visibleOrder(), nil)

			out, err := uc.GetOrder(context.Background(), tc.user, 50)
			if tc.canSee {
				assert.NoError(t, err)
				assert.Equal(t, int64(50), out.Order.ID)
			} else {
				assertHTTPError(t, err, 403, "You cannot see that")
			}
		})
	}
}

func TestGetOrder_NotFound(t *testing.T) {
	uc, _, orderRepo, _, _, _, _ := newOrderUsecase(t)
	orderRepo.On("FindByIDWithRestaurant", mock.Anything, int64(50)).Return(model.Order{}, repo.ErrNotFound)

	_, err := uc.GetOrder(context.Background(), clientUser(1), 50)
	assertHTTPError(t, err, 404, "Order not found")
}

// =====================
// EditOrder（遷移の認可）
// =====================

func TestEditOrder_TransitionMatrix(t *testing.T) {
	cases := []struct {
		name    string
		user    *model.User
		status  model.OrderStatus
		allowed bool
	}{
		{"owner sets Cooking", ownerUser(3), model.OrderStatusCooking, true},
		{"owner sets Cooked", ownerUser(3), model.OrderStatusCooked, true},
		{"owner sets PickedUp", ownerUser(3), model.OrderStatusPickedUp, false},
		{"owner sets Delivered", ownerUser(3), model.OrderStatusDelivered, false},
		{"driver sets PickedUp", deliveryUser(2), model.OrderStatusPickedUp, true},
		{"driver sets Delivered", deliveryUser(2), model.OrderStatusDelivered, true},
		{"driver sets Cooking", deliveryUser(2), model.OrderStatusCooking, false},
		{"client sets Cooking", clientUser(1), model.OrderStatusCooking, false},
		{"client sets Delivered", clientUser(1), model.OrderStatusDelivered, false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			uc, _, orderRepo, _, _, _, pub := newOrderUsecase(t)
			orderRepo.On("FindByIDWithRestaurant", mock.Anything, int64(50)).Return(visibleOrder(), nil)
			orderRepo.On("UpdateStatus", mock.Anything, int64(50), tc.status).Return(nil)
			pub.On("Publish", mock.Anything, mock.Anything, mock.Anything).Return(nil)

			err := uc.EditOrder(context.Background(), tc.user, usecase.EditOrderInput{ID: 50, Status: tc.status})
			if tc.allowed {
				assert.NoError(t, err)
			} else {
				assertHTTPError(t, err, 403, "You cannot do that")
				orderRepo.AssertNotCalled(t, "UpdateStatus")
				pub.AssertNotCalled(t, "Publish")
			}
		})
	}
}

func TestEditOrder_OutsiderCannotSee(t *testing.T) {
	uc, _, orderRepo, _, _, _, pub := newOrderUsecase(t)
	orderRepo.On("FindByIDWithRestaurant", mock.Anything, int64(50)).Return(visibleOrder(), nil)

	//部外者には遷移チェックより先に可視性チェックが効く
	err := uc.EditOrder(context.Background(), ownerUser(9), usecase.EditOrderInput{ID: 50, Status: model.OrderStatusCooking})
	assertHTTPError(t, err, 403, "You cannot see that")
	pub.AssertNotCalled(t, "Publish")
}

func TestEditOrder_CookedPublishesTwice(t *testing.T) {
	uc, _, orderRepo, _, _, _, pub := newOrderUsecase(t)
	orderRepo.On("FindByIDWithRestaurant", mock.Anything, int64(50)).Return(visibleOrder(), nil)
	orderRepo.On("UpdateStatus", mock.Anything, int64(50), model.OrderStatusCooked).Return(nil)

	pub.On("Publish", mock.Anything, events.TopicCookedOrders, mock.MatchedBy(func(p interface{}) bool {
		payload, ok := p.(events.CookedOrderPayload)
		return ok && payload.CookedOrders.Status == model.OrderStatusCooked
	})).Return(nil)
	pub.On("Publish", mock.Anything, events.TopicOrderUpdates, mock.MatchedBy(func(p interface{}) bool {
		payload, ok := p.(events.OrderUpdatesPayload)
		return ok && payload.Order.Status == model.OrderStatusCooked
	})).Return(nil)

	err := uc.EditOrder(context.Background(), ownerUser(3), usecase.EditOrderInput{ID: 50, Status: model.OrderStatusCooked})
	assert.NoError(t, err)
	pub.AssertNumberOfCalls(t, "Publish", 2)
	pub.AssertExpectations(t)
}

func TestEditOrder_PickedUpPublishesOnce(t *testing.T) {
	uc, _, orderRepo, _, _, _, pub := newOrderUsecase(t)
	orderRepo.On("FindByIDWithRestaurant", mock.Anything, int64(50)).Return(visibleOrder(), nil)
	orderRepo.On("UpdateStatus", mock.Anything, int64(50), model.OrderStatusPickedUp).Return(nil)
	pub.On("Publish", mock.Anything, events.TopicOrderUpdates, mock.Anything).Return(nil)

	err := uc.EditOrder(context.Background(), deliveryUser(2), usecase.EditOrderInput{ID: 50, Status: model.OrderStatusPickedUp})
	assert.NoError(t, err)
	pub.AssertNumberOfCalls(t, "Publish", 1)
}

func TestEditOrder_UpdateFailure(t *testing.T) {
	uc, _, orderRepo, _, _, _, pub := newOrderUsecase(t)
	orderRepo.On("FindByIDWithRestaurant", mock.Anything, int64(50)).Return(visibleOrder(), nil)
	orderRepo.On("UpdateStatus", mock.Anything, int64(50), model.OrderStatusCooking).Return(errors.New("db down"))

	err := uc.EditOrder(context.Background(), ownerUser(3), usecase.EditOrderInput{ID: 50, Status: model.OrderStatusCooking})
	assertHTTPError(t, err, 500, "Could not edit order")
	pub.AssertNotCalled(t, "Publish")
}

// =====================
// TakeOrder
// =====================

func TestTakeOrder_Success(t *testing.T) {
	uc, _, orderRepo, _, _, _, pub := newOrderUsecase(t)

	order := model.Order{ID: 50, Status: model.OrderStatusCooked}
	orderRepo.On("FindByID", mock.Anything, int64(50)).Return(order, nil)
	orderRepo.On("AssignDriverIfVacant", mock.Anything, int64(50), int64(2)).Return(true, nil)
	pub.On("Publish", mock.Anything, events.TopicOrderUpdates, mock.MatchedBy(func(p interface{}) bool {
		payload, ok := p.(events.OrderUpdatesPayload)
		return ok && payload.Order.DriverID != nil && *payload.Order.DriverID == 2
	})).Return(nil)

	err := uc.TakeOrder(context.Background(), deliveryUser(2), 50)
	assert.NoError(t, err)
	pub.AssertNumberOfCalls(t, "Publish", 1)
}

func TestTakeOrder_AlreadyTaken(t *testing.T) {
	uc, _, orderRepo, _, _, _, pub := newOrderUsecase(t)

	order := model.Order{ID: 50, DriverID: i64(8)}
	orderRepo.On("FindByID", mock.Anything, int64(50)).Return(order, nil)

	err := uc.TakeOrder(context.Background(), deliveryUser(2), 50)
	assertHTTPError(t, err, 409, "This order already has a driver")
	orderRepo.AssertNotCalled(t, "AssignDriverIfVacant")
	pub.AssertNotCalled(t, "Publish")
}

func TestTakeOrder_LostRace(t *testing.T) {
	uc, _, orderRepo, _, _, _, pub := newOrderUsecase(t)

	//読み取り時点では空いていたが、条件付きUPDATEで負けた
	orderRepo.On("FindByID", mock.Anything, int64(50)).Return(model.Order{ID: 50}, nil)
	orderRepo.On("AssignDriverIfVacant", mock.Anything, int64(50), int64(2)).Return(false, nil)

	err := uc.TakeOrder(context.Background(), deliveryUser(2), 50)
	assertHTTPError(t, err, 409, "This order already has a driver")
	pub.AssertNotCalled(t, "Publish")
}

func TestTakeOrder_NotFound(t *testing.T) {
	uc, _, orderRepo, _, _, _, _ := newOrderUsecase(t)
	orderRepo.On("FindByID", mock.Anything, int64(50)).Return(model.Order{}, repo.ErrNotFound)

	err := uc.TakeOrder(context.Background(), deliveryUser(2), 50)
	assertHTTPError(t, err, 404, "Order not found")
}
