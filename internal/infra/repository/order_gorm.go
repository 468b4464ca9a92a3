package repository

import (
	"app/internal/domain/model"
	repo "app/internal/repository"
	"context"
	"errors"

	"gorm.io/gorm"
)

type orderGormRepository struct {
	db *gorm.DB
}

func NewOrderGormRepository(db *gorm.DB) repo.OrderRepository {
	return &orderGormRepository{db: db}
}

func (r *orderGormRepository) Create(ctx context.Context, order *model.Order) (int64, error) {
	if err := r.db.WithContext(ctx).Omit("Items").Create(order).Error; err != nil {
		return 0, err
	}
	return order.ID, nil
}

func (r *orderGormRepository) FindByID(ctx context.Context, orderID int64) (model.Order, error) {
	var o model.Order
	err := r.db.WithContext(ctx).Where("id = ?", orderID).First(&o).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return model.Order{}, repo.ErrNotFound
	}
	if err != nil {
		return model.Order{}, err
	}
	return o, nil
}

func (r *orderGormRepository) FindByIDWithRestaurant(ctx context.Context, orderID int64) (model.Order, error) {
	var o model.Order
	err := r.db.WithContext(ctx).
		Preload("Restaurant").
		Preload("Items").
		Where("id = ?", orderID).
		First(&o).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return model.Order{}, repo.ErrNotFound
	}
	if err != nil {
		return model.Order{}, err
	}
	return o, nil
}

// Statusがnilなら条件を足さない
func withStatus(q *gorm.DB, f repo.OrderListFilter) *gorm.DB {
	if f.Status != nil {
		q = q.Where("orders.status = ?", *f.Status)
	}
	return q
}

func (r *orderGormRepository) ListByCustomer(ctx context.Context, customerID int64, f repo.OrderListFilter) ([]model.Order, error) {
	var items []model.Order
	q := r.db.WithContext(ctx).Where("customer_id = ?", customerID)
	err := withStatus(q, f).Order("id desc").Find(&items).Error
	if err != nil {
		return []model.Order{}, err
	}
	return items, nil
}

func (r *orderGormRepository) ListByDriver(ctx context.Context, driverID int64, f repo.OrderListFilter) ([]model.Order, error) {
	var items []model.Order
	q := r.db.WithContext(ctx).Where("driver_id = ?", driverID)
	err := withStatus(q, f).Order("id desc").Find(&items).Error
	if err != nil {
		return []model.Order{}, err
	}
	return items, nil
}

// オーナーの全店舗の注文をJOINで横断する
func (r *orderGormRepository) ListByRestaurantOwner(ctx context.Context, ownerID int64, f repo.OrderListFilter) ([]model.Order, error) {
	var items []model.Order
	q := r.db.WithContext(ctx).Model(&model.Order{}).
		Joins("JOIN restaurants ON restaurants.id = orders.restaurant_id").
		Where("restaurants.owner_id = ?", ownerID)
	err := withStatus(q, f).Order("orders.id desc").Find(&items).Error
	if err != nil {
		return []model.Order{}, err
	}
	return items, nil
}

func (r *orderGormRepository) UpdateStatus(ctx context.Context, orderID int64, status model.OrderStatus) error {
	res := r.db.WithContext(ctx).Model(&model.Order{}).
		Where("id = ?", orderID).
		Update("status", status)

	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return repo.ErrNotFound
	}
	return nil
}

// 条件付きUPDATEで同時クレームの競合を防ぐ
func (r *orderGormRepository) AssignDriverIfVacant(ctx context.Context, orderID int64, driverID int64) (bool, error) {
	res := r.db.WithContext(ctx).Model(&model.Order{}).
		Where("id = ? AND driver_id IS NULL", orderID).
		Update("driver_id", driverID)

	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}
