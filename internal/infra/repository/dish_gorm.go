package repository

import (
	"app/internal/domain/model"
	repo "app/internal/repository"
	"context"
	"errors"

	"gorm.io/gorm"
)

type dishGormRepository struct {
	db *gorm.DB
}

func NewDishGormRepository(db *gorm.DB) repo.DishRepository {
	return &dishGormRepository{db: db}
}

func (r *dishGormRepository) Create(ctx context.Context, d *model.Dish) error {
	return r.db.WithContext(ctx).Create(d).Error
}

func (r *dishGormRepository) FindByID(ctx context.Context, dishID int64) (model.Dish, error) {
	var d model.Dish
	err := r.db.WithContext(ctx).Where("id = ?", dishID).First(&d).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return model.Dish{}, repo.ErrNotFound
	}
	if err != nil {
		return model.Dish{}, err
	}
	return d, nil
}

func (r *dishGormRepository) FindByIDWithRestaurant(ctx context.Context, dishID int64) (model.Dish, error) {
	var d model.Dish
	err := r.db.WithContext(ctx).
		Preload("Restaurant").
		Where("id = ?", dishID).
		First(&d).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return model.Dish{}, repo.ErrNotFound
	}
	if err != nil {
		return model.Dish{}, err
	}
	return d, nil
}

func (r *dishGormRepository) Update(ctx context.Context, d *model.Dish) error {
	return r.db.WithContext(ctx).Save(d).Error
}

func (r *dishGormRepository) Delete(ctx context.Context, dishID int64) error {
	res := r.db.WithContext(ctx).Delete(&model.Dish{}, dishID)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return repo.ErrNotFound
	}
	return nil
}
