package repository

import (
	"app/internal/domain/model"
	"context"
)

type DishRepository interface {
	Create(ctx context.Context, d *model.Dish) error
	FindByID(ctx context.Context, dishID int64) (model.Dish, error)
	//restaurant付きで1件取得（オーナーチェック用）
	FindByIDWithRestaurant(ctx context.Context, dishID int64) (model.Dish, error)
	Update(ctx context.Context, d *model.Dish) error
	Delete(ctx context.Context, dishID int64) error
}
