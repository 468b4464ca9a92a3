package repository

import (
	"app/internal/domain/model"
	"context"
)

type CategoryRepository interface {
	//nameから取得。無ければslugを作って新規作成
	GetOrCreate(ctx context.Context, name string) (model.Category, error)
	FindAll(ctx context.Context) ([]model.Category, error)
	FindBySlug(ctx context.Context, slug string) (model.Category, error)
	//カテゴリに属する店舗数
	CountRestaurants(ctx context.Context, categoryID int64) (int64, error)
}
