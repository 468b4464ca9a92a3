package repository

import (
	"app/internal/domain/model"
	"context"
	"errors"
	"time"
)

var ErrNotFound = errors.New("not found")

// 一覧検索
type RestaurantListQuery struct {
	Page  int
	Limit int
}

// 近隣検索の入力。半径はメートル
type NearbyQuery struct {
	Lat    float64
	Lng    float64
	Radius float64
	Page   int
	Limit  int
}

// 店舗の永続化（保存・取得）だけを約束。
type RestaurantRepository interface {
	Create(ctx context.Context, r *model.Restaurant) error
	Update(ctx context.Context, r *model.Restaurant) error
	Delete(ctx context.Context, restaurantID int64) error

	FindByID(ctx context.Context, restaurantID int64) (model.Restaurant, error)
	//menu付きで1件取得
	FindByIDWithMenu(ctx context.Context, restaurantID int64) (model.Restaurant, error)
	ListByOwner(ctx context.Context, ownerID int64) ([]model.Restaurant, error)

	//カテゴリ内の店舗一覧。プロモーション中を先頭に
	ListByCategory(ctx context.Context, categoryID int64, q RestaurantListQuery) ([]model.Restaurant, int64, error)
	//名前の部分一致検索（ILIKE）
	SearchByName(ctx context.Context, query string, q RestaurantListQuery) ([]model.Restaurant, int64, error)
	//PostGISで半径内の店舗を距離順に返す
	FindNearby(ctx context.Context, q NearbyQuery) ([]model.Restaurant, int64, error)

	//期限切れプロモーションの店舗一覧
	ListPromotedExpired(ctx context.Context, now time.Time) ([]model.Restaurant, error)
}
