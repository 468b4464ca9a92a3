package repository

import (
	"app/internal/domain/model"
	repo "app/internal/repository"
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
)

type restaurantGormRepository struct {
	db *gorm.DB
}

func NewRestaurantGormRepository(db *gorm.DB) repo.RestaurantRepository {
	return &restaurantGormRepository{db: db}
}

func (r *restaurantGormRepository) Create(ctx context.Context, rest *model.Restaurant) error {
	return r.db.WithContext(ctx).Create(rest).Error
}

func (r *restaurantGormRepository) Update(ctx context.Context, rest *model.Restaurant) error {
	return r.db.WithContext(ctx).Save(rest).Error
}

func (r *restaurantGormRepository) Delete(ctx context.Context, restaurantID int64) error {
	res := r.db.WithContext(ctx).Delete(&model.Restaurant{}, restaurantID)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return repo.ErrNotFound
	}
	return nil
}

func (r *restaurantGormRepository) FindByID(ctx context.Context, restaurantID int64) (model.Restaurant, error) {
	var rest model.Restaurant
	err := r.db.WithContext(ctx).
		Preload("Category").
		Where("id = ?", restaurantID).
		First(&rest).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return model.Restaurant{}, repo.ErrNotFound
	}
	if err != nil {
		return model.Restaurant{}, err
	}
	return rest, nil
}

func (r *restaurantGormRepository) FindByIDWithMenu(ctx context.Context, restaurantID int64) (model.Restaurant, error) {
	var rest model.Restaurant
	err := r.db.WithContext(ctx).
		Preload("Category").
		Preload("Menu").
		Where("id = ?", restaurantID).
		First(&rest).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return model.Restaurant{}, repo.ErrNotFound
	}
	if err != nil {
		return model.Restaurant{}, err
	}
	return rest, nil
}

func (r *restaurantGormRepository) ListByOwner(ctx context.Context, ownerID int64) ([]model.Restaurant, error) {
	var items []model.Restaurant
	err := r.db.WithContext(ctx).
		Preload("Category").
		Where("owner_id = ?", ownerID).
		Order("id desc").
		Find(&items).Error
	if err != nil {
		return []model.Restaurant{}, err
	}
	return items, nil
}

// プロモーション中の店舗を先頭にして返す
func (r *restaurantGormRepository) ListByCategory(ctx context.Context, categoryID int64, q repo.RestaurantListQuery) ([]model.Restaurant, int64, error) {
	base := r.db.WithContext(ctx).Model(&model.Restaurant{}).
		Where("category_id = ?", categoryID)

	var total int64
	if err := base.Count(&total).Error; err != nil {
		return []model.Restaurant{}, 0, err
	}

	var items []model.Restaurant
	offset := (q.Page - 1) * q.Limit
	err := base.
		Order("is_promoted desc").
		Order("id desc").
		Limit(q.Limit).
		Offset(offset).
		Find(&items).Error
	if err != nil {
		return []model.Restaurant{}, 0, err
	}

	return items, total, nil
}

func (r *restaurantGormRepository) SearchByName(ctx context.Context, query string, q repo.RestaurantListQuery) ([]model.Restaurant, int64, error) {
	base := r.db.WithContext(ctx).Model(&model.Restaurant{}).
		Where("name ILIKE ?", "%"+query+"%")

	var total int64
	if err := base.Count(&total).Error; err != nil {
		return []model.Restaurant{}, 0, err
	}

	var items []model.Restaurant
	offset := (q.Page - 1) * q.Limit
	err := base.
		Order("id desc").
		Limit(q.Limit).
		Offset(offset).
		Find(&items).Error
	if err != nil {
		return []model.Restaurant{}, 0, err
	}

	return items, total, nil
}

// PostGISで半径内を距離順に返す。lat/lngカラムからその場でgeographyを作る
func (r *restaurantGormRepository) FindNearby(ctx context.Context, q repo.NearbyQuery) ([]model.Restaurant, int64, error) {
	offset := (q.Page - 1) * q.Limit

	var items []model.Restaurant
	err := r.db.WithContext(ctx).Raw(`
		SELECT *,
		  ST_Distance(ST_MakePoint(lng, lat)::geography, ST_MakePoint(?, ?)::geography) AS distance
		FROM restaurants
		WHERE ST_DWithin(ST_MakePoint(lng, lat)::geography, ST_MakePoint(?, ?)::geography, ?)
		ORDER BY distance
		LIMIT ? OFFSET ?
	`, q.Lng, q.Lat, q.Lng, q.Lat, q.Radius, q.Limit, offset).Scan(&items).Error
	if err != nil {
		return []model.Restaurant{}, 0, err
	}

	var total int64
	err = r.db.WithContext(ctx).Raw(`
		SELECT COUNT(*)
		FROM restaurants
		WHERE ST_DWithin(ST_MakePoint(lng, lat)::geography, ST_MakePoint(?, ?)::geography, ?)
	`, q.Lng, q.Lat, q.Radius).Scan(&total).Error
	if err != nil {
		return []model.Restaurant{}, 0, err
	}

	return items, total, nil
}

func (r *restaurantGormRepository) ListPromotedExpired(ctx context.Context, now time.Time) ([]model.Restaurant, error) {
	var items []model.Restaurant
	err := r.db.WithContext(ctx).
		Where("is_promoted = ? AND promoted_until < ?", true, now).
		Find(&items).Error
	if err != nil {
		return []model.Restaurant{}, err
	}
	return items, nil
}
