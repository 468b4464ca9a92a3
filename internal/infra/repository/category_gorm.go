package repository

import (
	"app/internal/domain/model"
	repo "app/internal/repository"
	"context"
	"errors"
	"strings"

	"gorm.io/gorm"
)

type categoryGormRepository struct {
	db *gorm.DB
}

func NewCategoryGormRepository(db *gorm.DB) repo.CategoryRepository {
	return &categoryGormRepository{db: db}
}

// "Fast Food" -> "fast-food"
func categorySlug(name string) string {
	trimmed := strings.ToLower(strings.TrimSpace(name))
	return strings.ReplaceAll(trimmed, " ", "-")
}

// slugで探して、無ければ新規作成して返す
func (r *categoryGormRepository) GetOrCreate(ctx context.Context, name string) (model.Category, error) {
	slug := categorySlug(name)

	var c model.Category
	err := r.db.WithContext(ctx).Where("slug = ?", slug).First(&c).Error
	if err == nil {
		return c, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return model.Category{}, err
	}

	c = model.Category{
		Name: strings.ToLower(strings.TrimSpace(name)),
		Slug: slug,
	}
	if err := r.db.WithContext(ctx).Create(&c).Error; err != nil {
		return model.Category{}, err
	}
	return c, nil
}

func (r *categoryGormRepository) FindAll(ctx context.Context) ([]model.Category, error) {
	var items []model.Category
	if err := r.db.WithContext(ctx).Order("name asc").Find(&items).Error; err != nil {
		return []model.Category{}, err
	}
	return items, nil
}

func (r *categoryGormRepository) FindBySlug(ctx context.Context, slug string) (model.Category, error) {
	var c model.Category
	err := r.db.WithContext(ctx).Where("slug = ?", slug).First(&c).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return model.Category{}, repo.ErrNotFound
	}
	if err != nil {
		return model.Category{}, err
	}
	return c, nil
}

func (r *categoryGormRepository) CountRestaurants(ctx context.Context, categoryID int64) (int64, error) {
	var total int64
	err := r.db.WithContext(ctx).Model(&model.Restaurant{}).
		Where("category_id = ?", categoryID).
		Count(&total).Error
	if err != nil {
		return 0, err
	}
	return total, nil
}
