package usecase

import (
	"context"
	"errors"
	"fmt"
	"math"
	"net/http"

	"app/internal/domain/model"
	repo "app/internal/repository"
)

type HTTPError struct {
	Status  int
	Message string
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("%d: %s", e.Status, e.Message)
}

func NewHTTPError(status int, message string) error {
	return &HTTPError{
		Status:  status,
		Message: message,
	}
}

func AsHTTPError(err error) (*HTTPError, bool) {
	var he *HTTPError
	ok := errors.As(err, &he)
	return he, ok
}

// 近隣検索の半径（メートル）
const nearbyRadius = 3000

// RestaurantUsecase は店舗・カテゴリ・メニューのカタログ業務ロジックです。
type RestaurantUsecase struct {
	restaurants repo.RestaurantRepository
	categories  repo.CategoryRepository
	dishes      repo.DishRepository
}

func NewRestaurantUsecase(
	restaurants repo.RestaurantRepository,
	categories repo.CategoryRepository,
	dishes repo.DishRepository,
) *RestaurantUsecase {
	return &RestaurantUsecase{
		restaurants: restaurants,
		categories:  categories,
		dishes:      dishes,
	}
}

// 店舗を読み、オーナー本人かを確認する共通処理
func (u *RestaurantUsecase) findAndCheck(ctx context.Context, restaurantID int64, owner *model.User, usage string) (model.Restaurant, error) {
	restaurant, err := u.restaurants.FindByID(ctx, restaurantID)
	if errors.Is(err, repo.ErrNotFound) {
		return model.Restaurant{}, NewHTTPError(http.StatusNotFound, "Restaurant not found")
	}
	if err != nil {
		return model.Restaurant{}, err
	}
	if restaurant.OwnerID != owner.ID {
		return model.Restaurant{}, NewHTTPError(
			http.StatusForbidden,
			fmt.Sprintf("You cannot %s a restaurant that you don't own", usage),
		)
	}
	return restaurant, nil
}

type CreateRestaurantInput struct {
	Name         string
	CoverImg     string
	Address      string
	Lat          float64
	Lng          float64
	CategoryName string
}

type CreateRestaurantOutput struct {
	RestaurantID int64 `json:"restaurant_id"`
}

func (u *RestaurantUsecase) CreateRestaurant(ctx context.Context, owner *model.User, in CreateRestaurantInput) (CreateRestaurantOutput, error) {
	var out CreateRestaurantOutput

	category, err := u.categories.GetOrCreate(ctx, in.CategoryName)
	if err != nil {
		return out, NewHTTPError(http.StatusInternalServerError, "Could not create restaurant")
	}

	restaurant := model.Restaurant{
		Name:       in.Name,
		CoverImg:   in.CoverImg,
		Address:    in.Address,
		Lat:        in.Lat,
		Lng:        in.Lng,
		CategoryID: &category.ID,
		OwnerID:    owner.ID,
	}
	if err := u.restaurants.Create(ctx, &restaurant); err != nil {
		return out, NewHTTPError(http.StatusInternalServerError, "Could not create restaurant")
	}

	out.RestaurantID = restaurant.ID
	return out, nil
}

type MyRestaurantsOutput struct {
	Restaurants []model.Restaurant `json:"restaurants"`
}

func (u *RestaurantUsecase) MyRestaurants(ctx context.Context, owner *model.User) (MyRestaurantsOutput, error) {
	restaurants, err := u.restaurants.ListByOwner(ctx, owner.ID)
	if err != nil {
		return MyRestaurantsOutput{}, NewHTTPError(http.StatusInternalServerError, "Could not load restaurants")
	}
	return MyRestaurantsOutput{Restaurants: restaurants}, nil
}

type RestaurantOutput struct {
	Restaurant model.Restaurant `json:"restaurant"`
}

// MyRestaurant はオーナー自身の店舗詳細（menu付き）を返す
func (u *RestaurantUsecase) MyRestaurant(ctx context.Context, owner *model.User, restaurantID int64) (RestaurantOutput, error) {
	var out RestaurantOutput

	restaurant, err := u.restaurants.FindByIDWithMenu(ctx, restaurantID)
	if errors.Is(err, repo.ErrNotFound) {
		return out, NewHTTPError(http.StatusNotFound, "Restaurant not found")
	}
	if err != nil {
		return out, NewHTTPError(http.StatusInternalServerError, "Could not load restaurant")
	}
	if restaurant.OwnerID != owner.ID {
		return out, NewHTTPError(http.StatusForbidden, "You cannot see a restaurant that you don't own")
	}

	out.Restaurant = restaurant
	return out, nil
}

type EditRestaurantInput struct {
	RestaurantID int64
	Name         *string
	CoverImg     *string
	Address      *string
	CategoryName *string
}

func (u *RestaurantUsecase) EditRestaurant(ctx context.Context, owner *model.User, in EditRestaurantInput) error {
	restaurant, err := u.findAndCheck(ctx, in.RestaurantID, owner, "edit")
	if err != nil {
		if _, ok := AsHTTPError(err); ok {
			return err
		}
		return NewHTTPError(http.StatusInternalServerError, "Could not edit restaurant")
	}

	if in.Name != nil {
		restaurant.Name = *in.Name
	}
	if in.CoverImg != nil {
		restaurant.CoverImg = *in.CoverImg
	}
	if in.Address != nil {
		restaurant.Address = *in.Address
	}
	if in.CategoryName != nil {
		category, err := u.categories.GetOrCreate(ctx, *in.CategoryName)
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "Could not edit restaurant")
		}
		restaurant.CategoryID = &category.ID
		restaurant.Category = nil
	}

	if err := u.restaurants.Update(ctx, &restaurant); err != nil {
		return NewHTTPError(http.StatusInternalServerError, "Could not edit restaurant")
	}
	return nil
}

func (u *RestaurantUsecase) DeleteRestaurant(ctx context.Context, owner *model.User, restaurantID int64) error {
	if _, err := u.findAndCheck(ctx, restaurantID, owner, "delete"); err != nil {
		if _, ok := AsHTTPError(err); ok {
			return err
		}
		return NewHTTPError(http.StatusInternalServerError, "Could not delete restaurant")
	}

	if err := u.restaurants.Delete(ctx, restaurantID); err != nil {
		return NewHTTPError(http.StatusInternalServerError, "Could not delete restaurant")
	}
	return nil
}

type AllCategoriesOutput struct {
	Categories []model.Category `json:"categories"`
}

func (u *RestaurantUsecase) AllCategories(ctx context.Context) (AllCategoriesOutput, error) {
	categories, err := u.categories.FindAll(ctx)
	if err != nil {
		return AllCategoriesOutput{}, NewHTTPError(http.StatusInternalServerError, "Could not load categories")
	}
	return AllCategoriesOutput{Categories: categories}, nil
}

type CategoryInput struct {
	Slug  string
	Page  int
	Limit int
}

type CategoryOutput struct {
	Category     model.Category     `json:"category"`
	Restaurants  []model.Restaurant `json:"restaurants"`
	TotalPages   int                `json:"total_pages"`
	TotalResults int64              `json:"total_results"`
}

func (u *RestaurantUsecase) FindCategoryBySlug(ctx context.Context, in CategoryInput) (CategoryOutput, error) {
	var out CategoryOutput

	category, err := u.categories.FindBySlug(ctx, in.Slug)
	if errors.Is(err, repo.ErrNotFound) {
		return out, NewHTTPError(http.StatusNotFound, "Category not found")
	}
	if err != nil {
		return out, NewHTTPError(http.StatusInternalServerError, "Could not load category")
	}

	restaurants, total, err := u.restaurants.ListByCategory(ctx, category.ID, repo.RestaurantListQuery{
		Page:  in.Page,
		Limit: in.Limit,
	})
	if err != nil {
		return out, NewHTTPError(http.StatusInternalServerError, "Could not load category")
	}

	out.Category = category
	out.Restaurants = restaurants
	out.TotalResults = total
	out.TotalPages = int(math.Ceil(float64(total) / float64(in.Limit)))
	return out, nil
}

func (u *RestaurantUsecase) FindRestaurantByID(ctx context.Context, restaurantID int64) (RestaurantOutput, error) {
	var out RestaurantOutput

	restaurant, err := u.restaurants.FindByIDWithMenu(ctx, restaurantID)
	if errors.Is(err, repo.ErrNotFound) {
		return out, NewHTTPError(http.StatusNotFound, "Restaurant not found")
	}
	if err != nil {
		return out, NewHTTPError(http.StatusInternalServerError, "Could not find restaurant")
	}

	out.Restaurant = restaurant
	return out, nil
}

type SearchRestaurantInput struct {
	Query string
	Page  int
	Limit int
}

type RestaurantsPageOutput struct {
	Restaurants  []model.Restaurant `json:"restaurants"`
	TotalPages   int                `json:"total_pages"`
	TotalResults int64              `json:"total_results"`
}

func (u *RestaurantUsecase) SearchRestaurantByName(ctx context.Context, in SearchRestaurantInput) (RestaurantsPageOutput, error) {
	var out RestaurantsPageOutput

	restaurants, total, err := u.restaurants.SearchByName(ctx, in.Query, repo.RestaurantListQuery{
		Page:  in.Page,
		Limit: in.Limit,
	})
	if err != nil {
		return out, NewHTTPError(http.StatusInternalServerError, "Could not search restaurants")
	}

	out.Restaurants = restaurants
	out.TotalResults = total
	out.TotalPages = int(math.Ceil(float64(total) / float64(in.Limit)))
	return out, nil
}

type NearbyRestaurantsInput struct {
	Lat   float64
	Lng   float64
	Page  int
	Limit int
}

// FindNearbyRestaurants は現在地から半径3km以内の店舗を距離順に返す
func (u *RestaurantUsecase) FindNearbyRestaurants(ctx context.Context, in NearbyRestaurantsInput) (RestaurantsPageOutput, error) {
	var out RestaurantsPageOutput

	restaurants, total, err := u.restaurants.FindNearby(ctx, repo.NearbyQuery{
		Lat:    in.Lat,
		Lng:    in.Lng,
		Radius: nearbyRadius,
		Page:   in.Page,
		Limit:  in.Limit,
	})
	if err != nil {
		return out, NewHTTPError(http.StatusInternalServerError, "Could not find restaurants")
	}

	out.Restaurants = restaurants
	out.TotalResults = total
	out.TotalPages = int(math.Ceil(float64(total) / float64(in.Limit)))
	return out, nil
}

type CreateDishInput struct {
	RestaurantID int64
	Name         string
	Price        float64
	Photo        *string
	Description  *string
	Options      model.DishOptions
}

type CreateDishOutput struct {
	DishID int64 `json:"dish_id"`
}

func (u *RestaurantUsecase) CreateDish(ctx context.Context, owner *model.User, in CreateDishInput) (CreateDishOutput, error) {
	var out CreateDishOutput

	restaurant, err := u.findAndCheck(ctx, in.RestaurantID, owner, "add a dish to")
	if err != nil {
		if _, ok := AsHTTPError(err); ok {
			return out, err
		}
		return out, NewHTTPError(http.StatusInternalServerError, "Could not create dish")
	}

	dish := model.Dish{
		Name:         in.Name,
		Price:        in.Price,
		Photo:        in.Photo,
		Description:  in.Description,
		RestaurantID: restaurant.ID,
		Options:      in.Options,
	}
	if err := u.dishes.Create(ctx, &dish); err != nil {
		return out, NewHTTPError(http.StatusInternalServerError, "Could not create dish")
	}

	out.DishID = dish.ID
	return out, nil
}

type EditDishInput struct {
	DishID      int64
	Name        *string
	Price       *float64
	Photo       *string
	Description *string
	Options     model.DishOptions
}

func (u *RestaurantUsecase) EditDish(ctx context.Context, owner *model.User, in EditDishInput) error {
	dish, err := u.dishes.FindByIDWithRestaurant(ctx, in.DishID)
	if errors.Is(err, repo.ErrNotFound) {
		return NewHTTPError(http.StatusNotFound, "Dish not found")
	}
	if err != nil {
		return NewHTTPError(http.StatusInternalServerError, "Could not edit dish")
	}
	if dish.Restaurant == nil || dish.Restaurant.OwnerID != owner.ID {
		return NewHTTPError(http.StatusForbidden, "You are not allowed to do this")
	}

	if in.Name != nil {
		dish.Name = *in.Name
	}
	if in.Price != nil {
		dish.Price = *in.Price
	}
	if in.Photo != nil {
		dish.Photo = in.Photo
	}
	if in.Description != nil {
		dish.Description = in.Description
	}
	if in.Options != nil {
		dish.Options = in.Options
	}
	dish.Restaurant = nil

	if err := u.dishes.Update(ctx, &dish); err != nil {
		return NewHTTPError(http.StatusInternalServerError, "Could not edit dish")
	}
	return nil
}

func (u *RestaurantUsecase) DeleteDish(ctx context.Context, owner *model.User, dishID int64) error {
	dish, err := u.dishes.FindByIDWithRestaurant(ctx, dishID)
	if errors.Is(err, repo.ErrNotFound) {
		return NewHTTPError(http.StatusNotFound, "Dish not found")
	}
	if err != nil {
		return NewHTTPError(http.StatusInternalServerError, "Could not delete dish")
	}
	if dish.Restaurant == nil || dish.Restaurant.OwnerID != owner.ID {
		return NewHTTPError(http.StatusForbidden, "You are not allowed to do this")
	}

	if err := u.dishes.Delete(ctx, dishID); err != nil {
		return NewHTTPError(http.StatusInternalServerError, "Could not delete dish")
	}
	return nil
}
