package handler

import (
	"net/http"
	"strconv"

	"app/internal/config"
	"app/internal/domain/model"
	"app/internal/middleware"
	"app/internal/repository"
	"app/internal/usecase"

	"github.com/labstack/echo/v4"
)

type RestaurantHandler struct {
	uc *usecase.RestaurantUsecase
}

func NewRestaurantHandler(uc *usecase.RestaurantUsecase) *RestaurantHandler {
	return &RestaurantHandler{uc: uc}
}

func (h *RestaurantHandler) RegisterRoutes(e *echo.Echo, cfg config.Config, userRepo repository.UserRepository) {
	//公開エンドポイント（認証不要）
	e.GET("/restaurants", h.search)
	e.GET("/restaurants/nearby", h.nearby)
	e.GET("/restaurants/:id", h.detail)
	e.GET("/categories", h.categories)
	e.GET("/categories/:slug", h.category)

	//オーナー専用
	g := e.Group("/my/restaurants")
	g.Use(middleware.AuthJWT(cfg, userRepo), middleware.RoleGuard(model.RoleOwner))
	g.POST("", h.create)
	g.GET("", h.myRestaurants)
	g.GET("/:id", h.myRestaurant)
	g.PUT("/:id", h.edit)
	g.DELETE("/:id", h.delete)

	d := e.Group("/dishes")
	d.Use(middleware.AuthJWT(cfg, userRepo), middleware.RoleGuard(model.RoleOwner))
	d.POST("", h.createDish)
	d.PUT("/:id", h.editDish)
	d.DELETE("/:id", h.deleteDish)
}

type restaurantCreateRequest struct {
	Name         string  `json:"name" validate:"required"`
	CoverImg     string  `json:"cover_img"`
	Address      string  `json:"address" validate:"required"`
	Lat          float64 `json:"lat"`
	Lng          float64 `json:"lng"`
	CategoryName string  `json:"category_name" validate:"required"`
}

type restaurantCreateResponse struct {
	Ok           bool  `json:"ok"`
	RestaurantID int64 `json:"restaurant_id"`
}

func (h *RestaurantHandler) create(c echo.Context) error {
	user, ok := getUserFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
	}

	var req restaurantCreateRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}

	out, err := h.uc.CreateRestaurant(c.Request().Context(), user, usecase.CreateRestaurantInput{
		Name:         req.Name,
		CoverImg:     req.CoverImg,
		Address:      req.Address,
		Lat:          req.Lat,
		Lng:          req.Lng,
		CategoryName: req.CategoryName,
	})
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, restaurantCreateResponse{Ok: true, RestaurantID: out.RestaurantID})
}

type myRestaurantsResponse struct {
	Ok          bool               `json:"ok"`
	Restaurants []model.Restaurant `json:"restaurants"`
}

func (h *RestaurantHandler) myRestaurants(c echo.Context) error {
	user, ok := getUserFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
	}

	out, err := h.uc.MyRestaurants(c.Request().Context(), user)
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, myRestaurantsResponse{Ok: true, Restaurants: out.Restaurants})
}

type restaurantResponse struct {
	Ok         bool             `json:"ok"`
	Restaurant model.Restaurant `json:"restaurant"`
}

func (h *RestaurantHandler) myRestaurant(c echo.Context) error {
	user, ok := getUserFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
	}

	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid id"})
	}

	out, err := h.uc.MyRestaurant(c.Request().Context(), user, id)
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, restaurantResponse{Ok: true, Restaurant: out.Restaurant})
}

type restaurantEditRequest struct {
	Name         *string `json:"name"`
	CoverImg     *string `json:"cover_img"`
	Address      *string `json:"address"`
	CategoryName *string `json:"category_name"`
}

func (h *RestaurantHandler) edit(c echo.Context) error {
	user, ok := getUserFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
	}

	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid id"})
	}

	var req restaurantEditRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}

	err = h.uc.EditRestaurant(c.Request().Context(), user, usecase.EditRestaurantInput{
		RestaurantID: id,
		Name:         req.Name,
		CoverImg:     req.CoverImg,
		Address:      req.Address,
		CategoryName: req.CategoryName,
	})
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, OkResponse{Ok: true})
}

func (h *RestaurantHandler) delete(c echo.Context) error {
	user, ok := getUserFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
	}

	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid id"})
	}

	if err := h.uc.DeleteRestaurant(c.Request().Context(), user, id); err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, OkResponse{Ok: true})
}

type categoriesResponse struct {
	Ok         bool             `json:"ok"`
	Categories []model.Category `json:"categories"`
}

func (h *RestaurantHandler) categories(c echo.Context) error {
	out, err := h.uc.AllCategories(c.Request().Context())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, categoriesResponse{Ok: true, Categories: out.Categories})
}

type categoryResponse struct {
	Ok           bool               `json:"ok"`
	Category     model.Category     `json:"category"`
	Restaurants  []model.Restaurant `json:"restaurants"`
	TotalPages   int                `json:"total_pages"`
	TotalResults int64              `json:"total_results"`
}

func (h *RestaurantHandler) category(c echo.Context) error {
	page, limit := pagination(c)

	out, err := h.uc.FindCategoryBySlug(c.Request().Context(), usecase.CategoryInput{
		Slug:  c.Param("slug"),
		Page:  page,
		Limit: limit,
	})
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, categoryResponse{
		Ok:           true,
		Category:     out.Category,
		Restaurants:  out.Restaurants,
		TotalPages:   out.TotalPages,
		TotalResults: out.TotalResults,
	})
}

func (h *RestaurantHandler) detail(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid id"})
	}

	out, err := h.uc.FindRestaurantByID(c.Request().Context(), id)
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, restaurantResponse{Ok: true, Restaurant: out.Restaurant})
}

type restaurantsPageResponse struct {
	Ok           bool               `json:"ok"`
	Restaurants  []model.Restaurant `json:"restaurants"`
	TotalPages   int                `json:"total_pages"`
	TotalResults int64              `json:"total_results"`
}

func (h *RestaurantHandler) search(c echo.Context) error {
	page, limit := pagination(c)

	out, err := h.uc.SearchRestaurantByName(c.Request().Context(), usecase.SearchRestaurantInput{
		Query: c.QueryParam("q"),
		Page:  page,
		Limit: limit,
	})
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, restaurantsPageResponse{
		Ok:           true,
		Restaurants:  out.Restaurants,
		TotalPages:   out.TotalPages,
		TotalResults: out.TotalResults,
	})
}

func (h *RestaurantHandler) nearby(c echo.Context) error {
	lat, err := strconv.ParseFloat(c.QueryParam("lat"), 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid lat"})
	}
	lng, err := strconv.ParseFloat(c.QueryParam("lng"), 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid lng"})
	}
	page, limit := pagination(c)

	out, err := h.uc.FindNearbyRestaurants(c.Request().Context(), usecase.NearbyRestaurantsInput{
		Lat:   lat,
		Lng:   lng,
		Page:  page,
		Limit: limit,
	})
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, restaurantsPageResponse{
		Ok:           true,
		Restaurants:  out.Restaurants,
		TotalPages:   out.TotalPages,
		TotalResults: out.TotalResults,
	})
}

type dishCreateRequest struct {
	RestaurantID int64             `json:"restaurant_id" validate:"required,gt=0"`
	Name         string            `json:"name" validate:"required"`
	Price        float64           `json:"price" validate:"gte=0"`
	Photo        *string           `json:"photo"`
	Description  *string           `json:"description"`
	Options      model.DishOptions `json:"options"`
}

type dishCreateResponse struct {
	Ok     bool  `json:"ok"`
	DishID int64 `json:"dish_id"`
}

func (h *RestaurantHandler) createDish(c echo.Context) error {
	user, ok := getUserFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
	}

	var req dishCreateRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}

	out, err := h.uc.CreateDish(c.Request().Context(), user, usecase.CreateDishInput{
		RestaurantID: req.RestaurantID,
		Name:         req.Name,
		Price:        req.Price,
		Photo:        req.Photo,
		Description:  req.Description,
		Options:      req.Options,
	})
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, dishCreateResponse{Ok: true, DishID: out.DishID})
}

type dishEditRequest struct {
	Name        *string           `json:"name"`
	Price       *float64          `json:"price"`
	Photo       *string           `json:"photo"`
	Description *string           `json:"description"`
	Options     model.DishOptions `json:"options"`
}

func (h *RestaurantHandler) editDish(c echo.Context) error {
	user, ok := getUserFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
	}

	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid id"})
	}

	var req dishEditRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}

	err = h.uc.EditDish(c.Request().Context(), user, usecase.EditDishInput{
		DishID:      id,
		Name:        req.Name,
		Price:       req.Price,
		Photo:       req.Photo,
		Description: req.Description,
		Options:     req.Options,
	})
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, OkResponse{Ok: true})
}

func (h *RestaurantHandler) deleteDish(c echo.Context) error {
	user, ok := getUserFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
	}

	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid id"})
	}

	if err := h.uc.DeleteDish(c.Request().Context(), user, id); err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, OkResponse{Ok: true})
}
