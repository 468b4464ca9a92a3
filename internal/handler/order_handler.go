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

type OrderHandler struct {
	uc *usecase.OrderUsecase
}

func NewOrderHandler(uc *usecase.OrderUsecase) *OrderHandler {
	return &OrderHandler{uc: uc}
}

type orderItemRequest struct {
	DishID  int64                   `json:"dish_id" validate:"required,gt=0"`
	Options []model.OrderItemOption `json:"options"`
}

type orderCreateRequest struct {
	RestaurantID int64              `json:"restaurant_id" validate:"required,gt=0"`
	Items        []orderItemRequest `json:"items" validate:"required,min=1,dive"`
}

type orderEditRequest struct {
	Status model.OrderStatus `json:"status" validate:"required"`
}

func (h *OrderHandler) RegisterRoutes(e *echo.Echo, cfg config.Config, userRepo repository.UserRepository) {
	g := e.Group("/orders")
	g.Use(middleware.AuthJWT(cfg, userRepo))

	g.POST("", h.create, middleware.RoleGuard(model.RoleClient))
	g.GET("", h.list)
	g.GET("/:id", h.detail)
	g.PUT("/:id/status", h.editStatus, middleware.RoleGuard(model.RoleOwner, model.RoleDelivery))
	g.POST("/:id/take", h.take, middleware.RoleGuard(model.RoleDelivery))
}

type createOrderResponse struct {
	Ok      bool  `json:"ok"`
	OrderID int64 `json:"order_id"`
}

func (h *OrderHandler) create(c echo.Context) error {
	user, ok := getUserFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
	}

	var req orderCreateRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}

	items := make([]usecase.CreateOrderItemInput, 0, len(req.Items))
	for _, it := range req.Items {
		items = append(items, usecase.CreateOrderItemInput{
			DishID:  it.DishID,
			Options: it.Options,
		})
	}

	out, err := h.uc.CreateOrder(c.Request().Context(), user, usecase.CreateOrderInput{
		RestaurantID: req.RestaurantID,
		Items:        items,
	})
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, createOrderResponse{Ok: true, OrderID: out.OrderID})
}

type listOrdersResponse struct {
	Ok     bool          `json:"ok"`
	Orders []model.Order `json:"orders"`
}

func (h *OrderHandler) list(c echo.Context) error {
	user, ok := getUserFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
	}

	//statusパラメータ無しは「絞り込みなし」
	var status *model.OrderStatus
	if v := c.QueryParam("status"); v != "" {
		s := model.OrderStatus(v)
		status = &s
	}

	out, err := h.uc.GetOrders(c.Request().Context(), user, usecase.GetOrdersInput{Status: status})
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, listOrdersResponse{Ok: true, Orders: out.Orders})
}

type orderDetailResponse struct {
	Ok    bool        `json:"ok"`
	Order model.Order `json:"order"`
}

func (h *OrderHandler) detail(c echo.Context) error {
	user, ok := getUserFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
	}

	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid id"})
	}

	out, err := h.uc.GetOrder(c.Request().Context(), user, id)
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, orderDetailResponse{Ok: true, Order: out.Order})
}

func (h *OrderHandler) editStatus(c echo.Context) error {
	user, ok := getUserFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
	}

	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid id"})
	}

	var req orderEditRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}

	err = h.uc.EditOrder(c.Request().Context(), user, usecase.EditOrderInput{
		ID:     id,
		Status: req.Status,
	})
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, OkResponse{Ok: true})
}

func (h *OrderHandler) take(c echo.Context) error {
	user, ok := getUserFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
	}

	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid id"})
	}

	if err := h.uc.TakeOrder(c.Request().Context(), user, id); err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, OkResponse{Ok: true})
}
