package handler

import (
	"net/http"

	"app/internal/config"
	"app/internal/domain/model"
	"app/internal/middleware"
	"app/internal/repository"
	"app/internal/usecase"

	"github.com/labstack/echo/v4"
)

type PaymentHandler struct {
	uc *usecase.PaymentUsecase
}

func NewPaymentHandler(uc *usecase.PaymentUsecase) *PaymentHandler {
	return &PaymentHandler{uc: uc}
}

func (h *PaymentHandler) RegisterRoutes(e *echo.Echo, cfg config.Config, userRepo repository.UserRepository) {
	g := e.Group("/payments")
	g.Use(middleware.AuthJWT(cfg, userRepo), middleware.RoleGuard(model.RoleOwner))
	g.POST("", h.create)
	g.GET("", h.list)
}

type paymentCreateRequest struct {
	TransactionID string `json:"transaction_id" validate:"required"`
	RestaurantID  int64  `json:"restaurant_id" validate:"required,gt=0"`
}

func (h *PaymentHandler) create(c echo.Context) error {
	user, ok := getUserFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
	}

	var req paymentCreateRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}

	err := h.uc.CreatePayment(c.Request().Context(), user, usecase.CreatePaymentInput{
		TransactionID: req.TransactionID,
		RestaurantID:  req.RestaurantID,
	})
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, OkResponse{Ok: true})
}

type paymentsResponse struct {
	Ok       bool            `json:"ok"`
	Payments []model.Payment `json:"payments"`
}

func (h *PaymentHandler) list(c echo.Context) error {
	user, ok := getUserFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
	}

	out, err := h.uc.GetPayments(c.Request().Context(), user)
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, paymentsResponse{Ok: true, Payments: out.Payments})
}
