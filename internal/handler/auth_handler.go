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

type AuthHandler struct {
	uc *usecase.AccountUsecase
}

func NewAuthHandler(uc *usecase.AccountUsecase) *AuthHandler {
	return &AuthHandler{uc: uc}
}

func (h *AuthHandler) RegisterRoutes(e *echo.Echo, cfg config.Config, userRepo repository.UserRepository) {
	e.POST("/users", h.signup)
	e.POST("/login", h.login)
	e.POST("/verify-email", h.verifyEmail)

	g := e.Group("/me")
	g.Use(middleware.AuthJWT(cfg, userRepo))
	g.GET("", h.me)
	g.PUT("", h.editProfile)

	a := e.Group("/addresses")
	a.Use(middleware.AuthJWT(cfg, userRepo), middleware.RoleGuard(model.RoleClient))
	a.POST("", h.createAddress)
	a.GET("", h.myAddresses)
	a.PUT("/:id/select", h.selectAddress)
	a.DELETE("/:id", h.deleteAddress)
}

type signupRequest struct {
	Email    string         `json:"email" validate:"required,email"`
	Password string         `json:"password" validate:"required,min=8"`
	Role     model.UserRole `json:"role" validate:"required"`
}

func (h *AuthHandler) signup(c echo.Context) error {
	var req signupRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}

	err := h.uc.CreateAccount(c.Request().Context(), usecase.CreateAccountInput{
		Email:    req.Email,
		Password: req.Password,
		Role:     req.Role,
	})
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusCreated, OkResponse{Ok: true})
}

type loginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type loginResponse struct {
	Ok    bool   `json:"ok"`
	Token string `json:"token"`
}

func (h *AuthHandler) login(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}

	out, err := h.uc.Login(c.Request().Context(), usecase.LoginInput{
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, loginResponse{Ok: true, Token: out.Token})
}

type verifyEmailRequest struct {
	Code string `json:"code" validate:"required"`
}

func (h *AuthHandler) verifyEmail(c echo.Context) error {
	var req verifyEmailRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}

	if err := h.uc.VerifyEmail(c.Request().Context(), req.Code); err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, OkResponse{Ok: true})
}

type meResponse struct {
	Ok   bool        `json:"ok"`
	User *model.User `json:"user"`
}

func (h *AuthHandler) me(c echo.Context) error {
	user, ok := getUserFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
	}
	return c.JSON(http.StatusOK, meResponse{Ok: true, User: user})
}

type editProfileRequest struct {
	Email    *string `json:"email"`
	Password *string `json:"password"`
}

func (h *AuthHandler) editProfile(c echo.Context) error {
	user, ok := getUserFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
	}

	var req editProfileRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}

	err := h.uc.EditProfile(c.Request().Context(), user, usecase.EditProfileInput{
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, OkResponse{Ok: true})
}

type addressCreateRequest struct {
	Address string  `json:"address" validate:"required"`
	Lat     float64 `json:"lat"`
	Lng     float64 `json:"lng"`
}

type addressCreateResponse struct {
	Ok        bool  `json:"ok"`
	AddressID int64 `json:"address_id"`
}

func (h *AuthHandler) createAddress(c echo.Context) error {
	user, ok := getUserFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
	}

	var req addressCreateRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}

	out, err := h.uc.CreateAddress(c.Request().Context(), user, usecase.CreateAddressInput{
		Address: req.Address,
		Lat:     req.Lat,
		Lng:     req.Lng,
	})
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, addressCreateResponse{Ok: true, AddressID: out.AddressID})
}

type myAddressesResponse struct {
	Ok        bool            `json:"ok"`
	Addresses []model.Address `json:"addresses"`
}

func (h *AuthHandler) myAddresses(c echo.Context) error {
	user, ok := getUserFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
	}

	out, err := h.uc.MyAddresses(c.Request().Context(), user)
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, myAddressesResponse{Ok: true, Addresses: out.Addresses})
}

func (h *AuthHandler) selectAddress(c echo.Context) error {
	user, ok := getUserFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
	}

	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid id"})
	}

	if err := h.uc.SelectAddress(c.Request().Context(), user, id); err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, OkResponse{Ok: true})
}

func (h *AuthHandler) deleteAddress(c echo.Context) error {
	user, ok := getUserFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
	}

	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid id"})
	}

	if err := h.uc.DeleteAddress(c.Request().Context(), user, id); err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, OkResponse{Ok: true})
}
