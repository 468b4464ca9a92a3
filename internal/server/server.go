package server

import (
	"app/internal/config"
	"app/internal/handler"
	"app/internal/repository"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
)

// リクエストボディのvalidateタグを検証する
type requestValidator struct {
	validate *validator.Validate
}

func (v *requestValidator) Validate(i interface{}) error {
	return v.validate.Struct(i)
}

// ルートを登録できるhandlerの約束
type Routable interface {
	RegisterRoutes(e *echo.Echo, cfg config.Config, userRepo repository.UserRepository)
}

// New はechoを組み立てて全ルートを登録する
func New(cfg config.Config, userRepo repository.UserRepository, handlers ...Routable) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Validator = &requestValidator{validate: validator.New()}

	e.Use(echomw.Logger())
	e.Use(echomw.Recover())
	e.Use(echomw.CORS())

	for _, h := range handlers {
		h.RegisterRoutes(e, cfg, userRepo)
	}

	return e
}

// Start はサーバーを起動する
func Start(e *echo.Echo, port string) error {
	return e.Start(":" + port)
}

var _ Routable = (*handler.AuthHandler)(nil)
var _ Routable = (*handler.RestaurantHandler)(nil)
var _ Routable = (*handler.OrderHandler)(nil)
var _ Routable = (*handler.PaymentHandler)(nil)
var _ Routable = (*handler.UploadHandler)(nil)
