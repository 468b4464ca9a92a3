package handler

import (
	"net/http"
	"strconv"

	"app/internal/domain/model"
	"app/internal/middleware"
	"app/internal/usecase"

	"github.com/labstack/echo/v4"
)

// 失敗レスポンスの共通形
type ErrorResponse struct {
	Ok    bool   `json:"ok"`
	Error string `json:"error"`
}

// 成功だけ伝えるレスポンス
type OkResponse struct {
	Ok bool `json:"ok"`
}

// usecaseのエラーをHTTPレスポンスに変換する
func writeError(c echo.Context, err error) error {
	if he, ok := usecase.AsHTTPError(err); ok {
		return c.JSON(he.Status, ErrorResponse{Error: he.Message})
	}
	return c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal server error"})
}

// AuthJWTが入れた認証済みユーザーを取り出す
func getUserFromContext(c echo.Context) (*model.User, bool) {
	user, ok := c.Get(middleware.CtxUserKey).(*model.User)
	if !ok || user == nil {
		return nil, false
	}
	return user, true
}

// page/limitの既定値
func pagination(c echo.Context) (int, int) {
	page := intQuery(c, "page", 1)
	limit := intQuery(c, "limit", 25)
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 25
	}
	return page, limit
}

func intQuery(c echo.Context, name string, def int) int {
	v := c.QueryParam(name)
	if v == "" {
		return def
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return i
}
