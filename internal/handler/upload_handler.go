package handler

import (
	"net/http"

	"app/internal/config"
	"app/internal/middleware"
	"app/internal/repository"
	"app/internal/upload"

	"github.com/labstack/echo/v4"
)

type UploadHandler struct {
	uploader upload.Uploader
}

func NewUploadHandler(uploader upload.Uploader) *UploadHandler {
	return &UploadHandler{uploader: uploader}
}

func (h *UploadHandler) RegisterRoutes(e *echo.Echo, cfg config.Config, userRepo repository.UserRepository) {
	g := e.Group("/uploads")
	g.Use(middleware.AuthJWT(cfg, userRepo))
	g.POST("", h.upload)
}

type uploadResponse struct {
	Ok  bool   `json:"ok"`
	URL string `json:"url"`
}

// 画像のみ、5MBまで
const maxUploadSize = 5 << 20

var allowedImageTypes = map[string]bool{
	"image/jpg":  true,
	"image/jpeg": true,
	"image/png":  true,
	"image/webp": true,
}

func (h *UploadHandler) upload(c echo.Context) error {
	if h.uploader == nil {
		return c.JSON(http.StatusServiceUnavailable, ErrorResponse{Error: "uploads are disabled"})
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "file is required"})
	}
	if fileHeader.Size > maxUploadSize {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "file is too large"})
	}

	contentType := fileHeader.Header.Get("Content-Type")
	if !allowedImageTypes[contentType] {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "only image files are allowed"})
	}

	file, err := fileHeader.Open()
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "file is required"})
	}
	defer file.Close()

	url, err := h.uploader.Upload(c.Request().Context(), fileHeader.Filename, contentType, file)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Could not upload file"})
	}

	return c.JSON(http.StatusOK, uploadResponse{Ok: true, URL: url})
}
