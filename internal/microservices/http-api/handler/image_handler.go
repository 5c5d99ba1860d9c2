package handler

import (
	"context"
	"errors"
	"net/http"
	"time"

	"shohorbari/internal/microservices/http-api/dto"
	"shohorbari/internal/microservices/http-api/middleware"
	"shohorbari/internal/microservices/http-api/service"

	"github.com/gin-gonic/gin"
)

const (
	uploadTimeout = 30 * time.Second
	// room for the multipart envelope around the file itself
	multipartOverhead = 1 << 20
)

type ImageHandler struct {
	svc       service.ImageService
	maxUpload int64
}

func NewImageHandler(svc service.ImageService, maxUpload int64) *ImageHandler {
	return &ImageHandler{svc: svc, maxUpload: maxUpload}
}

func (h *ImageHandler) RegisterRoutes(rg *gin.RouterGroup) {
	images := rg.Group("/ads/:id/images")
	images.GET("", h.List)
	images.POST("", h.Create)
	images.GET("/:image_id", h.Get)
	images.PUT("/:image_id", h.Replace)
	images.DELETE("/:image_id", h.Delete)
}

func (h *ImageHandler) List(c *gin.Context) {
	adID, ok := pathID(c, "id")
	if !ok {
		return
	}
	ctx, cancel := withTimeout(c)
	defer cancel()

	images, err := h.svc.List(ctx, adID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.FromModelsToImageResponses(images))
}

func (h *ImageHandler) Get(c *gin.Context) {
	adID, ok := pathID(c, "id")
	if !ok {
		return
	}
	id, ok := pathID(c, "image_id")
	if !ok {
		return
	}
	ctx, cancel := withTimeout(c)
	defer cancel()

	img, err := h.svc.Get(ctx, adID, id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.FromModelToImageResponse(img))
}

func (h *ImageHandler) Create(c *gin.Context) {
	adID, ok := pathID(c, "id")
	if !ok {
		return
	}
	h.withUpload(c, func(ctx context.Context, up service.Upload) {
		img, err := h.svc.Create(ctx, middleware.Principal(c), adID, up)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusCreated, dto.FromModelToImageResponse(img))
	})
}

func (h *ImageHandler) Replace(c *gin.Context) {
	adID, ok := pathID(c, "id")
	if !ok {
		return
	}
	id, ok := pathID(c, "image_id")
	if !ok {
		return
	}
	h.withUpload(c, func(ctx context.Context, up service.Upload) {
		img, err := h.svc.Replace(ctx, middleware.Principal(c), adID, id, up)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, dto.FromModelToImageResponse(img))
	})
}

func (h *ImageHandler) Delete(c *gin.Context) {
	adID, ok := pathID(c, "id")
	if !ok {
		return
	}
	id, ok := pathID(c, "image_id")
	if !ok {
		return
	}
	ctx, cancel := withTimeout(c)
	defer cancel()

	if err := h.svc.Delete(ctx, middleware.Principal(c), adID, id); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// withUpload opens the multipart "image" field and hands it to fn
func (h *ImageHandler) withUpload(c *gin.Context, fn func(ctx context.Context, up service.Upload)) {
	if h.maxUpload > 0 {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.maxUpload+multipartOverhead)
	}

	fh, err := c.FormFile("image")
	if err != nil {
		var tooLarge *http.MaxBytesError
		msg := "this field is required"
		if errors.As(err, &tooLarge) {
			msg = "file too large"
		}
		respondError(c, service.NewValidationError("image", msg))
		return
	}

	f, err := fh.Open()
	if err != nil {
		respondError(c, service.NewValidationError("image", "unreadable upload"))
		return
	}
	defer f.Close()

	ctx, cancel := context.WithTimeout(c.Request.Context(), uploadTimeout)
	defer cancel()
	fn(ctx, service.Upload{Body: f, Size: fh.Size})
}
