package handler

import (
	"net/http"

	"shohorbari/internal/microservices/http-api/dto"
	"shohorbari/internal/microservices/http-api/middleware"
	"shohorbari/internal/microservices/http-api/repository"
	"shohorbari/internal/microservices/http-api/service"

	"github.com/gin-gonic/gin"
)

type AdvertisementHandler struct {
	svc service.AdvertisementService
}

func NewAdvertisementHandler(svc service.AdvertisementService) *AdvertisementHandler {
	return &AdvertisementHandler{svc: svc}
}

// RegisterRoutes mounts /ads. Nested resources (images, reviews, requests)
// share the ":id" segment for the advertisement.
func (h *AdvertisementHandler) RegisterRoutes(rg *gin.RouterGroup) {
	ads := rg.Group("/ads")
	ads.GET("", h.List)
	ads.POST("", h.Create)
	ads.GET("/pending", h.ListPending)
	ads.GET("/:id", h.Get)
	ads.PUT("/:id", h.Update)
	ads.PATCH("/:id", h.Update)
	ads.DELETE("/:id", h.Delete)
	ads.POST("/:id/approve", h.Approve)
}

// List: GET /ads?category=&approved=&search=&ordering=&page=&page_size=
func (h *AdvertisementHandler) List(c *gin.Context) {
	var q dto.ListAdvertisementsQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		respondBindError(c, err)
		return
	}
	ctx, cancel := withTimeout(c)
	defer cancel()

	ads, total, applied, err := h.svc.List(ctx, repository.AdFilter{
		CategoryID: q.Category,
		Approved:   q.Approved,
		Search:     q.Search,
		Ordering:   q.Ordering,
		Page:       q.Page,
		PageSize:   q.PageSize,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewPaginatedAdvertisementResponse(ads, total, applied.Page, applied.PageSize))
}

func (h *AdvertisementHandler) Get(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	ctx, cancel := withTimeout(c)
	defer cancel()

	ad, err := h.svc.Get(ctx, id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.FromModelToAdvertisementResponse(ad))
}

func (h *AdvertisementHandler) Create(c *gin.Context) {
	var req dto.CreateAdvertisementRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}
	ctx, cancel := withTimeout(c)
	defer cancel()

	ad := req.ToModel()
	if err := h.svc.Create(ctx, middleware.Principal(c), ad); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, dto.FromModelToAdvertisementResponse(ad))
}

// Update serves PUT and PATCH alike: fields left out of the body keep their value
func (h *AdvertisementHandler) Update(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req dto.UpdateAdvertisementRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}
	ctx, cancel := withTimeout(c)
	defer cancel()

	ad, err := h.svc.Update(ctx, middleware.Principal(c), id, &req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.FromModelToAdvertisementResponse(ad))
}

func (h *AdvertisementHandler) Delete(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	ctx, cancel := withTimeout(c)
	defer cancel()

	if err := h.svc.Delete(ctx, middleware.Principal(c), id); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *AdvertisementHandler) Approve(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	ctx, cancel := withTimeout(c)
	defer cancel()

	ad, err := h.svc.Approve(ctx, middleware.Principal(c), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.FromModelToAdvertisementResponse(ad))
}

func (h *AdvertisementHandler) ListPending(c *gin.Context) {
	ctx, cancel := withTimeout(c)
	defer cancel()

	ads, err := h.svc.ListPending(ctx, middleware.Principal(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.FromModelsToAdvertisementResponses(ads))
}
