package handler

import (
	"errors"
	"io"
	"net/http"

	"shohorbari/internal/microservices/http-api/dto"
	"shohorbari/internal/microservices/http-api/middleware"
	"shohorbari/internal/microservices/http-api/service"

	"github.com/gin-gonic/gin"
)

type RentRequestHandler struct {
	svc service.RentRequestService
}

func NewRentRequestHandler(svc service.RentRequestService) *RentRequestHandler {
	return &RentRequestHandler{svc: svc}
}

func (h *RentRequestHandler) RegisterRoutes(rg *gin.RouterGroup) {
	requests := rg.Group("/ads/:id/requests")
	requests.GET("", h.List)
	requests.POST("", h.Create)
	requests.GET("/:request_id", h.Get)
	requests.POST("/:request_id/accept", h.Accept)

	rg.GET("/requests/mine", h.ListMine)
}

// List returns the requests of an advertisement to its owner; anyone else
// signed in gets an empty list
func (h *RentRequestHandler) List(c *gin.Context) {
	adID, ok := pathID(c, "id")
	if !ok {
		return
	}
	ctx, cancel := withTimeout(c)
	defer cancel()

	reqs, err := h.svc.List(ctx, middleware.Principal(c), adID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.FromModelsToRentRequestResponses(reqs))
}

func (h *RentRequestHandler) Create(c *gin.Context) {
	adID, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req dto.CreateRentRequestRequest
	// the body is optional
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		respondBindError(c, err)
		return
	}
	ctx, cancel := withTimeout(c)
	defer cancel()

	rr, err := h.svc.Create(ctx, middleware.Principal(c), adID, req.Message)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, dto.FromModelToRentRequestResponse(rr))
}

func (h *RentRequestHandler) Get(c *gin.Context) {
	adID, ok := pathID(c, "id")
	if !ok {
		return
	}
	id, ok := pathID(c, "request_id")
	if !ok {
		return
	}
	ctx, cancel := withTimeout(c)
	defer cancel()

	rr, err := h.svc.Get(ctx, middleware.Principal(c), adID, id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.FromModelToRentRequestResponse(rr))
}

// Accept marks the request accepted and closes every other open request of the advertisement
func (h *RentRequestHandler) Accept(c *gin.Context) {
	adID, ok := pathID(c, "id")
	if !ok {
		return
	}
	id, ok := pathID(c, "request_id")
	if !ok {
		return
	}
	ctx, cancel := withTimeout(c)
	defer cancel()

	rr, err := h.svc.Accept(ctx, middleware.Principal(c), adID, id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.FromModelToRentRequestResponse(rr))
}

func (h *RentRequestHandler) ListMine(c *gin.Context) {
	ctx, cancel := withTimeout(c)
	defer cancel()

	reqs, err := h.svc.ListMine(ctx, middleware.Principal(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.FromModelsToRentRequestResponses(reqs))
}
