package reservation

import (
	"errors"
	"net/http"
	"strconv"

	"roomreserve/internal/domain"
	"roomreserve/internal/middleware"
	"roomreserve/internal/pkg/response"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/reservations", h.Create)
	rg.GET("/reservations", h.List)
	rg.GET("/reservations/:id", h.Get)
	rg.PATCH("/reservations/:id/cancel", h.Cancel)
	rg.PATCH("/reservations/:id/approve", middleware.AdminOnly(), h.Approve)
	rg.GET("/rooms/:id/occupied-slots", h.OccupiedSlots)
	rg.GET("/rooms/:id/agenda", h.Agenda)
}

func (h *Handler) Create(c *gin.Context) {
	var req CreateReservationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}

	userID := c.GetInt64("user_id")
	role := domain.UserRole(c.GetString("role"))

	res, err := h.service.Create(c.Request.Context(), userID, role, req)
	if err != nil {
		h.respondError(c, err)
		return
	}

	response.Success(c, http.StatusCreated, gin.H{
		"reservation": toResponse(res, h.service.Now()),
	})
}

func (h *Handler) List(c *gin.Context) {
	var q ListReservationsQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid query parameters")
		return
	}

	userID := c.GetInt64("user_id")
	role := domain.UserRole(c.GetString("role"))

	rows, total, err := h.service.List(c.Request.Context(), userID, role, q)
	if err != nil {
		h.respondError(c, err)
		return
	}

	now := h.service.Now()
	out := make([]ReservationResponse, 0, len(rows))
	for i := range rows {
		out = append(out, toResponse(&rows[i], now))
	}

	limit := q.Limit
	if limit <= 0 {
		limit = 10
	}
	page := q.Page
	if page <= 0 {
		page = 1
	}
	totalPages := (total + int64(limit) - 1) / int64(limit)

	response.Success(c, http.StatusOK, gin.H{
		"reservations": out,
		"pagination": gin.H{
			"page":        page,
			"limit":       limit,
			"total":       total,
			"total_pages": totalPages,
		},
	})
}

func (h *Handler) Get(c *gin.Context) {
	id, ok := h.paramID(c)
	if !ok {
		return
	}

	userID := c.GetInt64("user_id")
	role := domain.UserRole(c.GetString("role"))

	res, err := h.service.Get(c.Request.Context(), id, userID, role)
	if err != nil {
		h.respondError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{
		"reservation": toResponse(res, h.service.Now()),
	})
}

func (h *Handler) Cancel(c *gin.Context) {
	id, ok := h.paramID(c)
	if !ok {
		return
	}

	userID := c.GetInt64("user_id")
	role := domain.UserRole(c.GetString("role"))

	res, err := h.service.Cancel(c.Request.Context(), id, userID, role)
	if err != nil {
		h.respondError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{
		"reservation": toResponse(res, h.service.Now()),
	})
}

func (h *Handler) Approve(c *gin.Context) {
	id, ok := h.paramID(c)
	if !ok {
		return
	}

	res, err := h.service.Approve(c.Request.Context(), id)
	if err != nil {
		h.respondError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{
		"reservation": toResponse(res, h.service.Now()),
	})
}

func (h *Handler) OccupiedSlots(c *gin.Context) {
	id, ok := h.paramID(c)
	if !ok {
		return
	}

	view, err := h.service.OccupiedSlots(c.Request.Context(), id, c.Query("date"))
	if err != nil {
		h.respondError(c, err)
		return
	}

	response.Success(c, http.StatusOK, view)
}

func (h *Handler) Agenda(c *gin.Context) {
	id, ok := h.paramID(c)
	if !ok {
		return
	}

	rows, err := h.service.RoomAgenda(c.Request.Context(), id, c.Query("date"))
	if err != nil {
		h.respondError(c, err)
		return
	}

	now := h.service.Now()
	out := make([]ReservationResponse, 0, len(rows))
	for i := range rows {
		out = append(out, toResponse(&rows[i], now))
	}

	response.Success(c, http.StatusOK, gin.H{"agenda": out})
}

func (h *Handler) paramID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "INVALID_ID", "Invalid id")
		return 0, false
	}
	return id, true
}

func (h *Handler) respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrValidation):
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
	case errors.Is(err, ErrConflict):
		response.Error(c, http.StatusConflict, "RESERVATION_CONFLICT", err.Error())
	case errors.Is(err, ErrNotFound):
		response.Error(c, http.StatusNotFound, "NOT_FOUND", err.Error())
	case errors.Is(err, ErrInvalidState):
		response.Error(c, http.StatusBadRequest, "INVALID_STATE", err.Error())
	default:
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Unexpected error")
	}
}
