package booking

import (
	"errors"
	"net/http"
	"strconv"

	"tourstay/internal/domain"
	"tourstay/internal/pkg/response"
	"tourstay/internal/repository"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/bookings", h.CreateBooking)
	rg.GET("/bookings/:reference", h.GetByReference)
}

func (h *Handler) RegisterAdminRoutes(admin *gin.RouterGroup) {
	admin.GET("/bookings", h.ListBookings)
	admin.POST("/bookings", h.CreateAdminBooking)
	admin.PATCH("/bookings/:id/status", h.UpdateStatus)
}

// CreateBooking is the public booking endpoint for both stays and tours.
func (h *Handler) CreateBooking(c *gin.Context) {
	var req CreateBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}

	channel := domain.ChannelWeb
	if req.Channel == string(domain.ChannelPartner) {
		channel = domain.ChannelPartner
	}

	b, err := h.service.CreateBooking(c.Request.Context(), req, channel)
	if err != nil {
		handleBookingError(c, err)
		return
	}

	response.Success(c, http.StatusCreated, gin.H{"booking": toBookingResponse(b)})
}

// CreateAdminBooking accepts the same payload but books on the admin
// channel, which starts the record confirmed.
func (h *Handler) CreateAdminBooking(c *gin.Context) {
	var req CreateBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}

	b, err := h.service.CreateBooking(c.Request.Context(), req, domain.ChannelAdmin)
	if err != nil {
		handleBookingError(c, err)
		return
	}

	response.Success(c, http.StatusCreated, gin.H{"booking": toBookingResponse(b)})
}

func (h *Handler) GetByReference(c *gin.Context) {
	b, err := h.service.GetByReference(c.Request.Context(), c.Param("reference"))
	if err != nil {
		handleBookingError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"booking": b})
}

func (h *Handler) ListBookings(c *gin.Context) {
	var f repository.BookingFilters
	f.Status = c.Query("status")
	f.Type = c.Query("type")

	if v := c.Query("room_id"); v != "" {
		f.RoomID, _ = strconv.ParseInt(v, 10, 64)
	}
	if v := c.Query("departure_id"); v != "" {
		f.DepartureID, _ = strconv.ParseInt(v, 10, 64)
	}

	f.Limit = 20
	if v := c.Query("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 && n <= 100 {
			f.Limit = n
		}
	}
	if v := c.Query("page"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			f.Offset = (n - 1) * f.Limit
		}
	}

	bookings, total, err := h.service.ListBookings(c.Request.Context(), f)
	if err != nil {
		handleBookingError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{
		"bookings": bookings,
		"total":    total,
	})
}

// UpdateStatus is the admin status-change endpoint driving the
// transition handler.
func (h *Handler) UpdateStatus(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid booking id")
		return
	}

	var req StatusUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}

	b, err := h.service.TransitionStatus(c.Request.Context(), id, req.Status, req.AdminNotes)
	if err != nil {
		handleBookingError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"booking": b})
}

func toBookingResponse(b *domain.Booking) BookingResponse {
	return BookingResponse{
		BookingID:   b.ID,
		Reference:   b.Reference,
		Status:      string(b.Status),
		TotalAmount: b.TotalAmount,
		Currency:    b.Currency,
	}
}

func handleBookingError(c *gin.Context, err error) {
	var vErr *ValidationError
	switch {
	case errors.As(err, &vErr):
		response.ErrorWithDetails(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid booking request", vErr.Fields)
	case errors.Is(err, ErrValidation):
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid booking request")
	case errors.Is(err, ErrCapacityExceeded):
		response.Error(c, http.StatusConflict, "CAPACITY_EXCEEDED", "No availability for the requested dates or seats")
	case errors.Is(err, ErrInvalidTransition):
		response.Error(c, http.StatusBadRequest, "INVALID_TRANSITION", "Status change is not allowed from the current state")
	case errors.Is(err, ErrNotFound):
		response.Error(c, http.StatusNotFound, "NOT_FOUND", "Booking not found")
	default:
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to process booking")
	}
}
