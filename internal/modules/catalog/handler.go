package catalog

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"tourstay/internal/domain"
	"tourstay/internal/pkg/response"
	"tourstay/internal/repository"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	r.GET("/rooms", h.listRooms)
	r.GET("/rooms/:id/availability", h.roomAvailability)
	r.GET("/departures", h.listDepartures)
	r.GET("/departures/:id", h.getDeparture)
}

func (h *Handler) RegisterAdminRoutes(r *gin.RouterGroup) {
	r.PUT("/rooms/:id/days", h.setDays)
}

func (h *Handler) listRooms(c *gin.Context) {
	rooms, err := h.service.ListRooms(c.Request.Context())
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to list rooms")
		return
	}
	response.Success(c, http.StatusOK, rooms)
}

func (h *Handler) roomAvailability(c *gin.Context) {
	roomID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid room id")
		return
	}

	from, to, err := parseRange(c.Query("from"), c.Query("to"))
	if err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
		return
	}

	avail, err := h.service.RoomAvailability(c.Request.Context(), roomID, from, to)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			response.Error(c, http.StatusNotFound, "NOT_FOUND", "Room not found")
			return
		}
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to load availability")
		return
	}
	response.Success(c, http.StatusOK, avail)
}

func (h *Handler) listDepartures(c *gin.Context) {
	deps, err := h.service.ListDepartures(c.Request.Context())
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to list departures")
		return
	}
	response.Success(c, http.StatusOK, deps)
}

func (h *Handler) getDeparture(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid departure id")
		return
	}

	dep, err := h.service.GetDeparture(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			response.Error(c, http.StatusNotFound, "NOT_FOUND", "Departure not found")
			return
		}
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to load departure")
		return
	}
	response.Success(c, http.StatusOK, dep)
}

func (h *Handler) setDays(c *gin.Context) {
	roomID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid room id")
		return
	}

	var req SetDaysRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}

	from, to, err := parseRange(req.From, req.To)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
		return
	}

	if err := h.service.SetDays(c.Request.Context(), roomID, from, to, domain.DayState(req.State), req.TotalUnits); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			response.Error(c, http.StatusNotFound, "NOT_FOUND", "Room not found")
			return
		}
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to update days")
		return
	}
	response.Success(c, http.StatusOK, gin.H{"updated": true})
}

func parseRange(fromStr, toStr string) (time.Time, time.Time, error) {
	from, err := time.Parse(dateLayout, fromStr)
	if err != nil {
		return time.Time{}, time.Time{}, errors.New("invalid from date, expected YYYY-MM-DD")
	}
	to, err := time.Parse(dateLayout, toStr)
	if err != nil {
		return time.Time{}, time.Time{}, errors.New("invalid to date, expected YYYY-MM-DD")
	}
	if !to.After(from) {
		return time.Time{}, time.Time{}, errors.New("to must be after from")
	}
	return from, to, nil
}
