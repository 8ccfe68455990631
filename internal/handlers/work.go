package handlers

import (
	"errors"
	"net/http"

	"github.com/pawell24/TimeTracker/internal/auth"
	dom "github.com/pawell24/TimeTracker/internal/domain"
	"github.com/pawell24/TimeTracker/internal/dto"
	"github.com/pawell24/TimeTracker/internal/service"

	"github.com/gin-gonic/gin"
)

// WorkHandler handles the work session endpoints.
type WorkHandler struct {
	svc *service.WorkService
}

// NewWorkHandler returns a new WorkHandler.
func NewWorkHandler(svc *service.WorkService) *WorkHandler {
	return &WorkHandler{svc: svc}
}

// Start godoc
// @Summary      Start working time
// @Tags         work
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      dto.StartWorkRequest  true  "Work description"
// @Success      200   {object}  dto.WorkActionResponse
// @Failure      400   {object}  map[string]string
// @Failure      404   {object}  map[string]string
// @Failure      409   {object}  map[string]string
// @Failure      500   {object}  map[string]string
// @Router       /work/start [post]
func (h *WorkHandler) Start(c *gin.Context) {
	var req dto.StartWorkRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	userID := auth.UserIDFromContext(c)
	work, message, err := h.svc.StartWork(c.Request.Context(), userID, req.Description)
	if err != nil {
		if errors.Is(err, service.ErrUserNotEligible) {
			c.JSON(http.StatusNotFound, gin.H{"error": "user not found or not confirmed"})
			return
		}
		if errors.Is(err, service.ErrAlreadyWorking) {
			c.JSON(http.StatusConflict, gin.H{"error": "user is already working on something else"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to start work"})
		return
	}
	c.JSON(http.StatusOK, dto.WorkActionResponse{Success: true, Message: message, WorkID: work.ID})
}

// Stop godoc
// @Summary      Stop working time
// @Tags         work
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  dto.WorkActionResponse
// @Failure      404  {object}  map[string]string
// @Failure      500  {object}  map[string]string
// @Router       /work/stop [post]
func (h *WorkHandler) Stop(c *gin.Context) {
	userID := auth.UserIDFromContext(c)
	_, err := h.svc.StopWork(c.Request.Context(), userID)
	if err != nil {
		if errors.Is(err, service.ErrUserNotEligible) {
			c.JSON(http.StatusNotFound, gin.H{"error": "user not found or not confirmed"})
			return
		}
		if errors.Is(err, service.ErrNoOpenWork) {
			c.JSON(http.StatusNotFound, gin.H{"error": "no ongoing work found for the user"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to stop work"})
		return
	}
	c.JSON(http.StatusOK, dto.WorkActionResponse{Success: true, Message: "Stopped working"})
}

// Status godoc
// @Summary      Get the current open work session, if any
// @Tags         work
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  dto.WorkStatusResponse
// @Failure      404  {object}  map[string]string
// @Failure      500  {object}  map[string]string
// @Router       /work/status [get]
func (h *WorkHandler) Status(c *gin.Context) {
	userID := auth.UserIDFromContext(c)
	work, err := h.svc.GetOpenWork(c.Request.Context(), userID)
	if err != nil {
		if errors.Is(err, service.ErrUserNotEligible) {
			c.JSON(http.StatusNotFound, gin.H{"error": "user not found or not confirmed"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to get work status"})
		return
	}
	resp := dto.WorkStatusResponse{Working: work != nil}
	if work != nil {
		resp.Work = workToResponse(*work)
	}
	c.JSON(http.StatusOK, resp)
}

// TotalByDay godoc
// @Summary      Get total working time by day for the current user
// @Tags         work
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}   dto.DayTotalResponse
// @Failure      404  {object}  map[string]string
// @Failure      500  {object}  map[string]string
// @Router       /work/total-working-time-by-day [get]
func (h *WorkHandler) TotalByDay(c *gin.Context) {
	userID := auth.UserIDFromContext(c)
	totals, err := h.svc.TotalByDay(c.Request.Context(), userID)
	if err != nil {
		if errors.Is(err, service.ErrUserNotEligible) {
			c.JSON(http.StatusNotFound, gin.H{"error": "user not found or not confirmed"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to retrieve total working time"})
		return
	}
	c.JSON(http.StatusOK, totalsToResponses(totals))
}

// TotalAllUsers godoc
// @Summary      Get total working time by day for all users
// @Tags         work
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}   dto.DayTotalResponse
// @Failure      500  {object}  map[string]string
// @Router       /work/total-working-time-for-all-users [get]
func (h *WorkHandler) TotalAllUsers(c *gin.Context) {
	totals, err := h.svc.TotalAllUsers(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to retrieve total working time for all users"})
		return
	}
	c.JSON(http.StatusOK, totalsToResponses(totals))
}

func workToResponse(w dom.Work) *dto.WorkResponse {
	return &dto.WorkResponse{
		ID:          w.ID,
		Description: w.Description,
		StartTime:   w.StartTime,
		EndTime:     w.EndTime,
	}
}

func totalsToResponses(totals []dom.DayTotal) []dto.DayTotalResponse {
	out := make([]dto.DayTotalResponse, len(totals))
	for i, t := range totals {
		out[i] = dto.DayTotalResponse{Date: t.Date, TotalHours: t.TotalHours}
	}
	return out
}
