package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/harentsoaR/carelink/internal/middleware"
	"github.com/harentsoaR/carelink/internal/models"
)

type AvailabilityRequest struct {
	Available *bool               `json:"available"`
	Location  *models.Coordinates `json:"location"`
}

func (h *Handler) SetAvailability(c *gin.Context) {
	var req AvailabilityRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Available == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "available is required"})
		return
	}

	_, err := h.Store.UpdateUser(c.Request.Context(), middleware.CurrentUserID(c), func(u *models.User) error {
		u.Normalize()
		u.AvailabilityStatus = *req.Available
		if req.Location != nil {
			u.Location = *req.Location
		}
		return nil
	})
	if err != nil {
		storeError(c, err, "Nurse not found")
		return
	}
	c.JSON(http.StatusOK, gin.H{"available": *req.Available})
}

// PendingRequests lists the pending requests broadcast to every nurse.
func (h *Handler) PendingRequests(c *gin.Context) {
	all, err := h.Store.ListServiceRequests(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve service requests"})
		return
	}
	pending := make([]*models.ServiceRequest, 0)
	for _, r := range all {
		if r.Status == models.RequestPending && r.BroadcastToAllNurses {
			pending = append(pending, r)
		}
	}
	c.JSON(http.StatusOK, pending)
}
