package handlers

import (
	"math/rand/v2"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/harentsoaR/carelink/internal/middleware"
	"github.com/harentsoaR/carelink/internal/models"
)

type ServiceRequestBody struct {
	PatientName          string              `json:"patientName"`
	PatientAge           string              `json:"patientAge"`
	ServiceType          string              `json:"serviceType"`
	Details              string              `json:"details"`
	Address              string              `json:"address"`
	Coordinates          *models.Coordinates `json:"coordinates"`
	BroadcastToAllNurses bool                `json:"broadcastToAllNurses"`
	Emergency            bool                `json:"emergency"`
}

// RequestService files a new pending request for the caller with a random
// cost in [100, 400).
func (h *Handler) RequestService(c *gin.Context) {
	var req ServiceRequestBody
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	ctx := c.Request.Context()
	user, err := h.Store.FindUserByID(ctx, middleware.CurrentUserID(c))
	if err != nil {
		storeError(c, err, "User not found")
		return
	}

	cost := float64(rand.IntN(300) + 100)
	emergency := req.Emergency
	sr := &models.ServiceRequest{
		ID:                   "req_" + uuid.NewString(),
		PatientID:            user.ID,
		PatientName:          req.PatientName,
		PatientAge:           req.PatientAge,
		ServiceType:          req.ServiceType,
		Details:              req.Details,
		Address:              req.Address,
		Coordinates:          req.Coordinates,
		Status:               models.RequestPending,
		BroadcastToAllNurses: req.BroadcastToAllNurses,
		Cost:                 &cost,
		Emergency:            &emergency,
		CreatedAt:            h.Now(),
	}
	if err := h.Store.CreateServiceRequest(ctx, sr); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create service request"})
		return
	}
	c.JSON(http.StatusCreated, sr)
}
