package handlers

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/harentsoaR/carelink/internal/models"
)

// ListUsers returns every account with its password stripped.
func (h *Handler) ListUsers(c *gin.Context) {
	users, err := h.Store.ListUsers(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve users"})
		return
	}
	out := make([]*models.User, 0, len(users))
	for _, u := range users {
		out = append(out, u.Public())
	}
	c.JSON(http.StatusOK, out)
}

func (h *Handler) ActivateUser(c *gin.Context) {
	h.setActive(c, true)
}

func (h *Handler) DeactivateUser(c *gin.Context) {
	h.setActive(c, false)
}

func (h *Handler) setActive(c *gin.Context, active bool) {
	id := c.Param("id")
	user, err := h.Store.UpdateUser(c.Request.Context(), id, func(u *models.User) error {
		u.IsActive = active
		if active {
			now := h.Now()
			u.ActivationDate = &now
		}
		return nil
	})
	if err != nil {
		storeError(c, err, "User not found")
		return
	}
	log.Printf("Admin: user %s active=%t", id, active)
	c.JSON(http.StatusOK, user.Public())
}

func (h *Handler) DeleteUser(c *gin.Context) {
	id := c.Param("id")
	if err := h.Store.DeleteUser(c.Request.Context(), id); err != nil {
		storeError(c, err, "User not found")
		return
	}
	log.Printf("Admin: user %s deleted", id)
	c.JSON(http.StatusOK, gin.H{"success": true})
}
