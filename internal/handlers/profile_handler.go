package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/harentsoaR/carelink/internal/middleware"
	"github.com/harentsoaR/carelink/internal/models"
)

// protectedFields can not be changed through a profile merge.
var protectedFields = map[string]bool{
	"id":               true,
	"userType":         true,
	"password":         true,
	"email":            true,
	"isActive":         true,
	"activationDate":   true,
	"registrationDate": true,
}

type badPatchError struct{ err error }

func (e *badPatchError) Error() string { return e.err.Error() }

// mergeProfile overlays patch onto u, key by key, leaving protected fields alone.
func mergeProfile(u *models.User, patch map[string]json.RawMessage) error {
	raw, err := json.Marshal(u)
	if err != nil {
		return err
	}
	fields := map[string]json.RawMessage{}
	if err := json.Unmarshal(raw, &fields); err != nil {
		return err
	}
	for k, v := range patch {
		if protectedFields[k] {
			continue
		}
		fields[k] = v
	}
	merged, err := json.Marshal(fields)
	if err != nil {
		return err
	}

	var next models.User
	if err := json.Unmarshal(merged, &next); err != nil {
		return &badPatchError{fmt.Errorf("invalid profile data: %w", err)}
	}
	next.ID = u.ID
	next.Role = u.Role
	next.Password = u.Password
	next.Email = u.Email
	next.IsActive = u.IsActive
	next.ActivationDate = u.ActivationDate
	next.RegistrationDate = u.RegistrationDate
	if u.Role == models.RoleAdmin {
		next.ProfileComplete = true
	}
	next.Normalize()
	*u = next
	return nil
}

func (h *Handler) GetProfile(c *gin.Context) {
	user, err := h.Store.FindUserByID(c.Request.Context(), middleware.CurrentUserID(c))
	if err != nil {
		storeError(c, err, "User not found")
		return
	}
	c.JSON(http.StatusOK, user.Public())
}

// SaveProfile merges the body into the caller's record.
func (h *Handler) SaveProfile(c *gin.Context) {
	h.updateProfile(c, false)
}

// CompleteProfile merges the body and marks the profile complete.
func (h *Handler) CompleteProfile(c *gin.Context) {
	h.updateProfile(c, true)
}

func (h *Handler) updateProfile(c *gin.Context, complete bool) {
	var patch map[string]json.RawMessage
	if err := c.ShouldBindJSON(&patch); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	user, err := h.Store.UpdateUser(c.Request.Context(), middleware.CurrentUserID(c), func(u *models.User) error {
		if err := mergeProfile(u, patch); err != nil {
			return err
		}
		if complete {
			u.ProfileComplete = true
		}
		return nil
	})
	var bad *badPatchError
	if errors.As(err, &bad) {
		c.JSON(http.StatusBadRequest, gin.H{"error": bad.Error()})
		return
	}
	if err != nil {
		storeError(c, err, "User not found")
		return
	}
	c.JSON(http.StatusOK, user.Public())
}

// UploadProfileImage hands back a fresh placeholder URL. Nothing is stored.
func (h *Handler) UploadProfileImage(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"imageUrl": "https://i.pravatar.cc/300?u=" + uuid.NewString()})
}
