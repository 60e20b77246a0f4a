package handlers

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/harentsoaR/carelink/internal/models"
	"github.com/harentsoaR/carelink/internal/store"
	"github.com/harentsoaR/carelink/internal/utils"
)

type LoginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type RegisterUserRequest struct {
	Email      string      `json:"email" binding:"required"`
	Password   string      `json:"password" binding:"required"`
	UserType   models.Role `json:"userType" binding:"required"`
	Name       string      `json:"name"`
	Phone      string      `json:"phone"`
	NationalID string      `json:"nationalId"`
	IsActive   bool        `json:"isActive"`
}

// AuthResponse is returned by both login and register.
type AuthResponse struct {
	Token    string       `json:"token"`
	User     *models.User `json:"user"`
	UserType models.Role  `json:"userType"`
}

func (h *Handler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	user, err := h.Store.FindUserByEmail(c.Request.Context(), req.Email)
	if err != nil && !errors.Is(err, store.ErrNotFound) {
		storeError(c, err, "User not found")
		return
	}
	if user == nil || !utils.CheckPasswordHash(req.Password, user.Password) {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid credentials"})
		return
	}
	if !user.IsActive {
		c.JSON(http.StatusForbidden, gin.H{"error": "Account is pending activation by an administrator."})
		return
	}

	h.respondWithToken(c, http.StatusOK, user)
}

func (h *Handler) RegisterUser(c *gin.Context) {
	var req RegisterUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if !req.UserType.Valid() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid user type"})
		return
	}

	ctx := c.Request.Context()
	if _, err := h.Store.FindUserByEmail(ctx, req.Email); err == nil {
		c.JSON(http.StatusConflict, gin.H{"error": "User with this email already exists"})
		return
	}

	hashedPassword, err := utils.HashPassword(req.Password, h.PasswordCost)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to hash password"})
		return
	}

	user := h.newUser(req, hashedPassword)
	if err := h.Store.CreateUser(ctx, user); err != nil {
		storeError(c, err, "User not found")
		return
	}
	log.Printf("RegisterUser: created %s account %s", user.Role, user.ID)

	h.respondWithToken(c, http.StatusCreated, user)
}

// newUser builds a role-appropriate record with empty extension fields.
// Admins are always active and complete.
func (h *Handler) newUser(req RegisterUserRequest, hashedPassword string) *models.User {
	now := h.Now()
	prefix := "user_"
	if req.UserType == models.RoleAdmin {
		prefix = "admin_"
	}
	user := &models.User{
		ID:               prefix + uuid.NewString(),
		Email:            req.Email,
		Password:         hashedPassword,
		Role:             req.UserType,
		Name:             req.Name,
		Phone:            req.Phone,
		ProfileImage:     "https://i.pravatar.cc/300?u=" + req.Email,
		IsActive:         req.IsActive,
		RegistrationDate: now,
		NationalID:       req.NationalID,
	}
	switch req.UserType {
	case models.RolePatient:
		user.PatientDetails = &models.PatientDetails{
			MedicalConditions: []string{},
			Allergies:         []string{},
		}
	case models.RoleNurse:
		user.NurseDetails = &models.NurseDetails{Specializations: []string{}}
	case models.RoleAdmin:
		user.IsActive = true
		user.ProfileComplete = true
		user.ActivationDate = &now
	}
	user.Normalize()
	return user
}

func (h *Handler) respondWithToken(c *gin.Context, status int, user *models.User) {
	token, err := h.Tokens.Generate(user.ID, user.Role)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not generate token"})
		return
	}
	c.JSON(status, AuthResponse{Token: token, User: user.Public(), UserType: user.Role})
}
