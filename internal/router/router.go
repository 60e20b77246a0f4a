// Package router wires the mock backend's route table.
package router

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/harentsoaR/carelink/internal/handlers"
	"github.com/harentsoaR/carelink/internal/middleware"
	"github.com/harentsoaR/carelink/internal/models"
)

type Options struct {
	// BasePath prefixes every route, e.g. "/api" for the dev server.
	BasePath string
	// Latency is injected before every response.
	Latency time.Duration
	// Middleware runs ahead of the latency and auth layers.
	Middleware []gin.HandlerFunc
}

// New returns the mock backend engine. Unknown routes answer 501.
func New(h *handlers.Handler, opts Options) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(opts.Middleware...)
	r.Use(middleware.Latency(opts.Latency))

	api := r.Group(opts.BasePath)
	authed := middleware.AuthMiddleware(h.Tokens)

	authRoutes := api.Group("/auth")
	{
		authRoutes.POST("/login", h.Login)
		authRoutes.POST("/register", h.RegisterUser)
	}

	api.POST("/user/upload-profile-image", h.UploadProfileImage)
	userRoutes := api.Group("/user", authed)
	{
		userRoutes.GET("/profile", h.GetProfile)
		userRoutes.POST("/profile", h.SaveProfile)
		userRoutes.PUT("/profile", h.SaveProfile)
		userRoutes.PUT("/complete-profile", h.CompleteProfile)
	}

	patientRoutes := api.Group("/patient", authed)
	{
		patientRoutes.POST("/request-service", h.RequestService)
		patientRoutes.POST("/questions", middleware.RequireRole(models.RolePatient), h.AskQuestion)
		patientRoutes.GET("/questions", middleware.RequireRole(models.RolePatient), h.MyQuestions)
	}

	nurseRoutes := api.Group("/nurse", authed)
	{
		nurseRoutes.POST("/availability", middleware.RequireRole(models.RoleNurse), h.SetAvailability)
		nurseRoutes.GET("/requests", h.PendingRequests)
		nurseRoutes.GET("/questions", middleware.RequireRole(models.RoleNurse), h.OpenQuestions)
		nurseRoutes.PUT("/questions/:id/answer", middleware.RequireRole(models.RoleNurse), h.AnswerQuestion)
	}

	adminRoutes := api.Group("/admin", authed, middleware.RequireRole(models.RoleAdmin))
	{
		adminRoutes.GET("/users", h.ListUsers)
		adminRoutes.PUT("/users/:id/activate", h.ActivateUser)
		adminRoutes.PUT("/users/:id/deactivate", h.DeactivateUser)
		adminRoutes.DELETE("/users/:id", h.DeleteUser)
	}

	r.NoRoute(h.NotImplemented)
	return r
}
