package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/harentsoaR/carelink/internal/store"
	"github.com/harentsoaR/carelink/internal/utils"
)

// Handler serves the mock backend endpoints on top of a fixture store.
type Handler struct {
	Store        store.Store
	Tokens       *utils.TokenIssuer
	PasswordCost int
	Now          func() time.Time
}

func NewHandler(s store.Store, tokens *utils.TokenIssuer, passwordCost int) *Handler {
	return &Handler{
		Store:        s,
		Tokens:       tokens,
		PasswordCost: passwordCost,
		Now:          func() time.Time { return time.Now().UTC() },
	}
}

// NotImplemented answers every route the mock backend does not know.
func (h *Handler) NotImplemented(c *gin.Context) {
	c.JSON(http.StatusNotImplemented, gin.H{"error": "Endpoint not implemented in mock backend"})
}

// storeError maps store failures onto responses; notFound names the missing thing.
func storeError(c *gin.Context, err error, notFound string) {
	switch {
	case errors.Is(err, store.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": notFound})
	case errors.Is(err, store.ErrDuplicateEmail):
		c.JSON(http.StatusConflict, gin.H{"error": "User with this email already exists"})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}
