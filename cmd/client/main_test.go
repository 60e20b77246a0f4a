package main

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/harentsoaR/carelink/internal/config"
)

func TestMockBackend_KeepsRouteDumpOffStdout(t *testing.T) {
	var out bytes.Buffer
	origWriter := gin.DefaultWriter
	gin.DefaultWriter = &out
	gin.SetMode(gin.DebugMode)
	t.Cleanup(func() {
		gin.DefaultWriter = origWriter
		gin.SetMode(gin.TestMode)
	})

	cfg := config.FromEnv(func(string) string { return "" })
	cfg.MockLatency = time.Millisecond

	h, err := mockBackend(cfg)
	require.NoError(t, err)
	assert.Equal(t, gin.ReleaseMode, gin.Mode())
	assert.NotContains(t, out.String(), "[GIN-debug]")

	req := httptest.NewRequest(http.MethodPost, "/auth/login",
		strings.NewReader(`{"email":"admin.auth","password":"Qwer112233"}`))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.NotContains(t, out.String(), "[GIN-debug]")
}
