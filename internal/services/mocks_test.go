package services

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log"
	"sync/atomic"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/harentsoaR/carelink/internal/gateway"
	"github.com/harentsoaR/carelink/internal/handlers"
	"github.com/harentsoaR/carelink/internal/router"
	"github.com/harentsoaR/carelink/internal/session"
	"github.com/harentsoaR/carelink/internal/store"
	"github.com/harentsoaR/carelink/internal/utils"
)

// Compile-time check to ensure MockAPI implements API.
var _ API = (*MockAPI)(nil)

// MockAPI is a function-field mock of the gateway.
type MockAPI struct {
	GetFunc    func(ctx context.Context, path string, out any) error
	PostFunc   func(ctx context.Context, path string, body, out any) error
	PutFunc    func(ctx context.Context, path string, body, out any) error
	DeleteFunc func(ctx context.Context, path string, out any) error

	CallCount int32
}

func (m *MockAPI) Get(ctx context.Context, path string, out any) error {
	atomic.AddInt32(&m.CallCount, 1)
	if m.GetFunc != nil {
		return m.GetFunc(ctx, path, out)
	}
	return errors.New("GetFunc not implemented in mock")
}

func (m *MockAPI) Post(ctx context.Context, path string, body, out any) error {
	atomic.AddInt32(&m.CallCount, 1)
	if m.PostFunc != nil {
		return m.PostFunc(ctx, path, body, out)
	}
	return errors.New("PostFunc not implemented in mock")
}

func (m *MockAPI) Put(ctx context.Context, path string, body, out any) error {
	atomic.AddInt32(&m.CallCount, 1)
	if m.PutFunc != nil {
		return m.PutFunc(ctx, path, body, out)
	}
	return errors.New("PutFunc not implemented in mock")
}

func (m *MockAPI) Delete(ctx context.Context, path string, out any) error {
	atomic.AddInt32(&m.CallCount, 1)
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, path, out)
	}
	return errors.New("DeleteFunc not implemented in mock")
}

func (m *MockAPI) Calls() int { return int(atomic.LoadInt32(&m.CallCount)) }

// respond copies v into out the way the gateway decodes a body.
func respond(out, v any) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return json.Unmarshal(raw, out)
}

type recordingNavigator struct{ paths []string }

func (r *recordingNavigator) Navigate(path string) { r.paths = append(r.paths, path) }

// stack is the full client wired to an in-process mock backend.
type stack struct {
	auth     *AuthService
	patient  *PatientService
	nurse    *NurseService
	api      *gateway.Client
	session  *session.Session
	keys     *session.MemoryStore
	fixtures *store.MemoryStore
	nav      *recordingNavigator
	notifier *RecordingNotifier
}

func newStack(t *testing.T) *stack {
	t.Helper()
	gin.SetMode(gin.TestMode)
	fixtures, err := store.NewSeededMemoryStore(bcrypt.MinCost)
	require.NoError(t, err)
	h := handlers.NewHandler(fixtures, utils.NewTokenIssuer("services-test", time.Hour), bcrypt.MinCost)

	quiet := log.New(io.Discard, "", 0)
	keys := session.NewMemoryStore()
	nav := &recordingNavigator{}
	sess := session.New(keys, nav)
	api := gateway.New(gateway.Config{
		BaseURL:   "http://127.0.0.1:1/api",
		Simulator: router.New(h, router.Options{}),
		Simulate:  true,
		Logger:    quiet,
	}, sess)
	notifier := &RecordingNotifier{}

	return &stack{
		auth:     NewAuthService(api, sess, WithNotifier(notifier), WithLogger(quiet)),
		patient:  NewPatientService(api, nil),
		nurse:    NewNurseService(api),
		api:      api,
		session:  sess,
		keys:     keys,
		fixtures: fixtures,
		nav:      nav,
		notifier: notifier,
	}
}

func (s *stack) userCount(t *testing.T) int {
	t.Helper()
	users, err := s.fixtures.ListUsers(context.Background())
	require.NoError(t, err)
	return len(users)
}
