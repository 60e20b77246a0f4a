package router

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/harentsoaR/carelink/internal/handlers"
	"github.com/harentsoaR/carelink/internal/models"
	"github.com/harentsoaR/carelink/internal/store"
	"github.com/harentsoaR/carelink/internal/utils"
)

type testServer struct {
	engine *gin.Engine
	store  *store.MemoryStore
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)
	s, err := store.NewSeededMemoryStore(bcrypt.MinCost)
	require.NoError(t, err)
	h := handlers.NewHandler(s, utils.NewTokenIssuer("router-test", time.Hour), bcrypt.MinCost)
	return &testServer{engine: New(h, Options{}), store: s}
}

func (ts *testServer) do(t *testing.T, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	ts.engine.ServeHTTP(w, req)
	return w
}

func (ts *testServer) login(t *testing.T, email, password string) string {
	t.Helper()
	w := ts.do(t, http.MethodPost, "/auth/login", "", gin.H{"email": email, "password": password})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var resp handlers.AuthResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp.Token
}

func (ts *testServer) userCount(t *testing.T) int {
	users, err := ts.store.ListUsers(t.Context())
	require.NoError(t, err)
	return len(users)
}

func TestLogin_Success(t *testing.T) {
	ts := newTestServer(t)

	w := ts.do(t, http.MethodPost, "/auth/login", "", gin.H{"email": store.PatientEmail, "password": store.PatientPassword})
	require.Equal(t, http.StatusOK, w.Code)

	var raw map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &raw))
	assert.NotEmpty(t, raw["token"])
	assert.Equal(t, "patient", raw["userType"])
	user := raw["user"].(map[string]any)
	assert.Equal(t, "test123", user["id"])
	assert.NotContains(t, user, "password")
	assert.Equal(t, "A+", user["bloodType"])
}

func TestLogin_WrongPassword(t *testing.T) {
	ts := newTestServer(t)
	w := ts.do(t, http.MethodPost, "/auth/login", "", gin.H{"email": store.PatientEmail, "password": "nope"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestLogin_InactiveAccount(t *testing.T) {
	ts := newTestServer(t)
	_, err := ts.store.UpdateUser(t.Context(), "nurse123", func(u *models.User) error {
		u.IsActive = false
		return nil
	})
	require.NoError(t, err)

	w := ts.do(t, http.MethodPost, "/auth/login", "", gin.H{"email": store.NurseEmail, "password": store.NursePassword})
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.NotContains(t, w.Body.String(), "token")
}

func TestRegister_Patient(t *testing.T) {
	ts := newTestServer(t)

	w := ts.do(t, http.MethodPost, "/auth/register", "", gin.H{
		"email": "new@example.com", "password": "secret1", "userType": "patient",
		"name": "New Patient", "phone": "01123456789", "nationalId": "12345678901234",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	assert.Contains(t, w.Body.String(), `"medicalConditions":[]`)
	assert.Contains(t, w.Body.String(), `"allergies":[]`)

	var resp handlers.AuthResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.NotEmpty(t, resp.Token)
	assert.Equal(t, models.RolePatient, resp.UserType)
	assert.False(t, resp.User.IsActive)
	assert.False(t, resp.User.ProfileComplete)
	assert.Empty(t, resp.User.Password)
	require.NotNil(t, resp.User.PatientDetails)
	assert.Nil(t, resp.User.NurseDetails)
	assert.Equal(t, 5, ts.userCount(t))
}

func TestRegister_AdminForcedActive(t *testing.T) {
	ts := newTestServer(t)

	w := ts.do(t, http.MethodPost, "/auth/register", "", gin.H{
		"email": "boss@example.com", "password": "secret1", "userType": "admin", "isActive": false,
	})
	require.Equal(t, http.StatusCreated, w.Code)

	var resp handlers.AuthResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.User.IsActive)
	assert.True(t, resp.User.ProfileComplete)
	assert.NotNil(t, resp.User.ActivationDate)
	assert.Contains(t, resp.User.ID, "admin_")
}

func TestRegister_DuplicateEmail(t *testing.T) {
	ts := newTestServer(t)

	w := ts.do(t, http.MethodPost, "/auth/register", "", gin.H{
		"email": store.NurseEmail, "password": "secret1", "userType": "nurse",
	})
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, 4, ts.userCount(t))
}

func TestRegister_InvalidUserType(t *testing.T) {
	ts := newTestServer(t)

	w := ts.do(t, http.MethodPost, "/auth/register", "", gin.H{
		"email": "x@example.com", "password": "secret1", "userType": "doctor",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestProfile_RequiresToken(t *testing.T) {
	ts := newTestServer(t)
	assert.Equal(t, http.StatusUnauthorized, ts.do(t, http.MethodGet, "/user/profile", "", nil).Code)
	assert.Equal(t, http.StatusUnauthorized, ts.do(t, http.MethodGet, "/user/profile", "garbage", nil).Code)
}

func TestProfile_LooksUpByTokenID(t *testing.T) {
	ts := newTestServer(t)
	first := ts.login(t, store.AdminEmail, store.AdminPassword)
	second := ts.login(t, store.DefaultAdminEmail, store.DefaultAdminPassword)

	for token, want := range map[string]string{first: "admin123", second: "default_admin"} {
		w := ts.do(t, http.MethodGet, "/user/profile", token, nil)
		require.Equal(t, http.StatusOK, w.Code)
		var u models.User
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &u))
		assert.Equal(t, want, u.ID)
	}
}

func TestProfile_NotFoundAfterDelete(t *testing.T) {
	ts := newTestServer(t)
	token := ts.login(t, store.PatientEmail, store.PatientPassword)
	require.NoError(t, ts.store.DeleteUser(t.Context(), "test123"))

	assert.Equal(t, http.StatusNotFound, ts.do(t, http.MethodGet, "/user/profile", token, nil).Code)
	assert.Equal(t, http.StatusNotFound, ts.do(t, http.MethodPost, "/user/profile", token, gin.H{"name": "x"}).Code)
}

func TestProfile_MergeKeepsProtectedFields(t *testing.T) {
	ts := newTestServer(t)
	token := ts.login(t, store.PatientEmail, store.PatientPassword)

	w := ts.do(t, http.MethodPost, "/user/profile", token, gin.H{
		"name": "Renamed", "userType": "admin", "isActive": false, "allergies": []string{"Dust"},
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var u models.User
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &u))
	assert.Equal(t, "Renamed", u.Name)
	assert.Equal(t, models.RolePatient, u.Role)
	assert.True(t, u.IsActive)
	assert.Equal(t, []string{"Dust"}, u.Allergies)
	assert.Equal(t, "A+", u.BloodType)
}

func TestCompleteProfile_ForcesComplete(t *testing.T) {
	ts := newTestServer(t)
	w := ts.do(t, http.MethodPost, "/auth/register", "", gin.H{
		"email": "n2@example.com", "password": "secret1", "userType": "nurse", "isActive": true,
	})
	require.Equal(t, http.StatusCreated, w.Code)
	var reg handlers.AuthResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &reg))

	w = ts.do(t, http.MethodPut, "/user/complete-profile", reg.Token, gin.H{
		"licenseId": "NUR999", "profileComplete": false, "bloodType": "O-",
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var u models.User
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &u))
	assert.True(t, u.ProfileComplete)
	assert.Equal(t, "NUR999", u.LicenseID)
	assert.Nil(t, u.PatientDetails)
}

func TestUploadProfileImage(t *testing.T) {
	ts := newTestServer(t)
	w := ts.do(t, http.MethodPost, "/user/upload-profile-image", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "https://i.pravatar.cc/300?u=")
}

func TestRequestService(t *testing.T) {
	ts := newTestServer(t)
	token := ts.login(t, store.PatientEmail, store.PatientPassword)

	w := ts.do(t, http.MethodPost, "/patient/request-service", token, gin.H{
		"patientName": "Test User", "patientAge": "35", "serviceType": "emergency",
		"details": "fall", "address": "here", "broadcastToAllNurses": true, "emergency": true,
		"coordinates": gin.H{"latitude": 30.1, "longitude": 31.2},
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var sr models.ServiceRequest
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &sr))
	assert.Equal(t, "test123", sr.PatientID)
	assert.Equal(t, models.RequestPending, sr.Status)
	require.NotNil(t, sr.Cost)
	assert.GreaterOrEqual(t, *sr.Cost, 100.0)
	assert.Less(t, *sr.Cost, 400.0)

	w = ts.do(t, http.MethodGet, "/nurse/requests", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var pending []models.ServiceRequest
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &pending))
	assert.Len(t, pending, 2)
}

func TestRequestService_RequiresToken(t *testing.T) {
	ts := newTestServer(t)
	w := ts.do(t, http.MethodPost, "/patient/request-service", "", gin.H{"serviceType": "x"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestNurseAvailability(t *testing.T) {
	ts := newTestServer(t)
	token := ts.login(t, store.NurseEmail, store.NursePassword)

	w := ts.do(t, http.MethodPost, "/nurse/availability", token, gin.H{
		"available": true, "location": gin.H{"latitude": 29.9, "longitude": 31.1},
	})
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"available":true}`, w.Body.String())

	nurse, err := ts.store.FindUserByID(t.Context(), "nurse123")
	require.NoError(t, err)
	assert.True(t, nurse.AvailabilityStatus)
	assert.Equal(t, 29.9, nurse.Location.Latitude)
}

func TestNurseAvailability_PatientForbidden(t *testing.T) {
	ts := newTestServer(t)
	token := ts.login(t, store.PatientEmail, store.PatientPassword)
	w := ts.do(t, http.MethodPost, "/nurse/availability", token, gin.H{"available": true})
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestNurseAvailability_MissingFlag(t *testing.T) {
	ts := newTestServer(t)
	token := ts.login(t, store.NurseEmail, store.NursePassword)
	w := ts.do(t, http.MethodPost, "/nurse/availability", token, gin.H{})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAdminRoutes_RejectNonAdmin(t *testing.T) {
	ts := newTestServer(t)
	token := ts.login(t, store.NurseEmail, store.NursePassword)

	cases := []struct{ method, path string }{
		{http.MethodGet, "/admin/users"},
		{http.MethodPut, "/admin/users/test123/activate"},
		{http.MethodPut, "/admin/users/test123/deactivate"},
		{http.MethodDelete, "/admin/users/test123"},
	}
	for _, tc := range cases {
		t.Run(tc.method+" "+tc.path, func(t *testing.T) {
			assert.Equal(t, http.StatusForbidden, ts.do(t, tc.method, tc.path, token, nil).Code)
			assert.Equal(t, http.StatusUnauthorized, ts.do(t, tc.method, tc.path, "", nil).Code)
		})
	}
	assert.Equal(t, 4, ts.userCount(t))
}

func TestAdminRoutes_ManageUsers(t *testing.T) {
	ts := newTestServer(t)
	token := ts.login(t, store.DefaultAdminEmail, store.DefaultAdminPassword)

	w := ts.do(t, http.MethodGet, "/admin/users", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.NotContains(t, w.Body.String(), `"password"`)
	var users []models.User
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &users))
	assert.Len(t, users, 4)

	w = ts.do(t, http.MethodPut, "/admin/users/nurse123/deactivate", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	nurse, _ := ts.store.FindUserByID(t.Context(), "nurse123")
	assert.False(t, nurse.IsActive)

	w = ts.do(t, http.MethodPut, "/admin/users/nurse123/activate", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	nurse, _ = ts.store.FindUserByID(t.Context(), "nurse123")
	assert.True(t, nurse.IsActive)
	require.NotNil(t, nurse.ActivationDate)
	assert.WithinDuration(t, time.Now(), *nurse.ActivationDate, time.Minute)

	w = ts.do(t, http.MethodDelete, "/admin/users/nurse123", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"success":true}`, w.Body.String())
	assert.Equal(t, 3, ts.userCount(t))

	assert.Equal(t, http.StatusNotFound, ts.do(t, http.MethodDelete, "/admin/users/nurse123", token, nil).Code)
	assert.Equal(t, http.StatusNotFound, ts.do(t, http.MethodPut, "/admin/users/ghost/activate", token, nil).Code)
}

func TestQuestions(t *testing.T) {
	ts := newTestServer(t)
	patient := ts.login(t, store.PatientEmail, store.PatientPassword)
	nurse := ts.login(t, store.NurseEmail, store.NursePassword)

	w := ts.do(t, http.MethodPost, "/patient/questions", patient, gin.H{"title": "Fever", "description": "38.5 since yesterday"})
	require.Equal(t, http.StatusCreated, w.Code)
	var q models.MedicalQuestion
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &q))
	assert.Equal(t, "Test User", q.PatientName)
	assert.Equal(t, models.QuestionOpen, q.Status)

	w = ts.do(t, http.MethodGet, "/nurse/questions", nurse, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var open []models.MedicalQuestion
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &open))
	assert.Len(t, open, 2)

	w = ts.do(t, http.MethodPut, "/nurse/questions/"+q.ID+"/answer", nurse, gin.H{"answer": "Rest and fluids"})
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &q))
	assert.Equal(t, models.QuestionAnswered, q.Status)
	assert.Equal(t, "nurse123", q.AssignedTo)
	assert.NotNil(t, q.AnsweredAt)

	w = ts.do(t, http.MethodPut, "/nurse/questions/"+q.ID+"/answer", nurse, gin.H{"answer": "again"})
	assert.Equal(t, http.StatusConflict, w.Code)

	w = ts.do(t, http.MethodGet, "/patient/questions", patient, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var mine []models.MedicalQuestion
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &mine))
	assert.Len(t, mine, 2)

	assert.Equal(t, http.StatusForbidden, ts.do(t, http.MethodGet, "/nurse/questions", patient, nil).Code)
}

func TestUnknownRoute_NotImplemented(t *testing.T) {
	ts := newTestServer(t)
	assert.Equal(t, http.StatusNotImplemented, ts.do(t, http.MethodGet, "/payments", "", nil).Code)
	assert.Equal(t, http.StatusNotImplemented, ts.do(t, http.MethodPatch, "/auth/login", "", nil).Code)
}

func TestBasePath(t *testing.T) {
	gin.SetMode(gin.TestMode)
	s, err := store.NewSeededMemoryStore(bcrypt.MinCost)
	require.NoError(t, err)
	engine := New(handlers.NewHandler(s, utils.NewTokenIssuer("k", time.Hour), bcrypt.MinCost), Options{BasePath: "/api"})

	req := httptest.NewRequest(http.MethodPost, "/api/user/upload-profile-image", nil)
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestLatency(t *testing.T) {
	gin.SetMode(gin.TestMode)
	s := store.NewMemoryStore()
	engine := New(handlers.NewHandler(s, utils.NewTokenIssuer("k", time.Hour), bcrypt.MinCost), Options{Latency: 30 * time.Millisecond})

	start := time.Now()
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/nothing", nil))
	assert.GreaterOrEqual(t, time.Since(start), 30*time.Millisecond)
	assert.Equal(t, http.StatusNotImplemented, w.Code)
}
