package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"net/url"

	"github.com/harentsoaR/carelink/internal/gateway"
	"github.com/harentsoaR/carelink/internal/models"
	"github.com/harentsoaR/carelink/internal/session"
)

var (
	ErrPendingActivation = errors.New("account is pending activation by an administrator")
	ErrNotAuthenticated  = errors.New("not authenticated")
)

// API is the subset of the gateway the services need.
type API interface {
	Get(ctx context.Context, path string, out any) error
	Post(ctx context.Context, path string, body, out any) error
	Put(ctx context.Context, path string, body, out any) error
	Delete(ctx context.Context, path string, out any) error
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type RegisterRequest struct {
	Email      string      `json:"email"`
	Password   string      `json:"password"`
	UserType   models.Role `json:"userType"`
	Name       string      `json:"name,omitempty"`
	Phone      string      `json:"phone,omitempty"`
	NationalID string      `json:"nationalId,omitempty"`
	IsActive   bool        `json:"isActive"`
}

// AuthResult is what login and register hand back.
type AuthResult struct {
	Token    string       `json:"token"`
	User     *models.User `json:"user"`
	UserType models.Role  `json:"userType"`
}

// ProfileUpdate carries the profile fields a user may change. Empty fields
// are left untouched by the backend.
type ProfileUpdate struct {
	Name              string              `json:"name,omitempty"`
	Phone             string              `json:"phone,omitempty"`
	Address           string              `json:"address,omitempty"`
	ProfileImage      string              `json:"profileImage,omitempty"`
	NationalID        string              `json:"nationalId,omitempty"`
	ProfileComplete   *bool               `json:"profileComplete,omitempty"`
	DateOfBirth       string              `json:"dateOfBirth,omitempty"`
	Gender            string              `json:"gender,omitempty"`
	EmergencyContact  string              `json:"emergencyContact,omitempty"`
	BloodType         string              `json:"bloodType,omitempty"`
	MedicalConditions []string            `json:"medicalConditions,omitempty"`
	Allergies         []string            `json:"allergies,omitempty"`
	LicenseID         string              `json:"licenseId,omitempty"`
	Specializations   []string            `json:"specializations,omitempty"`
	Experience        string              `json:"experience,omitempty"`
	Location          *models.Coordinates `json:"location,omitempty"`
}

// Credentials of the built-in admin, offered while the mock backend is active.
type Credentials struct {
	Email    string
	Password string
}

// AuthService is the typed façade over the gateway for sign-in, profiles
// and account administration. Every call that returns a user refreshes the
// session's cached snapshot.
type AuthService struct {
	api      API
	session  *session.Session
	notifier Notifier
	logger   *log.Logger
}

type Option func(*AuthService)

// WithNotifier routes best-effort failures to n.
func WithNotifier(n Notifier) Option {
	return func(s *AuthService) { s.notifier = n }
}

func WithLogger(l *log.Logger) Option {
	return func(s *AuthService) { s.logger = l }
}

func NewAuthService(api API, sess *session.Session, opts ...Option) *AuthService {
	s := &AuthService{api: api, session: sess, logger: log.Default()}
	for _, opt := range opts {
		opt(s)
	}
	if s.notifier == nil {
		s.notifier = NewLogNotifier(s.logger)
	}
	return s
}

func (s *AuthService) Login(ctx context.Context, req LoginRequest) (*AuthResult, error) {
	s.logger.Printf("Login attempt with: %s", req.Email)
	var res AuthResult
	if err := s.api.Post(ctx, "/auth/login", req, &res); err != nil {
		return nil, fmt.Errorf("login: %w", err)
	}
	if res.Token != "" {
		if err := s.session.Save(res.Token, res.UserType, res.User); err != nil {
			return nil, err
		}
	}
	return &res, nil
}

// Register creates the account, then best-effort creates its profile. A
// failure of the second step goes to the notifier and is never returned.
func (s *AuthService) Register(ctx context.Context, req RegisterRequest) (*AuthResult, error) {
	s.logger.Printf("Registration attempt for: %s as %s", req.Email, req.UserType)
	var res AuthResult
	if err := s.api.Post(ctx, "/auth/register", req, &res); err != nil {
		return nil, fmt.Errorf("register: %w", err)
	}
	if res.Token == "" {
		return &res, nil
	}
	if err := s.session.Save(res.Token, req.UserType, res.User); err != nil {
		return nil, err
	}

	profile := ProfileUpdate{Name: req.Name, Phone: req.Phone, NationalID: req.NationalID}
	if _, err := s.CreateProfile(ctx, profile); err != nil {
		s.notifier.BestEffortFailed("create initial profile", err)
	}
	return &res, nil
}

// SubmitRegistration validates form and registers it. Nothing is sent when
// validation fails. New accounts wait for an administrator, so the session
// is cleared once the account exists.
func (s *AuthService) SubmitRegistration(ctx context.Context, form RegisterForm) (*AuthResult, error) {
	if err := form.Validate(); err != nil {
		return nil, err
	}
	res, err := s.Register(ctx, form.Request())
	if err != nil {
		return nil, err
	}
	if err := s.Logout(); err != nil {
		s.logger.Printf("SubmitRegistration: logout: %v", err)
	}
	return res, nil
}

func (s *AuthService) CreateProfile(ctx context.Context, p ProfileUpdate) (*models.User, error) {
	return s.writeProfile(ctx, http.MethodPost, "/user/profile", p)
}

func (s *AuthService) UpdateProfile(ctx context.Context, p ProfileUpdate) (*models.User, error) {
	return s.writeProfile(ctx, http.MethodPut, "/user/profile", p)
}

// CompleteProfile saves p and marks the profile complete.
func (s *AuthService) CompleteProfile(ctx context.Context, p ProfileUpdate) (*models.User, error) {
	return s.writeProfile(ctx, http.MethodPut, "/user/complete-profile", p)
}

func (s *AuthService) writeProfile(ctx context.Context, method, path string, p ProfileUpdate) (*models.User, error) {
	var user models.User
	var err error
	if method == http.MethodPost {
		err = s.api.Post(ctx, path, p, &user)
	} else {
		err = s.api.Put(ctx, path, p, &user)
	}
	if err != nil {
		return nil, fmt.Errorf("%s %s: %w", method, path, err)
	}
	if err := s.session.MergeUser(&user); err != nil {
		return nil, err
	}
	return &user, nil
}

// GetProfile fetches the signed-in user and replaces the cached snapshot.
func (s *AuthService) GetProfile(ctx context.Context) (*models.User, error) {
	var user models.User
	if err := s.api.Get(ctx, "/user/profile", &user); err != nil {
		return nil, fmt.Errorf("get profile: %w", err)
	}
	if err := s.session.ReplaceUser(&user); err != nil {
		return nil, err
	}
	return &user, nil
}

// UploadProfileImage returns the URL of the stored image.
func (s *AuthService) UploadProfileImage(ctx context.Context) (string, error) {
	var res struct {
		ImageURL string `json:"imageUrl"`
	}
	if err := s.api.Post(ctx, "/user/upload-profile-image", nil, &res); err != nil {
		return "", fmt.Errorf("upload profile image: %w", err)
	}
	return res.ImageURL, nil
}

// Logout clears the local session. The token is not revoked anywhere.
func (s *AuthService) Logout() error {
	return s.session.Clear()
}

func (s *AuthService) IsAuthenticated() bool {
	return s.session.Token() != ""
}

// CurrentUser returns the cached snapshot, if any.
func (s *AuthService) CurrentUser() (*models.User, bool) {
	u, err := s.session.User()
	if err != nil {
		return nil, false
	}
	return u, true
}

// TestCredentials offers the built-in admin account while failed calls are
// answered by the mock backend.
func (s *AuthService) TestCredentials() (Credentials, bool) {
	if sim, ok := s.api.(interface{ Simulating() bool }); ok && sim.Simulating() {
		return Credentials{Email: "admin.auth", Password: "Qwer112233"}, true
	}
	return Credentials{}, false
}

func (s *AuthService) ListUsers(ctx context.Context) ([]*models.User, error) {
	var users []*models.User
	if err := s.api.Get(ctx, "/admin/users", &users); err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	return users, nil
}

func (s *AuthService) ActivateUser(ctx context.Context, id string) (*models.User, error) {
	var user models.User
	if err := s.api.Put(ctx, "/admin/users/"+url.PathEscape(id)+"/activate", nil, &user); err != nil {
		return nil, fmt.Errorf("activate user %s: %w", id, err)
	}
	return &user, nil
}

func (s *AuthService) DeactivateUser(ctx context.Context, id string) (*models.User, error) {
	var user models.User
	if err := s.api.Put(ctx, "/admin/users/"+url.PathEscape(id)+"/deactivate", nil, &user); err != nil {
		return nil, fmt.Errorf("deactivate user %s: %w", id, err)
	}
	return &user, nil
}

func (s *AuthService) DeleteUser(ctx context.Context, id string) error {
	if err := s.api.Delete(ctx, "/admin/users/"+url.PathEscape(id), nil); err != nil {
		return fmt.Errorf("delete user %s: %w", id, err)
	}
	return nil
}

// Landing paths after sign-in.
const (
	PatientCompleteProfilePath = "/patient/complete-profile"
	PatientDashboardPath       = "/patient/dashboard"
	NurseRegisterInfoPath      = "/nurse/register-info"
	NurseDashboardPath         = "/nurse/dashboard"
	AdminDashboardPath         = "/admin/dashboard"
)

// LandingPath is where a signed-in user belongs: the role's completion flow
// while the profile is incomplete, its dashboard afterwards.
func LandingPath(role models.Role, profileComplete bool) string {
	switch role {
	case models.RolePatient:
		if !profileComplete {
			return PatientCompleteProfilePath
		}
		return PatientDashboardPath
	case models.RoleNurse:
		if !profileComplete {
			return NurseRegisterInfoPath
		}
		return NurseDashboardPath
	case models.RoleAdmin:
		return AdminDashboardPath
	}
	return session.RootPath
}

// SignIn logs in and decides where the user lands. An inactive profile is
// signed straight back out with ErrPendingActivation. When the profile can
// not be fetched the failure is only logged and the role's dashboard is used.
func (s *AuthService) SignIn(ctx context.Context, email, password string) (string, error) {
	res, err := s.Login(ctx, LoginRequest{Email: email, Password: password})
	if err != nil {
		return "", err
	}

	profile, err := s.GetProfile(ctx)
	if err != nil {
		s.logger.Printf("SignIn: error checking profile: %v", err)
		if !s.IsAuthenticated() {
			return session.RootPath, nil
		}
		return LandingPath(res.UserType, true), nil
	}
	if !profile.IsActive {
		if err := s.Logout(); err != nil {
			s.logger.Printf("SignIn: logout: %v", err)
		}
		return "", ErrPendingActivation
	}
	return LandingPath(profile.Role, profile.ProfileComplete), nil
}

// RequireSession returns the current session state or ErrNotAuthenticated.
func (s *AuthService) RequireSession() (session.State, error) {
	st, ok := s.session.Read()
	if !ok {
		return session.State{}, ErrNotAuthenticated
	}
	return st, nil
}

var _ API = (*gateway.Client)(nil)
