package services

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/harentsoaR/carelink/internal/models"
)

// MinPasswordLength is the shortest password a registration form accepts.
const MinPasswordLength = 6

var (
	phonePattern      = regexp.MustCompile(`^(\+201|01)[0-9]{9}$`)
	nationalIDPattern = regexp.MustCompile(`^[0-9]{14}$`)

	validate = newValidator()
)

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterValidation("egphone", func(fl validator.FieldLevel) bool {
		return phonePattern.MatchString(fl.Field().String())
	})
	v.RegisterValidation("nationalid", func(fl validator.FieldLevel) bool {
		return nationalIDPattern.MatchString(fl.Field().String())
	})
	return v
}

// ValidationError rejects a form before anything is sent.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidPhone accepts +201 or 01 followed by exactly nine digits.
func ValidPhone(phone string) bool {
	return validate.Var(phone, "egphone") == nil
}

// ValidNationalID accepts exactly fourteen digits.
func ValidNationalID(id string) bool {
	return validate.Var(id, "nationalid") == nil
}

// RegisterForm is what a sign-up screen collects.
type RegisterForm struct {
	Email           string
	Password        string
	ConfirmPassword string
	Name            string
	Phone           string
	NationalID      string
	UserType        models.Role
	AcceptTerms     bool
}

// Validate checks the form in the order the sign-up screen reports problems
// and returns the first one found.
func (f RegisterForm) Validate() error {
	switch {
	case !f.AcceptTerms:
		return &ValidationError{"acceptTerms", "You must accept the terms and conditions to register."}
	case f.Password != f.ConfirmPassword:
		return &ValidationError{"confirmPassword", "Passwords do not match."}
	case validate.Var(f.Password, fmt.Sprintf("min=%d", MinPasswordLength)) != nil:
		return &ValidationError{"password", fmt.Sprintf("Password must be at least %d characters long.", MinPasswordLength)}
	case strings.TrimSpace(f.Name) == "":
		return &ValidationError{"name", "Full name is required."}
	case strings.TrimSpace(f.Phone) == "":
		return &ValidationError{"phone", "Phone number is required."}
	case !ValidPhone(f.Phone):
		return &ValidationError{"phone", "Please enter a valid Egyptian phone number."}
	case f.UserType == models.RolePatient && !ValidNationalID(f.NationalID):
		return &ValidationError{"nationalId", "Please enter a valid 14-digit National ID."}
	case !f.UserType.Valid():
		return &ValidationError{"userType", "Unknown account type."}
	}
	return nil
}

// Request turns a valid form into the register call body. New accounts
// always start inactive.
func (f RegisterForm) Request() RegisterRequest {
	req := RegisterRequest{
		Email:    f.Email,
		Password: f.Password,
		UserType: f.UserType,
		Name:     f.Name,
		Phone:    f.Phone,
	}
	if f.UserType == models.RolePatient {
		req.NationalID = f.NationalID
	}
	return req
}
