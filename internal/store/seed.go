package store

import (
	"context"
	"fmt"
	"time"

	"github.com/harentsoaR/carelink/internal/models"
	"github.com/harentsoaR/carelink/internal/utils"
)

// Default credentials of the seeded accounts.
const (
	PatientEmail    = "test@example.com"
	PatientPassword = "password123"
	NurseEmail      = "nurse@example.com"
	NursePassword   = "password123"
	AdminEmail      = "admin@example.com"
	AdminPassword   = "admin123"

	DefaultAdminEmail    = "admin.auth"
	DefaultAdminPassword = "Qwer112233"
)

func mustTime(s string) time.Time {
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		panic(err)
	}
	return t
}

func timePtr(t time.Time) *time.Time { return &t }

func avatar(seed string) string { return "https://i.pravatar.cc/300?u=" + seed }

// FixtureUsers returns the seeded accounts with plain-text passwords.
func FixtureUsers() []*models.User {
	return []*models.User{
		{
			ID:               "test123",
			Email:            PatientEmail,
			Password:         PatientPassword,
			Role:             models.RolePatient,
			Name:             "Test User",
			Phone:            "+201234567890",
			Address:          "123 Test Street, Test City",
			ProfileComplete:  true,
			ProfileImage:     avatar(PatientEmail),
			IsActive:         true,
			RegistrationDate: mustTime("2024-01-15T12:30:45Z"),
			ActivationDate:   timePtr(mustTime("2024-01-15T14:22:33Z")),
			NationalID:       "12345678901234",
			PatientDetails: &models.PatientDetails{
				DateOfBirth:       "1990-01-01",
				Gender:            "female",
				EmergencyContact:  "+201234567891",
				BloodType:         "A+",
				MedicalConditions: []string{"Asthma"},
				Allergies:         []string{"Pollen"},
			},
		},
		{
			ID:               "nurse123",
			Email:            NurseEmail,
			Password:         NursePassword,
			Role:             models.RoleNurse,
			Name:             "Nurse Test",
			Phone:            "+201234567891",
			Address:          "456 Nurse Street, Test City",
			ProfileComplete:  true,
			ProfileImage:     avatar(NurseEmail),
			IsActive:         true,
			RegistrationDate: mustTime("2024-01-10T08:15:30Z"),
			ActivationDate:   timePtr(mustTime("2024-01-10T10:22:15Z")),
			NurseDetails: &models.NurseDetails{
				LicenseID:       "NUR12345",
				Specializations: []string{"General care", "Injections"},
				Experience:      "5 years",
				Location:        models.Coordinates{Latitude: 30.0444, Longitude: 31.2357},
				Balance:         1500,
				TotalEarned:     5000,
			},
		},
		{
			ID:               "admin123",
			Email:            AdminEmail,
			Password:         AdminPassword,
			Role:             models.RoleAdmin,
			Name:             "System Admin",
			Phone:            "+201234567899",
			Address:          "789 Admin Street, Admin City",
			ProfileComplete:  true,
			ProfileImage:     avatar(AdminEmail),
			IsActive:         true,
			RegistrationDate: mustTime("2023-12-01T09:00:00Z"),
			ActivationDate:   timePtr(mustTime("2023-12-01T09:00:00Z")),
		},
		{
			ID:               "default_admin",
			Email:            DefaultAdminEmail,
			Password:         DefaultAdminPassword,
			Role:             models.RoleAdmin,
			Name:             "Default Administrator",
			Phone:            "+201234567888",
			Address:          "Admin Headquarters",
			ProfileComplete:  true,
			ProfileImage:     avatar(DefaultAdminEmail),
			IsActive:         true,
			RegistrationDate: mustTime("2023-01-01T00:00:00Z"),
			ActivationDate:   timePtr(mustTime("2023-01-01T00:00:00Z")),
		},
	}
}

// FixtureServiceRequests returns the seeded broadcast request.
func FixtureServiceRequests(now time.Time) []*models.ServiceRequest {
	cost, paid, emergency := 150.0, false, false
	return []*models.ServiceRequest{{
		ID:                   "req_001",
		PatientID:            "test123",
		PatientName:          "Test User",
		PatientAge:           "35",
		ServiceType:          "prescribed",
		Details:              "Daily insulin injection required",
		Address:              "123 Test Street, Test City",
		Coordinates:          &models.Coordinates{Latitude: 30.0444, Longitude: 31.2357},
		Status:               models.RequestPending,
		BroadcastToAllNurses: true,
		Cost:                 &cost,
		IsPaid:               &paid,
		Emergency:            &emergency,
		CreatedAt:            now,
	}}
}

// FixtureQuestions returns the seeded open question.
func FixtureQuestions(now time.Time) []*models.MedicalQuestion {
	return []*models.MedicalQuestion{{
		ID:          "q_001",
		PatientID:   "test123",
		PatientName: "Test User",
		Title:       "Recurring headache question",
		Description: "I've been experiencing recurring headaches for the past week. What could be causing this?",
		Status:      models.QuestionOpen,
		CreatedAt:   now,
	}}
}

// Seed loads the fixtures into s, hashing passwords at the given bcrypt cost.
func Seed(ctx context.Context, s Store, cost int) error {
	now := time.Now().UTC()
	for _, u := range FixtureUsers() {
		hash, err := utils.HashPassword(u.Password, cost)
		if err != nil {
			return fmt.Errorf("hash password for %s: %w", u.ID, err)
		}
		u.Password = hash
		if err := s.CreateUser(ctx, u); err != nil {
			return fmt.Errorf("seed user %s: %w", u.ID, err)
		}
	}
	for _, r := range FixtureServiceRequests(now) {
		if err := s.CreateServiceRequest(ctx, r); err != nil {
			return fmt.Errorf("seed service request %s: %w", r.ID, err)
		}
	}
	for _, q := range FixtureQuestions(now) {
		if err := s.CreateQuestion(ctx, q); err != nil {
			return fmt.Errorf("seed question %s: %w", q.ID, err)
		}
	}
	return nil
}

// NewSeededMemoryStore returns a MemoryStore loaded with the fixtures.
func NewSeededMemoryStore(cost int) (*MemoryStore, error) {
	s := NewMemoryStore()
	if err := Seed(context.Background(), s, cost); err != nil {
		return nil, err
	}
	return s, nil
}
