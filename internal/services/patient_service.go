package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/harentsoaR/carelink/internal/models"
)

var (
	ErrGeolocationUnsupported = errors.New("geolocation is not supported")
	ErrLocationUnavailable    = errors.New("could not access your location")
)

// Locator reports where the device currently is.
type Locator interface {
	Locate(ctx context.Context) (models.Coordinates, error)
}

type LocatorFunc func(ctx context.Context) (models.Coordinates, error)

func (f LocatorFunc) Locate(ctx context.Context) (models.Coordinates, error) { return f(ctx) }

type ServiceRequestInput struct {
	PatientName          string              `json:"patientName"`
	PatientAge           string              `json:"patientAge"`
	ServiceType          string              `json:"serviceType"`
	Details              string              `json:"details"`
	Address              string              `json:"address"`
	Coordinates          *models.Coordinates `json:"coordinates,omitempty"`
	BroadcastToAllNurses bool                `json:"broadcastToAllNurses"`
	Emergency            bool                `json:"emergency"`
}

type QuestionInput struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}

// PatientService covers what a signed-in patient can ask of the backend.
type PatientService struct {
	api     API
	locator Locator
}

// NewPatientService returns a PatientService. locator may be nil when the
// device has no geolocation.
func NewPatientService(api API, locator Locator) *PatientService {
	return &PatientService{api: api, locator: locator}
}

func (s *PatientService) RequestService(ctx context.Context, in ServiceRequestInput) (*models.ServiceRequest, error) {
	var sr models.ServiceRequest
	if err := s.api.Post(ctx, "/patient/request-service", in, &sr); err != nil {
		return nil, fmt.Errorf("request service: %w", err)
	}
	return &sr, nil
}

// RequestEmergency locates the device once and broadcasts an emergency
// request at that position. A failed location lookup sends nothing.
func (s *PatientService) RequestEmergency(ctx context.Context) (*models.ServiceRequest, error) {
	if s.locator == nil {
		return nil, ErrGeolocationUnsupported
	}
	pos, err := s.locator.Locate(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrLocationUnavailable, err)
	}
	return s.RequestService(ctx, ServiceRequestInput{
		PatientName:          "Emergency",
		ServiceType:          models.ServiceEmergency,
		Details:              "Emergency request - Immediate assistance needed",
		Address:              "Current location",
		Coordinates:          &pos,
		BroadcastToAllNurses: true,
		Emergency:            true,
	})
}

func (s *PatientService) AskQuestion(ctx context.Context, in QuestionInput) (*models.MedicalQuestion, error) {
	var q models.MedicalQuestion
	if err := s.api.Post(ctx, "/patient/questions", in, &q); err != nil {
		return nil, fmt.Errorf("ask question: %w", err)
	}
	return &q, nil
}

func (s *PatientService) MyQuestions(ctx context.Context) ([]*models.MedicalQuestion, error) {
	var qs []*models.MedicalQuestion
	if err := s.api.Get(ctx, "/patient/questions", &qs); err != nil {
		return nil, fmt.Errorf("list questions: %w", err)
	}
	return qs, nil
}
