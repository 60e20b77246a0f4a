package services

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"sync"

	"github.com/harentsoaR/carelink/internal/models"
)

var ErrActiveRequest = errors.New("cannot go offline: an active request is in progress")

type availabilityBody struct {
	Available bool                `json:"available"`
	Location  *models.Coordinates `json:"location,omitempty"`
}

// NurseService tracks a nurse's availability. While an active request is
// held the nurse can not go offline.
type NurseService struct {
	api API

	mu            sync.Mutex
	available     bool
	activeRequest string
}

func NewNurseService(api API) *NurseService {
	return &NurseService{api: api}
}

func (s *NurseService) Available() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.available
}

// ActiveRequest returns the id of the request being worked on, or "".
func (s *NurseService) ActiveRequest() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.activeRequest
}

// SetAvailability publishes the nurse's availability and, when given, position.
// Going offline with an active request fails with ErrActiveRequest before
// anything is sent.
func (s *NurseService) SetAvailability(ctx context.Context, available bool, loc *models.Coordinates) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.setAvailability(ctx, available, loc)
}

// ToggleAvailability flips the current availability and returns the new value.
// Concurrent toggles are applied one after the other.
func (s *NurseService) ToggleAvailability(ctx context.Context, loc *models.Coordinates) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.setAvailability(ctx, !s.available, loc); err != nil {
		return s.available, err
	}
	return s.available, nil
}

// setAvailability requires s.mu.
func (s *NurseService) setAvailability(ctx context.Context, available bool, loc *models.Coordinates) error {
	if !available && s.activeRequest != "" {
		return ErrActiveRequest
	}
	var res availabilityBody
	if err := s.api.Post(ctx, "/nurse/availability", availabilityBody{Available: available, Location: loc}, &res); err != nil {
		return fmt.Errorf("set availability: %w", err)
	}
	s.available = res.Available
	return nil
}

// BeginRequest takes on a request; only an available nurse can.
func (s *NurseService) BeginRequest(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.available {
		return errors.New("nurse is offline")
	}
	if s.activeRequest != "" && s.activeRequest != id {
		return fmt.Errorf("request %s already in progress", s.activeRequest)
	}
	s.activeRequest = id
	return nil
}

// FinishRequest releases the active request lock.
func (s *NurseService) FinishRequest() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.activeRequest = ""
}

// PendingRequests lists the broadcast requests waiting for a nurse.
func (s *NurseService) PendingRequests(ctx context.Context) ([]*models.ServiceRequest, error) {
	var out []*models.ServiceRequest
	if err := s.api.Get(ctx, "/nurse/requests", &out); err != nil {
		return nil, fmt.Errorf("pending requests: %w", err)
	}
	return out, nil
}

func (s *NurseService) OpenQuestions(ctx context.Context) ([]*models.MedicalQuestion, error) {
	var out []*models.MedicalQuestion
	if err := s.api.Get(ctx, "/nurse/questions", &out); err != nil {
		return nil, fmt.Errorf("open questions: %w", err)
	}
	return out, nil
}

func (s *NurseService) AnswerQuestion(ctx context.Context, id, answer string) (*models.MedicalQuestion, error) {
	var q models.MedicalQuestion
	body := map[string]string{"answer": answer}
	if err := s.api.Put(ctx, "/nurse/questions/"+url.PathEscape(id)+"/answer", body, &q); err != nil {
		return nil, fmt.Errorf("answer question %s: %w", id, err)
	}
	return &q, nil
}
