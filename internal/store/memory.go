package store

import (
	"context"
	"sync"

	"github.com/harentsoaR/carelink/internal/models"
)

// MemoryStore is an in-memory Store. Insertion order is preserved.
type MemoryStore struct {
	mu        sync.RWMutex
	users     []*models.User
	requests  []*models.ServiceRequest
	questions []*models.MedicalQuestion
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (s *MemoryStore) ListUsers(ctx context.Context) ([]*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*models.User, 0, len(s.users))
	for _, u := range s.users {
		out = append(out, u.Clone())
	}
	return out, nil
}

func (s *MemoryStore) FindUserByID(ctx context.Context, id string) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if i := s.userIndex(id); i >= 0 {
		return s.users[i].Clone(), nil
	}
	return nil, ErrNotFound
}

func (s *MemoryStore) FindUserByEmail(ctx context.Context, email string) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, u := range s.users {
		if u.Email == email {
			return u.Clone(), nil
		}
	}
	return nil, ErrNotFound
}

func (s *MemoryStore) CreateUser(ctx context.Context, u *models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.users {
		if existing.Email == u.Email {
			return ErrDuplicateEmail
		}
	}
	s.users = append(s.users, u.Clone())
	return nil
}

func (s *MemoryStore) UpdateUser(ctx context.Context, id string, mutate UserMutator) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.userIndex(id)
	if i < 0 {
		return nil, ErrNotFound
	}
	u := s.users[i].Clone()
	if err := mutate(u); err != nil {
		return nil, err
	}
	s.users[i] = u
	return u.Clone(), nil
}

func (s *MemoryStore) DeleteUser(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.userIndex(id)
	if i < 0 {
		return ErrNotFound
	}
	s.users = append(s.users[:i], s.users[i+1:]...)
	return nil
}

// userIndex must be called with mu held.
func (s *MemoryStore) userIndex(id string) int {
	for i, u := range s.users {
		if u.ID == id {
			return i
		}
	}
	return -1
}

func (s *MemoryStore) CreateServiceRequest(ctx context.Context, r *models.ServiceRequest) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	c := *r
	s.requests = append(s.requests, &c)
	return nil
}

func (s *MemoryStore) ListServiceRequests(ctx context.Context) ([]*models.ServiceRequest, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*models.ServiceRequest, 0, len(s.requests))
	for _, r := range s.requests {
		c := *r
		out = append(out, &c)
	}
	return out, nil
}

func (s *MemoryStore) CreateQuestion(ctx context.Context, q *models.MedicalQuestion) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	c := *q
	s.questions = append(s.questions, &c)
	return nil
}

func (s *MemoryStore) ListQuestions(ctx context.Context) ([]*models.MedicalQuestion, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*models.MedicalQuestion, 0, len(s.questions))
	for _, q := range s.questions {
		c := *q
		out = append(out, &c)
	}
	return out, nil
}

func (s *MemoryStore) UpdateQuestion(ctx context.Context, id string, mutate QuestionMutator) (*models.MedicalQuestion, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, q := range s.questions {
		if q.ID != id {
			continue
		}
		c := *q
		if err := mutate(&c); err != nil {
			return nil, err
		}
		s.questions[i] = &c
		out := c
		return &out, nil
	}
	return nil, ErrNotFound
}
