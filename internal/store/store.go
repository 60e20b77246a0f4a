// Package store holds the fixture database the mock backend serves from.
package store

import (
	"context"
	"errors"

	"github.com/harentsoaR/carelink/internal/models"
)

var (
	ErrNotFound       = errors.New("not found")
	ErrDuplicateEmail = errors.New("an account with this email already exists")
)

// UserMutator edits a user in place. Returning an error aborts the update.
type UserMutator func(u *models.User) error

// QuestionMutator edits a medical question in place.
type QuestionMutator func(q *models.MedicalQuestion) error

// Store is the persistence contract of the fixture database. Implementations
// must hand out copies so callers can never alias stored records.
type Store interface {
	ListUsers(ctx context.Context) ([]*models.User, error)
	FindUserByID(ctx context.Context, id string) (*models.User, error)
	FindUserByEmail(ctx context.Context, email string) (*models.User, error)
	CreateUser(ctx context.Context, u *models.User) error
	UpdateUser(ctx context.Context, id string, mutate UserMutator) (*models.User, error)
	DeleteUser(ctx context.Context, id string) error

	CreateServiceRequest(ctx context.Context, r *models.ServiceRequest) error
	ListServiceRequests(ctx context.Context) ([]*models.ServiceRequest, error)

	CreateQuestion(ctx context.Context, q *models.MedicalQuestion) error
	ListQuestions(ctx context.Context) ([]*models.MedicalQuestion, error)
	UpdateQuestion(ctx context.Context, id string, mutate QuestionMutator) (*models.MedicalQuestion, error)
}
