package store

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/harentsoaR/carelink/internal/models"
)

const (
	usersCollection     = "users"
	requestsCollection  = "serviceRequests"
	questionsCollection = "medicalQuestions"
)

// MongoStore keeps the fixture database in MongoDB so the dev server
// survives restarts.
type MongoStore struct {
	DB *mongo.Database
}

func NewMongoStore(db *mongo.Database) *MongoStore {
	return &MongoStore{DB: db}
}

// EnsureIndexes creates the unique email index the duplicate check relies on.
func (s *MongoStore) EnsureIndexes(ctx context.Context) error {
	_, err := s.DB.Collection(usersCollection).Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return fmt.Errorf("create email index: %w", err)
	}
	return nil
}

// SeedIfEmpty loads the fixtures only when the users collection is empty.
func (s *MongoStore) SeedIfEmpty(ctx context.Context, cost int) error {
	n, err := s.DB.Collection(usersCollection).CountDocuments(ctx, bson.M{})
	if err != nil {
		return fmt.Errorf("count users: %w", err)
	}
	if n > 0 {
		return nil
	}
	return Seed(ctx, s, cost)
}

func (s *MongoStore) ListUsers(ctx context.Context) ([]*models.User, error) {
	cursor, err := s.DB.Collection(usersCollection).Find(ctx, bson.M{},
		options.Find().SetSort(bson.D{{Key: "registrationDate", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("find users: %w", err)
	}
	defer cursor.Close(ctx)

	var users []*models.User
	if err := cursor.All(ctx, &users); err != nil {
		return nil, fmt.Errorf("decode users: %w", err)
	}
	if users == nil {
		users = make([]*models.User, 0)
	}
	return users, nil
}

func (s *MongoStore) findUser(ctx context.Context, filter bson.M) (*models.User, error) {
	var u models.User
	err := s.DB.Collection(usersCollection).FindOne(ctx, filter).Decode(&u)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (s *MongoStore) FindUserByID(ctx context.Context, id string) (*models.User, error) {
	return s.findUser(ctx, bson.M{"_id": id})
}

func (s *MongoStore) FindUserByEmail(ctx context.Context, email string) (*models.User, error) {
	return s.findUser(ctx, bson.M{"email": email})
}

func (s *MongoStore) CreateUser(ctx context.Context, u *models.User) error {
	_, err := s.DB.Collection(usersCollection).InsertOne(ctx, u)
	if mongo.IsDuplicateKeyError(err) {
		return ErrDuplicateEmail
	}
	return err
}

func (s *MongoStore) UpdateUser(ctx context.Context, id string, mutate UserMutator) (*models.User, error) {
	u, err := s.FindUserByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := mutate(u); err != nil {
		return nil, err
	}
	result, err := s.DB.Collection(usersCollection).ReplaceOne(ctx, bson.M{"_id": id}, u)
	if err != nil {
		return nil, fmt.Errorf("replace user %s: %w", id, err)
	}
	if result.MatchedCount == 0 {
		return nil, ErrNotFound
	}
	return u, nil
}

func (s *MongoStore) DeleteUser(ctx context.Context, id string) error {
	result, err := s.DB.Collection(usersCollection).DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("delete user %s: %w", id, err)
	}
	if result.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *MongoStore) CreateServiceRequest(ctx context.Context, r *models.ServiceRequest) error {
	_, err := s.DB.Collection(requestsCollection).InsertOne(ctx, r)
	return err
}

func (s *MongoStore) ListServiceRequests(ctx context.Context) ([]*models.ServiceRequest, error) {
	cursor, err := s.DB.Collection(requestsCollection).Find(ctx, bson.M{},
		options.Find().SetSort(bson.D{{Key: "createdAt", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("find service requests: %w", err)
	}
	defer cursor.Close(ctx)

	var requests []*models.ServiceRequest
	if err := cursor.All(ctx, &requests); err != nil {
		return nil, fmt.Errorf("decode service requests: %w", err)
	}
	if requests == nil {
		requests = make([]*models.ServiceRequest, 0)
	}
	return requests, nil
}

func (s *MongoStore) CreateQuestion(ctx context.Context, q *models.MedicalQuestion) error {
	_, err := s.DB.Collection(questionsCollection).InsertOne(ctx, q)
	return err
}

func (s *MongoStore) ListQuestions(ctx context.Context) ([]*models.MedicalQuestion, error) {
	cursor, err := s.DB.Collection(questionsCollection).Find(ctx, bson.M{},
		options.Find().SetSort(bson.D{{Key: "createdAt", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("find questions: %w", err)
	}
	defer cursor.Close(ctx)

	var questions []*models.MedicalQuestion
	if err := cursor.All(ctx, &questions); err != nil {
		return nil, fmt.Errorf("decode questions: %w", err)
	}
	if questions == nil {
		questions = make([]*models.MedicalQuestion, 0)
	}
	return questions, nil
}

func (s *MongoStore) UpdateQuestion(ctx context.Context, id string, mutate QuestionMutator) (*models.MedicalQuestion, error) {
	var q models.MedicalQuestion
	coll := s.DB.Collection(questionsCollection)
	err := coll.FindOne(ctx, bson.M{"_id": id}).Decode(&q)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	if err := mutate(&q); err != nil {
		return nil, err
	}
	if _, err := coll.ReplaceOne(ctx, bson.M{"_id": id}, &q); err != nil {
		return nil, fmt.Errorf("replace question %s: %w", id, err)
	}
	return &q, nil
}
