package repository

import (
	"context"
	"dyslexiatutor/internal/model"
	"errors"
	"fmt"
	"slices"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ErrEmptyBank is wrapped in a DataLoadError when a mode has no questions.
var ErrEmptyBank = errors.New("question bank is empty")

// QuestionRepo reads the full practice bank for a mode.
type QuestionRepo interface {
	GetByMode(ctx context.Context, mode model.Mode) ([]model.Question, error)
}

// QuestionWriter is implemented by backends that can be seeded.
type QuestionWriter interface {
	ReplaceMode(ctx context.Context, mode model.Mode, questions []model.Question) error
}

// MongoQuestionRepo stores questions in MongoDB, one document per question tagged with its mode.
type MongoQuestionRepo struct {
	collection *mongo.Collection
}

// NewMongoQuestionRepo creates a question repository over the "questions" collection
func NewMongoQuestionRepo(db *mongo.Database) *MongoQuestionRepo {
	return &MongoQuestionRepo{
		collection: db.Collection("questions"),
	}
}

func (r *MongoQuestionRepo) GetByMode(ctx context.Context, mode model.Mode) ([]model.Question, error) {
	source := "mongo:" + r.collection.Name()

	// Insertion order is the curated order
	opts := options.Find().SetSort(bson.D{{Key: "_id", Value: 1}})
	cursor, err := r.collection.Find(ctx, bson.M{"mode": mode}, opts)
	if err != nil {
		return nil, &DataLoadError{Mode: mode, Source: source, Err: err}
	}
	defer cursor.Close(ctx)

	var questions []model.Question
	if err := cursor.All(ctx, &questions); err != nil {
		return nil, &DataLoadError{Mode: mode, Source: source, Err: err}
	}
	if err := validateBank(mode, questions); err != nil {
		return nil, &DataLoadError{Mode: mode, Source: source, Err: err}
	}
	return questions, nil
}

// ReplaceMode drops a mode's questions and inserts the given ones in order.
func (r *MongoQuestionRepo) ReplaceMode(ctx context.Context, mode model.Mode, questions []model.Question) error {
	if err := validateBank(mode, questions); err != nil {
		return err
	}
	if _, err := r.collection.DeleteMany(ctx, bson.M{"mode": mode}); err != nil {
		return fmt.Errorf("clear mode %s: %w", mode, err)
	}

	docs := make([]interface{}, len(questions))
	for i := range questions {
		q := questions[i]
		q.ID = ""
		q.Mode = mode
		docs[i] = q
	}
	_, err := r.collection.InsertMany(ctx, docs)
	return err
}

// validateBank checks every record carries the fields its mode needs.
func validateBank(mode model.Mode, questions []model.Question) error {
	if len(questions) == 0 {
		return ErrEmptyBank
	}
	for i, q := range questions {
		if err := validateQuestion(mode, q); err != nil {
			return fmt.Errorf("record %d: %w", i, err)
		}
	}
	return nil
}

func validateQuestion(mode model.Mode, q model.Question) error {
	if err := validateSchema(mode, q); err != nil {
		return err
	}
	if mode == model.ModePhonological && !slices.Contains(q.Choices, q.Answer) {
		return fmt.Errorf("answer %q is not one of the choices", q.Answer)
	}
	return nil
}
