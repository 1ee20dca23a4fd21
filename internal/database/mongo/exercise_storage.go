package mongo

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/GoArmGo/ExerciseTracker/internal/domain"
)

// ExerciseStorage реализует ports.ExerciseStorage на коллекции exercises
type ExerciseStorage struct {
	coll   *mongo.Collection
	logger *slog.Logger
}

func NewExerciseStorage(db *mongo.Database, logger *slog.Logger) *ExerciseStorage {
	return &ExerciseStorage{coll: db.Collection(exercisesCollection), logger: logger}
}

func (s *ExerciseStorage) CreateExercise(ctx context.Context, exercise *domain.Exercise) error {
	if !primitive.IsValidObjectID(exercise.UserID) {
		return fmt.Errorf("exercise user id %q: %w", exercise.UserID, domain.ErrInvalidID)
	}

	doc := exerciseDocument{
		ID:          primitive.NewObjectID(),
		UserID:      exercise.UserID,
		Description: exercise.Description,
		Duration:    exercise.Duration,
		Date:        exercise.Date.UTC(),
		CreatedAt:   time.Now().UTC(),
	}
	if _, err := s.coll.InsertOne(ctx, doc); err != nil {
		return fmt.Errorf("insert exercise: %w", err)
	}

	exercise.ID = doc.ID.Hex()
	exercise.CreatedAt = doc.CreatedAt
	s.logger.Info("exercise saved to MongoDB", "exercise_id", exercise.ID, "user_id", exercise.UserID)
	return nil
}

// FindExercises выбирает упражнения пользователя в порядке вставки
func (s *ExerciseStorage) FindExercises(ctx context.Context, filter domain.ExerciseFilter) ([]domain.Exercise, error) {
	query, err := exerciseQuery(filter)
	if err != nil {
		return nil, err
	}

	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: 1}, {Key: "_id", Value: 1}})
	if filter.Limit > 0 {
		opts.SetLimit(int64(filter.Limit))
	}

	cursor, err := s.coll.Find(ctx, query, opts)
	if err != nil {
		return nil, fmt.Errorf("find exercises: %w", err)
	}
	defer cursor.Close(ctx)

	exercises := []domain.Exercise{}
	for cursor.Next(ctx) {
		var doc exerciseDocument
		if err := cursor.Decode(&doc); err != nil {
			return nil, fmt.Errorf("decode exercise: %w", err)
		}
		exercises = append(exercises, doc.toDomain())
	}
	if err := cursor.Err(); err != nil {
		return nil, fmt.Errorf("iterate exercises: %w", err)
	}
	return exercises, nil
}

// exerciseQuery строит фильтр MongoDB; границы дат включительные
func exerciseQuery(filter domain.ExerciseFilter) (bson.M, error) {
	if !primitive.IsValidObjectID(filter.UserID) {
		return nil, fmt.Errorf("exercise user id %q: %w", filter.UserID, domain.ErrInvalidID)
	}

	query := bson.M{"userId": filter.UserID}
	if filter.From != nil || filter.To != nil {
		date := bson.M{}
		if filter.From != nil {
			date["$gte"] = filter.From.UTC()
		}
		if filter.To != nil {
			date["$lte"] = filter.To.UTC()
		}
		query["date"] = date
	}
	return query, nil
}
