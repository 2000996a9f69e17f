package repository

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	availabilityerrors "tutorly/internal/availability/errors"
	"tutorly/pkg/config"
	mongotx "tutorly/pkg/db/mongo"
	"tutorly/pkg/model"
)

const (
	CollectionName = "Weekly_availability"
)

type AvailabilityRepository interface {
	ReplaceAll(ctx context.Context, teacherID string, slots []*model.WeeklyAvailabilitySlot) error
	ListFor(ctx context.Context, teacherID string) ([]*model.WeeklyAvailabilitySlot, error)
	ListForDay(ctx context.Context, teacherID string, dayOfWeek int) ([]*model.WeeklyAvailabilitySlot, error)
	FindOne(ctx context.Context, teacherID, slotID string) (*model.WeeklyAvailabilitySlot, error)
	UpdateOne(ctx context.Context, teacherID, slotID string, slot *model.WeeklyAvailabilitySlot) error
	DeleteOne(ctx context.Context, teacherID, slotID string) error
	ExecuteTransaction(ctx context.Context, fn mongotx.TransactionFunc) error
}

type mongoAvailabilityRepository struct {
	cfg        *config.Config
	db         *mongo.Database
	collection *mongo.Collection
	txManager  mongotx.TransactionManager
}

func NewMongoAvailabilityRepository(cfg *config.Config) AvailabilityRepository {
	db := cfg.Client.Mongo.Database(cfg.MongoDatabaseName)
	return &mongoAvailabilityRepository{
		cfg:        cfg,
		db:         db,
		collection: db.Collection(CollectionName),
		txManager:  mongotx.NewTransactionManager(cfg.Client.Mongo),
	}
}

// withTimeout wraps the context with a timeout if not already in a transaction.
// When inside a transaction (SessionContext), returns the original context unchanged
// with a no-op cancel function, as we cannot wrap SessionContext without breaking
// transaction semantics.
func (r *mongoAvailabilityRepository) withTimeout(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	if _, ok := ctx.(mongo.SessionContext); ok {
		return ctx, func() {}
	}

	deadline, hasDeadline := ctx.Deadline()
	if !hasDeadline {
		return context.WithTimeout(ctx, timeout)
	}

	remaining := time.Until(deadline)
	if remaining < timeout {
		return context.WithTimeout(ctx, remaining)
	}

	return context.WithTimeout(ctx, timeout)
}

// ReplaceAll swaps a teacher's whole weekly pattern inside one transaction,
// so concurrent readers see either the old set or the new set, never an
// empty in-between state.
func (r *mongoAvailabilityRepository) ReplaceAll(ctx context.Context, teacherID string, slots []*model.WeeklyAvailabilitySlot) error {
	now := time.Now().UTC().Truncate(time.Millisecond)

	docs := make([]interface{}, 0, len(slots))
	for _, slot := range slots {
		slot.TeacherID = teacherID
		if slot.ID == "" {
			slot.ID = primitive.NewObjectID().Hex()
		}
		slot.CreatedAt = now
		docs = append(docs, slot)
	}

	return r.txManager.ExecuteTransaction(ctx, func(sessCtx mongo.SessionContext) error {
		if _, err := r.collection.DeleteMany(sessCtx, bson.M{"teacher_id": teacherID}); err != nil {
			return fmt.Errorf("failed to clear availability: %w", err)
		}
		if len(docs) == 0 {
			return nil
		}
		if _, err := r.collection.InsertMany(sessCtx, docs); err != nil {
			return fmt.Errorf("failed to insert availability: %w", err)
		}
		return nil
	})
}

func (r *mongoAvailabilityRepository) ListFor(ctx context.Context, teacherID string) ([]*model.WeeklyAvailabilitySlot, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	opts := options.Find().
		SetSort(bson.D{{Key: "day_of_week", Value: 1}, {Key: "start_time", Value: 1}})

	cursor, err := r.collection.Find(ctx, bson.M{"teacher_id": teacherID}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to find availability: %w", err)
	}
	defer cursor.Close(ctx)

	var slots []*model.WeeklyAvailabilitySlot
	if err = cursor.All(ctx, &slots); err != nil {
		return nil, fmt.Errorf("failed to decode availability: %w", err)
	}

	return slots, nil
}

func (r *mongoAvailabilityRepository) ListForDay(ctx context.Context, teacherID string, dayOfWeek int) ([]*model.WeeklyAvailabilitySlot, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	filter := bson.M{
		"teacher_id":  teacherID,
		"day_of_week": dayOfWeek,
	}
	opts := options.Find().
		SetSort(bson.D{{Key: "start_time", Value: 1}})

	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to find availability for day: %w", err)
	}
	defer cursor.Close(ctx)

	var slots []*model.WeeklyAvailabilitySlot
	if err = cursor.All(ctx, &slots); err != nil {
		return nil, fmt.Errorf("failed to decode availability for day: %w", err)
	}

	return slots, nil
}

func (r *mongoAvailabilityRepository) FindOne(ctx context.Context, teacherID, slotID string) (*model.WeeklyAvailabilitySlot, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	// Ownership is part of the filter: a slot id belonging to another
	// teacher reads as not found, never as someone else's slot.
	filter := bson.M{"_id": slotID, "teacher_id": teacherID}

	var slot model.WeeklyAvailabilitySlot
	if err := r.collection.FindOne(ctx, filter).Decode(&slot); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, availabilityerrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find availability slot: %w", err)
	}

	return &slot, nil
}

func (r *mongoAvailabilityRepository) UpdateOne(ctx context.Context, teacherID, slotID string, slot *model.WeeklyAvailabilitySlot) error {
	ctx, cancel := r.withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	filter := bson.M{"_id": slotID, "teacher_id": teacherID}
	update := bson.M{
		"$set": bson.M{
			"day_of_week":  slot.DayOfWeek,
			"start_time":   slot.StartTime,
			"end_time":     slot.EndTime,
			"is_available": slot.IsAvailable,
		},
	}

	result, err := r.collection.UpdateOne(ctx, filter, update)
	if err != nil {
		return fmt.Errorf("failed to update availability slot: %w", err)
	}

	if result.MatchedCount == 0 {
		return availabilityerrors.ErrNotFound
	}

	return nil
}

func (r *mongoAvailabilityRepository) DeleteOne(ctx context.Context, teacherID, slotID string) error {
	ctx, cancel := r.withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	filter := bson.M{"_id": slotID, "teacher_id": teacherID}
	result, err := r.collection.DeleteOne(ctx, filter)
	if err != nil {
		return fmt.Errorf("failed to delete availability slot: %w", err)
	}

	if result.DeletedCount == 0 {
		return availabilityerrors.ErrNotFound
	}

	return nil
}

func (r *mongoAvailabilityRepository) ExecuteTransaction(ctx context.Context, fn mongotx.TransactionFunc) error {
	return r.txManager.ExecuteTransaction(ctx, fn)
}
