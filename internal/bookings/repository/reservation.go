package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	bookingserrors "tutorly/internal/bookings/errors"
	"tutorly/pkg/config"
	"tutorly/pkg/model"
)

const (
	ReservationCollectionName = "Slot_reservations"
)

// ReservationRepository is the slot reservation ledger. A reservation is a
// short-lived hold on one (teacher, date, start, end) tuple; the document
// _id is the deterministic key for that tuple, so _id uniqueness in the
// store is what arbitrates concurrent attempts. There is no check-then-act
// anywhere in this file.
type ReservationRepository interface {
	TryReserve(ctx context.Context, teacherID, date, startTime, endTime string, ttl time.Duration) (*model.SlotReservation, error)
	FindByToken(ctx context.Context, token string) (*model.SlotReservation, error)
	Consume(ctx context.Context, token, bookingID string) error
	Release(ctx context.Context, token string) error
	ReleaseByBooking(ctx context.Context, bookingID string) error
	ReleaseOccurrence(ctx context.Context, bookingID, date, startTime string) error
	FindLiveByTeacherAndDate(ctx context.Context, teacherID, date string) ([]*model.SlotReservation, error)
}

type mongoReservationRepository struct {
	cfg        *config.Config
	collection *mongo.Collection
}

func NewMongoReservationRepository(cfg *config.Config) ReservationRepository {
	db := cfg.Client.Mongo.Database(cfg.MongoDatabaseName)
	return &mongoReservationRepository{
		cfg:        cfg,
		collection: db.Collection(ReservationCollectionName),
	}
}

func (r *mongoReservationRepository) withTimeout(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
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

// TryReserve places a hold on the slot tuple in a single atomic upsert.
//
// The filter matches the tuple's document only when it is expired and was
// never consumed. Three outcomes:
//   - no document: the upsert inserts one with _id = key, hold acquired;
//   - expired unconsumed document: the filter matches and the hold takes
//     over the row, so expired reservations never block a slot;
//   - live or consumed document: the filter misses, the upsert attempts an
//     insert, and the _id constraint rejects it with a duplicate key error,
//     which surfaces as ErrReservationHeld.
func (r *mongoReservationRepository) TryReserve(ctx context.Context, teacherID, date, startTime, endTime string, ttl time.Duration) (*model.SlotReservation, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	now := time.Now().UTC()
	reservation := &model.SlotReservation{
		Key:           model.ReservationKey(teacherID, date, startTime, endTime),
		Token:         uuid.NewString(),
		TeacherID:     teacherID,
		Date:          date,
		StartTime:     startTime,
		EndTime:       endTime,
		BookingID:     "",
		ReservedUntil: now.Add(ttl),
		CreatedAt:     now,
	}

	filter := bson.M{
		"_id":            reservation.Key,
		"booking_id":     "",
		"reserved_until": bson.M{"$lt": now},
	}
	update := bson.M{
		"$set": bson.M{
			"token":          reservation.Token,
			"teacher_id":     reservation.TeacherID,
			"date":           reservation.Date,
			"start_time":     reservation.StartTime,
			"end_time":       reservation.EndTime,
			"booking_id":     "",
			"reserved_until": reservation.ReservedUntil,
			"created_at":     reservation.CreatedAt,
		},
	}

	_, err := r.collection.UpdateOne(ctx, filter, update, options.Update().SetUpsert(true))
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, bookingserrors.ErrReservationHeld
		}
		return nil, fmt.Errorf("failed to reserve slot: %w", err)
	}

	return reservation, nil
}

func (r *mongoReservationRepository) FindByToken(ctx context.Context, token string) (*model.SlotReservation, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	var reservation model.SlotReservation
	err := r.collection.FindOne(ctx, bson.M{"token": token}).Decode(&reservation)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, bookingserrors.ErrReservationNotFound
		}
		return nil, fmt.Errorf("failed to find reservation: %w", err)
	}

	return &reservation, nil
}

// Consume binds a reservation to its booking. Consuming with the same
// booking id again is a no-op; a different booking id is a conflict. The
// reserved_until field is unset so the TTL sweeper leaves consumed rows
// alone.
func (r *mongoReservationRepository) Consume(ctx context.Context, token, bookingID string) error {
	ctx, cancel := r.withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	filter := bson.M{
		"token": token,
		"$or": []bson.M{
			{"booking_id": ""},
			{"booking_id": bookingID},
		},
	}
	update := bson.M{
		"$set":   bson.M{"booking_id": bookingID},
		"$unset": bson.M{"reserved_until": ""},
	}

	result, err := r.collection.UpdateOne(ctx, filter, update)
	if err != nil {
		return fmt.Errorf("failed to consume reservation: %w", err)
	}
	if result.MatchedCount > 0 {
		return nil
	}

	// Distinguish an unknown token from one consumed by another booking.
	count, err := r.collection.CountDocuments(ctx, bson.M{"token": token})
	if err != nil {
		return fmt.Errorf("failed to inspect reservation: %w", err)
	}
	if count == 0 {
		return bookingserrors.ErrReservationNotFound
	}
	return bookingserrors.ErrReservationConsumed
}

// Release drops an unconsumed hold early. Consumed reservations are kept;
// releasing one is a no-op.
func (r *mongoReservationRepository) Release(ctx context.Context, token string) error {
	ctx, cancel := r.withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	if _, err := r.collection.DeleteOne(ctx, bson.M{"token": token, "booking_id": ""}); err != nil {
		return fmt.Errorf("failed to release reservation: %w", err)
	}
	return nil
}

// ReleaseByBooking frees every reservation a cancelled booking was holding.
func (r *mongoReservationRepository) ReleaseByBooking(ctx context.Context, bookingID string) error {
	ctx, cancel := r.withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	if _, err := r.collection.DeleteMany(ctx, bson.M{"booking_id": bookingID}); err != nil {
		return fmt.Errorf("failed to release booking reservations: %w", err)
	}
	return nil
}

// ReleaseOccurrence frees the hold for one cancelled occurrence of a
// booking, making that slot reservable again.
func (r *mongoReservationRepository) ReleaseOccurrence(ctx context.Context, bookingID, date, startTime string) error {
	ctx, cancel := r.withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	filter := bson.M{
		"booking_id": bookingID,
		"date":       date,
		"start_time": startTime,
	}
	if _, err := r.collection.DeleteOne(ctx, filter); err != nil {
		return fmt.Errorf("failed to release occurrence reservation: %w", err)
	}
	return nil
}

// FindLiveByTeacherAndDate lists the holds that still block slots on the
// given date: consumed ones and unexpired pending ones.
func (r *mongoReservationRepository) FindLiveByTeacherAndDate(ctx context.Context, teacherID, date string) ([]*model.SlotReservation, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	filter := bson.M{
		"teacher_id": teacherID,
		"date":       date,
		"$or": []bson.M{
			{"booking_id": bson.M{"$ne": ""}},
			{"reserved_until": bson.M{"$gt": time.Now().UTC()}},
		},
	}

	cursor, err := r.collection.Find(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to find live reservations: %w", err)
	}
	defer cursor.Close(ctx)

	var reservations []*model.SlotReservation
	if err = cursor.All(ctx, &reservations); err != nil {
		return nil, fmt.Errorf("failed to decode reservations: %w", err)
	}

	return reservations, nil
}
