package bookingRepo

import (
	"context"
	"fmt"
	"time"

	"homely/database"
	"homely/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoBookingRepo implements BookingRepository using MongoDB.
type MongoBookingRepo struct {
	coll *mongo.Collection
}

// NewMongoBookingRepo creates a new instance of BookingRepository using MongoDB.
func NewMongoBookingRepo() BookingRepository {
	coll := database.DB().Collection("bookings")
	repo := &MongoBookingRepo{coll: coll}

	if err := repo.ensureIndexes(); err != nil {
		fmt.Printf("failed to create booking indexes: %v\n", err)
	}
	return repo
}

// newContext creates a context with the given timeout.
func newContext(timeout time.Duration) (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), timeout)
}

func (r *MongoBookingRepo) ensureIndexes() error {
	ctx, cancel := newContext(10 * time.Second)
	defer cancel()

	indexModels := []mongo.IndexModel{
		{Keys: bson.D{{Key: "id", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "userId", Value: 1}, {Key: "status", Value: 1}}},
		{Keys: bson.D{{Key: "providerId", Value: 1}, {Key: "status", Value: 1}}},
	}

	_, err := r.coll.Indexes().CreateMany(ctx, indexModels)
	if err != nil {
		return fmt.Errorf("failed to create indexes: %w", err)
	}
	return nil
}

// Create inserts a new booking record.
func (r *MongoBookingRepo) Create(booking *models.Booking) error {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	if _, err := r.coll.InsertOne(ctx, booking); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return fmt.Errorf("booking %s already exists: %w", booking.ID, database.ErrConflict)
		}
		return fmt.Errorf("error creating booking: %w", err)
	}
	return nil
}

// GetByID retrieves a booking by its unique ID.
func (r *MongoBookingRepo) GetByID(id string) (*models.Booking, error) {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	var booking models.Booking
	if err := r.coll.FindOne(ctx, bson.M{"id": id}).Decode(&booking); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, fmt.Errorf("booking %s: %w", id, database.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to fetch booking %s: %w", id, err)
	}
	return &booking, nil
}

// ListByUser retrieves a client's bookings restricted to the given statuses.
func (r *MongoBookingRepo) ListByUser(userID string, statuses []string) ([]models.Booking, error) {
	return r.list(bson.M{"userId": userID, "status": bson.M{"$in": statuses}})
}

// ListByProvider retrieves a provider's bookings restricted to the given statuses.
func (r *MongoBookingRepo) ListByProvider(providerID string, statuses []string) ([]models.Booking, error) {
	return r.list(bson.M{"providerId": providerID, "status": bson.M{"$in": statuses}})
}

func (r *MongoBookingRepo) list(filter bson.M) ([]models.Booking, error) {
	ctx, cancel := newContext(10 * time.Second)
	defer cancel()

	cursor, err := r.coll.Find(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to query bookings: %w", err)
	}
	defer cursor.Close(ctx)

	bookings := []models.Booking{}
	for cursor.Next(ctx) {
		var b models.Booking
		if err := cursor.Decode(&b); err != nil {
			return nil, fmt.Errorf("failed to decode booking: %w", err)
		}
		bookings = append(bookings, b)
	}
	if err := cursor.Err(); err != nil {
		return nil, fmt.Errorf("cursor error while listing bookings: %w", err)
	}
	return bookings, nil
}

// UpdateStatus conditionally moves a booking from one of the expected
// statuses to the next one. The expected-status filter makes the transition
// safe against concurrent writers racing on the same booking.
func (r *MongoBookingRepo) UpdateStatus(id string, from []string, to string) error {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	filter := bson.M{"id": id, "status": bson.M{"$in": from}}
	update := bson.M{"$set": bson.M{"status": to}}
	res, err := r.coll.UpdateOne(ctx, filter, update)
	if err != nil {
		return fmt.Errorf("error updating booking %s status: %w", id, err)
	}
	if res.MatchedCount == 0 {
		return r.explainMiss(id)
	}
	return nil
}

// MarkRated sets ratingSubmitted on a completed booking.
func (r *MongoBookingRepo) MarkRated(id string) error {
	return r.setRatingFlag(id, "ratingSubmitted")
}

// MarkRatingSkipped sets ratingSkipped on a completed booking.
func (r *MongoBookingRepo) MarkRatingSkipped(id string) error {
	return r.setRatingFlag(id, "ratingSkipped")
}

func (r *MongoBookingRepo) setRatingFlag(id, field string) error {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	filter := bson.M{"id": id, "status": models.BookingStatusCompleted}
	update := bson.M{"$set": bson.M{field: true}}
	res, err := r.coll.UpdateOne(ctx, filter, update)
	if err != nil {
		return fmt.Errorf("error setting %s on booking %s: %w", field, id, err)
	}
	if res.MatchedCount == 0 {
		return r.explainMiss(id)
	}
	return nil
}

// explainMiss distinguishes "no such booking" from "booking not in expected
// state" after a conditional write matched nothing.
func (r *MongoBookingRepo) explainMiss(id string) error {
	booking, err := r.GetByID(id)
	if err != nil {
		return err
	}
	return fmt.Errorf("booking %s has status %q: %w", id, booking.Status, database.ErrConflict)
}
