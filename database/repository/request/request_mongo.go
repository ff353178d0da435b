package requestRepo

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

// MongoRequestRepo implements RequestRepository using MongoDB.
type MongoRequestRepo struct {
	coll *mongo.Collection
}

// NewMongoRequestRepo creates a new instance of RequestRepository using MongoDB.
func NewMongoRequestRepo() RequestRepository {
	coll := database.DB().Collection("serviceRequests")
	repo := &MongoRequestRepo{coll: coll}

	if err := repo.ensureIndexes(); err != nil {
		fmt.Printf("failed to create request indexes: %v\n", err)
	}
	return repo
}

// newContext creates a context with the given timeout.
func newContext(timeout time.Duration) (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), timeout)
}

func (r *MongoRequestRepo) ensureIndexes() error {
	ctx, cancel := newContext(10 * time.Second)
	defer cancel()

	indexModels := []mongo.IndexModel{
		{Keys: bson.D{{Key: "id", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "status", Value: 1}}},
		{Keys: bson.D{{Key: "clientId", Value: 1}, {Key: "status", Value: 1}}},
	}

	_, err := r.coll.Indexes().CreateMany(ctx, indexModels)
	if err != nil {
		return fmt.Errorf("failed to create indexes: %w", err)
	}
	return nil
}

// Create inserts a new request record.
func (r *MongoRequestRepo) Create(req *models.ServiceRequest) error {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	if req.Bids == nil {
		req.Bids = []models.Bid{}
	}
	if _, err := r.coll.InsertOne(ctx, req); err != nil {
		return fmt.Errorf("error creating service request: %w", err)
	}
	return nil
}

// GetByID retrieves a request by its unique ID.
func (r *MongoRequestRepo) GetByID(id string) (*models.ServiceRequest, error) {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	var req models.ServiceRequest
	if err := r.coll.FindOne(ctx, bson.M{"id": id}).Decode(&req); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, fmt.Errorf("service request %s: %w", id, database.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to fetch service request %s: %w", id, err)
	}
	if req.Bids == nil {
		req.Bids = []models.Bid{}
	}
	return &req, nil
}

// ListOpen retrieves every request still accepting bids.
func (r *MongoRequestRepo) ListOpen() ([]models.ServiceRequest, error) {
	return r.list(bson.M{"status": models.RequestStatusOpen})
}

// ListByClient retrieves all requests posted by a client.
func (r *MongoRequestRepo) ListByClient(clientID string) ([]models.ServiceRequest, error) {
	return r.list(bson.M{"clientId": clientID})
}

func (r *MongoRequestRepo) list(filter bson.M) ([]models.ServiceRequest, error) {
	ctx, cancel := newContext(10 * time.Second)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	cursor, err := r.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to query service requests: %w", err)
	}
	defer cursor.Close(ctx)

	requests := []models.ServiceRequest{}
	for cursor.Next(ctx) {
		var req models.ServiceRequest
		if err := cursor.Decode(&req); err != nil {
			return nil, fmt.Errorf("failed to decode service request: %w", err)
		}
		if req.Bids == nil {
			req.Bids = []models.Bid{}
		}
		requests = append(requests, req)
	}
	if err := cursor.Err(); err != nil {
		return nil, fmt.Errorf("cursor error while listing service requests: %w", err)
	}
	return requests, nil
}
