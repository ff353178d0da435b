package catalogRepo

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

// MongoCatalogRepo implements CatalogRepository using MongoDB.
type MongoCatalogRepo struct {
	services *mongo.Collection
	users    *mongo.Collection
	reviews  *mongo.Collection
}

// NewMongoCatalogRepo creates a new instance of CatalogRepository using MongoDB.
func NewMongoCatalogRepo() CatalogRepository {
	db := database.DB()
	return &MongoCatalogRepo{
		services: db.Collection("services"),
		users:    db.Collection("users"),
		reviews:  db.Collection("reviews"),
	}
}

// newContext creates a context with the given timeout.
func newContext(timeout time.Duration) (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), timeout)
}

// GetService retrieves a catalog entry by id.
func (r *MongoCatalogRepo) GetService(id string) (*models.Service, error) {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	var svc models.Service
	if err := r.services.FindOne(ctx, bson.M{"id": id}).Decode(&svc); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, fmt.Errorf("service %s: %w", id, database.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to fetch service %s: %w", id, err)
	}
	return &svc, nil
}

// ListServices retrieves the full catalog.
func (r *MongoCatalogRepo) ListServices() ([]models.Service, error) {
	ctx, cancel := newContext(10 * time.Second)
	defer cancel()

	cursor, err := r.services.Find(ctx, bson.M{})
	if err != nil {
		return nil, fmt.Errorf("failed to query services: %w", err)
	}
	defer cursor.Close(ctx)

	services := []models.Service{}
	if err := cursor.All(ctx, &services); err != nil {
		return nil, fmt.Errorf("failed to decode services: %w", err)
	}
	return services, nil
}

// ListProvidersForService retrieves providers whose skills include the service.
func (r *MongoCatalogRepo) ListProvidersForService(serviceID string) ([]models.Profile, error) {
	ctx, cancel := newContext(10 * time.Second)
	defer cancel()

	filter := bson.M{"role": "provider", "skills": serviceID}
	cursor, err := r.users.Find(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to query providers for service %s: %w", serviceID, err)
	}
	defer cursor.Close(ctx)

	providers := []models.Profile{}
	if err := cursor.All(ctx, &providers); err != nil {
		return nil, fmt.Errorf("failed to decode providers: %w", err)
	}
	return providers, nil
}

// GetProfile retrieves a single profile by id.
func (r *MongoCatalogRepo) GetProfile(id string) (*models.Profile, error) {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	var p models.Profile
	if err := r.users.FindOne(ctx, bson.M{"id": id}).Decode(&p); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, fmt.Errorf("profile %s: %w", id, database.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to fetch profile %s: %w", id, err)
	}
	return &p, nil
}

// GetProfileNames batch-fetches display names for the given user ids.
func (r *MongoCatalogRepo) GetProfileNames(ids []string) (map[string]string, error) {
	return r.namesByID(r.users, ids)
}

// GetServiceNames batch-fetches catalog names for the given service ids.
func (r *MongoCatalogRepo) GetServiceNames(ids []string) (map[string]string, error) {
	return r.namesByID(r.services, ids)
}

// namesByID runs one $in query projected to id+name, so list enrichment
// costs one round trip per collection instead of one per row.
func (r *MongoCatalogRepo) namesByID(coll *mongo.Collection, ids []string) (map[string]string, error) {
	names := make(map[string]string, len(ids))
	if len(ids) == 0 {
		return names, nil
	}

	ctx, cancel := newContext(10 * time.Second)
	defer cancel()

	opts := options.Find().SetProjection(bson.M{"id": 1, "name": 1})
	cursor, err := coll.Find(ctx, bson.M{"id": bson.M{"$in": ids}}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to batch-fetch names: %w", err)
	}
	defer cursor.Close(ctx)

	for cursor.Next(ctx) {
		var doc struct {
			ID   string `bson:"id"`
			Name string `bson:"name"`
		}
		if err := cursor.Decode(&doc); err != nil {
			return nil, fmt.Errorf("failed to decode name document: %w", err)
		}
		names[doc.ID] = doc.Name
	}
	if err := cursor.Err(); err != nil {
		return nil, fmt.Errorf("cursor error while batch-fetching names: %w", err)
	}
	return names, nil
}

// CreateReview inserts a review record.
func (r *MongoCatalogRepo) CreateReview(review *models.Review) error {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	if _, err := r.reviews.InsertOne(ctx, review); err != nil {
		return fmt.Errorf("error creating review: %w", err)
	}
	return nil
}

// ListReviewsForProvider retrieves all reviews written against a provider.
func (r *MongoCatalogRepo) ListReviewsForProvider(providerID string) ([]models.Review, error) {
	ctx, cancel := newContext(10 * time.Second)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	cursor, err := r.reviews.Find(ctx, bson.M{"providerId": providerID}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to query reviews for provider %s: %w", providerID, err)
	}
	defer cursor.Close(ctx)

	reviews := []models.Review{}
	if err := cursor.All(ctx, &reviews); err != nil {
		return nil, fmt.Errorf("failed to decode reviews: %w", err)
	}
	return reviews, nil
}
