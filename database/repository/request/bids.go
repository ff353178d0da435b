package requestRepo

import (
	"fmt"
	"time"

	"homely/database"
	"homely/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// UpsertBid atomically replaces-or-appends the provider's bid while the
// request is still open. The whole replace-and-append runs as a single
// aggregation-pipeline update on the server, so two providers bidding at the
// same moment can never clobber each other's entries.
func (r *MongoRequestRepo) UpsertBid(requestID string, bid models.Bid) error {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	bidDoc := bson.D{
		{Key: "providerId", Value: bid.ProviderID},
		{Key: "providerName", Value: bid.ProviderName},
		{Key: "providerAvatar", Value: bid.ProviderAvatar},
		{Key: "offerAmount", Value: bid.OfferAmount},
		{Key: "comment", Value: bid.Comment},
		{Key: "createdAt", Value: bid.CreatedAt},
	}

	filter := bson.M{"id": requestID, "status": models.RequestStatusOpen}
	pipeline := mongo.Pipeline{
		bson.D{{Key: "$set", Value: bson.D{
			{Key: "bids", Value: bson.D{
				{Key: "$concatArrays", Value: bson.A{
					bson.D{{Key: "$filter", Value: bson.D{
						{Key: "input", Value: bson.D{{Key: "$ifNull", Value: bson.A{"$bids", bson.A{}}}}},
						{Key: "as", Value: "b"},
						{Key: "cond", Value: bson.D{{Key: "$ne", Value: bson.A{"$$b.providerId", bid.ProviderID}}}},
					}}},
					bson.A{bidDoc},
				}},
			}},
			{Key: "version", Value: bson.D{{Key: "$add", Value: bson.A{
				bson.D{{Key: "$ifNull", Value: bson.A{"$version", 0}}}, 1,
			}}}},
		}}},
	}

	res, err := r.coll.UpdateOne(ctx, filter, pipeline)
	if err != nil {
		return fmt.Errorf("error placing bid on request %s: %w", requestID, err)
	}
	if res.MatchedCount == 0 {
		return r.explainMiss(requestID)
	}
	return nil
}

// MarkBooked flips an open request to booked and records the winning provider.
func (r *MongoRequestRepo) MarkBooked(requestID, providerID string) error {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	filter := bson.M{"id": requestID, "status": models.RequestStatusOpen}
	update := bson.M{
		"$set": bson.M{"status": models.RequestStatusBooked, "bookedBy": providerID},
		"$inc": bson.M{"version": 1},
	}
	res, err := r.coll.UpdateOne(ctx, filter, update)
	if err != nil {
		return fmt.Errorf("error booking request %s: %w", requestID, err)
	}
	if res.MatchedCount == 0 {
		return r.explainMiss(requestID)
	}
	return nil
}

// MarkCancelled flips an open request to cancelled.
func (r *MongoRequestRepo) MarkCancelled(requestID string) error {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	filter := bson.M{"id": requestID, "status": models.RequestStatusOpen}
	update := bson.M{
		"$set": bson.M{"status": models.RequestStatusCancelled},
		"$inc": bson.M{"version": 1},
	}
	res, err := r.coll.UpdateOne(ctx, filter, update)
	if err != nil {
		return fmt.Errorf("error cancelling request %s: %w", requestID, err)
	}
	if res.MatchedCount == 0 {
		return r.explainMiss(requestID)
	}
	return nil
}

// explainMiss distinguishes "no such request" from "request no longer open"
// after a conditional write matched nothing.
func (r *MongoRequestRepo) explainMiss(requestID string) error {
	req, err := r.GetByID(requestID)
	if err != nil {
		return err
	}
	return fmt.Errorf("request %s has status %q: %w", requestID, req.Status, database.ErrConflict)
}
