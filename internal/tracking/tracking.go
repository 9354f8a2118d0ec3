// internal/tracking/tracking.go
package tracking

import (
	"context"
	"errors"
	"fmt"
	"time"

	"dkt-api-server/internal/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Recorder appends asset lifecycle events to a trail.
type Recorder interface {
	Record(ctx context.Context, events []models.TrackingEvent) error
}

// Reader returns an asset's trail, oldest first.
type Reader interface {
	History(ctx context.Context, assetID primitive.ObjectID) ([]models.TrackingEvent, error)
}

// Fanout records to every recorder and joins their errors.
type Fanout []Recorder

func (f Fanout) Record(ctx context.Context, events []models.TrackingEvent) error {
	var errs []error
	for _, r := range f {
		if err := r.Record(ctx, events); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Events builds one event per asset with the same status and remarks.
func Events(assetIDs []primitive.ObjectID, status, remarks, actorID string) []models.TrackingEvent {
	now := time.Now()
	out := make([]models.TrackingEvent, 0, len(assetIDs))
	for _, id := range assetIDs {
		out = append(out, models.TrackingEvent{
			AssetID: id,
			Status:  status,
			Remarks: remarks,
			ActorID: actorID,
			At:      now,
		})
	}
	return out
}

// MongoTrail keeps the trail in the asset_tracking collection.
type MongoTrail struct {
	Collection *mongo.Collection
}

func NewMongoTrail(db *mongo.Database) *MongoTrail {
	return &MongoTrail{Collection: db.Collection("asset_tracking")}
}

func (m *MongoTrail) Record(ctx context.Context, events []models.TrackingEvent) error {
	if len(events) == 0 {
		return nil
	}
	docs := make([]interface{}, 0, len(events))
	for _, e := range events {
		docs = append(docs, e)
	}
	if _, err := m.Collection.InsertMany(ctx, docs); err != nil {
		return fmt.Errorf("failed to record tracking events: %w", err)
	}
	return nil
}

func (m *MongoTrail) History(ctx context.Context, assetID primitive.ObjectID) ([]models.TrackingEvent, error) {
	opts := options.Find().SetSort(bson.D{{Key: "at", Value: 1}})
	cursor, err := m.Collection.Find(ctx, bson.M{"assetId": assetID}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to query tracking events: %w", err)
	}
	defer cursor.Close(ctx)

	events := []models.TrackingEvent{}
	if err := cursor.All(ctx, &events); err != nil {
		return nil, fmt.Errorf("failed to decode tracking events: %w", err)
	}
	return events, nil
}
