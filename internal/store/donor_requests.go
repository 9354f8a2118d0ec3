// internal/store/donor_requests.go
package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"dkt-api-server/internal/apperr"
	"dkt-api-server/internal/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

func (m *Mongo) CreateDonorRequest(ctx context.Context, req *models.DonorRequest) error {
	return m.withTransaction(ctx, func(sc mongo.SessionContext) error {
		// 1. Reserve every asset of this donor that is still Available
		res, err := m.col(Products).UpdateMany(sc,
			bson.M{"_id": bson.M{"$in": req.Products}, "donorId": req.Donor, "status": models.AssetAvailable},
			bson.M{"$set": bson.M{"status": models.AssetRequested, "updatedAt": req.CreatedAt}},
		)
		if err != nil {
			return fmt.Errorf("failed to reserve products: %w", err)
		}
		if res.ModifiedCount != int64(len(req.Products)) {
			return apperr.Validation("Some products are not available or do not exist")
		}

		// 2. Insert the request
		if _, err := m.col(Requests).InsertOne(sc, req); err != nil {
			return fmt.Errorf("failed to insert request: %w", err)
		}
		return nil
	})
}

func (m *Mongo) FindDonorRequest(ctx context.Context, id primitive.ObjectID) (*models.DonorRequest, error) {
	var req models.DonorRequest
	if err := findOne(ctx, m.col(Requests), bson.M{"_id": id}, &req, "request"); err != nil {
		return nil, err
	}
	return &req, nil
}

func (m *Mongo) ListDonorRequests(ctx context.Context, donorID primitive.ObjectID) ([]models.DonorRequest, error) {
	return findAll[models.DonorRequest](ctx, m.col(Requests), bson.M{"donor": donorID}, newestFirst())
}

// AdvanceDonorRequest only matches a request whose status precedes the target,
// so concurrent moves cannot take it backwards.
func (m *Mongo) AdvanceDonorRequest(ctx context.Context, id primitive.ObjectID, partnerID *primitive.ObjectID, status models.AssetStatus, partnerAddress string) error {
	return m.withTransaction(ctx, func(sc mongo.SessionContext) error {
		now := time.Now()
		set := bson.M{"status": status, "updatedAt": now}
		if partnerID != nil {
			set["partner"] = *partnerID
		}
		if partnerAddress != "" {
			set["partnerAddress"] = partnerAddress
		}
		predecessors := status.Predecessors()

		var req models.DonorRequest
		err := m.col(Requests).FindOneAndUpdate(sc,
			bson.M{"_id": id, "status": bson.M{"$in": predecessors}},
			bson.M{"$set": set},
			options.FindOneAndUpdate().SetReturnDocument(options.After),
		).Decode(&req)
		if errors.Is(err, mongo.ErrNoDocuments) {
			n, cerr := m.col(Requests).CountDocuments(sc, bson.M{"_id": id})
			if cerr != nil {
				return fmt.Errorf("failed to load request: %w", cerr)
			}
			if n == 0 {
				return apperr.NotFound("request not found")
			}
			return apperr.Conflict("request cannot move to %s", status)
		}
		if err != nil {
			return fmt.Errorf("failed to update request: %w", err)
		}

		_, err = m.col(Products).UpdateMany(sc,
			bson.M{"_id": bson.M{"$in": req.Products}, "status": bson.M{"$in": predecessors}},
			bson.M{"$set": bson.M{"status": status, "updatedAt": now}},
		)
		if err != nil {
			return fmt.Errorf("failed to cascade status to products: %w", err)
		}
		return nil
	})
}

func (m *Mongo) CompleteDonorRequestBooking(ctx context.Context, id primitive.ObjectID, details models.ShippingDetails) error {
	now := time.Now()
	_, err := m.col(Requests).UpdateOne(ctx, bson.M{"_id": id}, bson.M{
		"$set": bson.M{
			"shippingDetails":       details,
			"fulfillment.state":     models.FulfillmentBooked,
			"fulfillment.lastError": "",
			"fulfillment.updatedAt": now,
			"updatedAt":             now,
		},
		"$inc": bson.M{"fulfillment.attempts": 1},
	})
	if err != nil {
		return fmt.Errorf("failed to store shipping details: %w", err)
	}
	return nil
}

func (m *Mongo) FailDonorRequestBooking(ctx context.Context, id primitive.ObjectID, reason string) error {
	return m.failBooking(ctx, Requests, id, reason)
}

func (m *Mongo) failBooking(ctx context.Context, collection string, id primitive.ObjectID, reason string) error {
	now := time.Now()
	_, err := m.col(collection).UpdateOne(ctx, bson.M{"_id": id}, bson.M{
		"$set": bson.M{
			"fulfillment.state":     models.FulfillmentShipmentFailed,
			"fulfillment.lastError": reason,
			"fulfillment.updatedAt": now,
			"updatedAt":             now,
		},
		"$inc": bson.M{"fulfillment.attempts": 1},
	})
	if err != nil {
		return fmt.Errorf("failed to record shipment failure: %w", err)
	}
	return nil
}
