// internal/store/deliveries.go
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

func (m *Mongo) InsertBeneficiaryRequest(ctx context.Context, req *models.BeneficiaryRequest) error {
	if _, err := m.col(BeneficiaryRequests).InsertOne(ctx, req); err != nil {
		return fmt.Errorf("failed to insert beneficiary request: %w", err)
	}
	return nil
}

func (m *Mongo) FindBeneficiaryRequest(ctx context.Context, id primitive.ObjectID) (*models.BeneficiaryRequest, error) {
	var req models.BeneficiaryRequest
	if err := findOne(ctx, m.col(BeneficiaryRequests), bson.M{"_id": id}, &req, "beneficiary request"); err != nil {
		return nil, err
	}
	return &req, nil
}

func (m *Mongo) ListBeneficiaryRequests(ctx context.Context, beneficiaryID *primitive.ObjectID) ([]models.BeneficiaryRequest, error) {
	filter := bson.M{}
	if beneficiaryID != nil {
		filter["beneficiaryId"] = *beneficiaryID
	}
	return findAll[models.BeneficiaryRequest](ctx, m.col(BeneficiaryRequests), filter, newestFirst())
}

func (m *Mongo) ModerateBeneficiaryRequest(ctx context.Context, id primitive.ObjectID, status models.BeneficiaryRequestStatus, comments string) error {
	res, err := m.col(BeneficiaryRequests).UpdateOne(ctx,
		bson.M{"_id": id},
		bson.M{"$set": bson.M{"status": status, "adminComments": comments, "updatedAt": time.Now()}},
	)
	if err != nil {
		return fmt.Errorf("failed to update beneficiary request: %w", err)
	}
	if res.MatchedCount == 0 {
		return apperr.NotFound("beneficiary request not found")
	}
	return nil
}

// CreateDelivery relies on the partial unique index on assetIds to reject a
// second active assignment for the same asset.
func (m *Mongo) CreateDelivery(ctx context.Context, d *models.AssetDelivery) error {
	return m.withTransaction(ctx, func(sc mongo.SessionContext) error {
		if _, err := m.col(AssetDeliveries).InsertOne(sc, d); err != nil {
			if mongo.IsDuplicateKeyError(err) {
				return apperr.Conflict("one or more assets already have an active delivery")
			}
			return fmt.Errorf("failed to insert delivery: %w", err)
		}

		date := d.CreatedAt
		res, err := m.col(BeneficiaryRequests).UpdateOne(sc, bson.M{"_id": d.BeneficiaryRequestID}, bson.M{"$set": bson.M{
			"status": models.BeneficiaryApproved,
			"assignedDetails": models.AssignedDetails{
				AssetIDs: d.AssetIDs,
				Status:   models.BindingAssigned,
				Date:     &date,
			},
			"updatedAt": date,
		}})
		if err != nil {
			return fmt.Errorf("failed to update beneficiary request: %w", err)
		}
		if res.MatchedCount == 0 {
			return apperr.NotFound("beneficiary request not found")
		}
		return nil
	})
}

func (m *Mongo) FindDelivery(ctx context.Context, id primitive.ObjectID) (*models.AssetDelivery, error) {
	var d models.AssetDelivery
	if err := findOne(ctx, m.col(AssetDeliveries), bson.M{"_id": id}, &d, "delivery"); err != nil {
		return nil, err
	}
	return &d, nil
}

func (m *Mongo) ListDeliveries(ctx context.Context, partnerID primitive.ObjectID) ([]models.AssetDelivery, error) {
	return findAll[models.AssetDelivery](ctx, m.col(AssetDeliveries), bson.M{"partnerId": partnerID}, newestFirst())
}

// CompleteDeliveryBooking binds the assets only where no beneficiary is set
// yet; a short count aborts the whole transaction.
func (m *Mongo) CompleteDeliveryBooking(ctx context.Context, d *models.AssetDelivery, details models.ShippingDetails) error {
	return m.withTransaction(ctx, func(sc mongo.SessionContext) error {
		now := time.Now()

		// 1. Bind assets
		res, err := m.col(Products).UpdateMany(sc,
			bson.M{"_id": bson.M{"$in": d.AssetIDs}, "assignedToBeneficiary.beneficiaryId": nil},
			bson.M{"$set": bson.M{
				"assignedToBeneficiary": models.BeneficiaryBinding{
					BeneficiaryID: &d.BeneficiaryID,
					Status:        models.BindingAssigned,
					Date:          &now,
				},
				"updatedAt": now,
			}},
		)
		if err != nil {
			return fmt.Errorf("failed to bind products: %w", err)
		}
		if res.ModifiedCount != int64(len(d.AssetIDs)) {
			return apperr.Conflict("some assets were bound to another beneficiary")
		}

		// 2. Shipment on the assignment
		_, err = m.col(AssetDeliveries).UpdateOne(sc, bson.M{"_id": d.ID}, bson.M{
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
			return fmt.Errorf("failed to store delivery shipment: %w", err)
		}

		// 3. Shipment on the beneficiary request
		_, err = m.col(BeneficiaryRequests).UpdateOne(sc,
			bson.M{"_id": d.BeneficiaryRequestID},
			bson.M{"$set": bson.M{"shippingDetails": details, "updatedAt": now}},
		)
		if err != nil {
			return fmt.Errorf("failed to store request shipment: %w", err)
		}
		return nil
	})
}

func (m *Mongo) FailDeliveryBooking(ctx context.Context, id primitive.ObjectID, reason string) error {
	return m.failBooking(ctx, AssetDeliveries, id, reason)
}

func (m *Mongo) UpdateDeliveryStatus(ctx context.Context, d *models.AssetDelivery, partnerID primitive.ObjectID, status models.DeliveryStatus) error {
	return m.withTransaction(ctx, func(sc mongo.SessionContext) error {
		now := time.Now()
		delivered := status == models.DeliveryDelivered

		set := bson.M{"status": status, "partnerId": partnerID, "updatedAt": now}
		if delivered {
			set["active"] = false
		}
		filter := bson.M{"_id": d.ID, "status": bson.M{"$ne": models.DeliveryDelivered}}
		if status.NeedsShipment() {
			filter["fulfillment.state"] = models.FulfillmentBooked
		}
		var updated models.AssetDelivery
		err := m.col(AssetDeliveries).FindOneAndUpdate(sc,
			filter,
			bson.M{"$set": set},
			options.FindOneAndUpdate().SetReturnDocument(options.After),
		).Decode(&updated)
		if errors.Is(err, mongo.ErrNoDocuments) {
			return apperr.Conflict("delivery cannot move to %s: it is Delivered or its shipment is not booked", status)
		}
		if err != nil {
			return fmt.Errorf("failed to update delivery: %w", err)
		}

		binding := models.BindingInProgress
		if delivered {
			binding = models.BindingDelivered
		}
		_, err = m.col(BeneficiaryRequests).UpdateOne(sc,
			bson.M{"_id": updated.BeneficiaryRequestID},
			bson.M{"$set": bson.M{"assignedDetails.status": binding, "updatedAt": now}},
		)
		if err != nil {
			return fmt.Errorf("failed to update beneficiary request: %w", err)
		}

		if delivered {
			_, err = m.col(Products).UpdateMany(sc,
				bson.M{"_id": bson.M{"$in": updated.AssetIDs}},
				bson.M{"$set": bson.M{
					"status":                       models.AssetDelivered,
					"assignedToBeneficiary.status": models.BindingDelivered,
					"updatedAt":                    now,
				}},
			)
			if err != nil {
				return fmt.Errorf("failed to mark products delivered: %w", err)
			}
		}
		return nil
	})
}
