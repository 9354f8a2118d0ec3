// internal/store/indexes.go
package store

import (
	"context"
	"fmt"
	"log"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

func indexPlan() map[string][]mongo.IndexModel {
	uniqueEmail := []mongo.IndexModel{{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: options.Index().SetUnique(true),
	}}

	return map[string][]mongo.IndexModel{
		Donors:        uniqueEmail,
		Beneficiaries: uniqueEmail,
		Partners:      uniqueEmail,
		Admins:        uniqueEmail,
		Products: {
			{Keys: bson.D{{Key: "donorId", Value: 1}, {Key: "createdAt", Value: -1}}},
		},
		ProductUploads: {
			{Keys: bson.D{{Key: "donorId", Value: 1}}},
		},
		Requests: {
			{Keys: bson.D{{Key: "donor", Value: 1}, {Key: "createdAt", Value: -1}}},
		},
		BeneficiaryRequests: {
			{Keys: bson.D{{Key: "beneficiaryId", Value: 1}}},
		},
		// An asset can sit in at most one active delivery.
		AssetDeliveries: {
			{
				Keys: bson.D{{Key: "assetIds", Value: 1}},
				Options: options.Index().
					SetUnique(true).
					SetPartialFilterExpression(bson.M{"active": true}),
			},
			{Keys: bson.D{{Key: "partnerId", Value: 1}}},
		},
		Invoices: {
			{
				Keys:    bson.D{{Key: "requestId", Value: 1}, {Key: "invoiceType", Value: 1}},
				Options: options.Index().SetUnique(true),
			},
			{Keys: bson.D{{Key: "paymentDetail.orderId", Value: 1}}},
		},
		"asset_tracking": {
			{Keys: bson.D{{Key: "assetId", Value: 1}, {Key: "at", Value: 1}}},
		},
		"notifications": {
			{Keys: bson.D{{Key: "sent", Value: 1}, {Key: "createdAt", Value: 1}}},
		},
	}
}

// EnsureIndexes creates the indexes the stores depend on. It is idempotent.
func EnsureIndexes(ctx context.Context, db *mongo.Database) error {
	for collection, models := range indexPlan() {
		names, err := db.Collection(collection).Indexes().CreateMany(ctx, models)
		if err != nil {
			return fmt.Errorf("failed to create indexes on %s: %w", collection, err)
		}
		log.Printf("Indexes ready on %s: %v", collection, names)
	}
	return nil
}
