// internal/store/assets.go
package store

import (
	"context"
	"fmt"
	"time"

	"dkt-api-server/internal/apperr"
	"dkt-api-server/internal/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

func (m *Mongo) InsertUpload(ctx context.Context, upload *models.ProductUpload, assets []models.Asset) error {
	return m.withTransaction(ctx, func(sc mongo.SessionContext) error {
		docs := make([]interface{}, len(assets))
		for i, a := range assets {
			docs[i] = a
		}
		if _, err := m.col(Products).InsertMany(sc, docs); err != nil {
			return fmt.Errorf("failed to insert products: %w", err)
		}
		if _, err := m.col(ProductUploads).InsertOne(sc, upload); err != nil {
			return fmt.Errorf("failed to insert upload: %w", err)
		}
		return nil
	})
}

func (m *Mongo) ReviewUpload(ctx context.Context, uploadID primitive.ObjectID, approval models.Approval) error {
	return m.withTransaction(ctx, func(sc mongo.SessionContext) error {
		var upload models.ProductUpload
		if err := findOne(sc, m.col(ProductUploads), bson.M{"_id": uploadID}, &upload, "upload"); err != nil {
			return err
		}
		if _, err := m.col(ProductUploads).UpdateOne(sc, bson.M{"_id": uploadID}, bson.M{"$set": bson.M{"adminApproval": approval}}); err != nil {
			return fmt.Errorf("failed to update upload: %w", err)
		}
		_, err := m.col(Products).UpdateMany(sc,
			bson.M{"_id": bson.M{"$in": upload.Products}},
			bson.M{"$set": bson.M{"adminApproval": approval, "updatedAt": time.Now()}},
		)
		if err != nil {
			return fmt.Errorf("failed to update products: %w", err)
		}
		return nil
	})
}

func (m *Mongo) ListUploads(ctx context.Context, donorID primitive.ObjectID) ([]models.ProductUpload, error) {
	return findAll[models.ProductUpload](ctx, m.col(ProductUploads), bson.M{"donorId": donorID}, newestFirst())
}

func (m *Mongo) FindAssets(ctx context.Context, ids []primitive.ObjectID) ([]models.Asset, error) {
	return findAll[models.Asset](ctx, m.col(Products), bson.M{"_id": bson.M{"$in": ids}})
}

func (m *Mongo) ListAssets(ctx context.Context, donorID primitive.ObjectID) ([]models.Asset, error) {
	return findAll[models.Asset](ctx, m.col(Products), bson.M{"donorId": donorID}, newestFirst())
}

func (m *Mongo) UpdateAssetCondition(ctx context.Context, id primitive.ObjectID, condition models.AssetCondition, repair models.Repair) error {
	res, err := m.col(Products).UpdateOne(ctx,
		bson.M{"_id": id},
		bson.M{"$set": bson.M{"condition": condition, "repair": repair, "updatedAt": time.Now()}},
	)
	if err != nil {
		return fmt.Errorf("failed to update product condition: %w", err)
	}
	if res.MatchedCount == 0 {
		return apperr.NotFound("product not found")
	}
	return nil
}
