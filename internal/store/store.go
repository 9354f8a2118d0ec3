// internal/store/store.go
package store

import (
	"context"
	"errors"
	"fmt"

	"dkt-api-server/internal/apperr"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Collection names.
const (
	Products            = "products"
	ProductUploads      = "product_uploads"
	Requests            = "requests"
	BeneficiaryRequests = "beneficiary_requests"
	AssetDeliveries     = "asset_deliveries"
	Invoices            = "invoices"
	PricingPlans        = "pricing_plans"
	Reports             = "reports"
	Donors              = "donors"
	Beneficiaries       = "beneficiaries"
	Partners            = "partners"
	Admins              = "admins"
)

// Mongo implements the workflow persistence ports. Cross-document writes run
// in a transaction, so the server must be a replica set.
type Mongo struct {
	DB *mongo.Database
}

func New(db *mongo.Database) *Mongo {
	return &Mongo{DB: db}
}

func (m *Mongo) col(name string) *mongo.Collection {
	return m.DB.Collection(name)
}

// withTransaction runs fn in a session transaction. Errors returned by fn abort it.
func (m *Mongo) withTransaction(ctx context.Context, fn func(sc mongo.SessionContext) error) error {
	session, err := m.DB.Client().StartSession()
	if err != nil {
		return fmt.Errorf("failed to start database session: %w", err)
	}
	defer session.EndSession(ctx)

	_, err = session.WithTransaction(ctx, func(sc mongo.SessionContext) (interface{}, error) {
		return nil, fn(sc)
	})
	return err
}

// findOne decodes a single document or returns a NotFound error naming what.
func findOne(ctx context.Context, c *mongo.Collection, filter any, out any, what string) error {
	err := c.FindOne(ctx, filter).Decode(out)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return apperr.NotFound("%s not found", what)
	}
	if err != nil {
		return fmt.Errorf("failed to load %s: %w", what, err)
	}
	return nil
}

func findAll[T any](ctx context.Context, c *mongo.Collection, filter any, opts ...*options.FindOptions) ([]T, error) {
	cursor, err := c.Find(ctx, filter, opts...)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	out := []T{}
	if err := cursor.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func newestFirst() *options.FindOptions {
	return options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
}
