// internal/store/ledger.go
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
	"go.mongodb.org/mongo-driver/mongo/options"
)

func (m *Mongo) FindPlan(ctx context.Context, id primitive.ObjectID) (*models.PricingPlan, error) {
	var p models.PricingPlan
	if err := findOne(ctx, m.col(PricingPlans), bson.M{"_id": id}, &p, "pricing plan"); err != nil {
		return nil, err
	}
	return &p, nil
}

func (m *Mongo) ListPlans(ctx context.Context) ([]models.PricingPlan, error) {
	return findAll[models.PricingPlan](ctx, m.col(PricingPlans), bson.M{}, options.Find().SetSort(bson.D{{Key: "createdAt", Value: 1}}))
}

func (m *Mongo) InsertPlan(ctx context.Context, plan *models.PricingPlan) error {
	if _, err := m.col(PricingPlans).InsertOne(ctx, plan); err != nil {
		return fmt.Errorf("failed to insert pricing plan: %w", err)
	}
	return nil
}

func (m *Mongo) UpdatePlan(ctx context.Context, plan *models.PricingPlan) error {
	res, err := m.col(PricingPlans).ReplaceOne(ctx, bson.M{"_id": plan.ID}, plan)
	if err != nil {
		return fmt.Errorf("failed to update pricing plan: %w", err)
	}
	if res.MatchedCount == 0 {
		return apperr.NotFound("pricing plan not found")
	}
	return nil
}

func (m *Mongo) DeletePlan(ctx context.Context, id primitive.ObjectID) error {
	res, err := m.col(PricingPlans).DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("failed to delete pricing plan: %w", err)
	}
	if res.DeletedCount == 0 {
		return apperr.NotFound("pricing plan not found")
	}
	return nil
}

// CreateInvoice depends on the unique (requestId, invoiceType) index for
// one invoice per type and request.
func (m *Mongo) CreateInvoice(ctx context.Context, inv *models.Invoice, sub *models.Subscription) error {
	return m.withTransaction(ctx, func(sc mongo.SessionContext) error {
		if _, err := m.col(Invoices).InsertOne(sc, inv); err != nil {
			if mongo.IsDuplicateKeyError(err) {
				return apperr.Conflict("a %s invoice already exists for this request", inv.InvoiceType)
			}
			return fmt.Errorf("failed to insert invoice: %w", err)
		}

		res, err := m.col(Requests).UpdateOne(sc,
			bson.M{"_id": inv.RequestID},
			bson.M{"$set": bson.M{"invoiceGenerated": true, "updatedAt": inv.CreatedAt}},
		)
		if err != nil {
			return fmt.Errorf("failed to flag request invoiced: %w", err)
		}
		if res.MatchedCount == 0 {
			return apperr.NotFound("request not found")
		}

		if sub != nil {
			res, err := m.col(Donors).UpdateOne(sc, bson.M{"_id": inv.DonorID}, bson.M{"$set": bson.M{"subscription": sub}})
			if err != nil {
				return fmt.Errorf("failed to attach subscription: %w", err)
			}
			if res.MatchedCount == 0 {
				return apperr.NotFound("donor not found")
			}
		}
		return nil
	})
}

func (m *Mongo) FindInvoice(ctx context.Context, id primitive.ObjectID) (*models.Invoice, error) {
	var inv models.Invoice
	if err := findOne(ctx, m.col(Invoices), bson.M{"_id": id}, &inv, "invoice"); err != nil {
		return nil, err
	}
	return &inv, nil
}

func (m *Mongo) FindInvoiceByOrder(ctx context.Context, orderID string) (*models.Invoice, error) {
	var inv models.Invoice
	if err := findOne(ctx, m.col(Invoices), bson.M{"paymentDetail.orderId": orderID}, &inv, "invoice"); err != nil {
		return nil, err
	}
	return &inv, nil
}

func (m *Mongo) AttachPaymentOrder(ctx context.Context, invoiceID primitive.ObjectID, orderID string) error {
	res, err := m.col(Invoices).UpdateOne(ctx,
		bson.M{"_id": invoiceID},
		bson.M{"$set": bson.M{"paymentDetail.orderId": orderID, "updatedAt": time.Now()}},
	)
	if err != nil {
		return fmt.Errorf("failed to attach payment order: %w", err)
	}
	if res.MatchedCount == 0 {
		return apperr.NotFound("invoice not found")
	}
	return nil
}

// SettleInvoice marks the invoice paid and cascades to the request and, when
// one is attached, the donor subscription, which then runs for a year.
func (m *Mongo) SettleInvoice(ctx context.Context, inv *models.Invoice, transactionID string, at time.Time) error {
	return m.withTransaction(ctx, func(sc mongo.SessionContext) error {
		res, err := m.col(Invoices).UpdateOne(sc,
			bson.M{"_id": inv.ID, "paymentDetail.paid": false},
			bson.M{"$set": bson.M{
				"paymentDetail.status":        models.PaymentSuccess,
				"paymentDetail.paid":          true,
				"paymentDetail.transactionId": transactionID,
				"updatedAt":                   at,
			}},
		)
		if err != nil {
			return fmt.Errorf("failed to settle invoice: %w", err)
		}
		if res.MatchedCount == 0 {
			return apperr.Conflict("invoice %s is already paid", inv.InvoiceNumber)
		}

		_, err = m.col(Requests).UpdateOne(sc, bson.M{"_id": inv.RequestID}, bson.M{"$set": bson.M{
			"paymentDetail": models.PaymentDetail{Status: models.PaymentActive, Paid: true, TransactionID: transactionID},
			"updatedAt":     at,
		}})
		if err != nil {
			return fmt.Errorf("failed to mark request paid: %w", err)
		}

		if inv.Subscription != nil {
			_, err = m.col(Donors).UpdateOne(sc, bson.M{"_id": inv.DonorID}, bson.M{"$set": bson.M{
				"subscription.status":        models.PaymentActive,
				"subscription.paid":          true,
				"subscription.transactionId": transactionID,
				"subscription.startedAt":     at,
				"subscription.expiresAt":     at.AddDate(1, 0, 0),
			}})
			if err != nil {
				return fmt.Errorf("failed to activate subscription: %w", err)
			}
		}
		return nil
	})
}

func (m *Mongo) InsertReport(ctx context.Context, r *models.Report) error {
	if _, err := m.col(Reports).InsertOne(ctx, r); err != nil {
		return fmt.Errorf("failed to insert report: %w", err)
	}
	return nil
}

func (m *Mongo) ListReports(ctx context.Context) ([]models.Report, error) {
	return findAll[models.Report](ctx, m.col(Reports), bson.M{}, newestFirst())
}
