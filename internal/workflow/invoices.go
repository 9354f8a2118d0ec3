// internal/workflow/invoices.go
package workflow

import (
	"context"
	"fmt"
	"strings"
	"time"

	"dkt-api-server/internal/apperr"
	"dkt-api-server/internal/billing"
	"dkt-api-server/internal/models"
	"dkt-api-server/internal/notify"
	"dkt-api-server/internal/payment"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	pendingSubscriptionWindow = 10 * 24 * time.Hour
	currencyINR               = "INR"
)

// InvoiceInput is the admin-entered invoice. InvoiceAmount overrides the fee total when set.
type InvoiceInput struct {
	Type          models.InvoiceType
	RequestID     string
	DonorID       string
	GSTNumber     string
	Fees          billing.Fees
	InvoiceAmount *float64
	PlanID        string
}

// CreateInvoice issues an invoice against a donor request.
func (s *Service) CreateInvoice(ctx context.Context, in InvoiceInput) (*models.Invoice, error) {
	switch in.Type {
	case models.InvoiceZeroValue, models.InvoiceRepair, models.InvoiceDisposal:
	default:
		return nil, apperr.Validation("unknown invoice type %q", in.Type)
	}
	reqID, err := ParseID("requestId", in.RequestID)
	if err != nil {
		return nil, err
	}
	donorID, err := ParseID("donorId", in.DonorID)
	if err != nil {
		return nil, err
	}
	if in.Type == models.InvoiceRepair && in.InvoiceAmount == nil {
		return nil, apperr.Validation("invoiceAmount is required for repair invoices")
	}
	for _, fee := range []float64{in.Fees.Platform, in.Fees.Logistics, in.Fees.Transaction, in.Fees.Service} {
		if fee < 0 {
			return nil, apperr.Validation("fees must not be negative")
		}
	}
	if in.InvoiceAmount != nil && *in.InvoiceAmount < 0 {
		return nil, apperr.Validation("invoiceAmount must not be negative")
	}

	req, err := s.Store.FindDonorRequest(ctx, reqID)
	if err != nil {
		return nil, err
	}
	if req.Donor != donorID {
		return nil, apperr.Validation("request does not belong to donor %s", donorID.Hex())
	}

	now := s.now()
	var sub *models.Subscription
	var planID *primitive.ObjectID
	if strings.TrimSpace(in.PlanID) != "" {
		pid, err := ParseID("subscription", in.PlanID)
		if err != nil {
			return nil, err
		}
		if _, err := s.Store.FindPlan(ctx, pid); err != nil {
			return nil, err
		}
		planID = &pid
		sub = &models.Subscription{
			Plan:      pid,
			Status:    models.PaymentPending,
			Paid:      false,
			ExpiresAt: now.Add(pendingSubscriptionWindow),
		}
	}

	gstNumber := strings.TrimSpace(in.GSTNumber)
	amount := billing.InvoiceAmount(in.InvoiceAmount, in.Fees)
	gstApplicable, itcClaimable := billing.GSTFlags(in.Type, gstNumber, amount)

	inv := &models.Invoice{
		ID:             primitive.NewObjectID(),
		InvoiceNumber:  fmt.Sprintf("INV-%s", strings.ToUpper(uuid.New().String()[:8])),
		RequestID:      reqID,
		DonorID:        donorID,
		Subscription:   planID,
		InvoiceType:    in.Type,
		PlatformFee:    in.Fees.Platform,
		LogisticsFee:   in.Fees.Logistics,
		TransactionFee: in.Fees.Transaction,
		ServiceFee:     in.Fees.Service,
		GSTNumber:      gstNumber,
		InvoiceAmount:  amount,
		GSTApplicable:  gstApplicable,
		ITCClaimable:   itcClaimable,
		Status:         models.InvoiceGenerated,
		PaymentDetail:  models.PaymentDetail{Status: models.PaymentPending},
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if err := s.Store.CreateInvoice(ctx, inv, sub); err != nil {
		return nil, err
	}

	s.notifyDonor(ctx, donorID, notify.InvoiceGenerated, map[string]any{
		"invoiceNumber": inv.InvoiceNumber,
		"invoiceType":   string(inv.InvoiceType),
		"amount":        inv.InvoiceAmount,
		"requestId":     reqID.Hex(),
	})
	return inv, nil
}

// Checkout opens a gateway order for an unpaid invoice of the donor.
func (s *Service) Checkout(ctx context.Context, donorID primitive.ObjectID, invoiceID string) (*payment.Order, error) {
	id, err := ParseID("invoiceId", invoiceID)
	if err != nil {
		return nil, err
	}
	inv, err := s.Store.FindInvoice(ctx, id)
	if err != nil {
		return nil, err
	}
	if inv.DonorID != donorID {
		return nil, apperr.NotFound("invoice not found")
	}
	if inv.PaymentDetail.Paid {
		return nil, apperr.Conflict("invoice %s is already paid", inv.InvoiceNumber)
	}

	minor, err := billing.ToMinorUnits(inv.InvoiceAmount)
	if err != nil {
		return nil, err
	}
	order, err := s.Payments.CreateOrder(ctx, minor, currencyINR, inv.InvoiceNumber)
	if err != nil {
		return nil, err
	}
	if err := s.Store.AttachPaymentOrder(ctx, inv.ID, order.ID); err != nil {
		return nil, err
	}
	return order, nil
}

// PaymentConfirmation is what the checkout widget posts back after payment.
type PaymentConfirmation struct {
	OrderID   string
	PaymentID string
	Signature string
}

// VerifyPayment checks the gateway signature and settles the invoice. A bad
// signature persists nothing.
func (s *Service) VerifyPayment(ctx context.Context, donorID primitive.ObjectID, in PaymentConfirmation) (*models.Invoice, error) {
	if in.OrderID == "" || in.PaymentID == "" || in.Signature == "" {
		return nil, apperr.Validation("orderId, paymentId and signature are required")
	}
	if !s.Payments.VerifySignature(in.OrderID, in.PaymentID, in.Signature) {
		return nil, apperr.Validation("payment verification failed")
	}

	inv, err := s.Store.FindInvoiceByOrder(ctx, in.OrderID)
	if err != nil {
		return nil, err
	}
	if inv.DonorID != donorID {
		return nil, apperr.NotFound("invoice not found")
	}
	if inv.PaymentDetail.Paid {
		return inv, nil
	}

	if err := s.Store.SettleInvoice(ctx, inv, in.PaymentID, s.now()); err != nil {
		return nil, err
	}

	s.notifyDonor(ctx, donorID, notify.PaymentReceived, map[string]any{
		"invoiceNumber": inv.InvoiceNumber,
		"amount":        inv.InvoiceAmount,
		"transactionId": in.PaymentID,
	})
	return s.Store.FindInvoice(ctx, inv.ID)
}
