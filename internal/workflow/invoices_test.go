package workflow

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"testing"
	"time"

	"dkt-api-server/internal/apperr"
	"dkt-api-server/internal/billing"
	"dkt-api-server/internal/models"
	"dkt-api-server/internal/notify"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// checkoutSignature is what the checkout widget posts for a completed payment.
func checkoutSignature(secret, orderID, paymentID string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(orderID + "|" + paymentID))
	return hex.EncodeToString(mac.Sum(nil))
}

func (h *harness) donorRequest(t *testing.T) *models.DonorRequest {
	t.Helper()
	a := h.availableAsset("Laptop")
	req, err := h.svc.CreateDonorRequest(context.Background(), h.donor.ID, donorInput(a.ID.Hex()))
	require.NoError(t, err)
	return req
}

func amount(v float64) *float64 { return &v }

func TestCreateInvoice_GSTRules(t *testing.T) {
	tests := []struct {
		name    string
		kind    models.InvoiceType
		gst     string
		fees    billing.Fees
		amount  *float64
		wantAmt float64
		wantGST bool
	}{
		{"zero-value with gst", models.InvoiceZeroValue, "29ABCDE1234F1Z5", billing.Fees{}, nil, 0, true},
		{"zero-value without gst", models.InvoiceZeroValue, "", billing.Fees{}, nil, 0, false},
		{"repair with gst", models.InvoiceRepair, "29ABCDE1234F1Z5", billing.Fees{}, amount(1500), 1500, true},
		{"repair without gst", models.InvoiceRepair, "", billing.Fees{}, amount(1500), 1500, false},
		{"disposal positive amount, no gst", models.InvoiceDisposal, "", billing.Fees{Platform: 100.10, Logistics: 0.20}, nil, 100.30, true},
		{"disposal zero amount with gst", models.InvoiceDisposal, "29ABCDE1234F1Z5", billing.Fees{}, nil, 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newHarness()
			req := h.donorRequest(t)

			inv, err := h.svc.CreateInvoice(context.Background(), InvoiceInput{
				Type:          tt.kind,
				RequestID:     req.ID.Hex(),
				DonorID:       h.donor.ID.Hex(),
				GSTNumber:     tt.gst,
				Fees:          tt.fees,
				InvoiceAmount: tt.amount,
			})
			require.NoError(t, err)

			assert.Equal(t, tt.wantAmt, inv.InvoiceAmount)
			assert.Equal(t, tt.wantGST, inv.GSTApplicable)
			assert.Equal(t, tt.wantGST, inv.ITCClaimable)
			assert.Equal(t, models.InvoiceGenerated, inv.Status)
			assert.Regexp(t, `^INV-[0-9A-F]{8}$`, inv.InvoiceNumber)

			stored, _ := h.store.FindDonorRequest(context.Background(), req.ID)
			assert.True(t, stored.InvoiceGenerated)
			assert.Contains(t, h.notifier.kinds(), notify.InvoiceGenerated)
		})
	}
}

func TestCreateInvoice_Errors(t *testing.T) {
	h := newHarness()
	ctx := context.Background()
	req := h.donorRequest(t)
	base := InvoiceInput{Type: models.InvoiceZeroValue, RequestID: req.ID.Hex(), DonorID: h.donor.ID.Hex()}

	_, err := h.svc.CreateInvoice(ctx, base)
	require.NoError(t, err)
	_, err = h.svc.CreateInvoice(ctx, base)
	assert.True(t, apperr.Is(err, apperr.KindConflict), "second invoice of the same type: %v", err)

	repair := base
	repair.Type = models.InvoiceRepair
	_, err = h.svc.CreateInvoice(ctx, repair)
	assert.True(t, apperr.Is(err, apperr.KindValidation), "repair without amount: %v", err)

	missing := base
	missing.Type = models.InvoiceDisposal
	missing.RequestID = primitive.NewObjectID().Hex()
	_, err = h.svc.CreateInvoice(ctx, missing)
	assert.True(t, apperr.Is(err, apperr.KindNotFound))

	unknown := base
	unknown.Type = "refund"
	_, err = h.svc.CreateInvoice(ctx, unknown)
	assert.True(t, apperr.Is(err, apperr.KindValidation))

	noPlan := repair
	noPlan.InvoiceAmount = amount(10)
	noPlan.PlanID = primitive.NewObjectID().Hex()
	_, err = h.svc.CreateInvoice(ctx, noPlan)
	assert.True(t, apperr.Is(err, apperr.KindNotFound))
}

func TestCheckoutAndVerify(t *testing.T) {
	h := newHarness()
	ctx := context.Background()
	req := h.donorRequest(t)
	plan, err := h.svc.CreatePlan(ctx, models.PricingPlan{Category: models.PlanSmallerFirms, PlatformFee: "999", PerLaptopFee: "NA", Logistics: "NA", Lumpsum: "NA", SingleTransactionFee: "NA"})
	require.NoError(t, err)

	inv, err := h.svc.CreateInvoice(ctx, InvoiceInput{
		Type:          models.InvoiceRepair,
		RequestID:     req.ID.Hex(),
		DonorID:       h.donor.ID.Hex(),
		InvoiceAmount: amount(1234.565),
		PlanID:        plan.ID.Hex(),
	})
	require.NoError(t, err)
	sub := h.store.subs[h.donor.ID]
	assert.Equal(t, models.PaymentPending, sub.Status)
	assert.False(t, sub.Paid)
	assert.Equal(t, fixedNow.Add(10*24*time.Hour), sub.ExpiresAt)

	_, err = h.svc.Checkout(ctx, primitive.NewObjectID(), inv.ID.Hex())
	assert.True(t, apperr.Is(err, apperr.KindNotFound), "another donor's invoice")

	order, err := h.svc.Checkout(ctx, h.donor.ID, inv.ID.Hex())
	require.NoError(t, err)
	assert.Equal(t, []int64{123457}, h.gateway.created)
	assert.Equal(t, "INR", order.Currency)

	// a forged signature persists nothing
	_, err = h.svc.VerifyPayment(ctx, h.donor.ID, PaymentConfirmation{OrderID: order.ID, PaymentID: "pay_1", Signature: "deadbeef"})
	assert.True(t, apperr.Is(err, apperr.KindValidation))
	stored, _ := h.store.FindInvoice(ctx, inv.ID)
	assert.False(t, stored.PaymentDetail.Paid)

	sig := checkoutSignature("rzp_secret", order.ID, "pay_1")
	paid, err := h.svc.VerifyPayment(ctx, h.donor.ID, PaymentConfirmation{OrderID: order.ID, PaymentID: "pay_1", Signature: sig})
	require.NoError(t, err)
	assert.True(t, paid.PaymentDetail.Paid)
	assert.Equal(t, models.PaymentSuccess, paid.PaymentDetail.Status)
	assert.Equal(t, "pay_1", paid.PaymentDetail.TransactionID)

	dr, _ := h.store.FindDonorRequest(ctx, req.ID)
	assert.Equal(t, models.PaymentDetail{Status: models.PaymentActive, Paid: true, TransactionID: "pay_1"}, dr.PaymentDetail)

	sub = h.store.subs[h.donor.ID]
	assert.Equal(t, models.PaymentActive, sub.Status)
	assert.True(t, sub.Paid)
	assert.Equal(t, fixedNow.AddDate(1, 0, 0), sub.ExpiresAt)
	assert.Contains(t, h.notifier.kinds(), notify.PaymentReceived)

	_, err = h.svc.Checkout(ctx, h.donor.ID, inv.ID.Hex())
	assert.True(t, apperr.Is(err, apperr.KindConflict))
}

func TestCheckout_ZeroAmount(t *testing.T) {
	h := newHarness()
	req := h.donorRequest(t)
	inv, err := h.svc.CreateInvoice(context.Background(), InvoiceInput{Type: models.InvoiceZeroValue, RequestID: req.ID.Hex(), DonorID: h.donor.ID.Hex()})
	require.NoError(t, err)

	_, err = h.svc.Checkout(context.Background(), h.donor.ID, inv.ID.Hex())
	assert.True(t, apperr.Is(err, apperr.KindValidation))
	assert.Empty(t, h.gateway.created)
}
