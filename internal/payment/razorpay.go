// internal/payment/razorpay.go
package payment

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"dkt-api-server/config"
	"dkt-api-server/internal/apperr"

	razorpay "github.com/razorpay/razorpay-go"
	rzperrors "github.com/razorpay/razorpay-go/errors"
	"github.com/razorpay/razorpay-go/utils"
)

// Order is the gateway-side order a checkout pays against.
type Order struct {
	ID       string `json:"id"`
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
	Receipt  string `json:"receipt"`
	Status   string `json:"status"`
}

// Gateway is the payment boundary used by the invoice ledger.
type Gateway interface {
	CreateOrder(ctx context.Context, amountMinor int64, currency, receipt string) (*Order, error)
	VerifySignature(orderID, paymentID, signature string) bool
}

// Razorpay is the Gateway backed by the official SDK. The SDK keeps its
// request settings in a package variable, so build one per process.
type Razorpay struct {
	client    *razorpay.Client
	keySecret string
}

func NewRazorpay(cfg config.RazorpayConfig) *Razorpay {
	client := razorpay.NewClient(cfg.KeyID, cfg.KeySecret)
	// SDK paths already carry the /v1 prefix.
	base := strings.TrimSuffix(strings.TrimRight(cfg.BaseURL, "/"), "/v1")
	if base != "" {
		client.Order.Request.BaseURL = base
	}
	client.Order.Request.HTTPClient = &http.Client{Timeout: 15 * time.Second}
	return &Razorpay{client: client, keySecret: cfg.KeySecret}
}

type orderResult struct {
	data map[string]interface{}
	err  error
}

// CreateOrder opens a gateway order for amountMinor (paise for INR). The SDK
// takes no context, so a cancelled ctx stops the wait, not the request.
func (r *Razorpay) CreateOrder(ctx context.Context, amountMinor int64, currency, receipt string) (*Order, error) {
	if amountMinor <= 0 {
		return nil, apperr.Validation("amount must be greater than zero")
	}
	if err := ctx.Err(); err != nil {
		return nil, apperr.Wrap(apperr.KindIntegration, "payment gateway unreachable", err)
	}

	done := make(chan orderResult, 1)
	go func() {
		data, err := r.client.Order.Create(map[string]interface{}{
			"amount":   amountMinor,
			"currency": currency,
			"receipt":  receipt,
		}, nil)
		done <- orderResult{data: data, err: err}
	}()

	var res orderResult
	select {
	case <-ctx.Done():
		return nil, apperr.Wrap(apperr.KindIntegration, "payment gateway unreachable", ctx.Err())
	case res = <-done:
	}
	if res.err != nil {
		return nil, gatewayError(res.err)
	}

	raw, err := json.Marshal(res.data)
	if err != nil {
		return nil, apperr.Wrap(apperr.KindIntegration, "unreadable payment gateway response", err)
	}
	var order Order
	if err := json.Unmarshal(raw, &order); err != nil {
		return nil, apperr.Wrap(apperr.KindIntegration, "unreadable payment gateway response", err)
	}
	if order.ID == "" {
		return nil, apperr.Wrap(apperr.KindIntegration, "unreadable payment gateway response", errors.New("order has no id"))
	}
	return &order, nil
}

// gatewayError classifies SDK failures. The SDK drops the upstream status,
// so only the error class is kept.
func gatewayError(err error) error {
	var badRequest *rzperrors.BadRequestError
	var server *rzperrors.ServerError
	var gateway *rzperrors.GatewayError
	switch {
	case errors.As(err, &badRequest):
		return apperr.Wrap(apperr.KindIntegration, "payment gateway rejected the order", err)
	case errors.As(err, &server), errors.As(err, &gateway):
		return apperr.Wrap(apperr.KindIntegration, "payment gateway failed", err)
	}
	return apperr.Wrap(apperr.KindIntegration, "payment gateway unreachable", err)
}

// VerifySignature checks the checkout signature: hex HMAC-SHA256 of "orderId|paymentId".
func (r *Razorpay) VerifySignature(orderID, paymentID, signature string) bool {
	return VerifySignature(r.keySecret, orderID, paymentID, signature)
}

func VerifySignature(secret, orderID, paymentID, signature string) bool {
	if secret == "" || orderID == "" || paymentID == "" || signature == "" {
		return false
	}
	return utils.VerifyPaymentSignature(map[string]interface{}{
		"razorpay_order_id":   orderID,
		"razorpay_payment_id": paymentID,
	}, strings.ToLower(signature), secret)
}
