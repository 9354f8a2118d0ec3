// internal/notify/notifier.go
package notify

import (
	"context"
	"errors"
)

// Kind names the event a notification is about.
type Kind string

const (
	AssetUploadConfirmed      Kind = "assetUploadConfirmed"
	RequestCreated            Kind = "requestCreated"
	RequestAccepted           Kind = "requestAccepted"
	PickupScheduled           Kind = "pickupScheduled"
	AssetRequestSubmitted     Kind = "assetRequestSubmitted"
	AssetRequestStatusChanged Kind = "assetRequestStatusChanged"
	AssetAllocated            Kind = "assetAllocated"
	DeliveryPartnerAssigned   Kind = "deliveryPartnerAssigned"
	ReportFiled               Kind = "reportFiled"
	AccountApproved           Kind = "accountApproved"
	AccountRejected           Kind = "accountRejected"
	InvoiceGenerated          Kind = "invoiceGenerated"
	PaymentReceived           Kind = "paymentReceived"
)

// Message is one notification to one recipient.
type Message struct {
	To      string
	UserID  string
	Kind    Kind
	Payload map[string]any
}

// Notifier delivers messages. Callers treat delivery as best-effort.
type Notifier interface {
	Notify(ctx context.Context, msg Message) error
}

// Fanout sends every message to each notifier and joins their errors.
type Fanout []Notifier

func (f Fanout) Notify(ctx context.Context, msg Message) error {
	var errs []error
	for _, n := range f {
		if err := n.Notify(ctx, msg); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Discard drops every message.
type Discard struct{}

func (Discard) Notify(context.Context, Message) error { return nil }
