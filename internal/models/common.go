// internal/models/common.go
package models

import "time"

// PickupAddress is the structured address attached to requests.
type PickupAddress struct {
	PickupCode  string `bson:"pickupCode" json:"pickupCode"`
	FullAddress string `bson:"fullAddress" json:"fullAddress" binding:"required"`
}

// Dimensions of a parcel in cm and kg.
type Dimensions struct {
	Length  float64 `bson:"length" json:"length"`
	Breadth float64 `bson:"breadth" json:"breadth"`
	Height  float64 `bson:"height" json:"height"`
	Weight  float64 `bson:"weight" json:"weight"`
}

// WithDefaults fills every zero field from def.
func (d Dimensions) WithDefaults(def Dimensions) Dimensions {
	if d.Length <= 0 {
		d.Length = def.Length
	}
	if d.Breadth <= 0 {
		d.Breadth = def.Breadth
	}
	if d.Height <= 0 {
		d.Height = def.Height
	}
	if d.Weight <= 0 {
		d.Weight = def.Weight
	}
	return d
}

// ShippingDetails is the courier order snapshot persisted once a booking succeeds.
type ShippingDetails struct {
	OrderID          string    `bson:"order_id" json:"order_id"`
	ChannelOrderID   string    `bson:"channel_order_id" json:"channel_order_id"`
	ShipmentID       string    `bson:"shipment_id" json:"shipment_id"`
	Status           string    `bson:"status" json:"status"`
	StatusCode       string    `bson:"status_code" json:"status_code"`
	AWBCode          string    `bson:"awb_code" json:"awb_code"`
	CourierCompanyID string    `bson:"courier_company_id" json:"courier_company_id"`
	CourierName      string    `bson:"courier_name" json:"courier_name"`
	BookedAt         time.Time `bson:"bookedAt" json:"bookedAt"`
}

// PaymentDetail tracks a payment against a request or subscription.
type PaymentDetail struct {
	Status        string `bson:"status" json:"status"`
	Paid          bool   `bson:"paid" json:"paid"`
	TransactionID string `bson:"transactionId,omitempty" json:"transactionId,omitempty"`
	OrderID       string `bson:"orderId,omitempty" json:"orderId,omitempty"`
}

type FulfillmentState string

const (
	FulfillmentPending        FulfillmentState = "Pending"
	FulfillmentBooked         FulfillmentState = "Booked"
	FulfillmentShipmentFailed FulfillmentState = "ShipmentFailed"
)

// Fulfillment records the courier leg of a workflow so a failed booking stays visible and can be retried.
type Fulfillment struct {
	State     FulfillmentState `bson:"state" json:"state"`
	Attempts  int              `bson:"attempts" json:"attempts"`
	LastError string           `bson:"lastError,omitempty" json:"lastError,omitempty"`
	UpdatedAt time.Time        `bson:"updatedAt" json:"updatedAt"`
}
