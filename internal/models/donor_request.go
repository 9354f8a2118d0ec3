// internal/models/donor_request.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// DonorRequest is a donor's offer of assets for pickup.
type DonorRequest struct {
	ID               primitive.ObjectID   `bson:"_id,omitempty" json:"id"`
	Donor            primitive.ObjectID   `bson:"donor" json:"donor"`
	Partner          *primitive.ObjectID  `bson:"partner" json:"partner"`
	PartnerAddress   string               `bson:"partnerAddress,omitempty" json:"partnerAddress,omitempty"`
	Products         []primitive.ObjectID `bson:"products" json:"products"`
	Address          PickupAddress        `bson:"address" json:"address"`
	City             string               `bson:"city" json:"city"`
	State            string               `bson:"state" json:"state"`
	Pincode          string               `bson:"pincode" json:"pincode"`
	Phone            string               `bson:"phone" json:"phone"`
	AlternatePhone   string               `bson:"alternatePhone,omitempty" json:"alternatePhone,omitempty"`
	ShippingDate     time.Time            `bson:"shippingDate" json:"shippingDate"`
	Description      string               `bson:"description,omitempty" json:"description,omitempty"`
	Dimensions       Dimensions           `bson:"dimensions" json:"dimensions"`
	Status           AssetStatus          `bson:"status" json:"status"`
	ShippingDetails  *ShippingDetails     `bson:"shippingDetails,omitempty" json:"shippingDetails,omitempty"`
	Fulfillment      Fulfillment          `bson:"fulfillment" json:"fulfillment"`
	InvoiceGenerated bool                 `bson:"invoiceGenerated" json:"invoiceGenerated"`
	PaymentDetail    PaymentDetail        `bson:"paymentDetail" json:"paymentDetail"`
	CreatedAt        time.Time            `bson:"createdAt" json:"createdAt"`
	UpdatedAt        time.Time            `bson:"updatedAt" json:"updatedAt"`
}
