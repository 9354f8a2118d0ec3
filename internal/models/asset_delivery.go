// internal/models/asset_delivery.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// PartnerAddress is the partner pickup point used for last-mile delivery.
type PartnerAddress struct {
	Address    string `bson:"address" json:"address" binding:"required"`
	PickupCode string `bson:"pickupCode" json:"pickupCode"`
}

// AssetDelivery binds assets and a partner to a beneficiary request.
// Active is cleared once the delivery is terminal; a partial unique index on
// assetIds keeps one active delivery per asset.
type AssetDelivery struct {
	ID                   primitive.ObjectID   `bson:"_id,omitempty" json:"id"`
	BeneficiaryRequestID primitive.ObjectID   `bson:"beneficiaryRequestId" json:"beneficiaryRequestId"`
	BeneficiaryID        primitive.ObjectID   `bson:"beneficiaryId" json:"beneficiaryId"`
	AssetIDs             []primitive.ObjectID `bson:"assetIds" json:"assetIds"`
	PartnerID            primitive.ObjectID   `bson:"partnerId" json:"partnerId"`
	PartnerAddress       PartnerAddress       `bson:"partnerAddress" json:"partnerAddress"`
	Status               DeliveryStatus       `bson:"status" json:"status"`
	Active               bool                 `bson:"active" json:"active"`
	ShippingDetails      *ShippingDetails     `bson:"shippingDetails,omitempty" json:"shippingDetails,omitempty"`
	Fulfillment          Fulfillment          `bson:"fulfillment" json:"fulfillment"`
	CreatedAt            time.Time            `bson:"createdAt" json:"createdAt"`
	UpdatedAt            time.Time            `bson:"updatedAt" json:"updatedAt"`
}
