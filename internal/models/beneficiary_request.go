// internal/models/beneficiary_request.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type DeviceType string

const (
	DeviceLaptop  DeviceType = "Laptop"
	DeviceDesktop DeviceType = "Desktop"
	DeviceTablet  DeviceType = "Tablet"
)

func (d DeviceType) Valid() bool {
	return d == DeviceLaptop || d == DeviceDesktop || d == DeviceTablet
}

type Urgency string

const (
	UrgencyLow    Urgency = "Low"
	UrgencyMedium Urgency = "Medium"
	UrgencyHigh   Urgency = "High"
)

func (u Urgency) Valid() bool {
	return u == UrgencyLow || u == UrgencyMedium || u == UrgencyHigh
}

// AssignedDetails is the fulfillment sub-state of a beneficiary request.
type AssignedDetails struct {
	AssetIDs []primitive.ObjectID `bson:"assetIds" json:"assetIds"`
	Status   BindingStatus        `bson:"status" json:"status"`
	Date     *time.Time           `bson:"date,omitempty" json:"date,omitempty"`
}

// BeneficiaryRequest is a beneficiary's ask for devices.
type BeneficiaryRequest struct {
	ID               primitive.ObjectID       `bson:"_id,omitempty" json:"id"`
	BeneficiaryID    primitive.ObjectID       `bson:"beneficiaryId" json:"beneficiaryId"`
	FullName         string                   `bson:"fullName" json:"fullName"`
	ContactNumber    string                   `bson:"contactNumber" json:"contactNumber"`
	Email            string                   `bson:"email" json:"email"`
	OrganizationName string                   `bson:"organizationName,omitempty" json:"organizationName,omitempty"`
	Role             string                   `bson:"role,omitempty" json:"role,omitempty"`
	Address          PickupAddress            `bson:"address" json:"address"`
	City             string                   `bson:"city" json:"city"`
	State            string                   `bson:"state" json:"state"`
	Pincode          string                   `bson:"pincode" json:"pincode"`
	DeviceType       DeviceType               `bson:"deviceType" json:"deviceType"`
	Specifications   string                   `bson:"specifications,omitempty" json:"specifications,omitempty"`
	Urgency          Urgency                  `bson:"urgency" json:"urgency"`
	Quantity         int                      `bson:"quantity" json:"quantity"`
	Status           BeneficiaryRequestStatus `bson:"status" json:"status"`
	AdminComments    string                   `bson:"adminComments,omitempty" json:"adminComments,omitempty"`
	AssignedDetails  AssignedDetails          `bson:"assignedDetails" json:"assignedDetails"`
	ShippingDetails  *ShippingDetails         `bson:"shippingDetails,omitempty" json:"shippingDetails,omitempty"`
	CreatedAt        time.Time                `bson:"createdAt" json:"createdAt"`
	UpdatedAt        time.Time                `bson:"updatedAt" json:"updatedAt"`
}
