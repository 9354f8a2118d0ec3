// internal/models/asset.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type RepairService struct {
	Part        string  `bson:"part" json:"part"`
	Description string  `bson:"description" json:"description"`
	Cost        float64 `bson:"cost" json:"cost"`
}

type Repair struct {
	IsRepair bool            `bson:"isRepair" json:"isRepair"`
	Service  []RepairService `bson:"service" json:"service"`
}

// BeneficiaryBinding is set once an asset is bound to a delivery assignment.
type BeneficiaryBinding struct {
	BeneficiaryID *primitive.ObjectID `bson:"beneficiaryId" json:"beneficiaryId"`
	Status        BindingStatus       `bson:"status" json:"status"`
	Date          *time.Time          `bson:"date,omitempty" json:"date,omitempty"`
}

// Asset is a single donated device. Stored in the products collection.
type Asset struct {
	ID                    primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	DonorID               primitive.ObjectID `bson:"donorId" json:"donorId"`
	UploadID              primitive.ObjectID `bson:"uploadId,omitempty" json:"uploadId,omitempty"`
	Name                  string             `bson:"name" json:"name"`
	Model                 string             `bson:"model" json:"model"`
	Quantity              int                `bson:"quantity" json:"quantity"`
	OriginalPurchaseValue float64            `bson:"originalPurchaseValue" json:"originalPurchaseValue"`
	ImageURL              string             `bson:"imageUrl,omitempty" json:"imageUrl,omitempty"`
	Condition             AssetCondition     `bson:"condition" json:"condition"`
	Status                AssetStatus        `bson:"status" json:"status"`
	Repair                Repair             `bson:"repair" json:"repair"`
	AssignedToBeneficiary BeneficiaryBinding `bson:"assignedToBeneficiary" json:"assignedToBeneficiary"`
	AdminApproval         Approval           `bson:"adminApproval" json:"adminApproval"`
	CreatedAt             time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt             time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// Bound reports whether the asset already carries a beneficiary binding.
func (a Asset) Bound() bool {
	return a.AssignedToBeneficiary.BeneficiaryID != nil
}

// ProductUpload groups assets uploaded together for admin approval.
type ProductUpload struct {
	ID            primitive.ObjectID   `bson:"_id,omitempty" json:"id"`
	DonorID       primitive.ObjectID   `bson:"donorId" json:"donorId"`
	Products      []primitive.ObjectID `bson:"products" json:"products"`
	AdminApproval Approval             `bson:"adminApproval" json:"adminApproval"`
	CreatedAt     time.Time            `bson:"createdAt" json:"createdAt"`
}
