// internal/models/supporting.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type PlanCategory string

const (
	PlanLargeFirms     PlanCategory = "Large Firms (Yearly Contact)"
	PlanSingleContract PlanCategory = "Single Contract"
	PlanSmallerFirms   PlanCategory = "Smaller Firms"
	PlanIndividual     PlanCategory = "Individual"
)

func (c PlanCategory) Valid() bool {
	switch c {
	case PlanLargeFirms, PlanSingleContract, PlanSmallerFirms, PlanIndividual:
		return true
	}
	return false
}

// PricingPlan fees are free text ("Add Service @ cost", "NA") as entered by admins.
type PricingPlan struct {
	ID                   primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Category             PlanCategory       `bson:"category" json:"category" binding:"required"`
	PlatformFee          string             `bson:"platformFee" json:"platformFee" binding:"required"`
	PerLaptopFee         string             `bson:"perLaptopFee" json:"perLaptopFee" binding:"required"`
	Logistics            string             `bson:"logistics" json:"logistics" binding:"required"`
	Lumpsum              string             `bson:"lumpsum" json:"lumpsum" binding:"required"`
	SingleTransactionFee string             `bson:"singleTransactionFee" json:"singleTransactionFee" binding:"required"`
	Service              string             `bson:"service" json:"service"`
	CreatedAt            time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt            time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// Report is a beneficiary complaint about a request.
type Report struct {
	ID            primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	ReportNumber  string             `bson:"reportNumber" json:"reportNumber"`
	BeneficiaryID primitive.ObjectID `bson:"beneficiaryId" json:"beneficiaryId"`
	RequestID     primitive.ObjectID `bson:"requestId" json:"requestId"`
	Message       string             `bson:"message" json:"message"`
	CreatedAt     time.Time          `bson:"createdAt" json:"createdAt"`
}

// TrackingEvent is one entry in an asset's lifecycle trail.
type TrackingEvent struct {
	ID         primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	AssetID    primitive.ObjectID `bson:"assetId" json:"assetId"`
	Status     string             `bson:"status" json:"status"`
	SubStatus  string             `bson:"subStatus,omitempty" json:"subStatus,omitempty"`
	Checkpoint string             `bson:"checkpoint,omitempty" json:"checkpoint,omitempty"`
	Remarks    string             `bson:"remarks,omitempty" json:"remarks,omitempty"`
	ActorID    string             `bson:"actorId,omitempty" json:"actorId,omitempty"`
	At         time.Time          `bson:"at" json:"at"`
}

// Notification is an outbox row consumed by the external mailer.
type Notification struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	To        string             `bson:"to" json:"to"`
	UserID    string             `bson:"userId,omitempty" json:"userId,omitempty"`
	Kind      string             `bson:"kind" json:"kind"`
	Payload   map[string]any     `bson:"payload" json:"payload"`
	Sent      bool               `bson:"sent" json:"sent"`
	CreatedAt time.Time          `bson:"createdAt" json:"createdAt"`
}
