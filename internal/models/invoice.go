// internal/models/invoice.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type InvoiceType string

const (
	InvoiceZeroValue InvoiceType = "zero-value"
	InvoiceRepair    InvoiceType = "repair"
	InvoiceDisposal  InvoiceType = "disposal"
)

type InvoiceStatus string

const (
	InvoiceGenerated InvoiceStatus = "generated"
	InvoiceApproved  InvoiceStatus = "approved"
	InvoiceArchived  InvoiceStatus = "archived"
)

const (
	PaymentPending = "Pending"
	PaymentSuccess = "Success"
	PaymentActive  = "Active"
)

type Invoice struct {
	ID             primitive.ObjectID  `bson:"_id,omitempty" json:"id"`
	InvoiceNumber  string              `bson:"invoiceNumber" json:"invoiceNumber"`
	RequestID      primitive.ObjectID  `bson:"requestId" json:"requestId"`
	DonorID        primitive.ObjectID  `bson:"donorId" json:"donorId"`
	Subscription   *primitive.ObjectID `bson:"subscription,omitempty" json:"subscription,omitempty"`
	InvoiceType    InvoiceType         `bson:"invoiceType" json:"invoiceType"`
	PlatformFee    float64             `bson:"platformFee" json:"platformFee"`
	LogisticsFee   float64             `bson:"logisticsFee" json:"logisticsFee"`
	TransactionFee float64             `bson:"transactionFee" json:"transactionFee"`
	ServiceFee     float64             `bson:"serviceFee" json:"serviceFee"`
	GSTNumber      string              `bson:"gstNumber,omitempty" json:"gstNumber,omitempty"`
	InvoiceAmount  float64             `bson:"invoiceAmount" json:"invoiceAmount"`
	GSTApplicable  bool                `bson:"gstApplicable" json:"gstApplicable"`
	ITCClaimable   bool                `bson:"itcClaimable" json:"itcClaimable"`
	Status         InvoiceStatus       `bson:"status" json:"status"`
	PaymentDetail  PaymentDetail       `bson:"paymentDetail" json:"paymentDetail"`
	CreatedAt      time.Time           `bson:"createdAt" json:"createdAt"`
	UpdatedAt      time.Time           `bson:"updatedAt" json:"updatedAt"`
}
