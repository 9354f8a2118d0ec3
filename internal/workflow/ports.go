// internal/workflow/ports.go
package workflow

import (
	"context"
	"encoding/json"
	"io"
	"time"

	"dkt-api-server/internal/identity"
	"dkt-api-server/internal/models"
	"dkt-api-server/internal/notify"
	"dkt-api-server/internal/payment"
	"dkt-api-server/internal/shiprocket"
	"dkt-api-server/internal/tracking"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// AssetStore persists assets and their upload batches.
type AssetStore interface {
	InsertUpload(ctx context.Context, upload *models.ProductUpload, assets []models.Asset) error
	ReviewUpload(ctx context.Context, uploadID primitive.ObjectID, approval models.Approval) error
	ListUploads(ctx context.Context, donorID primitive.ObjectID) ([]models.ProductUpload, error)
	FindAssets(ctx context.Context, ids []primitive.ObjectID) ([]models.Asset, error)
	ListAssets(ctx context.Context, donorID primitive.ObjectID) ([]models.Asset, error)
	UpdateAssetCondition(ctx context.Context, id primitive.ObjectID, condition models.AssetCondition, repair models.Repair) error
}

// DonorRequestStore persists donor requests together with the assets they reference.
type DonorRequestStore interface {
	// CreateDonorRequest flips every referenced asset Available -> Requested and
	// inserts the request in one transaction.
	CreateDonorRequest(ctx context.Context, req *models.DonorRequest) error
	FindDonorRequest(ctx context.Context, id primitive.ObjectID) (*models.DonorRequest, error)
	ListDonorRequests(ctx context.Context, donorID primitive.ObjectID) ([]models.DonorRequest, error)
	// AdvanceDonorRequest moves the request and its assets strictly forward to status.
	AdvanceDonorRequest(ctx context.Context, id primitive.ObjectID, partnerID *primitive.ObjectID, status models.AssetStatus, partnerAddress string) error
	CompleteDonorRequestBooking(ctx context.Context, id primitive.ObjectID, details models.ShippingDetails) error
	FailDonorRequestBooking(ctx context.Context, id primitive.ObjectID, reason string) error
}

// DeliveryStore persists beneficiary requests and delivery assignments.
type DeliveryStore interface {
	InsertBeneficiaryRequest(ctx context.Context, req *models.BeneficiaryRequest) error
	FindBeneficiaryRequest(ctx context.Context, id primitive.ObjectID) (*models.BeneficiaryRequest, error)
	ListBeneficiaryRequests(ctx context.Context, beneficiaryID *primitive.ObjectID) ([]models.BeneficiaryRequest, error)
	ModerateBeneficiaryRequest(ctx context.Context, id primitive.ObjectID, status models.BeneficiaryRequestStatus, comments string) error

	// CreateDelivery inserts the assignment and records assignedDetails on the
	// beneficiary request in one transaction.
	CreateDelivery(ctx context.Context, d *models.AssetDelivery) error
	FindDelivery(ctx context.Context, id primitive.ObjectID) (*models.AssetDelivery, error)
	ListDeliveries(ctx context.Context, partnerID primitive.ObjectID) ([]models.AssetDelivery, error)
	// CompleteDeliveryBooking stores the shipment on both records and binds the assets.
	CompleteDeliveryBooking(ctx context.Context, d *models.AssetDelivery, details models.ShippingDetails) error
	FailDeliveryBooking(ctx context.Context, id primitive.ObjectID, reason string) error
	UpdateDeliveryStatus(ctx context.Context, d *models.AssetDelivery, partnerID primitive.ObjectID, status models.DeliveryStatus) error
}

// LedgerStore persists invoices, pricing plans and payment settlement.
type LedgerStore interface {
	FindPlan(ctx context.Context, id primitive.ObjectID) (*models.PricingPlan, error)
	ListPlans(ctx context.Context) ([]models.PricingPlan, error)
	InsertPlan(ctx context.Context, plan *models.PricingPlan) error
	UpdatePlan(ctx context.Context, plan *models.PricingPlan) error
	DeletePlan(ctx context.Context, id primitive.ObjectID) error

	// CreateInvoice inserts the invoice, marks the request invoiced and, when
	// sub is non-nil, attaches the pending subscription to the donor.
	CreateInvoice(ctx context.Context, inv *models.Invoice, sub *models.Subscription) error
	FindInvoice(ctx context.Context, id primitive.ObjectID) (*models.Invoice, error)
	FindInvoiceByOrder(ctx context.Context, orderID string) (*models.Invoice, error)
	AttachPaymentOrder(ctx context.Context, invoiceID primitive.ObjectID, orderID string) error
	// SettleInvoice marks the invoice paid and cascades to the request and the donor subscription.
	SettleInvoice(ctx context.Context, inv *models.Invoice, transactionID string, at time.Time) error
}

type ReportStore interface {
	InsertReport(ctx context.Context, r *models.Report) error
	ListReports(ctx context.Context) ([]models.Report, error)
}

// Store is every persistence port the workflows need.
type Store interface {
	AssetStore
	DonorRequestStore
	DeliveryStore
	LedgerStore
	ReportStore
}

// Courier is the shipping platform boundary.
type Courier interface {
	CreateShipmentOrder(ctx context.Context, order shiprocket.Order) (*models.ShippingDetails, error)
	RegisterPickupLocation(ctx context.Context, owner shiprocket.PickupOwner, address string) (*models.PickupDetails, error)
	Track(ctx context.Context, orderID, channelID string) (json.RawMessage, error)
}

// ImageStore uploads asset images and returns their public URL.
type ImageStore interface {
	UploadFile(ctx context.Context, file io.Reader, objectKey, contentType string) (string, error)
}

// Service runs the donation workflows over the store and external boundaries.
type Service struct {
	Store        Store
	Accounts     identity.Directory
	Courier      Courier
	Payments     payment.Gateway
	Images       ImageStore
	Notifier     notify.Notifier
	Trail        tracking.Recorder
	// History is optional; without it asset details carry an empty trail.
	History      tracking.Reader
	ParseAddress shiprocket.AddressParser
	Now          func() time.Time
}

// New builds a Service with the positional address parser and wall clock.
func New(store Store, accounts identity.Directory, courier Courier, payments payment.Gateway,
	images ImageStore, n notify.Notifier, trail tracking.Recorder) *Service {
	return &Service{
		Store:        store,
		Accounts:     accounts,
		Courier:      courier,
		Payments:     payments,
		Images:       images,
		Notifier:     n,
		Trail:        trail,
		ParseAddress: shiprocket.ParseAddress,
		Now:          time.Now,
	}
}
