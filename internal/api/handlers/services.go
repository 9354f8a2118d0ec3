// internal/api/handlers/services.go
package handlers

import (
	"context"
	"encoding/json"

	"dkt-api-server/internal/identity"
	"dkt-api-server/internal/models"
	"dkt-api-server/internal/payment"
	"dkt-api-server/internal/workflow"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// The handler ports below are satisfied by *identity.Service and *workflow.Service.

type IdentityService interface {
	Register(ctx context.Context, role models.Role, p identity.Profile) (identity.Account, error)
	Login(ctx context.Context, role models.Role, email, password string) (*identity.Session, error)
	SetApproval(ctx context.Context, role models.Role, id string, approval models.Approval) (identity.Account, error)
}

type AccountService interface {
	AddGSTInfo(ctx context.Context, role models.Role, userID primitive.ObjectID, gstNumber, address string) (*models.AccountAddress, error)
	AddAddress(ctx context.Context, role models.Role, userID primitive.ObjectID, address string) (*models.AccountAddress, error)
}

type DonorService interface {
	UploadAsset(ctx context.Context, donorID primitive.ObjectID, in workflow.AssetInput, img *workflow.Image) (*models.Asset, error)
	ListAssets(ctx context.Context, donorID primitive.ObjectID) ([]models.Asset, error)
	ListUploads(ctx context.Context, donorID primitive.ObjectID) ([]models.ProductUpload, error)
	CreateDonorRequest(ctx context.Context, donorID primitive.ObjectID, in workflow.DonorRequestInput) (*models.DonorRequest, error)
	ListDonorRequests(ctx context.Context, donorID primitive.ObjectID) ([]models.DonorRequest, error)
	TrackOrder(ctx context.Context, orderID, channelID string) (json.RawMessage, error)
}

type PaymentService interface {
	Checkout(ctx context.Context, donorID primitive.ObjectID, invoiceID string) (*payment.Order, error)
	VerifyPayment(ctx context.Context, donorID primitive.ObjectID, in workflow.PaymentConfirmation) (*models.Invoice, error)
	CreateInvoice(ctx context.Context, in workflow.InvoiceInput) (*models.Invoice, error)
}

type BeneficiaryService interface {
	SubmitBeneficiaryRequest(ctx context.Context, beneficiaryID primitive.ObjectID, in workflow.BeneficiaryRequestInput) (*models.BeneficiaryRequest, error)
	ListBeneficiaryRequests(ctx context.Context, beneficiaryID *primitive.ObjectID) ([]models.BeneficiaryRequest, error)
	FileReport(ctx context.Context, beneficiaryID primitive.ObjectID, requestID, message string) (*models.Report, error)
}

type PartnerService interface {
	AcceptDonorRequest(ctx context.Context, partnerID primitive.ObjectID, requestID string, status models.AssetStatus) (*models.DonorRequest, error)
	UpdateDeliveryStatus(ctx context.Context, partnerID primitive.ObjectID, deliveryID string, status models.DeliveryStatus) (*models.AssetDelivery, error)
	UpdateAssetCondition(ctx context.Context, partnerID primitive.ObjectID, in workflow.ConditionInput) (*models.Asset, error)
	ListDeliveries(ctx context.Context, partnerID primitive.ObjectID) ([]models.AssetDelivery, error)
}

type AdminService interface {
	ReviewUpload(ctx context.Context, uploadID string, approval models.Approval) error
	AssignToPartner(ctx context.Context, adminID primitive.ObjectID, in workflow.AssignInput) (*models.DonorRequest, error)
	RetryDonorRequestShipment(ctx context.Context, requestID string) (*models.DonorRequest, error)
	CreateDelivery(ctx context.Context, adminID primitive.ObjectID, in workflow.DeliveryInput) (*models.AssetDelivery, error)
	RetryDeliveryShipment(ctx context.Context, deliveryID string) (*models.AssetDelivery, error)
	ModerateBeneficiaryRequest(ctx context.Context, requestID string, status models.BeneficiaryRequestStatus, comments string) (*models.BeneficiaryRequest, error)
	ListBeneficiaryRequests(ctx context.Context, beneficiaryID *primitive.ObjectID) ([]models.BeneficiaryRequest, error)
	VerifyAddress(ctx context.Context, role models.Role, userID, addressID string) (*models.AccountAddress, error)
	ListReports(ctx context.Context) ([]models.Report, error)
}

type PlanService interface {
	ListPlans(ctx context.Context) ([]models.PricingPlan, error)
	CreatePlan(ctx context.Context, plan models.PricingPlan) (*models.PricingPlan, error)
	UpdatePlan(ctx context.Context, id string, plan models.PricingPlan) (*models.PricingPlan, error)
	DeletePlan(ctx context.Context, id string) error
}

type AssetService interface {
	GetAssetDetail(ctx context.Context, assetID string) (*workflow.AssetDetail, error)
}
