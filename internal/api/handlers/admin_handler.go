// internal/api/handlers/admin_handler.go
package handlers

import (
	"net/http"

	"dkt-api-server/internal/billing"
	"dkt-api-server/internal/models"
	"dkt-api-server/internal/workflow"

	"github.com/gin-gonic/gin"
)

type AdminHandler struct {
	Identity IdentityService
	Admin    AdminService
	Invoices PaymentService
	Assets   AssetService
}

type ApproveUserRequest struct {
	UserID  string          `json:"userId" binding:"required"`
	Section models.Role     `json:"section" binding:"required"`
	Status  models.Approval `json:"status" binding:"required"`
}

type ApproveUploadRequest struct {
	UploadID string          `json:"uploadId" binding:"required"`
	Status   models.Approval `json:"status" binding:"required"`
}

type AssignPartnerRequest struct {
	RequestID     string `json:"requestId" binding:"required"`
	PartnerID     string `json:"partnerId" binding:"required"`
	PickupAddress string `json:"pickupAddress" binding:"required"`
}

type CreateDeliveryRequest struct {
	BeneficiaryRequestID string                `json:"beneficiaryRequestId" binding:"required"`
	AssetIDs             []string              `json:"assetIds" binding:"required"`
	PartnerID            string                `json:"partnerId" binding:"required"`
	PartnerAddress       models.PartnerAddress `json:"partnerAddress" binding:"required"`
}

type ModerateRequest struct {
	ID            string                          `json:"id" binding:"required"`
	Status        models.BeneficiaryRequestStatus `json:"status" binding:"required"`
	AdminComments string                          `json:"adminComments"`
}

type VerifyAddressRequest struct {
	Section   models.Role `json:"section" binding:"required"`
	UserID    string      `json:"userId" binding:"required"`
	AddressID string      `json:"addressId" binding:"required"`
}

type InvoiceRequest struct {
	RequestID      string   `json:"requestId" binding:"required"`
	DonorID        string   `json:"donorId" binding:"required"`
	Subscription   string   `json:"subscription"`
	InvoiceAmount  *float64 `json:"invoiceAmount"`
	GSTNumber      string   `json:"gstNumber"`
	PlatformFee    float64  `json:"platformFee"`
	LogisticsFee   float64  `json:"logisticsFee"`
	TransactionFee float64  `json:"transactionFee"`
	ServiceFee     float64  `json:"serviceFee"`
}

// ApproveUser flips an account's verify flag. The section names the account kind.
func (h *AdminHandler) ApproveUser(c *gin.Context) {
	var req ApproveUserRequest
	if !bindJSON(c, &req) {
		return
	}
	acct, err := h.Identity.SetApproval(c.Request.Context(), req.Section, req.UserID, req.Status)
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusOK, "User status updated to "+string(req.Status), acct)
}

func (h *AdminHandler) ApproveUploads(c *gin.Context) {
	var req ApproveUploadRequest
	if !bindJSON(c, &req) {
		return
	}
	if err := h.Admin.ReviewUpload(c.Request.Context(), req.UploadID, req.Status); err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusOK, "Upload status updated to "+string(req.Status), nil)
}

// AssignToPartner assigns a donor request and books the pickup. A courier
// failure still leaves the request assigned; the response carries the upstream error.
func (h *AdminHandler) AssignToPartner(c *gin.Context) {
	adminID, ok := caller(c)
	if !ok {
		return
	}
	var req AssignPartnerRequest
	if !bindJSON(c, &req) {
		return
	}
	updated, err := h.Admin.AssignToPartner(c.Request.Context(), adminID, workflow.AssignInput{
		RequestID:      req.RequestID,
		PartnerID:      req.PartnerID,
		PartnerAddress: req.PickupAddress,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusOK, "Request assigned and pickup scheduled", updated)
}

func (h *AdminHandler) RetryRequestShipment(c *gin.Context) {
	updated, err := h.Admin.RetryDonorRequestShipment(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusOK, "Pickup booked", updated)
}

func (h *AdminHandler) CreateDelivery(c *gin.Context) {
	adminID, ok := caller(c)
	if !ok {
		return
	}
	var req CreateDeliveryRequest
	if !bindJSON(c, &req) {
		return
	}
	d, err := h.Admin.CreateDelivery(c.Request.Context(), adminID, workflow.DeliveryInput{
		BeneficiaryRequestID: req.BeneficiaryRequestID,
		AssetIDs:             req.AssetIDs,
		PartnerID:            req.PartnerID,
		PartnerAddress:       req.PartnerAddress,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusCreated, "Assets allocated and delivery booked", d)
}

func (h *AdminHandler) RetryDeliveryShipment(c *gin.Context) {
	d, err := h.Admin.RetryDeliveryShipment(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusOK, "Delivery booked", d)
}

func (h *AdminHandler) ListBeneficiaryRequests(c *gin.Context) {
	reqs, err := h.Admin.ListBeneficiaryRequests(c.Request.Context(), nil)
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusOK, "Requests fetched", reqs)
}

func (h *AdminHandler) ModerateAssetRequest(c *gin.Context) {
	var req ModerateRequest
	if !bindJSON(c, &req) {
		return
	}
	updated, err := h.Admin.ModerateBeneficiaryRequest(c.Request.Context(), req.ID, req.Status, req.AdminComments)
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusOK, "Request "+string(req.Status), updated)
}

func (h *AdminHandler) VerifyAddress(c *gin.Context) {
	var req VerifyAddressRequest
	if !bindJSON(c, &req) {
		return
	}
	addr, err := h.Admin.VerifyAddress(c.Request.Context(), req.Section, req.UserID, req.AddressID)
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusOK, "Address verified and pickup location registered", addr)
}

func (h *AdminHandler) ListReports(c *gin.Context) {
	reports, err := h.Admin.ListReports(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusOK, "Reports fetched", reports)
}

func (h *AdminHandler) GetAsset(c *gin.Context) {
	detail, err := h.Assets.GetAssetDetail(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusOK, "Asset fetched", detail)
}

// CreateInvoice returns a handler issuing invoices of one type.
func (h *AdminHandler) CreateInvoice(kind models.InvoiceType) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req InvoiceRequest
		if !bindJSON(c, &req) {
			return
		}
		inv, err := h.Invoices.CreateInvoice(c.Request.Context(), workflow.InvoiceInput{
			Type:      kind,
			RequestID: req.RequestID,
			DonorID:   req.DonorID,
			GSTNumber: req.GSTNumber,
			Fees: billing.Fees{
				Platform:    req.PlatformFee,
				Logistics:   req.LogisticsFee,
				Transaction: req.TransactionFee,
				Service:     req.ServiceFee,
			},
			InvoiceAmount: req.InvoiceAmount,
			PlanID:        req.Subscription,
		})
		if err != nil {
			respondError(c, err)
			return
		}
		respond(c, http.StatusCreated, "Invoice generated", inv)
	}
}
