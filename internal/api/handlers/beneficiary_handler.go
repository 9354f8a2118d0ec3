// internal/api/handlers/beneficiary_handler.go
package handlers

import (
	"net/http"

	"dkt-api-server/internal/models"
	"dkt-api-server/internal/workflow"

	"github.com/gin-gonic/gin"
)

type BeneficiaryHandler struct {
	Requests BeneficiaryService
}

type AssetRequestBody struct {
	FullName         string               `json:"fullName" binding:"required"`
	ContactNumber    string               `json:"contactNumber" binding:"required"`
	Email            string               `json:"email" binding:"required"`
	OrganizationName string               `json:"organizationName"`
	Role             string               `json:"role"`
	Address          models.PickupAddress `json:"address" binding:"required"`
	City             string               `json:"city"`
	State            string               `json:"state"`
	Pincode          string               `json:"pincode" binding:"required"`
	DeviceType       models.DeviceType    `json:"deviceType" binding:"required"`
	Specifications   string               `json:"specifications"`
	Urgency          models.Urgency       `json:"urgency" binding:"required"`
	Quantity         int                  `json:"quantity" binding:"required"`
}

type ReportRequest struct {
	RequestID string `json:"requestId" binding:"required"`
	Message   string `json:"message" binding:"required"`
}

func (h *BeneficiaryHandler) CreateAssetRequest(c *gin.Context) {
	beneficiaryID, ok := caller(c)
	if !ok {
		return
	}
	var req AssetRequestBody
	if !bindJSON(c, &req) {
		return
	}

	created, err := h.Requests.SubmitBeneficiaryRequest(c.Request.Context(), beneficiaryID, workflow.BeneficiaryRequestInput{
		FullName:         req.FullName,
		ContactNumber:    req.ContactNumber,
		Email:            req.Email,
		OrganizationName: req.OrganizationName,
		Role:             req.Role,
		Address:          req.Address,
		City:             req.City,
		State:            req.State,
		Pincode:          req.Pincode,
		DeviceType:       req.DeviceType,
		Specifications:   req.Specifications,
		Urgency:          req.Urgency,
		Quantity:         req.Quantity,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusCreated, "Asset request submitted successfully", created)
}

func (h *BeneficiaryHandler) ListRequests(c *gin.Context) {
	beneficiaryID, ok := caller(c)
	if !ok {
		return
	}
	reqs, err := h.Requests.ListBeneficiaryRequests(c.Request.Context(), &beneficiaryID)
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusOK, "Requests fetched", reqs)
}

func (h *BeneficiaryHandler) FileReport(c *gin.Context) {
	beneficiaryID, ok := caller(c)
	if !ok {
		return
	}
	var req ReportRequest
	if !bindJSON(c, &req) {
		return
	}
	report, err := h.Requests.FileReport(c.Request.Context(), beneficiaryID, req.RequestID, req.Message)
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusCreated, "Report submitted", report)
}
