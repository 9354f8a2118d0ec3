// internal/api/handlers/partner_handler.go
package handlers

import (
	"net/http"

	"dkt-api-server/internal/models"
	"dkt-api-server/internal/workflow"

	"github.com/gin-gonic/gin"
)

type PartnerHandler struct {
	Partners PartnerService
}

type AcceptRequestBody struct {
	RequestID string             `json:"requestId" binding:"required"`
	Status    models.AssetStatus `json:"status" binding:"required"`
}

type DeliveryStatusBody struct {
	ID     string                `json:"id" binding:"required"`
	Status models.DeliveryStatus `json:"status" binding:"required"`
}

type AssetConditionBody struct {
	ProductID     string                 `json:"productId" binding:"required"`
	Condition     models.AssetCondition  `json:"condition" binding:"required"`
	IsRepair      bool                   `json:"isRepair"`
	RepairDetails []models.RepairService `json:"repairDetails"`
}

// AcceptRequest moves a donor request and its assets forward.
func (h *PartnerHandler) AcceptRequest(c *gin.Context) {
	partnerID, ok := caller(c)
	if !ok {
		return
	}
	var req AcceptRequestBody
	if !bindJSON(c, &req) {
		return
	}
	updated, err := h.Partners.AcceptDonorRequest(c.Request.Context(), partnerID, req.RequestID, req.Status)
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusOK, "Request status updated to "+string(req.Status), updated)
}

func (h *PartnerHandler) UpdateDeliveryStatus(c *gin.Context) {
	partnerID, ok := caller(c)
	if !ok {
		return
	}
	var req DeliveryStatusBody
	if !bindJSON(c, &req) {
		return
	}
	updated, err := h.Partners.UpdateDeliveryStatus(c.Request.Context(), partnerID, req.ID, req.Status)
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusOK, "Delivery status updated", updated)
}

func (h *PartnerHandler) UpdateAssetCondition(c *gin.Context) {
	partnerID, ok := caller(c)
	if !ok {
		return
	}
	var req AssetConditionBody
	if !bindJSON(c, &req) {
		return
	}
	asset, err := h.Partners.UpdateAssetCondition(c.Request.Context(), partnerID, workflow.ConditionInput{
		ProductID: req.ProductID,
		Condition: req.Condition,
		IsRepair:  req.IsRepair,
		Services:  req.RepairDetails,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusOK, "Asset condition updated", asset)
}

func (h *PartnerHandler) ListDeliveries(c *gin.Context) {
	partnerID, ok := caller(c)
	if !ok {
		return
	}
	deliveries, err := h.Partners.ListDeliveries(c.Request.Context(), partnerID)
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusOK, "Deliveries fetched", deliveries)
}
