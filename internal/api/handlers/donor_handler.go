// internal/api/handlers/donor_handler.go
package handlers

import (
	"net/http"
	"time"

	"dkt-api-server/internal/models"
	"dkt-api-server/internal/workflow"

	"github.com/gin-gonic/gin"
)

type DonorHandler struct {
	Donations DonorService
	Payments  PaymentService
}

type UploadAssetForm struct {
	Name                  string  `form:"name" binding:"required"`
	Model                 string  `form:"model" binding:"required"`
	Quantity              int     `form:"quantity"`
	OriginalPurchaseValue float64 `form:"originalPurchaseValue"`
}

type CreateDonorRequestBody struct {
	RequestIDs     []string             `json:"requestIds" binding:"required"`
	Address        models.PickupAddress `json:"address" binding:"required"`
	City           string               `json:"city"`
	State          string               `json:"state"`
	Pincode        string               `json:"pincode"`
	Phone          string               `json:"phone"`
	AlternatePhone string               `json:"alternatePhone"`
	ShippingDate   time.Time            `json:"shippingDate"`
	Description    string               `json:"description"`
	Dimensions     models.Dimensions    `json:"dimensions"`
}

type CheckoutRequest struct {
	InvoiceID string `json:"invoiceId" binding:"required"`
}

type VerifyPaymentRequest struct {
	OrderID   string `json:"razorpay_order_id" binding:"required"`
	PaymentID string `json:"razorpay_payment_id" binding:"required"`
	Signature string `json:"razorpay_signature" binding:"required"`
}

// UploadProduct accepts a multipart form with an optional "image" file.
func (h *DonorHandler) UploadProduct(c *gin.Context) {
	donorID, ok := caller(c)
	if !ok {
		return
	}
	var form UploadAssetForm
	if err := c.ShouldBind(&form); err != nil {
		respond(c, http.StatusBadRequest, err.Error(), nil)
		return
	}

	var img *workflow.Image
	if fh, err := c.FormFile("image"); err == nil {
		file, err := fh.Open()
		if err != nil {
			respond(c, http.StatusBadRequest, "Unable to read uploaded image", nil)
			return
		}
		defer file.Close()
		img = &workflow.Image{Body: file, Filename: fh.Filename, ContentType: fh.Header.Get("Content-Type")}
	}

	asset, err := h.Donations.UploadAsset(c.Request.Context(), donorID, workflow.AssetInput{
		Name:                  form.Name,
		Model:                 form.Model,
		Quantity:              form.Quantity,
		OriginalPurchaseValue: form.OriginalPurchaseValue,
	}, img)
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusCreated, "Product uploaded, pending admin approval", asset)
}

func (h *DonorHandler) ListProducts(c *gin.Context) {
	donorID, ok := caller(c)
	if !ok {
		return
	}
	assets, err := h.Donations.ListAssets(c.Request.Context(), donorID)
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusOK, "Products fetched", assets)
}

func (h *DonorHandler) ListUploads(c *gin.Context) {
	donorID, ok := caller(c)
	if !ok {
		return
	}
	uploads, err := h.Donations.ListUploads(c.Request.Context(), donorID)
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusOK, "Uploads fetched", uploads)
}

func (h *DonorHandler) CreateRequest(c *gin.Context) {
	donorID, ok := caller(c)
	if !ok {
		return
	}
	var req CreateDonorRequestBody
	if !bindJSON(c, &req) {
		return
	}

	created, err := h.Donations.CreateDonorRequest(c.Request.Context(), donorID, workflow.DonorRequestInput{
		ProductIDs:     req.RequestIDs,
		Address:        req.Address,
		City:           req.City,
		State:          req.State,
		Pincode:        req.Pincode,
		Phone:          req.Phone,
		AlternatePhone: req.AlternatePhone,
		ShippingDate:   req.ShippingDate,
		Description:    req.Description,
		Dimensions:     req.Dimensions,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusCreated, "Request created successfully", created)
}

func (h *DonorHandler) ListRequests(c *gin.Context) {
	donorID, ok := caller(c)
	if !ok {
		return
	}
	reqs, err := h.Donations.ListDonorRequests(c.Request.Context(), donorID)
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusOK, "Requests fetched", reqs)
}

// TrackOrder proxies the courier tracking lookup.
func (h *DonorHandler) TrackOrder(c *gin.Context) {
	orderID, channelID := c.Query("order_id"), c.Query("channel_id")
	if orderID == "" || channelID == "" {
		respond(c, http.StatusBadRequest, "order_id and channel_id are required", nil)
		return
	}
	tracking, err := h.Donations.TrackOrder(c.Request.Context(), orderID, channelID)
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusOK, "Tracking fetched", tracking)
}

func (h *DonorHandler) Checkout(c *gin.Context) {
	donorID, ok := caller(c)
	if !ok {
		return
	}
	var req CheckoutRequest
	if !bindJSON(c, &req) {
		return
	}
	order, err := h.Payments.Checkout(c.Request.Context(), donorID, req.InvoiceID)
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusOK, "Payment order created", order)
}

func (h *DonorHandler) VerifyPayment(c *gin.Context) {
	donorID, ok := caller(c)
	if !ok {
		return
	}
	var req VerifyPaymentRequest
	if !bindJSON(c, &req) {
		return
	}
	inv, err := h.Payments.VerifyPayment(c.Request.Context(), donorID, workflow.PaymentConfirmation{
		OrderID:   req.OrderID,
		PaymentID: req.PaymentID,
		Signature: req.Signature,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusOK, "Payment verified successfully", inv)
}
