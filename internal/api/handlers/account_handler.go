// internal/api/handlers/account_handler.go
package handlers

import (
	"net/http"

	"dkt-api-server/internal/api/middleware"

	"github.com/gin-gonic/gin"
)

// AccountHandler serves the GST and address book routes shared by donors,
// partners and beneficiaries. The account kind comes from the token.
type AccountHandler struct {
	Accounts AccountService
}

type GSTInfoRequest struct {
	GSTNumber string `json:"gst_number" binding:"required"`
	Address   string `json:"company_address" binding:"required"`
}

type AddressRequest struct {
	Address string `json:"address" binding:"required"`
}

func (h *AccountHandler) AddGSTInfo(c *gin.Context) {
	userID, ok := caller(c)
	if !ok {
		return
	}
	var req GSTInfoRequest
	if !bindJSON(c, &req) {
		return
	}

	addr, err := h.Accounts.AddGSTInfo(c.Request.Context(), middleware.CallerRole(c), userID, req.GSTNumber, req.Address)
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusCreated, "GST info added and pickup location registered", addr)
}

func (h *AccountHandler) AddAddress(c *gin.Context) {
	userID, ok := caller(c)
	if !ok {
		return
	}
	var req AddressRequest
	if !bindJSON(c, &req) {
		return
	}

	addr, err := h.Accounts.AddAddress(c.Request.Context(), middleware.CallerRole(c), userID, req.Address)
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusCreated, "Address added, pending verification", addr)
}
