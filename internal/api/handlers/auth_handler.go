// internal/api/handlers/auth_handler.go
package handlers

import (
	"net/http"

	"dkt-api-server/internal/identity"
	"dkt-api-server/internal/models"

	"github.com/gin-gonic/gin"
)

type AuthHandler struct {
	Identity IdentityService
}

type RegisterRequest struct {
	Role             models.Role `json:"role" binding:"required"`
	Email            string      `json:"email" binding:"required"`
	Password         string      `json:"password" binding:"required"`
	Phone            string      `json:"phone"`
	Name             string      `json:"name"`
	CompanyName      string      `json:"companyName"`
	OrganizationName string      `json:"organizationName"`
}

type LoginRequest struct {
	Role     models.Role `json:"role" binding:"required"`
	Email    string      `json:"email" binding:"required"`
	Password string      `json:"password" binding:"required"`
}

// Register creates a donor, beneficiary or partner account awaiting admin approval.
func (h *AuthHandler) Register(c *gin.Context) {
	var req RegisterRequest
	if !bindJSON(c, &req) {
		return
	}

	acct, err := h.Identity.Register(c.Request.Context(), req.Role, identity.Profile{
		Email:            req.Email,
		Phone:            req.Phone,
		Password:         req.Password,
		Name:             req.Name,
		CompanyName:      req.CompanyName,
		OrganizationName: req.OrganizationName,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusCreated, "Registration received. Your account is under review.", acct)
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if !bindJSON(c, &req) {
		return
	}

	session, err := h.Identity.Login(c.Request.Context(), req.Role, req.Email, req.Password)
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusOK, "Login successful", session)
}
