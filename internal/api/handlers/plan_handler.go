// internal/api/handlers/plan_handler.go
package handlers

import (
	"net/http"

	"dkt-api-server/internal/models"

	"github.com/gin-gonic/gin"
)

type PlanHandler struct {
	Plans PlanService
}

func (h *PlanHandler) List(c *gin.Context) {
	plans, err := h.Plans.ListPlans(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusOK, "Pricing plans fetched", plans)
}

func (h *PlanHandler) Create(c *gin.Context) {
	var plan models.PricingPlan
	if !bindJSON(c, &plan) {
		return
	}
	created, err := h.Plans.CreatePlan(c.Request.Context(), plan)
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusCreated, "Pricing plan created", created)
}

func (h *PlanHandler) Update(c *gin.Context) {
	var plan models.PricingPlan
	if !bindJSON(c, &plan) {
		return
	}
	updated, err := h.Plans.UpdatePlan(c.Request.Context(), c.Param("id"), plan)
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusOK, "Pricing plan updated", updated)
}

func (h *PlanHandler) Delete(c *gin.Context) {
	if err := h.Plans.DeletePlan(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusOK, "Pricing plan deleted", nil)
}
