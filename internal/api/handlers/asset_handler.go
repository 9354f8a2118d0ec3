// internal/api/handlers/asset_handler.go
package handlers

import (
	"net/http"

	"dkt-api-server/internal/tracking"
	"dkt-api-server/internal/workflow"

	"github.com/gin-gonic/gin"
)

type AssetHandler struct {
	Trail tracking.Reader
}

// GetAssetTrace returns an asset's lifecycle events, oldest first.
func (h *AssetHandler) GetAssetTrace(c *gin.Context) {
	assetID, err := workflow.ParseID("id", c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	events, err := h.Trail.History(c.Request.Context(), assetID)
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusOK, "Asset trace fetched", events)
}
