// internal/api/handlers/respond.go
package handlers

import (
	"log"
	"net/http"

	"dkt-api-server/internal/api/middleware"
	"dkt-api-server/internal/apperr"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// respond writes the {success, message, data} envelope.
func respond(c *gin.Context, status int, message string, data any) {
	body := gin.H{"success": status < 400, "message": message}
	if data != nil {
		body["data"] = data
	}
	c.JSON(status, body)
}

// respondError maps err to its status. Server errors are logged and never leak their cause.
func respondError(c *gin.Context, err error) {
	appErr := apperr.From(err)
	switch appErr.Kind {
	case apperr.KindServer:
		log.Printf("CRITICAL: %s %s: %v", c.Request.Method, c.FullPath(), err)
		respond(c, http.StatusInternalServerError, "Internal server error", nil)
		return
	case apperr.KindIntegration:
		log.Printf("WARN: %s %s: upstream %d: %v body=%s", c.Request.Method, c.FullPath(), appErr.Status, err, appErr.Body)
		var data any
		if appErr.Status > 0 {
			data = gin.H{"upstreamStatus": appErr.Status}
		}
		respond(c, appErr.HTTPStatus(), appErr.Message, data)
		return
	}
	respond(c, appErr.HTTPStatus(), appErr.Message, nil)
}

func bindJSON(c *gin.Context, req any) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		respond(c, http.StatusBadRequest, err.Error(), nil)
		return false
	}
	return true
}

// caller returns the authenticated account id or writes a 401.
func caller(c *gin.Context) (primitive.ObjectID, bool) {
	id, ok := middleware.CallerID(c)
	if !ok {
		respond(c, http.StatusUnauthorized, "Invalid user in token", nil)
	}
	return id, ok
}
