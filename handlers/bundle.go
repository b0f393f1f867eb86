// File: consultly/handlers/bundle.go
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	slotRepo "consultly/database/repository/slot"
	"consultly/middleware"
	"consultly/models"
	"consultly/services/broadcast"
	"consultly/services/consultation"
	"consultly/services/messagelog"
	"consultly/services/notification"
	"consultly/utils"
)

// HandlerBundle groups all endpoint handlers and the services they depend on.
type HandlerBundle struct {
	Consultations consultation.ConsultationService
	Messages      messagelog.MessageLogService
	Notifications notification.NotificationService
	Slots         slotRepo.SlotRepository
	Hub           *broadcast.Hub
	Logger        *zap.Logger
}

// identity pulls the authenticated identity set by the auth middleware. A
// missing identity means the route was registered without auth; treat it as
// a server fault rather than a client one.
func (hb *HandlerBundle) identity(c *gin.Context) (models.Identity, bool) {
	id, ok := middleware.CurrentIdentity(c)
	if !ok {
		hb.Logger.Error("handler reached without an authenticated identity",
			zap.String("path", c.FullPath()))
		c.JSON(http.StatusInternalServerError, utils.ErrorResponse{
			Code:    utils.CodeInternalError,
			Message: "authentication context missing",
		})
	}
	return id, ok
}

func badRequest(c *gin.Context, message, details string) {
	c.JSON(http.StatusBadRequest, utils.ErrorResponse{
		Code:    utils.CodeValidationError,
		Message: message,
		Details: details,
	})
}

// HealthHandler reports process liveness and the number of open streams.
func (hb *HandlerBundle) HealthHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":      "ok",
		"connections": hb.Hub.ConnectionCount(),
	})
}
