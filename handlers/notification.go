// File: consultly/handlers/notification.go
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"consultly/utils"
)

// ListNotificationsHandler returns the caller's recent notifications, newest
// first.
func (hb *HandlerBundle) ListNotificationsHandler(c *gin.Context) {
	identity, ok := hb.identity(c)
	if !ok {
		return
	}

	notifications, err := hb.Notifications.List(c.Request.Context(), identity)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, notifications)
}

// MarkNotificationsReadHandler marks all of the caller's notifications read.
func (hb *HandlerBundle) MarkNotificationsReadHandler(c *gin.Context) {
	identity, ok := hb.identity(c)
	if !ok {
		return
	}

	updated, err := hb.Notifications.MarkAllRead(c.Request.Context(), identity)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"updated": updated})
}
