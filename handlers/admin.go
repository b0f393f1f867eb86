// File: consultly/handlers/admin.go
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"consultly/utils"
)

// AdminListConsultationsHandler returns every consultation in the system for
// operator review.
func (hb *HandlerBundle) AdminListConsultationsHandler(c *gin.Context) {
	consultations, err := hb.Consultations.ListAll(c.Request.Context())
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, consultations)
}

// AdminAdvisorConsultationsHandler returns one advisor's consultations as
// snapshots for operator review.
func (hb *HandlerBundle) AdminAdvisorConsultationsHandler(c *gin.Context) {
	snapshots, err := hb.Consultations.AdvisorSnapshot(c.Request.Context(), c.Param("id"))
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, snapshots)
}
