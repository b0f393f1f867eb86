// File: consultly/handlers/slot.go
package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/mongo"

	"consultly/models"
	"consultly/utils"
)

// CreateSlotHandler publishes a new availability slot for the calling
// advisor.
func (hb *HandlerBundle) CreateSlotHandler(c *gin.Context) {
	identity, ok := hb.identity(c)
	if !ok {
		return
	}

	var req models.CreateSlotRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid input", err.Error())
		return
	}
	if !req.EndTime.After(req.StartTime) {
		badRequest(c, "endTime must be after startTime", "")
		return
	}
	if req.StartTime.Before(time.Now().UTC()) {
		badRequest(c, "startTime must be in the future", "")
		return
	}

	slot := &models.Slot{
		ID:        uuid.New().String(),
		AdvisorID: identity.SubjectID,
		StartTime: req.StartTime.UTC(),
		EndTime:   req.EndTime.UTC(),
		Duration:  int(req.EndTime.Sub(req.StartTime).Minutes()),
		IsBooked:  false,
		CreatedAt: time.Now().UTC(),
	}
	if err := hb.Slots.Create(c.Request.Context(), slot); err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, slot)
}

// ListOwnSlotsHandler returns every slot the calling advisor has published,
// booked or not.
func (hb *HandlerBundle) ListOwnSlotsHandler(c *gin.Context) {
	identity, ok := hb.identity(c)
	if !ok {
		return
	}

	slots, err := hb.Slots.ListByAdvisor(c.Request.Context(), identity.SubjectID)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, slots)
}

// DeleteSlotHandler removes one of the calling advisor's slots. Booked slots
// cannot be removed; the reservation belongs to the consultation.
func (hb *HandlerBundle) DeleteSlotHandler(c *gin.Context) {
	identity, ok := hb.identity(c)
	if !ok {
		return
	}

	err := hb.Slots.DeleteUnbooked(c.Request.Context(), identity.SubjectID, c.Param("id"))
	if errors.Is(err, mongo.ErrNoDocuments) {
		c.JSON(http.StatusNotFound, utils.ErrorResponse{
			Code:    utils.CodeNotFound,
			Message: "slot not found, not yours, or already booked",
		})
		return
	}
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// ListAdvisorSlotsHandler returns an advisor's open future slots for seekers
// browsing availability.
func (hb *HandlerBundle) ListAdvisorSlotsHandler(c *gin.Context) {
	slots, err := hb.Slots.ListAvailableByAdvisor(c.Request.Context(), c.Param("id"))
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, slots)
}
