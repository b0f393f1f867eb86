// File: consultly/handlers/consultation.go
package handlers

import (
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"consultly/models"
	"consultly/utils"
)

// BookConsultationHandler creates a PENDING consultation, reserving the slot.
func (hb *HandlerBundle) BookConsultationHandler(c *gin.Context) {
	identity, ok := hb.identity(c)
	if !ok {
		return
	}

	var req models.BookConsultationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid input", err.Error())
		return
	}
	if req.AdvisorID == "" || req.SlotID == "" {
		badRequest(c, "advisorId and slotId are required", "")
		return
	}

	consultation, err := hb.Consultations.Book(c.Request.Context(), identity.SubjectID, req)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, consultation)
}

// ListConsultationsHandler returns the caller's consultations as snapshots,
// most recently updated first.
func (hb *HandlerBundle) ListConsultationsHandler(c *gin.Context) {
	identity, ok := hb.identity(c)
	if !ok {
		return
	}

	var (
		snapshots []models.ConsultationSnapshot
		err       error
	)
	switch identity.Role {
	case models.RoleAdvisor:
		snapshots, err = hb.Consultations.AdvisorSnapshot(c.Request.Context(), identity.SubjectID)
	default:
		snapshots, err = hb.Consultations.SeekerSnapshot(c.Request.Context(), identity.SubjectID)
	}
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, snapshots)
}

// GetConsultationHandler returns a single consultation the caller
// participates in, with its slot and the first page of messages.
func (hb *HandlerBundle) GetConsultationHandler(c *gin.Context) {
	identity, ok := hb.identity(c)
	if !ok {
		return
	}

	consultation, err := hb.Consultations.GetForParticipant(c.Request.Context(), c.Param("id"), identity)
	if err != nil {
		utils.RespondError(c, err)
		return
	}

	// Slot and messages are enrichment; the consultation itself is the
	// answer even if either lookup fails.
	slot, err := hb.Slots.GetByID(c.Request.Context(), consultation.SlotID)
	if err != nil {
		slot = nil
	}
	msgs, _, err := hb.Messages.List(c.Request.Context(), consultation.ID, identity, 1, 50)
	if err != nil {
		msgs = nil
	}

	c.JSON(http.StatusOK, gin.H{
		"consultation": consultation,
		"slot":         slot,
		"messages":     msgs,
	})
}

// TransitionConsultationHandler moves a consultation through its state
// machine (activate, complete, cancel).
func (hb *HandlerBundle) TransitionConsultationHandler(c *gin.Context) {
	identity, ok := hb.identity(c)
	if !ok {
		return
	}

	var req models.TransitionConsultationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid input", err.Error())
		return
	}

	consultation, err := hb.Consultations.Transition(c.Request.Context(), c.Param("id"), identity, req)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, consultation)
}

// CancelConsultationHandler lets a seeker withdraw a PENDING request. The
// body is optional; an empty one reads as a cancellation without a reason.
func (hb *HandlerBundle) CancelConsultationHandler(c *gin.Context) {
	identity, ok := hb.identity(c)
	if !ok {
		return
	}

	var req models.CancelConsultationRequest
	if err := c.ShouldBindJSON(&req); err != nil && err != io.EOF {
		badRequest(c, "invalid input", err.Error())
		return
	}

	consultation, err := hb.Consultations.Cancel(c.Request.Context(), c.Param("id"), identity.SubjectID, req.Reason)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, consultation)
}

// ReviewConsultationHandler records the seeker's rating and review on a
// completed consultation.
func (hb *HandlerBundle) ReviewConsultationHandler(c *gin.Context) {
	identity, ok := hb.identity(c)
	if !ok {
		return
	}

	var req models.ReviewConsultationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid input", err.Error())
		return
	}

	consultation, err := hb.Consultations.RecordReview(c.Request.Context(), c.Param("id"), identity.SubjectID, req.Rating, req.Review)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, consultation)
}
