// File: consultly/handlers/message.go
package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"consultly/models"
	"consultly/utils"
)

// SendMessageHandler appends a message to a consultation's log.
func (hb *HandlerBundle) SendMessageHandler(c *gin.Context) {
	identity, ok := hb.identity(c)
	if !ok {
		return
	}

	var req models.SendMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid input", err.Error())
		return
	}
	if strings.TrimSpace(req.Content) == "" {
		badRequest(c, "message content must not be empty", "")
		return
	}

	msg, err := hb.Messages.Append(c.Request.Context(), c.Param("id"), identity, req.Content)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, msg)
}

// ListMessagesHandler returns a page of a consultation's messages, oldest
// first.
func (hb *HandlerBundle) ListMessagesHandler(c *gin.Context) {
	identity, ok := hb.identity(c)
	if !ok {
		return
	}

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))

	msgs, total, err := hb.Messages.List(c.Request.Context(), c.Param("id"), identity, page, limit)
	if err != nil {
		utils.RespondError(c, err)
		return
	}

	// Fetching the conversation counts as reading it.
	if _, err := hb.Messages.MarkRead(c.Request.Context(), c.Param("id"), identity); err != nil {
		hb.Logger.Warn("failed to mark messages read on fetch",
			zap.String("consultationId", c.Param("id")), zap.Error(err))
	}

	c.JSON(http.StatusOK, gin.H{
		"messages": msgs,
		"total":    total,
		"page":     page,
		"limit":    limit,
	})
}

// EditMessageHandler replaces a message's content within the mutation
// window.
func (hb *HandlerBundle) EditMessageHandler(c *gin.Context) {
	identity, ok := hb.identity(c)
	if !ok {
		return
	}

	var req models.EditMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid input", err.Error())
		return
	}
	if strings.TrimSpace(req.Content) == "" {
		badRequest(c, "message content must not be empty", "")
		return
	}

	msg, err := hb.Messages.Edit(c.Request.Context(), c.Param("id"), identity.SubjectID, req.Content)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, msg)
}

// DeleteMessageHandler soft-deletes a message within the mutation window.
// The record stays in the log with its content replaced.
func (hb *HandlerBundle) DeleteMessageHandler(c *gin.Context) {
	identity, ok := hb.identity(c)
	if !ok {
		return
	}

	msg, err := hb.Messages.SoftDelete(c.Request.Context(), c.Param("id"), identity.SubjectID)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, msg)
}

// MarkMessagesReadHandler marks every unread message from the other
// participant as read.
func (hb *HandlerBundle) MarkMessagesReadHandler(c *gin.Context) {
	identity, ok := hb.identity(c)
	if !ok {
		return
	}

	updated, err := hb.Messages.MarkRead(c.Request.Context(), c.Param("id"), identity)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"updated": updated})
}
