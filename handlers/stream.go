// File: consultly/handlers/stream.go
package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"consultly/services/broadcast"
	"consultly/utils"
)

// StreamHandler serves the caller's server-sent event stream. Each frame is
// the caller's full consultation snapshot list; heartbeats keep the
// connection registered with the hub.
func (hb *HandlerBundle) StreamHandler(c *gin.Context) {
	identity, ok := hb.identity(c)
	if !ok {
		return
	}

	flusher, ok := c.Writer.(http.Flusher)
	if !ok {
		c.JSON(http.StatusInternalServerError, utils.ErrorResponse{
			Code:    utils.CodeInternalError,
			Message: "streaming is not supported on this connection",
		})
		return
	}

	c.Writer.Header().Set("Content-Type", "text/event-stream")
	c.Writer.Header().Set("Cache-Control", "no-cache")
	c.Writer.Header().Set("Connection", "keep-alive")
	c.Writer.Header().Set("X-Accel-Buffering", "no")
	c.Writer.WriteHeader(http.StatusOK)
	flusher.Flush()

	conn := hb.Hub.Subscribe(identity)
	defer hb.Hub.Unsubscribe(conn)

	hb.Logger.Debug("stream opened",
		zap.String("subject", identity.SubjectID),
		zap.String("role", string(identity.Role)))

	heartbeat := time.NewTicker(broadcast.HeartbeatInterval)
	defer heartbeat.Stop()

	for {
		select {
		case frame, open := <-conn.Frames():
			if !open {
				return
			}
			if _, err := c.Writer.Write(frame); err != nil {
				return
			}
			flusher.Flush()
			conn.Touch()
		case <-heartbeat.C:
			if _, err := c.Writer.Write(broadcast.PingFrame); err != nil {
				return
			}
			flusher.Flush()
			conn.Touch()
		case <-conn.Done():
			return
		case <-c.Request.Context().Done():
			return
		}
	}
}
