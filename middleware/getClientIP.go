package middleware

import (
	"net"
	"strings"

	"github.com/gin-gonic/gin"
)

// getClientIP resolves the originating address, preferring proxy headers
// over the socket peer. Header values are attacker-controlled, so only
// entries that parse as real IPs are trusted.
func getClientIP(c *gin.Context) string {
	// X-Forwarded-For accumulates one entry per proxy hop, client first.
	for _, candidate := range strings.Split(c.GetHeader("X-Forwarded-For"), ",") {
		candidate = strings.TrimSpace(candidate)
		if net.ParseIP(candidate) != nil {
			return candidate
		}
	}

	if xri := strings.TrimSpace(c.GetHeader("X-Real-IP")); net.ParseIP(xri) != nil {
		return xri
	}

	if host, _, err := net.SplitHostPort(c.Request.RemoteAddr); err == nil {
		return host
	}
	return c.Request.RemoteAddr
}
