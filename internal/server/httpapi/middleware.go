package httpapi

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/dmitrijs2005/sbts/internal/common"
	"github.com/dmitrijs2005/sbts/internal/logging"
	"github.com/dmitrijs2005/sbts/internal/server/auth"
	"github.com/gin-gonic/gin"
)

const ownerKey = "owner"

// Authenticate resolves the bearer token, if any, into the request owner.
// Requests without an Authorization header pass through anonymously.
func Authenticate(secret []byte) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader(common.AuthorizationHeaderName)
		if header == "" {
			c.Next()
			return
		}

		token, ok := strings.CutPrefix(header, common.BearerPrefix)
		if !ok || token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "malformed authorization header"})
			return
		}

		owner, err := auth.GetOwnerFromToken(token, secret)
		if err != nil {
			msg := "invalid token"
			if errors.Is(err, common.ErrTokenExpired) {
				msg = "token expired"
			}
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": msg})
			return
		}

		c.Set(ownerKey, owner)
		c.Next()
	}
}

// RequireOwner rejects anonymous requests with 403.
func RequireOwner() gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, ok := c.Get(ownerKey); !ok {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "authentication credentials were not provided"})
			return
		}
		c.Next()
	}
}

func ownerFrom(c *gin.Context) string {
	return c.GetString(ownerKey)
}

// AccessLog writes one line per request through logger.
func AccessLog(logger logging.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		args := []any{
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"latency", time.Since(start),
			"client_ip", c.ClientIP(),
		}
		if owner, ok := c.Get(ownerKey); ok {
			args = append(args, "owner", owner)
		}
		if len(c.Errors) > 0 {
			args = append(args, "error", c.Errors.String())
		}

		if c.Writer.Status() >= http.StatusInternalServerError {
			logger.Error(c.Request.Context(), "request", args...)
			return
		}
		logger.Info(c.Request.Context(), "request", args...)
	}
}
