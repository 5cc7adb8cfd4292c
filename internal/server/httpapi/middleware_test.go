package httpapi

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/dmitrijs2005/sbts/internal/common"
	"github.com/dmitrijs2005/sbts/internal/logging"
	"github.com/dmitrijs2005/sbts/internal/server/auth"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type logEntry struct {
	level string
	msg   string
	args  []any
}

type recordingLogger struct {
	mu      sync.Mutex
	entries []logEntry
}

func (r *recordingLogger) add(level, msg string, args []any) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries = append(r.entries, logEntry{level, msg, args})
}

func (r *recordingLogger) Debug(_ context.Context, msg string, args ...any) { r.add("debug", msg, args) }
func (r *recordingLogger) Info(_ context.Context, msg string, args ...any)  { r.add("info", msg, args) }
func (r *recordingLogger) Warn(_ context.Context, msg string, args ...any)  { r.add("warn", msg, args) }
func (r *recordingLogger) Error(_ context.Context, msg string, args ...any) { r.add("error", msg, args) }
func (r *recordingLogger) With(...any) logging.Logger                      { return r }

func ownerEcho() *gin.Engine {
	r := gin.New()
	r.Use(Authenticate([]byte(testSecret)))
	r.GET("/who", func(c *gin.Context) {
		owner, ok := c.Get(ownerKey)
		c.JSON(http.StatusOK, gin.H{"owner": owner, "authenticated": ok})
	})
	return r
}

func TestAuthenticate_Anonymous(t *testing.T) {
	w := do(ownerEcho(), httptest.NewRequest(http.MethodGet, "/who", nil))

	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"owner":null,"authenticated":false}`, w.Body.String())
}

func TestAuthenticate_ValidToken(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/who", nil)
	req.Header.Set(common.AuthorizationHeaderName, bearer(t, "carol"))
	w := do(ownerEcho(), req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"owner":"carol","authenticated":true}`, w.Body.String())
}

func TestAuthenticate_ExpiredToken(t *testing.T) {
	tok, err := auth.GenerateToken("carol", []byte(testSecret), -time.Minute)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/who", nil)
	req.Header.Set(common.AuthorizationHeaderName, common.BearerPrefix+tok)
	w := do(ownerEcho(), req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "token expired")
}

func TestAuthenticate_WrongSecret(t *testing.T) {
	tok, err := auth.GenerateToken("carol", []byte("other"), time.Hour)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/who", nil)
	req.Header.Set(common.AuthorizationHeaderName, common.BearerPrefix+tok)
	w := do(ownerEcho(), req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthenticate_MalformedHeader(t *testing.T) {
	for _, h := range []string{"Basic dXNlcjpwYXNz", "Bearer ", "token"} {
		req := httptest.NewRequest(http.MethodGet, "/who", nil)
		req.Header.Set(common.AuthorizationHeaderName, h)
		w := do(ownerEcho(), req)

		assert.Equal(t, http.StatusUnauthorized, w.Code, h)
	}
}

func TestRequireOwner(t *testing.T) {
	r := gin.New()
	r.Use(Authenticate([]byte(testSecret)))
	r.GET("/private", RequireOwner(), func(c *gin.Context) { c.Status(http.StatusNoContent) })

	w := do(r, httptest.NewRequest(http.MethodGet, "/private", nil))
	assert.Equal(t, http.StatusForbidden, w.Code)

	req := httptest.NewRequest(http.MethodGet, "/private", nil)
	req.Header.Set(common.AuthorizationHeaderName, bearer(t, ""))
	w = do(r, req)
	assert.Equal(t, http.StatusNoContent, w.Code)
}

func TestAccessLog(t *testing.T) {
	logger := &recordingLogger{}
	r := gin.New()
	r.Use(AccessLog(logger))
	r.GET("/ok", func(c *gin.Context) { c.Status(http.StatusOK) })
	r.GET("/fail", func(c *gin.Context) { c.Status(http.StatusInternalServerError) })

	do(r, httptest.NewRequest(http.MethodGet, "/ok", nil))
	do(r, httptest.NewRequest(http.MethodGet, "/fail", nil))

	require.Len(t, logger.entries, 2)
	assert.Equal(t, "info", logger.entries[0].level)
	assert.Contains(t, logger.entries[0].args, "/ok")
	assert.Contains(t, logger.entries[0].args, http.StatusOK)
	assert.Equal(t, "error", logger.entries[1].level)
	assert.Contains(t, logger.entries[1].args, http.StatusInternalServerError)
}
