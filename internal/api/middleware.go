package api

import (
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/yourname/exercisetracker/internal"
	"github.com/yourname/exercisetracker/internal/response"
)

// RequestIDMiddleware ensures every request has a correlation/request ID
func RequestIDMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		reqID := c.GetHeader("X-Request-ID")
		if reqID == "" {
			reqID = uuid.NewString()
		}
		c.Set("request_id", reqID)
		c.Writer.Header().Set("X-Request-ID", reqID)
		c.Next()
	}
}

// ErrorMiddleware is the only place error responses are written. It always
// answers with a plain-text body.
func ErrorMiddleware(logger internal.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 || c.Writer.Written() {
			return
		}
		err := c.Errors.Last().Err
		status, msg := response.Status(err)
		if status >= http.StatusInternalServerError {
			logger.Errorf("[request_id=%s] %s %s: %v", c.GetString("request_id"), c.Request.Method, c.Request.URL.Path, err)
		}
		c.String(status, msg)
	}
}

// RecoveryHandler turns a panic into a 500 through ErrorMiddleware.
func RecoveryHandler(logger internal.Logger) gin.RecoveryFunc {
	return func(c *gin.Context, recovered any) {
		logger.Errorf("[request_id=%s] panic: %v", c.GetString("request_id"), recovered)
		_ = c.Error(internal.NewAppError(http.StatusInternalServerError, ""))
		c.Abort()
	}
}

// NotFound serves regular files from publicDir for unmatched GET and HEAD
// requests and reports "not found" for everything else.
func NotFound(publicDir string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if publicDir != "" && (c.Request.Method == http.MethodGet || c.Request.Method == http.MethodHead) {
			name := path.Clean("/" + c.Request.URL.Path)
			if name != "/" && !strings.Contains(name, "\x00") {
				full := filepath.Join(publicDir, filepath.FromSlash(name))
				if info, err := os.Stat(full); err == nil && info.Mode().IsRegular() {
					c.File(full)
					return
				}
			}
		}
		_ = c.Error(internal.ErrRouteNotFound)
		c.Abort()
	}
}
