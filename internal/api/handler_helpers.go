package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yourname/exercisetracker/internal"
)

// HandleError hands err to ErrorMiddleware, which writes the response.
func HandleError(c *gin.Context, logger internal.Logger, err error, msg string) {
	requestID := c.GetString("request_id")
	logger.Errorf("[request_id=%s] %s: %v", requestID, msg, err)
	_ = c.Error(err)
	c.Abort()
}

func HandleSuccess(c *gin.Context, logger internal.Logger, data interface{}) {
	requestID := c.GetString("request_id")
	logger.Infof("[request_id=%s] Success", requestID)
	c.JSON(http.StatusOK, data)
}
