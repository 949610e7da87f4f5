package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/xxxsen/common/logutil"
	"go.uber.org/zap"

	"github.com/xxxsen/ragbridge/internal/pkg/errcode"
	appErr "github.com/xxxsen/ragbridge/internal/pkg/errors"
	"github.com/xxxsen/ragbridge/internal/pkg/response"
	"github.com/xxxsen/ragbridge/internal/service"
)

// handleError is the single place service failures turn into response
// envelopes. Workflow failures keep their own code so callers see the
// upstream status; anything unclassified becomes a 500.
func handleError(c *gin.Context, err error) {
	if err == nil {
		return
	}
	requestID, _ := c.Get("request_id")
	logutil.GetLogger(c.Request.Context()).Error("request failed",
		zap.Any("request_id", requestID),
		zap.String("method", c.Request.Method),
		zap.String("path", c.Request.URL.Path),
		zap.Error(err),
	)
	var werr *service.WorkflowError
	switch {
	case errors.As(err, &werr):
		response.Error(c, werr.Code, werr.Message)
	case errors.Is(err, appErr.ErrInvalid):
		response.Error(c, errcode.ErrInvalid, "invalid request")
	case errors.Is(err, appErr.ErrNotFound):
		response.Error(c, errcode.ErrNotFound, "not found")
	default:
		response.Error(c, http.StatusInternalServerError, err.Error())
	}
}
