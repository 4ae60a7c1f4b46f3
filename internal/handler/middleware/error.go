package middleware

import (
	"log/slog"
	"net/http"

	"booking-orchestrator/internal/handler/httperr"
	"booking-orchestrator/internal/pkg/errs"

	"github.com/gin-gonic/gin"
)

const stackLinesLogged = 12

// ErrorHandler renders the envelope for errors a handler attached without writing a body.
// Server-side failures are logged once here with a trimmed stack.
func ErrorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 {
			return
		}
		if !c.Writer.Written() {
			render(c)
		}

		if c.Writer.Status() >= http.StatusInternalServerError {
			last := c.Errors.Last()
			slog.Error("request failed",
				"request_id", GetRequestID(c),
				"route", c.FullPath(),
				"error", last.Err.Error(),
				"stack", errs.ExtractStackLines(last.Err, stackLinesLogged),
			)
		}
	}
}

func render(c *gin.Context) {
	if resp, ok := publicResponse(c.Errors); ok {
		c.JSON(resp.Status, resp)
		return
	}
	if status := c.Writer.Status(); status != http.StatusOK {
		c.Status(status)
		c.Writer.WriteHeaderNow()
		return
	}
	c.JSON(http.StatusInternalServerError, internalError())
}

// newest public error wins
func publicResponse(list []*gin.Error) (httperr.Response, bool) {
	for i := len(list) - 1; i >= 0; i-- {
		if !list[i].IsType(gin.ErrorTypePublic) {
			continue
		}
		if resp, ok := list[i].Meta.(httperr.Response); ok {
			return resp, true
		}
	}
	return httperr.Response{}, false
}

func internalError() httperr.Response {
	return httperr.NewResponse(http.StatusInternalServerError, "Internal server error", nil)
}

func CustomRecovery() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			rec := recover()
			if rec == nil {
				return
			}
			slog.Error("panic in handler",
				"panic", rec,
				"request_id", GetRequestID(c),
				"method", c.Request.Method,
				"route", c.FullPath(),
			)
			c.AbortWithStatusJSON(http.StatusInternalServerError, internalError())
		}()
		c.Next()
	}
}
