package middleware

import (
	"fmt"
	"io"
	"net/url"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
)

const redacted = "REDACTED"

// credentialParams carry bearer tokens or order tracking credentials.
var credentialParams = []string{"access_token", "credential"}

// AccessLogger is gin's request logger with credential query values masked.
// A nil out writes to gin.DefaultWriter.
func AccessLogger(out io.Writer) gin.HandlerFunc {
	return gin.LoggerWithConfig(gin.LoggerConfig{
		Formatter: accessLogFormatter,
		Output:    out,
	})
}

func accessLogFormatter(param gin.LogFormatterParams) string {
	var statusColor, methodColor, resetColor string
	if param.IsOutputColor() {
		statusColor = param.StatusCodeColor()
		methodColor = param.MethodColor()
		resetColor = param.ResetColor()
	}

	if param.Latency > time.Minute {
		param.Latency = param.Latency.Truncate(time.Second)
	}
	return fmt.Sprintf("[GIN] %v |%s %3d %s| %13v | %15s |%s %-7s %s %#v\n%s",
		param.TimeStamp.Format("2006/01/02 - 15:04:05"),
		statusColor, param.StatusCode, resetColor,
		param.Latency,
		param.ClientIP,
		methodColor, param.Method, resetColor,
		redactPath(param.Path),
		param.ErrorMessage,
	)
}

// redactPath masks credential values in the query part of path. A query that
// does not parse is dropped.
func redactPath(path string) string {
	base, raw, ok := strings.Cut(path, "?")
	if !ok {
		return path
	}
	query, err := url.ParseQuery(raw)
	if err != nil {
		return base
	}

	masked := false
	for _, name := range credentialParams {
		if query.Has(name) {
			query.Set(name, redacted)
			masked = true
		}
	}
	if !masked {
		return path
	}
	return base + "?" + query.Encode()
}
