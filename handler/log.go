package handler

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"llamaid/logging"
)

var log = logging.GetLogger()

func requestLogger(c *gin.Context) *logrus.Entry {
	return log.WithFields(logrus.Fields{
		"request_id": c.GetString(requestIDKey),
		"method":     c.Request.Method,
		"path":       c.Request.URL.Path,
		"client_ip":  c.ClientIP(),
	})
}

// logAndReturnError writes the JSON error envelope and aborts the chain.
// consoleStr is optional and replaces message in the server log.
func logAndReturnError(c *gin.Context, status int, code, message string, consoleStr ...string) {
	entry := requestLogger(c).WithField("code", code)
	logged := message
	if len(consoleStr) > 0 {
		logged = consoleStr[0]
	}
	if status >= http.StatusInternalServerError {
		entry.Errorln(logged)
	} else {
		entry.Warnln(logged)
	}

	msg := strings.TrimSpace(message)
	if msg == "" {
		msg = http.StatusText(status)
	}
	c.AbortWithStatusJSON(status, errorEnvelope{Error: errorBody{Message: msg, Code: code}})
}
