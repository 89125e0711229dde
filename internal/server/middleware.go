package server

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/hance08/tally/internal/apperr"
	"github.com/hance08/tally/internal/logger"
)

func requestLogger(log logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		entry := log.WithFields(logger.Fields{
			"method":  c.Request.Method,
			"path":    c.FullPath(),
			"status":  c.Writer.Status(),
			"latency": time.Since(start).String(),
			"client":  c.ClientIP(),
		})
		switch {
		case c.Writer.Status() >= 500:
			entry.Errorf("request failed")
		case c.Writer.Status() >= 400:
			entry.Warnf("request rejected")
		default:
			entry.Debugf("request served")
		}
	}
}

// respondError writes {error} for client errors and {error, details} for
// server-side failures.
func (s *Server) respondError(c *gin.Context, err error) {
	e, ok := apperr.As(err)
	if !ok {
		e = apperr.Wrap(err, apperr.KindInternal, "Internal server error")
	}

	status := e.HTTPStatus()
	if status >= 500 {
		s.log.WithError(err).WithField("kind", string(e.Kind)).Errorf("%s", e.Message)
		c.JSON(status, gin.H{"error": e.Message, "details": e.Details()})
		return
	}
	c.JSON(status, gin.H{"error": e.Message})
}
