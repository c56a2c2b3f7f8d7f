package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	resp "fitdesk/internal/transport/http/response"
)

// SimpleRecovery turns a panic into the JSON failure body. ginzap's recovery
// sits in front of it for stack traces.
func SimpleRecovery(l *zap.Logger) gin.HandlerFunc {
	if l == nil {
		l = zap.NewNop()
	}
	return func(c *gin.Context) {
		defer func() {
			if rec := recover(); rec != nil {
				l.Error("panic recovered", zap.String("rid", RequestIDFrom(c)), zap.Any("panic", rec))
				resp.Abort(c, http.StatusInternalServerError, "")
			}
		}()
		c.Next()
	}
}
