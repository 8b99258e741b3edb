package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/soaringjerry/Persona/internal/middleware"
	"github.com/soaringjerry/Persona/internal/services"
)

var statusByCode = map[services.ErrorCode]int{
	services.ErrorInvalid:      http.StatusBadRequest,
	services.ErrorNotFound:     http.StatusNotFound,
	services.ErrorUnauthorized: http.StatusUnauthorized,
	services.ErrorUnavailable:  http.StatusServiceUnavailable,
}

// writeError maps service errors to statuses. Anything else is a 500.
func (rt *Router) writeError(c *gin.Context, err error) {
	se, ok := services.AsServiceError(err)
	if !ok {
		switch {
		case errors.Is(err, services.ErrQuestionNotFound), errors.Is(err, services.ErrAnswerNotFound):
			se = &services.ServiceError{Code: services.ErrorInvalid, Message: "score.not_found", Err: err}
		case errors.Is(err, services.ErrReportNotFound):
			se = &services.ServiceError{Code: services.ErrorNotFound, Message: "report.not_found", Err: err}
		default:
			rt.log.Error("unhandled error", zap.Error(err), zap.String("request_id", middleware.RequestID(c)))
			_ = c.Error(err)
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "internal", "message": middleware.T(c, "internal")})
			return
		}
	}
	status, ok := statusByCode[se.Code]
	if !ok {
		status = http.StatusInternalServerError
	}
	if status >= 500 {
		_ = c.Error(err)
	}
	c.AbortWithStatusJSON(status, gin.H{"error": string(se.Code), "message": middleware.T(c, se.Message)})
}

func (rt *Router) badRequest(c *gin.Context, key string) {
	c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": string(services.ErrorInvalid), "message": middleware.T(c, key)})
}
