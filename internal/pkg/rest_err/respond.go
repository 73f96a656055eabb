package rest_err

import (
	"github.com/gin-gonic/gin"

	"stockverse/internal/pkg/logger"
)

// Respond escreve o erro com o request id da requisição.
func Respond(c *gin.Context, e *RestErr) {
	c.JSON(e.Code, e.WithRequestID(logger.RequestID(c)))
}

// Abort escreve o erro e interrompe a cadeia de handlers.
func Abort(c *gin.Context, e *RestErr) {
	c.AbortWithStatusJSON(e.Code, e.WithRequestID(logger.RequestID(c)))
}
