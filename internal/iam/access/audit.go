package access

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"stockverse/internal/pkg/log/auditoria_log"
	"stockverse/internal/pkg/logger"
)

// AuditEntry monta a linha de auditoria com o chamador da requisição.
func AuditEntry(c *gin.Context, domain, action, function string, success bool, input, output interface{}) auditoria_log.AuditLog {
	entry := auditoria_log.AuditLog{
		RequestID:  logger.RequestID(c),
		Domain:     domain,
		Action:     action,
		Function:   function,
		Success:    success,
		InputData:  auditoria_log.SerializeData(input),
		OutputData: auditoria_log.SerializeData(output),
	}
	if a, ok := Get(c); ok {
		entry.Business = a.Business
		entry.Identifier = a.Email
		if a.UserUUID != uuid.Nil {
			id := a.UserUUID
			entry.UserUUID = &id
		}
	}
	return entry
}

// Identity alimenta o middleware de log de acesso.
func Identity(c *gin.Context) (string, *uuid.UUID, string) {
	a, ok := Get(c)
	if !ok {
		return "", nil, ""
	}
	id := a.UserUUID
	return a.Business, &id, a.Email
}
