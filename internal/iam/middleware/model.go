package middleware

import "stockverse/internal/iam/domain/model"

// Login é o resultado da busca do token: o registro do token e o usuário.
type Login struct {
	User       model.User
	AcessToken model.AcessToken
}
