package user

import "stockverse/internal/iam/domain/model"

type User = model.User
type UserRole = model.UserRole
