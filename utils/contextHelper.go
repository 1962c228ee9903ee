package utils

import (
	"context"

	"github.com/akshayWork-19/RightTutor-Backend/appctx"
)

var (
	ContextKeyToken         = appctx.ContextKeyToken
	ContextKeyAdminId       = appctx.ContextKeyAdminId
	ContextKeyAdminEmail    = appctx.ContextKeyAdminEmail
	ContextKeyRole          = appctx.ContextKeyRole
	ContextKeyCorrelationId = appctx.ContextKeyCorrelationId
)

func GetTokenFromContext(ctx context.Context) (string, bool) {
	return appctx.GetString(ctx, ContextKeyToken)
}

func GetAdminIdFromContext(ctx context.Context) (string, bool) {
	return appctx.GetString(ctx, ContextKeyAdminId)
}

func GetAdminEmailFromContext(ctx context.Context) (string, bool) {
	return appctx.GetString(ctx, ContextKeyAdminEmail)
}

func GetRoleFromContext(ctx context.Context) (string, bool) {
	return appctx.GetString(ctx, ContextKeyRole)
}

func GetCorrelationIdFromContext(ctx context.Context) (string, bool) {
	return appctx.GetString(ctx, ContextKeyCorrelationId)
}

func SetTokenInContext(ctx context.Context, token string) context.Context {
	return appctx.Set(ctx, ContextKeyToken, token)
}

func SetAdminIdInContext(ctx context.Context, adminId string) context.Context {
	return appctx.Set(ctx, ContextKeyAdminId, adminId)
}

func SetAdminEmailInContext(ctx context.Context, email string) context.Context {
	return appctx.Set(ctx, ContextKeyAdminEmail, email)
}

func SetRoleInContext(ctx context.Context, role string) context.Context {
	return appctx.Set(ctx, ContextKeyRole, role)
}

func SetCorrelationIdInContext(ctx context.Context, correlationId string) context.Context {
	return appctx.Set(ctx, ContextKeyCorrelationId, correlationId)
}
