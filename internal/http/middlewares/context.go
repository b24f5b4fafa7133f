package middlewares

import (
	"context"

	jwtx "github.com/dropDatabas3/wellbook/internal/jwt"
	"github.com/dropDatabas3/wellbook/internal/store/core"
)

// =================================================================================
// CONTEXT KEYS
// =================================================================================

type ctxKey string

const (
	// ctxClaimsKey guarda las claims del access token parseado
	ctxClaimsKey ctxKey = "claims"
	// ctxBusinessKey guarda el business (tenant) resuelto
	ctxBusinessKey ctxKey = "business"
	// ctxProviderKey guarda el provider (staff) del usuario autenticado
	ctxProviderKey ctxKey = "provider"
	// ctxRequestIDKey guarda el request ID
	ctxRequestIDKey ctxKey = "request_id"
)

// =================================================================================
// CONTEXT SETTERS (internos, usados por middlewares)
// =================================================================================

// WithClaims inyecta las claims del token en el contexto
func WithClaims(ctx context.Context, claims *jwtx.Claims) context.Context {
	return context.WithValue(ctx, ctxClaimsKey, claims)
}

// WithBusiness inyecta el business resuelto en el contexto
func WithBusiness(ctx context.Context, b *core.Business) context.Context {
	return context.WithValue(ctx, ctxBusinessKey, b)
}

// WithProvider inyecta el provider del usuario autenticado
func WithProvider(ctx context.Context, p *core.Provider) context.Context {
	return context.WithValue(ctx, ctxProviderKey, p)
}

func setRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, ctxRequestIDKey, requestID)
}

// =================================================================================
// CONTEXT GETTERS (públicos, usados por controllers/services)
// =================================================================================

// GetClaims obtiene las claims del contexto.
// Retorna nil si no hay claims (token no validado o middleware no aplicado).
func GetClaims(ctx context.Context) *jwtx.Claims {
	if v := ctx.Value(ctxClaimsKey); v != nil {
		if c, ok := v.(*jwtx.Claims); ok {
			return c
		}
	}
	return nil
}

// GetUserID obtiene el user ID del contexto. Vacío si no hay sesión.
func GetUserID(ctx context.Context) string {
	if c := GetClaims(ctx); c != nil {
		return c.UserID
	}
	return ""
}

// GetBusiness obtiene el business del contexto.
// Retorna nil si la ruta no pasó por el middleware de scoping.
func GetBusiness(ctx context.Context) *core.Business {
	if v := ctx.Value(ctxBusinessKey); v != nil {
		if b, ok := v.(*core.Business); ok {
			return b
		}
	}
	return nil
}

// MustGetBusiness obtiene el business o hace panic.
// Usar solo en rutas donde RequireBusiness SIEMPRE se aplica.
func MustGetBusiness(ctx context.Context) *core.Business {
	b := GetBusiness(ctx)
	if b == nil {
		panic("middlewares: no business in context")
	}
	return b
}

// GetProvider obtiene el provider del usuario autenticado, o nil.
func GetProvider(ctx context.Context) *core.Provider {
	if v := ctx.Value(ctxProviderKey); v != nil {
		if p, ok := v.(*core.Provider); ok {
			return p
		}
	}
	return nil
}

// GetRequestID obtiene el request ID del contexto. Vacío si no hay.
func GetRequestID(ctx context.Context) string {
	if v := ctx.Value(ctxRequestIDKey); v != nil {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return ""
}
