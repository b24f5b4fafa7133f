package middlewares

import (
	"crypto/subtle"
	"errors"
	"net/http"
	"strings"

	httperrors "github.com/dropDatabas3/wellbook/internal/http/errors"
	jwtx "github.com/dropDatabas3/wellbook/internal/jwt"
	"github.com/dropDatabas3/wellbook/internal/store/core"
)

// =================================================================================
// AUTHENTICATION / AUTHORIZATION
// =================================================================================

// RequireAuth valida Authorization: Bearer <JWT> y guarda las claims en el
// contexto. Si el token es inválido o falta, responde 401.
func RequireAuth(issuer *jwtx.Issuer) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ah := strings.TrimSpace(r.Header.Get("Authorization"))
			if ah == "" || !strings.HasPrefix(strings.ToLower(ah), "bearer ") {
				w.Header().Set("WWW-Authenticate", `Bearer realm="api", error="invalid_token", error_description="missing bearer token"`)
				httperrors.WriteError(w, httperrors.ErrUnauthorized)
				return
			}
			raw := strings.TrimSpace(ah[len("Bearer "):])

			claims, err := issuer.Parse(raw)
			if err != nil {
				w.Header().Set("WWW-Authenticate", `Bearer realm="api", error="invalid_token"`)
				if errors.Is(err, jwtx.ErrTokenExpired) {
					httperrors.WriteError(w, httperrors.ErrTokenExpired)
					return
				}
				httperrors.WriteError(w, httperrors.ErrUnauthorized.WithDetail(err.Error()))
				return
			}

			next.ServeHTTP(w, r.WithContext(WithClaims(r.Context(), claims)))
		})
	}
}

// RequireBusiness resuelve el business del token (claim bid) contra el repo,
// verifica que esté operativo y lo deja en el contexto, junto con el provider
// del usuario. Debe usarse después de RequireAuth.
func RequireBusiness(repo core.Repository) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			claims := GetClaims(r.Context())
			if claims == nil || claims.BusinessID == "" {
				httperrors.WriteError(w, httperrors.ErrForbidden.WithDetail("no business in session"))
				return
			}

			biz, err := repo.GetBusinessByID(r.Context(), claims.BusinessID)
			if err != nil {
				if errors.Is(err, core.ErrNotFound) {
					httperrors.WriteError(w, httperrors.ErrForbidden.WithDetail("business not found"))
					return
				}
				httperrors.WriteError(w, httperrors.ErrInternalServerError)
				return
			}
			if biz.Status == "suspended" {
				httperrors.WriteError(w, httperrors.ErrForbidden.WithDetail("business suspended"))
				return
			}

			ctx := WithBusiness(r.Context(), biz)

			// Provider del usuario: la fila manda sobre el claim (el rol puede
			// haber cambiado después de emitido el token).
			if p, err := repo.GetProviderByUserID(r.Context(), claims.UserID); err == nil && p.BusinessID == biz.ID {
				if p.Status == "disabled" {
					httperrors.WriteError(w, httperrors.ErrUserDisabled)
					return
				}
				ctx = WithProvider(ctx, p)
			}

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireRole permite el request sólo si el provider del contexto tiene
// alguno de los roles dados. Debe usarse después de RequireBusiness.
func RequireRole(roles ...string) Middleware {
	allowed := make(map[string]struct{}, len(roles))
	for _, role := range roles {
		allowed[role] = struct{}{}
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			p := GetProvider(r.Context())
			if p == nil {
				httperrors.WriteError(w, httperrors.ErrForbidden.WithDetail("no staff membership"))
				return
			}
			if _, ok := allowed[p.Role]; !ok {
				httperrors.WriteError(w, httperrors.ErrForbidden)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// RequireAdminKey valida el header X-Admin-API-Key en tiempo constante.
// Protege la consola de admin; si no hay key configurada, todo se rechaza.
func RequireAdminKey(apiKey string) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			got := strings.TrimSpace(r.Header.Get("X-Admin-API-Key"))
			if apiKey == "" || got == "" ||
				subtle.ConstantTimeCompare([]byte(got), []byte(apiKey)) != 1 {
				httperrors.WriteError(w, httperrors.ErrUnauthorized.WithDetail("invalid admin key"))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
