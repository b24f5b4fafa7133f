package middlewares

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	jwtx "github.com/dropDatabas3/wellbook/internal/jwt"
	"github.com/dropDatabas3/wellbook/internal/rate"
	"github.com/dropDatabas3/wellbook/internal/store/core"
)

func okHandler(hit *bool) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		*hit = true
		w.WriteHeader(http.StatusOK)
	})
}

func TestRequireAuth(t *testing.T) {
	issuer := jwtx.NewIssuer("wellbook-test", "secreto-de-test", time.Minute)
	token, _, err := issuer.IssueAccess(jwtx.Claims{UserID: "u1", Email: "a@b.c"})
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	var hit bool
	h := RequireAuth(issuer)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hit = true
		c := GetClaims(r.Context())
		if c == nil || c.UserID != "u1" {
			t.Errorf("claims no llegaron al contexto: %+v", c)
		}
	}))

	// sin header: 401 con WWW-Authenticate
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest("GET", "/", nil))
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("sin token: status=%d", rec.Code)
	}
	if rec.Header().Get("WWW-Authenticate") == "" {
		t.Fatal("falta WWW-Authenticate")
	}

	// token inválido: 401
	rec = httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/", nil)
	req.Header.Set("Authorization", "Bearer basura")
	h.ServeHTTP(rec, req)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("token inválido: status=%d", rec.Code)
	}

	// token válido: pasa y deja claims
	rec = httptest.NewRecorder()
	req = httptest.NewRequest("GET", "/", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	h.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK || !hit {
		t.Fatalf("token válido: status=%d hit=%v", rec.Code, hit)
	}
}

func TestRequireRole(t *testing.T) {
	var hit bool
	h := RequireRole("owner", "dispatcher")(okHandler(&hit))

	// sin provider en contexto: 403
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest("GET", "/", nil))
	if rec.Code != http.StatusForbidden {
		t.Fatalf("sin provider: status=%d", rec.Code)
	}

	// rol no permitido: 403
	rec = httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/", nil)
	req = req.WithContext(WithProvider(req.Context(), &core.Provider{Role: "provider"}))
	h.ServeHTTP(rec, req)
	if rec.Code != http.StatusForbidden {
		t.Fatalf("rol provider: status=%d", rec.Code)
	}

	// rol permitido: pasa
	rec = httptest.NewRecorder()
	req = httptest.NewRequest("GET", "/", nil)
	req = req.WithContext(WithProvider(req.Context(), &core.Provider{Role: "dispatcher"}))
	h.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK || !hit {
		t.Fatalf("rol dispatcher: status=%d hit=%v", rec.Code, hit)
	}
}

func TestRequireAdminKey(t *testing.T) {
	var hit bool
	h := RequireAdminKey("super-clave")(okHandler(&hit))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest("GET", "/", nil))
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("sin key: status=%d", rec.Code)
	}

	rec = httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/", nil)
	req.Header.Set("X-Admin-API-Key", "otra")
	h.ServeHTTP(rec, req)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("key incorrecta: status=%d", rec.Code)
	}

	rec = httptest.NewRecorder()
	req = httptest.NewRequest("GET", "/", nil)
	req.Header.Set("X-Admin-API-Key", "super-clave")
	h.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK || !hit {
		t.Fatalf("key correcta: status=%d hit=%v", rec.Code, hit)
	}

	// sin key configurada se rechaza todo
	h = RequireAdminKey("")(okHandler(&hit))
	rec = httptest.NewRecorder()
	req = httptest.NewRequest("GET", "/", nil)
	req.Header.Set("X-Admin-API-Key", "")
	h.ServeHTTP(rec, req)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("key vacía: status=%d", rec.Code)
	}
}

func TestWithRateLimit(t *testing.T) {
	limiter := rate.NewMemoryLimiter(2, time.Minute)
	var hit bool
	h := WithRateLimit(RateLimitConfig{
		Limiter:   limiter,
		KeyFunc:   IPOnlyRateKey,
		Whitelist: []string{"/healthz"},
	})(okHandler(&hit))

	for i := 0; i < 2; i++ {
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest("GET", "/login", nil))
		if rec.Code != http.StatusOK {
			t.Fatalf("request %d: status=%d", i+1, rec.Code)
		}
	}

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest("GET", "/login", nil))
	if rec.Code != http.StatusTooManyRequests {
		t.Fatalf("tercer request: status=%d", rec.Code)
	}
	if rec.Header().Get("Retry-After") == "" {
		t.Fatal("falta Retry-After")
	}

	// el path whitelisteado nunca se limita
	for i := 0; i < 5; i++ {
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest("GET", "/healthz", nil))
		if rec.Code != http.StatusOK {
			t.Fatalf("healthz %d: status=%d", i+1, rec.Code)
		}
	}
}

func TestContextHelpers(t *testing.T) {
	ctx := context.Background()
	if GetClaims(ctx) != nil || GetBusiness(ctx) != nil || GetProvider(ctx) != nil {
		t.Fatal("contexto vacío debería devolver nil")
	}
	if GetUserID(ctx) != "" || GetRequestID(ctx) != "" {
		t.Fatal("contexto vacío debería devolver cadenas vacías")
	}

	biz := &core.Business{ID: "b1"}
	ctx = WithBusiness(ctx, biz)
	if MustGetBusiness(ctx).ID != "b1" {
		t.Fatal("business no recuperado")
	}
}
