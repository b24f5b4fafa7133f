package services

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/dropDatabas3/wellbook/internal/http/dto"
	jwtx "github.com/dropDatabas3/wellbook/internal/jwt"
	"github.com/dropDatabas3/wellbook/internal/payments"
	"github.com/dropDatabas3/wellbook/internal/store/core"
)

func seedUserClaims(t *testing.T, repo *fakeRepo, mail string) *jwtx.Claims {
	t.Helper()
	hash := "x"
	u := &core.User{Email: mail, Name: "Flor", PasswordHash: &hash}
	require.NoError(t, repo.CreateUser(context.Background(), u))
	return &jwtx.Claims{UserID: u.ID, Email: u.Email}
}

func TestPhase1(t *testing.T) {
	repo := newFakeRepo()
	claims := seedUserClaims(t, repo, "flor@demo.local")
	os := NewOnboardingService(OnboardingDeps{Repo: repo})
	ctx := context.Background()

	biz, err := os.Phase1(ctx, claims, dto.OnboardingPhase1Request{
		Name: "Demo Spa", Slug: "Demo-Spa", Category: "spa", City: "CABA",
	})
	require.NoError(t, err)
	require.Equal(t, "demo-spa", biz.Slug)
	require.Equal(t, 1, biz.OnboardingPhase)
	require.Equal(t, "pending", biz.Status)

	// el creador queda como owner activo
	p, err := repo.GetProviderByUserID(ctx, claims.UserID)
	require.NoError(t, err)
	require.Equal(t, "owner", p.Role)
	require.Equal(t, "active", p.Status)

	// un usuario arma un solo business
	_, err = os.Phase1(ctx, claims, dto.OnboardingPhase1Request{Name: "Otro", Slug: "otro"})
	require.ErrorIs(t, err, ErrAlreadyOnboarded)
}

func TestPhase1_SlugRules(t *testing.T) {
	cases := []struct {
		slug string
		want error
	}{
		{"", ErrMissingFields},
		{"-lead", ErrInvalidSlug},
		{"trail-", ErrInvalidSlug},
		{"con espacios", ErrInvalidSlug},
		{"tildeñes", ErrInvalidSlug},
		{"a", nil}, // un solo caracter alfanumérico es válido
		{"demo-spa-2", nil},
	}
	ctx := context.Background()
	for _, tc := range cases {
		repo := newFakeRepo()
		claims := seedUserClaims(t, repo, "flor@demo.local")
		os := NewOnboardingService(OnboardingDeps{Repo: repo})
		_, err := os.Phase1(ctx, claims, dto.OnboardingPhase1Request{Name: "X", Slug: tc.slug})
		if tc.want == nil {
			require.NoError(t, err, "slug %q", tc.slug)
		} else {
			require.ErrorIs(t, err, tc.want, "slug %q", tc.slug)
		}
	}
}

func TestPhase1_SlugTaken(t *testing.T) {
	repo := newFakeRepo()
	os := NewOnboardingService(OnboardingDeps{Repo: repo})
	ctx := context.Background()

	a := seedUserClaims(t, repo, "flor@demo.local")
	_, err := os.Phase1(ctx, a, dto.OnboardingPhase1Request{Name: "A", Slug: "demo-spa"})
	require.NoError(t, err)

	hash := "x"
	u2 := &core.User{Email: "otra@demo.local", Name: "Otra", PasswordHash: &hash}
	require.NoError(t, repo.CreateUser(ctx, u2))
	_, err = os.Phase1(ctx, &jwtx.Claims{UserID: u2.ID, Email: u2.Email},
		dto.OnboardingPhase1Request{Name: "B", Slug: "demo-spa"})
	require.ErrorIs(t, err, ErrSlugTaken)
}

func TestOnboardingStatus(t *testing.T) {
	repo := newFakeRepo()
	claims := seedUserClaims(t, repo, "flor@demo.local")
	os := NewOnboardingService(OnboardingDeps{Repo: repo})
	ctx := context.Background()

	st, err := os.Status(ctx, claims)
	require.NoError(t, err)
	require.Equal(t, 0, st.Phase)
	require.Equal(t, "phase1", st.NextStep)

	biz, err := os.Phase1(ctx, claims, dto.OnboardingPhase1Request{Name: "Demo Spa", Slug: "demo-spa"})
	require.NoError(t, err)

	st, err = os.Status(ctx, claims)
	require.NoError(t, err)
	require.Equal(t, biz.ID, st.BusinessID)
	require.Equal(t, 1, st.Phase)
	require.Equal(t, "phase2", st.NextStep)
	require.False(t, st.Complete)

	require.NoError(t, repo.SetOnboardingPhase(ctx, biz.ID, 2))
	st, err = os.Status(ctx, claims)
	require.NoError(t, err)
	require.True(t, st.Complete)
	require.Empty(t, st.NextStep)
}

func TestPhase2(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/v1/accounts", r.URL.Path)
		json.NewEncoder(w).Encode(map[string]string{"id": "acct_1", "status": "pending"})
	}))
	defer srv.Close()

	repo := newFakeRepo()
	claims := seedUserClaims(t, repo, "flor@demo.local")
	os := NewOnboardingService(OnboardingDeps{
		Repo:     repo,
		Payments: payments.NewClient(srv.URL, "sk_test"),
	})
	ctx := context.Background()

	biz, err := os.Phase1(ctx, claims, dto.OnboardingPhase1Request{Name: "Demo Spa", Slug: "demo-spa"})
	require.NoError(t, err)

	biz, err = os.Phase2(ctx, biz, dto.OnboardingPhase2Request{
		Description: "Spa urbano", Address: "Av. Siempreviva 742",
	})
	require.NoError(t, err)
	require.Equal(t, 2, biz.OnboardingPhase)
	require.NotNil(t, biz.PaymentAccountID)
	require.Equal(t, "acct_1", *biz.PaymentAccountID)

	// repetir la fase es conflicto
	_, err = os.Phase2(ctx, biz, dto.OnboardingPhase2Request{})
	require.ErrorIs(t, err, ErrAlreadyOnboarded)
}

func TestPhase2_UpstreamFailureDoesNotAdvance(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusBadGateway)
	}))
	defer srv.Close()

	repo := newFakeRepo()
	claims := seedUserClaims(t, repo, "flor@demo.local")
	os := NewOnboardingService(OnboardingDeps{
		Repo:     repo,
		Payments: payments.NewClient(srv.URL, "sk_test"),
	})
	ctx := context.Background()

	biz, err := os.Phase1(ctx, claims, dto.OnboardingPhase1Request{Name: "Demo Spa", Slug: "demo-spa"})
	require.NoError(t, err)

	_, err = os.Phase2(ctx, biz, dto.OnboardingPhase2Request{})
	require.ErrorIs(t, err, ErrUpstream)

	got, err := repo.GetBusinessByID(ctx, biz.ID)
	require.NoError(t, err)
	require.Equal(t, 1, got.OnboardingPhase)
}

func TestResolveActiveAndPublicView(t *testing.T) {
	repo := newFakeRepo()
	biz := seedBusiness(t, repo) // active
	pendiente := &core.Business{Name: "Nuevo", Slug: "nuevo", Status: "pending"}
	require.NoError(t, repo.CreateBusiness(context.Background(), pendiente))

	bs := NewBusinessService(BusinessDeps{Repo: repo})
	ctx := context.Background()

	got, err := bs.ResolveActive(ctx, "Demo-Spa")
	require.NoError(t, err)
	require.Equal(t, biz.ID, got.ID)

	_, err = bs.ResolveActive(ctx, "nuevo")
	require.ErrorIs(t, err, core.ErrNotFound)
	_, err = bs.ResolveActive(ctx, "no-existe")
	require.ErrorIs(t, err, core.ErrNotFound)

	pub, err := bs.GetPublic(ctx, "demo-spa")
	require.NoError(t, err)
	require.Equal(t, "Demo Spa", pub.Name)

	_, err = bs.GetPublic(ctx, "nuevo")
	require.ErrorIs(t, err, core.ErrNotFound)
}

func TestAdminAndDocuments(t *testing.T) {
	repo := newFakeRepo()
	biz := seedBusiness(t, repo)
	pendiente := &core.Business{Name: "Nuevo", Slug: "nuevo"}
	require.NoError(t, repo.CreateBusiness(context.Background(), pendiente))

	as := NewAdminService(AdminDeps{Repo: repo})
	ds := NewDocumentService(DocumentDeps{Repo: repo})
	ctx := context.Background()

	// aprobación de un tenant pendiente
	_, err := as.SetStatus(ctx, pendiente.ID, "rechazado")
	require.ErrorIs(t, err, core.ErrInvalid)
	approved, err := as.SetStatus(ctx, pendiente.ID, "active")
	require.NoError(t, err)
	require.Equal(t, "active", approved.Status)

	st, err := as.Stats(ctx)
	require.NoError(t, err)
	require.Equal(t, 2, st.Businesses)
	require.Equal(t, 2, st.ActiveBusinesses)

	// flujo de documentos: alta en pending, revisión única
	doc, err := ds.Create(ctx, biz, dto.CreateDocumentRequest{
		Kind: "insurance", Name: "Póliza 2026", URL: "https://files.test/poliza.pdf",
	})
	require.NoError(t, err)
	require.Equal(t, "pending", doc.Status)

	queue, err := ds.PendingQueue(ctx, 50, 0)
	require.NoError(t, err)
	require.Len(t, queue, 1)

	reviewed, err := ds.Review(ctx, doc.ID, dto.ReviewDocumentRequest{Status: "approved", Note: " ok "})
	require.NoError(t, err)
	require.Equal(t, "approved", reviewed.Status)
	require.NotNil(t, reviewed.ReviewNote)
	require.Equal(t, "ok", *reviewed.ReviewNote)

	_, err = ds.Review(ctx, doc.ID, dto.ReviewDocumentRequest{Status: "rejected"})
	require.ErrorIs(t, err, ErrDocReviewed)

	_, err = ds.Review(ctx, doc.ID, dto.ReviewDocumentRequest{Status: "raro"})
	require.ErrorIs(t, err, core.ErrInvalid)
}
