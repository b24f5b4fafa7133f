package services

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/dropDatabas3/wellbook/internal/security/password"
	"github.com/dropDatabas3/wellbook/internal/store/core"
)

// fakeRepo implementa core.Repository en memoria para los tests de este
// paquete. Replica los defaults y la semántica de conflicto del store real
// (pg): UUIDs, status por defecto, UNIQUE de email/slot/review.
type fakeRepo struct {
	mu sync.Mutex

	users         map[string]*core.User
	refresh       map[string]*core.RefreshToken // por hash
	businesses    map[string]*core.Business
	providers     map[string]*core.Provider
	services      map[string]*core.Service
	addons        map[string]*core.Addon
	bookings      map[string]*core.Booking
	reviews       map[string]*core.Review
	documents     map[string]*core.Document
	conversations map[string]*core.Conversation
	messages      map[string][]core.Message // por conversación

	// storedProc simula la presencia de las funciones SQL de agregación.
	// En false los summaries devuelven core.ErrNoStoredProc.
	storedProc bool
}

var _ core.Repository = (*fakeRepo)(nil)

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		users:         map[string]*core.User{},
		refresh:       map[string]*core.RefreshToken{},
		businesses:    map[string]*core.Business{},
		providers:     map[string]*core.Provider{},
		services:      map[string]*core.Service{},
		addons:        map[string]*core.Addon{},
		bookings:      map[string]*core.Booking{},
		reviews:       map[string]*core.Review{},
		documents:     map[string]*core.Document{},
		conversations: map[string]*core.Conversation{},
		messages:      map[string][]core.Message{},
		storedProc:    true,
	}
}

func (f *fakeRepo) Ping(ctx context.Context) error { return nil }
func (f *fakeRepo) Close()                         {}

// ------- Users / auth -------

func (f *fakeRepo) CreateUser(ctx context.Context, u *core.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, ex := range f.users {
		if ex.Email == u.Email {
			return core.ErrConflict
		}
	}
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	if u.Status == "" {
		u.Status = "active"
	}
	u.CreatedAt = time.Now().UTC()
	f.users[u.ID] = u
	return nil
}

func (f *fakeRepo) GetUserByEmail(ctx context.Context, email string) (*core.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, core.ErrNotFound
}

func (f *fakeRepo) GetUserByID(ctx context.Context, id string) (*core.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.users[id]
	if !ok {
		return nil, core.ErrNotFound
	}
	cp := *u
	return &cp, nil
}

func (f *fakeRepo) CheckPassword(hash *string, pwd string) bool {
	return hash != nil && password.Verify(pwd, *hash)
}

func (f *fakeRepo) CreateRefreshToken(ctx context.Context, userID, tokenHash string, expiresAt time.Time, rotatedFrom *string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	rt := &core.RefreshToken{
		ID:          uuid.NewString(),
		UserID:      userID,
		TokenHash:   tokenHash,
		IssuedAt:    time.Now().UTC(),
		ExpiresAt:   expiresAt,
		RotatedFrom: rotatedFrom,
	}
	f.refresh[tokenHash] = rt
	return rt.ID, nil
}

func (f *fakeRepo) GetRefreshTokenByHash(ctx context.Context, tokenHash string) (*core.RefreshToken, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	rt, ok := f.refresh[tokenHash]
	if !ok {
		return nil, core.ErrNotFound
	}
	cp := *rt
	return &cp, nil
}

func (f *fakeRepo) RevokeRefreshToken(ctx context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, rt := range f.refresh {
		if rt.ID == id {
			now := time.Now().UTC()
			rt.RevokedAt = &now
			return nil
		}
	}
	return core.ErrNotFound
}

// ------- Business -------

func (f *fakeRepo) CreateBusiness(ctx context.Context, b *core.Business) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, ex := range f.businesses {
		if ex.Slug == b.Slug {
			return core.ErrConflict
		}
	}
	if b.ID == "" {
		b.ID = uuid.NewString()
	}
	if b.Status == "" {
		b.Status = "pending"
	}
	if b.OnboardingPhase == 0 {
		b.OnboardingPhase = 1
	}
	b.CreatedAt = time.Now().UTC()
	f.businesses[b.ID] = b
	return nil
}

func (f *fakeRepo) GetBusinessByID(ctx context.Context, id string) (*core.Business, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	b, ok := f.businesses[id]
	if !ok {
		return nil, core.ErrNotFound
	}
	cp := *b
	return &cp, nil
}

func (f *fakeRepo) GetBusinessBySlug(ctx context.Context, slug string) (*core.Business, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, b := range f.businesses {
		if b.Slug == slug {
			cp := *b
			return &cp, nil
		}
	}
	return nil, core.ErrNotFound
}

func (f *fakeRepo) UpdateBusiness(ctx context.Context, b *core.Business) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.businesses[b.ID]; !ok {
		return core.ErrNotFound
	}
	cp := *b
	f.businesses[b.ID] = &cp
	return nil
}

func (f *fakeRepo) SetBusinessStatus(ctx context.Context, id, status string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	b, ok := f.businesses[id]
	if !ok {
		return core.ErrNotFound
	}
	b.Status = status
	return nil
}

func (f *fakeRepo) SetOnboardingPhase(ctx context.Context, id string, phase int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	b, ok := f.businesses[id]
	if !ok {
		return core.ErrNotFound
	}
	b.OnboardingPhase = phase
	return nil
}

func (f *fakeRepo) SetPaymentAccount(ctx context.Context, id, accountID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	b, ok := f.businesses[id]
	if !ok {
		return core.ErrNotFound
	}
	b.PaymentAccountID = &accountID
	return nil
}

func (f *fakeRepo) SetBankAccountRef(ctx context.Context, id, maskedRef string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	b, ok := f.businesses[id]
	if !ok {
		return core.ErrNotFound
	}
	b.BankAccountRef = &maskedRef
	return nil
}

func (f *fakeRepo) ListBusinesses(ctx context.Context, status string, limit, offset int) ([]core.Business, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []core.Business
	for _, b := range f.businesses {
		if status != "" && b.Status != status {
			continue
		}
		out = append(out, *b)
	}
	return out, nil
}

func (f *fakeRepo) PlatformStats(ctx context.Context) (*core.PlatformStats, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	st := &core.PlatformStats{
		Businesses: len(f.businesses),
		Providers:  len(f.providers),
		Bookings:   len(f.bookings),
		Reviews:    len(f.reviews),
	}
	for _, b := range f.businesses {
		if b.Status == "active" {
			st.ActiveBusinesses++
		}
	}
	return st, nil
}

// ------- Providers -------

func (f *fakeRepo) CreateProvider(ctx context.Context, p *core.Provider) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, ex := range f.providers {
		if ex.BusinessID == p.BusinessID && ex.Email == p.Email {
			return core.ErrConflict
		}
	}
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	if p.Status == "" {
		p.Status = "invited"
	}
	p.CreatedAt = time.Now().UTC()
	f.providers[p.ID] = p
	return nil
}

func (f *fakeRepo) GetProviderByID(ctx context.Context, id string) (*core.Provider, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	p, ok := f.providers[id]
	if !ok {
		return nil, core.ErrNotFound
	}
	cp := *p
	return &cp, nil
}

func (f *fakeRepo) GetProviderByUserID(ctx context.Context, userID string) (*core.Provider, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, p := range f.providers {
		if p.UserID != nil && *p.UserID == userID {
			cp := *p
			return &cp, nil
		}
	}
	return nil, core.ErrNotFound
}

func (f *fakeRepo) GetProviderByEmail(ctx context.Context, businessID, email string) (*core.Provider, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, p := range f.providers {
		if p.BusinessID == businessID && p.Email == email {
			cp := *p
			return &cp, nil
		}
	}
	return nil, core.ErrNotFound
}

func (f *fakeRepo) ListProviders(ctx context.Context, businessID string) ([]core.Provider, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []core.Provider
	for _, p := range f.providers {
		if p.BusinessID == businessID {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (f *fakeRepo) UpdateProvider(ctx context.Context, p *core.Provider) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.providers[p.ID]; !ok {
		return core.ErrNotFound
	}
	cp := *p
	f.providers[p.ID] = &cp
	return nil
}

func (f *fakeRepo) CountActiveOwners(ctx context.Context, businessID string) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, p := range f.providers {
		if p.BusinessID == businessID && p.Role == "owner" && p.Status == "active" {
			n++
		}
	}
	return n, nil
}

// ------- Services -------

func (f *fakeRepo) CreateService(ctx context.Context, s *core.Service) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if s.ID == "" {
		s.ID = uuid.NewString()
	}
	s.CreatedAt = time.Now().UTC()
	f.services[s.ID] = s
	return nil
}

func (f *fakeRepo) GetServiceByID(ctx context.Context, id string) (*core.Service, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	s, ok := f.services[id]
	if !ok {
		return nil, core.ErrNotFound
	}
	cp := *s
	return &cp, nil
}

func (f *fakeRepo) ListServices(ctx context.Context, businessID string, fl core.ServiceFilter) ([]core.Service, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []core.Service
	for _, s := range f.services {
		if s.BusinessID != businessID {
			continue
		}
		if fl.Active != nil && s.Active != *fl.Active {
			continue
		}
		if fl.Category != "" && s.Category != fl.Category {
			continue
		}
		out = append(out, *s)
	}
	return out, nil
}

func (f *fakeRepo) UpdateService(ctx context.Context, s *core.Service) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.services[s.ID]; !ok {
		return core.ErrNotFound
	}
	cp := *s
	f.services[s.ID] = &cp
	return nil
}

func (f *fakeRepo) DeleteService(ctx context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	s, ok := f.services[id]
	if !ok {
		return core.ErrNotFound
	}
	s.Active = false
	return nil
}

func (f *fakeRepo) ServiceCatalogSummary(ctx context.Context, businessID string) (*core.CatalogSummary, error) {
	if !f.storedProc {
		return nil, core.ErrNoStoredProc
	}
	counts, _ := f.ServiceBookingCounts(ctx, businessID)
	items, _ := f.ListServices(ctx, businessID, core.ServiceFilter{})
	out := &core.CatalogSummary{Total: len(items)}
	for _, it := range items {
		if it.Active {
			out.Active++
		}
		out.Items = append(out.Items, core.CatalogItemStats{
			ID: it.ID, Name: it.Name, PriceCents: it.PriceCents,
			Active: it.Active, BookingCount: counts[it.ID],
		})
	}
	return out, nil
}

func (f *fakeRepo) ServiceBookingCounts(ctx context.Context, businessID string) (map[string]int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := map[string]int{}
	for _, b := range f.bookings {
		if b.BusinessID == businessID {
			out[b.ServiceID]++
		}
	}
	return out, nil
}

// ------- Addons -------

func (f *fakeRepo) CreateAddon(ctx context.Context, a *core.Addon) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	a.CreatedAt = time.Now().UTC()
	f.addons[a.ID] = a
	return nil
}

func (f *fakeRepo) GetAddonByID(ctx context.Context, id string) (*core.Addon, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	a, ok := f.addons[id]
	if !ok {
		return nil, core.ErrNotFound
	}
	cp := *a
	return &cp, nil
}

func (f *fakeRepo) ListAddons(ctx context.Context, businessID string, serviceID *string) ([]core.Addon, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []core.Addon
	for _, a := range f.addons {
		if a.BusinessID != businessID {
			continue
		}
		if serviceID != nil && (a.ServiceID == nil || *a.ServiceID != *serviceID) {
			continue
		}
		out = append(out, *a)
	}
	return out, nil
}

func (f *fakeRepo) UpdateAddon(ctx context.Context, a *core.Addon) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.addons[a.ID]; !ok {
		return core.ErrNotFound
	}
	cp := *a
	f.addons[a.ID] = &cp
	return nil
}

func (f *fakeRepo) DeleteAddon(ctx context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	a, ok := f.addons[id]
	if !ok {
		return core.ErrNotFound
	}
	a.Active = false
	return nil
}

func (f *fakeRepo) AddonCatalogSummary(ctx context.Context, businessID string) (*core.CatalogSummary, error) {
	if !f.storedProc {
		return nil, core.ErrNoStoredProc
	}
	counts, _ := f.AddonBookingCounts(ctx, businessID)
	items, _ := f.ListAddons(ctx, businessID, nil)
	out := &core.CatalogSummary{Total: len(items)}
	for _, it := range items {
		if it.Active {
			out.Active++
		}
		out.Items = append(out.Items, core.CatalogItemStats{
			ID: it.ID, Name: it.Name, PriceCents: it.PriceCents,
			Active: it.Active, BookingCount: counts[it.ID],
		})
	}
	return out, nil
}

func (f *fakeRepo) AddonBookingCounts(ctx context.Context, businessID string) (map[string]int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := map[string]int{}
	for _, b := range f.bookings {
		if b.BusinessID != businessID {
			continue
		}
		for _, id := range b.AddonIDs {
			out[id]++
		}
	}
	return out, nil
}

// ------- Bookings -------

func (f *fakeRepo) CreateBooking(ctx context.Context, b *core.Booking) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	// índice único parcial: provider + starts_at con booking vivo
	if b.ProviderID != nil {
		for _, ex := range f.bookings {
			if ex.ProviderID != nil && *ex.ProviderID == *b.ProviderID &&
				ex.StartsAt.Equal(b.StartsAt) &&
				ex.Status != "cancelled" && ex.Status != "no_show" {
				return core.ErrConflict
			}
		}
	}
	if b.ID == "" {
		b.ID = uuid.NewString()
	}
	if b.Status == "" {
		b.Status = "pending"
	}
	if b.PaymentStatus == "" {
		b.PaymentStatus = "unpaid"
	}
	if b.Currency == "" {
		b.Currency = "usd"
	}
	b.CreatedAt = time.Now().UTC()
	f.bookings[b.ID] = b
	return nil
}

func (f *fakeRepo) GetBookingByID(ctx context.Context, id string) (*core.Booking, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	b, ok := f.bookings[id]
	if !ok {
		return nil, core.ErrNotFound
	}
	cp := *b
	return &cp, nil
}

func (f *fakeRepo) ListBookings(ctx context.Context, businessID string, fl core.BookingFilter) ([]core.Booking, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []core.Booking
	for _, b := range f.bookings {
		if b.BusinessID != businessID {
			continue
		}
		if fl.Status != "" && b.Status != fl.Status {
			continue
		}
		if fl.ProviderID != "" && (b.ProviderID == nil || *b.ProviderID != fl.ProviderID) {
			continue
		}
		if fl.From != nil && b.StartsAt.Before(*fl.From) {
			continue
		}
		if fl.To != nil && !b.StartsAt.Before(*fl.To) {
			continue
		}
		out = append(out, *b)
	}
	return out, nil
}

func (f *fakeRepo) UpdateBookingStatus(ctx context.Context, id, status string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	b, ok := f.bookings[id]
	if !ok {
		return core.ErrNotFound
	}
	b.Status = status
	return nil
}

func (f *fakeRepo) UpdateBookingPayment(ctx context.Context, id, paymentStatus string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	b, ok := f.bookings[id]
	if !ok {
		return core.ErrNotFound
	}
	b.PaymentStatus = paymentStatus
	return nil
}

func (f *fakeRepo) SetBookingCheckoutSession(ctx context.Context, id, sessionID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	b, ok := f.bookings[id]
	if !ok {
		return core.ErrNotFound
	}
	b.CheckoutSessionID = &sessionID
	return nil
}

// ------- Reviews -------

func (f *fakeRepo) CreateReview(ctx context.Context, r *core.Review) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, ex := range f.reviews {
		if ex.BookingID == r.BookingID {
			return core.ErrConflict
		}
	}
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	r.CreatedAt = time.Now().UTC()
	f.reviews[r.ID] = r
	return nil
}

func (f *fakeRepo) GetReviewByID(ctx context.Context, id string) (*core.Review, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	r, ok := f.reviews[id]
	if !ok {
		return nil, core.ErrNotFound
	}
	cp := *r
	return &cp, nil
}

func (f *fakeRepo) GetReviewByBookingID(ctx context.Context, bookingID string) (*core.Review, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, r := range f.reviews {
		if r.BookingID == bookingID {
			cp := *r
			return &cp, nil
		}
	}
	return nil, core.ErrNotFound
}

func (f *fakeRepo) ListReviews(ctx context.Context, businessID string, fl core.ReviewFilter) ([]core.Review, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []core.Review
	for _, r := range f.reviews {
		if r.BusinessID != businessID {
			continue
		}
		if fl.MinRating > 0 && r.Rating < fl.MinRating {
			continue
		}
		out = append(out, *r)
	}
	return out, nil
}

func (f *fakeRepo) ReviewStats(ctx context.Context, businessID string) (*core.ReviewStats, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	st := &core.ReviewStats{}
	sum := 0
	for _, r := range f.reviews {
		if r.BusinessID == businessID {
			st.Count++
			sum += r.Rating
		}
	}
	if st.Count > 0 {
		st.Average = float64(sum) / float64(st.Count)
	}
	return st, nil
}

func (f *fakeRepo) ReplyReview(ctx context.Context, id, reply string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	r, ok := f.reviews[id]
	if !ok {
		return core.ErrNotFound
	}
	now := time.Now().UTC()
	r.Reply = &reply
	r.RepliedAt = &now
	return nil
}

// ------- Documents -------

func (f *fakeRepo) CreateDocument(ctx context.Context, d *core.Document) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if d.ID == "" {
		d.ID = uuid.NewString()
	}
	if d.Status == "" {
		d.Status = "pending"
	}
	d.CreatedAt = time.Now().UTC()
	f.documents[d.ID] = d
	return nil
}

func (f *fakeRepo) GetDocumentByID(ctx context.Context, id string) (*core.Document, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	d, ok := f.documents[id]
	if !ok {
		return nil, core.ErrNotFound
	}
	cp := *d
	return &cp, nil
}

func (f *fakeRepo) ListDocuments(ctx context.Context, businessID, status string) ([]core.Document, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []core.Document
	for _, d := range f.documents {
		if d.BusinessID != businessID {
			continue
		}
		if status != "" && d.Status != status {
			continue
		}
		out = append(out, *d)
	}
	return out, nil
}

func (f *fakeRepo) ListDocumentsByStatus(ctx context.Context, status string, limit, offset int) ([]core.Document, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []core.Document
	for _, d := range f.documents {
		if d.Status == status {
			out = append(out, *d)
		}
	}
	return out, nil
}

func (f *fakeRepo) SetDocumentStatus(ctx context.Context, id, status string, note *string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	d, ok := f.documents[id]
	if !ok {
		return core.ErrNotFound
	}
	now := time.Now().UTC()
	d.Status = status
	d.ReviewNote = note
	d.ReviewedAt = &now
	return nil
}

// ------- Conversations -------

func (f *fakeRepo) CreateConversation(ctx context.Context, c *core.Conversation) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	c.CreatedAt = now
	c.LastMessageAt = now
	f.conversations[c.ID] = c
	return nil
}

func (f *fakeRepo) GetConversationByID(ctx context.Context, id string) (*core.Conversation, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	c, ok := f.conversations[id]
	if !ok {
		return nil, core.ErrNotFound
	}
	cp := *c
	return &cp, nil
}

func (f *fakeRepo) ListConversations(ctx context.Context, businessID string) ([]core.Conversation, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []core.Conversation
	for _, c := range f.conversations {
		if c.BusinessID == businessID {
			out = append(out, *c)
		}
	}
	return out, nil
}

func (f *fakeRepo) ConversationOverview(ctx context.Context, businessID string) ([]core.ConversationOverview, error) {
	if !f.storedProc {
		return nil, core.ErrNoStoredProc
	}
	convs, _ := f.ListConversations(ctx, businessID)
	var out []core.ConversationOverview
	for _, c := range convs {
		row := core.ConversationOverview{Conversation: c}
		f.mu.Lock()
		for _, m := range f.messages[c.ID] {
			if row.LastMessage == "" || m.CreatedAt.After(c.LastMessageAt) {
				row.LastMessage = m.Body
				row.LastSender = m.Sender
			}
			if m.Sender == "customer" && !m.Read {
				row.UnreadCount++
			}
		}
		f.mu.Unlock()
		out = append(out, row)
	}
	return out, nil
}

func (f *fakeRepo) ListMessagesByBusiness(ctx context.Context, businessID string) ([]core.Message, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []core.Message
	for convID, msgs := range f.messages {
		c, ok := f.conversations[convID]
		if !ok || c.BusinessID != businessID {
			continue
		}
		out = append(out, msgs...)
	}
	return out, nil
}

func (f *fakeRepo) ListMessages(ctx context.Context, conversationID string) ([]core.Message, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]core.Message(nil), f.messages[conversationID]...), nil
}

func (f *fakeRepo) CreateMessage(ctx context.Context, m *core.Message) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if m.ID == "" {
		m.ID = uuid.NewString()
	}
	m.CreatedAt = time.Now().UTC()
	f.messages[m.ConversationID] = append(f.messages[m.ConversationID], *m)
	if c, ok := f.conversations[m.ConversationID]; ok {
		c.LastMessageAt = m.CreatedAt
	}
	return nil
}

func (f *fakeRepo) MarkConversationRead(ctx context.Context, conversationID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	msgs := f.messages[conversationID]
	for i := range msgs {
		if msgs[i].Sender == "customer" {
			msgs[i].Read = true
		}
	}
	return nil
}
