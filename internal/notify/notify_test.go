package notify

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/dropDatabas3/wellbook/internal/email"
	"github.com/dropDatabas3/wellbook/internal/store/core"
)

type sentMail struct {
	to      string
	subject string
	text    string
}

type fakeSender struct {
	mu   sync.Mutex
	sent []sentMail
}

func (f *fakeSender) Send(to, subject, html, text string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sent = append(f.sent, sentMail{to: to, subject: subject, text: text})
	return nil
}

func (f *fakeSender) wait(t *testing.T, n int) []sentMail {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		f.mu.Lock()
		if len(f.sent) >= n {
			out := append([]sentMail(nil), f.sent...)
			f.mu.Unlock()
			return out
		}
		f.mu.Unlock()
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatalf("timed out waiting for %d mails", n)
	return nil
}

type fakeSMS struct {
	mu   sync.Mutex
	sent []string
}

func (f *fakeSMS) Send(ctx context.Context, phone, body string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sent = append(f.sent, phone+": "+body)
	return nil
}

func (f *fakeSMS) wait(t *testing.T, n int) []string {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		f.mu.Lock()
		if len(f.sent) >= n {
			out := append([]string(nil), f.sent...)
			f.mu.Unlock()
			return out
		}
		f.mu.Unlock()
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatalf("timed out waiting for %d sms", n)
	return nil
}

func testEvent(typ, status string) Event {
	return Event{
		Type:   typ,
		Status: status,
		Booking: &core.Booking{
			ID:            "bk1",
			CustomerName:  "Caro",
			CustomerEmail: "caro@example.com",
			CustomerPhone: "+5491100000000",
			StartsAt:      time.Date(2026, 9, 1, 14, 0, 0, 0, time.UTC),
			TotalCents:    12500,
			Currency:      "usd",
		},
		Business: &core.Business{ID: "b1", Name: "Demo Spa", Slug: "demo-spa"},
		Service:  &core.Service{ID: "s1", Name: "Masaje descontracturante"},
	}
}

func TestDispatcher_BookingCreatedSendsEmailAndSMS(t *testing.T) {
	tpls, err := email.LoadTemplates()
	require.NoError(t, err)

	sender := &fakeSender{}
	sms := &fakeSMS{}
	d := NewDispatcher(Config{QueueSize: 8, Workers: 1, ReviewURL: "https://portal.test"}, sender, tpls, sms)
	d.Start()
	defer d.Stop(time.Second)

	d.Emit(testEvent(EventBookingCreated, ""))

	sent := sender.wait(t, 1)
	require.Equal(t, "caro@example.com", sent[0].to)
	require.Contains(t, sent[0].subject, "Demo Spa")
	require.Contains(t, sent[0].text, "Masaje descontracturante")

	sms.wait(t, 1)
}

func messageEvent(sender, body string) Event {
	return Event{
		Type:     EventMessageCreated,
		Business: &core.Business{ID: "b1", Name: "Demo Spa", Slug: "demo-spa"},
		Conversation: &core.Conversation{
			ID:            "c1",
			BusinessID:    "b1",
			CustomerName:  "Caro",
			CustomerPhone: "+5491100000000",
		},
		Message: &core.Message{ConversationID: "c1", Sender: sender, Body: body},
	}
}

func TestDispatcher_ProviderReplySendsSMS(t *testing.T) {
	tpls, err := email.LoadTemplates()
	require.NoError(t, err)

	sms := &fakeSMS{}
	d := NewDispatcher(Config{Workers: 1}, &fakeSender{}, tpls, sms)
	d.Start()
	defer d.Stop(time.Second)

	// el mensaje del cliente no dispara SMS; la respuesta del negocio sí.
	// Con un solo worker el orden de proceso es el de emisión.
	d.Emit(messageEvent("customer", "¿Tienen turno el martes?"))
	d.Emit(messageEvent("provider", "Sí, a las 14 tenemos lugar."))

	sent := sms.wait(t, 1)
	require.Len(t, sent, 1)
	require.Contains(t, sent[0], "+5491100000000")
	require.Contains(t, sent[0], "Demo Spa")
	require.Contains(t, sent[0], "Sí, a las 14 tenemos lugar.")
}

func TestDispatcher_CompletedSendsReviewRequest(t *testing.T) {
	tpls, err := email.LoadTemplates()
	require.NoError(t, err)

	sender := &fakeSender{}
	d := NewDispatcher(Config{Workers: 1, ReviewURL: "https://portal.test"}, sender, tpls, nil)
	d.Start()
	defer d.Stop(time.Second)

	d.Emit(testEvent(EventBookingStatus, "completed"))

	sent := sender.wait(t, 1)
	require.Contains(t, sent[0].subject, "visita")
	require.Contains(t, sent[0].text, "https://portal.test/demo-spa/review/bk1")
}

func TestDispatcher_QueueFullDropsWithoutBlocking(t *testing.T) {
	tpls, err := email.LoadTemplates()
	require.NoError(t, err)

	// sin Start(): nadie consume, la cola se llena
	d := NewDispatcher(Config{QueueSize: 1, Workers: 1}, &fakeSender{}, tpls, nil)

	done := make(chan struct{})
	go func() {
		for i := 0; i < 10; i++ {
			d.Emit(testEvent(EventBookingCreated, ""))
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Emit blocked with full queue")
	}
}

func TestFormatMoney(t *testing.T) {
	if got := formatMoney(12550, "usd"); !strings.HasPrefix(got, "125.50") {
		t.Fatalf("got %q", got)
	}
}
