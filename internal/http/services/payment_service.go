package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dropDatabas3/wellbook/internal/cache"
	"github.com/dropDatabas3/wellbook/internal/http/dto"
	"github.com/dropDatabas3/wellbook/internal/metrics"
	"github.com/dropDatabas3/wellbook/internal/observability/logger"
	"github.com/dropDatabas3/wellbook/internal/payments"
	"github.com/dropDatabas3/wellbook/internal/store/core"
)

// Errores de pagos
var (
	ErrAlreadyPaid    = fmt.Errorf("booking already paid")
	ErrNotPayable     = fmt.Errorf("booking is not payable")
	ErrBadSignature   = fmt.Errorf("webhook signature mismatch")
	ErrMalformedEvent = fmt.Errorf("malformed webhook event")
	ErrUnknownBooking = fmt.Errorf("webhook references unknown booking")
)

// Ventana de deduplicación de webhooks: el procesador reintenta con
// backoff de hasta un día.
const webhookDedupTTL = 48 * time.Hour

// PaymentDeps dependencias del payment service.
type PaymentDeps struct {
	Repo          core.Repository
	Client        *payments.Client
	Cache         cache.Client
	WebhookSecret string
}

// PaymentService checkout sessions y procesamiento de webhooks.
type PaymentService struct {
	deps PaymentDeps
}

func NewPaymentService(deps PaymentDeps) *PaymentService {
	return &PaymentService{deps: deps}
}

// Checkout crea la sesión de pago para un booking del business y guarda
// la referencia. Un booking cancelado o ya pagado no es pagable.
func (s *PaymentService) Checkout(ctx context.Context, biz *core.Business, bookingID string) (*dto.CheckoutResponse, error) {
	log := logger.From(ctx).With(
		logger.Layer("service"),
		logger.Component("payments"),
		logger.Op("Checkout"),
		logger.BusinessID(biz.ID),
		logger.BookingID(bookingID),
	)

	b, err := s.deps.Repo.GetBookingByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if b.BusinessID != biz.ID {
		return nil, core.ErrNotFound
	}
	if b.PaymentStatus == "paid" {
		return nil, ErrAlreadyPaid
	}
	if b.Status == "cancelled" || b.Status == "no_show" {
		return nil, ErrNotPayable
	}

	accountID := ""
	if biz.PaymentAccountID != nil {
		accountID = *biz.PaymentAccountID
	}
	sess, err := s.deps.Client.CreateCheckout(ctx, b.TotalCents, b.Currency, accountID, b.ID)
	if err != nil {
		log.Error("checkout creation failed", logger.Err(err))
		return nil, ErrUpstream
	}
	if err := s.deps.Repo.SetBookingCheckoutSession(ctx, b.ID, sess.ID); err != nil {
		return nil, err
	}

	log.Info("checkout session created", logger.String("session_id", sess.ID))
	return &dto.CheckoutResponse{SessionID: sess.ID, URL: sess.URL}, nil
}

// HandleWebhook procesa un evento del procesador. El resultado que
// devuelve es el que alimenta la métrica: applied, duplicate, ignored.
// La dedupe por event ID vive en cache; un evento repetido dentro de la
// ventana responde 200 sin re-aplicar.
func (s *PaymentService) HandleWebhook(ctx context.Context, payload []byte, signature string) (string, error) {
	log := logger.From(ctx).With(
		logger.Layer("service"),
		logger.Component("payments"),
		logger.Op("HandleWebhook"),
	)

	if !payments.VerifySignature(s.deps.WebhookSecret, payload, signature) {
		metrics.RecordWebhookEvent("unknown", "rejected")
		return "", ErrBadSignature
	}
	ev, err := payments.ParseEvent(payload)
	if err != nil {
		metrics.RecordWebhookEvent("unknown", "rejected")
		return "", ErrMalformedEvent
	}
	log = log.With(logger.Event(ev.Type), logger.ID(ev.ID))

	if s.deps.Cache != nil {
		key := "pevt:" + ev.ID
		if ok, err := s.deps.Cache.Exists(ctx, key); err == nil && ok {
			log.Debug("duplicate webhook event")
			metrics.RecordWebhookEvent(ev.Type, "duplicate")
			return "duplicate", nil
		}
	}

	result := "ignored"
	switch ev.Type {
	case "payment.succeeded":
		if err := s.applyPayment(ctx, ev.Data.BookingID, "paid", true); err != nil {
			return "", err
		}
		result = "applied"
	case "payment.refunded":
		if err := s.applyPayment(ctx, ev.Data.BookingID, "refunded", false); err != nil {
			return "", err
		}
		result = "applied"
	default:
		// eventos que no nos interesan responden 200 para cortar reintentos
		log.Debug("webhook event ignored")
	}

	if s.deps.Cache != nil {
		if err := s.deps.Cache.Set(ctx, "pevt:"+ev.ID, "1", webhookDedupTTL); err != nil {
			log.Warn("webhook dedupe mark failed", logger.Err(err))
		}
	}
	metrics.RecordWebhookEvent(ev.Type, result)
	log.Info("webhook processed", logger.String("result", result))
	return result, nil
}

// applyPayment refleja el estado del procesador sobre el booking. Un pago
// exitoso sobre un booking pending lo confirma de paso.
func (s *PaymentService) applyPayment(ctx context.Context, bookingID, paymentStatus string, confirm bool) error {
	if bookingID == "" {
		return ErrUnknownBooking
	}
	b, err := s.deps.Repo.GetBookingByID(ctx, bookingID)
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			return ErrUnknownBooking
		}
		return err
	}
	if err := s.deps.Repo.UpdateBookingPayment(ctx, b.ID, paymentStatus); err != nil {
		return err
	}
	if confirm && b.Status == "pending" {
		if err := s.deps.Repo.UpdateBookingStatus(ctx, b.ID, "confirmed"); err != nil {
			return err
		}
	}
	return nil
}
