package controllers

import (
	"errors"
	"io"
	"net/http"

	"github.com/dropDatabas3/wellbook/internal/http/dto"
	httperrors "github.com/dropDatabas3/wellbook/internal/http/errors"
	"github.com/dropDatabas3/wellbook/internal/http/helpers"
	mw "github.com/dropDatabas3/wellbook/internal/http/middlewares"
	"github.com/dropDatabas3/wellbook/internal/http/services"
	"github.com/dropDatabas3/wellbook/internal/observability/logger"
)

const maxWebhookBodySize = 256 * 1024 // 256KB

// PaymentController checkout del portal y webhook del procesador.
type PaymentController struct {
	svc *services.PaymentService
}

func NewPaymentController(svc *services.PaymentService) *PaymentController {
	return &PaymentController{svc: svc}
}

// Checkout POST /v1/payments/checkout
func (c *PaymentController) Checkout(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	biz := mw.MustGetBusiness(ctx)

	var req dto.CheckoutRequest
	if !helpers.ReadJSON(w, r, &req) {
		return
	}
	if req.BookingID == "" {
		httperrors.WriteError(w, httperrors.ErrMissingFields)
		return
	}

	resp, err := c.svc.Checkout(ctx, biz, req.BookingID)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrAlreadyPaid):
			httperrors.WriteError(w, httperrors.ErrConflict.WithDetail("la reserva ya está paga"))
		case errors.Is(err, services.ErrNotPayable):
			httperrors.WriteError(w, httperrors.ErrConflict.WithDetail("la reserva no es pagable"))
		case errors.Is(err, services.ErrUpstream):
			httperrors.WriteError(w, httperrors.ErrUpstreamFailed)
		default:
			writeDomainError(w, ctx, "Payments.Checkout", err)
		}
		return
	}
	helpers.NoStore(w)
	helpers.WriteJSON(w, http.StatusCreated, resp)
}

// Webhook POST /v1/payments/webhook
// Sin auth de usuario: la firma HMAC del body es la autenticación.
func (c *PaymentController) Webhook(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.From(ctx).With(logger.Layer("controller"), logger.Op("Payments.Webhook"))

	payload, err := io.ReadAll(io.LimitReader(r.Body, maxWebhookBodySize))
	if err != nil {
		httperrors.WriteError(w, httperrors.ErrBadRequest)
		return
	}
	defer r.Body.Close()

	result, err := c.svc.HandleWebhook(ctx, payload, r.Header.Get("X-Payments-Signature"))
	if err != nil {
		switch {
		case errors.Is(err, services.ErrBadSignature):
			httperrors.WriteError(w, httperrors.ErrInvalidSignature)
		case errors.Is(err, services.ErrMalformedEvent):
			httperrors.WriteError(w, httperrors.ErrBadRequest.WithDetail("evento malformado"))
		case errors.Is(err, services.ErrUnknownBooking):
			// 200 igual: reintentar no va a hacer aparecer el booking
			log.Warn("webhook for unknown booking")
			helpers.WriteJSON(w, http.StatusOK, map[string]string{"result": "ignored"})
		default:
			writeDomainError(w, ctx, "Payments.Webhook", err)
		}
		return
	}
	helpers.WriteJSON(w, http.StatusOK, map[string]string{"result": result})
}
