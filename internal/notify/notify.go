// Package notify es el pipeline de side-effects del portal: lo que antes
// disparaban triggers por inserción de filas ahora lo consume un dispatcher
// in-process. Los eventos entran por un canal bufferizado y los procesan
// workers; si un side-effect falla se loguea y se sigue: el request que
// originó el evento nunca falla por esto.
package notify

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/dropDatabas3/wellbook/internal/email"
	"github.com/dropDatabas3/wellbook/internal/metrics"
	"github.com/dropDatabas3/wellbook/internal/observability/logger"
	"github.com/dropDatabas3/wellbook/internal/store/core"
)

// Tipos de evento.
const (
	EventBookingCreated = "booking.created"
	EventBookingStatus  = "booking.status"
	EventMessageCreated = "message.created"
)

// Event es un side-effect pendiente. Booking/Business/Conversation vienen
// ya cargados por el emisor para que los workers no vuelvan a la base.
type Event struct {
	Type         string
	Booking      *core.Booking
	Business     *core.Business
	Service      *core.Service
	Conversation *core.Conversation
	Message      *core.Message
	Status       string // nuevo status en booking.status
}

// SMSSender es lo que el dispatcher necesita de sms.Sender.
type SMSSender interface {
	Send(ctx context.Context, phone, body string) error
}

// Dispatcher fan-out de eventos a email/SMS.
type Dispatcher struct {
	ch        chan Event
	sender    email.Sender
	templates *email.Templates
	sms       SMSSender // nil si SMS está deshabilitado
	reviewURL string    // base del link de reseña público
	workers   int
	cancel    context.CancelFunc
	done      chan struct{}
}

type Config struct {
	QueueSize int
	Workers   int
	ReviewURL string
}

func NewDispatcher(cfg Config, sender email.Sender, templates *email.Templates, smsSender SMSSender) *Dispatcher {
	if cfg.QueueSize <= 0 {
		cfg.QueueSize = 256
	}
	if cfg.Workers <= 0 {
		cfg.Workers = 4
	}
	return &Dispatcher{
		ch:        make(chan Event, cfg.QueueSize),
		sender:    sender,
		templates: templates,
		sms:       smsSender,
		reviewURL: cfg.ReviewURL,
		workers:   cfg.Workers,
		done:      make(chan struct{}),
	}
}

// Start levanta los workers. Llamar una sola vez.
func (d *Dispatcher) Start() {
	ctx, cancel := context.WithCancel(context.Background())
	d.cancel = cancel

	g, ctx := errgroup.WithContext(ctx)
	for i := 0; i < d.workers; i++ {
		g.Go(func() error {
			for {
				select {
				case <-ctx.Done():
					return nil
				case ev, ok := <-d.ch:
					if !ok {
						return nil
					}
					d.handle(ctx, ev)
				}
			}
		})
	}
	go func() {
		_ = g.Wait()
		close(d.done)
	}()
}

// Stop corta los workers y espera a que terminen (con timeout).
func (d *Dispatcher) Stop(timeout time.Duration) {
	if d.cancel != nil {
		d.cancel()
	}
	select {
	case <-d.done:
	case <-time.After(timeout):
		logger.L().Warn("notify_stop_timeout", logger.Component("notify"))
	}
}

// Emit encola un evento sin bloquear. Si la cola está llena el evento se
// descarta con un warning: preferimos perder una notificación antes que
// frenar el request.
func (d *Dispatcher) Emit(ev Event) {
	select {
	case d.ch <- ev:
	default:
		metrics.RecordNotifyEvent(ev.Type, "dropped")
		logger.L().Warn("notify_queue_full",
			logger.Component("notify"), logger.Event(ev.Type))
	}
}

func (d *Dispatcher) handle(ctx context.Context, ev Event) {
	log := logger.L().With(logger.Component("notify"), logger.Event(ev.Type))

	switch ev.Type {
	case EventBookingCreated:
		d.bookingCreated(ctx, log, ev)
		metrics.RecordNotifyEvent(ev.Type, "ok")
	case EventBookingStatus:
		d.bookingStatus(ctx, log, ev)
		metrics.RecordNotifyEvent(ev.Type, "ok")
	case EventMessageCreated:
		d.messageCreated(ctx, log, ev)
		metrics.RecordNotifyEvent(ev.Type, "ok")
	default:
		log.Warn("unknown_event")
	}
}

func (d *Dispatcher) bookingCreated(ctx context.Context, log *zap.Logger, ev Event) {
	if ev.Booking == nil || ev.Business == nil {
		log.Warn("event_missing_payload")
		return
	}
	b, biz := ev.Booking, ev.Business

	vars := email.BookingVars{
		BusinessName: biz.Name,
		CustomerName: b.CustomerName,
		ServiceName:  serviceName(ev),
		StartsAt:     b.StartsAt.Format("Mon 02 Jan 2006 15:04"),
		TotalDisplay: formatMoney(b.TotalCents, b.Currency),
	}
	html, text, err := d.templates.Render(email.TemplateBookingConf, vars)
	if err != nil {
		log.Error("template_render_err", logger.Err(err))
		return
	}
	if err := d.sender.Send(b.CustomerEmail, "Reserva confirmada - "+biz.Name, html, text); err != nil {
		// continue anyway
		log.Error("booking_email_err", logger.BookingID(b.ID), logger.Err(err))
	}

	if d.sms != nil && b.CustomerPhone != "" {
		body := fmt.Sprintf("%s: tu reserva de %s quedó registrada para %s.",
			biz.Name, vars.ServiceName, vars.StartsAt)
		if err := d.sms.Send(ctx, b.CustomerPhone, body); err != nil {
			log.Error("booking_sms_err", logger.BookingID(b.ID), logger.Err(err))
		}
	}
}

func (d *Dispatcher) bookingStatus(ctx context.Context, log *zap.Logger, ev Event) {
	if ev.Booking == nil || ev.Business == nil {
		log.Warn("event_missing_payload")
		return
	}
	b, biz := ev.Booking, ev.Business

	switch ev.Status {
	case "completed":
		// pedido de reseña post-visita
		vars := email.ReviewVars{
			BusinessName: biz.Name,
			CustomerName: b.CustomerName,
			ServiceName:  serviceName(ev),
			Link:         fmt.Sprintf("%s/%s/review/%s", d.reviewURL, biz.Slug, b.ID),
		}
		html, text, err := d.templates.Render(email.TemplateReviewRequest, vars)
		if err != nil {
			log.Error("template_render_err", logger.Err(err))
			return
		}
		if err := d.sender.Send(b.CustomerEmail, "¿Cómo estuvo tu visita a "+biz.Name+"?", html, text); err != nil {
			log.Error("review_email_err", logger.BookingID(b.ID), logger.Err(err))
		}
	case "cancelled":
		if d.sms != nil && b.CustomerPhone != "" {
			body := fmt.Sprintf("%s: tu reserva del %s fue cancelada.",
				biz.Name, b.StartsAt.Format("02/01 15:04"))
			if err := d.sms.Send(ctx, b.CustomerPhone, body); err != nil {
				log.Error("cancel_sms_err", logger.BookingID(b.ID), logger.Err(err))
			}
		}
	}
}

// messageCreated avisa al cliente por SMS cuando responde el negocio. Los
// mensajes del cliente no generan side-effect: el staff los ve en el inbox.
func (d *Dispatcher) messageCreated(ctx context.Context, log *zap.Logger, ev Event) {
	if ev.Message == nil || ev.Business == nil || ev.Conversation == nil {
		log.Warn("event_missing_payload")
		return
	}
	m, conv := ev.Message, ev.Conversation
	log.Debug("message_event", logger.ID(m.ConversationID))

	if m.Sender != "provider" {
		return
	}
	if d.sms == nil || conv.CustomerPhone == "" {
		return
	}
	body := fmt.Sprintf("%s respondió tu consulta: %s",
		ev.Business.Name, truncate(m.Body, 120))
	if err := d.sms.Send(ctx, conv.CustomerPhone, body); err != nil {
		// continue anyway
		log.Error("message_sms_err", logger.ID(m.ConversationID), logger.Err(err))
	}
}

func serviceName(ev Event) string {
	if ev.Service != nil {
		return ev.Service.Name
	}
	return "tu servicio"
}

func formatMoney(cents int64, currency string) string {
	return fmt.Sprintf("%.2f %s", float64(cents)/100, currency)
}

// truncate corta por runas para no partir un carácter multibyte.
func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n]) + "..."
}
