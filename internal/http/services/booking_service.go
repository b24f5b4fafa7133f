package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dropDatabas3/wellbook/internal/http/dto"
	"github.com/dropDatabas3/wellbook/internal/metrics"
	"github.com/dropDatabas3/wellbook/internal/notify"
	"github.com/dropDatabas3/wellbook/internal/observability/logger"
	"github.com/dropDatabas3/wellbook/internal/store/core"
)

// Errores de bookings
var (
	ErrServiceInactive   = fmt.Errorf("service is not bookable")
	ErrSlotTaken         = fmt.Errorf("provider slot already taken")
	ErrPastSlot          = fmt.Errorf("cannot book a slot in the past")
	ErrBadTransition     = fmt.Errorf("invalid status transition")
	ErrProviderNotActive = fmt.Errorf("provider is not active")
)

// Transiciones válidas del ciclo de vida de una reserva.
// completed, cancelled y no_show son terminales.
var bookingTransitions = map[string][]string{
	"pending":   {"confirmed", "cancelled"},
	"confirmed": {"completed", "cancelled", "no_show"},
}

func canTransition(from, to string) bool {
	for _, s := range bookingTransitions[from] {
		if s == to {
			return true
		}
	}
	return false
}

// BookingDeps dependencias del booking service.
type BookingDeps struct {
	Repo     core.Repository
	Notifier *notify.Dispatcher
}

// BookingService crea reservas (público y portal) y maneja su ciclo de vida.
type BookingService struct {
	deps BookingDeps
}

func NewBookingService(deps BookingDeps) *BookingService {
	return &BookingService{deps: deps}
}

// Create arma la reserva: valida servicio y provider, calcula total y fin,
// y persiste. El precio se congela al momento de crear; cambios posteriores
// del catálogo no afectan reservas existentes. source es "public" o "portal"
// y sólo alimenta métricas.
func (s *BookingService) Create(ctx context.Context, biz *core.Business, in dto.CreateBookingRequest, source string) (*core.Booking, error) {
	log := logger.From(ctx).With(
		logger.Layer("service"),
		logger.Component("bookings"),
		logger.Op("Create"),
		logger.BusinessID(biz.ID),
	)

	in.CustomerName = strings.TrimSpace(in.CustomerName)
	in.CustomerEmail = strings.TrimSpace(strings.ToLower(in.CustomerEmail))
	if in.ServiceID == "" || in.CustomerName == "" || in.CustomerEmail == "" || in.StartsAt.IsZero() {
		return nil, ErrMissingFields
	}
	if in.StartsAt.Before(time.Now()) {
		return nil, ErrPastSlot
	}

	svc, err := s.deps.Repo.GetServiceByID(ctx, in.ServiceID)
	if err != nil {
		return nil, err
	}
	if svc.BusinessID != biz.ID || !svc.Active {
		return nil, ErrServiceInactive
	}

	if in.ProviderID != nil {
		p, err := s.deps.Repo.GetProviderByID(ctx, *in.ProviderID)
		if err != nil {
			return nil, err
		}
		if p.BusinessID != biz.ID || p.Status != "active" {
			return nil, ErrProviderNotActive
		}
	}

	total := svc.PriceCents
	for _, id := range in.AddonIDs {
		a, err := s.deps.Repo.GetAddonByID(ctx, id)
		if err != nil {
			return nil, err
		}
		if a.BusinessID != biz.ID || !a.Active {
			return nil, core.ErrInvalid
		}
		total += a.PriceCents
	}

	b := &core.Booking{
		BusinessID:    biz.ID,
		ServiceID:     svc.ID,
		ProviderID:    in.ProviderID,
		CustomerName:  in.CustomerName,
		CustomerEmail: in.CustomerEmail,
		CustomerPhone: strings.TrimSpace(in.CustomerPhone),
		StartsAt:      in.StartsAt.UTC(),
		EndsAt:        in.StartsAt.UTC().Add(time.Duration(svc.DurationMin) * time.Minute),
		AddonIDs:      in.AddonIDs,
		TotalCents:    total,
		Currency:      svc.Currency,
		Notes:         in.Notes,
	}
	if err := s.deps.Repo.CreateBooking(ctx, b); err != nil {
		if errors.Is(err, core.ErrConflict) {
			return nil, ErrSlotTaken
		}
		return nil, err
	}

	metrics.RecordBooking(source)
	if s.deps.Notifier != nil {
		s.deps.Notifier.Emit(notify.Event{
			Type:     notify.EventBookingCreated,
			Booking:  b,
			Business: biz,
			Service:  svc,
		})
	}

	log.Info("booking created",
		logger.BookingID(b.ID),
		logger.ServiceID(svc.ID),
		logger.String("source", source),
	)
	return b, nil
}

// Get trae una reserva del business.
func (s *BookingService) Get(ctx context.Context, biz *core.Business, id string) (*core.Booking, error) {
	b, err := s.deps.Repo.GetBookingByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if b.BusinessID != biz.ID {
		return nil, core.ErrNotFound
	}
	return b, nil
}

// List agenda filtrada del business.
func (s *BookingService) List(ctx context.Context, businessID string, f core.BookingFilter) ([]core.Booking, error) {
	return s.deps.Repo.ListBookings(ctx, businessID, f)
}

// UpdateStatus aplica una transición del ciclo de vida y emite el evento.
func (s *BookingService) UpdateStatus(ctx context.Context, biz *core.Business, id, status string) (*core.Booking, error) {
	log := logger.From(ctx).With(
		logger.Layer("service"),
		logger.Component("bookings"),
		logger.Op("UpdateStatus"),
		logger.BusinessID(biz.ID),
		logger.BookingID(id),
	)

	b, err := s.Get(ctx, biz, id)
	if err != nil {
		return nil, err
	}
	if !canTransition(b.Status, status) {
		log.Debug("transition rejected",
			logger.String("from", b.Status), logger.String("to", status))
		return nil, ErrBadTransition
	}

	if err := s.deps.Repo.UpdateBookingStatus(ctx, id, status); err != nil {
		return nil, err
	}
	b.Status = status

	if s.deps.Notifier != nil {
		var svc *core.Service
		if v, err := s.deps.Repo.GetServiceByID(ctx, b.ServiceID); err == nil {
			svc = v
		}
		s.deps.Notifier.Emit(notify.Event{
			Type:     notify.EventBookingStatus,
			Booking:  b,
			Business: biz,
			Service:  svc,
			Status:   status,
		})
	}

	log.Info("booking status updated", logger.String("status", status))
	return b, nil
}

// BookingToDTO mapea el modelo al response.
func BookingToDTO(b *core.Booking) dto.BookingResponse {
	return dto.BookingResponse{
		ID:            b.ID,
		ServiceID:     b.ServiceID,
		ProviderID:    b.ProviderID,
		CustomerName:  b.CustomerName,
		CustomerEmail: b.CustomerEmail,
		CustomerPhone: b.CustomerPhone,
		StartsAt:      b.StartsAt,
		EndsAt:        b.EndsAt,
		Status:        b.Status,
		PaymentStatus: b.PaymentStatus,
		AddonIDs:      b.AddonIDs,
		TotalCents:    b.TotalCents,
		Currency:      b.Currency,
		Notes:         b.Notes,
		CreatedAt:     b.CreatedAt,
	}
}
