package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/dropDatabas3/wellbook/internal/http/dto"
	"github.com/dropDatabas3/wellbook/internal/observability/logger"
	"github.com/dropDatabas3/wellbook/internal/store/core"
)

// Errores de reviews
var (
	ErrInvalidRating      = fmt.Errorf("rating must be between 1 and 5")
	ErrBookingNotDone     = fmt.Errorf("booking is not completed")
	ErrAlreadyReviewed    = fmt.Errorf("booking already reviewed")
	ErrReviewAlreadyReply = fmt.Errorf("review already has a reply")
)

// ReviewDeps dependencias del review service.
type ReviewDeps struct {
	Repo core.Repository
}

// ReviewService reseñas públicas post-visita y respuestas del negocio.
type ReviewService struct {
	deps ReviewDeps
}

func NewReviewService(deps ReviewDeps) *ReviewService {
	return &ReviewService{deps: deps}
}

// Create registra la reseña de un cliente. El booking tiene que estar
// completed y acepta una sola reseña; el UNIQUE de la base respalda el
// chequeo previo contra carreras.
func (s *ReviewService) Create(ctx context.Context, biz *core.Business, in dto.CreateReviewRequest) (*core.Review, error) {
	log := logger.From(ctx).With(
		logger.Layer("service"),
		logger.Component("reviews"),
		logger.Op("Create"),
		logger.BusinessID(biz.ID),
	)

	if in.BookingID == "" {
		return nil, ErrMissingFields
	}
	if in.Rating < 1 || in.Rating > 5 {
		return nil, ErrInvalidRating
	}

	b, err := s.deps.Repo.GetBookingByID(ctx, in.BookingID)
	if err != nil {
		return nil, err
	}
	if b.BusinessID != biz.ID {
		return nil, core.ErrNotFound
	}
	if b.Status != "completed" {
		return nil, ErrBookingNotDone
	}
	if _, err := s.deps.Repo.GetReviewByBookingID(ctx, b.ID); err == nil {
		return nil, ErrAlreadyReviewed
	}

	r := &core.Review{
		BusinessID: biz.ID,
		BookingID:  b.ID,
		ProviderID: b.ProviderID,
		Rating:     in.Rating,
		Comment:    strings.TrimSpace(in.Comment),
	}
	if err := s.deps.Repo.CreateReview(ctx, r); err != nil {
		if errors.Is(err, core.ErrConflict) {
			return nil, ErrAlreadyReviewed
		}
		return nil, err
	}

	log.Info("review created", logger.BookingID(b.ID), logger.Int("rating", in.Rating))
	return r, nil
}

// List reseñas del business, con filtro opcional por rating mínimo.
func (s *ReviewService) List(ctx context.Context, businessID string, f core.ReviewFilter) ([]core.Review, error) {
	return s.deps.Repo.ListReviews(ctx, businessID, f)
}

// Stats agregados (count + promedio).
func (s *ReviewService) Stats(ctx context.Context, businessID string) (*dto.ReviewStatsResponse, error) {
	st, err := s.deps.Repo.ReviewStats(ctx, businessID)
	if err != nil {
		return nil, err
	}
	return &dto.ReviewStatsResponse{Count: st.Count, Average: st.Average}, nil
}

// Reply deja la respuesta del negocio. Una sola respuesta por reseña.
func (s *ReviewService) Reply(ctx context.Context, biz *core.Business, reviewID string, in dto.ReplyReviewRequest) (*core.Review, error) {
	reply := strings.TrimSpace(in.Reply)
	if reply == "" {
		return nil, ErrMissingFields
	}

	r, err := s.deps.Repo.GetReviewByID(ctx, reviewID)
	if err != nil {
		return nil, err
	}
	if r.BusinessID != biz.ID {
		return nil, core.ErrNotFound
	}
	if r.Reply != nil {
		return nil, ErrReviewAlreadyReply
	}

	if err := s.deps.Repo.ReplyReview(ctx, reviewID, reply); err != nil {
		return nil, err
	}
	return s.deps.Repo.GetReviewByID(ctx, reviewID)
}

// ReviewToDTO mapea el modelo al response.
func ReviewToDTO(r *core.Review) dto.ReviewResponse {
	return dto.ReviewResponse{
		ID:         r.ID,
		BookingID:  r.BookingID,
		ProviderID: r.ProviderID,
		Rating:     r.Rating,
		Comment:    r.Comment,
		Reply:      r.Reply,
		RepliedAt:  r.RepliedAt,
		CreatedAt:  r.CreatedAt,
	}
}
