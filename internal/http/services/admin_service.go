package services

import (
	"context"

	"github.com/dropDatabas3/wellbook/internal/http/dto"
	"github.com/dropDatabas3/wellbook/internal/observability/logger"
	"github.com/dropDatabas3/wellbook/internal/store/core"
)

// AdminDeps dependencias de la consola de plataforma.
type AdminDeps struct {
	Repo core.Repository
}

// AdminService operaciones cross-tenant de la consola de plataforma.
type AdminService struct {
	deps AdminDeps
}

func NewAdminService(deps AdminDeps) *AdminService {
	return &AdminService{deps: deps}
}

// ListBusinesses listado paginado de tenants, filtro opcional por status.
func (s *AdminService) ListBusinesses(ctx context.Context, status string, limit, offset int) (*dto.AdminBusinessListResponse, error) {
	if limit <= 0 {
		limit = 50
	}
	if limit > 200 {
		limit = 200
	}
	rows, err := s.deps.Repo.ListBusinesses(ctx, status, limit, offset)
	if err != nil {
		return nil, err
	}
	resp := &dto.AdminBusinessListResponse{
		Businesses: make([]dto.BusinessResponse, 0, len(rows)),
		Limit:      limit,
		Offset:     offset,
	}
	for i := range rows {
		resp.Businesses = append(resp.Businesses, *BusinessToDTO(&rows[i]))
	}
	return resp, nil
}

// GetBusiness detalle de un tenant.
func (s *AdminService) GetBusiness(ctx context.Context, id string) (*core.Business, error) {
	return s.deps.Repo.GetBusinessByID(ctx, id)
}

// SetStatus aprueba (active) o suspende un business.
func (s *AdminService) SetStatus(ctx context.Context, businessID, status string) (*core.Business, error) {
	if status != "active" && status != "suspended" {
		return nil, core.ErrInvalid
	}
	if _, err := s.deps.Repo.GetBusinessByID(ctx, businessID); err != nil {
		return nil, err
	}
	if err := s.deps.Repo.SetBusinessStatus(ctx, businessID, status); err != nil {
		return nil, err
	}

	logger.From(ctx).Info("business status set",
		logger.Layer("service"),
		logger.Component("admin"),
		logger.BusinessID(businessID),
		logger.String("status", status),
	)
	return s.deps.Repo.GetBusinessByID(ctx, businessID)
}

// Stats totales de plataforma.
func (s *AdminService) Stats(ctx context.Context) (*dto.PlatformStatsResponse, error) {
	st, err := s.deps.Repo.PlatformStats(ctx)
	if err != nil {
		return nil, err
	}
	return &dto.PlatformStatsResponse{
		Businesses:       st.Businesses,
		ActiveBusinesses: st.ActiveBusinesses,
		Providers:        st.Providers,
		Bookings:         st.Bookings,
		Reviews:          st.Reviews,
	}, nil
}
