package controllers

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	httperrors "github.com/dropDatabas3/wellbook/internal/http/errors"
	"github.com/dropDatabas3/wellbook/internal/observability/logger"
	"github.com/dropDatabas3/wellbook/internal/store/core"
)

// writeDomainError mapea los errores transversales del dominio. Los
// controllers resuelven antes sus errores específicos; esto es la red
// de contención.
func writeDomainError(w http.ResponseWriter, ctx context.Context, op string, err error) {
	switch {
	case errors.Is(err, core.ErrNotFound):
		httperrors.WriteError(w, httperrors.ErrNotFound)
	case errors.Is(err, core.ErrConflict):
		httperrors.WriteError(w, httperrors.ErrConflict)
	case errors.Is(err, core.ErrInvalid):
		httperrors.WriteError(w, httperrors.ErrBadRequest)
	default:
		logger.From(ctx).Error("unexpected error",
			logger.Layer("controller"), logger.Op(op), logger.Err(err))
		httperrors.WriteError(w, httperrors.ErrInternalServerError)
	}
}

// queryInt lee un query param numérico con default.
func queryInt(r *http.Request, key string, def int) int {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return def
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		return def
	}
	return n
}
