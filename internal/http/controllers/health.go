package controllers

import (
	"context"
	"net/http"
	"os"
	"time"

	"github.com/dropDatabas3/wellbook/internal/http/helpers"
	"github.com/dropDatabas3/wellbook/internal/observability/logger"
)

// HealthController liveness y readiness.
type HealthController struct {
	dbCheck    func(ctx context.Context) error
	cacheCheck func(ctx context.Context) error
}

func NewHealthController(dbCheck, cacheCheck func(ctx context.Context) error) *HealthController {
	return &HealthController{dbCheck: dbCheck, cacheCheck: cacheCheck}
}

type healthStatus struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
}

type healthResponse struct {
	Status     string                  `json:"status"` // ready | degraded | unavailable
	Version    string                  `json:"version,omitempty"`
	Components map[string]healthStatus `json:"components"`
	Timestamp  time.Time               `json:"timestamp"`
}

// Healthz GET /healthz: vivo si responde.
func (c *HealthController) Healthz(w http.ResponseWriter, r *http.Request) {
	helpers.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// Readyz GET /readyz: la base es crítica, el cache sólo degrada.
func (c *HealthController) Readyz(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()
	log := logger.From(ctx).With(logger.Layer("controller"), logger.Op("Health.Readyz"))

	resp := healthResponse{
		Status:     "ready",
		Version:    os.Getenv("SERVICE_VERSION"),
		Components: make(map[string]healthStatus),
		Timestamp:  time.Now().UTC(),
	}

	if err := c.dbCheck(ctx); err != nil {
		resp.Status = "unavailable"
		resp.Components["database"] = healthStatus{Status: "error", Message: err.Error()}
		log.Error("database unavailable", logger.Err(err))
	} else {
		resp.Components["database"] = healthStatus{Status: "ok"}
	}

	if c.cacheCheck != nil {
		if err := c.cacheCheck(ctx); err != nil {
			if resp.Status == "ready" {
				resp.Status = "degraded"
			}
			resp.Components["cache"] = healthStatus{Status: "error", Message: err.Error()}
			log.Warn("cache unavailable", logger.Err(err))
		} else {
			resp.Components["cache"] = healthStatus{Status: "ok"}
		}
	}

	status := http.StatusOK
	if resp.Status == "unavailable" {
		status = http.StatusServiceUnavailable
	}
	helpers.WriteJSON(w, status, resp)
}
