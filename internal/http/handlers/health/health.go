// Package health реализует проверку доступности сервиса и его хранилища.
package health

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/render"

	"github.com/magabrotheeeer/jobhunter/internal/http/response"
	"github.com/magabrotheeeer/jobhunter/internal/lib/sl"
)

const pingTimeout = 2 * time.Second

// Pinger проверяет доступность зависимости.
type Pinger interface {
	Ping(ctx context.Context) error
}

type Handler struct {
	log   *slog.Logger
	store Pinger
}

func New(log *slog.Logger, store Pinger) *Handler {
	return &Handler{log: log, store: store}
}

// ServeHTTP godoc
// @Summary Health check
// @Tags Service
// @Produce  json
// @Success 200 {object} response.Response "healthy"
// @Failure 503 {object} response.ErrorResponse "unhealthy"
// @Router /health [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), pingTimeout)
	defer cancel()

	if err := h.store.Ping(ctx); err != nil {
		h.log.Error("health check failed", sl.Err(err))
		w.WriteHeader(http.StatusServiceUnavailable)
		render.JSON(w, r, response.Error("unhealthy"))
		return
	}
	render.JSON(w, r, response.OKWithData(map[string]string{"health": "healthy"}))
}
