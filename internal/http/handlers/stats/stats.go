// Package stats реализует HTTP-обработчик сводной статистики по пробным периодам.
package stats

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/jobhunter/internal/http/response"
	"github.com/magabrotheeeer/jobhunter/internal/lib/sl"
	"github.com/magabrotheeeer/jobhunter/internal/models"
)

type Handler struct {
	log     *slog.Logger
	service Service
}

type Service interface {
	Stats(ctx context.Context) (*models.TrialStats, error)
}

func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary Статистика
// @Description Число пользователей всего, с открытым и закончившимся пробным периодом.
// @Tags Trial
// @Produce  json
// @Success 200 {object} response.Response{data=models.TrialStats} "Статистика"
// @Failure 503 {object} response.ErrorResponse "Хранилище недоступно"
// @Router /stats [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.stats"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	st, err := h.service.Stats(r.Context())
	if err != nil {
		log.Error("failed to collect stats", sl.Err(err))
		status, resp := response.FromError(err)
		w.WriteHeader(status)
		render.JSON(w, r, resp)
		return
	}

	render.JSON(w, r, response.OKWithData(st))
}
