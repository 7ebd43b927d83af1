// Package status реализует HTTP-обработчик проверки состояния пробного периода.
package status

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
	Status(ctx context.Context, email string) (*models.TrialStatus, error)
}

func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary Состояние пробного периода
// @Tags Trial
// @Produce  json
// @Param email query string true "Email пользователя"
// @Success 200 {object} response.Response{data=models.TrialStatus} "Состояние"
// @Failure 400 {object} response.ErrorResponse "Не передан email"
// @Failure 404 {object} response.ErrorResponse "Пользователь не найден"
// @Router /status [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.status"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	email := r.URL.Query().Get("email")
	if email == "" {
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("Email parameter required"))
		return
	}

	st, err := h.service.Status(r.Context(), email)
	if err != nil {
		status, resp := response.FromError(err)
		if status >= http.StatusInternalServerError {
			log.Error("failed to get trial status", sl.Err(err))
		}
		w.WriteHeader(status)
		render.JSON(w, r, resp)
		return
	}

	render.JSON(w, r, response.OKWithData(st))
}
