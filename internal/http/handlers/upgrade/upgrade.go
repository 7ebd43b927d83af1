// Package upgrade реализует HTTP-обработчик выбора способа оплаты.
package upgrade

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

// Handler обрабатывает запросы на переход к платному тарифу.
type Handler struct {
	log     *slog.Logger
	service Service
}

// Service описывает интерфейс бизнес-логики выбора оплаты.
type Service interface {
	Upgrade(ctx context.Context, email string) (*models.UpgradeOffer, error)
}

// New создает новый Handler с переданным логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary Варианты оплаты
// @Description Возвращает способы оплаты для страны пользователя и цены премиум-доступа.
// @Tags Trial
// @Produce  json
// @Param email query string true "Email пользователя"
// @Success 200 {object} response.Response{data=models.UpgradeOffer} "Варианты оплаты"
// @Failure 400 {object} response.ErrorResponse "Не передан email"
// @Failure 404 {object} response.ErrorResponse "Пользователь не найден"
// @Router /upgrade [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.upgrade"
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

	offer, err := h.service.Upgrade(r.Context(), email)
	if err != nil {
		status, resp := response.FromError(err)
		if status >= http.StatusInternalServerError {
			log.Error("failed to build upgrade offer", sl.Err(err))
		}
		w.WriteHeader(status)
		render.JSON(w, r, resp)
		return
	}

	log.Info("upgrade offer", slog.String("country", offer.Country), slog.String("primary", string(offer.PaymentOptions.Primary)))
	render.JSON(w, r, response.OKWithData(offer))
}
