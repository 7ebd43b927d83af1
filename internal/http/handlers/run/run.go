// Package run реализует HTTP-обработчик запуска автоматизации поиска вакансий.
//
// Запуск разрешён только в открытом пробном периоде. После окончания периода
// возвращается 403 со ссылкой на страницу оплаты.
package run

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

// Handler обрабатывает запросы на запуск автоматизации.
type Handler struct {
	log     *slog.Logger
	service Service
}

// Service описывает интерфейс бизнес-логики запуска.
type Service interface {
	Run(ctx context.Context, email string) (*models.RunResult, error)
}

// New создает новый Handler с переданным логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary Запуск автоматизации
// @Description Запускает поиск вакансий по ключевым словам пользователя, если пробный период открыт.
// @Tags Trial
// @Produce  json
// @Param email query string true "Email пользователя"
// @Success 200 {object} response.Response{data=models.RunResult} "Автоматизация запущена"
// @Failure 400 {object} response.ErrorResponse "Не передан email"
// @Failure 403 {object} response.ErrorResponse "Пробный период закончился"
// @Failure 404 {object} response.ErrorResponse "Пользователь не найден"
// @Router /run [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.run"
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

	res, err := h.service.Run(r.Context(), email)
	if err != nil {
		status, resp := response.FromError(err)
		if status >= http.StatusInternalServerError {
			log.Error("failed to run automation", sl.Err(err))
		} else {
			log.Info("run denied", slog.Int("status", status), sl.Err(err))
		}
		w.WriteHeader(status)
		render.JSON(w, r, resp)
		return
	}

	render.JSON(w, r, response.OKWithData(res))
}
