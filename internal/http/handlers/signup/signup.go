// Package signup реализует HTTP-обработчик регистрации пользователя на пробный период.
//
// Handler принимает JSON с email, ключевыми словами и страной, проверяет обязательные поля,
// вызывает сервис и возвращает дату окончания пробного периода.
package signup

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/magabrotheeeer/jobhunter/internal/http/response"
	"github.com/magabrotheeeer/jobhunter/internal/lib/sl"
	"github.com/magabrotheeeer/jobhunter/internal/models"
)

// Handler управляет HTTP-запросами на регистрацию.
type Handler struct {
	log      *slog.Logger        // Логгер для записи информации и ошибок
	service  Service             // Сервис пробного периода
	validate *validator.Validate // Валидатор структуры входящих данных
}

// Service описывает интерфейс бизнес-логики регистрации.
type Service interface {
	Signup(ctx context.Context, email string, keywords []string, country string) (*models.UserRecord, error)
}

// SignupUser содержит данные пользователя в ответе на регистрацию.
type SignupUser struct {
	Email        string `json:"email"`
	Country      string `json:"country"`
	TrialExpires string `json:"trial_expires"`
}

// Result описывает тело успешного ответа.
type Result struct {
	Message string     `json:"message"`
	User    SignupUser `json:"user"`
}

// New создает новый Handler с переданными логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:      log,
		service:  service,
		validate: validator.New(),
	}
}

// ServeHTTP godoc
// @Summary Регистрация на пробный период
// @Description Создает запись пользователя и открывает трехдневный пробный период.
// @Tags Trial
// @Accept  json
// @Produce  json
// @Param request body models.SignupRequest true "Данные регистрации"
// @Success 201 {object} response.Response{data=Result} "Пробный период открыт"
// @Failure 400 {object} response.ErrorResponse "Некорректные данные"
// @Failure 409 {object} response.ErrorResponse "Пользователь уже зарегистрирован"
// @Failure 503 {object} response.ErrorResponse "Хранилище недоступно"
// @Router /signup [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.signup"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	var req models.SignupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Info("failed to decode request", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid request body"))
		return
	}

	if err := h.validate.Struct(req); err != nil {
		var verrs validator.ValidationErrors
		if !errors.As(err, &verrs) {
			log.Error("validation failed", sl.Err(err))
			w.WriteHeader(http.StatusBadRequest)
			render.JSON(w, r, response.Error("invalid request body"))
			return
		}
		log.Info("validation failed", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.ValidationError(verrs))
		return
	}

	rec, err := h.service.Signup(r.Context(), req.Email, req.JobKeywords, req.Country)
	if err != nil {
		status, resp := response.FromError(err)
		if status >= http.StatusInternalServerError {
			log.Error("failed to sign up", sl.Err(err))
		} else {
			log.Info("signup rejected", slog.Int("status", status), sl.Err(err))
		}
		w.WriteHeader(status)
		render.JSON(w, r, resp)
		return
	}

	log.Info("user signed up", sl.Email(rec.Email))
	w.WriteHeader(http.StatusCreated)
	render.JSON(w, r, response.OKWithData(Result{
		Message: "Signup successful! 3-day free trial started.",
		User: SignupUser{
			Email:        rec.Email,
			Country:      rec.Country,
			TrialExpires: rec.TrialExpires.UTC().Format(time.RFC3339),
		},
	}))
}
