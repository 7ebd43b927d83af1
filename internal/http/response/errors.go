package response

import (
	"errors"
	"net/http"

	"github.com/magabrotheeeer/jobhunter/internal/services/trial"
	"github.com/magabrotheeeer/jobhunter/internal/storage"
)

// Сообщения, которые видит клиент.
const (
	MsgUserNotFound = "User not found. Please signup first."
	MsgUserExists   = "User already exists"
	MsgTrialExpired = "Trial expired. Please upgrade to continue."
	MsgUnavailable  = "service temporarily unavailable"
	MsgInternal     = "internal server error"
)

// FromError переводит ошибку сервиса в HTTP-код и тело ответа.
// Подробности внутренних ошибок наружу не отдаются.
func FromError(err error) (int, ErrorResponse) {
	var (
		inputErr   *trial.InputError
		expiredErr *trial.TrialExpiredError
		dupErr     *trial.DuplicateSignupError
	)

	switch {
	case errors.As(err, &inputErr):
		return http.StatusBadRequest, Error(inputErr.Reason)
	case errors.Is(err, trial.ErrInvalidInput):
		return http.StatusBadRequest, Error("invalid input")
	case errors.As(err, &expiredErr):
		resp := Error(MsgTrialExpired)
		resp.UpgradeURL = expiredErr.UpgradeURL
		return http.StatusForbidden, resp
	case errors.As(err, &dupErr):
		resp := Error(MsgUserExists)
		resp.TrialStatus = "expired"
		if dupErr.Status.TrialActive {
			resp.TrialStatus = "active"
		}
		return http.StatusConflict, resp
	case errors.Is(err, storage.ErrAlreadyExists):
		return http.StatusConflict, Error(MsgUserExists)
	case errors.Is(err, storage.ErrNotFound):
		return http.StatusNotFound, Error(MsgUserNotFound)
	case errors.Is(err, storage.ErrUnavailable):
		return http.StatusServiceUnavailable, Error(MsgUnavailable)
	default:
		return http.StatusInternalServerError, Error(MsgInternal)
	}
}
