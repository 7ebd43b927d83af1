// Package home отдает приветственный документ со списком доступных эндпоинтов.
package home

import (
	"net/http"

	"github.com/go-chi/render"
)

// Welcome описывает тело ответа на GET /.
type Welcome struct {
	Message   string            `json:"message"`
	Endpoints map[string]string `json:"endpoints"`
}

// Handler отдает Welcome с путями относительно prefix.
func Handler(prefix string) http.HandlerFunc {
	body := Welcome{
		Message: "Welcome to JobHunterPro API",
		Endpoints: map[string]string{
			"signup":  "POST " + prefix + "/signup",
			"run":     "GET " + prefix + "/run?email=",
			"upgrade": "GET " + prefix + "/upgrade?email=",
			"status":  "GET " + prefix + "/status?email=",
			"stats":   "GET " + prefix + "/stats",
			"health":  "GET " + prefix + "/health",
		},
	}
	return func(w http.ResponseWriter, r *http.Request) {
		render.JSON(w, r, body)
	}
}
