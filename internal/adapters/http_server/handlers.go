// internal/adapters/http_server/handlers.go
package httpserver

import (
	"encoding/json"
	"fmt"
	"io"
	"math"
	"net/http"
	"strconv"

	"github.com/rs/zerolog/log"

	"nutricheck/internal/app"
	"nutricheck/internal/domain"
)

const (
	maxRequestBody = 64 << 10
	errorDetails   = "Check function logs for more information"
)

type Handlers struct {
	Menu   *app.MenuService
	Gate   *app.PasscodeGate // nil disables the admin routes
	Misses domain.MissReader // optional, served behind the gate
}

type errorBody struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

type passcodeRequest struct {
	Passcode string `json:"passcode"`
}

type passcodeResponse struct {
	Success           bool   `json:"success"`
	Error             string `json:"error,omitempty"`
	RemainingAttempts int    `json:"remainingAttempts"`
}

func (s *Server) MountHandlers(h *Handlers) {
	s.mux.Get("/healthz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(200); _, _ = w.Write([]byte("ok")) })
	s.mux.Post("/v1/menu", h.getMenu)
	s.mux.Post("/campusdish-menu", h.getMenu)
	if h.Gate != nil {
		s.mux.Post("/v1/admin/passcode", h.checkPasscode)
		s.mux.Get("/v1/admin/attempts", h.remainingAttempts)
		if h.Misses != nil {
			s.mux.Get("/v1/admin/misses", h.recentMisses)
		}
	}
}

// writeJSON marshals before touching the response so a failure never leaves partial JSON.
func writeJSON(w http.ResponseWriter, status int, v any) {
	body, err := json.Marshal(v)
	if err != nil {
		log.Error().Err(err).Msg("failed to marshal response")
		status = http.StatusInternalServerError
		body, _ = json.Marshal(errorBody{Error: "failed to encode response", Details: errorDetails})
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if _, err := w.Write(body); err != nil {
		log.Error().Err(err).Msg("failed to write response body")
	}
}

// writeError reports any menu failure as a 500 with the error text.
func writeError(w http.ResponseWriter, err error) {
	writeJSON(w, http.StatusInternalServerError, errorBody{Error: err.Error(), Details: errorDetails})
}

func (h *Handlers) getMenu(w http.ResponseWriter, r *http.Request) {
	var req domain.MenuRequest
	if err := json.NewDecoder(io.LimitReader(r.Body, maxRequestBody)).Decode(&req); err != nil {
		writeError(w, fmt.Errorf("invalid request body: %w", err))
		return
	}
	log.Debug().Str("location", req.LocationID).Str("date", req.Date).Msg("fetching menu")

	items, err := h.Menu.GetMenu(r.Context(), req.LocationID, req.Date)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, items)
}

func (h *Handlers) checkPasscode(w http.ResponseWriter, r *http.Request) {
	var req passcodeRequest
	if err := json.NewDecoder(io.LimitReader(r.Body, maxRequestBody)).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, passcodeResponse{Error: "Invalid passcode format"})
		return
	}

	res, err := h.Gate.Check(r.Context(), remoteIP(r), req.Passcode)
	if err != nil {
		log.Error().Err(err).Msg("passcode check failed")
		writeError(w, err)
		return
	}

	writeJSON(w, gateStatus(w, res), passcodeResponse{Success: res.Success, Error: res.Error, RemainingAttempts: res.Remaining})
}

// gateStatus maps a gate outcome to an HTTP status, setting Retry-After when locked.
func gateStatus(w http.ResponseWriter, res domain.PasscodeResult) int {
	switch res.Outcome {
	case "invalid":
		return http.StatusBadRequest
	case "wrong":
		return http.StatusUnauthorized
	case "locked":
		w.Header().Set("Retry-After", strconv.Itoa(int(math.Ceil(res.RetryAfter.Seconds()))))
		return http.StatusTooManyRequests
	case "disabled":
		return http.StatusServiceUnavailable
	}
	return http.StatusOK
}

func (h *Handlers) remainingAttempts(w http.ResponseWriter, r *http.Request) {
	n, err := h.Gate.Remaining(r.Context(), remoteIP(r))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]int{"remainingAttempts": n})
}

// recentMisses lists upstream failures; the passcode travels in X-Admin-Passcode.
func (h *Handlers) recentMisses(w http.ResponseWriter, r *http.Request) {
	res, err := h.Gate.Check(r.Context(), remoteIP(r), r.Header.Get("X-Admin-Passcode"))
	if err != nil {
		writeError(w, err)
		return
	}
	if !res.Success {
		writeJSON(w, gateStatus(w, res), passcodeResponse{Error: res.Error, RemainingAttempts: res.Remaining})
		return
	}

	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	misses, err := h.Misses.Recent(r.Context(), limit)
	if err != nil {
		log.Error().Err(err).Msg("list misses failed")
		writeError(w, err)
		return
	}
	if misses == nil {
		misses = []domain.Miss{}
	}
	writeJSON(w, http.StatusOK, misses)
}
