package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/UdayKhare09/Elrond/internal/common"
)

// ErrorResponse is the body of every non-2xx response.
type ErrorResponse struct {
	Message   string `json:"message"`
	Status    int    `json:"status"`
	Timestamp string `json:"timestamp"`
	Path      string `json:"path"`
}

var errorStatuses = []struct {
	err    error
	status int
}{
	{common.ErrorValidation, http.StatusBadRequest},
	{common.ErrDuplicateUser, http.StatusConflict},
	{common.ErrUserNotFound, http.StatusNotFound},
	{common.ErrTokenNotFound, http.StatusNotFound},
	{common.ErrTokenExpired, http.StatusGone},
	{common.ErrInvalidCredentials, http.StatusUnauthorized},
	{common.ErrEmailNotVerified, http.StatusForbidden},
	{common.ErrInvalidToken, http.StatusUnauthorized},
	{common.ErrInvalidCode, http.StatusUnauthorized},
	{common.ErrMfaNotSetUp, http.StatusConflict},
	{common.ErrMfaNotEnabled, http.StatusConflict},
	{common.ErrMfaAlreadyEnabled, http.StatusConflict},
}

// statusFor maps a service error to an HTTP status and client-safe message.
// Unknown errors become 500 with a generic message.
func statusFor(err error) (int, string) {
	for _, m := range errorStatuses {
		if errors.Is(err, m.err) {
			if m.err == common.ErrorValidation {
				// keep the field details, drop the sentinel prefix
				return m.status, strings.TrimPrefix(err.Error(), common.ErrorValidation.Error()+": ")
			}
			return m.status, m.err.Error()
		}
	}
	return http.StatusInternalServerError, common.ErrorInternal.Error()
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status, msg := statusFor(err)
	if status == http.StatusInternalServerError {
		s.logger.Error(r.Context(), "request failed", "path", r.URL.Path, "error", err)
	}
	writeJSON(w, status, ErrorResponse{
		Message:   msg,
		Status:    status,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Path:      r.URL.Path,
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func (s *Server) handleNotFound(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusNotFound, ErrorResponse{
		Message:   "not found",
		Status:    http.StatusNotFound,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Path:      r.URL.Path,
	})
}

func (s *Server) handleMethodNotAllowed(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusMethodNotAllowed, ErrorResponse{
		Message:   "method not allowed",
		Status:    http.StatusMethodNotAllowed,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Path:      r.URL.Path,
	})
}
