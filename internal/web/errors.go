package web

// errors.go provides unified error response handling for the web layer.
//
// The error flow:
//  1. Handler encounters an error
//  2. Calls respondError(w, r, err, statusCode)
//  3. Error is mapped via dashboard.MapError to a user message
//  4. Technical error is logged with the request ID for correlation
//  5. User message is rendered as the error page or as JSON

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/cgdin/painel/internal/dashboard"
	"github.com/cgdin/painel/internal/logging"
	"github.com/cgdin/painel/internal/source"
	"github.com/cgdin/painel/internal/web/templates"
)

// ErrorResponse is the JSON body of API error responses.
type ErrorResponse struct {
	Error   string   `json:"error"`
	Message string   `json:"message"`
	Action  string   `json:"action,omitempty"`
	Code    string   `json:"code"`
	Details []string `json:"details,omitempty"`
}

// respondError logs err and answers with a user-facing message in the
// format the client asked for.
func (s *Server) respondError(w http.ResponseWriter, r *http.Request, err error, statusCode int) {
	userMsg := dashboard.MapError(err, s.data.Candidates())

	logger := logging.FromContext(r.Context())
	attrs := []any{
		"path", r.URL.Path,
		"method", r.Method,
		"status", statusCode,
		"error", err.Error(),
		"code", userMsg.Code,
	}
	if statusCode >= http.StatusInternalServerError && statusCode != http.StatusServiceUnavailable {
		logger.Error("request error", attrs...)
	} else {
		logger.Warn("request error", attrs...)
	}

	if wantsJSON(r) {
		respondErrorJSON(w, userMsg, statusCode)
		return
	}
	s.respondErrorHTML(w, r, userMsg, statusCode)
}

// statusFor picks the HTTP status for a data load failure.
func statusFor(err error) int {
	switch {
	case errors.Is(err, source.ErrNoData):
		return http.StatusServiceUnavailable
	case errors.Is(err, context.DeadlineExceeded), errors.Is(err, context.Canceled):
		return http.StatusGatewayTimeout
	}
	return http.StatusInternalServerError
}

func respondErrorJSON(w http.ResponseWriter, msg dashboard.UserMessage, statusCode int) {
	writeJSON(w, statusCode, ErrorResponse{
		Error:   msg.Message,
		Message: msg.Message,
		Action:  msg.Action,
		Code:    msg.Code,
		Details: msg.Details,
	})
}

// respondErrorHTML renders the error page in the regular layout.
func (s *Server) respondErrorHTML(w http.ResponseWriter, r *http.Request, msg dashboard.UserMessage, statusCode int) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(statusCode)
	page := templates.Layout(s.settings.Title, templates.ErrorPage(s.settings.Title, msg))
	if err := page.Render(r.Context(), w); err != nil {
		logging.FromContext(r.Context()).Error("render error page", "error", err)
	}
}

// wantsJSON checks if the client prefers JSON response.
func wantsJSON(r *http.Request) bool {
	if strings.Contains(r.Header.Get("Accept"), "application/json") {
		return true
	}
	// API routes default to JSON
	return strings.HasPrefix(r.URL.Path, "/api/")
}
