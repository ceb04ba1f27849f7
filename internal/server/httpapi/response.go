package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/dmitrijs2005/penguintracker/internal/common"
	"github.com/dmitrijs2005/penguintracker/internal/server/services"
)

// ErrorResponse is the body of every non-2xx reply.
type ErrorResponse struct {
	Message string `json:"message"`
}

func (s *Server) writeJSON(w http.ResponseWriter, r *http.Request, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(data); err != nil {
		// headers are gone already
		s.logger.Error(r.Context(), "encode response", "error", err)
	}
}

func (s *Server) writeMessage(w http.ResponseWriter, r *http.Request, status int, msg string) {
	s.writeJSON(w, r, status, ErrorResponse{Message: msg})
}

// writeError maps service errors to status codes. Unknown errors are logged
// and answered with a generic 500.
func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	var svcErr *services.Error
	if errors.As(err, &svcErr) {
		status := http.StatusInternalServerError
		switch {
		case errors.Is(err, common.ErrValidation):
			status = http.StatusBadRequest
		case errors.Is(err, common.ErrorUnauthorized):
			status = http.StatusUnauthorized
		case errors.Is(err, common.ErrorNotFound):
			status = http.StatusNotFound
		case errors.Is(err, common.ErrorConflict):
			status = http.StatusConflict
		}
		s.writeMessage(w, r, status, svcErr.Message)
		return
	}

	s.logger.Error(r.Context(), "request failed", "error", err)
	s.writeMessage(w, r, http.StatusInternalServerError, "Internal server error")
}
