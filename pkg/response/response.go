package response

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/webdashhq/webdash/pkg/logger"
	"github.com/webdashhq/webdash/pkg/requestid"
)

// JSON writes v as a JSON body with the given status code.
func JSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// errorBody is the error contract shared with the dashboard UI.
type errorBody struct {
	Error string `json:"error"`
}

// Error classifies err, logs it with request context, and writes the
// `{"error": "..."}` body with the mapped status code. Client errors log at
// warn, server errors at error.
func Error(w http.ResponseWriter, r *http.Request, log *slog.Logger, err error) {
	status, message := Classify(err)

	level := slog.LevelError
	if status < http.StatusInternalServerError {
		level = slog.LevelWarn
	}
	log.LogAttrs(r.Context(), level, "request error",
		logger.RequestID(requestid.FromContext(r.Context())),
		logger.Error(err),
		slog.Int("status_code", status),
		slog.String("method", r.Method),
		slog.String("path", r.URL.Path),
	)

	JSON(w, status, errorBody{Error: message})
}
