package middleware

import (
	"encoding/json"
	"net/http"

	"github.com/JinxSeven/Risk-360/internal"
)

// writeAppError renders err with the same envelope the handlers use.
func writeAppError(w http.ResponseWriter, err *internal.AppError) {
	status, body := err.ToHTTPResponse()
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
