package response

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/futig/practice-analyzer/internal/entity"
)

// JSON writes a JSON response
func JSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if data != nil {
		if err := json.NewEncoder(w).Encode(data); err != nil {
			// Can't change response at this point, just log
			http.Error(w, "Failed to encode response", http.StatusInternalServerError)
		}
	}
}

// Error writes an error response
func Error(w http.ResponseWriter, status int, message string) {
	JSON(w, status, entity.ErrorResponse{Error: message})
}

// Success writes a success response
func Success(w http.ResponseWriter, data any) {
	JSON(w, http.StatusOK, data)
}

// Attachment writes a downloadable file
func Attachment(w http.ResponseWriter, filename, contentType string, data []byte) {
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	w.Header().Set("Content-Length", fmt.Sprint(len(data)))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}
