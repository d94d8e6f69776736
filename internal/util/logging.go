package util

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"

	"foil-records-server/internal/model"
)

func LogError(message string, err error) error {
	log.Printf("%s: %v", message, err)
	return fmt.Errorf("%s: %w", message, err)
}

func HandleError(w http.ResponseWriter, message string, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)

	errorResponse := struct {
		Error   string `json:"error"`
		Message string `json:"message"`
		Code    int    `json:"code"`
	}{
		Error:   http.StatusText(statusCode),
		Message: message,
		Code:    statusCode,
	}

	json.NewEncoder(w).Encode(errorResponse)
}

// HandleFieldErrors : отдаёт список ошибок валидации по полям одним ответом
func HandleFieldErrors(w http.ResponseWriter, fieldErrors []model.FieldError) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusBadRequest)

	errorResponse := struct {
		Error  string             `json:"error"`
		Errors []model.FieldError `json:"errors"`
		Code   int                `json:"code"`
	}{
		Error:  http.StatusText(http.StatusBadRequest),
		Errors: fieldErrors,
		Code:   http.StatusBadRequest,
	}

	json.NewEncoder(w).Encode(errorResponse)
}
