package apiErrors

import (
	"net/http"

	jsoniter "github.com/json-iterator/go"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

const (
	// Request validation
	ErrInvalidFilter  = "VAL_001"
	ErrInvalidRequest = "VAL_002"

	// Authentication
	ErrInvalidToken = "AUTH_001"
	ErrExpiredToken = "AUTH_002"

	// Dataset
	ErrDatasetUnavailable = "DATA_001"

	// Rendering
	ErrChartRender = "CHART_001"

	// Server
	ErrInternalServer = "SRV_001"
)

var httpStatusMap = map[string]int{
	ErrInvalidFilter:      http.StatusBadRequest,
	ErrInvalidRequest:     http.StatusBadRequest,
	ErrInvalidToken:       http.StatusUnauthorized,
	ErrExpiredToken:       http.StatusUnauthorized,
	ErrDatasetUnavailable: http.StatusServiceUnavailable,
	ErrChartRender:        http.StatusInternalServerError,
	ErrInternalServer:     http.StatusInternalServerError,
}

type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message,omitempty"`
	Details any    `json:"details,omitempty"`
}

// StatusFor returns the HTTP status of code, 500 when unknown.
func StatusFor(code string) int {
	status, exists := httpStatusMap[code]
	if !exists {
		return http.StatusInternalServerError
	}
	return status
}

func WriteError(w http.ResponseWriter, code string, message string, details any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(StatusFor(code))
	_ = json.NewEncoder(w).Encode(APIError{
		Code:    code,
		Message: message,
		Details: details,
	})
}

func FromError(err error, code string) APIError {
	if err == nil {
		return APIError{
			Code:    ErrInternalServer,
			Message: "unknown error",
		}
	}

	return APIError{
		Code:    code,
		Message: err.Error(),
	}
}
