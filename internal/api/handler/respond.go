package handler

import (
	"context"
	"net/http"

	jsoniter "github.com/json-iterator/go"
	"github.com/pkg/errors"
	"github.com/vfg2006/bikeshare-dashboard/internal/domain"
	"github.com/vfg2006/bikeshare-dashboard/internal/usecases/dashboard"
	"github.com/vfg2006/bikeshare-dashboard/pkg/apiErrors"
	"github.com/vfg2006/bikeshare-dashboard/pkg/log"
	"github.com/vfg2006/bikeshare-dashboard/pkg/utils"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// envelope wraps every pipeline response.
type envelope struct {
	RunID    string        `json:"run_id"`
	Filter   domain.Filter `json:"filter"`
	Data     any           `json:"data"`
	Warnings []string      `json:"warnings,omitempty"`
}

// withRunID tags the request context with a fresh run id.
func withRunID(r *http.Request) (context.Context, string) {
	runID, err := utils.GenerateID()
	if err != nil {
		log.ForContext(r.Context()).WithError(err).Warn("handler: could not generate run id")
		return r.Context(), ""
	}
	return log.WithRunID(r.Context(), runID), runID
}

func writeJSON(ctx context.Context, w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		log.ForContext(ctx).WithError(err).Error("handler: encode response")
	}
}

// errorCode maps a pipeline error to its API error code.
func errorCode(err error) string {
	switch {
	case errors.Is(err, domain.ErrInvalidFilter):
		return apiErrors.ErrInvalidFilter
	case errors.Is(err, dashboard.ErrDatasetUnavailable):
		return apiErrors.ErrDatasetUnavailable
	default:
		return apiErrors.ErrInternalServer
	}
}

func writePipelineError(ctx context.Context, w http.ResponseWriter, err error) {
	apiErr := apiErrors.FromError(err, errorCode(err))

	logger := log.ForContext(ctx).WithError(err)
	if apiErrors.StatusFor(apiErr.Code) >= http.StatusInternalServerError {
		logger.Error("handler: pipeline failed")
	} else {
		logger.Warn("handler: rejected request")
	}

	apiErrors.WriteError(w, apiErr.Code, apiErr.Message, map[string]string{"run_id": log.GetRunID(ctx)})
}
