package server

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"net/http"

	"github.com/matzehuels/zbuilder/pkg/blob"
	"github.com/matzehuels/zbuilder/pkg/errors"
	"github.com/matzehuels/zbuilder/pkg/integrations"
	"github.com/matzehuels/zbuilder/pkg/selection"
)

type errorResponse struct {
	Code    errors.Code `json:"code"`
	Message string      `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, err error) {
	code := errors.GetCode(err)
	if code == "" {
		code = errors.ErrCodeInternal
	}
	writeJSON(w, statusFor(err), errorResponse{Code: code, Message: errors.UserMessage(err)})
}

// statusFor maps an error to its HTTP status.
func statusFor(err error) int {
	switch {
	case stderrors.Is(err, selection.ErrUnknownModule):
		return http.StatusBadRequest
	case isNotFound(err):
		return http.StatusNotFound
	case stderrors.Is(err, context.Canceled):
		return 499
	case stderrors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	}

	var rl *errors.RateLimitedError
	if stderrors.As(err, &rl) {
		return http.StatusServiceUnavailable
	}

	switch errors.GetCode(err) {
	case errors.ErrCodeMinifyParse:
		return http.StatusUnprocessableEntity
	case errors.ErrCodeUnknownModule, errors.ErrCodeEmptySelection,
		errors.ErrCodeInvalidInput, errors.ErrCodeInvalidModule:
		return http.StatusBadRequest
	case errors.ErrCodeNotFound, errors.ErrCodeBundleNotFound, errors.ErrCodeMetadataNotFound:
		return http.StatusNotFound
	case errors.ErrCodeRateLimited:
		return http.StatusServiceUnavailable
	case errors.ErrCodeFetchFailed, errors.ErrCodeNetwork:
		return http.StatusBadGateway
	case errors.ErrCodeUnsupported:
		return http.StatusNotImplemented
	default:
		return http.StatusInternalServerError
	}
}

func isNotFound(err error) bool {
	return stderrors.Is(err, blob.ErrNotFound) || stderrors.Is(err, integrations.ErrNotFound)
}
