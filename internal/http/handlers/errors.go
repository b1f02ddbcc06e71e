package handlers

import (
	"errors"
	"net/http"

	apperrors "github.com/openshelf/catalog-intake-backend/internal/pkg/errors"
	"github.com/openshelf/catalog-intake-backend/internal/pkg/httpx"
)

// statusForError maps service errors onto HTTP statuses. Upstream agent
// failures surface as 502, timeouts as 504.
func statusForError(err error) (int, string) {
	switch {
	case errors.Is(err, apperrors.ErrNotFound):
		return http.StatusNotFound, "not_found"
	case errors.Is(err, apperrors.ErrInvalidArgument):
		return http.StatusBadRequest, "invalid_argument"
	case errors.Is(err, apperrors.ErrFileTooLarge):
		return http.StatusRequestEntityTooLarge, "file_too_large"
	case httpx.IsTimeout(err):
		return http.StatusGatewayTimeout, "upstream_timeout"
	case httpx.StatusCode(err) != 0:
		return http.StatusBadGateway, "upstream_error"
	default:
		return http.StatusInternalServerError, "internal"
	}
}
