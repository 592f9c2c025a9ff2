package api

import (
	"net/http"

	echo "github.com/labstack/echo/v5"

	"github.com/nlacforge/promptimprove/pkg/domainerr"
)

// ErrorEnvelope is the JSON shape of every non-2xx response.
type ErrorEnvelope struct {
	Error            string          `json:"error"`
	Detail           string          `json:"detail,omitempty"`
	Message          string          `json:"message,omitempty"`
	DegradationFlags []string        `json:"degradation_flags,omitempty"`
}

// mapDomainError maps a DomainError's category (and, for LLM_PROVIDER,
// its error ID) to the HTTP status and envelope the taxonomy table
// requires.
func mapDomainError(derr domainerr.DomainError) *echo.HTTPError {
	switch derr.Category() {
	case domainerr.CategoryValidation:
		return echo.NewHTTPError(http.StatusBadRequest, ErrorEnvelope{
			Error: "Invalid input", Detail: derr.Error(),
		})
	case domainerr.CategoryLLMProvider:
		if derr.ErrorID() == domainerr.LLMTimeout {
			return echo.NewHTTPError(http.StatusGatewayTimeout, ErrorEnvelope{
				Error: "gateway_timeout", Message: derr.Error(),
			})
		}
		return echo.NewHTTPError(http.StatusServiceUnavailable, ErrorEnvelope{
			Error:            "service_unavailable",
			Message:          "LLM provider not configured or circuit breaker open",
			DegradationFlags: []string{"provider_unavailable"},
		})
	case domainerr.CategoryDatabase:
		if derr.ErrorID() == domainerr.DBCorruption {
			return echo.NewHTTPError(http.StatusInternalServerError, ErrorEnvelope{
				Error: "internal_error", Message: derr.Error(),
			})
		}
		return echo.NewHTTPError(http.StatusServiceUnavailable, ErrorEnvelope{
			Error: "service_unavailable", Message: derr.Error(),
		})
	case domainerr.CategoryDataCorruption:
		return echo.NewHTTPError(http.StatusInternalServerError, ErrorEnvelope{
			Error: "internal_error", Message: derr.Error(),
		})
	case domainerr.CategoryFileIO:
		return echo.NewHTTPError(http.StatusBadRequest, ErrorEnvelope{
			Error: "invalid_request", Detail: derr.Error(),
		})
	case domainerr.CategoryCacheOperation:
		// Cache failures degrade silently elsewhere in the pipeline and
		// should never reach this mapper as a request-failing error;
		// treated as internal_error if one ever does.
		return echo.NewHTTPError(http.StatusInternalServerError, ErrorEnvelope{
			Error: "internal_error", Message: derr.Error(),
		})
	default:
		return echo.NewHTTPError(http.StatusInternalServerError, ErrorEnvelope{
			Error: "internal_error", Message: derr.Error(),
		})
	}
}

// badRequest builds a 400 envelope for request-parsing failures that
// never reach a DomainError (malformed JSON body, bad query params).
func badRequest(errLabel, detail string) *echo.HTTPError {
	return echo.NewHTTPError(http.StatusBadRequest, ErrorEnvelope{Error: errLabel, Detail: detail})
}
