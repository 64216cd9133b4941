package apperr

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"
)

// StatusCode maps the error taxonomy to HTTP response codes. Extraction and
// generation failures are upstream capabilities, so they surface as 502.
func StatusCode(err error) int {
	switch {
	case errors.Is(err, ErrAccessDenied):
		return http.StatusForbidden
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrAlreadyExists):
		return http.StatusConflict
	case errors.Is(err, ErrExtractionFailed), errors.Is(err, ErrGenerationFailed):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func GlobalErrorHandler() echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		var ve *ValidationError
		if errors.As(err, &ve) {
			_ = c.JSON(http.StatusBadRequest, map[string]string{"error": ve.Message, "title": "validation error"})
			return
		}

		var he *echo.HTTPError
		if errors.As(err, &he) {
			msg := fmt.Sprintf("%v", he.Message)
			_ = c.JSON(he.Code, map[string]string{"error": msg})
			return
		}

		code := StatusCode(err)
		if code == http.StatusInternalServerError {
			slog.Error("Unhandled error", "error", err)
			_ = c.JSON(code, map[string]string{"error": "internal server error"})
			return
		}

		_ = c.JSON(code, map[string]string{"error": err.Error()})
	}
}
