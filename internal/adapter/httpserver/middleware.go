package httpserver

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pscheid92/statuspulse/internal/metrics"
	"github.com/pscheid92/statuspulse/internal/platform/correlation"
	apperrors "github.com/pscheid92/statuspulse/internal/platform/errors"
)

func correlationMiddleware(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx := correlation.WithID(c.Request().Context(), correlation.NewID())
		c.SetRequest(c.Request().WithContext(ctx))
		return next(c)
	}
}

// ErrorHandlingMiddleware renders structured errors as JSON. echo's own
// HTTP errors pass through to the server's HTTPErrorHandler. hm may be nil.
func ErrorHandlingMiddleware(hm *metrics.HTTPMetrics) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			err := next(c)
			if err == nil {
				return nil
			}

			var httpErr *echo.HTTPError
			if errors.As(err, &httpErr) {
				return err
			}

			structuredErr := apperrors.AsStructuredError(err)
			return writeError(c, hm, structuredErr.HTTPStatus(), structuredErr)
		}
	}
}

// HTTPErrorHandler renders errors that reach echo directly, such as the
// ones middleware hands to c.Error, with the same structured mapping.
func HTTPErrorHandler(hm *metrics.HTTPMetrics) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if err == nil || c.Response().Committed {
			return
		}

		var structuredErr *apperrors.Error
		var status int
		var httpErr *echo.HTTPError
		if errors.As(err, &httpErr) {
			// Keep echo's status; 405 and 413 have no error type of their own.
			structuredErr = WrapHTTPError(httpErr)
			status = httpErr.Code
		} else {
			structuredErr = apperrors.AsStructuredError(err)
			status = structuredErr.HTTPStatus()
		}

		if err := writeError(c, hm, status, structuredErr); err != nil {
			slog.ErrorContext(c.Request().Context(), "Failed to write error response", "error", err)
		}
	}
}

func writeError(c echo.Context, hm *metrics.HTTPMetrics, status int, err *apperrors.Error) error {
	logError(c, err)
	if hm != nil {
		hm.ErrorsTotal.WithLabelValues(string(err.Type)).Inc()
	}

	if c.Request().Method == http.MethodHead {
		if err := c.NoContent(status); err != nil {
			return fmt.Errorf("failed to write error response: %w", err)
		}
		return nil
	}
	if err := c.JSON(status, err.ToResponse()); err != nil {
		return fmt.Errorf("failed to write error response: %w", err)
	}
	return nil
}

func logError(c echo.Context, err *apperrors.Error) {
	ctx := c.Request().Context()
	attrs := []any{
		"error_type", err.Type,
		"message", err.Message,
		"path", c.Request().URL.Path,
		"method", c.Request().Method,
		"status", err.HTTPStatus(),
	}

	for k, v := range err.Context {
		attrs = append(attrs, k, v)
	}

	switch err.Type {
	case apperrors.TypeValidation:
		slog.InfoContext(ctx, "Validation error", attrs...)
	case apperrors.TypeNotFound:
		slog.InfoContext(ctx, "Not found", attrs...)
	case apperrors.TypeRateLimited:
		slog.WarnContext(ctx, "Rate limited", attrs...)
	case apperrors.TypeInternal:
		if err.Cause != nil {
			attrs = append(attrs, "cause", err.Cause)
		}
		slog.ErrorContext(ctx, "Internal error", attrs...)
	case apperrors.TypeExternal:
		if err.Cause != nil {
			attrs = append(attrs, "cause", err.Cause)
		}
		slog.ErrorContext(ctx, "External service error", attrs...)
	default:
		slog.ErrorContext(ctx, "Unknown error type", attrs...)
	}
}

// WrapHTTPError converts an echo.HTTPError into a structured error.
func WrapHTTPError(httpErr *echo.HTTPError) *apperrors.Error {
	message := "internal server error"
	if msg, ok := httpErr.Message.(string); ok {
		message = msg
	}

	switch httpErr.Code {
	case http.StatusBadRequest:
		return apperrors.ValidationError(message)
	case http.StatusNotFound, http.StatusMethodNotAllowed:
		return apperrors.NotFoundError(message)
	case http.StatusTooManyRequests:
		return apperrors.RateLimitedError(message)
	case http.StatusBadGateway, http.StatusServiceUnavailable:
		return apperrors.ExternalError(message, httpErr.Internal)
	default:
		return apperrors.InternalError(message, httpErr.Internal)
	}
}
