package web

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"sambo-academy/internal/models"
)

var errMissingTrainer = echo.NewHTTPError(http.StatusUnauthorized, "missing or malformed X-Trainer-ID header")

// newHTTPErrorHandler maps model errors to status codes and renders them as {"error": ...}.
func newHTTPErrorHandler(logger *zap.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		var code int
		var message interface{}

		switch origErr := errors.Cause(err).(type) {
		case *echo.HTTPError:
			if origErr.Internal != nil {
				if herr, ok := origErr.Internal.(*echo.HTTPError); ok {
					origErr = herr
				}
			}
			code = origErr.Code
			message = origErr.Message
		case validator.ValidationErrors:
			fldErrs := make(map[string]string, len(origErr))
			for _, vErr := range origErr {
				fldErrs[vErr.Field()] = "failed on " + vErr.Tag()
			}
			code = http.StatusBadRequest
			message = fldErrs
		case *models.ValidationError:
			if origErr.Fields != nil {
				fldErrs := make(map[string]string, len(origErr.Fields))
				for _, fErr := range origErr.Fields {
					fldErrs[fErr.Field] = fErr.Error
				}
				message = fldErrs
			} else {
				message = origErr.Error()
			}
			code = http.StatusBadRequest
		default:
			switch {
			case errors.Is(err, models.ErrNotFound):
				code, message = http.StatusNotFound, err.Error()
			case errors.Is(err, models.ErrForbidden):
				code, message = http.StatusForbidden, err.Error()
			case errors.Is(err, models.ErrConflict):
				code, message = http.StatusConflict, err.Error()
			case errors.Is(err, models.ErrInvalidInput):
				code, message = http.StatusBadRequest, err.Error()
			default:
				code = http.StatusInternalServerError
				message = http.StatusText(http.StatusInternalServerError)
				logger.Error("request failed",
					zap.Error(err),
					zap.String("method", c.Request().Method),
					zap.String("path", c.Path()),
				)
			}
		}

		if c.Echo().Debug {
			message = err.Error()
		}
		if m, ok := message.(string); ok {
			message = echo.Map{"error": m}
		}

		if !c.Response().Committed {
			if c.Request().Method == http.MethodHead {
				err = c.NoContent(code)
			} else {
				err = c.JSON(code, message)
			}
			if err != nil {
				logger.Error("write error response", zap.Error(err))
			}
		}
	}
}
