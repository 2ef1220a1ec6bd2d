package router

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// canonicalMessages are the texts the API has always used for its error
// envelope; handler-specific messages override them when present.
var canonicalMessages = map[int]string{
	http.StatusBadRequest:          "Bad request",
	http.StatusUnauthorized:        "Unauthorized",
	http.StatusForbidden:           "Forbidden",
	http.StatusNotFound:            "Not found",
	http.StatusUnprocessableEntity: "Unprocessable",
	http.StatusInternalServerError: "Internal server error",
}

// errorHandler renders every error as the JSON envelope
// {success:false, error:<code>, message:<text>} and logs server faults.
func errorHandler(log *zap.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		code := http.StatusInternalServerError
		message := ""
		if he, ok := err.(*echo.HTTPError); ok {
			code = he.Code
			if m, ok := he.Message.(string); ok {
				message = m
			}
		}
		if code >= http.StatusInternalServerError {
			log.Error("request failed",
				zap.Error(err),
				zap.String("request_id", c.Response().Header().Get(echo.HeaderXRequestID)),
			)
			// Internal details stay out of the response body.
			message = ""
		}
		if message == "" {
			if m, ok := canonicalMessages[code]; ok {
				message = m
			} else {
				message = http.StatusText(code)
			}
		}

		_ = c.JSON(code, echo.Map{
			"success": false,
			"error":   code,
			"message": message,
		})
	}
}
