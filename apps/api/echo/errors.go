package echoapi

import (
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/pkg/errors"

	"github.com/princebhanderi/ed-tech-platform/core"
)

var (
	errUnauthorized  = echo.NewHTTPError(http.StatusUnauthorized, "user not authenticated")
	errHttpForbidden = echo.NewHTTPError(http.StatusForbidden, "permission denied")
	errAdminsOnly    = echo.NewHTTPError(http.StatusForbidden, "This is a protected route for admins")
)

// opError carries the failure message of the endpoint that returned err.
type opError struct {
	message string
	err     error
}

func (e *opError) Error() string { return e.message + ": " + e.err.Error() }
func (e *opError) Unwrap() error { return e.err }
func (e *opError) Cause() error  { return e.err }

func failed(message string, err error) error {
	if err == nil {
		return nil
	}
	return &opError{message: message, err: err}
}

type errorResponse struct {
	Success bool              `json:"success"`
	Message string            `json:"message"`
	Error   string            `json:"error,omitempty"`
	Errors  map[string]string `json:"errors,omitempty"`
}

func statusOf(kind core.ErrorKind) int {
	switch kind {
	case core.KindNotFound, core.KindNoContent:
		return http.StatusNotFound
	case core.KindInvalidArgument:
		return http.StatusBadRequest
	case core.KindConflict:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// newAppHTTPErrorHandler returns a custom echo.HTTPErrorHandler that knows how to handle our errors.
// signalShutdown is called in order to gracefully shutdown the Server whenever a core.shutdown error is caught.
func newAppHTTPErrorHandler(logger core.Logger, signalShutdown func()) echo.HTTPErrorHandler {
	return func(err error, ctx echo.Context) {
		code, res := render(err)

		if code >= http.StatusInternalServerError {
			usr, _ := contextUser(ctx)
			logger.Error(fmt.Sprintf("%s %s: %v", ctx.Request().Method, ctx.Request().URL.Path, err), err, usr)

			// shutting down...
			if core.IsShutdown(err) {
				signalShutdown()
			}
		}

		if !ctx.Response().Committed {
			if ctx.Request().Method == http.MethodHead { // Issue #608
				err = ctx.NoContent(code)
			} else {
				err = ctx.JSON(code, res)
			}
			if err != nil {
				ctx.Echo().Logger.Error(err)
			}
		}
	}
}

func render(err error) (int, errorResponse) {
	var httpErr *echo.HTTPError
	if errors.As(err, &httpErr) {
		if httpErr == middleware.ErrJWTMissing {
			return http.StatusUnauthorized, errorResponse{Message: fmt.Sprint(httpErr.Message)}
		}
		if herr, ok := httpErr.Internal.(*echo.HTTPError); ok {
			httpErr = herr
		}
		return httpErr.Code, errorResponse{Message: fmt.Sprint(httpErr.Message)}
	}

	var coreErr *core.Error
	if errors.As(err, &coreErr) && coreErr.Kind != core.KindStoreFailure {
		return statusOf(coreErr.Kind), errorResponse{Message: coreErr.Message, Errors: coreErr.Fields}
	}

	// any other error is a server error
	res := errorResponse{Message: http.StatusText(http.StatusInternalServerError)}
	var op *opError
	if errors.As(err, &op) {
		res.Message = op.message
		res.Error = errors.Cause(op.err).Error()
	}
	return http.StatusInternalServerError, res
}
