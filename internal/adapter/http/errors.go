package http

import (
	"errors"
	"log"
	"net/http"

	"banking-ledger/internal/domain/errs"

	"github.com/labstack/echo/v4"
)

// writeError maps the error taxonomy onto status codes. Persistence
// failures are logged and hidden behind a generic message.
func writeError(c echo.Context, err error) error {
	var ve *errs.ValidationError
	switch {
	case errors.As(err, &ve):
		return c.JSON(http.StatusUnprocessableEntity, ErrorResponse{
			Error:   "validation failed",
			Details: []FieldError{{Field: ve.Field, Message: ve.Message}},
		})
	case errors.Is(err, errs.ErrNotFound):
		return c.JSON(http.StatusNotFound, ErrorResponse{Error: err.Error()})
	case errors.Is(err, errs.ErrInvalidTransition), errors.Is(err, errs.ErrInsufficientFunds):
		return c.JSON(http.StatusConflict, ErrorResponse{Error: err.Error()})
	default:
		log.Printf("%s %s: %v", c.Request().Method, c.Path(), err)
		return c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal error"})
	}
}

// bindAndValidate decodes the body into req and runs the struct validator.
// On failure the response is already written and ok is false.
func bindAndValidate(c echo.Context, req any) (ok bool, err error) {
	if err := c.Bind(req); err != nil {
		return false, c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}
	if err := c.Validate(req); err != nil {
		return false, c.JSON(http.StatusUnprocessableEntity, ErrorResponse{
			Error:   "validation failed",
			Details: ToFieldErrors(err),
		})
	}
	return true, nil
}

type loanPath struct {
	LoanNumber string `json:"loan_number" validate:"loannum"`
}

type accountPath struct {
	AccountNumber string `json:"account_number" validate:"acct10"`
}

// validatePath checks path identifiers before they reach a usecase, so a
// malformed number is a 422 rather than a 404.
func validatePath(c echo.Context, p any) (ok bool, err error) {
	if err := c.Validate(p); err != nil {
		return false, c.JSON(http.StatusUnprocessableEntity, ErrorResponse{
			Error:   "validation failed",
			Details: ToFieldErrors(err),
		})
	}
	return true, nil
}

// queryError reports a malformed query parameter.
func queryError(c echo.Context, err error) error {
	field := "_"
	var be *echo.BindingError
	if errors.As(err, &be) {
		field = be.Field
	}
	return c.JSON(http.StatusUnprocessableEntity, ErrorResponse{
		Error:   "validation failed",
		Details: []FieldError{{Field: field, Message: "must be an integer"}},
	})
}
