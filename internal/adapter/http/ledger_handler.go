package http

import (
	"net/http"

	"banking-ledger/internal/usecase/ledger"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
)

type LedgerHandler struct{ uc *ledger.Usecase }

func NewLedgerHandler(uc *ledger.Usecase) *LedgerHandler { return &LedgerHandler{uc: uc} }

type payLoanReq struct {
	PaymentAmount decimal.Decimal `json:"payment_amount" validate:"dpos,dec2"`
}

func (h *LedgerHandler) DisburseLoan(c echo.Context) error {
	p := loanPath{LoanNumber: c.Param("loan_number")}
	if ok, err := validatePath(c, &p); !ok {
		return err
	}
	dto, err := h.uc.Disburse(c.Request().Context(), p.LoanNumber)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, dto)
}

func (h *LedgerHandler) PayLoan(c echo.Context) error {
	p := loanPath{LoanNumber: c.Param("loan_number")}
	if ok, err := validatePath(c, &p); !ok {
		return err
	}
	var req payLoanReq
	if ok, err := bindAndValidate(c, &req); !ok {
		return err
	}
	dto, err := h.uc.Pay(c.Request().Context(), ledger.PayInput{
		LoanNumber:    p.LoanNumber,
		PaymentAmount: req.PaymentAmount,
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, dto)
}

func (h *LedgerHandler) LoanTransactions(c echo.Context) error {
	p := loanPath{LoanNumber: c.Param("loan_number")}
	if ok, err := validatePath(c, &p); !ok {
		return err
	}
	out, err := h.uc.LoanTransactions(c.Request().Context(), p.LoanNumber)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *LedgerHandler) ListTransactions(c echo.Context) error {
	page, pageSize := 1, ledger.DefaultPageSize
	err := echo.QueryParamsBinder(c).
		Int("page", &page).
		Int("page_size", &pageSize).
		BindError()
	if err != nil {
		return queryError(c, err)
	}
	out, err := h.uc.List(c.Request().Context(), page, pageSize)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}
