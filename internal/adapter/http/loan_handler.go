package http

import (
	"net/http"

	"banking-ledger/internal/usecase/loan"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
)

type LoanHandler struct{ uc *loan.Usecase }

func NewLoanHandler(uc *loan.Usecase) *LoanHandler { return &LoanHandler{uc: uc} }

type applyLoanReq struct {
	AccountNumber   string          `json:"account_number"   validate:"required,acct10"`
	LoanType        string          `json:"loan_type"        validate:"required"`
	PrincipalAmount decimal.Decimal `json:"principal_amount" validate:"dpos,dec2"`
	InterestRate    decimal.Decimal `json:"interest_rate"    validate:"dgte0,dec3"`
	TermMonths      int             `json:"term_months"      validate:"gte=1"`
	Purpose         string          `json:"purpose"          validate:"max=500"`
}

type calculateReq struct {
	PrincipalAmount decimal.Decimal `json:"principal_amount" validate:"dpos,dec2"`
	InterestRate    decimal.Decimal `json:"interest_rate"    validate:"dgte0,dec3"`
	TermMonths      int             `json:"term_months"      validate:"gte=1,lte=600"`
}

func (h *LoanHandler) ApplyLoan(c echo.Context) error {
	var req applyLoanReq
	if ok, err := bindAndValidate(c, &req); !ok {
		return err
	}
	dto, err := h.uc.Apply(c.Request().Context(), loan.ApplyInput(req))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusCreated, dto)
}

func (h *LoanHandler) ListLoans(c echo.Context) error {
	out, err := h.uc.List(c.Request().Context(), c.QueryParam("status"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *LoanHandler) GetLoan(c echo.Context) error {
	p := loanPath{LoanNumber: c.Param("loan_number")}
	if ok, err := validatePath(c, &p); !ok {
		return err
	}
	dto, err := h.uc.Get(c.Request().Context(), p.LoanNumber)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, dto)
}

func (h *LoanHandler) Calculate(c echo.Context) error {
	var req calculateReq
	if ok, err := bindAndValidate(c, &req); !ok {
		return err
	}
	dto, err := h.uc.Calculate(loan.CalculateInput(req))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, dto)
}

func (h *LoanHandler) Schedule(c echo.Context) error {
	p := loanPath{LoanNumber: c.Param("loan_number")}
	if ok, err := validatePath(c, &p); !ok {
		return err
	}
	out, err := h.uc.Schedule(c.Request().Context(), p.LoanNumber)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}
