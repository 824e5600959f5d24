package http

import (
	"net/http"

	"banking-ledger/internal/usecase/approval"

	"github.com/labstack/echo/v4"
)

type ApprovalHandler struct{ uc *approval.Usecase }

func NewApprovalHandler(uc *approval.Usecase) *ApprovalHandler { return &ApprovalHandler{uc: uc} }

type rejectLoanReq struct {
	Reason string `json:"reason" validate:"max=1000"`
}

func (h *ApprovalHandler) ApproveLoan(c echo.Context) error {
	p := loanPath{LoanNumber: c.Param("loan_number")}
	if ok, err := validatePath(c, &p); !ok {
		return err
	}
	dto, err := h.uc.Approve(c.Request().Context(), p.LoanNumber)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, dto)
}

// RejectLoan accepts an empty body; the reason then defaults.
func (h *ApprovalHandler) RejectLoan(c echo.Context) error {
	p := loanPath{LoanNumber: c.Param("loan_number")}
	if ok, err := validatePath(c, &p); !ok {
		return err
	}
	var req rejectLoanReq
	if ok, err := bindAndValidate(c, &req); !ok {
		return err
	}
	dto, err := h.uc.Reject(c.Request().Context(), approval.RejectInput{
		LoanNumber: p.LoanNumber,
		Reason:     req.Reason,
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, dto)
}
