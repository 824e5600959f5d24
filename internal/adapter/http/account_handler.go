package http

import (
	"net/http"

	"banking-ledger/internal/usecase/account"
	"banking-ledger/internal/usecase/ledger"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
)

type AccountHandler struct {
	uc     *account.Usecase
	ledger *ledger.Usecase
}

func NewAccountHandler(uc *account.Usecase, l *ledger.Usecase) *AccountHandler {
	return &AccountHandler{uc: uc, ledger: l}
}

type openAccountReq struct {
	AccountType    string          `json:"account_type"    validate:"required"`
	CustomerName   string          `json:"customer_name"   validate:"required,max=100"`
	CustomerEmail  string          `json:"customer_email"  validate:"required,email,max=100"`
	InitialBalance decimal.Decimal `json:"initial_balance" validate:"dgte0,dec2"`
}

func (h *AccountHandler) OpenAccount(c echo.Context) error {
	var req openAccountReq
	if ok, err := bindAndValidate(c, &req); !ok {
		return err
	}
	dto, err := h.uc.Open(c.Request().Context(), account.OpenAccountInput(req))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusCreated, dto)
}

func (h *AccountHandler) ListAccounts(c echo.Context) error {
	out, err := h.uc.List(c.Request().Context())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *AccountHandler) GetAccount(c echo.Context) error {
	p := accountPath{AccountNumber: c.Param("account_number")}
	if ok, err := validatePath(c, &p); !ok {
		return err
	}
	dto, err := h.uc.Get(c.Request().Context(), p.AccountNumber)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, dto)
}

func (h *AccountHandler) AccountTransactions(c echo.Context) error {
	p := accountPath{AccountNumber: c.Param("account_number")}
	if ok, err := validatePath(c, &p); !ok {
		return err
	}
	limit := 0
	if err := echo.QueryParamsBinder(c).Int("limit", &limit).BindError(); err != nil {
		return queryError(c, err)
	}
	out, err := h.ledger.AccountTransactions(c.Request().Context(), p.AccountNumber, limit)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}
