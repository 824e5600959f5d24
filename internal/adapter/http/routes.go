package http

import (
	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Routes groups the handlers mounted by Register.
type Routes struct {
	Health    *Handler
	Accounts  *AccountHandler
	Loans     *LoanHandler
	Approvals *ApprovalHandler
	Ledger    *LedgerHandler
}

// Register mounts every route on e. mutating wraps only the POST routes.
func (r Routes) Register(e *echo.Echo, mutating ...echo.MiddlewareFunc) {
	e.GET("/health", r.Health.Health)
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	e.POST("/accounts", r.Accounts.OpenAccount, mutating...)
	e.GET("/accounts", r.Accounts.ListAccounts)
	e.GET("/accounts/:account_number", r.Accounts.GetAccount)
	e.GET("/accounts/:account_number/transactions", r.Accounts.AccountTransactions)

	e.POST("/loans", r.Loans.ApplyLoan, mutating...)
	e.GET("/loans", r.Loans.ListLoans)
	e.POST("/loans/calculate", r.Loans.Calculate)
	e.GET("/loans/:loan_number", r.Loans.GetLoan)
	e.GET("/loans/:loan_number/schedule", r.Loans.Schedule)
	e.GET("/loans/:loan_number/transactions", r.Ledger.LoanTransactions)

	e.POST("/loans/:loan_number/approve", r.Approvals.ApproveLoan, mutating...)
	e.POST("/loans/:loan_number/reject", r.Approvals.RejectLoan, mutating...)
	e.POST("/loans/:loan_number/disburse", r.Ledger.DisburseLoan, mutating...)
	e.POST("/loans/:loan_number/pay", r.Ledger.PayLoan, mutating...)

	e.GET("/transactions", r.Ledger.ListTransactions)
}
