package http

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	stdhttp "net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"banking-ledger/internal/adapter/repository/mysql"
	"banking-ledger/internal/domain/account"
	"banking-ledger/internal/domain/loan"
	"banking-ledger/internal/testutil/testdb"
	ucAccount "banking-ledger/internal/usecase/account"
	ucApproval "banking-ledger/internal/usecase/approval"
	ucLedger "banking-ledger/internal/usecase/ledger"
	ucLoan "banking-ledger/internal/usecase/loan"
	"banking-ledger/internal/usecase/shared"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"
)

// -------- helpers --------

func newTestServer(t *testing.T) *echo.Echo {
	t.Helper()
	e, _ := newTestServerDB(t)
	return e
}

func newTestServerDB(t *testing.T) (*echo.Echo, *gorm.DB) {
	t.Helper()
	gdb := testdb.Open(t)
	accounts := mysql.NewAccountRepository(gdb)
	loans := mysql.NewLoanRepository(gdb)
	txns := mysql.NewTransactionRepository(gdb)
	tx := mysql.NewGormUoW(gdb)
	policy := loan.DefaultPolicy()

	ledger := ucLedger.NewUsecase(tx, accounts, loans, txns, policy)
	e := echo.New()
	e.Validator = NewValidator()
	Routes{
		Health:    NewHandler(nil),
		Accounts:  NewAccountHandler(ucAccount.NewUsecase(accounts, loans, txns, policy), ledger),
		Loans:     NewLoanHandler(ucLoan.NewUsecase(tx, loans, accounts, txns, policy)),
		Approvals: NewApprovalHandler(ucApproval.NewUsecase(tx)),
		Ledger:    NewLedgerHandler(ledger),
	}.Register(e)
	return e, gdb
}

func do(t *testing.T, e *echo.Echo, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var rdr *bytes.Reader
	switch b := body.(type) {
	case nil:
		rdr = bytes.NewReader(nil)
	case string:
		rdr = bytes.NewReader([]byte(b))
	default:
		raw, err := json.Marshal(b)
		if err != nil {
			t.Fatalf("marshal: %v", err)
		}
		rdr = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, rdr)
	if body != nil {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	if err := json.Unmarshal(rec.Body.Bytes(), &out); err != nil {
		t.Fatalf("bad json: %v; raw=%s", err, rec.Body.String())
	}
	return out
}

func expectStatus(t *testing.T, rec *httptest.ResponseRecorder, want int) {
	t.Helper()
	if rec.Code != want {
		t.Fatalf("status = %d, want %d; body=%s", rec.Code, want, rec.Body.String())
	}
}

func openAccount(t *testing.T, e *echo.Echo, balance string) string {
	t.Helper()
	rec := do(t, e, stdhttp.MethodPost, "/accounts", map[string]any{
		"account_type":    "checking",
		"customer_name":   "Katherine Johnson",
		"customer_email":  "katherine@example.com",
		"initial_balance": balance,
	})
	expectStatus(t, rec, stdhttp.StatusCreated)
	return decode[shared.AccountDTO](t, rec).AccountNumber
}

func applyLoan(t *testing.T, e *echo.Echo, accountNumber string, principal any) string {
	t.Helper()
	rec := do(t, e, stdhttp.MethodPost, "/loans", map[string]any{
		"account_number":   accountNumber,
		"loan_type":        "personal",
		"principal_amount": principal,
		"interest_rate":    6,
		"term_months":      60,
	})
	expectStatus(t, rec, stdhttp.StatusCreated)
	return decode[shared.LoanDTO](t, rec).LoanNumber
}

// -------- tests --------

func TestHealth_ReturnsOKWithRFC3339NanoUTC(t *testing.T) {
	e := newTestServer(t)
	start := time.Now().UTC()

	rec := do(t, e, stdhttp.MethodGet, "/health", nil)
	expectStatus(t, rec, stdhttp.StatusOK)

	ct := rec.Header().Get(echo.HeaderContentType)
	if !strings.HasPrefix(strings.ToLower(ct), "application/json") {
		t.Fatalf("expected Content-Type application/json, got %q", ct)
	}
	body := decode[struct {
		Status string `json:"status"`
		Time   string `json:"time"`
	}](t, rec)
	if body.Status != "ok" {
		t.Fatalf(`expected status "ok", got %q`, body.Status)
	}
	parsed, err := time.Parse(time.RFC3339Nano, body.Time)
	if err != nil {
		t.Fatalf("time not RFC3339Nano: %v (value=%q)", err, body.Time)
	}
	if parsed.Location() != time.UTC {
		t.Fatalf("expected UTC location, got %v", parsed.Location())
	}
	if parsed.Before(start.Add(-2 * time.Second)) {
		t.Fatalf("stale time: %v", parsed)
	}
}

func TestHealth_StorePing(t *testing.T) {
	tests := []struct {
		name       string
		ping       func(context.Context) error
		wantCode   int
		wantStatus string
		wantStore  string
	}{
		{"store up", func(context.Context) error { return nil }, stdhttp.StatusOK, "ok", "up"},
		{"store down", func(context.Context) error { return errors.New("dial tcp: refused") }, stdhttp.StatusServiceUnavailable, "degraded", "down"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := echo.New()
			e.GET("/health", NewHandler(tt.ping).Health)
			rec := do(t, e, stdhttp.MethodGet, "/health", nil)
			expectStatus(t, rec, tt.wantCode)
			body := decode[struct {
				Status string `json:"status"`
				Store  string `json:"store"`
			}](t, rec)
			if body.Status != tt.wantStatus || body.Store != tt.wantStore {
				t.Fatalf("got %+v", body)
			}
		})
	}
}

func TestLoanLifecycle_OverHTTP(t *testing.T) {
	e := newTestServer(t)
	acct := openAccount(t, e, "0")
	number := applyLoan(t, e, acct, "5000")

	rec := do(t, e, stdhttp.MethodPost, "/loans/"+number+"/approve", nil)
	expectStatus(t, rec, stdhttp.StatusOK)
	if got := decode[ucApproval.DecisionDTO](t, rec); got.Status != "approved" || got.ApprovalDate == nil {
		t.Fatalf("approve = %+v", got)
	}

	rec = do(t, e, stdhttp.MethodPost, "/loans/"+number+"/disburse", nil)
	expectStatus(t, rec, stdhttp.StatusOK)
	disbursed := decode[ucLedger.EntryDTO](t, rec)
	if disbursed.AccountBalance != "5000.00" || disbursed.Loan.Status != "active" || disbursed.Loan.MaturityDate == nil {
		t.Fatalf("disburse = %+v", disbursed)
	}

	rec = do(t, e, stdhttp.MethodPost, "/loans/"+number+"/pay", map[string]any{"payment_amount": 500})
	expectStatus(t, rec, stdhttp.StatusOK)
	paid := decode[ucLedger.EntryDTO](t, rec)
	if paid.Loan.OutstandingBalance != "4500.00" || paid.AccountBalance != "4500.00" || paid.Closed {
		t.Fatalf("partial pay = %+v", paid)
	}
	if paid.Transaction.BalanceAfter != paid.AccountBalance || paid.Transaction.Description != "Loan payment for "+number {
		t.Fatalf("ledger row = %+v", paid.Transaction)
	}

	// paying more than is owed is refused
	rec = do(t, e, stdhttp.MethodPost, "/loans/"+number+"/pay", map[string]any{"payment_amount": "4500.01"})
	expectStatus(t, rec, stdhttp.StatusUnprocessableEntity)

	rec = do(t, e, stdhttp.MethodPost, "/loans/"+number+"/pay", map[string]any{"payment_amount": "4500"})
	expectStatus(t, rec, stdhttp.StatusOK)
	if closed := decode[ucLedger.EntryDTO](t, rec); !closed.Closed || closed.Loan.Status != "closed" || closed.Loan.ClosedDate == nil {
		t.Fatalf("payoff = %+v", closed)
	}

	rec = do(t, e, stdhttp.MethodGet, "/loans/"+number, nil)
	expectStatus(t, rec, stdhttp.StatusOK)
	if detail := decode[ucLoan.LoanDetailDTO](t, rec); len(detail.Transactions) != 3 || detail.OutstandingBalance != "0.00" {
		t.Fatalf("detail = %+v", detail)
	}

	rec = do(t, e, stdhttp.MethodGet, "/transactions?page=1&page_size=2", nil)
	expectStatus(t, rec, stdhttp.StatusOK)
	if page := decode[ucLedger.PageDTO](t, rec); page.Total != 3 || len(page.Items) != 2 || !page.HasNext {
		t.Fatalf("page = %+v", page)
	}

	rec = do(t, e, stdhttp.MethodGet, "/accounts/"+acct+"/transactions?limit=1", nil)
	expectStatus(t, rec, stdhttp.StatusOK)
	if items := decode[[]shared.TransactionDTO](t, rec); len(items) != 1 || items[0].BalanceAfter != "0.00" {
		t.Fatalf("account transactions = %+v", items)
	}
}

func TestErrors_OverHTTP(t *testing.T) {
	e := newTestServer(t)
	acct := openAccount(t, e, "100")
	pending := applyLoan(t, e, acct, 2500)

	tests := []struct {
		name   string
		method string
		path   string
		body   any
		code   int
		field  string
	}{
		{"malformed body", stdhttp.MethodPost, "/loans", "{not json", stdhttp.StatusBadRequest, ""},
		{"bad account number", stdhttp.MethodPost, "/loans", map[string]any{
			"account_number": "12", "loan_type": "auto", "principal_amount": 5000, "interest_rate": 5, "term_months": 12,
		}, stdhttp.StatusUnprocessableEntity, "account_number"},
		{"principal below policy", stdhttp.MethodPost, "/loans", map[string]any{
			"account_number": acct, "loan_type": "auto", "principal_amount": 999, "interest_rate": 5, "term_months": 12,
		}, stdhttp.StatusUnprocessableEntity, "principal_amount"},
		{"unknown account", stdhttp.MethodPost, "/loans", map[string]any{
			"account_number": "0000000000", "loan_type": "auto", "principal_amount": 5000, "interest_rate": 5, "term_months": 12,
		}, stdhttp.StatusNotFound, ""},
		{"unknown loan", stdhttp.MethodGet, "/loans/LN00000000", nil, stdhttp.StatusNotFound, ""},
		{"malformed loan number", stdhttp.MethodGet, "/loans/loan-1", nil, stdhttp.StatusUnprocessableEntity, "loan_number"},
		{"malformed account number", stdhttp.MethodGet, "/accounts/abc", nil, stdhttp.StatusUnprocessableEntity, "account_number"},
		{"unknown account detail", stdhttp.MethodGet, "/accounts/0000000000", nil, stdhttp.StatusNotFound, ""},
		{"unknown status filter", stdhttp.MethodGet, "/loans?status=frozen", nil, stdhttp.StatusUnprocessableEntity, "status"},
		{"disburse pending", stdhttp.MethodPost, "/loans/" + pending + "/disburse", nil, stdhttp.StatusConflict, ""},
		{"pay pending", stdhttp.MethodPost, "/loans/" + pending + "/pay", map[string]any{"payment_amount": 10}, stdhttp.StatusConflict, ""},
		{"zero payment", stdhttp.MethodPost, "/loans/" + pending + "/pay", map[string]any{"payment_amount": 0}, stdhttp.StatusUnprocessableEntity, "payment_amount"},
		{"non-numeric page", stdhttp.MethodGet, "/transactions?page=two", nil, stdhttp.StatusUnprocessableEntity, "page"},
		{"bad email", stdhttp.MethodPost, "/accounts", map[string]any{
			"account_type": "savings", "customer_name": "X", "customer_email": "x",
		}, stdhttp.StatusUnprocessableEntity, "customer_email"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(t, e, tt.method, tt.path, tt.body)
			expectStatus(t, rec, tt.code)
			body := decode[ErrorResponse](t, rec)
			if tt.field != "" && (len(body.Details) == 0 || body.Details[0].Field != tt.field) {
				t.Fatalf("details = %+v, want field %s", body.Details, tt.field)
			}
		})
	}
}

func TestInsufficientFunds_OverHTTP(t *testing.T) {
	e, gdb := newTestServerDB(t)
	acct := openAccount(t, e, "0")
	number := applyLoan(t, e, acct, 5000)
	expectStatus(t, do(t, e, stdhttp.MethodPost, "/loans/"+number+"/approve", nil), stdhttp.StatusOK)
	expectStatus(t, do(t, e, stdhttp.MethodPost, "/loans/"+number+"/disburse", nil), stdhttp.StatusOK)

	// money left the account through a channel this service does not model
	if err := gdb.Model(&account.Account{}).Where("account_number = ?", acct).Update("balance", "40").Error; err != nil {
		t.Fatalf("drain: %v", err)
	}

	rec := do(t, e, stdhttp.MethodPost, "/loans/"+number+"/pay", map[string]any{"payment_amount": 50})
	expectStatus(t, rec, stdhttp.StatusConflict)
	if body := decode[ErrorResponse](t, rec); !strings.Contains(body.Error, "balance 40.00") {
		t.Fatalf("error = %q", body.Error)
	}

	rec = do(t, e, stdhttp.MethodGet, "/loans/"+number, nil)
	expectStatus(t, rec, stdhttp.StatusOK)
	if got := decode[ucLoan.LoanDetailDTO](t, rec); got.OutstandingBalance != "5000.00" || len(got.Transactions) != 1 {
		t.Fatalf("loan changed: %+v", got)
	}
}

func TestCalculateAndSchedule_OverHTTP(t *testing.T) {
	e := newTestServer(t)

	rec := do(t, e, stdhttp.MethodPost, "/loans/calculate", map[string]any{
		"principal_amount": 25000, "interest_rate": "6", "term_months": 60,
	})
	expectStatus(t, rec, stdhttp.StatusOK)
	if got := decode[ucLoan.ScheduleDTO](t, rec); got.MonthlyPayment != "483.32" {
		t.Fatalf("calculate = %+v", got)
	}

	number := applyLoan(t, e, openAccount(t, e, "0"), 25000)
	rec = do(t, e, stdhttp.MethodGet, "/loans/"+number+"/schedule", nil)
	expectStatus(t, rec, stdhttp.StatusOK)
	rows := decode[[]ucLoan.InstallmentDTO](t, rec)
	if len(rows) != 60 || rows[59].RemainingBalance != "0.00" {
		t.Fatalf("schedule rows = %d, last = %+v", len(rows), rows[len(rows)-1])
	}
}

func TestMetricsEndpoint(t *testing.T) {
	e := newTestServer(t)
	openAccount(t, e, "0")

	rec := do(t, e, stdhttp.MethodGet, "/metrics", nil)
	expectStatus(t, rec, stdhttp.StatusOK)
	if !strings.Contains(rec.Body.String(), `banking_loan_operations_total{operation="open_account",outcome="ok"}`) {
		t.Fatalf("metrics missing open_account counter")
	}
}
