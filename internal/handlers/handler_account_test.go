package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/corebanking/balance-service/internal/apperrors"
	"github.com/corebanking/balance-service/internal/core/domain"
	"github.com/corebanking/balance-service/internal/dto"
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockLedgerService mocks portssvc.LedgerSvcFacade for handler tests.
type MockLedgerService struct {
	mock.Mock
}

func (m *MockLedgerService) Deposit(ctx context.Context, accountID string, amount decimal.Decimal) error {
	args := m.Called(ctx, accountID, amount)
	return args.Error(0)
}

func (m *MockLedgerService) Withdraw(ctx context.Context, accountID string, amount decimal.Decimal) error {
	args := m.Called(ctx, accountID, amount)
	return args.Error(0)
}

func (m *MockLedgerService) Transfer(ctx context.Context, fromID, toID string, amount decimal.Decimal) error {
	args := m.Called(ctx, fromID, toID, amount)
	return args.Error(0)
}

func (m *MockLedgerService) GetBalance(ctx context.Context, accountID string) (decimal.Decimal, error) {
	args := m.Called(ctx, accountID)
	return args.Get(0).(decimal.Decimal), args.Error(1)
}

func (m *MockLedgerService) GetStatement(ctx context.Context, accountID string, from, to time.Time) ([]domain.Transaction, error) {
	args := m.Called(ctx, accountID, from, to)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Transaction), args.Error(1)
}

func setupAccountRouter(svc *MockLedgerService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	v1 := r.Group("/api/v1")
	registerAccountRoutes(v1, svc)
	return r
}

func performOperation(r *gin.Engine, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestDepositSuccess(t *testing.T) {
	svc := new(MockLedgerService)
	svc.On("Deposit", mock.Anything, "acc-1", mock.MatchedBy(func(d decimal.Decimal) bool {
		return d.Equal(decimal.RequireFromString("200.00"))
	})).Return(nil)
	r := setupAccountRouter(svc)

	w := performOperation(r, "/api/v1/accounts/acc-1/deposit", `{"amount": "200.00"}`)

	assert.Equal(t, http.StatusOK, w.Code)
	svc.AssertExpectations(t)
}

func TestDepositNonPositiveAmountFailsBinding(t *testing.T) {
	svc := new(MockLedgerService)
	r := setupAccountRouter(svc)

	for _, body := range []string{`{"amount": "-5.00"}`, `{"amount": "0"}`, `{}`, `{"amount": "abc"}`} {
		w := performOperation(r, "/api/v1/accounts/acc-1/deposit", body)
		assert.Equal(t, http.StatusBadRequest, w.Code, "body %s", body)
	}
	svc.AssertNotCalled(t, "Deposit", mock.Anything, mock.Anything, mock.Anything)
}

func TestDepositUnknownAccountReturns404(t *testing.T) {
	svc := new(MockLedgerService)
	svc.On("Deposit", mock.Anything, "missing", mock.Anything).
		Return(fmt.Errorf("account missing: %w", apperrors.ErrNotFound))
	r := setupAccountRouter(svc)

	w := performOperation(r, "/api/v1/accounts/missing/deposit", `{"amount": "10.00"}`)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestWithdrawSuccess(t *testing.T) {
	svc := new(MockLedgerService)
	svc.On("Withdraw", mock.Anything, "acc-1", mock.Anything).Return(nil)
	r := setupAccountRouter(svc)

	w := performOperation(r, "/api/v1/accounts/acc-1/withdraw", `{"amount": "50.00"}`)

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestWithdrawInsufficientFundsReturns422(t *testing.T) {
	svc := new(MockLedgerService)
	svc.On("Withdraw", mock.Anything, "acc-1", mock.Anything).
		Return(fmt.Errorf("%w: account acc-1", apperrors.ErrInsufficientFunds))
	r := setupAccountRouter(svc)

	w := performOperation(r, "/api/v1/accounts/acc-1/withdraw", `{"amount": "2000.00"}`)

	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)

	var body map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Contains(t, body["error"], "insufficient")
}

func TestTransferSuccess(t *testing.T) {
	svc := new(MockLedgerService)
	svc.On("Transfer", mock.Anything, "acc-x", "acc-y", mock.MatchedBy(func(d decimal.Decimal) bool {
		return d.Equal(decimal.RequireFromString("100.00"))
	})).Return(nil)
	r := setupAccountRouter(svc)

	w := performOperation(r, "/api/v1/accounts/acc-x/transfer/acc-y", `{"amount": "100.00"}`)

	assert.Equal(t, http.StatusOK, w.Code)
	svc.AssertExpectations(t)
}

func TestTransferToSelfReturns400(t *testing.T) {
	svc := new(MockLedgerService)
	svc.On("Transfer", mock.Anything, "acc-x", "acc-x", mock.Anything).
		Return(fmt.Errorf("%w: cannot transfer to the same account", apperrors.ErrValidation))
	r := setupAccountRouter(svc)

	w := performOperation(r, "/api/v1/accounts/acc-x/transfer/acc-x", `{"amount": "100.00"}`)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestTransferInternalErrorReturns500(t *testing.T) {
	svc := new(MockLedgerService)
	svc.On("Transfer", mock.Anything, "acc-x", "acc-y", mock.Anything).
		Return(fmt.Errorf("%w: write failed", apperrors.ErrInternal))
	r := setupAccountRouter(svc)

	w := performOperation(r, "/api/v1/accounts/acc-x/transfer/acc-y", `{"amount": "100.00"}`)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
}

func TestGetBalance(t *testing.T) {
	svc := new(MockLedgerService)
	svc.On("GetBalance", mock.Anything, "acc-1").Return(decimal.RequireFromString("600.50"), nil)
	r := setupAccountRouter(svc)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/accounts/acc-1/balance", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	var body dto.BalanceResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "acc-1", body.AccountID)
	assert.True(t, body.Balance.Equal(decimal.RequireFromString("600.50")))
}

func TestGetBalanceUnknownAccountReturns404(t *testing.T) {
	svc := new(MockLedgerService)
	svc.On("GetBalance", mock.Anything, "missing").
		Return(decimal.Zero, fmt.Errorf("account missing: %w", apperrors.ErrNotFound))
	r := setupAccountRouter(svc)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/accounts/missing/balance", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestGetStatement(t *testing.T) {
	from := time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2025, 2, 28, 23, 59, 59, 0, time.UTC)
	toAccount := "acc-y"
	entries := []domain.Transaction{
		{
			TransactionID: "txn-1",
			AccountID:     "acc-1",
			Type:          domain.Deposit,
			Amount:        decimal.RequireFromString("100.00"),
			BalanceAfter:  decimal.RequireFromString("100.00"),
			CreatedAt:     from.Add(24 * time.Hour),
		},
		{
			TransactionID: "txn-2",
			AccountID:     "acc-1",
			ToAccountID:   &toAccount,
			Type:          domain.Transfer,
			Amount:        decimal.RequireFromString("40.00"),
			BalanceAfter:  decimal.RequireFromString("60.00"),
			CreatedAt:     from.Add(48 * time.Hour),
		},
	}
	svc := new(MockLedgerService)
	svc.On("GetStatement", mock.Anything, "acc-1", from, to).Return(entries, nil)
	r := setupAccountRouter(svc)

	url := "/api/v1/accounts/acc-1/statement?from=2025-02-01T00:00:00Z&to=2025-02-28T23:59:59Z"
	req := httptest.NewRequest(http.MethodGet, url, nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	var body dto.StatementResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "acc-1", body.AccountID)
	require.Len(t, body.Transactions, 2)
	assert.Equal(t, "txn-1", body.Transactions[0].TransactionID)
	assert.Equal(t, "DEPOSIT", body.Transactions[0].Type)
	assert.Nil(t, body.Transactions[0].ToAccountID)
	require.NotNil(t, body.Transactions[1].ToAccountID)
	assert.Equal(t, "acc-y", *body.Transactions[1].ToAccountID)
}

func TestGetStatementMissingWindowReturns400(t *testing.T) {
	svc := new(MockLedgerService)
	r := setupAccountRouter(svc)

	for _, url := range []string{
		"/api/v1/accounts/acc-1/statement",
		"/api/v1/accounts/acc-1/statement?from=2025-02-01T00:00:00Z",
		"/api/v1/accounts/acc-1/statement?from=not-a-time&to=2025-02-28T00:00:00Z",
	} {
		req := httptest.NewRequest(http.MethodGet, url, nil)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		assert.Equal(t, http.StatusBadRequest, w.Code, "url %s", url)
	}
	svc.AssertNotCalled(t, "GetStatement", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestGetStatementUnknownAccountReturns404(t *testing.T) {
	svc := new(MockLedgerService)
	svc.On("GetStatement", mock.Anything, "missing", mock.Anything, mock.Anything).
		Return(nil, fmt.Errorf("account missing: %w", apperrors.ErrNotFound))
	r := setupAccountRouter(svc)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/accounts/missing/statement?from=2025-02-01T00:00:00Z&to=2025-02-28T00:00:00Z", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}
