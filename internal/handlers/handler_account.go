package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/corebanking/balance-service/internal/apperrors"
	portssvc "github.com/corebanking/balance-service/internal/core/ports/services"
	"github.com/corebanking/balance-service/internal/dto"
	"github.com/corebanking/balance-service/internal/middleware"
	"github.com/gin-gonic/gin"
)

// accountHandler handles HTTP requests for account balance operations.
type accountHandler struct {
	ledgerService portssvc.LedgerSvcFacade
}

// newAccountHandler creates a new accountHandler.
func newAccountHandler(ls portssvc.LedgerSvcFacade) *accountHandler {
	return &accountHandler{
		ledgerService: ls,
	}
}

// registerAccountRoutes registers routes related to account operations.
func registerAccountRoutes(rg *gin.RouterGroup, ledgerService portssvc.LedgerSvcFacade) {
	h := newAccountHandler(ledgerService)

	accounts := rg.Group("/accounts")
	{
		accounts.POST("/:id/deposit", h.deposit)
		accounts.POST("/:id/withdraw", h.withdraw)
		accounts.POST("/:id/transfer/:toID", h.transfer)
		accounts.GET("/:id/balance", h.getBalance)
		accounts.GET("/:id/statement", h.getStatement)
	}
}

// respondWithOperationError maps engine errors to response codes:
// not-found, rejected business rule and validation each get their own.
func respondWithOperationError(c *gin.Context, logger *slog.Logger, err error) {
	switch {
	case errors.Is(err, apperrors.ErrValidation):
		logger.Warn("Validation error", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, apperrors.ErrNotFound):
		logger.Warn("Account not found", slog.String("error", err.Error()))
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, apperrors.ErrInsufficientFunds):
		logger.Warn("Insufficient funds", slog.String("error", err.Error()))
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
	default:
		logger.Error("Operation failed", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Operation failed"})
	}
}

// deposit godoc
// @Summary Deposit into an account
// @Description Adds the given amount to the account balance and records a DEPOSIT ledger entry
// @Tags accounts
// @Accept  json
// @Produce  json
// @Param   id path string true "Account ID"
// @Param   operation body dto.OperationRequest true "Operation amount"
// @Success 200 {object} map[string]string
// @Failure 400 {object} map[string]string "Invalid amount"
// @Failure 404 {object} map[string]string "Account not found"
// @Failure 500 {object} map[string]string "Operation failed"
// @Router /accounts/{id}/deposit [post]
func (h *accountHandler) deposit(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	accountID := c.Param("id")

	var req dto.OperationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for deposit", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	logger = logger.With(slog.String("account_id", accountID))

	if err := h.ledgerService.Deposit(c.Request.Context(), accountID, req.Amount); err != nil {
		respondWithOperationError(c, logger, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// withdraw godoc
// @Summary Withdraw from an account
// @Description Subtracts the given amount from the account balance and records a WITHDRAWAL ledger entry
// @Tags accounts
// @Accept  json
// @Produce  json
// @Param   id path string true "Account ID"
// @Param   operation body dto.OperationRequest true "Operation amount"
// @Success 200 {object} map[string]string
// @Failure 400 {object} map[string]string "Invalid amount"
// @Failure 404 {object} map[string]string "Account not found"
// @Failure 422 {object} map[string]string "Insufficient funds"
// @Failure 500 {object} map[string]string "Operation failed"
// @Router /accounts/{id}/withdraw [post]
func (h *accountHandler) withdraw(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	accountID := c.Param("id")

	var req dto.OperationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for withdraw", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	logger = logger.With(slog.String("account_id", accountID))

	if err := h.ledgerService.Withdraw(c.Request.Context(), accountID, req.Amount); err != nil {
		respondWithOperationError(c, logger, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// transfer godoc
// @Summary Transfer between accounts
// @Description Moves the given amount between two accounts and records a single TRANSFER ledger entry on the source account
// @Tags accounts
// @Accept  json
// @Produce  json
// @Param   fromID path string true "Source account ID"
// @Param   toID path string true "Destination account ID"
// @Param   operation body dto.OperationRequest true "Operation amount"
// @Success 200 {object} map[string]string
// @Failure 400 {object} map[string]string "Invalid amount or self-transfer"
// @Failure 404 {object} map[string]string "Either account not found"
// @Failure 422 {object} map[string]string "Insufficient funds"
// @Failure 500 {object} map[string]string "Operation failed"
// @Router /accounts/{fromID}/transfer/{toID} [post]
func (h *accountHandler) transfer(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	fromID := c.Param("id")
	toID := c.Param("toID")

	var req dto.OperationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for transfer", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	logger = logger.With(slog.String("from_account_id", fromID), slog.String("to_account_id", toID))

	if err := h.ledgerService.Transfer(c.Request.Context(), fromID, toID, req.Amount); err != nil {
		respondWithOperationError(c, logger, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// getBalance godoc
// @Summary Get an account balance
// @Description Returns the current balance of the account
// @Tags accounts
// @Produce  json
// @Param   id path string true "Account ID"
// @Success 200 {object} dto.BalanceResponse
// @Failure 404 {object} map[string]string "Account not found"
// @Failure 500 {object} map[string]string "Operation failed"
// @Router /accounts/{id}/balance [get]
func (h *accountHandler) getBalance(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	accountID := c.Param("id")
	logger = logger.With(slog.String("account_id", accountID))

	balance, err := h.ledgerService.GetBalance(c.Request.Context(), accountID)
	if err != nil {
		respondWithOperationError(c, logger, err)
		return
	}

	c.JSON(http.StatusOK, dto.BalanceResponse{AccountID: accountID, Balance: balance})
}

// getStatement godoc
// @Summary Get an account statement
// @Description Returns the account's ledger entries within the inclusive [from, to] window, oldest first
// @Tags accounts
// @Produce  json
// @Param   id path string true "Account ID"
// @Param   from query string true "Window start (RFC 3339)"
// @Param   to query string true "Window end (RFC 3339)"
// @Success 200 {object} dto.StatementResponse
// @Failure 400 {object} map[string]string "Missing or malformed window"
// @Failure 404 {object} map[string]string "Account not found"
// @Failure 500 {object} map[string]string "Operation failed"
// @Router /accounts/{id}/statement [get]
func (h *accountHandler) getStatement(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	accountID := c.Param("id")

	var query dto.StatementQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		logger.Warn("Failed to bind statement query", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid statement window: " + err.Error()})
		return
	}

	logger = logger.With(slog.String("account_id", accountID))

	transactions, err := h.ledgerService.GetStatement(c.Request.Context(), accountID, query.From, query.To)
	if err != nil {
		respondWithOperationError(c, logger, err)
		return
	}

	c.JSON(http.StatusOK, dto.StatementResponse{
		AccountID:    accountID,
		Transactions: dto.ToTransactionResponses(transactions),
	})
}
