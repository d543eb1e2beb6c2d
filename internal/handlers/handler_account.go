package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/SscSPs/ledger_service/internal/apperrors"
	portssvc "github.com/SscSPs/ledger_service/internal/core/ports/services"
	"github.com/SscSPs/ledger_service/internal/dto"
	"github.com/SscSPs/ledger_service/internal/middleware"
)

// accountHandler handles HTTP requests related to accounts.
type accountHandler struct {
	accountService portssvc.AccountSvcFacade
	ledgerService  portssvc.LedgerSvcFacade
}

// newAccountHandler creates a new accountHandler.
func newAccountHandler(as portssvc.AccountSvcFacade, ls portssvc.LedgerSvcFacade) *accountHandler {
	return &accountHandler{
		accountService: as,
		ledgerService:  ls,
	}
}

// registerAccountRoutes registers routes related to accounts.
func registerAccountRoutes(rg *gin.RouterGroup, accountService portssvc.AccountSvcFacade, ledgerService portssvc.LedgerSvcFacade) {
	h := newAccountHandler(accountService, ledgerService)

	accounts := rg.Group("/accounts")
	{
		accounts.POST("", h.createAccount)
		accounts.GET("", h.listAccounts)
		accounts.GET("/:accountID", h.getAccount)
		accounts.GET("/:accountID/balance", h.getAccountBalance)
		accounts.GET("/:accountID/entries", h.listAccountEntries)
		accounts.PATCH("/:accountID/status", h.updateAccountStatus)
	}
}

// createAccount godoc
// @Summary Open a new account
// @Description Creates a new active account with a zero balance
// @Tags accounts
// @Accept  json
// @Produce  json
// @Param   account body dto.CreateAccountRequest true "Account details"
// @Success 201 {object} dto.AccountResponse
// @Failure 400 {object} dto.ErrorResponse "Invalid input format or validation error"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 500 {object} dto.ErrorResponse "Failed to create account"
// @Security BearerAuth
// @Router /accounts [post]
func (h *accountHandler) createAccount(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.CreateAccountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for CreateAccount", slog.String("error", err.Error()))
		respondError(c, http.StatusBadRequest, "Invalid request format: "+err.Error())
		return
	}

	logger.Info("Received request to create account", slog.String("account_type", string(req.AccountType)), slog.String("currency_code", req.CurrencyCode))

	newAccount, err := h.accountService.CreateAccount(c.Request.Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, apperrors.ErrValidation):
			respondError(c, http.StatusBadRequest, err.Error())
		case errors.Is(err, apperrors.ErrDuplicate):
			respondError(c, http.StatusConflict, "Account already exists")
		default:
			logger.Error("Failed to create account in service", slog.String("error", err.Error()))
			respondError(c, http.StatusInternalServerError, "Failed to create account")
		}
		return
	}

	logger.Info("Account created successfully", slog.String("account_id", newAccount.AccountID))
	c.JSON(http.StatusCreated, dto.ToAccountResponse(newAccount))
}

// listAccounts godoc
// @Summary List accounts
// @Description Retrieves a page of accounts, oldest first
// @Tags accounts
// @Produce  json
// @Param   limit query int false "Limit number of results" default(20)
// @Param   offset query int false "Offset for pagination" default(0)
// @Success 200 {object} dto.ListAccountsResponse
// @Failure 400 {object} dto.ErrorResponse "Invalid query parameters"
// @Failure 500 {object} dto.ErrorResponse "Failed to list accounts"
// @Security BearerAuth
// @Router /accounts [get]
func (h *accountHandler) listAccounts(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var params dto.ListAccountsParams
	if err := c.ShouldBindQuery(&params); err != nil {
		logger.Warn("Failed to bind query params for ListAccounts", slog.String("error", err.Error()))
		respondError(c, http.StatusBadRequest, "Invalid query parameters: "+err.Error())
		return
	}

	accounts, err := h.accountService.ListAccounts(c.Request.Context(), params.Limit, params.Offset)
	if err != nil {
		logger.Error("Failed to list accounts from service", slog.String("error", err.Error()))
		respondError(c, http.StatusInternalServerError, "Failed to list accounts")
		return
	}

	c.JSON(http.StatusOK, dto.ListAccountsResponse{Accounts: dto.ToListAccountResponse(accounts)})
}

// getAccount godoc
// @Summary Get an account with its balance
// @Description Retrieves an account and the balance derived from its ledger entries
// @Tags accounts
// @Produce  json
// @Param   accountID path string true "Account ID"
// @Success 200 {object} dto.AccountWithBalanceResponse
// @Failure 404 {object} dto.ErrorResponse "Account not found"
// @Failure 500 {object} dto.ErrorResponse "Failed to retrieve account"
// @Security BearerAuth
// @Router /accounts/{accountID} [get]
func (h *accountHandler) getAccount(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	accountID := c.Param("accountID")

	account, balance, err := h.ledgerService.GetAccountWithBalance(c.Request.Context(), accountID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			respondError(c, http.StatusNotFound, "Account not found")
		} else {
			logger.Error("Failed to get account from service", slog.String("account_id", accountID), slog.String("error", err.Error()))
			respondError(c, http.StatusInternalServerError, "Failed to retrieve account")
		}
		return
	}

	c.JSON(http.StatusOK, dto.AccountWithBalanceResponse{
		AccountResponse: dto.ToAccountResponse(account),
		Balance:         balance,
	})
}

// getAccountBalance godoc
// @Summary Get account balance
// @Description Returns the sum of credits minus the sum of debits for an account
// @Tags accounts
// @Produce json
// @Param accountID path string true "Account ID"
// @Success 200 {object} dto.AccountBalanceResponse
// @Failure 404 {object} dto.ErrorResponse "Account not found"
// @Failure 500 {object} dto.ErrorResponse "Failed to calculate balance"
// @Security BearerAuth
// @Router /accounts/{accountID}/balance [get]
func (h *accountHandler) getAccountBalance(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	accountID := c.Param("accountID")

	balance, err := h.ledgerService.GetBalance(c.Request.Context(), accountID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			respondError(c, http.StatusNotFound, "Account not found")
		} else {
			logger.Error("Failed to calculate account balance", slog.String("account_id", accountID), slog.String("error", err.Error()))
			respondError(c, http.StatusInternalServerError, "Failed to calculate balance")
		}
		return
	}

	c.JSON(http.StatusOK, dto.AccountBalanceResponse{AccountID: accountID, Balance: balance})
}

// listAccountEntries godoc
// @Summary List ledger entries of an account
// @Description Retrieves a page of entries for an account, newest first, using token-based pagination
// @Tags accounts
// @Produce  json
// @Param   accountID path string true "Account ID"
// @Param   limit query int false "Limit number of results" default(20)
// @Param   nextToken query string false "Token from the previous page"
// @Success 200 {object} dto.ListEntriesResponse
// @Failure 400 {object} dto.ErrorResponse "Invalid query parameters"
// @Failure 404 {object} dto.ErrorResponse "Account not found"
// @Failure 500 {object} dto.ErrorResponse "Failed to list entries"
// @Security BearerAuth
// @Router /accounts/{accountID}/entries [get]
func (h *accountHandler) listAccountEntries(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	accountID := c.Param("accountID")

	var params dto.ListEntriesParams
	if err := c.ShouldBindQuery(&params); err != nil {
		logger.Warn("Failed to bind query params for ListAccountEntries", slog.String("error", err.Error()))
		respondError(c, http.StatusBadRequest, "Invalid query parameters: "+err.Error())
		return
	}

	resp, err := h.ledgerService.ListAccountEntries(c.Request.Context(), accountID, params)
	if err != nil {
		switch {
		case errors.Is(err, apperrors.ErrNotFound):
			respondError(c, http.StatusNotFound, "Account not found")
		case errors.Is(err, apperrors.ErrValidation):
			respondError(c, http.StatusBadRequest, "Invalid nextToken")
		default:
			logger.Error("Failed to list account entries", slog.String("account_id", accountID), slog.String("error", err.Error()))
			respondError(c, http.StatusInternalServerError, "Failed to list entries")
		}
		return
	}

	c.JSON(http.StatusOK, resp)
}

// updateAccountStatus godoc
// @Summary Activate or deactivate an account
// @Description Inactive accounts can neither send nor receive transfers
// @Tags accounts
// @Accept  json
// @Produce  json
// @Param   accountID path string true "Account ID"
// @Param   status body dto.UpdateAccountStatusRequest true "New status"
// @Success 200 {object} dto.AccountResponse
// @Failure 400 {object} dto.ErrorResponse "Invalid input"
// @Failure 404 {object} dto.ErrorResponse "Account not found"
// @Failure 500 {object} dto.ErrorResponse "Failed to update account"
// @Security BearerAuth
// @Router /accounts/{accountID}/status [patch]
func (h *accountHandler) updateAccountStatus(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	accountID := c.Param("accountID")

	var req dto.UpdateAccountStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for UpdateAccountStatus", slog.String("error", err.Error()))
		respondError(c, http.StatusBadRequest, "Invalid request format: "+err.Error())
		return
	}

	logger = logger.With(slog.String("account_id", accountID))
	logger.Info("Received request to update account status", slog.String("status", string(req.Status)))

	account, err := h.accountService.UpdateAccountStatus(c.Request.Context(), accountID, req.Status)
	if err != nil {
		switch {
		case errors.Is(err, apperrors.ErrNotFound):
			respondError(c, http.StatusNotFound, "Account not found")
		case errors.Is(err, apperrors.ErrValidation):
			respondError(c, http.StatusBadRequest, err.Error())
		default:
			logger.Error("Failed to update account status", slog.String("error", err.Error()))
			respondError(c, http.StatusInternalServerError, "Failed to update account")
		}
		return
	}

	logger.Info("Account status updated")
	c.JSON(http.StatusOK, dto.ToAccountResponse(account))
}
