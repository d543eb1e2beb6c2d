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

type ledgerHandler struct {
	ledgerService portssvc.LedgerSvcFacade
}

func newLedgerHandler(ls portssvc.LedgerSvcFacade) *ledgerHandler {
	return &ledgerHandler{ledgerService: ls}
}

func registerLedgerRoutes(rg *gin.RouterGroup, ledgerService portssvc.LedgerSvcFacade) {
	h := newLedgerHandler(ledgerService)
	rg.GET("/transactions/:transactionID", h.getTransaction)
}

// getTransaction godoc
// @Summary Get a transaction and its entries
// @Description Retrieves a committed transaction with its debit and credit entries
// @Tags ledger
// @Produce  json
// @Param   transactionID path string true "Transaction ID"
// @Success 200 {object} dto.TransactionResponse
// @Failure 404 {object} dto.ErrorResponse "Transaction not found"
// @Failure 500 {object} dto.ErrorResponse "Failed to retrieve transaction"
// @Security BearerAuth
// @Router /transactions/{transactionID} [get]
func (h *ledgerHandler) getTransaction(c *gin.Context) {
	transactionID := c.Param("transactionID")
	txn, err := h.ledgerService.GetTransaction(c.Request.Context(), transactionID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			respondError(c, http.StatusNotFound, "Transaction not found")
			return
		}
		middleware.GetLoggerFromCtx(c.Request.Context()).Error("Failed to get transaction",
			slog.String("transaction_id", transactionID), slog.String("error", err.Error()))
		respondError(c, http.StatusInternalServerError, "Failed to retrieve transaction")
		return
	}
	c.JSON(http.StatusOK, dto.ToTransactionResponse(txn))
}
