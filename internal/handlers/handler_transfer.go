package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/SscSPs/ledger_service/internal/apperrors"
	portssvc "github.com/SscSPs/ledger_service/internal/core/ports/services"
	"github.com/SscSPs/ledger_service/internal/dto"
	"github.com/SscSPs/ledger_service/internal/middleware"
)

// transferHandler handles money movement between accounts.
type transferHandler struct {
	ledgerService portssvc.LedgerSvcFacade
}

func newTransferHandler(ls portssvc.LedgerSvcFacade) *transferHandler {
	return &transferHandler{ledgerService: ls}
}

// registerTransferRoutes registers the transfer route. Extra middleware (rate
// limiting) applies to this route only.
func registerTransferRoutes(rg *gin.RouterGroup, ledgerService portssvc.LedgerSvcFacade, mw ...gin.HandlerFunc) {
	h := newTransferHandler(ledgerService)
	chain := append(append([]gin.HandlerFunc{}, mw...), h.createTransfer)
	rg.POST("/transfers", chain...)
}

// createTransfer godoc
// @Summary Transfer money between accounts
// @Description Debits the source and credits the destination account atomically
// @Tags transfers
// @Accept  json
// @Produce  json
// @Param   transfer body dto.TransferRequest true "Transfer details"
// @Success 201 {object} dto.TransferResponse
// @Failure 400 {object} dto.ErrorResponse "Invalid amount, same account or inactive account"
// @Failure 404 {object} dto.ErrorResponse "Account not found"
// @Failure 422 {object} dto.ErrorResponse "Insufficient balance"
// @Failure 429 {object} dto.ErrorResponse "Too many requests"
// @Failure 503 {object} dto.ErrorResponse "Transfer could not be completed"
// @Security BearerAuth
// @Router /transfers [post]
func (h *transferHandler) createTransfer(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.TransferRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for Transfer", slog.String("error", err.Error()))
		respondError(c, http.StatusBadRequest, "Invalid request format: "+err.Error())
		return
	}

	result, err := h.ledgerService.Transfer(c.Request.Context(), req.ToCommand())
	if err != nil {
		status, msg := transferErrorStatus(err)
		code := ""
		if kind, ok := apperrors.TransferKindOf(err); ok {
			code = kind.String()
		}
		if status >= http.StatusInternalServerError {
			logger.Error("Transfer failed", slog.String("error", err.Error()))
		}
		respondErrorCode(c, status, msg, code)
		return
	}

	c.JSON(http.StatusCreated, dto.ToTransferResponse(result))
}

// transferErrorStatus maps a transfer failure to its HTTP status and message.
func transferErrorStatus(err error) (int, string) {
	kind, ok := apperrors.TransferKindOf(err)
	if !ok {
		return http.StatusInternalServerError, "Transfer failed"
	}
	switch kind {
	case apperrors.KindInvalidAmount:
		return http.StatusBadRequest, "Invalid amount"
	case apperrors.KindSelfTransfer:
		return http.StatusBadRequest, "Cannot transfer to the same account"
	case apperrors.KindAccountInactive:
		return http.StatusBadRequest, "Account is not active"
	case apperrors.KindAccountNotFound:
		return http.StatusNotFound, "Account not found"
	case apperrors.KindInsufficientFunds:
		return http.StatusUnprocessableEntity, "Insufficient balance"
	case apperrors.KindStorageFailure:
		return http.StatusServiceUnavailable, "Transfer could not be completed, please retry"
	default:
		return http.StatusInternalServerError, "Transfer failed"
	}
}
