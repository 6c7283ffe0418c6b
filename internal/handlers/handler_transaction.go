package handlers

import (
	"log/slog"
	"net/http"

	portssvc "github.com/SscSPs/donation_ledger/internal/core/ports/services"
	"github.com/SscSPs/donation_ledger/internal/dto"
	"github.com/SscSPs/donation_ledger/internal/middleware"
	"github.com/gin-gonic/gin"
)

// transactionHandler handles single transaction lookups and refunds.
type transactionHandler struct {
	wallets portssvc.WalletSvcFacade
	refunds portssvc.RefundSvc
}

func registerTransactionRoutes(rg *gin.RouterGroup, ws portssvc.WalletSvcFacade, rs portssvc.RefundSvc) {
	h := &transactionHandler{wallets: ws, refunds: rs}

	txns := rg.Group("/transactions")
	{
		txns.GET("/:id", h.getTransaction)
		txns.POST("/:id/refund", h.refundTransaction)
	}
}

// getTransaction godoc
// @Summary Get a transaction by ID
// @Tags transactions
// @Produce  json
// @Param   id path string true "Transaction ID"
// @Success 200 {object} dto.TransactionResponse
// @Failure 403 {object} map[string]string "Forbidden"
// @Failure 404 {object} map[string]string "Transaction not found"
// @Security BearerAuth
// @Router /transactions/{id} [get]
func (h *transactionHandler) getTransaction(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	userID, ok := requireUserID(c, logger)
	if !ok {
		return
	}

	txn, err := h.wallets.GetTransaction(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, logger, err, "get transaction")
		return
	}
	if _, ok := requireWalletOwner(c, logger, h.wallets, txn.WalletID, userID); !ok {
		return
	}
	c.JSON(http.StatusOK, dto.ToTransactionResponse(txn))
}

// refundTransaction godoc
// @Summary Refund a completed transaction
// @Description Appends refund entries that reverse the original. The original entry is never modified.
// @Tags transactions
// @Accept  json
// @Produce  json
// @Param   id path string true "Transaction ID"
// @Param   refund body dto.RefundRequest false "Refund details"
// @Success 201 {array} dto.TransactionResponse
// @Failure 400 {object} map[string]string "Entry cannot be refunded"
// @Failure 404 {object} map[string]string "Transaction not found"
// @Failure 409 {object} map[string]string "Already refunded"
// @Failure 422 {object} map[string]string "Insufficient funds to reverse"
// @Security BearerAuth
// @Router /transactions/{id}/refund [post]
func (h *transactionHandler) refundTransaction(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	transactionID := c.Param("id")
	var req dto.RefundRequest
	if c.Request.ContentLength > 0 && !bindJSON(c, logger, &req, "Refund") {
		return
	}
	userID, ok := requireUserID(c, logger)
	if !ok {
		return
	}

	logger = logger.With(slog.String("transaction_id", transactionID))
	logger.Info("Received request to refund transaction")
	entries, err := h.refunds.Refund(c.Request.Context(), transactionID, req, userID)
	if err != nil {
		respondError(c, logger, err, "refund transaction")
		return
	}

	logger.Info("Transaction refunded", slog.Int("entries", len(entries)))
	c.JSON(http.StatusCreated, dto.ToListTransactionResponse(entries))
}
