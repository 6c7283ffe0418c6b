package handlers

import (
	"log/slog"
	"net/http"

	portssvc "github.com/SscSPs/donation_ledger/internal/core/ports/services"
	"github.com/SscSPs/donation_ledger/internal/dto"
	"github.com/SscSPs/donation_ledger/internal/middleware"
	"github.com/gin-gonic/gin"
)

// transferHandler handles wallet-to-wallet movements.
type transferHandler struct {
	wallets   portssvc.WalletReaderSvc
	transfers portssvc.TwoWalletMovementSvc
}

func registerTransferRoutes(rg *gin.RouterGroup, ws portssvc.WalletReaderSvc, ts portssvc.TwoWalletMovementSvc) {
	h := &transferHandler{wallets: ws, transfers: ts}
	rg.POST("/transfers", h.createTransfer)
}

// createTransfer godoc
// @Summary Transfer between wallets
// @Description Debits amount plus fee from the source and credits the converted amount to the destination
// @Tags transfers
// @Accept  json
// @Produce  json
// @Param   transfer body dto.TransferRequest true "Transfer details"
// @Success 201 {object} dto.TransferResponse
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 403 {object} map[string]string "Forbidden"
// @Failure 404 {object} map[string]string "Wallet not found"
// @Failure 422 {object} map[string]string "Insufficient funds or wallet inactive"
// @Failure 503 {object} map[string]string "Exchange rate unavailable"
// @Security BearerAuth
// @Router /transfers [post]
func (h *transferHandler) createTransfer(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.TransferRequest
	if !bindJSON(c, logger, &req, "Transfer") {
		return
	}
	userID, ok := requireUserID(c, logger)
	if !ok {
		return
	}
	if _, ok := requireWalletOwner(c, logger, h.wallets, req.FromWalletID, userID); !ok {
		return
	}

	logger = logger.With(slog.String("from_wallet_id", req.FromWalletID), slog.String("to_wallet_id", req.ToWalletID))
	logger.Info("Received request to transfer", slog.String("amount", req.Amount.String()))
	result, err := h.transfers.Transfer(c.Request.Context(), req, userID)
	if err != nil {
		respondError(c, logger, err, "transfer")
		return
	}

	logger.Info("Transfer completed", slog.String("debit_id", result.Debit.TransactionID), slog.String("credit_id", result.Credit.TransactionID))
	c.JSON(http.StatusCreated, dto.ToTransferResponse(result))
}
