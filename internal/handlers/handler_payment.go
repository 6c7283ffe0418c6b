package handlers

import (
	"log/slog"
	"net/http"

	portssvc "github.com/SscSPs/donation_ledger/internal/core/ports/services"
	"github.com/SscSPs/donation_ledger/internal/dto"
	"github.com/SscSPs/donation_ledger/internal/middleware"
	"github.com/gin-gonic/gin"
)

// paymentHandler bridges the payment gateway and the ledger.
type paymentHandler struct {
	wallets  portssvc.WalletReaderSvc
	payments portssvc.PaymentSvcFacade
}

func registerPaymentRoutes(rg *gin.RouterGroup, ws portssvc.WalletReaderSvc, ps portssvc.PaymentSvcFacade) {
	h := &paymentHandler{wallets: ws, payments: ps}

	payments := rg.Group("/payments")
	{
		payments.POST("/deposits", h.initiateDeposit)
		payments.POST("/payouts", h.requestPayout)
	}
}

// registerWebhookRoutes registers the gateway callbacks. They are authenticated by signature, not JWT.
func registerWebhookRoutes(r *gin.Engine, webhookSecret string, ps portssvc.PaymentSvcFacade) {
	h := &paymentHandler{payments: ps}
	r.POST("/webhooks/payments", middleware.WebhookSignature(webhookSecret), h.paymentWebhook)
}

// initiateDeposit godoc
// @Summary Start a gateway deposit
// @Description Creates a payment intent and a pending deposit. The balance changes when the gateway confirms.
// @Tags payments
// @Accept  json
// @Produce  json
// @Param   deposit body dto.InitiateDepositRequest true "Deposit details"
// @Success 201 {object} domain.DepositInitiation
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 403 {object} map[string]string "Forbidden"
// @Failure 422 {object} map[string]string "Wallet inactive"
// @Security BearerAuth
// @Router /payments/deposits [post]
func (h *paymentHandler) initiateDeposit(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.InitiateDepositRequest
	if !bindJSON(c, logger, &req, "InitiateDeposit") {
		return
	}
	userID, ok := requireUserID(c, logger)
	if !ok {
		return
	}
	if _, ok := requireWalletOwner(c, logger, h.wallets, req.WalletID, userID); !ok {
		return
	}

	initiation, err := h.payments.InitiateDeposit(c.Request.Context(), req, userID)
	if err != nil {
		respondError(c, logger, err, "initiate deposit")
		return
	}
	logger.Info("Deposit initiated", slog.String("intent_id", initiation.Intent.ID), slog.String("transaction_id", initiation.Transaction.TransactionID))
	c.JSON(http.StatusCreated, initiation)
}

// requestPayout godoc
// @Summary Pay out to an external destination
// @Description Debits the wallet and sends the money through the gateway. A failed payout is reversed.
// @Tags payments
// @Accept  json
// @Produce  json
// @Param   payout body dto.PayoutRequest true "Payout details"
// @Success 201 {object} domain.PayoutResult
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 403 {object} map[string]string "Forbidden"
// @Failure 422 {object} map[string]string "Insufficient funds"
// @Failure 503 {object} map[string]string "Gateway unavailable"
// @Security BearerAuth
// @Router /payments/payouts [post]
func (h *paymentHandler) requestPayout(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.PayoutRequest
	if !bindJSON(c, logger, &req, "Payout") {
		return
	}
	userID, ok := requireUserID(c, logger)
	if !ok {
		return
	}
	if _, ok := requireWalletOwner(c, logger, h.wallets, req.WalletID, userID); !ok {
		return
	}

	result, err := h.payments.RequestPayout(c.Request.Context(), req, userID)
	if err != nil {
		respondError(c, logger, err, "request payout")
		return
	}
	logger.Info("Payout processed", slog.String("payout_id", result.Payout.ID), slog.String("status", string(result.Payout.Status)))
	c.JSON(http.StatusCreated, result)
}

// paymentWebhook godoc
// @Summary Gateway payment callback
// @Description Confirms the intent and settles its pending deposit. Replays are no-ops.
// @Tags payments
// @Accept  json
// @Produce  json
// @Param   X-Signature header string true "Hex HMAC-SHA256 of the body"
// @Param   event body dto.PaymentWebhookRequest true "Intent settled"
// @Success 200 {object} dto.TransactionResponse
// @Failure 401 {object} map[string]string "Invalid signature"
// @Failure 404 {object} map[string]string "Unknown intent"
// @Router /webhooks/payments [post]
func (h *paymentHandler) paymentWebhook(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.PaymentWebhookRequest
	if !bindJSON(c, logger, &req, "PaymentWebhook") {
		return
	}

	logger = logger.With(slog.String("intent_id", req.IntentID))
	txn, err := h.payments.ConfirmDeposit(c.Request.Context(), req.IntentID, req.MethodID)
	if err != nil {
		respondError(c, logger, err, "confirm deposit")
		return
	}
	logger.Info("Payment webhook processed", slog.String("status", string(txn.Status)))
	c.JSON(http.StatusOK, dto.ToTransactionResponse(txn))
}
