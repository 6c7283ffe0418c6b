package handlers

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/SscSPs/donation_ledger/internal/core/domain"
	portssvc "github.com/SscSPs/donation_ledger/internal/core/ports/services"
	"github.com/SscSPs/donation_ledger/internal/dto"
	"github.com/SscSPs/donation_ledger/internal/middleware"
	"github.com/SscSPs/donation_ledger/internal/utils"
	"github.com/gin-gonic/gin"
)

type singleWalletMovement func(ctx context.Context, walletID string, req dto.MoneyMovementRequest, userID string) (*domain.LedgerTransaction, error)

// walletHandler handles HTTP requests related to wallets and their history.
type walletHandler struct {
	wallets   portssvc.WalletSvcFacade
	movements portssvc.SingleWalletMovementSvc
}

// newWalletHandler creates a new walletHandler.
func newWalletHandler(ws portssvc.WalletSvcFacade, ms portssvc.SingleWalletMovementSvc) *walletHandler {
	return &walletHandler{wallets: ws, movements: ms}
}

// registerWalletRoutes registers routes related to wallets.
func registerWalletRoutes(rg *gin.RouterGroup, ws portssvc.WalletSvcFacade, ms portssvc.SingleWalletMovementSvc) {
	h := newWalletHandler(ws, ms)

	wallets := rg.Group("/wallets")
	{
		wallets.POST("", h.createWallet)
		wallets.GET("", h.listWallets)
		wallets.GET("/:id", h.getWallet)
		wallets.GET("/:id/balance", h.getBalance)
		wallets.GET("/:id/reconcile", h.reconcileWallet)
		wallets.POST("/:id/deposit", h.deposit)
		wallets.POST("/:id/withdraw", h.withdraw)
		wallets.POST("/:id/charge-fee", h.chargeFee)
		wallets.POST("/:id/deactivate", h.deactivateWallet)
		wallets.POST("/:id/reactivate", h.reactivateWallet)
		wallets.GET("/:id/transactions", h.listTransactions)
		wallets.GET("/:id/transactions/stats", h.getTransactionStats)
	}
}

// createWallet godoc
// @Summary Open a wallet
// @Description Opens a wallet in a currency for the logged-in user. One wallet per currency.
// @Tags wallets
// @Accept  json
// @Produce  json
// @Param   wallet body dto.CreateWalletRequest true "Wallet currency"
// @Success 201 {object} dto.WalletResponse
// @Failure 400 {object} map[string]string "Invalid input format or unknown currency"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 409 {object} map[string]string "Wallet already exists for this currency"
// @Failure 500 {object} map[string]string "Failed to create wallet"
// @Security BearerAuth
// @Router /wallets [post]
func (h *walletHandler) createWallet(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.CreateWalletRequest
	if !bindJSON(c, logger, &req, "CreateWallet") {
		return
	}
	userID, ok := requireUserID(c, logger)
	if !ok {
		return
	}

	logger.Info("Received request to create wallet", slog.String("currency_code", req.CurrencyCode))
	wallet, err := h.wallets.CreateWallet(c.Request.Context(), req, userID)
	if err != nil {
		respondError(c, logger, err, "create wallet")
		return
	}

	logger.Info("Wallet created successfully", slog.String("wallet_id", wallet.WalletID))
	c.JSON(http.StatusCreated, dto.ToWalletResponse(wallet))
}

// listWallets godoc
// @Summary List my wallets
// @Tags wallets
// @Produce  json
// @Success 200 {array} dto.WalletResponse
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 500 {object} map[string]string "Failed to list wallets"
// @Security BearerAuth
// @Router /wallets [get]
func (h *walletHandler) listWallets(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	userID, ok := requireUserID(c, logger)
	if !ok {
		return
	}

	wallets, err := h.wallets.ListWalletsByOwner(c.Request.Context(), userID)
	if err != nil {
		respondError(c, logger, err, "list wallets")
		return
	}
	c.JSON(http.StatusOK, dto.ToListWalletResponse(wallets))
}

// getWallet godoc
// @Summary Get a wallet by ID
// @Tags wallets
// @Produce  json
// @Param   id path string true "Wallet ID"
// @Success 200 {object} dto.WalletResponse
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 403 {object} map[string]string "Forbidden"
// @Failure 404 {object} map[string]string "Wallet not found"
// @Security BearerAuth
// @Router /wallets/{id} [get]
func (h *walletHandler) getWallet(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	userID, ok := requireUserID(c, logger)
	if !ok {
		return
	}
	wallet, ok := requireWalletOwner(c, logger, h.wallets, c.Param("id"), userID)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, dto.ToWalletResponse(wallet))
}

// getBalance godoc
// @Summary Get a wallet balance
// @Tags wallets
// @Produce  json
// @Param   id path string true "Wallet ID"
// @Success 200 {object} dto.WalletBalanceResponse
// @Failure 403 {object} map[string]string "Forbidden"
// @Failure 404 {object} map[string]string "Wallet not found"
// @Security BearerAuth
// @Router /wallets/{id}/balance [get]
func (h *walletHandler) getBalance(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	walletID := c.Param("id")
	userID, ok := requireUserID(c, logger)
	if !ok {
		return
	}
	if _, ok := requireWalletOwner(c, logger, h.wallets, walletID, userID); !ok {
		return
	}

	balance, currency, err := h.wallets.GetBalance(c.Request.Context(), walletID)
	if err != nil {
		respondError(c, logger, err, "get balance")
		return
	}
	c.JSON(http.StatusOK, dto.WalletBalanceResponse{
		WalletID:         walletID,
		Balance:          balance,
		FormattedBalance: utils.FormatWithCurrencyPrecision(balance, currency),
		CurrencyCode:     currency,
	})
}

// reconcileWallet godoc
// @Summary Reconcile a wallet
// @Description Compares the stored balance with the sum of completed transactions
// @Tags wallets
// @Produce  json
// @Param   id path string true "Wallet ID"
// @Success 200 {object} domain.BalanceReconciliation
// @Failure 403 {object} map[string]string "Forbidden"
// @Failure 404 {object} map[string]string "Wallet not found"
// @Security BearerAuth
// @Router /wallets/{id}/reconcile [get]
func (h *walletHandler) reconcileWallet(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	walletID := c.Param("id")
	userID, ok := requireUserID(c, logger)
	if !ok {
		return
	}
	if _, ok := requireWalletOwner(c, logger, h.wallets, walletID, userID); !ok {
		return
	}

	rec, err := h.wallets.ReconcileWallet(c.Request.Context(), walletID)
	if err != nil {
		respondError(c, logger, err, "reconcile wallet")
		return
	}
	if !rec.Balanced {
		logger.Error("Wallet balance drifted from transaction log",
			slog.String("wallet_id", walletID),
			slog.String("stored", rec.StoredBalance.String()),
			slog.String("ledger", rec.LedgerBalance.String()))
	}
	c.JSON(http.StatusOK, rec)
}

// deposit godoc
// @Summary Deposit into a wallet
// @Description Credits the amount net of the deposit fee. A repeated reference returns the original entry.
// @Tags wallets
// @Accept  json
// @Produce  json
// @Param   id path string true "Wallet ID"
// @Param   deposit body dto.MoneyMovementRequest true "Deposit details"
// @Success 201 {object} dto.TransactionResponse
// @Failure 400 {object} map[string]string "Invalid amount"
// @Failure 403 {object} map[string]string "Forbidden"
// @Failure 404 {object} map[string]string "Wallet not found"
// @Failure 409 {object} map[string]string "Reference already used"
// @Failure 422 {object} map[string]string "Wallet inactive"
// @Security BearerAuth
// @Router /wallets/{id}/deposit [post]
func (h *walletHandler) deposit(c *gin.Context) {
	h.move(c, "deposit", h.movements.Deposit)
}

// withdraw godoc
// @Summary Withdraw from a wallet
// @Description Debits the amount plus the withdrawal fee
// @Tags wallets
// @Accept  json
// @Produce  json
// @Param   id path string true "Wallet ID"
// @Param   withdrawal body dto.MoneyMovementRequest true "Withdrawal details"
// @Success 201 {object} dto.TransactionResponse
// @Failure 400 {object} map[string]string "Invalid amount"
// @Failure 403 {object} map[string]string "Forbidden"
// @Failure 404 {object} map[string]string "Wallet not found"
// @Failure 422 {object} map[string]string "Insufficient funds or wallet inactive"
// @Security BearerAuth
// @Router /wallets/{id}/withdraw [post]
func (h *walletHandler) withdraw(c *gin.Context) {
	h.move(c, "withdraw", h.movements.Withdraw)
}

// move runs a deposit or withdrawal on a wallet the caller owns.
func (h *walletHandler) move(c *gin.Context, action string, fn singleWalletMovement) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	walletID := c.Param("id")
	var req dto.MoneyMovementRequest
	if !bindJSON(c, logger, &req, action) {
		return
	}
	userID, ok := requireUserID(c, logger)
	if !ok {
		return
	}
	if _, ok := requireWalletOwner(c, logger, h.wallets, walletID, userID); !ok {
		return
	}

	logger = logger.With(slog.String("wallet_id", walletID))
	logger.Info("Received request to "+action, slog.String("amount", req.Amount.String()), slog.String("reference", req.Reference))
	txn, err := fn(c.Request.Context(), walletID, req, userID)
	if err != nil {
		respondError(c, logger, err, action)
		return
	}

	logger.Info("Movement recorded", slog.String("transaction_id", txn.TransactionID), slog.String("action", action))
	c.JSON(http.StatusCreated, dto.ToTransactionResponse(txn))
}

// chargeFee godoc
// @Summary Charge a platform fee
// @Description Debits the fee the given category computes for amount
// @Tags wallets
// @Accept  json
// @Produce  json
// @Param   id path string true "Wallet ID"
// @Param   fee body dto.ChargeFeeRequest true "Fee basis"
// @Success 201 {object} dto.TransactionResponse
// @Failure 400 {object} map[string]string "Unknown category"
// @Failure 404 {object} map[string]string "Wallet not found"
// @Failure 422 {object} map[string]string "Insufficient funds or wallet inactive"
// @Security BearerAuth
// @Router /wallets/{id}/charge-fee [post]
func (h *walletHandler) chargeFee(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	walletID := c.Param("id")
	var req dto.ChargeFeeRequest
	if !bindJSON(c, logger, &req, "ChargeFee") {
		return
	}
	userID, ok := requireUserID(c, logger)
	if !ok {
		return
	}

	logger = logger.With(slog.String("wallet_id", walletID))
	logger.Info("Received request to charge fee", slog.String("category", req.Category))
	txn, err := h.movements.ChargeFee(c.Request.Context(), walletID, req, userID)
	if err != nil {
		respondError(c, logger, err, "charge fee")
		return
	}
	c.JSON(http.StatusCreated, dto.ToTransactionResponse(txn))
}

// deactivateWallet godoc
// @Summary Deactivate a wallet
// @Description Blocks further movements. Balance and history are kept.
// @Tags wallets
// @Produce  json
// @Param   id path string true "Wallet ID"
// @Success 200 {object} dto.WalletResponse
// @Failure 403 {object} map[string]string "Forbidden"
// @Failure 404 {object} map[string]string "Wallet not found"
// @Security BearerAuth
// @Router /wallets/{id}/deactivate [post]
func (h *walletHandler) deactivateWallet(c *gin.Context) {
	h.setActive(c, false)
}

// reactivateWallet godoc
// @Summary Reactivate a wallet
// @Tags wallets
// @Produce  json
// @Param   id path string true "Wallet ID"
// @Success 200 {object} dto.WalletResponse
// @Failure 403 {object} map[string]string "Forbidden"
// @Failure 404 {object} map[string]string "Wallet not found"
// @Security BearerAuth
// @Router /wallets/{id}/reactivate [post]
func (h *walletHandler) reactivateWallet(c *gin.Context) {
	h.setActive(c, true)
}

func (h *walletHandler) setActive(c *gin.Context, active bool) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	walletID := c.Param("id")
	userID, ok := requireUserID(c, logger)
	if !ok {
		return
	}
	if _, ok := requireWalletOwner(c, logger, h.wallets, walletID, userID); !ok {
		return
	}

	fn, action := h.wallets.DeactivateWallet, "deactivate wallet"
	if active {
		fn, action = h.wallets.ReactivateWallet, "reactivate wallet"
	}
	wallet, err := fn(c.Request.Context(), walletID, userID)
	if err != nil {
		respondError(c, logger, err, action)
		return
	}
	logger.Info("Wallet active flag changed", slog.String("wallet_id", walletID), slog.Bool("active", active))
	c.JSON(http.StatusOK, dto.ToWalletResponse(wallet))
}

// listTransactions godoc
// @Summary List wallet transactions
// @Description Newest first, paginated with an opaque token
// @Tags transactions
// @Produce  json
// @Param   id path string true "Wallet ID"
// @Param   type query string false "Filter by type"
// @Param   status query string false "Filter by status"
// @Param   limit query int false "Page size" default(20)
// @Param   nextToken query string false "Token from the previous page"
// @Success 200 {object} dto.ListTransactionsResponse
// @Failure 400 {object} map[string]string "Invalid query parameters"
// @Failure 403 {object} map[string]string "Forbidden"
// @Security BearerAuth
// @Router /wallets/{id}/transactions [get]
func (h *walletHandler) listTransactions(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	walletID := c.Param("id")
	var params dto.ListTransactionsParams
	if err := c.ShouldBindQuery(&params); err != nil {
		logger.Warn("Failed to bind query params for ListTransactions", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid query parameters: " + err.Error()})
		return
	}
	userID, ok := requireUserID(c, logger)
	if !ok {
		return
	}
	if _, ok := requireWalletOwner(c, logger, h.wallets, walletID, userID); !ok {
		return
	}

	resp, err := h.wallets.ListTransactions(c.Request.Context(), walletID, params)
	if err != nil {
		respondError(c, logger, err, "list transactions")
		return
	}
	c.JSON(http.StatusOK, resp)
}

// getTransactionStats godoc
// @Summary Aggregate wallet transactions
// @Tags transactions
// @Produce  json
// @Param   id path string true "Wallet ID"
// @Success 200 {object} domain.TransactionStats
// @Failure 403 {object} map[string]string "Forbidden"
// @Failure 404 {object} map[string]string "Wallet not found"
// @Security BearerAuth
// @Router /wallets/{id}/transactions/stats [get]
func (h *walletHandler) getTransactionStats(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	walletID := c.Param("id")
	userID, ok := requireUserID(c, logger)
	if !ok {
		return
	}
	if _, ok := requireWalletOwner(c, logger, h.wallets, walletID, userID); !ok {
		return
	}

	stats, err := h.wallets.GetTransactionStats(c.Request.Context(), walletID)
	if err != nil {
		respondError(c, logger, err, "get transaction stats")
		return
	}
	c.JSON(http.StatusOK, stats)
}
