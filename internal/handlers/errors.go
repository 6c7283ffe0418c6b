package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/SscSPs/donation_ledger/internal/apperrors"
	"github.com/SscSPs/donation_ledger/internal/core/domain"
	portssvc "github.com/SscSPs/donation_ledger/internal/core/ports/services"
	"github.com/SscSPs/donation_ledger/internal/middleware"
	"github.com/gin-gonic/gin"
)

// statusForError maps service errors to HTTP status codes.
func statusForError(err error) int {
	switch {
	case errors.Is(err, apperrors.ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, apperrors.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, apperrors.ErrDuplicate), errors.Is(err, apperrors.ErrInvalidTransition):
		return http.StatusConflict
	case errors.Is(err, apperrors.ErrInsufficientFunds), errors.Is(err, apperrors.ErrInactive):
		return http.StatusUnprocessableEntity
	case errors.Is(err, apperrors.ErrServiceUnavailable):
		return http.StatusServiceUnavailable
	}
	var appErr *apperrors.AppError
	if errors.As(err, &appErr) && appErr.Code >= 400 && appErr.Code < 600 {
		return appErr.Code
	}
	return http.StatusInternalServerError
}

// respondError writes the mapped status. Server-side failures hide the cause from the client.
func respondError(c *gin.Context, logger *slog.Logger, err error, action string) {
	status := statusForError(err)
	if status >= http.StatusInternalServerError {
		logger.Error("Failed to "+action, slog.String("error", err.Error()), slog.Int("status", status))
		msg := "Failed to " + action
		if status == http.StatusServiceUnavailable {
			msg = "Upstream service unavailable, try again later"
		}
		c.JSON(status, gin.H{"error": msg})
		return
	}
	logger.Warn("Rejected request to "+action, slog.String("error", err.Error()), slog.Int("status", status))
	c.JSON(status, gin.H{"error": err.Error()})
}

// requireUserID reads the authenticated caller or aborts with 401.
func requireUserID(c *gin.Context, logger *slog.Logger) (string, bool) {
	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		logger.Error("User ID not found in context")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return "", false
	}
	return userID, true
}

// requireWalletOwner loads a wallet and aborts with 403 unless the caller owns it.
func requireWalletOwner(c *gin.Context, logger *slog.Logger, wallets portssvc.WalletReaderSvc, walletID, userID string) (*domain.Wallet, bool) {
	wallet, err := wallets.GetWallet(c.Request.Context(), walletID)
	if err != nil {
		respondError(c, logger, err, "load wallet")
		return nil, false
	}
	if wallet.OwnerID != userID {
		logger.Warn("User forbidden to access wallet", slog.String("wallet_id", walletID), slog.String("owner_id", wallet.OwnerID))
		c.JSON(http.StatusForbidden, gin.H{"error": "Forbidden"})
		return nil, false
	}
	return wallet, true
}

// bindJSON binds the request body or answers 400.
func bindJSON(c *gin.Context, logger *slog.Logger, req any, what string) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		logger.Warn("Failed to bind JSON for "+what, slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return false
	}
	return true
}
