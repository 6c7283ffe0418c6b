package handlers

import (
	"log/slog"
	"net/http"

	portssvc "github.com/SscSPs/donation_ledger/internal/core/ports/services"
	"github.com/SscSPs/donation_ledger/internal/dto"
	"github.com/SscSPs/donation_ledger/internal/middleware"
	"github.com/gin-gonic/gin"
)

// donationHandler handles donation records and direct donations.
type donationHandler struct {
	wallets   portssvc.WalletReaderSvc
	donations portssvc.DonationSvcFacade
	transfers portssvc.TwoWalletMovementSvc
}

func registerDonationRoutes(rg *gin.RouterGroup, ws portssvc.WalletReaderSvc, ds portssvc.DonationSvcFacade, ts portssvc.TwoWalletMovementSvc) {
	h := &donationHandler{wallets: ws, donations: ds, transfers: ts}

	donations := rg.Group("/donations")
	{
		donations.POST("", h.createDonation)
		donations.GET("", h.listReceivedDonations)
		donations.POST("/direct", h.donate)
		donations.GET("/:id", h.getDonation)
		donations.POST("/:id/status", h.transitionDonation)
	}
}

// createDonation godoc
// @Summary Create a pending donation
// @Description Registers a donation. No money moves until it is marked completed.
// @Tags donations
// @Accept  json
// @Produce  json
// @Param   donation body dto.CreateDonationRequest true "Donation details"
// @Success 201 {object} dto.DonationResponse
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 403 {object} map[string]string "Forbidden"
// @Failure 404 {object} map[string]string "Recipient has no wallet in the donor currency"
// @Security BearerAuth
// @Router /donations [post]
func (h *donationHandler) createDonation(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.CreateDonationRequest
	if !bindJSON(c, logger, &req, "CreateDonation") {
		return
	}
	userID, ok := requireUserID(c, logger)
	if !ok {
		return
	}
	if _, ok := requireWalletOwner(c, logger, h.wallets, req.DonorWalletID, userID); !ok {
		return
	}

	logger.Info("Received request to create donation", slog.String("recipient_owner_id", req.RecipientOwnerID))
	donation, err := h.donations.CreateDonation(c.Request.Context(), req, userID)
	if err != nil {
		respondError(c, logger, err, "create donation")
		return
	}
	c.JSON(http.StatusCreated, dto.ToDonationResponse(donation))
}

// listReceivedDonations godoc
// @Summary List donations received by the logged-in user
// @Tags donations
// @Produce  json
// @Param   limit query int false "Page size" default(20)
// @Param   nextToken query string false "Token from the previous page"
// @Success 200 {object} dto.ListDonationsResponse
// @Failure 400 {object} map[string]string "Invalid query parameters"
// @Security BearerAuth
// @Router /donations [get]
func (h *donationHandler) listReceivedDonations(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var params dto.ListDonationsParams
	if err := c.ShouldBindQuery(&params); err != nil {
		logger.Warn("Failed to bind query params for ListDonations", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid query parameters: " + err.Error()})
		return
	}
	userID, ok := requireUserID(c, logger)
	if !ok {
		return
	}

	resp, err := h.donations.ListDonationsByRecipient(c.Request.Context(), userID, params)
	if err != nil {
		respondError(c, logger, err, "list donations")
		return
	}
	c.JSON(http.StatusOK, resp)
}

// donate godoc
// @Summary Donate immediately
// @Description Moves money to the recipient's wallet in the donor currency in one step
// @Tags donations
// @Accept  json
// @Produce  json
// @Param   donation body dto.DonateRequest true "Donation details"
// @Success 201 {object} dto.TransferResponse
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 403 {object} map[string]string "Forbidden"
// @Failure 404 {object} map[string]string "Recipient wallet not found"
// @Failure 422 {object} map[string]string "Insufficient funds"
// @Security BearerAuth
// @Router /donations/direct [post]
func (h *donationHandler) donate(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.DonateRequest
	if !bindJSON(c, logger, &req, "Donate") {
		return
	}
	userID, ok := requireUserID(c, logger)
	if !ok {
		return
	}
	if _, ok := requireWalletOwner(c, logger, h.wallets, req.FromWalletID, userID); !ok {
		return
	}

	result, err := h.transfers.Donate(c.Request.Context(), req, userID)
	if err != nil {
		respondError(c, logger, err, "donate")
		return
	}
	logger.Info("Direct donation completed", slog.String("to_owner_id", req.ToOwnerID), slog.String("credited", result.CreditedAmount.String()))
	c.JSON(http.StatusCreated, dto.ToTransferResponse(result))
}

// getDonation godoc
// @Summary Get a donation by ID
// @Tags donations
// @Produce  json
// @Param   id path string true "Donation ID"
// @Success 200 {object} dto.DonationResponse
// @Failure 404 {object} map[string]string "Donation not found"
// @Security BearerAuth
// @Router /donations/{id} [get]
func (h *donationHandler) getDonation(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	donation, err := h.donations.GetDonation(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, logger, err, "get donation")
		return
	}
	c.JSON(http.StatusOK, dto.ToDonationResponse(donation))
}

// transitionDonation godoc
// @Summary Change a donation status
// @Description completed moves the money once; cancelling a completed donation reverses it
// @Tags donations
// @Accept  json
// @Produce  json
// @Param   id path string true "Donation ID"
// @Param   transition body dto.DonationTransitionRequest true "Target status"
// @Success 200 {object} dto.DonationResponse
// @Failure 400 {object} map[string]string "Invalid status"
// @Failure 404 {object} map[string]string "Donation not found"
// @Failure 409 {object} map[string]string "Transition not allowed"
// @Failure 422 {object} map[string]string "Insufficient funds"
// @Security BearerAuth
// @Router /donations/{id}/status [post]
func (h *donationHandler) transitionDonation(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	donationID := c.Param("id")
	var req dto.DonationTransitionRequest
	if !bindJSON(c, logger, &req, "DonationTransition") {
		return
	}
	userID, ok := requireUserID(c, logger)
	if !ok {
		return
	}

	logger = logger.With(slog.String("donation_id", donationID))
	logger.Info("Received request to change donation status", slog.String("status", string(req.Status)))
	donation, err := h.donations.TransitionDonation(c.Request.Context(), donationID, req, userID)
	if err != nil {
		respondError(c, logger, err, "change donation status")
		return
	}
	c.JSON(http.StatusOK, dto.ToDonationResponse(donation))
}
