package handlers

import (
	"net/http"

	"github.com/SscSPs/donation_ledger/internal/core/domain"
	portssvc "github.com/SscSPs/donation_ledger/internal/core/ports/services"
	"github.com/SscSPs/donation_ledger/internal/dto"
	"github.com/SscSPs/donation_ledger/internal/middleware"
	"github.com/gin-gonic/gin"
)

// feeHandler quotes fees without moving money.
type feeHandler struct {
	fees portssvc.FeeCalculatorSvc
}

func registerFeeRoutes(rg *gin.RouterGroup, fs portssvc.FeeCalculatorSvc) {
	h := &feeHandler{fees: fs}

	fees := rg.Group("/fees")
	{
		fees.POST("/quote", h.quoteFee)
		fees.POST("/bulk-quote", h.quoteBulkFee)
	}
}

// quoteFee godoc
// @Summary Quote a fee
// @Description Computes the fee for one amount, optionally with a pricing tier and a target currency
// @Tags fees
// @Accept  json
// @Produce  json
// @Param   quote body dto.FeeQuoteRequest true "Fee basis"
// @Success 200 {object} dto.FeeQuoteResponse
// @Failure 400 {object} map[string]string "Unknown category or tier"
// @Security BearerAuth
// @Router /fees/quote [post]
func (h *feeHandler) quoteFee(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.FeeQuoteRequest
	if !bindJSON(c, logger, &req, "FeeQuote") {
		return
	}
	category, err := domain.ParseFeeCategory(req.Category)
	if err != nil {
		respondError(c, logger, err, "quote fee")
		return
	}

	base, err := h.fees.CalculateFee(req.Amount, category, req.Currency, req.Overrides)
	if err != nil {
		respondError(c, logger, err, "quote fee")
		return
	}
	resp := dto.FeeQuoteResponse{Base: *base}

	if req.Tier != "" {
		resp.Tiered, err = h.fees.CalculateTieredFee(req.Amount, category, req.Currency, domain.PricingTier(req.Tier))
		if err != nil {
			respondError(c, logger, err, "quote fee")
			return
		}
	}
	if req.TargetCurrency != "" {
		source := req.Currency
		if source == "" {
			source = base.Currency
		}
		resp.International, err = h.fees.CalculateInternationalFee(req.Amount, category, source, req.TargetCurrency)
		if err != nil {
			respondError(c, logger, err, "quote fee")
			return
		}
	}
	c.JSON(http.StatusOK, resp)
}

// quoteBulkFee godoc
// @Summary Quote the fee of several movements
// @Description Sums the per-item fees and applies the volume discount
// @Tags fees
// @Accept  json
// @Produce  json
// @Param   quote body dto.BulkFeeQuoteRequest true "Items"
// @Success 200 {object} domain.BulkFeeBreakdown
// @Failure 400 {object} map[string]string "Invalid item"
// @Security BearerAuth
// @Router /fees/bulk-quote [post]
func (h *feeHandler) quoteBulkFee(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.BulkFeeQuoteRequest
	if !bindJSON(c, logger, &req, "BulkFeeQuote") {
		return
	}

	items := make([]domain.FeeRequest, 0, len(req.Items))
	for _, item := range req.Items {
		category, err := domain.ParseFeeCategory(item.Category)
		if err != nil {
			respondError(c, logger, err, "quote bulk fee")
			return
		}
		items = append(items, domain.FeeRequest{Amount: item.Amount, Category: category, Currency: item.Currency})
	}

	breakdown, err := h.fees.CalculateBulkFee(items)
	if err != nil {
		respondError(c, logger, err, "quote bulk fee")
		return
	}
	c.JSON(http.StatusOK, breakdown)
}
