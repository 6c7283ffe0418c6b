package handlers

import (
	"log/slog"
	"net/http"
	"strings"

	portssvc "github.com/SscSPs/donation_ledger/internal/core/ports/services"
	"github.com/SscSPs/donation_ledger/internal/dto"
	"github.com/SscSPs/donation_ledger/internal/middleware"
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

// exchangeRateHandler handles HTTP requests related to exchange rates.
type exchangeRateHandler struct {
	exchangeRateService portssvc.ExchangeRateSvcFacade
}

// newExchangeRateHandler creates a new exchangeRateHandler.
func newExchangeRateHandler(ers portssvc.ExchangeRateSvcFacade) *exchangeRateHandler {
	return &exchangeRateHandler{
		exchangeRateService: ers,
	}
}

// registerExchangeRateRoutes registers routes related to exchange rates.
func registerExchangeRateRoutes(rg *gin.RouterGroup, exchangeRateService portssvc.ExchangeRateSvcFacade) {
	h := newExchangeRateHandler(exchangeRateService)

	exchangeRates := rg.Group("/exchange-rates")
	{
		// Static segments are registered before the wildcard pair
		exchangeRates.GET("/convert", h.convert)
		exchangeRates.GET("/batch", h.getRatesBatch)
		exchangeRates.GET("/cache", h.getCacheStats)
		exchangeRates.DELETE("/cache", h.clearCache)
		exchangeRates.GET("/:from/:to", h.getExchangeRate)
	}
}

// getExchangeRate godoc
// @Summary Get an exchange rate
// @Description Resolves from the cache, then from the upstream providers in order
// @Tags exchange rates
// @Produce  json
// @Param   from path string true "From Currency Code (e.g., USD)"
// @Param   to path string true "To Currency Code (e.g., EUR)"
// @Success 200 {object} dto.ExchangeRateResponse
// @Failure 400 {object} map[string]string "Invalid currency code"
// @Failure 503 {object} map[string]string "No provider could serve the rate"
// @Security BearerAuth
// @Router /exchange-rates/{from}/{to} [get]
func (h *exchangeRateHandler) getExchangeRate(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	from := c.Param("from")
	to := c.Param("to")

	logger = logger.With(slog.String("from", from), slog.String("to", to))
	quote, err := h.exchangeRateService.GetRate(c.Request.Context(), from, to)
	if err != nil {
		respondError(c, logger, err, "get exchange rate")
		return
	}

	logger.Debug("Exchange rate resolved", slog.String("source", string(quote.Source)))
	c.JSON(http.StatusOK, dto.ToExchangeRateResponse(quote))
}

// convert godoc
// @Summary Convert an amount
// @Tags exchange rates
// @Produce  json
// @Param   amount query string true "Amount"
// @Param   from query string true "From Currency Code"
// @Param   to query string true "To Currency Code"
// @Success 200 {object} domain.Conversion
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 503 {object} map[string]string "No provider could serve the rate"
// @Security BearerAuth
// @Router /exchange-rates/convert [get]
func (h *exchangeRateHandler) convert(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var params dto.ConvertParams
	if err := c.ShouldBindQuery(&params); err != nil {
		logger.Warn("Failed to bind query params for Convert", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid query parameters: " + err.Error()})
		return
	}
	amount, err := decimal.NewFromString(params.Amount)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid amount: " + params.Amount})
		return
	}

	conversion, err := h.exchangeRateService.Convert(c.Request.Context(), amount, params.From, params.To)
	if err != nil {
		respondError(c, logger, err, "convert amount")
		return
	}
	c.JSON(http.StatusOK, conversion)
}

// getRatesBatch godoc
// @Summary Get several rates from one base
// @Description Pairs that cannot be resolved are left out of the result
// @Tags exchange rates
// @Produce  json
// @Param   base query string true "Base Currency Code"
// @Param   targets query []string true "Target Currency Codes" collectionFormat(csv)
// @Success 200 {array} dto.ExchangeRateResponse
// @Failure 400 {object} map[string]string "Invalid input"
// @Security BearerAuth
// @Router /exchange-rates/batch [get]
func (h *exchangeRateHandler) getRatesBatch(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var params dto.BatchRatesParams
	if err := c.ShouldBindQuery(&params); err != nil {
		logger.Warn("Failed to bind query params for BatchRates", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid query parameters: " + err.Error()})
		return
	}

	var targets []string
	for _, t := range params.Targets {
		for _, part := range strings.Split(t, ",") {
			if part = strings.TrimSpace(part); part != "" {
				targets = append(targets, part)
			}
		}
	}

	quotes, err := h.exchangeRateService.GetRatesBatch(c.Request.Context(), params.Base, targets)
	if err != nil {
		respondError(c, logger, err, "get exchange rates")
		return
	}
	c.JSON(http.StatusOK, dto.ToListExchangeRateResponse(quotes))
}

// getCacheStats godoc
// @Summary Exchange rate cache statistics
// @Tags exchange rates
// @Produce  json
// @Success 200 {object} domain.RateCacheStats
// @Security BearerAuth
// @Router /exchange-rates/cache [get]
func (h *exchangeRateHandler) getCacheStats(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	stats, err := h.exchangeRateService.CacheStats(c.Request.Context())
	if err != nil {
		respondError(c, logger, err, "read rate cache stats")
		return
	}
	c.JSON(http.StatusOK, stats)
}

// clearCache godoc
// @Summary Clear the exchange rate cache
// @Tags exchange rates
// @Success 204 "No Content"
// @Security BearerAuth
// @Router /exchange-rates/cache [delete]
func (h *exchangeRateHandler) clearCache(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	if err := h.exchangeRateService.ClearCache(c.Request.Context()); err != nil {
		respondError(c, logger, err, "clear rate cache")
		return
	}
	logger.Info("Exchange rate cache cleared")
	c.Status(http.StatusNoContent)
}
