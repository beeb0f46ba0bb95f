package httpserver

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"takeout-storefront/internal/currency"
	"takeout-storefront/internal/domain"
)

func listCurrenciesHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"data": currency.All()})
}

func getRatesHandler(deps Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		snap := deps.Rates.Snapshot()
		c.JSON(http.StatusOK, gin.H{
			"rates":       snap.Rates,
			"ratesMap":    snap.RatesMap,
			"loading":     snap.Loading,
			"error":       snap.Error,
			"lastUpdated": snap.LastUpdated,
			"degraded":    snap.Degraded,
			"recent":      currency.AreRatesRecent(snap.LastUpdated, deps.RatesMaxAge),
		})
	}
}

// refreshRatesHandler triggers an immediate fetch. A trigger arriving while
// a fetch is already in flight reports started=false and changes nothing.
func refreshRatesHandler(deps Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		started := deps.RatesManager.Refresh(c.Request.Context())
		c.JSON(http.StatusAccepted, gin.H{"started": started})
	}
}

func getPreferencesHandler(deps Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, deps.Prefs.Get())
	}
}

type preferencesRequest struct {
	Currency string `json:"currency"`
	Locale   string `json:"locale"`
}

func updatePreferencesHandler(deps Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req preferencesRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			writeError(c, domain.NewError(domain.CodeValidation, "invalid preferences payload: "+err.Error()))
			return
		}

		ctx := c.Request.Context()
		if req.Currency != "" {
			if err := deps.Prefs.SetCurrency(ctx, req.Currency); err != nil {
				writeError(c, err)
				return
			}
		}
		if req.Locale != "" {
			if err := deps.Prefs.SetLocale(ctx, req.Locale); err != nil {
				writeError(c, err)
				return
			}
		}
		c.JSON(http.StatusOK, deps.Prefs.Get())
	}
}
