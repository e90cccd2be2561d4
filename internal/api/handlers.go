package api

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"CapitalSentinel/internal/advisor"
	"CapitalSentinel/internal/options"
	"CapitalSentinel/internal/portfolio"
)

type Handlers struct {
	Health    *HealthHandler
	Advisory  *AdvisoryHandler
	Options   *OptionsHandler
	Portfolio *PortfolioHandler
}

type HealthHandler struct {
	env     string
	started time.Time
}

func (h *HealthHandler) CheckHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "healthy",
		"env":    h.env,
		"uptime": time.Since(h.started).Round(time.Second).String(),
	})
}

type AdvisoryHandler struct {
	advisor   *advisor.Advisor
	portfolio *portfolio.Manager
}

func (h *AdvisoryHandler) GetSignals(c *gin.Context) {
	rep := h.advisor.Run(c.Request.Context(), h.portfolio.GetState())
	c.JSON(http.StatusOK, gin.H{
		"generated_at": rep.GeneratedAt,
		"signals":      rep.Signals,
	})
}

func (h *AdvisoryHandler) GetTickets(c *gin.Context) {
	rep := h.advisor.Run(c.Request.Context(), h.portfolio.GetState())
	c.JSON(http.StatusOK, gin.H{
		"generated_at": rep.GeneratedAt,
		"targets":      rep.Targets,
		"tickets":      rep.Tickets,
		"clip":         rep.Clip,
		"unpriced":     rep.Unpriced,
	})
}

type PortfolioHandler struct {
	advisor   *advisor.Advisor
	portfolio *portfolio.Manager
}

func (h *PortfolioHandler) GetPortfolio(c *gin.Context) {
	state := h.portfolio.GetState()
	rep := h.advisor.Run(c.Request.Context(), state)
	c.JSON(http.StatusOK, gin.H{
		"state":           state,
		"holdings":        rep.Holdings,
		"holdings_value":  rep.HoldingsValue,
		"portfolio_value": rep.PortfolioValue,
		"income_split":    rep.IncomeSplit,
	})
}

type OptionsHandler struct {
	advisor  *advisor.Advisor
	criteria options.Criteria
}

// GetOptions accepts min_volume, min_oi, max_iv, min_delta and limit query overrides.
func (h *OptionsHandler) GetOptions(c *gin.Context) {
	criteria := h.criteria
	overrides := []struct {
		key string
		dst *float64
	}{
		{"min_volume", &criteria.MinVolume},
		{"min_oi", &criteria.MinOpenInterest},
		{"max_iv", &criteria.MaxIVPct},
		{"min_delta", &criteria.MinDelta},
	}
	for _, o := range overrides {
		raw, ok := c.GetQuery(o.key)
		if !ok {
			continue
		}
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil || v < 0 {
			c.JSON(http.StatusBadRequest, gin.H{
				"error":   "Invalid query parameter",
				"details": o.key + " must be a non-negative number",
			})
			return
		}
		*o.dst = v
	}
	if raw, ok := c.GetQuery("limit"); ok {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			c.JSON(http.StatusBadRequest, gin.H{
				"error":   "Invalid query parameter",
				"details": "limit must be a non-negative integer",
			})
			return
		}
		criteria.Limit = n
	}

	rep := h.advisor.ScreenOptions(c.Request.Context(), c.Param("ticker"), criteria)
	if !rep.Available {
		c.JSON(http.StatusNotFound, gin.H{
			"error":  "No options data available",
			"ticker": rep.Ticker,
		})
		return
	}
	c.JSON(http.StatusOK, rep)
}
