package api

import (
	"SilverPulse/internal/domain/models"
	"SilverPulse/internal/usecase"
	xhttp "SilverPulse/pkg/http"
	xlogger "SilverPulse/pkg/logger"

	"github.com/labstack/echo/v4"
)

// MarketHandler exposes the aggregated silver metrics over HTTP.
type MarketHandler struct {
	logger *xlogger.Logger
	agg    *usecase.MarketAggregator
}

func NewMarketHandler(logger *xlogger.Logger, agg *usecase.MarketAggregator) *MarketHandler {
	return &MarketHandler{logger: logger, agg: agg}
}

func (h *MarketHandler) RegisterRoutes(e *echo.Echo) {
	e.GET("/health", h.Health)

	g := e.Group("/api/silver")
	g.GET("/price", h.SpotPrice)
	g.GET("/history", h.History)
	g.GET("/inventory", h.Inventory)
	g.GET("/etfs", h.ETFs)
	g.GET("/margins", h.Margins)
	g.GET("/shanghai-premium", h.ShanghaiPremium)
	g.GET("/physical-premium", h.PhysicalPremium)
	g.GET("/stress-index", h.StressIndex)
	g.GET("/news", h.News)
}

func (h *MarketHandler) Health(c echo.Context) error {
	return xhttp.SuccessResponse(c, map[string]string{"status": "ok"})
}

func (h *MarketHandler) SpotPrice(c echo.Context) error {
	res, err := h.agg.GetSpotPrice(c.Request().Context())
	if err != nil {
		return h.fail(c, "spot price", err)
	}
	return xhttp.SuccessResponse(c, res)
}

func (h *MarketHandler) History(c echo.Context) error {
	req := &models.HistoryRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}
	res, err := h.agg.GetHistoricalPrices(c.Request().Context(), req.Range)
	if err != nil {
		return h.fail(c, "price history", err)
	}
	return xhttp.SuccessResponse(c, res)
}

func (h *MarketHandler) Inventory(c echo.Context) error {
	res, err := h.agg.GetComexInventory(c.Request().Context())
	if err != nil {
		return h.fail(c, "comex inventory", err)
	}
	return xhttp.SuccessResponse(c, res)
}

func (h *MarketHandler) ETFs(c echo.Context) error {
	res, err := h.agg.GetETFPrices(c.Request().Context())
	if err != nil {
		return h.fail(c, "etf prices", err)
	}
	return xhttp.SuccessResponse(c, res)
}

func (h *MarketHandler) Margins(c echo.Context) error {
	res, err := h.agg.GetCMEMargins(c.Request().Context())
	if err != nil {
		return h.fail(c, "cme margins", err)
	}
	return xhttp.SuccessResponse(c, res)
}

func (h *MarketHandler) ShanghaiPremium(c echo.Context) error {
	res, err := h.agg.GetShanghaiPremium(c.Request().Context())
	if err != nil {
		return h.fail(c, "shanghai premium", err)
	}
	return xhttp.SuccessResponse(c, res)
}

func (h *MarketHandler) PhysicalPremium(c echo.Context) error {
	res, err := h.agg.GetPhysicalPremium(c.Request().Context())
	if err != nil {
		return h.fail(c, "physical premium", err)
	}
	return xhttp.SuccessResponse(c, res)
}

func (h *MarketHandler) StressIndex(c echo.Context) error {
	res, err := h.agg.GetDeliveryStressIndex(c.Request().Context())
	if err != nil {
		return h.fail(c, "stress index", err)
	}
	return xhttp.SuccessResponse(c, res)
}

func (h *MarketHandler) News(c echo.Context) error {
	req := &models.NewsRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}
	res, err := h.agg.GetSilverNews(c.Request().Context(), req.Limit)
	if err != nil {
		return h.fail(c, "silver news", err)
	}
	return xhttp.SuccessResponse(c, res)
}

// fail maps an exhausted metric to 503 so the dashboard can show a
// "no data" state instead of a generic server error.
func (h *MarketHandler) fail(c echo.Context, what string, err error) error {
	if h.logger != nil {
		h.logger.Error(what+" request failed", xlogger.Error(err))
	}
	if models.IsExhausted(err) {
		return xhttp.AppErrorResponse(c, xhttp.UnavailableErrorf("%s unavailable: no live data and no usable cache", what).WithError(err))
	}
	return xhttp.AppErrorResponse(c, err)
}
