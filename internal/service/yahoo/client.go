package yahoo

import (
	"context"
	"fmt"
	"time"

	"SilverPulse/internal/domain/models"
	apphttp "SilverPulse/pkg/http"
	"SilverPulse/pkg/util"
)

// Quote is one parsed chart response for a single symbol.
type Quote struct {
	Symbol        string
	Price         float64
	PreviousClose float64
	Change        float64
	ChangePercent float64
}

// Client reads Yahoo's public chart API. No API key is needed; the
// endpoint rejects requests without a browser User-Agent.
type Client struct {
	baseURL string
	http    *apphttp.Client
}

// NewClient creates a Yahoo chart client.
func NewClient(baseURL string, httpClient *apphttp.Client) *Client {
	return &Client{baseURL: baseURL, http: httpClient}
}

type chartResponse struct {
	Chart struct {
		Result []struct {
			Meta struct {
				Symbol             string  `json:"symbol"`
				RegularMarketPrice float64 `json:"regularMarketPrice"`
				ChartPreviousClose float64 `json:"chartPreviousClose"`
				PreviousClose      float64 `json:"previousClose"`
			} `json:"meta"`
			Timestamp  []int64 `json:"timestamp"`
			Indicators struct {
				Quote []struct {
					Close []float64 `json:"close"`
				} `json:"quote"`
			} `json:"indicators"`
		} `json:"result"`
		Error *struct {
			Code        string `json:"code"`
			Description string `json:"description"`
		} `json:"error"`
	} `json:"chart"`
}

func (c *Client) chart(ctx context.Context, symbol, rng, interval string) (*chartResponse, error) {
	var resp chartResponse
	err := c.http.GetJSON(ctx, &apphttp.RequestOptions{
		URL: fmt.Sprintf("%s/v8/finance/chart/%s", c.baseURL, symbol),
		QueryParams: map[string]string{
			"range":    rng,
			"interval": interval,
		},
	}, &resp)
	if err != nil {
		return nil, models.NewFetchError("yahoo", err)
	}

	if resp.Chart.Error != nil {
		return nil, models.NewParseErrorf("yahoo", "%s: %s", resp.Chart.Error.Code, resp.Chart.Error.Description)
	}
	if len(resp.Chart.Result) == 0 {
		return nil, models.NewParseErrorf("yahoo", "no result for %s", symbol)
	}
	return &resp, nil
}

// Quote returns the latest price and day change for a symbol.
func (c *Client) Quote(ctx context.Context, symbol string) (Quote, error) {
	resp, err := c.chart(ctx, symbol, "5d", "1d")
	if err != nil {
		return Quote{}, err
	}

	meta := resp.Chart.Result[0].Meta
	price := meta.RegularMarketPrice
	prev := meta.ChartPreviousClose
	if prev == 0 {
		prev = meta.PreviousClose
	}
	if price == 0 || prev == 0 {
		return Quote{}, models.NewParseErrorf("yahoo", "missing price data for %s", symbol)
	}

	change := price - prev
	return Quote{
		Symbol:        symbol,
		Price:         price,
		PreviousClose: prev,
		Change:        change,
		ChangePercent: change / prev * 100,
	}, nil
}

// History returns the daily close series for a range like "1mo" or "1y",
// oldest first. Days where the market reported no close are dropped.
func (c *Client) History(ctx context.Context, symbol, rng string) ([]models.HistoricalPoint, error) {
	resp, err := c.chart(ctx, symbol, rng, "1d")
	if err != nil {
		return nil, err
	}

	result := resp.Chart.Result[0]
	if len(result.Indicators.Quote) == 0 {
		return nil, models.NewParseErrorf("yahoo", "no quote indicators for %s", symbol)
	}

	closes := result.Indicators.Quote[0].Close
	points := make([]models.HistoricalPoint, 0, len(result.Timestamp))
	for i, ts := range result.Timestamp {
		if i >= len(closes) || closes[i] <= 0 {
			continue
		}
		points = append(points, models.HistoricalPoint{
			Date:  util.DateKey(time.Unix(ts, 0)),
			Price: closes[i],
		})
	}
	return points, nil
}
