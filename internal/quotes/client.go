package quotes

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

var (
	ErrRateLimited    = errors.New("quote provider rate limit reached")
	ErrSymbolNotFound = errors.New("symbol not found")
	ErrNoAPIKey       = errors.New("quote provider api key not configured")
)

// Quote is the latest traded price for a symbol.
type Quote struct {
	Symbol        string
	Price         float64
	Change        float64
	ChangePercent float64
	TradingDay    string
}

// SymbolMatch is one search hit from the symbol directory.
type SymbolMatch struct {
	Symbol   string `json:"symbol"`
	Name     string `json:"name"`
	Type     string `json:"type"`
	Region   string `json:"region"`
	Currency string `json:"currency"`
}

// Client talks to an Alpha-Vantage-compatible quote API. The free tier
// throttles hard, so callers are expected to space their requests; the
// client only translates responses, it never sleeps.
type Client struct {
	baseURL string
	apiKey  string
	client  *http.Client
}

func NewClient(baseURL, apiKey string, timeout time.Duration) *Client {
	if timeout == 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		client:  &http.Client{Timeout: timeout},
	}
}

type globalQuoteResponse struct {
	GlobalQuote map[string]string `json:"Global Quote"`
	Note        string            `json:"Note"`
	Information string            `json:"Information"`
}

func (c *Client) GetQuote(ctx context.Context, symbol string) (*Quote, error) {
	symbol = strings.ToUpper(strings.TrimSpace(symbol))
	if symbol == "" {
		return nil, ErrSymbolNotFound
	}

	var decoded globalQuoteResponse
	if err := c.get(ctx, url.Values{
		"function": {"GLOBAL_QUOTE"},
		"symbol":   {symbol},
	}, &decoded); err != nil {
		return nil, err
	}
	if decoded.Note != "" || decoded.Information != "" {
		return nil, ErrRateLimited
	}
	if len(decoded.GlobalQuote) == 0 || decoded.GlobalQuote["01. symbol"] == "" {
		return nil, ErrSymbolNotFound
	}

	price, err := strconv.ParseFloat(decoded.GlobalQuote["05. price"], 64)
	if err != nil {
		return nil, fmt.Errorf("parse quote price: %w", err)
	}
	change, _ := strconv.ParseFloat(decoded.GlobalQuote["09. change"], 64)
	changePercent, _ := strconv.ParseFloat(strings.TrimSuffix(decoded.GlobalQuote["10. change percent"], "%"), 64)

	return &Quote{
		Symbol:        decoded.GlobalQuote["01. symbol"],
		Price:         price,
		Change:        change,
		ChangePercent: changePercent,
		TradingDay:    decoded.GlobalQuote["07. latest trading day"],
	}, nil
}

type searchResponse struct {
	BestMatches []map[string]string `json:"bestMatches"`
	Note        string              `json:"Note"`
	Information string              `json:"Information"`
}

func (c *Client) SearchSymbols(ctx context.Context, keywords string) ([]SymbolMatch, error) {
	keywords = strings.TrimSpace(keywords)
	if keywords == "" {
		return []SymbolMatch{}, nil
	}

	var decoded searchResponse
	if err := c.get(ctx, url.Values{
		"function": {"SYMBOL_SEARCH"},
		"keywords": {keywords},
	}, &decoded); err != nil {
		return nil, err
	}
	if decoded.Note != "" || decoded.Information != "" {
		return nil, ErrRateLimited
	}

	matches := make([]SymbolMatch, 0, len(decoded.BestMatches))
	for _, match := range decoded.BestMatches {
		matches = append(matches, SymbolMatch{
			Symbol:   match["1. symbol"],
			Name:     match["2. name"],
			Type:     match["3. type"],
			Region:   match["4. region"],
			Currency: match["8. currency"],
		})
	}
	return matches, nil
}

// ValidateSymbol checks that a symbol exists. Provider outages and rate
// limits fail open: an unreachable directory should not block users from
// recording holdings they know are real.
func (c *Client) ValidateSymbol(ctx context.Context, symbol string) (bool, error) {
	quote, err := c.GetQuote(ctx, symbol)
	if err != nil {
		if errors.Is(err, ErrSymbolNotFound) {
			return false, nil
		}
		return true, nil
	}
	return quote != nil, nil
}

func (c *Client) get(ctx context.Context, params url.Values, out any) error {
	if c.apiKey == "" {
		return ErrNoAPIKey
	}
	params.Set("apikey", c.apiKey)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/query?"+params.Encode(), nil)
	if err != nil {
		return err
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("quote provider request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusTooManyRequests {
		return ErrRateLimited
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("quote provider returned status %d", resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode quote response: %w", err)
	}
	return nil
}
