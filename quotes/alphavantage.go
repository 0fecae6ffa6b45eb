package quotes

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/shopspring/decimal"
)

const (
	defaultBaseURL  = "https://www.alphavantage.co"
	cacheExpiration = 5 * time.Minute
)

type globalQuoteResponse struct {
	GlobalQuote struct {
		Symbol string `json:"01. symbol"`
		Price  string `json:"05. price"`
	} `json:"Global Quote"`
}

type symbolSearchResponse struct {
	BestMatches []struct {
		Symbol string `json:"1. symbol"`
		Name   string `json:"2. name"`
	} `json:"bestMatches"`
}

// AlphaVantage resolves quotes against the Alpha Vantage REST API, with an
// optional Redis cache in front and an optional price-history sink behind.
type AlphaVantage struct {
	APIKey  string
	BaseURL string
	Client  *http.Client
	Cache   *redis.Client
	History HistoryWriter
}

// NewAlphaVantage builds a provider with the default endpoint and HTTP client.
func NewAlphaVantage(apiKey string, cache *redis.Client, history HistoryWriter) *AlphaVantage {
	return &AlphaVantage{
		APIKey:  apiKey,
		BaseURL: defaultBaseURL,
		Client:  &http.Client{Timeout: 10 * time.Second},
		Cache:   cache,
		History: history,
	}
}

func (p *AlphaVantage) Lookup(ctx context.Context, symbol string) (*Quote, error) {
	symbol = strings.ToUpper(strings.TrimSpace(symbol))
	if symbol == "" {
		return nil, ErrUnknownSymbol
	}

	// Check Redis cache first
	if p.Cache != nil {
		cached, err := p.Cache.Get(ctx, cacheKey(symbol)).Result()
		if err == nil {
			var quote Quote
			if err := json.Unmarshal([]byte(cached), &quote); err == nil {
				return &quote, nil
			}
		}
	}

	price, err := p.fetchPrice(ctx, symbol)
	if err != nil {
		return nil, err
	}

	name, err := p.fetchName(ctx, symbol)
	if err != nil {
		return nil, err
	}

	quote := &Quote{Symbol: symbol, Name: name, Price: price}

	if p.Cache != nil {
		if data, err := json.Marshal(quote); err == nil {
			if err := p.Cache.Set(ctx, cacheKey(symbol), data, cacheExpiration).Err(); err != nil {
				log.Println("Failed to cache quote:", err)
			}
		}
	}

	if p.History != nil {
		if err := p.History.SaveQuote(symbol, price, time.Now()); err != nil {
			log.Println("Failed to save quote history:", err)
		}
	}

	return quote, nil
}

func (p *AlphaVantage) fetchPrice(ctx context.Context, symbol string) (decimal.Decimal, error) {
	url := fmt.Sprintf("%s/query?function=GLOBAL_QUOTE&symbol=%s&apikey=%s", p.BaseURL, symbol, p.APIKey)

	var result globalQuoteResponse
	if err := p.getJSON(ctx, url, &result); err != nil {
		return decimal.Zero, err
	}

	if result.GlobalQuote.Price == "" {
		return decimal.Zero, ErrUnknownSymbol
	}

	price, err := decimal.NewFromString(result.GlobalQuote.Price)
	if err != nil || price.Sign() <= 0 {
		return decimal.Zero, fmt.Errorf("%w: bad price %q", ErrUnavailable, result.GlobalQuote.Price)
	}
	return price, nil
}

func (p *AlphaVantage) fetchName(ctx context.Context, symbol string) (string, error) {
	url := fmt.Sprintf("%s/query?function=SYMBOL_SEARCH&keywords=%s&apikey=%s", p.BaseURL, symbol, p.APIKey)

	var result symbolSearchResponse
	if err := p.getJSON(ctx, url, &result); err != nil {
		return "", err
	}

	// A quote without a resolvable name is treated the same as no quote.
	for _, match := range result.BestMatches {
		if strings.EqualFold(match.Symbol, symbol) && match.Name != "" {
			return match.Name, nil
		}
	}
	return "", ErrUnknownSymbol
}

func (p *AlphaVantage) getJSON(ctx context.Context, url string, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	client := p.Client
	if client == nil {
		client = http.DefaultClient
	}

	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%w: status %d", ErrUnavailable, resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return nil
}

func cacheKey(symbol string) string {
	return fmt.Sprintf("quote:%s", symbol)
}
