package data

import (
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/valyala/fastjson"

	"github.com/contactkeval/gamma-scalper/internal/logger"
)

// remoteRowProvider fetches the daily price table from an HTTP endpoint
// serving a JSON array of row objects:
//
//	[{"date":"2024-03-01","spot_price":...,"call_price":...,"put_price":...,
//	  "call_iv":...,"put_iv":...,"perp_price":...,"expiry":"2024-03-29"}, ...]
//
// Rate-limit responses are retried by the HTTP client; any other failure
// falls through to the secondary provider when one is configured.
type remoteRowProvider struct {
	baseURL   string
	apiKey    string
	client    *resty.Client
	secondary RowProvider
}

// NewRemoteRowProvider constructs an HTTP-backed row provider.
func NewRemoteRowProvider(baseURL, apiKey string, secondary RowProvider) RowProvider {
	client := resty.New().
		SetRetryCount(3).
		SetRetryWaitTime(500 * time.Millisecond).
		AddRetryCondition(func(r *resty.Response, err error) bool {
			return err == nil && r.StatusCode() == 429
		})
	return &remoteRowProvider{baseURL: baseURL, apiKey: apiKey, client: client, secondary: secondary}
}

func (p *remoteRowProvider) Secondary() RowProvider { return p.secondary }

func (p *remoteRowProvider) GetRows(fromDate, toDate time.Time) ([]MarketRow, error) {
	rows, err := p.fetch(fromDate, toDate)
	if err != nil {
		if p.secondary != nil {
			logger.Debugf("remote provider: %v, falling back to secondary", err)
			return p.secondary.GetRows(fromDate, toDate)
		}
		return nil, err
	}
	return rows, nil
}

func (p *remoteRowProvider) fetch(fromDate, toDate time.Time) ([]MarketRow, error) {
	resp, err := p.client.R().
		SetQueryParams(map[string]string{
			"from": fromDate.Format("2006-01-02"),
			"to":   toDate.Format("2006-01-02"),
		}).
		SetHeader("Authorization", "Bearer "+p.apiKey).
		Get(p.baseURL + "/v1/rows")
	if err != nil {
		return nil, fmt.Errorf("fetch rows: %w", err)
	}
	if resp.StatusCode() != 200 {
		return nil, fmt.Errorf("fetch rows: status %d", resp.StatusCode())
	}

	rows, err := parseRowsJSON(resp.Body())
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, ErrNoRows
	}
	sortRows(rows)
	logger.Debugf("remote provider: %d rows from %s", len(rows), p.baseURL)
	return rows, nil
}

// parseRowsJSON decodes the row array without reflection; the feed is
// polled in a tight loop in live mode, so allocation matters.
func parseRowsJSON(body []byte) ([]MarketRow, error) {
	var parser fastjson.Parser
	v, err := parser.ParseBytes(body)
	if err != nil {
		return nil, fmt.Errorf("parse rows payload: %w", err)
	}

	arr, err := v.Array()
	if err != nil {
		return nil, fmt.Errorf("rows payload is not an array: %w", err)
	}

	rows := make([]MarketRow, 0, len(arr))
	for i, item := range arr {
		date, err := time.Parse("2006-01-02", string(item.GetStringBytes("date")))
		if err != nil {
			return nil, fmt.Errorf("row %d: bad date: %w", i, err)
		}
		expiry, err := time.Parse("2006-01-02", string(item.GetStringBytes("expiry")))
		if err != nil {
			return nil, fmt.Errorf("row %d: bad expiry: %w", i, err)
		}
		row := MarketRow{
			Date:      date,
			SpotPrice: item.GetFloat64("spot_price"),
			CallPrice: item.GetFloat64("call_price"),
			PutPrice:  item.GetFloat64("put_price"),
			CallIV:    item.GetFloat64("call_iv"),
			PutIV:     item.GetFloat64("put_iv"),
			PerpPrice: item.GetFloat64("perp_price"),
			Expiry:    expiry,
		}
		days := int(expiry.Sub(date).Hours() / 24.0)
		if days < 0 {
			days = 0
		}
		row.DaysToExpiry = days
		rows = append(rows, row)
	}
	return rows, nil
}
