package data

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/contactkeval/gamma-scalper/internal/logger"
)

// localCSVProvider loads the daily price table from a local CSV file.
//
// Expected columns (header names, case-insensitive):
//
//	Date,SpotPrice,CallPrice,PutPrice,CallIV,PutIV,PerpPrice[,Expiry]
//
// When the Expiry column is absent, the expiry date is derived from the
// first row's month via the configured ExpiryRule and stamped onto every
// row. Rows are sorted ascending by date before being returned, and
// DaysToExpiry is clamped at zero past expiry.
type localCSVProvider struct {
	path      string
	rule      ExpiryRule
	secondary RowProvider
}

// NewLocalCSVProvider constructs a CSV-backed row provider.
func NewLocalCSVProvider(path string, rule ExpiryRule, secondary RowProvider) RowProvider {
	return &localCSVProvider{path: path, rule: rule, secondary: secondary}
}

func (p *localCSVProvider) Secondary() RowProvider { return p.secondary }

func (p *localCSVProvider) GetRows(fromDate, toDate time.Time) ([]MarketRow, error) {
	f, err := os.Open(p.path)
	if err != nil {
		if p.secondary != nil {
			logger.Debugf("csv provider: %v, falling back to secondary", err)
			return p.secondary.GetRows(fromDate, toDate)
		}
		return nil, fmt.Errorf("open price table: %w", err)
	}
	defer f.Close()

	records, err := csv.NewReader(f).ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read price table: %w", err)
	}
	if len(records) < 2 {
		return nil, fmt.Errorf("price table %s: %w", p.path, ErrNoRows)
	}

	col, err := headerIndex(records[0])
	if err != nil {
		return nil, fmt.Errorf("price table %s: %w", p.path, err)
	}

	var rows []MarketRow
	for i, rec := range records[1:] {
		row, err := parseRow(rec, col)
		if err != nil {
			return nil, fmt.Errorf("price table %s line %d: %w", p.path, i+2, err)
		}
		if row.Date.Before(fromDate) || row.Date.After(toDate) {
			continue
		}
		rows = append(rows, row)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("price table %s: %w", p.path, ErrNoRows)
	}
	sortRows(rows)

	// Stamp expiry from the calendar rule unless the table carries its own.
	if _, ok := col["expiry"]; !ok {
		expiry, err := NextExpiry(rows[0].Date, p.rule)
		if err != nil {
			return nil, err
		}
		rows = WithExpiry(rows, expiry)
	}
	logger.Debugf("csv provider: %d rows from %s", len(rows), p.path)
	return rows, nil
}

// requiredColumns is the minimal price-table schema.
var requiredColumns = []string{
	"date", "spotprice", "callprice", "putprice", "calliv", "putiv", "perpprice",
}

func headerIndex(header []string) (map[string]int, error) {
	col := make(map[string]int, len(header))
	for i, name := range header {
		col[strings.ToLower(strings.TrimSpace(name))] = i
	}
	for _, name := range requiredColumns {
		if _, ok := col[name]; !ok {
			return nil, fmt.Errorf("missing required column %q", name)
		}
	}
	return col, nil
}

func parseRow(rec []string, col map[string]int) (MarketRow, error) {
	field := func(name string) string {
		return strings.TrimSpace(rec[col[name]])
	}

	date, err := time.Parse("2006-01-02", field("date"))
	if err != nil {
		return MarketRow{}, fmt.Errorf("bad date: %w", err)
	}

	row := MarketRow{Date: date}
	for name, dst := range map[string]*float64{
		"spotprice": &row.SpotPrice,
		"callprice": &row.CallPrice,
		"putprice":  &row.PutPrice,
		"calliv":    &row.CallIV,
		"putiv":     &row.PutIV,
		"perpprice": &row.PerpPrice,
	} {
		v, err := strconv.ParseFloat(field(name), 64)
		if err != nil {
			return MarketRow{}, fmt.Errorf("bad %s: %w", name, err)
		}
		if v < 0 {
			return MarketRow{}, fmt.Errorf("negative %s: %v", name, v)
		}
		*dst = v
	}

	if idx, ok := col["expiry"]; ok && idx < len(rec) {
		expiry, err := time.Parse("2006-01-02", strings.TrimSpace(rec[idx]))
		if err != nil {
			return MarketRow{}, fmt.Errorf("bad expiry: %w", err)
		}
		row.Expiry = expiry
		days := int(expiry.Sub(date).Hours() / 24.0)
		if days < 0 {
			days = 0
		}
		row.DaysToExpiry = days
	}
	return row, nil
}
