package econ

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/jwaldner/condor/internal/models"
)

const (
	// HTTP timeout for econ data requests
	DefaultTimeout = 10 * time.Second

	inflationDataset = "RATEINF/INFLATION_USA"
	billRatesDataset = "USTREASURY/BILLRATES"
)

// Client fetches treasury bill and inflation rates from a Quandl-style
// dataset API. It implements the API interface.
type Client struct {
	BaseURL    string
	APIKey     string
	HTTPClient *http.Client

	// now is stubbed in tests; defaults to time.Now
	now func() time.Time
}

func NewClient(baseURL, apiKey string) *Client {
	return &Client{
		BaseURL: strings.TrimSuffix(baseURL, "/"),
		APIKey:  apiKey,
		HTTPClient: &http.Client{
			Timeout: DefaultTimeout,
		},
		now: time.Now,
	}
}

// datasetResponse is the wire format of a dataset query: column names plus
// rows of values, newest row first.
type datasetResponse struct {
	Dataset struct {
		ColumnNames []string        `json:"column_names"`
		Data        [][]interface{} `json:"data"`
	} `json:"dataset"`
}

func (c *Client) fetchLatestRow(ctx context.Context, dataset string) ([]string, []interface{}, error) {
	endpoint := fmt.Sprintf("%s/datasets/%s.json?rows=1", c.BaseURL, dataset)
	if c.APIKey != "" {
		endpoint += "&api_key=" + url.QueryEscape(c.APIKey)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to build econ request: %v", err)
	}

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to fetch %s: %w", dataset, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, nil, fmt.Errorf("econ API returned status %d for %s", resp.StatusCode, dataset)
	}

	var datasetResp datasetResponse
	if err := json.NewDecoder(resp.Body).Decode(&datasetResp); err != nil {
		return nil, nil, fmt.Errorf("failed to decode %s response: %v", dataset, err)
	}

	if len(datasetResp.Dataset.Data) == 0 {
		return nil, nil, fmt.Errorf("no data returned for %s", dataset)
	}

	return datasetResp.Dataset.ColumnNames, datasetResp.Dataset.Data[0], nil
}

// GetInflationRate fetches the most recent year-over-year inflation rate
// in percent.
func (c *Client) GetInflationRate(ctx context.Context) (models.Percent, error) {
	_, row, err := c.fetchLatestRow(ctx, inflationDataset)
	if err != nil {
		return 0, err
	}

	// Row shape: [date, value]
	if len(row) < 2 {
		return 0, fmt.Errorf("malformed inflation row: %v", row)
	}
	rate, err := cellToFloat(row[1])
	if err != nil {
		return 0, fmt.Errorf("failed to parse inflation rate: %v", err)
	}
	return models.Percent(rate), nil
}

// GetNearestTBillRate fetches the most recent bill-rate curve and returns
// the yield (percent) of the tenor maturing nearest to the target date.
func (c *Client) GetNearestTBillRate(ctx context.Context, target time.Time) (models.Percent, error) {
	columns, row, err := c.fetchLatestRow(ctx, billRatesDataset)
	if err != nil {
		return 0, err
	}
	if len(columns) != len(row) {
		return 0, fmt.Errorf("malformed bill rates row: %d columns, %d values", len(columns), len(row))
	}

	weeksToTarget := target.Sub(c.now()).Hours() / (24.0 * 7.0)

	bestIdx := -1
	bestDistance := math.MaxFloat64
	for i, name := range columns {
		weeks, ok := tenorWeeks(name)
		if !ok {
			continue
		}
		distance := math.Abs(float64(weeks) - weeksToTarget)
		if distance < bestDistance {
			bestDistance = distance
			bestIdx = i
		}
	}
	if bestIdx < 0 {
		return 0, fmt.Errorf("no bill tenor columns in bill rates response")
	}

	rate, err := cellToFloat(row[bestIdx])
	if err != nil {
		return 0, fmt.Errorf("failed to parse bill rate for %q: %v", columns[bestIdx], err)
	}
	return models.Percent(rate), nil
}

// tenorWeeks extracts the tenor from a column name like
// "13 Wk Bank Discount Rate".
func tenorWeeks(column string) (int, bool) {
	fields := strings.Fields(column)
	if len(fields) < 2 || fields[1] != "Wk" {
		return 0, false
	}
	weeks, err := strconv.Atoi(fields[0])
	if err != nil {
		return 0, false
	}
	return weeks, true
}

// cellToFloat handles dataset cells arriving as JSON numbers or strings
func cellToFloat(cell interface{}) (float64, error) {
	switch v := cell.(type) {
	case float64:
		return v, nil
	case string:
		return strconv.ParseFloat(v, 64)
	}
	return 0, fmt.Errorf("unsupported cell type %T", cell)
}
