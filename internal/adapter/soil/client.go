// Package soil implements domain.SoilProvider against the national soil
// survey API. The API returns numbers as unit-suffixed strings ("0.12 %",
// "31 kg/ha"); parsing strips the suffix. Soil data is advisory context on a
// forecast response, so callers treat failures here as non-fatal.
package soil

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/calyptra/agrocast/internal/domain"
)

// Client fetches point soil samples from the survey API.
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *slog.Logger
}

// NewClient creates a soil survey client.
func NewClient(baseURL string, timeout time.Duration, logger *slog.Logger) *Client {
	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		logger: logger,
	}
}

// Sample fetches the soil survey record nearest the given coordinates.
func (c *Client) Sample(ctx context.Context, lat, lon float64) (domain.SoilSample, error) {
	params := url.Values{
		"lat": {strconv.FormatFloat(lat, 'f', 4, 64)},
		"lon": {strconv.FormatFloat(lon, 'f', 4, 64)},
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"?"+params.Encode(), nil)
	if err != nil {
		return domain.SoilSample{}, fmt.Errorf("create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return domain.SoilSample{}, fmt.Errorf("soil request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return domain.SoilSample{}, fmt.Errorf("soil API error: status %d: %s", resp.StatusCode, body)
	}

	var payload response
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return domain.SoilSample{}, fmt.Errorf("decode response: %w", err)
	}

	return domain.SoilSample{
		PH:         parseUnitValue(payload.PH),
		Nitrogen:   parseUnitValue(payload.TotalNitrogen),
		Phosphorus: parseUnitValue(payload.P2O5),
		Potassium:  parseUnitValue(payload.Potassium),
	}, nil
}

// parseUnitValue reads the leading number from a unit-suffixed survey field,
// returning 0 when the field is empty or malformed.
func parseUnitValue(s string) float64 {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0
	}
	if i := strings.IndexFunc(s, func(r rune) bool {
		return (r < '0' || r > '9') && r != '.' && r != '-'
	}); i >= 0 {
		s = strings.TrimSpace(s[:i])
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return v
}

// Survey API response. All values arrive as strings.
type response struct {
	PH            string `json:"ph"`
	TotalNitrogen string `json:"total_nitrogen"`
	P2O5          string `json:"p2o5"`
	Potassium     string `json:"potassium"`
}
