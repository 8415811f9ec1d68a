package soil

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testClient(baseURL string) *Client {
	return NewClient(baseURL, 5*time.Second, slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func TestClient_Sample_Success(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "27.7000", r.URL.Query().Get("lat"))
		assert.Equal(t, "85.3000", r.URL.Query().Get("lon"))

		_, _ = w.Write([]byte(`{
			"ph": "6.2",
			"total_nitrogen": "0.12 %",
			"p2o5": "31.5 kg/ha",
			"potassium": "118 kg/ha"
		}`))
	}))
	defer srv.Close()

	sample, err := testClient(srv.URL).Sample(context.Background(), 27.7, 85.3)
	require.NoError(t, err)

	assert.Equal(t, 6.2, sample.PH)
	assert.Equal(t, 0.12, sample.Nitrogen)
	assert.Equal(t, 31.5, sample.Phosphorus)
	assert.Equal(t, 118.0, sample.Potassium)
}

func TestClient_Sample_APIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "no survey coverage", http.StatusNotFound)
	}))
	defer srv.Close()

	_, err := testClient(srv.URL).Sample(context.Background(), 0, 0)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 404")
}

func TestParseUnitValue(t *testing.T) {
	tests := []struct {
		name     string
		in       string
		expected float64
	}{
		{"plain number", "6.2", 6.2},
		{"percent suffix", "0.12 %", 0.12},
		{"kg/ha suffix", "31.5 kg/ha", 31.5},
		{"suffix without space", "118kg/ha", 118},
		{"negative value", "-0.5 meq", -0.5},
		{"empty", "", 0},
		{"garbage", "n/a", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, parseUnitValue(tt.in))
		})
	}
}
