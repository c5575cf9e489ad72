package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ca-overview/internal/overview"
	"ca-overview/internal/services"
	"ca-overview/shared/config"
	"ca-overview/shared/logger"
)

const testAddress = "0x48b62137edfa95a428d35c09e44256a739f6b557"

func newTestRouter(t *testing.T, launchpadURL string) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	lg, err := logger.NewLogger(logger.Config{Level: "error"})
	require.NoError(t, err)

	launchpad := services.NewLaunchpadClient(launchpadURL, 50, lg)
	agg := services.NewAggregator(launchpad, nil, overview.DefaultProfile, lg)

	router := gin.New()
	RegisterRoutes(router, lg)
	RegisterAPIRoutes(router, lg, agg)
	return router
}

func upstreamStub(t *testing.T) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/tokens/ape":
			w.Write([]byte(`{"price": "100000000"}`))
		case "/tokens/" + testAddress:
			w.Write([]byte(`{"id": "` + testAddress + `", "name": "Test", "symbol": "TST", "totalSupply": "1000000000000000000", "price": "1"}`))
		case "/tokens/" + testAddress + "/holders":
			w.Write([]byte(`{"list": [], "totalHolders": "0"}`))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
}

func TestOverviewEndpointRejectsMalformedAddress(t *testing.T) {
	upstream := upstreamStub(t)
	defer upstream.Close()
	router := newTestRouter(t, upstream.URL)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/overview/not-an-address", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestOverviewEndpointRendersReport(t *testing.T) {
	upstream := upstreamStub(t)
	defer upstream.Close()
	router := newTestRouter(t, upstream.URL)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/overview/"+testAddress, nil)
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var body struct {
		Status  string `json:"status"`
		Address string `json:"address"`
		Text    string `json:"text"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "ok", body.Status)
	assert.Equal(t, testAddress, body.Address)
	assert.Contains(t, body.Text, "Test  TST")
}

func TestOverviewEndpointUnknownToken(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer upstream.Close()
	router := newTestRouter(t, upstream.URL)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/overview/"+testAddress, nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestHealthEndpoint(t *testing.T) {
	upstream := upstreamStub(t)
	defer upstream.Close()
	router := newTestRouter(t, upstream.URL)

	cfg := &config.Config{}
	cfg.App.Environment = "staging"
	config.SetGlobalConfig(cfg)
	defer config.SetGlobalConfig(nil)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/health", nil)
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var body struct {
		Status      string `json:"status"`
		Environment string `json:"environment"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "ok", body.Status)
	assert.Equal(t, "staging", body.Environment)
}
