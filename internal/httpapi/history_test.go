package httpapi

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"ohlcproxy/internal/aggregate"
	"ohlcproxy/internal/memorystore"
	"ohlcproxy/internal/query"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestRouter(store *memorystore.Store) *gin.Engine {
	gin.SetMode(gin.TestMode)
	return NewRouter(query.NewService(store), zap.NewNop())
}

func TestGetHistory(t *testing.T) {
	store := memorystore.NewStore()
	agg := aggregate.New(store)

	// Two M1 periods for EURUSD: one closed, one still open.
	agg.Process(aggregate.Tick{Symbol: "EURUSD", Price: 1.1000, TimestampMillis: 0})
	agg.Process(aggregate.Tick{Symbol: "EURUSD", Price: 1.1050, TimestampMillis: 30_000})
	agg.Process(aggregate.Tick{Symbol: "EURUSD", Price: 1.0990, TimestampMillis: 61_000})

	router := newTestRouter(store)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/history?symbol=eurusd&tf=m1&limit=100", nil)
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var rows [][]float64
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &rows))
	require.Len(t, rows, 2)

	assert.Equal(t, []float64{0, 1.1000, 1.1050, 1.1000, 1.1050}, rows[0])
	assert.Equal(t, []float64{60, 1.0990, 1.0990, 1.0990, 1.0990}, rows[1])
}

func TestGetHistoryDefaults(t *testing.T) {
	store := memorystore.NewStore()
	agg := aggregate.New(store)
	agg.Process(aggregate.Tick{Symbol: "EURUSD", Price: 1.5, TimestampMillis: 0})

	router := newTestRouter(store)

	// No params at all: symbol=EURUSD, tf=M5, limit=1000.
	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/history", nil)
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var rows [][]float64
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &rows))
	require.Len(t, rows, 1) // the active M5 candle
	assert.Equal(t, []float64{0, 1.5, 1.5, 1.5, 1.5}, rows[0])
}

func TestGetHistoryUnknownSymbolIsEmptyArray(t *testing.T) {
	router := newTestRouter(memorystore.NewStore())

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/history?symbol=NOPE&tf=M5", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `[]`, w.Body.String())
}

func TestGetHistoryUnknownTimeframeIsClientError(t *testing.T) {
	router := newTestRouter(memorystore.NewStore())

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/history?symbol=EURUSD&tf=M7", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)

	var body map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Contains(t, body["error"], "unknown timeframe")
}

func TestGetHistoryInvalidLimitFallsBackToDefault(t *testing.T) {
	store := memorystore.NewStore()
	agg := aggregate.New(store)
	agg.Process(aggregate.Tick{Symbol: "EURUSD", Price: 1.5, TimestampMillis: 0})

	router := newTestRouter(store)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/history?tf=M1&limit=banana", nil)
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var rows [][]float64
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &rows))
	assert.Len(t, rows, 1)
}

func TestHealthz(t *testing.T) {
	router := newTestRouter(memorystore.NewStore())

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/healthz", nil)
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var body struct {
		OK   bool  `json:"ok"`
		Time int64 `json:"time"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.True(t, body.OK)
	assert.Greater(t, body.Time, int64(0))
}
