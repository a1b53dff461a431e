package httpapi

import (
	"errors"
	"net/http"
	"strconv"

	"ohlcproxy/internal/query"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// HistoryHandler serves candle snapshots assembled by the query service.
type HistoryHandler struct {
	svc    *query.Service
	logger *zap.Logger
}

// GetHistory handles GET /history?symbol=EURUSD&tf=M5&limit=1000.
//
// The response is a JSON array of 5-element rows
// [periodStartSeconds, open, high, low, close], oldest first; the last row
// may be the still-open candle, whose values can change on the next call.
func (h *HistoryHandler) GetHistory(c *gin.Context) {
	symbol := c.DefaultQuery("symbol", "EURUSD")
	tf := c.DefaultQuery("tf", "M5")

	limit, err := strconv.Atoi(c.DefaultQuery("limit", "1000"))
	if err != nil {
		limit = query.DefaultLimit
	}

	candles, err := h.svc.Snapshot(symbol, tf, limit)
	if err != nil {
		if errors.Is(err, query.ErrUnknownTimeframe) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		h.logger.Error("snapshot failed",
			zap.String("symbol", symbol),
			zap.String("tf", tf),
			zap.Error(err),
		)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "history_error"})
		return
	}

	rows := make([][5]float64, 0, len(candles))
	for _, x := range candles {
		rows = append(rows, [5]float64{float64(x.PeriodStart), x.Open, x.High, x.Low, x.Close})
	}
	c.JSON(http.StatusOK, rows)
}
