// Package collector wires the tick pipeline and the query API together.
package collector

import (
	"context"
	"errors"
	"net/http"
	"time"

	"ohlcproxy/config"
	"ohlcproxy/internal/aggregate"
	"ohlcproxy/internal/httpapi"
	"ohlcproxy/internal/memorystore"
	"ohlcproxy/internal/metrics"
	"ohlcproxy/internal/query"
	"ohlcproxy/internal/stream"
	"ohlcproxy/pkg/feed"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
)

const shutdownTimeout = 5 * time.Second

// Run builds the store, aggregator, feed client and HTTP server, then
// blocks until ctx is cancelled or the HTTP server fails. Ingestion and
// querying are decoupled through the store: a dead feed just means no new
// ticks while /history keeps serving.
func Run(ctx context.Context, cfg *config.Config, logger *zap.Logger) error {
	store := memorystore.NewStore()
	m := metrics.New(prometheus.DefaultRegisterer, func() float64 {
		return float64(store.CountSymbols())
	})

	agg := aggregate.New(store)
	agg.OnCandleClosed = func(string, memorystore.Timeframe) {
		m.CandlesClosed.Inc()
	}

	if cfg.Feed.URL == "" {
		logger.Warn("feed url not set, serving /history with no live feed")
	} else {
		client := feed.NewClient(cfg.Feed.URL, cfg.Feed.AuthJSON, cfg.Feed.ReconnectWait, logger)
		client.OnReconnect = m.WSReconnects.Inc
		client.SetMessageHandler(stream.MakeMessageHandler(logger, agg, m))
		go client.Run(ctx)
	}

	router := httpapi.NewRouter(query.NewService(store), logger)
	srv := &http.Server{
		Addr:    cfg.Server.Addr,
		Handler: router,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("http server listening", zap.String("addr", cfg.Server.Addr))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}
