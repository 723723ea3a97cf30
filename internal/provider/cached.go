package provider

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/whitmore/dripline/internal/core"
	"github.com/whitmore/dripline/internal/storage/archive"
	"go.uber.org/zap"
)

// Cached wraps a HistoryProvider with an archive-backed cache of
// fetched daily histories, keyed per ticker per UTC day. This caches
// provider inputs only; analysis results are never persisted.
type Cached struct {
	inner  HistoryProvider
	store  archive.Storage
	logger *zap.Logger
	now    func() time.Time
}

// NewCached creates a caching wrapper around a provider.
func NewCached(inner HistoryProvider, store archive.Storage, logger *zap.Logger) *Cached {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Cached{inner: inner, store: store, logger: logger, now: time.Now}
}

// Lookup passes through to the underlying provider. Metadata is cheap
// and names can change, so it is not cached.
func (c *Cached) Lookup(ctx context.Context, ticker string) (*core.Security, error) {
	return c.inner.Lookup(ctx, ticker)
}

// History serves from the archive when today's snapshot exists,
// otherwise fetches and stores it. Archive failures degrade to a
// direct fetch; they are logged, never returned.
func (c *Cached) History(ctx context.Context, ticker string) (core.Series, error) {
	key := c.cacheKey(ticker)

	if data, err := c.store.Read(ctx, key); err == nil {
		s, derr := decodeSeries(data)
		if derr == nil {
			c.logger.Debug("history served from archive",
				zap.String("ticker", ticker),
				zap.Int("points", len(s)),
			)
			return s, nil
		}
		c.logger.Warn("corrupt archive entry, refetching",
			zap.String("key", key),
			zap.Error(derr),
		)
	}

	s, err := c.inner.History(ctx, ticker)
	if err != nil {
		return nil, err
	}

	if data, err := encodeSeries(s); err == nil {
		if werr := c.store.Write(ctx, key, data); werr != nil {
			c.logger.Warn("archive write failed",
				zap.String("key", key),
				zap.Error(werr),
			)
		}
	}
	return s, nil
}

func (c *Cached) cacheKey(ticker string) string {
	return fmt.Sprintf("history/%s/%s.json", ticker, c.now().UTC().Format("2006-01-02"))
}

// pointDTO is the archived wire form of one price point.
type pointDTO struct {
	Date  string  `json:"date"`
	Open  float64 `json:"open"`
	Close float64 `json:"close"`
}

func encodeSeries(s core.Series) ([]byte, error) {
	dtos := make([]pointDTO, len(s))
	for i, p := range s {
		dtos[i] = pointDTO{
			Date:  p.Date.Format("2006-01-02"),
			Open:  p.Open,
			Close: p.Close,
		}
	}
	return json.Marshal(dtos)
}

func decodeSeries(data []byte) (core.Series, error) {
	var dtos []pointDTO
	if err := json.Unmarshal(data, &dtos); err != nil {
		return nil, err
	}
	s := make(core.Series, len(dtos))
	for i, d := range dtos {
		date, err := time.Parse("2006-01-02", d.Date)
		if err != nil {
			return nil, err
		}
		s[i] = core.PricePoint{Date: core.Day(date), Open: d.Open, Close: d.Close}
	}
	return s, nil
}
