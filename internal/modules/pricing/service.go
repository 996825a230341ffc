// README: Pricing service: runs the engine and snapshots quotes.
package pricing

import (
	"context"
	"encoding/json"

	"go.uber.org/zap"
)

// AnalysisStore persists priced quotes. *Store satisfies it.
type AnalysisStore interface {
	SaveAnalysis(ctx context.Context, res *Result) error
	LatestAnalysis(ctx context.Context, quoteID string) (json.RawMessage, error)
}

type Service struct {
	engine   *Engine
	analyses AnalysisStore
	log      *zap.Logger
}

// NewService wires the engine. A nil analyses store disables snapshots.
func NewService(engine *Engine, analyses AnalysisStore, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{engine: engine, analyses: analyses, log: logger}
}

// Quote prices the request and, when it carries a quote id, snapshots the
// result. A failed snapshot is logged; the price is still returned.
func (s *Service) Quote(ctx context.Context, req Request) (*Result, error) {
	res, err := s.engine.Calculate(ctx, req)
	if err != nil {
		return nil, err
	}
	if req.QuoteID != "" && s.analyses != nil {
		if err := s.analyses.SaveAnalysis(ctx, res); err != nil {
			s.log.Warn("trip analysis snapshot failed",
				zap.String("quote_id", req.QuoteID), zap.Error(err))
		}
	}
	return res, nil
}

func (s *Service) LatestAnalysis(ctx context.Context, quoteID string) (json.RawMessage, error) {
	if s.analyses == nil {
		return nil, ErrAnalysisNotFound
	}
	return s.analyses.LatestAnalysis(ctx, quoteID)
}
