package service

import (
	"context"

	"SilverPulse/internal/domain/models"
)

// NewsAnalyzer classifies a headline's credibility and market impact.
// Implemented by the external text-classification service; tests inject a
// deterministic stub.
type NewsAnalyzer interface {
	Analyze(ctx context.Context, item models.NewsItem) (models.Classification, error)
}
